package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/gophershop/internal/server/http/dto"
)

// OrderHandler manages buyer order endpoints.
type OrderHandler struct {
	catalog CatalogFacade
	orders  OrderFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(catalog CatalogFacade, orders OrderFacade) *OrderHandler {
	return &OrderHandler{catalog: catalog, orders: orders}
}

// Place handles POST /api/products/:slug/orders.
func (h *OrderHandler) Place(c *gin.Context) {
	var req dto.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	product, err := h.catalog.ProductBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		c.Status(statusFromError(err))
		return
	}

	order, err := h.orders.PlaceOrder(c.Request.Context(), product.ID, req.PaymentMethod)
	if err != nil {
		c.Status(statusFromError(err))
		return
	}

	c.JSON(http.StatusCreated, toOrderResponse(*order))
}

// Get handles GET /api/orders/:id.
func (h *OrderHandler) Get(c *gin.Context) {
	order, err := h.orders.Order(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Status(statusFromError(err))
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(*order))
}

// SubmitReceipt handles POST /api/orders/:id/receipt.
func (h *OrderHandler) SubmitReceipt(c *gin.Context) {
	header, err := c.FormFile("receipt")
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}
	upload, err := readUpload(header)
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	order, err := h.orders.SubmitReceipt(c.Request.Context(), c.Param("id"), *upload)
	if err != nil {
		c.Status(statusFromError(err))
		return
	}

	c.JSON(http.StatusOK, toOrderResponse(*order))
}

// Download handles GET /download/:token.
func (h *OrderHandler) Download(c *gin.Context) {
	bundle, err := h.orders.Download(c.Request.Context(), c.Param("token"))
	if err != nil {
		c.Status(statusFromError(err))
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+bundle.Name)
	c.Data(http.StatusOK, "application/zip", bundle.Data)
}

// Proofs handles GET /api/proofs.
func (h *OrderHandler) Proofs(c *gin.Context) {
	orders, err := h.orders.Proofs(c.Request.Context())
	if err != nil {
		c.Status(statusFromError(err))
		return
	}

	response := make([]dto.OrderResponse, 0, len(orders))
	for _, order := range orders {
		response = append(response, toOrderResponse(order))
	}
	c.JSON(http.StatusOK, response)
}
