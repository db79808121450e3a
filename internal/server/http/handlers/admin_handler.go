package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/gophershop/internal/domain/model"
	"github.com/polkiloo/gophershop/internal/server/http/dto"
	"github.com/polkiloo/gophershop/internal/server/http/middleware"
)

// AdminHandler manages the admin session and management endpoints.
type AdminHandler struct {
	facade AdminFacade
}

// NewAdminHandler constructs AdminHandler.
func NewAdminHandler(facade AdminFacade) *AdminHandler {
	return &AdminHandler{facade: facade}
}

// Login handles POST /api/admin/login.
func (h *AdminHandler) Login(c *gin.Context) {
	var req dto.AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	token, err := h.facade.AdminLogin(req.Password)
	if err != nil {
		c.Status(statusFromError(err))
		return
	}

	middleware.SetAuthCookie(c, token)
	c.Status(http.StatusOK)
}

// PendingOrders handles GET /api/admin/orders.
func (h *AdminHandler) PendingOrders(c *gin.Context) {
	orders, err := h.facade.PendingOrders(c.Request.Context())
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

// ApproveOrder handles POST /api/admin/orders/:id/approve.
func (h *AdminHandler) ApproveOrder(c *gin.Context) {
	var req dto.ApproveOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	order, err := h.facade.ApproveOrder(c.Request.Context(), c.Param("id"), req.MarkAsProof)
	if err != nil {
		c.Status(statusFromError(err))
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(*order))
}

// ListProducts handles GET /api/admin/products.
func (h *AdminHandler) ListProducts(c *gin.Context) {
	products, err := h.facade.AllProducts(c.Request.Context())
	if err != nil {
		c.Status(statusFromError(err))
		return
	}

	response := make([]dto.ProductResponse, 0, len(products))
	for _, product := range products {
		response = append(response, toProductResponse(product))
	}
	c.JSON(http.StatusOK, response)
}

// AddProduct handles POST /api/admin/products.
func (h *AdminHandler) AddProduct(c *gin.Context) {
	input, err := parseProductForm(c)
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	product, err := h.facade.AddProduct(c.Request.Context(), input)
	if err != nil {
		c.Status(statusFromError(err))
		return
	}
	c.JSON(http.StatusCreated, toProductResponse(*product))
}

// EditProduct handles PUT /api/admin/products/:id.
func (h *AdminHandler) EditProduct(c *gin.Context) {
	input, err := parseProductForm(c)
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	product, err := h.facade.EditProduct(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		c.Status(statusFromError(err))
		return
	}
	c.JSON(http.StatusOK, toProductResponse(*product))
}

// RemoveProduct handles DELETE /api/admin/products/:id.
func (h *AdminHandler) RemoveProduct(c *gin.Context) {
	if err := h.facade.RemoveProduct(c.Request.Context(), c.Param("id")); err != nil {
		c.Status(statusFromError(err))
		return
	}
	c.Status(http.StatusNoContent)
}

func parseProductForm(c *gin.Context) (model.ProductInput, error) {
	input := model.ProductInput{
		Name:        c.PostForm("name"),
		Category:    c.PostForm("category"),
		SubCategory: c.PostForm("sub_category"),
		Description: c.PostForm("description"),
		WebsiteLink: strings.TrimSpace(c.PostForm("website_link")),
	}

	if raw := c.PostForm("price"); raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return input, err
		}
		input.Price = price
	}
	if raw := c.PostForm("expiration_days"); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil {
			return input, err
		}
		input.ExpirationDays = days
	}
	for _, line := range strings.Split(c.PostForm("bonus_freebies"), "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			input.BonusItems = append(input.BonusItems, trimmed)
		}
	}

	if header, err := c.FormFile("image"); err == nil {
		upload, err := readUpload(header)
		if err != nil {
			return input, err
		}
		input.Image = upload
	}
	if header, err := c.FormFile("script"); err == nil {
		upload, err := readUpload(header)
		if err != nil {
			return input, err
		}
		input.Asset = upload
	}

	return input, nil
}
