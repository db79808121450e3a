package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/gophershop/internal/server/http/dto"
)

// CatalogHandler serves the public storefront endpoints.
type CatalogHandler struct {
	facade CatalogFacade
}

// NewCatalogHandler constructs CatalogHandler.
func NewCatalogHandler(facade CatalogFacade) *CatalogHandler {
	return &CatalogHandler{facade: facade}
}

// List handles GET /api/products.
func (h *CatalogHandler) List(c *gin.Context) {
	products, err := h.facade.Products(c.Request.Context())
	if err != nil {
		c.Status(statusFromError(err))
		return
	}

	response := dto.CatalogResponse{
		Rate:     h.facade.Rate(c.Request.Context()),
		Products: make([]dto.ProductResponse, 0, len(products)),
	}
	for _, product := range products {
		response.Products = append(response.Products, toProductResponse(product))
	}

	c.JSON(http.StatusOK, response)
}

// Get handles GET /api/products/:slug.
func (h *CatalogHandler) Get(c *gin.Context) {
	product, err := h.facade.ProductBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		c.Status(statusFromError(err))
		return
	}
	c.JSON(http.StatusOK, toProductResponse(*product))
}
