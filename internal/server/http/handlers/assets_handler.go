package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// AssetsHandler serves stored listing images and receipts.
type AssetsHandler struct {
	facade AssetFacade
}

// NewAssetsHandler constructs AssetsHandler.
func NewAssetsHandler(facade AssetFacade) *AssetsHandler {
	return &AssetsHandler{facade: facade}
}

// Image handles GET /images/:name.
func (h *AssetsHandler) Image(c *gin.Context) {
	data, contentType, err := h.facade.ProductImage(c.Request.Context(), c.Param("name"))
	if err != nil {
		c.Status(statusFromError(err))
		return
	}
	c.Data(http.StatusOK, contentType, data)
}

// Receipt handles GET /receipts/:name.
func (h *AssetsHandler) Receipt(c *gin.Context) {
	data, contentType, err := h.facade.Receipt(c.Request.Context(), c.Param("name"))
	if err != nil {
		c.Status(statusFromError(err))
		return
	}
	c.Data(http.StatusOK, contentType, data)
}
