package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/polkiloo/gophershop/internal/config"
	"github.com/polkiloo/gophershop/internal/server/http/handlers"
	"github.com/polkiloo/gophershop/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.ShopFacade, cfg *config.Config, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.MaxMultipartMemory = cfg.MaxUploadBytes

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	catalogHandler := handlers.NewCatalogHandler(facade)
	orderHandler := handlers.NewOrderHandler(facade, facade)
	adminHandler := handlers.NewAdminHandler(facade)
	assetsHandler := handlers.NewAssetsHandler(facade)

	engine.GET("/download/:token", orderHandler.Download)
	engine.GET("/images/:name", assetsHandler.Image)
	engine.GET("/receipts/:name", assetsHandler.Receipt)

	api := engine.Group("/api")
	api.GET("/products", catalogHandler.List)
	api.GET("/products/:slug", catalogHandler.Get)
	api.POST("/products/:slug/orders", orderHandler.Place)
	api.GET("/orders/:id", orderHandler.Get)
	api.POST("/orders/:id/receipt", orderHandler.SubmitReceipt)
	api.GET("/proofs", orderHandler.Proofs)

	admin := api.Group("/admin")
	admin.POST("/login", adminHandler.Login)

	adminAuth := admin.Group("")
	adminAuth.Use(middleware.AdminRequired(facade))
	adminAuth.GET("/orders", adminHandler.PendingOrders)
	adminAuth.POST("/orders/:id/approve", adminHandler.ApproveOrder)
	adminAuth.GET("/products", adminHandler.ListProducts)
	adminAuth.POST("/products", adminHandler.AddProduct)
	adminAuth.PUT("/products/:id", adminHandler.EditProduct)
	adminAuth.DELETE("/products/:id", adminHandler.RemoveProduct)

	return engine
}
