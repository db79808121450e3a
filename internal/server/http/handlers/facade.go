package handlers

import (
	"context"

	"github.com/polkiloo/gophershop/internal/domain/model"
)

// CatalogFacade describes storefront capabilities required by handlers.
type CatalogFacade interface {
	Products(ctx context.Context) ([]model.Product, error)
	ProductBySlug(ctx context.Context, slug string) (*model.Product, error)
	Rate(ctx context.Context) float64
}

// OrderFacade encapsulates buyer order operations exposed via HTTP.
type OrderFacade interface {
	PlaceOrder(ctx context.Context, productID, paymentMethod string) (*model.Order, error)
	Order(ctx context.Context, id string) (*model.Order, error)
	SubmitReceipt(ctx context.Context, orderID string, upload model.AssetUpload) (*model.Order, error)
	Download(ctx context.Context, token string) (*model.Bundle, error)
	Proofs(ctx context.Context) ([]model.Order, error)
}

// AdminFacade provides management operations behind the admin session.
type AdminFacade interface {
	AdminLogin(password string) (string, error)
	ParseAdminToken(token string) (string, error)
	PendingOrders(ctx context.Context) ([]model.Order, error)
	ApproveOrder(ctx context.Context, id string, isProof bool) (*model.Order, error)
	AllProducts(ctx context.Context) ([]model.Product, error)
	AddProduct(ctx context.Context, input model.ProductInput) (*model.Product, error)
	EditProduct(ctx context.Context, id string, input model.ProductInput) (*model.Product, error)
	RemoveProduct(ctx context.Context, id string) error
}

// AssetFacade serves stored binary assets.
type AssetFacade interface {
	ProductImage(ctx context.Context, name string) ([]byte, string, error)
	Receipt(ctx context.Context, name string) ([]byte, string, error)
}

// ShopFacade aggregates the full set of operations used across handlers.
type ShopFacade interface {
	CatalogFacade
	OrderFacade
	AdminFacade
	AssetFacade
}
