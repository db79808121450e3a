package test

import (
	"context"

	domainErrors "github.com/polkiloo/gophershop/internal/domain/errors"
	"github.com/polkiloo/gophershop/internal/domain/model"
)

// ShopFacadeStub simulates the application facade for HTTP layer tests.
// Unset functions fall back to benign defaults.
type ShopFacadeStub struct {
	ProductsFn      func(context.Context) ([]model.Product, error)
	ProductBySlugFn func(context.Context, string) (*model.Product, error)
	RateFn          func(context.Context) float64

	PlaceOrderFn    func(context.Context, string, string) (*model.Order, error)
	OrderFn         func(context.Context, string) (*model.Order, error)
	SubmitReceiptFn func(context.Context, string, model.AssetUpload) (*model.Order, error)
	DownloadFn      func(context.Context, string) (*model.Bundle, error)
	ProofsFn        func(context.Context) ([]model.Order, error)

	AdminLoginFn      func(string) (string, error)
	ParseAdminTokenFn func(string) (string, error)
	PendingOrdersFn   func(context.Context) ([]model.Order, error)
	ApproveOrderFn    func(context.Context, string, bool) (*model.Order, error)
	AllProductsFn     func(context.Context) ([]model.Product, error)
	AddProductFn      func(context.Context, model.ProductInput) (*model.Product, error)
	EditProductFn     func(context.Context, string, model.ProductInput) (*model.Product, error)
	RemoveProductFn   func(context.Context, string) error

	ProductImageFn func(context.Context, string) ([]byte, string, error)
	ReceiptFn      func(context.Context, string) ([]byte, string, error)
}

func (s *ShopFacadeStub) Products(ctx context.Context) ([]model.Product, error) {
	if s.ProductsFn != nil {
		return s.ProductsFn(ctx)
	}
	return nil, nil
}

func (s *ShopFacadeStub) ProductBySlug(ctx context.Context, slug string) (*model.Product, error) {
	if s.ProductBySlugFn != nil {
		return s.ProductBySlugFn(ctx, slug)
	}
	return nil, domainErrors.ErrNotFound
}

func (s *ShopFacadeStub) Rate(ctx context.Context) float64 {
	if s.RateFn != nil {
		return s.RateFn(ctx)
	}
	return 0
}

func (s *ShopFacadeStub) PlaceOrder(ctx context.Context, productID, paymentMethod string) (*model.Order, error) {
	if s.PlaceOrderFn != nil {
		return s.PlaceOrderFn(ctx, productID, paymentMethod)
	}
	return nil, domainErrors.ErrNotFound
}

func (s *ShopFacadeStub) Order(ctx context.Context, id string) (*model.Order, error) {
	if s.OrderFn != nil {
		return s.OrderFn(ctx, id)
	}
	return nil, domainErrors.ErrNotFound
}

func (s *ShopFacadeStub) SubmitReceipt(ctx context.Context, orderID string, upload model.AssetUpload) (*model.Order, error) {
	if s.SubmitReceiptFn != nil {
		return s.SubmitReceiptFn(ctx, orderID, upload)
	}
	return nil, domainErrors.ErrNotFound
}

func (s *ShopFacadeStub) Download(ctx context.Context, token string) (*model.Bundle, error) {
	if s.DownloadFn != nil {
		return s.DownloadFn(ctx, token)
	}
	return nil, domainErrors.ErrNotFound
}

func (s *ShopFacadeStub) Proofs(ctx context.Context) ([]model.Order, error) {
	if s.ProofsFn != nil {
		return s.ProofsFn(ctx)
	}
	return nil, nil
}

func (s *ShopFacadeStub) AdminLogin(password string) (string, error) {
	if s.AdminLoginFn != nil {
		return s.AdminLoginFn(password)
	}
	return "token", nil
}

func (s *ShopFacadeStub) ParseAdminToken(token string) (string, error) {
	if s.ParseAdminTokenFn != nil {
		return s.ParseAdminTokenFn(token)
	}
	return "admin", nil
}

func (s *ShopFacadeStub) PendingOrders(ctx context.Context) ([]model.Order, error) {
	if s.PendingOrdersFn != nil {
		return s.PendingOrdersFn(ctx)
	}
	return nil, nil
}

func (s *ShopFacadeStub) ApproveOrder(ctx context.Context, id string, isProof bool) (*model.Order, error) {
	if s.ApproveOrderFn != nil {
		return s.ApproveOrderFn(ctx, id, isProof)
	}
	return nil, domainErrors.ErrNotFound
}

func (s *ShopFacadeStub) AllProducts(ctx context.Context) ([]model.Product, error) {
	if s.AllProductsFn != nil {
		return s.AllProductsFn(ctx)
	}
	return nil, nil
}

func (s *ShopFacadeStub) AddProduct(ctx context.Context, input model.ProductInput) (*model.Product, error) {
	if s.AddProductFn != nil {
		return s.AddProductFn(ctx, input)
	}
	return nil, domainErrors.ErrValidation
}

func (s *ShopFacadeStub) EditProduct(ctx context.Context, id string, input model.ProductInput) (*model.Product, error) {
	if s.EditProductFn != nil {
		return s.EditProductFn(ctx, id, input)
	}
	return nil, domainErrors.ErrNotFound
}

func (s *ShopFacadeStub) RemoveProduct(ctx context.Context, id string) error {
	if s.RemoveProductFn != nil {
		return s.RemoveProductFn(ctx, id)
	}
	return nil
}

func (s *ShopFacadeStub) ProductImage(ctx context.Context, name string) ([]byte, string, error) {
	if s.ProductImageFn != nil {
		return s.ProductImageFn(ctx, name)
	}
	return nil, "", domainErrors.ErrNotFound
}

func (s *ShopFacadeStub) Receipt(ctx context.Context, name string) ([]byte, string, error) {
	if s.ReceiptFn != nil {
		return s.ReceiptFn(ctx, name)
	}
	return nil, "", domainErrors.ErrNotFound
}
