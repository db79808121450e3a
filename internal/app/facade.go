package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/polkiloo/gophershop/internal/adapter/rates"
	"github.com/polkiloo/gophershop/internal/adapter/telegram"
	"github.com/polkiloo/gophershop/internal/config"
	domainErrors "github.com/polkiloo/gophershop/internal/domain/errors"
	"github.com/polkiloo/gophershop/internal/domain/model"
	pkgAuth "github.com/polkiloo/gophershop/internal/pkg/auth"
	"github.com/polkiloo/gophershop/internal/usecase"
)

const adminSubject = "admin"

// ShopFacade aggregates the shop use cases behind a single application surface.
type ShopFacade struct {
	catalog   *usecase.CatalogUseCase
	orders    *usecase.OrderUseCase
	notifier  *telegram.Notifier
	rates     rates.Provider
	tokens    pkgAuth.Strategy
	hasher    pkgAuth.PasswordHasher
	adminHash string
	baseURL   string
	logger    *slog.Logger
}

// NewShopFacade constructs the facade, hashing the admin password once.
func NewShopFacade(
	catalog *usecase.CatalogUseCase,
	orders *usecase.OrderUseCase,
	notifier *telegram.Notifier,
	rateProvider rates.Provider,
	tokens pkgAuth.Strategy,
	hasher pkgAuth.PasswordHasher,
	cfg *config.Config,
	logger *slog.Logger,
) (*ShopFacade, error) {
	adminHash, err := hasher.Hash(cfg.AdminPassword)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}
	return &ShopFacade{
		catalog:   catalog,
		orders:    orders,
		notifier:  notifier,
		rates:     rateProvider,
		tokens:    tokens,
		hasher:    hasher,
		adminHash: adminHash,
		baseURL:   cfg.PublicBaseURL,
		logger:    logger,
	}, nil
}

func (f *ShopFacade) Products(ctx context.Context) ([]model.Product, error) {
	return f.catalog.Available(ctx)
}

func (f *ShopFacade) AllProducts(ctx context.Context) ([]model.Product, error) {
	return f.catalog.All(ctx)
}

func (f *ShopFacade) ProductBySlug(ctx context.Context, slug string) (*model.Product, error) {
	return f.catalog.BySlug(ctx, slug)
}

func (f *ShopFacade) ProductImage(ctx context.Context, name string) ([]byte, string, error) {
	return f.catalog.Image(ctx, name)
}

func (f *ShopFacade) AddProduct(ctx context.Context, input model.ProductInput) (*model.Product, error) {
	return f.catalog.Add(ctx, input)
}

func (f *ShopFacade) EditProduct(ctx context.Context, id string, input model.ProductInput) (*model.Product, error) {
	return f.catalog.Edit(ctx, id, input)
}

func (f *ShopFacade) RemoveProduct(ctx context.Context, id string) error {
	return f.catalog.Remove(ctx, id)
}

// Rate returns the display conversion rate for storefront prices.
func (f *ShopFacade) Rate(ctx context.Context) float64 {
	return f.rates.Rate(ctx)
}

func (f *ShopFacade) PlaceOrder(ctx context.Context, productID, paymentMethod string) (*model.Order, error) {
	return f.orders.Place(ctx, productID, paymentMethod)
}

func (f *ShopFacade) Order(ctx context.Context, id string) (*model.Order, error) {
	return f.orders.Get(ctx, id)
}

// SubmitReceipt records the payment receipt and pings the admin chat.
func (f *ShopFacade) SubmitReceipt(ctx context.Context, orderID string, upload model.AssetUpload) (*model.Order, error) {
	order, err := f.orders.SubmitReceipt(ctx, orderID, upload)
	if err != nil {
		return nil, err
	}
	f.notifier.NotifyAdmin(ctx, fmt.Sprintf(
		"Payment receipt submitted\n\nProduct: %s\nAmount: %.2f\nClaim code: %s",
		order.ProductName, order.Price, order.ClaimCode,
	))
	return order, nil
}

func (f *ShopFacade) Receipt(ctx context.Context, name string) ([]byte, string, error) {
	return f.orders.Receipt(ctx, name)
}

// ApproveOrder confirms payment and sends the buyer their download link when
// a chat has been paired.
func (f *ShopFacade) ApproveOrder(ctx context.Context, orderID string, isProof bool) (*model.Order, error) {
	order, err := f.orders.Approve(ctx, orderID, isProof)
	if err != nil {
		return nil, err
	}
	if order.BuyerChatID != 0 {
		f.notifier.NotifyChat(ctx, order.BuyerChatID, fmt.Sprintf(
			"Your payment for '%s' has been approved! Download your files here: %s/download/%s",
			order.ProductName, f.baseURL, order.DownloadToken,
		))
	}
	return order, nil
}

func (f *ShopFacade) Download(ctx context.Context, token string) (*model.Bundle, error) {
	return f.orders.Download(ctx, token)
}

// Claim pairs an order to a buyer chat and pings the admin chat.
func (f *ShopFacade) Claim(ctx context.Context, code string, chatID int64, username string) (*model.Order, error) {
	order, err := f.orders.Claim(ctx, code, chatID, username)
	if err != nil {
		return nil, err
	}
	buyer := username
	if buyer == "" {
		buyer = "N/A"
	}
	f.notifier.NotifyAdmin(ctx, fmt.Sprintf("Order linked\n\nProduct: %s\nBuyer: @%s", order.ProductName, buyer))
	return order, nil
}

func (f *ShopFacade) PendingOrders(ctx context.Context) ([]model.Order, error) {
	return f.orders.Pending(ctx)
}

func (f *ShopFacade) Proofs(ctx context.Context) ([]model.Order, error) {
	return f.orders.Proofs(ctx)
}

// AdminLogin checks the admin password and issues a session token.
func (f *ShopFacade) AdminLogin(password string) (string, error) {
	if err := f.hasher.Compare(f.adminHash, password); err != nil {
		return "", domainErrors.ErrInvalidCredentials
	}
	return f.tokens.IssueToken(adminSubject)
}

// ParseAdminToken validates a session token issued by AdminLogin.
func (f *ShopFacade) ParseAdminToken(token string) (string, error) {
	subject, err := f.tokens.ParseToken(token)
	if err != nil {
		return "", domainErrors.ErrInvalidCredentials
	}
	if subject != adminSubject {
		return "", domainErrors.ErrInvalidCredentials
	}
	return subject, nil
}
