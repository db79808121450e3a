package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/polkiloo/gophershop/internal/delivery"
	domainErrors "github.com/polkiloo/gophershop/internal/domain/errors"
	"github.com/polkiloo/gophershop/internal/domain/model"
	"github.com/polkiloo/gophershop/internal/domain/repository"
)

const claimCodeAttempts = 3

// OrderUseCase encapsulates the order lifecycle.
type OrderUseCase struct {
	orders   repository.OrderRepository
	products repository.ProductRepository
	receipts repository.AssetStore
	packager *delivery.Packager
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(
	orders repository.OrderRepository,
	products repository.ProductRepository,
	stores repository.AssetStores,
	packager *delivery.Packager,
) *OrderUseCase {
	return &OrderUseCase{orders: orders, products: products, receipts: stores.Receipts, packager: packager}
}

// Place reserves the product and creates an unpaid order with a fresh claim
// code. The product reservation is a conditional update, so two buyers racing
// for the same product resolve to one order.
func (u *OrderUseCase) Place(ctx context.Context, productID, paymentMethod string) (*model.Order, error) {
	product, err := u.products.Get(ctx, productID)
	if err != nil {
		return nil, err
	}

	if err := u.products.UpdateStatus(ctx, productID, model.ProductStatusAvailable, model.ProductStatusPending); err != nil {
		return nil, err
	}

	for attempt := 0; attempt < claimCodeAttempts; attempt++ {
		id := uuid.NewString()
		order := &model.Order{
			ID:            id,
			ProductID:     product.ID,
			ProductName:   product.Name,
			Price:         product.Price,
			PaymentMethod: paymentMethod,
			Status:        model.OrderStatusUnpaid,
			ClaimCode:     claimCodeFor(id),
			CreatedAt:     time.Now(),
			UpdatedAt:     time.Now(),
		}
		err := u.orders.Create(ctx, order)
		if err == nil {
			return order, nil
		}
		if !errors.Is(err, domainErrors.ErrAlreadyExists) {
			u.releaseProduct(ctx, productID)
			return nil, err
		}
	}

	u.releaseProduct(ctx, productID)
	return nil, fmt.Errorf("%w: claim code space exhausted", domainErrors.ErrAlreadyExists)
}

// Get fetches an order by id.
func (u *OrderUseCase) Get(ctx context.Context, id string) (*model.Order, error) {
	return u.orders.Get(ctx, id)
}

// SubmitReceipt stores the payment receipt and moves the order to pending.
func (u *OrderUseCase) SubmitReceipt(ctx context.Context, orderID string, upload model.AssetUpload) (*model.Order, error) {
	if len(upload.Data) == 0 {
		return nil, fmt.Errorf("%w: receipt file is required", domainErrors.ErrValidation)
	}

	receiptName := orderID + "_" + sanitizeFileName(upload.FileName)
	if err := u.receipts.Put(ctx, receiptName, upload.Data, upload.ContentType); err != nil {
		return nil, err
	}

	order, err := u.orders.AttachReceipt(ctx, orderID, receiptName)
	if err != nil {
		u.receipts.Delete(ctx, receiptName)
		return nil, err
	}
	return order, nil
}

// Receipt returns the stored receipt bytes for review.
func (u *OrderUseCase) Receipt(ctx context.Context, name string) ([]byte, string, error) {
	return u.receipts.Get(ctx, name)
}

// Approve confirms payment: the delivery asset is verified before any state
// changes, then the order moves pending -> approved with a minted download
// token and the product is released back to the catalog. A failed release is
// rolled back so the order never holds a token it cannot serve.
func (u *OrderUseCase) Approve(ctx context.Context, orderID string, isProof bool) (*model.Order, error) {
	order, err := u.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}

	product, err := u.products.Get(ctx, order.ProductID)
	if err != nil {
		return nil, err
	}
	if err := u.packager.Verify(ctx, product); err != nil {
		return nil, err
	}

	approved, err := u.orders.Approve(ctx, orderID, delivery.MintToken(), isProof)
	if err != nil {
		return nil, err
	}

	if err := u.products.UpdateStatus(ctx, order.ProductID, model.ProductStatusPending, model.ProductStatusAvailable); err != nil {
		if errors.Is(err, domainErrors.ErrInvalidState) || errors.Is(err, domainErrors.ErrNotFound) {
			// Product already released or removed; the approval stands.
			return approved, nil
		}
		if revertErr := u.orders.RevertApproval(ctx, orderID); revertErr != nil {
			return nil, errors.Join(err, revertErr)
		}
		return nil, err
	}

	return approved, nil
}

// Download resolves a bearer token to a delivery bundle. The first download
// completes the order; later downloads of a completed order are re-served.
func (u *OrderUseCase) Download(ctx context.Context, token string) (*model.Bundle, error) {
	order, err := u.orders.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	switch order.Status {
	case model.OrderStatusApproved:
		if _, err := u.orders.Complete(ctx, order.ID); err != nil && !errors.Is(err, domainErrors.ErrInvalidState) {
			return nil, err
		}
	case model.OrderStatusCompleted:
	default:
		return nil, domainErrors.ErrNotFound
	}

	product, err := u.products.Get(ctx, order.ProductID)
	if err != nil {
		return nil, err
	}
	return u.packager.Build(ctx, product)
}

// Claim pairs an order with the buyer's chat identity via its claim code.
func (u *OrderUseCase) Claim(ctx context.Context, code string, chatID int64, username string) (*model.Order, error) {
	order, err := u.orders.GetByClaimCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return u.orders.LinkBuyer(ctx, order.ID, chatID, username)
}

// Pending returns orders awaiting payment review.
func (u *OrderUseCase) Pending(ctx context.Context) ([]model.Order, error) {
	return u.orders.ListByStatus(ctx, model.OrderStatusPending)
}

// Proofs returns approved purchases published as payment proofs.
func (u *OrderUseCase) Proofs(ctx context.Context) ([]model.Order, error) {
	all, err := u.orders.List(ctx)
	if err != nil {
		return nil, err
	}
	proofs := make([]model.Order, 0, len(all))
	for _, order := range all {
		if order.IsProof && order.ReceiptName != "" {
			proofs = append(proofs, order)
		}
	}
	return proofs, nil
}

func (u *OrderUseCase) releaseProduct(ctx context.Context, productID string) {
	u.products.UpdateStatus(ctx, productID, model.ProductStatusPending, model.ProductStatusAvailable)
}

func claimCodeFor(orderID string) string {
	return "CLAIM-" + strings.ToUpper(orderID[:8])
}
