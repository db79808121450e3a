package repository

import (
	"context"

	"github.com/polkiloo/gophershop/internal/domain/model"
)

// OrderRepository describes persistence operations with orders. Transition
// methods are conditional updates keyed on the expected prior status: a call
// against an order in any other status fails with ErrInvalidState so that
// concurrent racers resolve to exactly one winner.
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	Get(ctx context.Context, id string) (*model.Order, error)
	GetByClaimCode(ctx context.Context, code string) (*model.Order, error)
	GetByToken(ctx context.Context, token string) (*model.Order, error)
	List(ctx context.Context) ([]model.Order, error)
	ListByStatus(ctx context.Context, status model.OrderStatus) ([]model.Order, error)

	// AttachReceipt moves unpaid -> pending and stores the receipt reference.
	AttachReceipt(ctx context.Context, id, receiptName string) (*model.Order, error)
	// Approve moves pending -> approved, storing download token and proof flag.
	Approve(ctx context.Context, id, token string, isProof bool) (*model.Order, error)
	// RevertApproval moves approved -> pending and clears the token. Used only
	// to roll back a half-applied approval after a backing store failure.
	RevertApproval(ctx context.Context, id string) error
	// Complete moves approved -> completed.
	Complete(ctx context.Context, id string) (*model.Order, error)
	// LinkBuyer overwrites buyer chat identity fields, any status.
	LinkBuyer(ctx context.Context, id string, chatID int64, username string) (*model.Order, error)
}
