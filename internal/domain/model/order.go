package model

import "time"

// OrderStatus describes the purchase lifecycle.
type OrderStatus string

const (
	OrderStatusUnpaid    OrderStatus = "unpaid"
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusApproved  OrderStatus = "approved"
	OrderStatusCompleted OrderStatus = "completed"
)

// orderTransitions is the closed set of allowed forward edges.
var orderTransitions = map[OrderStatus]OrderStatus{
	OrderStatusUnpaid:   OrderStatusPending,
	OrderStatusPending:  OrderStatusApproved,
	OrderStatusApproved: OrderStatusCompleted,
}

// CanTransition reports whether moving from one status to another is a listed edge.
func CanTransition(from, to OrderStatus) bool {
	next, ok := orderTransitions[from]
	return ok && next == to
}

// Order describes a purchase, snapshotting product name and price at order time.
type Order struct {
	ID            string
	ProductID     string
	ProductName   string
	Price         float64
	PaymentMethod string
	Status        OrderStatus
	ReceiptName   string
	BuyerChatID   int64
	BuyerUsername string
	IsProof       bool
	ClaimCode     string
	DownloadToken string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
