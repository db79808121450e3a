package dto

import "time"

// PlaceOrderRequest describes the order placement payload.
type PlaceOrderRequest struct {
	PaymentMethod string `json:"payment_method"`
}

// OrderResponse describes an order snapshot.
type OrderResponse struct {
	ID            string    `json:"id"`
	ProductID     string    `json:"product_id"`
	ProductName   string    `json:"product_name"`
	Price         float64   `json:"price"`
	PaymentMethod string    `json:"payment_method,omitempty"`
	Status        string    `json:"status"`
	ClaimCode     string    `json:"claim_code"`
	ReceiptURL    string    `json:"receipt_url,omitempty"`
	IsProof       bool      `json:"is_proof,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
