package dto

import "time"

// ProductResponse describes a catalog product entry.
type ProductResponse struct {
	ID             string    `json:"id"`
	Slug           string    `json:"slug"`
	Name           string    `json:"name"`
	Price          float64   `json:"price"`
	Category       string    `json:"category"`
	SubCategory    string    `json:"sub_category,omitempty"`
	Description    string    `json:"description,omitempty"`
	Status         string    `json:"status"`
	BonusItems     []string  `json:"bonus_items,omitempty"`
	ImageURL       string    `json:"image_url,omitempty"`
	DeliveryMode   string    `json:"delivery_mode"`
	ExpirationDays int       `json:"expiration_days,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// CatalogResponse is the storefront listing with the display conversion rate.
type CatalogResponse struct {
	Rate     float64           `json:"usd_rate"`
	Products []ProductResponse `json:"products"`
}
