package model

import "time"

// ProductStatus describes catalog availability.
type ProductStatus string

const (
	ProductStatusAvailable ProductStatus = "available"
	ProductStatusPending   ProductStatus = "pending"
)

// DeliveryMode describes how a product is delivered after approval.
type DeliveryMode string

const (
	DeliveryModeFile DeliveryMode = "file"
	DeliveryModeLink DeliveryMode = "website_link"
)

// Product describes a digital item offered in the catalog.
type Product struct {
	ID             string
	Slug           string
	Name           string
	Price          float64
	Category       string
	SubCategory    string
	Description    string
	Status         ProductStatus
	BonusItems     []string
	ImageName      string
	AssetName      string
	WebsiteLink    string
	ExpirationDays int
	CreatedAt      time.Time
}

// Delivery reports which of the two mutually exclusive delivery modes is configured.
func (p *Product) Delivery() DeliveryMode {
	if p.WebsiteLink != "" {
		return DeliveryModeLink
	}
	return DeliveryModeFile
}
