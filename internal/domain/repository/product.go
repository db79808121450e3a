package repository

import (
	"context"

	"github.com/polkiloo/gophershop/internal/domain/model"
)

// ProductRepository describes persistence operations with catalog products.
type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	Get(ctx context.Context, id string) (*model.Product, error)
	GetBySlug(ctx context.Context, slug string) (*model.Product, error)
	List(ctx context.Context) ([]model.Product, error)
	Update(ctx context.Context, product *model.Product) error
	// UpdateStatus flips product status only when the current status matches from.
	UpdateStatus(ctx context.Context, id string, from, to model.ProductStatus) error
	Delete(ctx context.Context, id string) error
}
