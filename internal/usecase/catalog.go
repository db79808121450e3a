package usecase

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	domainErrors "github.com/polkiloo/gophershop/internal/domain/errors"
	"github.com/polkiloo/gophershop/internal/domain/model"
	"github.com/polkiloo/gophershop/internal/domain/repository"
)

// CatalogUseCase encapsulates catalog management logic.
type CatalogUseCase struct {
	products repository.ProductRepository
	images   repository.AssetStore
	files    repository.AssetStore
}

// NewCatalogUseCase constructs CatalogUseCase.
func NewCatalogUseCase(products repository.ProductRepository, stores repository.AssetStores) *CatalogUseCase {
	return &CatalogUseCase{products: products, images: stores.Images, files: stores.Files}
}

// Available returns products visible on the storefront.
func (u *CatalogUseCase) Available(ctx context.Context) ([]model.Product, error) {
	all, err := u.products.List(ctx)
	if err != nil {
		return nil, err
	}
	visible := make([]model.Product, 0, len(all))
	for _, product := range all {
		if product.Status == model.ProductStatusAvailable {
			visible = append(visible, product)
		}
	}
	return visible, nil
}

// All returns every product regardless of status.
func (u *CatalogUseCase) All(ctx context.Context) ([]model.Product, error) {
	return u.products.List(ctx)
}

// BySlug fetches a single product by its slug.
func (u *CatalogUseCase) BySlug(ctx context.Context, slug string) (*model.Product, error) {
	return u.products.GetBySlug(ctx, slug)
}

// Get fetches a single product by id.
func (u *CatalogUseCase) Get(ctx context.Context, id string) (*model.Product, error) {
	return u.products.Get(ctx, id)
}

// Image returns the stored listing image for a product.
func (u *CatalogUseCase) Image(ctx context.Context, name string) ([]byte, string, error) {
	return u.images.Get(ctx, name)
}

// Add creates a product from the input, storing its uploads.
func (u *CatalogUseCase) Add(ctx context.Context, input model.ProductInput) (*model.Product, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if input.Image == nil {
		return nil, fmt.Errorf("%w: product image is required", domainErrors.ErrValidation)
	}

	id := uuid.NewString()
	slug, err := uniqueSlug(ctx, u.products, input.Name, "")
	if err != nil {
		return nil, err
	}

	product := &model.Product{
		ID:             id,
		Slug:           slug,
		Name:           strings.TrimSpace(input.Name),
		Price:          input.Price,
		Category:       input.Category,
		SubCategory:    input.SubCategory,
		Description:    input.Description,
		Status:         model.ProductStatusAvailable,
		BonusItems:     input.BonusItems,
		WebsiteLink:    input.WebsiteLink,
		ExpirationDays: input.ExpirationDays,
		CreatedAt:      time.Now(),
	}

	product.ImageName = id + "_" + sanitizeFileName(input.Image.FileName)
	if err := u.images.Put(ctx, product.ImageName, input.Image.Data, input.Image.ContentType); err != nil {
		return nil, err
	}

	if input.Asset != nil {
		product.AssetName = id + "_" + slug + filepath.Ext(input.Asset.FileName)
		if err := u.files.Put(ctx, product.AssetName, input.Asset.Data, input.Asset.ContentType); err != nil {
			u.images.Delete(ctx, product.ImageName)
			return nil, err
		}
	}

	if err := u.products.Create(ctx, product); err != nil {
		u.images.Delete(ctx, product.ImageName)
		if product.AssetName != "" {
			u.files.Delete(ctx, product.AssetName)
		}
		return nil, err
	}

	return product, nil
}

// Edit updates product fields and replaces uploads when new ones are supplied.
func (u *CatalogUseCase) Edit(ctx context.Context, id string, input model.ProductInput) (*model.Product, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	product, err := u.products.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if trimmed := strings.TrimSpace(input.Name); trimmed != product.Name {
		slug, err := uniqueSlug(ctx, u.products, trimmed, id)
		if err != nil {
			return nil, err
		}
		product.Name = trimmed
		product.Slug = slug
	}
	product.Price = input.Price
	product.Category = input.Category
	product.SubCategory = input.SubCategory
	product.Description = input.Description
	product.BonusItems = input.BonusItems
	product.WebsiteLink = input.WebsiteLink
	product.ExpirationDays = input.ExpirationDays
	if product.WebsiteLink != "" && input.Asset == nil {
		if product.AssetName != "" {
			u.files.Delete(ctx, product.AssetName)
			product.AssetName = ""
		}
	}

	oldImage, oldAsset := product.ImageName, product.AssetName

	if input.Image != nil {
		product.ImageName = id + "_" + sanitizeFileName(input.Image.FileName)
		if err := u.images.Put(ctx, product.ImageName, input.Image.Data, input.Image.ContentType); err != nil {
			return nil, err
		}
	}
	if input.Asset != nil {
		product.AssetName = id + "_" + product.Slug + filepath.Ext(input.Asset.FileName)
		if err := u.files.Put(ctx, product.AssetName, input.Asset.Data, input.Asset.ContentType); err != nil {
			return nil, err
		}
	}

	if err := u.products.Update(ctx, product); err != nil {
		return nil, err
	}

	if input.Image != nil && oldImage != "" && oldImage != product.ImageName {
		u.images.Delete(ctx, oldImage)
	}
	if input.Asset != nil && oldAsset != "" && oldAsset != product.AssetName {
		u.files.Delete(ctx, oldAsset)
	}

	return product, nil
}

// Remove deletes a product and its stored uploads.
func (u *CatalogUseCase) Remove(ctx context.Context, id string) error {
	product, err := u.products.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := u.products.Delete(ctx, id); err != nil {
		return err
	}
	if product.ImageName != "" {
		u.images.Delete(ctx, product.ImageName)
	}
	if product.AssetName != "" {
		u.files.Delete(ctx, product.AssetName)
	}
	return nil
}

func validateInput(input model.ProductInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return fmt.Errorf("%w: product name is required", domainErrors.ErrValidation)
	}
	if input.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", domainErrors.ErrValidation)
	}
	if input.WebsiteLink != "" && input.Asset != nil {
		return fmt.Errorf("%w: website link and deliverable file are mutually exclusive", domainErrors.ErrValidation)
	}
	return nil
}

var fileNameUnsafe = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

func sanitizeFileName(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	base = fileNameUnsafe.ReplaceAllString(base, "-")
	base = strings.Trim(base, "-.")
	if base == "" {
		return "upload"
	}
	return base
}
