package delivery

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	domainErrors "github.com/polkiloo/gophershop/internal/domain/errors"
	"github.com/polkiloo/gophershop/internal/domain/model"
	"github.com/polkiloo/gophershop/internal/domain/repository"
)

// MintToken produces an unguessable download token.
func MintToken() string {
	return uuid.NewString()
}

// Packager assembles delivery archives for purchased products.
type Packager struct {
	files repository.AssetStore
}

// NewPackager creates Packager backed by the secure file store.
func NewPackager(files repository.AssetStore) *Packager {
	return &Packager{files: files}
}

// Verify checks that everything needed to deliver the product is present.
func (p *Packager) Verify(ctx context.Context, product *model.Product) error {
	if product.Delivery() == model.DeliveryModeLink {
		return nil
	}
	if product.AssetName == "" {
		return fmt.Errorf("%w: product %s has no deliverable asset", domainErrors.ErrValidation, product.ID)
	}
	if _, _, err := p.files.Get(ctx, product.AssetName); err != nil {
		return fmt.Errorf("%w: asset %s unavailable: %v", domainErrors.ErrBackingStore, product.AssetName, err)
	}
	return nil
}

// Build assembles the in-memory zip archive for the product.
func (p *Packager) Build(ctx context.Context, product *model.Product) (*model.Bundle, error) {
	buf := &bytes.Buffer{}
	zw := zip.NewWriter(buf)

	if product.Delivery() == model.DeliveryModeLink {
		if err := writeEntry(zw, "instructions.txt", []byte(linkInstructions(product))); err != nil {
			return nil, err
		}
	} else {
		data, _, err := p.files.Get(ctx, product.AssetName)
		if err != nil {
			return nil, fmt.Errorf("%w: asset %s unavailable: %v", domainErrors.ErrBackingStore, product.AssetName, err)
		}
		entryName := strings.TrimPrefix(product.AssetName, product.ID+"_")
		if err := writeEntry(zw, entryName, data); err != nil {
			return nil, err
		}
	}

	if len(product.BonusItems) > 0 {
		if err := writeEntry(zw, "BONUS_FREEBIES.txt", []byte(bonusListing(product.BonusItems))); err != nil {
			return nil, err
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("%w: close archive: %v", domainErrors.ErrBackingStore, err)
	}

	return &model.Bundle{Name: product.Slug + ".zip", Data: buf.Bytes()}, nil
}

func writeEntry(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("%w: archive entry %s: %v", domainErrors.ErrBackingStore, name, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("%w: archive entry %s: %v", domainErrors.ErrBackingStore, name, err)
	}
	return nil
}

func linkInstructions(product *model.Product) string {
	expiration := "N/A"
	if product.ExpirationDays > 0 {
		expiration = fmt.Sprintf("%d", product.ExpirationDays)
	}
	return fmt.Sprintf(
		"Thank you for your purchase of '%s'!\n\nHere is your website link:\n%s\n\nYour access will expire in %s day(s).\n",
		product.Name, product.WebsiteLink, expiration,
	)
}

func bonusListing(items []string) string {
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, "- "+item)
	}
	return "Your Bonuses:\n" + strings.Join(lines, "\n")
}
