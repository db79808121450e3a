package repository

import "context"

// AssetStore describes binary asset persistence for a single bucket.
type AssetStore interface {
	Put(ctx context.Context, name string, data []byte, contentType string) error
	Get(ctx context.Context, name string) ([]byte, string, error)
	Delete(ctx context.Context, name string) error
}

// AssetStores groups the three asset buckets used by the shop.
type AssetStores struct {
	Images   AssetStore
	Receipts AssetStore
	Files    AssetStore
}
