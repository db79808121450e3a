package test

import (
	"context"

	domainErrors "github.com/polkiloo/gophershop/internal/domain/errors"
	"github.com/polkiloo/gophershop/internal/domain/repository"
)

type storedAsset struct {
	data        []byte
	contentType string
}

// AssetStoreStub keeps assets in-memory for tests.
type AssetStoreStub struct {
	Assets map[string]storedAsset
	Err    error
}

// NewAssetStoreStub constructs stub store with an initialized map.
func NewAssetStoreStub() *AssetStoreStub {
	return &AssetStoreStub{Assets: make(map[string]storedAsset)}
}

// Put stores asset bytes unless the stub has an explicit error.
func (s *AssetStoreStub) Put(ctx context.Context, name string, data []byte, contentType string) error {
	if s.Err != nil {
		return s.Err
	}
	if s.Assets == nil {
		s.Assets = make(map[string]storedAsset)
	}
	copied := make([]byte, len(data))
	copy(copied, data)
	s.Assets[name] = storedAsset{data: copied, contentType: contentType}
	return nil
}

// Get fetches asset bytes or returns not found.
func (s *AssetStoreStub) Get(ctx context.Context, name string) ([]byte, string, error) {
	if s.Err != nil {
		return nil, "", s.Err
	}
	asset, ok := s.Assets[name]
	if !ok {
		return nil, "", domainErrors.ErrNotFound
	}
	return asset.data, asset.contentType, nil
}

// Delete removes an asset; missing assets are ignored.
func (s *AssetStoreStub) Delete(ctx context.Context, name string) error {
	if s.Err != nil {
		return s.Err
	}
	delete(s.Assets, name)
	return nil
}

var _ repository.AssetStore = (*AssetStoreStub)(nil)
