package filestore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	domainErrors "github.com/polkiloo/gophershop/internal/domain/errors"
	"github.com/polkiloo/gophershop/internal/domain/repository"
)

const contentTypeSuffix = ".ctype"

// Store keeps binary assets as files under a single directory.
type Store struct {
	root string
}

// NewStore creates the backing directory and returns a Store over it.
func NewStore(root string) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create asset dir: %v", domainErrors.ErrBackingStore, err)
	}
	return &Store{root: root}, nil
}

// Put writes asset bytes and records the content type alongside.
func (s *Store) Put(ctx context.Context, name string, data []byte, contentType string) error {
	path, err := s.resolve(name)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("%w: write asset: %v", domainErrors.ErrBackingStore, err)
	}
	if err := os.WriteFile(path+contentTypeSuffix, []byte(contentType), 0o644); err != nil {
		return fmt.Errorf("%w: write asset type: %v", domainErrors.ErrBackingStore, err)
	}
	return nil
}

// Get reads asset bytes and their recorded content type.
func (s *Store) Get(ctx context.Context, name string) ([]byte, string, error) {
	path, err := s.resolve(name)
	if err != nil {
		return nil, "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", domainErrors.ErrNotFound
		}
		return nil, "", fmt.Errorf("%w: read asset: %v", domainErrors.ErrBackingStore, err)
	}
	contentType := "application/octet-stream"
	if raw, err := os.ReadFile(path + contentTypeSuffix); err == nil && len(raw) > 0 {
		contentType = string(raw)
	}
	return data, contentType, nil
}

// Delete removes an asset; a missing asset is not an error.
func (s *Store) Delete(ctx context.Context, name string) error {
	path, err := s.resolve(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%w: delete asset: %v", domainErrors.ErrBackingStore, err)
	}
	if err := os.Remove(path + contentTypeSuffix); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%w: delete asset type: %v", domainErrors.ErrBackingStore, err)
	}
	return nil
}

func (s *Store) resolve(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("%w: invalid asset name %q", domainErrors.ErrValidation, name)
	}
	return filepath.Join(s.root, name), nil
}

var _ repository.AssetStore = (*Store)(nil)

// NewStores lays out the per-kind asset directories under root.
func NewStores(root string) (repository.AssetStores, error) {
	images, err := NewStore(filepath.Join(root, "images"))
	if err != nil {
		return repository.AssetStores{}, err
	}
	receipts, err := NewStore(filepath.Join(root, "receipts"))
	if err != nil {
		return repository.AssetStores{}, err
	}
	files, err := NewStore(filepath.Join(root, "files"))
	if err != nil {
		return repository.AssetStores{}, err
	}
	return repository.AssetStores{Images: images, Receipts: receipts, Files: files}, nil
}
