package cache

import (
	"context"
	"sort"
	"sync"

	domainErrors "github.com/polkiloo/gophershop/internal/domain/errors"
	"github.com/polkiloo/gophershop/internal/domain/model"
	"github.com/polkiloo/gophershop/internal/domain/repository"
)

// Products is a write-through in-memory view over a product repository.
// The store is written before memory; Reload reconciles the view from the
// store, which is how a crash between the two writes is resolved.
type Products struct {
	store repository.ProductRepository

	mu     sync.Mutex
	byID   map[string]model.Product
	bySlug map[string]string
}

// NewProducts wraps the given store with an empty cache.
func NewProducts(store repository.ProductRepository) *Products {
	return &Products{
		store:  store,
		byID:   make(map[string]model.Product),
		bySlug: make(map[string]string),
	}
}

// Reload rebuilds the in-memory view from the backing store.
func (c *Products) Reload(ctx context.Context) error {
	products, err := c.store.List(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.byID = make(map[string]model.Product, len(products))
	c.bySlug = make(map[string]string, len(products))
	for _, p := range products {
		c.byID[p.ID] = p
		c.bySlug[p.Slug] = p.ID
	}
	return nil
}

func (c *Products) Create(ctx context.Context, p *model.Product) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.store.Create(ctx, p); err != nil {
		return err
	}
	c.byID[p.ID] = *p
	c.bySlug[p.Slug] = p.ID
	return nil
}

func (c *Products) Get(ctx context.Context, id string) (*model.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.byID[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return cloneProduct(p), nil
}

func (c *Products) GetBySlug(ctx context.Context, slug string) (*model.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id, ok := c.bySlug[slug]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	p := c.byID[id]
	return cloneProduct(p), nil
}

func (c *Products) List(ctx context.Context) ([]model.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	result := make([]model.Product, 0, len(c.byID))
	for _, p := range c.byID {
		result = append(result, *cloneProduct(p))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (c *Products) Update(ctx context.Context, p *model.Product) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	prev, ok := c.byID[p.ID]
	if !ok {
		return domainErrors.ErrNotFound
	}

	if err := c.store.Update(ctx, p); err != nil {
		return err
	}

	if prev.Slug != p.Slug {
		delete(c.bySlug, prev.Slug)
	}
	c.byID[p.ID] = *p
	c.bySlug[p.Slug] = p.ID
	return nil
}

func (c *Products) UpdateStatus(ctx context.Context, id string, from, to model.ProductStatus) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.byID[id]
	if !ok {
		return domainErrors.ErrNotFound
	}
	if p.Status != from {
		return domainErrors.ErrInvalidState
	}

	if err := c.store.UpdateStatus(ctx, id, from, to); err != nil {
		return err
	}

	p.Status = to
	c.byID[id] = p
	return nil
}

func (c *Products) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.byID[id]
	if !ok {
		return domainErrors.ErrNotFound
	}

	if err := c.store.Delete(ctx, id); err != nil {
		return err
	}

	delete(c.bySlug, p.Slug)
	delete(c.byID, id)
	return nil
}

func cloneProduct(p model.Product) *model.Product {
	cp := p
	if p.BonusItems != nil {
		cp.BonusItems = append([]string(nil), p.BonusItems...)
	}
	return &cp
}

var _ repository.ProductRepository = (*Products)(nil)
