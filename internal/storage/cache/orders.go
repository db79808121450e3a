package cache

import (
	"context"
	"sort"
	"strings"
	"sync"

	domainErrors "github.com/polkiloo/gophershop/internal/domain/errors"
	"github.com/polkiloo/gophershop/internal/domain/model"
	"github.com/polkiloo/gophershop/internal/domain/repository"
)

// Orders is a write-through in-memory view over an order repository. All
// mutations run under a single lock, and every transition delegates to the
// store's conditional update before the view is touched, so a racing caller
// observes ErrInvalidState rather than a double transition.
type Orders struct {
	store repository.OrderRepository

	mu      sync.Mutex
	byID    map[string]model.Order
	byClaim map[string]string
	byToken map[string]string
}

// NewOrders wraps the given store with an empty cache.
func NewOrders(store repository.OrderRepository) *Orders {
	return &Orders{
		store:   store,
		byID:    make(map[string]model.Order),
		byClaim: make(map[string]string),
		byToken: make(map[string]string),
	}
}

// Reload rebuilds the in-memory view from the backing store.
func (c *Orders) Reload(ctx context.Context) error {
	orders, err := c.store.List(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.byID = make(map[string]model.Order, len(orders))
	c.byClaim = make(map[string]string, len(orders))
	c.byToken = make(map[string]string, len(orders))
	for _, o := range orders {
		c.index(o)
	}
	return nil
}

// index records an order in all maps. Callers hold the lock.
func (c *Orders) index(o model.Order) {
	c.byID[o.ID] = o
	if o.ClaimCode != "" {
		c.byClaim[o.ClaimCode] = o.ID
	}
	if o.DownloadToken != "" {
		c.byToken[o.DownloadToken] = o.ID
	}
}

func (c *Orders) Create(ctx context.Context, o *model.Order) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, taken := c.byClaim[o.ClaimCode]; taken {
		return domainErrors.ErrAlreadyExists
	}

	if err := c.store.Create(ctx, o); err != nil {
		return err
	}
	c.index(*o)
	return nil
}

func (c *Orders) Get(ctx context.Context, id string) (*model.Order, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lookup(id)
}

func (c *Orders) GetByClaimCode(ctx context.Context, code string) (*model.Order, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id, ok := c.byClaim[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return c.lookup(id)
}

func (c *Orders) GetByToken(ctx context.Context, token string) (*model.Order, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id, ok := c.byToken[token]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return c.lookup(id)
}

func (c *Orders) List(ctx context.Context) ([]model.Order, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	result := make([]model.Order, 0, len(c.byID))
	for _, o := range c.byID {
		result = append(result, o)
	}
	sortOrders(result)
	return result, nil
}

func (c *Orders) ListByStatus(ctx context.Context, status model.OrderStatus) ([]model.Order, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var result []model.Order
	for _, o := range c.byID {
		if o.Status == status {
			result = append(result, o)
		}
	}
	sortOrders(result)
	return result, nil
}

func (c *Orders) AttachReceipt(ctx context.Context, id, receiptName string) (*model.Order, error) {
	return c.transition(id, func() (*model.Order, error) {
		return c.store.AttachReceipt(ctx, id, receiptName)
	})
}

func (c *Orders) Approve(ctx context.Context, id, token string, isProof bool) (*model.Order, error) {
	return c.transition(id, func() (*model.Order, error) {
		return c.store.Approve(ctx, id, token, isProof)
	})
}

func (c *Orders) RevertApproval(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	prev, ok := c.byID[id]
	if !ok {
		return domainErrors.ErrNotFound
	}

	if err := c.store.RevertApproval(ctx, id); err != nil {
		return err
	}

	delete(c.byToken, prev.DownloadToken)
	prev.DownloadToken = ""
	prev.Status = model.OrderStatusPending
	c.byID[id] = prev
	return nil
}

func (c *Orders) Complete(ctx context.Context, id string) (*model.Order, error) {
	return c.transition(id, func() (*model.Order, error) {
		return c.store.Complete(ctx, id)
	})
}

func (c *Orders) LinkBuyer(ctx context.Context, id string, chatID int64, username string) (*model.Order, error) {
	return c.transition(id, func() (*model.Order, error) {
		return c.store.LinkBuyer(ctx, id, chatID, username)
	})
}

// transition applies a store mutation under the cache lock and replaces the
// cached record with the store's view of the result.
func (c *Orders) transition(id string, apply func() (*model.Order, error)) (*model.Order, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.byID[id]; !ok {
		return nil, domainErrors.ErrNotFound
	}

	updated, err := apply()
	if err != nil {
		return nil, err
	}

	prev := c.byID[id]
	if prev.DownloadToken != "" && prev.DownloadToken != updated.DownloadToken {
		delete(c.byToken, prev.DownloadToken)
	}
	c.index(*updated)

	result := *updated
	return &result, nil
}

func (c *Orders) lookup(id string) (*model.Order, error) {
	o, ok := c.byID[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	result := o
	return &result, nil
}

func sortOrders(orders []model.Order) {
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
}

var _ repository.OrderRepository = (*Orders)(nil)
