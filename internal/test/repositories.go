package test

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	domainErrors "github.com/polkiloo/gophershop/internal/domain/errors"
	"github.com/polkiloo/gophershop/internal/domain/model"
	"github.com/polkiloo/gophershop/internal/domain/repository"
)

// ProductRepositoryStub stores products in-memory for tests.
type ProductRepositoryStub struct {
	mu       sync.Mutex
	Products map[string]*model.Product
	Err      error
}

// NewProductRepositoryStub constructs stub repository with an initialized map.
func NewProductRepositoryStub() *ProductRepositoryStub {
	return &ProductRepositoryStub{Products: make(map[string]*model.Product)}
}

// Create registers product unless its slug is taken or stub has explicit error.
func (s *ProductRepositoryStub) Create(ctx context.Context, product *model.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if s.Products == nil {
		s.Products = make(map[string]*model.Product)
	}
	for _, existing := range s.Products {
		if existing.Slug == product.Slug {
			return domainErrors.ErrAlreadyExists
		}
	}
	copied := *product
	s.Products[product.ID] = &copied
	return nil
}

// Get fetches product by id or returns not found.
func (s *ProductRepositoryStub) Get(ctx context.Context, id string) (*model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if product, ok := s.Products[id]; ok {
		copied := *product
		return &copied, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetBySlug fetches product by slug or returns not found.
func (s *ProductRepositoryStub) GetBySlug(ctx context.Context, slug string) (*model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for _, product := range s.Products {
		if product.Slug == slug {
			copied := *product
			return &copied, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

// List returns all products ordered by creation time.
func (s *ProductRepositoryStub) List(ctx context.Context) ([]model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	products := make([]model.Product, 0, len(s.Products))
	for _, product := range s.Products {
		products = append(products, *product)
	}
	sort.Slice(products, func(i, j int) bool {
		return products[i].CreatedAt.After(products[j].CreatedAt)
	})
	return products, nil
}

// Update overwrites the stored product, enforcing slug uniqueness.
func (s *ProductRepositoryStub) Update(ctx context.Context, product *model.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.Products[product.ID]; !ok {
		return domainErrors.ErrNotFound
	}
	for id, existing := range s.Products {
		if id != product.ID && existing.Slug == product.Slug {
			return domainErrors.ErrAlreadyExists
		}
	}
	copied := *product
	s.Products[product.ID] = &copied
	return nil
}

// UpdateStatus flips status only when the current status matches from.
func (s *ProductRepositoryStub) UpdateStatus(ctx context.Context, id string, from, to model.ProductStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	product, ok := s.Products[id]
	if !ok {
		return domainErrors.ErrNotFound
	}
	if product.Status != from {
		return domainErrors.ErrInvalidState
	}
	product.Status = to
	return nil
}

// Delete removes the product or returns not found.
func (s *ProductRepositoryStub) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.Products[id]; !ok {
		return domainErrors.ErrNotFound
	}
	delete(s.Products, id)
	return nil
}

// OrderRepositoryStub stores orders in-memory for tests and mirrors the
// conditional transition semantics of the real repository.
type OrderRepositoryStub struct {
	mu     sync.Mutex
	Orders map[string]*model.Order
	Err    error
}

// NewOrderRepositoryStub constructs stub repository with an initialized map.
func NewOrderRepositoryStub() *OrderRepositoryStub {
	return &OrderRepositoryStub{Orders: make(map[string]*model.Order)}
}

// Create registers order unless its claim code is taken.
func (s *OrderRepositoryStub) Create(ctx context.Context, order *model.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if s.Orders == nil {
		s.Orders = make(map[string]*model.Order)
	}
	for _, existing := range s.Orders {
		if existing.ClaimCode == order.ClaimCode {
			return domainErrors.ErrAlreadyExists
		}
	}
	copied := *order
	s.Orders[order.ID] = &copied
	return nil
}

// Get fetches order by id or returns not found.
func (s *OrderRepositoryStub) Get(ctx context.Context, id string) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if order, ok := s.Orders[id]; ok {
		copied := *order
		return &copied, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByClaimCode fetches order by normalized claim code.
func (s *OrderRepositoryStub) GetByClaimCode(ctx context.Context, code string) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	normalized := strings.ToUpper(strings.TrimSpace(code))
	for _, order := range s.Orders {
		if order.ClaimCode == normalized {
			copied := *order
			return &copied, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

// GetByToken fetches order by download token.
func (s *OrderRepositoryStub) GetByToken(ctx context.Context, token string) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for _, order := range s.Orders {
		if order.DownloadToken != "" && order.DownloadToken == token {
			copied := *order
			return &copied, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

// List returns all orders ordered by creation time.
func (s *OrderRepositoryStub) List(ctx context.Context) ([]model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	orders := make([]model.Order, 0, len(s.Orders))
	for _, order := range s.Orders {
		orders = append(orders, *order)
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}

// ListByStatus returns orders in the requested status.
func (s *OrderRepositoryStub) ListByStatus(ctx context.Context, status model.OrderStatus) ([]model.Order, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	filtered := make([]model.Order, 0, len(all))
	for _, order := range all {
		if order.Status == status {
			filtered = append(filtered, order)
		}
	}
	return filtered, nil
}

// AttachReceipt moves unpaid -> pending and stores the receipt reference.
func (s *OrderRepositoryStub) AttachReceipt(ctx context.Context, id, receiptName string) (*model.Order, error) {
	return s.transition(id, model.OrderStatusUnpaid, func(order *model.Order) {
		order.Status = model.OrderStatusPending
		order.ReceiptName = receiptName
	})
}

// Approve moves pending -> approved, storing download token and proof flag.
func (s *OrderRepositoryStub) Approve(ctx context.Context, id, token string, isProof bool) (*model.Order, error) {
	return s.transition(id, model.OrderStatusPending, func(order *model.Order) {
		order.Status = model.OrderStatusApproved
		order.DownloadToken = token
		order.IsProof = isProof
	})
}

// RevertApproval moves approved -> pending and clears the token.
func (s *OrderRepositoryStub) RevertApproval(ctx context.Context, id string) error {
	_, err := s.transition(id, model.OrderStatusApproved, func(order *model.Order) {
		order.Status = model.OrderStatusPending
		order.DownloadToken = ""
	})
	return err
}

// Complete moves approved -> completed.
func (s *OrderRepositoryStub) Complete(ctx context.Context, id string) (*model.Order, error) {
	return s.transition(id, model.OrderStatusApproved, func(order *model.Order) {
		order.Status = model.OrderStatusCompleted
	})
}

// LinkBuyer overwrites buyer chat identity fields regardless of status.
func (s *OrderRepositoryStub) LinkBuyer(ctx context.Context, id string, chatID int64, username string) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	order, ok := s.Orders[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	order.BuyerChatID = chatID
	order.BuyerUsername = username
	order.UpdatedAt = time.Now()
	copied := *order
	return &copied, nil
}

func (s *OrderRepositoryStub) transition(id string, from model.OrderStatus, apply func(*model.Order)) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	order, ok := s.Orders[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	if order.Status != from {
		return nil, domainErrors.ErrInvalidState
	}
	apply(order)
	order.UpdatedAt = time.Now()
	copied := *order
	return &copied, nil
}

// FactoryStub aggregates repository stubs.
type FactoryStub struct {
	ProductRepo *ProductRepositoryStub
	OrderRepo   *OrderRepositoryStub
}

// NewFactoryStub constructs factory with fresh repository stubs.
func NewFactoryStub() *FactoryStub {
	return &FactoryStub{
		ProductRepo: NewProductRepositoryStub(),
		OrderRepo:   NewOrderRepositoryStub(),
	}
}

// Products returns the product repository stub.
func (s *FactoryStub) Products() repository.ProductRepository {
	return s.ProductRepo
}

// Orders returns the order repository stub.
func (s *FactoryStub) Orders() repository.OrderRepository {
	return s.OrderRepo
}

var _ repository.ProductRepository = (*ProductRepositoryStub)(nil)
var _ repository.OrderRepository = (*OrderRepositoryStub)(nil)
var _ repository.Factory = (*FactoryStub)(nil)
