package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/polkiloo/gophershop/internal/domain/errors"
	"github.com/polkiloo/gophershop/internal/domain/model"
	"github.com/polkiloo/gophershop/internal/domain/repository"
)

type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   pgxPool
	logger *slog.Logger
}

type productRepository struct {
	storage *Storage
}

type orderRepository struct {
	storage *Storage
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Factory methods for domain repositories.
func (s *Storage) Products() repository.ProductRepository {
	return &productRepository{storage: s}
}

func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS products (
            id TEXT PRIMARY KEY,
            slug TEXT UNIQUE NOT NULL,
            name TEXT NOT NULL,
            price DOUBLE PRECISION NOT NULL,
            category TEXT NOT NULL DEFAULT '',
            sub_category TEXT NOT NULL DEFAULT '',
            description TEXT NOT NULL DEFAULT '',
            status TEXT NOT NULL,
            bonus_items TEXT[] NOT NULL DEFAULT '{}',
            image_name TEXT NOT NULL DEFAULT '',
            asset_name TEXT NOT NULL DEFAULT '',
            website_link TEXT NOT NULL DEFAULT '',
            expiration_days INT NOT NULL DEFAULT 0,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS orders (
            id TEXT PRIMARY KEY,
            product_id TEXT NOT NULL,
            product_name TEXT NOT NULL,
            price DOUBLE PRECISION NOT NULL,
            payment_method TEXT NOT NULL,
            status TEXT NOT NULL,
            receipt_name TEXT NOT NULL DEFAULT '',
            buyer_chat_id BIGINT NOT NULL DEFAULT 0,
            buyer_username TEXT NOT NULL DEFAULT '',
            is_proof BOOLEAN NOT NULL DEFAULT FALSE,
            claim_code TEXT UNIQUE NOT NULL,
            download_token TEXT,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_orders_token ON orders(download_token) WHERE download_token IS NOT NULL`,
		`CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status, created_at DESC)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// --- ProductRepository implementation ---

const productColumns = `id, slug, name, price, category, sub_category, description, status,
       bonus_items, image_name, asset_name, website_link, expiration_days, created_at`

func scanProduct(row pgx.Row) (*model.Product, error) {
	var p model.Product
	err := row.Scan(&p.ID, &p.Slug, &p.Name, &p.Price, &p.Category, &p.SubCategory,
		&p.Description, &p.Status, &p.BonusItems, &p.ImageName, &p.AssetName,
		&p.WebsiteLink, &p.ExpirationDays, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *productRepository) Create(ctx context.Context, p *model.Product) error {
	const query = `INSERT INTO products
                   (id, slug, name, price, category, sub_category, description, status,
                    bonus_items, image_name, asset_name, website_link, expiration_days)
                   VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
                   RETURNING created_at`
	err := r.storage.pool.QueryRow(ctx, query, p.ID, p.Slug, p.Name, p.Price, p.Category,
		p.SubCategory, p.Description, p.Status, p.BonusItems, p.ImageName, p.AssetName,
		p.WebsiteLink, p.ExpirationDays).Scan(&p.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domainErrors.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *productRepository) Get(ctx context.Context, id string) (*model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id=$1`
	return scanProduct(r.storage.pool.QueryRow(ctx, query, id))
}

func (r *productRepository) GetBySlug(ctx context.Context, slug string) (*model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE slug=$1`
	return scanProduct(r.storage.pool.QueryRow(ctx, query, slug))
}

func (r *productRepository) List(ctx context.Context) ([]model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY name`
	rows, err := r.storage.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Product
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(&p.ID, &p.Slug, &p.Name, &p.Price, &p.Category, &p.SubCategory,
			&p.Description, &p.Status, &p.BonusItems, &p.ImageName, &p.AssetName,
			&p.WebsiteLink, &p.ExpirationDays, &p.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *productRepository) Update(ctx context.Context, p *model.Product) error {
	const query = `UPDATE products
                   SET slug=$2, name=$3, price=$4, category=$5, sub_category=$6,
                       description=$7, status=$8, bonus_items=$9, image_name=$10,
                       asset_name=$11, website_link=$12, expiration_days=$13
                   WHERE id=$1`
	tag, err := r.storage.pool.Exec(ctx, query, p.ID, p.Slug, p.Name, p.Price, p.Category,
		p.SubCategory, p.Description, p.Status, p.BonusItems, p.ImageName, p.AssetName,
		p.WebsiteLink, p.ExpirationDays)
	if err != nil {
		if isUniqueViolation(err) {
			return domainErrors.ErrAlreadyExists
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *productRepository) UpdateStatus(ctx context.Context, id string, from, to model.ProductStatus) error {
	const query = `UPDATE products SET status=$3 WHERE id=$1 AND status=$2`
	tag, err := r.storage.pool.Exec(ctx, query, id, from, to)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return r.storage.resolveMissedUpdate(ctx, `SELECT status FROM products WHERE id=$1`, id)
	}
	return nil
}

func (r *productRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.storage.pool.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

// --- OrderRepository implementation ---

const orderColumns = `id, product_id, product_name, price, payment_method, status,
       receipt_name, buyer_chat_id, buyer_username, is_proof, claim_code,
       download_token, created_at, updated_at`

func scanOrder(row pgx.Row) (*model.Order, error) {
	var o model.Order
	var token *string
	err := row.Scan(&o.ID, &o.ProductID, &o.ProductName, &o.Price, &o.PaymentMethod,
		&o.Status, &o.ReceiptName, &o.BuyerChatID, &o.BuyerUsername, &o.IsProof,
		&o.ClaimCode, &token, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	if token != nil {
		o.DownloadToken = *token
	}
	return &o, nil
}

func scanOrders(rows pgx.Rows) ([]model.Order, error) {
	defer rows.Close()
	var result []model.Order
	for rows.Next() {
		var o model.Order
		var token *string
		if err := rows.Scan(&o.ID, &o.ProductID, &o.ProductName, &o.Price, &o.PaymentMethod,
			&o.Status, &o.ReceiptName, &o.BuyerChatID, &o.BuyerUsername, &o.IsProof,
			&o.ClaimCode, &token, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		if token != nil {
			o.DownloadToken = *token
		}
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *orderRepository) Create(ctx context.Context, o *model.Order) error {
	const query = `INSERT INTO orders
                   (id, product_id, product_name, price, payment_method, status, claim_code)
                   VALUES ($1,$2,$3,$4,$5,$6,$7)
                   RETURNING created_at, updated_at`
	err := r.storage.pool.QueryRow(ctx, query, o.ID, o.ProductID, o.ProductName, o.Price,
		o.PaymentMethod, o.Status, o.ClaimCode).Scan(&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domainErrors.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *orderRepository) Get(ctx context.Context, id string) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id=$1`
	return scanOrder(r.storage.pool.QueryRow(ctx, query, id))
}

func (r *orderRepository) GetByClaimCode(ctx context.Context, code string) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE claim_code=$1`
	return scanOrder(r.storage.pool.QueryRow(ctx, query, strings.ToUpper(strings.TrimSpace(code))))
}

func (r *orderRepository) GetByToken(ctx context.Context, token string) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE download_token=$1`
	return scanOrder(r.storage.pool.QueryRow(ctx, query, token))
}

func (r *orderRepository) List(ctx context.Context) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC`
	rows, err := r.storage.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	return scanOrders(rows)
}

func (r *orderRepository) ListByStatus(ctx context.Context, status model.OrderStatus) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE status=$1 ORDER BY created_at DESC`
	rows, err := r.storage.pool.Query(ctx, query, status)
	if err != nil {
		return nil, err
	}
	return scanOrders(rows)
}

func (r *orderRepository) AttachReceipt(ctx context.Context, id, receiptName string) (*model.Order, error) {
	query := `UPDATE orders SET status=$3, receipt_name=$4, updated_at=NOW()
              WHERE id=$1 AND status=$2
              RETURNING ` + orderColumns
	order, err := scanOrder(r.storage.pool.QueryRow(ctx, query, id,
		model.OrderStatusUnpaid, model.OrderStatusPending, receiptName))
	if errors.Is(err, domainErrors.ErrNotFound) {
		return nil, r.resolveMissedTransition(ctx, id)
	}
	return order, err
}

func (r *orderRepository) Approve(ctx context.Context, id, token string, isProof bool) (*model.Order, error) {
	query := `UPDATE orders SET status=$3, download_token=$4, is_proof=$5, updated_at=NOW()
              WHERE id=$1 AND status=$2
              RETURNING ` + orderColumns
	order, err := scanOrder(r.storage.pool.QueryRow(ctx, query, id,
		model.OrderStatusPending, model.OrderStatusApproved, token, isProof))
	if errors.Is(err, domainErrors.ErrNotFound) {
		return nil, r.resolveMissedTransition(ctx, id)
	}
	return order, err
}

func (r *orderRepository) RevertApproval(ctx context.Context, id string) error {
	const query = `UPDATE orders SET status=$3, download_token=NULL, updated_at=NOW()
                   WHERE id=$1 AND status=$2`
	tag, err := r.storage.pool.Exec(ctx, query, id,
		model.OrderStatusApproved, model.OrderStatusPending)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return r.resolveMissedTransition(ctx, id)
	}
	return nil
}

func (r *orderRepository) Complete(ctx context.Context, id string) (*model.Order, error) {
	query := `UPDATE orders SET status=$3, updated_at=NOW()
              WHERE id=$1 AND status=$2
              RETURNING ` + orderColumns
	order, err := scanOrder(r.storage.pool.QueryRow(ctx, query, id,
		model.OrderStatusApproved, model.OrderStatusCompleted))
	if errors.Is(err, domainErrors.ErrNotFound) {
		return nil, r.resolveMissedTransition(ctx, id)
	}
	return order, err
}

func (r *orderRepository) LinkBuyer(ctx context.Context, id string, chatID int64, username string) (*model.Order, error) {
	query := `UPDATE orders SET buyer_chat_id=$2, buyer_username=$3, updated_at=NOW()
              WHERE id=$1
              RETURNING ` + orderColumns
	return scanOrder(r.storage.pool.QueryRow(ctx, query, id, chatID, username))
}

// resolveMissedTransition distinguishes a missing order from a guard mismatch
// after a conditional update touched zero rows.
func (r *orderRepository) resolveMissedTransition(ctx context.Context, id string) error {
	return r.storage.resolveMissedUpdate(ctx, `SELECT status FROM orders WHERE id=$1`, id)
}

func (s *Storage) resolveMissedUpdate(ctx context.Context, query, id string) error {
	var status string
	if err := s.pool.QueryRow(ctx, query, id).Scan(&status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domainErrors.ErrNotFound
		}
		return err
	}
	return domainErrors.ErrInvalidState
}
