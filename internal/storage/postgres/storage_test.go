package postgres

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	pgxmockv3 "github.com/pashagolub/pgxmock/v3"

	domainErrors "github.com/polkiloo/gophershop/internal/domain/errors"
	"github.com/polkiloo/gophershop/internal/domain/model"
)

func newMockStorage(t *testing.T) (*Storage, pgxmockv3.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmockv3.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	storage := &Storage{pool: mock, logger: logger}
	return storage, mock
}

func expectSchema(mock pgxmockv3.PgxPoolIface) {
	tableStatements := []string{
		"CREATE TABLE IF NOT EXISTS products",
		"CREATE TABLE IF NOT EXISTS orders",
	}
	for _, stmt := range tableStatements {
		mock.ExpectExec(stmt).WillReturnResult(pgxmockv3.NewResult("CREATE", 0))
	}
	mock.ExpectExec("CREATE UNIQUE INDEX IF NOT EXISTS idx_orders_token").WillReturnResult(pgxmockv3.NewResult("CREATE", 0))
	mock.ExpectExec("CREATE INDEX IF NOT EXISTS idx_orders_status").WillReturnResult(pgxmockv3.NewResult("CREATE", 0))
}

var productColumnNames = []string{
	"id", "slug", "name", "price", "category", "sub_category", "description", "status",
	"bonus_items", "image_name", "asset_name", "website_link", "expiration_days", "created_at",
}

var orderColumnNames = []string{
	"id", "product_id", "product_name", "price", "payment_method", "status",
	"receipt_name", "buyer_chat_id", "buyer_username", "is_proof", "claim_code",
	"download_token", "created_at", "updated_at",
}

func productRowValues(id, slug string, status model.ProductStatus) []any {
	return []any{
		id, slug, "Web Checker", 25.0, "web_checker", "", "desc", status,
		[]string{"bonus one"}, "img.png", "tool.zip", "", 0, time.Unix(0, 0),
	}
}

func orderRowValues(id string, status model.OrderStatus, token *string) []any {
	return []any{
		id, "p1", "Web Checker", 25.0, "gcash", status,
		"", int64(0), "", false, "CLAIM-ABCD1234",
		token, time.Unix(0, 0), time.Unix(0, 0),
	}
}

func TestNew(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	restore := func() {
		newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
			return pgxpool.NewWithConfig(ctx, cfg)
		}
	}

	t.Run("parse error", func(t *testing.T) {
		if _, err := New(context.Background(), ":://bad", logger); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("pool creation error", func(t *testing.T) {
		t.Cleanup(restore)
		newPgxPool = func(context.Context, *pgxpool.Config) (pgxPool, error) {
			return nil, errors.New("boom")
		}
		if _, err := New(context.Background(), "postgres://localhost/db", logger); err == nil {
			t.Fatal("expected pool creation error")
		}
	})

	t.Run("schema error closes pool", func(t *testing.T) {
		t.Cleanup(restore)
		mock, err := pgxmockv3.NewPool()
		if err != nil {
			t.Fatalf("mock pool: %v", err)
		}
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS products").WillReturnError(errors.New("schema boom"))
		mock.ExpectClose()
		newPgxPool = func(context.Context, *pgxpool.Config) (pgxPool, error) { return mock, nil }
		if _, err := New(context.Background(), "postgres://localhost/db", logger); err == nil {
			t.Fatal("expected schema error")
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("unmet expectations: %v", err)
		}
	})

	t.Run("success", func(t *testing.T) {
		t.Cleanup(restore)
		mock, err := pgxmockv3.NewPool()
		if err != nil {
			t.Fatalf("mock pool: %v", err)
		}
		expectSchema(mock)
		newPgxPool = func(context.Context, *pgxpool.Config) (pgxPool, error) { return mock, nil }
		storage, err := New(context.Background(), "postgres://localhost/db", logger)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if storage.Products() == nil || storage.Orders() == nil {
			t.Fatal("expected repositories")
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("unmet expectations: %v", err)
		}
	})
}

func TestProductRepositoryCreate(t *testing.T) {
	storage, mock := newMockStorage(t)
	repo := storage.Products()

	p := &model.Product{ID: "p1", Slug: "web-checker", Name: "Web Checker", Price: 25, Status: model.ProductStatusAvailable}

	mock.ExpectQuery("INSERT INTO products").
		WithArgs("p1", "web-checker", "Web Checker", 25.0, "", "", "", model.ProductStatusAvailable,
			pgxmockv3.AnyArg(), "", "", "", 0).
		WillReturnRows(pgxmockv3.NewRows([]string{"created_at"}).AddRow(time.Unix(42, 0)))
	if err := repo.Create(context.Background(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !p.CreatedAt.Equal(time.Unix(42, 0)) {
		t.Fatalf("expected created_at to be populated, got %v", p.CreatedAt)
	}

	mock.ExpectQuery("INSERT INTO products").
		WithArgs("p1", "web-checker", "Web Checker", 25.0, "", "", "", model.ProductStatusAvailable,
			pgxmockv3.AnyArg(), "", "", "", 0).
		WillReturnError(&pgconn.PgError{Code: "23505"})
	if err := repo.Create(context.Background(), p); !errors.Is(err, domainErrors.ErrAlreadyExists) {
		t.Fatalf("expected already exists, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestProductRepositoryGet(t *testing.T) {
	storage, mock := newMockStorage(t)
	repo := storage.Products()

	mock.ExpectQuery("SELECT .* FROM products WHERE id=").
		WithArgs("p1").
		WillReturnRows(pgxmockv3.NewRows(productColumnNames).AddRow(productRowValues("p1", "web-checker", model.ProductStatusAvailable)...))

	p, err := repo.Get(context.Background(), "p1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Slug != "web-checker" || p.Status != model.ProductStatusAvailable {
		t.Fatalf("unexpected product %+v", p)
	}
	if len(p.BonusItems) != 1 || p.BonusItems[0] != "bonus one" {
		t.Fatalf("unexpected bonus items %v", p.BonusItems)
	}

	mock.ExpectQuery("SELECT .* FROM products WHERE slug=").
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)
	if _, err := repo.GetBySlug(context.Background(), "missing"); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestProductRepositoryUpdateStatus(t *testing.T) {
	storage, mock := newMockStorage(t)
	repo := storage.Products()

	mock.ExpectExec("UPDATE products SET status=").
		WithArgs("p1", model.ProductStatusAvailable, model.ProductStatusPending).
		WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))
	if err := repo.UpdateStatus(context.Background(), "p1", model.ProductStatusAvailable, model.ProductStatusPending); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mock.ExpectExec("UPDATE products SET status=").
		WithArgs("p1", model.ProductStatusAvailable, model.ProductStatusPending).
		WillReturnResult(pgxmockv3.NewResult("UPDATE", 0))
	mock.ExpectQuery("SELECT status FROM products WHERE id=").
		WithArgs("p1").
		WillReturnRows(pgxmockv3.NewRows([]string{"status"}).AddRow("pending"))
	if err := repo.UpdateStatus(context.Background(), "p1", model.ProductStatusAvailable, model.ProductStatusPending); !errors.Is(err, domainErrors.ErrInvalidState) {
		t.Fatalf("expected invalid state, got %v", err)
	}

	mock.ExpectExec("UPDATE products SET status=").
		WithArgs("gone", model.ProductStatusPending, model.ProductStatusAvailable).
		WillReturnResult(pgxmockv3.NewResult("UPDATE", 0))
	mock.ExpectQuery("SELECT status FROM products WHERE id=").
		WithArgs("gone").
		WillReturnError(pgx.ErrNoRows)
	if err := repo.UpdateStatus(context.Background(), "gone", model.ProductStatusPending, model.ProductStatusAvailable); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestOrderRepositoryCreate(t *testing.T) {
	storage, mock := newMockStorage(t)
	repo := storage.Orders()

	o := &model.Order{ID: "o1", ProductID: "p1", ProductName: "Web Checker", Price: 25,
		PaymentMethod: "gcash", Status: model.OrderStatusUnpaid, ClaimCode: "CLAIM-ABCD1234"}

	mock.ExpectQuery("INSERT INTO orders").
		WithArgs("o1", "p1", "Web Checker", 25.0, "gcash", model.OrderStatusUnpaid, "CLAIM-ABCD1234").
		WillReturnRows(pgxmockv3.NewRows([]string{"created_at", "updated_at"}).AddRow(time.Unix(1, 0), time.Unix(1, 0)))
	if err := repo.Create(context.Background(), o); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mock.ExpectQuery("INSERT INTO orders").
		WithArgs("o1", "p1", "Web Checker", 25.0, "gcash", model.OrderStatusUnpaid, "CLAIM-ABCD1234").
		WillReturnError(&pgconn.PgError{Code: "23505"})
	if err := repo.Create(context.Background(), o); !errors.Is(err, domainErrors.ErrAlreadyExists) {
		t.Fatalf("expected already exists, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestOrderRepositoryGetByClaimCodeNormalizes(t *testing.T) {
	storage, mock := newMockStorage(t)
	repo := storage.Orders()

	mock.ExpectQuery("SELECT .* FROM orders WHERE claim_code=").
		WithArgs("CLAIM-ABCD1234").
		WillReturnRows(pgxmockv3.NewRows(orderColumnNames).AddRow(orderRowValues("o1", model.OrderStatusUnpaid, nil)...))

	o, err := repo.GetByClaimCode(context.Background(), "  claim-abcd1234 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.ID != "o1" {
		t.Fatalf("unexpected order %+v", o)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestOrderRepositoryAttachReceipt(t *testing.T) {
	storage, mock := newMockStorage(t)
	repo := storage.Orders()

	mock.ExpectQuery("UPDATE orders SET status=").
		WithArgs("o1", model.OrderStatusUnpaid, model.OrderStatusPending, "o1_receipt.png").
		WillReturnRows(pgxmockv3.NewRows(orderColumnNames).AddRow(orderRowValues("o1", model.OrderStatusPending, nil)...))

	o, err := repo.AttachReceipt(context.Background(), "o1", "o1_receipt.png")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.Status != model.OrderStatusPending {
		t.Fatalf("expected pending status, got %s", o.Status)
	}

	mock.ExpectQuery("UPDATE orders SET status=").
		WithArgs("o1", model.OrderStatusUnpaid, model.OrderStatusPending, "again.png").
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery("SELECT status FROM orders WHERE id=").
		WithArgs("o1").
		WillReturnRows(pgxmockv3.NewRows([]string{"status"}).AddRow("pending"))
	if _, err := repo.AttachReceipt(context.Background(), "o1", "again.png"); !errors.Is(err, domainErrors.ErrInvalidState) {
		t.Fatalf("expected invalid state, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestOrderRepositoryApproveAndComplete(t *testing.T) {
	storage, mock := newMockStorage(t)
	repo := storage.Orders()

	token := "11111111-2222-3333-4444-555555555555"
	mock.ExpectQuery("UPDATE orders SET status=").
		WithArgs("o1", model.OrderStatusPending, model.OrderStatusApproved, token, true).
		WillReturnRows(pgxmockv3.NewRows(orderColumnNames).AddRow(orderRowValues("o1", model.OrderStatusApproved, &token)...))

	o, err := repo.Approve(context.Background(), "o1", token, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.DownloadToken != token {
		t.Fatalf("expected token %q, got %q", token, o.DownloadToken)
	}

	mock.ExpectQuery("UPDATE orders SET status=").
		WithArgs("o1", model.OrderStatusApproved, model.OrderStatusCompleted).
		WillReturnRows(pgxmockv3.NewRows(orderColumnNames).AddRow(orderRowValues("o1", model.OrderStatusCompleted, &token)...))
	if _, err := repo.Complete(context.Background(), "o1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mock.ExpectQuery("UPDATE orders SET status=").
		WithArgs("o1", model.OrderStatusApproved, model.OrderStatusCompleted).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery("SELECT status FROM orders WHERE id=").
		WithArgs("o1").
		WillReturnRows(pgxmockv3.NewRows([]string{"status"}).AddRow("completed"))
	if _, err := repo.Complete(context.Background(), "o1"); !errors.Is(err, domainErrors.ErrInvalidState) {
		t.Fatalf("expected invalid state, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestOrderRepositoryRevertApproval(t *testing.T) {
	storage, mock := newMockStorage(t)
	repo := storage.Orders()

	mock.ExpectExec("UPDATE orders SET status=").
		WithArgs("o1", model.OrderStatusApproved, model.OrderStatusPending).
		WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))
	if err := repo.RevertApproval(context.Background(), "o1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mock.ExpectExec("UPDATE orders SET status=").
		WithArgs("gone", model.OrderStatusApproved, model.OrderStatusPending).
		WillReturnResult(pgxmockv3.NewResult("UPDATE", 0))
	mock.ExpectQuery("SELECT status FROM orders WHERE id=").
		WithArgs("gone").
		WillReturnError(pgx.ErrNoRows)
	if err := repo.RevertApproval(context.Background(), "gone"); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestOrderRepositoryLinkBuyer(t *testing.T) {
	storage, mock := newMockStorage(t)
	repo := storage.Orders()

	mock.ExpectQuery("UPDATE orders SET buyer_chat_id=").
		WithArgs("o1", int64(777), "buyer").
		WillReturnRows(pgxmockv3.NewRows(orderColumnNames).AddRow(orderRowValues("o1", model.OrderStatusUnpaid, nil)...))

	if _, err := repo.LinkBuyer(context.Background(), "o1", 777, "buyer"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mock.ExpectQuery("UPDATE orders SET buyer_chat_id=").
		WithArgs("missing", int64(1), "x").
		WillReturnError(pgx.ErrNoRows)
	if _, err := repo.LinkBuyer(context.Background(), "missing", 1, "x"); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestOrderRepositoryListByStatus(t *testing.T) {
	storage, mock := newMockStorage(t)
	repo := storage.Orders()

	mock.ExpectQuery("SELECT .* FROM orders WHERE status=").
		WithArgs(model.OrderStatusPending).
		WillReturnRows(pgxmockv3.NewRows(orderColumnNames).
			AddRow(orderRowValues("o1", model.OrderStatusPending, nil)...).
			AddRow(orderRowValues("o2", model.OrderStatusPending, nil)...))

	orders, err := repo.ListByStatus(context.Background(), model.OrderStatusPending)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(orders))
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
