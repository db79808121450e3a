package usecase

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/polkiloo/gophershop/internal/delivery"
	domainErrors "github.com/polkiloo/gophershop/internal/domain/errors"
	"github.com/polkiloo/gophershop/internal/domain/model"
	"github.com/polkiloo/gophershop/internal/domain/repository"
	"github.com/polkiloo/gophershop/internal/test"
)

type orderFixture struct {
	orders   *test.OrderRepositoryStub
	products *test.ProductRepositoryStub
	receipts *test.AssetStoreStub
	files    *test.AssetStoreStub
	uc       *OrderUseCase
}

func newOrderFixture() *orderFixture {
	orders := test.NewOrderRepositoryStub()
	products := test.NewProductRepositoryStub()
	receipts := test.NewAssetStoreStub()
	files := test.NewAssetStoreStub()
	uc := NewOrderUseCase(orders, products, repository.AssetStores{
		Images:   test.NewAssetStoreStub(),
		Receipts: receipts,
		Files:    files,
	}, delivery.NewPackager(files))
	return &orderFixture{orders: orders, products: products, receipts: receipts, files: files, uc: uc}
}

func (f *orderFixture) seedProduct(t *testing.T) *model.Product {
	t.Helper()
	product := &model.Product{
		ID:        "p1",
		Slug:      "macro-tool",
		Name:      "Macro Tool",
		Price:     199,
		Status:    model.ProductStatusAvailable,
		AssetName: "p1_macro-tool.zip",
	}
	f.products.Products[product.ID] = product
	if err := f.files.Put(context.Background(), product.AssetName, []byte("payload"), "application/zip"); err != nil {
		t.Fatalf("seed asset: %v", err)
	}
	return product
}

func (f *orderFixture) placeOrder(t *testing.T) *model.Order {
	t.Helper()
	order, err := f.uc.Place(context.Background(), "p1", "gcash")
	if err != nil {
		t.Fatalf("place: %v", err)
	}
	return order
}

func TestOrderUseCase_Place(t *testing.T) {
	f := newOrderFixture()
	f.seedProduct(t)

	order := f.placeOrder(t)
	if order.Status != model.OrderStatusUnpaid {
		t.Fatalf("unexpected status: %s", order.Status)
	}
	if order.ProductName != "Macro Tool" || order.Price != 199 {
		t.Fatalf("unexpected snapshot: %+v", order)
	}
	if len(order.ClaimCode) != len("CLAIM-")+8 {
		t.Fatalf("unexpected claim code: %s", order.ClaimCode)
	}
	if f.products.Products["p1"].Status != model.ProductStatusPending {
		t.Fatal("expected product reserved")
	}
}

func TestOrderUseCase_PlaceReservedProduct(t *testing.T) {
	f := newOrderFixture()
	product := f.seedProduct(t)
	product.Status = model.ProductStatusPending

	if _, err := f.uc.Place(context.Background(), "p1", "gcash"); !errors.Is(err, domainErrors.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
}

func TestOrderUseCase_PlaceMissingProduct(t *testing.T) {
	f := newOrderFixture()
	if _, err := f.uc.Place(context.Background(), "absent", "gcash"); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestOrderUseCase_PlaceReleasesProductOnCreateFailure(t *testing.T) {
	f := newOrderFixture()
	f.seedProduct(t)
	f.orders.Err = domainErrors.ErrBackingStore

	if _, err := f.uc.Place(context.Background(), "p1", "gcash"); !errors.Is(err, domainErrors.ErrBackingStore) {
		t.Fatalf("expected ErrBackingStore, got %v", err)
	}
	if f.products.Products["p1"].Status != model.ProductStatusAvailable {
		t.Fatal("expected product released after failed create")
	}
}

func TestOrderUseCase_SubmitReceipt(t *testing.T) {
	f := newOrderFixture()
	f.seedProduct(t)
	order := f.placeOrder(t)

	updated, err := f.uc.SubmitReceipt(context.Background(), order.ID, model.AssetUpload{
		FileName:    "receipt.jpg",
		ContentType: "image/jpeg",
		Data:        []byte{1},
	})
	if err != nil {
		t.Fatalf("submit receipt: %v", err)
	}
	if updated.Status != model.OrderStatusPending {
		t.Fatalf("unexpected status: %s", updated.Status)
	}
	if updated.ReceiptName != order.ID+"_receipt.jpg" {
		t.Fatalf("unexpected receipt name: %s", updated.ReceiptName)
	}
	if _, _, err := f.receipts.Get(context.Background(), updated.ReceiptName); err != nil {
		t.Fatalf("stored receipt: %v", err)
	}
}

func TestOrderUseCase_SubmitReceiptEmpty(t *testing.T) {
	f := newOrderFixture()
	f.seedProduct(t)
	order := f.placeOrder(t)

	if _, err := f.uc.SubmitReceipt(context.Background(), order.ID, model.AssetUpload{FileName: "x.jpg"}); !errors.Is(err, domainErrors.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestOrderUseCase_SubmitReceiptTwice(t *testing.T) {
	f := newOrderFixture()
	f.seedProduct(t)
	order := f.placeOrder(t)
	upload := model.AssetUpload{FileName: "receipt.jpg", ContentType: "image/jpeg", Data: []byte{1}}

	if _, err := f.uc.SubmitReceipt(context.Background(), order.ID, upload); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if _, err := f.uc.SubmitReceipt(context.Background(), order.ID, upload); !errors.Is(err, domainErrors.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
}

func approveReady(t *testing.T, f *orderFixture) *model.Order {
	t.Helper()
	f.seedProduct(t)
	order := f.placeOrder(t)
	if _, err := f.uc.SubmitReceipt(context.Background(), order.ID, model.AssetUpload{
		FileName:    "receipt.jpg",
		ContentType: "image/jpeg",
		Data:        []byte{1},
	}); err != nil {
		t.Fatalf("submit receipt: %v", err)
	}
	return order
}

func TestOrderUseCase_Approve(t *testing.T) {
	f := newOrderFixture()
	order := approveReady(t, f)

	approved, err := f.uc.Approve(context.Background(), order.ID, true)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if approved.Status != model.OrderStatusApproved {
		t.Fatalf("unexpected status: %s", approved.Status)
	}
	if approved.DownloadToken == "" {
		t.Fatal("expected download token minted")
	}
	if !approved.IsProof {
		t.Fatal("expected proof flag set")
	}
	if f.products.Products["p1"].Status != model.ProductStatusAvailable {
		t.Fatal("expected product released")
	}
}

func TestOrderUseCase_ApproveTwiceSingleWinner(t *testing.T) {
	f := newOrderFixture()
	order := approveReady(t, f)

	if _, err := f.uc.Approve(context.Background(), order.ID, false); err != nil {
		t.Fatalf("first approve: %v", err)
	}
	if _, err := f.uc.Approve(context.Background(), order.ID, false); !errors.Is(err, domainErrors.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState for second approve, got %v", err)
	}
}

func TestOrderUseCase_ApproveConcurrentSingleWinner(t *testing.T) {
	f := newOrderFixture()
	order := approveReady(t, f)

	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.uc.Approve(context.Background(), order.ID, false)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var wins, losses int
	for err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, domainErrors.ErrInvalidState):
			losses++
		default:
			t.Fatalf("unexpected approve error: %v", err)
		}
	}
	if wins != 1 || losses != 1 {
		t.Fatalf("expected one winner and one loser, got %d/%d", wins, losses)
	}

	stored, err := f.orders.Get(context.Background(), order.ID)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if stored.Status != model.OrderStatusApproved || stored.DownloadToken == "" {
		t.Fatalf("unexpected order after race: %+v", stored)
	}
}

func TestOrderUseCase_ApproveMissingAsset(t *testing.T) {
	f := newOrderFixture()
	order := approveReady(t, f)
	if err := f.files.Delete(context.Background(), "p1_macro-tool.zip"); err != nil {
		t.Fatalf("delete asset: %v", err)
	}

	if _, err := f.uc.Approve(context.Background(), order.ID, false); !errors.Is(err, domainErrors.ErrBackingStore) {
		t.Fatalf("expected ErrBackingStore, got %v", err)
	}
	stored, err := f.orders.Get(context.Background(), order.ID)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if stored.Status != model.OrderStatusPending {
		t.Fatalf("expected order untouched, got %s", stored.Status)
	}
}

func TestOrderUseCase_ApproveUnpaidOrder(t *testing.T) {
	f := newOrderFixture()
	f.seedProduct(t)
	order := f.placeOrder(t)

	if _, err := f.uc.Approve(context.Background(), order.ID, false); !errors.Is(err, domainErrors.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
}

func TestOrderUseCase_Download(t *testing.T) {
	f := newOrderFixture()
	order := approveReady(t, f)
	approved, err := f.uc.Approve(context.Background(), order.ID, false)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}

	bundle, err := f.uc.Download(context.Background(), approved.DownloadToken)
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	if bundle.Name != "macro-tool.zip" {
		t.Fatalf("unexpected bundle name: %s", bundle.Name)
	}
	if _, err := zip.NewReader(bytes.NewReader(bundle.Data), int64(len(bundle.Data))); err != nil {
		t.Fatalf("open bundle: %v", err)
	}

	stored, err := f.orders.Get(context.Background(), order.ID)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if stored.Status != model.OrderStatusCompleted {
		t.Fatalf("expected completed order, got %s", stored.Status)
	}

	// Re-download of a completed order is still served.
	if _, err := f.uc.Download(context.Background(), approved.DownloadToken); err != nil {
		t.Fatalf("repeat download: %v", err)
	}
}

func TestOrderUseCase_DownloadUnknownToken(t *testing.T) {
	f := newOrderFixture()
	if _, err := f.uc.Download(context.Background(), "bogus"); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestOrderUseCase_Claim(t *testing.T) {
	f := newOrderFixture()
	f.seedProduct(t)
	order := f.placeOrder(t)

	claimed, err := f.uc.Claim(context.Background(), "  "+order.ClaimCode+" ", 42, "buyer")
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if claimed.BuyerChatID != 42 || claimed.BuyerUsername != "buyer" {
		t.Fatalf("unexpected buyer identity: %+v", claimed)
	}

	// Re-claiming rebinds the chat identity.
	reclaimed, err := f.uc.Claim(context.Background(), order.ClaimCode, 43, "other")
	if err != nil {
		t.Fatalf("reclaim: %v", err)
	}
	if reclaimed.BuyerChatID != 43 || reclaimed.BuyerUsername != "other" {
		t.Fatalf("unexpected rebound identity: %+v", reclaimed)
	}
}

func TestOrderUseCase_ClaimUnknownCode(t *testing.T) {
	f := newOrderFixture()
	if _, err := f.uc.Claim(context.Background(), "CLAIM-FFFFFFFF", 42, "buyer"); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestOrderUseCase_PendingAndProofs(t *testing.T) {
	f := newOrderFixture()
	order := approveReady(t, f)
	if _, err := f.uc.Approve(context.Background(), order.ID, true); err != nil {
		t.Fatalf("approve: %v", err)
	}

	pending, err := f.uc.Pending(context.Background())
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("unexpected pending orders: %+v", pending)
	}

	proofs, err := f.uc.Proofs(context.Background())
	if err != nil {
		t.Fatalf("proofs: %v", err)
	}
	if len(proofs) != 1 || proofs[0].ID != order.ID {
		t.Fatalf("unexpected proofs: %+v", proofs)
	}
}
