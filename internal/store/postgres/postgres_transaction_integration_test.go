package postgres

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"gasbook/backend/internal/domain"
	"gasbook/backend/internal/store"
)

func TestCreateTransactionAtomicityIntegration(t *testing.T) {
	databaseURL := os.Getenv("GASBOOK_TEST_DATABASE_URL")
	if databaseURL == "" {
		t.Skip("set GASBOOK_TEST_DATABASE_URL to run postgres integration test")
	}

	ctx := context.Background()
	s, err := New(ctx, databaseURL)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	t.Cleanup(func() {
		_ = s.Close()
	})

	stamp := time.Now().UnixNano()
	storeID := "main-store"
	sku := fmt.Sprintf("CYL-IT-%d", stamp)
	shopID := fmt.Sprintf("shop-it-%d", stamp)
	txID := fmt.Sprintf("tx-it-%d", stamp)

	t.Cleanup(func() {
		_, _ = s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1`, txID)
		_, _ = s.db.ExecContext(ctx, `DELETE FROM inventory_items WHERE store_id = $1 AND sku = $2`, storeID, sku)
		_, _ = s.db.ExecContext(ctx, `DELETE FROM shops WHERE id = $1`, shopID)
	})

	if _, err := s.CreateItem(ctx, domain.InventoryItem{
		StoreID: storeID, SKU: sku, Kind: domain.ItemKindCylinder,
		Name: "Integration Cylinder", FullCount: 10, EmptyCount: 2,
	}); err != nil {
		t.Fatalf("seed item: %v", err)
	}
	if _, err := s.CreateShop(ctx, domain.Shop{
		ID: shopID, StoreID: storeID, Name: "Integration Shop",
	}); err != nil {
		t.Fatalf("seed shop: %v", err)
	}

	// Valid stock delta paired with a due delta that would go negative:
	// the posting must reject and leave the counters untouched.
	_, err = s.CreateTransaction(ctx, domain.Transaction{
		ID: txID, StoreID: storeID,
		CategoryCode: "cylinder_sale_cash", CategoryType: domain.CategoryCashInflow,
		DebitAccountCode: "1000-ASSET-CASH", CreditAccountCode: "4100-REV-CYL",
		AmountCents: 1000, CreatedBy: "operator",
	}, domain.SideEffect{
		Stock: []domain.StockDelta{{SKU: sku, FullDelta: -3}},
		Due:   &domain.DueDelta{ShopID: shopID, DeltaCents: -500},
	})
	if !errors.Is(err, store.ErrDueExceeded) {
		t.Fatalf("expected due exceeded, got %v", err)
	}

	item, err := s.GetItem(ctx, storeID, sku)
	if err != nil {
		t.Fatalf("get item: %v", err)
	}
	if item.FullCount != 10 {
		t.Fatalf("rejected posting leaked a stock delta: full=%d", item.FullCount)
	}
	if _, err := s.GetTransaction(ctx, storeID, txID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("rejected posting must not persist a row, got %v", err)
	}

	// The same posting without the bad due delta commits both halves.
	created, err := s.CreateTransaction(ctx, domain.Transaction{
		ID: txID, StoreID: storeID,
		CategoryCode: "cylinder_sale_cash", CategoryType: domain.CategoryCashInflow,
		DebitAccountCode: "1000-ASSET-CASH", CreditAccountCode: "4100-REV-CYL",
		AmountCents: 1000, CreatedBy: "operator",
	}, domain.SideEffect{
		Stock: []domain.StockDelta{{SKU: sku, FullDelta: -3}},
	})
	if err != nil {
		t.Fatalf("create transaction: %v", err)
	}
	if created.ID != txID {
		t.Fatalf("unexpected transaction id %s", created.ID)
	}

	item, err = s.GetItem(ctx, storeID, sku)
	if err != nil {
		t.Fatalf("get item: %v", err)
	}
	if item.FullCount != 7 {
		t.Fatalf("expected full count 7 after commit, got %d", item.FullCount)
	}
}
