package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"gasbook/backend/internal/domain"
	"gasbook/backend/internal/store"
)

func testTransaction(id string) domain.Transaction {
	return domain.Transaction{
		ID:                id,
		StoreID:           "main-store",
		CategoryCode:      "cylinder_sale_cash",
		CategoryType:      domain.CategoryCashInflow,
		DebitAccountCode:  "1000-ASSET-CASH",
		CreditAccountCode: "4100-REV-CYL",
		AmountCents:       1000,
		CreatedBy:         "operator",
		CreatedAt:         time.Now().UTC(),
	}
}

func TestCreateTransactionAppliesEffectAtomically(t *testing.T) {
	s := NewSeeded()
	ctx := context.Background()

	// A valid stock delta paired with a due delta that would drive the
	// shop balance negative: the whole posting must reject with neither
	// half applied.
	_, err := s.CreateTransaction(ctx, testTransaction("tx-atomic"), domain.SideEffect{
		Stock: []domain.StockDelta{{SKU: "CYL-12KG", FullDelta: -5}},
		Due:   &domain.DueDelta{ShopID: "shop-karim-traders", DeltaCents: -500},
	})
	if !errors.Is(err, store.ErrDueExceeded) {
		t.Fatalf("expected due exceeded, got %v", err)
	}

	item, err := s.GetItem(ctx, "main-store", "CYL-12KG")
	if err != nil {
		t.Fatalf("get item failed: %v", err)
	}
	if item.FullCount != 120 {
		t.Fatalf("stock delta leaked from rejected posting: full=%d", item.FullCount)
	}
	if _, err := s.GetTransaction(ctx, "main-store", "tx-atomic"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("rejected posting must not persist a row, got %v", err)
	}
}

func TestCreateTransactionDuplicateID(t *testing.T) {
	s := NewSeeded()
	ctx := context.Background()

	if _, err := s.CreateTransaction(ctx, testTransaction("tx-dup"), domain.SideEffect{}); err != nil {
		t.Fatalf("first insert failed: %v", err)
	}
	if _, err := s.CreateTransaction(ctx, testTransaction("tx-dup"), domain.SideEffect{}); !errors.Is(err, store.ErrDuplicate) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
}

func TestCreateTransactionRepeatedSKUDeltasAccumulate(t *testing.T) {
	s := NewSeeded()
	ctx := context.Background()

	// Two deltas against the same SKU in one effect must be summed before
	// the negative-counter check. CYL-35KG has 30 full: -20 twice exceeds it.
	_, err := s.CreateTransaction(ctx, testTransaction("tx-repeat"), domain.SideEffect{
		Stock: []domain.StockDelta{
			{SKU: "CYL-35KG", FullDelta: -20},
			{SKU: "CYL-35KG", FullDelta: -20},
		},
	})
	if !errors.Is(err, store.ErrInsufficientStock) {
		t.Fatalf("expected insufficient stock, got %v", err)
	}

	item, err := s.GetItem(ctx, "main-store", "CYL-35KG")
	if err != nil {
		t.Fatalf("get item failed: %v", err)
	}
	if item.FullCount != 30 {
		t.Fatalf("rejected posting must leave counters unchanged, got %d", item.FullCount)
	}
}

func TestCreateTransactionUnknownTargets(t *testing.T) {
	s := NewSeeded()
	ctx := context.Background()

	_, err := s.CreateTransaction(ctx, testTransaction("tx-no-item"), domain.SideEffect{
		Stock: []domain.StockDelta{{SKU: "CYL-99KG", FullDelta: 1}},
	})
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected not found for unknown SKU, got %v", err)
	}

	_, err = s.CreateTransaction(ctx, testTransaction("tx-no-shop"), domain.SideEffect{
		Due: &domain.DueDelta{ShopID: "shop-nowhere", DeltaCents: 100},
	})
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected not found for unknown shop, got %v", err)
	}
}

func TestSeedAccountsIsIdempotent(t *testing.T) {
	s := New()
	ctx := context.Background()

	accounts := []domain.Account{{StoreID: "store-a", Code: "1000-ASSET-CASH", Name: "Cash", Type: domain.AccountTypeAsset}}
	seeded, err := s.SeedAccounts(ctx, "store-a", accounts)
	if err != nil || !seeded {
		t.Fatalf("first seed: seeded=%v err=%v", seeded, err)
	}
	seeded, err = s.SeedAccounts(ctx, "store-a", accounts)
	if err != nil || seeded {
		t.Fatalf("second seed must be a no-op: seeded=%v err=%v", seeded, err)
	}
}

func TestTransactionFilterByCategoryAndLimit(t *testing.T) {
	s := NewSeeded()
	ctx := context.Background()

	for i, category := range []string{"cylinder_sale_cash", "fuel_expense", "cylinder_sale_cash"} {
		tx := testTransaction("tx-filter-" + category + "-" + string(rune('a'+i)))
		tx.CategoryCode = category
		if _, err := s.CreateTransaction(ctx, tx, domain.SideEffect{}); err != nil {
			t.Fatalf("insert failed: %v", err)
		}
	}

	rows, err := s.ListTransactions(ctx, "main-store", domain.TransactionFilter{CategoryCode: "cylinder_sale_cash"})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 cash-sale rows, got %d", len(rows))
	}

	rows, err = s.ListTransactions(ctx, "main-store", domain.TransactionFilter{Limit: 1})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected limit to cap results, got %d", len(rows))
	}
}
