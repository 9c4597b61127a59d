package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"gasbook/backend/internal/cache"
	"gasbook/backend/internal/domain"
	"gasbook/backend/internal/ledger"
	"gasbook/backend/internal/store"
	"gasbook/backend/internal/store/memory"
)

func newTestService() *Service {
	repo := memory.NewSeeded()
	return New(repo, cache.NoopCategoryCache{}, 5*time.Minute, "main-store")
}

func adminContext() context.Context {
	return WithActor(context.Background(), domain.Actor{Username: "admin", Role: "admin"})
}

func operatorContext() context.Context {
	return WithActor(context.Background(), domain.Actor{Username: "operator", Role: "operator"})
}

func newSeededService(t *testing.T) *Service {
	t.Helper()
	svc := newTestService()
	if _, err := svc.SeedDefaults(adminContext(), "main-store"); err != nil {
		t.Fatalf("seed defaults failed: %v", err)
	}
	return svc
}

func TestSeedDefaultsIsIdempotent(t *testing.T) {
	svc := newTestService()
	ctx := adminContext()

	first, err := svc.SeedDefaults(ctx, "main-store")
	if err != nil {
		t.Fatalf("first seed failed: %v", err)
	}
	if first.Accounts != domain.SeedStatusSeeded || first.Categories != domain.SeedStatusSeeded {
		t.Fatalf("expected first seed to report seeded, got %+v", first)
	}

	second, err := svc.SeedDefaults(ctx, "main-store")
	if err != nil {
		t.Fatalf("second seed failed: %v", err)
	}
	if second.Accounts != domain.SeedStatusAlreadySeeded || second.Categories != domain.SeedStatusAlreadySeeded {
		t.Fatalf("expected second seed to report already_seeded, got %+v", second)
	}

	accounts, err := svc.ListAccounts(ctx, "main-store")
	if err != nil {
		t.Fatalf("list accounts failed: %v", err)
	}
	if len(accounts) != len(ledger.DefaultAccounts("main-store")) {
		t.Fatalf("expected %d accounts after double seed, got %d", len(ledger.DefaultAccounts("main-store")), len(accounts))
	}
}

func TestSeedDefaultsRequiresAdmin(t *testing.T) {
	svc := newTestService()

	if _, err := svc.SeedDefaults(operatorContext(), "main-store"); err == nil {
		t.Fatalf("expected seed to fail for operator role")
	}
}

func TestSellCylindersCash(t *testing.T) {
	svc := newSeededService(t)
	ctx := operatorContext()

	tx, err := svc.SellCylinders(ctx, "main-store", domain.SellCylindersRequest{
		SKU:          "CYL-12KG",
		Quantity:     5,
		TotalCents:   50000,
		PaidCents:    50000,
		CustomerName: "Walk-in",
	})
	if err != nil {
		t.Fatalf("sell failed: %v", err)
	}

	if tx.CategoryCode != ledger.CategorySaleCash {
		t.Fatalf("expected category %s, got %s", ledger.CategorySaleCash, tx.CategoryCode)
	}
	if tx.DebitAccountCode != ledger.AccountCash || tx.CreditAccountCode != ledger.AccountCylinderRev {
		t.Fatalf("unexpected legs: debit=%s credit=%s", tx.DebitAccountCode, tx.CreditAccountCode)
	}
	if tx.AmountCents != 50000 {
		t.Fatalf("expected amount 50000, got %d", tx.AmountCents)
	}
	if tx.Description != "Sold 5 cylinders to Walk-in for cash" {
		t.Fatalf("unexpected description: %q", tx.Description)
	}

	item, err := svc.GetItem(ctx, "main-store", "CYL-12KG")
	if err != nil {
		t.Fatalf("get item failed: %v", err)
	}
	if item.FullCount != 115 {
		t.Fatalf("expected full count 115 after selling 5 of 120, got %d", item.FullCount)
	}
}

func TestSellCylindersInsufficientStockLeavesNoTrace(t *testing.T) {
	svc := newSeededService(t)
	ctx := operatorContext()

	_, err := svc.SellCylinders(ctx, "main-store", domain.SellCylindersRequest{
		SKU:        "CYL-35KG",
		Quantity:   1000,
		TotalCents: 100,
		PaidCents:  100,
	})
	if !errors.Is(err, store.ErrInsufficientStock) {
		t.Fatalf("expected insufficient stock, got %v", err)
	}

	item, err := svc.GetItem(ctx, "main-store", "CYL-35KG")
	if err != nil {
		t.Fatalf("get item failed: %v", err)
	}
	if item.FullCount != 30 {
		t.Fatalf("rejected sale must not change counters, got full=%d", item.FullCount)
	}

	transactions, err := svc.ListTransactions(ctx, "main-store", domain.TransactionFilter{})
	if err != nil {
		t.Fatalf("list transactions failed: %v", err)
	}
	if len(transactions) != 0 {
		t.Fatalf("rejected sale must not write a ledger row, got %d rows", len(transactions))
	}
}

func TestSellCylindersPartialPaymentRaisesShopDue(t *testing.T) {
	svc := newSeededService(t)
	ctx := operatorContext()

	tx, err := svc.SellCylinders(ctx, "main-store", domain.SellCylindersRequest{
		SKU:        "CYL-12KG",
		Quantity:   10,
		TotalCents: 100000,
		PaidCents:  40000,
		ShopID:     "shop-karim-traders",
	})
	if err != nil {
		t.Fatalf("partial sale failed: %v", err)
	}
	if tx.CategoryCode != ledger.CategorySaleDue {
		t.Fatalf("expected due sale category, got %s", tx.CategoryCode)
	}
	if tx.AmountCents != 100000 {
		t.Fatalf("ledger amount must be the full sale value, got %d", tx.AmountCents)
	}

	shop, err := svc.GetShop(ctx, "main-store", "shop-karim-traders")
	if err != nil {
		t.Fatalf("get shop failed: %v", err)
	}
	if shop.TotalDueCents != 60000 {
		t.Fatalf("expected due 60000 (unpaid remainder), got %d", shop.TotalDueCents)
	}

	item, err := svc.GetItem(ctx, "main-store", "CYL-12KG")
	if err != nil {
		t.Fatalf("get item failed: %v", err)
	}
	if item.FullCount != 110 {
		t.Fatalf("expected full count 110, got %d", item.FullCount)
	}
}

func TestSellCylindersRejectsOverpaymentAndAnonymousDue(t *testing.T) {
	svc := newSeededService(t)
	ctx := operatorContext()

	_, err := svc.SellCylinders(ctx, "main-store", domain.SellCylindersRequest{
		SKU: "CYL-12KG", Quantity: 1, TotalCents: 1000, PaidCents: 2000,
	})
	if !errors.Is(err, store.ErrValidation) {
		t.Fatalf("expected validation error for overpayment, got %v", err)
	}

	_, err = svc.SellCylinders(ctx, "main-store", domain.SellCylindersRequest{
		SKU: "CYL-12KG", Quantity: 1, TotalCents: 1000, PaidCents: 500,
	})
	if !errors.Is(err, store.ErrValidation) {
		t.Fatalf("expected validation error for due sale without shop, got %v", err)
	}
}

func TestBuyCylindersOnCredit(t *testing.T) {
	svc := newSeededService(t)
	ctx := operatorContext()

	tx, err := svc.BuyCylinders(ctx, "main-store", domain.BuyCylindersRequest{
		SKU:          "CYL-12KG",
		Quantity:     20,
		TotalCents:   160000,
		OnCredit:     true,
		SupplierName: "Bashundhara LP Gas",
	})
	if err != nil {
		t.Fatalf("buy failed: %v", err)
	}
	if tx.CategoryCode != ledger.CategoryPurchaseCredit {
		t.Fatalf("expected credit purchase category, got %s", tx.CategoryCode)
	}
	if tx.CreditAccountCode != ledger.AccountPayable {
		t.Fatalf("credit purchase must credit payables, got %s", tx.CreditAccountCode)
	}

	item, err := svc.GetItem(ctx, "main-store", "CYL-12KG")
	if err != nil {
		t.Fatalf("get item failed: %v", err)
	}
	if item.FullCount != 140 {
		t.Fatalf("expected full count 140 after restock, got %d", item.FullCount)
	}
}

func TestSwapCylindersMovesBothCountersAtomically(t *testing.T) {
	svc := newSeededService(t)
	ctx := operatorContext()

	_, err := svc.SwapCylinders(ctx, "main-store", domain.SwapCylindersRequest{
		SKU:        "CYL-12KG",
		Quantity:   10,
		TotalCents: 15000,
		Direction:  domain.SwapDirectionRetail,
	})
	if err != nil {
		t.Fatalf("retail swap failed: %v", err)
	}

	item, err := svc.GetItem(ctx, "main-store", "CYL-12KG")
	if err != nil {
		t.Fatalf("get item failed: %v", err)
	}
	if item.FullCount != 110 || item.EmptyCount != 50 {
		t.Fatalf("expected full=110 empty=50 after retail swap, got full=%d empty=%d", item.FullCount, item.EmptyCount)
	}

	// Refill more than the empties on hand: both counters must stay put.
	_, err = svc.SwapCylinders(ctx, "main-store", domain.SwapCylindersRequest{
		SKU:        "CYL-12KG",
		Quantity:   500,
		TotalCents: 15000,
		Direction:  domain.SwapDirectionRefill,
	})
	if !errors.Is(err, store.ErrInsufficientStock) {
		t.Fatalf("expected insufficient stock for oversized refill, got %v", err)
	}

	item, err = svc.GetItem(ctx, "main-store", "CYL-12KG")
	if err != nil {
		t.Fatalf("get item failed: %v", err)
	}
	if item.FullCount != 110 || item.EmptyCount != 50 {
		t.Fatalf("failed swap must not move either counter, got full=%d empty=%d", item.FullCount, item.EmptyCount)
	}
}

func TestClearShopDue(t *testing.T) {
	svc := newSeededService(t)
	ctx := operatorContext()

	_, err := svc.SellCylinders(ctx, "main-store", domain.SellCylindersRequest{
		SKU: "CYL-12KG", Quantity: 5, TotalCents: 50000, PaidCents: 0, ShopID: "shop-city-gas",
	})
	if err != nil {
		t.Fatalf("due sale failed: %v", err)
	}

	_, err = svc.ClearShopDue(ctx, "main-store", "shop-city-gas", domain.ClearDueRequest{PaidCents: 60000})
	if !errors.Is(err, store.ErrDueExceeded) {
		t.Fatalf("expected due exceeded for overpayment, got %v", err)
	}

	tx, err := svc.ClearShopDue(ctx, "main-store", "shop-city-gas", domain.ClearDueRequest{PaidCents: 50000})
	if err != nil {
		t.Fatalf("exact due clear failed: %v", err)
	}
	if tx.CategoryCode != ledger.CategoryDueCollection {
		t.Fatalf("expected due collection category, got %s", tx.CategoryCode)
	}

	shop, err := svc.GetShop(ctx, "main-store", "shop-city-gas")
	if err != nil {
		t.Fatalf("get shop failed: %v", err)
	}
	if shop.TotalDueCents != 0 {
		t.Fatalf("expected zero due after exact payment, got %d", shop.TotalDueCents)
	}
}

func TestRecordExpenseRendersTemplate(t *testing.T) {
	svc := newSeededService(t)
	ctx := operatorContext()

	tx, err := svc.RecordExpense(ctx, "main-store", domain.ExpenseRequest{
		CategoryCode: ledger.CategoryFuelExpense,
		AmountCents:  4500,
		VehicleID:    "veh-7",
		VehicleNo:    "DHAKA-METRO-11-2233",
	})
	if err != nil {
		t.Fatalf("expense failed: %v", err)
	}
	if tx.Description != "Fuel for vehicle DHAKA-METRO-11-2233" {
		t.Fatalf("unexpected description: %q", tx.Description)
	}
	if tx.RelatedRefs.VehicleID != "veh-7" {
		t.Fatalf("expected vehicle ref to be recorded, got %+v", tx.RelatedRefs)
	}
}

func TestRecordExpenseMissingVariableStillCommits(t *testing.T) {
	svc := newSeededService(t)
	ctx := operatorContext()

	tx, err := svc.RecordExpense(ctx, "main-store", domain.ExpenseRequest{
		CategoryCode: ledger.CategoryOtherExpense,
		AmountCents:  1200,
	})
	if err != nil {
		t.Fatalf("expense with missing template variable must still commit: %v", err)
	}
	if tx.Description != "Expense: " {
		t.Fatalf("missing variable should render empty, got %q", tx.Description)
	}
}

func TestRecordTransactionUnknownCategory(t *testing.T) {
	svc := newSeededService(t)

	_, err := svc.RecordTransaction(operatorContext(), "main-store", EntryInput{
		CategoryCode: "no_such_category",
		AmountCents:  100,
	})
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected not found for unknown category, got %v", err)
	}
}

func TestRecordTransactionInactiveCategory(t *testing.T) {
	repo := memory.New()
	svc := New(repo, cache.NoopCategoryCache{}, time.Minute, "main-store")
	ctx := operatorContext()

	accounts := ledger.DefaultAccounts("main-store")
	if _, err := repo.SeedAccounts(context.Background(), "main-store", accounts); err != nil {
		t.Fatalf("seed accounts failed: %v", err)
	}
	retired := domain.TxCategory{
		StoreID:           "main-store",
		Code:              "legacy_sale",
		Name:              "Legacy Sale",
		DebitAccountCode:  ledger.AccountCash,
		CreditAccountCode: ledger.AccountCylinderRev,
		CategoryType:      domain.CategoryCashInflow,
		IsActive:          false,
	}
	if _, err := repo.SeedCategories(context.Background(), "main-store", []domain.TxCategory{retired}); err != nil {
		t.Fatalf("seed categories failed: %v", err)
	}

	_, err := svc.RecordTransaction(ctx, "main-store", EntryInput{
		CategoryCode: "legacy_sale",
		AmountCents:  100,
	})
	if !errors.Is(err, store.ErrInactiveCategory) {
		t.Fatalf("expected inactive category error, got %v", err)
	}
}

func TestTenantIsolation(t *testing.T) {
	svc := newSeededService(t)
	ctx := operatorContext()

	// main-store's catalog must not resolve for another store.
	_, err := svc.RecordTransaction(ctx, "other-store", EntryInput{
		CategoryCode: ledger.CategorySaleCash,
		AmountCents:  100,
	})
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected not found across stores, got %v", err)
	}

	// Nor its shops.
	if _, err := svc.GetShop(ctx, "other-store", "shop-karim-traders"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected shop lookup to be store-scoped, got %v", err)
	}
}

func TestReverseTransaction(t *testing.T) {
	svc := newSeededService(t)
	adminCtx := adminContext()

	original, err := svc.SellCylinders(operatorContext(), "main-store", domain.SellCylindersRequest{
		SKU: "CYL-12KG", Quantity: 2, TotalCents: 20000, PaidCents: 20000,
	})
	if err != nil {
		t.Fatalf("sale failed: %v", err)
	}

	reversal, err := svc.ReverseTransaction(adminCtx, "main-store", original.ID, domain.ReverseTransactionRequest{
		Reason: "wrong quantity entered",
	})
	if err != nil {
		t.Fatalf("reverse failed: %v", err)
	}
	if reversal.ReversalOf != original.ID {
		t.Fatalf("expected reversal to reference original, got %q", reversal.ReversalOf)
	}
	if reversal.DebitAccountCode != original.CreditAccountCode || reversal.CreditAccountCode != original.DebitAccountCode {
		t.Fatalf("reversal must swap the legs")
	}
	if reversal.AmountCents != original.AmountCents {
		t.Fatalf("reversal must carry the same amount")
	}
	if reversal.CategoryType != domain.CategoryCashOutflow {
		t.Fatalf("reversing an inflow must classify as outflow, got %s", reversal.CategoryType)
	}

	// Original row is untouched.
	fetched, err := svc.GetTransaction(adminCtx, "main-store", original.ID)
	if err != nil {
		t.Fatalf("get original failed: %v", err)
	}
	if fetched.AmountCents != original.AmountCents || fetched.DebitAccountCode != original.DebitAccountCode {
		t.Fatalf("original transaction was mutated")
	}

	// A reversal cannot itself be reversed.
	if _, err := svc.ReverseTransaction(adminCtx, "main-store", reversal.ID, domain.ReverseTransactionRequest{}); !errors.Is(err, store.ErrValidation) {
		t.Fatalf("expected validation error reversing a reversal, got %v", err)
	}

	// The pair nets to zero in the cash-flow summary.
	today := time.Now().UTC().Format("2006-01-02")
	summary, err := svc.CashFlow(adminCtx, "main-store", today, today)
	if err != nil {
		t.Fatalf("cash flow failed: %v", err)
	}
	if summary.NetCents != 0 {
		t.Fatalf("expected reversal to net out, got net=%d", summary.NetCents)
	}
}

func TestReverseTransactionRequiresAdmin(t *testing.T) {
	svc := newSeededService(t)

	original, err := svc.SellCylinders(operatorContext(), "main-store", domain.SellCylindersRequest{
		SKU: "CYL-12KG", Quantity: 1, TotalCents: 10000, PaidCents: 10000,
	})
	if err != nil {
		t.Fatalf("sale failed: %v", err)
	}

	if _, err := svc.ReverseTransaction(operatorContext(), "main-store", original.ID, domain.ReverseTransactionRequest{}); err == nil {
		t.Fatalf("expected operator reversal to be rejected")
	}
}

func TestCashFlowSummary(t *testing.T) {
	svc := newSeededService(t)
	ctx := operatorContext()

	if _, err := svc.SellCylinders(ctx, "main-store", domain.SellCylindersRequest{
		SKU: "CYL-12KG", Quantity: 3, TotalCents: 30000, PaidCents: 30000,
	}); err != nil {
		t.Fatalf("sale failed: %v", err)
	}
	if _, err := svc.BuyCylinders(ctx, "main-store", domain.BuyCylindersRequest{
		SKU: "CYL-12KG", Quantity: 10, TotalCents: 70000, SupplierName: "Depot",
	}); err != nil {
		t.Fatalf("buy failed: %v", err)
	}
	// Non-cash rows must not move the summary.
	if _, err := svc.SellCylinders(ctx, "main-store", domain.SellCylindersRequest{
		SKU: "CYL-12KG", Quantity: 1, TotalCents: 10000, PaidCents: 0, ShopID: "shop-karim-traders",
	}); err != nil {
		t.Fatalf("due sale failed: %v", err)
	}

	today := time.Now().UTC().Format("2006-01-02")
	summary, err := svc.CashFlow(ctx, "main-store", today, today)
	if err != nil {
		t.Fatalf("cash flow failed: %v", err)
	}
	if summary.InflowCents != 30000 {
		t.Fatalf("expected inflow 30000, got %d", summary.InflowCents)
	}
	if summary.OutflowCents != 70000 {
		t.Fatalf("expected outflow 70000, got %d", summary.OutflowCents)
	}
	if summary.NetCents != -40000 {
		t.Fatalf("expected net -40000, got %d", summary.NetCents)
	}
}

func TestCommittedRowsHoldLedgerInvariants(t *testing.T) {
	svc := newSeededService(t)
	ctx := operatorContext()

	ops := []func() error{
		func() error {
			_, err := svc.SellCylinders(ctx, "main-store", domain.SellCylindersRequest{SKU: "CYL-12KG", Quantity: 2, TotalCents: 20000, PaidCents: 20000})
			return err
		},
		func() error {
			_, err := svc.BuyCylinders(ctx, "main-store", domain.BuyCylindersRequest{SKU: "CYL-35KG", Quantity: 5, TotalCents: 90000, SupplierName: "Depot"})
			return err
		},
		func() error {
			_, err := svc.RecordExpense(ctx, "main-store", domain.ExpenseRequest{CategoryCode: ledger.CategorySalaryPayment, AmountCents: 150000, StaffName: "Rashid"})
			return err
		},
	}
	for i, op := range ops {
		if err := op(); err != nil {
			t.Fatalf("op %d failed: %v", i, err)
		}
	}

	transactions, err := svc.ListTransactions(ctx, "main-store", domain.TransactionFilter{})
	if err != nil {
		t.Fatalf("list transactions failed: %v", err)
	}
	if len(transactions) != 3 {
		t.Fatalf("expected 3 committed rows, got %d", len(transactions))
	}
	for _, tx := range transactions {
		if tx.AmountCents < 1 {
			t.Fatalf("transaction %s has non-positive amount %d", tx.ID, tx.AmountCents)
		}
		if tx.DebitAccountCode == tx.CreditAccountCode {
			t.Fatalf("transaction %s debits and credits the same account", tx.ID)
		}
		if tx.CreatedBy == "" {
			t.Fatalf("transaction %s missing actor attribution", tx.ID)
		}
	}
}

func TestConcurrentSalesNeverOversell(t *testing.T) {
	svc := newSeededService(t)
	ctx := operatorContext()

	// CYL-35KG starts with 30 full cylinders. Fire 40 concurrent unit
	// sales: exactly 30 must commit, the rest must reject, and the
	// counter must land on zero without ever going negative.
	const attempts = 40
	var wg sync.WaitGroup
	results := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.SellCylinders(ctx, "main-store", domain.SellCylindersRequest{
				SKU: "CYL-35KG", Quantity: 1, TotalCents: 9000, PaidCents: 9000,
			})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	committed, rejected := 0, 0
	for err := range results {
		switch {
		case err == nil:
			committed++
		case errors.Is(err, store.ErrInsufficientStock):
			rejected++
		default:
			t.Fatalf("unexpected error under contention: %v", err)
		}
	}
	if committed != 30 || rejected != 10 {
		t.Fatalf("expected 30 commits and 10 rejections, got %d/%d", committed, rejected)
	}

	item, err := svc.GetItem(ctx, "main-store", "CYL-35KG")
	if err != nil {
		t.Fatalf("get item failed: %v", err)
	}
	if item.FullCount != 0 {
		t.Fatalf("expected full count 0 after drain, got %d", item.FullCount)
	}

	transactions, err := svc.ListTransactions(ctx, "main-store", domain.TransactionFilter{Limit: attempts})
	if err != nil {
		t.Fatalf("list transactions failed: %v", err)
	}
	if len(transactions) != 30 {
		t.Fatalf("expected exactly 30 ledger rows, got %d", len(transactions))
	}
}
