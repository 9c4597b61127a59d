package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"gasbook/backend/internal/cache"
	"gasbook/backend/internal/domain"
	"gasbook/backend/internal/ledger"
	"gasbook/backend/internal/store"
	"gasbook/backend/internal/xid"
)

type actorContextKey struct{}

func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorContextKey{}).(domain.Actor)
	return actor, ok
}

type Service struct {
	repo           store.Repository
	categories     cache.CategoryCache
	categoryTTL    time.Duration
	defaultStoreID string
}

func New(repo store.Repository, categories cache.CategoryCache, categoryTTL time.Duration, defaultStoreID string) *Service {
	if defaultStoreID == "" {
		defaultStoreID = "main-store"
	}
	if categories == nil {
		categories = cache.NoopCategoryCache{}
	}
	if categoryTTL <= 0 {
		categoryTTL = 10 * time.Minute
	}

	return &Service{
		repo:           repo,
		categories:     categories,
		categoryTTL:    categoryTTL,
		defaultStoreID: defaultStoreID,
	}
}

func (s *Service) DefaultStoreID() string {
	return s.defaultStoreID
}

func (s *Service) resolveStoreID(storeID string) string {
	storeID = strings.TrimSpace(storeID)
	if storeID == "" {
		return s.defaultStoreID
	}
	return storeID
}

// SeedDefaults installs the default chart of accounts and category
// catalog for a store. Both seeds are idempotent: a store that already
// has entries reports AlreadySeeded and is left untouched.
func (s *Service) SeedDefaults(ctx context.Context, storeID string) (domain.SeedResult, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != "admin" {
		return domain.SeedResult{}, fmt.Errorf("admin role required")
	}

	storeID = s.resolveStoreID(storeID)
	accounts := ledger.DefaultAccounts(storeID)
	categories := ledger.DefaultCategories(storeID)
	if err := ledger.Validate(accounts, categories); err != nil {
		return domain.SeedResult{}, fmt.Errorf("%w: %v", store.ErrValidation, err)
	}

	accountsSeeded, err := s.repo.SeedAccounts(ctx, storeID, accounts)
	if err != nil {
		return domain.SeedResult{}, err
	}
	categoriesSeeded, err := s.repo.SeedCategories(ctx, storeID, categories)
	if err != nil {
		return domain.SeedResult{}, err
	}

	if categoriesSeeded {
		if err := s.categories.Invalidate(ctx, categoryCacheKey(storeID)); err != nil {
			log.Printf("[service] WARN: failed to invalidate category cache store=%s: %v", storeID, err)
		}
	}

	result := domain.SeedResult{
		StoreID:    storeID,
		Accounts:   seedStatus(accountsSeeded),
		Categories: seedStatus(categoriesSeeded),
	}
	s.logAudit(ctx, storeID, "seed_defaults", "store", storeID,
		fmt.Sprintf("accounts=%s,categories=%s", result.Accounts, result.Categories))
	return result, nil
}

func seedStatus(seeded bool) domain.SeedStatus {
	if seeded {
		return domain.SeedStatusSeeded
	}
	return domain.SeedStatusAlreadySeeded
}

func (s *Service) ListAccounts(ctx context.Context, storeID string) ([]domain.Account, error) {
	return s.repo.ListAccounts(ctx, s.resolveStoreID(storeID))
}

func (s *Service) ListCategories(ctx context.Context, storeID string) ([]domain.TxCategory, error) {
	storeID = s.resolveStoreID(storeID)

	if cached, hit, err := s.categories.Get(ctx, categoryCacheKey(storeID)); err != nil {
		log.Printf("[service] WARN: category cache read failed store=%s: %v", storeID, err)
	} else if hit {
		return cached, nil
	}

	categories, err := s.repo.ListCategories(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if err := s.categories.Set(ctx, categoryCacheKey(storeID), categories, s.categoryTTL); err != nil {
		log.Printf("[service] WARN: category cache write failed store=%s: %v", storeID, err)
	}
	return categories, nil
}

func categoryCacheKey(storeID string) string {
	return "gasbook:categories:" + storeID
}

// resolveCategory looks a category up within one store's catalog only.
// The cached catalog is tried first; a miss falls through to the store.
func (s *Service) resolveCategory(ctx context.Context, storeID string, code string) (*domain.TxCategory, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, store.ErrValidation
	}

	if cached, hit, err := s.categories.Get(ctx, categoryCacheKey(storeID)); err == nil && hit {
		for i := range cached {
			if cached[i].Code == code {
				category := cached[i]
				return &category, nil
			}
		}
		return nil, store.ErrNotFound
	}

	return s.repo.GetCategory(ctx, storeID, code)
}

// EntryInput describes one posting request against the ledger.
type EntryInput struct {
	CategoryCode string
	AmountCents  int64
	Vars         map[string]string
	Refs         domain.RelatedRefs
	Effect       domain.SideEffect
}

// RecordTransaction is the single entry point for writing to the ledger.
// It resolves the category and both accounts inside the posting store,
// renders the description, and hands the entry plus its side effect to
// the repository as one atomic unit. No other code path creates ledger
// rows.
func (s *Service) RecordTransaction(ctx context.Context, storeID string, input EntryInput) (*domain.Transaction, error) {
	storeID = s.resolveStoreID(storeID)

	category, err := s.resolveCategory(ctx, storeID, input.CategoryCode)
	if err != nil {
		return nil, err
	}
	if !category.IsActive {
		return nil, store.ErrInactiveCategory
	}

	if _, err := s.repo.GetAccount(ctx, storeID, category.DebitAccountCode); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: debit account %s missing, store not seeded", store.ErrNotFound, category.DebitAccountCode)
		}
		return nil, err
	}
	if _, err := s.repo.GetAccount(ctx, storeID, category.CreditAccountCode); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: credit account %s missing, store not seeded", store.ErrNotFound, category.CreditAccountCode)
		}
		return nil, err
	}

	if input.AmountCents < 1 {
		return nil, store.ErrValidation
	}

	actor, ok := ActorFromContext(ctx)
	if !ok {
		actor = domain.Actor{Username: "system", Role: "system"}
	}

	tx := domain.Transaction{
		ID:                xid.New("tx"),
		StoreID:           storeID,
		CategoryCode:      category.Code,
		CategoryType:      category.CategoryType,
		DebitAccountCode:  category.DebitAccountCode,
		CreditAccountCode: category.CreditAccountCode,
		AmountCents:       input.AmountCents,
		Description:       ledger.Render(category.DescriptionTemplate, input.Vars),
		RelatedRefs:       input.Refs,
		CreatedBy:         actor.Username,
		CreatedAt:         time.Now().UTC(),
	}

	created, err := s.repo.CreateTransaction(ctx, tx, input.Effect)
	if err != nil {
		return nil, err
	}

	s.logAudit(ctx, storeID, "transaction_record", "transaction", created.ID,
		fmt.Sprintf("category=%s,amount=%d", created.CategoryCode, created.AmountCents))
	return created, nil
}

func (s *Service) BuyCylinders(ctx context.Context, storeID string, req domain.BuyCylindersRequest) (*domain.Transaction, error) {
	storeID = s.resolveStoreID(storeID)
	req.SKU = strings.ToUpper(strings.TrimSpace(req.SKU))
	req.SupplierName = strings.TrimSpace(req.SupplierName)
	if req.SKU == "" || req.Quantity < 1 || req.TotalCents < 1 {
		return nil, store.ErrValidation
	}

	categoryCode := ledger.CategoryPurchaseCash
	if req.OnCredit {
		categoryCode = ledger.CategoryPurchaseCredit
	}

	return s.RecordTransaction(ctx, storeID, EntryInput{
		CategoryCode: categoryCode,
		AmountCents:  req.TotalCents,
		Vars: map[string]string{
			"quantity":     itoa(req.Quantity),
			"supplierName": req.SupplierName,
		},
		Refs: domain.RelatedRefs{ItemSKU: req.SKU},
		Effect: domain.SideEffect{
			Stock: []domain.StockDelta{{SKU: req.SKU, FullDelta: req.Quantity}},
		},
	})
}

// SellCylinders posts one ledger entry per sale. A fully paid sale is a
// cash sale; an underpaid sale posts against receivables and raises the
// shop's due by the unpaid remainder in the same atomic unit.
func (s *Service) SellCylinders(ctx context.Context, storeID string, req domain.SellCylindersRequest) (*domain.Transaction, error) {
	storeID = s.resolveStoreID(storeID)
	req.SKU = strings.ToUpper(strings.TrimSpace(req.SKU))
	req.ShopID = strings.TrimSpace(req.ShopID)
	req.CustomerName = strings.TrimSpace(req.CustomerName)
	if req.SKU == "" || req.Quantity < 1 || req.TotalCents < 1 {
		return nil, store.ErrValidation
	}
	if req.PaidCents < 0 || req.PaidCents > req.TotalCents {
		return nil, store.ErrValidation
	}

	effect := domain.SideEffect{
		Stock: []domain.StockDelta{{SKU: req.SKU, FullDelta: -req.Quantity}},
	}
	refs := domain.RelatedRefs{ItemSKU: req.SKU}

	if req.PaidCents == req.TotalCents {
		return s.RecordTransaction(ctx, storeID, EntryInput{
			CategoryCode: ledger.CategorySaleCash,
			AmountCents:  req.TotalCents,
			Vars: map[string]string{
				"quantity":     itoa(req.Quantity),
				"customerName": req.CustomerName,
			},
			Refs:   refs,
			Effect: effect,
		})
	}

	// Underpaid sale: only a registered shop can carry due.
	if req.ShopID == "" {
		return nil, store.ErrValidation
	}
	shop, err := s.repo.GetShop(ctx, storeID, req.ShopID)
	if err != nil {
		return nil, err
	}

	refs.ShopID = shop.ID
	effect.Due = &domain.DueDelta{ShopID: shop.ID, DeltaCents: req.TotalCents - req.PaidCents}

	return s.RecordTransaction(ctx, storeID, EntryInput{
		CategoryCode: ledger.CategorySaleDue,
		AmountCents:  req.TotalCents,
		Vars: map[string]string{
			"quantity": itoa(req.Quantity),
			"shopName": shop.Name,
		},
		Refs:   refs,
		Effect: effect,
	})
}

// SwapCylinders moves a quantity between the full and empty counters in
// one inseparable step. Direction "retail" exchanges a customer's empty
// cylinders for full ones; "refill" sends empties to the supplier and
// brings back full stock.
func (s *Service) SwapCylinders(ctx context.Context, storeID string, req domain.SwapCylindersRequest) (*domain.Transaction, error) {
	storeID = s.resolveStoreID(storeID)
	req.SKU = strings.ToUpper(strings.TrimSpace(req.SKU))
	req.Direction = strings.ToLower(strings.TrimSpace(req.Direction))
	if req.SKU == "" || req.Quantity < 1 || req.TotalCents < 1 {
		return nil, store.ErrValidation
	}

	switch req.Direction {
	case domain.SwapDirectionRetail:
		return s.RecordTransaction(ctx, storeID, EntryInput{
			CategoryCode: ledger.CategorySwapRetail,
			AmountCents:  req.TotalCents,
			Vars: map[string]string{
				"quantity":     itoa(req.Quantity),
				"customerName": strings.TrimSpace(req.CustomerName),
			},
			Refs: domain.RelatedRefs{ItemSKU: req.SKU},
			Effect: domain.SideEffect{
				Stock: []domain.StockDelta{{SKU: req.SKU, FullDelta: -req.Quantity, EmptyDelta: req.Quantity}},
			},
		})
	case domain.SwapDirectionRefill:
		return s.RecordTransaction(ctx, storeID, EntryInput{
			CategoryCode: ledger.CategoryRefillSupplier,
			AmountCents:  req.TotalCents,
			Vars: map[string]string{
				"quantity":     itoa(req.Quantity),
				"supplierName": strings.TrimSpace(req.SupplierName),
			},
			Refs: domain.RelatedRefs{ItemSKU: req.SKU},
			Effect: domain.SideEffect{
				Stock: []domain.StockDelta{{SKU: req.SKU, FullDelta: req.Quantity, EmptyDelta: -req.Quantity}},
			},
		})
	default:
		return nil, store.ErrValidation
	}
}

// ClearShopDue collects a payment against a shop's outstanding balance.
// A payment larger than the balance is rejected before anything posts.
func (s *Service) ClearShopDue(ctx context.Context, storeID string, shopID string, req domain.ClearDueRequest) (*domain.Transaction, error) {
	storeID = s.resolveStoreID(storeID)
	shopID = strings.TrimSpace(shopID)
	if shopID == "" || req.PaidCents < 1 {
		return nil, store.ErrValidation
	}

	shop, err := s.repo.GetShop(ctx, storeID, shopID)
	if err != nil {
		return nil, err
	}
	if req.PaidCents > shop.TotalDueCents {
		return nil, store.ErrDueExceeded
	}

	return s.RecordTransaction(ctx, storeID, EntryInput{
		CategoryCode: ledger.CategoryDueCollection,
		AmountCents:  req.PaidCents,
		Vars:         map[string]string{"shopName": shop.Name},
		Refs:         domain.RelatedRefs{ShopID: shop.ID},
		Effect: domain.SideEffect{
			Due: &domain.DueDelta{ShopID: shop.ID, DeltaCents: -req.PaidCents},
		},
	})
}

// RecordExpense posts a pure financial event: no stock or due movement,
// just the category's debit/credit pair.
func (s *Service) RecordExpense(ctx context.Context, storeID string, req domain.ExpenseRequest) (*domain.Transaction, error) {
	storeID = s.resolveStoreID(storeID)
	req.CategoryCode = strings.TrimSpace(req.CategoryCode)
	if req.CategoryCode == "" || req.AmountCents < 1 {
		return nil, store.ErrValidation
	}

	return s.RecordTransaction(ctx, storeID, EntryInput{
		CategoryCode: req.CategoryCode,
		AmountCents:  req.AmountCents,
		Vars: map[string]string{
			"vehicleNo":    strings.TrimSpace(req.VehicleNo),
			"staffName":    strings.TrimSpace(req.StaffName),
			"supplierName": strings.TrimSpace(req.SupplierName),
			"note":         strings.TrimSpace(req.Note),
		},
		Refs: domain.RelatedRefs{VehicleID: strings.TrimSpace(req.VehicleID), StaffID: strings.TrimSpace(req.StaffID)},
	})
}

// ReverseTransaction posts a compensating entry for a committed row. The
// original is never touched: the new entry swaps the debit and credit
// legs, carries the same amount, and points back via ReversalOf. Cash
// classification is inverted so period summaries net out. Counters are
// not adjusted automatically; a physical correction is its own posting.
func (s *Service) ReverseTransaction(ctx context.Context, storeID string, transactionID string, req domain.ReverseTransactionRequest) (*domain.Transaction, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != "admin" {
		return nil, fmt.Errorf("admin role required")
	}

	storeID = s.resolveStoreID(storeID)
	transactionID = strings.TrimSpace(transactionID)
	if transactionID == "" {
		return nil, store.ErrValidation
	}
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		reason = "unspecified"
	}

	original, err := s.repo.GetTransaction(ctx, storeID, transactionID)
	if err != nil {
		return nil, err
	}
	if original.ReversalOf != "" {
		return nil, fmt.Errorf("%w: a reversal entry cannot be reversed", store.ErrValidation)
	}

	reversal := domain.Transaction{
		ID:                xid.New("tx"),
		StoreID:           storeID,
		CategoryCode:      original.CategoryCode,
		CategoryType:      invertCategoryType(original.CategoryType),
		DebitAccountCode:  original.CreditAccountCode,
		CreditAccountCode: original.DebitAccountCode,
		AmountCents:       original.AmountCents,
		Description:       fmt.Sprintf("Reversal of %s: %s", original.ID, reason),
		RelatedRefs:       original.RelatedRefs,
		CreatedBy:         actor.Username,
		CreatedAt:         time.Now().UTC(),
		ReversalOf:        original.ID,
	}

	created, err := s.repo.CreateTransaction(ctx, reversal, domain.SideEffect{})
	if err != nil {
		return nil, err
	}

	s.logAudit(ctx, storeID, "transaction_reverse", "transaction", created.ID,
		fmt.Sprintf("original=%s,reason=%s", original.ID, reason))
	return created, nil
}

func invertCategoryType(categoryType string) string {
	switch categoryType {
	case domain.CategoryCashInflow:
		return domain.CategoryCashOutflow
	case domain.CategoryCashOutflow:
		return domain.CategoryCashInflow
	default:
		return categoryType
	}
}

func (s *Service) GetTransaction(ctx context.Context, storeID string, id string) (*domain.Transaction, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, store.ErrValidation
	}
	return s.repo.GetTransaction(ctx, s.resolveStoreID(storeID), id)
}

func (s *Service) ListTransactions(ctx context.Context, storeID string, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	if filter.Limit < 1 {
		filter.Limit = 200
	}
	return s.repo.ListTransactions(ctx, s.resolveStoreID(storeID), filter)
}

// CashFlow summarizes committed entries for a date range. The range is
// inclusive of "from" day and of "to" day.
func (s *Service) CashFlow(ctx context.Context, storeID string, fromDate string, toDate string) (domain.CashFlowSummary, error) {
	storeID = s.resolveStoreID(storeID)

	from, to, err := parseDateRange(fromDate, toDate)
	if err != nil {
		return domain.CashFlowSummary{}, err
	}

	summary, err := s.repo.CashFlowSummary(ctx, storeID, from, to)
	if err != nil {
		return domain.CashFlowSummary{}, err
	}
	summary.StoreID = storeID
	summary.From = from.Format("2006-01-02")
	summary.To = to.Add(-24 * time.Hour).Format("2006-01-02")
	return summary, nil
}

func parseDateRange(fromDate string, toDate string) (time.Time, time.Time, error) {
	now := time.Now().UTC()
	to := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	from := to.Add(-29 * 24 * time.Hour)

	if strings.TrimSpace(fromDate) != "" {
		parsed, err := time.Parse("2006-01-02", fromDate)
		if err != nil {
			return time.Time{}, time.Time{}, store.ErrValidation
		}
		from = parsed.UTC()
	}
	if strings.TrimSpace(toDate) != "" {
		parsed, err := time.Parse("2006-01-02", toDate)
		if err != nil {
			return time.Time{}, time.Time{}, store.ErrValidation
		}
		to = parsed.UTC()
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, store.ErrValidation
	}
	return from, to.Add(24 * time.Hour), nil
}

func (s *Service) CreateShop(ctx context.Context, storeID string, req domain.ShopCreateRequest) (domain.Shop, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != "admin" {
		return domain.Shop{}, fmt.Errorf("admin role required")
	}

	storeID = s.resolveStoreID(storeID)
	req.Name = strings.TrimSpace(req.Name)
	req.Phone = strings.TrimSpace(req.Phone)
	req.Area = strings.TrimSpace(req.Area)
	if req.Name == "" {
		return domain.Shop{}, store.ErrValidation
	}

	shop := domain.Shop{
		ID:        xid.New("shop"),
		StoreID:   storeID,
		Name:      req.Name,
		Phone:     req.Phone,
		Area:      req.Area,
		CreatedAt: time.Now().UTC(),
	}
	saved, err := s.repo.CreateShop(ctx, shop)
	if err != nil {
		return domain.Shop{}, err
	}

	s.logAudit(ctx, storeID, "shop_create", "shop", saved.ID, fmt.Sprintf("name=%s,area=%s", saved.Name, saved.Area))
	return *saved, nil
}

func (s *Service) GetShop(ctx context.Context, storeID string, id string) (*domain.Shop, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, store.ErrValidation
	}
	return s.repo.GetShop(ctx, s.resolveStoreID(storeID), id)
}

func (s *Service) ListShops(ctx context.Context, storeID string) ([]domain.Shop, error) {
	return s.repo.ListShops(ctx, s.resolveStoreID(storeID))
}

func (s *Service) CreateItem(ctx context.Context, storeID string, req domain.ItemCreateRequest) (domain.InventoryItem, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != "admin" {
		return domain.InventoryItem{}, fmt.Errorf("admin role required")
	}

	storeID = s.resolveStoreID(storeID)
	req.SKU = strings.ToUpper(strings.TrimSpace(req.SKU))
	req.Kind = strings.ToLower(strings.TrimSpace(req.Kind))
	req.Name = strings.TrimSpace(req.Name)
	if req.SKU == "" || req.Name == "" {
		return domain.InventoryItem{}, store.ErrValidation
	}
	switch req.Kind {
	case domain.ItemKindCylinder, domain.ItemKindRegulator, domain.ItemKindStove:
	default:
		return domain.InventoryItem{}, store.ErrValidation
	}
	if req.FullCount < 0 || req.EmptyCount < 0 || req.DefectedCount < 0 {
		return domain.InventoryItem{}, store.ErrValidation
	}

	item := domain.InventoryItem{
		StoreID:       storeID,
		SKU:           req.SKU,
		Kind:          req.Kind,
		Name:          req.Name,
		FullCount:     req.FullCount,
		EmptyCount:    req.EmptyCount,
		DefectedCount: req.DefectedCount,
		CreatedAt:     time.Now().UTC(),
	}
	saved, err := s.repo.CreateItem(ctx, item)
	if err != nil {
		return domain.InventoryItem{}, err
	}

	s.logAudit(ctx, storeID, "item_create", "inventory_item", saved.SKU,
		fmt.Sprintf("kind=%s,full=%d,empty=%d", saved.Kind, saved.FullCount, saved.EmptyCount))
	return *saved, nil
}

func (s *Service) GetItem(ctx context.Context, storeID string, sku string) (*domain.InventoryItem, error) {
	sku = strings.ToUpper(strings.TrimSpace(sku))
	if sku == "" {
		return nil, store.ErrValidation
	}
	return s.repo.GetItem(ctx, s.resolveStoreID(storeID), sku)
}

func (s *Service) ListItems(ctx context.Context, storeID string) ([]domain.InventoryItem, error) {
	return s.repo.ListItems(ctx, s.resolveStoreID(storeID))
}

func (s *Service) ListAuditLogs(ctx context.Context, storeID string, date string, limit int) ([]domain.AuditLog, error) {
	storeID = s.resolveStoreID(storeID)
	if limit < 1 {
		limit = 100
	}

	var from time.Time
	if strings.TrimSpace(date) == "" {
		from = time.Now().UTC().Add(-24 * time.Hour)
	} else {
		parsed, err := time.Parse("2006-01-02", date)
		if err != nil {
			return nil, store.ErrValidation
		}
		from = parsed.UTC()
	}
	to := from.Add(24 * time.Hour)

	return s.repo.ListAuditLogs(ctx, storeID, from, to, limit)
}

func (s *Service) logAudit(ctx context.Context, storeID string, action string, entityType string, entityID string, detail string) {
	if storeID == "" {
		storeID = s.defaultStoreID
	}

	actor, ok := ActorFromContext(ctx)
	if !ok {
		actor = domain.Actor{Username: "system", Role: "system"}
	}

	if err := s.repo.CreateAuditLog(ctx, domain.AuditLog{
		ID:            xid.New("audit"),
		StoreID:       storeID,
		ActorUsername: actor.Username,
		ActorRole:     actor.Role,
		Action:        action,
		EntityType:    entityType,
		EntityID:      entityID,
		Detail:        detail,
		CreatedAt:     time.Now().UTC(),
	}); err != nil {
		log.Printf("[audit] WARN: failed to write audit log action=%s entity=%s/%s: %v", action, entityType, entityID, err)
	}
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
