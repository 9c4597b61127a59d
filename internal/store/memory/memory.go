package memory

import (
	"context"
	"log"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"gasbook/backend/internal/domain"
	"gasbook/backend/internal/store"
	"gasbook/backend/internal/xid"
)

// Store is the in-memory repository used in dev mode and tests. One mutex
// guards all state, so every CreateTransaction is trivially linearizable;
// the postgres implementation provides the same guarantee via serializable
// transactions and conditional updates.
type Store struct {
	mu                sync.RWMutex
	accountsByStore   map[string]map[string]domain.Account
	categoriesByStore map[string]map[string]domain.TxCategory
	transactionsByID  map[string]domain.Transaction
	transactionOrder  []string
	shopsByID         map[string]domain.Shop
	itemsByKey        map[string]domain.InventoryItem
	auditLogs         []domain.AuditLog
	usersByUsername   map[string]domain.UserAccount
}

func New() *Store {
	return &Store{
		accountsByStore:   make(map[string]map[string]domain.Account),
		categoriesByStore: make(map[string]map[string]domain.TxCategory),
		transactionsByID:  make(map[string]domain.Transaction),
		transactionOrder:  make([]string, 0, 128),
		shopsByID:         make(map[string]domain.Shop),
		itemsByKey:        make(map[string]domain.InventoryItem),
		auditLogs:         make([]domain.AuditLog, 0, 128),
		usersByUsername:   make(map[string]domain.UserAccount),
	}
}

// NewSeeded returns a store preloaded with demo shops, inventory and user
// accounts for the default store. The chart and category catalog are not
// seeded here; that goes through the service's SeedDefaults so dev mode
// exercises the same path as production.
func NewSeeded() *Store {
	s := New()
	now := time.Now().UTC()

	items := []domain.InventoryItem{
		{StoreID: "main-store", SKU: "CYL-12KG", Kind: domain.ItemKindCylinder, Name: "LPG Cylinder 12kg", FullCount: 120, EmptyCount: 40, CreatedAt: now},
		{StoreID: "main-store", SKU: "CYL-35KG", Kind: domain.ItemKindCylinder, Name: "LPG Cylinder 35kg", FullCount: 30, EmptyCount: 12, CreatedAt: now},
		{StoreID: "main-store", SKU: "REG-STD", Kind: domain.ItemKindRegulator, Name: "Standard Regulator", FullCount: 55, CreatedAt: now},
		{StoreID: "main-store", SKU: "STV-SGL", Kind: domain.ItemKindStove, Name: "Single Burner Stove", FullCount: 18, CreatedAt: now},
	}
	for _, item := range items {
		s.itemsByKey[itemKey(item.StoreID, item.SKU)] = item
	}

	shops := []domain.Shop{
		{ID: "shop-karim-traders", StoreID: "main-store", Name: "Karim Traders", Phone: "01711-000001", Area: "Mirpur", CreatedAt: now},
		{ID: "shop-city-gas", StoreID: "main-store", Name: "City Gas Corner", Phone: "01711-000002", Area: "Uttara", CreatedAt: now},
	}
	for _, shop := range shops {
		s.shopsByID[shop.ID] = shop
	}

	s.usersByUsername = seedUsers()
	return s
}

// seedUsers builds the initial in-memory user accounts for dev/demo mode.
// Credentials come from SEED_ADMIN_PASSWORD and SEED_OPERATOR_PASSWORD;
// hardcoded dev defaults are used with a warning when unset.
func seedUsers() map[string]domain.UserAccount {
	adminPwd := envOr("SEED_ADMIN_PASSWORD", "admin123")
	operatorPwd := envOr("SEED_OPERATOR_PASSWORD", "operator123")
	if os.Getenv("SEED_ADMIN_PASSWORD") == "" || os.Getenv("SEED_OPERATOR_PASSWORD") == "" {
		log.Println("[memory-store] WARNING: using default dev credentials. Set SEED_ADMIN_PASSWORD and SEED_OPERATOR_PASSWORD to override.")
	}

	now := time.Now().UTC()
	users := map[string]domain.UserAccount{}
	for _, u := range []struct {
		username string
		password string
		role     string
	}{
		{"admin", adminPwd, "admin"},
		{"operator", operatorPwd, "operator"},
	} {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("[memory-store] failed to hash seed password for %s: %v", u.username, err)
		}
		users[u.username] = domain.UserAccount{
			Username:  u.username,
			Password:  string(hash),
			Role:      u.role,
			Active:    true,
			CreatedAt: now,
		}
	}
	return users
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func itemKey(storeID, sku string) string {
	return storeID + "/" + sku
}

func (s *Store) SeedAccounts(_ context.Context, storeID string, accounts []domain.Account) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing := s.accountsByStore[storeID]; len(existing) > 0 {
		return false, nil
	}

	byCode := make(map[string]domain.Account, len(accounts))
	for _, account := range accounts {
		if account.Code == "" || account.StoreID != storeID {
			return false, store.ErrValidation
		}
		byCode[account.Code] = account
	}
	s.accountsByStore[storeID] = byCode
	return true, nil
}

func (s *Store) ListAccounts(_ context.Context, storeID string) ([]domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byCode := s.accountsByStore[storeID]
	accounts := make([]domain.Account, 0, len(byCode))
	for _, account := range byCode {
		accounts = append(accounts, account)
	}
	slices.SortFunc(accounts, func(a, b domain.Account) int {
		return strings.Compare(a.Code, b.Code)
	})
	return accounts, nil
}

func (s *Store) GetAccount(_ context.Context, storeID string, code string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	account, exists := s.accountsByStore[storeID][code]
	if !exists {
		return nil, store.ErrNotFound
	}
	copied := account
	return &copied, nil
}

func (s *Store) SeedCategories(_ context.Context, storeID string, categories []domain.TxCategory) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing := s.categoriesByStore[storeID]; len(existing) > 0 {
		return false, nil
	}

	byCode := make(map[string]domain.TxCategory, len(categories))
	for _, category := range categories {
		if category.Code == "" || category.StoreID != storeID {
			return false, store.ErrValidation
		}
		byCode[category.Code] = category
	}
	s.categoriesByStore[storeID] = byCode
	return true, nil
}

func (s *Store) ListCategories(_ context.Context, storeID string) ([]domain.TxCategory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byCode := s.categoriesByStore[storeID]
	categories := make([]domain.TxCategory, 0, len(byCode))
	for _, category := range byCode {
		categories = append(categories, category)
	}
	slices.SortFunc(categories, func(a, b domain.TxCategory) int {
		return strings.Compare(a.Code, b.Code)
	})
	return categories, nil
}

func (s *Store) GetCategory(_ context.Context, storeID string, code string) (*domain.TxCategory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	category, exists := s.categoriesByStore[storeID][code]
	if !exists {
		return nil, store.ErrNotFound
	}
	copied := category
	return &copied, nil
}

// CreateTransaction applies the side effect and inserts the ledger row as
// one unit. All constraints are checked before any state changes, so a
// rejected posting leaves no trace.
func (s *Store) CreateTransaction(_ context.Context, tx domain.Transaction, effect domain.SideEffect) (*domain.Transaction, error) {
	if tx.StoreID == "" || tx.CategoryCode == "" || tx.AmountCents < 1 {
		return nil, store.ErrValidation
	}
	if tx.DebitAccountCode == "" || tx.CreditAccountCode == "" || tx.DebitAccountCode == tx.CreditAccountCode {
		return nil, store.ErrValidation
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Validation pass: nothing is mutated until every delta is known good.
	updatedItems := make(map[string]domain.InventoryItem, len(effect.Stock))
	for _, delta := range effect.Stock {
		key := itemKey(tx.StoreID, delta.SKU)
		item, exists := updatedItems[key]
		if !exists {
			item, exists = s.itemsByKey[key]
			if !exists {
				return nil, store.ErrNotFound
			}
		}
		item.FullCount += delta.FullDelta
		item.EmptyCount += delta.EmptyDelta
		item.DefectedCount += delta.DefectedDelta
		if item.FullCount < 0 || item.EmptyCount < 0 || item.DefectedCount < 0 {
			return nil, store.ErrInsufficientStock
		}
		updatedItems[key] = item
	}

	var updatedShop *domain.Shop
	if effect.Due != nil {
		shop, exists := s.shopsByID[effect.Due.ShopID]
		if !exists || shop.StoreID != tx.StoreID {
			return nil, store.ErrNotFound
		}
		shop.TotalDueCents += effect.Due.DeltaCents
		if shop.TotalDueCents < 0 {
			return nil, store.ErrDueExceeded
		}
		updatedShop = &shop
	}

	if tx.ID == "" {
		tx.ID = xid.New("tx")
	}
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now().UTC()
	}
	if _, dup := s.transactionsByID[tx.ID]; dup {
		return nil, store.ErrDuplicate
	}

	for key, item := range updatedItems {
		s.itemsByKey[key] = item
	}
	if updatedShop != nil {
		s.shopsByID[updatedShop.ID] = *updatedShop
	}
	s.transactionsByID[tx.ID] = tx
	s.transactionOrder = append(s.transactionOrder, tx.ID)

	created := tx
	return &created, nil
}

func (s *Store) GetTransaction(_ context.Context, storeID string, id string) (*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tx, exists := s.transactionsByID[id]
	if !exists || tx.StoreID != storeID {
		return nil, store.ErrNotFound
	}
	copied := tx
	return &copied, nil
}

func (s *Store) ListTransactions(_ context.Context, storeID string, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Transaction, 0, 64)
	for i := len(s.transactionOrder) - 1; i >= 0; i-- {
		tx := s.transactionsByID[s.transactionOrder[i]]
		if tx.StoreID != storeID {
			continue
		}
		if filter.CategoryCode != "" && tx.CategoryCode != filter.CategoryCode {
			continue
		}
		if !filter.From.IsZero() && tx.CreatedAt.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && !tx.CreatedAt.Before(filter.To) {
			continue
		}
		result = append(result, tx)
		if filter.Limit > 0 && len(result) >= filter.Limit {
			break
		}
	}
	return result, nil
}

func (s *Store) CashFlowSummary(_ context.Context, storeID string, from time.Time, to time.Time) (domain.CashFlowSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summary := domain.CashFlowSummary{StoreID: storeID}
	for _, id := range s.transactionOrder {
		tx := s.transactionsByID[id]
		if tx.StoreID != storeID {
			continue
		}
		if !from.IsZero() && tx.CreatedAt.Before(from) {
			continue
		}
		if !to.IsZero() && !tx.CreatedAt.Before(to) {
			continue
		}
		switch tx.CategoryType {
		case domain.CategoryCashInflow:
			summary.InflowCents += tx.AmountCents
		case domain.CategoryCashOutflow:
			summary.OutflowCents += tx.AmountCents
		}
	}
	summary.NetCents = summary.InflowCents - summary.OutflowCents
	return summary, nil
}

func (s *Store) CreateShop(_ context.Context, shop domain.Shop) (*domain.Shop, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if shop.StoreID == "" || shop.Name == "" {
		return nil, store.ErrValidation
	}
	if shop.ID == "" {
		shop.ID = xid.New("shop")
	}
	if _, exists := s.shopsByID[shop.ID]; exists {
		return nil, store.ErrDuplicate
	}
	if shop.CreatedAt.IsZero() {
		shop.CreatedAt = time.Now().UTC()
	}
	s.shopsByID[shop.ID] = shop
	created := shop
	return &created, nil
}

func (s *Store) GetShop(_ context.Context, storeID string, id string) (*domain.Shop, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	shop, exists := s.shopsByID[id]
	if !exists || shop.StoreID != storeID {
		return nil, store.ErrNotFound
	}
	copied := shop
	return &copied, nil
}

func (s *Store) ListShops(_ context.Context, storeID string) ([]domain.Shop, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	shops := make([]domain.Shop, 0, len(s.shopsByID))
	for _, shop := range s.shopsByID {
		if shop.StoreID != storeID {
			continue
		}
		shops = append(shops, shop)
	}
	slices.SortFunc(shops, func(a, b domain.Shop) int {
		return strings.Compare(a.Name, b.Name)
	})
	return shops, nil
}

func (s *Store) CreateItem(_ context.Context, item domain.InventoryItem) (*domain.InventoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if item.StoreID == "" || item.SKU == "" || item.Name == "" {
		return nil, store.ErrValidation
	}
	if item.FullCount < 0 || item.EmptyCount < 0 || item.DefectedCount < 0 {
		return nil, store.ErrValidation
	}
	key := itemKey(item.StoreID, item.SKU)
	if _, exists := s.itemsByKey[key]; exists {
		return nil, store.ErrDuplicate
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}
	s.itemsByKey[key] = item
	created := item
	return &created, nil
}

func (s *Store) GetItem(_ context.Context, storeID string, sku string) (*domain.InventoryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, exists := s.itemsByKey[itemKey(storeID, sku)]
	if !exists {
		return nil, store.ErrNotFound
	}
	copied := item
	return &copied, nil
}

func (s *Store) ListItems(_ context.Context, storeID string) ([]domain.InventoryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]domain.InventoryItem, 0, len(s.itemsByKey))
	for _, item := range s.itemsByKey {
		if item.StoreID != storeID {
			continue
		}
		items = append(items, item)
	}
	slices.SortFunc(items, func(a, b domain.InventoryItem) int {
		return strings.Compare(a.SKU, b.SKU)
	})
	return items, nil
}

func (s *Store) CreateAuditLog(_ context.Context, entry domain.AuditLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.ID == "" {
		entry.ID = xid.New("audit")
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	s.auditLogs = append(s.auditLogs, entry)
	return nil
}

func (s *Store) ListAuditLogs(_ context.Context, storeID string, from time.Time, to time.Time, limit int) ([]domain.AuditLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.AuditLog, 0, 64)
	for i := len(s.auditLogs) - 1; i >= 0; i-- {
		entry := s.auditLogs[i]
		if entry.StoreID != storeID {
			continue
		}
		if !from.IsZero() && entry.CreatedAt.Before(from) {
			continue
		}
		if !to.IsZero() && !entry.CreatedAt.Before(to) {
			continue
		}
		result = append(result, entry)
		if limit > 0 && len(result) >= limit {
			break
		}
	}
	return result, nil
}

func (s *Store) CreateUser(_ context.Context, user domain.UserAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if user.Username == "" {
		return store.ErrValidation
	}
	if _, exists := s.usersByUsername[user.Username]; exists {
		return store.ErrDuplicate
	}
	s.usersByUsername[user.Username] = user
	return nil
}

func (s *Store) ListUsers(_ context.Context) ([]domain.UserAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]domain.UserAccount, 0, len(s.usersByUsername))
	for _, user := range s.usersByUsername {
		users = append(users, user)
	}
	return users, nil
}

func (s *Store) UpdateUserPassword(_ context.Context, username string, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, exists := s.usersByUsername[username]
	if !exists {
		return store.ErrNotFound
	}
	user.Password = password
	s.usersByUsername[username] = user
	return nil
}
