package store

import (
	"context"
	"errors"
	"time"

	"gasbook/backend/internal/domain"
)

// Sentinel errors shared by all repository implementations. The HTTP layer
// maps them onto the 400/404/409 taxonomy; anything else is a 500.
var (
	ErrNotFound          = errors.New("not found")
	ErrValidation        = errors.New("invalid input")
	ErrInactiveCategory  = errors.New("category is inactive")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrDueExceeded       = errors.New("payment exceeds outstanding due")
	ErrDuplicate         = errors.New("already exists")
)

// Repository is the persistence boundary. Every lookup is store-scoped;
// an account or category code that exists in another store's chart must
// never satisfy a lookup for this one.
//
// CreateTransaction is the single atomic unit of the ledger: it applies
// the side effect's counter deltas (validating stock sufficiency and due
// balance) and inserts the transaction row, committing both or neither.
type Repository interface {
	SeedAccounts(ctx context.Context, storeID string, accounts []domain.Account) (bool, error)
	ListAccounts(ctx context.Context, storeID string) ([]domain.Account, error)
	GetAccount(ctx context.Context, storeID string, code string) (*domain.Account, error)

	SeedCategories(ctx context.Context, storeID string, categories []domain.TxCategory) (bool, error)
	ListCategories(ctx context.Context, storeID string) ([]domain.TxCategory, error)
	GetCategory(ctx context.Context, storeID string, code string) (*domain.TxCategory, error)

	CreateTransaction(ctx context.Context, tx domain.Transaction, effect domain.SideEffect) (*domain.Transaction, error)
	GetTransaction(ctx context.Context, storeID string, id string) (*domain.Transaction, error)
	ListTransactions(ctx context.Context, storeID string, filter domain.TransactionFilter) ([]domain.Transaction, error)
	CashFlowSummary(ctx context.Context, storeID string, from time.Time, to time.Time) (domain.CashFlowSummary, error)

	CreateShop(ctx context.Context, shop domain.Shop) (*domain.Shop, error)
	GetShop(ctx context.Context, storeID string, id string) (*domain.Shop, error)
	ListShops(ctx context.Context, storeID string) ([]domain.Shop, error)

	CreateItem(ctx context.Context, item domain.InventoryItem) (*domain.InventoryItem, error)
	GetItem(ctx context.Context, storeID string, sku string) (*domain.InventoryItem, error)
	ListItems(ctx context.Context, storeID string) ([]domain.InventoryItem, error)

	CreateAuditLog(ctx context.Context, entry domain.AuditLog) error
	ListAuditLogs(ctx context.Context, storeID string, from time.Time, to time.Time, limit int) ([]domain.AuditLog, error)

	CreateUser(ctx context.Context, user domain.UserAccount) error
	ListUsers(ctx context.Context) ([]domain.UserAccount, error)
	UpdateUserPassword(ctx context.Context, username string, password string) error
}
