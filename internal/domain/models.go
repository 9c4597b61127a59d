package domain

import "time"

// Account types for the per-store chart of accounts.
const (
	AccountTypeAsset     = "asset"
	AccountTypeLiability = "liability"
	AccountTypeEquity    = "equity"
	AccountTypeIncome    = "income"
	AccountTypeExpense   = "expense"
)

// Cash-flow classification of a transaction category.
const (
	CategoryCashInflow  = "CASH_INFLOW"
	CategoryCashOutflow = "CASH_OUTFLOW"
	CategoryNonCash     = "NON_CASH"
)

const (
	ItemKindCylinder  = "cylinder"
	ItemKindRegulator = "regulator"
	ItemKindStove     = "stove"
)

type Account struct {
	StoreID string `json:"store_id"`
	Code    string `json:"code"`
	Name    string `json:"name"`
	Type    string `json:"type"`
}

type TxCategory struct {
	StoreID             string   `json:"store_id"`
	Code                string   `json:"code"`
	Name                string   `json:"name"`
	DebitAccountCode    string   `json:"debit_account_code"`
	CreditAccountCode   string   `json:"credit_account_code"`
	DescriptionTemplate string   `json:"description_template"`
	Placeholders        []string `json:"placeholders,omitempty"`
	CategoryType        string   `json:"category_type"`
	IsActive            bool     `json:"is_active"`
}

// RelatedRefs carries optional references to the domain entities a ledger
// entry touches. They are recorded for traceability; the engine validates
// only the side-effect targets at commit time.
type RelatedRefs struct {
	ShopID    string `json:"shop_id,omitempty"`
	VehicleID string `json:"vehicle_id,omitempty"`
	StaffID   string `json:"staff_id,omitempty"`
	ItemSKU   string `json:"item_sku,omitempty"`
}

func (r RelatedRefs) IsZero() bool {
	return r == RelatedRefs{}
}

// Transaction is one immutable double-entry ledger row: exactly one debit
// leg and one credit leg, amount always positive. Corrections are new rows
// with ReversalOf set; the original is never mutated or deleted.
type Transaction struct {
	ID                string      `json:"id"`
	StoreID           string      `json:"store_id"`
	CategoryCode      string      `json:"category_code"`
	CategoryType      string      `json:"category_type"`
	DebitAccountCode  string      `json:"debit_account_code"`
	CreditAccountCode string      `json:"credit_account_code"`
	AmountCents       int64       `json:"amount_cents"`
	Description       string      `json:"description"`
	RelatedRefs       RelatedRefs `json:"related_refs,omitempty"`
	CreatedBy         string      `json:"created_by"`
	CreatedAt         time.Time   `json:"created_at"`
	ReversalOf        string      `json:"reversal_of,omitempty"`
}

// StockDelta is a signed adjustment to one inventory item's counters. All
// deltas in a side effect are applied atomically with the ledger entry; a
// counter that would go negative rejects the whole posting.
type StockDelta struct {
	SKU           string `json:"sku"`
	FullDelta     int    `json:"full_delta"`
	EmptyDelta    int    `json:"empty_delta"`
	DefectedDelta int    `json:"defected_delta"`
}

// DueDelta is a signed adjustment to a shop's receivable balance. A
// negative delta larger than the current balance rejects the posting.
type DueDelta struct {
	ShopID     string `json:"shop_id"`
	DeltaCents int64  `json:"delta_cents"`
}

// SideEffect describes the domain-state mutation coupled to a ledger
// entry. It is supplied by the business-action handler, never inferred by
// the engine. An empty side effect is valid (pure financial events).
type SideEffect struct {
	Stock []StockDelta `json:"stock,omitempty"`
	Due   *DueDelta    `json:"due,omitempty"`
}

func (e SideEffect) IsEmpty() bool {
	return len(e.Stock) == 0 && e.Due == nil
}

type Shop struct {
	ID            string    `json:"id"`
	StoreID       string    `json:"store_id"`
	Name          string    `json:"name"`
	Phone         string    `json:"phone,omitempty"`
	Area          string    `json:"area,omitempty"`
	TotalDueCents int64     `json:"total_due_cents"`
	CreatedAt     time.Time `json:"created_at"`
}

// InventoryItem is a tracked stock line (cylinder SKU, regulator or stove
// model). Counters are mutated only inside the atomic unit of the ledger
// entry that justifies the mutation.
type InventoryItem struct {
	StoreID       string    `json:"store_id"`
	SKU           string    `json:"sku"`
	Kind          string    `json:"kind"`
	Name          string    `json:"name"`
	FullCount     int       `json:"full_count"`
	EmptyCount    int       `json:"empty_count"`
	DefectedCount int       `json:"defected_count"`
	CreatedAt     time.Time `json:"created_at"`
}

type SeedStatus string

const (
	SeedStatusSeeded        SeedStatus = "seeded"
	SeedStatusAlreadySeeded SeedStatus = "already_seeded"
)

type SeedResult struct {
	StoreID    string     `json:"store_id"`
	Accounts   SeedStatus `json:"accounts"`
	Categories SeedStatus `json:"categories"`
}

type CashFlowSummary struct {
	StoreID      string `json:"store_id"`
	From         string `json:"from"`
	To           string `json:"to"`
	InflowCents  int64  `json:"inflow_cents"`
	OutflowCents int64  `json:"outflow_cents"`
	NetCents     int64  `json:"net_cents"`
}

type TransactionFilter struct {
	CategoryCode string
	From         time.Time
	To           time.Time
	Limit        int
}

type ShopCreateRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Area  string `json:"area"`
}

type ItemCreateRequest struct {
	SKU           string `json:"sku"`
	Kind          string `json:"kind"`
	Name          string `json:"name"`
	FullCount     int    `json:"full_count"`
	EmptyCount    int    `json:"empty_count"`
	DefectedCount int    `json:"defected_count"`
}

type BuyCylindersRequest struct {
	SKU          string `json:"sku"`
	Quantity     int    `json:"quantity"`
	TotalCents   int64  `json:"total_cents"`
	OnCredit     bool   `json:"on_credit"`
	SupplierName string `json:"supplier_name"`
}

type SellCylindersRequest struct {
	SKU          string `json:"sku"`
	Quantity     int    `json:"quantity"`
	TotalCents   int64  `json:"total_cents"`
	PaidCents    int64  `json:"paid_cents"`
	ShopID       string `json:"shop_id,omitempty"`
	CustomerName string `json:"customer_name,omitempty"`
}

const (
	SwapDirectionRetail = "retail"
	SwapDirectionRefill = "refill"
)

type SwapCylindersRequest struct {
	SKU          string `json:"sku"`
	Quantity     int    `json:"quantity"`
	TotalCents   int64  `json:"total_cents"`
	Direction    string `json:"direction"`
	CustomerName string `json:"customer_name,omitempty"`
	SupplierName string `json:"supplier_name,omitempty"`
}

type ClearDueRequest struct {
	PaidCents int64 `json:"paid_cents"`
}

type ExpenseRequest struct {
	CategoryCode string `json:"category_code"`
	AmountCents  int64  `json:"amount_cents"`
	VehicleID    string `json:"vehicle_id,omitempty"`
	StaffID      string `json:"staff_id,omitempty"`
	VehicleNo    string `json:"vehicle_no,omitempty"`
	StaffName    string `json:"staff_name,omitempty"`
	SupplierName string `json:"supplier_name,omitempty"`
	Note         string `json:"note,omitempty"`
}

type ReverseTransactionRequest struct {
	Reason     string `json:"reason"`
	ManagerPIN string `json:"manager_pin,omitempty"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	Role        string `json:"role"`
	ExpiresAt   string `json:"expires_at"`
}

type Actor struct {
	Username string
	Role     string
}

type OperatorCreateRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type OperatorUser struct {
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// UserAccount is an internal persistence model for auth credentials.
type UserAccount struct {
	Username  string
	Password  string
	Role      string
	Active    bool
	CreatedAt time.Time
}

type AuditLog struct {
	ID            string    `json:"id"`
	StoreID       string    `json:"store_id"`
	ActorUsername string    `json:"actor_username"`
	ActorRole     string    `json:"actor_role"`
	Action        string    `json:"action"`
	EntityType    string    `json:"entity_type"`
	EntityID      string    `json:"entity_id"`
	Detail        string    `json:"detail"`
	CreatedAt     time.Time `json:"created_at"`
}
