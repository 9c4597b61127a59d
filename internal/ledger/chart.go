// Package ledger holds the static catalog behind the transaction engine:
// the default chart of accounts, the default transaction categories, and
// the description template renderer. The catalog is seeded per store and
// read-mostly afterwards; account and category codes are a stable contract
// with historical reporting and must never be renamed or removed.
package ledger

import "gasbook/backend/internal/domain"

// Default chart-of-accounts codes. The structured form is
// <numeric>-<TYPE>-<SHORT>; the numeric prefix groups accounts the usual
// way (1xxx assets, 2xxx liabilities, 3xxx equity, 4xxx income, 5xxx
// expenses).
const (
	AccountCash         = "1000-ASSET-CASH"
	AccountBank         = "1010-ASSET-BANK"
	AccountReceivable   = "1100-ASSET-RECV"
	AccountCylinderInv  = "1200-ASSET-INV-CYL"
	AccountPayable      = "2000-LIAB-PAYABLE"
	AccountCapital      = "3000-EQ-CAPITAL"
	AccountCylinderRev  = "4100-REV-CYL"
	AccountRegulatorRev = "4110-REV-REG"
	AccountStoveRev     = "4120-REV-STV"
	AccountSwapRev      = "4200-REV-SWAP"
	AccountPurchaseExp  = "5000-EXP-PURCHASE"
	AccountFuelExp      = "5100-EXP-FUEL"
	AccountSalaryExp    = "5200-EXP-SALARY"
	AccountOtherExp     = "5300-EXP-OTHER"
)

// DefaultAccounts returns the fixed default chart for a new store. The
// slice is freshly allocated per call so callers may set StoreID in place.
func DefaultAccounts(storeID string) []domain.Account {
	accounts := []domain.Account{
		{Code: AccountCash, Name: "Cash in Hand", Type: domain.AccountTypeAsset},
		{Code: AccountBank, Name: "Bank Balance", Type: domain.AccountTypeAsset},
		{Code: AccountReceivable, Name: "Shop Receivables", Type: domain.AccountTypeAsset},
		{Code: AccountCylinderInv, Name: "Cylinder Inventory", Type: domain.AccountTypeAsset},
		{Code: AccountPayable, Name: "Supplier Payables", Type: domain.AccountTypeLiability},
		{Code: AccountCapital, Name: "Owner Capital", Type: domain.AccountTypeEquity},
		{Code: AccountCylinderRev, Name: "Cylinder Sales Revenue", Type: domain.AccountTypeIncome},
		{Code: AccountRegulatorRev, Name: "Regulator Sales Revenue", Type: domain.AccountTypeIncome},
		{Code: AccountStoveRev, Name: "Stove Sales Revenue", Type: domain.AccountTypeIncome},
		{Code: AccountSwapRev, Name: "Swap and Refill Revenue", Type: domain.AccountTypeIncome},
		{Code: AccountPurchaseExp, Name: "Cylinder Purchases", Type: domain.AccountTypeExpense},
		{Code: AccountFuelExp, Name: "Vehicle Fuel Expense", Type: domain.AccountTypeExpense},
		{Code: AccountSalaryExp, Name: "Staff Salary Expense", Type: domain.AccountTypeExpense},
		{Code: AccountOtherExp, Name: "Other Expense", Type: domain.AccountTypeExpense},
	}
	for i := range accounts {
		accounts[i].StoreID = storeID
	}
	return accounts
}
