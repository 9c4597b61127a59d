package ledger

import (
	"fmt"

	"gasbook/backend/internal/domain"
)

// Default transaction category codes. Each binds one business event to a
// debit/credit account pair and a cash-flow classification.
const (
	CategorySaleCash          = "cylinder_sale_cash"
	CategorySaleDue           = "cylinder_sale_due"
	CategoryPurchaseCash      = "cylinder_purchase_cash"
	CategoryPurchaseCredit    = "cylinder_purchase_credit"
	CategorySwapRetail        = "cylinder_swap_retail"
	CategoryRefillSupplier    = "cylinder_refill_supplier"
	CategoryDueCollection     = "due_collection"
	CategorySupplierPayment   = "cylinder_payment_to_supplier"
	CategoryRegulatorSaleCash = "regulator_sale_cash"
	CategoryStoveSaleCash     = "stove_sale_cash"
	CategoryFuelExpense       = "fuel_expense"
	CategorySalaryPayment     = "salary_payment"
	CategoryOtherExpense      = "other_expense"
)

// DefaultCategories returns the fixed default category catalog for a new
// store. Placeholders are the closed set of variables each description
// template may reference; Validate checks the templates against them.
func DefaultCategories(storeID string) []domain.TxCategory {
	categories := []domain.TxCategory{
		{
			Code:                CategorySaleCash,
			Name:                "Cylinder Sale (Cash)",
			DebitAccountCode:    AccountCash,
			CreditAccountCode:   AccountCylinderRev,
			DescriptionTemplate: "Sold {{quantity}} cylinders to {{customerName}} for cash",
			Placeholders:        []string{"quantity", "customerName"},
			CategoryType:        domain.CategoryCashInflow,
		},
		{
			Code:                CategorySaleDue,
			Name:                "Cylinder Sale (Due)",
			DebitAccountCode:    AccountReceivable,
			CreditAccountCode:   AccountCylinderRev,
			DescriptionTemplate: "Sold {{quantity}} cylinders to {{shopName}} on due",
			Placeholders:        []string{"quantity", "shopName"},
			CategoryType:        domain.CategoryNonCash,
		},
		{
			Code:                CategoryPurchaseCash,
			Name:                "Cylinder Purchase (Cash)",
			DebitAccountCode:    AccountPurchaseExp,
			CreditAccountCode:   AccountCash,
			DescriptionTemplate: "Purchased {{quantity}} cylinders from {{supplierName}}",
			Placeholders:        []string{"quantity", "supplierName"},
			CategoryType:        domain.CategoryCashOutflow,
		},
		{
			Code:                CategoryPurchaseCredit,
			Name:                "Cylinder Purchase (Credit)",
			DebitAccountCode:    AccountPurchaseExp,
			CreditAccountCode:   AccountPayable,
			DescriptionTemplate: "Purchased {{quantity}} cylinders from {{supplierName}} on credit",
			Placeholders:        []string{"quantity", "supplierName"},
			CategoryType:        domain.CategoryNonCash,
		},
		{
			Code:                CategorySwapRetail,
			Name:                "Cylinder Swap (Retail)",
			DebitAccountCode:    AccountCash,
			CreditAccountCode:   AccountSwapRev,
			DescriptionTemplate: "Swapped {{quantity}} cylinders for {{customerName}}",
			Placeholders:        []string{"quantity", "customerName"},
			CategoryType:        domain.CategoryCashInflow,
		},
		{
			Code:                CategoryRefillSupplier,
			Name:                "Cylinder Refill (Supplier)",
			DebitAccountCode:    AccountPurchaseExp,
			CreditAccountCode:   AccountCash,
			DescriptionTemplate: "Refilled {{quantity}} empty cylinders at {{supplierName}}",
			Placeholders:        []string{"quantity", "supplierName"},
			CategoryType:        domain.CategoryCashOutflow,
		},
		{
			Code:                CategoryDueCollection,
			Name:                "Shop Due Collection",
			DebitAccountCode:    AccountCash,
			CreditAccountCode:   AccountReceivable,
			DescriptionTemplate: "Collected due from {{shopName}}",
			Placeholders:        []string{"shopName"},
			CategoryType:        domain.CategoryCashInflow,
		},
		{
			Code:                CategorySupplierPayment,
			Name:                "Supplier Payment",
			DebitAccountCode:    AccountPayable,
			CreditAccountCode:   AccountCash,
			DescriptionTemplate: "Paid {{supplierName}} against outstanding balance",
			Placeholders:        []string{"supplierName"},
			CategoryType:        domain.CategoryCashOutflow,
		},
		{
			Code:                CategoryRegulatorSaleCash,
			Name:                "Regulator Sale (Cash)",
			DebitAccountCode:    AccountCash,
			CreditAccountCode:   AccountRegulatorRev,
			DescriptionTemplate: "Sold {{quantity}} regulators to {{customerName}}",
			Placeholders:        []string{"quantity", "customerName"},
			CategoryType:        domain.CategoryCashInflow,
		},
		{
			Code:                CategoryStoveSaleCash,
			Name:                "Stove Sale (Cash)",
			DebitAccountCode:    AccountCash,
			CreditAccountCode:   AccountStoveRev,
			DescriptionTemplate: "Sold {{quantity}} stoves to {{customerName}}",
			Placeholders:        []string{"quantity", "customerName"},
			CategoryType:        domain.CategoryCashInflow,
		},
		{
			Code:                CategoryFuelExpense,
			Name:                "Vehicle Fuel Expense",
			DebitAccountCode:    AccountFuelExp,
			CreditAccountCode:   AccountCash,
			DescriptionTemplate: "Fuel for vehicle {{vehicleNo}}",
			Placeholders:        []string{"vehicleNo"},
			CategoryType:        domain.CategoryCashOutflow,
		},
		{
			Code:                CategorySalaryPayment,
			Name:                "Staff Salary Payment",
			DebitAccountCode:    AccountSalaryExp,
			CreditAccountCode:   AccountCash,
			DescriptionTemplate: "Salary paid to {{staffName}}",
			Placeholders:        []string{"staffName"},
			CategoryType:        domain.CategoryCashOutflow,
		},
		{
			Code:                CategoryOtherExpense,
			Name:                "Other Expense",
			DebitAccountCode:    AccountOtherExp,
			CreditAccountCode:   AccountCash,
			DescriptionTemplate: "Expense: {{note}}",
			Placeholders:        []string{"note"},
			CategoryType:        domain.CategoryCashOutflow,
		},
	}
	for i := range categories {
		categories[i].StoreID = storeID
		categories[i].IsActive = true
	}
	return categories
}

// Validate checks catalog integrity before seeding: every category must
// reference two distinct accounts that exist in the chart, carry a known
// category type, and use only declared placeholders in its template.
// Unknown placeholders are caught here, at registration, rather than
// rendered blank at posting time.
func Validate(accounts []domain.Account, categories []domain.TxCategory) error {
	byCode := make(map[string]domain.Account, len(accounts))
	for _, account := range accounts {
		if account.Code == "" {
			return fmt.Errorf("account with empty code")
		}
		if _, dup := byCode[account.Code]; dup {
			return fmt.Errorf("duplicate account code %s", account.Code)
		}
		byCode[account.Code] = account
	}

	seen := make(map[string]struct{}, len(categories))
	for _, category := range categories {
		if category.Code == "" {
			return fmt.Errorf("category with empty code")
		}
		if _, dup := seen[category.Code]; dup {
			return fmt.Errorf("duplicate category code %s", category.Code)
		}
		seen[category.Code] = struct{}{}

		if _, ok := byCode[category.DebitAccountCode]; !ok {
			return fmt.Errorf("category %s: unknown debit account %s", category.Code, category.DebitAccountCode)
		}
		if _, ok := byCode[category.CreditAccountCode]; !ok {
			return fmt.Errorf("category %s: unknown credit account %s", category.Code, category.CreditAccountCode)
		}
		if category.DebitAccountCode == category.CreditAccountCode {
			return fmt.Errorf("category %s: debit and credit accounts are the same", category.Code)
		}
		switch category.CategoryType {
		case domain.CategoryCashInflow, domain.CategoryCashOutflow, domain.CategoryNonCash:
		default:
			return fmt.Errorf("category %s: unknown category type %q", category.Code, category.CategoryType)
		}

		declared := make(map[string]struct{}, len(category.Placeholders))
		for _, name := range category.Placeholders {
			declared[name] = struct{}{}
		}
		for _, name := range Placeholders(category.DescriptionTemplate) {
			if _, ok := declared[name]; !ok {
				return fmt.Errorf("category %s: template references undeclared placeholder {{%s}}", category.Code, name)
			}
		}
	}
	return nil
}
