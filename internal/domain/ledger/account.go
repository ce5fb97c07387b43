package ledger

import (
	"time"

	"github.com/bookkeep/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AccountType classifies an account within the chart of accounts
type AccountType string

const (
	AccountTypeAsset     AccountType = "ASSET"
	AccountTypeLiability AccountType = "LIABILITY"
	AccountTypeEquity    AccountType = "EQUITY"
	AccountTypeRevenue   AccountType = "REVENUE"
	AccountTypeExpense   AccountType = "EXPENSE"
	AccountTypeContra    AccountType = "CONTRA"
)

// IsValid checks if the account type is valid
func (t AccountType) IsValid() bool {
	switch t {
	case AccountTypeAsset, AccountTypeLiability, AccountTypeEquity,
		AccountTypeRevenue, AccountTypeExpense, AccountTypeContra:
		return true
	}
	return false
}

// String returns the string representation of AccountType
func (t AccountType) String() string {
	return string(t)
}

// TaxCategory classifies the tax treatment of postings to an account
type TaxCategory string

const (
	TaxCategoryStandard   TaxCategory = "STANDARD"
	TaxCategoryReduced    TaxCategory = "REDUCED"
	TaxCategoryExempt     TaxCategory = "EXEMPT"
	TaxCategoryNonTaxable TaxCategory = "NON_TAXABLE"
)

// IsValid checks if the tax category is valid
func (c TaxCategory) IsValid() bool {
	switch c {
	case TaxCategoryStandard, TaxCategoryReduced, TaxCategoryExempt, TaxCategoryNonTaxable:
		return true
	}
	return false
}

// Well-known system keys used by the posting templates to resolve mapped
// accounts. Accounts carrying a system key are seeded per tenant; regular
// user-created accounts have an empty key.
const (
	SystemKeyAccountsReceivable = "accounts_receivable"
	SystemKeyAccountsPayable    = "accounts_payable"
	SystemKeyBank               = "bank"
	SystemKeySalesRevenue       = "sales_revenue"
	SystemKeyExpenseDefault     = "expense_default"
)

// Account represents a single account in the chart of accounts.
// Accounts form a tree via ParentID. An account that has been referenced by
// a posted journal line is never hard-deleted, only deactivated.
type Account struct {
	shared.TenantAggregateRoot
	Code        string      `json:"code"`
	Name        string      `json:"name"`
	Type        AccountType `json:"type"`
	ParentID    *uuid.UUID  `json:"parent_id"`
	TaxCategory TaxCategory `json:"tax_category"`
	SystemKey   string      `json:"system_key"`
	Active      bool        `json:"active"`
}

// NewAccount creates a new account
func NewAccount(
	tenantID uuid.UUID,
	code string,
	name string,
	accountType AccountType,
	taxCategory TaxCategory,
	parentID *uuid.UUID,
) (*Account, error) {
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Account code cannot be empty")
	}
	if len(code) > 20 {
		return nil, shared.NewDomainError("INVALID_CODE", "Account code cannot exceed 20 characters")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Account name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Account name cannot exceed 200 characters")
	}
	if !accountType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TYPE", "Account type is not valid")
	}
	if !taxCategory.IsValid() {
		return nil, shared.NewDomainError("INVALID_TAX_CATEGORY", "Tax category is not valid")
	}

	a := &Account{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                code,
		Name:                name,
		Type:                accountType,
		ParentID:            parentID,
		TaxCategory:         taxCategory,
		Active:              true,
	}

	a.AddDomainEvent(NewAccountCreatedEvent(a))

	return a, nil
}

// Deactivate marks the account inactive. Postings against inactive accounts
// are rejected by the posting engine; historical lines keep their reference.
func (a *Account) Deactivate() error {
	if !a.Active {
		return shared.NewDomainError("INVALID_STATE", "Account is already inactive")
	}
	a.Active = false
	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	a.AddDomainEvent(NewAccountDeactivatedEvent(a))

	return nil
}

// Rename updates the display name without touching the code
func (a *Account) Rename(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Account name cannot be empty")
	}
	a.Name = name
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
	return nil
}

// IsPostable returns true if journal lines may reference this account
func (a *Account) IsPostable() bool {
	return a.Active
}
