package billing

import (
	"time"

	"github.com/bookkeep/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceStatus mirrors the lifecycle of an invoice as managed by the
// document layer. The ledger core only ever observes transitions; it does
// not own the invoice lifecycle.
type InvoiceStatus string

const (
	InvoiceStatusPending InvoiceStatus = "PENDING"
	InvoiceStatusSent    InvoiceStatus = "SENT"
	InvoiceStatusPaid    InvoiceStatus = "PAID"
	InvoiceStatusVoid    InvoiceStatus = "VOID"
)

// IsValid checks if the status is a valid InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusPending, InvoiceStatusSent, InvoiceStatusPaid, InvoiceStatusVoid:
		return true
	}
	return false
}

// ExpenseStatus mirrors the lifecycle of an expense claim
type ExpenseStatus string

const (
	ExpenseStatusDraft      ExpenseStatus = "DRAFT"
	ExpenseStatusApproved   ExpenseStatus = "APPROVED"
	ExpenseStatusReimbursed ExpenseStatus = "REIMBURSED"
)

// OpenInvoice is the read model the reconciliation matcher consumes for
// invoices still awaiting settlement. It is fed by the document layer and
// settled through ConfirmMatch.
type OpenInvoice struct {
	shared.TenantAggregateRoot
	Number           string          `json:"number"`
	CounterpartyName string          `json:"counterparty_name"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	IssueDate        time.Time       `json:"issue_date"`
	DueDate          *time.Time      `json:"due_date"`
	Open             bool            `json:"open"`
	SettledAt        *time.Time      `json:"settled_at"`
}

// Settle closes the invoice after a confirmed bank match
func (i *OpenInvoice) Settle() error {
	if !i.Open {
		return shared.NewDomainError("INVALID_STATE", "Invoice is already settled")
	}
	now := time.Now()
	i.Open = false
	i.SettledAt = &now
	i.UpdatedAt = now
	i.IncrementVersion()
	return nil
}

// OpenBill is the read model for supplier bills awaiting settlement
type OpenBill struct {
	shared.TenantAggregateRoot
	Number           string          `json:"number"`
	CounterpartyName string          `json:"counterparty_name"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	IssueDate        time.Time       `json:"issue_date"`
	DueDate          *time.Time      `json:"due_date"`
	Open             bool            `json:"open"`
	SettledAt        *time.Time      `json:"settled_at"`
}

// Settle closes the bill after a confirmed bank match
func (b *OpenBill) Settle() error {
	if !b.Open {
		return shared.NewDomainError("INVALID_STATE", "Bill is already settled")
	}
	now := time.Now()
	b.Open = false
	b.SettledAt = &now
	b.UpdatedAt = now
	b.IncrementVersion()
	return nil
}

// NewOpenInvoice registers an invoice awaiting settlement
func NewOpenInvoice(
	tenantID uuid.UUID,
	number, counterpartyName string,
	totalAmount decimal.Decimal,
	issueDate time.Time,
	dueDate *time.Time,
) (*OpenInvoice, error) {
	if number == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Invoice number cannot be empty")
	}
	if !totalAmount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Invoice total must be positive")
	}
	return &OpenInvoice{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Number:              number,
		CounterpartyName:    counterpartyName,
		TotalAmount:         totalAmount,
		IssueDate:           issueDate,
		DueDate:             dueDate,
		Open:                true,
	}, nil
}

// NewOpenBill registers a supplier bill awaiting settlement
func NewOpenBill(
	tenantID uuid.UUID,
	number, counterpartyName string,
	totalAmount decimal.Decimal,
	issueDate time.Time,
	dueDate *time.Time,
) (*OpenBill, error) {
	if number == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Bill number cannot be empty")
	}
	if !totalAmount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Bill total must be positive")
	}
	return &OpenBill{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Number:              number,
		CounterpartyName:    counterpartyName,
		TotalAmount:         totalAmount,
		IssueDate:           issueDate,
		DueDate:             dueDate,
		Open:                true,
	}, nil
}
