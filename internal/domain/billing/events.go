package billing

import (
	"time"

	"github.com/bookkeep/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event type constants for document lifecycle transitions. The document
// layer emits these whenever a status change is persisted; the journal
// generation handlers consume them.
const (
	EventTypeInvoiceSent       = "billing.invoice.sent"
	EventTypeInvoicePaid       = "billing.invoice.paid"
	EventTypeExpenseReimbursed = "billing.expense.reimbursed"
)

// InvoiceSentEvent signals the pending -> sent transition of an invoice.
// OldStatus/NewStatus let handlers reject replayed saves that did not
// actually change state.
type InvoiceSentEvent struct {
	shared.BaseDomainEvent
	InvoiceID        uuid.UUID       `json:"invoice_id"`
	InvoiceNumber    string          `json:"invoice_number"`
	CounterpartyName string          `json:"counterparty_name"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	IssueDate        time.Time       `json:"issue_date"`
	OldStatus        InvoiceStatus   `json:"old_status"`
	NewStatus        InvoiceStatus   `json:"new_status"`
}

// NewInvoiceSentEvent creates an InvoiceSentEvent
func NewInvoiceSentEvent(
	tenantID, invoiceID uuid.UUID,
	invoiceNumber, counterpartyName string,
	totalAmount decimal.Decimal,
	issueDate time.Time,
	oldStatus, newStatus InvoiceStatus,
) *InvoiceSentEvent {
	return &InvoiceSentEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeInvoiceSent, "Invoice", invoiceID, tenantID),
		InvoiceID:        invoiceID,
		InvoiceNumber:    invoiceNumber,
		CounterpartyName: counterpartyName,
		TotalAmount:      totalAmount,
		IssueDate:        issueDate,
		OldStatus:        oldStatus,
		NewStatus:        newStatus,
	}
}

// InvoicePaidEvent signals the sent -> paid transition of an invoice
type InvoicePaidEvent struct {
	shared.BaseDomainEvent
	InvoiceID        uuid.UUID       `json:"invoice_id"`
	InvoiceNumber    string          `json:"invoice_number"`
	CounterpartyName string          `json:"counterparty_name"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	PaymentDate      time.Time       `json:"payment_date"`
	OldStatus        InvoiceStatus   `json:"old_status"`
	NewStatus        InvoiceStatus   `json:"new_status"`
}

// NewInvoicePaidEvent creates an InvoicePaidEvent
func NewInvoicePaidEvent(
	tenantID, invoiceID uuid.UUID,
	invoiceNumber, counterpartyName string,
	totalAmount decimal.Decimal,
	paymentDate time.Time,
	oldStatus, newStatus InvoiceStatus,
) *InvoicePaidEvent {
	return &InvoicePaidEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeInvoicePaid, "Invoice", invoiceID, tenantID),
		InvoiceID:        invoiceID,
		InvoiceNumber:    invoiceNumber,
		CounterpartyName: counterpartyName,
		TotalAmount:      totalAmount,
		PaymentDate:      paymentDate,
		OldStatus:        oldStatus,
		NewStatus:        newStatus,
	}
}

// ExpenseClaimLine is one reimbursable line of an expense claim, already
// grouped by (expense account, tax rate) by the document layer
type ExpenseClaimLine struct {
	AccountID uuid.UUID       `json:"account_id"`
	TaxRateID *uuid.UUID      `json:"tax_rate_id"`
	Amount    decimal.Decimal `json:"amount"`
	Memo      string          `json:"memo"`
}

// ExpenseReimbursedEvent signals the approved -> reimbursed transition of
// an expense claim
type ExpenseReimbursedEvent struct {
	shared.BaseDomainEvent
	ClaimID          uuid.UUID          `json:"claim_id"`
	ClaimNumber      string             `json:"claim_number"`
	CounterpartyName string             `json:"counterparty_name"`
	Lines            []ExpenseClaimLine `json:"lines"`
	ReimbursedDate   time.Time          `json:"reimbursed_date"`
	OldStatus        ExpenseStatus      `json:"old_status"`
	NewStatus        ExpenseStatus      `json:"new_status"`
}

// NewExpenseReimbursedEvent creates an ExpenseReimbursedEvent
func NewExpenseReimbursedEvent(
	tenantID, claimID uuid.UUID,
	claimNumber, counterpartyName string,
	lines []ExpenseClaimLine,
	reimbursedDate time.Time,
	oldStatus, newStatus ExpenseStatus,
) *ExpenseReimbursedEvent {
	return &ExpenseReimbursedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeExpenseReimbursed, "ExpenseClaim", claimID, tenantID),
		ClaimID:          claimID,
		ClaimNumber:      claimNumber,
		CounterpartyName: counterpartyName,
		Lines:            lines,
		ReimbursedDate:   reimbursedDate,
		OldStatus:        oldStatus,
		NewStatus:        newStatus,
	}
}

// Total sums the claim lines
func (e *ExpenseReimbursedEvent) Total() decimal.Decimal {
	total := decimal.Zero
	for i := range e.Lines {
		total = total.Add(e.Lines[i].Amount)
	}
	return total
}
