package ledger

import (
	"time"

	"github.com/bookkeep/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event type constants for the ledger domain
const (
	EventTypeAccountCreated     = "ledger.account.created"
	EventTypeAccountDeactivated = "ledger.account.deactivated"
	EventTypeJournalCreated     = "ledger.journal.created"
	EventTypeJournalApproved    = "ledger.journal.approved"
)

// AccountCreatedEvent is emitted when a new account is added to the chart
type AccountCreatedEvent struct {
	shared.BaseDomainEvent
	Code        string      `json:"code"`
	Name        string      `json:"name"`
	AccountType AccountType `json:"account_type"`
}

// NewAccountCreatedEvent creates a new AccountCreatedEvent
func NewAccountCreatedEvent(a *Account) *AccountCreatedEvent {
	return &AccountCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAccountCreated, "Account", a.ID, a.TenantID),
		Code:            a.Code,
		Name:            a.Name,
		AccountType:     a.Type,
	}
}

// AccountDeactivatedEvent is emitted when an account is deactivated
type AccountDeactivatedEvent struct {
	shared.BaseDomainEvent
	Code string `json:"code"`
}

// NewAccountDeactivatedEvent creates a new AccountDeactivatedEvent
func NewAccountDeactivatedEvent(a *Account) *AccountDeactivatedEvent {
	return &AccountDeactivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAccountDeactivated, "Account", a.ID, a.TenantID),
		Code:            a.Code,
	}
}

// JournalCreatedEvent is emitted when a journal passes validation and is created
type JournalCreatedEvent struct {
	shared.BaseDomainEvent
	Date       time.Time         `json:"date"`
	SourceType JournalSourceType `json:"source_type"`
	SourceID   *uuid.UUID        `json:"source_id"`
	Total      decimal.Decimal   `json:"total"`
}

// NewJournalCreatedEvent creates a new JournalCreatedEvent
func NewJournalCreatedEvent(j *Journal) *JournalCreatedEvent {
	return &JournalCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeJournalCreated, "Journal", j.ID, j.TenantID),
		Date:            j.Date,
		SourceType:      j.SourceType,
		SourceID:        j.SourceID,
		Total:           j.TotalDebit(),
	}
}

// JournalApprovedEvent is emitted when a journal is approved
type JournalApprovedEvent struct {
	shared.BaseDomainEvent
	Date  time.Time       `json:"date"`
	Total decimal.Decimal `json:"total"`
}

// NewJournalApprovedEvent creates a new JournalApprovedEvent
func NewJournalApprovedEvent(j *Journal) *JournalApprovedEvent {
	return &JournalApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeJournalApproved, "Journal", j.ID, j.TenantID),
		Date:            j.Date,
		Total:           j.TotalDebit(),
	}
}
