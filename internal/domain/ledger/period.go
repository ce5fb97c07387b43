package ledger

import (
	"fmt"
	"time"

	"github.com/bookkeep/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// PeriodStatus represents the lifecycle status of an accounting period
type PeriodStatus string

const (
	PeriodStatusOpen   PeriodStatus = "OPEN"
	PeriodStatusClosed PeriodStatus = "CLOSED"
	PeriodStatusLocked PeriodStatus = "LOCKED"
)

// IsValid checks if the status is a valid PeriodStatus
func (s PeriodStatus) IsValid() bool {
	switch s {
	case PeriodStatusOpen, PeriodStatusClosed, PeriodStatusLocked:
		return true
	}
	return false
}

// String returns the string representation of PeriodStatus
func (s PeriodStatus) String() string {
	return string(s)
}

// AccountingPeriod is a bounded date range gating postings.
// Lifecycle: OPEN -> CLOSED -> LOCKED, one-way. Once locked, no journal
// dated within the range may be created, edited or deleted. Locking only
// gates journals dated inside the range; approved historical journals may
// still be referenced by later reversing entries.
type AccountingPeriod struct {
	shared.TenantAggregateRoot
	Name      string       `json:"name"`
	StartDate time.Time    `json:"start_date"`
	EndDate   time.Time    `json:"end_date"`
	Status    PeriodStatus `json:"status"`
	ClosedAt  *time.Time   `json:"closed_at"`
	LockedAt  *time.Time   `json:"locked_at"`
}

// NewAccountingPeriod creates a new open accounting period
func NewAccountingPeriod(tenantID uuid.UUID, name string, startDate, endDate time.Time) (*AccountingPeriod, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Period name cannot be empty")
	}
	if !endDate.After(startDate) {
		return nil, shared.NewDomainError("INVALID_RANGE", "Period end date must be after start date")
	}

	return &AccountingPeriod{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		StartDate:           startDate,
		EndDate:             endDate,
		Status:              PeriodStatusOpen,
	}, nil
}

// Close transitions the period from OPEN to CLOSED
func (p *AccountingPeriod) Close() error {
	if p.Status != PeriodStatusOpen {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot close period in %s status", p.Status))
	}
	now := time.Now()
	p.Status = PeriodStatusClosed
	p.ClosedAt = &now
	p.UpdatedAt = now
	p.IncrementVersion()
	return nil
}

// Lock transitions the period from CLOSED to LOCKED (terminal)
func (p *AccountingPeriod) Lock() error {
	if p.Status == PeriodStatusLocked {
		return shared.NewDomainError("ALREADY_LOCKED", "Period is already locked")
	}
	if p.Status != PeriodStatusClosed {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot lock period in %s status, must be CLOSED", p.Status))
	}
	now := time.Now()
	p.Status = PeriodStatusLocked
	p.LockedAt = &now
	p.UpdatedAt = now
	p.IncrementVersion()
	return nil
}

// Contains returns true if the date falls within the period range (inclusive)
func (p *AccountingPeriod) Contains(date time.Time) bool {
	return !date.Before(p.StartDate) && !date.After(p.EndDate)
}

// Overlaps returns true if the given range intersects this period
func (p *AccountingPeriod) Overlaps(start, end time.Time) bool {
	return !start.After(p.EndDate) && !end.Before(p.StartDate)
}

// IsLocked returns true if the period is locked
func (p *AccountingPeriod) IsLocked() bool {
	return p.Status == PeriodStatusLocked
}
