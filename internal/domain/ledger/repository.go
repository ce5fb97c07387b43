package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AccountRepository defines persistence operations for the chart of accounts
type AccountRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Account, error)
	FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*Account, error)
	// FindBySystemKey resolves a well-known mapped account (e.g. accounts_receivable)
	FindBySystemKey(ctx context.Context, tenantID uuid.UUID, systemKey string) (*Account, error)
	// FindByIDs returns the accounts matching the given IDs, active or not
	FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]Account, error)
	ListActive(ctx context.Context, tenantID uuid.UUID) ([]Account, error)
	ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error)
	// IsReferenced reports whether any journal line references the account
	IsReferenced(ctx context.Context, tenantID, id uuid.UUID) (bool, error)
	Save(ctx context.Context, account *Account) error
}

// TaxRateRepository defines persistence operations for tax rates
type TaxRateRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*TaxRate, error)
	ListActive(ctx context.Context, tenantID uuid.UUID) ([]TaxRate, error)
	ListEffectiveOn(ctx context.Context, tenantID uuid.UUID, date time.Time) ([]TaxRate, error)
	Save(ctx context.Context, rate *TaxRate) error
}

// AccountingPeriodRepository defines persistence operations for accounting periods
type AccountingPeriodRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*AccountingPeriod, error)
	// FindCovering returns the period whose range contains the date, or
	// shared.ErrNotFound when no period covers it
	FindCovering(ctx context.Context, tenantID uuid.UUID, date time.Time) (*AccountingPeriod, error)
	FindOverlapping(ctx context.Context, tenantID uuid.UUID, start, end time.Time) ([]AccountingPeriod, error)
	ListForTenant(ctx context.Context, tenantID uuid.UUID) ([]AccountingPeriod, error)
	Save(ctx context.Context, period *AccountingPeriod) error
}

// JournalFilter carries list filtering options for journals
type JournalFilter struct {
	SourceType *JournalSourceType
	Approved   *bool
	FromDate   *time.Time
	ToDate     *time.Time
	Page       int
	PageSize   int
}

// JournalRepository defines persistence operations for journals.
// Create, Update and Delete are transactional over the journal and its
// lines; partially written journals are never observable.
type JournalRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Journal, error)
	FindBySource(ctx context.Context, tenantID uuid.UUID, sourceType JournalSourceType, sourceID uuid.UUID) (*Journal, error)
	ExistsBySource(ctx context.Context, tenantID uuid.UUID, sourceType JournalSourceType, sourceID uuid.UUID) (bool, error)
	ListForTenant(ctx context.Context, tenantID uuid.UUID, filter JournalFilter) ([]Journal, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter JournalFilter) (int64, error)
	// Create persists the journal and all its lines in a single transaction
	Create(ctx context.Context, journal *Journal) error
	// Update replaces the journal header and full line set (delete-then-insert)
	// in a single transaction
	Update(ctx context.Context, journal *Journal) error
	// Delete removes the journal and cascades to its lines
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	// Approve performs a conditional update (is_approved = false -> true).
	// Returns false when the journal was already approved.
	Approve(ctx context.Context, tenantID, id uuid.UUID) (bool, error)
}
