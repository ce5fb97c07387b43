package ledger

import (
	"time"

	"github.com/bookkeep/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TaxRate represents a tax rate record. Rates referenced by historical
// journal lines or invoice items are never mutated; a rate change is a new
// record plus deactivation of the old one.
type TaxRate struct {
	shared.TenantAggregateRoot
	Name          string          `json:"name"`
	Rate          decimal.Decimal `json:"rate"` // percentage, e.g. 10 for 10%
	Category      TaxCategory     `json:"category"`
	EffectiveFrom time.Time       `json:"effective_from"`
	EffectiveTo   *time.Time      `json:"effective_to"`
	Active        bool            `json:"active"`
}

// NewTaxRate creates a new tax rate
func NewTaxRate(
	tenantID uuid.UUID,
	name string,
	rate decimal.Decimal,
	category TaxCategory,
	effectiveFrom time.Time,
	effectiveTo *time.Time,
) (*TaxRate, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Tax rate name cannot be empty")
	}
	if rate.IsNegative() {
		return nil, shared.NewDomainError("INVALID_RATE", "Tax rate cannot be negative")
	}
	if !category.IsValid() {
		return nil, shared.NewDomainError("INVALID_TAX_CATEGORY", "Tax category is not valid")
	}
	if effectiveTo != nil && !effectiveTo.After(effectiveFrom) {
		return nil, shared.NewDomainError("INVALID_WINDOW", "Effective-to must be after effective-from")
	}

	return &TaxRate{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		Rate:                rate,
		Category:            category,
		EffectiveFrom:       effectiveFrom,
		EffectiveTo:         effectiveTo,
		Active:              true,
	}, nil
}

// Deactivate closes the rate's active window. The rate record itself is
// immutable once referenced; only the active flag and window end change.
func (t *TaxRate) Deactivate(at time.Time) error {
	if !t.Active {
		return shared.NewDomainError("INVALID_STATE", "Tax rate is already inactive")
	}
	t.Active = false
	if t.EffectiveTo == nil {
		t.EffectiveTo = &at
	}
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
	return nil
}

// IsEffectiveOn returns true if the rate applies on the given date
func (t *TaxRate) IsEffectiveOn(date time.Time) bool {
	if date.Before(t.EffectiveFrom) {
		return false
	}
	if t.EffectiveTo != nil && date.After(*t.EffectiveTo) {
		return false
	}
	return true
}

// Apply computes the tax amount for a base amount
func (t *TaxRate) Apply(base decimal.Decimal) decimal.Decimal {
	return base.Mul(t.Rate).Div(decimal.NewFromInt(100))
}
