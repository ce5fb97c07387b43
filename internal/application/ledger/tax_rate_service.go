package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bookkeep/backend/internal/domain/ledger"
)

// TaxRateService manages tax rate records
type TaxRateService struct {
	taxRateRepo ledger.TaxRateRepository
}

// NewTaxRateService creates a new TaxRateService
func NewTaxRateService(taxRateRepo ledger.TaxRateRepository) *TaxRateService {
	return &TaxRateService{taxRateRepo: taxRateRepo}
}

// CreateTaxRateRequest carries the input for creating a tax rate
type CreateTaxRateRequest struct {
	Name          string          `json:"name" binding:"required,min=1,max=100"`
	Rate          decimal.Decimal `json:"rate" binding:"required"`
	Category      string          `json:"category" binding:"required"`
	EffectiveFrom time.Time       `json:"effective_from" binding:"required"`
	EffectiveTo   *time.Time      `json:"effective_to"`
}

// TaxRateResponse represents a tax rate in API responses
type TaxRateResponse struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Rate          decimal.Decimal `json:"rate"`
	Category      string          `json:"category"`
	EffectiveFrom time.Time       `json:"effective_from"`
	EffectiveTo   *time.Time      `json:"effective_to,omitempty"`
	Active        bool            `json:"active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ToTaxRateResponse maps a domain tax rate to its API representation
func ToTaxRateResponse(t *ledger.TaxRate) *TaxRateResponse {
	return &TaxRateResponse{
		ID:            t.ID,
		Name:          t.Name,
		Rate:          t.Rate,
		Category:      string(t.Category),
		EffectiveFrom: t.EffectiveFrom,
		EffectiveTo:   t.EffectiveTo,
		Active:        t.Active,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

// Create registers a new tax rate
func (s *TaxRateService) Create(ctx context.Context, tenantID uuid.UUID, req CreateTaxRateRequest) (*TaxRateResponse, error) {
	rate, err := ledger.NewTaxRate(tenantID, req.Name, req.Rate, ledger.TaxCategory(req.Category), req.EffectiveFrom, req.EffectiveTo)
	if err != nil {
		return nil, err
	}
	if err := s.taxRateRepo.Save(ctx, rate); err != nil {
		return nil, err
	}
	return ToTaxRateResponse(rate), nil
}

// GetByID retrieves a tax rate by ID
func (s *TaxRateService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*TaxRateResponse, error) {
	rate, err := s.taxRateRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return ToTaxRateResponse(rate), nil
}

// ListActive lists all active tax rates of the tenant
func (s *TaxRateService) ListActive(ctx context.Context, tenantID uuid.UUID) ([]TaxRateResponse, error) {
	rates, err := s.taxRateRepo.ListActive(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	responses := make([]TaxRateResponse, len(rates))
	for i := range rates {
		responses[i] = *ToTaxRateResponse(&rates[i])
	}
	return responses, nil
}

// ListEffectiveOn lists the rates applicable on the given date
func (s *TaxRateService) ListEffectiveOn(ctx context.Context, tenantID uuid.UUID, date time.Time) ([]TaxRateResponse, error) {
	rates, err := s.taxRateRepo.ListEffectiveOn(ctx, tenantID, date)
	if err != nil {
		return nil, err
	}
	responses := make([]TaxRateResponse, len(rates))
	for i := range rates {
		responses[i] = *ToTaxRateResponse(&rates[i])
	}
	return responses, nil
}

// Deactivate closes a rate's active window. Historical journal lines keep
// referencing the record; replacing a rate means creating a new one.
func (s *TaxRateService) Deactivate(ctx context.Context, tenantID, id uuid.UUID) (*TaxRateResponse, error) {
	rate, err := s.taxRateRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := rate.Deactivate(time.Now()); err != nil {
		return nil, err
	}
	if err := s.taxRateRepo.Save(ctx, rate); err != nil {
		return nil, err
	}
	return ToTaxRateResponse(rate), nil
}
