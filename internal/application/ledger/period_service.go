package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/bookkeep/backend/internal/domain/ledger"
	"github.com/bookkeep/backend/internal/domain/shared"
)

// PeriodService handles accounting period lifecycle operations
type PeriodService struct {
	periodRepo ledger.AccountingPeriodRepository
}

// NewPeriodService creates a new PeriodService
func NewPeriodService(periodRepo ledger.AccountingPeriodRepository) *PeriodService {
	return &PeriodService{periodRepo: periodRepo}
}

// CreatePeriodRequest carries the input for creating an accounting period
type CreatePeriodRequest struct {
	Name      string    `json:"name" binding:"required,max=100"`
	StartDate time.Time `json:"start_date" binding:"required"`
	EndDate   time.Time `json:"end_date" binding:"required"`
}

// PeriodResponse represents an accounting period in API responses
type PeriodResponse struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	StartDate time.Time  `json:"start_date"`
	EndDate   time.Time  `json:"end_date"`
	Status    string     `json:"status"`
	ClosedAt  *time.Time `json:"closed_at,omitempty"`
	LockedAt  *time.Time `json:"locked_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// ToPeriodResponse maps a domain period to its API representation
func ToPeriodResponse(p *ledger.AccountingPeriod) *PeriodResponse {
	return &PeriodResponse{
		ID:        p.ID,
		Name:      p.Name,
		StartDate: p.StartDate,
		EndDate:   p.EndDate,
		Status:    p.Status.String(),
		ClosedAt:  p.ClosedAt,
		LockedAt:  p.LockedAt,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// Create creates a new open accounting period. Periods of a tenant must
// not overlap: a date maps to at most one period.
func (s *PeriodService) Create(ctx context.Context, tenantID uuid.UUID, req CreatePeriodRequest) (*PeriodResponse, error) {
	overlapping, err := s.periodRepo.FindOverlapping(ctx, tenantID, req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}
	if len(overlapping) > 0 {
		return nil, shared.NewDomainError("PERIOD_OVERLAP", "Period overlaps an existing period")
	}

	period, err := ledger.NewAccountingPeriod(tenantID, req.Name, req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	if err := s.periodRepo.Save(ctx, period); err != nil {
		return nil, err
	}
	return ToPeriodResponse(period), nil
}

// GetByID retrieves a period by ID
func (s *PeriodService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*PeriodResponse, error) {
	period, err := s.periodRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return ToPeriodResponse(period), nil
}

// List lists all periods of a tenant in chronological order
func (s *PeriodService) List(ctx context.Context, tenantID uuid.UUID) ([]PeriodResponse, error) {
	periods, err := s.periodRepo.ListForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	responses := make([]PeriodResponse, len(periods))
	for i := range periods {
		responses[i] = *ToPeriodResponse(&periods[i])
	}
	return responses, nil
}

// Close transitions a period from OPEN to CLOSED
func (s *PeriodService) Close(ctx context.Context, tenantID, id uuid.UUID) (*PeriodResponse, error) {
	period, err := s.periodRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if err := period.Close(); err != nil {
		return nil, err
	}

	if err := s.periodRepo.Save(ctx, period); err != nil {
		return nil, err
	}
	return ToPeriodResponse(period), nil
}

// Lock transitions a period from CLOSED to LOCKED. Locking is terminal:
// journals dated inside the locked range can no longer be created, edited
// or deleted. A repeated lock reports ALREADY_LOCKED.
func (s *PeriodService) Lock(ctx context.Context, tenantID, id uuid.UUID) (*PeriodResponse, error) {
	period, err := s.periodRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if err := period.Lock(); err != nil {
		return nil, err
	}

	if err := s.periodRepo.Save(ctx, period); err != nil {
		return nil, err
	}
	return ToPeriodResponse(period), nil
}
