package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bookkeep/backend/internal/domain/ledger"
	"github.com/bookkeep/backend/internal/domain/shared"
	"github.com/bookkeep/backend/internal/infrastructure/persistence/models"
)

// GormAccountingPeriodRepository implements AccountingPeriodRepository using GORM
type GormAccountingPeriodRepository struct {
	db *gorm.DB
}

// NewGormAccountingPeriodRepository creates a new GormAccountingPeriodRepository
func NewGormAccountingPeriodRepository(db *gorm.DB) *GormAccountingPeriodRepository {
	return &GormAccountingPeriodRepository{db: db}
}

// FindByIDForTenant finds a period by ID within a tenant
func (r *GormAccountingPeriodRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ledger.AccountingPeriod, error) {
	var model models.AccountingPeriodModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindCovering returns the period whose range contains the given date
func (r *GormAccountingPeriodRepository) FindCovering(ctx context.Context, tenantID uuid.UUID, date time.Time) (*ledger.AccountingPeriod, error) {
	var model models.AccountingPeriodModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND start_date <= ? AND end_date >= ?", tenantID, date, date).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindOverlapping returns the periods intersecting the given range
func (r *GormAccountingPeriodRepository) FindOverlapping(ctx context.Context, tenantID uuid.UUID, start, end time.Time) ([]ledger.AccountingPeriod, error) {
	var modelList []models.AccountingPeriodModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND start_date <= ? AND end_date >= ?", tenantID, end, start).
		Order("start_date ASC").
		Find(&modelList).Error; err != nil {
		return nil, err
	}

	periods := make([]ledger.AccountingPeriod, len(modelList))
	for i := range modelList {
		periods[i] = *modelList[i].ToDomain()
	}
	return periods, nil
}

// ListForTenant lists all periods of a tenant ordered by start date
func (r *GormAccountingPeriodRepository) ListForTenant(ctx context.Context, tenantID uuid.UUID) ([]ledger.AccountingPeriod, error) {
	var modelList []models.AccountingPeriodModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("start_date ASC").
		Find(&modelList).Error; err != nil {
		return nil, err
	}

	periods := make([]ledger.AccountingPeriod, len(modelList))
	for i := range modelList {
		periods[i] = *modelList[i].ToDomain()
	}
	return periods, nil
}

// Save creates or updates a period
func (r *GormAccountingPeriodRepository) Save(ctx context.Context, period *ledger.AccountingPeriod) error {
	model := models.AccountingPeriodModelFromDomain(period)
	return r.db.WithContext(ctx).Save(model).Error
}

// Ensure GormAccountingPeriodRepository implements AccountingPeriodRepository
var _ ledger.AccountingPeriodRepository = (*GormAccountingPeriodRepository)(nil)
