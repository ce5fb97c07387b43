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

// GormTaxRateRepository implements TaxRateRepository using GORM
type GormTaxRateRepository struct {
	db *gorm.DB
}

// NewGormTaxRateRepository creates a new GormTaxRateRepository
func NewGormTaxRateRepository(db *gorm.DB) *GormTaxRateRepository {
	return &GormTaxRateRepository{db: db}
}

// FindByIDForTenant finds a tax rate by ID within a tenant
func (r *GormTaxRateRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ledger.TaxRate, error) {
	var model models.TaxRateModel
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

// ListActive lists all active tax rates of a tenant
func (r *GormTaxRateRepository) ListActive(ctx context.Context, tenantID uuid.UUID) ([]ledger.TaxRate, error) {
	var modelList []models.TaxRateModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND active = ?", tenantID, true).
		Order("effective_from DESC").
		Find(&modelList).Error; err != nil {
		return nil, err
	}

	rates := make([]ledger.TaxRate, len(modelList))
	for i := range modelList {
		rates[i] = *modelList[i].ToDomain()
	}
	return rates, nil
}

// ListEffectiveOn lists the tax rates whose window covers the given date
func (r *GormTaxRateRepository) ListEffectiveOn(ctx context.Context, tenantID uuid.UUID, date time.Time) ([]ledger.TaxRate, error) {
	var modelList []models.TaxRateModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND effective_from <= ? AND (effective_to IS NULL OR effective_to >= ?)",
			tenantID, date, date).
		Order("effective_from DESC").
		Find(&modelList).Error; err != nil {
		return nil, err
	}

	rates := make([]ledger.TaxRate, len(modelList))
	for i := range modelList {
		rates[i] = *modelList[i].ToDomain()
	}
	return rates, nil
}

// Save creates or updates a tax rate
func (r *GormTaxRateRepository) Save(ctx context.Context, rate *ledger.TaxRate) error {
	model := models.TaxRateModelFromDomain(rate)
	return r.db.WithContext(ctx).Save(model).Error
}

// Ensure GormTaxRateRepository implements TaxRateRepository
var _ ledger.TaxRateRepository = (*GormTaxRateRepository)(nil)
