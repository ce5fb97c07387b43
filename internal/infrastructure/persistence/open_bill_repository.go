package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bookkeep/backend/internal/domain/billing"
	"github.com/bookkeep/backend/internal/domain/shared"
	"github.com/bookkeep/backend/internal/infrastructure/persistence/models"
)

// GormOpenBillRepository implements OpenBillRepository using GORM
type GormOpenBillRepository struct {
	db *gorm.DB
}

// NewGormOpenBillRepository creates a new GormOpenBillRepository
func NewGormOpenBillRepository(db *gorm.DB) *GormOpenBillRepository {
	return &GormOpenBillRepository{db: db}
}

// FindByIDForTenant finds an open bill by ID within a tenant
func (r *GormOpenBillRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*billing.OpenBill, error) {
	var model models.OpenBillModel
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

// ListOpen lists the bills still awaiting settlement
func (r *GormOpenBillRepository) ListOpen(ctx context.Context, tenantID uuid.UUID) ([]billing.OpenBill, error) {
	var modelList []models.OpenBillModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND open = ?", tenantID, true).
		Order("issue_date ASC").
		Find(&modelList).Error; err != nil {
		return nil, err
	}

	bills := make([]billing.OpenBill, len(modelList))
	for i := range modelList {
		bills[i] = *modelList[i].ToDomain()
	}
	return bills, nil
}

// Save creates or updates an open bill
func (r *GormOpenBillRepository) Save(ctx context.Context, bill *billing.OpenBill) error {
	model := models.OpenBillModelFromDomain(bill)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Settle performs the conditional open -> settled update. Returns false
// when the bill was already settled.
func (r *GormOpenBillRepository) Settle(ctx context.Context, tenantID, id uuid.UUID) (bool, error) {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&models.OpenBillModel{}).
		Where("tenant_id = ? AND id = ? AND open = ?", tenantID, id, true).
		Updates(map[string]interface{}{
			"open":       false,
			"settled_at": now,
			"updated_at": now,
			"version":    gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Ensure GormOpenBillRepository implements OpenBillRepository
var _ billing.OpenBillRepository = (*GormOpenBillRepository)(nil)
