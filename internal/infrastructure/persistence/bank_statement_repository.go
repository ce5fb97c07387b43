package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bookkeep/backend/internal/domain/banking"
	"github.com/bookkeep/backend/internal/domain/shared"
	"github.com/bookkeep/backend/internal/infrastructure/persistence/models"
)

// GormBankStatementRepository implements BankStatementRepository using GORM
type GormBankStatementRepository struct {
	db *gorm.DB
}

// NewGormBankStatementRepository creates a new GormBankStatementRepository
func NewGormBankStatementRepository(db *gorm.DB) *GormBankStatementRepository {
	return &GormBankStatementRepository{db: db}
}

// FindByIDForTenant finds a statement by ID within a tenant
func (r *GormBankStatementRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*banking.BankStatement, error) {
	var model models.BankStatementModel
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

// ListForTenant lists all statements of a tenant, newest import first
func (r *GormBankStatementRepository) ListForTenant(ctx context.Context, tenantID uuid.UUID) ([]banking.BankStatement, error) {
	var modelList []models.BankStatementModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("imported_at DESC").
		Find(&modelList).Error; err != nil {
		return nil, err
	}

	statements := make([]banking.BankStatement, len(modelList))
	for i := range modelList {
		statements[i] = *modelList[i].ToDomain()
	}
	return statements, nil
}

// Save creates or updates a statement
func (r *GormBankStatementRepository) Save(ctx context.Context, statement *banking.BankStatement) error {
	model := models.BankStatementModelFromDomain(statement)
	return r.db.WithContext(ctx).Save(model).Error
}

// IncrementMatchedCount bumps the denormalized matched counter
func (r *GormBankStatementRepository) IncrementMatchedCount(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&models.BankStatementModel{}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Updates(map[string]interface{}{
			"matched_count": gorm.Expr("matched_count + 1"),
			"updated_at":    time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormBankStatementRepository implements BankStatementRepository
var _ banking.BankStatementRepository = (*GormBankStatementRepository)(nil)
