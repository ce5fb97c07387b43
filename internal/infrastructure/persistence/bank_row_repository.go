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

// GormBankRowRepository implements BankRowRepository using GORM
type GormBankRowRepository struct {
	db *gorm.DB
}

// NewGormBankRowRepository creates a new GormBankRowRepository
func NewGormBankRowRepository(db *gorm.DB) *GormBankRowRepository {
	return &GormBankRowRepository{db: db}
}

// FindByIDForTenant finds a bank row by ID within a tenant
func (r *GormBankRowRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*banking.BankRow, error) {
	var model models.BankRowModel
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

// ListByStatement lists all rows of a statement in date order
func (r *GormBankRowRepository) ListByStatement(ctx context.Context, tenantID, statementID uuid.UUID) ([]banking.BankRow, error) {
	var modelList []models.BankRowModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND statement_id = ?", tenantID, statementID).
		Order("date ASC, created_at ASC").
		Find(&modelList).Error; err != nil {
		return nil, err
	}

	rows := make([]banking.BankRow, len(modelList))
	for i := range modelList {
		rows[i] = *modelList[i].ToDomain()
	}
	return rows, nil
}

// ListUnmatchedByStatement lists the rows of a statement still awaiting a match
func (r *GormBankRowRepository) ListUnmatchedByStatement(ctx context.Context, tenantID, statementID uuid.UUID) ([]banking.BankRow, error) {
	var modelList []models.BankRowModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND statement_id = ? AND matched = ?", tenantID, statementID, false).
		Order("date ASC, created_at ASC").
		Find(&modelList).Error; err != nil {
		return nil, err
	}

	rows := make([]banking.BankRow, len(modelList))
	for i := range modelList {
		rows[i] = *modelList[i].ToDomain()
	}
	return rows, nil
}

// ExistsByHash checks if a row with the given content hash already exists.
// This is a pre-insert shortcut only; InsertBatch relies on the unique
// index for correctness under concurrent imports.
func (r *GormBankRowRepository) ExistsByHash(ctx context.Context, tenantID uuid.UUID, hash string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.BankRowModel{}).
		Where("tenant_id = ? AND content_hash = ?", tenantID, hash).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// InsertBatch inserts the rows one by one, counting unique violations on
// the content hash as duplicates instead of failing the batch. Each row is
// its own statement: a duplicate must not poison the surrounding inserts.
func (r *GormBankRowRepository) InsertBatch(ctx context.Context, rows []*banking.BankRow) (inserted, duplicates int, err error) {
	for _, row := range rows {
		model := models.BankRowModelFromDomain(row)
		insertErr := r.db.WithContext(ctx).Create(model).Error
		if insertErr != nil {
			if isUniqueViolation(insertErr) {
				duplicates++
				continue
			}
			return inserted, duplicates, insertErr
		}
		inserted++
	}
	return inserted, duplicates, nil
}

// MarkMatched performs the conditional unmatched -> matched update. The
// WHERE clause on matched makes concurrent confirms race-safe: exactly one
// caller observes true.
func (r *GormBankRowRepository) MarkMatched(ctx context.Context, tenantID, id uuid.UUID) (bool, error) {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&models.BankRowModel{}).
		Where("tenant_id = ? AND id = ? AND matched = ?", tenantID, id, false).
		Updates(map[string]interface{}{
			"matched":    true,
			"matched_at": now,
			"updated_at": now,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Ensure GormBankRowRepository implements BankRowRepository
var _ banking.BankRowRepository = (*GormBankRowRepository)(nil)
