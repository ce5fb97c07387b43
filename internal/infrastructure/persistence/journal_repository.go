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

// GormJournalRepository implements JournalRepository using GORM.
// Create, Update and Delete run the journal header and its lines inside a
// single transaction so partially written journals are never observable.
type GormJournalRepository struct {
	db *gorm.DB
}

// NewGormJournalRepository creates a new GormJournalRepository
func NewGormJournalRepository(db *gorm.DB) *GormJournalRepository {
	return &GormJournalRepository{db: db}
}

// FindByIDForTenant finds a journal with its lines by ID within a tenant
func (r *GormJournalRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ledger.Journal, error) {
	var model models.JournalModel
	if err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("line_number ASC")
		}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindBySource finds the journal generated from a source document
func (r *GormJournalRepository) FindBySource(ctx context.Context, tenantID uuid.UUID, sourceType ledger.JournalSourceType, sourceID uuid.UUID) (*ledger.Journal, error) {
	var model models.JournalModel
	if err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("line_number ASC")
		}).
		Where("tenant_id = ? AND source_type = ? AND source_id = ?", tenantID, sourceType, sourceID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ExistsBySource checks whether a journal for the source document exists.
// The journal generation handlers use this as their idempotency guard.
func (r *GormJournalRepository) ExistsBySource(ctx context.Context, tenantID uuid.UUID, sourceType ledger.JournalSourceType, sourceID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.JournalModel{}).
		Where("tenant_id = ? AND source_type = ? AND source_id = ?", tenantID, sourceType, sourceID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilter builds the filtered query for list and count
func (r *GormJournalRepository) applyFilter(query *gorm.DB, tenantID uuid.UUID, filter ledger.JournalFilter) *gorm.DB {
	query = query.Where("tenant_id = ?", tenantID)
	if filter.SourceType != nil {
		query = query.Where("source_type = ?", *filter.SourceType)
	}
	if filter.Approved != nil {
		query = query.Where("is_approved = ?", *filter.Approved)
	}
	if filter.FromDate != nil {
		query = query.Where("date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("date <= ?", *filter.ToDate)
	}
	return query
}

// ListForTenant lists journals matching the filter, newest first
func (r *GormJournalRepository) ListForTenant(ctx context.Context, tenantID uuid.UUID, filter ledger.JournalFilter) ([]ledger.Journal, error) {
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.JournalModel{}), tenantID, filter)

	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		query = query.Offset((page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var modelList []models.JournalModel
	if err := query.
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("line_number ASC")
		}).
		Order("date DESC, created_at DESC").
		Find(&modelList).Error; err != nil {
		return nil, err
	}

	journals := make([]ledger.Journal, len(modelList))
	for i := range modelList {
		journals[i] = *modelList[i].ToDomain()
	}
	return journals, nil
}

// CountForTenant counts journals matching the filter
func (r *GormJournalRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter ledger.JournalFilter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.JournalModel{}), tenantID, filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create persists the journal and all its lines in a single transaction
func (r *GormJournalRepository) Create(ctx context.Context, journal *ledger.Journal) error {
	model := models.JournalModelFromDomain(journal)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(model).Error
	})
}

// Update replaces the journal header and full line set in a single
// transaction. Lines are delete-then-insert: a revision always carries the
// complete line set.
func (r *GormJournalRepository) Update(ctx context.Context, journal *ledger.Journal) error {
	model := models.JournalModelFromDomain(journal)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("journal_id = ?", journal.ID).
			Delete(&models.JournalLineModel{}).Error; err != nil {
			return err
		}
		if err := tx.Omit("Lines").Save(&model).Error; err != nil {
			return err
		}
		if len(model.Lines) > 0 {
			if err := tx.Create(&model.Lines).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes the journal and cascades to its lines
func (r *GormJournalRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("journal_id = ?", id).
			Delete(&models.JournalLineModel{}).Error; err != nil {
			return err
		}
		result := tx.Where("tenant_id = ? AND id = ?", tenantID, id).
			Delete(&models.JournalModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Approve performs the conditional unapproved -> approved update. The WHERE
// clause on is_approved makes concurrent approvals race-safe: exactly one
// caller observes true.
func (r *GormJournalRepository) Approve(ctx context.Context, tenantID, id uuid.UUID) (bool, error) {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&models.JournalModel{}).
		Where("tenant_id = ? AND id = ? AND is_approved = ?", tenantID, id, false).
		Updates(map[string]interface{}{
			"is_approved": true,
			"approved_at": now,
			"updated_at":  now,
			"version":     gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Ensure GormJournalRepository implements JournalRepository
var _ ledger.JournalRepository = (*GormJournalRepository)(nil)
