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

// GormOpenInvoiceRepository implements OpenInvoiceRepository using GORM
type GormOpenInvoiceRepository struct {
	db *gorm.DB
}

// NewGormOpenInvoiceRepository creates a new GormOpenInvoiceRepository
func NewGormOpenInvoiceRepository(db *gorm.DB) *GormOpenInvoiceRepository {
	return &GormOpenInvoiceRepository{db: db}
}

// FindByIDForTenant finds an open invoice by ID within a tenant
func (r *GormOpenInvoiceRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*billing.OpenInvoice, error) {
	var model models.OpenInvoiceModel
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

// ListOpen lists the invoices still awaiting settlement
func (r *GormOpenInvoiceRepository) ListOpen(ctx context.Context, tenantID uuid.UUID) ([]billing.OpenInvoice, error) {
	var modelList []models.OpenInvoiceModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND open = ?", tenantID, true).
		Order("issue_date ASC").
		Find(&modelList).Error; err != nil {
		return nil, err
	}

	invoices := make([]billing.OpenInvoice, len(modelList))
	for i := range modelList {
		invoices[i] = *modelList[i].ToDomain()
	}
	return invoices, nil
}

// Save creates or updates an open invoice
func (r *GormOpenInvoiceRepository) Save(ctx context.Context, invoice *billing.OpenInvoice) error {
	model := models.OpenInvoiceModelFromDomain(invoice)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Settle performs the conditional open -> settled update. Returns false
// when the invoice was already settled.
func (r *GormOpenInvoiceRepository) Settle(ctx context.Context, tenantID, id uuid.UUID) (bool, error) {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&models.OpenInvoiceModel{}).
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

// Ensure GormOpenInvoiceRepository implements OpenInvoiceRepository
var _ billing.OpenInvoiceRepository = (*GormOpenInvoiceRepository)(nil)
