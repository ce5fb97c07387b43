package models

import (
	"time"

	"github.com/bookkeep/backend/internal/domain/banking"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BankStatementModel is the persistence model for the BankStatement aggregate root.
type BankStatementModel struct {
	TenantAggregateModel
	SourceAccount string    `gorm:"type:varchar(100);not null;index"`
	ImportedAt    time.Time `gorm:"not null"`
	FileName      string    `gorm:"type:varchar(255)"`
	RowCount      int       `gorm:"not null;default:0"`
	MatchedCount  int       `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (BankStatementModel) TableName() string {
	return "bank_statements"
}

// ToDomain converts the persistence model to a domain BankStatement entity.
func (m *BankStatementModel) ToDomain() *banking.BankStatement {
	s := &banking.BankStatement{
		SourceAccount: m.SourceAccount,
		ImportedAt:    m.ImportedAt,
		FileName:      m.FileName,
		RowCount:      m.RowCount,
		MatchedCount:  m.MatchedCount,
	}
	m.PopulateTenantAggregateRoot(&s.TenantAggregateRoot)
	return s
}

// FromDomain populates the persistence model from a domain BankStatement entity.
func (m *BankStatementModel) FromDomain(s *banking.BankStatement) {
	m.FromDomainTenantAggregateRoot(s.TenantAggregateRoot)
	m.SourceAccount = s.SourceAccount
	m.ImportedAt = s.ImportedAt
	m.FileName = s.FileName
	m.RowCount = s.RowCount
	m.MatchedCount = s.MatchedCount
}

// BankStatementModelFromDomain creates a new persistence model from a domain BankStatement.
func BankStatementModelFromDomain(s *banking.BankStatement) *BankStatementModel {
	m := &BankStatementModel{}
	m.FromDomain(s)
	return m
}

// BankRowModel is the persistence model for a single imported bank row.
// The (tenant_id, content_hash) unique index is the authoritative
// deduplication guard across all imports of a tenant.
type BankRowModel struct {
	BaseModel
	TenantID    uuid.UUID            `gorm:"type:uuid;not null;uniqueIndex:idx_bank_row_tenant_hash,priority:1"`
	StatementID uuid.UUID            `gorm:"type:uuid;not null;index"`
	Date        time.Time            `gorm:"not null;index"`
	Description string               `gorm:"type:varchar(500)"`
	Amount      decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	Direction   banking.RowDirection `gorm:"type:varchar(5);not null"`
	ContentHash string               `gorm:"type:varchar(64);not null;uniqueIndex:idx_bank_row_tenant_hash,priority:2"`
	Matched     bool                 `gorm:"not null;default:false;index"`
	MatchedAt   *time.Time
}

// TableName returns the table name for GORM
func (BankRowModel) TableName() string {
	return "bank_rows"
}

// ToDomain converts the persistence model to a domain BankRow entity.
func (m *BankRowModel) ToDomain() *banking.BankRow {
	return &banking.BankRow{
		BaseEntity:  m.BaseModel.ToDomain(),
		TenantID:    m.TenantID,
		StatementID: m.StatementID,
		Date:        m.Date,
		Description: m.Description,
		Amount:      m.Amount,
		Direction:   m.Direction,
		ContentHash: m.ContentHash,
		Matched:     m.Matched,
		MatchedAt:   m.MatchedAt,
	}
}

// FromDomain populates the persistence model from a domain BankRow entity.
func (m *BankRowModel) FromDomain(r *banking.BankRow) {
	m.FromDomainBaseEntity(r.BaseEntity)
	m.TenantID = r.TenantID
	m.StatementID = r.StatementID
	m.Date = r.Date
	m.Description = r.Description
	m.Amount = r.Amount
	m.Direction = r.Direction
	m.ContentHash = r.ContentHash
	m.Matched = r.Matched
	m.MatchedAt = r.MatchedAt
}

// BankRowModelFromDomain creates a new persistence model from a domain BankRow.
func BankRowModelFromDomain(r *banking.BankRow) *BankRowModel {
	m := &BankRowModel{}
	m.FromDomain(r)
	return m
}
