package models

import (
	"time"

	"github.com/bookkeep/backend/internal/domain/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountModel is the persistence model for the Account aggregate root.
type AccountModel struct {
	TenantAggregateModel
	Code        string             `gorm:"type:varchar(20);not null;uniqueIndex:idx_account_tenant_code,priority:2"`
	Name        string             `gorm:"type:varchar(200);not null"`
	Type        ledger.AccountType `gorm:"type:varchar(20);not null;index"`
	ParentID    *uuid.UUID         `gorm:"type:uuid;index"`
	TaxCategory ledger.TaxCategory `gorm:"type:varchar(20);not null"`
	SystemKey   string             `gorm:"type:varchar(50);index"`
	Active      bool               `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (AccountModel) TableName() string {
	return "accounts"
}

// ToDomain converts the persistence model to a domain Account entity.
func (m *AccountModel) ToDomain() *ledger.Account {
	a := &ledger.Account{
		Code:        m.Code,
		Name:        m.Name,
		Type:        m.Type,
		ParentID:    m.ParentID,
		TaxCategory: m.TaxCategory,
		SystemKey:   m.SystemKey,
		Active:      m.Active,
	}
	m.PopulateTenantAggregateRoot(&a.TenantAggregateRoot)
	return a
}

// FromDomain populates the persistence model from a domain Account entity.
func (m *AccountModel) FromDomain(a *ledger.Account) {
	m.FromDomainTenantAggregateRoot(a.TenantAggregateRoot)
	m.Code = a.Code
	m.Name = a.Name
	m.Type = a.Type
	m.ParentID = a.ParentID
	m.TaxCategory = a.TaxCategory
	m.SystemKey = a.SystemKey
	m.Active = a.Active
}

// AccountModelFromDomain creates a new persistence model from a domain Account.
func AccountModelFromDomain(a *ledger.Account) *AccountModel {
	m := &AccountModel{}
	m.FromDomain(a)
	return m
}

// TaxRateModel is the persistence model for the TaxRate aggregate root.
type TaxRateModel struct {
	TenantAggregateModel
	Name          string             `gorm:"type:varchar(100);not null"`
	Rate          decimal.Decimal    `gorm:"type:decimal(8,4);not null"`
	Category      ledger.TaxCategory `gorm:"type:varchar(20);not null"`
	EffectiveFrom time.Time          `gorm:"not null;index"`
	EffectiveTo   *time.Time         `gorm:"index"`
	Active        bool               `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (TaxRateModel) TableName() string {
	return "tax_rates"
}

// ToDomain converts the persistence model to a domain TaxRate entity.
func (m *TaxRateModel) ToDomain() *ledger.TaxRate {
	t := &ledger.TaxRate{
		Name:          m.Name,
		Rate:          m.Rate,
		Category:      m.Category,
		EffectiveFrom: m.EffectiveFrom,
		EffectiveTo:   m.EffectiveTo,
		Active:        m.Active,
	}
	m.PopulateTenantAggregateRoot(&t.TenantAggregateRoot)
	return t
}

// FromDomain populates the persistence model from a domain TaxRate entity.
func (m *TaxRateModel) FromDomain(t *ledger.TaxRate) {
	m.FromDomainTenantAggregateRoot(t.TenantAggregateRoot)
	m.Name = t.Name
	m.Rate = t.Rate
	m.Category = t.Category
	m.EffectiveFrom = t.EffectiveFrom
	m.EffectiveTo = t.EffectiveTo
	m.Active = t.Active
}

// TaxRateModelFromDomain creates a new persistence model from a domain TaxRate.
func TaxRateModelFromDomain(t *ledger.TaxRate) *TaxRateModel {
	m := &TaxRateModel{}
	m.FromDomain(t)
	return m
}

// AccountingPeriodModel is the persistence model for the AccountingPeriod aggregate root.
type AccountingPeriodModel struct {
	TenantAggregateModel
	Name      string              `gorm:"type:varchar(100);not null"`
	StartDate time.Time           `gorm:"not null;index"`
	EndDate   time.Time           `gorm:"not null;index"`
	Status    ledger.PeriodStatus `gorm:"type:varchar(20);not null;default:'OPEN';index"`
	ClosedAt  *time.Time
	LockedAt  *time.Time
}

// TableName returns the table name for GORM
func (AccountingPeriodModel) TableName() string {
	return "accounting_periods"
}

// ToDomain converts the persistence model to a domain AccountingPeriod entity.
func (m *AccountingPeriodModel) ToDomain() *ledger.AccountingPeriod {
	p := &ledger.AccountingPeriod{
		Name:      m.Name,
		StartDate: m.StartDate,
		EndDate:   m.EndDate,
		Status:    m.Status,
		ClosedAt:  m.ClosedAt,
		LockedAt:  m.LockedAt,
	}
	m.PopulateTenantAggregateRoot(&p.TenantAggregateRoot)
	return p
}

// FromDomain populates the persistence model from a domain AccountingPeriod entity.
func (m *AccountingPeriodModel) FromDomain(p *ledger.AccountingPeriod) {
	m.FromDomainTenantAggregateRoot(p.TenantAggregateRoot)
	m.Name = p.Name
	m.StartDate = p.StartDate
	m.EndDate = p.EndDate
	m.Status = p.Status
	m.ClosedAt = p.ClosedAt
	m.LockedAt = p.LockedAt
}

// AccountingPeriodModelFromDomain creates a new persistence model from a domain AccountingPeriod.
func AccountingPeriodModelFromDomain(p *ledger.AccountingPeriod) *AccountingPeriodModel {
	m := &AccountingPeriodModel{}
	m.FromDomain(p)
	return m
}

// JournalModel is the persistence model for the Journal aggregate root.
// Lines are loaded eagerly; a journal without its lines is meaningless.
type JournalModel struct {
	TenantAggregateModel
	Date       time.Time                `gorm:"not null;index"`
	Memo       string                   `gorm:"type:varchar(500)"`
	SourceType ledger.JournalSourceType `gorm:"type:varchar(30);not null;index:idx_journal_tenant_source,priority:2"`
	SourceID   *uuid.UUID               `gorm:"type:uuid;index:idx_journal_tenant_source,priority:3"`
	IsApproved bool                     `gorm:"not null;default:false;index"`
	ApprovedAt *time.Time
	Lines      []JournalLineModel `gorm:"foreignKey:JournalID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (JournalModel) TableName() string {
	return "journals"
}

// JournalLineModel is the persistence model for a single journal line.
type JournalLineModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	JournalID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	AccountID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Debit       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Credit      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Description string          `gorm:"type:varchar(500)"`
	Department  string          `gorm:"type:varchar(100)"`
	TaxRateID   *uuid.UUID      `gorm:"type:uuid;index"`
	LineNumber  int             `gorm:"not null"`
}

// TableName returns the table name for GORM
func (JournalLineModel) TableName() string {
	return "journal_lines"
}

// ToDomain converts the persistence model to a domain Journal entity.
func (m *JournalModel) ToDomain() *ledger.Journal {
	j := &ledger.Journal{
		Date:       m.Date,
		Memo:       m.Memo,
		SourceType: m.SourceType,
		SourceID:   m.SourceID,
		IsApproved: m.IsApproved,
		ApprovedAt: m.ApprovedAt,
	}
	m.PopulateTenantAggregateRoot(&j.TenantAggregateRoot)

	j.Lines = make([]ledger.JournalLine, len(m.Lines))
	for i := range m.Lines {
		j.Lines[i] = m.Lines[i].ToDomain()
	}
	return j
}

// FromDomain populates the persistence model from a domain Journal entity.
func (m *JournalModel) FromDomain(j *ledger.Journal) {
	m.FromDomainTenantAggregateRoot(j.TenantAggregateRoot)
	m.Date = j.Date
	m.Memo = j.Memo
	m.SourceType = j.SourceType
	m.SourceID = j.SourceID
	m.IsApproved = j.IsApproved
	m.ApprovedAt = j.ApprovedAt

	m.Lines = make([]JournalLineModel, len(j.Lines))
	for i := range j.Lines {
		m.Lines[i] = JournalLineModelFromDomain(&j.Lines[i])
	}
}

// JournalModelFromDomain creates a new persistence model from a domain Journal.
func JournalModelFromDomain(j *ledger.Journal) *JournalModel {
	m := &JournalModel{}
	m.FromDomain(j)
	return m
}

// ToDomain converts the persistence model to a domain JournalLine.
func (m *JournalLineModel) ToDomain() ledger.JournalLine {
	return ledger.JournalLine{
		ID:          m.ID,
		JournalID:   m.JournalID,
		AccountID:   m.AccountID,
		Debit:       m.Debit,
		Credit:      m.Credit,
		Description: m.Description,
		Department:  m.Department,
		TaxRateID:   m.TaxRateID,
		LineNumber:  m.LineNumber,
	}
}

// JournalLineModelFromDomain creates a persistence model from a domain JournalLine.
func JournalLineModelFromDomain(l *ledger.JournalLine) JournalLineModel {
	return JournalLineModel{
		ID:          l.ID,
		JournalID:   l.JournalID,
		AccountID:   l.AccountID,
		Debit:       l.Debit,
		Credit:      l.Credit,
		Description: l.Description,
		Department:  l.Department,
		TaxRateID:   l.TaxRateID,
		LineNumber:  l.LineNumber,
	}
}
