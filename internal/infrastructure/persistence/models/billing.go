package models

import (
	"time"

	"github.com/bookkeep/backend/internal/domain/billing"
	"github.com/shopspring/decimal"
)

// OpenInvoiceModel is the persistence model for the OpenInvoice read model.
type OpenInvoiceModel struct {
	TenantAggregateModel
	Number           string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_open_invoice_tenant_number,priority:2"`
	CounterpartyName string          `gorm:"type:varchar(200);not null"`
	TotalAmount      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	IssueDate        time.Time       `gorm:"not null;index"`
	DueDate          *time.Time      `gorm:"index"`
	Open             bool            `gorm:"not null;default:true;index"`
	SettledAt        *time.Time
}

// TableName returns the table name for GORM
func (OpenInvoiceModel) TableName() string {
	return "open_invoices"
}

// ToDomain converts the persistence model to a domain OpenInvoice entity.
func (m *OpenInvoiceModel) ToDomain() *billing.OpenInvoice {
	inv := &billing.OpenInvoice{
		Number:           m.Number,
		CounterpartyName: m.CounterpartyName,
		TotalAmount:      m.TotalAmount,
		IssueDate:        m.IssueDate,
		DueDate:          m.DueDate,
		Open:             m.Open,
		SettledAt:        m.SettledAt,
	}
	m.PopulateTenantAggregateRoot(&inv.TenantAggregateRoot)
	return inv
}

// FromDomain populates the persistence model from a domain OpenInvoice entity.
func (m *OpenInvoiceModel) FromDomain(inv *billing.OpenInvoice) {
	m.FromDomainTenantAggregateRoot(inv.TenantAggregateRoot)
	m.Number = inv.Number
	m.CounterpartyName = inv.CounterpartyName
	m.TotalAmount = inv.TotalAmount
	m.IssueDate = inv.IssueDate
	m.DueDate = inv.DueDate
	m.Open = inv.Open
	m.SettledAt = inv.SettledAt
}

// OpenInvoiceModelFromDomain creates a new persistence model from a domain OpenInvoice.
func OpenInvoiceModelFromDomain(inv *billing.OpenInvoice) *OpenInvoiceModel {
	m := &OpenInvoiceModel{}
	m.FromDomain(inv)
	return m
}

// OpenBillModel is the persistence model for the OpenBill read model.
type OpenBillModel struct {
	TenantAggregateModel
	Number           string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_open_bill_tenant_number,priority:2"`
	CounterpartyName string          `gorm:"type:varchar(200);not null"`
	TotalAmount      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	IssueDate        time.Time       `gorm:"not null;index"`
	DueDate          *time.Time      `gorm:"index"`
	Open             bool            `gorm:"not null;default:true;index"`
	SettledAt        *time.Time
}

// TableName returns the table name for GORM
func (OpenBillModel) TableName() string {
	return "open_bills"
}

// ToDomain converts the persistence model to a domain OpenBill entity.
func (m *OpenBillModel) ToDomain() *billing.OpenBill {
	b := &billing.OpenBill{
		Number:           m.Number,
		CounterpartyName: m.CounterpartyName,
		TotalAmount:      m.TotalAmount,
		IssueDate:        m.IssueDate,
		DueDate:          m.DueDate,
		Open:             m.Open,
		SettledAt:        m.SettledAt,
	}
	m.PopulateTenantAggregateRoot(&b.TenantAggregateRoot)
	return b
}

// FromDomain populates the persistence model from a domain OpenBill entity.
func (m *OpenBillModel) FromDomain(b *billing.OpenBill) {
	m.FromDomainTenantAggregateRoot(b.TenantAggregateRoot)
	m.Number = b.Number
	m.CounterpartyName = b.CounterpartyName
	m.TotalAmount = b.TotalAmount
	m.IssueDate = b.IssueDate
	m.DueDate = b.DueDate
	m.Open = b.Open
	m.SettledAt = b.SettledAt
}

// OpenBillModelFromDomain creates a new persistence model from a domain OpenBill.
func OpenBillModelFromDomain(b *billing.OpenBill) *OpenBillModel {
	m := &OpenBillModel{}
	m.FromDomain(b)
	return m
}
