package billing

import (
	"context"

	"github.com/google/uuid"
)

// OpenInvoiceRepository defines persistence operations for the invoice
// settlement read model
type OpenInvoiceRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*OpenInvoice, error)
	ListOpen(ctx context.Context, tenantID uuid.UUID) ([]OpenInvoice, error)
	Save(ctx context.Context, invoice *OpenInvoice) error
	// Settle performs a conditional update (open = true -> false).
	// Returns false when the invoice was not open.
	Settle(ctx context.Context, tenantID, id uuid.UUID) (bool, error)
}

// OpenBillRepository defines persistence operations for the bill
// settlement read model
type OpenBillRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*OpenBill, error)
	ListOpen(ctx context.Context, tenantID uuid.UUID) ([]OpenBill, error)
	Save(ctx context.Context, bill *OpenBill) error
	// Settle performs a conditional update (open = true -> false).
	// Returns false when the bill was not open.
	Settle(ctx context.Context, tenantID, id uuid.UUID) (bool, error)
}
