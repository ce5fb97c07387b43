package ledger

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/bookkeep/backend/internal/domain/billing"
	"github.com/bookkeep/backend/internal/domain/ledger"
	"github.com/bookkeep/backend/internal/domain/shared"
)

// InvoicePaidHandler handles InvoicePaidEvent and posts the settlement
// journal: debit bank, credit accounts receivable. It also settles the
// open-invoice read model so the invoice stops appearing as a
// reconciliation candidate.
type InvoicePaidHandler struct {
	journalSvc  *JournalService
	journalRepo ledger.JournalRepository
	accountRepo ledger.AccountRepository
	invoiceRepo billing.OpenInvoiceRepository
	logger      *zap.Logger
}

// NewInvoicePaidHandler creates a new handler for invoice paid events
func NewInvoicePaidHandler(
	journalSvc *JournalService,
	journalRepo ledger.JournalRepository,
	accountRepo ledger.AccountRepository,
	invoiceRepo billing.OpenInvoiceRepository,
	logger *zap.Logger,
) *InvoicePaidHandler {
	return &InvoicePaidHandler{
		journalSvc:  journalSvc,
		journalRepo: journalRepo,
		accountRepo: accountRepo,
		invoiceRepo: invoiceRepo,
		logger:      logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *InvoicePaidHandler) EventTypes() []string {
	return []string{billing.EventTypeInvoicePaid}
}

// Handle processes an InvoicePaidEvent by generating the settlement journal
func (h *InvoicePaidHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	paidEvent, ok := event.(*billing.InvoicePaidEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", billing.EventTypeInvoicePaid),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			billing.EventTypeInvoicePaid, event.EventType())
	}

	if paidEvent.OldStatus != billing.InvoiceStatusSent || paidEvent.NewStatus != billing.InvoiceStatusPaid {
		h.logger.Warn("skipping invoice paid event without sent -> paid transition",
			zap.String("invoice_id", paidEvent.InvoiceID.String()),
			zap.String("old_status", string(paidEvent.OldStatus)),
			zap.String("new_status", string(paidEvent.NewStatus)),
		)
		return nil
	}

	// Idempotency check: one payment journal per invoice
	exists, err := h.journalRepo.ExistsBySource(
		ctx,
		paidEvent.TenantID(),
		ledger.JournalSourcePayment,
		paidEvent.InvoiceID,
	)
	if err != nil {
		return fmt.Errorf("failed to check existing journal: %w", err)
	}
	if exists {
		h.logger.Warn("payment journal already exists for invoice, skipping",
			zap.String("invoice_id", paidEvent.InvoiceID.String()),
			zap.String("invoice_number", paidEvent.InvoiceNumber),
		)
		return nil
	}

	bank, err := h.accountRepo.FindBySystemKey(ctx, paidEvent.TenantID(), ledger.SystemKeyBank)
	if err != nil {
		return fmt.Errorf("failed to resolve bank account mapping: %w", err)
	}
	receivable, err := h.accountRepo.FindBySystemKey(ctx, paidEvent.TenantID(), ledger.SystemKeyAccountsReceivable)
	if err != nil {
		return fmt.Errorf("failed to resolve accounts receivable mapping: %w", err)
	}

	memo := fmt.Sprintf("Payment received for invoice %s from %s", paidEvent.InvoiceNumber, paidEvent.CounterpartyName)
	invoiceID := paidEvent.InvoiceID
	journal, err := ledger.NewJournal(
		paidEvent.TenantID(),
		paidEvent.PaymentDate,
		memo,
		ledger.JournalSourcePayment,
		&invoiceID,
		[]ledger.JournalLine{
			ledger.NewJournalLine(bank.ID, paidEvent.TotalAmount, decimal.Zero, memo),
			ledger.NewJournalLine(receivable.ID, decimal.Zero, paidEvent.TotalAmount, memo),
		},
	)
	if err != nil {
		return fmt.Errorf("failed to build payment journal: %w", err)
	}

	if err := h.journalSvc.CreateGenerated(ctx, journal); err != nil {
		return fmt.Errorf("failed to save payment journal: %w", err)
	}

	// The invoice may already be settled through bank reconciliation;
	// losing that race is not an error
	if _, err := h.invoiceRepo.Settle(ctx, paidEvent.TenantID(), paidEvent.InvoiceID); err != nil {
		h.logger.Warn("failed to settle open invoice entry",
			zap.String("invoice_id", paidEvent.InvoiceID.String()),
			zap.Error(err),
		)
	}

	h.logger.Info("payment journal generated for paid invoice",
		zap.String("journal_id", journal.ID.String()),
		zap.String("invoice_id", paidEvent.InvoiceID.String()),
		zap.String("invoice_number", paidEvent.InvoiceNumber),
		zap.String("amount", paidEvent.TotalAmount.String()),
	)

	return nil
}
