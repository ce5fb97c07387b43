package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/bookkeep/backend/internal/domain/billing"
	"github.com/bookkeep/backend/internal/domain/ledger"
	"github.com/bookkeep/backend/internal/domain/shared"
)

// InvoiceSentHandler handles InvoiceSentEvent and posts the revenue
// recognition journal: debit accounts receivable, credit sales revenue.
// It also registers the invoice in the open-invoice read model consumed
// by the bank reconciliation matcher.
type InvoiceSentHandler struct {
	journalSvc  *JournalService
	journalRepo ledger.JournalRepository
	accountRepo ledger.AccountRepository
	invoiceRepo billing.OpenInvoiceRepository
	logger      *zap.Logger
}

// NewInvoiceSentHandler creates a new handler for invoice sent events
func NewInvoiceSentHandler(
	journalSvc *JournalService,
	journalRepo ledger.JournalRepository,
	accountRepo ledger.AccountRepository,
	invoiceRepo billing.OpenInvoiceRepository,
	logger *zap.Logger,
) *InvoiceSentHandler {
	return &InvoiceSentHandler{
		journalSvc:  journalSvc,
		journalRepo: journalRepo,
		accountRepo: accountRepo,
		invoiceRepo: invoiceRepo,
		logger:      logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *InvoiceSentHandler) EventTypes() []string {
	return []string{billing.EventTypeInvoiceSent}
}

// Handle processes an InvoiceSentEvent by generating the revenue journal
func (h *InvoiceSentHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	sentEvent, ok := event.(*billing.InvoiceSentEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", billing.EventTypeInvoiceSent),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			billing.EventTypeInvoiceSent, event.EventType())
	}

	// Replayed saves that did not transition the document carry no posting
	if sentEvent.OldStatus != billing.InvoiceStatusPending || sentEvent.NewStatus != billing.InvoiceStatusSent {
		h.logger.Warn("skipping invoice sent event without pending -> sent transition",
			zap.String("invoice_id", sentEvent.InvoiceID.String()),
			zap.String("old_status", string(sentEvent.OldStatus)),
			zap.String("new_status", string(sentEvent.NewStatus)),
		)
		return nil
	}

	// Idempotency check: one journal per source document
	exists, err := h.journalRepo.ExistsBySource(
		ctx,
		sentEvent.TenantID(),
		ledger.JournalSourceInvoice,
		sentEvent.InvoiceID,
	)
	if err != nil {
		return fmt.Errorf("failed to check existing journal: %w", err)
	}
	if exists {
		h.logger.Warn("journal already exists for sent invoice, skipping",
			zap.String("invoice_id", sentEvent.InvoiceID.String()),
			zap.String("invoice_number", sentEvent.InvoiceNumber),
		)
		return nil
	}

	receivable, err := h.accountRepo.FindBySystemKey(ctx, sentEvent.TenantID(), ledger.SystemKeyAccountsReceivable)
	if err != nil {
		return fmt.Errorf("failed to resolve accounts receivable mapping: %w", err)
	}
	revenue, err := h.accountRepo.FindBySystemKey(ctx, sentEvent.TenantID(), ledger.SystemKeySalesRevenue)
	if err != nil {
		return fmt.Errorf("failed to resolve sales revenue mapping: %w", err)
	}

	memo := fmt.Sprintf("Invoice %s sent to %s", sentEvent.InvoiceNumber, sentEvent.CounterpartyName)
	invoiceID := sentEvent.InvoiceID
	journal, err := ledger.NewJournal(
		sentEvent.TenantID(),
		sentEvent.IssueDate,
		memo,
		ledger.JournalSourceInvoice,
		&invoiceID,
		[]ledger.JournalLine{
			ledger.NewJournalLine(receivable.ID, sentEvent.TotalAmount, decimal.Zero, memo),
			ledger.NewJournalLine(revenue.ID, decimal.Zero, sentEvent.TotalAmount, memo),
		},
	)
	if err != nil {
		return fmt.Errorf("failed to build revenue journal: %w", err)
	}

	if err := h.journalSvc.CreateGenerated(ctx, journal); err != nil {
		return fmt.Errorf("failed to save revenue journal: %w", err)
	}

	if err := h.registerOpenInvoice(ctx, sentEvent); err != nil {
		return err
	}

	h.logger.Info("revenue journal generated for sent invoice",
		zap.String("journal_id", journal.ID.String()),
		zap.String("invoice_id", sentEvent.InvoiceID.String()),
		zap.String("invoice_number", sentEvent.InvoiceNumber),
		zap.String("amount", sentEvent.TotalAmount.String()),
	)

	return nil
}

// registerOpenInvoice feeds the reconciliation read model. The read model
// entry shares the invoice's ID so settlement paths address the document
// directly.
func (h *InvoiceSentHandler) registerOpenInvoice(ctx context.Context, event *billing.InvoiceSentEvent) error {
	invoice, err := billing.NewOpenInvoice(
		event.TenantID(),
		event.InvoiceNumber,
		event.CounterpartyName,
		event.TotalAmount,
		event.IssueDate,
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to build open invoice entry: %w", err)
	}
	invoice.ID = event.InvoiceID

	if err := h.invoiceRepo.Save(ctx, invoice); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil
		}
		return fmt.Errorf("failed to register open invoice: %w", err)
	}
	return nil
}
