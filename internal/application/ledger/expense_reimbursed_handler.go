package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/bookkeep/backend/internal/domain/billing"
	"github.com/bookkeep/backend/internal/domain/ledger"
	"github.com/bookkeep/backend/internal/domain/shared"
)

// claimLineKey groups expense claim lines that post to the same account
// under the same tax rate
type claimLineKey struct {
	accountID uuid.UUID
	taxRateID uuid.UUID
}

// groupClaimLines aggregates claim amounts per account and tax rate,
// keeping the first-seen order and memo of each group
func groupClaimLines(claimLines []billing.ExpenseClaimLine) []ledger.JournalLine {
	order := make([]claimLineKey, 0, len(claimLines))
	grouped := make(map[claimLineKey]*ledger.JournalLine, len(claimLines))
	for _, claimLine := range claimLines {
		key := claimLineKey{accountID: claimLine.AccountID}
		if claimLine.TaxRateID != nil {
			key.taxRateID = *claimLine.TaxRateID
		}
		if line, ok := grouped[key]; ok {
			line.Debit = line.Debit.Add(claimLine.Amount)
			continue
		}
		line := ledger.NewJournalLine(claimLine.AccountID, claimLine.Amount, decimal.Zero, claimLine.Memo)
		line.TaxRateID = claimLine.TaxRateID
		grouped[key] = &line
		order = append(order, key)
	}

	lines := make([]ledger.JournalLine, 0, len(order)+1)
	for _, key := range order {
		lines = append(lines, *grouped[key])
	}
	return lines
}

// ExpenseReimbursedHandler handles ExpenseReimbursedEvent and posts the
// reimbursement journal: one debit line per account and tax rate group of
// the claim lines, credit bank for the total. The whole handler sits behind
// a capability flag so tenants on plans without expense journals get no
// posting.
type ExpenseReimbursedHandler struct {
	journalSvc  *JournalService
	journalRepo ledger.JournalRepository
	accountRepo ledger.AccountRepository
	enabled     bool
	logger      *zap.Logger
}

// NewExpenseReimbursedHandler creates a new handler for expense reimbursed events
func NewExpenseReimbursedHandler(
	journalSvc *JournalService,
	journalRepo ledger.JournalRepository,
	accountRepo ledger.AccountRepository,
	enabled bool,
	logger *zap.Logger,
) *ExpenseReimbursedHandler {
	return &ExpenseReimbursedHandler{
		journalSvc:  journalSvc,
		journalRepo: journalRepo,
		accountRepo: accountRepo,
		enabled:     enabled,
		logger:      logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *ExpenseReimbursedHandler) EventTypes() []string {
	return []string{billing.EventTypeExpenseReimbursed}
}

// Handle processes an ExpenseReimbursedEvent by generating the reimbursement journal
func (h *ExpenseReimbursedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	reimbursedEvent, ok := event.(*billing.ExpenseReimbursedEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", billing.EventTypeExpenseReimbursed),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			billing.EventTypeExpenseReimbursed, event.EventType())
	}

	if !h.enabled {
		h.logger.Info("expense journal generation disabled, skipping",
			zap.String("claim_id", reimbursedEvent.ClaimID.String()),
		)
		return nil
	}

	if reimbursedEvent.OldStatus != billing.ExpenseStatusApproved || reimbursedEvent.NewStatus != billing.ExpenseStatusReimbursed {
		h.logger.Warn("skipping expense event without approved -> reimbursed transition",
			zap.String("claim_id", reimbursedEvent.ClaimID.String()),
			zap.String("old_status", string(reimbursedEvent.OldStatus)),
			zap.String("new_status", string(reimbursedEvent.NewStatus)),
		)
		return nil
	}

	if len(reimbursedEvent.Lines) == 0 {
		h.logger.Warn("skipping expense event without claim lines",
			zap.String("claim_id", reimbursedEvent.ClaimID.String()),
		)
		return nil
	}

	// Idempotency check: one journal per expense claim
	exists, err := h.journalRepo.ExistsBySource(
		ctx,
		reimbursedEvent.TenantID(),
		ledger.JournalSourceExpense,
		reimbursedEvent.ClaimID,
	)
	if err != nil {
		return fmt.Errorf("failed to check existing journal: %w", err)
	}
	if exists {
		h.logger.Warn("journal already exists for expense claim, skipping",
			zap.String("claim_id", reimbursedEvent.ClaimID.String()),
			zap.String("claim_number", reimbursedEvent.ClaimNumber),
		)
		return nil
	}

	bank, err := h.accountRepo.FindBySystemKey(ctx, reimbursedEvent.TenantID(), ledger.SystemKeyBank)
	if err != nil {
		return fmt.Errorf("failed to resolve bank account mapping: %w", err)
	}

	memo := fmt.Sprintf("Expense claim %s reimbursed to %s", reimbursedEvent.ClaimNumber, reimbursedEvent.CounterpartyName)
	lines := append(groupClaimLines(reimbursedEvent.Lines),
		ledger.NewJournalLine(bank.ID, decimal.Zero, reimbursedEvent.Total(), memo))

	claimID := reimbursedEvent.ClaimID
	journal, err := ledger.NewJournal(
		reimbursedEvent.TenantID(),
		reimbursedEvent.ReimbursedDate,
		memo,
		ledger.JournalSourceExpense,
		&claimID,
		lines,
	)
	if err != nil {
		return fmt.Errorf("failed to build reimbursement journal: %w", err)
	}

	if err := h.journalSvc.CreateGenerated(ctx, journal); err != nil {
		return fmt.Errorf("failed to save reimbursement journal: %w", err)
	}

	h.logger.Info("reimbursement journal generated for expense claim",
		zap.Int("claim_lines", len(reimbursedEvent.Lines)),
		zap.Int("journal_lines", len(journal.Lines)),
		zap.String("journal_id", journal.ID.String()),
		zap.String("claim_id", reimbursedEvent.ClaimID.String()),
		zap.String("claim_number", reimbursedEvent.ClaimNumber),
		zap.String("amount", reimbursedEvent.Total().String()),
	)

	return nil
}
