package banking

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	ledgerapp "github.com/bookkeep/backend/internal/application/ledger"
	"github.com/bookkeep/backend/internal/domain/banking"
	"github.com/bookkeep/backend/internal/domain/billing"
	"github.com/bookkeep/backend/internal/domain/ledger"
	"github.com/bookkeep/backend/internal/domain/shared"
)

// BankRowResponse represents a bank row in API responses
type BankRowResponse struct {
	ID          uuid.UUID       `json:"id"`
	StatementID uuid.UUID       `json:"statement_id"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Direction   string          `json:"direction"`
	Matched     bool            `json:"matched"`
	MatchedAt   *time.Time      `json:"matched_at,omitempty"`
}

// ToBankRowResponse maps a domain bank row to its API representation
func ToBankRowResponse(r *banking.BankRow) *BankRowResponse {
	return &BankRowResponse{
		ID:          r.ID,
		StatementID: r.StatementID,
		Date:        r.Date,
		Description: r.Description,
		Amount:      r.Amount,
		Direction:   r.Direction.String(),
		Matched:     r.Matched,
		MatchedAt:   r.MatchedAt,
	}
}

// RowCandidates pairs one unmatched bank row with its scored candidates
type RowCandidates struct {
	Row        BankRowResponse          `json:"row"`
	Candidates []banking.MatchCandidate `json:"candidates"`
}

// ConfirmMatchRequest carries the input for confirming a match
type ConfirmMatchRequest struct {
	BankRowID  uuid.UUID `json:"bank_row_id" binding:"required"`
	TargetType string    `json:"target_type" binding:"required"`
	TargetID   uuid.UUID `json:"target_id" binding:"required"`
}

// ConfirmMatchResponse reports the outcome of a confirmed match
type ConfirmMatchResponse struct {
	BankRowID  uuid.UUID  `json:"bank_row_id"`
	TargetType string     `json:"target_type"`
	TargetID   uuid.UUID  `json:"target_id"`
	JournalID  *uuid.UUID `json:"journal_id,omitempty"`
}

// ReconciliationService scores unmatched bank rows against open documents
// and confirms human-chosen matches. Confirmation rides on conditional
// updates: the bank row's unmatched -> matched transition is the
// serialization point, so two concurrent confirms of the same row leave
// exactly one winner.
type ReconciliationService struct {
	statementRepo banking.BankStatementRepository
	rowRepo       banking.BankRowRepository
	invoiceRepo   billing.OpenInvoiceRepository
	billRepo      billing.OpenBillRepository
	accountRepo   ledger.AccountRepository
	journalSvc    *ledgerapp.JournalService
	matcher       *banking.Matcher
	logger        *zap.Logger
}

// NewReconciliationService creates a new ReconciliationService
func NewReconciliationService(
	statementRepo banking.BankStatementRepository,
	rowRepo banking.BankRowRepository,
	invoiceRepo billing.OpenInvoiceRepository,
	billRepo billing.OpenBillRepository,
	accountRepo ledger.AccountRepository,
	journalSvc *ledgerapp.JournalService,
	matcher *banking.Matcher,
	logger *zap.Logger,
) *ReconciliationService {
	return &ReconciliationService{
		statementRepo: statementRepo,
		rowRepo:       rowRepo,
		invoiceRepo:   invoiceRepo,
		billRepo:      billRepo,
		accountRepo:   accountRepo,
		journalSvc:    journalSvc,
		matcher:       matcher,
		logger:        logger,
	}
}

// Candidates scores every unmatched row of a statement against the open
// documents of the tenant. An empty candidate list for a row is a valid
// terminal state: not everything on a bank statement has a document.
func (s *ReconciliationService) Candidates(ctx context.Context, tenantID, statementID uuid.UUID) ([]RowCandidates, error) {
	if _, err := s.statementRepo.FindByIDForTenant(ctx, tenantID, statementID); err != nil {
		return nil, err
	}

	rows, err := s.rowRepo.ListUnmatchedByStatement(ctx, tenantID, statementID)
	if err != nil {
		return nil, err
	}

	invoices, err := s.invoiceRepo.ListOpen(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	bills, err := s.billRepo.ListOpen(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	result := make([]RowCandidates, len(rows))
	for i := range rows {
		result[i] = RowCandidates{
			Row:        *ToBankRowResponse(&rows[i]),
			Candidates: s.matcher.CandidatesForRow(&rows[i], invoices, bills),
		}
	}
	return result, nil
}

// ConfirmMatch marks a bank row as matched against an open document,
// settles the document and posts the settlement journal. The row's
// conditional update decides the race; a second confirm of the same row
// reports ALREADY_MATCHED.
func (s *ReconciliationService) ConfirmMatch(ctx context.Context, tenantID uuid.UUID, req ConfirmMatchRequest) (*ConfirmMatchResponse, error) {
	targetType := banking.MatchTargetType(req.TargetType)
	if !targetType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TARGET_TYPE", "Match target must be INVOICE or BILL")
	}

	row, err := s.rowRepo.FindByIDForTenant(ctx, tenantID, req.BankRowID)
	if err != nil {
		return nil, err
	}
	if row.Matched {
		return nil, shared.NewDomainError("ALREADY_MATCHED", "Bank row is already matched")
	}
	if targetType == banking.MatchTargetInvoice && row.Direction != banking.DirectionIn {
		return nil, shared.NewDomainError("DIRECTION_MISMATCH", "Only inbound rows can match invoices")
	}
	if targetType == banking.MatchTargetBill && row.Direction != banking.DirectionOut {
		return nil, shared.NewDomainError("DIRECTION_MISMATCH", "Only outbound rows can match bills")
	}

	memo, err := s.describeTarget(ctx, tenantID, targetType, req.TargetID, row)
	if err != nil {
		return nil, err
	}

	// The settlement journal is built and its posting guards checked before
	// any state changes. MarkMatched and Settle are terminal conditional
	// updates, so a PERIOD_LOCKED or missing account mapping discovered
	// after them would strand a matched row without its journal.
	journal, err := s.buildSettlementJournal(ctx, tenantID, row, targetType, memo)
	if err != nil {
		return nil, err
	}
	if err := s.journalSvc.EnsurePostable(ctx, journal); err != nil {
		return nil, err
	}

	// Serialization point: exactly one confirm per row wins
	won, err := s.rowRepo.MarkMatched(ctx, tenantID, req.BankRowID)
	if err != nil {
		return nil, err
	}
	if !won {
		return nil, shared.NewDomainError("ALREADY_MATCHED", "Bank row is already matched")
	}

	settled, err := s.settleTarget(ctx, tenantID, targetType, req.TargetID)
	if err != nil {
		return nil, err
	}

	response := &ConfirmMatchResponse{
		BankRowID:  req.BankRowID,
		TargetType: string(targetType),
		TargetID:   req.TargetID,
	}

	// When the document lost a settlement race (e.g. marked paid manually
	// in parallel), its journal already exists; posting again would double
	// the entry
	if settled {
		if err := s.journalSvc.CreateGenerated(ctx, journal); err != nil {
			return nil, fmt.Errorf("failed to save settlement journal: %w", err)
		}
		journalID := journal.ID
		response.JournalID = &journalID
	} else {
		s.logger.Warn("match target was already settled, skipping settlement journal",
			zap.String("bank_row_id", req.BankRowID.String()),
			zap.String("target_id", req.TargetID.String()),
		)
	}

	if err := s.statementRepo.IncrementMatchedCount(ctx, tenantID, row.StatementID); err != nil {
		s.logger.Warn("failed to bump statement matched count",
			zap.String("statement_id", row.StatementID.String()),
			zap.Error(err),
		)
	}

	s.logger.Info("bank row matched",
		zap.String("bank_row_id", req.BankRowID.String()),
		zap.String("target_type", string(targetType)),
		zap.String("target_id", req.TargetID.String()),
	)

	return response, nil
}

// describeTarget validates the target exists, is open and fits the row,
// returning the journal memo
func (s *ReconciliationService) describeTarget(
	ctx context.Context,
	tenantID uuid.UUID,
	targetType banking.MatchTargetType,
	targetID uuid.UUID,
	row *banking.BankRow,
) (string, error) {
	switch targetType {
	case banking.MatchTargetInvoice:
		invoice, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, targetID)
		if err != nil {
			return "", err
		}
		if !invoice.Open {
			return "", shared.NewDomainError("TARGET_SETTLED", "Invoice is already settled")
		}
		return fmt.Sprintf("Bank settlement of invoice %s (%s)", invoice.Number, invoice.CounterpartyName), nil
	default:
		bill, err := s.billRepo.FindByIDForTenant(ctx, tenantID, targetID)
		if err != nil {
			return "", err
		}
		if !bill.Open {
			return "", shared.NewDomainError("TARGET_SETTLED", "Bill is already settled")
		}
		return fmt.Sprintf("Bank settlement of bill %s (%s)", bill.Number, bill.CounterpartyName), nil
	}
}

// settleTarget performs the conditional open -> settled update on the document
func (s *ReconciliationService) settleTarget(
	ctx context.Context,
	tenantID uuid.UUID,
	targetType banking.MatchTargetType,
	targetID uuid.UUID,
) (bool, error) {
	if targetType == banking.MatchTargetInvoice {
		return s.invoiceRepo.Settle(ctx, tenantID, targetID)
	}
	return s.billRepo.Settle(ctx, tenantID, targetID)
}

// buildSettlementJournal assembles the journal for a confirmed match.
// Inbound rows settle receivables (debit bank, credit AR); outbound rows
// settle payables (debit AP, credit bank). Nothing is persisted here.
func (s *ReconciliationService) buildSettlementJournal(
	ctx context.Context,
	tenantID uuid.UUID,
	row *banking.BankRow,
	targetType banking.MatchTargetType,
	memo string,
) (*ledger.Journal, error) {
	bank, err := s.accountRepo.FindBySystemKey(ctx, tenantID, ledger.SystemKeyBank)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve bank account mapping: %w", err)
	}

	var lines []ledger.JournalLine
	if targetType == banking.MatchTargetInvoice {
		receivable, err := s.accountRepo.FindBySystemKey(ctx, tenantID, ledger.SystemKeyAccountsReceivable)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve accounts receivable mapping: %w", err)
		}
		lines = []ledger.JournalLine{
			ledger.NewJournalLine(bank.ID, row.Amount, decimal.Zero, memo),
			ledger.NewJournalLine(receivable.ID, decimal.Zero, row.Amount, memo),
		}
	} else {
		payable, err := s.accountRepo.FindBySystemKey(ctx, tenantID, ledger.SystemKeyAccountsPayable)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve accounts payable mapping: %w", err)
		}
		lines = []ledger.JournalLine{
			ledger.NewJournalLine(payable.ID, row.Amount, decimal.Zero, memo),
			ledger.NewJournalLine(bank.ID, decimal.Zero, row.Amount, memo),
		}
	}

	rowID := row.ID
	journal, err := ledger.NewJournal(tenantID, row.Date, memo, ledger.JournalSourceBankTransaction, &rowID, lines)
	if err != nil {
		return nil, fmt.Errorf("failed to build settlement journal: %w", err)
	}
	return journal, nil
}
