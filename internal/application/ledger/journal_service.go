package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bookkeep/backend/internal/domain/ledger"
	"github.com/bookkeep/backend/internal/domain/shared"
)

// JournalService handles the posting engine operations: manual journal
// CRUD, approval and the guards shared with generated postings.
type JournalService struct {
	journalRepo ledger.JournalRepository
	accountRepo ledger.AccountRepository
	periodRepo  ledger.AccountingPeriodRepository
	eventBus    shared.EventPublisher
}

// NewJournalService creates a new JournalService
func NewJournalService(
	journalRepo ledger.JournalRepository,
	accountRepo ledger.AccountRepository,
	periodRepo ledger.AccountingPeriodRepository,
	eventBus shared.EventPublisher,
) *JournalService {
	return &JournalService{
		journalRepo: journalRepo,
		accountRepo: accountRepo,
		periodRepo:  periodRepo,
		eventBus:    eventBus,
	}
}

// JournalLineRequest carries one line of a journal create or update
type JournalLineRequest struct {
	AccountID   uuid.UUID       `json:"account_id" binding:"required"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description" binding:"max=500"`
	Department  string          `json:"department" binding:"max=100"`
	TaxRateID   *uuid.UUID      `json:"tax_rate_id"`
}

// CreateJournalRequest carries the input for creating a manual journal
type CreateJournalRequest struct {
	Date      time.Time            `json:"date" binding:"required"`
	Memo      string               `json:"memo" binding:"max=500"`
	Lines     []JournalLineRequest `json:"lines" binding:"required,min=2"`
	CreatedBy *uuid.UUID           `json:"-"`
}

// UpdateJournalRequest carries the input for revising an unapproved manual journal
type UpdateJournalRequest struct {
	Date  time.Time            `json:"date" binding:"required"`
	Memo  string               `json:"memo" binding:"max=500"`
	Lines []JournalLineRequest `json:"lines" binding:"required,min=2"`
}

// JournalLineResponse represents a journal line in API responses
type JournalLineResponse struct {
	ID          uuid.UUID       `json:"id"`
	AccountID   uuid.UUID       `json:"account_id"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description,omitempty"`
	Department  string          `json:"department,omitempty"`
	TaxRateID   *uuid.UUID      `json:"tax_rate_id,omitempty"`
	LineNumber  int             `json:"line_number"`
}

// JournalResponse represents a journal in API responses
type JournalResponse struct {
	ID          uuid.UUID             `json:"id"`
	Date        time.Time             `json:"date"`
	Memo        string                `json:"memo,omitempty"`
	SourceType  string                `json:"source_type"`
	SourceID    *uuid.UUID            `json:"source_id,omitempty"`
	IsApproved  bool                  `json:"is_approved"`
	ApprovedAt  *time.Time            `json:"approved_at,omitempty"`
	TotalDebit  decimal.Decimal       `json:"total_debit"`
	TotalCredit decimal.Decimal       `json:"total_credit"`
	Lines       []JournalLineResponse `json:"lines"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

// JournalListFilter carries list filtering options
type JournalListFilter struct {
	SourceType string `form:"source_type"`
	Approved   *bool  `form:"approved"`
	FromDate   string `form:"from_date"`
	ToDate     string `form:"to_date"`
	Page       int    `form:"page"`
	PageSize   int    `form:"page_size"`
}

// ToJournalResponse maps a domain journal to its API representation
func ToJournalResponse(j *ledger.Journal) *JournalResponse {
	lines := make([]JournalLineResponse, len(j.Lines))
	for i := range j.Lines {
		l := &j.Lines[i]
		lines[i] = JournalLineResponse{
			ID:          l.ID,
			AccountID:   l.AccountID,
			Debit:       l.Debit,
			Credit:      l.Credit,
			Description: l.Description,
			Department:  l.Department,
			TaxRateID:   l.TaxRateID,
			LineNumber:  l.LineNumber,
		}
	}
	return &JournalResponse{
		ID:          j.ID,
		Date:        j.Date,
		Memo:        j.Memo,
		SourceType:  j.SourceType.String(),
		SourceID:    j.SourceID,
		IsApproved:  j.IsApproved,
		ApprovedAt:  j.ApprovedAt,
		TotalDebit:  j.TotalDebit(),
		TotalCredit: j.TotalCredit(),
		Lines:       lines,
		CreatedAt:   j.CreatedAt,
		UpdatedAt:   j.UpdatedAt,
	}
}

// toDomainLines maps line requests to domain lines
func toDomainLines(reqs []JournalLineRequest) []ledger.JournalLine {
	lines := make([]ledger.JournalLine, len(reqs))
	for i, req := range reqs {
		lines[i] = ledger.JournalLine{
			ID:          uuid.New(),
			AccountID:   req.AccountID,
			Debit:       req.Debit,
			Credit:      req.Credit,
			Description: req.Description,
			Department:  req.Department,
			TaxRateID:   req.TaxRateID,
		}
	}
	return lines
}

// checkPeriodOpen rejects the date when it falls inside a locked period.
// Dates not covered by any period are accepted: period bookkeeping is
// optional until the tenant closes its first year.
func (s *JournalService) checkPeriodOpen(ctx context.Context, tenantID uuid.UUID, date time.Time) error {
	period, err := s.periodRepo.FindCovering(ctx, tenantID, date)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil
		}
		return err
	}
	if period.IsLocked() {
		return shared.NewDomainError("PERIOD_LOCKED", "Journal date falls inside a locked accounting period")
	}
	return nil
}

// checkAccountsPostable verifies every referenced account exists and is active
func (s *JournalService) checkAccountsPostable(ctx context.Context, tenantID uuid.UUID, lines []ledger.JournalLine) error {
	idSet := make(map[uuid.UUID]struct{}, len(lines))
	ids := make([]uuid.UUID, 0, len(lines))
	for i := range lines {
		if _, ok := idSet[lines[i].AccountID]; !ok {
			idSet[lines[i].AccountID] = struct{}{}
			ids = append(ids, lines[i].AccountID)
		}
	}

	accounts, err := s.accountRepo.FindByIDs(ctx, tenantID, ids)
	if err != nil {
		return err
	}

	found := make(map[uuid.UUID]*ledger.Account, len(accounts))
	for i := range accounts {
		found[accounts[i].ID] = &accounts[i]
	}
	for _, id := range ids {
		account, ok := found[id]
		if !ok {
			return shared.NewDomainError("ACCOUNT_NOT_FOUND", "Journal line references an unknown account")
		}
		if !account.IsPostable() {
			return shared.NewDomainError("ACCOUNT_INACTIVE", "Journal line references an inactive account")
		}
	}
	return nil
}

// Create creates a manual journal after validating the balance invariant,
// account references and the period gate
func (s *JournalService) Create(ctx context.Context, tenantID uuid.UUID, req CreateJournalRequest) (*JournalResponse, error) {
	lines := toDomainLines(req.Lines)

	journal, err := ledger.NewJournal(tenantID, req.Date, req.Memo, ledger.JournalSourceManual, nil, lines)
	if err != nil {
		return nil, err
	}

	if err := s.checkPeriodOpen(ctx, tenantID, req.Date); err != nil {
		return nil, err
	}
	if err := s.checkAccountsPostable(ctx, tenantID, journal.Lines); err != nil {
		return nil, err
	}

	if req.CreatedBy != nil {
		journal.SetCreatedBy(*req.CreatedBy)
	}

	if err := s.journalRepo.Create(ctx, journal); err != nil {
		return nil, err
	}

	if s.eventBus != nil {
		_ = s.eventBus.Publish(ctx, journal.GetDomainEvents()...)
		journal.ClearDomainEvents()
	}

	return ToJournalResponse(journal), nil
}

// EnsurePostable runs the posting guards (period gate, account references)
// without persisting anything. Callers that interleave other irreversible
// writes with journal creation check the guards up front, so a guard
// rejection cannot strand those writes.
func (s *JournalService) EnsurePostable(ctx context.Context, journal *ledger.Journal) error {
	if err := s.checkPeriodOpen(ctx, journal.TenantID, journal.Date); err != nil {
		return err
	}
	return s.checkAccountsPostable(ctx, journal.TenantID, journal.Lines)
}

// CreateGenerated persists a journal derived from a source document. The
// same validation path as manual creation applies, minus the manual-only
// restrictions. Used by the event handlers and the reconciliation confirm.
func (s *JournalService) CreateGenerated(ctx context.Context, journal *ledger.Journal) error {
	if err := s.checkPeriodOpen(ctx, journal.TenantID, journal.Date); err != nil {
		return err
	}
	if err := s.checkAccountsPostable(ctx, journal.TenantID, journal.Lines); err != nil {
		return err
	}
	if err := s.journalRepo.Create(ctx, journal); err != nil {
		return err
	}

	if s.eventBus != nil {
		_ = s.eventBus.Publish(ctx, journal.GetDomainEvents()...)
		journal.ClearDomainEvents()
	}
	return nil
}

// GetByID retrieves a journal with its lines
func (s *JournalService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*JournalResponse, error) {
	journal, err := s.journalRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return ToJournalResponse(journal), nil
}

// List lists journals matching the filter along with the total count
func (s *JournalService) List(ctx context.Context, tenantID uuid.UUID, filter JournalListFilter) ([]JournalResponse, int64, error) {
	domainFilter := ledger.JournalFilter{
		Approved: filter.Approved,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}
	if filter.SourceType != "" {
		st := ledger.JournalSourceType(filter.SourceType)
		if !st.IsValid() {
			return nil, 0, shared.NewDomainError("INVALID_SOURCE_TYPE", "Unknown journal source type")
		}
		domainFilter.SourceType = &st
	}
	if filter.FromDate != "" {
		from, err := time.Parse("2006-01-02", filter.FromDate)
		if err != nil {
			return nil, 0, shared.NewDomainError("INVALID_DATE", "from_date must be YYYY-MM-DD")
		}
		domainFilter.FromDate = &from
	}
	if filter.ToDate != "" {
		to, err := time.Parse("2006-01-02", filter.ToDate)
		if err != nil {
			return nil, 0, shared.NewDomainError("INVALID_DATE", "to_date must be YYYY-MM-DD")
		}
		domainFilter.ToDate = &to
	}

	journals, err := s.journalRepo.ListForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.journalRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]JournalResponse, len(journals))
	for i := range journals {
		responses[i] = *ToJournalResponse(&journals[i])
	}
	return responses, total, nil
}

// Update revises an unapproved manual journal. The period gate applies to
// both the old and the new date: a journal cannot be moved out of or into
// a locked period.
func (s *JournalService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateJournalRequest) (*JournalResponse, error) {
	journal, err := s.journalRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if err := s.checkPeriodOpen(ctx, tenantID, journal.Date); err != nil {
		return nil, err
	}
	if err := s.checkPeriodOpen(ctx, tenantID, req.Date); err != nil {
		return nil, err
	}

	if err := journal.Revise(req.Date, req.Memo, toDomainLines(req.Lines)); err != nil {
		return nil, err
	}
	if err := s.checkAccountsPostable(ctx, tenantID, journal.Lines); err != nil {
		return nil, err
	}

	if err := s.journalRepo.Update(ctx, journal); err != nil {
		return nil, err
	}
	return ToJournalResponse(journal), nil
}

// Delete removes an unapproved manual journal and its lines
func (s *JournalService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	journal, err := s.journalRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}

	if err := journal.CanMutate(); err != nil {
		return err
	}
	if err := s.checkPeriodOpen(ctx, tenantID, journal.Date); err != nil {
		return err
	}

	return s.journalRepo.Delete(ctx, tenantID, id)
}

// Approve transitions a journal to approved. The conditional update makes
// concurrent approvals race-safe; the loser of the race gets
// ALREADY_APPROVED, matching the single-writer semantics of the domain
// transition.
func (s *JournalService) Approve(ctx context.Context, tenantID, id uuid.UUID) (*JournalResponse, error) {
	journal, err := s.journalRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if journal.IsApproved {
		return nil, shared.NewDomainError("ALREADY_APPROVED", "Journal is already approved")
	}

	won, err := s.journalRepo.Approve(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if !won {
		return nil, shared.NewDomainError("ALREADY_APPROVED", "Journal is already approved")
	}

	approved, err := s.journalRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if s.eventBus != nil {
		_ = s.eventBus.Publish(ctx, ledger.NewJournalApprovedEvent(approved))
	}

	return ToJournalResponse(approved), nil
}
