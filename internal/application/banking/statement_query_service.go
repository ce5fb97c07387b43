package banking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/bookkeep/backend/internal/domain/banking"
)

// StatementResponse represents an imported statement in API responses
type StatementResponse struct {
	ID            uuid.UUID `json:"id"`
	SourceAccount string    `json:"source_account"`
	FileName      string    `json:"file_name"`
	ImportedAt    time.Time `json:"imported_at"`
	RowCount      int       `json:"row_count"`
	MatchedCount  int       `json:"matched_count"`
	CreatedAt     time.Time `json:"created_at"`
}

// ToStatementResponse maps a domain statement to its API representation
func ToStatementResponse(s *banking.BankStatement) *StatementResponse {
	return &StatementResponse{
		ID:            s.ID,
		SourceAccount: s.SourceAccount,
		FileName:      s.FileName,
		ImportedAt:    s.ImportedAt,
		RowCount:      s.RowCount,
		MatchedCount:  s.MatchedCount,
		CreatedAt:     s.CreatedAt,
	}
}

// StatementQueryService serves read access to imported statements and rows
type StatementQueryService struct {
	statementRepo banking.BankStatementRepository
	rowRepo       banking.BankRowRepository
}

// NewStatementQueryService creates a new StatementQueryService
func NewStatementQueryService(
	statementRepo banking.BankStatementRepository,
	rowRepo banking.BankRowRepository,
) *StatementQueryService {
	return &StatementQueryService{
		statementRepo: statementRepo,
		rowRepo:       rowRepo,
	}
}

// List lists the tenant's imported statements, newest first
func (s *StatementQueryService) List(ctx context.Context, tenantID uuid.UUID) ([]StatementResponse, error) {
	statements, err := s.statementRepo.ListForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	responses := make([]StatementResponse, len(statements))
	for i := range statements {
		responses[i] = *ToStatementResponse(&statements[i])
	}
	return responses, nil
}

// GetByID retrieves one statement
func (s *StatementQueryService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*StatementResponse, error) {
	statement, err := s.statementRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return ToStatementResponse(statement), nil
}

// Rows lists the rows of a statement. With unmatchedOnly set, rows already
// reconciled are filtered out.
func (s *StatementQueryService) Rows(ctx context.Context, tenantID, statementID uuid.UUID, unmatchedOnly bool) ([]BankRowResponse, error) {
	if _, err := s.statementRepo.FindByIDForTenant(ctx, tenantID, statementID); err != nil {
		return nil, err
	}

	var (
		rows []banking.BankRow
		err  error
	)
	if unmatchedOnly {
		rows, err = s.rowRepo.ListUnmatchedByStatement(ctx, tenantID, statementID)
	} else {
		rows, err = s.rowRepo.ListByStatement(ctx, tenantID, statementID)
	}
	if err != nil {
		return nil, err
	}

	responses := make([]BankRowResponse, len(rows))
	for i := range rows {
		responses[i] = *ToBankRowResponse(&rows[i])
	}
	return responses, nil
}
