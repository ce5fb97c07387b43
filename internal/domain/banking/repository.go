package banking

import (
	"context"

	"github.com/google/uuid"
)

// BankStatementRepository defines persistence operations for statements
type BankStatementRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*BankStatement, error)
	ListForTenant(ctx context.Context, tenantID uuid.UUID) ([]BankStatement, error)
	Save(ctx context.Context, statement *BankStatement) error
	// IncrementMatchedCount bumps the denormalized matched counter
	IncrementMatchedCount(ctx context.Context, tenantID, id uuid.UUID) error
}

// BankRowRepository defines persistence operations for bank rows.
// The (tenant_id, content_hash) uniqueness constraint is the authoritative
// deduplication guard; InsertBatch reports hash conflicts as duplicates
// rather than errors.
type BankRowRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*BankRow, error)
	ListByStatement(ctx context.Context, tenantID, statementID uuid.UUID) ([]BankRow, error)
	ListUnmatchedByStatement(ctx context.Context, tenantID, statementID uuid.UUID) ([]BankRow, error)
	// ExistsByHash is a pre-insert optimization only; the unique index
	// remains the correctness guarantee under concurrent imports
	ExistsByHash(ctx context.Context, tenantID uuid.UUID, hash string) (bool, error)
	// InsertBatch inserts the rows one by one inside a transaction and
	// returns the number actually inserted and the number skipped as
	// duplicates (unique violations on the content hash)
	InsertBatch(ctx context.Context, rows []*BankRow) (inserted, duplicates int, err error)
	// MarkMatched performs a conditional update (matched = false -> true).
	// Returns false when the row was already matched.
	MarkMatched(ctx context.Context, tenantID, id uuid.UUID) (bool, error)
}
