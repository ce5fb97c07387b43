package banking

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/bookkeep/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RowDirection indicates the money flow of a bank row
type RowDirection string

const (
	DirectionIn  RowDirection = "IN"  // money received
	DirectionOut RowDirection = "OUT" // money paid out
)

// IsValid checks if the direction is valid
func (d RowDirection) IsValid() bool {
	return d == DirectionIn || d == DirectionOut
}

// String returns the string representation of RowDirection
func (d RowDirection) String() string {
	return string(d)
}

// BankStatement is an imported batch of external bank transactions.
// MatchedCount is a denormalized progress counter maintained by the
// reconciliation confirm path.
type BankStatement struct {
	shared.TenantAggregateRoot
	SourceAccount string    `json:"source_account"`
	ImportedAt    time.Time `json:"imported_at"`
	FileName      string    `json:"file_name"`
	RowCount      int       `json:"row_count"`
	MatchedCount  int       `json:"matched_count"`
}

// NewBankStatement creates a new statement shell before rows are staged
func NewBankStatement(tenantID uuid.UUID, sourceAccount, fileName string) (*BankStatement, error) {
	if sourceAccount == "" {
		return nil, shared.NewDomainError("INVALID_SOURCE_ACCOUNT", "Statement source account label cannot be empty")
	}
	return &BankStatement{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		SourceAccount:       sourceAccount,
		ImportedAt:          time.Now(),
		FileName:            fileName,
	}, nil
}

// BankRow is a single imported bank transaction. The amount is always
// stored positive; the flow is carried by Direction. ContentHash is the
// sole deduplication key within a tenant.
// State machine: unmatched -> matched (terminal, one-way).
type BankRow struct {
	shared.BaseEntity
	TenantID    uuid.UUID       `json:"tenant_id"`
	StatementID uuid.UUID       `json:"statement_id"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Direction   RowDirection    `json:"direction"`
	ContentHash string          `json:"content_hash"`
	Matched     bool            `json:"matched"`
	MatchedAt   *time.Time      `json:"matched_at"`
}

// NewBankRow creates a bank row with its content hash computed
func NewBankRow(
	tenantID, statementID uuid.UUID,
	date time.Time,
	description string,
	amount decimal.Decimal,
	direction RowDirection,
) (*BankRow, error) {
	if date.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "Bank row date cannot be empty")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Bank row amount must be positive")
	}
	if !direction.IsValid() {
		return nil, shared.NewDomainError("INVALID_DIRECTION", "Bank row direction is not valid")
	}

	return &BankRow{
		BaseEntity:  shared.NewBaseEntity(),
		TenantID:    tenantID,
		StatementID: statementID,
		Date:        date,
		Description: description,
		Amount:      amount,
		Direction:   direction,
		ContentHash: ContentHash(date, amount, description, direction),
	}, nil
}

// ContentHash computes the deterministic fingerprint of a bank row's
// economically meaningful fields: normalized calendar date, absolute
// amount, trimmed description and direction. Rows with equal hashes within
// a tenant are duplicates.
func ContentHash(date time.Time, amount decimal.Decimal, description string, direction RowDirection) string {
	canonical := fmt.Sprintf("%s|%s|%s|%s",
		date.Format("2006-01-02"),
		amount.Abs().String(),
		strings.TrimSpace(description),
		direction,
	)
	sum := sha256.Sum256([]byte(canonical))
	return hex.EncodeToString(sum[:])
}
