package ledger

import (
	"fmt"
	"time"

	"github.com/bookkeep/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// JournalSourceType identifies the origin of a journal
type JournalSourceType string

const (
	JournalSourceManual          JournalSourceType = "MANUAL"
	JournalSourceInvoice         JournalSourceType = "INVOICE"
	JournalSourcePayment         JournalSourceType = "PAYMENT"
	JournalSourceBankTransaction JournalSourceType = "BANK_TRANSACTION"
	JournalSourceFixedAsset      JournalSourceType = "FIXED_ASSET"
	JournalSourceExpense         JournalSourceType = "EXPENSE"
)

// IsValid checks if the source type is valid
func (s JournalSourceType) IsValid() bool {
	switch s {
	case JournalSourceManual, JournalSourceInvoice, JournalSourcePayment,
		JournalSourceBankTransaction, JournalSourceFixedAsset, JournalSourceExpense:
		return true
	}
	return false
}

// String returns the string representation of JournalSourceType
func (s JournalSourceType) String() string {
	return string(s)
}

// JournalLine is a single debit or credit posting against one account.
// A line expresses exactly one side: either debit or credit is positive,
// never both.
type JournalLine struct {
	ID          uuid.UUID       `json:"id"`
	JournalID   uuid.UUID       `json:"journal_id"`
	AccountID   uuid.UUID       `json:"account_id"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
	Department  string          `json:"department"`
	TaxRateID   *uuid.UUID      `json:"tax_rate_id"`
	LineNumber  int             `json:"line_number"`
}

// Validate checks a single line's invariants
func (l *JournalLine) Validate() error {
	if l.AccountID == uuid.Nil {
		return shared.NewDomainError("INVALID_ACCOUNT", "Journal line account cannot be empty")
	}
	if l.Debit.IsNegative() || l.Credit.IsNegative() {
		return shared.NewDomainError("NEGATIVE_AMOUNT", "Journal line amounts cannot be negative")
	}
	if l.Debit.IsZero() && l.Credit.IsZero() {
		return shared.NewDomainError("EMPTY_LINE", "Journal line must carry a debit or a credit")
	}
	if l.Debit.IsPositive() && l.Credit.IsPositive() {
		return shared.NewDomainError("TWO_SIDED_LINE", "Journal line cannot carry both a debit and a credit")
	}
	return nil
}

// NewJournalLine creates a line for the given account and side
func NewJournalLine(accountID uuid.UUID, debit, credit decimal.Decimal, description string) JournalLine {
	return JournalLine{
		ID:          uuid.New(),
		AccountID:   accountID,
		Debit:       debit,
		Credit:      credit,
		Description: description,
	}
}

// Journal is a balanced double-entry accounting record composed of ordered
// lines. Invariant: the sum of debits equals the sum of credits and is
// strictly positive. Lifecycle: created unapproved -> optionally approved
// (terminal, no further edits or deletes) -> never physically deleted once
// approved.
type Journal struct {
	shared.TenantAggregateRoot
	Date       time.Time         `json:"date"`
	Memo       string            `json:"memo"`
	SourceType JournalSourceType `json:"source_type"`
	SourceID   *uuid.UUID        `json:"source_id"`
	IsApproved bool              `json:"is_approved"`
	ApprovedAt *time.Time        `json:"approved_at"`
	Lines      []JournalLine     `json:"lines"`
}

// NewJournal creates a new unapproved journal, validating the balance
// invariant across the given lines.
func NewJournal(
	tenantID uuid.UUID,
	date time.Time,
	memo string,
	sourceType JournalSourceType,
	sourceID *uuid.UUID,
	lines []JournalLine,
) (*Journal, error) {
	if date.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "Journal date cannot be empty")
	}
	if !sourceType.IsValid() {
		return nil, shared.NewDomainError("INVALID_SOURCE_TYPE", "Journal source type is not valid")
	}
	if sourceType != JournalSourceManual && (sourceID == nil || *sourceID == uuid.Nil) {
		return nil, shared.NewDomainError("INVALID_SOURCE_ID", "Derived journals must reference their source document")
	}
	if err := validateLines(lines); err != nil {
		return nil, err
	}

	j := &Journal{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Date:                date,
		Memo:                memo,
		SourceType:          sourceType,
		SourceID:            sourceID,
		IsApproved:          false,
	}
	j.setLines(lines)

	j.AddDomainEvent(NewJournalCreatedEvent(j))

	return j, nil
}

// validateLines checks per-line invariants and the balance invariant
func validateLines(lines []JournalLine) error {
	if len(lines) == 0 {
		return shared.NewDomainError("NO_LINES", "Journal must have at least one line")
	}

	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for i := range lines {
		if err := lines[i].Validate(); err != nil {
			return err
		}
		totalDebit = totalDebit.Add(lines[i].Debit)
		totalCredit = totalCredit.Add(lines[i].Credit)
	}

	if !totalDebit.Equal(totalCredit) {
		return shared.NewDomainError("UNBALANCED",
			fmt.Sprintf("Journal is unbalanced: debits %s, credits %s",
				totalDebit.String(), totalCredit.String()))
	}
	if !totalDebit.IsPositive() {
		return shared.NewDomainError("ZERO_TOTAL", "Journal total must be greater than zero")
	}
	return nil
}

// setLines assigns line numbers and journal ownership
func (j *Journal) setLines(lines []JournalLine) {
	for i := range lines {
		if lines[i].ID == uuid.Nil {
			lines[i].ID = uuid.New()
		}
		lines[i].JournalID = j.ID
		lines[i].LineNumber = i + 1
	}
	j.Lines = lines
}

// TotalDebit returns the sum of all debit amounts
func (j *Journal) TotalDebit() decimal.Decimal {
	total := decimal.Zero
	for i := range j.Lines {
		total = total.Add(j.Lines[i].Debit)
	}
	return total
}

// TotalCredit returns the sum of all credit amounts
func (j *Journal) TotalCredit() decimal.Decimal {
	total := decimal.Zero
	for i := range j.Lines {
		total = total.Add(j.Lines[i].Credit)
	}
	return total
}

// IsBalanced returns true if debits equal credits and the total is positive
func (j *Journal) IsBalanced() bool {
	return j.TotalDebit().Equal(j.TotalCredit()) && j.TotalDebit().IsPositive()
}

// IsManual returns true if the journal was entered manually
func (j *Journal) IsManual() bool {
	return j.SourceType == JournalSourceManual
}

// CanMutate returns nil if the journal accepts edits or deletion via the
// manual path, otherwise the conflict reason.
func (j *Journal) CanMutate() error {
	if j.IsApproved {
		return shared.NewDomainError("ALREADY_APPROVED", "Approved journals cannot be modified or deleted")
	}
	if !j.IsManual() {
		return shared.NewDomainError("NOT_MANUAL",
			fmt.Sprintf("Journals with source %s cannot be modified via the manual path", j.SourceType))
	}
	return nil
}

// Revise replaces the journal's date, memo and full line set. Only
// unapproved manual journals may be revised; the balance invariant is
// re-validated against the new lines.
func (j *Journal) Revise(date time.Time, memo string, lines []JournalLine) error {
	if err := j.CanMutate(); err != nil {
		return err
	}
	if date.IsZero() {
		return shared.NewDomainError("INVALID_DATE", "Journal date cannot be empty")
	}
	if err := validateLines(lines); err != nil {
		return err
	}

	j.Date = date
	j.Memo = memo
	j.setLines(lines)
	j.UpdatedAt = time.Now()
	j.IncrementVersion()

	return nil
}

// Approve transitions the journal to approved (terminal). A second attempt
// reports ALREADY_APPROVED rather than repeating the effect.
func (j *Journal) Approve() error {
	if j.IsApproved {
		return shared.NewDomainError("ALREADY_APPROVED", "Journal is already approved")
	}
	now := time.Now()
	j.IsApproved = true
	j.ApprovedAt = &now
	j.UpdatedAt = now
	j.IncrementVersion()

	j.AddDomainEvent(NewJournalApprovedEvent(j))

	return nil
}
