package ledger

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookkeep/backend/internal/domain/shared"
)

func balancedLines(amount decimal.Decimal) []JournalLine {
	return []JournalLine{
		NewJournalLine(uuid.New(), amount, decimal.Zero, "debit side"),
		NewJournalLine(uuid.New(), decimal.Zero, amount, "credit side"),
	}
}

func domainCode(t *testing.T, err error) string {
	t.Helper()
	domainErr, ok := err.(*shared.DomainError)
	require.True(t, ok, "expected a domain error, got %T", err)
	return domainErr.Code
}

func TestNewJournal(t *testing.T) {
	tenantID := uuid.New()
	date := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)

	t.Run("creates a balanced manual journal", func(t *testing.T) {
		journal, err := NewJournal(tenantID, date, "office rent", JournalSourceManual, nil, balancedLines(decimal.NewFromInt(1000)))
		require.NoError(t, err)
		require.NotNil(t, journal)

		assert.Equal(t, tenantID, journal.TenantID)
		assert.False(t, journal.IsApproved)
		assert.True(t, journal.IsBalanced())
		assert.True(t, journal.IsManual())
		assert.Len(t, journal.Lines, 2)
		assert.Equal(t, 1, journal.Lines[0].LineNumber)
		assert.Equal(t, 2, journal.Lines[1].LineNumber)
		assert.Equal(t, journal.ID, journal.Lines[0].JournalID)
		assert.Len(t, journal.GetDomainEvents(), 1)
	})

	t.Run("rejects unbalanced lines", func(t *testing.T) {
		lines := []JournalLine{
			NewJournalLine(uuid.New(), decimal.NewFromInt(100), decimal.Zero, ""),
			NewJournalLine(uuid.New(), decimal.Zero, decimal.NewFromInt(90), ""),
		}
		_, err := NewJournal(tenantID, date, "", JournalSourceManual, nil, lines)
		require.Error(t, err)
		assert.Equal(t, "UNBALANCED", domainCode(t, err))
	})

	t.Run("rejects a line with no amounts", func(t *testing.T) {
		lines := []JournalLine{
			NewJournalLine(uuid.New(), decimal.Zero, decimal.Zero, ""),
		}
		_, err := NewJournal(tenantID, date, "", JournalSourceManual, nil, lines)
		require.Error(t, err)
		assert.Equal(t, "EMPTY_LINE", domainCode(t, err))
	})

	t.Run("rejects a two sided line", func(t *testing.T) {
		lines := []JournalLine{
			NewJournalLine(uuid.New(), decimal.NewFromInt(50), decimal.NewFromInt(50), ""),
		}
		_, err := NewJournal(tenantID, date, "", JournalSourceManual, nil, lines)
		require.Error(t, err)
		assert.Equal(t, "TWO_SIDED_LINE", domainCode(t, err))
	})

	t.Run("rejects negative amounts", func(t *testing.T) {
		lines := []JournalLine{
			NewJournalLine(uuid.New(), decimal.NewFromInt(-10), decimal.Zero, ""),
			NewJournalLine(uuid.New(), decimal.Zero, decimal.NewFromInt(-10), ""),
		}
		_, err := NewJournal(tenantID, date, "", JournalSourceManual, nil, lines)
		require.Error(t, err)
		assert.Equal(t, "NEGATIVE_AMOUNT", domainCode(t, err))
	})

	t.Run("rejects empty line set", func(t *testing.T) {
		_, err := NewJournal(tenantID, date, "", JournalSourceManual, nil, nil)
		require.Error(t, err)
		assert.Equal(t, "NO_LINES", domainCode(t, err))
	})

	t.Run("rejects zero date", func(t *testing.T) {
		_, err := NewJournal(tenantID, time.Time{}, "", JournalSourceManual, nil, balancedLines(decimal.NewFromInt(1)))
		require.Error(t, err)
		assert.Equal(t, "INVALID_DATE", domainCode(t, err))
	})

	t.Run("derived journals must carry a source ID", func(t *testing.T) {
		_, err := NewJournal(tenantID, date, "", JournalSourceInvoice, nil, balancedLines(decimal.NewFromInt(1)))
		require.Error(t, err)
		assert.Equal(t, "INVALID_SOURCE_ID", domainCode(t, err))
	})

	t.Run("accepts a derived journal with source ID", func(t *testing.T) {
		sourceID := uuid.New()
		journal, err := NewJournal(tenantID, date, "", JournalSourceInvoice, &sourceID, balancedLines(decimal.NewFromInt(1)))
		require.NoError(t, err)
		assert.Equal(t, JournalSourceInvoice, journal.SourceType)
		assert.Equal(t, sourceID, *journal.SourceID)
	})
}

func TestJournalApprove(t *testing.T) {
	tenantID := uuid.New()
	date := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)

	t.Run("approve is one way", func(t *testing.T) {
		journal, err := NewJournal(tenantID, date, "", JournalSourceManual, nil, balancedLines(decimal.NewFromInt(500)))
		require.NoError(t, err)

		require.NoError(t, journal.Approve())
		assert.True(t, journal.IsApproved)
		assert.NotNil(t, journal.ApprovedAt)

		err = journal.Approve()
		require.Error(t, err)
		assert.Equal(t, "ALREADY_APPROVED", domainCode(t, err))
	})

	t.Run("approved journals reject mutation", func(t *testing.T) {
		journal, err := NewJournal(tenantID, date, "", JournalSourceManual, nil, balancedLines(decimal.NewFromInt(500)))
		require.NoError(t, err)
		require.NoError(t, journal.Approve())

		err = journal.CanMutate()
		require.Error(t, err)
		assert.Equal(t, "ALREADY_APPROVED", domainCode(t, err))
	})
}

func TestJournalRevise(t *testing.T) {
	tenantID := uuid.New()
	date := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)

	t.Run("replaces the full line set", func(t *testing.T) {
		journal, err := NewJournal(tenantID, date, "before", JournalSourceManual, nil, balancedLines(decimal.NewFromInt(100)))
		require.NoError(t, err)
		originalVersion := journal.Version

		newDate := date.AddDate(0, 0, 3)
		newLines := []JournalLine{
			NewJournalLine(uuid.New(), decimal.NewFromInt(70), decimal.Zero, ""),
			NewJournalLine(uuid.New(), decimal.NewFromInt(30), decimal.Zero, ""),
			NewJournalLine(uuid.New(), decimal.Zero, decimal.NewFromInt(100), ""),
		}
		require.NoError(t, journal.Revise(newDate, "after", newLines))

		assert.Equal(t, "after", journal.Memo)
		assert.Equal(t, newDate, journal.Date)
		assert.Len(t, journal.Lines, 3)
		assert.Equal(t, 3, journal.Lines[2].LineNumber)
		assert.Greater(t, journal.Version, originalVersion)
	})

	t.Run("rejects unbalanced replacement", func(t *testing.T) {
		journal, err := NewJournal(tenantID, date, "", JournalSourceManual, nil, balancedLines(decimal.NewFromInt(100)))
		require.NoError(t, err)

		badLines := []JournalLine{
			NewJournalLine(uuid.New(), decimal.NewFromInt(1), decimal.Zero, ""),
			NewJournalLine(uuid.New(), decimal.Zero, decimal.NewFromInt(2), ""),
		}
		err = journal.Revise(date, "", badLines)
		require.Error(t, err)
		assert.Equal(t, "UNBALANCED", domainCode(t, err))
		// Original lines untouched
		assert.Len(t, journal.Lines, 2)
		assert.True(t, journal.IsBalanced())
	})

	t.Run("derived journals cannot be revised", func(t *testing.T) {
		sourceID := uuid.New()
		journal, err := NewJournal(tenantID, date, "", JournalSourceBankTransaction, &sourceID, balancedLines(decimal.NewFromInt(100)))
		require.NoError(t, err)

		err = journal.Revise(date, "", balancedLines(decimal.NewFromInt(200)))
		require.Error(t, err)
		assert.Equal(t, "NOT_MANUAL", domainCode(t, err))
	})
}

func TestJournalSourceType(t *testing.T) {
	t.Run("IsValid accepts known sources", func(t *testing.T) {
		for _, s := range []JournalSourceType{
			JournalSourceManual, JournalSourceInvoice, JournalSourcePayment,
			JournalSourceBankTransaction, JournalSourceFixedAsset, JournalSourceExpense,
		} {
			assert.True(t, s.IsValid(), "expected %s to be valid", s)
		}
	})

	t.Run("IsValid rejects unknown sources", func(t *testing.T) {
		assert.False(t, JournalSourceType("CARRIER_PIGEON").IsValid())
	})
}
