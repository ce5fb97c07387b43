package banking

import (
	"sort"
	"strings"
	"time"

	"github.com/bookkeep/backend/internal/domain/billing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MatchTargetType identifies the kind of document a candidate points at
type MatchTargetType string

const (
	MatchTargetInvoice MatchTargetType = "INVOICE"
	MatchTargetBill    MatchTargetType = "BILL"
)

// IsValid checks if the target type is valid
func (t MatchTargetType) IsValid() bool {
	return t == MatchTargetInvoice || t == MatchTargetBill
}

// MatchCandidate is a scored pairing between one bank row and one open
// invoice or bill. Candidates are ephemeral: always recomputed from the
// persisted row and document state, never stored.
type MatchCandidate struct {
	BankRowID        uuid.UUID       `json:"bank_row_id"`
	TargetType       MatchTargetType `json:"target_type"`
	TargetID         uuid.UUID       `json:"target_id"`
	TargetNumber     string          `json:"target_number"`
	CounterpartyName string          `json:"counterparty_name"`
	TargetAmount     decimal.Decimal `json:"target_amount"`
	TargetDate       time.Time       `json:"target_date"`
	Score            int             `json:"score"`
	HighConfidence   bool            `json:"high_confidence"`
}

// ScoringWeights tunes the candidate score composition. The weights only
// establish a relative ranking; the threshold marks candidates worth
// surfacing prominently, but any candidate may be confirmed by a human.
type ScoringWeights struct {
	ExactAmount             int // awarded when row amount equals document total
	NameMatch               int // awarded when counterparty name appears in the row description
	DateProximityMax        int // awarded at zero day distance, decaying linearly
	DateProximityDecay      int // points lost per day of distance
	DateWindowDays          int // candidates outside the window get no date points
	HighConfidenceThreshold int
}

// DefaultScoringWeights returns the stock weight set: exact amount 100,
// name 50, date up to 30 with 6 points lost per day over a 5-day window,
// high confidence at 150.
func DefaultScoringWeights() ScoringWeights {
	return ScoringWeights{
		ExactAmount:             100,
		NameMatch:               50,
		DateProximityMax:        30,
		DateProximityDecay:      6,
		DateWindowDays:          5,
		HighConfidenceThreshold: 150,
	}
}

// Matcher scores open documents against unmatched bank rows. It is a pure
// domain service: no persistence, no side effects.
type Matcher struct {
	weights ScoringWeights
}

// NewMatcher creates a matcher with the given weights
func NewMatcher(weights ScoringWeights) *Matcher {
	return &Matcher{weights: weights}
}

// CandidatesForRow scores the given open documents against one bank row.
// Inbound rows are matched against invoices, outbound rows against bills.
// The result is ordered by descending score; an empty result is a valid
// terminal state, not an error.
func (m *Matcher) CandidatesForRow(
	row *BankRow,
	invoices []billing.OpenInvoice,
	bills []billing.OpenBill,
) []MatchCandidate {
	if row.Matched {
		return nil
	}

	var candidates []MatchCandidate
	switch row.Direction {
	case DirectionIn:
		for i := range invoices {
			inv := &invoices[i]
			if !inv.Open {
				continue
			}
			score := m.score(row, inv.CounterpartyName, inv.TotalAmount, inv.IssueDate, inv.DueDate)
			if score <= 0 {
				continue
			}
			candidates = append(candidates, MatchCandidate{
				BankRowID:        row.ID,
				TargetType:       MatchTargetInvoice,
				TargetID:         inv.ID,
				TargetNumber:     inv.Number,
				CounterpartyName: inv.CounterpartyName,
				TargetAmount:     inv.TotalAmount,
				TargetDate:       inv.IssueDate,
				Score:            score,
				HighConfidence:   score >= m.weights.HighConfidenceThreshold,
			})
		}
	case DirectionOut:
		for i := range bills {
			bill := &bills[i]
			if !bill.Open {
				continue
			}
			score := m.score(row, bill.CounterpartyName, bill.TotalAmount, bill.IssueDate, bill.DueDate)
			if score <= 0 {
				continue
			}
			candidates = append(candidates, MatchCandidate{
				BankRowID:        row.ID,
				TargetType:       MatchTargetBill,
				TargetID:         bill.ID,
				TargetNumber:     bill.Number,
				CounterpartyName: bill.CounterpartyName,
				TargetAmount:     bill.TotalAmount,
				TargetDate:       bill.IssueDate,
				Score:            score,
				HighConfidence:   score >= m.weights.HighConfidenceThreshold,
			})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	return candidates
}

// score composes the candidate score from amount equality, counterparty
// name presence in the description, and date proximity
func (m *Matcher) score(row *BankRow, counterpartyName string, amount decimal.Decimal, issueDate time.Time, dueDate *time.Time) int {
	score := 0

	if row.Amount.Equal(amount) {
		score += m.weights.ExactAmount
	}

	if counterpartyName != "" &&
		strings.Contains(normalizeName(row.Description), normalizeName(counterpartyName)) {
		score += m.weights.NameMatch
	}

	days := dayDistance(row.Date, issueDate)
	if dueDate != nil {
		if d := dayDistance(row.Date, *dueDate); d < days {
			days = d
		}
	}
	if days <= m.weights.DateWindowDays {
		pts := m.weights.DateProximityMax - days*m.weights.DateProximityDecay
		if pts > 0 {
			score += pts
		}
	}

	return score
}

// normalizeName folds case and trims for tolerant substring matching
func normalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// dayDistance returns the absolute whole-day distance between two dates
func dayDistance(a, b time.Time) int {
	d := a.Truncate(24 * time.Hour).Sub(b.Truncate(24 * time.Hour))
	if d < 0 {
		d = -d
	}
	return int(d.Hours() / 24)
}
