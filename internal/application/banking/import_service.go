package banking

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/bookkeep/backend/internal/domain/banking"
	"github.com/bookkeep/backend/internal/domain/shared"
)

// ImportRowError describes one rejected row of an import file
type ImportRowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ImportResult summarizes one statement import. Rows rejected by parsing
// are skipped, not fatal: a single bad row never sinks the file.
type ImportResult struct {
	StatementID   uuid.UUID        `json:"statement_id"`
	TotalRows     int              `json:"total_rows"`
	InsertedRows  int              `json:"inserted_rows"`
	DuplicateRows int              `json:"duplicate_rows"`
	ErrorRows     int              `json:"error_rows"`
	Errors        []ImportRowError `json:"errors,omitempty"`
	IsTruncated   bool             `json:"is_truncated,omitempty"`
	TotalErrors   int              `json:"total_errors,omitempty"`
}

// ColumnMapping pins the record indices of a statement file. Direction is
// -1 when the file carries no direction column and the amount sign carries
// the flow.
type ColumnMapping struct {
	Date        int `json:"date"`
	Description int `json:"description"`
	Amount      int `json:"amount"`
	Direction   int `json:"direction"`
}

// ImportRequest describes one statement file. Files with recognized header
// names need only HasHeader; headerless exports and files with unrecognized
// column names carry an explicit Mapping.
type ImportRequest struct {
	SourceAccount string
	FileName      string
	HasHeader     bool
	Mapping       *ColumnMapping
}

// ImportOptions bounds a single import run
type ImportOptions struct {
	MaxErrorSamples int
	MaxRows         int
}

// DefaultImportOptions returns the stock import limits
func DefaultImportOptions() ImportOptions {
	return ImportOptions{
		MaxErrorSamples: 20,
		MaxRows:         10000,
	}
}

// StatementImportService parses bank statement exports (CSV or TSV) and
// stages their rows for reconciliation. Deduplication rides on the
// per-tenant content hash unique index: re-importing the same file, or a
// file overlapping a previous export window, inserts only the new rows.
type StatementImportService struct {
	statementRepo banking.BankStatementRepository
	rowRepo       banking.BankRowRepository
	opts          ImportOptions
	logger        *zap.Logger
}

// NewStatementImportService creates a new StatementImportService
func NewStatementImportService(
	statementRepo banking.BankStatementRepository,
	rowRepo banking.BankRowRepository,
	opts ImportOptions,
	logger *zap.Logger,
) *StatementImportService {
	if opts.MaxErrorSamples <= 0 {
		opts.MaxErrorSamples = DefaultImportOptions().MaxErrorSamples
	}
	if opts.MaxRows <= 0 {
		opts.MaxRows = DefaultImportOptions().MaxRows
	}
	return &StatementImportService{
		statementRepo: statementRepo,
		rowRepo:       rowRepo,
		opts:          opts,
		logger:        logger,
	}
}

// Import parses the statement file and stages its rows. The delimiter
// (comma or tab) is detected from the content; columns come from the
// explicit mapping when given, otherwise from the header row.
func (s *StatementImportService) Import(
	ctx context.Context,
	tenantID uuid.UUID,
	req ImportRequest,
	reader io.Reader,
) (*ImportResult, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read statement file: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF}) // UTF-8 BOM

	records, err := parseRecords(data)
	if err != nil {
		return nil, err
	}

	dataStart := 0
	if req.HasHeader {
		dataStart = 1
	}
	if len(records) <= dataStart {
		return nil, shared.NewDomainError("EMPTY_FILE", "Statement file has no data rows")
	}
	if len(records)-dataStart > s.opts.MaxRows {
		return nil, shared.NewDomainError("TOO_MANY_ROWS",
			fmt.Sprintf("Statement file exceeds the %d row limit", s.opts.MaxRows))
	}

	layout, err := resolveLayout(req, records)
	if err != nil {
		return nil, err
	}

	statement, err := banking.NewBankStatement(tenantID, req.SourceAccount, req.FileName)
	if err != nil {
		return nil, err
	}
	if err := s.statementRepo.Save(ctx, statement); err != nil {
		return nil, err
	}

	result := &ImportResult{
		StatementID: statement.ID,
		TotalRows:   len(records) - dataStart,
	}

	var rows []*banking.BankRow
	for i, record := range records[dataStart:] {
		rowNum := i + dataStart + 1 // 1-based file position
		row, parseErr := s.parseRow(tenantID, statement.ID, layout, record)
		if parseErr != nil {
			result.ErrorRows++
			result.TotalErrors++
			if len(result.Errors) < s.opts.MaxErrorSamples {
				result.Errors = append(result.Errors, ImportRowError{Row: rowNum, Message: parseErr.Error()})
			} else {
				result.IsTruncated = true
			}
			continue
		}
		rows = append(rows, row)
	}

	inserted, duplicates, err := s.rowRepo.InsertBatch(ctx, rows)
	result.InsertedRows = inserted
	result.DuplicateRows = duplicates
	if err != nil {
		return result, err
	}

	statement.RowCount = inserted
	if err := s.statementRepo.Save(ctx, statement); err != nil {
		return result, err
	}

	s.logger.Info("bank statement imported",
		zap.String("statement_id", statement.ID.String()),
		zap.String("file_name", req.FileName),
		zap.Int("total_rows", result.TotalRows),
		zap.Int("inserted", result.InsertedRows),
		zap.Int("duplicates", result.DuplicateRows),
		zap.Int("errors", result.ErrorRows),
	)

	return result, nil
}

// columnLayout maps header names to record indices. Either a single signed
// or direction-qualified amount column, or separate deposit/withdrawal
// columns.
type columnLayout struct {
	date        int
	description int
	amount      int
	direction   int
	deposit     int
	withdrawal  int
}

// parseRecords detects the delimiter and parses the whole file
func parseRecords(data []byte) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = detectDelimiter(data)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, shared.NewDomainError("MALFORMED_FILE",
			fmt.Sprintf("Statement file cannot be parsed: %v", err))
	}
	return records, nil
}

// detectDelimiter picks tab over comma when the first line carries tabs.
// Bank exports are either plain CSV or TSV; the first line decides.
func detectDelimiter(data []byte) rune {
	line := data
	if idx := bytes.IndexByte(data, '\n'); idx >= 0 {
		line = data[:idx]
	}
	if bytes.ContainsRune(line, '\t') {
		return '\t'
	}
	return ','
}

// resolveLayout picks the column layout: an explicit mapping wins, a header
// row is the convenience path, and a headerless file without a mapping
// cannot be interpreted.
func resolveLayout(req ImportRequest, records [][]string) (*columnLayout, error) {
	if req.Mapping != nil {
		return layoutFromMapping(req.Mapping)
	}
	if req.HasHeader {
		return mapHeader(records[0])
	}
	return nil, shared.NewDomainError("MALFORMED_FILE",
		"Headerless statement files need an explicit column mapping")
}

// layoutFromMapping builds the layout from caller-supplied indices
func layoutFromMapping(m *ColumnMapping) (*columnLayout, error) {
	if m.Date < 0 || m.Description < 0 || m.Amount < 0 {
		return nil, shared.NewDomainError("MALFORMED_FILE",
			"Column mapping needs date, description and amount indices")
	}
	direction := m.Direction
	if direction < 0 {
		direction = -1
	}
	return &columnLayout{
		date:        m.Date,
		description: m.Description,
		amount:      m.Amount,
		direction:   direction,
		deposit:     -1,
		withdrawal:  -1,
	}, nil
}

// mapHeader resolves the column layout from the header row
func mapHeader(header []string) (*columnLayout, error) {
	layout := &columnLayout{date: -1, description: -1, amount: -1, direction: -1, deposit: -1, withdrawal: -1}
	for i, name := range header {
		switch normalizeHeader(name) {
		case "date", "transaction_date", "取引日", "日付":
			layout.date = i
		case "description", "memo", "detail", "摘要", "内容":
			layout.description = i
		case "amount", "金額":
			layout.amount = i
		case "direction", "type", "区分":
			layout.direction = i
		case "deposit", "credit", "in", "入金", "入金額":
			layout.deposit = i
		case "withdrawal", "debit", "out", "出金", "出金額":
			layout.withdrawal = i
		}
	}

	if layout.date < 0 || layout.description < 0 {
		return nil, shared.NewDomainError("MALFORMED_FILE", "Statement header is missing the date or description column")
	}
	if layout.amount < 0 && (layout.deposit < 0 || layout.withdrawal < 0) {
		return nil, shared.NewDomainError("MALFORMED_FILE",
			"Statement header needs an amount column or deposit and withdrawal columns")
	}
	return layout, nil
}

// normalizeHeader folds case, surrounding space and inner spaces
func normalizeHeader(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	return strings.ReplaceAll(s, " ", "_")
}

// parseRow converts one record to a domain bank row
func (s *StatementImportService) parseRow(
	tenantID, statementID uuid.UUID,
	layout *columnLayout,
	record []string,
) (*banking.BankRow, error) {
	if layout.date >= len(record) || layout.description >= len(record) {
		return nil, fmt.Errorf("row has too few columns")
	}

	date, err := parseDate(record[layout.date])
	if err != nil {
		return nil, err
	}
	description := strings.TrimSpace(record[layout.description])

	amount, direction, err := parseAmount(layout, record)
	if err != nil {
		return nil, err
	}

	return banking.NewBankRow(tenantID, statementID, date, description, amount, direction)
}

// dateLayouts covers the formats seen across bank exports
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"2006/1/2",
	"2006.01.02",
	"20060102",
	"2006年1月2日",
}

// parseDate tries each known layout in order
func parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", value)
}

// parseAmount resolves the amount and direction from either layout variant
func parseAmount(layout *columnLayout, record []string) (decimal.Decimal, banking.RowDirection, error) {
	if layout.amount >= 0 {
		if layout.amount >= len(record) {
			return decimal.Zero, "", fmt.Errorf("row has too few columns")
		}
		amount, err := parseDecimal(record[layout.amount])
		if err != nil {
			return decimal.Zero, "", err
		}

		if layout.direction >= 0 && layout.direction < len(record) {
			direction, err := parseDirection(record[layout.direction])
			if err != nil {
				return decimal.Zero, "", err
			}
			return amount.Abs(), direction, nil
		}

		// No direction column: the sign carries the flow
		if amount.IsNegative() {
			return amount.Abs(), banking.DirectionOut, nil
		}
		return amount, banking.DirectionIn, nil
	}

	var depositRaw, withdrawalRaw string
	if layout.deposit < len(record) {
		depositRaw = strings.TrimSpace(record[layout.deposit])
	}
	if layout.withdrawal < len(record) {
		withdrawalRaw = strings.TrimSpace(record[layout.withdrawal])
	}

	switch {
	case depositRaw != "" && withdrawalRaw != "":
		return decimal.Zero, "", fmt.Errorf("row carries both a deposit and a withdrawal amount")
	case depositRaw != "":
		amount, err := parseDecimal(depositRaw)
		if err != nil {
			return decimal.Zero, "", err
		}
		return amount, banking.DirectionIn, nil
	case withdrawalRaw != "":
		amount, err := parseDecimal(withdrawalRaw)
		if err != nil {
			return decimal.Zero, "", err
		}
		return amount, banking.DirectionOut, nil
	default:
		return decimal.Zero, "", fmt.Errorf("row carries neither a deposit nor a withdrawal amount")
	}
}

// parseDecimal strips currency symbols and thousands separators
func parseDecimal(value string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(value)
	cleaned = strings.NewReplacer(",", "", "¥", "", "￥", "", " ", "").Replace(cleaned)
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}
	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("unrecognized amount %q", value)
	}
	return amount, nil
}

// parseDirection folds the direction vocabulary seen across bank exports
func parseDirection(value string) (banking.RowDirection, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "in", "credit", "deposit", "cr", "入金":
		return banking.DirectionIn, nil
	case "out", "debit", "withdrawal", "dr", "出金":
		return banking.DirectionOut, nil
	default:
		return "", fmt.Errorf("unrecognized direction %q", value)
	}
}
