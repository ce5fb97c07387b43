package banking

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bookkeep/backend/internal/domain/banking"
	"github.com/bookkeep/backend/internal/domain/shared"
)

func requireDomainCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	domainErr, ok := err.(*shared.DomainError)
	require.True(t, ok, "expected a domain error, got %T", err)
	assert.Equal(t, code, domainErr.Code)
}

func headeredImport(fileName string) ImportRequest {
	return ImportRequest{SourceAccount: "Main account", FileName: fileName, HasHeader: true}
}

func TestStatementImport(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	newService := func(opts ImportOptions) (*StatementImportService, *MockBankStatementRepository, *MockBankRowRepository) {
		statementRepo := new(MockBankStatementRepository)
		rowRepo := new(MockBankRowRepository)
		svc := NewStatementImportService(statementRepo, rowRepo, opts, zap.NewNop())
		return svc, statementRepo, rowRepo
	}

	t.Run("imports a comma separated file with a signed amount column", func(t *testing.T) {
		svc, statementRepo, rowRepo := newService(ImportOptions{})
		statementRepo.On("Save", ctx, mock.AnythingOfType("*banking.BankStatement")).Return(nil)

		var staged []*banking.BankRow
		rowRepo.On("InsertBatch", ctx, mock.Anything).
			Run(func(args mock.Arguments) { staged = args.Get(1).([]*banking.BankRow) }).
			Return(2, 0, nil)

		file := strings.Join([]string{
			"date,description,amount",
			"2025-04-01,ACME CORP TRANSFER,33000",
			"2025-04-02,OFFICE RENT,-120000",
		}, "\n")

		result, err := svc.Import(ctx, tenantID, headeredImport("april.csv"), strings.NewReader(file))
		require.NoError(t, err)
		assert.Equal(t, 2, result.TotalRows)
		assert.Equal(t, 2, result.InsertedRows)
		assert.Zero(t, result.ErrorRows)

		require.Len(t, staged, 2)
		assert.Equal(t, banking.DirectionIn, staged[0].Direction)
		assert.True(t, staged[0].Amount.Equal(decimal.NewFromInt(33000)))
		assert.Equal(t, banking.DirectionOut, staged[1].Direction)
		assert.True(t, staged[1].Amount.Equal(decimal.NewFromInt(120000)))
		assert.Equal(t, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), staged[0].Date)
	})

	t.Run("imports a tab separated file with Japanese headers", func(t *testing.T) {
		svc, statementRepo, rowRepo := newService(ImportOptions{})
		statementRepo.On("Save", ctx, mock.AnythingOfType("*banking.BankStatement")).Return(nil)

		var staged []*banking.BankRow
		rowRepo.On("InsertBatch", ctx, mock.Anything).
			Run(func(args mock.Arguments) { staged = args.Get(1).([]*banking.BankRow) }).
			Return(2, 0, nil)

		file := strings.Join([]string{
			"取引日\t摘要\t入金額\t出金額",
			"2025/04/01\tフリコミ カ）アクメ\t33,000\t",
			"2025/04/02\tヤチン 4ガツブン\t\t¥120,000",
		}, "\n")

		result, err := svc.Import(ctx, tenantID, headeredImport("april.tsv"), strings.NewReader(file))
		require.NoError(t, err)
		assert.Equal(t, 2, result.TotalRows)
		assert.Zero(t, result.ErrorRows)

		require.Len(t, staged, 2)
		assert.Equal(t, banking.DirectionIn, staged[0].Direction)
		assert.True(t, staged[0].Amount.Equal(decimal.NewFromInt(33000)))
		assert.Equal(t, banking.DirectionOut, staged[1].Direction)
		assert.True(t, staged[1].Amount.Equal(decimal.NewFromInt(120000)))
	})

	t.Run("resolves the flow from a direction column", func(t *testing.T) {
		svc, statementRepo, rowRepo := newService(ImportOptions{})
		statementRepo.On("Save", ctx, mock.AnythingOfType("*banking.BankStatement")).Return(nil)

		var staged []*banking.BankRow
		rowRepo.On("InsertBatch", ctx, mock.Anything).
			Run(func(args mock.Arguments) { staged = args.Get(1).([]*banking.BankRow) }).
			Return(2, 0, nil)

		file := strings.Join([]string{
			"date,description,amount,direction",
			"2025-04-01,CLIENT PAYMENT,5000,入金",
			"2025-04-02,SUPPLIER PAYMENT,5000,出金",
		}, "\n")

		_, err := svc.Import(ctx, tenantID, headeredImport("april.csv"), strings.NewReader(file))
		require.NoError(t, err)
		require.Len(t, staged, 2)
		assert.Equal(t, banking.DirectionIn, staged[0].Direction)
		assert.Equal(t, banking.DirectionOut, staged[1].Direction)
	})

	t.Run("imports a headerless file with an explicit column mapping", func(t *testing.T) {
		svc, statementRepo, rowRepo := newService(ImportOptions{})
		statementRepo.On("Save", ctx, mock.AnythingOfType("*banking.BankStatement")).Return(nil)

		var staged []*banking.BankRow
		rowRepo.On("InsertBatch", ctx, mock.Anything).
			Run(func(args mock.Arguments) { staged = args.Get(1).([]*banking.BankRow) }).
			Return(2, 0, nil)

		file := strings.Join([]string{
			"2025-04-01,ACME CORP TRANSFER,33000",
			"2025-04-02,OFFICE RENT,-120000",
		}, "\n")

		req := ImportRequest{
			SourceAccount: "Main account",
			FileName:      "april.csv",
			HasHeader:     false,
			Mapping:       &ColumnMapping{Date: 0, Description: 1, Amount: 2, Direction: -1},
		}
		result, err := svc.Import(ctx, tenantID, req, strings.NewReader(file))
		require.NoError(t, err)
		assert.Equal(t, 2, result.TotalRows)
		assert.Zero(t, result.ErrorRows)

		require.Len(t, staged, 2)
		assert.Equal(t, banking.DirectionIn, staged[0].Direction)
		assert.Equal(t, banking.DirectionOut, staged[1].Direction)
		assert.Equal(t, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), staged[0].Date)
	})

	t.Run("an explicit mapping overrides unrecognized header names", func(t *testing.T) {
		svc, statementRepo, rowRepo := newService(ImportOptions{})
		statementRepo.On("Save", ctx, mock.AnythingOfType("*banking.BankStatement")).Return(nil)

		var staged []*banking.BankRow
		rowRepo.On("InsertBatch", ctx, mock.Anything).
			Run(func(args mock.Arguments) { staged = args.Get(1).([]*banking.BankRow) }).
			Return(1, 0, nil)

		file := strings.Join([]string{
			"buchungstag,verwendungszweck,betrag",
			"2025-04-01,ACME GMBH,33000",
		}, "\n")

		req := ImportRequest{
			SourceAccount: "Main account",
			FileName:      "april.csv",
			HasHeader:     true,
			Mapping:       &ColumnMapping{Date: 0, Description: 1, Amount: 2, Direction: -1},
		}
		result, err := svc.Import(ctx, tenantID, req, strings.NewReader(file))
		require.NoError(t, err)
		assert.Equal(t, 1, result.TotalRows)
		assert.Zero(t, result.ErrorRows)
		require.Len(t, staged, 1)
		assert.Equal(t, "ACME GMBH", staged[0].Description)
	})

	t.Run("headerless error rows report their file position", func(t *testing.T) {
		svc, statementRepo, rowRepo := newService(ImportOptions{})
		statementRepo.On("Save", ctx, mock.AnythingOfType("*banking.BankStatement")).Return(nil)
		rowRepo.On("InsertBatch", ctx, mock.Anything).Return(1, 0, nil)

		file := strings.Join([]string{
			"not-a-date,BAD ROW,100",
			"2025-04-02,GOOD ROW,200",
		}, "\n")

		req := ImportRequest{
			SourceAccount: "Main account",
			FileName:      "april.csv",
			HasHeader:     false,
			Mapping:       &ColumnMapping{Date: 0, Description: 1, Amount: 2, Direction: -1},
		}
		result, err := svc.Import(ctx, tenantID, req, strings.NewReader(file))
		require.NoError(t, err)
		assert.Equal(t, 2, result.TotalRows)
		assert.Equal(t, 1, result.ErrorRows)
		require.Len(t, result.Errors, 1)
		assert.Equal(t, 1, result.Errors[0].Row)
	})

	t.Run("rejects headerless files without a mapping", func(t *testing.T) {
		svc, statementRepo, _ := newService(ImportOptions{})

		file := "2025-04-01,ACME,100\n"
		req := ImportRequest{SourceAccount: "Main account", FileName: "april.csv", HasHeader: false}
		_, err := svc.Import(ctx, tenantID, req, strings.NewReader(file))
		requireDomainCode(t, err, "MALFORMED_FILE")
		statementRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects mappings missing required indices", func(t *testing.T) {
		svc, _, _ := newService(ImportOptions{})

		req := ImportRequest{
			SourceAccount: "Main account",
			FileName:      "april.csv",
			HasHeader:     false,
			Mapping:       &ColumnMapping{Date: 0, Description: -1, Amount: 2, Direction: -1},
		}
		_, err := svc.Import(ctx, tenantID, req, strings.NewReader("2025-04-01,ACME,100\n"))
		requireDomainCode(t, err, "MALFORMED_FILE")
	})

	t.Run("strips a UTF-8 BOM", func(t *testing.T) {
		svc, statementRepo, rowRepo := newService(ImportOptions{})
		statementRepo.On("Save", ctx, mock.AnythingOfType("*banking.BankStatement")).Return(nil)
		rowRepo.On("InsertBatch", ctx, mock.Anything).Return(1, 0, nil)

		file := "\xEF\xBB\xBFdate,description,amount\n2025-04-01,ACME,100\n"
		result, err := svc.Import(ctx, tenantID, headeredImport("april.csv"), strings.NewReader(file))
		require.NoError(t, err)
		assert.Equal(t, 1, result.TotalRows)
		assert.Zero(t, result.ErrorRows)
	})

	t.Run("samples bad rows without sinking the file", func(t *testing.T) {
		svc, statementRepo, rowRepo := newService(ImportOptions{})
		statementRepo.On("Save", ctx, mock.AnythingOfType("*banking.BankStatement")).Return(nil)

		var staged []*banking.BankRow
		rowRepo.On("InsertBatch", ctx, mock.Anything).
			Run(func(args mock.Arguments) { staged = args.Get(1).([]*banking.BankRow) }).
			Return(1, 0, nil)

		file := strings.Join([]string{
			"date,description,deposit,withdrawal",
			"2025-04-01,GOOD ROW,100,",
			"not-a-date,BAD DATE,100,",
			"2025-04-03,BOTH SIDES,100,200",
			"2025-04-04,NO AMOUNT,,",
		}, "\n")

		result, err := svc.Import(ctx, tenantID, headeredImport("april.csv"), strings.NewReader(file))
		require.NoError(t, err)
		assert.Equal(t, 4, result.TotalRows)
		assert.Equal(t, 1, result.InsertedRows)
		assert.Equal(t, 3, result.ErrorRows)
		require.Len(t, result.Errors, 3)
		assert.Equal(t, 3, result.Errors[0].Row)
		assert.Equal(t, 4, result.Errors[1].Row)
		assert.Equal(t, 5, result.Errors[2].Row)
		assert.False(t, result.IsTruncated)
		require.Len(t, staged, 1)
	})

	t.Run("caps error samples and flags truncation", func(t *testing.T) {
		svc, statementRepo, rowRepo := newService(ImportOptions{MaxErrorSamples: 2})
		statementRepo.On("Save", ctx, mock.AnythingOfType("*banking.BankStatement")).Return(nil)
		rowRepo.On("InsertBatch", ctx, mock.Anything).Return(0, 0, nil)

		file := strings.Join([]string{
			"date,description,amount",
			"bad,ROW 1,x",
			"bad,ROW 2,x",
			"bad,ROW 3,x",
		}, "\n")

		result, err := svc.Import(ctx, tenantID, headeredImport("april.csv"), strings.NewReader(file))
		require.NoError(t, err)
		assert.Equal(t, 3, result.ErrorRows)
		assert.Equal(t, 3, result.TotalErrors)
		assert.Len(t, result.Errors, 2)
		assert.True(t, result.IsTruncated)
	})

	t.Run("reports duplicates from re-imported files", func(t *testing.T) {
		svc, statementRepo, rowRepo := newService(ImportOptions{})
		statementRepo.On("Save", ctx, mock.AnythingOfType("*banking.BankStatement")).Return(nil)
		rowRepo.On("InsertBatch", ctx, mock.Anything).Return(1, 2, nil)

		file := strings.Join([]string{
			"date,description,amount",
			"2025-04-01,ROW A,100",
			"2025-04-02,ROW B,200",
			"2025-04-03,ROW C,300",
		}, "\n")

		result, err := svc.Import(ctx, tenantID, headeredImport("april.csv"), strings.NewReader(file))
		require.NoError(t, err)
		assert.Equal(t, 1, result.InsertedRows)
		assert.Equal(t, 2, result.DuplicateRows)
	})

	t.Run("rejects files without data rows", func(t *testing.T) {
		svc, statementRepo, _ := newService(ImportOptions{})

		_, err := svc.Import(ctx, tenantID, headeredImport("empty.csv"), strings.NewReader("date,description,amount\n"))
		requireDomainCode(t, err, "EMPTY_FILE")
		statementRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects files over the row limit", func(t *testing.T) {
		svc, _, _ := newService(ImportOptions{MaxRows: 2})

		file := strings.Join([]string{
			"date,description,amount",
			"2025-04-01,A,1",
			"2025-04-02,B,2",
			"2025-04-03,C,3",
		}, "\n")

		_, err := svc.Import(ctx, tenantID, headeredImport("big.csv"), strings.NewReader(file))
		requireDomainCode(t, err, "TOO_MANY_ROWS")
	})

	t.Run("rejects headers missing required columns", func(t *testing.T) {
		svc, _, _ := newService(ImportOptions{})

		file := "description,amount\nACME,100\n"
		_, err := svc.Import(ctx, tenantID, headeredImport("bad.csv"), strings.NewReader(file))
		requireDomainCode(t, err, "MALFORMED_FILE")
	})
}
