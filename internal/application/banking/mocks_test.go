package banking

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/bookkeep/backend/internal/domain/banking"
	"github.com/bookkeep/backend/internal/domain/billing"
	"github.com/bookkeep/backend/internal/domain/ledger"
)

// MockBankStatementRepository is a mock implementation of banking.BankStatementRepository
type MockBankStatementRepository struct {
	mock.Mock
}

func (m *MockBankStatementRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*banking.BankStatement, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*banking.BankStatement), args.Error(1)
}

func (m *MockBankStatementRepository) ListForTenant(ctx context.Context, tenantID uuid.UUID) ([]banking.BankStatement, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]banking.BankStatement), args.Error(1)
}

func (m *MockBankStatementRepository) Save(ctx context.Context, statement *banking.BankStatement) error {
	args := m.Called(ctx, statement)
	return args.Error(0)
}

func (m *MockBankStatementRepository) IncrementMatchedCount(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

// MockBankRowRepository is a mock implementation of banking.BankRowRepository
type MockBankRowRepository struct {
	mock.Mock
}

func (m *MockBankRowRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*banking.BankRow, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*banking.BankRow), args.Error(1)
}

func (m *MockBankRowRepository) ListByStatement(ctx context.Context, tenantID, statementID uuid.UUID) ([]banking.BankRow, error) {
	args := m.Called(ctx, tenantID, statementID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]banking.BankRow), args.Error(1)
}

func (m *MockBankRowRepository) ListUnmatchedByStatement(ctx context.Context, tenantID, statementID uuid.UUID) ([]banking.BankRow, error) {
	args := m.Called(ctx, tenantID, statementID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]banking.BankRow), args.Error(1)
}

func (m *MockBankRowRepository) ExistsByHash(ctx context.Context, tenantID uuid.UUID, hash string) (bool, error) {
	args := m.Called(ctx, tenantID, hash)
	return args.Bool(0), args.Error(1)
}

func (m *MockBankRowRepository) InsertBatch(ctx context.Context, rows []*banking.BankRow) (int, int, error) {
	args := m.Called(ctx, rows)
	return args.Int(0), args.Int(1), args.Error(2)
}

func (m *MockBankRowRepository) MarkMatched(ctx context.Context, tenantID, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID, id)
	return args.Bool(0), args.Error(1)
}

// MockOpenInvoiceRepository is a mock implementation of billing.OpenInvoiceRepository
type MockOpenInvoiceRepository struct {
	mock.Mock
}

func (m *MockOpenInvoiceRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*billing.OpenInvoice, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.OpenInvoice), args.Error(1)
}

func (m *MockOpenInvoiceRepository) ListOpen(ctx context.Context, tenantID uuid.UUID) ([]billing.OpenInvoice, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.OpenInvoice), args.Error(1)
}

func (m *MockOpenInvoiceRepository) Save(ctx context.Context, invoice *billing.OpenInvoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockOpenInvoiceRepository) Settle(ctx context.Context, tenantID, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID, id)
	return args.Bool(0), args.Error(1)
}

// MockOpenBillRepository is a mock implementation of billing.OpenBillRepository
type MockOpenBillRepository struct {
	mock.Mock
}

func (m *MockOpenBillRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*billing.OpenBill, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.OpenBill), args.Error(1)
}

func (m *MockOpenBillRepository) ListOpen(ctx context.Context, tenantID uuid.UUID) ([]billing.OpenBill, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.OpenBill), args.Error(1)
}

func (m *MockOpenBillRepository) Save(ctx context.Context, bill *billing.OpenBill) error {
	args := m.Called(ctx, bill)
	return args.Error(0)
}

func (m *MockOpenBillRepository) Settle(ctx context.Context, tenantID, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID, id)
	return args.Bool(0), args.Error(1)
}

// MockJournalRepository is a mock implementation of ledger.JournalRepository
type MockJournalRepository struct {
	mock.Mock
}

func (m *MockJournalRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ledger.Journal, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Journal), args.Error(1)
}

func (m *MockJournalRepository) FindBySource(ctx context.Context, tenantID uuid.UUID, sourceType ledger.JournalSourceType, sourceID uuid.UUID) (*ledger.Journal, error) {
	args := m.Called(ctx, tenantID, sourceType, sourceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Journal), args.Error(1)
}

func (m *MockJournalRepository) ExistsBySource(ctx context.Context, tenantID uuid.UUID, sourceType ledger.JournalSourceType, sourceID uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID, sourceType, sourceID)
	return args.Bool(0), args.Error(1)
}

func (m *MockJournalRepository) ListForTenant(ctx context.Context, tenantID uuid.UUID, filter ledger.JournalFilter) ([]ledger.Journal, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ledger.Journal), args.Error(1)
}

func (m *MockJournalRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter ledger.JournalFilter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockJournalRepository) Create(ctx context.Context, journal *ledger.Journal) error {
	args := m.Called(ctx, journal)
	return args.Error(0)
}

func (m *MockJournalRepository) Update(ctx context.Context, journal *ledger.Journal) error {
	args := m.Called(ctx, journal)
	return args.Error(0)
}

func (m *MockJournalRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockJournalRepository) Approve(ctx context.Context, tenantID, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID, id)
	return args.Bool(0), args.Error(1)
}

// MockAccountRepository is a mock implementation of ledger.AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ledger.Account, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Account), args.Error(1)
}

func (m *MockAccountRepository) FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*ledger.Account, error) {
	args := m.Called(ctx, tenantID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Account), args.Error(1)
}

func (m *MockAccountRepository) FindBySystemKey(ctx context.Context, tenantID uuid.UUID, systemKey string) (*ledger.Account, error) {
	args := m.Called(ctx, tenantID, systemKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Account), args.Error(1)
}

func (m *MockAccountRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]ledger.Account, error) {
	args := m.Called(ctx, tenantID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ledger.Account), args.Error(1)
}

func (m *MockAccountRepository) ListActive(ctx context.Context, tenantID uuid.UUID) ([]ledger.Account, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ledger.Account), args.Error(1)
}

func (m *MockAccountRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	args := m.Called(ctx, tenantID, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountRepository) IsReferenced(ctx context.Context, tenantID, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountRepository) Save(ctx context.Context, account *ledger.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

// MockAccountingPeriodRepository is a mock implementation of ledger.AccountingPeriodRepository
type MockAccountingPeriodRepository struct {
	mock.Mock
}

func (m *MockAccountingPeriodRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ledger.AccountingPeriod, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.AccountingPeriod), args.Error(1)
}

func (m *MockAccountingPeriodRepository) FindCovering(ctx context.Context, tenantID uuid.UUID, date time.Time) (*ledger.AccountingPeriod, error) {
	args := m.Called(ctx, tenantID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.AccountingPeriod), args.Error(1)
}

func (m *MockAccountingPeriodRepository) FindOverlapping(ctx context.Context, tenantID uuid.UUID, start, end time.Time) ([]ledger.AccountingPeriod, error) {
	args := m.Called(ctx, tenantID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ledger.AccountingPeriod), args.Error(1)
}

func (m *MockAccountingPeriodRepository) ListForTenant(ctx context.Context, tenantID uuid.UUID) ([]ledger.AccountingPeriod, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ledger.AccountingPeriod), args.Error(1)
}

func (m *MockAccountingPeriodRepository) Save(ctx context.Context, period *ledger.AccountingPeriod) error {
	args := m.Called(ctx, period)
	return args.Error(0)
}
