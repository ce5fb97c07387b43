package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bookkeep/backend/internal/domain/billing"
	"github.com/bookkeep/backend/internal/domain/ledger"
	"github.com/bookkeep/backend/internal/domain/shared"
)

func systemAccount(t *testing.T, tenantID uuid.UUID, code, systemKey string, accountType ledger.AccountType) *ledger.Account {
	t.Helper()
	account, err := ledger.NewAccount(tenantID, code, "Account "+code, accountType, ledger.TaxCategoryNonTaxable, nil)
	require.NoError(t, err)
	account.SystemKey = systemKey
	account.ClearDomainEvents()
	return account
}

func TestInvoiceSentHandler(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	invoiceID := uuid.New()
	issueDate := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	amount := decimal.NewFromInt(33000)

	sentEvent := func() *billing.InvoiceSentEvent {
		return billing.NewInvoiceSentEvent(
			tenantID, invoiceID, "INV-2025-001", "Acme Corp",
			amount, issueDate,
			billing.InvoiceStatusPending, billing.InvoiceStatusSent,
		)
	}

	newHandler := func() (*InvoiceSentHandler, *MockJournalRepository, *MockAccountRepository, *MockAccountingPeriodRepository, *MockOpenInvoiceRepository) {
		journalRepo := new(MockJournalRepository)
		accountRepo := new(MockAccountRepository)
		periodRepo := new(MockAccountingPeriodRepository)
		invoiceRepo := new(MockOpenInvoiceRepository)
		svc := NewJournalService(journalRepo, accountRepo, periodRepo, nil)
		h := NewInvoiceSentHandler(svc, journalRepo, accountRepo, invoiceRepo, zap.NewNop())
		return h, journalRepo, accountRepo, periodRepo, invoiceRepo
	}

	t.Run("posts the revenue journal and registers the open invoice", func(t *testing.T) {
		h, journalRepo, accountRepo, periodRepo, invoiceRepo := newHandler()
		receivable := systemAccount(t, tenantID, "1200", ledger.SystemKeyAccountsReceivable, ledger.AccountTypeAsset)
		revenue := systemAccount(t, tenantID, "4000", ledger.SystemKeySalesRevenue, ledger.AccountTypeRevenue)

		journalRepo.On("ExistsBySource", ctx, tenantID, ledger.JournalSourceInvoice, invoiceID).Return(false, nil)
		accountRepo.On("FindBySystemKey", ctx, tenantID, ledger.SystemKeyAccountsReceivable).Return(receivable, nil)
		accountRepo.On("FindBySystemKey", ctx, tenantID, ledger.SystemKeySalesRevenue).Return(revenue, nil)
		periodRepo.On("FindCovering", ctx, tenantID, issueDate).Return(nil, shared.ErrNotFound)
		accountRepo.On("FindByIDs", ctx, tenantID, mock.Anything).
			Return([]ledger.Account{*receivable, *revenue}, nil)

		var created *ledger.Journal
		journalRepo.On("Create", ctx, mock.AnythingOfType("*ledger.Journal")).
			Run(func(args mock.Arguments) { created = args.Get(1).(*ledger.Journal) }).
			Return(nil)
		invoiceRepo.On("Save", ctx, mock.AnythingOfType("*billing.OpenInvoice")).Return(nil)

		require.NoError(t, h.Handle(ctx, sentEvent()))

		require.NotNil(t, created)
		assert.Equal(t, ledger.JournalSourceInvoice, created.SourceType)
		assert.Equal(t, invoiceID, *created.SourceID)
		require.Len(t, created.Lines, 2)
		assert.Equal(t, receivable.ID, created.Lines[0].AccountID)
		assert.True(t, created.Lines[0].Debit.Equal(amount))
		assert.Equal(t, revenue.ID, created.Lines[1].AccountID)
		assert.True(t, created.Lines[1].Credit.Equal(amount))

		invoiceRepo.AssertCalled(t, "Save", ctx, mock.MatchedBy(func(inv *billing.OpenInvoice) bool {
			return inv.ID == invoiceID && inv.Open
		}))
	})

	t.Run("skips when a journal already exists for the invoice", func(t *testing.T) {
		h, journalRepo, accountRepo, _, invoiceRepo := newHandler()

		journalRepo.On("ExistsBySource", ctx, tenantID, ledger.JournalSourceInvoice, invoiceID).Return(true, nil)

		require.NoError(t, h.Handle(ctx, sentEvent()))
		journalRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		accountRepo.AssertNotCalled(t, "FindBySystemKey", mock.Anything, mock.Anything, mock.Anything)
		invoiceRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("skips events without a pending to sent transition", func(t *testing.T) {
		h, journalRepo, _, _, _ := newHandler()

		replayed := billing.NewInvoiceSentEvent(
			tenantID, invoiceID, "INV-2025-001", "Acme Corp",
			amount, issueDate,
			billing.InvoiceStatusSent, billing.InvoiceStatusSent,
		)
		require.NoError(t, h.Handle(ctx, replayed))
		journalRepo.AssertNotCalled(t, "ExistsBySource", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("tolerates an already registered open invoice", func(t *testing.T) {
		h, journalRepo, accountRepo, periodRepo, invoiceRepo := newHandler()
		receivable := systemAccount(t, tenantID, "1200", ledger.SystemKeyAccountsReceivable, ledger.AccountTypeAsset)
		revenue := systemAccount(t, tenantID, "4000", ledger.SystemKeySalesRevenue, ledger.AccountTypeRevenue)

		journalRepo.On("ExistsBySource", ctx, tenantID, ledger.JournalSourceInvoice, invoiceID).Return(false, nil)
		accountRepo.On("FindBySystemKey", ctx, tenantID, ledger.SystemKeyAccountsReceivable).Return(receivable, nil)
		accountRepo.On("FindBySystemKey", ctx, tenantID, ledger.SystemKeySalesRevenue).Return(revenue, nil)
		periodRepo.On("FindCovering", ctx, tenantID, issueDate).Return(nil, shared.ErrNotFound)
		accountRepo.On("FindByIDs", ctx, tenantID, mock.Anything).
			Return([]ledger.Account{*receivable, *revenue}, nil)
		journalRepo.On("Create", ctx, mock.AnythingOfType("*ledger.Journal")).Return(nil)
		invoiceRepo.On("Save", ctx, mock.AnythingOfType("*billing.OpenInvoice")).Return(shared.ErrAlreadyExists)

		require.NoError(t, h.Handle(ctx, sentEvent()))
	})

	t.Run("rejects foreign event types", func(t *testing.T) {
		h, _, _, _, _ := newHandler()

		paid := billing.NewInvoicePaidEvent(
			tenantID, invoiceID, "INV-2025-001", "Acme Corp",
			amount, issueDate,
			billing.InvoiceStatusSent, billing.InvoiceStatusPaid,
		)
		assert.Error(t, h.Handle(ctx, paid))
	})
}
