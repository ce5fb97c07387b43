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

func TestExpenseReimbursedHandler(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	claimID := uuid.New()
	reimbursedDate := time.Date(2025, 7, 20, 0, 0, 0, 0, time.UTC)
	travelAccountID := uuid.New()
	suppliesAccountID := uuid.New()

	claimEvent := func() *billing.ExpenseReimbursedEvent {
		return billing.NewExpenseReimbursedEvent(
			tenantID, claimID, "EXP-2025-014", "Yamada Taro",
			[]billing.ExpenseClaimLine{
				{AccountID: travelAccountID, Amount: decimal.NewFromInt(12000), Memo: "client visit"},
				{AccountID: suppliesAccountID, Amount: decimal.NewFromInt(3500), Memo: "stationery"},
			},
			reimbursedDate,
			billing.ExpenseStatusApproved, billing.ExpenseStatusReimbursed,
		)
	}

	newHandler := func(enabled bool) (*ExpenseReimbursedHandler, *MockJournalRepository, *MockAccountRepository, *MockAccountingPeriodRepository) {
		journalRepo := new(MockJournalRepository)
		accountRepo := new(MockAccountRepository)
		periodRepo := new(MockAccountingPeriodRepository)
		svc := NewJournalService(journalRepo, accountRepo, periodRepo, nil)
		h := NewExpenseReimbursedHandler(svc, journalRepo, accountRepo, enabled, zap.NewNop())
		return h, journalRepo, accountRepo, periodRepo
	}

	t.Run("posts one debit per claim line group and credits bank for the total", func(t *testing.T) {
		h, journalRepo, accountRepo, periodRepo := newHandler(true)
		bank := systemAccount(t, tenantID, "1100", ledger.SystemKeyBank, ledger.AccountTypeAsset)
		travel := newTestAccount(t, tenantID, "5200")
		travel.ID = travelAccountID
		supplies := newTestAccount(t, tenantID, "5300")
		supplies.ID = suppliesAccountID

		journalRepo.On("ExistsBySource", ctx, tenantID, ledger.JournalSourceExpense, claimID).Return(false, nil)
		accountRepo.On("FindBySystemKey", ctx, tenantID, ledger.SystemKeyBank).Return(bank, nil)
		periodRepo.On("FindCovering", ctx, tenantID, reimbursedDate).Return(nil, shared.ErrNotFound)
		accountRepo.On("FindByIDs", ctx, tenantID, mock.Anything).
			Return([]ledger.Account{*travel, *supplies, *bank}, nil)

		var created *ledger.Journal
		journalRepo.On("Create", ctx, mock.AnythingOfType("*ledger.Journal")).
			Run(func(args mock.Arguments) { created = args.Get(1).(*ledger.Journal) }).
			Return(nil)

		require.NoError(t, h.Handle(ctx, claimEvent()))

		require.NotNil(t, created)
		assert.Equal(t, ledger.JournalSourceExpense, created.SourceType)
		assert.Equal(t, claimID, *created.SourceID)
		require.Len(t, created.Lines, 3)
		assert.True(t, created.Lines[0].Debit.Equal(decimal.NewFromInt(12000)))
		assert.True(t, created.Lines[1].Debit.Equal(decimal.NewFromInt(3500)))
		assert.Equal(t, bank.ID, created.Lines[2].AccountID)
		assert.True(t, created.Lines[2].Credit.Equal(decimal.NewFromInt(15500)))
		assert.True(t, created.IsBalanced())
	})

	t.Run("aggregates claim lines sharing an account and tax rate", func(t *testing.T) {
		h, journalRepo, accountRepo, periodRepo := newHandler(true)
		bank := systemAccount(t, tenantID, "1100", ledger.SystemKeyBank, ledger.AccountTypeAsset)
		travel := newTestAccount(t, tenantID, "5200")
		travel.ID = travelAccountID
		standardRate := uuid.New()
		reducedRate := uuid.New()

		event := billing.NewExpenseReimbursedEvent(
			tenantID, claimID, "EXP-2025-016", "Yamada Taro",
			[]billing.ExpenseClaimLine{
				{AccountID: travelAccountID, TaxRateID: &standardRate, Amount: decimal.NewFromInt(12000), Memo: "client visit"},
				{AccountID: travelAccountID, TaxRateID: &standardRate, Amount: decimal.NewFromInt(4000), Memo: "taxi"},
				{AccountID: travelAccountID, TaxRateID: &reducedRate, Amount: decimal.NewFromInt(2000), Memo: "bento"},
			},
			reimbursedDate,
			billing.ExpenseStatusApproved, billing.ExpenseStatusReimbursed,
		)

		journalRepo.On("ExistsBySource", ctx, tenantID, ledger.JournalSourceExpense, claimID).Return(false, nil)
		accountRepo.On("FindBySystemKey", ctx, tenantID, ledger.SystemKeyBank).Return(bank, nil)
		periodRepo.On("FindCovering", ctx, tenantID, reimbursedDate).Return(nil, shared.ErrNotFound)
		accountRepo.On("FindByIDs", ctx, tenantID, mock.Anything).
			Return([]ledger.Account{*travel, *bank}, nil)

		var created *ledger.Journal
		journalRepo.On("Create", ctx, mock.AnythingOfType("*ledger.Journal")).
			Run(func(args mock.Arguments) { created = args.Get(1).(*ledger.Journal) }).
			Return(nil)

		require.NoError(t, h.Handle(ctx, event))

		require.NotNil(t, created)
		require.Len(t, created.Lines, 3)
		assert.Equal(t, travelAccountID, created.Lines[0].AccountID)
		assert.Equal(t, standardRate, *created.Lines[0].TaxRateID)
		assert.True(t, created.Lines[0].Debit.Equal(decimal.NewFromInt(16000)))
		assert.Equal(t, travelAccountID, created.Lines[1].AccountID)
		assert.Equal(t, reducedRate, *created.Lines[1].TaxRateID)
		assert.True(t, created.Lines[1].Debit.Equal(decimal.NewFromInt(2000)))
		assert.Equal(t, bank.ID, created.Lines[2].AccountID)
		assert.True(t, created.Lines[2].Credit.Equal(decimal.NewFromInt(18000)))
		assert.True(t, created.IsBalanced())
	})

	t.Run("does nothing when the capability is disabled", func(t *testing.T) {
		h, journalRepo, accountRepo, _ := newHandler(false)

		require.NoError(t, h.Handle(ctx, claimEvent()))
		journalRepo.AssertNotCalled(t, "ExistsBySource", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		accountRepo.AssertNotCalled(t, "FindBySystemKey", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("skips when a journal already exists for the claim", func(t *testing.T) {
		h, journalRepo, _, _ := newHandler(true)

		journalRepo.On("ExistsBySource", ctx, tenantID, ledger.JournalSourceExpense, claimID).Return(true, nil)

		require.NoError(t, h.Handle(ctx, claimEvent()))
		journalRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("skips events without claim lines", func(t *testing.T) {
		h, journalRepo, _, _ := newHandler(true)

		empty := billing.NewExpenseReimbursedEvent(
			tenantID, claimID, "EXP-2025-015", "Yamada Taro",
			nil, reimbursedDate,
			billing.ExpenseStatusApproved, billing.ExpenseStatusReimbursed,
		)
		require.NoError(t, h.Handle(ctx, empty))
		journalRepo.AssertNotCalled(t, "ExistsBySource", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("skips events without an approved to reimbursed transition", func(t *testing.T) {
		h, journalRepo, _, _ := newHandler(true)

		replayed := billing.NewExpenseReimbursedEvent(
			tenantID, claimID, "EXP-2025-014", "Yamada Taro",
			[]billing.ExpenseClaimLine{
				{AccountID: travelAccountID, Amount: decimal.NewFromInt(12000)},
			},
			reimbursedDate,
			billing.ExpenseStatusDraft, billing.ExpenseStatusApproved,
		)
		require.NoError(t, h.Handle(ctx, replayed))
		journalRepo.AssertNotCalled(t, "ExistsBySource", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
