package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/bookkeep/backend/internal/domain/ledger"
	"github.com/bookkeep/backend/internal/domain/shared"
)

// AccountService handles chart of accounts operations
type AccountService struct {
	accountRepo ledger.AccountRepository
	eventBus    shared.EventPublisher
}

// NewAccountService creates a new AccountService
func NewAccountService(
	accountRepo ledger.AccountRepository,
	eventBus shared.EventPublisher,
) *AccountService {
	return &AccountService{
		accountRepo: accountRepo,
		eventBus:    eventBus,
	}
}

// CreateAccountRequest carries the input for creating an account
type CreateAccountRequest struct {
	Code        string     `json:"code" binding:"required,max=20"`
	Name        string     `json:"name" binding:"required,max=200"`
	Type        string     `json:"type" binding:"required"`
	TaxCategory string     `json:"tax_category" binding:"required"`
	ParentID    *uuid.UUID `json:"parent_id"`
	CreatedBy   *uuid.UUID `json:"-"`
}

// AccountResponse represents an account in API responses
type AccountResponse struct {
	ID          uuid.UUID  `json:"id"`
	Code        string     `json:"code"`
	Name        string     `json:"name"`
	Type        string     `json:"type"`
	ParentID    *uuid.UUID `json:"parent_id,omitempty"`
	TaxCategory string     `json:"tax_category"`
	SystemKey   string     `json:"system_key,omitempty"`
	Active      bool       `json:"active"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ToAccountResponse maps a domain account to its API representation
func ToAccountResponse(a *ledger.Account) *AccountResponse {
	return &AccountResponse{
		ID:          a.ID,
		Code:        a.Code,
		Name:        a.Name,
		Type:        a.Type.String(),
		ParentID:    a.ParentID,
		TaxCategory: string(a.TaxCategory),
		SystemKey:   a.SystemKey,
		Active:      a.Active,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

// Create creates a new account in the chart of accounts
func (s *AccountService) Create(ctx context.Context, tenantID uuid.UUID, req CreateAccountRequest) (*AccountResponse, error) {
	exists, err := s.accountRepo.ExistsByCode(ctx, tenantID, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Account with this code already exists")
	}

	if req.ParentID != nil {
		parent, err := s.accountRepo.FindByIDForTenant(ctx, tenantID, *req.ParentID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("INVALID_PARENT", "Parent account not found")
			}
			return nil, err
		}
		if !parent.Active {
			return nil, shared.NewDomainError("INVALID_PARENT", "Parent account is inactive")
		}
	}

	account, err := ledger.NewAccount(
		tenantID,
		req.Code,
		req.Name,
		ledger.AccountType(req.Type),
		ledger.TaxCategory(req.TaxCategory),
		req.ParentID,
	)
	if err != nil {
		return nil, err
	}

	if req.CreatedBy != nil {
		account.SetCreatedBy(*req.CreatedBy)
	}

	if err := s.accountRepo.Save(ctx, account); err != nil {
		return nil, err
	}

	if s.eventBus != nil {
		_ = s.eventBus.Publish(ctx, account.GetDomainEvents()...)
		account.ClearDomainEvents()
	}

	return ToAccountResponse(account), nil
}

// GetByID retrieves an account by ID
func (s *AccountService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*AccountResponse, error) {
	account, err := s.accountRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return ToAccountResponse(account), nil
}

// ListActive lists the active accounts of a tenant ordered by code
func (s *AccountService) ListActive(ctx context.Context, tenantID uuid.UUID) ([]AccountResponse, error) {
	accounts, err := s.accountRepo.ListActive(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	responses := make([]AccountResponse, len(accounts))
	for i := range accounts {
		responses[i] = *ToAccountResponse(&accounts[i])
	}
	return responses, nil
}

// Rename updates an account's display name
func (s *AccountService) Rename(ctx context.Context, tenantID, id uuid.UUID, name string) (*AccountResponse, error) {
	account, err := s.accountRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if err := account.Rename(name); err != nil {
		return nil, err
	}

	if err := s.accountRepo.Save(ctx, account); err != nil {
		return nil, err
	}
	return ToAccountResponse(account), nil
}

// Deactivate marks an account inactive. Accounts referenced by journal
// lines are never deleted; deactivation is the only removal path once a
// posting exists.
func (s *AccountService) Deactivate(ctx context.Context, tenantID, id uuid.UUID) (*AccountResponse, error) {
	account, err := s.accountRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if account.SystemKey != "" {
		return nil, shared.NewDomainError("SYSTEM_ACCOUNT", "System-mapped accounts cannot be deactivated")
	}

	if err := account.Deactivate(); err != nil {
		return nil, err
	}

	if err := s.accountRepo.Save(ctx, account); err != nil {
		return nil, err
	}

	if s.eventBus != nil {
		_ = s.eventBus.Publish(ctx, account.GetDomainEvents()...)
		account.ClearDomainEvents()
	}

	return ToAccountResponse(account), nil
}
