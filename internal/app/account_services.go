package app

import (
	"context"
	"fmt"
	"time"

	"github.com/JsAppNinja/blesta-sub003/internal/domain/accounts"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/clients"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/identity"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/logs"
	"github.com/JsAppNinja/blesta-sub003/internal/pkg/logger"
	"github.com/JsAppNinja/blesta-sub003/internal/pkg/validators"

	"github.com/google/uuid"
)

// accountService implements the accounts.Service interface
type accountService struct {
	repo       accounts.Repository
	clientRepo clients.Repository
	cipher     identity.Cipher
	logs       logs.Service
	logger     logger.Logger
	now        func() time.Time
}

// NewAccountService creates a new accounts.Service
func NewAccountService(
	repo accounts.Repository,
	clientRepo clients.Repository,
	cipher identity.Cipher,
	logService logs.Service,
	logger logger.Logger,
) (accounts.Service, error) {
	return &accountService{
		repo:       repo,
		clientRepo: clientRepo,
		cipher:     cipher,
		logs:       logService,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *accountService) Create(ctx context.Context, companyID, clientID string, input *accounts.Input) (*accounts.Account, error) {
	if _, err := s.clientRepo.GetByID(ctx, companyID, clientID); err != nil {
		return nil, err
	}
	if err := input.Validate(true, s.now()); err != nil {
		return nil, err
	}

	account := &accounts.Account{
		ID:        uuid.NewString(),
		ClientID:  clientID,
		Type:      input.Type,
		Status:    accounts.StatusActive,
		DateAdded: s.now(),
	}
	applyHolder(account, input)

	if err := s.setNumbers(account, input); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

func (s *accountService) Update(ctx context.Context, companyID, clientID, accountID string, input *accounts.Input) (*accounts.Account, error) {
	if _, err := s.clientRepo.GetByID(ctx, companyID, clientID); err != nil {
		return nil, err
	}

	account, err := s.repo.GetByID(ctx, clientID, accountID)
	if err != nil {
		return nil, err
	}
	if account.Status != accounts.StatusActive {
		return nil, fmt.Errorf("account %s is inactive: %w", account.ID, accounts.ErrNotFound)
	}

	// the type of an account never changes
	input.Type = account.Type
	if err := input.Validate(false, s.now()); err != nil {
		return nil, err
	}

	applyHolder(account, input)
	if err := s.setNumbers(account, input); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

func (s *accountService) Delete(ctx context.Context, companyID, clientID, accountID string) error {
	if _, err := s.clientRepo.GetByID(ctx, companyID, clientID); err != nil {
		return err
	}

	account, err := s.repo.GetByID(ctx, clientID, accountID)
	if err != nil {
		return err
	}
	if account.Status == accounts.StatusInactive {
		return nil
	}

	account.Status = accounts.StatusInactive
	return s.repo.Update(ctx, account)
}

func (s *accountService) GetByID(ctx context.Context, companyID, clientID, accountID, accessedBy string) (*accounts.Account, error) {
	if _, err := s.clientRepo.GetByID(ctx, companyID, clientID); err != nil {
		return nil, err
	}

	account, err := s.repo.GetByID(ctx, clientID, accountID)
	if err != nil {
		return nil, err
	}

	if accessedBy != "" {
		entry := &logs.Entry{
			CompanyID: companyID,
			Type:      logs.TypeAccountAccess,
			ClientID:  &clientID,
			StaffID:   &accessedBy,
			Summary:   fmt.Sprintf("Viewed %s account ending in %s", account.Type, account.LastFour),
			Detail:    "account_id=" + account.ID,
			Status:    logs.StatusSuccess,
		}
		if err := s.logs.Record(ctx, entry); err != nil {
			return nil, fmt.Errorf("failed to log account access: %w", err)
		}
	}

	return account, nil
}

func (s *accountService) List(ctx context.Context, companyID, clientID string) ([]*accounts.Account, error) {
	if _, err := s.clientRepo.GetByID(ctx, companyID, clientID); err != nil {
		return nil, err
	}
	return s.repo.ListActive(ctx, clientID)
}

func (s *accountService) ExpiringIn(ctx context.Context, companyID, month string) ([]*accounts.Account, error) {
	return s.repo.ListExpiring(ctx, companyID, month)
}

// setNumbers encrypts new account and routing numbers. Empty inputs keep the
// stored values.
func (s *accountService) setNumbers(account *accounts.Account, input *accounts.Input) error {
	number := validators.DigitsOnly(input.Number)
	if number != "" {
		encrypted, err := s.cipher.Encrypt([]byte(number))
		if err != nil {
			return fmt.Errorf("failed to encrypt account number: %w", err)
		}
		account.EncryptedNumber = encrypted
		account.LastFour = accounts.LastFour(number)
		if account.Type == accounts.TypeCC {
			account.CardType = accounts.DetectCardType(number)
		}
	}

	routing := validators.DigitsOnly(input.RoutingNumber)
	if account.Type == accounts.TypeACH && routing != "" {
		encrypted, err := s.cipher.Encrypt([]byte(routing))
		if err != nil {
			return fmt.Errorf("failed to encrypt routing number: %w", err)
		}
		account.EncryptedRouting = encrypted
	}
	return nil
}

func applyHolder(account *accounts.Account, input *accounts.Input) {
	account.FirstName = input.FirstName
	account.LastName = input.LastName
	account.Address1 = input.Address1
	account.City = input.City
	account.State = input.State
	account.Zip = input.Zip
	account.Country = input.Country
	if account.Type == accounts.TypeCC {
		if input.Expiration != "" {
			account.Expiration = input.Expiration
		}
	} else if input.AccountType != "" {
		account.AccountType = input.AccountType
	}
}
