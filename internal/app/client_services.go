package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/JsAppNinja/blesta-sub003/internal/domain/clients"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/identity"
	"github.com/JsAppNinja/blesta-sub003/internal/pkg/logger"
	"github.com/JsAppNinja/blesta-sub003/internal/pkg/paging"
	"github.com/JsAppNinja/blesta-sub003/internal/pkg/validation"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
)

// clientService implements the clients.Service interface
type clientService struct {
	repo   clients.Repository
	hasher identity.PasswordHasher
	policy *bluemonday.Policy
	logger logger.Logger
}

// NewClientService creates a new clients.Service
func NewClientService(repo clients.Repository, hasher identity.PasswordHasher, logger logger.Logger) (clients.Service, error) {
	return &clientService{
		repo:   repo,
		hasher: hasher,
		policy: bluemonday.UGCPolicy(),
		logger: logger,
	}, nil
}

func (s *clientService) Create(ctx context.Context, companyID string, input *clients.Input) (*clients.Client, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	if input.Password == "" {
		return nil, validation.Errors{"Password": "is required"}
	}

	if err := s.ensureUsernameFree(ctx, companyID, input.Username, ""); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = clients.StatusActive
	}

	client := &clients.Client{
		ID:           uuid.NewString(),
		CompanyID:    companyID,
		Username:     input.Username,
		Email:        strings.ToLower(input.Email),
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Company:      input.Company,
		Status:       status,
		Notes:        s.policy.Sanitize(input.Notes),
		PasswordHash: hash,
		DateAdded:    time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, client); err != nil {
		return nil, err
	}

	return client, nil
}

func (s *clientService) Update(ctx context.Context, companyID, clientID string, input *clients.Input) (*clients.Client, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	client, err := s.repo.GetByID(ctx, companyID, clientID)
	if err != nil {
		return nil, err
	}

	if input.Username != client.Username {
		if err := s.ensureUsernameFree(ctx, companyID, input.Username, client.ID); err != nil {
			return nil, err
		}
		client.Username = input.Username
	}

	client.Email = strings.ToLower(input.Email)
	client.FirstName = input.FirstName
	client.LastName = input.LastName
	client.Company = input.Company
	client.Notes = s.policy.Sanitize(input.Notes)
	if input.Status != "" {
		client.Status = input.Status
	}
	if input.Password != "" {
		hash, err := s.hasher.Hash(input.Password)
		if err != nil {
			return nil, err
		}
		client.PasswordHash = hash
	}

	if err := s.repo.Update(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

func (s *clientService) Delete(ctx context.Context, companyID, clientID string) error {
	client, err := s.repo.GetByID(ctx, companyID, clientID)
	if err != nil {
		return err
	}

	hasHistory, err := s.repo.HasBillingHistory(ctx, client.ID)
	if err != nil {
		return err
	}
	if hasHistory {
		return fmt.Errorf("client %s: %w", client.ID, clients.ErrHasBillingHistory)
	}

	return s.repo.Delete(ctx, client.ID)
}

func (s *clientService) GetByID(ctx context.Context, companyID, clientID string) (*clients.Client, error) {
	return s.repo.GetByID(ctx, companyID, clientID)
}

func (s *clientService) List(ctx context.Context, query *clients.Query) (paging.Page[*clients.Client], error) {
	items, total, err := s.repo.List(ctx, query)
	if err != nil {
		return paging.Page[*clients.Client]{}, err
	}
	return paging.NewPage(query.Page, items, total), nil
}

// Authenticate returns ErrInvalidCredentials for unknown users and wrong
// passwords alike.
func (s *clientService) Authenticate(ctx context.Context, companyID, username, password string) (*clients.Client, error) {
	client, err := s.repo.GetByUsername(ctx, companyID, username)
	if err != nil {
		if errors.Is(err, clients.ErrNotFound) {
			return nil, identity.ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.hasher.Verify(client.PasswordHash, password) {
		return nil, identity.ErrInvalidCredentials
	}
	if !client.CanLogIn() {
		return client, identity.ErrAccountDisabled
	}
	return client, nil
}

func (s *clientService) ensureUsernameFree(ctx context.Context, companyID, username, selfID string) error {
	existing, err := s.repo.GetByUsername(ctx, companyID, username)
	if err != nil {
		if errors.Is(err, clients.ErrNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != selfID {
		return fmt.Errorf("%s: %w", username, clients.ErrUsernameTaken)
	}
	return nil
}
