package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/JsAppNinja/blesta-sub003/internal/domain/identity"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/staff"
	"github.com/JsAppNinja/blesta-sub003/internal/pkg/logger"

	"github.com/google/uuid"
)

// staffService implements the staff.Service interface
type staffService struct {
	repo   staff.Repository
	hasher identity.PasswordHasher
	logger logger.Logger
}

// NewStaffService creates a new staff.Service
func NewStaffService(repo staff.Repository, hasher identity.PasswordHasher, logger logger.Logger) (staff.Service, error) {
	return &staffService{
		repo:   repo,
		hasher: hasher,
		logger: logger,
	}, nil
}

func (s *staffService) Create(ctx context.Context, companyID string, input *staff.Input) (*staff.Staff, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	_, err := s.repo.GetByUsername(ctx, input.Username)
	switch {
	case err == nil:
		return nil, fmt.Errorf("%s: %w", input.Username, staff.ErrUsernameTaken)
	case !errors.Is(err, staff.ErrNotFound):
		return nil, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	member := &staff.Staff{
		ID:           uuid.NewString(),
		CompanyID:    companyID,
		Username:     input.Username,
		Email:        strings.ToLower(input.Email),
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		PasswordHash: hash,
		Status:       staff.StatusActive,
		DateAdded:    time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, member); err != nil {
		return nil, err
	}
	return member, nil
}

func (s *staffService) GetByID(ctx context.Context, staffID string) (*staff.Staff, error) {
	return s.repo.GetByID(ctx, staffID)
}
