package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/JsAppNinja/blesta-sub003/internal/domain/settings"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/uow"
	"github.com/JsAppNinja/blesta-sub003/internal/pkg/logger"
	"github.com/JsAppNinja/blesta-sub003/internal/pkg/validation"

	"github.com/shopspring/decimal"
)

// settingService implements the settings.Service interface
type settingService struct {
	repo       settings.Repository
	transactor uow.Transactor
	logger     logger.Logger
}

// NewSettingService creates a new settings.Service
func NewSettingService(repo settings.Repository, transactor uow.Transactor, logger logger.Logger) (settings.Service, error) {
	return &settingService{
		repo:       repo,
		transactor: transactor,
		logger:     logger,
	}, nil
}

func (s *settingService) GetAll(ctx context.Context, companyID string) (map[string]string, error) {
	stored, err := s.repo.List(ctx, companyID)
	if err != nil {
		return nil, err
	}

	values := settings.Defaults()
	for _, setting := range stored {
		if _, known := values[setting.Key]; known {
			values[setting.Key] = setting.Value
		}
	}
	return values, nil
}

func (s *settingService) Get(ctx context.Context, companyID, key string) (string, error) {
	def, ok := settings.Definitions[key]
	if !ok {
		return "", fmt.Errorf("%s: %w", key, settings.ErrUnknownKey)
	}

	stored, err := s.repo.Get(ctx, companyID, key)
	if err != nil {
		return "", err
	}
	if stored == nil {
		return def.Default, nil
	}
	return stored.Value, nil
}

// Update checks every pair first so that a single bad value leaves all
// settings untouched.
func (s *settingService) Update(ctx context.Context, companyID string, values map[string]string) error {
	errs := validation.Errors{}
	clean := make(map[string]string, len(values))
	for key, value := range values {
		normalized, err := settings.Normalize(key, value)
		if err != nil {
			if errors.Is(err, settings.ErrUnknownKey) {
				errs.Add(key, "is not a known setting")
				continue
			}
			errs.Add(key, err.Error())
			continue
		}
		clean[key] = normalized
	}
	if err := errs.Err(); err != nil {
		return err
	}

	now := time.Now().UTC()
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		for key, value := range clean {
			setting := &settings.Setting{CompanyID: companyID, Key: key, Value: value, UpdatedAt: now}
			if err := s.repo.Upsert(ctx, setting); err != nil {
				return fmt.Errorf("failed to store setting %s: %w", key, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("Updated ", len(clean), " settings of company ", companyID)
	return nil
}

func (s *settingService) Reset(ctx context.Context, companyID, key string) error {
	if _, ok := settings.Definitions[key]; !ok {
		return fmt.Errorf("%s: %w", key, settings.ErrUnknownKey)
	}
	if err := s.repo.Delete(ctx, companyID, key); err != nil {
		return err
	}

	s.logger.Info("Reset setting ", key, " of company ", companyID)
	return nil
}

func (s *settingService) Int(ctx context.Context, companyID, key string) (int, error) {
	value, err := s.Get(ctx, companyID, key)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("setting %s is not a number: %w", key, err)
	}
	return n, nil
}

func (s *settingService) Bool(ctx context.Context, companyID, key string) (bool, error) {
	value, err := s.Get(ctx, companyID, key)
	if err != nil {
		return false, err
	}
	return strconv.ParseBool(value)
}

func (s *settingService) Decimal(ctx context.Context, companyID, key string) (decimal.Decimal, error) {
	value, err := s.Get(ctx, companyID, key)
	if err != nil {
		return decimal.Zero, err
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("setting %s is not a decimal: %w", key, err)
	}
	return d, nil
}

func (s *settingService) Location(ctx context.Context, companyID string) (*time.Location, error) {
	value, err := s.Get(ctx, companyID, settings.KeyTimezone)
	if err != nil {
		return nil, err
	}
	loc, err := time.LoadLocation(value)
	if err != nil {
		return nil, fmt.Errorf("failed to load time zone %s: %w", value, err)
	}
	return loc, nil
}
