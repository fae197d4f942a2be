package app

import (
	"context"
	"time"

	"github.com/JsAppNinja/blesta-sub003/internal/domain/logs"
	"github.com/JsAppNinja/blesta-sub003/internal/pkg/logger"
	"github.com/JsAppNinja/blesta-sub003/internal/pkg/paging"

	"github.com/google/uuid"
)

// logService implements the logs.Service interface
type logService struct {
	repo   logs.Repository
	logger logger.Logger
}

// NewLogService creates a new logs.Service
func NewLogService(repo logs.Repository, logger logger.Logger) (logs.Service, error) {
	return &logService{
		repo:   repo,
		logger: logger,
	}, nil
}

func (s *logService) Record(ctx context.Context, entry *logs.Entry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.DateAdded.IsZero() {
		entry.DateAdded = time.Now().UTC()
	}
	if entry.Status == "" {
		entry.Status = logs.StatusSuccess
	}
	if len(entry.Summary) > 255 {
		entry.Summary = entry.Summary[:255]
	}
	return s.repo.Create(ctx, entry)
}

func (s *logService) List(ctx context.Context, query *logs.Query) (paging.Page[*logs.Entry], error) {
	items, total, err := s.repo.List(ctx, query)
	if err != nil {
		return paging.Page[*logs.Entry]{}, err
	}
	return paging.NewPage(query.Page, items, total), nil
}

func (s *logService) Purge(ctx context.Context, companyID string, olderThan time.Time) (int64, error) {
	deleted, err := s.repo.DeleteBefore(ctx, companyID, olderThan.UTC())
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		s.logger.Info("Purged ", deleted, " log entries of company ", companyID)
	}
	return deleted, nil
}
