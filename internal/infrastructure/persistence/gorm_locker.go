package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/JsAppNinja/blesta-sub003/internal/domain/cron"
	"github.com/JsAppNinja/blesta-sub003/internal/infrastructure/persistence/models"
	"github.com/JsAppNinja/blesta-sub003/internal/pkg/logger"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type gormLocker struct {
	db     *gorm.DB
	logger logger.Logger
	now    func() time.Time
}

// NewGormLocker creates a Locker backed by the cron_locks table
func NewGormLocker(db *gorm.DB, logger logger.Logger) cron.Locker {
	return &gormLocker{
		db:     db,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Acquire inserts the lock row, or takes over a row whose lease has expired.
// It never joins a request transaction so the lock is visible to other runners at once.
func (l *gormLocker) Acquire(ctx context.Context, name, owner string, ttl time.Duration) (bool, error) {
	now := l.now()
	db := l.db.WithContext(ctx)

	insert := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.CronLockModel{
		Name:      name,
		Owner:     owner,
		ExpiresAt: now.Add(ttl),
	})
	if insert.Error != nil {
		return false, fmt.Errorf("failed to acquire lock %s: %w", name, insert.Error)
	}
	if insert.RowsAffected == 1 {
		return true, nil
	}

	takeover := db.Model(&models.CronLockModel{}).
		Where("name = ? AND expires_at < ?", name, now).
		Updates(map[string]interface{}{"owner": owner, "expires_at": now.Add(ttl)})
	if takeover.Error != nil {
		return false, fmt.Errorf("failed to acquire lock %s: %w", name, takeover.Error)
	}
	if takeover.RowsAffected == 1 {
		l.logger.Warn("Took over expired lock ", name)
		return true, nil
	}
	return false, nil
}

func (l *gormLocker) Release(ctx context.Context, name, owner string) error {
	err := l.db.WithContext(ctx).
		Where("name = ? AND owner = ?", name, owner).
		Delete(&models.CronLockModel{}).Error
	if err != nil {
		return fmt.Errorf("failed to release lock %s: %w", name, err)
	}
	return nil
}
