//go:build integration
// +build integration

package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/JsAppNinja/blesta-sub003/internal/domain/cron"
	"github.com/JsAppNinja/blesta-sub003/internal/pkg/config"
	"github.com/JsAppNinja/blesta-sub003/internal/pkg/paging"
	"github.com/JsAppNinja/blesta-sub003/internal/pkg/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCronSqliteRepository_TasksAndRuns(t *testing.T) {
	tc := SetupTestDB(t, config.SqliteDbType)
	ctx := context.Background()
	companyID := uuid.NewString()

	task, err := tc.CronRepo.EnsureTask(ctx, &cron.Task{Key: "sync_domains", PluginDir: "domains", Name: "Sync", Type: cron.TypeInterval})
	require.NoError(t, err)
	again, err := tc.CronRepo.EnsureTask(ctx, &cron.Task{Key: "sync_domains", PluginDir: "domains", Name: "Sync", Type: cron.TypeInterval})
	require.NoError(t, err)
	assert.Equal(t, task.ID, again.ID)

	run := &cron.TaskRun{ID: uuid.NewString(), TaskID: task.ID, CompanyID: companyID, Interval: 30, Enabled: true, Task: task}
	require.NoError(t, tc.CronRepo.CreateRun(ctx, run))

	byKey, err := tc.CronRepo.GetRunByKey(ctx, companyID, "sync_domains")
	require.NoError(t, err)
	require.NotNil(t, byKey.Task)
	assert.Equal(t, "domains", byKey.Task.PluginDir)

	last := time.Now().UTC()
	byKey.LastRunAt = &last
	byKey.Interval = 45
	require.NoError(t, tc.CronRepo.UpdateRun(ctx, byKey))

	fetched, err := tc.CronRepo.GetRun(ctx, companyID, run.ID)
	require.NoError(t, err)
	assert.Equal(t, 45, fetched.Interval)
	require.NotNil(t, fetched.LastRunAt)

	runs, err := tc.CronRepo.ListRuns(ctx, companyID)
	require.NoError(t, err)
	assert.Len(t, runs, 1)

	require.NoError(t, tc.CronRepo.DeletePluginRuns(ctx, companyID, "domains"))
	_, err = tc.CronRepo.GetRunByKey(ctx, companyID, "sync_domains")
	assert.True(t, errors.Is(err, cron.ErrNotFound))
}

func TestCronSqliteRepository_Logs(t *testing.T) {
	tc := SetupTestDB(t, config.SqliteDbType)
	ctx := context.Background()
	companyID := uuid.NewString()
	now := time.Now().UTC()

	for i := 0; i < 3; i++ {
		ended := now.Add(time.Duration(-i) * time.Hour)
		require.NoError(t, tc.CronRepo.CreateLog(ctx, &cron.RunLog{
			ID:        uuid.NewString(),
			TaskRunID: uuid.NewString(),
			CompanyID: companyID,
			Key:       cron.TaskCleanupLogs,
			Group:     cron.GroupSystem,
			StartedAt: ended.Add(-time.Minute),
			EndedAt:   &ended,
			Status:    cron.StatusSuccess,
		}))
	}

	items, total, err := tc.CronRepo.ListLogs(ctx, &cron.LogQuery{CompanyID: companyID, Page: paging.NewRequest(1, 10)})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, items, 3)

	removed, err := tc.CronRepo.DeleteLogsBefore(ctx, companyID, now.Add(-90*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
}

func TestGormLocker_AcquireRelease(t *testing.T) {
	tc := SetupTestDB(t, config.SqliteDbType)
	ctx := context.Background()
	name := "cron:" + uuid.NewString()

	ok, err := tc.Locker.Acquire(ctx, name, "runner-a", time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = tc.Locker.Acquire(ctx, name, "runner-b", time.Hour)
	require.NoError(t, err)
	assert.False(t, ok, "held by runner-a")

	// releasing with the wrong owner keeps the lock
	require.NoError(t, tc.Locker.Release(ctx, name, "runner-b"))
	ok, err = tc.Locker.Acquire(ctx, name, "runner-b", time.Hour)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, tc.Locker.Release(ctx, name, "runner-a"))
	ok, err = tc.Locker.Acquire(ctx, name, "runner-b", time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestGormLocker_TakeOverExpired(t *testing.T) {
	tc := SetupTestDB(t, config.SqliteDbType)
	ctx := context.Background()
	name := "cron:" + uuid.NewString()

	locker := &gormLocker{db: tc.DB, logger: testutil.SetupTestLogger(t), now: func() time.Time { return time.Now().UTC().Add(-2 * time.Hour) }}
	ok, err := locker.Acquire(ctx, name, "stale", time.Hour)
	require.NoError(t, err)
	require.True(t, ok)

	locker.now = func() time.Time { return time.Now().UTC() }
	ok, err = locker.Acquire(ctx, name, "fresh", time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestGormTransactor_RollbackAndCommit(t *testing.T) {
	tc := SetupTestDB(t, config.SqliteDbType)
	ctx := context.Background()
	companyID := uuid.NewString()

	boom := errors.New("boom")
	err := tc.Transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		CreateTestClientCtx(t, ctx, tc, companyID, "rolled")
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = tc.ClientRepo.GetByUsername(ctx, companyID, "rolled")
	assert.Error(t, err)

	err = tc.Transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		return tc.Transactor.WithinTransaction(ctx, func(ctx context.Context) error {
			CreateTestClientCtx(t, ctx, tc, companyID, "kept")
			return nil
		})
	})
	require.NoError(t, err)

	_, err = tc.ClientRepo.GetByUsername(ctx, companyID, "kept")
	assert.NoError(t, err)
}
