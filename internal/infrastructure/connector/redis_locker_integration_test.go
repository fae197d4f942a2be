//go:build integration
// +build integration

package connector

import (
	"context"
	"testing"
	"time"

	"github.com/JsAppNinja/blesta-sub003/internal/pkg/config"
	"github.com/JsAppNinja/blesta-sub003/internal/pkg/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisLocker_AcquireRelease(t *testing.T) {
	ctx := context.Background()
	client, err := NewRedisClient(ctx, &config.RedisSettings{Addr: TestRedisAddr})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	locker := NewRedisLocker(client, testutil.SetupTestLogger(t))
	name := "cron:" + uuid.NewString()

	ok, err := locker.Acquire(ctx, name, "runner-a", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = locker.Acquire(ctx, name, "runner-b", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	// wrong owner leaves the lock in place
	require.NoError(t, locker.Release(ctx, name, "runner-b"))
	ok, err = locker.Acquire(ctx, name, "runner-b", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, locker.Release(ctx, name, "runner-a"))
	ok, err = locker.Acquire(ctx, name, "runner-b", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, locker.Release(ctx, name, "runner-b"))
}

func TestRedisLocker_Expires(t *testing.T) {
	ctx := context.Background()
	client, err := NewRedisClient(ctx, &config.RedisSettings{Addr: TestRedisAddr})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	locker := NewRedisLocker(client, testutil.SetupTestLogger(t))
	name := "cron:" + uuid.NewString()

	ok, err := locker.Acquire(ctx, name, "short", 50*time.Millisecond)
	require.NoError(t, err)
	require.True(t, ok)

	time.Sleep(100 * time.Millisecond)
	ok, err = locker.Acquire(ctx, name, "next", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}
