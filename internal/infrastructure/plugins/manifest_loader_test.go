//go:build unit
// +build unit

package plugins

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/JsAppNinja/blesta-sub003/internal/domain/plugins"
	"github.com/JsAppNinja/blesta-sub003/internal/pkg/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const domainSyncManifest = `name: Domain Sync
version: 1.2.0
description: Keeps domains in sync with the registrar
authors:
  - name: Example Labs
    url: https://example.com
cron_tasks:
  - key: domain_sync
    name: Sync domains
    type: interval
    interval: 60
  - key: domain_renew
    name: Renew domains
    type: time
    time: "03:30"
`

func writeManifest(t *testing.T, root, dir, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(root, dir), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, dir, plugins.ManifestFile), []byte(content), 0o600))
}

func TestDirManifestLoader_Load(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "domain_sync", domainSyncManifest)

	loader, err := NewDirManifestLoader(root, testutil.SetupTestLogger(t))
	require.NoError(t, err)

	manifest, err := loader.Load(context.Background(), "domain_sync")
	require.NoError(t, err)
	assert.Equal(t, "Domain Sync", manifest.Name)
	assert.Equal(t, "1.2.0", manifest.Version)
	require.Len(t, manifest.Authors, 1)
	assert.Equal(t, "Example Labs", manifest.Authors[0].Name)
	require.Len(t, manifest.CronTasks, 2)
	assert.Equal(t, 60, manifest.CronTasks[0].Interval)
	assert.Equal(t, "03:30", manifest.CronTasks[1].Time)
}

func TestDirManifestLoader_LoadErrors(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "broken", "name: [unterminated")
	writeManifest(t, root, "invalid", "name: Invalid\nversion: latest\n")

	loader, err := NewDirManifestLoader(root, testutil.SetupTestLogger(t))
	require.NoError(t, err)
	ctx := context.Background()

	_, err = loader.Load(ctx, "missing")
	assert.ErrorIs(t, err, plugins.ErrManifestNotFound)

	_, err = loader.Load(ctx, "../etc")
	assert.ErrorIs(t, err, plugins.ErrManifestNotFound)

	_, err = loader.Load(ctx, "broken")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse manifest")

	_, err = loader.Load(ctx, "invalid")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Version")
}

func TestDirManifestLoader_List(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "domain_sync", domainSyncManifest)
	writeManifest(t, root, "invalid", "name: Invalid\n")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "empty"), 0o755))

	loader, err := NewDirManifestLoader(root, testutil.SetupTestLogger(t))
	require.NoError(t, err)

	manifests, err := loader.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, manifests, 1)
	assert.Contains(t, manifests, "domain_sync")
}

func TestDirManifestLoader_MissingRoot(t *testing.T) {
	loader, err := NewDirManifestLoader(filepath.Join(t.TempDir(), "nope"), testutil.SetupTestLogger(t))
	require.NoError(t, err)

	manifests, err := loader.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, manifests)

	_, err = NewDirManifestLoader("", testutil.SetupTestLogger(t))
	assert.Error(t, err)
}
