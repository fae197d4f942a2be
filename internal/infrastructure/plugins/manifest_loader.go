package plugins

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/JsAppNinja/blesta-sub003/internal/domain/plugins"
	"github.com/JsAppNinja/blesta-sub003/internal/pkg/logger"

	"gopkg.in/yaml.v3"
)

// dirManifestLoader loads <root>/<dir>/plugin.yaml files
type dirManifestLoader struct {
	root   string
	logger logger.Logger
}

// NewDirManifestLoader creates a ManifestLoader rooted at root
func NewDirManifestLoader(root string, logger logger.Logger) (plugins.ManifestLoader, error) {
	if root == "" {
		return nil, fmt.Errorf("plugin directory must not be empty")
	}
	return &dirManifestLoader{root: root, logger: logger}, nil
}

// List returns every valid manifest keyed by directory. Invalid manifests are
// skipped with a warning so one broken plugin does not hide the others.
func (l *dirManifestLoader) List(ctx context.Context) (map[string]*plugins.Manifest, error) {
	entries, err := os.ReadDir(l.root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]*plugins.Manifest{}, nil
		}
		return nil, fmt.Errorf("failed to read plugin directory: %w", err)
	}

	manifests := make(map[string]*plugins.Manifest, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		manifest, err := l.Load(ctx, entry.Name())
		if err != nil {
			if !errors.Is(err, plugins.ErrManifestNotFound) {
				l.logger.Warn("Skipping plugin ", entry.Name(), ": ", err)
			}
			continue
		}
		manifests[entry.Name()] = manifest
	}

	return manifests, nil
}

// Load parses and validates the manifest of one plugin directory
func (l *dirManifestLoader) Load(ctx context.Context, dir string) (*plugins.Manifest, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if dir == "" || dir != filepath.Base(dir) || strings.HasPrefix(dir, ".") {
		return nil, fmt.Errorf("invalid plugin directory %q: %w", dir, plugins.ErrManifestNotFound)
	}

	data, err := os.ReadFile(filepath.Join(l.root, dir, plugins.ManifestFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("plugin %s: %w", dir, plugins.ErrManifestNotFound)
		}
		return nil, fmt.Errorf("failed to read manifest of %s: %w", dir, err)
	}

	var manifest plugins.Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse manifest of %s: %w", dir, err)
	}
	if err := manifest.Validate(); err != nil {
		return nil, err
	}

	return &manifest, nil
}
