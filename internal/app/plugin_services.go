package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/JsAppNinja/blesta-sub003/internal/domain/cron"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/plugins"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/uow"
	"github.com/JsAppNinja/blesta-sub003/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
)

// pluginService implements the plugins.Service interface
type pluginService struct {
	repo       plugins.Repository
	loader     plugins.ManifestLoader
	cron       cron.Service
	transactor uow.Transactor
	policy     *bluemonday.Policy
	logger     logger.Logger
}

// NewPluginService creates a new plugins.Service
func NewPluginService(
	repo plugins.Repository,
	loader plugins.ManifestLoader,
	cronService cron.Service,
	transactor uow.Transactor,
	logger logger.Logger,
) (plugins.Service, error) {
	return &pluginService{
		repo:       repo,
		loader:     loader,
		cron:       cronService,
		transactor: transactor,
		policy:     bluemonday.StrictPolicy(),
		logger:     logger,
	}, nil
}

func (s *pluginService) Available(ctx context.Context, companyID string) ([]*plugins.Available, error) {
	manifests, err := s.loader.List(ctx)
	if err != nil {
		return nil, err
	}
	installed, err := s.repo.List(ctx, companyID)
	if err != nil {
		return nil, err
	}

	byDir := make(map[string]*plugins.Plugin, len(installed))
	for _, p := range installed {
		byDir[p.Dir] = p
	}

	available := make([]*plugins.Available, 0, len(manifests))
	for dir, manifest := range manifests {
		sanitized := *manifest
		sanitized.Description = s.policy.Sanitize(manifest.Description)

		entry := &plugins.Available{Dir: dir, Manifest: &sanitized}
		if p, ok := byDir[dir]; ok {
			entry.Installed = p
			entry.UpgradeAvailable = plugins.IsNewer(manifest.Version, p.Version)
		}
		available = append(available, entry)
	}

	sort.Slice(available, func(i, j int) bool {
		return available[i].Dir < available[j].Dir
	})
	return available, nil
}

func (s *pluginService) Installed(ctx context.Context, companyID string) ([]*plugins.Plugin, error) {
	return s.repo.List(ctx, companyID)
}

// Install stores the plugin together with its cron tasks in one transaction
func (s *pluginService) Install(ctx context.Context, companyID, dir string) (*plugins.Plugin, error) {
	manifest, err := s.loader.Load(ctx, dir)
	if err != nil {
		return nil, err
	}

	plugin := &plugins.Plugin{
		ID:            uuid.NewString(),
		CompanyID:     companyID,
		Dir:           dir,
		Name:          manifest.Name,
		Version:       manifest.Version,
		Description:   s.policy.Sanitize(manifest.Description),
		Enabled:       true,
		DateInstalled: time.Now().UTC(),
	}

	err = s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		_, err := s.repo.GetByDir(ctx, companyID, dir)
		switch {
		case err == nil:
			return fmt.Errorf("plugin %s: %w", dir, plugins.ErrAlreadyInstalled)
		case !errors.Is(err, plugins.ErrNotFound):
			return err
		}

		if err := s.repo.Create(ctx, plugin); err != nil {
			return err
		}
		return s.cron.InstallPluginTasks(ctx, companyID, dir, taskRuns(manifest))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Installed plugin ", dir, " ", manifest.Version, " for company ", companyID)
	return plugin, nil
}

func (s *pluginService) Uninstall(ctx context.Context, companyID, pluginID string) error {
	return s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		plugin, err := s.repo.GetByID(ctx, companyID, pluginID)
		if err != nil {
			return err
		}
		if err := s.cron.UninstallPluginTasks(ctx, companyID, plugin.Dir); err != nil {
			return err
		}
		return s.repo.Delete(ctx, plugin.ID)
	})
}

func (s *pluginService) Enable(ctx context.Context, companyID, pluginID string) (*plugins.Plugin, error) {
	return s.setEnabled(ctx, companyID, pluginID, true)
}

func (s *pluginService) Disable(ctx context.Context, companyID, pluginID string) (*plugins.Plugin, error) {
	return s.setEnabled(ctx, companyID, pluginID, false)
}

// Upgrade moves an installed plugin to the version on disk and adds the cron
// tasks the new version introduces.
func (s *pluginService) Upgrade(ctx context.Context, companyID, pluginID string) (*plugins.Plugin, error) {
	var plugin *plugins.Plugin
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		plugin, err = s.repo.GetByID(ctx, companyID, pluginID)
		if err != nil {
			return err
		}

		manifest, err := s.loader.Load(ctx, plugin.Dir)
		if err != nil {
			return err
		}
		if !plugins.IsNewer(manifest.Version, plugin.Version) {
			return fmt.Errorf("plugin %s is at %s: %w", plugin.Dir, plugin.Version, plugins.ErrNoUpgrade)
		}

		from := plugin.Version
		plugin.Name = manifest.Name
		plugin.Version = manifest.Version
		plugin.Description = s.policy.Sanitize(manifest.Description)
		if err := s.repo.Update(ctx, plugin); err != nil {
			return err
		}
		if err := s.cron.InstallPluginTasks(ctx, companyID, plugin.Dir, taskRuns(manifest)); err != nil {
			return err
		}

		s.logger.Info("Upgraded plugin ", plugin.Dir, " from ", from, " to ", plugin.Version)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return plugin, nil
}

func (s *pluginService) setEnabled(ctx context.Context, companyID, pluginID string, enabled bool) (*plugins.Plugin, error) {
	plugin, err := s.repo.GetByID(ctx, companyID, pluginID)
	if err != nil {
		return nil, err
	}
	if plugin.Enabled == enabled {
		return plugin, nil
	}

	plugin.Enabled = enabled
	if err := s.repo.Update(ctx, plugin); err != nil {
		return nil, err
	}
	return plugin, nil
}

func taskRuns(manifest *plugins.Manifest) []*cron.TaskRun {
	runs := make([]*cron.TaskRun, len(manifest.CronTasks))
	for i, t := range manifest.CronTasks {
		runs[i] = &cron.TaskRun{
			Interval: t.Interval,
			Time:     t.Time,
			Schedule: t.Schedule,
			Enabled:  true,
			Task: &cron.Task{
				Key:         t.Key,
				Name:        t.Name,
				Description: t.Description,
				Type:        t.Type,
			},
		}
	}
	return runs
}
