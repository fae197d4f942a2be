package plugins

import "context"

// Service installs and manages plugins per company.
type Service interface {
	Available(ctx context.Context, companyID string) ([]*Available, error)
	Installed(ctx context.Context, companyID string) ([]*Plugin, error)
	Install(ctx context.Context, companyID, dir string) (*Plugin, error)
	Uninstall(ctx context.Context, companyID, pluginID string) error
	Enable(ctx context.Context, companyID, pluginID string) (*Plugin, error)
	Disable(ctx context.Context, companyID, pluginID string) (*Plugin, error)
	Upgrade(ctx context.Context, companyID, pluginID string) (*Plugin, error)
}

// Repository persists installed plugins.
type Repository interface {
	Create(ctx context.Context, plugin *Plugin) error
	Update(ctx context.Context, plugin *Plugin) error
	Delete(ctx context.Context, pluginID string) error
	GetByID(ctx context.Context, companyID, pluginID string) (*Plugin, error)
	GetByDir(ctx context.Context, companyID, dir string) (*Plugin, error)
	List(ctx context.Context, companyID string) ([]*Plugin, error)
}

// ManifestLoader reads plugin manifests from storage.
type ManifestLoader interface {
	// List returns every valid manifest keyed by plugin directory.
	List(ctx context.Context) (map[string]*Manifest, error)
	// Load returns the manifest of one directory or ErrManifestNotFound.
	Load(ctx context.Context, dir string) (*Manifest, error)
}
