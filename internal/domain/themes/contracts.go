package themes

import (
	"context"
	"io"
)

// Service manages themes and which one is active per company.
type Service interface {
	List(ctx context.Context, companyID, themeType string) ([]*Theme, error)
	GetByID(ctx context.Context, companyID, themeID string) (*Theme, error)
	Create(ctx context.Context, companyID string, input *Input) (*Theme, error)
	Update(ctx context.Context, companyID, themeID string, input *Input) (*Theme, error)
	Delete(ctx context.Context, companyID, themeID string) error
	Activate(ctx context.Context, companyID, themeID string) (*Theme, error)
	Active(ctx context.Context, companyID, themeType string) (*Theme, error)
	UploadLogo(ctx context.Context, companyID, themeID, fileName string, content io.Reader) (*Theme, error)
}

// Repository persists themes.
type Repository interface {
	Create(ctx context.Context, theme *Theme) error
	Update(ctx context.Context, theme *Theme) error
	Delete(ctx context.Context, themeID string) error
	// GetByID returns a system theme or one owned by companyID.
	GetByID(ctx context.Context, companyID, themeID string) (*Theme, error)
	// List returns system themes followed by the company's own.
	List(ctx context.Context, companyID, themeType string) ([]*Theme, error)
}

// AssetConnector stores uploaded theme assets and returns their public URL.
type AssetConnector interface {
	Upload(ctx context.Context, name string, content io.Reader) (string, error)
	Delete(ctx context.Context, name string) error
}
