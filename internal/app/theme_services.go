package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"slices"
	"strings"
	"time"

	"github.com/JsAppNinja/blesta-sub003/internal/domain/settings"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/themes"
	"github.com/JsAppNinja/blesta-sub003/internal/pkg/logger"

	"github.com/google/uuid"
)

// themeService implements the themes.Service interface
type themeService struct {
	repo     themes.Repository
	settings settings.Service
	assets   themes.AssetConnector
	logger   logger.Logger
}

// NewThemeService creates a new themes.Service. assets may be nil, in which
// case logo uploads are refused.
func NewThemeService(repo themes.Repository, settingService settings.Service, assets themes.AssetConnector, logger logger.Logger) (themes.Service, error) {
	return &themeService{
		repo:     repo,
		settings: settingService,
		assets:   assets,
		logger:   logger,
	}, nil
}

func (s *themeService) List(ctx context.Context, companyID, themeType string) ([]*themes.Theme, error) {
	return s.repo.List(ctx, companyID, themeType)
}

func (s *themeService) GetByID(ctx context.Context, companyID, themeID string) (*themes.Theme, error) {
	return s.repo.GetByID(ctx, companyID, themeID)
}

// Create copies the colors of the base theme, or of the first system theme of
// the type, when the input carries none.
func (s *themeService) Create(ctx context.Context, companyID string, input *themes.Input) (*themes.Theme, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	colors := input.Colors
	logoURL := ""
	if len(colors) == 0 {
		base, err := s.baseTheme(ctx, companyID, input)
		if err != nil {
			return nil, err
		}
		colors = copyColors(base.Colors)
		logoURL = base.LogoURL
	}

	owner := companyID
	theme := &themes.Theme{
		ID:        uuid.NewString(),
		CompanyID: &owner,
		Type:      input.Type,
		Name:      input.Name,
		Colors:    normalizeColors(colors),
		LogoURL:   logoURL,
		DateAdded: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, theme); err != nil {
		return nil, err
	}
	return theme, nil
}

func (s *themeService) Update(ctx context.Context, companyID, themeID string, input *themes.Input) (*themes.Theme, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	theme, err := s.editable(ctx, companyID, themeID)
	if err != nil {
		return nil, err
	}
	if input.Type != theme.Type {
		return nil, fmt.Errorf("theme %s is an %s theme: %w", theme.ID, theme.Type, themes.ErrNotFound)
	}

	theme.Name = input.Name
	if len(input.Colors) > 0 {
		theme.Colors = normalizeColors(input.Colors)
	}
	if err := s.repo.Update(ctx, theme); err != nil {
		return nil, err
	}
	return theme, nil
}

func (s *themeService) Delete(ctx context.Context, companyID, themeID string) error {
	theme, err := s.editable(ctx, companyID, themeID)
	if err != nil {
		return err
	}

	activeID, err := s.settings.Get(ctx, companyID, activeKey(theme.Type))
	if err != nil {
		return err
	}
	if activeID == theme.ID {
		return fmt.Errorf("theme %s: %w", theme.ID, themes.ErrThemeInUse)
	}

	return s.repo.Delete(ctx, theme.ID)
}

func (s *themeService) Activate(ctx context.Context, companyID, themeID string) (*themes.Theme, error) {
	theme, err := s.repo.GetByID(ctx, companyID, themeID)
	if err != nil {
		return nil, err
	}

	if err := s.settings.Update(ctx, companyID, map[string]string{activeKey(theme.Type): theme.ID}); err != nil {
		return nil, err
	}

	s.logger.Info("Activated ", theme.Type, " theme ", theme.ID, " for company ", companyID)
	return theme, nil
}

// Active returns the theme selected in the settings, falling back to the
// first system theme of the type.
func (s *themeService) Active(ctx context.Context, companyID, themeType string) (*themes.Theme, error) {
	activeID, err := s.settings.Get(ctx, companyID, activeKey(themeType))
	if err != nil {
		return nil, err
	}

	if activeID != "" {
		theme, err := s.repo.GetByID(ctx, companyID, activeID)
		switch {
		case err == nil && theme.Type == themeType:
			return theme, nil
		case err != nil && !errors.Is(err, themes.ErrNotFound):
			return nil, err
		}
		s.logger.Warn("Active ", themeType, " theme ", activeID, " of company ", companyID, " is gone, using default")
	}

	return s.firstSystemTheme(ctx, companyID, themeType)
}

func (s *themeService) UploadLogo(ctx context.Context, companyID, themeID, fileName string, content io.Reader) (*themes.Theme, error) {
	if s.assets == nil {
		return nil, themes.ErrNoAssets
	}

	ext := strings.ToLower(path.Ext(fileName))
	if !slices.Contains(themes.LogoExtensions, ext) {
		return nil, themes.ErrLogoType
	}

	theme, err := s.editable(ctx, companyID, themeID)
	if err != nil {
		return nil, err
	}

	name := path.Join("themes", companyID, theme.ID, "logo-"+uuid.NewString()+ext)
	url, err := s.assets.Upload(ctx, name, content)
	if err != nil {
		return nil, fmt.Errorf("failed to store logo: %w", err)
	}

	theme.LogoURL = url
	if err := s.repo.Update(ctx, theme); err != nil {
		if cleanupErr := s.assets.Delete(ctx, name); cleanupErr != nil {
			s.logger.Warn("Failed to remove orphaned logo ", name, ": ", cleanupErr)
		}
		return nil, err
	}
	return theme, nil
}

func (s *themeService) editable(ctx context.Context, companyID, themeID string) (*themes.Theme, error) {
	theme, err := s.repo.GetByID(ctx, companyID, themeID)
	if err != nil {
		return nil, err
	}
	if theme.IsSystem() {
		return nil, fmt.Errorf("theme %s: %w", theme.ID, themes.ErrSystemTheme)
	}
	return theme, nil
}

func (s *themeService) baseTheme(ctx context.Context, companyID string, input *themes.Input) (*themes.Theme, error) {
	if input.BaseThemeID == "" {
		return s.firstSystemTheme(ctx, companyID, input.Type)
	}

	base, err := s.repo.GetByID(ctx, companyID, input.BaseThemeID)
	if err != nil {
		return nil, err
	}
	if base.Type != input.Type {
		return nil, fmt.Errorf("base theme %s is an %s theme: %w", base.ID, base.Type, themes.ErrNotFound)
	}
	return base, nil
}

func (s *themeService) firstSystemTheme(ctx context.Context, companyID, themeType string) (*themes.Theme, error) {
	list, err := s.repo.List(ctx, companyID, themeType)
	if err != nil {
		return nil, err
	}
	for _, theme := range list {
		if theme.IsSystem() {
			return theme, nil
		}
	}
	return nil, fmt.Errorf("no system %s theme: %w", themeType, themes.ErrNotFound)
}

func activeKey(themeType string) string {
	if themeType == themes.TypeAdmin {
		return settings.KeyAdminThemeID
	}
	return settings.KeyClientThemeID
}

func copyColors(colors map[string]string) map[string]string {
	out := make(map[string]string, len(colors))
	for k, v := range colors {
		out[k] = v
	}
	return out
}

func normalizeColors(colors map[string]string) map[string]string {
	out := make(map[string]string, len(colors))
	for k, v := range colors {
		out[k] = strings.ToLower(v)
	}
	return out
}
