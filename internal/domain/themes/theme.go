// Package themes describes the admin and client portal color themes.
package themes

import (
	"errors"
	"sort"
	"time"

	"github.com/JsAppNinja/blesta-sub003/internal/pkg/validation"
)

// Theme types
const (
	TypeAdmin  = "admin"
	TypeClient = "client"
)

// Errors returned by the theme service
var (
	ErrNotFound    = errors.New("theme not found")
	ErrSystemTheme = errors.New("system themes cannot be changed")
	ErrThemeInUse  = errors.New("theme is active")
	ErrNoAssets    = errors.New("asset storage is not configured")
	ErrLogoType    = errors.New("logo must be a png, jpg, gif or svg file")
)

// LogoExtensions lists the accepted logo file types.
var LogoExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".svg"}

// ColorKeys lists the colors every theme of a type must define.
var ColorKeys = map[string][]string{
	TypeAdmin: {
		"header_bg", "header_text", "navigation_bg", "navigation_text",
		"link", "button_bg", "button_text", "box_bg",
	},
	TypeClient: {
		"header_bg", "header_text", "page_bg", "text", "link",
		"button_bg", "button_text",
	},
}

// Theme entity. A nil CompanyID marks a system theme shared by every company.
type Theme struct {
	ID        string            `validate:"required,uuid4"`
	CompanyID *string           `validate:"omitempty,uuid4"`
	Type      string            `validate:"required,oneof=admin client"`
	Name      string            `validate:"required,max=128"`
	Colors    map[string]string `validate:"required,dive,keys,required,endkeys,hexcolor"`
	LogoURL   string            `validate:"omitempty,url"`
	DateAdded time.Time         `validate:"required"`
}

// Validate checks field rules and that exactly the color keys of the type are set.
func (t *Theme) Validate() error {
	errs := validation.Errors{}
	if err := validation.Struct(t); err != nil {
		fieldErrs, ok := validation.As(err)
		if !ok {
			return err
		}
		errs = fieldErrs
	}
	if missing := MissingColors(t.Type, t.Colors); len(missing) > 0 {
		errs.Add("Colors", "missing "+joinKeys(missing))
	}
	if extra := UnknownColors(t.Type, t.Colors); len(extra) > 0 {
		errs.Add("Colors", "unknown "+joinKeys(extra))
	}
	return errs.Err()
}

// IsSystem reports whether the theme is shared and read-only.
func (t *Theme) IsSystem() bool {
	return t.CompanyID == nil
}

// MissingColors lists required keys absent from colors.
func MissingColors(themeType string, colors map[string]string) []string {
	var missing []string
	for _, key := range ColorKeys[themeType] {
		if _, ok := colors[key]; !ok {
			missing = append(missing, key)
		}
	}
	return missing
}

// UnknownColors lists keys of colors not defined for the type.
func UnknownColors(themeType string, colors map[string]string) []string {
	known := make(map[string]bool)
	for _, key := range ColorKeys[themeType] {
		known[key] = true
	}
	var extra []string
	for key := range colors {
		if !known[key] {
			extra = append(extra, key)
		}
	}
	sort.Strings(extra)
	return extra
}

func joinKeys(keys []string) string {
	out := ""
	for i, k := range keys {
		if i > 0 {
			out += ", "
		}
		out += k
	}
	return out
}

// Input carries editable theme fields.
type Input struct {
	Type   string            `validate:"required,oneof=admin client"`
	Name   string            `validate:"required,max=128"`
	Colors map[string]string `validate:"omitempty,dive,keys,required,endkeys,hexcolor"`
	// BaseThemeID copies colors from an existing theme when Colors is empty.
	BaseThemeID string `validate:"omitempty,uuid4"`
}

// Validate for validating Input struct
func (in *Input) Validate() error {
	return validation.Struct(in)
}
