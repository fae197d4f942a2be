// Package plugins describes installable extensions and their manifests.
package plugins

import (
	"errors"
	"strings"
	"time"

	"github.com/JsAppNinja/blesta-sub003/internal/pkg/validation"
	"golang.org/x/mod/semver"
)

// ManifestFile is the manifest name inside a plugin directory.
const ManifestFile = "plugin.yaml"

// Errors returned by the plugin service
var (
	ErrNotFound         = errors.New("plugin not found")
	ErrManifestNotFound = errors.New("plugin manifest not found")
	ErrAlreadyInstalled = errors.New("plugin is already installed")
	ErrNoUpgrade        = errors.New("no newer plugin version available")
)

// Author of a plugin.
type Author struct {
	Name string `yaml:"name" validate:"required"`
	URL  string `yaml:"url" validate:"omitempty,url"`
}

// ManifestTask declares an automation task shipped by a plugin.
type ManifestTask struct {
	Key         string `yaml:"key" validate:"required,max=64"`
	Name        string `yaml:"name" validate:"required,max=128"`
	Description string `yaml:"description"`
	Type        string `yaml:"type" validate:"required,oneof=interval time schedule"`
	Interval    int    `yaml:"interval" validate:"required_if=Type interval,omitempty,min=1"`
	Time        string `yaml:"time" validate:"required_if=Type time,omitempty,clock"`
	Schedule    string `yaml:"schedule" validate:"required_if=Type schedule,omitempty,cronspec"`
}

// Manifest is the content of a plugin.yaml file.
type Manifest struct {
	Name        string         `yaml:"name" validate:"required,max=128"`
	Version     string         `yaml:"version" validate:"required"`
	Description string         `yaml:"description"`
	Authors     []Author       `yaml:"authors" validate:"dive"`
	CronTasks   []ManifestTask `yaml:"cron_tasks" validate:"dive"`
}

// Validate checks the manifest fields and its semantic version.
func (m *Manifest) Validate() error {
	errs := validation.Errors{}
	if err := validation.Struct(m); err != nil {
		fieldErrs, ok := validation.As(err)
		if !ok {
			return err
		}
		errs = fieldErrs
	}
	if m.Version != "" && !semver.IsValid(CanonicalVersion(m.Version)) {
		errs.Add("Version", "must be a semantic version")
	}
	seen := map[string]bool{}
	for _, task := range m.CronTasks {
		if seen[task.Key] {
			errs.Add("CronTasks", "duplicate task key "+task.Key)
		}
		seen[task.Key] = true
	}
	return errs.Err()
}

// CanonicalVersion adds the "v" prefix semver expects.
func CanonicalVersion(version string) string {
	version = strings.TrimSpace(version)
	if version == "" || strings.HasPrefix(version, "v") {
		return version
	}
	return "v" + version
}

// IsNewer reports whether candidate is a greater semantic version than current.
func IsNewer(candidate, current string) bool {
	c, cur := CanonicalVersion(candidate), CanonicalVersion(current)
	if !semver.IsValid(c) || !semver.IsValid(cur) {
		return false
	}
	return semver.Compare(c, cur) > 0
}

// Plugin is an installation of a plugin for one company.
type Plugin struct {
	ID            string    `validate:"required,uuid4"`
	CompanyID     string    `validate:"required,uuid4"`
	Dir           string    `validate:"required,max=64"`
	Name          string    `validate:"required,max=128"`
	Version       string    `validate:"required"`
	Description   string
	Enabled       bool
	DateInstalled time.Time `validate:"required"`
}

// Validate for validating Plugin struct
func (p *Plugin) Validate() error {
	return validation.Struct(p)
}

// Available is a manifest found on disk with its installation state.
type Available struct {
	Dir              string
	Manifest         *Manifest
	Installed        *Plugin
	UpgradeAvailable bool
}
