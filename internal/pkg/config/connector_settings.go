package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// AzureCloudProvider represents Microsoft Azure cloud provider
const AzureCloudProvider = "azure"

// BlobConnectorSettings holds the object storage used for theme assets
type BlobConnectorSettings struct {
	CloudProvider    string `mapstructure:"cloud_provider" validate:"required,oneof=azure"`
	ConnectionString string `mapstructure:"connection_string" validate:"required"`
	ContainerName    string `mapstructure:"container_name" validate:"required"`
}

// Validate checks that all fields in BlobConnectorSettings are valid
func (s *BlobConnectorSettings) Validate() error {
	validate := validator.New()

	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("validation failed for BlobConnectorSettings: %w", err)
	}
	return nil
}

// PluginSettings points at the directory holding plugin manifests
type PluginSettings struct {
	Dir string `mapstructure:"dir" validate:"required"`
}
