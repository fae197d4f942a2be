// Package config provides functionality for loading and managing application configuration.
//
// Settings are read from a YAML file through viper, overridden by BILLING_*
// environment variables and validated before use. Every section has its own
// settings struct with a Validate method so that tests and the CLI can build
// partial configurations without going through the loader.
package config
