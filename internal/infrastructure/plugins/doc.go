// Package plugins reads plugin manifests from the plugin directory.
package plugins
