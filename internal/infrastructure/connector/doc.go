// Package connector adapts external services: Azure Blob Storage for theme
// assets and Redis for the cron lock.
package connector
