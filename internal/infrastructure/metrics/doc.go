// Package metrics exposes prometheus collectors for HTTP requests and cron runs.
package metrics
