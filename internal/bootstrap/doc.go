// Package bootstrap builds the object graph shared by the REST server and the
// CLI from a RestConfig.
package bootstrap
