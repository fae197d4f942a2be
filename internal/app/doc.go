// Package app implements the billing use cases on top of the domain
// repositories. Services validate their input, run multi-row changes inside
// a request transaction and log every state change.
package app
