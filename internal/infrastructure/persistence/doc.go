// Package persistence provides the GORM implementations of the domain
// repositories, the database connection and the schema migration. Writes
// issued inside Transactor.WithinTransaction share one database transaction.
package persistence
