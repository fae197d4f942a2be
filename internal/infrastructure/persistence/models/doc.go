// Package models contains GORM database models for the infrastructure layer.
// These models handle database persistence and are separated from domain
// entities so that storage details do not leak into the domain.
package models
