// Package postgres provides the PostgreSQL-backed admin event store.
package postgres
