// Package sqlite provides the SQLite-backed admin event store.
package sqlite
