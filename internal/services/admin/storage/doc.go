// Package storage defines the admin event store contract and the error
// taxonomy its callers rely on. Backend implementations live in the
// sqlite and postgres subpackages; the shared reconstruction logic lives
// in sqlstore.
package storage
