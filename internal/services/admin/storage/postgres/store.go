package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	"github.com/tessera-net/tessera/internal/services/admin/storage"
)

// Store provides a PostgreSQL-backed admin event store.
type Store struct {
	sqlDB *sql.DB
}

// Open connects to PostgreSQL using the provided connection string.
func Open(dsn string) (*Store, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("connection string is required")
	}

	sqlDB, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres db: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping postgres db: %w", err)
	}

	return &Store{sqlDB: sqlDB}, nil
}

// NewStore wraps an existing database handle. Used by tests to inject a
// mocked connection.
func NewStore(sqlDB *sql.DB) *Store {
	return &Store{sqlDB: sqlDB}
}

// Migrate creates the admin event tables if they do not exist.
func (s *Store) Migrate(ctx context.Context) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if _, err := s.sqlDB.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// Close closes the underlying PostgreSQL connection pool.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// DB exposes the underlying database handle for fixture loading.
func (s *Store) DB() *sql.DB {
	if s == nil {
		return nil
	}
	return s.sqlDB
}

var _ storage.EventStore = (*Store)(nil)
