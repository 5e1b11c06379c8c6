package sqlite

import (
	"context"
	"fmt"

	"github.com/tessera-net/tessera/internal/services/admin/domain/event"
	"github.com/tessera-net/tessera/internal/services/admin/storage/sqlstore"
)

// ListEvents reconstructs the events matching the given identifier set,
// sorted ascending by event id. All reconstruction queries run inside a
// single transaction so they observe one snapshot of the store.
func (s *Store) ListEvents(ctx context.Context, eventIDs []int64) ([]event.AdminEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if len(eventIDs) == 0 {
		return nil, nil
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin list events tx: %w", err)
	}
	defer tx.Rollback()

	events, err := sqlstore.ListEvents(ctx, tx, sqlstore.SQLite, eventIDs)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit list events tx: %w", err)
	}
	return events, nil
}

// ListEventsSince reconstructs all events with an id greater than start,
// sorted ascending by event id.
func (s *Store) ListEventsSince(ctx context.Context, start int64) ([]event.AdminEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin list events tx: %w", err)
	}
	defer tx.Rollback()

	ids, err := sqlstore.ListEventIDsSince(ctx, tx, sqlstore.SQLite, start)
	if err != nil {
		return nil, err
	}
	events, err := sqlstore.ListEvents(ctx, tx, sqlstore.SQLite, ids)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit list events tx: %w", err)
	}
	return events, nil
}

// ListEventsByManagementTypeSince reconstructs all events with an id greater
// than start whose proposed circuit carries the given management type,
// sorted ascending by event id.
func (s *Store) ListEventsByManagementTypeSince(ctx context.Context, managementType string, start int64) ([]event.AdminEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin list events tx: %w", err)
	}
	defer tx.Rollback()

	ids, err := sqlstore.ListEventIDsByManagementTypeSince(ctx, tx, sqlstore.SQLite, managementType, start)
	if err != nil {
		return nil, err
	}
	events, err := sqlstore.ListEvents(ctx, tx, sqlstore.SQLite, ids)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit list events tx: %w", err)
	}
	return events, nil
}
