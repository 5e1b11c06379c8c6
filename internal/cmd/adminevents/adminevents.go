// Package adminevents implements the admin-events command: it reads
// reconstructed administrative events from a store and prints them as JSON.
package adminevents

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	platformcmd "github.com/tessera-net/tessera/internal/platform/cmd"
	"github.com/tessera-net/tessera/internal/services/admin/domain/event"
	"github.com/tessera-net/tessera/internal/services/admin/storage"
	"github.com/tessera-net/tessera/internal/services/admin/storage/postgres"
	"github.com/tessera-net/tessera/internal/services/admin/storage/sqlite"
)

// Config holds admin-events command configuration.
type Config struct {
	DBPath         string `env:"TESSERA_DB_PATH"`
	PostgresDSN    string `env:"TESSERA_POSTGRES_DSN"`
	IDs            string
	Since          int64
	ManagementType string
}

// ParseConfig loads environment defaults and then parses flags.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "path to the SQLite database")
	fs.StringVar(&cfg.PostgresDSN, "postgres", cfg.PostgresDSN, "PostgreSQL connection string (overrides -db)")
	fs.StringVar(&cfg.IDs, "ids", "", "comma-separated event ids to fetch")
	fs.Int64Var(&cfg.Since, "since", 0, "only events with an id greater than this value")
	fs.StringVar(&cfg.ManagementType, "management-type", "", "only events whose circuit carries this management type")
	if err := platformcmd.ParseConfigFromArgs(&cfg, fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func parseIDs(value string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse event id %q: %w", part, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func openStore(cfg Config) (storage.EventStore, func() error, error) {
	if cfg.PostgresDSN != "" {
		store, err := postgres.Open(cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	}
	if cfg.DBPath == "" {
		return nil, nil, fmt.Errorf("a database is required: set -db, -postgres, or TESSERA_DB_PATH")
	}
	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}
	return store, store.Close, nil
}

// Run executes the admin-events command, writing the selected events as
// indented JSON to out.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	store, closeStore, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = closeStore() }()

	events, err := listEvents(ctx, store, cfg)
	if err != nil {
		return err
	}
	return writeEvents(out, events)
}

func listEvents(ctx context.Context, store storage.EventStore, cfg Config) ([]event.AdminEvent, error) {
	if cfg.IDs != "" {
		ids, err := parseIDs(cfg.IDs)
		if err != nil {
			return nil, err
		}
		return store.ListEvents(ctx, ids)
	}
	if cfg.ManagementType != "" {
		return store.ListEventsByManagementTypeSince(ctx, cfg.ManagementType, cfg.Since)
	}
	return store.ListEventsSince(ctx, cfg.Since)
}

func writeEvents(out io.Writer, events []event.AdminEvent) error {
	if events == nil {
		events = []event.AdminEvent{}
	}
	raw, err := json.MarshalIndent(events, "", "  ")
	if err != nil {
		return fmt.Errorf("encode events: %w", err)
	}
	if _, err := fmt.Fprintln(out, string(raw)); err != nil {
		return fmt.Errorf("write events: %w", err)
	}
	return nil
}
