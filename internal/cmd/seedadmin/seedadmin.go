// Package seedadmin implements the seed command: it loads a YAML scenario
// of administrative events and inserts its rows into a SQLite development
// database.
package seedadmin

import (
	"context"
	"flag"
	"fmt"
	"io"

	platformcmd "github.com/tessera-net/tessera/internal/platform/cmd"
	"github.com/tessera-net/tessera/internal/seed"
	"github.com/tessera-net/tessera/internal/services/admin/storage/sqlite"
)

// Config holds seed command configuration.
type Config struct {
	DBPath   string `env:"TESSERA_DB_PATH"`
	Scenario string
}

// ParseConfig loads environment defaults and then parses flags.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "path to the SQLite database")
	fs.StringVar(&cfg.Scenario, "scenario", "", "path to the YAML scenario file")
	if err := platformcmd.ParseConfigFromArgs(&cfg, fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run loads the scenario, applies it, and reports the assigned event ids.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	if cfg.DBPath == "" {
		return fmt.Errorf("a database is required: set -db or TESSERA_DB_PATH")
	}
	if cfg.Scenario == "" {
		return fmt.Errorf("a scenario file is required: set -scenario")
	}

	scenario, err := seed.LoadFile(cfg.Scenario)
	if err != nil {
		return err
	}

	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	ids, err := seed.Apply(ctx, store.DB(), scenario)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "seeded %d events", len(ids))
	if scenario.Name != "" {
		fmt.Fprintf(out, " from scenario %q", scenario.Name)
	}
	fmt.Fprintln(out)
	for _, id := range ids {
		fmt.Fprintf(out, "  event %d\n", id)
	}
	return nil
}
