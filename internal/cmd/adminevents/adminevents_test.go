package adminevents

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/tessera-net/tessera/internal/services/admin/storage/sqlite"
)

func seedDatabase(t *testing.T, path string, ids ...int64) {
	t.Helper()

	store, err := sqlite.Open(path)
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	defer store.Close()

	for _, id := range ids {
		statements := []struct {
			query string
			args  []any
		}{
			{`INSERT INTO admin_service_event (id, event_type, data) VALUES (?, 'ProposalSubmitted', NULL)`,
				[]any{id}},
			{`INSERT INTO admin_event_circuit_proposal
    (event_id, proposal_type, circuit_id, circuit_hash, requester, requester_node_id)
VALUES (?, 'Create', 'circuit-01', 'hash-01', ?, 'node-a')`,
				[]any{id, []byte{0x0a}}},
			{`INSERT INTO admin_event_proposed_circuit
    (event_id, circuit_id, authorization_type, persistence, durability, routes, circuit_management_type)
VALUES (?, 'circuit-01', 'Trust', 'Any', 'NoDurability', 'Any', 'gameroom')`,
				[]any{id}},
		}
		for _, stmt := range statements {
			if _, err := store.DB().Exec(stmt.query, stmt.args...); err != nil {
				t.Fatalf("seed event %d: %v", id, err)
			}
		}
	}
}

func eventIDs(t *testing.T, raw []byte) []int64 {
	t.Helper()
	var events []struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(raw, &events); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	var ids []int64
	for _, evt := range events {
		ids = append(ids, evt.ID)
	}
	return ids
}

func TestParseConfigFlagsOverrideEnv(t *testing.T) {
	t.Setenv("TESSERA_DB_PATH", "/env/admin.db")

	fs := flag.NewFlagSet("admin-events", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-db", "/flag/admin.db", "-ids", "1,2"})
	if err != nil {
		t.Fatalf("ParseConfig error: %v", err)
	}
	if cfg.DBPath != "/flag/admin.db" {
		t.Errorf("DBPath = %q, want /flag/admin.db", cfg.DBPath)
	}
	if cfg.IDs != "1,2" {
		t.Errorf("IDs = %q, want 1,2", cfg.IDs)
	}
}

func TestParseConfigEnvDefault(t *testing.T) {
	t.Setenv("TESSERA_DB_PATH", "/env/admin.db")

	fs := flag.NewFlagSet("admin-events", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("ParseConfig error: %v", err)
	}
	if cfg.DBPath != "/env/admin.db" {
		t.Errorf("DBPath = %q, want /env/admin.db", cfg.DBPath)
	}
}

func TestParseIDs(t *testing.T) {
	ids, err := parseIDs(" 3, 1 ,2 ")
	if err != nil {
		t.Fatalf("parseIDs error: %v", err)
	}
	if !reflect.DeepEqual(ids, []int64{3, 1, 2}) {
		t.Fatalf("ids = %v, want [3 1 2]", ids)
	}

	if _, err := parseIDs("1,x"); err == nil {
		t.Fatal("parseIDs with a non-numeric id should fail")
	}
}

func TestRunListByIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "admin.db")
	seedDatabase(t, path, 1, 2, 3)

	var out bytes.Buffer
	err := Run(context.Background(), Config{DBPath: path, IDs: "3,1"}, &out)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	ids := eventIDs(t, out.Bytes())
	if !reflect.DeepEqual(ids, []int64{1, 3}) {
		t.Fatalf("output ids = %v, want [1 3]", ids)
	}
}

func TestRunListSince(t *testing.T) {
	path := filepath.Join(t.TempDir(), "admin.db")
	seedDatabase(t, path, 1, 2, 3)

	var out bytes.Buffer
	err := Run(context.Background(), Config{DBPath: path, Since: 1}, &out)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	ids := eventIDs(t, out.Bytes())
	if !reflect.DeepEqual(ids, []int64{2, 3}) {
		t.Fatalf("output ids = %v, want [2 3]", ids)
	}
}

func TestRunListByManagementType(t *testing.T) {
	path := filepath.Join(t.TempDir(), "admin.db")
	seedDatabase(t, path, 1)

	var out bytes.Buffer
	err := Run(context.Background(), Config{DBPath: path, ManagementType: "grid"}, &out)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	if ids := eventIDs(t, out.Bytes()); len(ids) != 0 {
		t.Fatalf("output ids = %v, want none", ids)
	}
}

func TestRunRequiresDatabase(t *testing.T) {
	var out bytes.Buffer
	if err := Run(context.Background(), Config{}, &out); err == nil {
		t.Fatal("Run without a database should fail")
	}
}
