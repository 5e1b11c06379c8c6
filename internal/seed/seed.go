// Package seed loads YAML scenarios of administrative events and writes
// them into a development database, row by row, for manual inspection of
// the read path.
package seed

import (
	"context"
	"database/sql"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	apperrors "github.com/tessera-net/tessera/internal/platform/errors"
	"github.com/tessera-net/tessera/internal/services/admin/domain/event"
	"github.com/tessera-net/tessera/internal/services/admin/domain/proposal"
	"gopkg.in/yaml.v3"
)

// Scenario is a named batch of event fixtures applied together.
type Scenario struct {
	Name   string         `yaml:"name"`
	Events []EventFixture `yaml:"events"`
}

// EventFixture describes one administrative event to insert.
type EventFixture struct {
	EventType string          `yaml:"event_type"`
	Data      string          `yaml:"data"` // hex
	Proposal  ProposalFixture `yaml:"proposal"`
}

// ProposalFixture describes the circuit proposal attached to an event.
type ProposalFixture struct {
	ProposalType    string         `yaml:"proposal_type"`
	CircuitID       string         `yaml:"circuit_id"`
	CircuitHash     string         `yaml:"circuit_hash"`
	Requester       string         `yaml:"requester"` // hex
	RequesterNodeID string         `yaml:"requester_node_id"`
	Circuit         CircuitFixture `yaml:"circuit"`
	Votes           []VoteFixture  `yaml:"votes"`
}

// CircuitFixture describes the proposed circuit definition.
type CircuitFixture struct {
	AuthorizationType     string           `yaml:"authorization_type"`
	Persistence           string           `yaml:"persistence"`
	Durability            string           `yaml:"durability"`
	Routes                string           `yaml:"routes"`
	CircuitManagementType string           `yaml:"circuit_management_type"`
	ApplicationMetadata   string           `yaml:"application_metadata"` // hex
	Comments              *string          `yaml:"comments"`
	DisplayName           *string          `yaml:"display_name"`
	Roster                []ServiceFixture `yaml:"roster"`
	Members               []NodeFixture    `yaml:"members"`
}

// ServiceFixture describes one proposed service and its arguments.
type ServiceFixture struct {
	ServiceID   string            `yaml:"service_id"`
	ServiceType string            `yaml:"service_type"`
	NodeID      string            `yaml:"node_id"`
	Arguments   []ArgumentFixture `yaml:"arguments"`
}

// ArgumentFixture is one key/value service argument.
type ArgumentFixture struct {
	Key   string `yaml:"key"`
	Value string `yaml:"value"`
}

// NodeFixture describes one proposed member node.
type NodeFixture struct {
	NodeID    string   `yaml:"node_id"`
	Endpoints []string `yaml:"endpoints"`
}

// VoteFixture describes one recorded vote.
type VoteFixture struct {
	PublicKey   string `yaml:"public_key"` // hex
	Vote        string `yaml:"vote"`
	VoterNodeID string `yaml:"voter_node_id"`
}

func invalidScenario(message string, metadata map[string]string) error {
	return apperrors.WithMetadata(apperrors.CodeSeedInvalidScenario, message, metadata)
}

// Load decodes and normalizes a scenario from YAML.
func Load(r io.Reader) (Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return Scenario{}, fmt.Errorf("decode scenario: %w", err)
	}
	if err := normalize(&scenario); err != nil {
		return Scenario{}, err
	}
	return scenario, nil
}

// LoadFile decodes and normalizes a scenario from a YAML file.
func LoadFile(path string) (Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("open scenario file: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// normalize fills generated defaults and validates every stored code the
// read path will later have to decode.
func normalize(scenario *Scenario) error {
	if len(scenario.Events) == 0 {
		return invalidScenario("scenario has no events", map[string]string{"name": scenario.Name})
	}

	for i := range scenario.Events {
		fixture := &scenario.Events[i]

		eventType, err := event.ParseType(fixture.EventType)
		if err != nil {
			return err
		}

		prop := &fixture.Proposal
		if prop.ProposalType == "" {
			prop.ProposalType = string(proposal.ProposalTypeCreate)
		}
		if _, err := proposal.ParseProposalType(prop.ProposalType); err != nil {
			return err
		}
		if prop.CircuitID == "" {
			prop.CircuitID = uuid.NewString()
		}
		if prop.CircuitHash == "" {
			hash := uuid.New()
			prop.CircuitHash = hex.EncodeToString(hash[:])
		}
		if prop.Requester == "" {
			key := uuid.New()
			prop.Requester = hex.EncodeToString(key[:])
		}
		if _, err := hex.DecodeString(prop.Requester); err != nil {
			return invalidScenario("requester is not valid hex", map[string]string{"value": prop.Requester})
		}
		if prop.RequesterNodeID == "" {
			return invalidScenario("proposal is missing requester_node_id", map[string]string{"circuit_id": prop.CircuitID})
		}

		// Vote-shaped event types must carry a requester key in data.
		if fixture.Data == "" {
			switch eventType {
			case event.TypeProposalVote, event.TypeProposalAccepted, event.TypeProposalRejected:
				fixture.Data = prop.Requester
			}
		}
		if fixture.Data != "" {
			if _, err := hex.DecodeString(fixture.Data); err != nil {
				return invalidScenario("event data is not valid hex", map[string]string{"value": fixture.Data})
			}
		}

		if err := normalizeCircuit(prop); err != nil {
			return err
		}

		for v := range prop.Votes {
			vote := &prop.Votes[v]
			if _, err := proposal.ParseVote(vote.Vote); err != nil {
				return err
			}
			if vote.VoterNodeID == "" {
				return invalidScenario("vote is missing voter_node_id", map[string]string{"circuit_id": prop.CircuitID})
			}
			if vote.PublicKey == "" {
				key := uuid.New()
				vote.PublicKey = hex.EncodeToString(key[:])
			}
			if _, err := hex.DecodeString(vote.PublicKey); err != nil {
				return invalidScenario("vote public_key is not valid hex", map[string]string{"value": vote.PublicKey})
			}
		}
	}
	return nil
}

func normalizeCircuit(prop *ProposalFixture) error {
	circuit := &prop.Circuit
	if circuit.AuthorizationType == "" {
		circuit.AuthorizationType = string(proposal.AuthorizationTypeTrust)
	}
	if circuit.Persistence == "" {
		circuit.Persistence = string(proposal.PersistenceTypeAny)
	}
	if circuit.Durability == "" {
		circuit.Durability = string(proposal.DurabilityTypeNoDurability)
	}
	if circuit.Routes == "" {
		circuit.Routes = string(proposal.RouteTypeAny)
	}
	if _, err := proposal.ParseAuthorizationType(circuit.AuthorizationType); err != nil {
		return err
	}
	if _, err := proposal.ParsePersistenceType(circuit.Persistence); err != nil {
		return err
	}
	if _, err := proposal.ParseDurabilityType(circuit.Durability); err != nil {
		return err
	}
	if _, err := proposal.ParseRouteType(circuit.Routes); err != nil {
		return err
	}
	if circuit.CircuitManagementType == "" {
		return invalidScenario("circuit is missing circuit_management_type", map[string]string{"circuit_id": prop.CircuitID})
	}
	if circuit.ApplicationMetadata != "" {
		if _, err := hex.DecodeString(circuit.ApplicationMetadata); err != nil {
			return invalidScenario("application_metadata is not valid hex", map[string]string{"value": circuit.ApplicationMetadata})
		}
	}

	for i, svc := range circuit.Roster {
		if svc.ServiceID == "" || svc.ServiceType == "" || svc.NodeID == "" {
			return invalidScenario("roster service is incomplete", map[string]string{
				"circuit_id": prop.CircuitID,
				"index":      fmt.Sprintf("%d", i),
			})
		}
	}
	for i, node := range circuit.Members {
		if node.NodeID == "" || len(node.Endpoints) == 0 {
			return invalidScenario("member node is incomplete", map[string]string{
				"circuit_id": prop.CircuitID,
				"index":      fmt.Sprintf("%d", i),
			})
		}
	}
	return nil
}

func mustHex(value string) []byte {
	out, _ := hex.DecodeString(value)
	return out
}

// Apply inserts every event of a normalized scenario inside one
// transaction and returns the assigned event ids in insertion order.
func Apply(ctx context.Context, db *sql.DB, scenario Scenario) ([]int64, error) {
	if db == nil {
		return nil, fmt.Errorf("database is required")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin seed tx: %w", err)
	}
	defer tx.Rollback()

	var ids []int64
	for _, fixture := range scenario.Events {
		id, err := applyEvent(ctx, tx, fixture)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit seed tx: %w", err)
	}
	return ids, nil
}

func applyEvent(ctx context.Context, tx *sql.Tx, fixture EventFixture) (int64, error) {
	var data []byte
	if fixture.Data != "" {
		data = mustHex(fixture.Data)
	}
	result, err := tx.ExecContext(ctx,
		`INSERT INTO admin_service_event (event_type, data) VALUES (?, ?)`,
		fixture.EventType, data)
	if err != nil {
		return 0, fmt.Errorf("insert event: %w", err)
	}
	eventID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("event id: %w", err)
	}

	prop := fixture.Proposal
	_, err = tx.ExecContext(ctx, `
INSERT INTO admin_event_circuit_proposal
    (event_id, proposal_type, circuit_id, circuit_hash, requester, requester_node_id)
VALUES (?, ?, ?, ?, ?, ?)`,
		eventID, prop.ProposalType, prop.CircuitID, prop.CircuitHash,
		mustHex(prop.Requester), prop.RequesterNodeID)
	if err != nil {
		return 0, fmt.Errorf("insert circuit proposal: %w", err)
	}

	circuit := prop.Circuit
	var metadata []byte
	if circuit.ApplicationMetadata != "" {
		metadata = mustHex(circuit.ApplicationMetadata)
	}
	_, err = tx.ExecContext(ctx, `
INSERT INTO admin_event_proposed_circuit
    (event_id, circuit_id, authorization_type, persistence, durability, routes,
     circuit_management_type, application_metadata, comments, display_name)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		eventID, prop.CircuitID, circuit.AuthorizationType, circuit.Persistence,
		circuit.Durability, circuit.Routes, circuit.CircuitManagementType,
		metadata, circuit.Comments, circuit.DisplayName)
	if err != nil {
		return 0, fmt.Errorf("insert proposed circuit: %w", err)
	}

	for _, svc := range circuit.Roster {
		_, err = tx.ExecContext(ctx, `
INSERT INTO admin_event_proposed_service (event_id, service_id, service_type, node_id)
VALUES (?, ?, ?, ?)`,
			eventID, svc.ServiceID, svc.ServiceType, svc.NodeID)
		if err != nil {
			return 0, fmt.Errorf("insert proposed service: %w", err)
		}
		for pos, arg := range svc.Arguments {
			_, err = tx.ExecContext(ctx, `
INSERT INTO admin_event_proposed_service_argument (event_id, service_id, key, value, position)
VALUES (?, ?, ?, ?, ?)`,
				eventID, svc.ServiceID, arg.Key, arg.Value, pos)
			if err != nil {
				return 0, fmt.Errorf("insert service argument: %w", err)
			}
		}
	}

	for _, node := range circuit.Members {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO admin_event_proposed_node (event_id, node_id) VALUES (?, ?)`,
			eventID, node.NodeID)
		if err != nil {
			return 0, fmt.Errorf("insert proposed node: %w", err)
		}
		for pos, endpoint := range node.Endpoints {
			_, err = tx.ExecContext(ctx, `
INSERT INTO admin_event_proposed_node_endpoint (event_id, node_id, endpoint, position)
VALUES (?, ?, ?, ?)`,
				eventID, node.NodeID, endpoint, pos)
			if err != nil {
				return 0, fmt.Errorf("insert node endpoint: %w", err)
			}
		}
	}

	for pos, vote := range prop.Votes {
		_, err = tx.ExecContext(ctx, `
INSERT INTO admin_event_vote_record (event_id, voter_public_key, vote, voter_node_id, position)
VALUES (?, ?, ?, ?, ?)`,
			eventID, mustHex(vote.PublicKey), vote.Vote, vote.VoterNodeID, pos)
		if err != nil {
			return 0, fmt.Errorf("insert vote record: %w", err)
		}
	}

	return eventID, nil
}
