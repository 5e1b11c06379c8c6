package sqlite

import (
	"context"
	"reflect"
	"testing"

	"github.com/tessera-net/tessera/internal/services/admin/domain/event"
	"github.com/tessera-net/tessera/internal/services/admin/domain/proposal"
	"github.com/tessera-net/tessera/internal/services/admin/storage"
)

func exec(t *testing.T, store *Store, query string, args ...any) {
	t.Helper()
	if _, err := store.DB().Exec(query, args...); err != nil {
		t.Fatalf("exec %q: %v", query, err)
	}
}

func seedEventRow(t *testing.T, store *Store, id int64, eventType string, data []byte) {
	t.Helper()
	exec(t, store, `INSERT INTO admin_service_event (id, event_type, data) VALUES (?, ?, ?)`,
		id, eventType, data)
}

func seedProposalRow(t *testing.T, store *Store, eventID int64, proposalType, circuitID string, requester []byte, requesterNodeID string) {
	t.Helper()
	exec(t, store, `
INSERT INTO admin_event_circuit_proposal
    (event_id, proposal_type, circuit_id, circuit_hash, requester, requester_node_id)
VALUES (?, ?, ?, ?, ?, ?)`,
		eventID, proposalType, circuitID, "hash-"+circuitID, requester, requesterNodeID)
}

func seedCircuitRow(t *testing.T, store *Store, eventID int64, circuitID, routes, managementType string) {
	t.Helper()
	exec(t, store, `
INSERT INTO admin_event_proposed_circuit
    (event_id, circuit_id, authorization_type, persistence, durability, routes, circuit_management_type)
VALUES (?, ?, 'Trust', 'Any', 'NoDurability', ?, ?)`,
		eventID, circuitID, routes, managementType)
}

func seedServiceRow(t *testing.T, store *Store, eventID int64, serviceID, serviceType, nodeID string) {
	t.Helper()
	exec(t, store, `
INSERT INTO admin_event_proposed_service (event_id, service_id, service_type, node_id)
VALUES (?, ?, ?, ?)`,
		eventID, serviceID, serviceType, nodeID)
}

func seedArgumentRow(t *testing.T, store *Store, eventID int64, serviceID, key, value string, position int) {
	t.Helper()
	exec(t, store, `
INSERT INTO admin_event_proposed_service_argument (event_id, service_id, key, value, position)
VALUES (?, ?, ?, ?, ?)`,
		eventID, serviceID, key, value, position)
}

func seedNodeRow(t *testing.T, store *Store, eventID int64, nodeID string, endpoints ...string) {
	t.Helper()
	exec(t, store, `INSERT INTO admin_event_proposed_node (event_id, node_id) VALUES (?, ?)`,
		eventID, nodeID)
	for i, endpoint := range endpoints {
		exec(t, store, `
INSERT INTO admin_event_proposed_node_endpoint (event_id, node_id, endpoint, position)
VALUES (?, ?, ?, ?)`,
			eventID, nodeID, endpoint, i)
	}
}

func seedVoteRow(t *testing.T, store *Store, eventID int64, publicKey []byte, vote, voterNodeID string, position int) {
	t.Helper()
	exec(t, store, `
INSERT INTO admin_event_vote_record (event_id, voter_public_key, vote, voter_node_id, position)
VALUES (?, ?, ?, ?, ?)`,
		eventID, publicKey, vote, voterNodeID, position)
}

// seedCompleteEvent inserts the minimal event/proposal/circuit triple that
// reconstruction requires.
func seedCompleteEvent(t *testing.T, store *Store, id int64, managementType string) {
	t.Helper()
	seedEventRow(t, store, id, string(event.TypeProposalSubmitted), nil)
	seedProposalRow(t, store, id, string(proposal.ProposalTypeCreate), "circuit-01", []byte{0x0a, 0x0b}, "node-a")
	seedCircuitRow(t, store, id, "circuit-01", string(proposal.RouteTypeAny), managementType)
}

func TestListEventsEmptyInput(t *testing.T) {
	store := openTempStore(t)

	events, err := store.ListEvents(context.Background(), nil)
	if err != nil {
		t.Fatalf("ListEvents error: %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("ListEvents returned %d events, want 0", len(events))
	}
}

func TestListEventsUnknownIDs(t *testing.T) {
	store := openTempStore(t)
	seedCompleteEvent(t, store, 1, "gameroom")

	events, err := store.ListEvents(context.Background(), []int64{404, 405})
	if err != nil {
		t.Fatalf("ListEvents error: %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("ListEvents returned %d events, want 0", len(events))
	}
}

func TestListEventsReconstructsFullEvent(t *testing.T) {
	store := openTempStore(t)

	requester := []byte{0xde, 0xad, 0xbe, 0xef}
	seedEventRow(t, store, 7, string(event.TypeProposalVote), requester)
	seedProposalRow(t, store, 7, string(proposal.ProposalTypeCreate), "circuit-07", requester, "node-a")
	exec(t, store, `
INSERT INTO admin_event_proposed_circuit
    (event_id, circuit_id, authorization_type, persistence, durability, routes,
     circuit_management_type, application_metadata, comments, display_name)
VALUES (7, 'circuit-07', 'Trust', 'Any', 'NoDurability', 'Any', 'gameroom', ?, 'test circuit', 'Circuit Seven')`,
		[]byte{0x01, 0x02})

	seedServiceRow(t, store, 7, "svc-a", "scabbard", "node-a")
	seedArgumentRow(t, store, 7, "svc-a", "admin_keys", "[key1]", 0)
	seedArgumentRow(t, store, 7, "svc-a", "peer_services", "[svc-b]", 1)
	seedServiceRow(t, store, 7, "svc-b", "scabbard", "node-b")

	seedNodeRow(t, store, 7, "node-a", "tcps://a1:8044", "tcps://a2:8044", "tcps://a3:8044")

	seedVoteRow(t, store, 7, []byte{0x11}, string(proposal.VoteAccept), "node-b", 0)
	seedVoteRow(t, store, 7, []byte{0x22}, string(proposal.VoteReject), "node-c", 1)

	events, err := store.ListEvents(context.Background(), []int64{7})
	if err != nil {
		t.Fatalf("ListEvents error: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("ListEvents returned %d events, want 1", len(events))
	}

	evt := events[0]
	if evt.ID() != 7 {
		t.Errorf("ID = %d, want 7", evt.ID())
	}
	if evt.EventType() != event.TypeProposalVote {
		t.Errorf("EventType = %q, want %q", evt.EventType(), event.TypeProposalVote)
	}
	if !reflect.DeepEqual(evt.Requester(), requester) {
		t.Errorf("Requester = %x, want %x", evt.Requester(), requester)
	}

	prop := evt.Proposal()
	if prop.ProposalType() != proposal.ProposalTypeCreate {
		t.Errorf("ProposalType = %q, want %q", prop.ProposalType(), proposal.ProposalTypeCreate)
	}
	if prop.CircuitID() != "circuit-07" {
		t.Errorf("CircuitID = %q, want circuit-07", prop.CircuitID())
	}
	if prop.RequesterNodeID() != "node-a" {
		t.Errorf("RequesterNodeID = %q, want node-a", prop.RequesterNodeID())
	}

	circuit := prop.Circuit()
	if circuit.CircuitManagementType() != "gameroom" {
		t.Errorf("CircuitManagementType = %q, want gameroom", circuit.CircuitManagementType())
	}
	if !reflect.DeepEqual(circuit.ApplicationMetadata(), []byte{0x01, 0x02}) {
		t.Errorf("ApplicationMetadata = %x, want 0102", circuit.ApplicationMetadata())
	}
	if comments := circuit.Comments(); comments == nil || *comments != "test circuit" {
		t.Errorf("Comments = %v, want 'test circuit'", comments)
	}
	if name := circuit.DisplayName(); name == nil || *name != "Circuit Seven" {
		t.Errorf("DisplayName = %v, want 'Circuit Seven'", name)
	}

	roster := circuit.Roster()
	if len(roster) != 2 {
		t.Fatalf("roster has %d services, want 2", len(roster))
	}
	byID := make(map[string]proposal.ProposedService, len(roster))
	for _, svc := range roster {
		byID[svc.ServiceID()] = svc
	}
	svcA, ok := byID["svc-a"]
	if !ok {
		t.Fatal("roster is missing svc-a")
	}
	wantArgs := []proposal.Argument{
		{Key: "admin_keys", Value: "[key1]"},
		{Key: "peer_services", Value: "[svc-b]"},
	}
	if !reflect.DeepEqual(svcA.Arguments(), wantArgs) {
		t.Errorf("svc-a arguments = %v, want %v", svcA.Arguments(), wantArgs)
	}
	svcB, ok := byID["svc-b"]
	if !ok {
		t.Fatal("roster is missing svc-b")
	}
	if args := svcB.Arguments(); len(args) != 0 {
		t.Errorf("svc-b arguments = %v, want none", args)
	}

	members := circuit.Members()
	if len(members) != 1 {
		t.Fatalf("members has %d nodes, want 1", len(members))
	}
	wantEndpoints := []string{"tcps://a1:8044", "tcps://a2:8044", "tcps://a3:8044"}
	if !reflect.DeepEqual(members[0].Endpoints(), wantEndpoints) {
		t.Errorf("endpoints = %v, want %v", members[0].Endpoints(), wantEndpoints)
	}

	votes := prop.Votes()
	if len(votes) != 2 {
		t.Fatalf("votes has %d records, want 2", len(votes))
	}
	if votes[0].Value() != proposal.VoteAccept || votes[0].VoterNodeID() != "node-b" {
		t.Errorf("votes[0] = %q from %q, want Accept from node-b", votes[0].Value(), votes[0].VoterNodeID())
	}
	if votes[1].Value() != proposal.VoteReject || votes[1].VoterNodeID() != "node-c" {
		t.Errorf("votes[1] = %q from %q, want Reject from node-c", votes[1].Value(), votes[1].VoterNodeID())
	}
}

func TestListEventsAscendingOrder(t *testing.T) {
	store := openTempStore(t)
	for _, id := range []int64{3, 1, 2} {
		seedCompleteEvent(t, store, id, "gameroom")
	}

	events, err := store.ListEvents(context.Background(), []int64{2, 3, 1})
	if err != nil {
		t.Fatalf("ListEvents error: %v", err)
	}

	var got []int64
	for _, evt := range events {
		got = append(got, evt.ID())
	}
	want := []int64{1, 2, 3}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("event ids = %v, want %v", got, want)
	}
}

func TestListEventsDuplicateIDs(t *testing.T) {
	store := openTempStore(t)
	seedCompleteEvent(t, store, 1, "gameroom")

	events, err := store.ListEvents(context.Background(), []int64{1, 1, 1})
	if err != nil {
		t.Fatalf("ListEvents error: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("ListEvents returned %d events, want 1", len(events))
	}
}

func TestListEventsOmitsIncompleteTriple(t *testing.T) {
	store := openTempStore(t)
	seedCompleteEvent(t, store, 1, "gameroom")

	// Event 2 has no proposed circuit row, event 3 has no proposal row.
	seedEventRow(t, store, 2, string(event.TypeProposalSubmitted), nil)
	seedProposalRow(t, store, 2, string(proposal.ProposalTypeCreate), "circuit-02", []byte{0x01}, "node-a")
	seedEventRow(t, store, 3, string(event.TypeProposalSubmitted), nil)
	seedCircuitRow(t, store, 3, "circuit-03", string(proposal.RouteTypeAny), "gameroom")

	events, err := store.ListEvents(context.Background(), []int64{1, 2, 3})
	if err != nil {
		t.Fatalf("ListEvents error: %v", err)
	}
	if len(events) != 1 || events[0].ID() != 1 {
		t.Fatalf("events = %v, want only event 1", events)
	}
}

func TestListEventsInvalidRouteTypeFailsWholeCall(t *testing.T) {
	store := openTempStore(t)
	seedCompleteEvent(t, store, 1, "gameroom")
	seedEventRow(t, store, 2, string(event.TypeProposalSubmitted), nil)
	seedProposalRow(t, store, 2, string(proposal.ProposalTypeCreate), "circuit-02", []byte{0x01}, "node-a")
	seedCircuitRow(t, store, 2, "circuit-02", "Broadcast", "gameroom")

	events, err := store.ListEvents(context.Background(), []int64{1, 2})
	if err == nil {
		t.Fatal("ListEvents with an unknown route type should fail")
	}
	if !storage.IsConversion(err) {
		t.Errorf("IsConversion(%v) = false, want true", err)
	}
	if events != nil {
		t.Errorf("events = %v, want nil on failure", events)
	}
}

func TestListEventsVoteTypeRequiresRequesterData(t *testing.T) {
	store := openTempStore(t)
	seedEventRow(t, store, 1, string(event.TypeProposalAccepted), nil)
	seedProposalRow(t, store, 1, string(proposal.ProposalTypeCreate), "circuit-01", []byte{0x01}, "node-a")
	seedCircuitRow(t, store, 1, "circuit-01", string(proposal.RouteTypeAny), "gameroom")

	_, err := store.ListEvents(context.Background(), []int64{1})
	if err == nil {
		t.Fatal("ListEvents for a vote-shaped event without data should fail")
	}
	if !storage.IsConversion(err) {
		t.Errorf("IsConversion(%v) = false, want true", err)
	}
}

func TestListEventsSince(t *testing.T) {
	store := openTempStore(t)
	for _, id := range []int64{1, 2, 3, 4} {
		seedCompleteEvent(t, store, id, "gameroom")
	}

	events, err := store.ListEventsSince(context.Background(), 2)
	if err != nil {
		t.Fatalf("ListEventsSince error: %v", err)
	}

	var got []int64
	for _, evt := range events {
		got = append(got, evt.ID())
	}
	want := []int64{3, 4}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("event ids = %v, want %v", got, want)
	}
}

func TestListEventsByManagementTypeSince(t *testing.T) {
	store := openTempStore(t)
	seedCompleteEvent(t, store, 1, "gameroom")
	seedCompleteEvent(t, store, 2, "grid")
	seedCompleteEvent(t, store, 3, "gameroom")
	seedCompleteEvent(t, store, 4, "gameroom")

	events, err := store.ListEventsByManagementTypeSince(context.Background(), "gameroom", 1)
	if err != nil {
		t.Fatalf("ListEventsByManagementTypeSince error: %v", err)
	}

	var got []int64
	for _, evt := range events {
		got = append(got, evt.ID())
	}
	want := []int64{3, 4}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("event ids = %v, want %v", got, want)
	}
}

func TestListEventsContextCanceled(t *testing.T) {
	store := openTempStore(t)
	seedCompleteEvent(t, store, 1, "gameroom")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := store.ListEvents(ctx, []int64{1}); err == nil {
		t.Fatal("ListEvents with canceled context should fail")
	}
	if _, err := store.ListEventsSince(ctx, 0); err == nil {
		t.Fatal("ListEventsSince with canceled context should fail")
	}
	if _, err := store.ListEventsByManagementTypeSince(ctx, "gameroom", 0); err == nil {
		t.Fatal("ListEventsByManagementTypeSince with canceled context should fail")
	}
}
