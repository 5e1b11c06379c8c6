package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	apperrors "github.com/tessera-net/tessera/internal/platform/errors"
	"github.com/tessera-net/tessera/internal/services/admin/domain/event"
	"github.com/tessera-net/tessera/internal/services/admin/domain/proposal"
)

// eventSeed carries the event row and the partially-filled builder pair
// produced by the primary join, keyed by event id until final assembly.
type eventSeed struct {
	eventType string
	data      []byte
	prop      *proposal.CircuitProposalBuilder
	circuit   *proposal.ProposedCircuitBuilder
}

type serviceKey struct {
	eventID   int64
	serviceID string
}

type nodeKey struct {
	eventID int64
	nodeID  string
}

func storageErr(op string, err error) error {
	return apperrors.Wrap(apperrors.CodeStorageFailure, fmt.Sprintf("%s: %v", op, err), err)
}

// ListEvents reconstructs the administrative events matching the given
// identifier set, sorted ascending by event id. Ids without a complete
// event/proposal/circuit triple are omitted. Any decode, validation, or
// query failure aborts the whole reconstruction.
func ListEvents(ctx context.Context, q Querier, d Dialect, eventIDs []int64) ([]event.AdminEvent, error) {
	if len(eventIDs) == 0 {
		return nil, nil
	}

	seeds, err := loadEventSeeds(ctx, q, d, eventIDs)
	if err != nil {
		return nil, err
	}

	services, err := loadProposedServices(ctx, q, d, eventIDs)
	if err != nil {
		return nil, err
	}

	nodes, err := loadProposedNodes(ctx, q, d, eventIDs)
	if err != nil {
		return nil, err
	}

	votes, err := loadVoteRecords(ctx, q, d, eventIDs)
	if err != nil {
		return nil, err
	}

	events := make([]event.AdminEvent, 0, len(seeds))
	for id, seed := range seeds {
		if eventServices, ok := services[id]; ok {
			seed.circuit.WithRoster(eventServices)
		}
		if eventNodes, ok := nodes[id]; ok {
			seed.circuit.WithMembers(eventNodes)
		}
		circuit, err := seed.circuit.Build()
		if err != nil {
			return nil, err
		}
		seed.prop.WithCircuit(circuit)
		if eventVotes, ok := votes[id]; ok {
			seed.prop.WithVotes(eventVotes)
		}
		prop, err := seed.prop.Build()
		if err != nil {
			return nil, err
		}
		evt, err := event.New(id, seed.eventType, seed.data, prop)
		if err != nil {
			return nil, err
		}
		events = append(events, evt)
	}

	sort.Slice(events, func(i, j int) bool { return events[i].ID() < events[j].ID() })
	return events, nil
}

// ListEventIDsSince returns the ids of all events greater than start, in
// ascending order.
func ListEventIDsSince(ctx context.Context, q Querier, d Dialect, start int64) ([]int64, error) {
	query := fmt.Sprintf(`
SELECT id
FROM admin_service_event
WHERE id > %s
ORDER BY id
`, d.placeholders(1, 1))
	return queryIDs(ctx, q, "query admin event ids since", query, start)
}

// ListEventIDsByManagementTypeSince returns the ids of all events greater
// than start whose proposed circuit carries the given management type, in
// ascending order.
func ListEventIDsByManagementTypeSince(ctx context.Context, q Querier, d Dialect, managementType string, start int64) ([]int64, error) {
	query := fmt.Sprintf(`
SELECT e.id
FROM admin_service_event e
INNER JOIN admin_event_proposed_circuit pc ON pc.event_id = e.id
WHERE pc.circuit_management_type = %s AND e.id > %s
ORDER BY e.id
`, d.placeholders(1, 1), d.placeholders(2, 1))
	return queryIDs(ctx, q, "query admin event ids by management type", query, managementType, start)
}

func queryIDs(ctx context.Context, q Querier, op, query string, args ...any) ([]int64, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageErr(op, err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, storageErr(op, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr(op, err)
	}
	return ids, nil
}

// loadEventSeeds runs the primary join of the event row with its
// one-to-one circuit proposal and proposed circuit rows, decoding stored
// enumeration codes into a builder pair per event. Events lacking either
// child row are excluded by the inner joins.
func loadEventSeeds(ctx context.Context, q Querier, d Dialect, eventIDs []int64) (map[int64]eventSeed, error) {
	const op = "query admin events"
	query := fmt.Sprintf(`
SELECT e.id, e.event_type, e.data,
       cp.proposal_type, cp.circuit_id, cp.circuit_hash, cp.requester, cp.requester_node_id,
       pc.circuit_id, pc.authorization_type, pc.persistence, pc.durability, pc.routes,
       pc.circuit_management_type, pc.application_metadata, pc.comments, pc.display_name
FROM admin_service_event e
INNER JOIN admin_event_circuit_proposal cp ON cp.event_id = e.id
INNER JOIN admin_event_proposed_circuit pc ON pc.event_id = e.id
WHERE e.id IN (%s)
`, d.placeholders(1, len(eventIDs)))

	rows, err := q.QueryContext(ctx, query, idArgs(eventIDs)...)
	if err != nil {
		return nil, storageErr(op, err)
	}
	defer rows.Close()

	seeds := make(map[int64]eventSeed)
	for rows.Next() {
		var (
			id        int64
			eventType string
			data      []byte

			cpProposalType    string
			cpCircuitID       string
			cpCircuitHash     string
			cpRequester       []byte
			cpRequesterNodeID string

			pcCircuitID      string
			pcAuthorization  string
			pcPersistence    string
			pcDurability     string
			pcRoutes         string
			pcManagementType string
			pcMetadata       []byte
			pcComments       sql.NullString
			pcDisplayName    sql.NullString
		)
		if err := rows.Scan(
			&id, &eventType, &data,
			&cpProposalType, &cpCircuitID, &cpCircuitHash, &cpRequester, &cpRequesterNodeID,
			&pcCircuitID, &pcAuthorization, &pcPersistence, &pcDurability, &pcRoutes,
			&pcManagementType, &pcMetadata, &pcComments, &pcDisplayName,
		); err != nil {
			return nil, storageErr(op, err)
		}

		proposalType, err := proposal.ParseProposalType(cpProposalType)
		if err != nil {
			return nil, err
		}
		authorizationType, err := proposal.ParseAuthorizationType(pcAuthorization)
		if err != nil {
			return nil, err
		}
		persistence, err := proposal.ParsePersistenceType(pcPersistence)
		if err != nil {
			return nil, err
		}
		durability, err := proposal.ParseDurabilityType(pcDurability)
		if err != nil {
			return nil, err
		}
		routes, err := proposal.ParseRouteType(pcRoutes)
		if err != nil {
			return nil, err
		}

		prop := proposal.NewCircuitProposalBuilder().
			WithProposalType(proposalType).
			WithCircuitID(cpCircuitID).
			WithCircuitHash(cpCircuitHash).
			WithRequester(cpRequester).
			WithRequesterNodeID(cpRequesterNodeID)

		circuit := proposal.NewProposedCircuitBuilder().
			WithCircuitID(pcCircuitID).
			WithAuthorizationType(authorizationType).
			WithPersistence(persistence).
			WithDurability(durability).
			WithRoutes(routes).
			WithCircuitManagementType(pcManagementType)
		if len(pcMetadata) > 0 {
			circuit.WithApplicationMetadata(pcMetadata)
		}
		if pcComments.Valid {
			circuit.WithComments(pcComments.String)
		}
		if pcDisplayName.Valid {
			circuit.WithDisplayName(pcDisplayName.String)
		}

		seeds[id] = eventSeed{
			eventType: eventType,
			data:      data,
			prop:      prop,
			circuit:   circuit,
		}
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr(op, err)
	}
	return seeds, nil
}

// loadProposedServices left-joins proposed services with their optional
// arguments, folds argument rows by (event, service) key, and builds the
// finished services grouped by event id. The first row for a service seeds
// its builder; later rows only contribute arguments.
func loadProposedServices(ctx context.Context, q Querier, d Dialect, eventIDs []int64) (map[int64][]proposal.ProposedService, error) {
	const op = "query proposed services"
	query := fmt.Sprintf(`
SELECT s.event_id, s.service_id, s.service_type, s.node_id, a.key, a.value
FROM admin_event_proposed_service s
LEFT JOIN admin_event_proposed_service_argument a
    ON a.event_id = s.event_id AND a.service_id = s.service_id
WHERE s.event_id IN (%s)
ORDER BY s.event_id, s.service_id, a.position
`, d.placeholders(1, len(eventIDs)))

	rows, err := q.QueryContext(ctx, query, idArgs(eventIDs)...)
	if err != nil {
		return nil, storageErr(op, err)
	}
	defer rows.Close()

	builders := make(map[serviceKey]*proposal.ProposedServiceBuilder)
	arguments := make(map[serviceKey][]proposal.Argument)
	for rows.Next() {
		var (
			eventID     int64
			serviceID   string
			serviceType string
			nodeID      string
			argKey      sql.NullString
			argValue    sql.NullString
		)
		if err := rows.Scan(&eventID, &serviceID, &serviceType, &nodeID, &argKey, &argValue); err != nil {
			return nil, storageErr(op, err)
		}

		key := serviceKey{eventID: eventID, serviceID: serviceID}
		if argKey.Valid {
			arguments[key] = append(arguments[key], proposal.Argument{
				Key:   argKey.String,
				Value: argValue.String,
			})
		}
		if _, ok := builders[key]; !ok {
			builders[key] = proposal.NewProposedServiceBuilder().
				WithServiceID(serviceID).
				WithServiceType(serviceType).
				WithNodeID(nodeID)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr(op, err)
	}

	services := make(map[int64][]proposal.ProposedService)
	for key, builder := range builders {
		if args, ok := arguments[key]; ok {
			builder.WithArguments(args)
		}
		service, err := builder.Build()
		if err != nil {
			return nil, err
		}
		services[key.eventID] = append(services[key.eventID], service)
	}
	return services, nil
}

// loadProposedNodes inner-joins proposed nodes with their endpoints,
// accumulating endpoints per (event, node) key in stored order, and builds
// the finished nodes grouped by event id.
func loadProposedNodes(ctx context.Context, q Querier, d Dialect, eventIDs []int64) (map[int64][]proposal.ProposedNode, error) {
	const op = "query proposed nodes"
	query := fmt.Sprintf(`
SELECT n.event_id, n.node_id, ep.endpoint
FROM admin_event_proposed_node n
INNER JOIN admin_event_proposed_node_endpoint ep
    ON ep.event_id = n.event_id AND ep.node_id = n.node_id
WHERE n.event_id IN (%s)
ORDER BY n.event_id, n.node_id, ep.position
`, d.placeholders(1, len(eventIDs)))

	rows, err := q.QueryContext(ctx, query, idArgs(eventIDs)...)
	if err != nil {
		return nil, storageErr(op, err)
	}
	defer rows.Close()

	builders := make(map[nodeKey]*proposal.ProposedNodeBuilder)
	for rows.Next() {
		var (
			eventID  int64
			nodeID   string
			endpoint string
		)
		if err := rows.Scan(&eventID, &nodeID, &endpoint); err != nil {
			return nil, storageErr(op, err)
		}

		key := nodeKey{eventID: eventID, nodeID: nodeID}
		builder, ok := builders[key]
		if !ok {
			builder = proposal.NewProposedNodeBuilder().WithNodeID(nodeID)
			builders[key] = builder
		}
		builder.WithEndpoints(append(builder.Endpoints(), endpoint))
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr(op, err)
	}

	nodes := make(map[int64][]proposal.ProposedNode)
	for key, builder := range builders {
		node, err := builder.Build()
		if err != nil {
			return nil, err
		}
		nodes[key.eventID] = append(nodes[key.eventID], node)
	}
	return nodes, nil
}

// loadVoteRecords fetches and decodes vote rows grouped by event id, in
// stored order.
func loadVoteRecords(ctx context.Context, q Querier, d Dialect, eventIDs []int64) (map[int64][]proposal.VoteRecord, error) {
	const op = "query vote records"
	query := fmt.Sprintf(`
SELECT event_id, voter_public_key, vote, voter_node_id
FROM admin_event_vote_record
WHERE event_id IN (%s)
ORDER BY event_id, position
`, d.placeholders(1, len(eventIDs)))

	rows, err := q.QueryContext(ctx, query, idArgs(eventIDs)...)
	if err != nil {
		return nil, storageErr(op, err)
	}
	defer rows.Close()

	votes := make(map[int64][]proposal.VoteRecord)
	for rows.Next() {
		var (
			eventID     int64
			publicKey   []byte
			voteValue   string
			voterNodeID string
		)
		if err := rows.Scan(&eventID, &publicKey, &voteValue, &voterNodeID); err != nil {
			return nil, storageErr(op, err)
		}

		vote, err := proposal.ParseVote(voteValue)
		if err != nil {
			return nil, err
		}
		record, err := proposal.NewVoteRecord(publicKey, vote, voterNodeID)
		if err != nil {
			return nil, err
		}
		votes[eventID] = append(votes[eventID], record)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr(op, err)
	}
	return votes, nil
}
