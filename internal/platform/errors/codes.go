package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Storage errors
	CodeStorageFailure Code = "STORAGE_FAILURE"

	// Stored-value decode errors
	CodeInvalidProposalType      Code = "PROPOSAL_INVALID_PROPOSAL_TYPE"
	CodeInvalidAuthorizationType Code = "CIRCUIT_INVALID_AUTHORIZATION_TYPE"
	CodeInvalidPersistenceType   Code = "CIRCUIT_INVALID_PERSISTENCE_TYPE"
	CodeInvalidDurabilityType    Code = "CIRCUIT_INVALID_DURABILITY_TYPE"
	CodeInvalidRouteType         Code = "CIRCUIT_INVALID_ROUTE_TYPE"
	CodeInvalidVote              Code = "VOTE_INVALID_VALUE"
	CodeInvalidEventType         Code = "EVENT_INVALID_TYPE"
	CodeEventRequesterMissing    Code = "EVENT_REQUESTER_MISSING"

	// Builder validation errors
	CodeServiceIncomplete  Code = "PROPOSED_SERVICE_INCOMPLETE"
	CodeNodeIncomplete     Code = "PROPOSED_NODE_INCOMPLETE"
	CodeCircuitIncomplete  Code = "PROPOSED_CIRCUIT_INCOMPLETE"
	CodeProposalIncomplete Code = "CIRCUIT_PROPOSAL_INCOMPLETE"
	CodeVoteIncomplete     Code = "VOTE_RECORD_INCOMPLETE"

	// Seed/fixture errors
	CodeSeedInvalidScenario Code = "SEED_INVALID_SCENARIO"

	// Generic lookup errors
	CodeNotFound Code = "NOT_FOUND"
)
