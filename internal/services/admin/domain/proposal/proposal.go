package proposal

import (
	"encoding/hex"
	"encoding/json"
	"strings"

	apperrors "github.com/tessera-net/tessera/internal/platform/errors"
)

// VoteRecord is one participant's recorded vote on a circuit proposal.
type VoteRecord struct {
	publicKey   []byte
	vote        Vote
	voterNodeID string
}

// NewVoteRecord validates and returns an immutable vote record.
func NewVoteRecord(publicKey []byte, vote Vote, voterNodeID string) (VoteRecord, error) {
	if len(publicKey) == 0 {
		return VoteRecord{}, apperrors.WithMetadata(apperrors.CodeVoteIncomplete,
			"vote record is missing a required field", map[string]string{"field": "public_key"})
	}
	if vote != VoteAccept && vote != VoteReject {
		return VoteRecord{}, apperrors.WithMetadata(apperrors.CodeVoteIncomplete,
			"vote record is missing a required field", map[string]string{"field": "vote"})
	}
	if strings.TrimSpace(voterNodeID) == "" {
		return VoteRecord{}, apperrors.WithMetadata(apperrors.CodeVoteIncomplete,
			"vote record is missing a required field", map[string]string{"field": "voter_node_id"})
	}
	return VoteRecord{
		publicKey:   append([]byte(nil), publicKey...),
		vote:        vote,
		voterNodeID: voterNodeID,
	}, nil
}

// PublicKey returns a copy of the voter's public key.
func (v VoteRecord) PublicKey() []byte {
	out := make([]byte, len(v.publicKey))
	copy(out, v.publicKey)
	return out
}

// Value returns the recorded vote.
func (v VoteRecord) Value() Vote { return v.vote }

// VoterNodeID returns the node the vote was cast from.
func (v VoteRecord) VoterNodeID() string { return v.voterNodeID }

// MarshalJSON renders the vote record in its canonical JSON view.
func (v VoteRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		PublicKey   string `json:"public_key"`
		Vote        Vote   `json:"vote"`
		VoterNodeID string `json:"voter_node_id"`
	}{
		PublicKey:   hex.EncodeToString(v.publicKey),
		Vote:        v.vote,
		VoterNodeID: v.voterNodeID,
	})
}

// CircuitProposal is a request to form or change a circuit, wrapping the
// proposed circuit definition and the votes accumulated so far.
type CircuitProposal struct {
	proposalType    ProposalType
	circuitID       string
	circuitHash     string
	requester       []byte
	requesterNodeID string
	circuit         ProposedCircuit
	votes           []VoteRecord
}

// ProposalType returns what the proposal asks the network to do.
func (p CircuitProposal) ProposalType() ProposalType { return p.proposalType }

// CircuitID returns the identifier of the circuit being proposed.
func (p CircuitProposal) CircuitID() string { return p.circuitID }

// CircuitHash returns the hash of the proposed circuit definition.
func (p CircuitProposal) CircuitHash() string { return p.circuitHash }

// Requester returns a copy of the proposing party's public key.
func (p CircuitProposal) Requester() []byte {
	out := make([]byte, len(p.requester))
	copy(out, p.requester)
	return out
}

// RequesterNodeID returns the node the proposal was submitted from.
func (p CircuitProposal) RequesterNodeID() string { return p.requesterNodeID }

// Circuit returns the proposed circuit definition.
func (p CircuitProposal) Circuit() ProposedCircuit { return p.circuit }

// Votes returns a copy of the recorded votes, in stored order.
func (p CircuitProposal) Votes() []VoteRecord {
	return append([]VoteRecord(nil), p.votes...)
}

// MarshalJSON renders the proposal in its canonical JSON view.
func (p CircuitProposal) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ProposalType    ProposalType    `json:"proposal_type"`
		CircuitID       string          `json:"circuit_id"`
		CircuitHash     string          `json:"circuit_hash"`
		Requester       string          `json:"requester"`
		RequesterNodeID string          `json:"requester_node_id"`
		Circuit         ProposedCircuit `json:"circuit"`
		Votes           []VoteRecord    `json:"votes,omitempty"`
	}{
		ProposalType:    p.proposalType,
		CircuitID:       p.circuitID,
		CircuitHash:     p.circuitHash,
		Requester:       hex.EncodeToString(p.requester),
		RequesterNodeID: p.requesterNodeID,
		Circuit:         p.circuit,
		Votes:           p.votes,
	})
}

// CircuitProposalBuilder assembles a CircuitProposal field by field.
type CircuitProposalBuilder struct {
	proposalType    ProposalType
	circuitID       string
	circuitHash     string
	requester       []byte
	requesterNodeID string
	circuit         *ProposedCircuit
	votes           []VoteRecord
}

// NewCircuitProposalBuilder returns an empty proposal builder.
func NewCircuitProposalBuilder() *CircuitProposalBuilder {
	return &CircuitProposalBuilder{}
}

// WithProposalType sets what the proposal asks the network to do.
func (b *CircuitProposalBuilder) WithProposalType(value ProposalType) *CircuitProposalBuilder {
	b.proposalType = value
	return b
}

// WithCircuitID sets the identifier of the circuit being proposed.
func (b *CircuitProposalBuilder) WithCircuitID(circuitID string) *CircuitProposalBuilder {
	b.circuitID = circuitID
	return b
}

// WithCircuitHash sets the hash of the proposed circuit definition.
func (b *CircuitProposalBuilder) WithCircuitHash(circuitHash string) *CircuitProposalBuilder {
	b.circuitHash = circuitHash
	return b
}

// WithRequester sets the proposing party's public key.
func (b *CircuitProposalBuilder) WithRequester(requester []byte) *CircuitProposalBuilder {
	b.requester = append([]byte(nil), requester...)
	return b
}

// WithRequesterNodeID sets the node the proposal was submitted from.
func (b *CircuitProposalBuilder) WithRequesterNodeID(nodeID string) *CircuitProposalBuilder {
	b.requesterNodeID = nodeID
	return b
}

// WithCircuit sets the finished proposed circuit definition.
func (b *CircuitProposalBuilder) WithCircuit(circuit ProposedCircuit) *CircuitProposalBuilder {
	b.circuit = &circuit
	return b
}

// WithVotes replaces the recorded vote list.
func (b *CircuitProposalBuilder) WithVotes(votes []VoteRecord) *CircuitProposalBuilder {
	b.votes = append([]VoteRecord(nil), votes...)
	return b
}

// Build validates structural completeness and returns the immutable proposal.
func (b *CircuitProposalBuilder) Build() (CircuitProposal, error) {
	for _, required := range []struct {
		field string
		value string
	}{
		{"proposal_type", string(b.proposalType)},
		{"circuit_id", b.circuitID},
		{"circuit_hash", b.circuitHash},
		{"requester_node_id", b.requesterNodeID},
	} {
		if strings.TrimSpace(required.value) == "" {
			return CircuitProposal{}, apperrors.WithMetadata(apperrors.CodeProposalIncomplete,
				"circuit proposal is missing a required field", map[string]string{"field": required.field})
		}
	}
	if len(b.requester) == 0 {
		return CircuitProposal{}, apperrors.WithMetadata(apperrors.CodeProposalIncomplete,
			"circuit proposal is missing a required field", map[string]string{"field": "requester"})
	}
	if b.circuit == nil {
		return CircuitProposal{}, apperrors.WithMetadata(apperrors.CodeProposalIncomplete,
			"circuit proposal is missing a required field", map[string]string{"field": "circuit"})
	}
	return CircuitProposal{
		proposalType:    b.proposalType,
		circuitID:       b.circuitID,
		circuitHash:     b.circuitHash,
		requester:       append([]byte(nil), b.requester...),
		requesterNodeID: b.requesterNodeID,
		circuit:         *b.circuit,
		votes:           append([]VoteRecord(nil), b.votes...),
	}, nil
}
