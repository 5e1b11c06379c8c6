// Package event defines the administrative event wrapping a circuit
// proposal: a persisted notification that a proposal was submitted, voted
// on, accepted, rejected, or that the circuit became ready or disbanded.
package event

import (
	"encoding/hex"
	"encoding/json"

	apperrors "github.com/tessera-net/tessera/internal/platform/errors"
	"github.com/tessera-net/tessera/internal/services/admin/domain/proposal"
)

// Type is the kind of administrative event that was recorded.
type Type string

const (
	TypeProposalSubmitted Type = "ProposalSubmitted"
	TypeProposalVote      Type = "ProposalVote"
	TypeProposalAccepted  Type = "ProposalAccepted"
	TypeProposalRejected  Type = "ProposalRejected"
	TypeCircuitReady      Type = "CircuitReady"
	TypeCircuitDisbanded  Type = "CircuitDisbanded"
)

// ParseType decodes a stored event type code.
func ParseType(value string) (Type, error) {
	switch Type(value) {
	case TypeProposalSubmitted, TypeProposalVote, TypeProposalAccepted,
		TypeProposalRejected, TypeCircuitReady, TypeCircuitDisbanded:
		return Type(value), nil
	default:
		return "", apperrors.WithMetadata(apperrors.CodeInvalidEventType,
			"admin event type is not recognized", map[string]string{"value": value})
	}
}

// requiresRequester reports whether the event type carries the public key
// of the participant that triggered it.
func requiresRequester(t Type) bool {
	switch t {
	case TypeProposalVote, TypeProposalAccepted, TypeProposalRejected:
		return true
	default:
		return false
	}
}

// AdminEvent is a fully reconstructed administrative event. It owns its
// proposal exclusively and is immutable once created.
type AdminEvent struct {
	id        int64
	eventType Type
	requester []byte
	prop      proposal.CircuitProposal
}

// New converts a stored event row and its finished proposal into the
// terminal event object. Vote-shaped events must carry the requester's
// public key in the row's data column.
func New(id int64, eventType string, data []byte, prop proposal.CircuitProposal) (AdminEvent, error) {
	t, err := ParseType(eventType)
	if err != nil {
		return AdminEvent{}, err
	}

	var requester []byte
	if requiresRequester(t) {
		if len(data) == 0 {
			return AdminEvent{}, apperrors.WithMetadata(apperrors.CodeEventRequesterMissing,
				"admin event type requires a requester public key", map[string]string{"event_type": eventType})
		}
		requester = append([]byte(nil), data...)
	}

	return AdminEvent{
		id:        id,
		eventType: t,
		requester: requester,
		prop:      prop,
	}, nil
}

// ID returns the store-assigned event identifier.
func (e AdminEvent) ID() int64 { return e.id }

// EventType returns the kind of administrative event.
func (e AdminEvent) EventType() Type { return e.eventType }

// Requester returns a copy of the public key of the participant that
// triggered the event, or nil for event types that do not carry one.
func (e AdminEvent) Requester() []byte {
	if e.requester == nil {
		return nil
	}
	out := make([]byte, len(e.requester))
	copy(out, e.requester)
	return out
}

// Proposal returns the circuit proposal the event describes.
func (e AdminEvent) Proposal() proposal.CircuitProposal { return e.prop }

// MarshalJSON renders the event in its canonical JSON view.
func (e AdminEvent) MarshalJSON() ([]byte, error) {
	var requester string
	if len(e.requester) > 0 {
		requester = hex.EncodeToString(e.requester)
	}
	return json.Marshal(struct {
		ID        int64                    `json:"id"`
		EventType Type                     `json:"event_type"`
		Requester string                   `json:"requester,omitempty"`
		Proposal  proposal.CircuitProposal `json:"proposal"`
	}{
		ID:        e.id,
		EventType: e.eventType,
		Requester: requester,
		Proposal:  e.prop,
	})
}
