package proposal

import (
	apperrors "github.com/tessera-net/tessera/internal/platform/errors"
)

// ProposalType describes what a circuit proposal asks the network to do.
type ProposalType string

const (
	ProposalTypeCreate       ProposalType = "Create"
	ProposalTypeUpdateRoster ProposalType = "UpdateRoster"
	ProposalTypeAddNode      ProposalType = "AddNode"
	ProposalTypeRemoveNode   ProposalType = "RemoveNode"
	ProposalTypeDisband      ProposalType = "Disband"
)

// ParseProposalType decodes a stored proposal type code.
func ParseProposalType(value string) (ProposalType, error) {
	switch ProposalType(value) {
	case ProposalTypeCreate, ProposalTypeUpdateRoster, ProposalTypeAddNode,
		ProposalTypeRemoveNode, ProposalTypeDisband:
		return ProposalType(value), nil
	default:
		return "", apperrors.WithMetadata(apperrors.CodeInvalidProposalType,
			"proposal type is not recognized", map[string]string{"value": value})
	}
}

// AuthorizationType describes how members of a circuit authenticate each other.
type AuthorizationType string

const (
	AuthorizationTypeTrust     AuthorizationType = "Trust"
	AuthorizationTypeChallenge AuthorizationType = "Challenge"
)

// ParseAuthorizationType decodes a stored authorization type code.
func ParseAuthorizationType(value string) (AuthorizationType, error) {
	switch AuthorizationType(value) {
	case AuthorizationTypeTrust, AuthorizationTypeChallenge:
		return AuthorizationType(value), nil
	default:
		return "", apperrors.WithMetadata(apperrors.CodeInvalidAuthorizationType,
			"authorization type is not recognized", map[string]string{"value": value})
	}
}

// PersistenceType describes the persistence guarantee requested for a circuit.
type PersistenceType string

const PersistenceTypeAny PersistenceType = "Any"

// ParsePersistenceType decodes a stored persistence type code.
func ParsePersistenceType(value string) (PersistenceType, error) {
	if PersistenceType(value) == PersistenceTypeAny {
		return PersistenceTypeAny, nil
	}
	return "", apperrors.WithMetadata(apperrors.CodeInvalidPersistenceType,
		"persistence type is not recognized", map[string]string{"value": value})
}

// DurabilityType describes the durability guarantee requested for a circuit.
type DurabilityType string

const DurabilityTypeNoDurability DurabilityType = "NoDurability"

// ParseDurabilityType decodes a stored durability type code.
func ParseDurabilityType(value string) (DurabilityType, error) {
	if DurabilityType(value) == DurabilityTypeNoDurability {
		return DurabilityTypeNoDurability, nil
	}
	return "", apperrors.WithMetadata(apperrors.CodeInvalidDurabilityType,
		"durability type is not recognized", map[string]string{"value": value})
}

// RouteType describes how messages are routed between circuit members.
type RouteType string

const RouteTypeAny RouteType = "Any"

// ParseRouteType decodes a stored route type code.
func ParseRouteType(value string) (RouteType, error) {
	if RouteType(value) == RouteTypeAny {
		return RouteTypeAny, nil
	}
	return "", apperrors.WithMetadata(apperrors.CodeInvalidRouteType,
		"route type is not recognized", map[string]string{"value": value})
}

// Vote is a participant's decision on a circuit proposal.
type Vote string

const (
	VoteAccept Vote = "Accept"
	VoteReject Vote = "Reject"
)

// ParseVote decodes a stored vote value.
func ParseVote(value string) (Vote, error) {
	switch Vote(value) {
	case VoteAccept, VoteReject:
		return Vote(value), nil
	default:
		return "", apperrors.WithMetadata(apperrors.CodeInvalidVote,
			"vote value is not recognized", map[string]string{"value": value})
	}
}
