package proposal

import (
	"encoding/hex"
	"encoding/json"
	"sort"
	"strings"

	apperrors "github.com/tessera-net/tessera/internal/platform/errors"
)

// ProposedCircuit is the structural definition of a circuit being
// proposed: its policy flags, its service roster, and its node membership.
// Roster and members are unordered sets keyed by service and node id.
type ProposedCircuit struct {
	circuitID             string
	authorizationType     AuthorizationType
	persistence           PersistenceType
	durability            DurabilityType
	routes                RouteType
	circuitManagementType string
	applicationMetadata   []byte
	comments              *string
	displayName           *string
	roster                []ProposedService
	members               []ProposedNode
}

// CircuitID returns the proposed circuit identifier.
func (c ProposedCircuit) CircuitID() string { return c.circuitID }

// AuthorizationType returns the member authentication policy.
func (c ProposedCircuit) AuthorizationType() AuthorizationType { return c.authorizationType }

// Persistence returns the requested persistence guarantee.
func (c ProposedCircuit) Persistence() PersistenceType { return c.persistence }

// Durability returns the requested durability guarantee.
func (c ProposedCircuit) Durability() DurabilityType { return c.durability }

// Routes returns the requested routing policy.
func (c ProposedCircuit) Routes() RouteType { return c.routes }

// CircuitManagementType returns the management domain of the circuit.
func (c ProposedCircuit) CircuitManagementType() string { return c.circuitManagementType }

// ApplicationMetadata returns a copy of the opaque application payload, or
// nil when none was proposed.
func (c ProposedCircuit) ApplicationMetadata() []byte {
	if c.applicationMetadata == nil {
		return nil
	}
	out := make([]byte, len(c.applicationMetadata))
	copy(out, c.applicationMetadata)
	return out
}

// Comments returns the optional free-form comments.
func (c ProposedCircuit) Comments() *string {
	if c.comments == nil {
		return nil
	}
	v := *c.comments
	return &v
}

// DisplayName returns the optional human-readable circuit name.
func (c ProposedCircuit) DisplayName() *string {
	if c.displayName == nil {
		return nil
	}
	v := *c.displayName
	return &v
}

// Roster returns a copy of the proposed services.
func (c ProposedCircuit) Roster() []ProposedService {
	return append([]ProposedService(nil), c.roster...)
}

// Members returns a copy of the proposed member nodes.
func (c ProposedCircuit) Members() []ProposedNode {
	return append([]ProposedNode(nil), c.members...)
}

// MarshalJSON renders the circuit in its canonical JSON view. Roster and
// members are unordered sets in the domain, so the view sorts them by
// service and node id to keep output deterministic.
func (c ProposedCircuit) MarshalJSON() ([]byte, error) {
	roster := append([]ProposedService(nil), c.roster...)
	sort.Slice(roster, func(i, j int) bool { return roster[i].serviceID < roster[j].serviceID })
	members := append([]ProposedNode(nil), c.members...)
	sort.Slice(members, func(i, j int) bool { return members[i].nodeID < members[j].nodeID })

	var metadata string
	if len(c.applicationMetadata) > 0 {
		metadata = hex.EncodeToString(c.applicationMetadata)
	}

	return json.Marshal(struct {
		CircuitID             string            `json:"circuit_id"`
		AuthorizationType     AuthorizationType `json:"authorization_type"`
		Persistence           PersistenceType   `json:"persistence"`
		Durability            DurabilityType    `json:"durability"`
		Routes                RouteType         `json:"routes"`
		CircuitManagementType string            `json:"circuit_management_type"`
		ApplicationMetadata   string            `json:"application_metadata,omitempty"`
		Comments              *string           `json:"comments,omitempty"`
		DisplayName           *string           `json:"display_name,omitempty"`
		Roster                []ProposedService `json:"roster"`
		Members               []ProposedNode    `json:"members"`
	}{
		CircuitID:             c.circuitID,
		AuthorizationType:     c.authorizationType,
		Persistence:           c.persistence,
		Durability:            c.durability,
		Routes:                c.routes,
		CircuitManagementType: c.circuitManagementType,
		ApplicationMetadata:   metadata,
		Comments:              c.comments,
		DisplayName:           c.displayName,
		Roster:                roster,
		Members:               members,
	})
}

// ProposedCircuitBuilder assembles a ProposedCircuit field by field.
type ProposedCircuitBuilder struct {
	circuitID             string
	authorizationType     AuthorizationType
	persistence           PersistenceType
	durability            DurabilityType
	routes                RouteType
	circuitManagementType string
	applicationMetadata   []byte
	comments              *string
	displayName           *string
	roster                []ProposedService
	members               []ProposedNode
}

// NewProposedCircuitBuilder returns an empty circuit builder.
func NewProposedCircuitBuilder() *ProposedCircuitBuilder {
	return &ProposedCircuitBuilder{}
}

// WithCircuitID sets the proposed circuit identifier.
func (b *ProposedCircuitBuilder) WithCircuitID(circuitID string) *ProposedCircuitBuilder {
	b.circuitID = circuitID
	return b
}

// WithAuthorizationType sets the member authentication policy.
func (b *ProposedCircuitBuilder) WithAuthorizationType(value AuthorizationType) *ProposedCircuitBuilder {
	b.authorizationType = value
	return b
}

// WithPersistence sets the requested persistence guarantee.
func (b *ProposedCircuitBuilder) WithPersistence(value PersistenceType) *ProposedCircuitBuilder {
	b.persistence = value
	return b
}

// WithDurability sets the requested durability guarantee.
func (b *ProposedCircuitBuilder) WithDurability(value DurabilityType) *ProposedCircuitBuilder {
	b.durability = value
	return b
}

// WithRoutes sets the requested routing policy.
func (b *ProposedCircuitBuilder) WithRoutes(value RouteType) *ProposedCircuitBuilder {
	b.routes = value
	return b
}

// WithCircuitManagementType sets the management domain of the circuit.
func (b *ProposedCircuitBuilder) WithCircuitManagementType(value string) *ProposedCircuitBuilder {
	b.circuitManagementType = value
	return b
}

// WithApplicationMetadata sets the opaque application payload.
func (b *ProposedCircuitBuilder) WithApplicationMetadata(metadata []byte) *ProposedCircuitBuilder {
	b.applicationMetadata = append([]byte(nil), metadata...)
	return b
}

// WithComments sets the optional free-form comments.
func (b *ProposedCircuitBuilder) WithComments(comments string) *ProposedCircuitBuilder {
	b.comments = &comments
	return b
}

// WithDisplayName sets the optional human-readable circuit name.
func (b *ProposedCircuitBuilder) WithDisplayName(displayName string) *ProposedCircuitBuilder {
	b.displayName = &displayName
	return b
}

// WithRoster replaces the proposed service set.
func (b *ProposedCircuitBuilder) WithRoster(roster []ProposedService) *ProposedCircuitBuilder {
	b.roster = append([]ProposedService(nil), roster...)
	return b
}

// WithMembers replaces the proposed member node set.
func (b *ProposedCircuitBuilder) WithMembers(members []ProposedNode) *ProposedCircuitBuilder {
	b.members = append([]ProposedNode(nil), members...)
	return b
}

// Build validates structural completeness and returns the immutable circuit.
func (b *ProposedCircuitBuilder) Build() (ProposedCircuit, error) {
	for _, required := range []struct {
		field string
		value string
	}{
		{"circuit_id", b.circuitID},
		{"authorization_type", string(b.authorizationType)},
		{"persistence", string(b.persistence)},
		{"durability", string(b.durability)},
		{"routes", string(b.routes)},
		{"circuit_management_type", b.circuitManagementType},
	} {
		if strings.TrimSpace(required.value) == "" {
			return ProposedCircuit{}, apperrors.WithMetadata(apperrors.CodeCircuitIncomplete,
				"proposed circuit is missing a required field", map[string]string{"field": required.field})
		}
	}
	return ProposedCircuit{
		circuitID:             b.circuitID,
		authorizationType:     b.authorizationType,
		persistence:           b.persistence,
		durability:            b.durability,
		routes:                b.routes,
		circuitManagementType: b.circuitManagementType,
		applicationMetadata:   append([]byte(nil), b.applicationMetadata...),
		comments:              b.comments,
		displayName:           b.displayName,
		roster:                append([]ProposedService(nil), b.roster...),
		members:               append([]ProposedNode(nil), b.members...),
	}, nil
}
