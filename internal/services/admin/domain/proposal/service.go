package proposal

import (
	"encoding/json"
	"strings"

	apperrors "github.com/tessera-net/tessera/internal/platform/errors"
)

// Argument is one key/value configuration pair attached to a proposed service.
type Argument struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// ProposedService is a service a circuit proposal wants to run on a member
// node. Arguments keep their stored order.
type ProposedService struct {
	serviceID   string
	serviceType string
	nodeID      string
	arguments   []Argument
}

// ServiceID returns the circuit-unique service identifier.
func (s ProposedService) ServiceID() string { return s.serviceID }

// ServiceType returns the type of service being proposed.
func (s ProposedService) ServiceType() string { return s.serviceType }

// NodeID returns the identifier of the node the service would run on.
func (s ProposedService) NodeID() string { return s.nodeID }

// Arguments returns a copy of the service's configuration arguments.
func (s ProposedService) Arguments() []Argument {
	if s.arguments == nil {
		return nil
	}
	out := make([]Argument, len(s.arguments))
	copy(out, s.arguments)
	return out
}

// MarshalJSON renders the service in its canonical JSON view.
func (s ProposedService) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ServiceID   string     `json:"service_id"`
		ServiceType string     `json:"service_type"`
		NodeID      string     `json:"node_id"`
		Arguments   []Argument `json:"arguments,omitempty"`
	}{
		ServiceID:   s.serviceID,
		ServiceType: s.serviceType,
		NodeID:      s.nodeID,
		Arguments:   s.arguments,
	})
}

// ProposedServiceBuilder assembles a ProposedService field by field.
type ProposedServiceBuilder struct {
	serviceID   string
	serviceType string
	nodeID      string
	arguments   []Argument
}

// NewProposedServiceBuilder returns an empty service builder.
func NewProposedServiceBuilder() *ProposedServiceBuilder {
	return &ProposedServiceBuilder{}
}

// WithServiceID sets the circuit-unique service identifier.
func (b *ProposedServiceBuilder) WithServiceID(serviceID string) *ProposedServiceBuilder {
	b.serviceID = serviceID
	return b
}

// WithServiceType sets the type of service being proposed.
func (b *ProposedServiceBuilder) WithServiceType(serviceType string) *ProposedServiceBuilder {
	b.serviceType = serviceType
	return b
}

// WithNodeID sets the node the service would run on.
func (b *ProposedServiceBuilder) WithNodeID(nodeID string) *ProposedServiceBuilder {
	b.nodeID = nodeID
	return b
}

// WithArguments replaces the accumulated argument list.
func (b *ProposedServiceBuilder) WithArguments(arguments []Argument) *ProposedServiceBuilder {
	b.arguments = append([]Argument(nil), arguments...)
	return b
}

// Build validates structural completeness and returns the immutable service.
func (b *ProposedServiceBuilder) Build() (ProposedService, error) {
	for _, required := range []struct {
		field string
		value string
	}{
		{"service_id", b.serviceID},
		{"service_type", b.serviceType},
		{"node_id", b.nodeID},
	} {
		if strings.TrimSpace(required.value) == "" {
			return ProposedService{}, apperrors.WithMetadata(apperrors.CodeServiceIncomplete,
				"proposed service is missing a required field", map[string]string{"field": required.field})
		}
	}
	return ProposedService{
		serviceID:   b.serviceID,
		serviceType: b.serviceType,
		nodeID:      b.nodeID,
		arguments:   append([]Argument(nil), b.arguments...),
	}, nil
}
