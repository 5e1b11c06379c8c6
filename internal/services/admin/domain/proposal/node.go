package proposal

import (
	"encoding/json"
	"strings"

	apperrors "github.com/tessera-net/tessera/internal/platform/errors"
)

// ProposedNode is a node a circuit proposal wants as a member. Endpoints
// keep their stored order.
type ProposedNode struct {
	nodeID    string
	endpoints []string
}

// NodeID returns the node identifier.
func (n ProposedNode) NodeID() string { return n.nodeID }

// Endpoints returns a copy of the node's network endpoints.
func (n ProposedNode) Endpoints() []string {
	if n.endpoints == nil {
		return nil
	}
	out := make([]string, len(n.endpoints))
	copy(out, n.endpoints)
	return out
}

// MarshalJSON renders the node in its canonical JSON view.
func (n ProposedNode) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		NodeID    string   `json:"node_id"`
		Endpoints []string `json:"endpoints"`
	}{
		NodeID:    n.nodeID,
		Endpoints: n.endpoints,
	})
}

// ProposedNodeBuilder assembles a ProposedNode, accumulating endpoints as
// rows are encountered.
type ProposedNodeBuilder struct {
	nodeID    string
	endpoints []string
}

// NewProposedNodeBuilder returns an empty node builder.
func NewProposedNodeBuilder() *ProposedNodeBuilder {
	return &ProposedNodeBuilder{}
}

// WithNodeID sets the node identifier.
func (b *ProposedNodeBuilder) WithNodeID(nodeID string) *ProposedNodeBuilder {
	b.nodeID = nodeID
	return b
}

// WithEndpoints replaces the accumulated endpoint list.
func (b *ProposedNodeBuilder) WithEndpoints(endpoints []string) *ProposedNodeBuilder {
	b.endpoints = append([]string(nil), endpoints...)
	return b
}

// Endpoints returns the endpoints accumulated so far.
func (b *ProposedNodeBuilder) Endpoints() []string {
	return append([]string(nil), b.endpoints...)
}

// Build validates structural completeness and returns the immutable node.
func (b *ProposedNodeBuilder) Build() (ProposedNode, error) {
	if strings.TrimSpace(b.nodeID) == "" {
		return ProposedNode{}, apperrors.WithMetadata(apperrors.CodeNodeIncomplete,
			"proposed node is missing a required field", map[string]string{"field": "node_id"})
	}
	if len(b.endpoints) == 0 {
		return ProposedNode{}, apperrors.WithMetadata(apperrors.CodeNodeIncomplete,
			"proposed node is missing a required field", map[string]string{"field": "endpoints"})
	}
	return ProposedNode{
		nodeID:    b.nodeID,
		endpoints: append([]string(nil), b.endpoints...),
	}, nil
}
