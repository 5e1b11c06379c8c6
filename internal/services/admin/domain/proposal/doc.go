// Package proposal holds the circuit-proposal domain model: the proposed
// circuit with its service roster and node membership, the wrapping
// proposal with its vote records, and the closed enumerations persisted
// alongside them.
//
// All aggregate types are immutable once built. Construction goes through
// fluent builders whose Build method validates structural completeness and
// reports missing fields as typed errors.
package proposal
