package storage

import (
	"context"
	"errors"

	apperrors "github.com/tessera-net/tessera/internal/platform/errors"
	"github.com/tessera-net/tessera/internal/services/admin/domain/event"
)

// EventStore reads fully reconstructed administrative events. Results are
// always sorted ascending by event id, at most one event per id, and a
// call either returns a complete result set or a single error; there is
// no partial-success mode.
//
// Requested ids that lack a complete event/proposal/circuit triple are
// silently omitted, never an error.
type EventStore interface {
	// ListEvents returns the events matching the given identifier set.
	// The input may be empty, contain duplicates, or contain unknown ids.
	ListEvents(ctx context.Context, eventIDs []int64) ([]event.AdminEvent, error)

	// ListEventsSince returns all complete events with id greater than start.
	ListEventsSince(ctx context.Context, start int64) ([]event.AdminEvent, error)

	// ListEventsByManagementTypeSince returns all complete events with id
	// greater than start whose proposed circuit carries the given circuit
	// management type.
	ListEventsByManagementTypeSince(ctx context.Context, managementType string, start int64) ([]event.AdminEvent, error)
}

// conversionCodes are decode failures of stored values.
var conversionCodes = map[apperrors.Code]bool{
	apperrors.CodeInvalidProposalType:      true,
	apperrors.CodeInvalidAuthorizationType: true,
	apperrors.CodeInvalidPersistenceType:   true,
	apperrors.CodeInvalidDurabilityType:    true,
	apperrors.CodeInvalidRouteType:         true,
	apperrors.CodeInvalidVote:              true,
	apperrors.CodeInvalidEventType:         true,
	apperrors.CodeEventRequesterMissing:    true,
}

// invalidStateCodes are builder finalize failures: rows were readable but
// could not produce a structurally complete domain object.
var invalidStateCodes = map[apperrors.Code]bool{
	apperrors.CodeServiceIncomplete:  true,
	apperrors.CodeNodeIncomplete:     true,
	apperrors.CodeCircuitIncomplete:  true,
	apperrors.CodeProposalIncomplete: true,
	apperrors.CodeVoteIncomplete:     true,
}

func codeOf(err error) (apperrors.Code, bool) {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		return appErr.Code, true
	}
	return "", false
}

// IsConversion reports whether err is a stored-value decode failure.
func IsConversion(err error) bool {
	code, ok := codeOf(err)
	return ok && conversionCodes[code]
}

// IsInvalidState reports whether err is a structural validation failure.
func IsInvalidState(err error) bool {
	code, ok := codeOf(err)
	return ok && invalidStateCodes[code]
}

// IsStorage reports whether err is a failure of the backing store itself.
func IsStorage(err error) bool {
	code, ok := codeOf(err)
	return ok && code == apperrors.CodeStorageFailure
}
