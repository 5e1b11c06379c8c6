package errors

import (
	stderrors "errors"
	"testing"
)

func TestErrorMessage(t *testing.T) {
	err := New(CodeInvalidVote, "vote value is not recognized")
	if err.Error() != "vote value is not recognized" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestIsMatchesByCode(t *testing.T) {
	err := New(CodeNotFound, "record not found")
	other := New(CodeNotFound, "different message")
	if !stderrors.Is(err, other) {
		t.Fatal("expected errors with the same code to match")
	}
	if stderrors.Is(err, New(CodeInvalidVote, "record not found")) {
		t.Fatal("expected errors with different codes not to match")
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stderrors.New("disk is on fire")
	err := Wrap(CodeStorageFailure, "query events", cause)
	if !stderrors.Is(err, cause) {
		t.Fatal("expected wrapped cause to be reachable")
	}
}

func TestWithMetadata(t *testing.T) {
	err := WithMetadata(CodeCircuitIncomplete, "missing field", map[string]string{"field": "circuit_id"})
	if err.Metadata["field"] != "circuit_id" {
		t.Fatalf("unexpected metadata: %+v", err.Metadata)
	}
}
