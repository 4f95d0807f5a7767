package failure_test

import (
	"errors"
	"fmt"
	"hotel/shared/failure"
	"net/http"
	"testing"
)

func TestFailure_Error(t *testing.T) {
	f := &failure.Failure{
		Code:    http.StatusBadRequest,
		Message: "test error message",
	}

	if f.Error() != "test error message" {
		t.Errorf("expected error message to be 'test error message', got %s", f.Error())
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		code   int
		reason string
	}{
		{"bad request", failure.BadRequest(errors.New("bad")), http.StatusBadRequest, failure.ReasonValidation},
		{"bad request from string", failure.BadRequestFromString("bad"), http.StatusBadRequest, failure.ReasonValidation},
		{"validation", failure.Validation("check_out_date", "must be after check_in_date"), http.StatusBadRequest, failure.ReasonValidation},
		{"unauthorized", failure.Unauthorized("token expired"), http.StatusUnauthorized, ""},
		{"internal", failure.InternalError(errors.New("boom")), http.StatusInternalServerError, ""},
		{"storage", failure.Storage(errors.New("connection reset")), http.StatusServiceUnavailable, failure.ReasonStorage},
		{"not found", failure.NotFound("room not found"), http.StatusNotFound, failure.ReasonNotFound},
		{"conflict", failure.Conflict("room number already exists"), http.StatusConflict, failure.ReasonConflict},
		{"conflict with reason", failure.ConflictWithReason(failure.ReasonRoomUnavailable, "dates unavailable", nil), http.StatusConflict, failure.ReasonRoomUnavailable},
		{"forbidden", failure.Forbidden("nope"), http.StatusForbidden, ""},
		{"unimplemented", failure.Unimplemented("Stats"), http.StatusNotImplemented, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := failure.GetCode(tt.err); got != tt.code {
				t.Errorf("expected code %d, got %d", tt.code, got)
			}

			if got := failure.GetReason(tt.err); got != tt.reason {
				t.Errorf("expected reason %q, got %q", tt.reason, got)
			}
		})
	}
}

func TestNilInputs(t *testing.T) {
	if failure.BadRequest(nil) != nil {
		t.Error("expected nil for BadRequest(nil)")
	}

	if failure.InternalError(nil) != nil {
		t.Error("expected nil for InternalError(nil)")
	}

	if failure.Storage(nil) != nil {
		t.Error("expected nil for Storage(nil)")
	}
}

func TestGetCode_Wrapped(t *testing.T) {
	err := fmt.Errorf("service layer: %w", failure.NotFound("booking not found"))

	if failure.GetCode(err) != http.StatusNotFound {
		t.Errorf("expected wrapped failure to keep code %d, got %d", http.StatusNotFound, failure.GetCode(err))
	}

	if failure.GetCode(errors.New("plain")) != http.StatusInternalServerError {
		t.Error("expected plain errors to map to internal server error")
	}
}

func TestStorage_UnwrapsCause(t *testing.T) {
	cause := errors.New("driver: bad connection")
	err := failure.Storage(cause)

	if !errors.Is(err, cause) {
		t.Error("expected storage failure to unwrap to its cause")
	}
}

func TestDetailsAndHasReason(t *testing.T) {
	err := failure.ConflictWithReason(failure.ReasonInvalidTransition, "cannot check-out", map[string]any{
		"current_status": "confirmed",
		"action":         "check-out",
	})

	details := failure.GetDetails(err)
	if details["current_status"] != "confirmed" || details["action"] != "check-out" {
		t.Errorf("unexpected details %v", details)
	}

	if !failure.HasReason(err, failure.ReasonInvalidTransition) {
		t.Error("expected HasReason to match")
	}

	if failure.HasReason(errors.New("x"), failure.ReasonInvalidTransition) {
		t.Error("expected HasReason to be false for plain errors")
	}

	if failure.GetDetails(errors.New("x")) != nil {
		t.Error("expected nil details for plain errors")
	}
}
