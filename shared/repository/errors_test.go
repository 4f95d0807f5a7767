package repository_test

import (
	"context"
	"errors"
	"fmt"
	"hotel/shared/failure"
	"hotel/shared/repository"
	"net/http"
	"testing"

	"github.com/lib/pq"
)

func TestTranslateError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   int
		wantReason string
	}{
		{name: "exclusion violation", err: &pq.Error{Code: "23P01", Constraint: "bookings_no_overlap"}, wantCode: http.StatusConflict, wantReason: failure.ReasonRoomUnavailable},
		{name: "wrapped exclusion violation", err: fmt.Errorf("insert: %w", &pq.Error{Code: "23P01"}), wantCode: http.StatusConflict, wantReason: failure.ReasonRoomUnavailable},
		{name: "fk violation", err: &pq.Error{Code: "23503"}, wantCode: http.StatusNotFound, wantReason: failure.ReasonNotFound},
		{name: "unique violation", err: &pq.Error{Code: "23505"}, wantCode: http.StatusConflict, wantReason: failure.ReasonConflict},
		{name: "check violation", err: &pq.Error{Code: "23514"}, wantCode: http.StatusBadRequest, wantReason: failure.ReasonValidation},
		{name: "invalid uuid", err: &pq.Error{Code: "22P02"}, wantCode: http.StatusBadRequest, wantReason: failure.ReasonValidation},
		{name: "other driver error", err: errors.New("driver: bad connection"), wantCode: http.StatusServiceUnavailable, wantReason: failure.ReasonStorage},
		{name: "existing failure", err: failure.NotFound("room not found"), wantCode: http.StatusNotFound, wantReason: failure.ReasonNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := repository.TranslateError(tt.err, "booking")

			if code := failure.GetCode(got); code != tt.wantCode {
				t.Errorf("expected code %d, got %d", tt.wantCode, code)
			}

			if reason := failure.GetReason(got); reason != tt.wantReason {
				t.Errorf("expected reason %q, got %q", tt.wantReason, reason)
			}
		})
	}
}

func TestTranslateError_PassThrough(t *testing.T) {
	if repository.TranslateError(nil, "booking") != nil {
		t.Error("expected nil to stay nil")
	}

	if err := repository.TranslateError(context.Canceled, "booking"); !errors.Is(err, context.Canceled) {
		t.Errorf("expected cancellation to pass through, got %v", err)
	}
}
