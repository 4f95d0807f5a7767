package postgres_test

import (
	"errors"
	"fmt"
	"hotel/infras/postgres"
	"hotel/shared/constant"
	"testing"

	"github.com/lib/pq"
)

func TestErrorCode(t *testing.T) {
	exclusion := &pq.Error{Code: pq.ErrorCode(constant.PqErrorCodeExclusionViolation), Constraint: "bookings_no_overlap"}
	wrapped := fmt.Errorf("failed to insert data (booking): %w", exclusion)

	tests := []struct {
		name           string
		err            error
		wantCode       string
		wantConstraint string
	}{
		{name: "direct", err: exclusion, wantCode: "23P01", wantConstraint: "bookings_no_overlap"},
		{name: "wrapped", err: wrapped, wantCode: "23P01", wantConstraint: "bookings_no_overlap"},
		{name: "plain error", err: errors.New("connection refused")},
		{name: "nil", err: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := postgres.ErrorCode(tt.err); got != tt.wantCode {
				t.Errorf("expected code %q, got %q", tt.wantCode, got)
			}

			if got := postgres.ConstraintName(tt.err); got != tt.wantConstraint {
				t.Errorf("expected constraint %q, got %q", tt.wantConstraint, got)
			}
		})
	}

	if !postgres.IsErrorCode(wrapped, constant.PqErrorCodeExclusionViolation) {
		t.Error("expected wrapped exclusion violation to match")
	}

	if postgres.IsErrorCode(nil, "") {
		t.Error("expected nil error never to match")
	}
}
