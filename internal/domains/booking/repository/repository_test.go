package repository

import (
	"hotel/internal/domains/booking/model"
	"strings"
	"testing"
	"time"
)

func mustStay(t *testing.T, in, out string) model.Stay {
	t.Helper()

	stay, err := model.ParseStay(in, out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	return stay
}

func TestConflictQuery(t *testing.T) {
	stay := mustStay(t, "2024-06-01", "2024-06-05")

	query, args, err := conflictQuery("room-1", stay, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, fragment := range []string{
		`FROM "bookings"`,
		`"room_id" = $1`,
		`"status" IN ($2, $3)`,
		`"check_in_date" < $4::date`,
		`"check_out_date" > $5::date`,
		`ORDER BY "check_in_date" ASC`,
		`LIMIT $6`,
	} {
		if !strings.Contains(query, fragment) {
			t.Errorf("expected query to contain %q, got %s", fragment, query)
		}
	}

	if strings.Contains(query, `"id" !=`) {
		t.Errorf("expected no exclusion without an id, got %s", query)
	}

	if len(args) != 6 {
		t.Fatalf("expected 6 args, got %d (%v)", len(args), args)
	}

	if args[0] != "room-1" || args[3] != "2024-06-05" || args[4] != "2024-06-01" {
		t.Errorf("unexpected args %v", args)
	}
}

func TestConflictQuery_ExcludesBooking(t *testing.T) {
	stay := mustStay(t, "2024-06-01", "2024-06-05")

	query, args, err := conflictQuery("room-1", stay, "booking-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(query, `"id" != $6`) {
		t.Errorf("expected exclusion of the booking itself, got %s", query)
	}

	if args[5] != "booking-1" {
		t.Errorf("unexpected args %v", args)
	}
}

func TestConflictQuery_UsesCalendarDates(t *testing.T) {
	in := time.Date(2024, 6, 10, 23, 30, 0, 0, time.FixedZone("WIB", 7*60*60))
	out := time.Date(2024, 6, 12, 1, 0, 0, 0, time.UTC)

	stay, err := model.NewStay(in, out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, args, err := conflictQuery("room-1", stay, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if args[3] != "2024-06-12" || args[4] != "2024-06-10" {
		t.Errorf("unexpected date args %v", args)
	}
}
