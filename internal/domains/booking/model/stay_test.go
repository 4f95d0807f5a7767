package model_test

import (
	"hotel/internal/domains/booking/model"
	"hotel/shared/failure"
	"testing"
)

func stay(t *testing.T, in, out string) model.Stay {
	t.Helper()

	s, err := model.ParseStay(in, out)
	if err != nil {
		t.Fatalf("unexpected error for %s..%s: %v", in, out, err)
	}

	return s
}

func TestParseStay_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		checkIn  string
		checkOut string
		field    string
	}{
		{"same day", "2024-06-10", "2024-06-10", model.FieldCheckOutDate},
		{"reversed", "2024-06-12", "2024-06-10", model.FieldCheckOutDate},
		{"bad check in", "10/06/2024", "2024-06-12", model.FieldCheckInDate},
		{"bad check out", "2024-06-10", "2024-02-30", model.FieldCheckOutDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := model.ParseStay(tt.checkIn, tt.checkOut)
			if !failure.HasReason(err, failure.ReasonValidation) {
				t.Fatalf("expected validation failure, got %v", err)
			}

			if failure.GetDetails(err)["field"] != tt.field {
				t.Errorf("expected field %s, got %v", tt.field, failure.GetDetails(err))
			}
		})
	}
}

func TestStay_Overlaps(t *testing.T) {
	tests := []struct {
		name string
		a    [2]string
		b    [2]string
		want bool
	}{
		{"partial overlap", [2]string{"2024-06-01", "2024-06-05"}, [2]string{"2024-06-03", "2024-06-07"}, true},
		{"check out meets check in", [2]string{"2024-06-05", "2024-06-10"}, [2]string{"2024-06-10", "2024-06-12"}, false},
		{"check in meets check out", [2]string{"2024-06-10", "2024-06-12"}, [2]string{"2024-06-05", "2024-06-10"}, false},
		{"contained", [2]string{"2024-06-01", "2024-06-30"}, [2]string{"2024-06-10", "2024-06-11"}, true},
		{"identical", [2]string{"2024-06-01", "2024-06-02"}, [2]string{"2024-06-01", "2024-06-02"}, true},
		{"disjoint", [2]string{"2024-06-01", "2024-06-02"}, [2]string{"2024-07-01", "2024-07-02"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := stay(t, tt.a[0], tt.a[1])
			b := stay(t, tt.b[0], tt.b[1])

			if got := a.Overlaps(b); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}

			if a.Overlaps(b) != b.Overlaps(a) {
				t.Error("expected overlap to be symmetric")
			}
		})
	}
}

func TestStay_Nights(t *testing.T) {
	s := stay(t, "2024-02-27", "2024-03-02")

	if s.Nights() != 4 {
		t.Errorf("expected 4 nights across a leap day, got %d", s.Nights())
	}

	if s.CheckInString() != "2024-02-27" || s.CheckOutString() != "2024-03-02" {
		t.Errorf("unexpected formatting %s..%s", s.CheckInString(), s.CheckOutString())
	}
}
