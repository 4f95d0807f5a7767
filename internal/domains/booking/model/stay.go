package model

import (
	"hotel/shared/constant"
	"hotel/shared/failure"
	"time"
)

// Stay is the half-open range [CheckIn, CheckOut) of calendar nights. The check-out day is free
// for the next guest.
type Stay struct {
	CheckIn  time.Time
	CheckOut time.Time
}

// ParseStay reads two YYYY-MM-DD dates.
func ParseStay(checkIn, checkOut string) (Stay, error) {
	in, err := time.Parse(constant.DateOnlyFormat, checkIn)
	if err != nil {
		return Stay{}, failure.Validation(FieldCheckInDate, "check_in_date must be a date in YYYY-MM-DD format")
	}

	out, err := time.Parse(constant.DateOnlyFormat, checkOut)
	if err != nil {
		return Stay{}, failure.Validation(FieldCheckOutDate, "check_out_date must be a date in YYYY-MM-DD format")
	}

	return NewStay(in, out)
}

// NewStay truncates both ends to their calendar day and requires at least one night.
func NewStay(checkIn, checkOut time.Time) (Stay, error) {
	stay := Stay{CheckIn: dateOf(checkIn), CheckOut: dateOf(checkOut)}

	if !stay.CheckIn.Before(stay.CheckOut) {
		return Stay{}, failure.Validation(FieldCheckOutDate, "check_out_date must be after check_in_date")
	}

	return stay, nil
}

func (s Stay) Overlaps(other Stay) bool {
	return s.CheckIn.Before(other.CheckOut) && other.CheckIn.Before(s.CheckOut)
}

func (s Stay) Nights() int {
	return int(s.CheckOut.Sub(s.CheckIn).Hours() / 24)
}

func (s Stay) CheckInString() string {
	return s.CheckIn.Format(constant.DateOnlyFormat)
}

func (s Stay) CheckOutString() string {
	return s.CheckOut.Format(constant.DateOnlyFormat)
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()

	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
