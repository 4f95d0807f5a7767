package service

import (
	"hotel/internal/domains/booking/model"
	"hotel/shared/failure"
	gRepo "hotel/shared/repository"
)

const messageRoomUnavailable = "room is not available for the selected dates"

func roomUnavailable(roomID string, requested model.Stay, conflict *model.Booking) error {
	details := map[string]any{
		"room_id": roomID,
		"requested": map[string]string{
			"check_in_date":  requested.CheckInString(),
			"check_out_date": requested.CheckOutString(),
		},
	}

	if conflict != nil {
		stay := conflict.Stay()
		details["conflicting_booking"] = map[string]string{
			"id":             conflict.ID,
			"check_in_date":  stay.CheckInString(),
			"check_out_date": stay.CheckOutString(),
			"status":         string(conflict.Status),
		}
	}

	return failure.ConflictWithReason(failure.ReasonRoomUnavailable, messageRoomUnavailable, details) // nolint:wrapcheck
}

func invalidTransition(bookingID string, err *model.InvalidTransitionError) error {
	return failure.ConflictWithReason(failure.ReasonInvalidTransition, err.Error(), map[string]any{ // nolint:wrapcheck
		"booking_id":     bookingID,
		"current_status": string(err.From),
		"action":         string(err.Action),
	})
}

// translate maps storage errors and fills in the requested range when the exclusion
// constraint caught an overlap the row lock did not.
func translate(err error, entity, roomID string, stay model.Stay) error {
	translated := gRepo.TranslateError(err, entity)
	if !failure.HasReason(translated, failure.ReasonRoomUnavailable) {
		return translated
	}

	if _, ok := failure.GetDetails(translated)["requested"]; ok {
		return translated
	}

	return roomUnavailable(roomID, stay, nil)
}
