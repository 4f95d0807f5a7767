package model

import (
	"fmt"
	roomModel "hotel/internal/domains/room/model"
)

type Status string

const (
	StatusConfirmed  Status = "confirmed"
	StatusCheckedIn  Status = "checked_in"
	StatusCheckedOut Status = "checked_out"
	StatusCancelled  Status = "cancelled"
)

// Statuses lists every booking status in lifecycle order.
func Statuses() []Status {
	return []Status{StatusConfirmed, StatusCheckedIn, StatusCheckedOut, StatusCancelled}
}

// ActiveStatuses are the statuses that hold a room.
func ActiveStatuses() []Status {
	return []Status{StatusConfirmed, StatusCheckedIn}
}

func (s Status) Valid() bool {
	switch s {
	case StatusConfirmed, StatusCheckedIn, StatusCheckedOut, StatusCancelled:
		return true
	}

	return false
}

func (s Status) IsActive() bool {
	return s == StatusConfirmed || s == StatusCheckedIn
}

func (s Status) IsTerminal() bool {
	return s == StatusCheckedOut || s == StatusCancelled
}

type Action string

const (
	ActionCheckIn  Action = "check-in"
	ActionCheckOut Action = "check-out"
	ActionCancel   Action = "cancel"
)

func Actions() []Action {
	return []Action{ActionCheckIn, ActionCheckOut, ActionCancel}
}

func (a Action) Valid() bool {
	return a == ActionCheckIn || a == ActionCheckOut || a == ActionCancel
}

// Transition is one permitted edge of the lifecycle. RoomStatus is empty when the room is left alone.
type Transition struct {
	From       Status
	Action     Action
	To         Status
	RoomStatus roomModel.Status
}

func (t Transition) EventType() string {
	switch t.To {
	case StatusCheckedIn:
		return EventCheckedIn
	case StatusCheckedOut:
		return EventCheckedOut
	case StatusCancelled:
		return EventCancelled
	}

	return ""
}

var transitions = map[Status]map[Action]Transition{
	StatusConfirmed: {
		ActionCheckIn: {From: StatusConfirmed, Action: ActionCheckIn, To: StatusCheckedIn, RoomStatus: roomModel.StatusOccupied},
		ActionCancel:  {From: StatusConfirmed, Action: ActionCancel, To: StatusCancelled},
	},
	StatusCheckedIn: {
		ActionCheckOut: {From: StatusCheckedIn, Action: ActionCheckOut, To: StatusCheckedOut, RoomStatus: roomModel.StatusCleaning},
		ActionCancel:   {From: StatusCheckedIn, Action: ActionCancel, To: StatusCancelled, RoomStatus: roomModel.StatusCleaning},
	},
}

type InvalidTransitionError struct {
	From   Status
	Action Action
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s a booking that is %s", e.Action, e.From)
}

// NextTransition resolves action against the current status. Terminal statuses have no outgoing edges.
func NextTransition(from Status, action Action) (Transition, error) {
	if t, ok := transitions[from][action]; ok {
		return t, nil
	}

	return Transition{}, &InvalidTransitionError{From: from, Action: action}
}
