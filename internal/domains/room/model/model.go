package model

import (
	"hotel/shared/model"
	"time"
)

const (
	TableName  = "rooms"
	EntityName = "room"

	FieldID          = "id"
	FieldRoomNumber  = "room_number"
	FieldRoomTypeID  = "room_type_id"
	FieldFloor       = "floor"
	FieldStatus      = "status"
	FieldLastCleaned = "last_cleaned"
	FieldNotes       = "notes"
	FieldPhotoURL    = "photo_url"
)

// Cache prefixes are exported so that other domains changing a room can invalidate them.
const (
	CacheGetRoom    = "room:get"
	CacheGetAllRoom = "room:gets"
	CacheCountRoom  = "room:count"
)

// Status is the housekeeping signal of a room. It never decides availability.
type Status string

const (
	StatusAvailable   Status = "available"
	StatusOccupied    Status = "occupied"
	StatusMaintenance Status = "maintenance"
	StatusCleaning    Status = "cleaning"
)

func (s Status) Valid() bool {
	switch s {
	case StatusAvailable, StatusOccupied, StatusMaintenance, StatusCleaning:
		return true
	}

	return false
}

// ManuallySettable reports whether staff may set the status directly. Occupied only follows a check-in.
func (s Status) ManuallySettable() bool {
	return s == StatusAvailable || s == StatusMaintenance || s == StatusCleaning
}

type Room struct {
	ID           string     `db:"id"`
	RoomNumber   string     `db:"room_number"`
	RoomTypeID   string     `db:"room_type_id"`
	Floor        int        `db:"floor"`
	Status       Status     `db:"status"`
	LastCleaned  *time.Time `db:"last_cleaned"`
	Notes        *string    `db:"notes"`
	PhotoURL     *string    `db:"photo_url"`
	RoomTypeName string     `column:"name"          db:"room_type_name" table:"room_types"`
	BasePrice    float64    `db:"base_price"        table:"room_types"`
	MaxOccupancy int        `db:"max_occupancy"     table:"room_types"`
	model.Metadata
}

func (Room) GetJoinQuery() string {
	return "JOIN room_types ON room_types.id = rooms.room_type_id"
}
