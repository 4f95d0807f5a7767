package model

import (
	"hotel/shared/model"

	"github.com/lib/pq"
)

const (
	TableName  = "room_types"
	EntityName = "room type"

	FieldID           = "id"
	FieldName         = "name"
	FieldDescription  = "description"
	FieldBasePrice    = "base_price"
	FieldMaxOccupancy = "max_occupancy"
	FieldAmenities    = "amenities"

	CacheGetRoomType    = "room_type:get"
	CacheGetAllRoomType = "room_type:gets"
	CacheCountRoomType  = "room_type:count"
)

type RoomType struct {
	ID           string         `db:"id"`
	Name         string         `db:"name"`
	Description  *string        `db:"description"`
	BasePrice    float64        `db:"base_price"`
	MaxOccupancy int            `db:"max_occupancy"`
	Amenities    pq.StringArray `db:"amenities"`
	model.Metadata
}
