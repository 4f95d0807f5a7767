package model

import "hotel/shared/model"

const (
	TableName  = "hotel_services"
	EntityName = "service"

	FieldID          = "id"
	FieldName        = "name"
	FieldDescription = "description"
	FieldPrice       = "price"
	FieldCategory    = "category"
	FieldActive      = "active"

	CacheGetService    = "service:get"
	CacheGetAllService = "service:gets"
	CacheCountService  = "service:count"
)

// HotelService is a billable extra from the catalog, e.g. breakfast or airport pickup.
type HotelService struct {
	ID          string  `db:"id"`
	Name        string  `db:"name"`
	Description *string `db:"description"`
	Price       float64 `db:"price"`
	Category    string  `db:"category"`
	Active      bool    `db:"active"`
	model.Metadata
}
