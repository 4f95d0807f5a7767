package model

import "hotel/shared/model"

const (
	LineItemTableName  = "booking_services"
	LineItemEntityName = "booking service"

	FieldLineItemID        = "id"
	FieldLineItemBookingID = "booking_id"
	FieldLineItemServiceID = "service_id"
)

// LineItem is a catalog service charged to a booking. Prices are copied at the time it is added.
type LineItem struct {
	ID              string  `db:"id"`
	BookingID       string  `db:"booking_id"`
	ServiceID       string  `db:"service_id"`
	Quantity        int     `db:"quantity"`
	UnitPrice       float64 `db:"unit_price"`
	TotalPrice      float64 `db:"total_price"`
	ServiceName     string  `column:"name"     db:"service_name"     table:"hotel_services"`
	ServiceCategory string  `column:"category" db:"service_category" table:"hotel_services"`
	model.Metadata
}

func (LineItem) GetJoinQuery() string {
	return "JOIN hotel_services ON hotel_services.id = booking_services.service_id"
}
