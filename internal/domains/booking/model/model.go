package model

import (
	"hotel/shared/model"
	"time"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID              = "id"
	FieldCustomerID      = "customer_id"
	FieldRoomID          = "room_id"
	FieldCheckInDate     = "check_in_date"
	FieldCheckOutDate    = "check_out_date"
	FieldAdults          = "adults"
	FieldChildren        = "children"
	FieldTotalAmount     = "total_amount"
	FieldSpecialRequests = "special_requests"
	FieldStatus          = "status"
)

// Booking reserves one room for one customer over a half-open range of nights.
type Booking struct {
	ID                string    `db:"id"`
	CustomerID        string    `db:"customer_id"`
	RoomID            string    `db:"room_id"`
	CheckInDate       time.Time `db:"check_in_date"`
	CheckOutDate      time.Time `db:"check_out_date"`
	Adults            int       `db:"adults"`
	Children          int       `db:"children"`
	TotalAmount       float64   `db:"total_amount"`
	SpecialRequests   *string   `db:"special_requests"`
	Status            Status    `db:"status"`
	RoomNumber        string    `db:"room_number"         table:"rooms"`
	CustomerFirstName string    `column:"first_name"      db:"customer_first_name" table:"customers"`
	CustomerLastName  string    `column:"last_name"       db:"customer_last_name"  table:"customers"`
	CustomerEmail     *string   `column:"email"           db:"customer_email"      table:"customers"`
	model.Metadata
}

func (Booking) GetJoinQuery() string {
	return "JOIN rooms ON rooms.id = bookings.room_id JOIN customers ON customers.id = bookings.customer_id"
}

func (b Booking) Stay() Stay {
	return Stay{CheckIn: b.CheckInDate, CheckOut: b.CheckOutDate}
}

func (b Booking) CustomerName() string {
	if b.CustomerFirstName == "" && b.CustomerLastName == "" {
		return ""
	}

	return b.CustomerFirstName + " " + b.CustomerLastName
}
