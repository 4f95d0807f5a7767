package dto

import (
	"hotel/internal/domains/booking/model"
	"hotel/shared"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	gModel "hotel/shared/model"
	"hotel/shared/timezone"

	"github.com/google/uuid"
)

type LineItemRequest struct {
	ServiceID string `json:"service_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity"   validate:"required,min=1,max=100"`
}

func (l *LineItemRequest) ToModel(user, bookingID string, unitPrice float64) model.LineItem {
	now := timezone.Now()

	return model.LineItem{
		ID:         uuid.NewString(),
		BookingID:  bookingID,
		ServiceID:  l.ServiceID,
		Quantity:   l.Quantity,
		UnitPrice:  unitPrice,
		TotalPrice: unitPrice * float64(l.Quantity),
		Metadata: gModel.NewMetadata(user, now),
	}
}

type CreateBookingRequest struct {
	CustomerID      string            `json:"customer_id"                validate:"required,uuid"`
	RoomID          string            `json:"room_id"                    validate:"required,uuid"`
	CheckInDate     string            `json:"check_in_date"              validate:"required,date"`
	CheckOutDate    string            `json:"check_out_date"             validate:"required,date"`
	Adults          int               `json:"adults"                     validate:"required,min=1,max=20"`
	Children        int               `json:"children"                   validate:"omitempty,min=0,max=20"`
	TotalAmount     float64           `json:"total_amount"               validate:"omitempty,min=0"`
	SpecialRequests *string           `json:"special_requests,omitempty" validate:"omitempty,max=1000"`
	Services        []LineItemRequest `json:"services,omitempty"         validate:"omitempty,dive"`
}

func (c *CreateBookingRequest) ToModel(user string, stay model.Stay) model.Booking {
	now := timezone.Now()

	return model.Booking{
		ID:              uuid.NewString(),
		CustomerID:      c.CustomerID,
		RoomID:          c.RoomID,
		CheckInDate:     stay.CheckIn,
		CheckOutDate:    stay.CheckOut,
		Adults:          c.Adults,
		Children:        c.Children,
		TotalAmount:     c.TotalAmount,
		SpecialRequests: c.SpecialRequests,
		Status:          model.StatusConfirmed,
		Metadata: gModel.NewMetadata(user, now),
	}
}

// UpdateBookingRequest edits the descriptive fields of a booking. Status moves only through the
// check-in, check-out and cancel actions.
type UpdateBookingRequest struct {
	CheckInDate     *string  `json:"check_in_date,omitempty"                             validate:"omitempty,date"`
	CheckOutDate    *string  `json:"check_out_date,omitempty"                            validate:"omitempty,date"`
	Adults          *int     `db:"adults"                json:"adults,omitempty"           validate:"omitempty,min=1,max=20"`
	Children        *int     `db:"children"              json:"children,omitempty"         validate:"omitempty,min=0,max=20"`
	TotalAmount     *float64 `db:"total_amount"          json:"total_amount,omitempty"     validate:"omitempty,min=0"`
	SpecialRequests *string  `db:"special_requests"      json:"special_requests,omitempty" validate:"omitempty,max=1000"`
	Status          *string  `json:"status,omitempty"`
}

func (u *UpdateBookingRequest) ChangesDates() bool {
	return u.CheckInDate != nil || u.CheckOutDate != nil
}

type AvailabilityRequest struct {
	RoomID   string `json:"room_id"   validate:"required,uuid"`
	CheckIn  string `json:"check_in"  validate:"required,date"`
	CheckOut string `json:"check_out" validate:"required,date"`
}

type ConflictResponse struct {
	BookingID    string `json:"booking_id"`
	CheckInDate  string `json:"check_in_date"`
	CheckOutDate string `json:"check_out_date"`
	Status       string `json:"status"`
}

func (c *ConflictResponse) FromModel(booking model.Booking) {
	stay := booking.Stay()

	c.BookingID = booking.ID
	c.CheckInDate = stay.CheckInString()
	c.CheckOutDate = stay.CheckOutString()
	c.Status = string(booking.Status)
}

type AvailabilityResponse struct {
	RoomID    string            `json:"room_id"`
	CheckIn   string            `json:"check_in"`
	CheckOut  string            `json:"check_out"`
	Nights    int               `json:"nights"`
	Available bool              `json:"available"`
	Conflict  *ConflictResponse `json:"conflict,omitempty"`
}

type LineItemResponse struct {
	ID         string  `json:"id"`
	ServiceID  string  `json:"service_id"`
	Name       string  `json:"name,omitempty"`
	Category   string  `json:"category,omitempty"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
	TotalPrice float64 `json:"total_price"`
	CreatedAt  string  `json:"created_at"`
}

func (l *LineItemResponse) FromModel(item model.LineItem) {
	l.ID = item.ID
	l.ServiceID = item.ServiceID
	l.Name = item.ServiceName
	l.Category = item.ServiceCategory
	l.Quantity = item.Quantity
	l.UnitPrice = item.UnitPrice
	l.TotalPrice = item.TotalPrice
	l.CreatedAt = timezone.Format(item.CreatedAt, constant.DateFormat)
}

type BookingResponse struct {
	ID              string             `json:"id"`
	CustomerID      string             `json:"customer_id"`
	CustomerName    string             `json:"customer_name,omitempty"`
	CustomerEmail   *string            `json:"customer_email,omitempty"`
	RoomID          string             `json:"room_id"`
	RoomNumber      string             `json:"room_number,omitempty"`
	CheckInDate     string             `json:"check_in_date"`
	CheckOutDate    string             `json:"check_out_date"`
	Nights          int                `json:"nights"`
	Adults          int                `json:"adults"`
	Children        int                `json:"children"`
	TotalAmount     float64            `json:"total_amount"`
	ServicesTotal   float64            `json:"services_total"`
	SpecialRequests *string            `json:"special_requests,omitempty"`
	Status          string             `json:"status"`
	Services        []LineItemResponse `json:"services,omitempty"`
	gDto.Metadata
}

func (b *BookingResponse) FromModel(booking model.Booking) {
	stay := booking.Stay()

	b.ID = booking.ID
	b.CustomerID = booking.CustomerID
	b.CustomerName = booking.CustomerName()
	b.CustomerEmail = booking.CustomerEmail
	b.RoomID = booking.RoomID
	b.RoomNumber = booking.RoomNumber
	b.CheckInDate = stay.CheckInString()
	b.CheckOutDate = stay.CheckOutString()
	b.Nights = stay.Nights()
	b.Adults = booking.Adults
	b.Children = booking.Children
	b.TotalAmount = booking.TotalAmount
	b.SpecialRequests = booking.SpecialRequests
	b.Status = string(booking.Status)
	b.Metadata.FromModel(booking.Metadata)
}

func (b *BookingResponse) WithLineItems(items []model.LineItem) {
	b.Services = make([]LineItemResponse, len(items))
	b.ServicesTotal = 0

	for i, item := range items {
		b.Services[i].FromModel(item)
		b.ServicesTotal += item.TotalPrice
	}
}

type TransitionResponse struct {
	Booking        BookingResponse `json:"booking"`
	PreviousStatus string          `json:"previous_status"`
	RoomStatus     string          `json:"room_status,omitempty"`
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}

// Apply copies the descriptive fields of u onto booking. Dates are resolved by the caller.
func (u *UpdateBookingRequest) Apply(booking *model.Booking) {
	if u.Adults != nil {
		booking.Adults = *u.Adults
	}

	if u.Children != nil {
		booking.Children = *u.Children
	}

	if u.TotalAmount != nil {
		booking.TotalAmount = *u.TotalAmount
	}

	if u.SpecialRequests != nil {
		booking.SpecialRequests = u.SpecialRequests
	}
}
