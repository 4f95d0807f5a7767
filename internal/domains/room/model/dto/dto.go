package dto

import (
	"mime/multipart"

	"hotel/internal/domains/room/model"
	"hotel/shared"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	gModel "hotel/shared/model"
	"hotel/shared/timezone"

	"github.com/google/uuid"
)

type CreateRoomRequest struct {
	RoomNumber string  `json:"room_number"     validate:"required,max=10"`
	RoomTypeID string  `json:"room_type_id"    validate:"required,uuid"`
	Floor      int     `json:"floor"           validate:"omitempty,min=0,max=200"`
	Notes      *string `json:"notes,omitempty" validate:"omitempty,max=500"`
}

func (c *CreateRoomRequest) ToModel(user string) model.Room {
	now := timezone.Now()

	return model.Room{
		ID:         uuid.NewString(),
		RoomNumber: c.RoomNumber,
		RoomTypeID: c.RoomTypeID,
		Floor:      c.Floor,
		Status:     model.StatusAvailable,
		Notes:      c.Notes,
		Metadata: gModel.NewMetadata(user, now),
	}
}

type UpdateRoomRequest struct {
	RoomNumber string  `db:"room_number"             json:"room_number,omitempty"  validate:"omitempty,max=10"`
	RoomTypeID string  `db:"room_type_id"            json:"room_type_id,omitempty" validate:"omitempty,uuid"`
	Floor      *int    `db:"floor"                   json:"floor,omitempty"        validate:"omitempty,min=0,max=200"`
	Notes      *string `db:"notes"                   json:"notes,omitempty"        validate:"omitempty,max=500"`
	Status     *string `json:"status,omitempty"`
}

// UpdateRoomStatusRequest toggles housekeeping states. Occupied is reserved for check-in.
type UpdateRoomStatusRequest struct {
	Status string  `json:"status"          validate:"required,oneof=available maintenance cleaning"`
	Notes  *string `json:"notes,omitempty" validate:"omitempty,max=500"`
}

type UploadPhotoRequest struct {
	Photo     *multipart.FileHeader `json:"photo" validate:"required,mimetypes=image/png image/jpg image/jpeg,maxfilesize=2"`
	PhotoFile multipart.File        `json:"-"`
}

type AvailableRoomsRequest struct {
	CheckIn    string `json:"check_in"     validate:"required,date"`
	CheckOut   string `json:"check_out"    validate:"required,date"`
	RoomTypeID string `json:"room_type_id" validate:"omitempty,uuid"`
}

type RoomResponse struct {
	ID           string  `json:"id"`
	RoomNumber   string  `json:"room_number"`
	RoomTypeID   string  `json:"room_type_id"`
	RoomTypeName string  `json:"room_type_name,omitempty"`
	BasePrice    float64 `json:"base_price"`
	MaxOccupancy int     `json:"max_occupancy"`
	Floor        int     `json:"floor"`
	Status       string  `json:"status"`
	LastCleaned  *string `json:"last_cleaned,omitempty"`
	Notes        *string `json:"notes,omitempty"`
	PhotoURL     *string `json:"photo_url,omitempty"`
	gDto.Metadata
}

func (r *RoomResponse) FromModel(model model.Room) {
	r.ID = model.ID
	r.RoomNumber = model.RoomNumber
	r.RoomTypeID = model.RoomTypeID
	r.RoomTypeName = model.RoomTypeName
	r.BasePrice = model.BasePrice
	r.MaxOccupancy = model.MaxOccupancy
	r.Floor = model.Floor
	r.Status = string(model.Status)
	r.Notes = model.Notes
	r.PhotoURL = model.PhotoURL
	r.Metadata.FromModel(model.Metadata)

	if model.LastCleaned != nil {
		lastCleaned := timezone.Format(*model.LastCleaned, constant.DateFormat)
		r.LastCleaned = &lastCleaned
	}
}

type GetRoomsResponse struct {
	Rooms     []RoomResponse `json:"rooms"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetRoomsResponse) FromModels(models []model.Room, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Rooms = make([]RoomResponse, len(models))
	for i, mod := range models {
		r.Rooms[i].FromModel(mod)
	}
}

type AvailableRoomsResponse struct {
	CheckIn  string         `json:"check_in"`
	CheckOut string         `json:"check_out"`
	Nights   int            `json:"nights"`
	Rooms    []RoomResponse `json:"rooms"`
}
