package dto

import (
	"hotel/internal/domains/roomtype/model"
	"hotel/shared"
	gDto "hotel/shared/dto"
	gModel "hotel/shared/model"
	"hotel/shared/timezone"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type CreateRoomTypeRequest struct {
	Name         string   `json:"name"                  validate:"required,max=50"`
	Description  *string  `json:"description,omitempty" validate:"omitempty,max=1000"`
	BasePrice    float64  `json:"base_price"            validate:"gte=0"`
	MaxOccupancy int      `json:"max_occupancy"         validate:"required,min=1,max=20"`
	Amenities    []string `json:"amenities,omitempty"   validate:"omitempty,dive,required,max=50"`
}

func (c *CreateRoomTypeRequest) ToModel(user string) model.RoomType {
	now := timezone.Now()

	amenities := pq.StringArray{}
	if len(c.Amenities) > 0 {
		amenities = pq.StringArray(c.Amenities)
	}

	return model.RoomType{
		ID:           uuid.NewString(),
		Name:         c.Name,
		Description:  c.Description,
		BasePrice:    c.BasePrice,
		MaxOccupancy: c.MaxOccupancy,
		Amenities:    amenities,
		Metadata: gModel.NewMetadata(user, now),
	}
}

type RoomTypeResponse struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  *string  `json:"description,omitempty"`
	BasePrice    float64  `json:"base_price"`
	MaxOccupancy int      `json:"max_occupancy"`
	Amenities    []string `json:"amenities"`
	gDto.Metadata
}

func (r *RoomTypeResponse) FromModel(model model.RoomType) {
	r.ID = model.ID
	r.Name = model.Name
	r.Description = model.Description
	r.BasePrice = model.BasePrice
	r.MaxOccupancy = model.MaxOccupancy
	r.Amenities = []string(model.Amenities)
	r.Metadata.FromModel(model.Metadata)

	if r.Amenities == nil {
		r.Amenities = []string{}
	}
}

type GetRoomTypesResponse struct {
	RoomTypes []RoomTypeResponse `json:"room_types"`
	TotalPage int                `json:"total_page"`
	TotalData int                `json:"total_data"`
}

func (r *GetRoomTypesResponse) FromModels(models []model.RoomType, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.RoomTypes = make([]RoomTypeResponse, len(models))
	for i, mod := range models {
		r.RoomTypes[i].FromModel(mod)
	}
}
