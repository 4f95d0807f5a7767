package dto

import (
	"hotel/internal/domains/hotelservice/model"
	"hotel/shared"
	gDto "hotel/shared/dto"
	gModel "hotel/shared/model"
	"hotel/shared/timezone"

	"github.com/google/uuid"
)

type CreateServiceRequest struct {
	Name        string  `json:"name"                  validate:"required,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=1000"`
	Price       float64 `json:"price"                 validate:"gte=0"`
	Category    string  `json:"category"              validate:"required,oneof=room_service spa restaurant transport laundry other"`
	Active      *bool   `json:"active,omitempty"`
}

func (c *CreateServiceRequest) ToModel(user string) model.HotelService {
	now := timezone.Now()

	active := true
	if c.Active != nil {
		active = *c.Active
	}

	return model.HotelService{
		ID:          uuid.NewString(),
		Name:        c.Name,
		Description: c.Description,
		Price:       c.Price,
		Category:    c.Category,
		Active:      active,
		Metadata: gModel.NewMetadata(user, now),
	}
}

type UpdateServiceRequest struct {
	Name        string   `db:"name"        json:"name,omitempty"        validate:"omitempty,max=100"`
	Description *string  `db:"description" json:"description,omitempty" validate:"omitempty,max=1000"`
	Price       *float64 `db:"price"       json:"price,omitempty"       validate:"omitempty,gte=0"`
	Category    string   `db:"category"    json:"category,omitempty"    validate:"omitempty,oneof=room_service spa restaurant transport laundry other"`
	Active      *bool    `db:"active"      json:"active,omitempty"`
}

type ServiceFilter struct {
	Category string `validate:"omitempty,oneof=room_service spa restaurant transport laundry other"`
	Active   *bool
}

type ServiceResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Active      bool    `json:"active"`
	gDto.Metadata
}

func (s *ServiceResponse) FromModel(model model.HotelService) {
	s.ID = model.ID
	s.Name = model.Name
	s.Description = model.Description
	s.Price = model.Price
	s.Category = model.Category
	s.Active = model.Active
	s.Metadata.FromModel(model.Metadata)
}

type GetServicesResponse struct {
	Services  []ServiceResponse `json:"services"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetServicesResponse) FromModels(models []model.HotelService, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Services = make([]ServiceResponse, len(models))
	for i, mod := range models {
		r.Services[i].FromModel(mod)
	}
}
