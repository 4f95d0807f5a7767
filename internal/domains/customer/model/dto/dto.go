package dto

import (
	"time"

	bookingDto "hotel/internal/domains/booking/model/dto"
	"hotel/internal/domains/customer/model"
	"hotel/shared"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	gModel "hotel/shared/model"
	"hotel/shared/timezone"

	"github.com/google/uuid"
)

type CreateCustomerRequest struct {
	FirstName   string  `json:"first_name"              validate:"required,max=50"`
	LastName    string  `json:"last_name"               validate:"required,max=50"`
	Email       *string `json:"email,omitempty"         validate:"omitempty,email,max=100"`
	Phone       *string `json:"phone,omitempty"         validate:"omitempty,max=20"`
	Address     *string `json:"address,omitempty"       validate:"omitempty,max=500"`
	IDNumber    *string `json:"id_number,omitempty"     validate:"omitempty,max=50"`
	IDType      *string `json:"id_type,omitempty"       validate:"omitempty,oneof=passport national_id driver_license"`
	DateOfBirth *string `json:"date_of_birth,omitempty" validate:"omitempty,date"`
	Nationality *string `json:"nationality,omitempty"   validate:"omitempty,max=50"`
}

func (c *CreateCustomerRequest) ToModel(user string) model.Customer {
	now := timezone.Now()

	return model.Customer{
		ID:          uuid.NewString(),
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		Email:       c.Email,
		Phone:       c.Phone,
		Address:     c.Address,
		IDNumber:    c.IDNumber,
		IDType:      c.IDType,
		DateOfBirth: ParseDate(c.DateOfBirth),
		Nationality: c.Nationality,
		Metadata: gModel.NewMetadata(user, now),
	}
}

// UpdateCustomerRequest carries a partial update. Date of birth is converted by the service.
type UpdateCustomerRequest struct {
	FirstName   string  `db:"first_name"          json:"first_name,omitempty"    validate:"omitempty,max=50"`
	LastName    string  `db:"last_name"           json:"last_name,omitempty"     validate:"omitempty,max=50"`
	Email       *string `db:"email"               json:"email,omitempty"         validate:"omitempty,email,max=100"`
	Phone       *string `db:"phone"               json:"phone,omitempty"         validate:"omitempty,max=20"`
	Address     *string `db:"address"             json:"address,omitempty"       validate:"omitempty,max=500"`
	IDNumber    *string `db:"id_number"           json:"id_number,omitempty"     validate:"omitempty,max=50"`
	IDType      *string `db:"id_type"             json:"id_type,omitempty"       validate:"omitempty,oneof=passport national_id driver_license"`
	DateOfBirth *string `json:"date_of_birth,omitempty" validate:"omitempty,date"`
	Nationality *string `db:"nationality"         json:"nationality,omitempty"   validate:"omitempty,max=50"`
}

// ParseDate reads an already validated YYYY-MM-DD value.
func ParseDate(value *string) *time.Time {
	if value == nil || *value == constant.Empty {
		return nil
	}

	parsed, err := time.Parse(constant.DateOnlyFormat, *value)
	if err != nil {
		return nil
	}

	return &parsed
}

type CustomerResponse struct {
	ID          string                       `json:"id"`
	FirstName   string                       `json:"first_name"`
	LastName    string                       `json:"last_name"`
	Email       *string                      `json:"email,omitempty"`
	Phone       *string                      `json:"phone,omitempty"`
	Address     *string                      `json:"address,omitempty"`
	IDNumber    *string                      `json:"id_number,omitempty"`
	IDType      *string                      `json:"id_type,omitempty"`
	DateOfBirth *string                      `json:"date_of_birth,omitempty"`
	Nationality *string                      `json:"nationality,omitempty"`
	Bookings    []bookingDto.BookingResponse `json:"bookings,omitempty"`
	gDto.Metadata
}

func (c *CustomerResponse) FromModel(model model.Customer) {
	c.ID = model.ID
	c.FirstName = model.FirstName
	c.LastName = model.LastName
	c.Email = model.Email
	c.Phone = model.Phone
	c.Address = model.Address
	c.IDNumber = model.IDNumber
	c.IDType = model.IDType
	c.Nationality = model.Nationality
	c.Metadata.FromModel(model.Metadata)

	if model.DateOfBirth != nil {
		dob := model.DateOfBirth.Format(constant.DateOnlyFormat)
		c.DateOfBirth = &dob
	}
}

type GetCustomersResponse struct {
	Customers []CustomerResponse `json:"customers"`
	TotalPage int                `json:"total_page"`
	TotalData int                `json:"total_data"`
}

func (r *GetCustomersResponse) FromModels(models []model.Customer, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Customers = make([]CustomerResponse, len(models))
	for i, mod := range models {
		r.Customers[i].FromModel(mod)
	}
}
