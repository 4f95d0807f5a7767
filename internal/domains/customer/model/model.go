package model

import (
	"hotel/shared/model"
	"time"
)

const (
	TableName  = "customers"
	EntityName = "customer"

	FieldID          = "id"
	FieldFirstName   = "first_name"
	FieldLastName    = "last_name"
	FieldEmail       = "email"
	FieldPhone       = "phone"
	FieldAddress     = "address"
	FieldIDNumber    = "id_number"
	FieldIDType      = "id_type"
	FieldDateOfBirth = "date_of_birth"
	FieldNationality = "nationality"

	CacheGetCustomer    = "customer:get"
	CacheGetAllCustomer = "customer:gets"
	CacheCountCustomer  = "customer:count"
)

type Customer struct {
	ID          string     `db:"id"`
	FirstName   string     `db:"first_name"`
	LastName    string     `db:"last_name"`
	Email       *string    `db:"email"`
	Phone       *string    `db:"phone"`
	Address     *string    `db:"address"`
	IDNumber    *string    `db:"id_number"`
	IDType      *string    `db:"id_type"`
	DateOfBirth *time.Time `db:"date_of_birth"`
	Nationality *string    `db:"nationality"`
	model.Metadata
}

func (c Customer) FullName() string {
	return c.FirstName + " " + c.LastName
}
