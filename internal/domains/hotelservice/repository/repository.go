package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"hotel/infras/otel"
	"hotel/infras/postgres"
	"hotel/internal/domains/hotelservice/model"
	gDto "hotel/shared/dto"
	gRepo "hotel/shared/repository"
)

type HotelService interface {
	Insert(ctx context.Context, model model.HotelService) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.HotelService, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.HotelService, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

func New(db *postgres.Connection, otel otel.Otel) HotelService {
	repo := gRepo.NewRepository[model.HotelService](model.EntityName, model.TableName, model.FieldID, db, otel)

	return &repo
}
