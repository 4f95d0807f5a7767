package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"hotel/config"
	otelMocks "hotel/infras/otel/mocks"
	"hotel/internal/domains/roomtype/mocks"
	"hotel/internal/domains/roomtype/model"
	"hotel/internal/domains/roomtype/model/dto"
	"hotel/internal/domains/roomtype/service"
	cacheMocks "hotel/shared/cache/mocks"
	gDto "hotel/shared/dto"
	"hotel/shared/failure"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const roomTypeID = "7c1e2d3f-4a5b-4c6d-8e7f-9a0b1c2d3e06"

func newService(t *testing.T) (service.RoomType, *mocks.MockRoomType, *cacheMocks.MockRedisCache) {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRoomType(ctrl)
	cache := cacheMocks.NewMockRedisCache(ctrl)

	cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return service.New(repo, &config.Config{}, cache, otelMocks.NewOtel()), repo, cache
}

func TestRoomTypeService_Create(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(repo *mocks.MockRoomType)
		wantCode  int
	}{
		{
			name: "success",
			setupMock: func(repo *mocks.MockRoomType) {
				repo.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, roomType model.RoomType) error {
					assert.Equal(t, pq.StringArray{"wifi", "minibar"}, roomType.Amenities)

					return nil
				})
			},
		},
		{
			name: "duplicate name",
			setupMock: func(repo *mocks.MockRoomType) {
				repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(&pq.Error{Code: "23505"})
			},
			wantCode: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _ := newService(t)
			tt.setupMock(repo)

			res, err := svc.Create(context.Background(), dto.CreateRoomTypeRequest{
				Name: "Deluxe", BasePrice: 150, MaxOccupancy: 2, Amenities: []string{"wifi", "minibar"},
			})

			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "Deluxe", res.Name)
			assert.NotEmpty(t, res.ID)
		})
	}
}

func TestRoomTypeService_Get(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		svc, repo, cache := newService(t)

		cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
		repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.RoomType{ID: roomTypeID, Name: "Suite"}, nil)

		res, err := svc.Get(context.Background(), roomTypeID)
		require.NoError(t, err)
		assert.Equal(t, "Suite", res.Name)
		assert.Empty(t, res.Amenities)
		assert.NotNil(t, res.Amenities)
	})

	t.Run("not found", func(t *testing.T) {
		svc, repo, cache := newService(t)

		cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
		repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.RoomType{}, nil)

		_, err := svc.Get(context.Background(), roomTypeID)
		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestRoomTypeService_GetAll(t *testing.T) {
	svc, repo, cache := newService(t)

	cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
	repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(2, nil)
	repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.RoomType{{ID: "a"}, {ID: "b"}}, nil)

	res, err := svc.GetAll(context.Background(), gDto.QueryParams{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, res.RoomTypes, 2)
	assert.Equal(t, 1, res.TotalPage)
}
