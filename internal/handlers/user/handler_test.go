package user_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	otelMocks "hotel/infras/otel/mocks"
	"hotel/internal/domains/user/model/dto"
	"hotel/internal/handlers/user"
	gDto "hotel/shared/dto"
	"hotel/shared/failure"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const userID = "e1f2a3b4-c5d6-4e7f-8a9b-0c1d2e3f4a05"

type stubService struct {
	filter  gDto.FilterGroup
	deleted string
	err     error
}

func (s *stubService) Create(context.Context, dto.CreateUserRequest) (dto.UserResponse, error) {
	return dto.UserResponse{}, s.err
}

func (s *stubService) GetAll(_ context.Context, _ gDto.QueryParams, filter gDto.FilterGroup) (dto.GetUsersResponse, error) {
	s.filter = filter

	return dto.GetUsersResponse{Users: []dto.UserResponse{}}, s.err
}

func (s *stubService) Get(context.Context, string) (dto.UserResponse, error) {
	return dto.UserResponse{}, s.err
}

func (s *stubService) Update(context.Context, dto.UpdateUserRequest, string) error {
	return s.err
}

func (s *stubService) Delete(_ context.Context, id string) error {
	s.deleted = id

	return s.err
}

func serve(svc *stubService, method, target string) *httptest.ResponseRecorder {
	handler := user.New(svc, otelMocks.NewOtel())

	router := chi.NewRouter()
	handler.Router(router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(method, target, nil))

	return rec
}

func TestListStaff_Search(t *testing.T) {
	svc := &stubService{}

	rec := serve(svc, http.MethodGet, "/users?role=manager&active=true&search=ann")
	require.Equal(t, http.StatusOK, rec.Code)

	where, args := svc.filter.GetWhereClause()
	assert.Contains(t, where, "users.role = :role")
	assert.Contains(t, where, "users.active = :active")
	assert.Contains(t, where, "LOWER(users.full_name) LIKE LOWER(:search_full_name)")
	assert.Equal(t, "%ann%", args["search_username"])
}

func TestListStaff_UnknownRole(t *testing.T) {
	rec := serve(&stubService{}, http.MethodGet, "/users?role=owner")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteStaff(t *testing.T) {
	svc := &stubService{}

	rec := serve(svc, http.MethodDelete, "/users/"+userID)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, userID, svc.deleted)

	svc = &stubService{err: failure.Forbidden("cannot delete your own account")}
	rec = serve(svc, http.MethodDelete, "/users/"+userID)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = serve(&stubService{}, http.MethodDelete, "/users/not-a-uuid")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
