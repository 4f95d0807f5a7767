package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	otelMocks "hotel/infras/otel/mocks"
	"hotel/internal/domains/auth/model/dto"
	userDto "hotel/internal/domains/user/model/dto"
	"hotel/internal/handlers/auth"
	"hotel/shared/constant"
	"hotel/shared/failure"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

const userID = "e1f2a3b4-c5d6-4e7f-8a9b-0c1d2e3f4a05"

type stubService struct {
	profile dto.UpdateProfileRequest
	userID  string
	err     error
}

func (s *stubService) Login(context.Context, dto.LoginRequest) (dto.LoginResponse, error) {
	return dto.LoginResponse{}, s.err
}

func (s *stubService) RefreshToken(context.Context, dto.RefreshTokenRequest) (dto.RefreshTokenResponse, error) {
	return dto.RefreshTokenResponse{}, s.err
}

func (s *stubService) Profile(context.Context, string) (userDto.UserResponse, error) {
	return userDto.UserResponse{}, s.err
}

func (s *stubService) UpdateProfile(_ context.Context, req dto.UpdateProfileRequest, userID string) error {
	s.profile = req
	s.userID = userID

	return s.err
}

func (s *stubService) ChangePassword(context.Context, dto.ChangePasswordRequest, string) error {
	return s.err
}

func serve(svc *stubService, method, target, body, caller string) *httptest.ResponseRecorder {
	handler := auth.New(svc, otelMocks.NewOtel())

	router := chi.NewRouter()
	handler.Router(router)

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	if caller != "" {
		req = req.WithContext(context.WithValue(req.Context(), constant.ContextKeyUserID, caller))
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	return rec
}

func TestUpdateProfile(t *testing.T) {
	svc := &stubService{}

	rec := serve(svc, http.MethodPut, "/auth/profile", `{"full_name":"Ann Lee","email":"ann@hotel.test"}`, userID)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, userID, svc.userID)
	assert.Equal(t, "Ann Lee", svc.profile.FullName)
	assert.Equal(t, "ann@hotel.test", svc.profile.Email)
}

func TestUpdateProfile_Rejected(t *testing.T) {
	rec := serve(&stubService{}, http.MethodPut, "/auth/profile", `{"full_name":"Ann Lee"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = serve(&stubService{}, http.MethodPut, "/auth/profile", `{"email":"not-an-email"}`, userID)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(&stubService{err: failure.Conflict("email already registered")}, http.MethodPut, "/auth/profile", `{"email":"fd2@hotel.test"}`, userID)
	assert.Equal(t, http.StatusConflict, rec.Code)
}
