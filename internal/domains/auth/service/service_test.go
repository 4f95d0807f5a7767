package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"hotel/config"
	"hotel/infras/jwt"
	jwtMocks "hotel/infras/jwt/mocks"
	otelMocks "hotel/infras/otel/mocks"
	"hotel/internal/domains/auth/model/dto"
	"hotel/internal/domains/auth/service"
	userMocks "hotel/internal/domains/user/mocks"
	userModel "hotel/internal/domains/user/model"
	cacheMocks "hotel/shared/cache/mocks"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/failure"
	"hotel/shared/password"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
)

const userID = "e1f2a3b4-c5d6-4e7f-8a9b-0c1d2e3f4a05"

type deps struct {
	users *userMocks.MockUser
	jwt   *jwtMocks.MockJWT
}

func newService(t *testing.T) (service.Auth, *deps) {
	t.Helper()

	ctrl := gomock.NewController(t)

	d := &deps{
		users: userMocks.NewMockUser(ctrl),
		jwt:   jwtMocks.NewMockJWT(ctrl),
	}

	cache := cacheMocks.NewMockRedisCache(ctrl)
	cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return service.New(d.users, &config.Config{}, cache, otelMocks.NewOtel(), d.jwt), d
}

func staffUser(t *testing.T, plain string, active bool) userModel.User {
	t.Helper()

	hash, err := password.Hash(plain)
	require.NoError(t, err)

	return userModel.User{
		ID:       userID,
		Username: "frontdesk1",
		Email:    "fd1@hotel.test",
		Password: hash,
		Role:     constant.RoleStaff,
		Active:   active,
	}
}

func tokenPair() *jwt.TokenPair {
	return &jwt.TokenPair{AccessToken: "access", RefreshToken: "refresh", TokenType: "Bearer", ExpiresIn: 900}
}

func TestAuthService_Login(t *testing.T) {
	tests := []struct {
		name      string
		req       dto.LoginRequest
		setupMock func(t *testing.T, d *deps)
		wantCode  int
	}{
		{
			name: "by username",
			req:  dto.LoginRequest{Identifier: "frontdesk1", Password: "correct-horse"},
			setupMock: func(t *testing.T, d *deps) {
				d.users.EXPECT().FindByLogin(gomock.Any(), "frontdesk1").Return(staffUser(t, "correct-horse", true), nil)
				d.jwt.EXPECT().GenerateTokenPair(jwt.Subject{UserID: userID, Username: "frontdesk1", Email: "fd1@hotel.test", Role: constant.RoleStaff}).Return(tokenPair(), nil)
				d.users.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "last login failure does not block",
			req:  dto.LoginRequest{Identifier: "fd1@hotel.test", Password: "correct-horse"},
			setupMock: func(t *testing.T, d *deps) {
				d.users.EXPECT().FindByLogin(gomock.Any(), gomock.Any()).Return(staffUser(t, "correct-horse", true), nil)
				d.jwt.EXPECT().GenerateTokenPair(gomock.Any()).Return(tokenPair(), nil)
				d.users.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("timeout"))
			},
		},
		{
			name: "unknown user",
			req:  dto.LoginRequest{Identifier: "ghost", Password: "whatever1"},
			setupMock: func(_ *testing.T, d *deps) {
				d.users.EXPECT().FindByLogin(gomock.Any(), gomock.Any()).Return(userModel.User{}, nil)
			},
			wantCode: http.StatusUnauthorized,
		},
		{
			name: "wrong password",
			req:  dto.LoginRequest{Identifier: "frontdesk1", Password: "wrong-horse"},
			setupMock: func(t *testing.T, d *deps) {
				d.users.EXPECT().FindByLogin(gomock.Any(), gomock.Any()).Return(staffUser(t, "correct-horse", true), nil)
			},
			wantCode: http.StatusUnauthorized,
		},
		{
			name: "deactivated",
			req:  dto.LoginRequest{Identifier: "frontdesk1", Password: "correct-horse"},
			setupMock: func(t *testing.T, d *deps) {
				d.users.EXPECT().FindByLogin(gomock.Any(), gomock.Any()).Return(staffUser(t, "correct-horse", false), nil)
			},
			wantCode: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, d := newService(t)
			tt.setupMock(t, d)

			res, err := svc.Login(context.Background(), tt.req)

			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "access", res.AccessToken)
			assert.Equal(t, "frontdesk1", res.User.Username)
		})
	}
}

func TestAuthService_Login_UpgradesWeakHash(t *testing.T) {
	svc, d := newService(t)

	weak, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	require.NoError(t, err)

	user := staffUser(t, "correct-horse", true)
	user.Password = string(weak)

	d.users.EXPECT().FindByLogin(gomock.Any(), "frontdesk1").Return(user, nil)
	d.jwt.EXPECT().GenerateTokenPair(gomock.Any()).Return(tokenPair(), nil)
	d.users.EXPECT().
		Update(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
			upgraded, ok := fields[userModel.FieldPassword].(string)
			require.True(t, ok)
			assert.False(t, password.NeedsRehash(upgraded))
			assert.NoError(t, password.Verify("correct-horse", upgraded))

			return nil
		})

	_, err = svc.Login(context.Background(), dto.LoginRequest{Identifier: "frontdesk1", Password: "correct-horse"})
	require.NoError(t, err)
}

func TestAuthService_RefreshToken(t *testing.T) {
	t.Run("issues pair with current role", func(t *testing.T) {
		svc, d := newService(t)
		user := staffUser(t, "correct-horse", true)
		user.Role = constant.RoleManager

		d.jwt.EXPECT().ValidateToken("refresh", jwt.RefreshToken).Return(&jwt.Claims{UserID: userID, Role: constant.RoleStaff}, nil)
		d.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(user, nil)
		d.jwt.EXPECT().
			GenerateTokenPair(gomock.Any()).
			DoAndReturn(func(subject jwt.Subject) (*jwt.TokenPair, error) {
				assert.Equal(t, constant.RoleManager, subject.Role)

				return tokenPair(), nil
			})

		res, err := svc.RefreshToken(context.Background(), dto.RefreshTokenRequest{RefreshToken: "refresh"})
		require.NoError(t, err)
		assert.Equal(t, "refresh", res.RefreshToken)
	})

	t.Run("invalid token", func(t *testing.T) {
		svc, d := newService(t)

		d.jwt.EXPECT().ValidateToken("bogus", jwt.RefreshToken).Return(nil, errors.New("signature is invalid"))

		_, err := svc.RefreshToken(context.Background(), dto.RefreshTokenRequest{RefreshToken: "bogus"})
		require.Error(t, err)
		assert.Equal(t, http.StatusUnauthorized, failure.GetCode(err))
	})

	t.Run("deactivated account", func(t *testing.T) {
		svc, d := newService(t)

		d.jwt.EXPECT().ValidateToken("refresh", jwt.RefreshToken).Return(&jwt.Claims{UserID: userID}, nil)
		d.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(staffUser(t, "correct-horse", false), nil)

		_, err := svc.RefreshToken(context.Background(), dto.RefreshTokenRequest{RefreshToken: "refresh"})
		require.Error(t, err)
		assert.Equal(t, http.StatusUnauthorized, failure.GetCode(err))
	})
}

func TestAuthService_ChangePassword(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc, d := newService(t)

		d.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(staffUser(t, "correct-horse", true), nil)
		d.users.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				hash, _ := fields[userModel.FieldPassword].(string)
				assert.NoError(t, password.Verify("battery-staple", hash))

				return nil
			})

		err := svc.ChangePassword(context.Background(), dto.ChangePasswordRequest{CurrentPassword: "correct-horse", NewPassword: "battery-staple"}, userID)
		require.NoError(t, err)
	})

	t.Run("wrong current password", func(t *testing.T) {
		svc, d := newService(t)

		d.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(staffUser(t, "correct-horse", true), nil)

		err := svc.ChangePassword(context.Background(), dto.ChangePasswordRequest{CurrentPassword: "nope", NewPassword: "battery-staple"}, userID)
		require.Error(t, err)
		assert.Equal(t, failure.ReasonValidation, failure.GetReason(err))
	})
}

func TestAuthService_Profile(t *testing.T) {
	svc, d := newService(t)

	d.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(userModel.User{}, nil)

	_, err := svc.Profile(context.Background(), userID)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
}

func TestAuthService_UpdateProfile(t *testing.T) {
	t.Run("lowercases email", func(t *testing.T) {
		svc, d := newService(t)

		d.users.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		d.users.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, filter gDto.FilterGroup) (bool, error) {
				where, args := filter.GetWhereClause()
				assert.Contains(t, where, "users.email = :email")
				assert.Contains(t, where, "users.id != :id")
				assert.Equal(t, "ann@hotel.test", args["email"])

				return false, nil
			})
		d.users.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, "ann@hotel.test", fields[userModel.FieldEmail])
				assert.Equal(t, "Ann Lee", fields[userModel.FieldFullName])
				assert.NotContains(t, fields, userModel.FieldRole)
				assert.NotContains(t, fields, userModel.FieldPhone)

				return nil
			})

		err := svc.UpdateProfile(context.Background(), dto.UpdateProfileRequest{Email: "Ann@Hotel.TEST", FullName: "Ann Lee"}, userID)
		require.NoError(t, err)
	})

	t.Run("name only skips email check", func(t *testing.T) {
		svc, d := newService(t)

		d.users.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		d.users.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		err := svc.UpdateProfile(context.Background(), dto.UpdateProfileRequest{FullName: "Ann Lee"}, userID)
		require.NoError(t, err)
	})

	t.Run("email taken", func(t *testing.T) {
		svc, d := newService(t)

		d.users.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		d.users.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)

		err := svc.UpdateProfile(context.Background(), dto.UpdateProfileRequest{Email: "fd2@hotel.test"}, userID)
		require.Error(t, err)
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})

	t.Run("empty request", func(t *testing.T) {
		svc, _ := newService(t)

		err := svc.UpdateProfile(context.Background(), dto.UpdateProfileRequest{}, userID)
		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("unknown user", func(t *testing.T) {
		svc, d := newService(t)

		d.users.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)

		err := svc.UpdateProfile(context.Background(), dto.UpdateProfileRequest{FullName: "Ann Lee"}, userID)
		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}
