package dto

import (
	"time"

	"hotel/infras/jwt"
	userDto "hotel/internal/domains/user/model/dto"
)

// LoginRequest accepts either the username or the email in Identifier.
type LoginRequest struct {
	Identifier string `json:"username" validate:"required,max=100"`
	Password   string `json:"password" validate:"required"`
}

type UpdateLastLoginRequest struct {
	LastLogin time.Time `db:"last_login"`
}

// Tokens is the bearer pair handed out on login and refresh.
type Tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

func (t *Tokens) FromTokenPair(pair *jwt.TokenPair) {
	t.AccessToken = pair.AccessToken
	t.RefreshToken = pair.RefreshToken
	t.TokenType = pair.TokenType
	t.ExpiresIn = pair.ExpiresIn
}

type LoginResponse struct {
	Tokens
	User userDto.UserResponse `json:"user"`
}

type ProfileResponse = userDto.UserResponse

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type RefreshTokenResponse struct {
	Tokens
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password"     validate:"required,min=8,max=72,nefield=CurrentPassword"`
}

type UpdatePasswordRequest struct {
	Password string `db:"password"`
}

// UpdateProfileRequest holds the contact fields staff may change on their own account.
type UpdateProfileRequest struct {
	Email    string  `db:"email"     json:"email,omitempty"     validate:"omitempty,email,max=100"`
	FullName string  `db:"full_name" json:"full_name,omitempty" validate:"omitempty,min=1,max=100"`
	Phone    *string `db:"phone"     json:"phone,omitempty"     validate:"omitempty,max=20"`
}
