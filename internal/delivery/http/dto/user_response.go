package dto

import (
	"time"

	"hydroguide/internal/domain/user"
	"hydroguide/internal/usecase"

	"github.com/google/uuid"
)

type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func NewUserResponse(u user.User) UserResponse {
	return UserResponse{ID: u.ID, Email: u.Email, CreatedAt: u.CreatedAt}
}

type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type TokenResponse struct {
	User         *UserResponse `json:"user,omitempty"`
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
}

func NewTokenResponse(u *user.User, pair usecase.TokenPair) TokenResponse {
	out := TokenResponse{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}
	if u != nil {
		ur := NewUserResponse(*u)
		out.User = &ur
	}
	return out
}
