package dto

import (
	"time"

	"github.com/google/uuid"
)

type MagicLinkRequest struct {
	Email      string `json:"email" validate:"required,email"`
	RedirectTo string `json:"redirect_to" validate:"omitempty,url"`
}

type MagicLinkResponse struct {
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

type VerifyResponse struct {
	AccessToken string          `json:"access_token"`
	ExpiresAt   time.Time       `json:"expires_at"`
	User        SessionIdentity `json:"user"`
}

type SessionIdentity struct {
	Id    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

type LegacyLoginRequest struct {
	DisplayName string `json:"display_name" validate:"required,min=2"`
	Password    string `json:"password" validate:"required"`
}

type SessionResponse struct {
	User    SessionIdentity  `json:"user"`
	Profile *ProfileResponse `json:"profile,omitempty"`
}
