package dto

import (
	"time"

	"github.com/google/uuid"
)

type ProfileResponse struct {
	Id         uuid.UUID  `json:"id"`
	Email      string     `json:"email"`
	FullName   string     `json:"full_name,omitempty"`
	MoodStatus string     `json:"mood_status"`
	UpdatedAt  *time.Time `json:"updated_at,omitempty"`
}

type UpdateMoodRequest struct {
	MoodStatus string `json:"mood_status" validate:"required,max=16"`
}
