package entity

import (
	"time"

	"github.com/google/uuid"
)

// Mood symbols shown on the team board. The set is advisory: the column is free
// text and unknown symbols are rendered as-is.
const (
	MoodRocket  = "🚀"
	MoodParty   = "🎉"
	MoodCoffee  = "☕"
	MoodBlocked = "🛑"
	MoodSmile   = "🙂"
)

// MoodDefault is assigned when a profile is created lazily on first login.
const MoodDefault = MoodSmile

var Moods = []string{MoodRocket, MoodParty, MoodCoffee, MoodBlocked, MoodSmile}

// Profile is the per-identity supplementary record (display name, mood).
// Exactly one row per identity id; created on first session resolution.
type Profile struct {
	Id         uuid.UUID
	Email      string
	FullName   *string
	MoodStatus string
	UpdatedAt  *time.Time
}

// DisplayName falls back to the email when no full name is set.
func (p *Profile) DisplayName() string {
	if p == nil {
		return ""
	}
	if p.FullName != nil && *p.FullName != "" {
		return *p.FullName
	}
	return p.Email
}
