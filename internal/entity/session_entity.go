package entity

import (
	"time"

	"github.com/google/uuid"
)

// Identity is the authenticated principal resolved from a session.
type Identity struct {
	Id    uuid.UUID
	Email string
}

// Session is a time-bounded proof of an authenticated identity. Issued sessions
// live in the memory store; the browser carries the AccessToken JWT.
type Session struct {
	Id          uuid.UUID
	Identity    Identity
	AccessToken string
	ExpiresAt   time.Time
	CreatedAt   time.Time
}

func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// LoginToken is a single-use magic-link token mailed to the user.
type LoginToken struct {
	Id         uuid.UUID
	Email      string
	Token      string
	RedirectTo string
	ExpiresAt  time.Time
	Used       bool
	CreatedAt  time.Time
}

// ActivityLog records one collection change for auditing. Written by the store
// on every upsert; the dashboard never reads it.
type ActivityLog struct {
	Id         uuid.UUID
	Collection string
	Action     string
	RecordId   uuid.UUID
	Payload    map[string]interface{}
	CreatedAt  time.Time
}
