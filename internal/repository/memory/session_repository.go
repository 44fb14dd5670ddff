package memory

import (
	"time"

	"commercial-hub-be/internal/entity"

	"github.com/patrickmn/go-cache"
)

// SessionRepository keeps issued sessions in memory with TTL eviction, so an
// expired session disappears without a cleanup job.
type SessionRepository struct {
	cache *cache.Cache
}

func NewSessionRepository(ttl time.Duration) *SessionRepository {
	c := cache.New(ttl, 10*time.Minute)
	return &SessionRepository{
		cache: c,
	}
}

func (r *SessionRepository) Save(session *entity.Session) {
	r.cache.Set(session.Id.String(), session, time.Until(session.ExpiresAt))
}

func (r *SessionRepository) Get(sessionID string) (*entity.Session, bool) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*entity.Session), true
	}
	return nil, false
}

func (r *SessionRepository) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}
