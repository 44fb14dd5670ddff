package specification

import (
	"time"

	"gorm.io/gorm"
)

type ByToken struct {
	Token string
}

func (s ByToken) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("token = ?", s.Token)
}

type Unused struct{}

func (s Unused) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("used = false")
}

type NotExpired struct {
	Now time.Time
}

func (s NotExpired) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("expires_at > ?", s.Now)
}
