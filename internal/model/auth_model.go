package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type LoginToken struct {
	Id         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Email      string    `gorm:"type:varchar(255);not null;index"`
	Token      string    `gorm:"type:varchar(255);not null;index"`
	RedirectTo string    `gorm:"type:text"`
	ExpiresAt  time.Time `gorm:"not null"`
	Used       bool      `gorm:"default:false"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

func (LoginToken) TableName() string {
	return "login_tokens"
}

type ActivityLog struct {
	Id         uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Collection string         `gorm:"type:varchar(50);not null;index"`
	Action     string         `gorm:"type:varchar(20);not null"`
	RecordId   uuid.UUID      `gorm:"type:uuid;not null;index"`
	Payload    datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt  time.Time      `gorm:"autoCreateTime;index"`
}

func (ActivityLog) TableName() string {
	return "activity_logs"
}
