package model

import (
	"time"

	"github.com/google/uuid"
)

type Profile struct {
	Id         uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email      string    `gorm:"type:varchar(255);not null;index"`
	FullName   *string   `gorm:"type:varchar(255)"`
	MoodStatus string    `gorm:"type:varchar(50);not null;default:'🙂'"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

func (Profile) TableName() string {
	return "profiles"
}
