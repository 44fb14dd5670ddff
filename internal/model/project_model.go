package model

import (
	"time"

	"github.com/google/uuid"
)

type Project struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index"`
	UserId      uuid.UUID `gorm:"type:uuid;not null;index"`
	Status      string    `gorm:"type:varchar(50);not null;default:'Open'"`
	RequestDate time.Time `gorm:"type:date;not null"`
	ClientName  string    `gorm:"type:varchar(255);not null"`
	AgentName   string    `gorm:"type:varchar(255);not null;index"`
	ProjectName string    `gorm:"type:varchar(255);not null"`
	Value       float64   `gorm:"type:numeric(14,2);not null;default:0"`
	Notes       *string   `gorm:"type:text"`
	PdfURL      *string   `gorm:"type:text"`
}

func (Project) TableName() string {
	return "projects"
}
