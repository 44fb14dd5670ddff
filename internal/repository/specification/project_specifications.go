package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProjectOwnedBy struct {
	UserID uuid.UUID
}

func (s ProjectOwnedBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserID)
}

type ByAgentName struct {
	AgentName string
}

func (s ByAgentName) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("agent_name = ?", s.AgentName)
}

type ByStatus struct {
	Status string
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}
