package entity

import (
	"time"

	"github.com/google/uuid"
)

// Project statuses driven by the edit UI. Storage keeps the column as an open
// string; anything outside this set is treated as "other" by the derivations,
// never rejected.
const (
	StatusOpen        = "Open"
	StatusNegotiation = "Negotiation"
	StatusWon         = "Won"
	StatusLost        = "Lost"
)

var ProjectStatuses = []string{StatusOpen, StatusNegotiation, StatusWon, StatusLost}

// Project is a sales deal tracked through the status pipeline.
type Project struct {
	Id          uuid.UUID
	CreatedAt   time.Time
	UserId      uuid.UUID
	Status      string
	RequestDate time.Time
	ClientName  string
	AgentName   string
	ProjectName string
	Value       float64
	Notes       *string
	PdfURL      *string
}

// InPipeline reports whether the project contributes to open pipeline value.
func (p *Project) InPipeline() bool {
	return p.Status == StatusOpen || p.Status == StatusNegotiation
}
