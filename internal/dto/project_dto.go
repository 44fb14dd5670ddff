package dto

import (
	"time"

	"github.com/google/uuid"
)

type UpsertProjectRequest struct {
	Id          *uuid.UUID `json:"id" validate:"omitempty"`
	Status      string     `json:"status" validate:"required"`
	RequestDate string     `json:"request_date" validate:"required,datetime=2006-01-02"`
	ClientName  string     `json:"client_name" validate:"required"`
	AgentName   string     `json:"agent_name" validate:"required"`
	ProjectName string     `json:"project_name" validate:"required"`
	Value       float64    `json:"value" validate:"gte=0"`
	Notes       string     `json:"notes"`
}

type ProjectResponse struct {
	Id          uuid.UUID `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UserId      uuid.UUID `json:"user_id"`
	Status      string    `json:"status"`
	RequestDate string    `json:"request_date"`
	ClientName  string    `json:"client_name"`
	AgentName   string    `json:"agent_name"`
	ProjectName string    `json:"project_name"`
	Value       float64   `json:"value"`
	Notes       string    `json:"notes,omitempty"`
	PdfURL      string    `json:"pdf_url,omitempty"`
}

type ProjectListResponse struct {
	Projects []ProjectResponse `json:"projects"`
	Agents   []string          `json:"agents"`
}

type AttachPdfResponse struct {
	PdfURL string `json:"pdf_url"`
}
