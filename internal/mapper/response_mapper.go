package mapper

import (
	"commercial-hub-be/internal/dto"
	"commercial-hub-be/internal/entity"
)

func ProfileToResponse(p *entity.Profile) dto.ProfileResponse {
	res := dto.ProfileResponse{
		Id:         p.Id,
		Email:      p.Email,
		MoodStatus: p.MoodStatus,
		UpdatedAt:  p.UpdatedAt,
	}
	if p.FullName != nil {
		res.FullName = *p.FullName
	}
	return res
}

func ProjectToResponse(p *entity.Project) dto.ProjectResponse {
	res := dto.ProjectResponse{
		Id:          p.Id,
		CreatedAt:   p.CreatedAt,
		UserId:      p.UserId,
		Status:      p.Status,
		RequestDate: p.RequestDate.Format("2006-01-02"),
		ClientName:  p.ClientName,
		AgentName:   p.AgentName,
		ProjectName: p.ProjectName,
		Value:       p.Value,
	}
	if p.Notes != nil {
		res.Notes = *p.Notes
	}
	if p.PdfURL != nil {
		res.PdfURL = *p.PdfURL
	}
	return res
}
