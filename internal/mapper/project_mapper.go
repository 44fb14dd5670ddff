package mapper

import (
	"commercial-hub-be/internal/entity"
	"commercial-hub-be/internal/model"
)

type ProjectMapper struct{}

func NewProjectMapper() *ProjectMapper {
	return &ProjectMapper{}
}

// ToEntity is the validation boundary between storage and the typed domain:
// value is clamped to >= 0 so downstream aggregation never sees garbage.
func (m *ProjectMapper) ToEntity(p *model.Project) *entity.Project {
	if p == nil {
		return nil
	}

	value := p.Value
	if value < 0 {
		value = 0
	}

	return &entity.Project{
		Id:          p.Id,
		CreatedAt:   p.CreatedAt,
		UserId:      p.UserId,
		Status:      p.Status,
		RequestDate: p.RequestDate,
		ClientName:  p.ClientName,
		AgentName:   p.AgentName,
		ProjectName: p.ProjectName,
		Value:       value,
		Notes:       p.Notes,
		PdfURL:      p.PdfURL,
	}
}

func (m *ProjectMapper) ToModel(p *entity.Project) *model.Project {
	if p == nil {
		return nil
	}

	value := p.Value
	if value < 0 {
		value = 0
	}

	return &model.Project{
		Id:          p.Id,
		CreatedAt:   p.CreatedAt,
		UserId:      p.UserId,
		Status:      p.Status,
		RequestDate: p.RequestDate,
		ClientName:  p.ClientName,
		AgentName:   p.AgentName,
		ProjectName: p.ProjectName,
		Value:       value,
		Notes:       p.Notes,
		PdfURL:      p.PdfURL,
	}
}

func (m *ProjectMapper) ToEntities(projects []*model.Project) []*entity.Project {
	entities := make([]*entity.Project, len(projects))
	for i, p := range projects {
		entities[i] = m.ToEntity(p)
	}
	return entities
}
