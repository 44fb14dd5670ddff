package mapper

import (
	"time"

	"commercial-hub-be/internal/entity"
	"commercial-hub-be/internal/model"
)

type ProfileMapper struct{}

func NewProfileMapper() *ProfileMapper {
	return &ProfileMapper{}
}

func (m *ProfileMapper) ToEntity(p *model.Profile) *entity.Profile {
	if p == nil {
		return nil
	}

	var updatedAt *time.Time
	if !p.UpdatedAt.IsZero() {
		t := p.UpdatedAt
		updatedAt = &t
	}

	mood := p.MoodStatus
	if mood == "" {
		mood = entity.MoodDefault
	}

	return &entity.Profile{
		Id:         p.Id,
		Email:      p.Email,
		FullName:   p.FullName,
		MoodStatus: mood,
		UpdatedAt:  updatedAt,
	}
}

func (m *ProfileMapper) ToModel(p *entity.Profile) *model.Profile {
	if p == nil {
		return nil
	}

	var updatedAt time.Time
	if p.UpdatedAt != nil {
		updatedAt = *p.UpdatedAt
	}

	return &model.Profile{
		Id:         p.Id,
		Email:      p.Email,
		FullName:   p.FullName,
		MoodStatus: p.MoodStatus,
		UpdatedAt:  updatedAt,
	}
}

func (m *ProfileMapper) ToEntities(profiles []*model.Profile) []*entity.Profile {
	entities := make([]*entity.Profile, len(profiles))
	for i, p := range profiles {
		entities[i] = m.ToEntity(p)
	}
	return entities
}
