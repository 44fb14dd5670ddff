package mapper

import (
	"encoding/json"

	"commercial-hub-be/internal/entity"
	"commercial-hub-be/internal/model"

	"gorm.io/datatypes"
)

type AuthMapper struct{}

func NewAuthMapper() *AuthMapper {
	return &AuthMapper{}
}

func (m *AuthMapper) LoginTokenToEntity(t *model.LoginToken) *entity.LoginToken {
	if t == nil {
		return nil
	}
	return &entity.LoginToken{
		Id:         t.Id,
		Email:      t.Email,
		Token:      t.Token,
		RedirectTo: t.RedirectTo,
		ExpiresAt:  t.ExpiresAt,
		Used:       t.Used,
		CreatedAt:  t.CreatedAt,
	}
}

func (m *AuthMapper) LoginTokenToModel(t *entity.LoginToken) *model.LoginToken {
	if t == nil {
		return nil
	}
	return &model.LoginToken{
		Id:         t.Id,
		Email:      t.Email,
		Token:      t.Token,
		RedirectTo: t.RedirectTo,
		ExpiresAt:  t.ExpiresAt,
		Used:       t.Used,
		CreatedAt:  t.CreatedAt,
	}
}

func (m *AuthMapper) ActivityLogToModel(l *entity.ActivityLog) *model.ActivityLog {
	if l == nil {
		return nil
	}

	var payload datatypes.JSON
	if l.Payload != nil {
		if raw, err := json.Marshal(l.Payload); err == nil {
			payload = datatypes.JSON(raw)
		}
	}

	return &model.ActivityLog{
		Id:         l.Id,
		Collection: l.Collection,
		Action:     l.Action,
		RecordId:   l.RecordId,
		Payload:    payload,
		CreatedAt:  l.CreatedAt,
	}
}
