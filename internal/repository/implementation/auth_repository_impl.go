package implementation

import (
	"context"
	"errors"

	"commercial-hub-be/internal/entity"
	"commercial-hub-be/internal/mapper"
	"commercial-hub-be/internal/model"
	"commercial-hub-be/internal/repository/contract"
	"commercial-hub-be/internal/repository/specification"

	"gorm.io/gorm"
)

type LoginTokenRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.AuthMapper
}

func NewLoginTokenRepository(db *gorm.DB) contract.LoginTokenRepository {
	return &LoginTokenRepositoryImpl{
		db:     db,
		mapper: mapper.NewAuthMapper(),
	}
}

func (r *LoginTokenRepositoryImpl) Create(ctx context.Context, token *entity.LoginToken) error {
	m := r.mapper.LoginTokenToModel(token)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*token = *r.mapper.LoginTokenToEntity(m)
	return nil
}

func (r *LoginTokenRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.LoginToken, error) {
	var m model.LoginToken
	query := r.db.WithContext(ctx)
	for _, spec := range specs {
		query = spec.Apply(query)
	}
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.LoginTokenToEntity(&m), nil
}

func (r *LoginTokenRepositoryImpl) MarkUsed(ctx context.Context, token *entity.LoginToken) error {
	token.Used = true
	return r.db.WithContext(ctx).
		Model(&model.LoginToken{}).
		Where("id = ?", token.Id).
		Update("used", true).Error
}

type ActivityLogRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.AuthMapper
}

func NewActivityLogRepository(db *gorm.DB) contract.ActivityLogRepository {
	return &ActivityLogRepositoryImpl{
		db:     db,
		mapper: mapper.NewAuthMapper(),
	}
}

func (r *ActivityLogRepositoryImpl) Create(ctx context.Context, log *entity.ActivityLog) error {
	return r.db.WithContext(ctx).Create(r.mapper.ActivityLogToModel(log)).Error
}
