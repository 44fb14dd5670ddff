package contract

import (
	"context"

	"commercial-hub-be/internal/entity"
	"commercial-hub-be/internal/repository/specification"
)

type LoginTokenRepository interface {
	Create(ctx context.Context, token *entity.LoginToken) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.LoginToken, error)
	MarkUsed(ctx context.Context, token *entity.LoginToken) error
}

type ActivityLogRepository interface {
	Create(ctx context.Context, log *entity.ActivityLog) error
}
