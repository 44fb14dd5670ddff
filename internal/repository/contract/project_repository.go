package contract

import (
	"context"

	"commercial-hub-be/internal/entity"
	"commercial-hub-be/internal/repository/specification"
)

type ProjectRepository interface {
	Upsert(ctx context.Context, project *entity.Project) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Project, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Project, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
