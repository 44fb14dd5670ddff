package contract

import (
	"context"

	"commercial-hub-be/internal/entity"
	"commercial-hub-be/internal/repository/specification"
)

type ProfileRepository interface {
	// Upsert inserts or replaces by primary key. Concurrent first logins for
	// the same identity converge on the PK conflict, last writer wins.
	Upsert(ctx context.Context, profile *entity.Profile) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Profile, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Profile, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
