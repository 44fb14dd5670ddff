package unitofwork

import (
	"context"

	"commercial-hub-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	ProfileRepository() contract.ProfileRepository
	ProjectRepository() contract.ProjectRepository
	LoginTokenRepository() contract.LoginTokenRepository
	ActivityLogRepository() contract.ActivityLogRepository
}
