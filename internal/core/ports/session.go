package ports

import (
	"context"

	"github.com/nimblecrm/crm-console/internal/core/domain"
)

// Session is the operator session as seen by the HTTP layer.
type Session interface {
	Snapshot() domain.SessionState
	CurrentUser() *domain.User
	Login(ctx context.Context, req domain.LoginRequest) (*domain.User, error)
	Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error)
	Logout(ctx context.Context)
	Expire(ctx context.Context)
	Refresh(ctx context.Context) error
	UpdateUser(user *domain.User)
}
