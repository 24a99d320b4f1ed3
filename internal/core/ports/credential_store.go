package ports

import (
	"context"

	"github.com/nimblecrm/crm-console/internal/core/domain"
)

// CredentialStore persists the bearer pair between console runs.
type CredentialStore interface {
	Save(ctx context.Context, creds domain.Credentials) error
	// Load returns nil, nil when no credentials are stored.
	Load(ctx context.Context) (*domain.Credentials, error)
	Clear(ctx context.Context) error
	// Ping reports whether the underlying storage is reachable.
	Ping(ctx context.Context) error
}
