package ports

import "context"

// Notifier surfaces transient, operator-facing messages.
type Notifier interface {
	Success(ctx context.Context, msg string)
	Error(ctx context.Context, msg string)
}
