package ports

import "context"

// WriteSerializer runs mutations that share a key one after another, in
// submission order. Different keys may run concurrently.
type WriteSerializer interface {
	Do(ctx context.Context, key string, fn func(ctx context.Context) error) error
}
