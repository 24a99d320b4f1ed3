package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nimblecrm/crm-console/internal/core/domain"
	"github.com/nimblecrm/crm-console/internal/pkg/token"
)

const defaultKeyPrefix = "crm-console"

// CredentialStore keeps the token pair in two Redis strings.
// Key format: <prefix>:accessToken and <prefix>:refreshToken
//
// Each key expires with its own token's JWT exp claim; a token without one
// is kept until Clear.
type CredentialStore struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

// NewCredentialStore wraps client. An empty prefix uses defaultKeyPrefix.
func NewCredentialStore(client *redis.Client, prefix string) *CredentialStore {
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &CredentialStore{client: client, prefix: prefix, now: time.Now}
}

func (s *CredentialStore) Save(ctx context.Context, creds domain.Credentials) error {
	accessTTL, refreshTTL := ttlsFor(creds, s.now())
	accessKey, refreshKey := s.keys()

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, accessKey, creds.AccessToken, accessTTL)
		if creds.RefreshToken != "" {
			pipe.Set(ctx, refreshKey, creds.RefreshToken, refreshTTL)
		} else {
			pipe.Del(ctx, refreshKey)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis save credentials: %w", err)
	}
	return nil
}

func (s *CredentialStore) Load(ctx context.Context) (*domain.Credentials, error) {
	accessKey, refreshKey := s.keys()
	vals, err := s.client.MGet(ctx, accessKey, refreshKey).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("redis load credentials: %w", err)
	}
	return credentialsFrom(vals), nil
}

func (s *CredentialStore) Clear(ctx context.Context) error {
	accessKey, refreshKey := s.keys()
	if err := s.client.Del(ctx, accessKey, refreshKey).Err(); err != nil {
		return fmt.Errorf("redis clear credentials: %w", err)
	}
	return nil
}

func (s *CredentialStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *CredentialStore) keys() (access, refresh string) {
	return s.prefix + ":accessToken", s.prefix + ":refreshToken"
}

// ttlsFor returns the TTLs of the access and refresh keys. The refresh
// token usually outlives the access token, so each is read separately.
func ttlsFor(creds domain.Credentials, now time.Time) (access, refresh time.Duration) {
	return expiryFor(creds.AccessToken, now), expiryFor(creds.RefreshToken, now)
}

// expiryFor returns the TTL for the key holding raw, taken from the
// token's own exp claim. Zero means no expiry. A token that has already
// expired gets a one-second TTL so it disappears on its own.
func expiryFor(raw string, now time.Time) time.Duration {
	ttl, ok := token.TTL(raw, now)
	if !ok {
		return 0
	}
	if ttl < time.Second {
		return time.Second
	}
	return ttl
}

// credentialsFrom maps an MGET reply onto Credentials; a missing access
// token means absent.
func credentialsFrom(vals []any) *domain.Credentials {
	if len(vals) == 0 {
		return nil
	}
	access, _ := vals[0].(string)
	if access == "" {
		return nil
	}
	creds := &domain.Credentials{AccessToken: access}
	if len(vals) > 1 {
		creds.RefreshToken, _ = vals[1].(string)
	}
	return creds
}
