package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nimblecrm/crm-console/internal/core/domain"
)

const (
	credentialsCollection = "console_credentials"
	defaultProfile        = "default"
)

// CredentialStore keeps one credentials document per console profile.
type CredentialStore struct {
	coll    *mongo.Collection
	profile string
	now     func() time.Time
}

// NewCredentialStore binds the store to db and profile. An empty profile
// uses defaultProfile.
func NewCredentialStore(db *mongo.Database, profile string) *CredentialStore {
	if profile == "" {
		profile = defaultProfile
	}
	return &CredentialStore{
		coll:    db.Collection(credentialsCollection),
		profile: profile,
		now:     time.Now,
	}
}

type mongoCredentials struct {
	Profile      string `bson:"_id"`
	AccessToken  string `bson:"access_token"`
	RefreshToken string `bson:"refresh_token,omitempty"`
	UpdatedAt    int64  `bson:"updated_at"`
}

func toDocument(profile string, creds domain.Credentials, now time.Time) mongoCredentials {
	return mongoCredentials{
		Profile:      profile,
		AccessToken:  creds.AccessToken,
		RefreshToken: creds.RefreshToken,
		UpdatedAt:    now.Unix(),
	}
}

func (d mongoCredentials) toDomain() *domain.Credentials {
	if d.AccessToken == "" {
		return nil
	}
	return &domain.Credentials{AccessToken: d.AccessToken, RefreshToken: d.RefreshToken}
}

func (s *CredentialStore) Save(ctx context.Context, creds domain.Credentials) error {
	doc := toDocument(s.profile, creds, s.now())
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": s.profile}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert credentials: %w", err)
	}
	return nil
}

func (s *CredentialStore) Load(ctx context.Context) (*domain.Credentials, error) {
	var doc mongoCredentials
	if err := s.coll.FindOne(ctx, bson.M{"_id": s.profile}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("find credentials: %w", err)
	}
	return doc.toDomain(), nil
}

func (s *CredentialStore) Clear(ctx context.Context) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": s.profile}); err != nil {
		return fmt.Errorf("delete credentials: %w", err)
	}
	return nil
}

func (s *CredentialStore) Ping(ctx context.Context) error {
	return s.coll.Database().Client().Ping(ctx, nil)
}
