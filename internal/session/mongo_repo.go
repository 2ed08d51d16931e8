package session

import (
	"context"
	"fmt"
	"time"

	"booknav/internal/platform/mongodb"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type revocationDoc struct {
	TokenID   string    `bson:"_id"`
	UserID    string    `bson:"userId"`
	ExpiresAt time.Time `bson:"expiresAt"`
}

// MongoRepo stores revocations keyed by token id. The collection's TTL index
// on expiresAt removes them server side; CleanupExpired covers deployments
// where the TTL monitor lags.
type MongoRepo struct {
	tokens  *mongo.Collection
	timeout time.Duration
}

func NewMongoRepo(db *mongo.Database, timeout time.Duration) *MongoRepo {
	return &MongoRepo{tokens: db.Collection(mongodb.TokensCollection), timeout: timeout}
}

func (r *MongoRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *MongoRepo) Revoke(ctx context.Context, rev Revocation) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	_, err := r.tokens.InsertOne(timeoutCtx, revocationDoc{
		TokenID:   rev.TokenID,
		UserID:    rev.UserID,
		ExpiresAt: rev.ExpiresAt.UTC(),
	})
	if err != nil && !mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (r *MongoRepo) IsRevoked(ctx context.Context, jti string) (bool, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	n, err := r.tokens.CountDocuments(timeoutCtx, bson.M{
		"_id":       jti,
		"expiresAt": bson.M{"$gt": time.Now().UTC()},
	})
	if err != nil {
		return false, fmt.Errorf("check revocation: %w", err)
	}
	return n > 0, nil
}

func (r *MongoRepo) CleanupExpired(ctx context.Context) (int64, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	res, err := r.tokens.DeleteMany(timeoutCtx, bson.M{"expiresAt": bson.M{"$lt": time.Now().UTC()}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
