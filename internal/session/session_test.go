package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"booknav/internal/apperr"
	"booknav/internal/platform/crypto"
	"booknav/internal/testutil"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestService_Revoke(t *testing.T) {
	svc := NewService(NewMemoryRepo(), zerolog.Nop())
	ctx := context.Background()

	_, cred, err := crypto.IssueToken("s", "reader", "r@example.com", "user-1", time.Hour)
	require.NoError(t, err)

	revoked, err := svc.IsRevoked(ctx, cred.TokenID)
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, svc.Revoke(ctx, cred))
	require.NoError(t, svc.Revoke(ctx, cred), "revoking twice is a no-op")

	revoked, err = svc.IsRevoked(ctx, cred.TokenID)
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestService_Revoke_NoTokenID(t *testing.T) {
	svc := NewService(NewMemoryRepo(), zerolog.Nop())
	err := svc.Revoke(context.Background(), crypto.Credential{UserID: "user-1"})
	assert.True(t, errors.Is(err, apperr.ErrValidation))
}

func TestMemoryRepo_CleanupExpired(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()

	require.NoError(t, repo.Revoke(ctx, Revocation{TokenID: "old", ExpiresAt: time.Now().Add(-time.Minute)}))
	require.NoError(t, repo.Revoke(ctx, Revocation{TokenID: "live", ExpiresAt: time.Now().Add(time.Hour)}))

	revoked, _ := repo.IsRevoked(ctx, "old")
	assert.False(t, revoked, "expired revocations no longer count")

	n, err := repo.CleanupExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	revoked, _ = repo.IsRevoked(ctx, "live")
	assert.True(t, revoked)
}

func TestService_RunCleanup_StopsOnCancel(t *testing.T) {
	svc := NewService(NewMemoryRepo(), zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.RunCleanup(ctx, time.Millisecond) }()

	time.Sleep(5 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("cleanup loop did not stop")
	}
}

func TestMongoRepo(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("revoke duplicate is ignored", func(mt *mtest.T) {
		repo := NewMongoRepo(mt.DB, time.Second)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "duplicate key"}))

		err := repo.Revoke(context.Background(), Revocation{TokenID: "jti-1", UserID: "u", ExpiresAt: time.Now().Add(time.Hour)})
		assert.NoError(t, err)
	})

	mt.Run("is revoked", func(mt *mtest.T) {
		repo := NewMongoRepo(mt.DB, time.Second)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "booknav.revoked_tokens", mtest.FirstBatch,
			bson.D{{Key: "n", Value: int32(1)}},
		))

		revoked, err := repo.IsRevoked(context.Background(), "jti-1")
		require.NoError(t, err)
		assert.True(t, revoked)
	})

	mt.Run("cleanup", func(mt *mtest.T) {
		repo := NewMongoRepo(mt.DB, time.Second)
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "n", Value: int32(3)}})

		n, err := repo.CleanupExpired(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int64(3), n)
	})
}

func TestPostgresRepo(t *testing.T) {
	db := testutil.PostgresPool(t)
	repo := NewPostgresRepo(db, 5*time.Second)
	ctx := context.Background()

	jti := "test-jti-" + time.Now().Format(time.RFC3339Nano)
	require.NoError(t, repo.Revoke(ctx, Revocation{TokenID: jti, UserID: "user-1", ExpiresAt: time.Now().Add(time.Hour)}))

	revoked, err := repo.IsRevoked(ctx, jti)
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = repo.IsRevoked(ctx, "non-existent-jti")
	require.NoError(t, err)
	assert.False(t, revoked)

	_, err = repo.CleanupExpired(ctx)
	require.NoError(t, err)
}
