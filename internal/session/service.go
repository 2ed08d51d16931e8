package session

import (
	"context"
	"time"

	"booknav/internal/apperr"
	"booknav/internal/platform/crypto"

	"github.com/rs/zerolog"
)

type Service struct {
	repo Repository
	log  zerolog.Logger
}

func NewService(repo Repository, log zerolog.Logger) *Service {
	return &Service{repo: repo, log: log.With().Str("component", "session").Logger()}
}

// Revoke invalidates the token behind cred until it would have expired.
func (s *Service) Revoke(ctx context.Context, cred crypto.Credential) error {
	if cred.TokenID == "" {
		return apperr.Validation("token has no id")
	}
	err := s.repo.Revoke(ctx, Revocation{
		TokenID:   cred.TokenID,
		UserID:    cred.UserID,
		ExpiresAt: cred.ExpiresAt,
	})
	if err != nil {
		return err
	}
	s.log.Info().Str("user_id", cred.UserID).Msg("token revoked")
	return nil
}

func (s *Service) IsRevoked(ctx context.Context, jti string) (bool, error) {
	return s.repo.IsRevoked(ctx, jti)
}

// RunCleanup purges expired revocations every interval until ctx is done.
func (s *Service) RunCleanup(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			n, err := s.repo.CleanupExpired(ctx)
			if err != nil {
				s.log.Warn().Err(err).Msg("revocation cleanup failed")
				continue
			}
			if n > 0 {
				s.log.Debug().Int64("purged", n).Msg("revocation cleanup")
			}
		}
	}
}
