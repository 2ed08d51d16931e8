package auth

import (
	"context"
	"strings"
	"time"

	"booknav/internal/apperr"
	"booknav/internal/entity"
	"booknav/internal/identity"
	"booknav/internal/platform/crypto"
	"booknav/internal/platform/validate"
	"booknav/internal/session"
	"booknav/internal/user"

	"github.com/rs/zerolog"
)

var ErrInvalidCredentials = apperr.Authentication("Incorrect credentials")

type RegisterInput struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,password_strength"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Result is a freshly issued token with the user it was issued for.
type Result struct {
	Token      string
	Credential crypto.Credential
	User       entity.User
}

type Service struct {
	secret   string
	tokenTTL time.Duration
	users    *user.Service
	sessions *session.Service
	log      zerolog.Logger
}

func NewService(secret string, tokenTTL time.Duration, users *user.Service, sessions *session.Service, log zerolog.Logger) *Service {
	return &Service{
		secret:   secret,
		tokenTTL: tokenTTL,
		users:    users,
		sessions: sessions,
		log:      log.With().Str("component", "auth").Logger(),
	}
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (Result, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if err := validate.Check(in); err != nil {
		return Result{}, err
	}

	hash, err := crypto.HashPassword(in.Password)
	if err != nil {
		return Result{}, apperr.Internal("hash password", err)
	}

	u, err := s.users.Register(ctx, in.Username, in.Email, hash)
	if err != nil {
		return Result{}, err
	}
	return s.issue(u)
}

func (s *Service) Login(ctx context.Context, in LoginInput) (Result, error) {
	in.Email = strings.TrimSpace(in.Email)
	if err := validate.Check(in); err != nil {
		return Result{}, err
	}

	u, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return Result{}, ErrInvalidCredentials
		}
		return Result{}, err
	}
	if !crypto.VerifyPassword(u.PasswordHash, in.Password) {
		s.log.Info().Str("user_id", u.ID).Msg("login rejected")
		return Result{}, ErrInvalidCredentials
	}
	return s.issue(u)
}

// Logout revokes the caller's token for the rest of its lifetime.
func (s *Service) Logout(ctx context.Context, p identity.Principal) error {
	a, ok := p.(identity.Authenticated)
	if !ok {
		return apperr.Authentication("You need to be logged in!")
	}
	return s.sessions.Revoke(ctx, a.Credential)
}

func (s *Service) issue(u entity.User) (Result, error) {
	token, cred, err := crypto.IssueToken(s.secret, u.Username, u.Email, u.ID, s.tokenTTL)
	if err != nil {
		return Result{}, apperr.Internal("issue token", err)
	}
	return Result{Token: token, Credential: cred, User: u}, nil
}
