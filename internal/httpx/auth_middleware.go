package httpx

import (
	"context"
	"net/http"
	"strings"

	"booknav/internal/identity"
	"booknav/internal/platform/crypto"

	"github.com/rs/zerolog"
)

// RevocationChecker reports whether a token id was revoked by logout.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// Authenticate resolves the caller from the request's bearer token.
// A missing token yields Anonymous without error.
func Authenticate(ctx context.Context, secret string, revocations RevocationChecker, header string) (identity.Principal, error) {
	token := bearerToken(header)
	if token == "" {
		return identity.Anonymous{}, nil
	}

	cred, err := crypto.VerifyToken(secret, token)
	if err != nil {
		return identity.Anonymous{}, err
	}

	if revocations != nil && cred.TokenID != "" {
		revoked, err := revocations.IsRevoked(ctx, cred.TokenID)
		if err != nil {
			return identity.Anonymous{}, err
		}
		if revoked {
			return identity.Anonymous{}, crypto.ErrInvalidToken
		}
	}
	return identity.Authenticated{Credential: cred}, nil
}

// AuthMiddleware binds a principal to every request. Invalid, expired or
// revoked tokens are logged and the request continues as anonymous; handlers
// that need a user wrap themselves in RequireAuth.
func AuthMiddleware(secret string, revocations RevocationChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, err := Authenticate(r.Context(), secret, revocations, r.Header.Get("Authorization"))
			if err != nil {
				zerolog.Ctx(r.Context()).Info().Err(err).Msg("ignoring bearer token")
			}
			if id, ok := identity.UserID(p); ok {
				reportUserID(r.Context(), id)
			}
			ctx := identity.NewContext(r.Context(), p)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects anonymous callers with 401.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := identity.UserID(identity.FromContext(r.Context())); !ok {
			JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "You need to be logged in!", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(header string) string {
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) string { return bearerToken(header) }
