package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"booknav/internal/apperr"
	"booknav/internal/auth"
	"booknav/internal/client/config"
	"booknav/internal/graph"
	"booknav/internal/httpx"
	"booknav/internal/savedbook"
	"booknav/internal/session"
	"booknav/internal/testutil"
	"booknav/internal/user"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newServer returns the GraphQL endpoint of a test server.
func newServer(t *testing.T) string {
	t.Helper()
	log := zerolog.Nop()
	userRepo := user.NewMemoryRepo()
	users := user.NewService(userRepo, log)
	authSvc := auth.NewService(testutil.TestSecret, time.Hour, users, session.NewService(session.NewMemoryRepo(), log), log)
	books := savedbook.NewService(savedbook.NewMemoryRepo(userRepo), users, log)

	mux := http.NewServeMux()
	mux.Handle("POST /graphql", graph.Handler(graph.NewSchema(users, authSvc, books, log)))
	srv := httptest.NewServer(httpx.AuthMiddleware(testutil.TestSecret, nil)(mux))
	t.Cleanup(srv.Close)
	return srv.URL + "/graphql"
}

func TestClient_Flow(t *testing.T) {
	c := New(newServer(t), time.Second)
	ctx := context.Background()

	reg, err := c.Register(ctx, "reader", "reader@example.com", "Secret123!")
	require.NoError(t, err)
	require.NotEmpty(t, reg.Token)
	assert.Equal(t, "reader", reg.User.Username)

	login, err := c.Login(ctx, "reader@example.com", "Secret123!")
	require.NoError(t, err)
	token := login.Token

	dune := Book{BookID: "abc123", Title: "Dune", Authors: []string{"Frank Herbert"}}
	u, err := c.SaveBook(ctx, token, dune)
	require.NoError(t, err)
	assert.Equal(t, 1, u.BookCount)
	assert.Equal(t, []string{"abc123"}, u.BookIDs())

	u, err = c.SaveBook(ctx, token, dune)
	require.NoError(t, err)
	assert.Equal(t, 1, u.BookCount)

	me, err := c.Me(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, me.ID)
	assert.Equal(t, []Book{{BookID: "abc123", Title: "Dune", Authors: []string{"Frank Herbert"}}}, me.SavedBooks)

	u, err = c.RemoveBook(ctx, token, "abc123")
	require.NoError(t, err)
	assert.Empty(t, u.SavedBooks)
}

func TestClient_ErrorKinds(t *testing.T) {
	c := New(newServer(t), time.Second)
	ctx := context.Background()

	_, err := c.SaveBook(ctx, "", Book{BookID: "abc123", Title: "Dune"})
	assert.True(t, errors.Is(err, apperr.ErrAuthentication))
	assert.Equal(t, "You need to be logged in!", apperr.Public(err))

	_, err = c.Login(ctx, "nobody@example.com", "Secret123!")
	assert.True(t, errors.Is(err, apperr.ErrAuthentication))

	_, err = c.Register(ctx, "x", "bad", "weak")
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	_, err = c.Me(ctx, "")
	assert.True(t, errors.Is(err, apperr.ErrAuthentication))
}

func TestClient_NetworkFailures(t *testing.T) {
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer down.Close()

	_, err := New(down.URL, time.Second).Me(context.Background(), "t")
	assert.True(t, errors.Is(err, apperr.ErrNetwork))

	closed := httptest.NewServer(http.NotFoundHandler())
	url := closed.URL
	closed.Close()

	_, err = New(url, time.Second).Me(context.Background(), "t")
	assert.True(t, errors.Is(err, apperr.ErrNetwork))
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, apperr.KindValidation, kindOf("BAD_USER_INPUT"))
	assert.Equal(t, apperr.KindInternal, kindOf("GRAPHQL_PARSE_FAILED"))
	assert.Equal(t, apperr.KindInternal, kindOf(""))
}

func TestClient_DefaultServerSetting(t *testing.T) {
	test, err := url.Parse(newServer(t))
	require.NoError(t, err)
	endpoint, err := url.Parse(config.Defaults().Server)
	require.NoError(t, err)
	endpoint.Scheme, endpoint.Host = test.Scheme, test.Host

	c := New(endpoint.String(), time.Second)
	reg, err := c.Register(context.Background(), "reader", "reader@example.com", "Secret123!")
	require.NoError(t, err)
	assert.NotEmpty(t, reg.Token)

	me, err := c.Me(context.Background(), reg.Token)
	require.NoError(t, err)
	assert.Equal(t, "reader", me.Username)
}
