package cli

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"booknav/internal/auth"
	"booknav/internal/client/localcache"
	"booknav/internal/client/session"
	"booknav/internal/graph"
	"booknav/internal/httpx"
	"booknav/internal/savedbook"
	sessions "booknav/internal/session"
	"booknav/internal/testutil"
	"booknav/internal/user"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "navigator", cmd.Use)
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"shell", "register", "login", "logout", "saved", "remove"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	cfgFlag := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, cfgFlag)
	assert.Equal(t, "c", cfgFlag.Shorthand)
	assert.True(t, strings.HasSuffix(cfgFlag.DefValue, filepath.Join("navigator", "config.yaml")))

	for _, name := range []string{"server", "cache", "log-level"} {
		f := cmd.PersistentFlags().Lookup(name)
		require.NotNil(t, f, name)
		assert.Equal(t, "", f.DefValue)
	}
	assert.Equal(t, "v", cmd.PersistentFlags().Lookup("verbose").Shorthand)
}

func TestRemoveCommand_RequiresID(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"remove"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	assert.Error(t, cmd.Execute())
}

// newBackend serves the GraphQL API and a fake Google Books endpoint.
func newBackend(t *testing.T) (graphqlURL, booksURL string) {
	t.Helper()
	log := zerolog.Nop()
	userRepo := user.NewMemoryRepo()
	users := user.NewService(userRepo, log)
	authSvc := auth.NewService(testutil.TestSecret, time.Hour, users, sessions.NewService(sessions.NewMemoryRepo(), log), log)
	books := savedbook.NewService(savedbook.NewMemoryRepo(userRepo), users, log)

	mux := http.NewServeMux()
	mux.Handle("POST /graphql", graph.Handler(graph.NewSchema(users, authSvc, books, log)))
	api := httptest.NewServer(httpx.AuthMiddleware(testutil.TestSecret, nil)(mux))
	t.Cleanup(api.Close)

	google := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"totalItems": 1, "items": [{"id": "abc123", "volumeInfo": {
			"title": "Dune", "authors": ["Frank Herbert"], "description": "Set on the desert planet Arrakis.",
			"imageLinks": {"thumbnail": "http://books.google.com/books/content?id=abc123"}}}]}`))
	}))
	t.Cleanup(google.Close)

	return api.URL + "/graphql", google.URL
}

type run struct {
	cachePath string
	cfgPath   string
}

func newRun(t *testing.T, server, books string) run {
	t.Helper()
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	body := "server: " + server + "\ngoogle_books_url: " + books + "\ntimeout: 2s\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(body), 0o600))
	return run{cachePath: filepath.Join(dir, "cache", "navigator.db"), cfgPath: cfgPath}
}

func (r run) execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetArgs(append(args, "--config", r.cfgPath, "--cache", r.cachePath))
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestShell_SaveFlow(t *testing.T) {
	capturePrintln(t)
	stubTerminal(t, false, nil)
	server, books := newBackend(t)
	r := newRun(t, server, books)

	script := strings.Join([]string{
		"register", "reader", "reader@example.com", "Secret123!",
		"search dune",
		"save abc123",
		"save abc123",
		"show",
		"saved",
		"remove abc123",
		"saved",
		"logout",
		"save abc123",
		"exit",
	}, "\n") + "\n"

	out, err := r.execute(t, script, "shell")
	require.NoError(t, err)

	assert.Contains(t, out, "Logged in as reader")
	assert.Contains(t, out, "Viewing 1 results: page 1 of 1")
	assert.Contains(t, out, "Saved Dune")
	assert.Contains(t, out, "This book has already been saved!")
	assert.Contains(t, out, "abc123  Dune by Frank Herbert [saved]")
	assert.Contains(t, out, "Viewing 1 saved book:")
	assert.Contains(t, out, "Removed abc123")
	assert.Contains(t, out, "You have no saved books!")
	assert.Contains(t, out, "Logged out")
	assert.Contains(t, out, "You need to be logged in!")

	cache, err := localcache.Open(context.Background(), r.cachePath)
	require.NoError(t, err)
	defer cache.Close()
	_, ok, err := cache.Get(context.Background(), session.TokenKey)
	require.NoError(t, err)
	assert.False(t, ok, "logout removes the token")
}

func TestCommands_LoginPersistsSession(t *testing.T) {
	capturePrintln(t)
	stubTerminal(t, false, nil)
	server, books := newBackend(t)
	r := newRun(t, server, books)

	out, err := r.execute(t, "reader\nreader@example.com\nSecret123!\n", "register")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in as reader")

	out, err = r.execute(t, "", "saved")
	require.NoError(t, err)
	assert.Contains(t, out, "You have no saved books!")

	out, err = r.execute(t, "", "remove", "abc123")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed abc123")

	out, err = r.execute(t, "", "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged out")

	out, err = r.execute(t, "", "saved")
	assert.Error(t, err)
	assert.Contains(t, out, "You need to be logged in!")
}

func TestCommands_LoginWrongPassword(t *testing.T) {
	capturePrintln(t)
	stubTerminal(t, false, nil)
	server, books := newBackend(t)
	r := newRun(t, server, books)

	_, err := r.execute(t, "reader\nreader@example.com\nSecret123!\n", "register")
	require.NoError(t, err)
	_, err = r.execute(t, "", "logout")
	require.NoError(t, err)

	out, err := r.execute(t, "reader@example.com\nWrong123!\n", "login")
	assert.Error(t, err)
	assert.Contains(t, out, "Incorrect credentials")
}

func TestCommands_ServerUnreachable(t *testing.T) {
	capturePrintln(t)
	stubTerminal(t, false, nil)
	closed := httptest.NewServer(http.NotFoundHandler())
	closed.Close()
	r := newRun(t, closed.URL+"/graphql", closed.URL)

	out, err := r.execute(t, "reader@example.com\nSecret123!\n", "login")
	assert.Error(t, err)
	assert.Contains(t, out, "The service is temporarily unavailable. Please try again.")
}

func TestLoad_Precedence(t *testing.T) {
	r := newRun(t, "http://from-file/graphql", "http://books")

	t.Run("file", func(t *testing.T) {
		opts := &RootOptions{}
		cmd := newRootCommand(opts)
		require.NoError(t, cmd.ParseFlags([]string{"--config", r.cfgPath}))

		cfg, err := opts.load(cmd)
		require.NoError(t, err)
		assert.Equal(t, "http://from-file/graphql", cfg.Server)
		assert.Equal(t, 2*time.Second, cfg.Timeout)
	})

	t.Run("env over file", func(t *testing.T) {
		t.Setenv("NAVIGATOR_SERVER", "http://from-env/graphql")
		opts := &RootOptions{}
		cmd := newRootCommand(opts)
		require.NoError(t, cmd.ParseFlags([]string{"--config", r.cfgPath}))

		cfg, err := opts.load(cmd)
		require.NoError(t, err)
		assert.Equal(t, "http://from-env/graphql", cfg.Server)
	})

	t.Run("flags over env", func(t *testing.T) {
		t.Setenv("NAVIGATOR_SERVER", "http://from-env/graphql")
		opts := &RootOptions{}
		cmd := newRootCommand(opts)
		require.NoError(t, cmd.ParseFlags([]string{
			"--config", r.cfgPath, "--server", "http://from-flag/graphql", "--cache", "/tmp/x.db", "-v",
		}))

		cfg, err := opts.load(cmd)
		require.NoError(t, err)
		assert.Equal(t, "http://from-flag/graphql", cfg.Server)
		assert.Equal(t, "/tmp/x.db", cfg.CachePath)
		assert.Equal(t, "debug", cfg.LogLevel)
	})

	t.Run("missing explicit file", func(t *testing.T) {
		opts := &RootOptions{}
		cmd := newRootCommand(opts)
		require.NoError(t, cmd.ParseFlags([]string{"--config", filepath.Join(t.TempDir(), "none.yaml")}))

		_, err := opts.load(cmd)
		assert.Error(t, err)
	})
}

func TestShell_SearchDegradesWhenCatalogIsDown(t *testing.T) {
	capturePrintln(t)
	stubTerminal(t, false, nil)
	server, _ := newBackend(t)
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(down.Close)
	r := newRun(t, server, down.URL)

	out, err := r.execute(t, "search dune\nsearch\nshow\nexit\n", "shell")
	require.NoError(t, err)
	assert.Contains(t, out, "No results")
	assert.Contains(t, out, "Please enter a search term")
	assert.Contains(t, out, "Search for a book to begin")
}
