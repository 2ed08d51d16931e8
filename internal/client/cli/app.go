package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"booknav/internal/apperr"
	"booknav/internal/catalog"
	"booknav/internal/client/api"
	"booknav/internal/client/browse"
	"booknav/internal/client/config"
	"booknav/internal/client/library"
	"booknav/internal/client/localcache"
	"booknav/internal/client/session"
	"booknav/internal/platform/googlebooks"

	"github.com/rs/zerolog"
)

// App is one terminal session: the server client, the local cache and the
// results on display.
type App struct {
	log     zerolog.Logger
	api     *api.Client
	cache   *localcache.Cache
	sess    *session.Session
	lib     *library.Library
	browser *browse.Browser
	reader  *bufio.Reader
	out     io.Writer
}

func NewApp(ctx context.Context, cfg config.Config, log zerolog.Logger, in io.Reader, out io.Writer) (*App, error) {
	if cfg.CachePath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.CachePath), 0o700); err != nil {
			return nil, fmt.Errorf("failed to create cache dir: %w", err)
		}
	}
	cache, err := localcache.Open(ctx, cfg.CachePath)
	if err != nil {
		return nil, err
	}
	sess, err := session.Load(ctx, cache)
	if err != nil {
		_ = cache.Close()
		return nil, err
	}

	client := api.New(cfg.Server, cfg.Timeout)
	books := googlebooks.NewClient(cfg.GoogleBooksURL,
		googlebooks.WithAPIKey(cfg.GoogleBooksKey),
		googlebooks.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
	)
	search := catalog.NewService(books, catalog.FilterPolicy{
		MinDescriptionLength: cfg.MinDescriptionLength,
		StrictFloor:          cfg.StrictFloor,
	}, log)

	return &App{
		log:     log,
		api:     client,
		cache:   cache,
		sess:    sess,
		lib:     library.New(client, cache, log, library.WithRemovePolicy(removePolicy(cfg.RemovePolicy))),
		browser: browse.New(search),
		reader:  bufio.NewReader(in),
		out:     out,
	}, nil
}

func removePolicy(name string) library.RemovePolicy {
	if name == config.PolicyOptimistic {
		return library.RemoveOptimistic
	}
	return library.RemoveAfterConfirm
}

func (a *App) Close() error { return a.cache.Close() }

func (a *App) loggedIn() bool { return a.sess.LoggedIn() }

func (a *App) status() string {
	if !a.sess.LoggedIn() {
		return "guest"
	}
	cred, _ := a.sess.Credential()
	return cred.Username
}

// Shell runs the interactive loop until exit or EOF.
func (a *App) Shell(ctx context.Context) {
	if a.loggedIn() {
		if _, err := a.lib.Reconcile(ctx, a.sess); err != nil {
			a.log.Warn().Err(err).Msg("reconcile saved ids")
		}
	}
	printlnFn(`Type "help" for commands.`)
	runREPL(ctx, a, a.status, a.reader)
}

func (a *App) println(args ...interface{}) {
	fmt.Fprintln(a.out, args...)
}

// report prints the user-facing message for err and returns err.
func (a *App) report(err error) error {
	switch apperr.KindOf(err) {
	case apperr.KindNetwork, apperr.KindInternal:
		a.log.Error().Err(err).Msg("command failed")
	default:
		a.log.Debug().Err(err).Msg("command rejected")
	}
	a.println(apperr.Public(err))
	return err
}

func (a *App) Register(ctx context.Context) error {
	username, err := GetSimpleText(a.reader, "Username", a.out)
	if err != nil {
		return err
	}
	email, err := GetSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	auth, err := a.api.Register(ctx, username, email, password)
	if err != nil {
		return a.report(err)
	}
	return a.begin(ctx, auth)
}

func (a *App) Login(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	auth, err := a.api.Login(ctx, email, password)
	if err != nil {
		return a.report(err)
	}
	return a.begin(ctx, auth)
}

func (a *App) begin(ctx context.Context, auth api.Auth) error {
	if err := a.sess.Login(ctx, auth.Token); err != nil {
		return a.report(err)
	}
	if _, err := a.lib.Reconcile(ctx, a.sess); err != nil {
		a.log.Warn().Err(err).Msg("reconcile saved ids")
	}
	a.println("Logged in as " + auth.User.Username)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.lib.Logout(ctx, a.sess); err != nil {
		return a.report(err)
	}
	a.println("Logged out")
	return nil
}

func (a *App) Search(ctx context.Context, query string) error {
	page, err := a.browser.Search(ctx, query)
	if apperr.KindOf(err) == apperr.KindNetwork {
		a.log.Error().Err(err).Str("query", query).Msg("catalog search failed")
		a.println("No results")
		return err
	}
	if err != nil {
		return a.report(err)
	}
	return a.render(ctx, page)
}

func (a *App) Page(ctx context.Context, n int) error {
	return a.move(ctx, func(ctx context.Context) (catalog.Page, error) { return a.browser.Goto(ctx, n) })
}

func (a *App) Next(ctx context.Context) error { return a.move(ctx, a.browser.Next) }

func (a *App) Prev(ctx context.Context) error { return a.move(ctx, a.browser.Prev) }

func (a *App) move(ctx context.Context, fn func(context.Context) (catalog.Page, error)) error {
	page, err := fn(ctx)
	if err != nil {
		return a.report(err)
	}
	return a.render(ctx, page)
}

func (a *App) Show(ctx context.Context) error {
	page, ok := a.browser.Current()
	if !ok {
		a.println("Search for a book to begin")
		return nil
	}
	return a.render(ctx, page)
}

func (a *App) render(ctx context.Context, page catalog.Page) error {
	if len(page.Books) == 0 {
		a.println("No results")
		return nil
	}
	saved, err := a.lib.SavedIDs(ctx, a.sess)
	if err != nil {
		a.log.Warn().Err(err).Msg("read saved ids")
	}
	a.println(fmt.Sprintf("Viewing %d results: page %d of %d", len(page.Books), page.Page, page.PageCount))
	for _, b := range page.Books {
		mark := ""
		if slices.Contains(saved, b.BookID) {
			mark = " [saved]"
		}
		a.println(fmt.Sprintf("  %s  %s by %s%s", b.BookID, b.Title, strings.Join(b.Authors, ", "), mark))
	}
	return nil
}

func (a *App) Save(ctx context.Context, bookID string) error {
	return a.outcome(a.lib.Save(ctx, a.sess, a.browser, bookID))
}

func (a *App) Remove(ctx context.Context, bookID string) error {
	return a.outcome(a.lib.Remove(ctx, a.sess, bookID))
}

func (a *App) outcome(out library.Outcome) error {
	a.println(out.Notice)
	switch out.Status {
	case library.StatusSucceeded:
		return nil
	case library.StatusFailed, library.StatusDenied:
		return out.Err
	default:
		return apperr.Validation(out.Notice)
	}
}

func (a *App) Saved(ctx context.Context) error {
	u, err := a.lib.Reconcile(ctx, a.sess)
	if err != nil {
		return a.report(err)
	}
	switch n := len(u.SavedBooks); n {
	case 0:
		a.println("You have no saved books!")
		return nil
	case 1:
		a.println("Viewing 1 saved book:")
	default:
		a.println(fmt.Sprintf("Viewing %d saved books:", n))
	}
	for _, b := range u.SavedBooks {
		a.println(fmt.Sprintf("  %s  %s by %s", b.BookID, b.Title, strings.Join(b.Authors, ", ")))
	}
	return nil
}
