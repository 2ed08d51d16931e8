package main

import (
	"context"
	"errors"
	"flag"
	"os"

	"booknav/internal/apperr"
	"booknav/internal/auth"
	"booknav/internal/catalog"
	"booknav/internal/config"
	"booknav/internal/identity"
	"booknav/internal/logging"
	"booknav/internal/platform/googlebooks"
	"booknav/internal/savedbook"
	"booknav/internal/session"
	"booknav/internal/store"
	"booknav/internal/user"

	"github.com/rs/zerolog"
)

type options struct {
	Username string
	Email    string
	Password string
	Query    string
	Count    int
}

type deps struct {
	auth   *auth.Service
	books  *savedbook.Service
	search *catalog.Service
	log    zerolog.Logger
}

func main() {
	var opts options
	flag.StringVar(&opts.Username, "username", "demo", "demo account username")
	flag.StringVar(&opts.Email, "email", "demo@example.com", "demo account email")
	flag.StringVar(&opts.Password, "password", "Demo123!", "demo account password")
	flag.StringVar(&opts.Query, "query", "frank herbert", "Google Books query to take books from")
	flag.IntVar(&opts.Count, "count", 5, "number of books to save")
	flag.Parse()

	config.LoadEnvFiles()
	cfg, err := config.Load()
	log := logging.New(logging.Options{Level: cfg.LogLevel, Pretty: true})
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx := context.Background()
	st := store.Open(ctx, cfg, log)
	defer st.Close()

	users := user.NewService(st.Users, log)
	d := deps{
		auth:   auth.NewService(cfg.JWTSecret, cfg.TokenTTL, users, session.NewService(st.Sessions, log), log),
		books:  savedbook.NewService(st.Books, users, log),
		search: catalog.NewService(googlebooks.NewClient(cfg.GoogleBooksURL, googlebooks.WithAPIKey(cfg.GoogleBooksKey)), catalog.FilterPolicy{MinDescriptionLength: cfg.MinDescriptionLength, StrictFloor: cfg.StrictFloor}, log),
		log:    log,
	}

	n, err := seed(ctx, d, opts)
	if err != nil {
		log.Error().Err(err).Msg("seed failed")
		st.Close()
		os.Exit(1)
	}
	log.Info().Str("driver", st.Driver).Str("email", opts.Email).Int("books", n).Msg("seed complete")
}

// seed makes sure the demo account exists and saves the first Count books
// of the query to it. It returns the resulting library size.
func seed(ctx context.Context, d deps, opts options) (int, error) {
	res, err := d.auth.Register(ctx, auth.RegisterInput{Username: opts.Username, Email: opts.Email, Password: opts.Password})
	if errors.Is(err, user.ErrAlreadyExists) {
		d.log.Info().Str("email", opts.Email).Msg("demo account exists, logging in")
		res, err = d.auth.Login(ctx, auth.LoginInput{Email: opts.Email, Password: opts.Password})
	}
	if err != nil {
		return 0, err
	}
	p := identity.Authenticated{Credential: res.Credential}

	page, err := d.search.Search(ctx, opts.Query, 1)
	if err != nil {
		return 0, err
	}
	if len(page.Books) == 0 {
		return 0, apperr.NotFound("no books found for " + opts.Query)
	}

	u := res.User
	for i, b := range page.Books {
		if i >= opts.Count {
			break
		}
		u, err = d.books.Save(ctx, p, savedbook.Input{
			BookID:      b.BookID,
			Title:       b.Title,
			Authors:     b.Authors,
			Description: b.Description,
			Image:       b.Image,
			Link:        b.Link,
		})
		if err != nil {
			return 0, err
		}
		d.log.Debug().Str("book_id", b.BookID).Msg("saved")
	}
	return len(u.SavedBooks), nil
}
