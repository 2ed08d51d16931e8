package main

import (
	"context"
	"net/http"
	"time"

	"booknav/internal/auth"
	"booknav/internal/catalog"
	"booknav/internal/config"
	"booknav/internal/graph"
	"booknav/internal/httpx"
	"booknav/internal/platform/googlebooks"
	"booknav/internal/savedbook"
	"booknav/internal/session"
	"booknav/internal/store"
	"booknav/internal/user"

	"github.com/rs/zerolog"
)

type application struct {
	handler  http.Handler
	limiter  *httpx.RateLimitMiddleware
	sessions *session.Service
}

func newApplication(cfg config.Config, st *store.Stores, log zerolog.Logger) *application {
	users := user.NewService(st.Users, log)
	sessions := session.NewService(st.Sessions, log)
	authSvc := auth.NewService(cfg.JWTSecret, cfg.TokenTTL, users, sessions, log)
	books := savedbook.NewService(st.Books, users, log)

	var gbOpts []googlebooks.Option
	if cfg.GoogleBooksKey != "" {
		gbOpts = append(gbOpts, googlebooks.WithAPIKey(cfg.GoogleBooksKey))
	}
	policy := catalog.FilterPolicy{
		MinDescriptionLength: cfg.MinDescriptionLength,
		StrictFloor:          cfg.StrictFloor,
	}
	search := catalog.NewService(googlebooks.NewClient(cfg.GoogleBooksURL, gbOpts...), policy, log)

	authHandler := auth.NewHTTPHandler(authSvc)
	userHandler := user.NewHTTPHandler(users)
	bookHandler := savedbook.NewHTTPHandler(books)
	searchHandler := catalog.NewHTTPHandler(search)

	router := http.NewServeMux()

	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := st.Ping(ctx); err != nil {
			http.Error(w, "store not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.Handle("POST /graphql", graph.Handler(graph.NewSchema(users, authSvc, books, log)))

	router.HandleFunc("POST /v1/users/register", authHandler.Register)
	router.HandleFunc("POST /v1/users/login", authHandler.Login)
	router.Handle("POST /v1/auth/logout", httpx.RequireAuth(http.HandlerFunc(authHandler.Logout)))

	router.HandleFunc("GET /v1/users", userHandler.ListUsers)
	router.Handle("GET /v1/me", httpx.RequireAuth(http.HandlerFunc(userHandler.GetCurrentUser)))

	router.Handle("GET /v1/me/books", httpx.RequireAuth(http.HandlerFunc(bookHandler.List)))
	router.Handle("POST /v1/me/books", httpx.RequireAuth(http.HandlerFunc(bookHandler.Save)))
	router.Handle("DELETE /v1/me/books/{bookId}", httpx.RequireAuth(http.HandlerFunc(bookHandler.Remove)))
	router.HandleFunc("GET /v1/books/{bookId}/savers", bookHandler.Savers)

	router.HandleFunc("GET /v1/search", searchHandler.Search)

	limiter := httpx.NewRateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst)
	handler := httpx.Chain(router,
		httpx.RequestIDMiddleware(log),
		httpx.AccessLogMiddleware,
		httpx.RecoveryMiddleware,
		httpx.AuthMiddleware(cfg.JWTSecret, sessions),
		httpx.CORSMiddleware(cfg.Origins),
		httpx.SecurityHeadersMiddleware(cfg.EnableHSTS),
		httpx.RequestSizeLimitMiddleware(cfg.MaxBodyBytes),
		limiter.Middleware,
	)

	return &application{handler: handler, limiter: limiter, sessions: sessions}
}
