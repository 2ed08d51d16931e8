package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"booknav/internal/config"
	"booknav/internal/logging"
	"booknav/internal/store"

	"golang.org/x/sync/errgroup"
)

func main() {
	config.LoadEnvFiles()
	cfg, err := config.Load()
	log := logging.New(logging.Options{Level: cfg.LogLevel, Pretty: cfg.LogPretty})
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	st := store.Open(ctx, cfg, log)

	app := newApplication(cfg, st, log)

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      app.handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 20 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	group, gCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		log.Info().Str("addr", cfg.Addr).Str("driver", st.Driver).Msg("starting server")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		app.limiter.Run(gCtx)
		return nil
	})
	group.Go(func() error {
		return app.sessions.RunCleanup(gCtx, cfg.CleanupInterval)
	})
	group.Go(func() error {
		<-gCtx.Done()
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	err = group.Wait()
	st.Close()
	if err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
	log.Info().Msg("server stopped")
}
