// Package store opens the configured persistence backend and hands out its
// repositories.
package store

import (
	"context"
	"fmt"
	"time"

	"booknav/db"
	"booknav/internal/config"
	"booknav/internal/platform/mongodb"
	"booknav/internal/savedbook"
	"booknav/internal/session"
	"booknav/internal/user"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog"
)

// Stores is one backend's set of repositories.
type Stores struct {
	Driver   string
	Users    user.Repository
	Books    savedbook.Repository
	Sessions session.Repository

	ping  func(ctx context.Context) error
	close func()
}

func (s *Stores) Ping(ctx context.Context) error { return s.ping(ctx) }

func (s *Stores) Close() { s.close() }

func Memory() *Stores {
	users := user.NewMemoryRepo()
	return &Stores{
		Driver:   config.DriverMemory,
		Users:    users,
		Books:    savedbook.NewMemoryRepo(users),
		Sessions: session.NewMemoryRepo(),
		ping:     func(context.Context) error { return nil },
		close:    func() {},
	}
}

// Open connects the configured backend. When the database cannot be reached
// it logs the failure and returns the memory store.
func Open(ctx context.Context, cfg config.Config, log zerolog.Logger) *Stores {
	var (
		st  *Stores
		err error
	)
	switch cfg.StoreDriver {
	case config.DriverMongo:
		st, err = openMongo(ctx, cfg)
	case config.DriverPostgres:
		st, err = openPostgres(ctx, cfg, log)
	default:
		return Memory()
	}
	if err != nil {
		log.Error().Err(err).Str("driver", cfg.StoreDriver).Msg("store unavailable, falling back to memory")
		return Memory()
	}
	log.Info().Str("driver", st.Driver).Msg("store connected")
	return st
}

func openMongo(ctx context.Context, cfg config.Config) (*Stores, error) {
	client, mdb, err := mongodb.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		return nil, err
	}
	if err := mongodb.EnsureIndexes(ctx, mdb); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return &Stores{
		Driver:   config.DriverMongo,
		Users:    user.NewMongoRepo(mdb, cfg.RepoTimeout),
		Books:    savedbook.NewMongoRepo(mdb, cfg.RepoTimeout),
		Sessions: session.NewMongoRepo(mdb, cfg.RepoTimeout),
		ping: func(ctx context.Context) error {
			return client.Ping(ctx, nil)
		},
		close: func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Disconnect(ctx)
		},
	}, nil
}

func openPostgres(ctx context.Context, cfg config.Config, log zerolog.Logger) (*Stores, error) {
	pool, err := pgxpool.New(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("create db pool: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database (%s): %w", config.RedactDSN(cfg.DatabaseDSN), err)
	}

	if cfg.AutoMigrate {
		sqlDB := stdlib.OpenDBFromPool(pool)
		err := db.Up(ctx, sqlDB)
		_ = sqlDB.Close()
		if err != nil {
			pool.Close()
			return nil, err
		}
		log.Info().Msg("migrations applied")
	}

	return &Stores{
		Driver:   config.DriverPostgres,
		Users:    user.NewPostgresRepo(pool, cfg.RepoTimeout),
		Books:    savedbook.NewPostgresRepo(pool, cfg.RepoTimeout),
		Sessions: session.NewPostgresRepo(pool, cfg.RepoTimeout),
		ping:     pool.Ping,
		close:    pool.Close,
	}, nil
}
