// Package store opens the configured books backend and hands out a
// Repository bound to it.
package store

import (
	"context"
	"fmt"

	"bookquery/internal/book"
	"bookquery/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Repository is a book.Repository that can also bulk load records.
type Repository interface {
	book.Repository
	InsertMany(ctx context.Context, books []book.Book) (int, error)
}

// Store owns the client or pool behind Repo. Close must be called exactly once.
type Store struct {
	Backend string
	Repo    Repository
	close   func(ctx context.Context) error
}

// Open connects to the backend named by cfg.Backend and pings it within
// cfg.ConnectTimeout.
func Open(ctx context.Context, cfg config.Config, logger zerolog.Logger) (*Store, error) {
	switch cfg.Backend {
	case config.BackendMongo:
		return openMongo(ctx, cfg, logger)
	case config.BackendPostgres:
		return openPostgres(ctx, cfg, logger)
	}
	return nil, fmt.Errorf("open store: %w: unknown backend %q", book.ErrInvalidArgument, cfg.Backend)
}

func openMongo(ctx context.Context, cfg config.Config, logger zerolog.Logger) (*Store, error) {
	opts := options.Client().
		ApplyURI(cfg.MongoURI).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetServerSelectionTimeout(cfg.ConnectTimeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w: %w", book.ErrConnectivity, err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo (%s): %w: %w", config.RedactDSN(cfg.MongoURI), book.ErrConnectivity, err)
	}

	logger.Info().
		Str("uri", config.RedactDSN(cfg.MongoURI)).
		Str("database", cfg.MongoDatabase).
		Str("collection", cfg.MongoCollection).
		Msg("connected to mongodb")

	coll := client.Database(cfg.MongoDatabase).Collection(cfg.MongoCollection)
	return &Store{
		Backend: config.BackendMongo,
		Repo:    book.NewMongoRepo(coll, cfg.OpTimeout),
		close:   client.Disconnect,
	}, nil
}

func openPostgres(ctx context.Context, cfg config.Config, logger zerolog.Logger) (*Store, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("parse DB_DSN: %w: %w", book.ErrInvalidArgument, err)
	}
	poolCfg.ConnConfig.ConnectTimeout = cfg.ConnectTimeout

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create db pool: %w: %w", book.ErrConnectivity, err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database (%s): %w: %w", config.RedactDSN(cfg.PostgresDSN), book.ErrConnectivity, err)
	}

	logger.Info().Str("dsn", config.RedactDSN(cfg.PostgresDSN)).Msg("database connection OK")

	return &Store{
		Backend: config.BackendPostgres,
		Repo:    book.NewPostgresRepo(pool, cfg.OpTimeout),
		close: func(context.Context) error {
			pool.Close()
			return nil
		},
	}, nil
}

// Close releases the client or pool.
func (s *Store) Close(ctx context.Context) error {
	return s.close(ctx)
}
