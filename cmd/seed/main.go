package main

import (
	"context"
	"flag"
	"os"
	"time"

	"bookquery/internal/book"
	"bookquery/internal/config"
	"bookquery/internal/logging"
	"bookquery/internal/store"

	"github.com/rs/zerolog"
)

func main() {
	backend := flag.String("backend", "", "storage backend: mongo or postgres (overrides BOOKS_BACKEND)")
	flag.Parse()

	cfg, err := config.Load()
	logger := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}
	if *backend != "" {
		cfg.Backend = *backend
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := seed(ctx, cfg, logger); err != nil {
		logger.Error().Err(err).Msg("seed failed")
		cancel()
		os.Exit(1)
	}
}

func seed(ctx context.Context, cfg config.Config, logger zerolog.Logger) error {
	s, err := store.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := s.Close(context.Background()); err != nil {
			logger.Warn().Err(err).Msg("close store")
		}
	}()

	books := book.SampleBooks()
	logger.Info().Int("count", len(books)).Str("backend", s.Backend).Msg("inserting books")

	n, err := s.Repo.InsertMany(ctx, books)
	if err != nil {
		return err
	}

	listing, err := book.NewQueryRunner(s.Repo, book.WithLogger(logger)).ProjectAll(ctx)
	if err != nil {
		return err
	}
	logger.Info().Int("inserted", n).Int("total", len(listing)).Msg("seed complete")
	return nil
}
