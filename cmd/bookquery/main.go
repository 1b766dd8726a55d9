package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bookquery/internal/book"
	"bookquery/internal/config"
	"bookquery/internal/logging"
	"bookquery/internal/store"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type app struct {
	cfg    config.Config
	logger zerolog.Logger

	backend string
	timeout time.Duration
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &app{logger: logging.New(os.Stderr, "info", "console")}
	if err := newRootCmd(a).ExecuteContext(ctx); err != nil {
		a.logger.Error().Err(err).Msg("bookquery failed")
		stop()
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "bookquery",
		Short:         "Run read, write, aggregate and index operations against the books collection",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if a.backend != "" {
				cfg.Backend = a.backend
			}
			if a.timeout > 0 {
				cfg.OpTimeout = a.timeout
			}
			a.cfg = cfg
			a.logger = logging.New(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&a.backend, "backend", "", "storage backend: mongo or postgres (overrides BOOKS_BACKEND)")
	root.PersistentFlags().DurationVar(&a.timeout, "timeout", 0, "per-operation timeout (overrides OP_TIMEOUT)")

	root.AddCommand(
		newRunCmd(a),
		newFindByGenreCmd(a),
		newFindPublishedAfterCmd(a),
		newFindByAuthorCmd(a),
		newUpdatePriceCmd(a),
		newDeleteCmd(a),
		newInStockCmd(a),
		newProjectAllCmd(a),
		newSortByPriceCmd(a),
		newPaginateCmd(a),
		newAveragePriceCmd(a),
		newTopAuthorCmd(a),
		newCountByDecadeCmd(a),
		newEnsureIndexesCmd(a),
		newExplainCmd(a),
		newPingCmd(a),
		newTokenCmd(a),
	)
	return root
}

// withRunner opens the configured store, runs fn against it and releases
// the store whether fn succeeds or not.
func (a *app) withRunner(fn func(ctx context.Context, runner *book.QueryRunner, out io.Writer) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		ctx := cmd.Context()
		s, err := store.Open(ctx, a.cfg, a.logger)
		if err != nil {
			return err
		}
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ConnectTimeout)
			defer cancel()
			if cerr := s.Close(closeCtx); cerr != nil {
				a.logger.Warn().Err(cerr).Msg("close store")
			}
			a.logger.Debug().Str("backend", s.Backend).Msg("store closed")
		}()

		runner := book.NewQueryRunner(s.Repo, book.WithLogger(a.logger))
		return fn(ctx, runner, cmd.OutOrStdout())
	}
}

// printJSON writes v as indented JSON followed by a newline.
func printJSON(out io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(b))
	return err
}
