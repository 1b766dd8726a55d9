package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"bookquery/internal/auth"
	"bookquery/internal/book"

	"github.com/spf13/cobra"
)

func newFindByGenreCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "find-by-genre GENRE",
		Short: "List the titles of a genre",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withRunner(func(ctx context.Context, r *book.QueryRunner, out io.Writer) error {
				titles, err := r.FindByGenre(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSON(out, titles)
			})(cmd, args)
		},
	}
}

func newFindPublishedAfterCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "find-published-after YEAR",
		Short: "List title and year of the books published after YEAR",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("YEAR must be an integer: %w", err)
			}
			return a.withRunner(func(ctx context.Context, r *book.QueryRunner, out io.Writer) error {
				books, err := r.FindPublishedAfter(ctx, year)
				if err != nil {
					return err
				}
				return printJSON(out, books)
			})(cmd, args)
		},
	}
}

func newFindByAuthorCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "find-by-author AUTHOR",
		Short: "List the titles of an author",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withRunner(func(ctx context.Context, r *book.QueryRunner, out io.Writer) error {
				titles, err := r.FindByAuthor(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSON(out, titles)
			})(cmd, args)
		},
	}
}

func newUpdatePriceCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "update-price TITLE PRICE",
		Short: "Set the price of the first book with TITLE",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			price, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("PRICE must be a number: %w", err)
			}
			return a.withRunner(func(ctx context.Context, r *book.QueryRunner, out io.Writer) error {
				n, err := r.UpdatePrice(ctx, args[0], price)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(out, "Modified %d document\n", n)
				return err
			})(cmd, args)
		},
	}
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete TITLE",
		Short: "Delete the first book with TITLE",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withRunner(func(ctx context.Context, r *book.QueryRunner, out io.Writer) error {
				n, err := r.DeleteByTitle(ctx, args[0])
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(out, "Deleted %d document\n", n)
				return err
			})(cmd, args)
		},
	}
}

func newInStockCmd(a *app) *cobra.Command {
	var after, limit int
	cmd := &cobra.Command{
		Use:   "in-stock",
		Short: "List the cheapest in-stock books published after a year",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withRunner(func(ctx context.Context, r *book.QueryRunner, out io.Writer) error {
				books, err := r.FilterInStockRecentCheap(ctx, after, limit)
				if err != nil {
					return err
				}
				return printJSON(out, books)
			})(cmd, args)
		},
	}
	cmd.Flags().IntVar(&after, "after", 1920, "publication year threshold (exclusive)")
	cmd.Flags().IntVar(&limit, "limit", 5, "maximum number of books")
	return cmd
}

func newProjectAllCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "project-all",
		Short: "List title, author and price of every book",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withRunner(func(ctx context.Context, r *book.QueryRunner, out io.Writer) error {
				books, err := r.ProjectAll(ctx)
				if err != nil {
					return err
				}
				return printJSON(out, books)
			})(cmd, args)
		},
	}
}

func newSortByPriceCmd(a *app) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "sort-by-price",
		Short: "List title and price of every book ordered by price",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := book.ParseDirection(dir)
			if err != nil {
				return err
			}
			return a.withRunner(func(ctx context.Context, r *book.QueryRunner, out io.Writer) error {
				books, err := r.SortByPrice(ctx, d)
				if err != nil {
					return err
				}
				return printJSON(out, books)
			})(cmd, args)
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "asc", "asc or desc")
	return cmd
}

func newPaginateCmd(a *app) *cobra.Command {
	var p book.Page
	cmd := &cobra.Command{
		Use:   "paginate",
		Short: "List one page of title and author",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withRunner(func(ctx context.Context, r *book.QueryRunner, out io.Writer) error {
				books, err := r.Paginate(ctx, p)
				if err != nil {
					return err
				}
				return printJSON(out, books)
			})(cmd, args)
		},
	}
	cmd.Flags().IntVar(&p.Index, "page", 0, "zero-based page index")
	cmd.Flags().IntVar(&p.Size, "size", 5, "page size")
	cmd.Flags().StringVar(&p.SortBy, "sort", book.DefaultPaginationSort, "sort field: title, author, price or published_year")
	return cmd
}

func newAveragePriceCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "average-price-by-genre",
		Short: "Average price per genre, cheapest first",
		Args:  cobra.NoArgs,
		RunE: a.withRunner(func(ctx context.Context, r *book.QueryRunner, out io.Writer) error {
			avgs, err := r.AveragePriceByGenre(ctx)
			if err != nil {
				return err
			}
			return printJSON(out, avgs)
		}),
	}
}

func newTopAuthorCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "top-author",
		Short: "The author with the most books",
		Args:  cobra.NoArgs,
		RunE: a.withRunner(func(ctx context.Context, r *book.QueryRunner, out io.Writer) error {
			top, ok, err := r.TopAuthorByCount(ctx)
			if err != nil {
				return err
			}
			if !ok {
				return printJSON(out, []book.AuthorCount{})
			}
			return printJSON(out, []book.AuthorCount{top})
		}),
	}
}

func newCountByDecadeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "count-by-decade",
		Short: "Number of books per publication decade",
		Args:  cobra.NoArgs,
		RunE: a.withRunner(func(ctx context.Context, r *book.QueryRunner, out io.Writer) error {
			decades, err := r.CountByDecade(ctx)
			if err != nil {
				return err
			}
			return printJSON(out, decades)
		}),
	}
}

func newEnsureIndexesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ensure-indexes",
		Short: "Create the title and author/published_year indexes",
		Args:  cobra.NoArgs,
		RunE: a.withRunner(func(ctx context.Context, r *book.QueryRunner, out io.Writer) error {
			report, err := r.EnsureIndexes(ctx)
			if err != nil {
				return err
			}
			return printJSON(out, report)
		}),
	}
}

func newExplainCmd(a *app) *cobra.Command {
	var title, author string
	var year int
	cmd := &cobra.Command{
		Use:   "explain",
		Short: "Report whether a find by title or by author and year uses an index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var f book.Filter
			if title != "" {
				f.Title = &title
			}
			if author != "" {
				f.Author = &author
			}
			if cmd.Flags().Changed("year") {
				f.PublishedYear = &year
			}
			return a.withRunner(func(ctx context.Context, r *book.QueryRunner, out io.Writer) error {
				plan, err := r.ExplainPlan(ctx, f)
				if err != nil {
					return err
				}
				return printJSON(out, plan)
			})(cmd, args)
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "match on title")
	cmd.Flags().StringVar(&author, "author", "", "match on author")
	cmd.Flags().IntVar(&year, "year", 0, "match on published_year")
	return cmd
}

func newPingCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the backend is reachable",
		Args:  cobra.NoArgs,
		RunE: a.withRunner(func(ctx context.Context, r *book.QueryRunner, out io.Writer) error {
			if err := r.Ping(ctx); err != nil {
				return err
			}
			_, err := fmt.Fprintln(out, "ok")
			return err
		}),
	}
}

func newTokenCmd(a *app) *cobra.Command {
	var subject, role string
	var ttl time.Duration
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for the API's admin endpoints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.JWTSecret == "" {
				return fmt.Errorf("JWT_SECRET is not set")
			}
			token, jti, err := auth.GenerateToken(a.cfg.JWTSecret, subject, role, ttl)
			if err != nil {
				return err
			}
			a.logger.Info().Str("sub", subject).Str("role", role).Str("jti", jti).Dur("ttl", ttl).Msg("token issued")
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "operator", "token subject")
	cmd.Flags().StringVar(&role, "role", auth.RoleAdmin, "token role")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	return cmd
}
