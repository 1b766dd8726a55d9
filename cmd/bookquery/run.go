package main

import (
	"context"
	"fmt"
	"io"

	"bookquery/internal/book"

	"github.com/spf13/cobra"
)

// script holds the literals of the replayed sequence.
type script struct {
	Genre          string
	PublishedAfter int
	Author         string
	UpdateTitle    string
	UpdatePrice    float64
	DeleteTitle    string
	InStockAfter   int
	InStockLimit   int
	PageSize       int
	ExplainTitle   string
	ExplainAuthor  string
	ExplainYear    int
}

func defaultScript() script {
	return script{
		Genre:          "Fantasy",
		PublishedAfter: 1900,
		Author:         "Herman Melville",
		UpdateTitle:    "1984",
		UpdatePrice:    14.99,
		DeleteTitle:    "Murder on the Orient Express",
		InStockAfter:   1920,
		InStockLimit:   5,
		PageSize:       5,
		ExplainTitle:   "The Great Gatsby",
		ExplainAuthor:  "J.K. Rowling",
		ExplainYear:    1997,
	}
}

func newRunCmd(a *app) *cobra.Command {
	s := defaultScript()
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the full sequence of queries, updates, aggregations, indexes and explains",
		Args:  cobra.NoArgs,
		RunE: a.withRunner(func(ctx context.Context, r *book.QueryRunner, out io.Writer) error {
			return replay(ctx, r, out, s)
		}),
	}

	f := cmd.Flags()
	f.StringVar(&s.Genre, "genre", s.Genre, "genre to list")
	f.IntVar(&s.PublishedAfter, "published-after", s.PublishedAfter, "list books published after this year")
	f.StringVar(&s.Author, "author", s.Author, "author to list")
	f.StringVar(&s.UpdateTitle, "update-title", s.UpdateTitle, "title whose price is updated")
	f.Float64Var(&s.UpdatePrice, "update-price", s.UpdatePrice, "new price")
	f.StringVar(&s.DeleteTitle, "delete-title", s.DeleteTitle, "title to delete")
	f.IntVar(&s.InStockAfter, "in-stock-after", s.InStockAfter, "year threshold of the in-stock listing")
	f.IntVar(&s.InStockLimit, "in-stock-limit", s.InStockLimit, "size of the in-stock listing")
	f.IntVar(&s.PageSize, "page-size", s.PageSize, "page size of the two pages shown")
	f.StringVar(&s.ExplainTitle, "explain-title", s.ExplainTitle, "title of the first explained query")
	f.StringVar(&s.ExplainAuthor, "explain-author", s.ExplainAuthor, "author of the second explained query")
	f.IntVar(&s.ExplainYear, "explain-year", s.ExplainYear, "year of the second explained query")
	return cmd
}

// replay runs every operation once, in order, and stops at the first error.
func replay(ctx context.Context, r *book.QueryRunner, out io.Writer, s script) error {
	section := func(title string) {
		fmt.Fprintf(out, "\n--- %s ---\n", title)
	}

	section(fmt.Sprintf("Books in '%s' genre", s.Genre))
	titles, err := r.FindByGenre(ctx, s.Genre)
	if err != nil {
		return err
	}
	if err := printJSON(out, titles); err != nil {
		return err
	}

	section(fmt.Sprintf("Books published after %d", s.PublishedAfter))
	recent, err := r.FindPublishedAfter(ctx, s.PublishedAfter)
	if err != nil {
		return err
	}
	if err := printJSON(out, recent); err != nil {
		return err
	}

	section(fmt.Sprintf("Books by %s", s.Author))
	byAuthor, err := r.FindByAuthor(ctx, s.Author)
	if err != nil {
		return err
	}
	if err := printJSON(out, byAuthor); err != nil {
		return err
	}

	section(fmt.Sprintf("Updating price of '%s'", s.UpdateTitle))
	modified, err := r.UpdatePrice(ctx, s.UpdateTitle, s.UpdatePrice)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Modified %d document\n", modified)

	section(fmt.Sprintf("Deleting '%s'", s.DeleteTitle))
	deleted, err := r.DeleteByTitle(ctx, s.DeleteTitle)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Deleted %d document\n", deleted)

	section(fmt.Sprintf("In-stock books published after %d", s.InStockAfter))
	cheap, err := r.FilterInStockRecentCheap(ctx, s.InStockAfter, s.InStockLimit)
	if err != nil {
		return err
	}
	if err := printJSON(out, cheap); err != nil {
		return err
	}

	section("All books with projection")
	all, err := r.ProjectAll(ctx)
	if err != nil {
		return err
	}
	if err := printJSON(out, all); err != nil {
		return err
	}

	for _, dir := range []book.Direction{book.Ascending, book.Descending} {
		label := "ascending"
		if dir == book.Descending {
			label = "descending"
		}
		section(fmt.Sprintf("Sorted by price (%s)", label))
		sorted, err := r.SortByPrice(ctx, dir)
		if err != nil {
			return err
		}
		if err := printJSON(out, sorted); err != nil {
			return err
		}
	}

	for i := 0; i < 2; i++ {
		section(fmt.Sprintf("Page %d (%d books)", i+1, s.PageSize))
		page, err := r.Paginate(ctx, book.Page{Index: i, Size: s.PageSize})
		if err != nil {
			return err
		}
		if err := printJSON(out, page); err != nil {
			return err
		}
	}

	section("Average Price by Genre")
	avgs, err := r.AveragePriceByGenre(ctx)
	if err != nil {
		return err
	}
	if err := printJSON(out, avgs); err != nil {
		return err
	}

	section("Author with Most Books")
	top, ok, err := r.TopAuthorByCount(ctx)
	if err != nil {
		return err
	}
	if ok {
		err = printJSON(out, []book.AuthorCount{top})
	} else {
		err = printJSON(out, []book.AuthorCount{})
	}
	if err != nil {
		return err
	}

	section("Books Count by Decade")
	decades, err := r.CountByDecade(ctx)
	if err != nil {
		return err
	}
	if err := printJSON(out, decades); err != nil {
		return err
	}

	section("Creating Indexes")
	report, err := r.EnsureIndexes(ctx)
	if err != nil {
		return err
	}
	for _, name := range report.Names {
		fmt.Fprintf(out, "Index %s created\n", name)
	}

	explains := []struct {
		title  string
		filter book.Filter
	}{
		{"EXPLAIN: Query by title", book.Filter{Title: &s.ExplainTitle}},
		{"EXPLAIN: Query by author and year", book.Filter{Author: &s.ExplainAuthor, PublishedYear: &s.ExplainYear}},
	}
	for _, e := range explains {
		section(e.title)
		plan, err := r.ExplainPlan(ctx, e.filter)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Winning plan: %s\n", describePlan(plan))
	}
	return nil
}

func describePlan(p book.Plan) string {
	if !p.IndexUsed {
		return fmt.Sprintf("%s (no index)", p.WinningStage)
	}
	if p.IndexName != "" {
		return fmt.Sprintf("%s (index %s used)", p.WinningStage, p.IndexName)
	}
	return fmt.Sprintf("%s (index used)", p.WinningStage)
}
