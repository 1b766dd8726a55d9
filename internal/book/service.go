package book

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/rs/zerolog"
)

// MetricsRecorder receives the latency and outcome of every runner operation.
type MetricsRecorder interface {
	ObserveOperation(operation, outcome string, d time.Duration)
}

// Option configures a QueryRunner.
type Option func(*QueryRunner)

// WithLogger sets the logger. Operations and their failures are logged at
// debug level; callers report failures to the user.
func WithLogger(logger zerolog.Logger) Option {
	return func(q *QueryRunner) {
		q.logger = logger
	}
}

// WithMetrics sets the recorder for operation metrics.
func WithMetrics(m MetricsRecorder) Option {
	return func(q *QueryRunner) {
		q.metrics = m
	}
}

// QueryRunner exposes the fixed menu of read, write and aggregate
// operations over the books collection. It holds no mutable state and is
// safe for concurrent use.
type QueryRunner struct {
	repo    Repository
	logger  zerolog.Logger
	metrics MetricsRecorder
}

// NewQueryRunner creates a runner on top of repo.
func NewQueryRunner(repo Repository, opts ...Option) *QueryRunner {
	q := &QueryRunner{repo: repo, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// observe logs and records the outcome of one operation. It must be
// deferred with a pointer to the operation's named error result.
func (q *QueryRunner) observe(op string, start time.Time, errp *error) {
	d := time.Since(start)
	outcome := outcomeOf(*errp)
	if q.metrics != nil {
		q.metrics.ObserveOperation(op, outcome, d)
	}
	if *errp != nil {
		q.logger.Debug().Err(*errp).Str("op", op).Str("outcome", outcome).Dur("duration", d).Msg("operation failed")
		return
	}
	q.logger.Debug().Str("op", op).Dur("duration", d).Msg("operation done")
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrInvalidArgument):
		return "invalid_argument"
	case errors.Is(err, ErrConnectivity):
		return "connectivity_error"
	default:
		return "query_error"
	}
}

// FindByGenre returns the titles of every book of the given genre.
func (q *QueryRunner) FindByGenre(ctx context.Context, genre string) (titles []string, err error) {
	defer q.observe("find_by_genre", time.Now(), &err)
	if genre == "" {
		return nil, invalidf("genre is required")
	}
	return q.repo.FindTitles(ctx, Filter{Genre: &genre})
}

// FindPublishedAfter returns title and year of books published strictly after year.
func (q *QueryRunner) FindPublishedAfter(ctx context.Context, year int) (books []TitleYear, err error) {
	defer q.observe("find_published_after", time.Now(), &err)
	return q.repo.FindTitleYears(ctx, Filter{PublishedAfter: &year})
}

// FindByAuthor returns the titles written by author.
func (q *QueryRunner) FindByAuthor(ctx context.Context, author string) (titles []string, err error) {
	defer q.observe("find_by_author", time.Now(), &err)
	if author == "" {
		return nil, invalidf("author is required")
	}
	return q.repo.FindTitles(ctx, Filter{Author: &author})
}

// UpdatePrice sets the price of at most one book with the given title and
// returns the number of records modified. Setting the price a record
// already has modifies nothing.
func (q *QueryRunner) UpdatePrice(ctx context.Context, title string, price float64) (modified int64, err error) {
	defer q.observe("update_price", time.Now(), &err)
	if title == "" {
		return 0, invalidf("title is required")
	}
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, invalidf("price must be a finite number, got %v", price)
	}
	if price < 0 {
		return 0, invalidf("price must not be negative, got %v", price)
	}
	return q.repo.UpdatePrice(ctx, title, price)
}

// DeleteByTitle deletes at most one book with the given title.
func (q *QueryRunner) DeleteByTitle(ctx context.Context, title string) (deleted int64, err error) {
	defer q.observe("delete_by_title", time.Now(), &err)
	if title == "" {
		return 0, invalidf("title is required")
	}
	return q.repo.DeleteByTitle(ctx, title)
}

// FilterInStockRecentCheap returns up to limit in-stock books published
// after yearThreshold, cheapest first.
func (q *QueryRunner) FilterInStockRecentCheap(ctx context.Context, yearThreshold, limit int) (books []Listing, err error) {
	defer q.observe("filter_in_stock_recent_cheap", time.Now(), &err)
	if limit <= 0 {
		return nil, invalidf("limit must be positive, got %d", limit)
	}
	return q.repo.FindCheapest(ctx, Filter{InStock: ptr(true), PublishedAfter: &yearThreshold}, limit)
}

// ProjectAll returns title, author and price of every book.
func (q *QueryRunner) ProjectAll(ctx context.Context) (books []Listing, err error) {
	defer q.observe("project_all", time.Now(), &err)
	return q.repo.ListAll(ctx)
}

// SortByPrice returns every book's title and price ordered by price. Equal
// prices are ordered by title.
func (q *QueryRunner) SortByPrice(ctx context.Context, dir Direction) (books []PriceEntry, err error) {
	defer q.observe("sort_by_price", time.Now(), &err)
	if dir != Ascending && dir != Descending {
		return nil, invalidf("unknown sort direction %d", dir)
	}
	return q.repo.SortByPrice(ctx, dir)
}

// Paginate returns one page of titles and authors. Pages are cut from an
// explicit ordering on p.SortBy (title by default) so consecutive pages
// never overlap.
func (q *QueryRunner) Paginate(ctx context.Context, p Page) (books []PageEntry, err error) {
	defer q.observe("paginate", time.Now(), &err)
	if p.Index < 0 {
		return nil, invalidf("page index must not be negative, got %d", p.Index)
	}
	if p.Size <= 0 {
		return nil, invalidf("page size must be positive, got %d", p.Size)
	}
	if _, err := p.offset(); err != nil {
		return nil, err
	}
	if p.SortBy == "" {
		p.SortBy = DefaultPaginationSort
	}
	if !sortFields[p.SortBy] {
		return nil, invalidf("cannot sort by %q", p.SortBy)
	}
	return q.repo.Paginate(ctx, p)
}

// AveragePriceByGenre returns the mean price per genre, lowest first.
func (q *QueryRunner) AveragePriceByGenre(ctx context.Context) (avgs []GenreAverage, err error) {
	defer q.observe("average_price_by_genre", time.Now(), &err)
	return q.repo.AveragePriceByGenre(ctx)
}

// TopAuthorByCount returns the author with the most books. Ties go to the
// alphabetically first author. ok is false when the collection is empty.
func (q *QueryRunner) TopAuthorByCount(ctx context.Context) (top AuthorCount, ok bool, err error) {
	defer q.observe("top_author_by_count", time.Now(), &err)
	authors, err := q.repo.TopAuthors(ctx, 1)
	if err != nil || len(authors) == 0 {
		return AuthorCount{}, false, err
	}
	return authors[0], true, nil
}

// CountByDecade returns the number of books per publication decade, oldest first.
func (q *QueryRunner) CountByDecade(ctx context.Context) (decades []DecadeCount, err error) {
	defer q.observe("count_by_decade", time.Now(), &err)
	return q.repo.CountByDecade(ctx)
}

// EnsureIndexes makes sure the title and author/published_year indexes exist.
func (q *QueryRunner) EnsureIndexes(ctx context.Context) (report IndexReport, err error) {
	defer q.observe("ensure_indexes", time.Now(), &err)
	names, err := q.repo.EnsureIndexes(ctx)
	if err != nil {
		return IndexReport{}, err
	}
	return IndexReport{Names: names}, nil
}

// ExplainPlan reports whether the engine answers f with an index scan.
func (q *QueryRunner) ExplainPlan(ctx context.Context, f Filter) (plan Plan, err error) {
	defer q.observe("explain_plan", time.Now(), &err)
	return q.repo.Explain(ctx, f)
}

// Ping checks that the storage engine is reachable.
func (q *QueryRunner) Ping(ctx context.Context) error {
	return q.repo.Ping(ctx)
}
