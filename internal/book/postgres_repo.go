package book

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepo implements Repository over the relational books table
// created by db/migrations.
type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.timeout)
}

// whereClause renders f as a WHERE clause with positional arguments.
func whereClause(f Filter) (string, []any) {
	clauses := []string{"1=1"}
	args := []any{}
	argn := 1

	if f.Title != nil {
		clauses = append(clauses, fmt.Sprintf("title = $%d", argn))
		args = append(args, *f.Title)
		argn++
	}
	if f.Author != nil {
		clauses = append(clauses, fmt.Sprintf("author = $%d", argn))
		args = append(args, *f.Author)
		argn++
	}
	if f.Genre != nil {
		clauses = append(clauses, fmt.Sprintf("genre = $%d", argn))
		args = append(args, *f.Genre)
		argn++
	}
	if f.InStock != nil {
		clauses = append(clauses, fmt.Sprintf("in_stock = $%d", argn))
		args = append(args, *f.InStock)
		argn++
	}
	if f.PublishedYear != nil {
		clauses = append(clauses, fmt.Sprintf("published_year = $%d", argn))
		args = append(args, *f.PublishedYear)
		argn++
	}
	if f.PublishedAfter != nil {
		clauses = append(clauses, fmt.Sprintf("published_year > $%d", argn))
		args = append(args, *f.PublishedAfter)
	}

	return "WHERE " + strings.Join(clauses, " AND "), args
}

func (r *PostgresRepo) FindTitles(ctx context.Context, f Filter) ([]string, error) {
	where, args := whereClause(f)
	sql := fmt.Sprintf("SELECT COALESCE(title, '') FROM books %s ORDER BY title ASC NULLS FIRST, id", where)
	return queryAll(ctx, r, "find titles", pgx.RowTo[string], sql, args...)
}

func (r *PostgresRepo) FindTitleYears(ctx context.Context, f Filter) ([]TitleYear, error) {
	where, args := whereClause(f)
	sql := fmt.Sprintf(`
		SELECT COALESCE(title, ''), COALESCE(published_year, 0)
		FROM books %s
		ORDER BY published_year ASC NULLS FIRST, title ASC NULLS FIRST, id`, where)
	return queryAll(ctx, r, "find title years", pgx.RowToStructByPos[TitleYear], sql, args...)
}

func (r *PostgresRepo) FindCheapest(ctx context.Context, f Filter, limit int) ([]Listing, error) {
	where, args := whereClause(f)
	sql := fmt.Sprintf(`
		SELECT COALESCE(title, ''), COALESCE(author, ''), COALESCE(price, 0)
		FROM books %s
		ORDER BY price ASC NULLS FIRST, title ASC NULLS FIRST, id`, where)
	if limit > 0 {
		sql += fmt.Sprintf(" LIMIT $%d", len(args)+1)
		args = append(args, limit)
	}
	return queryAll(ctx, r, "find cheapest", pgx.RowToStructByPos[Listing], sql, args...)
}

func (r *PostgresRepo) ListAll(ctx context.Context) ([]Listing, error) {
	const sql = `
		SELECT COALESCE(title, ''), COALESCE(author, ''), COALESCE(price, 0)
		FROM books
		ORDER BY title ASC NULLS FIRST, id`
	return queryAll(ctx, r, "list all", pgx.RowToStructByPos[Listing], sql)
}

func (r *PostgresRepo) SortByPrice(ctx context.Context, dir Direction) ([]PriceEntry, error) {
	order := "ASC NULLS FIRST"
	if dir == Descending {
		order = "DESC NULLS LAST"
	}
	sql := fmt.Sprintf(`
		SELECT COALESCE(title, ''), COALESCE(price, 0)
		FROM books
		ORDER BY price %s, title ASC NULLS FIRST, id`, order)
	return queryAll(ctx, r, "sort by price", pgx.RowToStructByPos[PriceEntry], sql)
}

func (r *PostgresRepo) Paginate(ctx context.Context, p Page) ([]PageEntry, error) {
	if !sortFields[p.SortBy] {
		return nil, invalidf("cannot sort by %q", p.SortBy)
	}
	offset, err := p.offset()
	if err != nil {
		return nil, err
	}
	sql := fmt.Sprintf(`
		SELECT COALESCE(title, ''), COALESCE(author, '')
		FROM books
		ORDER BY %s ASC NULLS FIRST, id
		LIMIT $1 OFFSET $2`, p.SortBy)
	return queryAll(ctx, r, "paginate", pgx.RowToStructByPos[PageEntry], sql, p.Size, offset)
}

// UpdatePrice touches the first book with the title and, like the document
// store, reports zero modifications when the price is unchanged.
func (r *PostgresRepo) UpdatePrice(ctx context.Context, title string, price float64) (int64, error) {
	const sql = `
		UPDATE books SET price = $2
		WHERE id = (SELECT id FROM books WHERE title = $1 ORDER BY id LIMIT 1)
		  AND price IS DISTINCT FROM $2`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, sql, title, price)
	if err != nil {
		return 0, opError("update price", classifyPG(err), err)
	}
	return tag.RowsAffected(), nil
}

func (r *PostgresRepo) DeleteByTitle(ctx context.Context, title string) (int64, error) {
	const sql = `DELETE FROM books WHERE id = (SELECT id FROM books WHERE title = $1 ORDER BY id LIMIT 1)`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, sql, title)
	if err != nil {
		return 0, opError("delete by title", classifyPG(err), err)
	}
	return tag.RowsAffected(), nil
}

func (r *PostgresRepo) AveragePriceByGenre(ctx context.Context) ([]GenreAverage, error) {
	const sql = `
		SELECT COALESCE(genre, ''), AVG(price)
		FROM books
		GROUP BY genre
		ORDER BY 2 ASC NULLS FIRST, 1`
	return queryAll(ctx, r, "average price by genre", pgx.RowToStructByPos[GenreAverage], sql)
}

func (r *PostgresRepo) TopAuthors(ctx context.Context, limit int) ([]AuthorCount, error) {
	const sql = `
		SELECT COALESCE(author, ''), COUNT(*)
		FROM books
		GROUP BY author
		ORDER BY 2 DESC, 1 ASC NULLS FIRST
		LIMIT $1`
	return queryAll(ctx, r, "top authors", pgx.RowToStructByPos[AuthorCount], sql, limit)
}

func (r *PostgresRepo) CountByDecade(ctx context.Context) ([]DecadeCount, error) {
	const sql = `
		SELECT (FLOOR(published_year / 10.0) * 10)::int AS decade, COUNT(*)
		FROM books
		GROUP BY 1
		ORDER BY 1 ASC NULLS FIRST`
	return queryAll(ctx, r, "count by decade", pgx.RowToStructByPos[DecadeCount], sql)
}

func (r *PostgresRepo) EnsureIndexes(ctx context.Context) ([]string, error) {
	stmts := []struct{ name, sql string }{
		{TitleIndex, "CREATE INDEX IF NOT EXISTS " + TitleIndex + " ON books (title)"},
		{AuthorYearIndex, "CREATE INDEX IF NOT EXISTS " + AuthorYearIndex + " ON books (author, published_year)"},
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	names := make([]string, 0, len(stmts))
	for _, s := range stmts {
		if _, err := r.db.Exec(timeoutCtx, s.sql); err != nil {
			return nil, opError("ensure indexes", classifyPG(err), err)
		}
		names = append(names, s.name)
	}
	return names, nil
}

type pgPlanNode struct {
	NodeType  string       `json:"Node Type"`
	IndexName string       `json:"Index Name"`
	Plans     []pgPlanNode `json:"Plans"`
}

func (r *PostgresRepo) Explain(ctx context.Context, f Filter) (Plan, error) {
	where, args := whereClause(f)
	sql := "EXPLAIN (FORMAT JSON) SELECT id FROM books " + where

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	var raw []byte
	if err := r.db.QueryRow(timeoutCtx, sql, args...).Scan(&raw); err != nil {
		return Plan{}, opError("explain", classifyPG(err), err)
	}
	return parsePGPlan(raw)
}

func parsePGPlan(raw []byte) (Plan, error) {
	var out []struct {
		Plan pgPlanNode `json:"Plan"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return Plan{}, opError("explain", ErrQuery, err)
	}
	if len(out) == 0 {
		return Plan{}, opError("explain", ErrQuery, errors.New("empty plan"))
	}

	root := out[0].Plan
	plan := Plan{WinningStage: root.NodeType}
	var walk func(n pgPlanNode)
	walk = func(n pgPlanNode) {
		if plan.IndexUsed {
			return
		}
		if strings.Contains(n.NodeType, "Index") {
			plan.IndexUsed = true
			plan.IndexName = n.IndexName
			return
		}
		for _, child := range n.Plans {
			walk(child)
		}
	}
	walk(root)
	return plan, nil
}

func (r *PostgresRepo) Ping(ctx context.Context) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	if err := r.db.Ping(timeoutCtx); err != nil {
		return opError("ping", ErrConnectivity, err)
	}
	return nil
}

// InsertMany loads books into the table. It is used by the seed command only.
func (r *PostgresRepo) InsertMany(ctx context.Context, books []Book) (int, error) {
	rows := make([][]any, 0, len(books))
	for _, b := range books {
		rows = append(rows, []any{b.Title, b.Author, b.Genre, b.PublishedYear, b.Price, b.InStock, b.Pages, b.Publisher})
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	n, err := r.db.CopyFrom(timeoutCtx,
		pgx.Identifier{"books"},
		[]string{"title", "author", "genre", "published_year", "price", "in_stock", "pages", "publisher"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return 0, opError("insert books", classifyPG(err), err)
	}
	return int(n), nil
}

func queryAll[T any](ctx context.Context, r *PostgresRepo, op string, scan pgx.RowToFunc[T], sql string, args ...any) ([]T, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.Query(timeoutCtx, sql, args...)
	if err != nil {
		return nil, opError(op, classifyPG(err), err)
	}
	out, err := pgx.CollectRows(rows, scan)
	if err != nil {
		return nil, opError(op, classifyPG(err), err)
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

// classifyPG maps a pgx error onto ErrConnectivity or ErrQuery.
func classifyPG(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return ErrQuery
	}
	var connectErr *pgconn.ConnectError
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded),
		pgconn.Timeout(err),
		errors.As(err, &connectErr),
		errors.As(err, &netErr):
		return ErrConnectivity
	}
	return ErrQuery
}
