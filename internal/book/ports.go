package book

import (
	"context"
)

//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=book

// Repository defines the contract for book data storage.
type Repository interface {
	FindTitles(ctx context.Context, f Filter) ([]string, error)
	FindTitleYears(ctx context.Context, f Filter) ([]TitleYear, error)
	// FindCheapest returns matching listings ordered by price, then title.
	// A limit of zero means no limit.
	FindCheapest(ctx context.Context, f Filter, limit int) ([]Listing, error)
	ListAll(ctx context.Context) ([]Listing, error)
	SortByPrice(ctx context.Context, dir Direction) ([]PriceEntry, error)
	Paginate(ctx context.Context, p Page) ([]PageEntry, error)
	UpdatePrice(ctx context.Context, title string, price float64) (int64, error)
	DeleteByTitle(ctx context.Context, title string) (int64, error)
	AveragePriceByGenre(ctx context.Context) ([]GenreAverage, error)
	TopAuthors(ctx context.Context, limit int) ([]AuthorCount, error)
	CountByDecade(ctx context.Context) ([]DecadeCount, error)
	EnsureIndexes(ctx context.Context) ([]string, error)
	Explain(ctx context.Context, f Filter) (Plan, error)
	Ping(ctx context.Context) error
}
