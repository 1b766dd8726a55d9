package book

import (
	"math"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Book represents a record of the books collection.
type Book struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Title         string             `bson:"title" json:"title"`
	Author        string             `bson:"author" json:"author"`
	Genre         string             `bson:"genre" json:"genre"`
	PublishedYear int                `bson:"published_year" json:"published_year"`
	Price         float64            `bson:"price" json:"price"`
	InStock       bool               `bson:"in_stock" json:"in_stock"`
	Pages         int                `bson:"pages,omitempty" json:"pages,omitempty"`
	Publisher     string             `bson:"publisher,omitempty" json:"publisher,omitempty"`
}

type TitleYear struct {
	Title         string `bson:"title" json:"title"`
	PublishedYear int    `bson:"published_year" json:"year"`
}

// Listing is the {title, author, price} projection of a book.
type Listing struct {
	Title  string  `bson:"title" json:"title"`
	Author string  `bson:"author" json:"author"`
	Price  float64 `bson:"price" json:"price"`
}

// PriceEntry is the {title, price} projection of a book.
type PriceEntry struct {
	Title string  `bson:"title" json:"title"`
	Price float64 `bson:"price" json:"price"`
}

// PageEntry is the {title, author} projection of a book.
type PageEntry struct {
	Title  string `bson:"title" json:"title"`
	Author string `bson:"author" json:"author"`
}

// GenreAverage holds the mean price of one genre. AveragePrice is nil when
// no record of the genre carries a price.
type GenreAverage struct {
	Genre        string   `bson:"_id" json:"genre"`
	AveragePrice *float64 `bson:"averagePrice" json:"average_price"`
}

type AuthorCount struct {
	Author string `bson:"_id" json:"author"`
	Count  int64  `bson:"count" json:"count"`
}

// DecadeCount counts the records published in a decade. Decade is nil for
// the group of records without a publication year.
type DecadeCount struct {
	Decade *int  `bson:"decade" json:"decade"`
	Count  int64 `bson:"count" json:"count"`
}

// Plan summarises the winning plan of an explained query.
type Plan struct {
	IndexUsed    bool   `json:"index_used"`
	WinningStage string `json:"winning_stage"`
	IndexName    string `json:"index_name,omitempty"`
}

// IndexReport lists the indexes guaranteed to exist after EnsureIndexes.
type IndexReport struct {
	Names []string `json:"names"`
}

// Filter selects books. Nil fields are ignored; the zero Filter matches
// every record.
type Filter struct {
	Title          *string
	Author         *string
	Genre          *string
	PublishedYear  *int
	PublishedAfter *int
	InStock        *bool
}

// Direction is a sort direction.
type Direction int

const (
	Ascending  Direction = 1
	Descending Direction = -1
)

// ParseDirection accepts "asc"/"ascending" and "desc"/"descending".
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "", "asc", "ascending":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	}
	return 0, invalidf("unknown sort direction %q", s)
}

func (d Direction) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// Page describes one page of a paginated listing. SortBy defaults to title.
type Page struct {
	Index  int
	Size   int
	SortBy string
}

// offset returns the number of records preceding p. Pages too far out for
// the offset to fit in an int are rejected rather than wrapped.
func (p Page) offset() (int, error) {
	if p.Index < 0 || p.Size <= 0 {
		return 0, invalidf("invalid page %d of size %d", p.Index, p.Size)
	}
	if p.Index > math.MaxInt/p.Size {
		return 0, invalidf("page %d of size %d is out of range", p.Index, p.Size)
	}
	return p.Index * p.Size, nil
}

// Sortable fields for pagination.
var sortFields = map[string]bool{
	"title":          true,
	"author":         true,
	"price":          true,
	"published_year": true,
}

// Index names created by EnsureIndexes.
const (
	TitleIndex            = "title_1"
	AuthorYearIndex       = "author_1_published_year_1"
	DefaultPaginationSort = "title"
)

func ptr[T any](v T) *T { return &v }
