package book

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/x/mongo/driver/topology"
)

// MongoRepo implements Repository over a MongoDB collection.
type MongoRepo struct {
	coll    *mongo.Collection
	timeout time.Duration
}

func NewMongoRepo(coll *mongo.Collection, timeout time.Duration) *MongoRepo {
	return &MongoRepo{coll: coll, timeout: timeout}
}

func (r *MongoRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.timeout)
}

func (r *MongoRepo) FindTitles(ctx context.Context, f Filter) ([]string, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := findAll[PageEntry](ctx, r.coll, "find titles", filterDoc(f), titlesFindOptions())
	if err != nil {
		return nil, err
	}
	titles := make([]string, 0, len(rows))
	for _, row := range rows {
		titles = append(titles, row.Title)
	}
	return titles, nil
}

func (r *MongoRepo) FindTitleYears(ctx context.Context, f Filter) ([]TitleYear, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	return findAll[TitleYear](ctx, r.coll, "find title years", filterDoc(f), titleYearsFindOptions())
}

func (r *MongoRepo) FindCheapest(ctx context.Context, f Filter, limit int) ([]Listing, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	return findAll[Listing](ctx, r.coll, "find cheapest", filterDoc(f), cheapestFindOptions(limit))
}

func (r *MongoRepo) ListAll(ctx context.Context) ([]Listing, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	return findAll[Listing](ctx, r.coll, "list all", filterDoc(Filter{}), listAllFindOptions())
}

func (r *MongoRepo) SortByPrice(ctx context.Context, dir Direction) ([]PriceEntry, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	return findAll[PriceEntry](ctx, r.coll, "sort by price", filterDoc(Filter{}), priceFindOptions(dir))
}

func (r *MongoRepo) Paginate(ctx context.Context, p Page) ([]PageEntry, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	skip, err := p.offset()
	if err != nil {
		return nil, err
	}
	return findAll[PageEntry](ctx, r.coll, "paginate", filterDoc(Filter{}), pageFindOptions(p, skip))
}

func (r *MongoRepo) UpdatePrice(ctx context.Context, title string, price float64) (int64, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, filterDoc(Filter{Title: &title}), setPriceUpdate(price))
	if err != nil {
		return 0, opError("update price", classify(err), err)
	}
	return res.ModifiedCount, nil
}

func (r *MongoRepo) DeleteByTitle(ctx context.Context, title string) (int64, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, filterDoc(Filter{Title: &title}))
	if err != nil {
		return 0, opError("delete by title", classify(err), err)
	}
	return res.DeletedCount, nil
}

func (r *MongoRepo) AveragePriceByGenre(ctx context.Context) ([]GenreAverage, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	return aggregateAll[GenreAverage](ctx, r.coll, "average price by genre", averagePriceByGenrePipeline())
}

func (r *MongoRepo) TopAuthors(ctx context.Context, limit int) ([]AuthorCount, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	return aggregateAll[AuthorCount](ctx, r.coll, "top authors", topAuthorsPipeline(limit))
}

func (r *MongoRepo) CountByDecade(ctx context.Context) ([]DecadeCount, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	return aggregateAll[DecadeCount](ctx, r.coll, "count by decade", decadePipeline())
}

// EnsureIndexes creates the title and author/year indexes. The server treats
// re-creating an identical index as a no-op.
func (r *MongoRepo) EnsureIndexes(ctx context.Context) ([]string, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	names, err := r.coll.Indexes().CreateMany(ctx, indexModels())
	if err != nil {
		return nil, opError("ensure indexes", classify(err), err)
	}
	return names, nil
}

type planStage struct {
	Stage       string      `bson:"stage"`
	IndexName   string      `bson:"indexName"`
	InputStage  *planStage  `bson:"inputStage"`
	InputStages []planStage `bson:"inputStages"`
	// Set instead of Stage by servers running the slot based engine.
	QueryPlan *planStage `bson:"queryPlan"`
}

type explainOutput struct {
	QueryPlanner struct {
		WinningPlan planStage `bson:"winningPlan"`
	} `bson:"queryPlanner"`
}

func (r *MongoRepo) Explain(ctx context.Context, f Filter) (Plan, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var out explainOutput
	err := r.coll.Database().RunCommand(ctx, explainCommand(r.coll.Name(), f)).Decode(&out)
	if err != nil {
		return Plan{}, opError("explain", classify(err), err)
	}
	return summarisePlan(&out.QueryPlanner.WinningPlan), nil
}

func summarisePlan(root *planStage) Plan {
	if root.QueryPlan != nil {
		root = root.QueryPlan
	}
	plan := Plan{WinningStage: root.Stage}
	var walk func(s *planStage)
	walk = func(s *planStage) {
		if s == nil || plan.IndexUsed {
			return
		}
		if strings.Contains(s.Stage, "IXSCAN") {
			plan.IndexUsed = true
			plan.IndexName = s.IndexName
			return
		}
		walk(s.InputStage)
		for i := range s.InputStages {
			walk(&s.InputStages[i])
		}
	}
	walk(root)
	return plan
}

func (r *MongoRepo) Ping(ctx context.Context) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if err := r.coll.Database().Client().Ping(ctx, readpref.Primary()); err != nil {
		return opError("ping", ErrConnectivity, err)
	}
	return nil
}

// InsertMany loads books into the collection. It is used by the seed command only.
func (r *MongoRepo) InsertMany(ctx context.Context, books []Book) (int, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	docs := make([]any, 0, len(books))
	for _, b := range books {
		docs = append(docs, b)
	}
	res, err := r.coll.InsertMany(ctx, docs)
	if err != nil {
		return 0, opError("insert books", classify(err), err)
	}
	return len(res.InsertedIDs), nil
}

func findAll[T any](ctx context.Context, coll *mongo.Collection, op string, filter any, opts *options.FindOptions) ([]T, error) {
	cur, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, opError(op, classify(err), err)
	}
	defer cur.Close(ctx)

	out := []T{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, opError(op, classify(err), err)
	}
	return out, nil
}

func aggregateAll[T any](ctx context.Context, coll *mongo.Collection, op string, pipeline mongo.Pipeline) ([]T, error) {
	cur, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, opError(op, classify(err), err)
	}
	defer cur.Close(ctx)

	out := []T{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, opError(op, classify(err), err)
	}
	return out, nil
}

// classify maps a driver error onto ErrConnectivity or ErrQuery.
func classify(err error) error {
	var sse topology.ServerSelectionError
	switch {
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, mongo.ErrClientDisconnected),
		mongo.IsTimeout(err),
		mongo.IsNetworkError(err),
		errors.As(err, &sse):
		return ErrConnectivity
	}
	return ErrQuery
}
