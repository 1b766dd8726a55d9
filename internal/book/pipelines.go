package book

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Projections used by the find operations. _id is always excluded.
var (
	titleProjection     = bson.D{{Key: "title", Value: 1}, {Key: "_id", Value: 0}}
	titleYearProjection = bson.D{{Key: "title", Value: 1}, {Key: "published_year", Value: 1}, {Key: "_id", Value: 0}}
	listingProjection   = bson.D{{Key: "title", Value: 1}, {Key: "author", Value: 1}, {Key: "price", Value: 1}, {Key: "_id", Value: 0}}
	priceProjection     = bson.D{{Key: "title", Value: 1}, {Key: "price", Value: 1}, {Key: "_id", Value: 0}}
	pageProjection      = bson.D{{Key: "title", Value: 1}, {Key: "author", Value: 1}, {Key: "_id", Value: 0}}
)

// filterDoc converts f into a query document. Fields are emitted in a
// stable order so that equal filters produce equal documents.
func filterDoc(f Filter) bson.D {
	doc := bson.D{}
	if f.Title != nil {
		doc = append(doc, bson.E{Key: "title", Value: *f.Title})
	}
	if f.Author != nil {
		doc = append(doc, bson.E{Key: "author", Value: *f.Author})
	}
	if f.Genre != nil {
		doc = append(doc, bson.E{Key: "genre", Value: *f.Genre})
	}
	if f.InStock != nil {
		doc = append(doc, bson.E{Key: "in_stock", Value: *f.InStock})
	}
	switch {
	case f.PublishedYear != nil && f.PublishedAfter != nil:
		doc = append(doc, bson.E{Key: "published_year", Value: bson.D{
			{Key: "$eq", Value: *f.PublishedYear},
			{Key: "$gt", Value: *f.PublishedAfter},
		}})
	case f.PublishedYear != nil:
		doc = append(doc, bson.E{Key: "published_year", Value: *f.PublishedYear})
	case f.PublishedAfter != nil:
		doc = append(doc, bson.E{Key: "published_year", Value: bson.D{{Key: "$gt", Value: *f.PublishedAfter}}})
	}
	return doc
}

func titlesFindOptions() *options.FindOptions {
	return options.Find().
		SetProjection(titleProjection).
		SetSort(bson.D{{Key: "title", Value: 1}, {Key: "_id", Value: 1}})
}

func titleYearsFindOptions() *options.FindOptions {
	return options.Find().
		SetProjection(titleYearProjection).
		SetSort(bson.D{{Key: "published_year", Value: 1}, {Key: "title", Value: 1}, {Key: "_id", Value: 1}})
}

func cheapestFindOptions(limit int) *options.FindOptions {
	opts := options.Find().
		SetProjection(listingProjection).
		SetSort(bson.D{{Key: "price", Value: 1}, {Key: "title", Value: 1}, {Key: "_id", Value: 1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	return opts
}

func listAllFindOptions() *options.FindOptions {
	return options.Find().
		SetProjection(listingProjection).
		SetSort(bson.D{{Key: "title", Value: 1}, {Key: "_id", Value: 1}})
}

// Ties on price are broken by title so repeated calls return the same order.
func priceFindOptions(dir Direction) *options.FindOptions {
	return options.Find().
		SetProjection(priceProjection).
		SetSort(bson.D{{Key: "price", Value: int(dir)}, {Key: "title", Value: 1}, {Key: "_id", Value: 1}})
}

func pageFindOptions(p Page, skip int) *options.FindOptions {
	return options.Find().
		SetProjection(pageProjection).
		SetSort(bson.D{{Key: p.SortBy, Value: 1}, {Key: "_id", Value: 1}}).
		SetSkip(int64(skip)).
		SetLimit(int64(p.Size))
}

func setPriceUpdate(price float64) bson.D {
	return bson.D{{Key: "$set", Value: bson.D{{Key: "price", Value: price}}}}
}

func averagePriceByGenrePipeline() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$genre"},
			{Key: "averagePrice", Value: bson.D{{Key: "$avg", Value: "$price"}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "averagePrice", Value: 1}, {Key: "_id", Value: 1}}}},
	}
}

func topAuthorsPipeline(limit int) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$author"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
		{{Key: "$limit", Value: limit}},
	}
}

// decadePipeline groups on floor(published_year / 10) and scales the key
// back up, so 1999 lands in 1990 and -5 in -10.
func decadePipeline() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{{Key: "$floor", Value: bson.D{
				{Key: "$divide", Value: bson.A{"$published_year", 10}},
			}}}},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "decade", Value: bson.D{{Key: "$multiply", Value: bson.A{"$_id", 10}}}},
			{Key: "count", Value: 1},
			{Key: "_id", Value: 0},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "decade", Value: 1}}}},
	}
}

func indexModels() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "title", Value: 1}},
			Options: options.Index().SetName(TitleIndex),
		},
		{
			Keys:    bson.D{{Key: "author", Value: 1}, {Key: "published_year", Value: 1}},
			Options: options.Index().SetName(AuthorYearIndex),
		},
	}
}

func explainCommand(collection string, f Filter) bson.D {
	return bson.D{
		{Key: "explain", Value: bson.D{
			{Key: "find", Value: collection},
			{Key: "filter", Value: filterDoc(f)},
		}},
		{Key: "verbosity", Value: "executionStats"},
	}
}
