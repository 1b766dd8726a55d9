package book

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// setupMongoRepo connects to TEST_MONGO_URI and seeds a throwaway collection
// that is dropped when the test ends.
func setupMongoRepo(t *testing.T) *MongoRepo {
	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		t.Skip("Skipping test: TEST_MONGO_URI not set")
	}
	ctx := context.Background()

	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(5*time.Second))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })
	if err := client.Ping(ctx, nil); err != nil {
		t.Skipf("Skipping test: cannot ping test database: %v", err)
	}

	coll := client.Database("bookquery_test").Collection(fmt.Sprintf("books_%d", time.Now().UnixNano()))
	t.Cleanup(func() { _ = coll.Drop(context.Background()) })

	repo := NewMongoRepo(coll, 5*time.Second)
	n, err := repo.InsertMany(ctx, SampleBooks())
	require.NoError(t, err)
	require.Equal(t, len(SampleBooks()), n)
	return repo
}

func TestMongoRepo_Integration(t *testing.T) {
	repo := setupMongoRepo(t)
	testRunnerOnSampleBooks(t, NewQueryRunner(repo))
}

// testRunnerOnSampleBooks checks the observable behaviour every backend
// must share once seeded with SampleBooks. It mutates the data.
func testRunnerOnSampleBooks(t *testing.T, runner *QueryRunner) {
	ctx := context.Background()

	t.Run("find by genre", func(t *testing.T) {
		titles, err := runner.FindByGenre(ctx, "Fantasy")
		require.NoError(t, err)
		assert.Equal(t, []string{
			"Harry Potter and the Philosopher's Stone",
			"The Hobbit",
			"The Lord of the Rings",
		}, titles)
	})

	t.Run("unknown genre", func(t *testing.T) {
		titles, err := runner.FindByGenre(ctx, "Cookbook")
		require.NoError(t, err)
		assert.Empty(t, titles)
	})

	t.Run("pages are disjoint", func(t *testing.T) {
		first, err := runner.Paginate(ctx, Page{Index: 0, Size: 5})
		require.NoError(t, err)
		second, err := runner.Paginate(ctx, Page{Index: 1, Size: 5})
		require.NoError(t, err)
		require.Len(t, first, 5)
		require.Len(t, second, 5)

		seen := map[string]bool{}
		for _, b := range first {
			seen[b.Title] = true
		}
		for _, b := range second {
			assert.False(t, seen[b.Title], "%q on both pages", b.Title)
		}

		past, err := runner.Paginate(ctx, Page{Index: 10, Size: 5})
		require.NoError(t, err)
		assert.Empty(t, past)
	})

	t.Run("decades add up to the record count", func(t *testing.T) {
		decades, err := runner.CountByDecade(ctx)
		require.NoError(t, err)
		all, err := runner.ProjectAll(ctx)
		require.NoError(t, err)

		var total int64
		for _, d := range decades {
			total += d.Count
		}
		assert.Equal(t, int64(len(all)), total)
	})

	t.Run("average price per genre", func(t *testing.T) {
		avgs, err := runner.AveragePriceByGenre(ctx)
		require.NoError(t, err)
		for _, a := range avgs {
			if a.Genre == "Fantasy" {
				assert.InDelta(t, (14.99+19.99+15.99)/3, *a.AveragePrice, 1e-9)
			}
		}
	})

	t.Run("top author", func(t *testing.T) {
		top, ok, err := runner.TopAuthorByCount(ctx)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, int64(2), top.Count)
		assert.Equal(t, "George Orwell", top.Author)
	})

	t.Run("update is visible and idempotent", func(t *testing.T) {
		n, err := runner.UpdatePrice(ctx, "1984", 14.99)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		n, err = runner.UpdatePrice(ctx, "1984", 14.99)
		require.NoError(t, err)
		assert.Zero(t, n)

		all, err := runner.ProjectAll(ctx)
		require.NoError(t, err)
		assert.Contains(t, all, Listing{Title: "1984", Author: "George Orwell", Price: 14.99})
	})

	t.Run("delete twice", func(t *testing.T) {
		title := "Murder on the Orient Express"
		n, err := runner.DeleteByTitle(ctx, title)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		n, err = runner.DeleteByTitle(ctx, title)
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("indexes and explain", func(t *testing.T) {
		report, err := runner.EnsureIndexes(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{TitleIndex, AuthorYearIndex}, report.Names)

		_, err = runner.EnsureIndexes(ctx)
		require.NoError(t, err)

		plan, err := runner.ExplainPlan(ctx, Filter{Title: ptr("The Great Gatsby")})
		require.NoError(t, err)
		assert.NotEmpty(t, plan.WinningStage)
	})
}
