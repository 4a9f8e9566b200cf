package docstore

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	envTestDatabaseURL = "TEST_DATABASE_URL"
	envTestMongoURI    = "TEST_MONGO_URI"
	testMongoDatabase  = "assessments_test"
)

// backends returns every store the environment can reach. Postgres and Mongo
// run only when their TEST_ URLs are set; the Mongo URL must name a replica
// set for transactions.
func backends(t *testing.T) map[string]func(t *testing.T) Store {
	t.Helper()
	out := map[string]func(t *testing.T) Store{
		"memory": func(*testing.T) Store { return NewMemory() },
	}
	if url := os.Getenv(envTestDatabaseURL); url != "" {
		out["postgres"] = func(t *testing.T) Store {
			ctx := context.Background()
			p, err := OpenPostgres(ctx, url)
			require.NoError(t, err)
			_, err = p.DB.ExecContext(ctx, `DELETE FROM documents`)
			require.NoError(t, err)
			t.Cleanup(func() { _ = p.Close(ctx) })
			return p
		}
	}
	if uri := os.Getenv(envTestMongoURI); uri != "" {
		out["mongo"] = func(t *testing.T) Store {
			ctx := context.Background()
			m, err := OpenMongo(ctx, uri, testMongoDatabase)
			require.NoError(t, err)
			_, err = m.collection.DeleteMany(ctx, map[string]any{})
			require.NoError(t, err)
			t.Cleanup(func() { _ = m.Close(ctx) })
			return m
		}
	}
	return out
}

func forEachBackend(t *testing.T, fn func(t *testing.T, s Store)) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			fn(t, open(t))
		})
	}
}

func TestStore_CreateIfNotExistsKeepsFirst(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		require.NoError(t, s.CreateIfNotExists(ctx, Document{FieldID: "lock_a", FieldType: "t", "owner": "first"}))
		require.NoError(t, s.CreateIfNotExists(ctx, Document{FieldID: "lock_a", FieldType: "t", "owner": "second"}))

		doc, err := s.Get(ctx, "lock_a")
		require.NoError(t, err)
		assert.Equal(t, "first", doc.String("owner"))
		assert.Equal(t, "t", doc.Type())
	})
}

func TestStore_ConcurrentCreateHasOneWinner(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		owners := make([]string, 20)
		var wg sync.WaitGroup
		for i := range owners {
			owners[i] = fmt.Sprintf("cs_%02d", i)
			wg.Add(1)
			go func(owner string) {
				defer wg.Done()
				// A loser may see an aborted transaction; only the outcome counts.
				_ = s.Transaction(ctx,
					CreateIfNotExists(Document{FieldID: "slot", FieldType: "t", "owner": owner}),
				)
			}(owners[i])
		}
		wg.Wait()

		docs, err := s.Fetch(ctx, Query{Type: "t"})
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Contains(t, owners, docs[0].String("owner"))
	})
}

func TestStore_PatchMissingIsNotFound(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s Store) {
		err := s.Patch(context.Background(), "nope", map[string]any{"status": "CANCELED"})
		assert.ErrorIs(t, err, ErrNotFound)

		_, err = s.Get(context.Background(), "nope")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestStore_TransactionRollsBack(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		err := s.Transaction(ctx,
			CreateIfNotExists(Document{FieldID: "booking_x", FieldType: "t"}),
			Patch("missing", map[string]any{"status": "CANCELED"}),
		)
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = s.Get(ctx, "booking_x")
		assert.ErrorIs(t, err, ErrNotFound)

		require.NoError(t, s.Transaction(ctx,
			CreateIfNotExists(Document{FieldID: "booking_x", FieldType: "t", "status": "CONFIRMED"}),
			Patch("booking_x", map[string]any{"status": "CANCELED"}),
		))
		doc, err := s.Get(ctx, "booking_x")
		require.NoError(t, err)
		assert.Equal(t, "CANCELED", doc.String("status"))
	})
}

func TestStore_FetchFiltersOrdersAndLimits(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		for _, d := range []Document{
			booking("b3", "2025-03-10T17:00:00.000Z", "CONFIRMED"),
			booking("b1", "2025-03-10T14:00:00.000Z", "CONFIRMED"),
			booking("b2", "2025-03-10T15:00:00.000Z", "CANCELED"),
			booking("b4", "2025-03-11T14:00:00.000Z", "CONFIRMED"),
		} {
			require.NoError(t, s.CreateIfNotExists(ctx, d))
		}

		docs, err := s.Fetch(ctx, Query{
			Type: "assessmentBooking",
			Filters: []Filter{
				{Field: "status", Op: Eq, Value: "CONFIRMED"},
				{Field: "startsAtUtc", Op: Gte, Value: "2025-03-10T00:00:00.000Z"},
				{Field: "startsAtUtc", Op: Lt, Value: "2025-03-11T00:00:00.000Z"},
			},
			OrderBy: "startsAtUtc",
		})
		require.NoError(t, err)
		require.Len(t, docs, 2)
		assert.Equal(t, "b1", docs[0].ID())
		assert.Equal(t, "b3", docs[1].ID())

		docs, err = s.Fetch(ctx, Query{Type: "assessmentBooking", OrderBy: "startsAtUtc", Descending: true, Limit: 1})
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, "b4", docs[0].ID())

		many, err := s.GetMany(ctx, []string{"b1", "b2", "zz"})
		require.NoError(t, err)
		assert.Len(t, many, 2)
	})
}
