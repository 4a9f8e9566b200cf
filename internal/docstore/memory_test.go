package docstore

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func booking(id, start, status string) Document {
	return Document{FieldID: id, FieldType: "assessmentBooking", "startsAtUtc": start, "status": status}
}

func TestMemory_CreateIfNotExistsKeepsFirst(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, m.CreateIfNotExists(ctx, Document{FieldID: "a", FieldType: "t", "owner": "first"}))
	require.NoError(t, m.CreateIfNotExists(ctx, Document{FieldID: "a", FieldType: "t", "owner": "second"}))

	doc, err := m.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "first", doc.String("owner"))
	assert.Equal(t, 1, m.Len())
}

func TestMemory_GetMissing(t *testing.T) {
	_, err := NewMemory().Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemory_ConcurrentCreateHasOneWinner(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = m.CreateIfNotExists(ctx, Document{FieldID: "slot", FieldType: "t", "owner": i})
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, m.Len())
}

func TestMemory_TransactionAllOrNothing(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	err := m.Transaction(ctx,
		CreateIfNotExists(Document{FieldID: "x", FieldType: "t"}),
		Patch("missing", map[string]any{"status": "CANCELED"}),
	)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 0, m.Len())

	err = m.Transaction(ctx,
		CreateIfNotExists(Document{FieldID: "x", FieldType: "t"}),
		Patch("x", map[string]any{"status": "CANCELED"}),
	)
	require.NoError(t, err)
	doc, err := m.Get(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, "CANCELED", doc.String("status"))
}

func TestMemory_RejectsInvalidDocuments(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	assert.Error(t, m.CreateIfNotExists(ctx, Document{FieldType: "t"}))
	assert.Error(t, m.CreateIfNotExists(ctx, Document{FieldID: "a"}))
	assert.Error(t, m.Patch(ctx, "a", map[string]any{FieldID: "b"}))
}

func TestMemory_FetchFiltersOrdersAndLimits(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	for _, d := range []Document{
		booking("b3", "2025-03-10T17:00:00.000Z", "CONFIRMED"),
		booking("b1", "2025-03-10T14:00:00.000Z", "CONFIRMED"),
		booking("b2", "2025-03-10T15:00:00.000Z", "CANCELED"),
		booking("b4", "2025-03-11T14:00:00.000Z", "CONFIRMED"),
		{FieldID: "s1", FieldType: "assessmentSession", "startsAtUtc": "2025-03-10T14:00:00.000Z"},
	} {
		require.NoError(t, m.CreateIfNotExists(ctx, d))
	}

	docs, err := m.Fetch(ctx, Query{
		Type: "assessmentBooking",
		Filters: []Filter{
			{Field: "status", Op: Eq, Value: "CONFIRMED"},
			{Field: "startsAtUtc", Op: Gte, Value: "2025-03-10T14:00:00.000Z"},
			{Field: "startsAtUtc", Op: Lt, Value: "2025-03-10T22:00:00.000Z"},
		},
		OrderBy: "startsAtUtc",
	})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "b1", docs[0].ID())
	assert.Equal(t, "b3", docs[1].ID())

	docs, err = m.Fetch(ctx, Query{Type: "assessmentBooking", OrderBy: "startsAtUtc", Descending: true, Limit: 1})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "b4", docs[0].ID())
}

func TestMemory_FetchRejectsUnsafeFields(t *testing.T) {
	_, err := NewMemory().Fetch(context.Background(), Query{
		Type:    "t",
		Filters: []Filter{{Field: "x'; DROP TABLE documents;--", Op: Eq, Value: "1"}},
	})
	assert.Error(t, err)
}

func TestMemory_GetMany(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.CreateIfNotExists(ctx, Document{FieldID: "a", FieldType: "t"}))

	got, err := m.GetMany(ctx, []string{"a", "b"})
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Contains(t, got, "a")
}

func TestDocument_Strings(t *testing.T) {
	d := Document{"a": []any{"x", "y", 3}, "b": []string{"z"}}
	assert.Equal(t, []string{"x", "y"}, d.Strings("a"))
	assert.Equal(t, []string{"z"}, d.Strings("b"))
	assert.Nil(t, d.Strings("c"))
}

func TestBuildSelect(t *testing.T) {
	query, args := buildSelect(Query{
		Type:    "assessmentBooking",
		Filters: []Filter{{Field: "status", Op: Eq, Value: "CONFIRMED"}, {Field: "startsAtUtc", Op: Gte, Value: "2025"}},
		OrderBy: "startsAtUtc",
		Limit:   200,
	})
	assert.Equal(t,
		`SELECT body FROM documents WHERE doc_type = $1 AND body->>'status' COLLATE "C" = $2 AND body->>'startsAtUtc' COLLATE "C" >= $3 ORDER BY body->>'startsAtUtc' COLLATE "C" ASC LIMIT 200`,
		query)
	assert.Equal(t, []any{"assessmentBooking", "CONFIRMED", "2025"}, args)
}
