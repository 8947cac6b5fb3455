package sqlite

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/ecommerce-gateway/internal/pkg/docstore"
)

type widget struct {
	docstore.Meta
	Name          string `json:"name"`
	OwnerID       string `json:"owner_id"`
}

var _ docstore.Collection[widget] = (*Collection[widget])(nil)

func newWidgets(t *testing.T) *Collection[widget] {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "nested", "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewCollection[widget](db, "widgets")
}

func TestInsertAssignsMeta(t *testing.T) {
	ctx := context.Background()
	c := newWidgets(t)

	w := &widget{Name: "a", OwnerID: "u1"}
	require.NoError(t, c.Insert(ctx, w))
	assert.NotEmpty(t, w.ID)
	assert.False(t, w.CreatedAt.IsZero())
	assert.Equal(t, w.CreatedAt, w.UpdatedAt)

	got, err := c.Get(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, "a", got.Name)
	assert.Equal(t, w.ID, got.ID)
}

func TestGetMissing(t *testing.T) {
	c := newWidgets(t)
	_, err := c.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, docstore.ErrNotFound)
}

func TestUpdateKeepsCreatedAt(t *testing.T) {
	ctx := context.Background()
	c := newWidgets(t)
	w := &widget{Name: "a"}
	require.NoError(t, c.Insert(ctx, w))

	later := w.CreatedAt.Add(time.Minute)
	c.now = func() time.Time { return later }

	upd := &widget{Name: "b"}
	require.NoError(t, c.Update(ctx, w.ID, upd))
	assert.Equal(t, w.ID, upd.ID)
	assert.True(t, upd.CreatedAt.Equal(w.CreatedAt))
	assert.True(t, upd.UpdatedAt.Equal(later))

	got, err := c.Get(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, "b", got.Name)

	assert.ErrorIs(t, c.Update(ctx, "missing", &widget{}), docstore.ErrNotFound)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	c := newWidgets(t)
	w := &widget{Name: "a"}
	require.NoError(t, c.Insert(ctx, w))

	require.NoError(t, c.Delete(ctx, w.ID))
	assert.ErrorIs(t, c.Delete(ctx, w.ID), docstore.ErrNotFound)
}

func TestFindPaginatesAndFilters(t *testing.T) {
	ctx := context.Background()
	c := newWidgets(t)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range 25 {
		c.now = func() time.Time { return base.Add(time.Duration(i) * time.Second) }
		owner := "u1"
		if i%5 == 0 {
			owner = "u2"
		}
		require.NoError(t, c.Insert(ctx, &widget{Name: fmt.Sprintf("w%02d", i), OwnerID: owner}))
	}

	page, total, err := c.Find(ctx, docstore.Query{Page: 2, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 25, total)
	require.Len(t, page, 10)
	assert.Equal(t, "w10", page[0].Name)
	assert.Equal(t, "w19", page[9].Name)

	page, total, err = c.Find(ctx, docstore.Query{Page: 3})
	require.NoError(t, err)
	assert.EqualValues(t, 25, total)
	assert.Len(t, page, 5)

	page, total, err = c.Find(ctx, docstore.Query{Filter: docstore.Filter{"owner_id": "u2"}})
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	assert.Len(t, page, 5)

	one, err := c.FindOne(ctx, docstore.Filter{"name": "w07"})
	require.NoError(t, err)
	assert.Equal(t, "u1", one.OwnerID)

	_, err = c.FindOne(ctx, docstore.Filter{"name": "none"})
	assert.ErrorIs(t, err, docstore.ErrNotFound)
}

func TestCollectionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	c := newWidgets(t)
	other := NewCollection[widget](c.db, "gadgets")
	require.NoError(t, c.Insert(ctx, &widget{Name: "a"}))

	_, total, err := other.Find(ctx, docstore.Query{})
	require.NoError(t, err)
	assert.Zero(t, total)
}
