package notes

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blueplan/technotes-go/internal/technotes/errs"
)

func TestInmemStoreRoundTrip(t *testing.T) {
	store := NewInmem()
	ctx := context.Background()

	created, err := store.Create(ctx, Note{User: "user:dan", Title: "First", Text: "body"})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	got, err := store.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	all, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	created.Text = "edited"
	updated, err := store.Update(ctx, created)
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Text)

	deleted, err := store.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "First", deleted.Title)

	_, err = store.Get(ctx, created.ID)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestInmemStoreUpdateMissing(t *testing.T) {
	store := NewInmem()

	_, err := store.Update(context.Background(), Note{ID: "note:absent"})
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestInmemStoreGetByTitle(t *testing.T) {
	store := NewInmem()
	ctx := context.Background()

	created, err := store.Create(ctx, Note{User: "user:dan", Title: "Groceries", Text: "milk"})
	require.NoError(t, err)

	found, err := store.GetByTitle(ctx, "GROCERIES")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = store.GetByTitle(ctx, "Missing")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}
