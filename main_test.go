package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/billie-coop/waypoints/internal/estimate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBundledCatalogLoads(t *testing.T) {
	c, err := estimate.LoadCatalog("catalog.yaml")
	require.NoError(t, err)
	assert.NotEmpty(t, c.Products)
	for _, photo := range c.Photos {
		for _, sel := range photo.Products {
			_, err := c.Product(sel.ProductID)
			assert.NoErrorf(t, err, "photo %s shows unknown piece %s", photo.ID, sel.ProductID)
		}
	}
}

func TestOpenStoreFallsBackToMemory(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	store := openStore(filepath.Join(blocker, "sub", "quote.db"), zap.NewNop())
	defer store.Close()
	_, ok := store.(*estimate.MemoryStore)
	assert.True(t, ok, "expected memory store, got %T", store)

	assert.IsType(t, &estimate.MemoryStore{}, openStore("", zap.NewNop()))
}

func TestOpenStoreUsesSQLite(t *testing.T) {
	store := openStore(filepath.Join(t.TempDir(), "quote.db"), zap.NewNop())
	defer store.Close()
	assert.IsType(t, &estimate.SQLiteStore{}, store)
}

func TestEditContactSavesFieldsForTheQuote(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "quote.db")
	store := openStore(path, zap.NewNop())
	state := estimate.NewState(store)

	require.NoError(t, editContact(ctx, state, []string{"name", "Ada", "Lovelace"}, io.Discard))
	require.NoError(t, editContact(ctx, state, []string{"email", "ada@example.com"}, io.Discard))
	require.NoError(t, editContact(ctx, state, []string{"message", "Call", "after", "5"}, io.Discard))
	assert.ErrorIs(t, editContact(ctx, state, []string{"fax", "1"}, io.Discard), estimate.ErrUnknownField)

	var out bytes.Buffer
	require.NoError(t, editContact(ctx, state, nil, &out))
	assert.Contains(t, out.String(), "name = Ada Lovelace\n")
	assert.Contains(t, out.String(), "phone = \n")
	require.NoError(t, store.Close())

	reopened := openStore(path, zap.NewNop())
	defer reopened.Close()
	c, err := estimate.NewState(reopened).Contact(ctx)
	require.NoError(t, err)

	catalog, err := estimate.LoadCatalog("catalog.yaml")
	require.NoError(t, err)
	quote := estimate.Printable("q-1", c, estimate.New(catalog))
	assert.Contains(t, quote, "Name: Ada Lovelace\n")
	assert.Contains(t, quote, "Email: ada@example.com\n")
	assert.Contains(t, quote, "\nCall after 5\n")
}
