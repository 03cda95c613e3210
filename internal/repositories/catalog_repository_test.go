package repositories

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yelrambob/supply-QR/models"
	"github.com/yelrambob/supply-QR/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: logger.LevelError, Format: "text", Output: "stderr"})
}

func writeCatalogFile(t *testing.T, content string) *CatalogRepository {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return NewCatalogRepository(path, testLogger())
}

func TestCatalogLoad_MissingFile(t *testing.T) {
	repo := NewCatalogRepository(filepath.Join(t.TempDir(), "catalog.csv"), testLogger())

	items, err := repo.Load()
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCatalogLoad_EmptyFile(t *testing.T) {
	repo := writeCatalogFile(t, "")

	items, err := repo.Load()
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCatalogLoad_FullRow(t *testing.T) {
	repo := writeCatalogFile(t,
		"item,product_number,multiplier,items_per_order,current_qty,sort_order,price\n"+
			"Gloves,A100,2,10,5,3,12.50\n")

	items, err := repo.Load()
	require.NoError(t, err)
	require.Len(t, items, 1)

	assert.Equal(t, models.CatalogItem{
		Item:          "Gloves",
		ProductNumber: "A100",
		Multiplier:    2,
		ItemsPerOrder: 10,
		CurrentQty:    5,
		SortOrder:     3,
		Price:         12.5,
	}, items[0])
}

func TestCatalogLoad_DefaultsAndCoercion(t *testing.T) {
	// Missing columns and malformed numerics coerce to defaults instead of
	// erroring; sort_order falls back to the row position.
	repo := writeCatalogFile(t,
		"item,product_number,multiplier,price\n"+
			"Gloves,A100,not-a-number,oops\n"+
			"Masks,B200,3,7.25\n")

	items, err := repo.Load()
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, 1, items[0].Multiplier)
	assert.Equal(t, 1, items[0].ItemsPerOrder)
	assert.Equal(t, 0, items[0].CurrentQty)
	assert.Equal(t, 0, items[0].SortOrder)
	assert.InDelta(t, 0, items[0].Price, 0.001)

	assert.Equal(t, 3, items[1].Multiplier)
	assert.Equal(t, 1, items[1].SortOrder)
	assert.InDelta(t, 7.25, items[1].Price, 0.001)
}

func TestCatalogLoad_FloatishIntegers(t *testing.T) {
	repo := writeCatalogFile(t,
		"item,product_number,multiplier,items_per_order\n"+
			"Gloves,A100,2.0,4.0\n")

	items, err := repo.Load()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Multiplier)
	assert.Equal(t, 4, items[0].ItemsPerOrder)
}

func TestCatalogRoundTrip(t *testing.T) {
	// Loading a partial-column file and saving it back must preserve keys
	// and numeric values; the rewritten file carries the full column set.
	repo := writeCatalogFile(t,
		"item,product_number,price\n"+
			"Gloves,A100,12.5\n"+
			"Masks,B200,\n")

	original, err := repo.Load()
	require.NoError(t, err)
	require.NoError(t, repo.Save(original))

	reloaded, err := repo.Load()
	require.NoError(t, err)
	require.Len(t, reloaded, len(original))

	for i := range original {
		assert.Equal(t, original[i].Key(), reloaded[i].Key())
		assert.Equal(t, original[i].Multiplier, reloaded[i].Multiplier)
		assert.Equal(t, original[i].ItemsPerOrder, reloaded[i].ItemsPerOrder)
		assert.Equal(t, original[i].CurrentQty, reloaded[i].CurrentQty)
		assert.InDelta(t, original[i].Price, reloaded[i].Price, 0.001)
	}
}

func TestCatalogSave_NilRejected(t *testing.T) {
	repo := NewCatalogRepository(filepath.Join(t.TempDir(), "catalog.csv"), testLogger())
	require.Error(t, repo.Save(nil))
}

func TestCatalogSave_EmptyCatalog(t *testing.T) {
	repo := NewCatalogRepository(filepath.Join(t.TempDir(), "catalog.csv"), testLogger())
	require.NoError(t, repo.Save([]models.CatalogItem{}))

	items, err := repo.Load()
	require.NoError(t, err)
	assert.Empty(t, items)
}
