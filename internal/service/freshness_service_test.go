package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yelrambob/supply-QR/models"
)

func ts(day, hour int) time.Time {
	return time.Date(2024, 3, day, hour, 0, 0, 0, time.UTC)
}

func TestReconcile_OneRowPerCatalogItem(t *testing.T) {
	catalog := []models.CatalogItem{
		{Item: "Gloves", ProductNumber: "A100"},
		{Item: "Masks", ProductNumber: "B200"},
		{Item: "Wipes", ProductNumber: "C300"},
	}
	log := []models.OrderLogEntry{
		{Item: "Gloves", ProductNumber: "A100", Qty: 2, OrderedAt: ts(1, 9), Orderer: "sam"},
	}

	rows := Reconcile(log, catalog)
	require.Len(t, rows, len(catalog))

	byKey := make(map[models.ItemKey]models.FreshnessRow)
	for _, row := range rows {
		byKey[row.Key()] = row
	}

	gloves := byKey[models.ItemKey{Item: "Gloves", ProductNumber: "A100"}]
	require.NotNil(t, gloves.LastOrderedAt)
	assert.True(t, gloves.LastOrderedAt.Equal(ts(1, 9)))
	require.NotNil(t, gloves.LastQty)
	assert.Equal(t, 2, *gloves.LastQty)
	require.NotNil(t, gloves.LastOrderer)
	assert.Equal(t, "sam", *gloves.LastOrderer)

	masks := byKey[models.ItemKey{Item: "Masks", ProductNumber: "B200"}]
	assert.Nil(t, masks.LastOrderedAt)
	assert.Nil(t, masks.LastQty)
	assert.Nil(t, masks.LastOrderer)
}

func TestReconcile_SelectsMostRecentEntry(t *testing.T) {
	catalog := []models.CatalogItem{{Item: "Gloves", ProductNumber: "A100"}}
	log := []models.OrderLogEntry{
		{Item: "Gloves", ProductNumber: "A100", Qty: 5, OrderedAt: ts(3, 9), Orderer: "kim"},
		{Item: "Gloves", ProductNumber: "A100", Qty: 1, OrderedAt: ts(1, 9), Orderer: "sam"},
		{Item: "Gloves", ProductNumber: "A100", Qty: 2, OrderedAt: ts(2, 9), Orderer: "lee"},
	}

	rows := Reconcile(log, catalog)
	require.Len(t, rows, 1)
	require.NotNil(t, rows[0].LastOrderedAt)
	assert.True(t, rows[0].LastOrderedAt.Equal(ts(3, 9)))
	assert.Equal(t, "kim", *rows[0].LastOrderer)
	assert.Equal(t, 5, *rows[0].LastQty)
}

func TestReconcile_EqualTimestamps_LastInLogOrderWins(t *testing.T) {
	catalog := []models.CatalogItem{{Item: "Gloves", ProductNumber: "A100"}}
	same := ts(1, 9)
	log := []models.OrderLogEntry{
		{Item: "Gloves", ProductNumber: "A100", Qty: 1, OrderedAt: same, Orderer: "first"},
		{Item: "Gloves", ProductNumber: "A100", Qty: 2, OrderedAt: same, Orderer: "second"},
		{Item: "Gloves", ProductNumber: "A100", Qty: 3, OrderedAt: same, Orderer: "third"},
	}

	rows := Reconcile(log, catalog)
	require.Len(t, rows, 1)
	require.NotNil(t, rows[0].LastOrderer)
	assert.Equal(t, "third", *rows[0].LastOrderer)
	assert.Equal(t, 3, *rows[0].LastQty)
}

func TestReconcile_KeyIsItemAndProductNumber(t *testing.T) {
	// The same product number under two display names is two keys.
	catalog := []models.CatalogItem{
		{Item: "Gloves S", ProductNumber: "A100"},
		{Item: "Gloves L", ProductNumber: "A100"},
	}
	log := []models.OrderLogEntry{
		{Item: "Gloves S", ProductNumber: "A100", Qty: 1, OrderedAt: ts(1, 9), Orderer: "sam"},
	}

	rows := Reconcile(log, catalog)
	require.Len(t, rows, 2)

	var withHistory, without int
	for _, row := range rows {
		if row.LastOrderedAt != nil {
			withHistory++
		} else {
			without++
		}
	}
	assert.Equal(t, 1, withHistory)
	assert.Equal(t, 1, without)
}

func TestReconcile_DisplayOrdering(t *testing.T) {
	catalog := []models.CatalogItem{
		{Item: "Zebra wipes", ProductNumber: "Z1"},
		{Item: "Apple wipes", ProductNumber: "A1"},
		{Item: "Old gloves", ProductNumber: "O1"},
		{Item: "New gloves", ProductNumber: "N1"},
	}
	log := []models.OrderLogEntry{
		{Item: "Old gloves", ProductNumber: "O1", Qty: 1, OrderedAt: ts(1, 9), Orderer: "sam"},
		{Item: "New gloves", ProductNumber: "N1", Qty: 1, OrderedAt: ts(2, 9), Orderer: "sam"},
	}

	rows := Reconcile(log, catalog)
	require.Len(t, rows, 4)

	// Most recently ordered first, then never-ordered alphabetically.
	assert.Equal(t, "New gloves", rows[0].Item)
	assert.Equal(t, "Old gloves", rows[1].Item)
	assert.Equal(t, "Apple wipes", rows[2].Item)
	assert.Equal(t, "Zebra wipes", rows[3].Item)
}

func TestReconcile_EmptyLog(t *testing.T) {
	catalog := []models.CatalogItem{
		{Item: "Gloves", ProductNumber: "A100"},
		{Item: "Masks", ProductNumber: "B200"},
	}

	rows := Reconcile(nil, catalog)
	require.Len(t, rows, 2)
	for _, row := range rows {
		assert.Nil(t, row.LastOrderedAt)
	}

	assert.Empty(t, Reconcile(nil, nil))
}

func TestLastInfoMap_Invariant(t *testing.T) {
	log := []models.OrderLogEntry{
		{Item: "Gloves", ProductNumber: "A100", Qty: 1, OrderedAt: ts(2, 9)},
		{Item: "Masks", ProductNumber: "B200", Qty: 4, OrderedAt: ts(5, 9)},
		{Item: "Gloves", ProductNumber: "A100", Qty: 2, OrderedAt: ts(4, 9)},
		{Item: "Masks", ProductNumber: "B200", Qty: 9, OrderedAt: ts(3, 9)},
	}

	last := LastInfoMap(log)
	require.Len(t, last, 2)
	assert.True(t, last[models.ItemKey{Item: "Gloves", ProductNumber: "A100"}].OrderedAt.Equal(ts(4, 9)))
	assert.True(t, last[models.ItemKey{Item: "Masks", ProductNumber: "B200"}].OrderedAt.Equal(ts(5, 9)))
}
