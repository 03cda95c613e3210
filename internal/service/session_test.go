package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yelrambob/supply-QR/models"
)

var sessionCatalog = []models.CatalogItem{
	{Item: "Gloves", ProductNumber: "A100", Price: 10},
	{Item: "Masks", ProductNumber: "B200", Price: 5},
	{Item: "Wipes", ProductNumber: "C300", Price: 2},
}

func TestOrderSession_SetQty_RejectsNegative(t *testing.T) {
	session := NewOrderSession()

	err := session.SetQty("A100", -1)
	require.Error(t, err)
	assert.Equal(t, 0, session.Qty("A100"))

	require.NoError(t, session.SetQty("A100", 3))
	assert.Equal(t, 3, session.Qty("A100"))
}

func TestOrderSession_SelectedLines_FiltersZeroAndUnknown(t *testing.T) {
	session := NewOrderSession()
	require.NoError(t, session.SetQty("A100", 2))
	require.NoError(t, session.SetQty("B200", 0))
	require.NoError(t, session.SetQty("GONE", 7)) // not in catalog

	lines := session.SelectedLines(sessionCatalog)
	require.Len(t, lines, 1)
	assert.Equal(t, "A100", lines[0].ProductNumber)
	assert.Equal(t, "Gloves", lines[0].Item)
	assert.Equal(t, 2, lines[0].Qty)

	for _, line := range lines {
		assert.Greater(t, line.Qty, 0)
	}
}

func TestOrderSession_SelectedLines_CatalogOrder(t *testing.T) {
	session := NewOrderSession()
	require.NoError(t, session.SetQty("C300", 1))
	require.NoError(t, session.SetQty("A100", 1))

	lines := session.SelectedLines(sessionCatalog)
	require.Len(t, lines, 2)
	assert.Equal(t, "A100", lines[0].ProductNumber)
	assert.Equal(t, "C300", lines[1].ProductNumber)
}

func TestOrderSession_StateTransitions(t *testing.T) {
	session := NewOrderSession()
	assert.False(t, session.Composing(), "new session starts idle")

	require.NoError(t, session.SetQty("A100", 1))
	assert.True(t, session.Composing())

	// Removing the last positive quantity returns to idle.
	require.NoError(t, session.SetQty("A100", 0))
	assert.False(t, session.Composing())

	// Re-enterable after clear.
	require.NoError(t, session.SetQty("B200", 2))
	session.Clear()
	assert.False(t, session.Composing())
	assert.Empty(t, session.SelectedLines(sessionCatalog))

	require.NoError(t, session.SetQty("B200", 2))
	assert.True(t, session.Composing())
}

func TestOrderSession_OrdererSurvivesClear(t *testing.T) {
	session := NewOrderSession()
	session.SetOrderer("Jordan")
	require.NoError(t, session.SetQty("A100", 1))

	session.Clear()
	assert.Equal(t, "Jordan", session.Orderer())
}
