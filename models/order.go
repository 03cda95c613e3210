package models

import "time"

// OrderLogEntry is one immutable fact in the append-only orders log.
// Entries are never updated or deleted; corrections are new entries.
type OrderLogEntry struct {
	Item          string    `json:"item" db:"item"`
	ProductNumber string    `json:"product_number" db:"product_number"`
	Qty           int       `json:"qty" db:"qty"`
	OrderedAt     time.Time `json:"ordered_at" db:"ordered_at"`
	Orderer       string    `json:"orderer" db:"orderer"`
}

func (e OrderLogEntry) Key() ItemKey {
	return ItemKey{Item: e.Item, ProductNumber: e.ProductNumber}
}

// OrderLine is a selected quantity of one catalog item, before submission.
type OrderLine struct {
	Item          string `json:"item"`
	ProductNumber string `json:"product_number"`
	Qty           int    `json:"qty"`
}

// SubmittedLine is an order line with its unit price resolved from the
// catalog at submission time. Price never comes from history.
type SubmittedLine struct {
	Item          string  `json:"item"`
	ProductNumber string  `json:"product_number"`
	Qty           int     `json:"qty"`
	UnitPrice     float64 `json:"unit_price"`
}

// Cost is the line's contribution to a notification group subtotal.
func (l SubmittedLine) Cost() float64 {
	return float64(l.Qty) * l.UnitPrice
}

// FreshnessRow is a catalog item joined with its most recent order fact.
// The Last* pointers are nil when the item has never been ordered.
type FreshnessRow struct {
	CatalogItem
	LastOrderedAt *time.Time `json:"last_ordered_at"`
	LastQty       *int       `json:"last_qty"`
	LastOrderer   *string    `json:"last_orderer"`
}
