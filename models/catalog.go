package models

// CatalogItem is one orderable supply in the catalog. Fields arrive from a
// loose CSV and are normalized once at the repository boundary: numeric
// columns that are missing or unparseable fall back to their defaults
// (multiplier/items_per_order 1, current_qty 0, price 0, sort_order = row
// position) instead of erroring.
type CatalogItem struct {
	Item          string  `json:"item" db:"item"`
	ProductNumber string  `json:"product_number" db:"product_number"`
	Multiplier    int     `json:"multiplier" db:"multiplier"`
	ItemsPerOrder int     `json:"items_per_order" db:"items_per_order"`
	CurrentQty    int     `json:"current_qty" db:"current_qty"`
	SortOrder     int     `json:"sort_order" db:"sort_order"`
	Price         float64 `json:"price" db:"price"`
}

// ItemKey is the composite identity of a catalog item. The same product
// number can appear under different display names, so both parts count.
type ItemKey struct {
	Item          string `json:"item"`
	ProductNumber string `json:"product_number"`
}

func (c CatalogItem) Key() ItemKey {
	return ItemKey{Item: c.Item, ProductNumber: c.ProductNumber}
}
