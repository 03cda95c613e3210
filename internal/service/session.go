package service

import (
	"fmt"
	"sync"

	"github.com/yelrambob/supply-QR/models"
)

// OrderSession is the transient, per-interaction accumulation of selected
// quantities before submission. It is never persisted: it starts empty,
// collects quantities while the user composes an order, and is cleared
// after a successful submit or an explicit clear.
//
// A quantity of zero means "not selected"; the entry may stay in the map
// but is filtered from every downstream view.
type OrderSession struct {
	mu      sync.Mutex
	orderer string
	qty     map[string]int
}

func NewOrderSession() *OrderSession {
	return &OrderSession{qty: make(map[string]int)}
}

// SetOrderer records the identity the submission will be attributed to.
func (s *OrderSession) SetOrderer(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orderer = name
}

// Orderer returns the selected orderer identity.
func (s *OrderSession) Orderer() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orderer
}

// SetQty overwrites the requested quantity for a product number. Negative
// quantities are rejected.
func (s *OrderSession) SetQty(productNumber string, qty int) error {
	if qty < 0 {
		return fmt.Errorf("quantity for %s cannot be negative", productNumber)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.qty[productNumber] = qty
	return nil
}

// Qty returns the requested quantity for a product number, zero when unset.
func (s *OrderSession) Qty(productNumber string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.qty[productNumber]
}

// SelectedLines resolves the session against the current catalog, in
// catalog order. Entries with qty <= 0 are filtered; product numbers no
// longer in the catalog are silently dropped, the catalog is authoritative.
func (s *OrderSession) SelectedLines(catalog []models.CatalogItem) []models.OrderLine {
	s.mu.Lock()
	defer s.mu.Unlock()

	var lines []models.OrderLine
	seen := make(map[string]struct{}, len(catalog))
	for _, item := range catalog {
		if _, dup := seen[item.ProductNumber]; dup {
			continue
		}
		seen[item.ProductNumber] = struct{}{}

		if qty := s.qty[item.ProductNumber]; qty > 0 {
			lines = append(lines, models.OrderLine{
				Item:          item.Item,
				ProductNumber: item.ProductNumber,
				Qty:           qty,
			})
		}
	}
	return lines
}

// Composing reports whether at least one positive quantity is selected.
func (s *OrderSession) Composing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, qty := range s.qty {
		if qty > 0 {
			return true
		}
	}
	return false
}

// Clear resets the selection to empty. The session is re-enterable; the
// orderer identity is kept for the next order.
func (s *OrderSession) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.qty = make(map[string]int)
}
