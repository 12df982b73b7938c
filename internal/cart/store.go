// Package cart holds the in-progress order: selected catalog items with
// quantities clamped to the stock seen at add time.
package cart

import (
	"sync"

	"medisupply/mobile/internal/config"
	"medisupply/mobile/internal/domain"
)

// Line is one selected item. UnitPrice and Stock are snapshots taken when the
// item was first added; Stock is the ceiling every quantity change clamps to.
type Line struct {
	ItemID    string
	SKU       string
	Name      string
	UnitPrice float64
	Stock     int
	Quantity  int
}

// Totals are derived on read, never stored.
type Totals struct {
	Items    int
	Subtotal float64
	Shipping float64
	Total    float64
}

// Store owns the cart lines. Every line satisfies 1 <= Quantity <= Stock; a
// quantity driven to zero removes the line.
type Store struct {
	mu     sync.Mutex
	config config.CartConfig
	lines  []Line
}

func NewStore(cfg config.CartConfig) *Store {
	return &Store{config: cfg}
}

// AddItem puts quantity units of the item in the cart. Repeated adds of the
// same item coalesce into one line with the quantities summed, then clamped
// to the stock recorded when the line was created. Items with no available
// stock are ignored.
func (s *Store) AddItem(item domain.CatalogItem, quantity int) {
	if quantity < 1 {
		quantity = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.lines {
		if s.lines[i].ItemID == item.ID {
			s.lines[i].Quantity = clamp(s.lines[i].Quantity+quantity, s.lines[i].Stock)
			return
		}
	}

	stock := item.Stock()
	if stock < 1 {
		return
	}
	s.lines = append(s.lines, Line{
		ItemID:    item.ID,
		SKU:       item.Code,
		Name:      item.Name,
		UnitPrice: item.UnitPrice,
		Stock:     stock,
		Quantity:  clamp(quantity, stock),
	})
}

// UpdateQuantity sets the quantity for a line. Zero or negative removes the
// line; anything else is clamped to [1, stock].
func (s *Store) UpdateQuantity(itemID string, quantity int) {
	if quantity <= 0 {
		s.RemoveItem(itemID)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.lines {
		if s.lines[i].ItemID == itemID {
			s.lines[i].Quantity = clamp(quantity, s.lines[i].Stock)
			return
		}
	}
}

func (s *Store) RemoveItem(itemID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.lines {
		if s.lines[i].ItemID == itemID {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
			return
		}
	}
}

func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = nil
}

// Lines returns a copy of the cart contents in insertion order.
func (s *Store) Lines() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

// Quantity returns the selected quantity for an item, zero when absent.
func (s *Store) Quantity(itemID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.lines {
		if s.lines[i].ItemID == itemID {
			return s.lines[i].Quantity
		}
	}
	return 0
}

// Totals computes item count, subtotal, shipping and total. Shipping is a
// flat fee charged on any subtotal above the configured threshold, so with
// the default threshold of zero every non-empty cart pays it.
func (s *Store) Totals() Totals {
	s.mu.Lock()
	defer s.mu.Unlock()

	var t Totals
	for i := range s.lines {
		t.Items += s.lines[i].Quantity
		t.Subtotal += s.lines[i].UnitPrice * float64(s.lines[i].Quantity)
	}
	if t.Subtotal > s.config.ShippingFeeThreshold {
		t.Shipping = s.config.ShippingFee
	}
	t.Total = t.Subtotal + t.Shipping
	return t
}

func clamp(quantity, stock int) int {
	if quantity > stock {
		return stock
	}
	if quantity < 1 {
		return 1
	}
	return quantity
}
