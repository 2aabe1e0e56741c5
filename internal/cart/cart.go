// internal/cart/cart.go

// Package cart implements the client cart as a plain in-memory store.
// A Store is explicitly constructed and owned by whoever drives it; it
// performs no I/O of its own. The host persists Lines() after every
// mutation and seeds a restored session through Replace().
package cart

import (
	"github.com/google/uuid"

	"github.com/miastore/storefront/internal/models"
)

// Config carries the pricing knobs the store derives totals from.
type Config struct {
	FreeShippingThreshold float64
	ShippingFee           float64
}

// DefaultConfig matches the storefront's standard shipping policy.
func DefaultConfig() Config {
	return Config{
		FreeShippingThreshold: 100,
		ShippingFee:           10,
	}
}

// Line is one row of the cart. Many lines may reference the same product
// under different variant selections; the line ID is assigned once at
// creation and never reused within a session.
type Line struct {
	ID            string         `json:"id"`
	Product       models.Product `json:"product"`
	Quantity      int            `json:"quantity"`
	SelectedSize  string         `json:"selected_size,omitempty"`
	SelectedColor string         `json:"selected_color,omitempty"`
}

// identityKey decides whether two adds merge into the same line.
type identityKey struct {
	productID string
	size      string
	color     string
}

func (l *Line) key() identityKey {
	return identityKey{
		productID: l.Product.ID.String(),
		size:      l.SelectedSize,
		color:     l.SelectedColor,
	}
}

// Snapshot is the derived view of the cart at a point in time.
type Snapshot struct {
	Lines      []Line  `json:"lines"`
	TotalItems int     `json:"total_items"`
	Subtotal   float64 `json:"subtotal"`
	Shipping   float64 `json:"shipping"`
	Total      float64 `json:"total"`
}

// Store holds the cart lines for a single session. It is not safe for
// concurrent use; a session's operations run on one goroutine at a time.
type Store struct {
	cfg   Config
	lines []Line
}

func NewStore(cfg Config) *Store {
	return &Store{cfg: cfg, lines: []Line{}}
}

// AddItem merges into the line with the same (product, size, color) identity
// when one exists, otherwise appends a new line. Quantities <= 0 are ignored.
func (s *Store) AddItem(product models.Product, quantity int, selectedSize, selectedColor string) {
	if quantity <= 0 {
		return
	}

	key := identityKey{productID: product.ID.String(), size: selectedSize, color: selectedColor}
	for i := range s.lines {
		if s.lines[i].key() == key {
			s.lines[i].Quantity += quantity
			return
		}
	}

	s.lines = append(s.lines, Line{
		ID:            uuid.NewString(),
		Product:       product,
		Quantity:      quantity,
		SelectedSize:  selectedSize,
		SelectedColor: selectedColor,
	})
}

// RemoveItem deletes the line with the given ID. Unknown IDs are a no-op.
func (s *Store) RemoveItem(lineID string) {
	for i := range s.lines {
		if s.lines[i].ID == lineID {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
			return
		}
	}
}

// UpdateQuantity replaces the line's quantity. A quantity <= 0 removes the
// line; there is no quantity-zero resting state. Unknown IDs are a no-op.
func (s *Store) UpdateQuantity(lineID string, quantity int) {
	if quantity <= 0 {
		s.RemoveItem(lineID)
		return
	}
	for i := range s.lines {
		if s.lines[i].ID == lineID {
			s.lines[i].Quantity = quantity
			return
		}
	}
}

// UpdateVariants changes the selected size and/or color of a line. Passing
// nil leaves a field untouched. When the new identity collides with another
// existing line the two merge (quantities summed) and the updated line keeps
// its ID, so the one-line-per-identity invariant holds across variant edits.
func (s *Store) UpdateVariants(lineID string, selectedSize, selectedColor *string) {
	idx := -1
	for i := range s.lines {
		if s.lines[i].ID == lineID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return
	}

	line := s.lines[idx]
	if selectedSize != nil {
		line.SelectedSize = *selectedSize
	}
	if selectedColor != nil {
		line.SelectedColor = *selectedColor
	}

	for i := range s.lines {
		if i != idx && s.lines[i].key() == line.key() {
			line.Quantity += s.lines[i].Quantity
			s.lines[idx] = line
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
			return
		}
	}
	s.lines[idx] = line
}

// ClearCart empties all lines unconditionally.
func (s *Store) ClearCart() {
	s.lines = []Line{}
}

// ItemQuantity returns the quantity held for a product, matching on product
// ID alone. Variant selections are deliberately ignored here: when a product
// sits in the cart under several size/color lines the first line's quantity
// is returned, mirroring the storefront's existing lookup behavior.
func (s *Store) ItemQuantity(productID string) int {
	for i := range s.lines {
		if s.lines[i].Product.ID.String() == productID {
			return s.lines[i].Quantity
		}
	}
	return 0
}

// TotalItems is the sum of quantities across all lines.
func (s *Store) TotalItems() int {
	total := 0
	for i := range s.lines {
		total += s.lines[i].Quantity
	}
	return total
}

// Subtotal sums effective price times quantity over all lines.
func (s *Store) Subtotal() float64 {
	subtotal := 0.0
	for i := range s.lines {
		subtotal += s.lines[i].Product.EffectivePrice() * float64(s.lines[i].Quantity)
	}
	return subtotal
}

// Shipping is zero once the subtotal reaches the free-shipping threshold,
// inclusive, else the flat fee.
func (s *Store) Shipping() float64 {
	if s.Subtotal() >= s.cfg.FreeShippingThreshold {
		return 0
	}
	return s.cfg.ShippingFee
}

func (s *Store) Total() float64 {
	return s.Subtotal() + s.Shipping()
}

// Lines returns a copy of the full line list as plain serializable data for
// the persistence collaborator.
func (s *Store) Lines() []Line {
	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

// Replace swaps in a previously persisted line list, dropping lines with
// non-positive quantities so a corrupt snapshot cannot resurrect them.
func (s *Store) Replace(lines []Line) {
	s.lines = make([]Line, 0, len(lines))
	for _, line := range lines {
		if line.Quantity > 0 {
			s.lines = append(s.lines, line)
		}
	}
}

// Snapshot derives the full cart view in one call.
func (s *Store) Snapshot() Snapshot {
	return Snapshot{
		Lines:      s.Lines(),
		TotalItems: s.TotalItems(),
		Subtotal:   s.Subtotal(),
		Shipping:   s.Shipping(),
		Total:      s.Total(),
	}
}
