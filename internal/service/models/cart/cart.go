package cart

import (
	"errors"

	"github.com/entrega-app/entrega/internal/service/models/catalogitem"
)

var ErrInvalidQuantity = errors.New("quantity must be a positive integer")

// LineItem is one catalog item plus a quantity. Quantity is always >= 1; a
// quantity reduced to zero removes the line instead of keeping it.
type LineItem struct {
	Item     catalogitem.CatalogItem `json:"item"`
	Quantity int                     `json:"quantity"`
}

// Cart is an ordered sequence of line items, unique by catalog item ID.
// Adding an item that is already present increments its quantity rather than
// appending a second line. Subtotal and count are recomputed on every read.
//
// Cart itself is not safe for concurrent use; cartsvc serializes mutation per
// session.
type Cart struct {
	lines []LineItem
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{}
}

// AddItem adds quantity units of item, merging into an existing line for the
// same catalog item. Non-positive quantities are rejected, not clamped.
func (c *Cart) AddItem(item catalogitem.CatalogItem, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	for i := range c.lines {
		if c.lines[i].Item.ID == item.ID {
			c.lines[i].Quantity += quantity

			return nil
		}
	}

	c.lines = append(c.lines, LineItem{Item: item, Quantity: quantity})

	return nil
}

// UpdateQuantity replaces the quantity of the line for itemID. A quantity of
// zero or below behaves exactly as RemoveItem. Unknown itemID is a no-op.
func (c *Cart) UpdateQuantity(itemID int64, quantity int) {
	if quantity <= 0 {
		c.RemoveItem(itemID)

		return
	}

	for i := range c.lines {
		if c.lines[i].Item.ID == itemID {
			c.lines[i].Quantity = quantity

			return
		}
	}
}

// RemoveItem deletes the line for itemID; absent lines are a no-op.
func (c *Cart) RemoveItem(itemID int64) {
	for i := range c.lines {
		if c.lines[i].Item.ID == itemID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)

			return
		}
	}
}

// Clear empties the cart unconditionally.
func (c *Cart) Clear() {
	c.lines = nil
}

// RemoveLines subtracts a previously taken snapshot from the cart. Lines
// whose quantity drops to zero or below are removed; quantity added after the
// snapshot was taken survives.
func (c *Cart) RemoveLines(lines []LineItem) {
	for _, line := range lines {
		for i := range c.lines {
			if c.lines[i].Item.ID == line.Item.ID {
				c.lines[i].Quantity -= line.Quantity

				break
			}
		}
	}

	kept := c.lines[:0]
	for _, line := range c.lines {
		if line.Quantity > 0 {
			kept = append(kept, line)
		}
	}
	if len(kept) == 0 {
		c.lines = nil

		return
	}
	c.lines = kept
}

// SubtotalCents is the exact sum of unit price times quantity over all lines.
func (c *Cart) SubtotalCents() int64 {
	var sum int64
	for _, line := range c.lines {
		sum += line.Item.PriceCents * int64(line.Quantity)
	}

	return sum
}

// Count is the total number of units across all lines.
func (c *Cart) Count() int {
	var n int
	for _, line := range c.lines {
		n += line.Quantity
	}

	return n
}

// Empty reports whether the cart has no lines.
func (c *Cart) Empty() bool {
	return len(c.lines) == 0
}

// Lines returns a copy of the current lines in insertion order. Mutating the
// returned slice does not affect the cart.
func (c *Cart) Lines() []LineItem {
	out := make([]LineItem, len(c.lines))
	copy(out, c.lines)

	return out
}
