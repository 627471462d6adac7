// Package cart is the storefront's cart engine: an ordered list of
// line items persisted to client-local storage after every mutation,
// so a reload rehydrates an identical cart.
package cart

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
)

const cartKey = "cart"

var (
	// ErrStoreClosed gates additions and quantity increases while the
	// store is not accepting orders.
	ErrStoreClosed = errors.New("store is closed")

	ErrLineNotFound    = errors.New("cart line not found")
	ErrInvalidQuantity = errors.New("quantity must be > 0")
)

// ProductSnapshot is the slice of a product the cart keeps. The
// storefront re-validates against the live menu at checkout.
type ProductSnapshot struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	PriceCents int64     `json:"price_cents"`
}

// Option is a selected add-on.
type Option struct {
	Name            string `json:"name"`
	PriceDeltaCents int64  `json:"price_delta_cents"`
}

// Item is one cart line. UnitPriceCents = product price + sum of
// option deltas, fixed when the line is created.
type Item struct {
	LineID         string    `json:"line_id"`
	ProductID      uuid.UUID `json:"product_id"`
	ProductName    string    `json:"product_name"`
	Options        []Option  `json:"options,omitempty"`
	Quantity       int32     `json:"quantity"`
	UnitPriceCents int64     `json:"unit_price_cents"`
}

// mergeKey identifies a line by product + option set. Option order is
// irrelevant: the same add-ons clicked in a different order still merge.
func mergeKey(productID uuid.UUID, opts []Option) string {
	names := make([]string, len(opts))
	for i, o := range opts {
		names[i] = o.Name
	}
	sort.Strings(names)
	key := productID.String()
	for _, n := range names {
		key += "|" + n
	}
	return key
}

// Cart mutates in memory and writes through to Storage on every change.
type Cart struct {
	storage Storage
	isOpen  func() bool
	items   []Item
}

// Load rehydrates the cart from storage. A missing or corrupt snapshot
// yields an empty cart rather than an error: losing the cart beats
// locking the customer out.
func Load(storage Storage, isOpen func() bool) *Cart {
	c := &Cart{storage: storage, isOpen: isOpen}
	data, ok, err := storage.Load(cartKey)
	if err != nil || !ok {
		return c
	}
	if err := json.Unmarshal(data, &c.items); err != nil {
		c.items = nil
	}
	return c
}

// Items returns a copy of the current lines.
func (c *Cart) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// SubtotalCents is sum(quantity * unit price) over all lines.
func (c *Cart) SubtotalCents() int64 {
	var total int64
	for _, it := range c.items {
		total += int64(it.Quantity) * it.UnitPriceCents
	}
	return total
}

// Add appends a line, or increments quantity when a line with the same
// product and option set already exists. Rejected while the store is
// closed.
func (c *Cart) Add(p ProductSnapshot, quantity int32, opts []Option) (Item, error) {
	if !c.isOpen() {
		return Item{}, ErrStoreClosed
	}
	if quantity <= 0 {
		return Item{}, ErrInvalidQuantity
	}

	key := mergeKey(p.ID, opts)
	for i, it := range c.items {
		if mergeKey(it.ProductID, it.Options) == key {
			c.items[i].Quantity += quantity
			if err := c.persist(); err != nil {
				return Item{}, err
			}
			return c.items[i], nil
		}
	}

	unitPrice := p.PriceCents
	for _, o := range opts {
		unitPrice += o.PriceDeltaCents
	}
	item := Item{
		LineID:         uuid.NewString(),
		ProductID:      p.ID,
		ProductName:    p.Name,
		Options:        opts,
		Quantity:       quantity,
		UnitPriceCents: unitPrice,
	}
	c.items = append(c.items, item)
	if err := c.persist(); err != nil {
		return Item{}, err
	}
	return item, nil
}

// UpdateQuantity applies a delta, clamping at 1; use Remove to drop a
// line. Increases are rejected while the store is closed.
func (c *Cart) UpdateQuantity(lineID string, delta int32) (Item, error) {
	if delta > 0 && !c.isOpen() {
		return Item{}, ErrStoreClosed
	}
	for i, it := range c.items {
		if it.LineID == lineID {
			q := it.Quantity + delta
			if q < 1 {
				q = 1
			}
			c.items[i].Quantity = q
			if err := c.persist(); err != nil {
				return Item{}, err
			}
			return c.items[i], nil
		}
	}
	return Item{}, ErrLineNotFound
}

// Remove deletes a line. Always permitted, open or closed.
func (c *Cart) Remove(lineID string) error {
	for i, it := range c.items {
		if it.LineID == lineID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return c.persist()
		}
	}
	return ErrLineNotFound
}

// Clear empties the cart. Confirmation is the caller's job.
func (c *Cart) Clear() error {
	c.items = nil
	return c.storage.Delete(cartKey)
}

func (c *Cart) persist() error {
	data, err := json.Marshal(c.items)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}
	return c.storage.Save(cartKey, data)
}
