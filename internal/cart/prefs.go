package cart

import (
	"encoding/json"
	"time"
)

const (
	preferredPaymentKey = "preferred_payment"
	lastOrderKey        = "last_order"
)

type preferredPayment struct {
	Method string `json:"method"`
}

// LoadPreferredPayment reads the payment method remembered from the
// last checkout; ok is false when none is saved.
func LoadPreferredPayment(storage Storage) (string, bool, error) {
	data, ok, err := storage.Load(preferredPaymentKey)
	if err != nil || !ok {
		return "", false, err
	}
	var p preferredPayment
	if err := json.Unmarshal(data, &p); err != nil || p.Method == "" {
		return "", false, nil
	}
	return p.Method, true, nil
}

// SavePreferredPayment persists the payment method for pre-selection
// on the next checkout.
func SavePreferredPayment(storage Storage, method string) error {
	data, err := json.Marshal(preferredPayment{Method: method})
	if err != nil {
		return err
	}
	return storage.Save(preferredPaymentKey, data)
}

// LastOrder is the most recently completed checkout, kept for
// repeat-order flows.
type LastOrder struct {
	ShortID  string    `json:"short_id"`
	Items    []Item    `json:"items"`
	PlacedAt time.Time `json:"placed_at"`
}

// LoadLastOrder reads the remembered order; ok is false when none
// exists or the snapshot is corrupt.
func LoadLastOrder(storage Storage) (LastOrder, bool, error) {
	data, ok, err := storage.Load(lastOrderKey)
	if err != nil || !ok {
		return LastOrder{}, false, err
	}
	var o LastOrder
	if err := json.Unmarshal(data, &o); err != nil {
		return LastOrder{}, false, nil
	}
	return o, true, nil
}

// CompleteCheckout runs the client side of a confirmed order: the
// chosen payment and address become the saved defaults, the cart
// contents are remembered for repeat orders, and the cart empties.
// A zero Address (pickup) leaves the book untouched; an address
// without an ID is saved as new, one with an ID is promoted.
func (c *Cart) CompleteCheckout(book *AddressBook, address Address, paymentMethod, orderShortID string) error {
	data, err := json.Marshal(LastOrder{
		ShortID:  orderShortID,
		Items:    c.Items(),
		PlacedAt: time.Now(),
	})
	if err != nil {
		return err
	}
	if err := c.storage.Save(lastOrderKey, data); err != nil {
		return err
	}

	if err := SavePreferredPayment(c.storage, paymentMethod); err != nil {
		return err
	}

	if address != (Address{}) {
		if address.ID == "" {
			address.IsDefault = true
			if _, err := book.Add(address); err != nil {
				return err
			}
		} else if err := book.SetDefault(address.ID); err != nil {
			return err
		}
	}

	return c.Clear()
}
