package cart

import (
	"encoding/json"
	"errors"

	"github.com/google/uuid"
)

const addressesKey = "addresses"

var ErrAddressNotFound = errors.New("address not found")

// Address is a saved delivery address. Exactly one address holds the
// default flag while the book is non-empty.
type Address struct {
	ID           string `json:"id"`
	Label        string `json:"label"`
	Street       string `json:"street"`
	Number       string `json:"number"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	Complement   string `json:"complement,omitempty"`
	IsDefault    bool   `json:"is_default"`
}

// AddressBook is the customer's saved address list, persisted through
// Storage on every mutation like the cart itself.
type AddressBook struct {
	storage   Storage
	addresses []Address
}

// LoadAddressBook rehydrates the book from storage. A missing or
// corrupt snapshot yields an empty book.
func LoadAddressBook(storage Storage) *AddressBook {
	b := &AddressBook{storage: storage}
	data, ok, err := storage.Load(addressesKey)
	if err != nil || !ok {
		return b
	}
	if err := json.Unmarshal(data, &b.addresses); err != nil {
		b.addresses = nil
	}
	return b
}

// Addresses returns a copy of the saved addresses.
func (b *AddressBook) Addresses() []Address {
	out := make([]Address, len(b.addresses))
	copy(out, b.addresses)
	return out
}

// Default returns the current default address, if any.
func (b *AddressBook) Default() (Address, bool) {
	for _, a := range b.addresses {
		if a.IsDefault {
			return a, true
		}
	}
	return Address{}, false
}

// Add saves a new address. The first address always becomes the
// default; a later address marked IsDefault demotes the current one.
func (b *AddressBook) Add(a Address) (Address, error) {
	a.ID = uuid.NewString()
	if len(b.addresses) == 0 {
		a.IsDefault = true
	}
	if a.IsDefault {
		b.demoteAll()
	}
	b.addresses = append(b.addresses, a)
	if err := b.persist(); err != nil {
		return Address{}, err
	}
	return a, nil
}

// Update replaces the address with the same ID. Marking it default
// demotes the others; a default address cannot unmark itself, only
// SetDefault on another address moves the flag.
func (b *AddressBook) Update(a Address) (Address, error) {
	for i, existing := range b.addresses {
		if existing.ID != a.ID {
			continue
		}
		if a.IsDefault {
			b.demoteAll()
		} else {
			a.IsDefault = existing.IsDefault
		}
		b.addresses[i] = a
		if err := b.persist(); err != nil {
			return Address{}, err
		}
		return a, nil
	}
	return Address{}, ErrAddressNotFound
}

// SetDefault moves the default flag to the given address.
func (b *AddressBook) SetDefault(id string) error {
	found := false
	for i := range b.addresses {
		if b.addresses[i].ID == id {
			found = true
		}
	}
	if !found {
		return ErrAddressNotFound
	}
	for i := range b.addresses {
		b.addresses[i].IsDefault = b.addresses[i].ID == id
	}
	return b.persist()
}

// Remove deletes an address. Deleting the default promotes the first
// remaining address so a non-empty book always has one.
func (b *AddressBook) Remove(id string) error {
	for i, a := range b.addresses {
		if a.ID != id {
			continue
		}
		wasDefault := a.IsDefault
		b.addresses = append(b.addresses[:i], b.addresses[i+1:]...)
		if wasDefault && len(b.addresses) > 0 {
			b.addresses[0].IsDefault = true
		}
		return b.persist()
	}
	return ErrAddressNotFound
}

func (b *AddressBook) demoteAll() {
	for i := range b.addresses {
		b.addresses[i].IsDefault = false
	}
}

func (b *AddressBook) persist() error {
	data, err := json.Marshal(b.addresses)
	if err != nil {
		return err
	}
	return b.storage.Save(addressesKey, data)
}
