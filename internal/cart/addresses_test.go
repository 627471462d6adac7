package cart_test

import (
	"errors"
	"testing"

	"github.com/sabordecasa/api/internal/cart"
)

func centroAddr() cart.Address {
	return cart.Address{
		Label:        "Casa",
		Street:       "Rua das Laranjeiras",
		Number:       "123",
		Neighborhood: "Centro",
		City:         "Sao Paulo",
	}
}

func countDefaults(addrs []cart.Address) int {
	n := 0
	for _, a := range addrs {
		if a.IsDefault {
			n++
		}
	}
	return n
}

func TestAddressBook_FirstAddressBecomesDefault(t *testing.T) {
	book := cart.LoadAddressBook(cart.NewMemStorage())

	added, err := book.Add(centroAddr())
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if !added.IsDefault {
		t.Error("first address should be the default")
	}
	if added.ID == "" {
		t.Error("added address should get an ID")
	}
}

func TestAddressBook_AddingDefaultDemotesCurrent(t *testing.T) {
	book := cart.LoadAddressBook(cart.NewMemStorage())

	first, err := book.Add(centroAddr())
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	second := centroAddr()
	second.Label = "Trabalho"
	second.IsDefault = true
	if _, err := book.Add(second); err != nil {
		t.Fatalf("add: %v", err)
	}

	addrs := book.Addresses()
	if countDefaults(addrs) != 1 {
		t.Fatalf("defaults: got %d, want exactly 1", countDefaults(addrs))
	}
	def, ok := book.Default()
	if !ok || def.Label != "Trabalho" {
		t.Errorf("default: got %+v, want Trabalho", def)
	}
	if def.ID == first.ID {
		t.Error("default should have moved off the first address")
	}
}

func TestAddressBook_SetDefaultMovesFlag(t *testing.T) {
	book := cart.LoadAddressBook(cart.NewMemStorage())

	if _, err := book.Add(centroAddr()); err != nil {
		t.Fatalf("add: %v", err)
	}
	second := centroAddr()
	second.Label = "Trabalho"
	added, err := book.Add(second)
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	if err := book.SetDefault(added.ID); err != nil {
		t.Fatalf("set default: %v", err)
	}

	def, ok := book.Default()
	if !ok || def.ID != added.ID {
		t.Errorf("default: got %+v, want %s", def, added.ID)
	}
	if countDefaults(book.Addresses()) != 1 {
		t.Errorf("defaults: got %d, want exactly 1", countDefaults(book.Addresses()))
	}
}

func TestAddressBook_RemovingDefaultPromotesAnother(t *testing.T) {
	book := cart.LoadAddressBook(cart.NewMemStorage())

	first, err := book.Add(centroAddr())
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	second := centroAddr()
	second.Label = "Trabalho"
	if _, err := book.Add(second); err != nil {
		t.Fatalf("add: %v", err)
	}

	if err := book.Remove(first.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}

	addrs := book.Addresses()
	if len(addrs) != 1 {
		t.Fatalf("addresses: got %d, want 1", len(addrs))
	}
	if !addrs[0].IsDefault {
		t.Error("remaining address should have been promoted to default")
	}
}

func TestAddressBook_RemovingNonDefaultKeepsDefault(t *testing.T) {
	book := cart.LoadAddressBook(cart.NewMemStorage())

	first, err := book.Add(centroAddr())
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	second := centroAddr()
	second.Label = "Trabalho"
	added, err := book.Add(second)
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	if err := book.Remove(added.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}

	def, ok := book.Default()
	if !ok || def.ID != first.ID {
		t.Errorf("default: got %+v, want %s", def, first.ID)
	}
}

func TestAddressBook_RemoveLastLeavesEmptyBook(t *testing.T) {
	book := cart.LoadAddressBook(cart.NewMemStorage())

	added, err := book.Add(centroAddr())
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := book.Remove(added.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}

	if len(book.Addresses()) != 0 {
		t.Errorf("addresses: got %d, want 0", len(book.Addresses()))
	}
	if _, ok := book.Default(); ok {
		t.Error("empty book should have no default")
	}
}

func TestAddressBook_UpdateCannotUnmarkDefault(t *testing.T) {
	book := cart.LoadAddressBook(cart.NewMemStorage())

	added, err := book.Add(centroAddr())
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	changed := added
	changed.Label = "Casa nova"
	changed.IsDefault = false
	updated, err := book.Update(changed)
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if !updated.IsDefault {
		t.Error("sole address should stay default through an update")
	}
	if updated.Label != "Casa nova" {
		t.Errorf("label: got %q, want Casa nova", updated.Label)
	}
}

func TestAddressBook_UnknownID(t *testing.T) {
	book := cart.LoadAddressBook(cart.NewMemStorage())

	if err := book.SetDefault("nope"); !errors.Is(err, cart.ErrAddressNotFound) {
		t.Errorf("set default: got %v, want ErrAddressNotFound", err)
	}
	if err := book.Remove("nope"); !errors.Is(err, cart.ErrAddressNotFound) {
		t.Errorf("remove: got %v, want ErrAddressNotFound", err)
	}
	if _, err := book.Update(cart.Address{ID: "nope"}); !errors.Is(err, cart.ErrAddressNotFound) {
		t.Errorf("update: got %v, want ErrAddressNotFound", err)
	}
}

func TestAddressBook_Rehydrates(t *testing.T) {
	storage := cart.NewMemStorage()
	book := cart.LoadAddressBook(storage)

	if _, err := book.Add(centroAddr()); err != nil {
		t.Fatalf("add: %v", err)
	}

	reloaded := cart.LoadAddressBook(storage)
	addrs := reloaded.Addresses()
	if len(addrs) != 1 || !addrs[0].IsDefault {
		t.Errorf("reloaded: got %+v, want one default address", addrs)
	}
}

func TestAddressBook_CorruptSnapshotYieldsEmptyBook(t *testing.T) {
	storage := cart.NewMemStorage()
	if err := storage.Save("addresses", []byte("[broken")); err != nil {
		t.Fatalf("save: %v", err)
	}

	book := cart.LoadAddressBook(storage)
	if len(book.Addresses()) != 0 {
		t.Errorf("addresses: got %d, want 0", len(book.Addresses()))
	}
}
