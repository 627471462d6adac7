package cart_test

import (
	"testing"

	"github.com/sabordecasa/api/internal/cart"
)

func TestPreferredPayment_RoundTrip(t *testing.T) {
	storage := cart.NewMemStorage()

	if _, ok, err := cart.LoadPreferredPayment(storage); err != nil || ok {
		t.Fatalf("empty storage: got ok=%v err=%v, want absent", ok, err)
	}

	if err := cart.SavePreferredPayment(storage, "pix"); err != nil {
		t.Fatalf("save: %v", err)
	}

	method, ok, err := cart.LoadPreferredPayment(storage)
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if method != "pix" {
		t.Errorf("method: got %q, want pix", method)
	}
}

func TestCompleteCheckout_SavesDefaultsAndClearsCart(t *testing.T) {
	storage := cart.NewMemStorage()
	c := cart.Load(storage, alwaysOpen)
	book := cart.LoadAddressBook(storage)

	if _, err := c.Add(marmitaP(), 2, nil); err != nil {
		t.Fatalf("add: %v", err)
	}

	addr := cart.Address{
		Label:        "Casa",
		Street:       "Rua das Laranjeiras",
		Number:       "123",
		Neighborhood: "Centro",
		City:         "Sao Paulo",
	}
	if err := c.CompleteCheckout(book, addr, "dinheiro", "A1B2C3D4"); err != nil {
		t.Fatalf("complete checkout: %v", err)
	}

	if len(c.Items()) != 0 {
		t.Errorf("cart lines after checkout: got %d, want 0", len(c.Items()))
	}

	method, ok, err := cart.LoadPreferredPayment(storage)
	if err != nil || !ok || method != "dinheiro" {
		t.Errorf("preferred payment: got %q ok=%v err=%v, want dinheiro", method, ok, err)
	}

	def, ok := book.Default()
	if !ok || def.Label != "Casa" {
		t.Errorf("default address: got %+v, want Casa", def)
	}

	last, ok, err := cart.LoadLastOrder(storage)
	if err != nil || !ok {
		t.Fatalf("last order: ok=%v err=%v", ok, err)
	}
	if last.ShortID != "A1B2C3D4" {
		t.Errorf("short id: got %q, want A1B2C3D4", last.ShortID)
	}
	if len(last.Items) != 1 || last.Items[0].Quantity != 2 {
		t.Errorf("remembered items: got %+v, want the checked-out lines", last.Items)
	}
}

func TestCompleteCheckout_PromotesExistingAddress(t *testing.T) {
	storage := cart.NewMemStorage()
	c := cart.Load(storage, alwaysOpen)
	book := cart.LoadAddressBook(storage)

	first, err := book.Add(cart.Address{Label: "Casa", Street: "Rua A", Number: "1"})
	if err != nil {
		t.Fatalf("add address: %v", err)
	}
	second, err := book.Add(cart.Address{Label: "Trabalho", Street: "Rua B", Number: "2"})
	if err != nil {
		t.Fatalf("add address: %v", err)
	}

	if _, err := c.Add(marmitaP(), 1, nil); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := c.CompleteCheckout(book, second, "pix", "B2C3D4E5"); err != nil {
		t.Fatalf("complete checkout: %v", err)
	}

	def, ok := book.Default()
	if !ok || def.ID != second.ID {
		t.Errorf("default: got %+v, want %s", def, second.ID)
	}
	if def.ID == first.ID {
		t.Error("checkout with the second address should move the default")
	}
}

func TestCompleteCheckout_PickupSkipsAddressBook(t *testing.T) {
	storage := cart.NewMemStorage()
	c := cart.Load(storage, alwaysOpen)
	book := cart.LoadAddressBook(storage)

	if _, err := c.Add(marmitaP(), 1, nil); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := c.CompleteCheckout(book, cart.Address{}, "cartao", "C3D4E5F6"); err != nil {
		t.Fatalf("complete checkout: %v", err)
	}

	if len(book.Addresses()) != 0 {
		t.Errorf("addresses after pickup checkout: got %d, want 0", len(book.Addresses()))
	}
	if method, ok, _ := cart.LoadPreferredPayment(storage); !ok || method != "cartao" {
		t.Errorf("preferred payment: got %q ok=%v, want cartao", method, ok)
	}
}

func TestLoadLastOrder_CorruptDataIgnored(t *testing.T) {
	storage := cart.NewMemStorage()
	if err := storage.Save("last_order", []byte("{oops")); err != nil {
		t.Fatalf("save: %v", err)
	}

	_, ok, err := cart.LoadLastOrder(storage)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if ok {
		t.Error("corrupt last order should read as absent")
	}
}
