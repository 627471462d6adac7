package cart_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/sabordecasa/api/internal/cart"
)

func alwaysOpen() bool { return true }
func closed() bool     { return false }

func marmitaP() cart.ProductSnapshot {
	return cart.ProductSnapshot{ID: uuid.New(), Name: "Marmita P", PriceCents: 2500}
}

func TestAdd_NewLine(t *testing.T) {
	c := cart.Load(cart.NewMemStorage(), alwaysOpen)

	item, err := c.Add(marmitaP(), 2, []cart.Option{{Name: "Ovo frito", PriceDeltaCents: 300}})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	if item.UnitPriceCents != 2800 {
		t.Errorf("unit price: got %d, want 2800", item.UnitPriceCents)
	}
	if got := c.SubtotalCents(); got != 5600 {
		t.Errorf("subtotal: got %d, want 5600", got)
	}
}

func TestAdd_MergesSameProductAndOptions(t *testing.T) {
	c := cart.Load(cart.NewMemStorage(), alwaysOpen)
	p := marmitaP()

	first, err := c.Add(p, 1, []cart.Option{
		{Name: "Ovo frito", PriceDeltaCents: 300},
		{Name: "Sem arroz", PriceDeltaCents: 0},
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	// Same add-ons in the opposite click order still merge.
	second, err := c.Add(p, 2, []cart.Option{
		{Name: "Sem arroz", PriceDeltaCents: 0},
		{Name: "Ovo frito", PriceDeltaCents: 300},
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	if second.LineID != first.LineID {
		t.Error("expected the lines to merge")
	}
	if second.Quantity != 3 {
		t.Errorf("quantity: got %d, want 3", second.Quantity)
	}
	if len(c.Items()) != 1 {
		t.Errorf("lines: got %d, want 1", len(c.Items()))
	}
}

func TestAdd_DifferentOptionsStaySeparate(t *testing.T) {
	c := cart.Load(cart.NewMemStorage(), alwaysOpen)
	p := marmitaP()

	if _, err := c.Add(p, 1, nil); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := c.Add(p, 1, []cart.Option{{Name: "Ovo frito", PriceDeltaCents: 300}}); err != nil {
		t.Fatalf("add: %v", err)
	}

	if len(c.Items()) != 2 {
		t.Errorf("lines: got %d, want 2", len(c.Items()))
	}
}

func TestAdd_RejectedWhileClosed(t *testing.T) {
	c := cart.Load(cart.NewMemStorage(), closed)

	_, err := c.Add(marmitaP(), 1, nil)
	if !errors.Is(err, cart.ErrStoreClosed) {
		t.Errorf("err: got %v, want ErrStoreClosed", err)
	}
}

func TestAdd_RejectsZeroQuantity(t *testing.T) {
	c := cart.Load(cart.NewMemStorage(), alwaysOpen)

	_, err := c.Add(marmitaP(), 0, nil)
	if !errors.Is(err, cart.ErrInvalidQuantity) {
		t.Errorf("err: got %v, want ErrInvalidQuantity", err)
	}
}

func TestUpdateQuantity_ClampsAtOne(t *testing.T) {
	c := cart.Load(cart.NewMemStorage(), alwaysOpen)
	item, err := c.Add(marmitaP(), 2, nil)
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	got, err := c.UpdateQuantity(item.LineID, -5)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Quantity != 1 {
		t.Errorf("quantity: got %d, want 1", got.Quantity)
	}
}

func TestUpdateQuantity_IncreaseRejectedWhileClosed(t *testing.T) {
	storage := cart.NewMemStorage()
	c := cart.Load(storage, alwaysOpen)
	item, err := c.Add(marmitaP(), 2, nil)
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	// Reopen the snapshot with the store closed.
	c = cart.Load(storage, closed)

	if _, err := c.UpdateQuantity(item.LineID, 1); !errors.Is(err, cart.ErrStoreClosed) {
		t.Errorf("increase: got %v, want ErrStoreClosed", err)
	}

	// Decreases and removals stay allowed.
	got, err := c.UpdateQuantity(item.LineID, -1)
	if err != nil {
		t.Fatalf("decrease: %v", err)
	}
	if got.Quantity != 1 {
		t.Errorf("quantity: got %d, want 1", got.Quantity)
	}
	if err := c.Remove(item.LineID); err != nil {
		t.Fatalf("remove: %v", err)
	}
}

func TestUpdateQuantity_UnknownLine(t *testing.T) {
	c := cart.Load(cart.NewMemStorage(), alwaysOpen)

	if _, err := c.UpdateQuantity("nope", 1); !errors.Is(err, cart.ErrLineNotFound) {
		t.Errorf("err: got %v, want ErrLineNotFound", err)
	}
}

func TestLoad_RehydratesIdenticalCart(t *testing.T) {
	storage := cart.NewMemStorage()
	c := cart.Load(storage, alwaysOpen)

	if _, err := c.Add(marmitaP(), 2, []cart.Option{{Name: "Ovo frito", PriceDeltaCents: 300}}); err != nil {
		t.Fatalf("add: %v", err)
	}
	want := c.Items()

	reloaded := cart.Load(storage, alwaysOpen)
	got := reloaded.Items()

	if len(got) != len(want) {
		t.Fatalf("lines: got %d, want %d", len(got), len(want))
	}
	if got[0].LineID != want[0].LineID || got[0].Quantity != want[0].Quantity || got[0].UnitPriceCents != want[0].UnitPriceCents {
		t.Errorf("line: got %+v, want %+v", got[0], want[0])
	}
}

func TestLoad_CorruptSnapshotYieldsEmptyCart(t *testing.T) {
	storage := cart.NewMemStorage()
	if err := storage.Save("cart", []byte("{not json")); err != nil {
		t.Fatalf("save: %v", err)
	}

	c := cart.Load(storage, alwaysOpen)
	if len(c.Items()) != 0 {
		t.Errorf("lines: got %d, want 0", len(c.Items()))
	}
}

func TestClear(t *testing.T) {
	storage := cart.NewMemStorage()
	c := cart.Load(storage, alwaysOpen)

	if _, err := c.Add(marmitaP(), 1, nil); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := c.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}

	if len(c.Items()) != 0 {
		t.Errorf("lines: got %d, want 0", len(c.Items()))
	}
	if _, ok, _ := storage.Load("cart"); ok {
		t.Error("storage should have no cart snapshot after Clear")
	}
}

func TestFileStorage_RoundTrip(t *testing.T) {
	storage, err := cart.NewFileStorage(t.TempDir())
	if err != nil {
		t.Fatalf("new storage: %v", err)
	}

	if _, ok, err := storage.Load("cart"); err != nil || ok {
		t.Fatalf("missing key: got ok=%v err=%v, want absent", ok, err)
	}

	want, _ := json.Marshal([]string{"a", "b"})
	if err := storage.Save("cart", want); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, ok, err := storage.Load("cart")
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if string(got) != string(want) {
		t.Errorf("data: got %s, want %s", got, want)
	}

	if err := storage.Delete("cart"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := storage.Delete("cart"); err != nil {
		t.Errorf("double delete should be a no-op, got %v", err)
	}
}
