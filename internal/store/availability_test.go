package store_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/sabordecasa/api/internal/database"
	"github.com/sabordecasa/api/internal/store"
)

func at(hour, minute int) time.Time {
	return time.Date(2025, 6, 15, hour, minute, 0, 0, time.Local)
}

func TestIsOpen_AutoWindow(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"just before opening", at(17, 59), false},
		{"opening minute", at(18, 0), true},
		{"mid evening", at(21, 30), true},
		{"last minute before midnight", at(23, 59), true},
		{"midnight", at(0, 0), true},
		{"late window edge", at(0, 30), true},
		{"past late window", at(0, 31), false},
		{"midday", at(12, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := store.IsOpen("auto", tt.now); got != tt.want {
				t.Errorf("IsOpen(auto, %s): got %v, want %v", tt.now.Format("15:04"), got, tt.want)
			}
		})
	}
}

func TestIsOpen_Overrides(t *testing.T) {
	midday := at(12, 0)
	evening := at(20, 0)

	if !store.IsOpen("open", midday) {
		t.Error("forced open should win outside the window")
	}
	if store.IsOpen("closed", evening) {
		t.Error("forced closed should win inside the window")
	}
}

func TestIsOpen_UnknownStatusFallsBackToAuto(t *testing.T) {
	if store.IsOpen("banana", at(12, 0)) {
		t.Error("unknown status at midday should be closed")
	}
	if !store.IsOpen("banana", at(20, 0)) {
		t.Error("unknown status in the evening should be open")
	}
}

// --- Monitor ---

type fakeConfigStore struct {
	mu    sync.Mutex
	value string
	err   error
}

func (f *fakeConfigStore) GetConfigValue(_ context.Context, key string) (database.StoreConfig, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return database.StoreConfig{}, f.err
	}
	return database.StoreConfig{Key: key, Value: f.value}, nil
}

func (f *fakeConfigStore) set(value string) {
	f.mu.Lock()
	f.value = value
	f.mu.Unlock()
}

func TestMonitorStatus_DefaultsToAuto(t *testing.T) {
	cfg := &fakeConfigStore{err: pgx.ErrNoRows}
	m := store.NewMonitor(cfg, time.Minute, nil)

	if got := m.Status(context.Background()); got != "auto" {
		t.Errorf("status: got %q, want auto", got)
	}
}

func TestMonitorStatus_IgnoresGarbageValue(t *testing.T) {
	cfg := &fakeConfigStore{value: "maybe"}
	m := store.NewMonitor(cfg, time.Minute, nil)

	if got := m.Status(context.Background()); got != "auto" {
		t.Errorf("status: got %q, want auto", got)
	}
}

func TestMonitor_NotifiesOnTransition(t *testing.T) {
	cfg := &fakeConfigStore{value: "open"}

	var mu sync.Mutex
	var changes []bool
	m := store.NewMonitor(cfg, time.Minute, func(open bool) {
		mu.Lock()
		changes = append(changes, open)
		mu.Unlock()
	})

	ctx := context.Background()

	// First check primes without firing.
	m.Poke(ctx)
	// Same answer, still quiet.
	m.Poke(ctx)

	cfg.set("closed")
	m.Poke(ctx)

	cfg.set("open")
	m.Poke(ctx)

	mu.Lock()
	defer mu.Unlock()
	want := []bool{false, true}
	if len(changes) != len(want) {
		t.Fatalf("changes: got %v, want %v", changes, want)
	}
	for i := range want {
		if changes[i] != want[i] {
			t.Errorf("change %d: got %v, want %v", i, changes[i], want[i])
		}
	}
}
