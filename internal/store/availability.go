// Package store decides whether the restaurant is currently accepting
// orders, combining the manual override persisted in store_config with
// the automatic opening window.
package store

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/sabordecasa/api/internal/database"
	"github.com/sabordecasa/api/internal/enum"
)

// Automatic window: 18:00 through 00:30 the next day, expressed as
// hour*100+minute so the midnight rollover is two plain ranges.
const (
	autoOpenFrom  = 1800
	autoOpenUntil = 2359
	autoLateUntil = 30
)

// IsOpen reports whether the store accepts orders given the override
// status and the wall-clock time. "open" and "closed" win outright;
// "auto" (or anything unrecognized) falls back to the time window.
func IsOpen(status string, now time.Time) bool {
	switch status {
	case enum.StoreStatusOpen:
		return true
	case enum.StoreStatusClosed:
		return false
	}

	hhmm := now.Hour()*100 + now.Minute()
	if hhmm >= autoOpenFrom && hhmm <= autoOpenUntil {
		return true
	}
	return hhmm <= autoLateUntil
}

// ConfigStore reads the persisted override. Satisfied by
// *database.Queries.
type ConfigStore interface {
	GetConfigValue(ctx context.Context, key string) (database.StoreConfig, error)
}

// Monitor polls the override every interval and notifies observers when
// the open/closed answer flips. Observers model the storefront's forced
// navigation (closed while on checkout, reopened while parked on the
// store-info screen).
type Monitor struct {
	store    ConfigStore
	interval time.Duration
	onChange func(open bool)

	mu        sync.Mutex
	lastKnown bool
	primed    bool
}

// NewMonitor creates a Monitor; onChange runs on every transition, on
// the monitor's goroutine.
func NewMonitor(store ConfigStore, interval time.Duration, onChange func(open bool)) *Monitor {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Monitor{store: store, interval: interval, onChange: onChange}
}

// Status fetches the current override, defaulting to auto when the row
// is missing or unreadable.
func (m *Monitor) Status(ctx context.Context) string {
	cfg, err := m.store.GetConfigValue(ctx, enum.StoreStatusKey)
	if err != nil {
		return enum.StoreStatusAuto
	}
	switch cfg.Value {
	case enum.StoreStatusOpen, enum.StoreStatusClosed, enum.StoreStatusAuto:
		return cfg.Value
	}
	return enum.StoreStatusAuto
}

// Open evaluates availability right now.
func (m *Monitor) Open(ctx context.Context) bool {
	return IsOpen(m.Status(ctx), time.Now())
}

// Run re-evaluates on each tick until ctx is cancelled. Should be
// started as a goroutine: go monitor.Run(ctx).
func (m *Monitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.check(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.check(ctx)
		}
	}
}

// Poke forces an immediate re-evaluation, used right after the admin
// changes the override so clients don't wait a full tick.
func (m *Monitor) Poke(ctx context.Context) {
	m.check(ctx)
}

func (m *Monitor) check(ctx context.Context) {
	open := m.Open(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.primed && open == m.lastKnown {
		return
	}
	wasPrimed := m.primed
	m.primed = true
	m.lastKnown = open
	if wasPrimed && m.onChange != nil {
		log.Printf("store availability changed: open=%v", open)
		m.onChange(open)
	}
}
