package cart

import (
	"encoding/json"
	"sync"
	"time"
)

const profileKey = "profile"

// Profile is the customer identity the storefront remembers between
// visits, pre-filling the checkout form.
type Profile struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// LoadProfile reads the saved profile; ok is false when none exists.
func LoadProfile(storage Storage) (Profile, bool, error) {
	data, ok, err := storage.Load(profileKey)
	if err != nil || !ok {
		return Profile{}, false, err
	}
	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return Profile{}, false, nil
	}
	return p, true, nil
}

// ProfileSaver debounces profile writes: each Set cancels the pending
// timer and schedules a write delay later, collapsing a typing burst
// into a single save.
type ProfileSaver struct {
	storage Storage
	delay   time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	pending Profile
}

// NewProfileSaver creates a saver with the given debounce delay.
func NewProfileSaver(storage Storage, delay time.Duration) *ProfileSaver {
	if delay <= 0 {
		delay = 600 * time.Millisecond
	}
	return &ProfileSaver{storage: storage, delay: delay}
}

// Set records the latest value and reschedules the write.
func (s *ProfileSaver) Set(p Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = p
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.delay, func() {
		s.Flush() //nolint:errcheck
	})
}

// Flush writes the pending profile immediately and cancels the timer.
func (s *ProfileSaver) Flush() error {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	p := s.pending
	s.mu.Unlock()

	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return s.storage.Save(profileKey, data)
}
