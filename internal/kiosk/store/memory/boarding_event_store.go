package memory

import (
	"context"
	"sync"

	"github.com/mashaer-transit/kiosk/internal/kiosk/store"
)

// BoardingEventStore is an in-memory append-only log of attempt outcomes.
// It is intended for use in tests and dev environments.
type BoardingEventStore struct {
	mu     sync.Mutex
	events []store.BoardingEventRecord
}

func NewBoardingEventStore() *BoardingEventStore {
	return &BoardingEventStore{}
}

func (s *BoardingEventStore) RecordEvent(_ context.Context, rec store.BoardingEventRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, rec)
	return nil
}

// Events returns a copy of all recorded events.  Test-only helper.
func (s *BoardingEventStore) Events() []store.BoardingEventRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]store.BoardingEventRecord, len(s.events))
	copy(out, s.events)
	return out
}
