package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/mashaer-transit/kiosk/internal/kiosk/store"
)

type PassengerStore struct {
	mu   sync.RWMutex
	data map[string]store.Passenger

	// LookupErr, when set, is returned by every Lookup. Test hook for
	// exercising registry I/O failure paths.
	LookupErr error
}

func NewPassengerStore(passengers ...store.Passenger) *PassengerStore {
	s := &PassengerStore{data: make(map[string]store.Passenger, len(passengers))}
	for _, p := range passengers {
		if p.EnrolledAt.IsZero() {
			p.EnrolledAt = time.Now().UTC()
		}
		s.data[p.PassengerID] = p
	}
	return s
}

func (s *PassengerStore) Lookup(_ context.Context, passengerID string) (store.Passenger, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.LookupErr != nil {
		return store.Passenger{}, s.LookupErr
	}
	p, ok := s.data[strings.TrimSpace(passengerID)]
	if !ok {
		return store.Passenger{}, store.ErrNotFound
	}
	return p, nil
}

func (s *PassengerStore) Upsert(_ context.Context, p store.Passenger) error {
	p.PassengerID = strings.TrimSpace(p.PassengerID)
	if p.PassengerID == "" {
		return nil
	}
	if p.EnrolledAt.IsZero() {
		p.EnrolledAt = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[p.PassengerID] = p
	return nil
}
