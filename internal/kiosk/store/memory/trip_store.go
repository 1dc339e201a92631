package memory

import (
	"context"
	"sync"

	"github.com/mashaer-transit/kiosk/internal/kiosk/types"
)

type TripStore struct {
	mu    sync.Mutex
	trips []types.TripRecord

	// RecordErr, when set, is returned by every RecordTrip. Test hook.
	RecordErr error
}

func NewTripStore() *TripStore {
	return &TripStore{}
}

func (s *TripStore) RecordTrip(_ context.Context, rec types.TripRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.RecordErr != nil {
		return s.RecordErr
	}
	s.trips = append(s.trips, rec)
	return nil
}

func (s *TripStore) LastSequence(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	last := 0
	for _, t := range s.trips {
		if t.Sequence > last {
			last = t.Sequence
		}
	}
	return last, nil
}

// Trips returns a copy of all recorded trips.  Test-only helper.
func (s *TripStore) Trips() []types.TripRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.TripRecord, len(s.trips))
	copy(out, s.trips)
	return out
}
