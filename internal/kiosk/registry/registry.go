// Package registry provides read access to the persisted passenger registry.
package registry

import (
	"context"
	"errors"
	"strings"

	"github.com/mashaer-transit/kiosk/internal/kiosk/store"
)

// PassengerRegistry is the engine's read-side view of enrolled passengers.
// Writes happen only through the administrative enrollment tool.
type PassengerRegistry struct {
	store store.PassengerStore
}

func New(st store.PassengerStore) *PassengerRegistry {
	return &PassengerRegistry{store: st}
}

// Lookup returns the enrolled record for passengerID.
// found=false with a nil error means the passenger is not enrolled; a non-nil
// error means the registry itself failed and the caller should treat the
// attempt as an infrastructure fault, not a rejection.
func (r *PassengerRegistry) Lookup(ctx context.Context, passengerID string) (store.Passenger, bool, error) {
	passengerID = strings.TrimSpace(passengerID)
	if passengerID == "" {
		return store.Passenger{}, false, nil
	}

	p, err := r.store.Lookup(ctx, passengerID)
	if errors.Is(err, store.ErrNotFound) {
		return store.Passenger{}, false, nil
	}
	if err != nil {
		return store.Passenger{}, false, err
	}
	return p, true, nil
}
