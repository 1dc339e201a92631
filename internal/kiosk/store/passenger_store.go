package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by lookups for passengers that are not enrolled.
// It is distinct from I/O failures so callers can treat the two differently:
// not-found is an ordinary rejection, an I/O error is an infrastructure fault.
var ErrNotFound = errors.New("store: passenger not found")

// Passenger is one enrolled passenger record. The administrative enrollment
// tool writes these; the kiosk only reads them.
type Passenger struct {
	PassengerID string
	Name        string

	// FingerSlot is the template slot on the fingerprint sensor that holds
	// this passenger's enrolled print.
	FingerSlot int

	EnrolledAt time.Time
}

type PassengerStore interface {
	// Lookup returns the record for passengerID, or ErrNotFound.
	Lookup(ctx context.Context, passengerID string) (Passenger, error)

	// Upsert inserts or replaces a passenger record. Used by enrollment
	// tooling and the dev seeder, never by the boarding path.
	Upsert(ctx context.Context, p Passenger) error
}
