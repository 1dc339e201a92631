package store

import (
	"context"

	"github.com/mashaer-transit/kiosk/internal/kiosk/types"
)

// TripStore persists completed trip summaries.
type TripStore interface {
	// RecordTrip appends one completed trip.
	RecordTrip(ctx context.Context, rec types.TripRecord) error

	// LastSequence returns the highest recorded trip sequence number,
	// or 0 when no trips have been recorded. The engine resumes numbering
	// from here after a restart.
	LastSequence(ctx context.Context) (int, error)
}
