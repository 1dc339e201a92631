package store

import (
	"context"
	"time"

	"github.com/mashaer-transit/kiosk/internal/kiosk/types"
)

// BoardingEventRecord captures one terminal boarding-attempt outcome for the
// audit log. PassengerID is empty when the card never decoded.
type BoardingEventRecord struct {
	AttemptID    string
	TripSequence int
	PassengerID  string
	Outcome      types.AttemptOutcome
	Reason       string

	// Confidence is the sensor-reported match confidence; nil when the
	// attempt never reached the fingerprint step.
	Confidence *int

	StartedAt time.Time
	DecidedAt time.Time
}

// BoardingEventStore persists attempt outcomes as an append-only audit log.
type BoardingEventStore interface {
	RecordEvent(ctx context.Context, rec BoardingEventRecord) error
}
