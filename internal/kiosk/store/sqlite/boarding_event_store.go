package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	dbpkg "github.com/mashaer-transit/kiosk/internal/db"
	"github.com/mashaer-transit/kiosk/internal/kiosk/store"
)

type BoardingEventStore struct {
	db     *sql.DB
	writer *dbpkg.Worker
}

func NewBoardingEventStore(db *sql.DB, writer *dbpkg.Worker) *BoardingEventStore {
	return &BoardingEventStore{db: db, writer: writer}
}

func (s *BoardingEventStore) RecordEvent(ctx context.Context, rec store.BoardingEventRecord) error {
	if rec.StartedAt.IsZero() {
		rec.StartedAt = time.Now().UTC()
	}
	if rec.DecidedAt.IsZero() {
		rec.DecidedAt = time.Now().UTC()
	}

	var passengerID any
	if rec.PassengerID != "" {
		passengerID = rec.PassengerID
	}

	var confidence any
	if rec.Confidence != nil {
		confidence = *rec.Confidence
	}

	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO boarding_events(
  attempt_id, trip_sequence, passenger_id, outcome, reason,
  confidence, started_at_ms, decided_at_ms
) VALUES (?, ?, ?, ?, ?, ?, ?, ?);
`,
			rec.AttemptID, rec.TripSequence, passengerID, string(rec.Outcome), rec.Reason,
			confidence, rec.StartedAt.UTC().UnixMilli(), rec.DecidedAt.UTC().UnixMilli(),
		); err != nil {
			return fmt.Errorf("RecordEvent insert: %w", err)
		}
		return nil
	})
}
