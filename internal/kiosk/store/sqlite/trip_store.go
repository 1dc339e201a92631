package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	dbpkg "github.com/mashaer-transit/kiosk/internal/db"
	"github.com/mashaer-transit/kiosk/internal/kiosk/types"
)

type TripStore struct {
	db     *sql.DB
	writer *dbpkg.Worker
}

func NewTripStore(db *sql.DB, writer *dbpkg.Worker) *TripStore {
	return &TripStore{db: db, writer: writer}
}

func (s *TripStore) RecordTrip(ctx context.Context, rec types.TripRecord) error {
	if rec.EndedAt.IsZero() {
		rec.EndedAt = time.Now().UTC()
	}

	roster, err := json.Marshal(rec.Roster)
	if err != nil {
		return fmt.Errorf("RecordTrip marshal roster: %w", err)
	}

	var detected, scanned, matched any
	if rec.Headcount != nil {
		detected = rec.Headcount.Detected
		scanned = rec.Headcount.Scanned
		if rec.Headcount.Matched {
			matched = 1
		} else {
			matched = 0
		}
	}

	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO trips(
  trip_id, sequence, passenger_count, roster_json,
  started_at_ms, ended_at_ms, duration_ms,
  headcount_detected, headcount_scanned, headcount_matched
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
`,
			rec.ID, rec.Sequence, rec.PassengerCount(), string(roster),
			rec.StartedAt.UTC().UnixMilli(), rec.EndedAt.UTC().UnixMilli(),
			rec.Duration().Milliseconds(),
			detected, scanned, matched,
		); err != nil {
			return fmt.Errorf("RecordTrip insert: %w", err)
		}
		return nil
	})
}

func (s *TripStore) LastSequence(ctx context.Context) (int, error) {
	var seq sql.NullInt64
	err := s.db.QueryRowContext(ctx, `SELECT MAX(sequence) FROM trips;`).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("LastSequence query: %w", err)
	}
	if !seq.Valid {
		return 0, nil
	}
	return int(seq.Int64), nil
}
