package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	dbpkg "github.com/mashaer-transit/kiosk/internal/db"
	"github.com/mashaer-transit/kiosk/internal/kiosk/store"
)

type PassengerStore struct {
	db     *sql.DB
	writer *dbpkg.Worker
}

func NewPassengerStore(db *sql.DB, writer *dbpkg.Worker) *PassengerStore {
	return &PassengerStore{db: db, writer: writer}
}

func (s *PassengerStore) Lookup(ctx context.Context, passengerID string) (store.Passenger, error) {
	passengerID = strings.TrimSpace(passengerID)
	if passengerID == "" {
		return store.Passenger{}, store.ErrNotFound
	}

	var (
		name       string
		slot       int
		enrolledMs int64
	)
	err := s.db.QueryRowContext(ctx, `
SELECT name, finger_slot, enrolled_at_ms
FROM passengers
WHERE passenger_id = ?;
`, passengerID).Scan(&name, &slot, &enrolledMs)

	if err == sql.ErrNoRows {
		return store.Passenger{}, store.ErrNotFound
	}
	if err != nil {
		return store.Passenger{}, fmt.Errorf("Lookup query: %w", err)
	}

	return store.Passenger{
		PassengerID: passengerID,
		Name:        name,
		FingerSlot:  slot,
		EnrolledAt:  time.UnixMilli(enrolledMs).UTC(),
	}, nil
}

func (s *PassengerStore) Upsert(ctx context.Context, p store.Passenger) error {
	p.PassengerID = strings.TrimSpace(p.PassengerID)
	if p.PassengerID == "" {
		return nil
	}
	if p.EnrolledAt.IsZero() {
		p.EnrolledAt = time.Now().UTC()
	}

	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO passengers(passenger_id, name, finger_slot, enrolled_at_ms)
VALUES (?, ?, ?, ?)
ON CONFLICT(passenger_id) DO UPDATE SET
  name = excluded.name,
  finger_slot = excluded.finger_slot;
`, p.PassengerID, p.Name, p.FingerSlot, p.EnrolledAt.UTC().UnixMilli()); err != nil {
			return fmt.Errorf("Upsert passenger %s: %w", p.PassengerID, err)
		}
		return nil
	})
}
