package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// SeedPassenger is one passenger to pre-create in dev.
type SeedPassenger struct {
	PassengerID string
	Name        string
	FingerSlot  int
}

// DefaultDevPassengers mirrors the demo card stock used on the bench rig.
var DefaultDevPassengers = []SeedPassenger{
	{PassengerID: "H001", Name: "Ahmed Al-Farsi", FingerSlot: 12},
	{PassengerID: "H002", Name: "Fatimah Rahman", FingerSlot: 13},
	{PassengerID: "H003", Name: "Yusuf Demir", FingerSlot: 14},
}

// SeedDev upserts the given passengers (DefaultDevPassengers when empty) so a
// fresh dev database has cards that verify end to end.
func SeedDev(ctx context.Context, db *sql.DB, passengers []SeedPassenger) error {
	if len(passengers) == 0 {
		passengers = DefaultDevPassengers
	}
	now := time.Now().UTC().UnixMilli()

	for _, p := range passengers {
		if _, err := db.ExecContext(ctx, `
INSERT INTO passengers(passenger_id, name, finger_slot, enrolled_at_ms)
VALUES (?, ?, ?, ?)
ON CONFLICT(passenger_id) DO UPDATE SET
  name = excluded.name,
  finger_slot = excluded.finger_slot;
`, p.PassengerID, p.Name, p.FingerSlot, now); err != nil {
			return fmt.Errorf("seed passenger %s: %w", p.PassengerID, err)
		}
	}

	return nil
}
