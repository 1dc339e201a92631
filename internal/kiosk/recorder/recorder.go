// Package recorder formats and persists completed trip summaries.
package recorder

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/mashaer-transit/kiosk/internal/kiosk/store"
	"github.com/mashaer-transit/kiosk/internal/kiosk/types"
)

// TripRecorder writes each completed trip to the trip store and appends a
// human-readable block to the trip log file. The engine hands a record over
// exactly once, at trip end; ownership of persistence passes here.
type TripRecorder struct {
	store   store.TripStore
	logger  *log.Logger
	logPath string // empty disables the text log
}

func New(st store.TripStore, logger *log.Logger, logPath string) *TripRecorder {
	return &TripRecorder{store: st, logger: logger, logPath: logPath}
}

// Record persists rec. The text log is best-effort: a failed append is
// logged but never fails the trip, since the store row is the durable copy.
func (r *TripRecorder) Record(ctx context.Context, rec types.TripRecord) error {
	if err := r.store.RecordTrip(ctx, rec); err != nil {
		return fmt.Errorf("record trip %d: %w", rec.Sequence, err)
	}

	if r.logPath != "" {
		if err := r.appendLog(rec); err != nil {
			r.logger.Printf("trip log append failed: %v", err)
		}
	}

	r.logger.Printf("trip %d recorded: %d passengers, %s",
		rec.Sequence, rec.PassengerCount(), rec.Duration().Round(time.Second))
	return nil
}

func (r *TripRecorder) appendLog(rec types.TripRecord) error {
	f, err := os.OpenFile(r.logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	var b strings.Builder
	fmt.Fprintf(&b, "\n=== TRIP #%d (%s) ===\n", rec.Sequence, rec.EndedAt.UTC().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "passengers: %d [%s]\n", rec.PassengerCount(), strings.Join(rec.Roster, ", "))
	fmt.Fprintf(&b, "started:  %s\n", rec.StartedAt.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "ended:    %s\n", rec.EndedAt.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "duration: %s\n", rec.Duration().Round(time.Second))
	if hc := rec.Headcount; hc != nil {
		fmt.Fprintf(&b, "headcount: detected=%d scanned=%d matched=%t\n", hc.Detected, hc.Scanned, hc.Matched)
	}
	b.WriteString("====================================\n")

	_, err = f.WriteString(b.String())
	return err
}
