package sqlite_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/mashaer-transit/kiosk/internal/kiosk/store"
	sqlitestore "github.com/mashaer-transit/kiosk/internal/kiosk/store/sqlite"
	"github.com/mashaer-transit/kiosk/internal/kiosk/types"
)

// ═══════════════════════════════════════════════════════════════════════════
// RecordEvent — column values
// ═══════════════════════════════════════════════════════════════════════════

func TestBoardingEventStore_RecordEvent_ColumnsCorrect(t *testing.T) {
	conn := openTestDB(t)
	w := newTestWriter(t, conn)
	es := sqlitestore.NewBoardingEventStore(conn, w)
	ctx := context.Background()

	started := time.Date(2026, 3, 10, 6, 15, 0, 0, time.UTC)
	confidence := 82
	err := es.RecordEvent(ctx, store.BoardingEventRecord{
		AttemptID:    "attempt-1",
		TripSequence: 2,
		PassengerID:  "H001",
		Outcome:      types.OutcomeAdmitted,
		Reason:       "ok",
		Confidence:   &confidence,
		StartedAt:    started,
		DecidedAt:    started.Add(4 * time.Second),
	})
	if err != nil {
		t.Fatalf("RecordEvent: %v", err)
	}

	var (
		tripSeq    int
		passenger  sql.NullString
		outcome    string
		reason     string
		conf       sql.NullInt64
		startedMs  int64
		decidedMs  int64
	)
	err = conn.QueryRowContext(ctx, `
SELECT trip_sequence, passenger_id, outcome, reason, confidence,
       started_at_ms, decided_at_ms
FROM boarding_events WHERE attempt_id = ?`, "attempt-1",
	).Scan(&tripSeq, &passenger, &outcome, &reason, &conf, &startedMs, &decidedMs)
	if err != nil {
		t.Fatalf("query: %v", err)
	}

	if tripSeq != 2 {
		t.Errorf("expected trip_sequence=2, got %d", tripSeq)
	}
	if !passenger.Valid || passenger.String != "H001" {
		t.Errorf("expected passenger_id=H001, got %v", passenger)
	}
	if outcome != "ADMITTED" {
		t.Errorf("expected outcome=ADMITTED, got %q", outcome)
	}
	if reason != "ok" {
		t.Errorf("expected reason=ok, got %q", reason)
	}
	if !conf.Valid || conf.Int64 != 82 {
		t.Errorf("expected confidence=82, got %v", conf)
	}
	if startedMs != started.UnixMilli() {
		t.Errorf("expected started_at_ms=%d, got %d", started.UnixMilli(), startedMs)
	}
	if decidedMs != started.Add(4*time.Second).UnixMilli() {
		t.Errorf("expected decided_at_ms=%d, got %d", started.Add(4*time.Second).UnixMilli(), decidedMs)
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// RecordEvent — nullable fields
// ═══════════════════════════════════════════════════════════════════════════

func TestBoardingEventStore_RecordEvent_NullOptionalFields(t *testing.T) {
	conn := openTestDB(t)
	w := newTestWriter(t, conn)
	es := sqlitestore.NewBoardingEventStore(conn, w)
	ctx := context.Background()

	// A payload that never decoded has no passenger and no confidence.
	started := time.Date(2026, 3, 10, 6, 15, 0, 0, time.UTC)
	err := es.RecordEvent(ctx, store.BoardingEventRecord{
		AttemptID:    "attempt-2",
		TripSequence: 1,
		Outcome:      types.OutcomeCardRejected,
		Reason:       "card_decode_failed",
		StartedAt:    started,
		DecidedAt:    started,
	})
	if err != nil {
		t.Fatalf("RecordEvent: %v", err)
	}

	var (
		passenger sql.NullString
		conf      sql.NullInt64
	)
	err = conn.QueryRowContext(ctx, `
SELECT passenger_id, confidence FROM boarding_events WHERE attempt_id = ?`, "attempt-2",
	).Scan(&passenger, &conf)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if passenger.Valid {
		t.Error("expected passenger_id to be NULL")
	}
	if conf.Valid {
		t.Error("expected confidence to be NULL")
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// RecordEvent — append-only
// ═══════════════════════════════════════════════════════════════════════════

func TestBoardingEventStore_RecordEvent_AppendOnly(t *testing.T) {
	conn := openTestDB(t)
	w := newTestWriter(t, conn)
	es := sqlitestore.NewBoardingEventStore(conn, w)
	ctx := context.Background()

	started := time.Date(2026, 3, 10, 6, 15, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		err := es.RecordEvent(ctx, store.BoardingEventRecord{
			AttemptID:    "attempt-1", // same attempt id, still three rows
			TripSequence: 1,
			PassengerID:  "H001",
			Outcome:      types.OutcomeAdmitted,
			Reason:       "ok",
			StartedAt:    started,
			DecidedAt:    started.Add(time.Duration(i) * time.Second),
		})
		if err != nil {
			t.Fatalf("RecordEvent %d: %v", i, err)
		}
	}

	var count int
	if err := conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM boarding_events`).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 3 {
		t.Errorf("expected 3 rows (append-only), got %d", count)
	}
}
