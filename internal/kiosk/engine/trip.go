package engine

import (
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/mashaer-transit/kiosk/internal/kiosk/types"
)

const pinLength = 4

// ToggleDoor flips the door signal. Closing the door during boarding ends
// the boarding phase immediately, abandoning any in-flight attempt.
func (e *Engine) ToggleDoor() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.doorOpen = !e.doorOpen
	e.deps.Logger.Printf("door signal: open=%t", e.doorOpen)

	if !e.doorOpen && e.state.Phase() == types.PhaseBoarding {
		e.enterPinGate()
	}
	return nil
}

// enterPinGate transitions into the trip phase. Lock must be held.
func (e *Engine) enterPinGate() {
	if e.attempt != nil {
		e.deps.Logger.Printf("abandoning in-flight attempt %s (door closed)", e.attempt.ID)
		e.attempt = nil
	}
	e.pollArmed = false
	e.pinBuf = e.pinBuf[:0]
	e.setState(types.StateTripPinGate)
	e.deps.Feedback.RequestScene(types.ScenePinEntry)
}

// EnterPINDigit appends one digit to the PIN buffer.
func (e *Engine) EnterPINDigit(d byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != types.StateTripPinGate {
		return ErrWrongState
	}
	if d < '0' || d > '9' {
		return ErrBadDigit
	}
	if len(e.pinBuf) < pinLength {
		e.pinBuf = append(e.pinBuf, d)
	}
	return nil
}

// SubmitPIN checks the buffered PIN against the configured supervisor PIN.
// A wrong PIN clears the buffer and leaves the state unchanged.
func (e *Engine) SubmitPIN() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != types.StateTripPinGate {
		return ErrWrongState
	}

	entered := string(e.pinBuf)
	e.pinBuf = e.pinBuf[:0]

	if !e.pinCorrect(entered) {
		if e.deps.Metrics != nil {
			e.deps.Metrics.PinFailuresTotal.Inc()
		}
		e.deps.Feedback.EmitOutcome(types.FeedbackPinWrong)
		e.deps.Feedback.ShowStatus("Invalid PIN", types.SeverityWarning)
		return ErrWrongPIN
	}

	e.deps.Feedback.EmitOutcome(types.FeedbackPinOK)
	e.startHeadcount()
	return nil
}

func (e *Engine) pinCorrect(entered string) bool {
	if e.opts.SupervisorPINHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(e.opts.SupervisorPINHash), []byte(entered)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(entered), []byte(e.opts.SupervisorPIN)) == 1
}

// startHeadcount marks trip start and kicks off the sampling run after the
// processing scene has had time to appear. Lock must be held.
func (e *Engine) startHeadcount() {
	e.tripStart = e.now()
	e.setState(types.StateTripHeadcount)
	e.deps.Feedback.RequestScene(types.SceneHeadcountProcessing)
	e.schedule("headcount_begin", e.opts.HeadcountWarmup, e.beginSampling)
}

// beginSampling collects the configured number of camera samples off the
// engine's scheduling context. A failed sample counts as zero — the camera
// being momentarily unavailable must not sink the whole reconciliation, and
// the max policy ignores low outliers anyway. Lock must be held.
func (e *Engine) beginSampling() {
	epoch := e.epoch
	n := e.opts.HeadcountSamples
	delay := e.opts.HeadcountSampleDelay

	go func() {
		samples := make([]int, 0, n)
		for i := 0; i < n; i++ {
			if i > 0 && delay > 0 {
				select {
				case <-time.After(delay):
				case <-e.runCtx.Done():
					return
				}
			}
			c, err := e.deps.Counter.SampleCount(e.runCtx)
			if err != nil {
				e.deps.Logger.Printf("headcount sample %d failed: %v", i+1, err)
				c = 0
			}
			samples = append(samples, c)
		}
		e.headcountResult(epoch, samples)
	}()
}

// headcountResult consumes a completed sampling run. The outcome is
// advisory: a mismatch is displayed but never blocks the trip.
func (e *Engine) headcountResult(epoch uint64, samples []int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != types.StateTripHeadcount || e.epoch != epoch {
		e.deps.Logger.Printf("engine: dropping stale headcount result")
		return
	}

	outcome := types.ReconcileHeadcount(samples, len(e.roster))
	e.lastHeadcount = &outcome

	if outcome.Matched {
		e.deps.Feedback.ShowStatus(
			fmt.Sprintf("Headcount verified: %d/%d", outcome.Detected, outcome.Scanned),
			types.SeveritySuccess)
	} else {
		if e.deps.Metrics != nil {
			e.deps.Metrics.HeadcountMismatches.Inc()
		}
		e.deps.Logger.Printf("WARN headcount mismatch: detected=%d scanned=%d samples=%v",
			outcome.Detected, outcome.Scanned, outcome.Samples)
		e.deps.Feedback.ShowStatus(
			fmt.Sprintf("Headcount mismatch! Detected: %d, Scanned: %d", outcome.Detected, outcome.Scanned),
			types.SeverityWarning)
	}
	e.deps.Feedback.RequestScene(types.SceneHeadcountResult)

	e.schedule("trip_active", e.opts.HeadcountResultDisplay, e.enterTripActive)
}

func (e *Engine) enterTripActive() {
	e.setState(types.StateTripActive)
	e.deps.Feedback.EmitOutcome(types.FeedbackTripStart)
	e.deps.Feedback.RequestScene(types.SceneTripActive)
	e.deps.Feedback.ShowStatus("Trip started", types.SeveritySuccess)
}

// EndTrip completes the active trip: it builds the trip record, hands it to
// the recorder, and shows the summary. Only the explicit command ends a
// trip — no timer ever does.
func (e *Engine) EndTrip() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != types.StateTripActive {
		return ErrWrongState
	}

	roster := make([]string, len(e.roster))
	copy(roster, e.roster)

	rec := types.TripRecord{
		ID:        uuid.NewString(),
		Sequence:  e.tripSeq,
		Roster:    roster,
		StartedAt: e.tripStart,
		EndedAt:   e.now(),
		Headcount: e.lastHeadcount,
	}

	if err := e.deps.Trips.Record(e.runCtx, rec); err != nil {
		// The trip still completes; losing the summary row must not strand
		// the kiosk in TRIP.ACTIVE.
		e.deps.Logger.Printf("trip record failed: %v", err)
		e.deps.Feedback.ShowStatus("Trip log error", types.SeverityError)
	}

	if e.deps.Metrics != nil {
		e.deps.Metrics.ObserveTripComplete()
	}

	e.setState(types.StateTripComplete)
	e.deps.Feedback.EmitOutcome(types.FeedbackTripEnd)
	e.deps.Feedback.RequestScene(types.SceneTripComplete)
	return nil
}

// StartNewTrip resets for the next boarding phase: roster cleared, trip
// sequence incremented, door reopened, polling re-armed.
func (e *Engine) StartNewTrip() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != types.StateTripComplete {
		return ErrWrongState
	}

	e.roster = nil
	e.rosterSet = make(map[string]struct{})
	e.tripSeq++
	e.tripStart = time.Time{}
	e.lastHeadcount = nil
	e.pinBuf = e.pinBuf[:0]
	e.doorOpen = true

	if e.deps.Metrics != nil {
		e.deps.Metrics.RosterSize.Set(0)
	}

	e.setState(types.StateBoardingIdle)
	e.pollArmed = true
	e.deps.Feedback.RequestScene(types.SceneCardScan)
	e.deps.Logger.Printf("reset for trip %d", e.tripSeq)
	return nil
}
