package engine

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mashaer-transit/kiosk/internal/kiosk/sensors"
	"github.com/mashaer-transit/kiosk/internal/kiosk/store"
	"github.com/mashaer-transit/kiosk/internal/kiosk/types"
)

// Rejection reasons recorded on the audit log. Operators only ever see a
// single failure signal; these stay internal.
const (
	reasonOK            = "ok"
	reasonRepeatScan    = "repeat_scan"
	reasonDecodeFailed  = "card_decode_failed"
	reasonNotEnrolled   = "not_enrolled"
	reasonRegistryError = "registry_error"
	reasonFingerNoMatch = "finger_mismatch"
	reasonFingerTimeout = "finger_timeout"
	reasonSensorError   = "sensor_error"
)

// tick is the engine's periodic entry point.
func (e *Engine) tick() {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	e.fireDue(now)

	if e.state.Phase() != types.PhaseBoarding {
		return
	}

	// Door closed is the boarding-phase exit signal; an in-flight attempt is
	// abandoned without admitting anyone.
	if !e.doorOpen {
		e.enterPinGate()
		return
	}

	if e.state != types.StateBoardingIdle || !e.pollArmed {
		return
	}

	payload, ok, err := e.deps.Reader.ReadCard(e.runCtx, e.opts.CardReadTimeout)
	if err != nil {
		// Transient reader fault: stay idle, re-poll next tick.
		e.deps.Logger.Printf("card read failed: %v", err)
		return
	}
	if !ok {
		return
	}

	e.beginAttempt(payload)
}

// beginAttempt runs the synchronous half of the credential sequence: decode
// the payload, look the passenger up, and prompt for the fingerprint. Card
// polling stays disabled until the attempt's feedback display finishes, so a
// lingering card cannot re-trigger the same attempt.
func (e *Engine) beginAttempt(payload string) {
	e.pollArmed = false
	e.attemptSeq++
	e.attempt = &attempt{
		BoardingAttempt: types.BoardingAttempt{
			ID:         uuid.NewString(),
			RawPayload: payload,
			StartedAt:  e.now(),
		},
		seq: e.attemptSeq,
	}
	e.setState(types.StateBoardingCardPending)
	e.deps.Feedback.RequestScene(types.SceneWait)

	passengerID, err := e.deps.Codec.Decode(payload)
	if err != nil {
		e.deps.Logger.Printf("attempt %s: card decode failed: %v", e.attempt.ID, err)
		e.finishAttempt(types.OutcomeCardRejected, reasonDecodeFailed)
		return
	}
	e.attempt.PassengerID = passengerID

	p, found, err := e.deps.Registry.Lookup(e.runCtx, passengerID)
	if err != nil {
		// Infrastructure fault, not a credential problem: surface a generic
		// error and fall back to a safe idle state.
		e.deps.Logger.Printf("attempt %s: registry lookup failed: %v", e.attempt.ID, err)
		e.deps.Feedback.ShowStatus("System error, please try again", types.SeverityError)
		e.finishAttempt(types.OutcomeCardRejected, reasonRegistryError)
		return
	}
	if !found {
		// Card decrypts under our key but the ID is not enrolled — possible
		// tamper or registry desync, worth more than an info line.
		e.deps.Logger.Printf("WARN attempt %s: card decoded to unenrolled id %q", e.attempt.ID, passengerID)
		e.finishAttempt(types.OutcomeCardRejected, reasonNotEnrolled)
		return
	}

	e.attempt.PassengerName = p.Name
	e.attempt.slot = p.FingerSlot

	e.deps.Feedback.EmitOutcome(types.FeedbackAdmit)
	e.deps.Feedback.RequestScene(types.SceneFingerScan)
	e.schedule("finger_prompt", e.opts.FingerPromptDelay, e.beginFingerWait)
}

// beginFingerWait starts the bounded fingerprint capture off the engine's
// scheduling context. Lock must be held.
func (e *Engine) beginFingerWait() {
	seq := e.attempt.seq
	slot := e.attempt.slot

	go func() {
		res, err := e.deps.Finger.MatchFinger(e.runCtx, slot, e.opts.FingerTimeout)
		e.fingerResult(seq, res, err)
	}()
}

// fingerResult consumes a completed fingerprint wait. Results for an attempt
// that is no longer current are dropped: partial progress confers no state
// change once the attempt was abandoned.
func (e *Engine) fingerResult(seq uint64, res types.MatchResult, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != types.StateBoardingCardPending || e.attempt == nil || e.attempt.seq != seq {
		e.deps.Logger.Printf("engine: dropping stale fingerprint result (seq %d)", seq)
		return
	}

	switch {
	case errors.Is(err, sensors.ErrTimeout):
		e.finishAttempt(types.OutcomeTimedOut, reasonFingerTimeout)
	case err != nil:
		e.deps.Logger.Printf("attempt %s: fingerprint capture failed: %v", e.attempt.ID, err)
		e.finishAttempt(types.OutcomeFingerprintRejected, reasonSensorError)
	case res.Matched:
		// The sensor's matched flag is authoritative; a reported match
		// already implies the confidence floor was met.
		e.attempt.Match = &res
		e.admit()
	default:
		e.attempt.Match = &res
		if res.Confidence > 0 {
			e.deps.Logger.Printf("attempt %s: fingerprint below threshold (confidence %d)", e.attempt.ID, res.Confidence)
		}
		e.finishAttempt(types.OutcomeFingerprintRejected, reasonFingerNoMatch)
	}
}

// admit adds the verified passenger to the roster. Re-presenting an already
// admitted card+finger pair re-triggers the success display but leaves the
// roster untouched.
func (e *Engine) admit() {
	a := e.attempt
	reason := reasonOK

	if _, dup := e.rosterSet[a.PassengerID]; dup {
		reason = reasonRepeatScan
	} else {
		e.rosterSet[a.PassengerID] = struct{}{}
		e.roster = append(e.roster, a.PassengerID)
		if len(e.roster) != len(e.rosterSet) {
			// Should never happen; isolate to this attempt rather than
			// carrying a corrupt roster into headcount.
			e.deps.Logger.Printf("ERROR roster desync (%d ids, %d distinct); dropping admission of %s",
				len(e.roster), len(e.rosterSet), a.PassengerID)
			e.roster = e.roster[:len(e.roster)-1]
			delete(e.rosterSet, a.PassengerID)
			e.finishAttempt(types.OutcomeCardRejected, reasonSensorError)
			return
		}
		if e.deps.Metrics != nil {
			e.deps.Metrics.ObserveAdmission(len(e.roster))
		}
	}

	e.deps.Feedback.ShowStatus(fmt.Sprintf("Welcome %s, please be seated", a.PassengerName), types.SeveritySuccess)
	e.finishAttempt(types.OutcomeAdmitted, reason)
}

// finishAttempt reports the terminal outcome, records the audit event, and
// schedules the return to idle once the feedback display has run its course.
func (e *Engine) finishAttempt(outcome types.AttemptOutcome, reason string) {
	a := e.attempt
	a.Outcome = outcome

	scene := types.SceneCardFailed
	kind := types.FeedbackReject
	display := e.opts.CardRejectDisplay

	switch outcome {
	case types.OutcomeAdmitted:
		scene = types.SceneSuccess
		kind = types.FeedbackAdmit
		display = e.opts.AdmitDisplay
	case types.OutcomeFingerprintRejected, types.OutcomeTimedOut:
		scene = types.SceneFingerFailed
		display = e.opts.FingerRejectDisplay
	}

	e.deps.Feedback.EmitOutcome(kind)
	e.deps.Feedback.RequestScene(scene)

	if e.deps.Metrics != nil && outcome != types.OutcomeAdmitted {
		e.deps.Metrics.ObserveRejection(reason)
	}

	e.recordEvent(a, reason)
	e.attempt = nil

	e.setState(types.StateBoardingFeedback)
	e.schedule("rearm_polling", display, e.rearmPolling)
}

func (e *Engine) rearmPolling() {
	e.setState(types.StateBoardingIdle)
	e.pollArmed = true
	e.deps.Feedback.RequestScene(types.SceneCardScan)
}

// recordEvent persists the attempt outcome to the audit log. Failures are
// logged, not returned — a failed audit write must not change the boarding
// decision the passenger already received.
func (e *Engine) recordEvent(a *attempt, reason string) {
	rec := store.BoardingEventRecord{
		AttemptID:    a.ID,
		TripSequence: e.tripSeq,
		PassengerID:  a.PassengerID,
		Outcome:      a.Outcome,
		Reason:       reason,
		StartedAt:    a.StartedAt,
		DecidedAt:    e.now(),
	}
	if a.Match != nil {
		c := a.Match.Confidence
		rec.Confidence = &c
	}

	if err := e.deps.Events.RecordEvent(e.runCtx, rec); err != nil {
		e.deps.Logger.Printf("boarding event write failed (attempt %s): %v", a.ID, err)
	}
}
