package types

import "time"

// AttemptOutcome is the terminal outcome of a boarding attempt.
type AttemptOutcome string

const (
	OutcomeAdmitted            AttemptOutcome = "ADMITTED"
	OutcomeCardRejected        AttemptOutcome = "CARD_REJECTED"
	OutcomeFingerprintRejected AttemptOutcome = "FINGERPRINT_REJECTED"
	OutcomeTimedOut            AttemptOutcome = "TIMED_OUT"
)

// MatchResult is a fingerprint comparison result as reported by the sensor.
// Matched is authoritative: a sensor-reported match already implies the
// confidence floor was met.
type MatchResult struct {
	Matched    bool
	Confidence int
}

// BoardingAttempt tracks one card presentation from detection to its terminal
// outcome. Attempts are transient — they are discarded once the outcome has
// been reported to the feedback sink and are never persisted directly.
type BoardingAttempt struct {
	ID         string
	RawPayload string
	StartedAt  time.Time

	// PassengerID is empty until the payload decodes successfully.
	PassengerID   string
	PassengerName string

	// Match is nil until the fingerprint step completes.
	Match *MatchResult

	Outcome AttemptOutcome
}
