// Package sensors defines the contracts the workflow engine consumes for the
// kiosk's independently polled hardware channels. Driver internals (NFC wire
// protocol, fingerprint sensor commands, the person-detection pipeline) live
// behind these seams and are out of scope here.
//
// Every call is bounded in time. Implementations may block their own
// goroutine up to the given bound but must honor ctx cancellation; the engine
// never issues a call that can outlive its scheduling slot.
package sensors

import (
	"context"
	"errors"
	"time"

	"github.com/mashaer-transit/kiosk/internal/kiosk/types"
)

// ErrTimeout reports that a bounded wait elapsed with no sensor input.
// The engine treats it as a rejection, never as a crash.
var ErrTimeout = errors.New("sensors: wait timed out")

// CardReader reads identity cards.
type CardReader interface {
	// ReadCard attempts one bounded read. ok=false with a nil error means no
	// card was presented within the timeout — the normal idle result.
	ReadCard(ctx context.Context, timeout time.Duration) (payload string, ok bool, err error)
}

// FingerprintSensor captures a print and compares it against a stored
// template slot.
type FingerprintSensor interface {
	// MatchFinger waits up to timeout for a finger, then compares the capture
	// specifically against the template at slot (not an open search across
	// all enrolled prints). Returns ErrTimeout when no finger arrives.
	MatchFinger(ctx context.Context, slot int, timeout time.Duration) (types.MatchResult, error)
}

// HeadCounter estimates the number of people on board from one camera frame.
type HeadCounter interface {
	SampleCount(ctx context.Context) (int, error)
}
