// Package engine implements the boarding/trip workflow state machine.
//
// The engine is driven by a fixed-period tick plus scheduled one-shot events.
// All state lives behind a single mutex: tick processing, operator commands,
// and async sensor deliveries each run to completion under it, so no two
// entry points ever interleave. Blocking sensor waits (fingerprint capture,
// headcount sampling) run on their own goroutines and deliver one result
// back through a guarded handler; results tagged with a stale attempt or
// epoch are dropped.
package engine

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/mashaer-transit/kiosk/internal/kiosk/codec"
	"github.com/mashaer-transit/kiosk/internal/kiosk/feedback"
	"github.com/mashaer-transit/kiosk/internal/kiosk/metrics"
	"github.com/mashaer-transit/kiosk/internal/kiosk/registry"
	"github.com/mashaer-transit/kiosk/internal/kiosk/sensors"
	"github.com/mashaer-transit/kiosk/internal/kiosk/store"
	"github.com/mashaer-transit/kiosk/internal/kiosk/types"
)

var (
	// ErrWrongState rejects a command the current state does not accept.
	ErrWrongState = errors.New("engine: command not accepted in current state")
	// ErrWrongPIN rejects an incorrect supervisor PIN submission.
	ErrWrongPIN = errors.New("engine: wrong PIN")
	// ErrBadDigit rejects a non-digit PIN keypress.
	ErrBadDigit = errors.New("engine: PIN digits must be 0-9")
)

// TripSink receives the completed trip record exactly once, at trip end.
type TripSink interface {
	Record(ctx context.Context, rec types.TripRecord) error
}

type Dependencies struct {
	Logger   *log.Logger
	Codec    *codec.Codec
	Registry *registry.PassengerRegistry
	Reader   sensors.CardReader
	Finger   sensors.FingerprintSensor
	Counter  sensors.HeadCounter
	Feedback feedback.Sink
	Trips    TripSink
	Events   store.BoardingEventStore
	Metrics  *metrics.Metrics
}

// Options carries the timing and PIN configuration. Zero durations are
// replaced with the deployed defaults by New.
type Options struct {
	TickPeriod      time.Duration
	CardReadTimeout time.Duration

	FingerPromptDelay time.Duration
	FingerTimeout     time.Duration

	AdmitDisplay        time.Duration
	CardRejectDisplay   time.Duration
	FingerRejectDisplay time.Duration

	HeadcountWarmup        time.Duration
	HeadcountSamples       int
	HeadcountSampleDelay   time.Duration
	HeadcountResultDisplay time.Duration

	// SupervisorPINHash (bcrypt) takes precedence over SupervisorPIN.
	SupervisorPIN     string
	SupervisorPINHash string

	// StartSequence is the first trip sequence number, usually one past the
	// last recorded trip. Defaults to 1.
	StartSequence int
}

func (o *Options) fillDefaults() {
	def := func(d *time.Duration, v time.Duration) {
		if *d <= 0 {
			*d = v
		}
	}
	def(&o.TickPeriod, time.Second)
	def(&o.CardReadTimeout, 100*time.Millisecond)
	def(&o.FingerPromptDelay, 2*time.Second)
	def(&o.FingerTimeout, 30*time.Second)
	def(&o.AdmitDisplay, 3*time.Second)
	def(&o.CardRejectDisplay, 5*time.Second)
	def(&o.FingerRejectDisplay, 3*time.Second)
	def(&o.HeadcountWarmup, 1500*time.Millisecond)
	def(&o.HeadcountSampleDelay, 500*time.Millisecond)
	def(&o.HeadcountResultDisplay, 5*time.Second)
	if o.HeadcountSamples <= 0 {
		o.HeadcountSamples = 3
	}
	if o.StartSequence <= 0 {
		o.StartSequence = 1
	}
	if o.SupervisorPIN == "" && o.SupervisorPINHash == "" {
		o.SupervisorPIN = "1234"
	}
}

// Engine owns the phase state machine, all timers and retry state, and the
// in-memory roster for the current trip. No other component mutates any of
// it.
type Engine struct {
	deps Dependencies
	opts Options

	mu    sync.Mutex
	state types.State

	// epoch increments on every state transition; scheduled events and async
	// results carry the epoch they were created under and are dropped when
	// it no longer matches.
	epoch uint64
	sched []scheduledEvent

	// Boarding
	pollArmed  bool
	doorOpen   bool
	attempt    *attempt
	attemptSeq uint64

	// Roster for the current trip; rosterSet suppresses duplicates.
	roster    []string
	rosterSet map[string]struct{}

	// Trip
	tripSeq       int
	tripStart     time.Time
	pinBuf        []byte
	lastHeadcount *types.HeadcountOutcome

	// now is stubbed in tests.
	now func() time.Time

	runCtx context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// attempt is the engine's in-flight boarding attempt plus the slot resolved
// from the registry, which types.BoardingAttempt deliberately does not carry.
type attempt struct {
	types.BoardingAttempt
	seq  uint64
	slot int
}

func New(deps Dependencies, opts Options) *Engine {
	opts.fillDefaults()
	e := &Engine{
		deps:      deps,
		opts:      opts,
		state:     types.StateBoardingIdle,
		pollArmed: true,
		doorOpen:  true,
		rosterSet: make(map[string]struct{}),
		tripSeq:   opts.StartSequence,
		now:       func() time.Time { return time.Now().UTC() },
		runCtx:    context.Background(),
	}
	deps.Feedback.RequestScene(types.SceneCardScan)
	return e
}

// Start begins the tick loop. The loop exits when ctx is cancelled or Stop
// is called.
func (e *Engine) Start(ctx context.Context) {
	e.runCtx, e.cancel = context.WithCancel(ctx)
	e.done = make(chan struct{})

	go e.loop(e.runCtx)

	e.deps.Logger.Printf("engine started (trip %d, tick=%s)", e.tripSeq, e.opts.TickPeriod)
}

// Stop signals the loop to exit and waits for it to finish.
func (e *Engine) Stop() {
	if e.cancel != nil {
		e.cancel()
	}
	if e.done != nil {
		<-e.done
	}
}

func (e *Engine) loop(ctx context.Context) {
	defer close(e.done)

	ticker := time.NewTicker(e.opts.TickPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.tick()
		}
	}
}

// Status is a read-only snapshot for the operator surface.
type Status struct {
	Phase        types.Phase `json:"phase"`
	State        types.State `json:"state"`
	DoorOpen     bool        `json:"door_open"`
	RosterSize   int         `json:"roster_size"`
	TripSequence int         `json:"trip_sequence"`
	PinDigits    int         `json:"pin_digits"`
}

func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Status{
		Phase:        e.state.Phase(),
		State:        e.state,
		DoorOpen:     e.doorOpen,
		RosterSize:   len(e.roster),
		TripSequence: e.tripSeq,
		PinDigits:    len(e.pinBuf),
	}
}

// Roster returns a copy of the admitted passenger IDs for the current trip.
func (e *Engine) Roster() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, len(e.roster))
	copy(out, e.roster)
	return out
}

// setState transitions the sub-state and invalidates everything scheduled
// under the previous one.
func (e *Engine) setState(s types.State) {
	if e.state == s {
		return
	}
	e.deps.Logger.Printf("engine: %s -> %s", e.state, s)
	e.state = s
	e.epoch++
}
