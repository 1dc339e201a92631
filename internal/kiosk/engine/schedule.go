package engine

import "time"

// scheduledEvent is a pending delayed transition. Events fire on the first
// tick at or after their deadline, and only if the engine epoch still matches
// the one they were scheduled under — a stale event (door closed mid-display,
// trip reset, abandoned attempt) is discarded rather than fired against a
// state it no longer belongs to.
type scheduledEvent struct {
	at    time.Time
	epoch uint64
	name  string
	fn    func()
}

// schedule queues fn to run after d. Lock must be held.
func (e *Engine) schedule(name string, d time.Duration, fn func()) {
	e.sched = append(e.sched, scheduledEvent{
		at:    e.now().Add(d),
		epoch: e.epoch,
		name:  name,
		fn:    fn,
	})
}

// fireDue runs every due event scheduled under the current epoch and drops
// due events from older epochs. Lock must be held. Events fired here may
// transition state, which bumps the epoch and thereby cancels any remaining
// due events from the same batch.
func (e *Engine) fireDue(now time.Time) {
	var keep []scheduledEvent
	var due []scheduledEvent
	for _, ev := range e.sched {
		if ev.at.After(now) {
			keep = append(keep, ev)
			continue
		}
		due = append(due, ev)
	}
	e.sched = keep

	for _, ev := range due {
		if ev.epoch != e.epoch {
			e.deps.Logger.Printf("engine: dropping stale event %q", ev.name)
			continue
		}
		ev.fn()
	}
}
