// Package sim provides scripted in-process sensor implementations for dev
// rigs and tests. Each simulator satisfies the corresponding contract in the
// sensors package and is safe for concurrent use.
package sim

import (
	"context"
	"sync"
	"time"

	"github.com/mashaer-transit/kiosk/internal/kiosk/sensors"
	"github.com/mashaer-transit/kiosk/internal/kiosk/types"
)

// CardReader returns queued payloads one per read. An empty queue reads as
// "no card present".
type CardReader struct {
	mu    sync.Mutex
	queue []string
}

func NewCardReader() *CardReader { return &CardReader{} }

// Present queues a card payload for the next read.
func (r *CardReader) Present(payload string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queue = append(r.queue, payload)
}

func (r *CardReader) ReadCard(ctx context.Context, _ time.Duration) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.queue) == 0 {
		return "", false, nil
	}
	p := r.queue[0]
	r.queue = r.queue[1:]
	return p, true, nil
}

// FingerprintSensor serves scripted match results per template slot. Slots
// with no script time out, as a real sensor would when no finger arrives.
type FingerprintSensor struct {
	mu      sync.Mutex
	results map[int][]types.MatchResult

	// Delay, when set, is how long each match waits before resolving.
	Delay time.Duration
}

func NewFingerprintSensor() *FingerprintSensor {
	return &FingerprintSensor{results: make(map[int][]types.MatchResult)}
}

// Script queues a result for matches against slot.
func (f *FingerprintSensor) Script(slot int, res types.MatchResult) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results[slot] = append(f.results[slot], res)
}

func (f *FingerprintSensor) MatchFinger(ctx context.Context, slot int, timeout time.Duration) (types.MatchResult, error) {
	if f.Delay > 0 {
		select {
		case <-time.After(f.Delay):
		case <-ctx.Done():
			return types.MatchResult{}, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	rs := f.results[slot]
	if len(rs) == 0 {
		return types.MatchResult{}, sensors.ErrTimeout
	}
	res := rs[0]
	f.results[slot] = rs[1:]
	return res, nil
}

// HeadCounter replays a scripted sequence of counts, repeating the last one
// once the script is exhausted.
type HeadCounter struct {
	mu     sync.Mutex
	counts []int
	idx    int
}

func NewHeadCounter(counts ...int) *HeadCounter {
	return &HeadCounter{counts: counts}
}

func (h *HeadCounter) SampleCount(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.counts) == 0 {
		return 0, nil
	}
	c := h.counts[h.idx]
	if h.idx < len(h.counts)-1 {
		h.idx++
	}
	return c, nil
}
