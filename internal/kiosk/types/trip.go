package types

import "time"

// TripRecord is the summary of one completed trip. It is built by the engine
// at trip end and handed to the trip recorder; persistence ownership passes
// to the recorder at that point.
type TripRecord struct {
	ID        string
	Sequence  int
	Roster    []string
	StartedAt time.Time
	EndedAt   time.Time

	// Headcount holds the reconciliation result for this trip, when one ran.
	Headcount *HeadcountOutcome
}

// PassengerCount is the number of distinct admitted passengers.
func (r TripRecord) PassengerCount() int { return len(r.Roster) }

// Duration is the elapsed time between trip start and end.
func (r TripRecord) Duration() time.Duration { return r.EndedAt.Sub(r.StartedAt) }

// HeadcountOutcome is the result of one headcount reconciliation. Detected is
// the maximum of the independent camera samples; undercount from occlusion is
// common, so the most optimistic sample is trusted.
type HeadcountOutcome struct {
	Samples  []int
	Detected int
	Scanned  int
	Matched  bool
}

// ReconcileHeadcount applies the max-of-samples policy against the scanned
// roster size.
func ReconcileHeadcount(samples []int, scanned int) HeadcountOutcome {
	detected := 0
	for _, s := range samples {
		if s > detected {
			detected = s
		}
	}
	return HeadcountOutcome{
		Samples:  samples,
		Detected: detected,
		Scanned:  scanned,
		Matched:  detected == scanned,
	}
}
