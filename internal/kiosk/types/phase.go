package types

// Phase is the top-level workflow phase. Exactly one phase is active per
// engine instance; the kiosk starts in PhaseBoarding.
type Phase string

const (
	PhaseBoarding Phase = "BOARDING"
	PhaseTrip     Phase = "TRIP"
)

// State is the engine sub-state within a phase.
type State string

const (
	StateBoardingIdle        State = "BOARDING.IDLE"
	StateBoardingCardPending State = "BOARDING.CARD_PENDING"
	StateBoardingFeedback    State = "BOARDING.FEEDBACK"
	StateTripPinGate         State = "TRIP.PIN_GATE"
	StateTripHeadcount       State = "TRIP.HEADCOUNT"
	StateTripActive          State = "TRIP.ACTIVE"
	StateTripComplete        State = "TRIP.COMPLETE"
)

// Phase returns the phase a sub-state belongs to.
func (s State) Phase() Phase {
	switch s {
	case StateBoardingIdle, StateBoardingCardPending, StateBoardingFeedback:
		return PhaseBoarding
	default:
		return PhaseTrip
	}
}
