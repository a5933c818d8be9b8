package interval

// Phase is the stage of the workout the engine is in
type Phase int

const (
	PhaseIdle      Phase = iota // Not started, or reset
	PhaseCountdown              // Lead-in before the first work phase
	PhaseWork                   // Work part of a round
	PhaseRest                   // Rest between two work phases of the same set
	PhaseSetRest                // Rest between two sets
	PhaseFinished               // Last work phase of the last set is done
)

// String returns the identifier used in logs and JSON.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseCountdown:
		return "countdown"
	case PhaseWork:
		return "work"
	case PhaseRest:
		return "rest"
	case PhaseSetRest:
		return "set_rest"
	case PhaseFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// MarshalText lets Phase travel as its string form.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// State is a copy of the engine's progress
type State struct {
	Phase            Phase `json:"phase"`
	SecondsRemaining int   `json:"seconds_remaining"` // Seconds left in the current phase
	Round            int   `json:"round"`             // 1-based round within the current set
	Set              int   `json:"set"`               // 1-based set
	Running          bool  `json:"running"`           // Whether the clock should be ticking
}

// Paused reports a workout that has started, is not over and is not ticking.
func (s State) Paused() bool {
	return !s.Running && s.Phase != PhaseIdle && s.Phase != PhaseFinished
}

// IdleState is the state of a fresh or reset engine. The idle countdown shows
// the work time so the display has something meaningful before starting.
func IdleState(settings Settings) State {
	return State{
		Phase:            PhaseIdle,
		SecondsRemaining: settings.WorkTime,
		Round:            1,
		Set:              1,
	}
}
