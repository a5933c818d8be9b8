package interval

// Cue identifies a timing signal for the audio side.
type Cue string

const (
	CueCountdownTick Cue = "countdown-tick"
	CueWarningTick   Cue = "warning-tick"
	CueWorkStart     Cue = "work-start"
	CueRestStart     Cue = "rest-start"
	CueSetRestStart  Cue = "set-rest-start"
	CueFinish        Cue = "finish"
)

// AllCues lists every cue in a stable order
var AllCues = []Cue{
	CueCountdownTick,
	CueWarningTick,
	CueWorkStart,
	CueRestStart,
	CueSetRestStart,
	CueFinish,
}

// DefaultWarningWindow is how many final seconds of a work or rest phase get a warning cue.
const DefaultWarningWindow = 3

// CueSink consumes cues. Play must not block the caller.
type CueSink interface {
	Play(cue Cue)
}

// CueSinkFunc adapts a function to CueSink
type CueSinkFunc func(Cue)

func (f CueSinkFunc) Play(cue Cue) { f(cue) }

type discardSink struct{}

func (discardSink) Play(Cue) {}

// PhaseStartCue returns the cue announcing entry into phase.
func PhaseStartCue(phase Phase) (Cue, bool) {
	switch phase {
	case PhaseWork:
		return CueWorkStart, true
	case PhaseRest:
		return CueRestStart, true
	case PhaseSetRest:
		return CueSetRestStart, true
	case PhaseFinished:
		return CueFinish, true
	default:
		return "", false
	}
}

// SecondCue returns the per-second cue for a phase whose countdown just
// dropped to remaining. remaining is the value after the decrement.
func SecondCue(phase Phase, remaining int, warningWindow int) (Cue, bool) {
	if remaining <= 0 {
		return "", false
	}
	switch phase {
	case PhaseCountdown:
		return CueCountdownTick, true
	case PhaseWork, PhaseRest, PhaseSetRest:
		if remaining <= warningWindow {
			return CueWarningTick, true
		}
	}
	return "", false
}
