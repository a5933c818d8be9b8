package interval

import "fmt"

// TotalDuration is the length of a workout from the first work phase to the
// end, without the countdown lead-in. The rest after the last set is never taken.
func TotalDuration(settings Settings) int {
	return settings.Sets*settings.SetDuration() + (settings.Sets-1)*settings.RestBetweenSets
}

// RemainingTime returns the seconds left in the whole workout. It only reads
// its arguments, so any display can call it as often as it likes.
func RemainingTime(state State, settings Settings) int {
	w, r := settings.WorkTime, settings.RestTime

	// every set after the current one, each preceded by its set rest
	laterSets := func(set int) int {
		return max(settings.Sets-set, 0) * (settings.RestBetweenSets + settings.SetDuration())
	}

	switch state.Phase {
	case PhaseIdle, PhaseCountdown:
		return TotalDuration(settings)

	case PhaseWork:
		roundsLeft := max(settings.Rounds-state.Round, 0)
		return state.SecondsRemaining + roundsLeft*(w+r) + laterSets(state.Set)

	case PhaseRest:
		// the round counter only moves when the next work starts
		roundsLeft := max(settings.Rounds-state.Round, 1)
		return state.SecondsRemaining + roundsLeft*w + (roundsLeft-1)*r + laterSets(state.Set)

	case PhaseSetRest:
		return state.SecondsRemaining + settings.SetDuration() + laterSets(state.Set)

	default:
		return 0
	}
}

// ElapsedTime is how far into TotalDuration the workout is
func ElapsedTime(state State, settings Settings) int {
	return TotalDuration(settings) - RemainingTime(state, settings)
}

// CycleNumber is the 1-based index of the current round across all sets.
func CycleNumber(state State, settings Settings) int {
	return (state.Set-1)*settings.Rounds + state.Round
}

// TotalCycles is the number of work phases in the workout
func TotalCycles(settings Settings) int {
	return settings.Rounds * settings.Sets
}

// FormatClock renders seconds as mm:ss. Negative values show as 00:00.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// StatusLabel is the headline shown for a state
func StatusLabel(state State) string {
	if state.Paused() {
		return "PAUSED"
	}
	switch state.Phase {
	case PhaseCountdown:
		return "GET READY"
	case PhaseWork:
		return "WORK"
	case PhaseRest:
		return "REST"
	case PhaseSetRest:
		return "SET REST"
	case PhaseFinished:
		return "FINISHED"
	default:
		return "READY"
	}
}

// CycleStatus marks one round of one set in the progress grid.
type CycleStatus int

const (
	CyclePending CycleStatus = iota
	CycleActive
	CycleCompleted
)

// Progress returns one row per set and one entry per round. Once the workout
// is finished every cycle counts as completed.
func Progress(state State, settings Settings) [][]CycleStatus {
	grid := make([][]CycleStatus, settings.Sets)
	for set := 1; set <= settings.Sets; set++ {
		row := make([]CycleStatus, settings.Rounds)
		for round := 1; round <= settings.Rounds; round++ {
			switch {
			case state.Phase == PhaseFinished:
				row[round-1] = CycleCompleted
			case set == state.Set && round == state.Round:
				row[round-1] = CycleActive
			case set < state.Set || (set == state.Set && round < state.Round):
				row[round-1] = CycleCompleted
			}
		}
		grid[set-1] = row
	}
	return grid
}
