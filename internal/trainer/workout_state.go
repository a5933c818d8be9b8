package trainer

import "github.com/lowaak/tabata-timer/internal/interval"

// WorkoutState is the snapshot published after every command and tick
type WorkoutState struct {
	RunID         string            `json:"run_id,omitempty"` // Set when a run starts from idle
	State         interval.State    `json:"state"`
	Settings      interval.Settings `json:"settings"`
	Label         string            `json:"label"`
	RemainingTime int               `json:"remaining_time"` // Seconds until the workout finishes
	ElapsedTime   int               `json:"elapsed_time"`
	TotalDuration int               `json:"total_duration"`
	Cycle         int               `json:"cycle"`
	TotalCycles   int               `json:"total_cycles"`
}

func buildWorkoutState(runID string, state interval.State, settings interval.Settings) WorkoutState {
	return WorkoutState{
		RunID:         runID,
		State:         state,
		Settings:      settings,
		Label:         interval.StatusLabel(state),
		RemainingTime: interval.RemainingTime(state, settings),
		ElapsedTime:   interval.ElapsedTime(state, settings),
		TotalDuration: interval.TotalDuration(settings),
		Cycle:         interval.CycleNumber(state, settings),
		TotalCycles:   interval.TotalCycles(settings),
	}
}

// Progress is the per-set, per-round grid for this snapshot
func (s WorkoutState) Progress() [][]interval.CycleStatus {
	return interval.Progress(s.State, s.Settings)
}
