package trainer

import (
	"time"

	"github.com/lowaak/tabata-timer/internal/interval"
)

// DefaultTickInterval is the length of one engine second
const DefaultTickInterval = 1 * time.Second

// UIMode represents the current UI mode/screen
type UIMode int

const (
	UIModeTimer    UIMode = iota // Running clock, progress and controls
	UIModeSettings               // Workout settings editor
)

// UIModeInfo contains display information for a UI mode
type UIModeInfo struct {
	Mode        UIMode
	DisplayName string
	KeyBinding  rune // The number key to activate this mode (1-9)
}

// AllUIModes defines all available UI modes in order
var AllUIModes = []UIModeInfo{
	{Mode: UIModeTimer, DisplayName: "Timer", KeyBinding: '1'},
	{Mode: UIModeSettings, DisplayName: "Settings", KeyBinding: '2'},
}

// GetUIModeByKey returns the mode for a given key binding
func GetUIModeByKey(key rune) (UIMode, bool) {
	for _, info := range AllUIModes {
		if info.KeyBinding == key {
			return info.Mode, true
		}
	}
	return 0, false
}

// GetUIModeInfo returns the display information for a mode
func GetUIModeInfo(mode UIMode) (UIModeInfo, bool) {
	for _, info := range AllUIModes {
		if info.Mode == mode {
			return info, true
		}
	}
	return UIModeInfo{}, false
}

// SettingField identifies one editable workout setting
type SettingField int

const (
	SettingSets SettingField = iota
	SettingRounds
	SettingWorkTime
	SettingRestTime
	SettingRestBetweenSets
	SettingCountdownTime
)

// SettingFieldInfo holds the editor bounds of a setting
type SettingFieldInfo struct {
	Field       SettingField
	DisplayName string
	Unit        string
	Min         int
	Max         int
	Step        int
}

// AllSettingFields lists the editable settings in display order.
// Bounds match the slider ranges of the settings screen.
var AllSettingFields = []SettingFieldInfo{
	{Field: SettingSets, DisplayName: "Sets", Min: 1, Max: 8, Step: 1},
	{Field: SettingRounds, DisplayName: "Rounds", Min: 1, Max: 12, Step: 1},
	{Field: SettingWorkTime, DisplayName: "Work", Unit: "s", Min: 5, Max: 60, Step: 5},
	{Field: SettingRestTime, DisplayName: "Rest", Unit: "s", Min: 5, Max: 60, Step: 5},
	{Field: SettingRestBetweenSets, DisplayName: "Rest between sets", Unit: "s", Min: 0, Max: 180, Step: 15},
	{Field: SettingCountdownTime, DisplayName: "Countdown", Unit: "s", Min: 3, Max: 10, Step: 1},
}

// GetSettingFieldInfo returns the bounds for field
func GetSettingFieldInfo(field SettingField) (SettingFieldInfo, bool) {
	for _, info := range AllSettingFields {
		if info.Field == field {
			return info, true
		}
	}
	return SettingFieldInfo{}, false
}

// Value reads the field from settings
func (f SettingField) Value(settings interval.Settings) int {
	switch f {
	case SettingSets:
		return settings.Sets
	case SettingRounds:
		return settings.Rounds
	case SettingWorkTime:
		return settings.WorkTime
	case SettingRestTime:
		return settings.RestTime
	case SettingRestBetweenSets:
		return settings.RestBetweenSets
	case SettingCountdownTime:
		return settings.CountdownTime
	}
	return 0
}

func (f SettingField) set(settings *interval.Settings, value int) {
	switch f {
	case SettingSets:
		settings.Sets = value
	case SettingRounds:
		settings.Rounds = value
	case SettingWorkTime:
		settings.WorkTime = value
	case SettingRestTime:
		settings.RestTime = value
	case SettingRestBetweenSets:
		settings.RestBetweenSets = value
	case SettingCountdownTime:
		settings.CountdownTime = value
	}
}

// AdjustSetting moves field by steps increments and clamps it to its bounds
func AdjustSetting(settings interval.Settings, field SettingField, steps int) interval.Settings {
	info, ok := GetSettingFieldInfo(field)
	if !ok {
		return settings
	}
	value := field.Value(settings) + steps*info.Step
	field.set(&settings, clamp(value, info.Min, info.Max))
	return settings
}

// ClampSettings forces every field into its editor bounds
func ClampSettings(settings interval.Settings) interval.Settings {
	for _, info := range AllSettingFields {
		info.Field.set(&settings, clamp(info.Field.Value(settings), info.Min, info.Max))
	}
	return settings
}

func clamp(value, lo, hi int) int {
	return max(lo, min(value, hi))
}
