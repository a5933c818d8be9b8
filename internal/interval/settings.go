package interval

import (
	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
)

// Settings describes one workout. All durations are whole seconds.
type Settings struct {
	WorkTime        int `yaml:"work_time" mapstructure:"work_time" json:"work_time" default:"20" validate:"gt=0"`
	RestTime        int `yaml:"rest_time" mapstructure:"rest_time" json:"rest_time" default:"10" validate:"gt=0"`
	Rounds          int `yaml:"rounds" mapstructure:"rounds" json:"rounds" default:"8" validate:"gt=0"`
	Sets            int `yaml:"sets" mapstructure:"sets" json:"sets" default:"1" validate:"gt=0"`
	RestBetweenSets int `yaml:"rest_between_sets" mapstructure:"rest_between_sets" json:"rest_between_sets" default:"60" validate:"gte=0"`
	CountdownTime   int `yaml:"countdown_time" mapstructure:"countdown_time" json:"countdown_time" default:"5" validate:"gt=0"`
}

var settingsValidator = validator.New()

// DefaultSettings returns a classic tabata: 8 rounds of 20s work / 10s rest
func DefaultSettings() Settings {
	var s Settings
	if err := defaults.Set(&s); err != nil {
		// only reachable if the struct tags above are malformed
		panic(err)
	}
	return s
}

// Validate reports whether the settings can be handed to an Engine.
// The engine itself never validates; hosts call this at their boundary.
func (s Settings) Validate() error {
	if err := settingsValidator.Struct(s); err != nil {
		return errors.Wrap(err, "invalid workout settings")
	}
	return nil
}

// SetDuration is the length of one set: every work phase plus the rests between them.
func (s Settings) SetDuration() int {
	return s.Rounds*s.WorkTime + (s.Rounds-1)*s.RestTime
}
