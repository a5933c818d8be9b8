package interval

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPhaseStartCue(t *testing.T) {
	tests := []struct {
		phase Phase
		want  Cue
		ok    bool
	}{
		{PhaseIdle, "", false},
		{PhaseCountdown, "", false},
		{PhaseWork, CueWorkStart, true},
		{PhaseRest, CueRestStart, true},
		{PhaseSetRest, CueSetRestStart, true},
		{PhaseFinished, CueFinish, true},
	}
	for _, tt := range tests {
		cue, ok := PhaseStartCue(tt.phase)
		assert.Equal(t, tt.ok, ok, tt.phase.String())
		assert.Equal(t, tt.want, cue, tt.phase.String())
	}
}

func TestSecondCue(t *testing.T) {
	cue, ok := SecondCue(PhaseCountdown, 9, 3)
	assert.True(t, ok)
	assert.Equal(t, CueCountdownTick, cue)

	_, ok = SecondCue(PhaseCountdown, 0, 3)
	assert.False(t, ok, "reaching zero is announced by the next phase cue")

	for _, phase := range []Phase{PhaseWork, PhaseRest, PhaseSetRest} {
		for remaining := 1; remaining <= 3; remaining++ {
			cue, ok := SecondCue(phase, remaining, 3)
			assert.True(t, ok)
			assert.Equal(t, CueWarningTick, cue)
		}
		_, ok := SecondCue(phase, 4, 3)
		assert.False(t, ok)
		_, ok = SecondCue(phase, 4, 5)
		assert.True(t, ok, "window is tunable")
	}

	_, ok = SecondCue(PhaseIdle, 2, 3)
	assert.False(t, ok)
	_, ok = SecondCue(PhaseFinished, 2, 3)
	assert.False(t, ok)
}

func TestCueSinkFunc(t *testing.T) {
	var got []Cue
	var sink CueSink = CueSinkFunc(func(c Cue) { got = append(got, c) })
	sink.Play(CueFinish)
	assert.Equal(t, []Cue{CueFinish}, got)
}
