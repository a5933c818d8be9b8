package audio

import (
	"math"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"

	"github.com/lowaak/tabata-timer/internal/interval"
)

// tone is one sine beep. Gain decays exponentially from peak to fadeFloor
// over the tone, after a 10ms attack.
type tone struct {
	freq     float64
	duration time.Duration
	peak     float64
	delay    time.Duration // offset from the start of the cue
}

const (
	fadeFloor  = 0.01
	attackTime = 10 * time.Millisecond
)

var (
	countdownTone = tone{freq: 800, duration: 100 * time.Millisecond, peak: 0.4}
	warningTone   = tone{freq: 1000, duration: 100 * time.Millisecond, peak: 0.3}
	startTone     = tone{freq: 600, duration: 200 * time.Millisecond, peak: 0.5}
)

// cueTones maps every cue to the beeps that make it up
var cueTones = map[interval.Cue][]tone{
	interval.CueCountdownTick: {countdownTone},
	interval.CueWarningTick:   {warningTone},
	interval.CueWorkStart:     {startTone},
	interval.CueRestStart:     {startTone},
	interval.CueSetRestStart:  {startTone},
	// C5, E5, G5
	interval.CueFinish: {
		{freq: 523, duration: 300 * time.Millisecond, peak: 0.4},
		{freq: 659, duration: 300 * time.Millisecond, peak: 0.4, delay: 200 * time.Millisecond},
		{freq: 784, duration: 400 * time.Millisecond, peak: 0.5, delay: 400 * time.Millisecond},
	},
}

// envelope applies the attack and decay of a tone to a finite streamer
type envelope struct {
	streamer beep.Streamer
	pos      int
	attack   int
	total    int
	peak     float64
}

func (e *envelope) Stream(samples [][2]float64) (int, bool) {
	n, ok := e.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		g := e.gain(e.pos)
		samples[i][0] *= g
		samples[i][1] *= g
		e.pos++
	}
	return n, ok
}

func (e *envelope) Err() error {
	return e.streamer.Err()
}

func (e *envelope) gain(pos int) float64 {
	if pos < e.attack {
		return e.peak * float64(pos) / float64(e.attack)
	}
	frac := float64(pos) / float64(e.total)
	return e.peak * math.Pow(fadeFloor/e.peak, frac)
}

func (t tone) streamer(sr beep.SampleRate) (beep.Streamer, error) {
	sine, err := generators.SineTone(sr, t.freq)
	if err != nil {
		return nil, errors.Wrapf(err, "sine tone %.0fHz", t.freq)
	}
	total := sr.N(t.duration)
	shaped := &envelope{
		streamer: beep.Take(total, sine),
		attack:   sr.N(attackTime),
		total:    total,
		peak:     t.peak,
	}
	return beep.Seq(beep.Silence(sr.N(t.delay)), shaped), nil
}

// renderCue synthesizes every beep of a cue into one buffer
func renderCue(format beep.Format, tones []tone) (*beep.Buffer, error) {
	streamers := make([]beep.Streamer, 0, len(tones))
	for _, t := range tones {
		s, err := t.streamer(format.SampleRate)
		if err != nil {
			return nil, err
		}
		streamers = append(streamers, s)
	}
	buffer := beep.NewBuffer(format)
	buffer.Append(beep.Mix(streamers...))
	return buffer, nil
}

func renderAll(format beep.Format) (map[interval.Cue]*beep.Buffer, error) {
	buffers := make(map[interval.Cue]*beep.Buffer, len(cueTones))
	for cue, tones := range cueTones {
		buffer, err := renderCue(format, tones)
		if err != nil {
			return nil, errors.Wrapf(err, "render %s", cue)
		}
		buffers[cue] = buffer
	}
	return buffers, nil
}
