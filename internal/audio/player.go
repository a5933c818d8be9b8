// Package audio plays interval cues as synthesized beeps.
package audio

import (
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"

	"github.com/lowaak/tabata-timer/internal/go_func_utils"
	"github.com/lowaak/tabata-timer/internal/interval"
)

const (
	DefaultSampleRate = 44100
	queueSize         = 8
)

// Config configures a Player
type Config struct {
	Enabled    bool
	SampleRate int
	// Volume is in the exponential units of effects.Volume with base 2:
	// 0 leaves the tones untouched, -1 halves them.
	Volume float64
}

// Player implements interval.CueSink. Play only queues the cue; sound is
// produced on the player's own goroutine and failures are logged.
type Player struct {
	logger  *log.Logger
	enabled bool
	volume  float64
	buffers map[interval.Cue]*beep.Buffer
	output  func(...beep.Streamer)
	closeFn func()

	queue     chan interval.Cue
	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
	dropped   atomic.Uint64
}

var _ interval.CueSink = (*Player)(nil)

// NewPlayer initializes the speaker and renders the cue tones. When audio
// is disabled or the speaker cannot be opened the returned Player is silent.
func NewPlayer(cfg Config, logger *log.Logger) *Player {
	if logger == nil {
		panic("Player: logger cannot be nil")
	}
	if !cfg.Enabled {
		logger.Printf("Audio: disabled by configuration")
		return silentPlayer(logger)
	}
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = DefaultSampleRate
	}

	sr := beep.SampleRate(cfg.SampleRate)
	if err := speaker.Init(sr, sr.N(time.Second/10)); err != nil {
		logger.Printf("Audio: disabled, failed to initialize speaker: %v", err)
		return silentPlayer(logger)
	}

	p, err := newPlayer(sr, cfg.Volume, speaker.Play, logger)
	if err != nil {
		logger.Printf("Audio: disabled, %v", err)
		speaker.Close()
		return silentPlayer(logger)
	}
	p.closeFn = speaker.Close
	return p
}

func silentPlayer(logger *log.Logger) *Player {
	return &Player{logger: logger}
}

func newPlayer(sr beep.SampleRate, volume float64, output func(...beep.Streamer), logger *log.Logger) (*Player, error) {
	buffers, err := renderAll(beep.Format{SampleRate: sr, NumChannels: 2, Precision: 2})
	if err != nil {
		return nil, err
	}
	p := &Player{
		logger:  logger,
		enabled: true,
		volume:  volume,
		buffers: buffers,
		output:  output,
		queue:   make(chan interval.Cue, queueSize),
		done:    make(chan struct{}),
	}
	go_func_utils.SafeGoGroup(&p.wg, logger, "Player", p.run)
	return p, nil
}

// Enabled reports whether cues produce sound
func (p *Player) Enabled() bool {
	return p.enabled
}

// Play queues cue for playback without blocking. When the queue is full the
// cue is dropped.
func (p *Player) Play(cue interval.Cue) {
	if !p.enabled {
		return
	}
	select {
	case <-p.done:
		return
	default:
	}
	select {
	case p.queue <- cue:
	default:
		p.dropped.Add(1)
	}
}

// Dropped is the number of cues skipped because the queue was full
func (p *Player) Dropped() uint64 {
	return p.dropped.Load()
}

// Close stops playback. Safe to call more than once.
func (p *Player) Close() {
	if !p.enabled {
		return
	}
	p.closeOnce.Do(func() {
		close(p.done)
		p.wg.Wait()
		if p.closeFn != nil {
			p.closeFn()
		}
	})
}

func (p *Player) run() {
	for {
		select {
		case <-p.done:
			return
		case cue := <-p.queue:
			buffer, ok := p.buffers[cue]
			if !ok {
				p.logger.Printf("Audio: no tone for cue %q", cue)
				continue
			}
			p.output(&effects.Volume{
				Streamer: buffer.Streamer(0, buffer.Len()),
				Base:     2,
				Volume:   p.volume,
			})
		}
	}
}
