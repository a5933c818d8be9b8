package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/lowaak/tabata-timer/internal/interval"
	"github.com/lowaak/tabata-timer/internal/trainer"
)

const streamBufferSize = 16

// SSE event names
const (
	eventState = "state"
	eventCue   = "cue"
)

type cueEvent struct {
	Cue interval.Cue `json:"cue"`
}

// handleStreamEvents streams every published WorkoutState and every cue as
// server-sent events. The first event is the current state. A client that
// falls behind misses events rather than slowing the timer.
func (s *Server) handleStreamEvents(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	// Disable write timeout for long-lived SSE connections.
	rc := http.NewResponseController(w)
	if err := rc.SetWriteDeadline(time.Time{}); err != nil {
		s.logger.Printf("API: Failed to clear SSE write deadline: %v", err)
	}

	states := make(chan trainer.WorkoutState, streamBufferSize)
	unlistenStates := s.model.ListenToWorkoutState(states)
	defer unlistenStates()

	cues := make(chan interval.Cue, streamBufferSize)
	unlistenCues := s.manager.ListenToCues(func(cue interval.Cue) {
		select {
		case cues <- cue:
		default:
		}
	})
	defer unlistenCues()

	w.WriteHeader(http.StatusOK)
	flusher, canFlush := w.(http.Flusher)
	if canFlush {
		flusher.Flush()
	}

	for {
		var err error
		select {
		case state := <-states:
			err = writeSSEJSON(w, eventState, state)
		case cue := <-cues:
			err = writeSSEJSON(w, eventCue, cueEvent{Cue: cue})
		case <-r.Context().Done():
			return // Client disconnected.
		}
		if err != nil {
			return // Write failed (e.g. client gone).
		}
		if canFlush {
			flusher.Flush()
		}
	}
}

func writeSSEJSON(w http.ResponseWriter, eventType string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return writeSSEEvent(w, eventType, string(data))
}

// writeSSEEvent writes a named SSE event. Multi-line data is split so each
// segment gets its own "data:" prefix.
func writeSSEEvent(w http.ResponseWriter, eventType, data string) error {
	if _, err := fmt.Fprintf(w, "event: %s\n", eventType); err != nil {
		return err
	}
	for seg := range strings.SplitSeq(data, "\n") {
		if _, err := fmt.Fprintf(w, "data: %s\n", seg); err != nil {
			return err
		}
	}
	// Blank line terminates the event.
	_, err := fmt.Fprint(w, "\n")
	return err
}
