package trainer

import (
	"bytes"
	"sync"
)

// UILogWriter feeds whole log lines into the channel read by UIModel.
// Lines are dropped when the channel is full so logging never blocks.
type UILogWriter struct {
	mu      sync.Mutex
	ch      chan<- string
	pending []byte
}

// NewUILogWriter creates a writer sending to ch
func NewUILogWriter(ch chan<- string) *UILogWriter {
	if ch == nil {
		panic("UILogWriter: channel cannot be nil")
	}
	return &UILogWriter{ch: ch}
}

// Write implements io.Writer. Each complete line is sent with its newline.
func (w *UILogWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending = append(w.pending, p...)
	for {
		idx := bytes.IndexByte(w.pending, '\n')
		if idx < 0 {
			break
		}
		line := string(w.pending[:idx+1])
		w.pending = w.pending[idx+1:]
		select {
		case w.ch <- line:
		default:
		}
	}
	return len(p), nil
}
