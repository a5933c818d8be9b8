package api

import (
	"net/http"
	"strings"
)

const (
	defaultLogTail = 100
	maxLogTail     = 1000
)

type logsResponse struct {
	Lines []string `json:"lines"`
}

func (s *Server) handleGetLogs(w http.ResponseWriter, r *http.Request) {
	tail := parseIntQuery(r, "tail", defaultLogTail)
	if tail < 1 {
		tail = defaultLogTail
	}
	tail = min(tail, maxLogTail)

	raw := s.model.GetLogTail(tail)
	lines := make([]string, len(raw))
	for i, line := range raw {
		lines[i] = strings.TrimRight(line, "\n")
	}
	s.writeJSON(w, http.StatusOK, logsResponse{Lines: lines})
}
