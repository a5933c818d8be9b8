package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/cockroachdb/errors"

	"github.com/lowaak/tabata-timer/internal/trainer"
)

const maxBodySize = 1 << 16 // 64 KB

func (s *Server) handleGetTimer(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.manager.GetState())
}

// handleCommand adapts a WorkoutManager command to a POST handler that
// replies with the resulting state.
func (s *Server) handleCommand(command func() (trainer.WorkoutState, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, err := command()
		if errors.Is(err, trainer.ErrManagerShutdown) {
			s.writeError(w, http.StatusServiceUnavailable, "timer is shut down")
			return
		}
		if err != nil {
			s.logger.Printf("API: Command failed: %v", err)
			s.writeError(w, http.StatusInternalServerError, "command failed")
			return
		}
		s.writeJSON(w, http.StatusOK, state)
	}
}

// handleUpdateSettings decodes the body over the current settings, so
// fields left out keep their values.
func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	settings := s.manager.GetState().Settings
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&settings); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := settings.Validate(); err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	state, err := s.manager.UpdateSettings(settings)
	if errors.Is(err, trainer.ErrManagerShutdown) {
		s.writeError(w, http.StatusServiceUnavailable, "timer is shut down")
		return
	}
	if err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if s.store != nil {
		if err := s.store.Save(state.Settings); err != nil {
			s.logger.Printf("API: Failed to save settings: %v", err)
		}
	}
	s.writeJSON(w, http.StatusOK, state)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Printf("API: Failed to encode response: %v", err)
	}
}

// writeError writes a JSON error response.
func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultVal int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return n
}
