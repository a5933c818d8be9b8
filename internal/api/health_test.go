package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lowaak/tabata-timer/internal/trainer"
)

func TestHealthzEndpoint(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var body healthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body.Status)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t)

	// Generate request, cue and phase metrics.
	resp, err := http.Get(srv.ts.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	srv.post(t, "/v1/timer/start").Body.Close()
	srv.tick(t)
	srv.tick(t)

	resp, err = http.Get(srv.ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	contentType := resp.Header.Get("Content-Type")
	assert.True(t, strings.Contains(contentType, "text/plain") || strings.Contains(contentType, "text/openmetrics"),
		"Content-Type = %q, expected prometheus format", contentType)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	text := string(body)

	assert.Contains(t, text, `tabata_http_requests_total{method="GET",path="/healthz",status="200"}`)
	assert.Contains(t, text, "tabata_http_request_duration_seconds")
	assert.Contains(t, text, `tabata_cues_total{cue="countdown-tick"}`)
	assert.Contains(t, text, `tabata_cues_total{cue="work-start"}`)
	assert.Contains(t, text, `tabata_phase_transitions_total{phase="countdown"}`)
	assert.Contains(t, text, `tabata_phase_transitions_total{phase="work"}`)
}

func TestRoutePatternUnmatched(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.ts.URL + "/does-not-exist")
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = http.Get(srv.ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `path="unmatched"`)
}

func TestMetricsEndpoint_DroppedSnapshots(t *testing.T) {
	srv := newTestServer(t)

	// A listener that never reads misses the replayed state and every later one.
	stalled := make(chan trainer.WorkoutState)
	unlisten := srv.model.ListenToWorkoutState(stalled)
	defer unlisten()
	srv.post(t, "/v1/timer/start").Body.Close()

	resp, err := http.Get(srv.ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "tabata_state_snapshots_dropped 2")
}
