package api

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLogs(t *testing.T) {
	srv := newTestServer(t)
	for _, line := range []string{"first\n", "second\n", "third\n"} {
		srv.logChan <- line
	}
	require.Eventually(t, func() bool { return len(srv.model.GetLogTail(10)) == 3 },
		2*time.Second, time.Millisecond)

	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"first", "second", "third"}},
		{"?tail=2", []string{"second", "third"}},
		{"?tail=0", []string{"first", "second", "third"}},
		{"?tail=abc", []string{"first", "second", "third"}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			resp, err := http.Get(srv.ts.URL + "/v1/logs" + tt.query)
			require.NoError(t, err)
			defer resp.Body.Close()
			require.Equal(t, http.StatusOK, resp.StatusCode)

			var body logsResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.want, body.Lines)
		})
	}
}

func TestGetLogs_Empty(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.ts.URL + "/v1/logs")
	require.NoError(t, err)
	defer resp.Body.Close()

	var body logsResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.NotNil(t, body.Lines)
	assert.Empty(t, body.Lines)
}
