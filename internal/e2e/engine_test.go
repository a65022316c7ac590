// Package e2e drives the engine the way cmd/hq wires it: full registry,
// builtins, dispatch queue, event hub and HTTP API together.
package e2e

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ProfessorXZ/Headquarters/internal/api"
	"github.com/ProfessorXZ/Headquarters/internal/builtin"
	"github.com/ProfessorXZ/Headquarters/internal/command"
	"github.com/ProfessorXZ/Headquarters/internal/convert"
	"github.com/ProfessorXZ/Headquarters/internal/dispatch"
	"github.com/ProfessorXZ/Headquarters/internal/events"
	"github.com/ProfessorXZ/Headquarters/internal/exec"
	"github.com/ProfessorXZ/Headquarters/internal/token"
)

func newEngine(t *testing.T) (*dispatch.Queue, *events.Hub) {
	t.Helper()

	reg := command.NewRegistry()
	convert.RegisterDefaults(reg)
	require.NoError(t, builtin.RegisterAll(reg))

	hub := events.NewHub(64)
	q := dispatch.New(reg,
		dispatch.WithPoolLimit(8),
		dispatch.WithPollInterval(5*time.Millisecond),
		dispatch.WithHub(hub),
	)
	require.NoError(t, q.Start())
	t.Cleanup(q.Stop)
	return q, hub
}

func submitAndWait(t *testing.T, q *dispatch.Queue, input string) (exec.Outcome, any) {
	t.Helper()

	var (
		mu      sync.Mutex
		outcome exec.Outcome
		payload any
	)
	done := make(chan struct{})
	_, err := q.Submit(input, nil, func(o exec.Outcome, p any) {
		mu.Lock()
		outcome, payload = o, p
		mu.Unlock()
		close(done)
	})
	require.NoError(t, err)

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("submission %q never completed", input)
	}
	mu.Lock()
	defer mu.Unlock()
	return outcome, payload
}

func TestEndToEndPipeline(t *testing.T) {
	q, _ := newEngine(t)

	// Three stages: echo produces text, the second echo prepends its own
	// tokens before the forwarded value, upper shouts the lot.
	outcome, payload := submitAndWait(t, q, "echo world | echo hello | upper")
	require.Equal(t, exec.OutcomeSuccess, outcome)

	out, ok := payload.(token.Value)
	require.True(t, ok)
	assert.Equal(t, "HELLO WORLD", out.Str())
}

func TestEndToEndTypedPipeline(t *testing.T) {
	q, _ := newEngine(t)

	// The forwarded string lands in repeat's rest slot tagged as a
	// string already, so no converter runs for it.
	outcome, payload := submitAndWait(t, q, "echo na | repeat 3")
	require.Equal(t, exec.OutcomeSuccess, outcome)

	out := payload.(token.Value)
	assert.Equal(t, "na na na", out.Str())
}

func TestEndToEndAsyncCommand(t *testing.T) {
	q, _ := newEngine(t)

	outcome, payload := submitAndWait(t, q, "sleep 20ms")
	require.Equal(t, exec.OutcomeSuccess, outcome)

	out := payload.(token.Value)
	assert.Equal(t, token.KindDuration, out.Kind)
	assert.GreaterOrEqual(t, out.Duration(), 20*time.Millisecond)
}

func TestEndToEndUnhandledAbortsPipeline(t *testing.T) {
	q, _ := newEngine(t)

	outcome, payload := submitAndWait(t, q, "echo hi | nosuchcmd | upper")
	assert.Equal(t, exec.OutcomeUnhandled, outcome)
	assert.Nil(t, payload)
}

func TestEndToEndEventTrail(t *testing.T) {
	q, hub := newEngine(t)

	outcome, _ := submitAndWait(t, q, "calc add 2 3")
	require.Equal(t, exec.OutcomeSuccess, outcome)

	var types []string
	for _, ev := range hub.Recent(0) {
		types = append(types, ev.Type)
	}
	assert.Contains(t, types, events.TypeSubmitted)
	assert.Contains(t, types, events.TypeDequeued)
	assert.Contains(t, types, events.TypeCompleted)
}

func TestEndToEndOverHTTP(t *testing.T) {
	q, hub := newEngine(t)

	srv := api.New(api.Config{
		APIKey:        "e2e-key",
		SubmitTimeout: 5 * time.Second,
	}, q, q.Registry(), hub, slog.New(slog.DiscardHandler))

	ts := httptest.NewServer(srv.Routes())
	defer ts.Close()

	body, _ := json.Marshal(api.DispatchRequest{Input: "echo over http | upper"})
	req, err := http.NewRequest(http.MethodPost, ts.URL+"/v1/dispatch", bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer e2e-key")

	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out api.DispatchResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "success", out.Outcome)
	assert.Equal(t, "OVER HTTP", out.Output)
}
