package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/ProfessorXZ/Headquarters/internal/exec"
	"github.com/ProfessorXZ/Headquarters/internal/token"
)

type completion struct {
	outcome exec.Outcome
	payload any
}

// handleDispatch submits the input line and blocks until its callback
// fires or the submit timeout expires.
func (s *Server) handleDispatch(w http.ResponseWriter, r *http.Request) {
	select {
	case s.syncSem <- struct{}{}:
		defer func() { <-s.syncSem }()
	default:
		s.writeError(w, http.StatusTooManyRequests, "too many concurrent dispatches")
		return
	}

	var req DispatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Input) == "" {
		s.writeError(w, http.StatusBadRequest, "input must not be empty")
		return
	}

	done := make(chan completion, 1)
	id, err := s.queue.Submit(req.Input, req.Env, func(o exec.Outcome, payload any) {
		done <- completion{outcome: o, payload: payload}
	})
	if err != nil {
		s.writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	timeout := time.NewTimer(s.config.SubmitTimeout)
	defer timeout.Stop()

	select {
	case <-r.Context().Done():
		s.writeError(w, http.StatusRequestTimeout, "client went away")
	case <-timeout.C:
		s.writeError(w, http.StatusGatewayTimeout, "dispatch timed out")
	case c := <-done:
		resp := DispatchResponse{
			SubmissionID: id.String(),
			Outcome:      c.outcome.String(),
		}
		switch p := c.payload.(type) {
		case token.Value:
			if !p.IsNone() {
				resp.Output = p.Text()
				resp.Kind = p.Kind.String()
			}
		case error:
			resp.Error = p.Error()
		}
		respondJSON(w, http.StatusOK, resp)
	}
}

func (s *Server) handleCommands(w http.ResponseWriter, _ *http.Request) {
	cmds := s.commands.Commands()
	resp := CommandsResponse{Commands: make([]CommandInfo, 0, len(cmds))}
	for _, c := range cmds {
		resp.Commands = append(resp.Commands, CommandInfo{
			Name:    c.Name,
			Aliases: c.AliasNames(),
			Help:    c.Help,
			Async:   c.Async(),
		})
	}
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, HealthzResponse{
		Status:         "ok",
		UptimeSeconds:  int64(time.Since(s.startedAt).Seconds()),
		CommandsLoaded: len(s.commands.Commands()),
	})
}

func respondJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) writeError(w http.ResponseWriter, statusCode int, message string) {
	respondJSON(w, statusCode, ErrorResponse{Error: message})
}
