package api

// DispatchRequest is the body of POST /v1/dispatch.
type DispatchRequest struct {
	// Input is the raw command line, pipes included.
	Input string `json:"input"`
	// Env carries optional invocation metadata through to handlers.
	Env map[string]any `json:"env,omitempty"`
}

// DispatchResponse is the result of a synchronous dispatch.
type DispatchResponse struct {
	SubmissionID string `json:"submission_id"`
	Outcome      string `json:"outcome"`
	Output       string `json:"output,omitempty"`
	Kind         string `json:"kind,omitempty"`
	Error        string `json:"error,omitempty"`
}

// CommandInfo describes one registered command for discovery.
type CommandInfo struct {
	Name    string   `json:"name"`
	Aliases []string `json:"aliases"`
	Help    string   `json:"help,omitempty"`
	Async   bool     `json:"async"`
}

// CommandsResponse is the body of GET /v1/commands.
type CommandsResponse struct {
	Commands []CommandInfo `json:"commands"`
}

// HealthzResponse is the body of GET /healthz.
type HealthzResponse struct {
	Status         string `json:"status"`
	UptimeSeconds  int64  `json:"uptime_seconds"`
	CommandsLoaded int    `json:"commands_loaded"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error string `json:"error"`
}
