// Package command defines command metadata and the registry that resolves
// raw input lines to registered commands.
//
// A command is identified by one or more aliases. Its handler is a statically
// typed closure built at registration time; there is no reflection anywhere
// in the invocation path. Parameter specs describe how many tokens each
// handler argument consumes and what kind the binder must produce for it.
package command

import (
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/ProfessorXZ/Headquarters/internal/token"
)

// Handler is a synchronous command implementation. It receives the
// invocation context and the bound arguments in declaration order.
type Handler func(ctx *Context, args []token.Value) (token.Value, error)

// AsyncResult carries the completion of an asynchronous handler.
type AsyncResult struct {
	Value token.Value
	Err   error
}

// AsyncHandler is an asynchronous command implementation. The returned
// channel must deliver exactly one result. The executor that runs the
// command waits for it on its own goroutine; the dispatch worker is never
// blocked by that wait.
type AsyncHandler func(ctx *Context, args []token.Value) <-chan AsyncResult

// ParamSpec describes one handler parameter.
type ParamSpec struct {
	// Kind is the value kind the binder must produce for this slot.
	Kind token.Kind
	// Count is the number of tokens the slot consumes. Zero or negative
	// means all remaining tokens.
	Count int
}

// Command is the registered metadata for one command. Registration is
// append-only; a Command is shared, long-lived and must not be mutated
// after it has been registered.
type Command struct {
	// Name is the canonical name, used for logs and listings.
	Name string
	// Aliases select this command from raw input. Matching is
	// case-insensitive and happens in slice order.
	Aliases []AliasMatcher
	// Help is a one-line description for listings.
	Help string

	// Exactly one of Handler / AsyncHandler is set.
	Handler      Handler
	AsyncHandler AsyncHandler

	// Params are the handler's parameter specs in declaration order.
	Params []ParamSpec
	// Subcommands are tried, in order, against the input remaining after
	// the alias was stripped. No match leaves the parent command active.
	Subcommands []*Command
	// NewReceiver, when set, builds a fresh receiver instance for every
	// invocation. The instance is placed on the Context before the
	// handler runs; nothing is pooled or reused across invocations.
	NewReceiver func() any
}

// Async reports whether the command's handler completes asynchronously.
func (c *Command) Async() bool { return c.AsyncHandler != nil }

// Invocable reports whether the command has a handler to run.
func (c *Command) Invocable() bool { return c.Handler != nil || c.AsyncHandler != nil }

// AliasNames returns the textual form of all word aliases, for listings.
func (c *Command) AliasNames() []string {
	out := make([]string, 0, len(c.Aliases))
	for _, a := range c.Aliases {
		if w, ok := a.(Alias); ok {
			out = append(out, string(w))
		}
	}
	return out
}

// Context is the capability bag passed through to handlers. One Context is
// created per submission and shared by every stage of a pipeline.
type Context struct {
	// ID identifies the submission that triggered this invocation.
	ID uuid.UUID
	// Env carries caller-supplied values through to handlers.
	Env map[string]any
	// Logger is scoped to the submission.
	Logger *slog.Logger
	// Receiver is the per-invocation instance built by the command's
	// NewReceiver factory, nil otherwise.
	Receiver any
}

// AliasMatcher decides whether an input line selects a command and strips
// the matched text. Matching must be case-insensitive. The alias pattern
// language is pluggable; Alias is the word matcher used by most commands.
type AliasMatcher interface {
	// Match reports whether input starts with this alias and returns the
	// remaining text with the alias and any following whitespace removed.
	Match(input string) (rest string, ok bool)
}

// Alias matches a literal word at the start of the input. The word must be
// followed by end of input or whitespace, so alias "add" does not match
// "address".
type Alias string

// Match implements AliasMatcher.
func (a Alias) Match(input string) (string, bool) {
	word := string(a)
	if len(input) < len(word) || !strings.EqualFold(input[:len(word)], word) {
		return "", false
	}
	rest := input[len(word):]
	if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
		return "", false
	}
	return strings.TrimLeft(rest, " \t"), true
}

// Words builds word matchers from plain alias strings.
func Words(names ...string) []AliasMatcher {
	out := make([]AliasMatcher, len(names))
	for i, n := range names {
		out[i] = Alias(n)
	}
	return out
}
