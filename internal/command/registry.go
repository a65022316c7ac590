package command

import (
	"fmt"
	"strings"
	"sync"

	"github.com/ProfessorXZ/Headquarters/internal/token"
)

//go:generate mockgen -destination=mocks/mock_converter.go -package=mocks github.com/ProfessorXZ/Headquarters/internal/command Converter

// Converter turns raw tokens into a typed value. A failed conversion is
// signaled by ok=false, never by a panic; converters are expected to be
// total functions over their token input.
type Converter interface {
	// FromToken converts a single token.
	FromToken(tok token.Value, ctx *Context) (token.Value, bool)
	// FromTokens converts a multi-token slot.
	FromTokens(toks []token.Value, ctx *Context) (token.Value, bool)
}

// FallbackBuilder constructs values for kinds that have no registered
// converter, and default values for empty slots.
type FallbackBuilder interface {
	// ConstructDefault builds the empty value for a kind.
	ConstructDefault(k token.Kind) token.Value
	// ConstructFromTokens attempts to build a value of kind k directly
	// from raw tokens plus the invocation context.
	ConstructFromTokens(k token.Kind, toks []token.Value, ctx *Context) (token.Value, bool)
}

// Registry stores registered commands and the converter table. Registration
// is append-only and safe to call while dispatch is running. Reads operate
// on point-in-time copies taken under a short-held lock, never on the live
// slice.
type Registry struct {
	mu         sync.Mutex
	commands   []*Command
	converters map[token.Kind]Converter
	fallback   FallbackBuilder
}

// Match is one resolution result: the command plus the input remaining
// after its alias was stripped.
type Match struct {
	Command *Command
	Rest    string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{converters: make(map[token.Kind]Converter)}
}

// Register appends a command. Commands are never removed; resolution order
// is registration order.
func (r *Registry) Register(cmd *Command) error {
	if cmd == nil {
		return fmt.Errorf("register: command is nil")
	}
	if cmd.Name == "" {
		return fmt.Errorf("register: command name is empty")
	}
	if len(cmd.Aliases) == 0 {
		return fmt.Errorf("register %q: command has no aliases", cmd.Name)
	}
	if err := validateInvocable(cmd); err != nil {
		return fmt.Errorf("register %q: %w", cmd.Name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands = append(r.commands, cmd)
	return nil
}

func validateInvocable(cmd *Command) error {
	if cmd.Handler != nil && cmd.AsyncHandler != nil {
		return fmt.Errorf("both sync and async handlers set")
	}
	if !cmd.Invocable() && len(cmd.Subcommands) == 0 {
		return fmt.Errorf("no handler and no subcommands")
	}
	for _, sub := range cmd.Subcommands {
		if err := validateInvocable(sub); err != nil {
			return fmt.Errorf("subcommand %q: %w", sub.Name, err)
		}
	}
	return nil
}

// Resolve matches a raw input line against every registered alias and
// returns the matches in registration order. Matching is case-insensitive;
// the remainder handed back as Rest keeps the caller's original casing.
// When several commands share an alias the first registered wins; callers
// take matches[0].
func (r *Registry) Resolve(input string) []Match {
	trimmed := strings.TrimSpace(input)

	snapshot := r.snapshot()

	var out []Match
	for _, cmd := range snapshot {
		for _, alias := range cmd.Aliases {
			if rest, ok := alias.Match(trimmed); ok {
				out = append(out, Match{Command: cmd, Rest: rest})
				break
			}
		}
	}
	return out
}

// Commands returns a point-in-time copy of the registered commands.
func (r *Registry) Commands() []*Command {
	return r.snapshot()
}

func (r *Registry) snapshot() []*Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Command, len(r.commands))
	copy(out, r.commands)
	return out
}

// RegisterConverter installs the converter for a kind, replacing any
// previous one.
func (r *Registry) RegisterConverter(k token.Kind, c Converter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.converters[k] = c
}

// Converter looks up the converter for a kind.
func (r *Registry) Converter(k token.Kind) (Converter, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.converters[k]
	return c, ok
}

// SetFallback installs the fallback builder used for kinds without a
// registered converter.
func (r *Registry) SetFallback(b FallbackBuilder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallback = b
}

// ConstructDefault builds the empty value for a kind, delegating to the
// fallback builder when one is installed.
func (r *Registry) ConstructDefault(k token.Kind) token.Value {
	r.mu.Lock()
	fb := r.fallback
	r.mu.Unlock()
	if fb != nil {
		return fb.ConstructDefault(k)
	}
	return token.Zero(k)
}

// ConstructFromTokens builds a value of kind k from raw tokens via the
// fallback builder. Without a builder the construction fails.
func (r *Registry) ConstructFromTokens(k token.Kind, toks []token.Value, ctx *Context) (token.Value, bool) {
	r.mu.Lock()
	fb := r.fallback
	r.mu.Unlock()
	if fb == nil {
		return token.None(), false
	}
	return fb.ConstructFromTokens(k, toks, ctx)
}
