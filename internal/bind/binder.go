// Package bind maps raw input text to typed handler arguments and invokes
// the handler.
//
// One Run call owns its binding state end to end: subcommand resolution,
// tokenization, slot conversion and the invocation itself all happen on the
// calling goroutine. Nothing in here is shared between concurrent runs, so
// any number of binds may execute in parallel against the same registry.
package bind

import (
	"fmt"

	"github.com/ProfessorXZ/Headquarters/internal/command"
	"github.com/ProfessorXZ/Headquarters/internal/token"
)

// Binder binds tokens to command parameters using the registry's converter
// table. A Binder is stateless and safe for concurrent use.
type Binder struct {
	registry *command.Registry
}

// New creates a Binder backed by reg.
func New(reg *command.Registry) *Binder {
	return &Binder{registry: reg}
}

// Run resolves subcommands, binds input to cmd's parameters and invokes its
// handler. forwarded values, if any, are appended after the tokenized input
// in order. The returned error is ErrInvalidArguments, a *ParseError or a
// *HandlerError; a panic inside the handler is recovered exactly once and
// reported as a *HandlerError.
func (b *Binder) Run(ctx *command.Context, cmd *command.Command, input string, forwarded []token.Value) (out token.Value, err error) {
	if cmd == nil || (!cmd.Invocable() && len(cmd.Subcommands) == 0) {
		return token.None(), ErrInvalidArguments
	}

	defer func() {
		if r := recover(); r != nil {
			out = token.None()
			err = &HandlerError{Command: cmd.Name, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	active, rest := resolveSubcommand(cmd, input)
	if !active.Invocable() {
		return token.None(), ErrInvalidArguments
	}

	toks := token.Raw(token.Split(rest))
	toks = append(toks, forwarded...)

	args, err := b.bindArgs(ctx, active, toks)
	if err != nil {
		return token.None(), err
	}

	if active.NewReceiver != nil {
		ctx.Receiver = active.NewReceiver()
	}

	return invoke(ctx, active, args)
}

// resolveSubcommand switches to the first subcommand whose alias matches
// the input prefix. No match is not an error; the parent stays active.
func resolveSubcommand(cmd *command.Command, input string) (*command.Command, string) {
	if len(cmd.Subcommands) == 0 || input == "" {
		return cmd, input
	}
	for _, sub := range cmd.Subcommands {
		for _, alias := range sub.Aliases {
			if rest, ok := alias.Match(input); ok {
				return sub, rest
			}
		}
	}
	return cmd, input
}

// bindArgs walks the parameter specs in declared order, consuming token
// slots with a cursor.
func (b *Binder) bindArgs(ctx *command.Context, cmd *command.Command, toks []token.Value) ([]token.Value, error) {
	args := make([]token.Value, 0, len(cmd.Params))
	cursor := 0

	for _, spec := range cmd.Params {
		// Missing trailing arguments never fail the call; exhausted
		// slots are filled with the kind's default.
		if cursor >= len(toks) {
			args = append(args, b.registry.ConstructDefault(spec.Kind))
			continue
		}

		width := spec.Count
		if width <= 0 || width > len(toks)-cursor {
			width = len(toks) - cursor
		}
		slot := toks[cursor : cursor+width]

		// A single token whose tag already matches the declared kind
		// passes through untouched. This is how a typed value forwarded
		// from a previous pipeline stage skips re-conversion.
		if width == 1 && slot[0].Kind == spec.Kind {
			args = append(args, slot[0])
			cursor += width
			continue
		}

		v, err := b.convertSlot(ctx, spec, slot)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
		cursor += width
	}
	return args, nil
}

func (b *Binder) convertSlot(ctx *command.Context, spec command.ParamSpec, slot []token.Value) (token.Value, error) {
	if conv, ok := b.registry.Converter(spec.Kind); ok {
		var v token.Value
		var converted bool
		if len(slot) > 1 {
			v, converted = conv.FromTokens(slot, ctx)
		} else {
			v, converted = conv.FromToken(slot[0], ctx)
		}
		if !converted {
			return token.None(), &ParseError{Tokens: token.Texts(slot), Kind: spec.Kind}
		}
		return v, nil
	}

	// No converter registered for this kind: fall back to generic
	// construction from the raw tokens plus context.
	v, ok := b.registry.ConstructFromTokens(spec.Kind, slot, ctx)
	if !ok {
		return token.None(), &ParseError{Tokens: token.Texts(slot), Kind: spec.Kind}
	}
	return v, nil
}

// invoke runs the handler. An asynchronous handler's completion is awaited
// here, on the goroutine already dedicated to this invocation; the dispatch
// worker is never the one waiting.
func invoke(ctx *command.Context, cmd *command.Command, args []token.Value) (token.Value, error) {
	if cmd.AsyncHandler != nil {
		res := <-cmd.AsyncHandler(ctx, args)
		if res.Err != nil {
			return token.None(), &HandlerError{Command: cmd.Name, Err: res.Err}
		}
		return res.Value, nil
	}

	out, err := cmd.Handler(ctx, args)
	if err != nil {
		return token.None(), &HandlerError{Command: cmd.Name, Err: err}
	}
	return out, nil
}
