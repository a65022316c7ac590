// Package builtin registers the default command set. It doubles as a
// reference for how handlers, typed parameters, subcommands, receivers and
// async completion fit together.
package builtin

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ProfessorXZ/Headquarters/internal/command"
	"github.com/ProfessorXZ/Headquarters/internal/token"
)

// RegisterAll registers every builtin command on reg.
func RegisterAll(reg *command.Registry) error {
	cmds := []*command.Command{
		Echo(),
		Upper(),
		Repeat(),
		Calc(),
		Sleep(),
		Commands(reg),
	}
	for _, c := range cmds {
		if err := reg.Register(c); err != nil {
			return fmt.Errorf("failed to register builtin %s: %w", c.Name, err)
		}
	}
	return nil
}

// Echo returns its arguments unchanged. The pipeline e2e tests lean on it.
func Echo() *command.Command {
	return &command.Command{
		Name:    "echo",
		Aliases: command.Words("echo", "say"),
		Help:    "echo the given text back",
		Params:  []command.ParamSpec{{Kind: token.KindString, Count: 0}},
		Handler: func(_ *command.Context, args []token.Value) (token.Value, error) {
			return token.NewString(args[0].Str()), nil
		},
	}
}

// Upper uppercases its input, typically a forwarded pipeline value.
func Upper() *command.Command {
	return &command.Command{
		Name:    "upper",
		Aliases: command.Words("upper", "uppercase"),
		Help:    "uppercase the given text",
		Params:  []command.ParamSpec{{Kind: token.KindString, Count: 0}},
		Handler: func(_ *command.Context, args []token.Value) (token.Value, error) {
			return token.NewString(strings.ToUpper(args[0].Str())), nil
		},
	}
}

// Repeat repeats text a given number of times.
func Repeat() *command.Command {
	return &command.Command{
		Name:    "repeat",
		Aliases: command.Words("repeat"),
		Help:    "repeat <count> <text>: repeat text count times",
		Params: []command.ParamSpec{
			{Kind: token.KindInt, Count: 1},
			{Kind: token.KindString, Count: 0},
		},
		Handler: func(_ *command.Context, args []token.Value) (token.Value, error) {
			count := args[0].Int()
			if count < 0 {
				return token.None(), fmt.Errorf("repeat count must not be negative (got %d)", count)
			}
			if count > 1000 {
				return token.None(), fmt.Errorf("repeat count too large (got %d, max 1000)", count)
			}
			parts := make([]string, count)
			for i := range parts {
				parts[i] = args[1].Str()
			}
			return token.NewString(strings.Join(parts, " ")), nil
		},
	}
}

// calcState accumulates results within one invocation. A fresh instance is
// built per invocation, never shared.
type calcState struct {
	history []int64
}

func (c *calcState) record(v int64) token.Value {
	c.history = append(c.history, v)
	return token.NewInt(v)
}

// Calc does integer arithmetic through subcommands.
func Calc() *command.Command {
	binOp := func(name string, op func(a, b int64) int64) *command.Command {
		return &command.Command{
			Name:        "calc " + name,
			Aliases:     command.Words(name),
			NewReceiver: func() any { return &calcState{} },
			Params: []command.ParamSpec{
				{Kind: token.KindInt, Count: 1},
				{Kind: token.KindInt, Count: 1},
			},
			Handler: func(ctx *command.Context, args []token.Value) (token.Value, error) {
				state := ctx.Receiver.(*calcState)
				return state.record(op(args[0].Int(), args[1].Int())), nil
			},
		}
	}

	return &command.Command{
		Name:    "calc",
		Aliases: command.Words("calc"),
		Help:    "calc <add|sub|mul> <a> <b>: integer arithmetic",
		Subcommands: []*command.Command{
			binOp("add", func(a, b int64) int64 { return a + b }),
			binOp("sub", func(a, b int64) int64 { return a - b }),
			binOp("mul", func(a, b int64) int64 { return a * b }),
		},
	}
}

// Sleep waits for the given duration off the dispatch worker and reports
// how long it actually slept.
func Sleep() *command.Command {
	return &command.Command{
		Name:    "sleep",
		Aliases: command.Words("sleep"),
		Help:    "sleep <duration>: wait asynchronously, then report elapsed time",
		Params:  []command.ParamSpec{{Kind: token.KindDuration, Count: 1}},
		AsyncHandler: func(_ *command.Context, args []token.Value) <-chan command.AsyncResult {
			out := make(chan command.AsyncResult, 1)
			d := args[0].Duration()
			go func() {
				start := time.Now()
				time.Sleep(d)
				out <- command.AsyncResult{Value: token.NewDuration(time.Since(start))}
			}()
			return out
		},
	}
}

// Commands lists the registered commands, one "name: help" line each.
func Commands(reg *command.Registry) *command.Command {
	return &command.Command{
		Name:    "commands",
		Aliases: command.Words("commands", "help"),
		Help:    "list registered commands",
		Handler: func(_ *command.Context, _ []token.Value) (token.Value, error) {
			var lines []string
			for _, c := range reg.Commands() {
				line := c.Name
				if c.Help != "" {
					line += ": " + c.Help
				}
				lines = append(lines, line)
			}
			sort.Strings(lines)
			return token.NewString(strings.Join(lines, "\n")), nil
		},
	}
}
