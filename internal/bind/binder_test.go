package bind

import (
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ProfessorXZ/Headquarters/internal/command"
	"github.com/ProfessorXZ/Headquarters/internal/command/mocks"
	"github.com/ProfessorXZ/Headquarters/internal/convert"
	"github.com/ProfessorXZ/Headquarters/internal/token"
)

func newTestRegistry(t *testing.T) *command.Registry {
	t.Helper()
	reg := command.NewRegistry()
	convert.RegisterDefaults(reg)
	return reg
}

func capture(args *[]token.Value) command.Handler {
	return func(_ *command.Context, got []token.Value) (token.Value, error) {
		*args = got
		return token.None(), nil
	}
}

func TestRunNilCommand(t *testing.T) {
	b := New(newTestRegistry(t))
	_, err := b.Run(&command.Context{}, nil, "anything", nil)
	assert.ErrorIs(t, err, ErrInvalidArguments)
}

func TestRunExactRepetitionConsumesExactlyR(t *testing.T) {
	var got []token.Value
	cmd := &command.Command{
		Name:    "pair",
		Aliases: command.Words("pair"),
		Params: []command.ParamSpec{
			{Kind: token.KindInt, Count: 1},
			{Kind: token.KindInt, Count: 1},
			{Kind: token.KindString, Count: 0},
		},
		Handler: capture(&got),
	}

	b := New(newTestRegistry(t))
	_, err := b.Run(&command.Context{}, cmd, "1 2 and the rest", nil)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, int64(1), got[0].Int())
	assert.Equal(t, int64(2), got[1].Int())
	assert.Equal(t, "and the rest", got[2].Str())
}

func TestRunUnlimitedConsumesAllRemaining(t *testing.T) {
	var got []token.Value
	cmd := &command.Command{
		Name:    "echo",
		Aliases: command.Words("echo"),
		Params:  []command.ParamSpec{{Kind: token.KindString, Count: 0}},
		Handler: capture(&got),
	}

	b := New(newTestRegistry(t))
	_, err := b.Run(&command.Context{}, cmd, "hello world", nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "hello world", got[0].Str())
}

func TestRunUnderApplicationFillsDefaults(t *testing.T) {
	var got []token.Value
	cmd := &command.Command{
		Name:    "mix",
		Aliases: command.Words("mix"),
		Params: []command.ParamSpec{
			{Kind: token.KindInt, Count: 1},
			{Kind: token.KindDuration, Count: 1},
			{Kind: token.KindString, Count: 0},
		},
		Handler: capture(&got),
	}

	b := New(newTestRegistry(t))
	_, err := b.Run(&command.Context{}, cmd, "5", nil)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, int64(5), got[0].Int())
	assert.Equal(t, time.Duration(0), got[1].Duration())
	assert.Equal(t, "", got[2].Str())
}

func TestRunForwardedTypedValueSkipsConversion(t *testing.T) {
	var got []token.Value
	cmd := &command.Command{
		Name:    "use",
		Aliases: command.Words("use"),
		Params:  []command.ParamSpec{{Kind: token.KindInt, Count: 1}},
		Handler: capture(&got),
	}

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	reg := command.NewRegistry()
	mc := mocks.NewMockConverter(ctrl)
	// The forwarded value already carries the declared kind, so the
	// converter must never be consulted.
	reg.RegisterConverter(token.KindInt, mc)

	b := New(reg)
	_, err := b.Run(&command.Context{}, cmd, "", []token.Value{token.NewInt(77)})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(77), got[0].Int())
}

func TestRunParseErrorCarriesTokensAndKind(t *testing.T) {
	cmd := &command.Command{
		Name:    "n",
		Aliases: command.Words("n"),
		Params:  []command.ParamSpec{{Kind: token.KindInt, Count: 1}},
		Handler: capture(new([]token.Value)),
	}

	b := New(newTestRegistry(t))
	_, err := b.Run(&command.Context{}, cmd, "notanumber", nil)

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, []string{"notanumber"}, perr.Tokens)
	assert.Equal(t, token.KindInt, perr.Kind)
}

func TestRunConverterFailureSentinel(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	reg := command.NewRegistry()
	mc := mocks.NewMockConverter(ctrl)
	mc.EXPECT().FromToken(gomock.Any(), gomock.Any()).Return(token.None(), false)
	reg.RegisterConverter(token.KindDuration, mc)

	cmd := &command.Command{
		Name:    "wait",
		Aliases: command.Words("wait"),
		Params:  []command.ParamSpec{{Kind: token.KindDuration, Count: 1}},
		Handler: capture(new([]token.Value)),
	}

	b := New(reg)
	_, err := b.Run(&command.Context{}, cmd, "5s", nil)

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, token.KindDuration, perr.Kind)
}

func TestRunMissingConverterUsesFallback(t *testing.T) {
	reg := command.NewRegistry()
	// No converters at all; the default fallback is absent too, so
	// conversion must fail via the construction path.
	cmd := &command.Command{
		Name:    "x",
		Aliases: command.Words("x"),
		Params:  []command.ParamSpec{{Kind: token.KindFloat, Count: 1}},
		Handler: capture(new([]token.Value)),
	}

	b := New(reg)
	_, err := b.Run(&command.Context{}, cmd, "1.5", nil)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
}

func TestRunSubcommandResolution(t *testing.T) {
	var got []token.Value
	add := &command.Command{
		Name:    "add",
		Aliases: command.Words("add"),
		Params: []command.ParamSpec{
			{Kind: token.KindInt, Count: 1},
			{Kind: token.KindInt, Count: 1},
		},
		Handler: func(_ *command.Context, args []token.Value) (token.Value, error) {
			got = args
			return token.NewInt(args[0].Int() + args[1].Int()), nil
		},
	}
	calc := &command.Command{
		Name:        "calc",
		Aliases:     command.Words("calc"),
		Subcommands: []*command.Command{add},
	}

	b := New(newTestRegistry(t))
	out, err := b.Run(&command.Context{}, calc, "add 2 3", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(5), out.Int())
	require.Len(t, got, 2)

	// No subcommand match and no parent handler is invalid.
	_, err = b.Run(&command.Context{}, calc, "mul 2 3", nil)
	assert.ErrorIs(t, err, ErrInvalidArguments)
}

func TestRunFreshReceiverPerInvocation(t *testing.T) {
	type state struct{ n int }
	var seen []*state
	cmd := &command.Command{
		Name:        "st",
		Aliases:     command.Words("st"),
		NewReceiver: func() any { return &state{} },
		Handler: func(ctx *command.Context, _ []token.Value) (token.Value, error) {
			s := ctx.Receiver.(*state)
			s.n++
			seen = append(seen, s)
			return token.NewInt(int64(s.n)), nil
		},
	}

	b := New(newTestRegistry(t))
	for range 2 {
		out, err := b.Run(&command.Context{}, cmd, "", nil)
		require.NoError(t, err)
		// Always 1: the receiver is rebuilt per call, never pooled.
		assert.Equal(t, int64(1), out.Int())
	}
	assert.NotSame(t, seen[0], seen[1])
}

func TestRunAsyncHandlerAwaited(t *testing.T) {
	cmd := &command.Command{
		Name:    "later",
		Aliases: command.Words("later"),
		AsyncHandler: func(_ *command.Context, _ []token.Value) <-chan command.AsyncResult {
			ch := make(chan command.AsyncResult, 1)
			go func() {
				time.Sleep(10 * time.Millisecond)
				ch <- command.AsyncResult{Value: token.NewString("done")}
			}()
			return ch
		},
	}

	b := New(newTestRegistry(t))
	out, err := b.Run(&command.Context{}, cmd, "", nil)
	require.NoError(t, err)
	assert.Equal(t, "done", out.Str())
}

func TestRunAsyncFailureWrapped(t *testing.T) {
	boom := errors.New("boom")
	cmd := &command.Command{
		Name:    "later",
		Aliases: command.Words("later"),
		AsyncHandler: func(_ *command.Context, _ []token.Value) <-chan command.AsyncResult {
			ch := make(chan command.AsyncResult, 1)
			ch <- command.AsyncResult{Err: boom}
			return ch
		},
	}

	b := New(newTestRegistry(t))
	_, err := b.Run(&command.Context{}, cmd, "", nil)
	var herr *HandlerError
	require.ErrorAs(t, err, &herr)
	assert.ErrorIs(t, err, boom)
}

func TestRunPanicRecoveredOnce(t *testing.T) {
	cmd := &command.Command{
		Name:    "bad",
		Aliases: command.Words("bad"),
		Handler: func(_ *command.Context, _ []token.Value) (token.Value, error) {
			panic("kaboom")
		},
	}

	b := New(newTestRegistry(t))
	_, err := b.Run(&command.Context{}, cmd, "", nil)
	var herr *HandlerError
	require.ErrorAs(t, err, &herr)
	assert.Contains(t, herr.Error(), "kaboom")
}
