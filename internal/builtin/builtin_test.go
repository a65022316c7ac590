package builtin

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ProfessorXZ/Headquarters/internal/bind"
	"github.com/ProfessorXZ/Headquarters/internal/command"
	"github.com/ProfessorXZ/Headquarters/internal/convert"
	"github.com/ProfessorXZ/Headquarters/internal/token"
)

func fixture(t *testing.T) (*command.Registry, *bind.Binder) {
	t.Helper()
	reg := command.NewRegistry()
	convert.RegisterDefaults(reg)
	require.NoError(t, RegisterAll(reg))
	return reg, bind.New(reg)
}

func run(t *testing.T, reg *command.Registry, b *bind.Binder, input string) (token.Value, error) {
	t.Helper()
	matches := reg.Resolve(input)
	require.NotEmpty(t, matches, "no command matched %q", input)
	return b.Run(&command.Context{}, matches[0].Command, matches[0].Rest, nil)
}

func TestEcho(t *testing.T) {
	reg, b := fixture(t)

	out, err := run(t, reg, b, "echo hello world")
	require.NoError(t, err)
	assert.Equal(t, "hello world", out.Str())
}

func TestEchoSayAlias(t *testing.T) {
	reg, b := fixture(t)

	out, err := run(t, reg, b, "say hi")
	require.NoError(t, err)
	assert.Equal(t, "hi", out.Str())
}

func TestUpper(t *testing.T) {
	reg, b := fixture(t)

	out, err := run(t, reg, b, "upper shout this")
	require.NoError(t, err)
	assert.Equal(t, "SHOUT THIS", out.Str())
}

func TestRepeat(t *testing.T) {
	reg, b := fixture(t)

	out, err := run(t, reg, b, "repeat 3 ho")
	require.NoError(t, err)
	assert.Equal(t, "ho ho ho", out.Str())
}

func TestRepeatRejectsNegativeCount(t *testing.T) {
	reg, b := fixture(t)

	_, err := run(t, reg, b, "repeat -1 nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must not be negative")
}

func TestCalcSubcommands(t *testing.T) {
	reg, b := fixture(t)

	tests := []struct {
		input string
		want  int64
	}{
		{"calc add 2 3", 5},
		{"calc sub 10 4", 6},
		{"calc mul 6 7", 42},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			out, err := run(t, reg, b, tt.input)
			require.NoError(t, err)
			assert.Equal(t, token.KindInt, out.Kind)
			assert.Equal(t, tt.want, out.Int())
		})
	}
}

func TestCalcUnknownSubcommand(t *testing.T) {
	reg, b := fixture(t)

	_, err := run(t, reg, b, "calc div 6 3")
	assert.ErrorIs(t, err, bind.ErrInvalidArguments)
}

func TestSleepReportsElapsed(t *testing.T) {
	reg, b := fixture(t)

	start := time.Now()
	out, err := run(t, reg, b, "sleep 30ms")
	require.NoError(t, err)

	assert.Equal(t, token.KindDuration, out.Kind)
	assert.GreaterOrEqual(t, out.Duration(), 30*time.Millisecond)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestCommandsListing(t *testing.T) {
	reg, b := fixture(t)

	out, err := run(t, reg, b, "commands")
	require.NoError(t, err)

	lines := strings.Split(out.Str(), "\n")
	assert.GreaterOrEqual(t, len(lines), 6)
	assert.Contains(t, out.Str(), "echo: echo the given text back")
	assert.Contains(t, out.Str(), "sleep:")
}

func TestRegisterAllIdempotentNames(t *testing.T) {
	reg := command.NewRegistry()
	convert.RegisterDefaults(reg)
	require.NoError(t, RegisterAll(reg))

	// Every builtin resolves through the registry.
	for _, input := range []string{"echo x", "upper x", "repeat 1 x", "calc add 1 1", "sleep 1ms", "commands"} {
		assert.NotEmpty(t, reg.Resolve(input), "expected a match for %q", input)
	}
}
