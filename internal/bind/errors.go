package bind

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ProfessorXZ/Headquarters/internal/token"
)

// ErrInvalidArguments indicates the binder was handed nothing it could run:
// a nil command or one without a handler.
var ErrInvalidArguments = errors.New("bind: invalid arguments")

// ParseError reports a slot whose tokens could not be converted to the
// declared parameter kind. It carries the offending tokens and the target
// kind so callers can surface a precise message.
type ParseError struct {
	Tokens []string
	Kind   token.Kind
	Cause  error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("bind: cannot parse %q as %s", strings.Join(e.Tokens, " "), e.Kind)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error { return e.Cause }

// HandlerError wraps any failure raised while invoking the resolved
// handler, including recovered panics and asynchronous completions.
type HandlerError struct {
	Command string
	Err     error
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("bind: handler %q failed: %v", e.Command, e.Err)
}

func (e *HandlerError) Unwrap() error { return e.Err }
