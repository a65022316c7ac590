package exec

import (
	"github.com/ProfessorXZ/Headquarters/internal/bind"
	"github.com/ProfessorXZ/Headquarters/internal/command"
	"github.com/ProfessorXZ/Headquarters/internal/token"
)

// Unit wraps one binder run as an independently schedulable task with its
// own output slot. The output slot is written exactly once, by the
// goroutine running the unit, and read only after Wait returns; the
// completion handle is the ordering mechanism between pipeline stages.
type Unit struct {
	binder    *bind.Binder
	cmd       *command.Command
	input     string
	forwarded []token.Value
	ctx       *command.Context

	out  token.Value
	err  error
	done chan struct{}
}

// NewUnit builds a unit for one invocation.
func NewUnit(b *bind.Binder, cmd *command.Command, input string, forwarded []token.Value, ctx *command.Context) *Unit {
	return &Unit{
		binder:    b,
		cmd:       cmd,
		input:     input,
		forwarded: forwarded,
		ctx:       ctx,
		done:      make(chan struct{}),
	}
}

// Start schedules the unit on the pool. It must be called at most once.
func (u *Unit) Start(p *Pool) {
	p.Go(u.run)
}

func (u *Unit) run() {
	defer close(u.done)
	u.out, u.err = u.binder.Run(u.ctx, u.cmd, u.input, u.forwarded)
}

// Wait blocks until the unit has fully completed, side effects included.
func (u *Unit) Wait() {
	<-u.done
}

// Result returns the stored output. Valid only after Wait.
func (u *Unit) Result() (token.Value, error) {
	return u.out, u.err
}

// Deliver maps a unit result onto the callback contract.
func Deliver(cb Callback, out token.Value, err error) {
	if err != nil {
		cb(OutcomeFailure, err)
		return
	}
	cb(OutcomeSuccess, out)
}
