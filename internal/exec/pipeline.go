package exec

import (
	"log/slog"

	"github.com/ProfessorXZ/Headquarters/internal/bind"
	"github.com/ProfessorXZ/Headquarters/internal/command"
	"github.com/ProfessorXZ/Headquarters/internal/token"
)

// Pipeline executes pipe-chained stages in strict order, feeding each
// stage's return value into the next stage's arguments.
//
// Stage N+1 starts only after stage N has fully completed; the pipeline's
// controlling goroutine waits on each stage's completion handle before
// resolving the next stage. Completed stages are never rolled back; a
// pipeline is best-effort, not transactional.
type Pipeline struct {
	registry *command.Registry
	binder   *bind.Binder
	pool     *Pool
	stages   []string
	ctx      *command.Context
	cb       Callback
	logger   *slog.Logger
}

// NewPipeline builds a pipeline over pre-split, pre-trimmed stage
// segments. cb is the submission's original callback; it fires exactly
// once for the whole pipeline.
func NewPipeline(reg *command.Registry, b *bind.Binder, pool *Pool, stages []string, ctx *command.Context, cb Callback, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		registry: reg,
		binder:   b,
		pool:     pool,
		stages:   stages,
		ctx:      ctx,
		cb:       Once(cb),
		logger:   logger,
	}
}

// Run executes the stages. It blocks until the pipeline has finished and
// is meant to be scheduled on the pool by the dispatch worker.
func (p *Pipeline) Run() {
	var forwarded []token.Value

	for i, stage := range p.stages {
		matches := p.registry.Resolve(stage)
		if len(matches) == 0 {
			// An unresolvable stage aborts the whole pipeline. Stages
			// that already ran keep their side effects.
			p.logger.Debug("pipeline stage unmatched", "stage", i, "input", stage)
			p.cb(OutcomeUnhandled, nil)
			return
		}
		m := matches[0]

		unit := NewUnit(p.binder, m.Command, m.Rest, forwarded, p.ctx)
		unit.Start(p.pool)
		unit.Wait()

		out, err := unit.Result()

		if i == len(p.stages)-1 {
			Deliver(p.cb, out, err)
			return
		}
		if err != nil {
			p.logger.Debug("pipeline stage failed", "stage", i, "command", m.Command.Name, "error", err)
			p.cb(OutcomeFailure, err)
			return
		}

		forwarded = nil
		if !out.IsNone() {
			forwarded = []token.Value{out}
		}
	}

	// Zero stages: nothing to run, nothing matched.
	p.cb(OutcomeUnhandled, nil)
}
