package dispatch

import (
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ProfessorXZ/Headquarters/internal/bind"
	"github.com/ProfessorXZ/Headquarters/internal/command"
	"github.com/ProfessorXZ/Headquarters/internal/events"
	"github.com/ProfessorXZ/Headquarters/internal/exec"
	"github.com/ProfessorXZ/Headquarters/internal/log"
	"github.com/ProfessorXZ/Headquarters/internal/metrics"
)

// PipeDelimiter splits an input line into ordered pipeline stages.
const PipeDelimiter = "|"

// DefaultPollInterval bounds how long the idle worker sleeps before
// re-checking for a stop request.
const DefaultPollInterval = 100 * time.Millisecond

var (
	// ErrAlreadyStarted is returned by Start on a running queue.
	ErrAlreadyStarted = errors.New("dispatch: queue already started")
	// ErrStopped is returned once the queue has been stopped; a stopped
	// queue never restarts.
	ErrStopped = errors.New("dispatch: queue is stopped")
)

// Submission is one enqueued input line. It is created on Submit and
// dropped once its callback has fired.
type Submission struct {
	ID       uuid.UUID
	Raw      string
	Env      map[string]any
	Callback exec.Callback
	At       time.Time
}

// Queue is the engine's entry point: a FIFO of submitted lines drained by
// one worker goroutine.
type Queue struct {
	registry *command.Registry
	binder   *bind.Binder
	pool     *exec.Pool
	hub      *events.Hub
	logger   *slog.Logger

	pollInterval time.Duration

	mu      sync.Mutex
	pending []*Submission
	started bool
	stopped bool

	signal   chan struct{}
	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// Option tunes queue construction.
type Option func(*Queue)

// WithPoolLimit bounds concurrent invocations.
func WithPoolLimit(n int) Option {
	return func(q *Queue) { q.pool = exec.NewPool(n) }
}

// WithHub attaches a lifecycle event hub.
func WithHub(h *events.Hub) Option {
	return func(q *Queue) { q.hub = h }
}

// WithPollInterval overrides the idle poll interval; tests use a short
// one.
func WithPollInterval(d time.Duration) Option {
	return func(q *Queue) {
		if d > 0 {
			q.pollInterval = d
		}
	}
}

// New creates a queue over reg. Start must be called before submissions
// are processed.
func New(reg *command.Registry, opts ...Option) *Queue {
	q := &Queue{
		registry:     reg,
		binder:       bind.New(reg),
		pool:         exec.NewPool(0),
		logger:       log.WithComponent("dispatch"),
		pollInterval: DefaultPollInterval,
		signal:       make(chan struct{}, 1),
		stop:         make(chan struct{}),
		done:         make(chan struct{}),
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Register adds command metadata. Safe to call concurrently with
// processing; commands registered after a submission was dequeued are not
// considered for it.
func (q *Queue) Register(cmd *command.Command) error {
	return q.registry.Register(cmd)
}

// Registry exposes the backing registry for converter and listing access.
func (q *Queue) Registry() *command.Registry { return q.registry }

// Submit enqueues a raw input line and returns without waiting for it to
// run. cb fires exactly once with the final outcome. Submitting to a
// stopped queue fails.
func (q *Queue) Submit(text string, env map[string]any, cb exec.Callback) (uuid.UUID, error) {
	sub := &Submission{
		ID:       uuid.New(),
		Raw:      text,
		Env:      env,
		Callback: exec.Once(cb),
		At:       time.Now().UTC(),
	}

	q.mu.Lock()
	if q.stopped {
		q.mu.Unlock()
		return uuid.Nil, ErrStopped
	}
	q.pending = append(q.pending, sub)
	// Published under the lock so a racing dequeue cannot overwrite it
	// with a stale depth.
	metrics.QueueDepth.Set(float64(len(q.pending)))
	q.mu.Unlock()

	metrics.SubmissionsTotal.Inc()
	q.publish(events.Event{Type: events.TypeSubmitted, Submission: sub.ID, Input: text})

	// Wake the worker; a full signal buffer already means a wakeup is
	// pending.
	select {
	case q.signal <- struct{}{}:
	default:
	}
	return sub.ID, nil
}

// Start launches the worker. A second call fails, as does starting a
// stopped queue.
func (q *Queue) Start() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.stopped {
		return ErrStopped
	}
	if q.started {
		return ErrAlreadyStarted
	}
	q.started = true

	go q.worker()
	q.logger.Info("dispatch queue started", "pool_limit", q.pool.Limit())
	return nil
}

// Stop tells the worker to quit. Idempotent. Queued submissions are
// abandoned without a callback; invocations already running are not
// interrupted and still deliver their callbacks when they finish.
func (q *Queue) Stop() {
	q.stopOnce.Do(func() {
		q.mu.Lock()
		q.stopped = true
		started := q.started
		q.mu.Unlock()

		close(q.stop)
		if started {
			<-q.done
		}
		q.logger.Info("dispatch queue stopped")
	})
}

// worker is the single intake loop. It blocks on the wake signal with a
// bounded poll so a stop request is observed promptly even when idle.
func (q *Queue) worker() {
	defer close(q.done)

	ticker := time.NewTicker(q.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-q.stop:
			return
		case <-q.signal:
		case <-ticker.C:
		}

		for {
			select {
			case <-q.stop:
				return
			default:
			}

			sub := q.dequeue()
			if sub == nil {
				break
			}
			q.route(sub)
		}
	}
}

func (q *Queue) dequeue() *Submission {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.pending) == 0 {
		return nil
	}
	sub := q.pending[0]
	q.pending = q.pending[1:]
	metrics.QueueDepth.Set(float64(len(q.pending)))
	return sub
}

// route decides between the single-command path and a pipeline run. Both
// paths hand the actual work to the pool; the worker moves straight on to
// the next submission.
func (q *Queue) route(sub *Submission) {
	q.publish(events.Event{Type: events.TypeDequeued, Submission: sub.ID, Input: sub.Raw})

	ctx := q.invocationContext(sub)
	cb := q.completionCallback(sub)

	segments := splitStages(sub.Raw)
	if len(segments) > 1 {
		metrics.PipelineStagesTotal.Add(float64(len(segments)))
		p := exec.NewPipeline(q.registry, q.binder, q.pool, segments, ctx, cb, ctx.Logger)
		// The controller only waits on its stages; the pool bounds the
		// stage invocations themselves.
		go p.Run()
		return
	}

	matches := q.registry.Resolve(sub.Raw)
	if len(matches) == 0 {
		cb(exec.OutcomeUnhandled, nil)
		return
	}
	m := matches[0]

	q.pool.Go(func() {
		out, err := q.binder.Run(ctx, m.Command, m.Rest, nil)
		exec.Deliver(cb, out, err)
	})
}

func (q *Queue) invocationContext(sub *Submission) *command.Context {
	return &command.Context{
		ID:     sub.ID,
		Env:    sub.Env,
		Logger: log.WithSubmission(sub.ID),
	}
}

// completionCallback wraps the caller's callback with bookkeeping. The
// exactly-once guarantee comes from the exec.Once wrapper applied at
// submit time.
func (q *Queue) completionCallback(sub *Submission) exec.Callback {
	return func(o exec.Outcome, payload any) {
		metrics.DispatchesTotal.WithLabelValues(o.String()).Inc()

		detail := ""
		if err, ok := payload.(error); ok {
			detail = err.Error()
		}
		q.publish(events.Event{
			Type:       events.TypeCompleted,
			Submission: sub.ID,
			Input:      sub.Raw,
			Outcome:    o.String(),
			Detail:     detail,
		})

		sub.Callback(o, payload)
	}
}

func (q *Queue) publish(ev events.Event) {
	if q.hub != nil {
		q.hub.Publish(ev)
	}
}

// splitStages splits raw input on the pipe delimiter and trims each
// segment.
func splitStages(raw string) []string {
	parts := strings.Split(raw, PipeDelimiter)
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = strings.TrimSpace(p)
	}
	return out
}
