package exec

// DefaultPoolLimit bounds concurrent invocations when no limit is
// configured.
const DefaultPoolLimit = 64

// Pool bounds the number of concurrently running tasks. Submission never
// blocks the caller: each task gets its own goroutine that waits for a
// slot before running. This replaces unbounded thread-per-invocation while
// keeping submit-and-forget semantics for the dispatch worker.
type Pool struct {
	sem chan struct{}
}

// NewPool creates a pool running at most limit tasks at once.
func NewPool(limit int) *Pool {
	if limit <= 0 {
		limit = DefaultPoolLimit
	}
	return &Pool{sem: make(chan struct{}, limit)}
}

// Go schedules fn and returns immediately.
func (p *Pool) Go(fn func()) {
	go func() {
		p.sem <- struct{}{}
		defer func() { <-p.sem }()
		fn()
	}()
}

// Limit returns the configured concurrency bound.
func (p *Pool) Limit() int { return cap(p.sem) }
