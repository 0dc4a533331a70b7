package task

import (
	"runtime"
	"sync"

	"github.com/wudi/scorekit/observability"
)

// Pool owns a fixed set of execution units. Submitted requests go straight
// to an idle unit when one exists and queue FIFO otherwise; a unit that
// finishes a task immediately pulls the next queued request. Responses are
// matched to callers' futures by TaskID only, so completion order is free to
// differ from submission order.
type Pool struct {
	size        int
	inboxes     []chan Request
	completions chan completion
	exec        func(Request) *Response
	log         observability.Logger
	wg          sync.WaitGroup

	mu         sync.Mutex
	nextTaskID uint64
	pending    map[uint64]*Future
	queue      []Request
	idle       []int
	closed     bool
}

// Option configures a Pool.
type Option func(*Pool)

// WithLogger sets the pool's logger. The default discards everything.
func WithLogger(log observability.Logger) Option {
	return func(p *Pool) { p.log = log }
}

// NewPool starts size execution units. A size of zero or less uses the
// hardware concurrency reported by the runtime, clamped to a floor of 4
// when nothing useful is reported.
func NewPool(size int, opts ...Option) *Pool {
	if size <= 0 {
		size = runtime.NumCPU()
		if size <= 0 {
			size = 4
		}
	}
	p := &Pool{
		size:        size,
		inboxes:     make([]chan Request, size),
		completions: make(chan completion, size),
		exec:        execute,
		log:         observability.NopLogger{},
		pending:     make(map[uint64]*Future),
		idle:        make([]int, 0, size),
	}
	for _, opt := range opts {
		opt(p)
	}
	for i := 0; i < size; i++ {
		// Buffer of one so the dispatcher can hand a unit its next
		// request without blocking while it holds the pool lock.
		p.inboxes[i] = make(chan Request, 1)
		p.idle = append(p.idle, i)
		p.wg.Add(1)
		go p.runUnit(i, p.inboxes[i])
	}
	go p.dispatchLoop()
	return p
}

// Size reports the number of execution units.
func (p *Pool) Size() int { return p.size }

// Submit schedules a request and returns the future that will carry its
// response. The pool assigns the request's TaskID. The request's Data buffer
// belongs to the pool from this point on; the caller must not read it again.
// Submit must not be called after Terminate.
func (p *Pool) Submit(req Request) *Future {
	f := newFuture()

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		// Settle immediately so a late caller is not left hanging on a
		// pool that will never run anything.
		f.settle(Response{Kind: KindError, Message: "pool terminated"})
		return f
	}
	p.nextTaskID++
	req.TaskID = p.nextTaskID
	p.pending[req.TaskID] = f

	if n := len(p.idle); n > 0 {
		unit := p.idle[n-1]
		p.idle = p.idle[:n-1]
		p.inboxes[unit] <- req
		p.log.Debug("task dispatched",
			observability.Uint64("task", req.TaskID),
			observability.Int("unit", unit),
			observability.Int("page", req.PageIndex))
	} else {
		p.queue = append(p.queue, req)
		p.log.Debug("task queued",
			observability.Uint64("task", req.TaskID),
			observability.Int("queue_len", len(p.queue)))
	}
	return f
}

// Terminate stops and releases every unit. Futures still pending are left
// unsettled rather than rejected; callers holding one should Await with a
// cancellable context. The pool must not be used after Terminate.
func (p *Pool) Terminate() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.queue = nil
	p.idle = nil
	for _, inbox := range p.inboxes {
		close(inbox)
	}
	p.mu.Unlock()

	// Close the completion stream once every unit has drained, which also
	// stops the dispatch loop.
	p.wg.Wait()
	close(p.completions)
}

// dispatchLoop settles futures for finished tasks and keeps units fed from
// the queue. It exits when Terminate closes the completion stream.
func (p *Pool) dispatchLoop() {
	for c := range p.completions {
		p.handle(c)
	}
}

func (p *Pool) handle(c completion) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if c.resp != nil && !p.closed {
		p.deliverLocked(*c.resp)
	}
	if p.closed {
		return
	}
	if len(p.queue) > 0 {
		req := p.queue[0]
		p.queue = p.queue[1:]
		p.inboxes[c.unit] <- req
		return
	}
	p.idle = append(p.idle, c.unit)
}

// deliverLocked routes one response to its pending future. A response whose
// TaskID is unknown (duplicate or stale delivery) is discarded untouched.
func (p *Pool) deliverLocked(resp Response) {
	f, ok := p.pending[resp.TaskID]
	if !ok {
		p.log.Warn("response for unknown task dropped",
			observability.Uint64("task", resp.TaskID))
		return
	}
	delete(p.pending, resp.TaskID)
	f.settle(resp)
}
