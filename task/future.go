package task

import "context"

// Future settles with the response for one submitted request. A future
// settles at most once; a future whose request was still pending when the
// pool terminated never settles, so callers should pass a cancellable
// context to Await when that matters.
type Future struct {
	done chan struct{}
	resp Response
	err  error
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

// Await blocks until the future settles or ctx is done. For an error
// response the returned error is a *TaskError carrying the unit's message.
func (f *Future) Await(ctx context.Context) (Response, error) {
	select {
	case <-f.done:
		return f.resp, f.err
	case <-ctx.Done():
		return Response{}, ctx.Err()
	}
}

// Done returns a channel closed when the future settles.
func (f *Future) Done() <-chan struct{} { return f.done }

// settle records the outcome and wakes waiters. Must be called at most once.
func (f *Future) settle(resp Response) {
	if resp.Kind == KindError {
		f.err = &TaskError{TaskID: resp.TaskID, Message: resp.Message}
	} else {
		f.resp = resp
	}
	close(f.done)
}
