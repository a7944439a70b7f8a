package action

import "context"

// Handle refers to one Running period of an action. Every caller that joined
// the same period holds an equivalent handle.
type Handle[T any] struct {
	owner *Action[T]
	r     *run[T]
}

// Done is closed when the operation reaches a terminal state.
func (h *Handle[T]) Done() <-chan struct{} { return h.r.done }

// Result returns the terminal outcome, or ok=false while still running.
func (h *Handle[T]) Result() (value T, ok bool, err error) {
	select {
	case <-h.r.done:
		return h.r.result.Value, true, h.r.result.Err
	default:
		var zero T
		return zero, false, nil
	}
}

// Wait blocks until the operation finishes or ctx is done. Giving up on ctx
// withdraws only this caller's interest; the operation keeps running for
// everyone else.
func (h *Handle[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-h.r.done:
		return h.r.result.Value, h.r.result.Err
	default:
	}

	if h.owner.acquire(h.r) {
		defer h.owner.release(h.r)
	}

	select {
	case <-h.r.done:
		return h.r.result.Value, h.r.result.Err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
