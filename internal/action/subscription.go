package action

import "sync"

// Subscription delivers an action's states in order on C. Each subscription
// buffers independently, so a slow reader neither blocks the action nor
// misses a transition.
type Subscription[T any] struct {
	owner *Action[T]
	out   chan State[T]

	mu    sync.Mutex
	queue []State[T]
	wake  chan struct{}

	quit      chan struct{}
	closeOnce sync.Once
}

func newSubscription[T any](owner *Action[T]) *Subscription[T] {
	return &Subscription[T]{
		owner: owner,
		out:   make(chan State[T]),
		wake:  make(chan struct{}, 1),
		quit:  make(chan struct{}),
	}
}

// C returns the delivery channel. It is closed after Close.
func (s *Subscription[T]) C() <-chan State[T] { return s.out }

// Close stops delivery to this subscription. Other subscribers and the
// in-flight operation are unaffected. Close is idempotent.
func (s *Subscription[T]) Close() {
	s.closeOnce.Do(func() {
		close(s.quit)
		s.owner.unsubscribe(s)
	})
}

func (s *Subscription[T]) push(st State[T]) {
	s.mu.Lock()
	s.queue = append(s.queue, st)
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// pump moves queued states to out until the subscription is closed.
func (s *Subscription[T]) pump() {
	defer close(s.out)
	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			s.mu.Unlock()
			select {
			case <-s.wake:
				continue
			case <-s.quit:
				return
			}
		}
		st := s.queue[0]
		var zero State[T]
		s.queue[0] = zero
		s.queue = s.queue[1:]
		s.mu.Unlock()

		select {
		case s.out <- st:
		case <-s.quit:
			return
		}
	}
}
