package session

import "sync"

// Listener receives the post-transition state snapshot after every dispatch.
type Listener func(State)

// Store serializes reductions over the session state and fans each resulting
// snapshot out to subscribers. Listeners run outside the lock, so a listener
// may dispatch or subscribe without deadlocking.
type Store struct {
	mu        sync.Mutex
	state     State
	version   uint64
	nextSubID int
	listeners map[int]Listener
}

// NewStore creates a store holding the anonymous boot state.
func NewStore() *Store {
	return &Store{listeners: make(map[int]Listener)}
}

// Current returns a snapshot of the session state.
func (s *Store) Current() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Version returns the number of transitions applied so far.
func (s *Store) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// Subscribe registers a listener for future transitions and returns its
// unsubscribe function. The listener is not called with the current state.
func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// Dispatch reduces the event into the state and notifies subscribers with the
// resulting snapshot.
func (s *Store) Dispatch(event Event) State {
	s.mu.Lock()
	s.state = reduce(s.state, event)
	s.version++
	snapshot := s.state
	notify := make([]Listener, 0, len(s.listeners))
	for _, fn := range s.listeners {
		notify = append(notify, fn)
	}
	s.mu.Unlock()

	for _, fn := range notify {
		fn(snapshot)
	}
	return snapshot
}
