package state

import "sync"

// Listener observes state values after each transition.
type Listener func(AppState)

// Store owns the state value and serializes transitions through the
// reducer. It is constructed once at startup and injected into whatever
// drives the UI.
//
// Dispatch holds the store lock while notifying listeners, which keeps
// notifications in transition order; listeners must therefore not call
// Dispatch synchronously. Anything that reacts to a change by issuing
// new work does so from its own goroutine.
type Store struct {
	mu        sync.Mutex
	state     AppState
	listeners map[int]Listener
	nextID    int
}

// NewStore creates a store holding the initial state.
func NewStore() *Store {
	return new(Store{
		state:     Initial(),
		listeners: map[int]Listener{},
	})
}

// State returns the current state value.
func (st *Store) State() AppState {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.state
}

// Dispatch applies an action through the reducer and notifies listeners
// with the resulting state.
func (st *Store) Dispatch(a Action) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.state = Reduce(st.state, a)
	for _, fn := range st.listeners {
		fn(st.state)
	}
}

// Subscribe registers a listener and returns its unsubscribe function.
func (st *Store) Subscribe(fn Listener) func() {
	st.mu.Lock()
	defer st.mu.Unlock()
	id := st.nextID
	st.nextID++
	st.listeners[id] = fn
	return func() {
		st.mu.Lock()
		defer st.mu.Unlock()
		delete(st.listeners, id)
	}
}
