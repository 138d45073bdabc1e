package service

import (
	"sync"
	"time"
)

const (
	// WaitTimeout is the maximum time a client can wait for notifications
	WaitTimeout = 25 * time.Second
)

// WaitRegistry manages long-polling clients waiting for game state changes.
// Each waiter channel is closed exactly once.
type WaitRegistry struct {
	mu      sync.Mutex
	waiters map[string]map[*waitRequest]struct{} // gameID → waiting clients
	closed  bool
}

type waitRequest struct {
	notify chan struct{}
	once   sync.Once
}

func (r *waitRequest) fire() {
	r.once.Do(func() { close(r.notify) })
}

// NewWaitRegistry creates a new wait registry
func NewWaitRegistry() *WaitRegistry {
	return &WaitRegistry{
		waiters: make(map[string]map[*waitRequest]struct{}),
	}
}

// Register adds a waiter for gameID. The returned channel is closed on the
// next change; cancel must be called once the caller stops waiting.
func (w *WaitRegistry) Register(gameID string) (<-chan struct{}, func()) {
	w.mu.Lock()
	defer w.mu.Unlock()

	req := &waitRequest{notify: make(chan struct{})}
	if w.closed {
		req.fire()
		return req.notify, func() {}
	}

	if w.waiters[gameID] == nil {
		w.waiters[gameID] = make(map[*waitRequest]struct{})
	}
	w.waiters[gameID][req] = struct{}{}

	cancel := func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		if set, ok := w.waiters[gameID]; ok {
			delete(set, req)
			if len(set) == 0 {
				delete(w.waiters, gameID)
			}
		}
	}
	return req.notify, cancel
}

// NotifyGame wakes every client waiting on gameID
func (w *WaitRegistry) NotifyGame(gameID string) {
	w.mu.Lock()
	set := w.waiters[gameID]
	delete(w.waiters, gameID)
	w.mu.Unlock()

	for req := range set {
		req.fire()
	}
}

// RemoveGame releases all waiters for a game before deletion
func (w *WaitRegistry) RemoveGame(gameID string) {
	w.NotifyGame(gameID)
}

// Waiting returns the number of clients waiting on gameID
func (w *WaitRegistry) Waiting(gameID string) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.waiters[gameID])
}

// Shutdown releases every waiter and refuses new ones
func (w *WaitRegistry) Shutdown() {
	w.mu.Lock()
	all := w.waiters
	w.waiters = make(map[string]map[*waitRequest]struct{})
	w.closed = true
	w.mu.Unlock()

	for _, set := range all {
		for req := range set {
			req.fire()
		}
	}
}
