package cart

import (
	"log"
	"sync"
)

// Registry hands out the single Store for each session, creating it on first
// use. One session maps to exactly one server-side cart, so sharing the
// Store also shares its mutation serialization.
type Registry struct {
	remote RemoteAPI
	logger *log.Logger

	mu     sync.Mutex
	stores map[string]*Store
}

func NewRegistry(remote RemoteAPI, logger *log.Logger) *Registry {
	return &Registry{
		remote: remote,
		logger: logger,
		stores: make(map[string]*Store),
	}
}

func (r *Registry) ForSession(sessionID string) *Store {
	r.mu.Lock()
	defer r.mu.Unlock()
	if st, ok := r.stores[sessionID]; ok {
		return st
	}
	st := NewStore(sessionID, r.remote, r.logger)
	r.stores[sessionID] = st
	return st
}
