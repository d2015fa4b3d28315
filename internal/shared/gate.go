package shared

import (
	"sync"

	"github.com/google/uuid"
)

// RequestGate keys overlapping refreshes of the same logical scope so that a
// slow, superseded request cannot overwrite the result of a newer one. Begin
// issues a key that stays current until the next Begin for the same scope;
// callers check Current before applying their result and drop it otherwise.
type RequestGate struct {
	mu      sync.Mutex
	current map[string]uuid.UUID
}

// NewRequestGate constructs an empty gate.
func NewRequestGate() *RequestGate {
	return &RequestGate{current: make(map[string]uuid.UUID)}
}

// Begin registers a new request for scope and returns its key, superseding
// any in-flight request for the same scope.
func (g *RequestGate) Begin(scope string) uuid.UUID {
	key := uuid.New()
	g.mu.Lock()
	g.current[scope] = key
	g.mu.Unlock()
	return key
}

// Current reports whether key is still the latest request for scope.
func (g *RequestGate) Current(scope string, key uuid.UUID) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.current[scope] == key
}

// Finish clears the scope when the given key is still current, so a later
// Begin starts from a clean slate. Stale keys are ignored.
func (g *RequestGate) Finish(scope string, key uuid.UUID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.current[scope] == key {
		delete(g.current, scope)
	}
}
