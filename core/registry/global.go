package registry

import "sync"

// Global is a process-wide key/value store for init()-time registration.
// A key can be locked once its consumers start reading it.
type Global struct {
	mu     sync.RWMutex
	values map[string]any
	locked map[string]bool
}

// GlobalRegistry holds the extension registries filled from init().
var GlobalRegistry = NewGlobal()

func NewGlobal() *Global {
	return &Global{
		values: make(map[string]any),
		locked: make(map[string]bool),
	}
}

func (g *Global) SetGlobal(key string, v any) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.values[key] = v
}

func (g *Global) GetGlobal(key string) (any, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	v, ok := g.values[key]
	return v, ok
}

// Lock marks key immutable. Registration helpers panic on a locked key.
func (g *Global) Lock(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.locked[key] = true
}

func (g *Global) IsLocked(key string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.locked[key]
}

// UnlockForTesting reopens a locked key.
func (g *Global) UnlockForTesting(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.locked, key)
}
