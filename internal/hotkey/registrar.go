package hotkey

import (
	"errors"
	"sync"
)

// ErrUnsupportedPlatform is returned by system.Registrar in builds without
// a global hotkey backend.
var ErrUnsupportedPlatform = errors.New("hotkey: global hotkeys are not supported on this platform")

// Registrar binds combos to callbacks with the OS. Callbacks run on a
// goroutine owned by the registrar.
type Registrar interface {
	Register(c Combo, fn func()) error
	UnregisterAll() error
}

// MemoryRegistrar is a Registrar that never talks to the OS. Fire
// simulates a press.
type MemoryRegistrar struct {
	mu        sync.Mutex
	callbacks map[string]func()
	fail      map[string]error
}

// NewMemoryRegistrar creates an empty MemoryRegistrar.
func NewMemoryRegistrar() *MemoryRegistrar {
	return &MemoryRegistrar{
		callbacks: make(map[string]func()),
		fail:      make(map[string]error),
	}
}

// FailOn makes the next Register of c return err.
func (r *MemoryRegistrar) FailOn(c Combo, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fail[c.String()] = err
}

// Register implements Registrar.
func (r *MemoryRegistrar) Register(c Combo, fn func()) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err, ok := r.fail[c.String()]; ok {
		delete(r.fail, c.String())
		return err
	}
	r.callbacks[c.String()] = fn
	return nil
}

// UnregisterAll implements Registrar.
func (r *MemoryRegistrar) UnregisterAll() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.callbacks = make(map[string]func())
	return nil
}

// Fire runs the callback bound to c and reports whether one was bound.
func (r *MemoryRegistrar) Fire(c Combo) bool {
	r.mu.Lock()
	fn, ok := r.callbacks[c.String()]
	r.mu.Unlock()
	if ok {
		fn()
	}
	return ok
}

// Bound returns how many combos are registered.
func (r *MemoryRegistrar) Bound() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.callbacks)
}
