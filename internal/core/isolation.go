package core

import "sync"

// LoadingUnit is a long-lived isolated class-loading unit. It accumulates
// the jar paths of every artifact sharing its isolation-group id; the
// embedding host turns those paths into an actual isolated loader and owns
// the unit's end of life.
type LoadingUnit struct {
	id string

	mu    sync.Mutex
	paths []string
}

func (u *LoadingUnit) ID() string { return u.id }

// AddPath appends a jar path to the unit. Paths are kept in load order.
func (u *LoadingUnit) AddPath(path string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.paths = append(u.paths, path)
}

// Paths returns a snapshot of the jars loaded into this unit.
func (u *LoadingUnit) Paths() []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]string(nil), u.paths...)
}

// IsolationRegistry maps isolation-group ids to loading units, creating each
// unit at most once per id. Units are never evicted.
type IsolationRegistry struct {
	mu    sync.Mutex
	units map[string]*LoadingUnit
}

func NewIsolationRegistry() *IsolationRegistry {
	return &IsolationRegistry{units: map[string]*LoadingUnit{}}
}

// GetOrCreate returns the unit for id, creating it on first use. The
// check-and-insert is atomic; the lock guards only the map mutation.
func (r *IsolationRegistry) GetOrCreate(id string) *LoadingUnit {
	r.mu.Lock()
	defer r.mu.Unlock()
	unit, ok := r.units[id]
	if !ok {
		unit = &LoadingUnit{id: id}
		r.units[id] = unit
	}
	return unit
}

// Get returns the unit for id if one was created.
func (r *IsolationRegistry) Get(id string) (*LoadingUnit, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	unit, ok := r.units[id]
	return unit, ok
}
