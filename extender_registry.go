package hitproxy

import "sync"

type extenderEntry struct {
	id       uint64
	extender Extender
}

// extenderRegistry holds registered extenders. Readers take a snapshot so
// that registration may happen while a send iterates.
type extenderRegistry struct {
	mu      sync.RWMutex
	nextID  uint64
	entries []extenderEntry
}

func newExtenderRegistry(initial []Extender) *extenderRegistry {
	r := &extenderRegistry{}
	for _, e := range initial {
		if e != nil {
			r.add(e)
		}
	}
	return r
}

// add registers e and returns a function that unregisters it.
func (r *extenderRegistry) add(e Extender) func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	id := r.nextID
	r.entries = append(r.entries, extenderEntry{id: id, extender: e})

	var once sync.Once
	return func() {
		once.Do(func() { r.remove(id) })
	}
}

func (r *extenderRegistry) remove(id uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, entry := range r.entries {
		if entry.id == id {
			entries := make([]extenderEntry, 0, len(r.entries)-1)
			entries = append(entries, r.entries[:i]...)
			r.entries = append(entries, r.entries[i+1:]...)
			return
		}
	}
}

// snapshot returns the extenders registered at the time of the call.
func (r *extenderRegistry) snapshot() []Extender {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.entries) == 0 {
		return nil
	}
	out := make([]Extender, len(r.entries))
	for i, entry := range r.entries {
		out[i] = entry.extender
	}
	return out
}

func (r *extenderRegistry) count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
