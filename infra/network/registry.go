package network

import (
	"log"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// HashMethodName derives the wire method id from a method's fully-qualified
// name ("ServiceName.MethodName"). The original asio_pbrpc used
// std::hash<string>, whose output varies across standard library
// implementations and process runs - not safe for two independently built
// binaries to agree on over the wire. xxhash.Sum64 is stable across
// platforms and processes, so it is used here instead (see SPEC_FULL.md §9).
func HashMethodName(fullName string) uint64 {
	return xxhash.Sum64String(fullName)
}

// Registry maps method ids to the (Service, MethodDescriptor) pair a Server
// dispatches a decoded request to (component G).
type Registry struct {
	mu      sync.RWMutex
	entries map[uint64]registryEntry
}

type registryEntry struct {
	service Service
	method  *MethodDescriptor
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[uint64]registryEntry)}
}

// RegisterService hashes every method of svc's descriptor and adds it to the
// registry. A hash collision against an already-registered method id is
// logged and the later registration is rejected, rather than silently
// overwriting a live route.
func (r *Registry) RegisterService(svc Service) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range svc.Descriptor().Methods {
		id := HashMethodName(m.FullName)
		if existing, ok := r.entries[id]; ok {
			log.Printf("registry: method id %d collision: %q already registered, rejecting %q",
				id, existing.method.FullName, m.FullName)
			continue
		}
		r.entries[id] = registryEntry{service: svc, method: m}
	}
}

// Lookup resolves a wire method id to its registered service and method
// descriptor. ok is false when no method was ever registered under id.
func (r *Registry) Lookup(methodID uint64) (Service, *MethodDescriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[methodID]
	if !ok {
		return nil, nil, false
	}
	return e.service, e.method, true
}
