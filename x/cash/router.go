package cash

import (
	"context"
	"fmt"
	"sync"

	"github.com/iov-one/quorum"
)

// Callee is code that receives dispatched value together with the
// transaction payload.
type Callee interface {
	Call(ctx context.Context, value uint64, payload []byte) error
}

// CalleeFunc adapts a function to the Callee interface.
type CalleeFunc func(ctx context.Context, value uint64, payload []byte) error

// Call implements Callee.
func (fn CalleeFunc) Call(ctx context.Context, value uint64, payload []byte) error {
	return fn(ctx, value, payload)
}

// Router maps target addresses to callees.
type Router struct {
	mu     sync.RWMutex
	routes map[string]Callee
}

// NewRouter returns an empty router.
func NewRouter() *Router {
	return &Router{
		routes: make(map[string]Callee),
	}
}

// Handle registers a callee for the target address. Registering the same
// address twice panics.
func (r *Router) Handle(target quorum.Address, c Callee) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := string(target)
	if _, ok := r.routes[key]; ok {
		panic(fmt.Sprintf("re-registering route: %s", target))
	}
	r.routes[key] = c
}

// Callee returns the callee registered for the target or nil.
func (r *Router) Callee(target quorum.Address) Callee {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.routes[string(target)]
}
