package middleware

import "github.com/aretw0/arbor/pkg/ports"

// Middleware allows wrapping a ContextStore to add behavior.
type Middleware func(ports.ContextStore) ports.ContextStore

// Wrap applies mws to store. The first middleware is the outermost.
func Wrap(store ports.ContextStore, mws ...Middleware) ports.ContextStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}
