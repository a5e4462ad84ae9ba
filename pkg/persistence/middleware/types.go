// Package middleware wraps a ports.ProgressStore with cross-cutting
// behavior: table integrity enforcement and persistence metrics. Middleware
// composes around any adapter, so the same checks guard a JSON file and a
// Redis hash alike.
package middleware

import "github.com/patrick-brian-mooney/IF-utils/pkg/ports"

// Middleware allows wrapping a ProgressStore to add behavior.
type Middleware func(ports.ProgressStore) ports.ProgressStore

// Chain wraps store with every middleware, first one outermost. Chain with
// no middleware returns store unchanged.
func Chain(store ports.ProgressStore, mws ...Middleware) ports.ProgressStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}
