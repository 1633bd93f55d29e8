// Package middleware wraps a ports.Catalog to add behavior around backend calls.
package middleware

import "github.com/aretw0/orderbot/pkg/ports"

// Middleware allows wrapping a Catalog to add behavior.
type Middleware func(ports.Catalog) ports.Catalog

// Chain applies middlewares so that the first one is the outermost.
func Chain(next ports.Catalog, mws ...Middleware) ports.Catalog {
	for i := len(mws) - 1; i >= 0; i-- {
		next = mws[i](next)
	}
	return next
}
