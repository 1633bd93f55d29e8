package domain

import "errors"

// ErrSessionNotFound is returned when no state has been recorded for a user yet.
var ErrSessionNotFound = errors.New("session not found")

// ErrStoreUnavailable is returned when the session store cannot be reached.
var ErrStoreUnavailable = errors.New("session store unavailable")

// ErrUnknownState is returned when a session holds a state outside the dispatch table.
var ErrUnknownState = errors.New("unknown state")

// ErrProductNotFound is returned by catalogs when a product id does not resolve.
var ErrProductNotFound = errors.New("product not found")

// ErrCartNotFound is returned by catalogs when a cart id does not resolve.
var ErrCartNotFound = errors.New("cart not found")
