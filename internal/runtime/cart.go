package runtime

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/orderbot/pkg/ports"
)

// CartResolver maps a user to exactly one backend cart.
//
// The session store caches the id. On a cache miss the backend is searched by owner
// before a new cart is created, so a lost cache (or a second replica) reuses the
// existing cart instead of creating another one.
type CartResolver struct {
	cache   ports.CartStore
	catalog ports.Catalog
	logger  *slog.Logger
}

// NewCartResolver wires the cache and backend.
func NewCartResolver(cache ports.CartStore, catalog ports.Catalog, logger *slog.Logger) *CartResolver {
	return &CartResolver{cache: cache, catalog: catalog, logger: logger}
}

// Resolve returns the user's cart id, creating the cart at most once.
func (r *CartResolver) Resolve(ctx context.Context, userID string) (string, error) {
	cartID, ok, err := r.cache.GetCartID(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("read cached cart id: %w", err)
	}
	if ok {
		return cartID, nil
	}

	cartID, ok, err = r.catalog.FindCartID(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("find cart: %w", err)
	}
	if !ok {
		cartID, err = r.catalog.CreateCart(ctx, userID)
		if err != nil {
			return "", fmt.Errorf("create cart: %w", err)
		}
		r.logger.Info("cart created", "user_id", userID, "cart_id", cartID)
	}

	if err := r.cache.SetCartID(ctx, userID, cartID); err != nil {
		return "", fmt.Errorf("cache cart id: %w", err)
	}
	return cartID, nil
}
