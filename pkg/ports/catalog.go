package ports

import (
	"context"

	"github.com/aretw0/orderbot/pkg/domain"
)

// Catalog is the content backend holding products, carts and client records.
// Implementations propagate backend failures unmodified; retry policy belongs to callers.
type Catalog interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, productID string) (domain.Product, error)
	GetPicture(ctx context.Context, pictureURL string) ([]byte, error)

	CreateCart(ctx context.Context, userID string) (string, error)
	// FindCartID looks a cart up by owner. ok is false when the user has none.
	FindCartID(ctx context.Context, userID string) (cartID string, ok bool, err error)
	GetCart(ctx context.Context, cartID string) (domain.Cart, error)
	// AttachCartItems connects items to a cart without removing existing ones.
	AttachCartItems(ctx context.Context, cartID string, itemIDs []string) error

	CreateCartItem(ctx context.Context, cartID, productID string) (string, error)
	RemoveCartItem(ctx context.Context, itemID string) error

	CreateClient(ctx context.Context, userID, email string) (string, error)
}
