package middleware

import (
	"context"
	"log/slog"
	"strings"

	"github.com/aretw0/orderbot/pkg/ports"
)

// NewAuditMiddleware logs every catalog write. Email addresses are masked.
func NewAuditMiddleware(logger *slog.Logger) Middleware {
	return func(next ports.Catalog) ports.Catalog {
		return &audited{Catalog: next, logger: logger}
	}
}

// audited embeds the catalog so reads pass through untouched.
type audited struct {
	ports.Catalog
	logger *slog.Logger
}

func (a *audited) log(ctx context.Context, op string, err error, attrs ...any) {
	attrs = append(attrs, "op", op)
	if err != nil {
		a.logger.WarnContext(ctx, "catalog write failed", append(attrs, "error", err)...)
		return
	}
	a.logger.InfoContext(ctx, "catalog write", attrs...)
}

func (a *audited) CreateCart(ctx context.Context, userID string) (string, error) {
	id, err := a.Catalog.CreateCart(ctx, userID)
	a.log(ctx, "CreateCart", err, "user_id", userID, "cart_id", id)
	return id, err
}

func (a *audited) AttachCartItems(ctx context.Context, cartID string, itemIDs []string) error {
	err := a.Catalog.AttachCartItems(ctx, cartID, itemIDs)
	a.log(ctx, "AttachCartItems", err, "cart_id", cartID, "items", itemIDs)
	return err
}

func (a *audited) CreateCartItem(ctx context.Context, cartID, productID string) (string, error) {
	id, err := a.Catalog.CreateCartItem(ctx, cartID, productID)
	a.log(ctx, "CreateCartItem", err, "cart_id", cartID, "product_id", productID, "item_id", id)
	return id, err
}

func (a *audited) RemoveCartItem(ctx context.Context, itemID string) error {
	err := a.Catalog.RemoveCartItem(ctx, itemID)
	a.log(ctx, "RemoveCartItem", err, "item_id", itemID)
	return err
}

func (a *audited) CreateClient(ctx context.Context, userID, email string) (string, error) {
	id, err := a.Catalog.CreateClient(ctx, userID, email)
	a.log(ctx, "CreateClient", err, "user_id", userID, "client_id", id, "email", MaskEmail(email))
	return id, err
}

// MaskEmail keeps the first character of the local part and the domain: "a***@b.com".
// Input without "@" is fully masked.
func MaskEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		return "***"
	}
	return email[:1] + "***" + email[at:]
}

var _ ports.Catalog = (*audited)(nil)
