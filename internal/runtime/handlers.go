package runtime

import (
	"context"
	"fmt"

	"github.com/aretw0/orderbot/pkg/domain"
)

// handleStart renders the catalog.
func (e *Engine) handleStart(ctx context.Context, ev domain.Event) (domain.Outcome, error) {
	return e.menu(ctx, ev)
}

// handleMenu opens a product, or the cart.
func (e *Engine) handleMenu(ctx context.Context, ev domain.Event) (domain.Outcome, error) {
	switch {
	case ev.Kind != domain.EventCallback, ev.IsCallback(domain.TokenReturnToMenu):
		return e.menu(ctx, ev)
	case ev.IsCallback(domain.TokenShowCart):
		return e.showCart(ctx, ev)
	}
	return e.productDetail(ctx, ev.Payload)
}

// handleDescription adds the displayed product to the user's cart.
func (e *Engine) handleDescription(ctx context.Context, ev domain.Event) (domain.Outcome, error) {
	switch {
	case ev.Kind != domain.EventCallback, ev.IsCallback(domain.TokenReturnToMenu):
		return e.menu(ctx, ev)
	case ev.IsCallback(domain.TokenShowCart):
		return e.showCart(ctx, ev)
	}

	productID := ev.Payload
	cartID, err := e.carts.Resolve(ctx, ev.UserID)
	if err != nil {
		return domain.Outcome{}, err
	}
	itemID, err := e.catalog.CreateCartItem(ctx, cartID, productID)
	if err != nil {
		return domain.Outcome{}, fmt.Errorf("create cart item: %w", err)
	}
	if err := e.catalog.AttachCartItems(ctx, cartID, []string{itemID}); err != nil {
		return domain.Outcome{}, fmt.Errorf("attach cart item: %w", err)
	}

	e.logger.Info("product added to cart",
		"user_id", ev.UserID,
		"cart_id", cartID,
		"product_id", productID,
		"item_id", itemID,
	)

	return domain.Outcome{
		Replies: []domain.Reply{
			domain.Alert(e.texts.AddedToCart),
			domain.Delete(),
			domain.Send(e.texts.WhatNext, domain.Keyboard{
				domain.Row(e.texts.BackToMenu, domain.TokenReturnToMenu),
			}),
		},
		Next: domain.StateStart,
	}, nil
}

// handleCart removes items or moves on to checkout.
func (e *Engine) handleCart(ctx context.Context, ev domain.Event) (domain.Outcome, error) {
	switch {
	case ev.Kind != domain.EventCallback, ev.IsCallback(domain.TokenReturnToMenu):
		return e.menu(ctx, ev)
	case ev.IsCallback(domain.TokenRequestEmail):
		return e.requestEmail(), nil
	case ev.IsCallback(domain.TokenShowCart):
		return e.showCart(ctx, ev)
	}

	itemID := ev.Payload
	if err := e.catalog.RemoveCartItem(ctx, itemID); err != nil {
		return domain.Outcome{}, fmt.Errorf("remove cart item: %w", err)
	}
	e.logger.Info("cart item removed", "user_id", ev.UserID, "item_id", itemID)

	out, err := e.showCart(ctx, ev)
	if err != nil {
		return domain.Outcome{}, err
	}
	out.Replies = append([]domain.Reply{domain.Alert(e.texts.ItemRemoved)}, out.Replies...)
	return out, nil
}

// handleWaitingEmail records the checkout. The text is stored as-is.
func (e *Engine) handleWaitingEmail(ctx context.Context, ev domain.Event) (domain.Outcome, error) {
	if ev.IsCallback(domain.TokenReturnToMenu) {
		return e.menu(ctx, ev)
	}
	if ev.Kind == domain.EventCallback {
		return domain.Outcome{
			Replies: []domain.Reply{domain.Ack(), domain.Send(e.texts.RequestEmail, nil)},
			Next:    domain.StateHandleWaitingEmail,
		}, nil
	}

	clientID, err := e.catalog.CreateClient(ctx, ev.UserID, ev.Payload)
	if err != nil {
		return domain.Outcome{}, fmt.Errorf("create client: %w", err)
	}
	e.logger.Info("order placed", "user_id", ev.UserID, "client_id", clientID)

	return domain.Outcome{
		Replies: []domain.Reply{
			domain.Send(e.texts.OrderPlaced, domain.Keyboard{
				domain.Row(e.texts.BackToMenu, domain.TokenReturnToMenu),
			}),
		},
		Next: domain.StateStart,
	}, nil
}
