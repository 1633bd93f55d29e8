package runtime

import (
	"context"
	"fmt"
	"strings"

	"github.com/aretw0/orderbot/pkg/domain"
)

// menu renders the product list with the cart affordance.
func (e *Engine) menu(ctx context.Context, ev domain.Event) (domain.Outcome, error) {
	products, err := e.catalog.ListProducts(ctx)
	if err != nil {
		return domain.Outcome{}, fmt.Errorf("list products: %w", err)
	}

	kb := make(domain.Keyboard, 0, len(products)+1)
	for _, p := range products {
		kb = append(kb, domain.Row(p.Title, p.ID))
	}
	kb = append(kb, domain.Row(e.texts.MyCart, domain.TokenShowCart))

	var replies []domain.Reply
	if ev.Kind == domain.EventCallback {
		replies = append(replies, domain.Ack())
		if ev.Payload == domain.TokenReturnToMenu {
			replies = append(replies, domain.Delete())
		}
	}
	replies = append(replies, domain.Send(e.texts.ChooseProduct, kb))

	return domain.Outcome{Replies: replies, Next: domain.StateHandleMenu}, nil
}

// productDetail replaces the menu with the product card.
func (e *Engine) productDetail(ctx context.Context, productID string) (domain.Outcome, error) {
	product, err := e.catalog.GetProduct(ctx, productID)
	if err != nil {
		return domain.Outcome{}, fmt.Errorf("get product %s: %w", productID, err)
	}

	kb := domain.Keyboard{
		domain.Row(e.texts.AddToCart, product.ID),
		domain.Row(e.texts.MyCart, domain.TokenShowCart),
		domain.Row(e.texts.Back, domain.TokenReturnToMenu),
	}
	caption := product.Title
	if product.Description != "" {
		caption += "\n\n" + product.Description
	}

	detail := domain.EditText(caption, kb)
	if product.HasPicture() {
		picture, err := e.catalog.GetPicture(ctx, product.PictureURL)
		if err != nil {
			return domain.Outcome{}, fmt.Errorf("get picture for %s: %w", productID, err)
		}
		detail = domain.EditPhoto(picture, caption, kb)
	}

	return domain.Outcome{
		Replies: []domain.Reply{domain.Ack(), detail},
		Next:    domain.StateHandleDescription,
	}, nil
}

// showCart replaces the originating message with the cart content.
func (e *Engine) showCart(ctx context.Context, ev domain.Event) (domain.Outcome, error) {
	cartID, err := e.carts.Resolve(ctx, ev.UserID)
	if err != nil {
		return domain.Outcome{}, err
	}
	cart, err := e.catalog.GetCart(ctx, cartID)
	if err != nil {
		return domain.Outcome{}, fmt.Errorf("get cart %s: %w", cartID, err)
	}

	text, kb := e.renderCart(cart)

	return domain.Outcome{
		Replies: []domain.Reply{domain.Ack(), domain.Delete(), domain.Send(text, kb)},
		Next:    domain.StateHandleCart,
	}, nil
}

// renderCart lists items with a removal affordance each. Checkout and back are always offered.
func (e *Engine) renderCart(cart domain.Cart) (string, domain.Keyboard) {
	lines := make([]string, 0, len(cart.Items))
	kb := make(domain.Keyboard, 0, len(cart.Items)+2)

	for _, item := range cart.Items {
		lines = append(lines, fmt.Sprintf(e.texts.CartLine, item.Product.Title, item.Quantity))
		kb = append(kb, domain.Row(fmt.Sprintf(e.texts.RemoveItem, item.Product.Title), item.ID))
	}
	kb = append(kb,
		domain.Row(e.texts.Checkout, domain.TokenRequestEmail),
		domain.Row(e.texts.BackToMenu, domain.TokenReturnToMenu),
	)

	if len(lines) == 0 {
		return e.texts.CartEmpty, kb
	}
	return strings.Join(lines, "\n"), kb
}

// requestEmail prompts for the checkout email.
func (e *Engine) requestEmail() domain.Outcome {
	return domain.Outcome{
		Replies: []domain.Reply{domain.Ack(), domain.EditText(e.texts.RequestEmail, nil)},
		Next:    domain.StateHandleWaitingEmail,
	}
}
