package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/aretw0/orderbot/internal/presentation/tui"
	"github.com/aretw0/orderbot/pkg/runner"
)

// ListProducts prints the catalog.
func ListProducts(ctx context.Context, app *App, w io.Writer, render runner.ContentRenderer) error {
	products, err := app.Catalog.ListProducts(ctx)
	if err != nil {
		return err
	}
	return printMarkdown(w, tui.ProductsMarkdown(products), render)
}

// ShowProduct prints one product.
func ShowProduct(ctx context.Context, app *App, productID string, w io.Writer, render runner.ContentRenderer) error {
	product, err := app.Catalog.GetProduct(ctx, productID)
	if err != nil {
		return err
	}
	return printMarkdown(w, tui.ProductMarkdown(product), render)
}

// ShowCart prints a cart by id.
func ShowCart(ctx context.Context, app *App, cartID string, w io.Writer, render runner.ContentRenderer) error {
	cart, err := app.Catalog.GetCart(ctx, cartID)
	if err != nil {
		return err
	}
	return printMarkdown(w, tui.CartMarkdown(cart), render)
}

func printMarkdown(w io.Writer, md string, render runner.ContentRenderer) error {
	if render != nil {
		if out, err := render(md); err == nil {
			md = out
		}
	}
	_, err := fmt.Fprint(w, md)
	return err
}
