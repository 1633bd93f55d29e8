package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/orderbot/pkg/domain"
)

// ProductsMarkdown renders the catalog as a markdown table.
func ProductsMarkdown(products []domain.Product) string {
	if len(products) == 0 {
		return "_The catalog is empty._\n"
	}
	var b strings.Builder
	b.WriteString("| ID | Title | Price | Picture |\n")
	b.WriteString("|----|-------|------:|:-------:|\n")
	for _, p := range products {
		picture := ""
		if p.HasPicture() {
			picture = "yes"
		}
		fmt.Fprintf(&b, "| %s | %s | %.2f | %s |\n", p.ID, escape(p.Title), p.Price, picture)
	}
	return b.String()
}

// ProductMarkdown renders one product.
func ProductMarkdown(p domain.Product) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", p.Title)
	if p.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", p.Description)
	}
	fmt.Fprintf(&b, "- **ID**: `%s`\n", p.ID)
	fmt.Fprintf(&b, "- **Price**: %.2f\n", p.Price)
	if p.HasPicture() {
		fmt.Fprintf(&b, "- **Picture**: %s\n", p.PictureURL)
	}
	return b.String()
}

// CartMarkdown renders a cart with its items.
func CartMarkdown(c domain.Cart) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## Cart `%s`\n\n", c.ID)
	if c.IsEmpty() {
		b.WriteString("_empty_\n")
		return b.String()
	}
	for _, item := range c.Items {
		fmt.Fprintf(&b, "- %s × %d (`%s`)\n", escape(item.Product.Title), item.Quantity, item.ID)
	}
	return b.String()
}

func escape(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
