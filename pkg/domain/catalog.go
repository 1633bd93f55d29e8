package domain

// Product is a read-only catalog entry owned by the CMS backend.
type Product struct {
	ID          string  `json:"documentId"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price,omitempty"`

	// PictureURL points to the thumbnail image, empty when the product has no picture.
	PictureURL string `json:"picture_url,omitempty"`
}

// HasPicture reports whether a picture should be fetched for the product.
func (p Product) HasPicture() bool {
	return p.PictureURL != ""
}

// CartItem references one product inside a cart.
type CartItem struct {
	ID       string  `json:"documentId"`
	Quantity int     `json:"quantity"`
	Product  Product `json:"product"`
}

// Cart is owned by exactly one user identity.
type Cart struct {
	ID     string     `json:"documentId"`
	UserID string     `json:"telegram_id"`
	Items  []CartItem `json:"cart_items"`
}

// IsEmpty reports whether the cart holds no items.
func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Client is the record created when a user completes checkout.
type Client struct {
	ID     string `json:"documentId"`
	UserID string `json:"telegram_id"`
	Email  string `json:"email"`
}
