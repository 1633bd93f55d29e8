package cms

import (
	"bytes"
	"encoding/json"

	"github.com/aretw0/orderbot/pkg/domain"
)

// envelope wraps every request and response body.
type envelope[T any] struct {
	Data T `json:"data"`
}

type documentRef struct {
	DocumentID string `json:"documentId"`
}

type mediaFormat struct {
	URL string `json:"url"`
}

type media struct {
	URL     string                 `json:"url"`
	Formats map[string]mediaFormat `json:"formats"`
}

// thumbnailURL prefers the thumbnail rendition and falls back to the original.
func (m *media) thumbnailURL() string {
	if m == nil {
		return ""
	}
	if thumb, ok := m.Formats["thumbnail"]; ok && thumb.URL != "" {
		return thumb.URL
	}
	return m.URL
}

type product struct {
	DocumentID  string  `json:"documentId"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Picture     *media  `json:"picture"`
}

func (p product) toDomain() domain.Product {
	return domain.Product{
		ID:          p.DocumentID,
		Title:       p.Title,
		Description: p.Description,
		Price:       p.Price,
		PictureURL:  p.Picture.thumbnailURL(),
	}
}

type cartItem struct {
	DocumentID string  `json:"documentId"`
	Quantity   int     `json:"quantity"`
	Product    product `json:"product"`
}

type cart struct {
	DocumentID string     `json:"documentId"`
	TelegramID flexString `json:"telegram_id"`
	CartItems  []cartItem `json:"cart_items"`
}

func (c cart) toDomain() domain.Cart {
	out := domain.Cart{ID: c.DocumentID, UserID: string(c.TelegramID)}
	for _, it := range c.CartItems {
		out.Items = append(out.Items, domain.CartItem{
			ID:       it.DocumentID,
			Quantity: it.Quantity,
			Product:  it.Product.toDomain(),
		})
	}
	return out
}

type newCart struct {
	TelegramID string `json:"telegram_id"`
}

type connect struct {
	Connect []string `json:"connect"`
}

type cartItemsUpdate struct {
	CartItems connect `json:"cart_items"`
}

type newCartItem struct {
	Cart     string `json:"cart"`
	Product  string `json:"product"`
	Quantity int    `json:"quantity"`
}

type newClient struct {
	TelegramID string `json:"telegram_id"`
	Email      string `json:"email"`
}

// flexString accepts both JSON strings and numbers; user ids are stored as
// integers or big integers depending on the backend schema.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}
