package cms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aretw0/orderbot/internal/logging"
	"github.com/aretw0/orderbot/pkg/domain"
	"github.com/aretw0/orderbot/pkg/ports"
)

// DefaultTimeout bounds every backend call unless WithHTTPClient overrides the transport.
const DefaultTimeout = 10 * time.Second

// maxErrorBody caps how much of an error response is kept in RemoteError.
const maxErrorBody = 4096

// Client calls the CMS backend over HTTP.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

var _ ports.Catalog = (*Client)(nil)

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout. A client given with WithHTTPClient is
// copied, never modified.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			hc := *c.httpClient
			hc.Timeout = d
			c.httpClient = &hc
		}
	}
}

// WithLogger configures a logger for failed requests.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient constructs a CMS client for baseURL authenticated with token.
func NewClient(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// resolve turns an API path or a media URL into an absolute URL.
func (c *Client) resolve(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}

// do performs the request and returns the raw body of a 2xx response.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	target := c.resolve(path)
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("cms: encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("cms: build %s %s: %w", method, path, err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cms: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("cms: read %s %s: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if len(data) > maxErrorBody {
			data = data[:maxErrorBody]
		}
		c.logger.Warn("cms request failed",
			"method", method,
			"path", path,
			"status", resp.StatusCode,
			"body", string(data),
		)
		return nil, &RemoteError{Method: method, Path: path, Status: resp.StatusCode, Body: string(data)}
	}

	return data, nil
}

// call performs a request and decodes the envelope payload into out (when out is not nil).
func (c *Client) call(ctx context.Context, method, path string, query url.Values, body, out any) error {
	data, err := c.do(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("cms: decode %s %s: %w", method, path, err)
	}
	return nil
}

// ListProducts returns every product in backend order.
func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var resp envelope[[]product]
	if err := c.call(ctx, http.MethodGet, "/api/products", nil, nil, &resp); err != nil {
		return nil, err
	}

	out := make([]domain.Product, 0, len(resp.Data))
	for _, p := range resp.Data {
		out = append(out, p.toDomain())
	}
	return out, nil
}

// GetProduct fetches one product with its picture populated.
func (c *Client) GetProduct(ctx context.Context, productID string) (domain.Product, error) {
	query := url.Values{"populate": {"picture"}}

	var resp envelope[*product]
	if err := c.call(ctx, http.MethodGet, "/api/products/"+url.PathEscape(productID), query, nil, &resp); err != nil {
		return domain.Product{}, err
	}
	if resp.Data == nil {
		return domain.Product{}, fmt.Errorf("%w: %s", domain.ErrProductNotFound, productID)
	}
	return resp.Data.toDomain(), nil
}

// GetPicture downloads the raw bytes behind a picture URL (absolute or backend-relative).
func (c *Client) GetPicture(ctx context.Context, pictureURL string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, pictureURL, nil, nil)
}

// CreateCart creates an empty cart owned by userID and returns its id.
func (c *Client) CreateCart(ctx context.Context, userID string) (string, error) {
	req := envelope[newCart]{Data: newCart{TelegramID: userID}}

	var resp envelope[documentRef]
	if err := c.call(ctx, http.MethodPost, "/api/carts", nil, req, &resp); err != nil {
		return "", err
	}
	return resp.Data.DocumentID, nil
}

// FindCartID returns the id of the first cart owned by userID.
func (c *Client) FindCartID(ctx context.Context, userID string) (string, bool, error) {
	query := url.Values{
		"filters[telegram_id][$eq]": {userID},
		"sort":                      {"createdAt:asc"},
	}

	var resp envelope[[]documentRef]
	if err := c.call(ctx, http.MethodGet, "/api/carts", query, nil, &resp); err != nil {
		return "", false, err
	}
	if len(resp.Data) == 0 {
		return "", false, nil
	}
	return resp.Data[0].DocumentID, true, nil
}

// GetCart fetches a cart with its items and each item's product.
func (c *Client) GetCart(ctx context.Context, cartID string) (domain.Cart, error) {
	query := url.Values{"populate[cart_items][populate][0]": {"product"}}

	var resp envelope[*cart]
	if err := c.call(ctx, http.MethodGet, "/api/carts/"+url.PathEscape(cartID), query, nil, &resp); err != nil {
		return domain.Cart{}, err
	}
	if resp.Data == nil {
		return domain.Cart{}, fmt.Errorf("%w: %s", domain.ErrCartNotFound, cartID)
	}
	return resp.Data.toDomain(), nil
}

// AttachCartItems connects items to a cart. Existing items are kept.
func (c *Client) AttachCartItems(ctx context.Context, cartID string, itemIDs []string) error {
	req := envelope[cartItemsUpdate]{Data: cartItemsUpdate{CartItems: connect{Connect: itemIDs}}}
	return c.call(ctx, http.MethodPut, "/api/carts/"+url.PathEscape(cartID), nil, req, nil)
}

// CreateCartItem creates an item with quantity 1 and returns its id.
func (c *Client) CreateCartItem(ctx context.Context, cartID, productID string) (string, error) {
	req := envelope[newCartItem]{Data: newCartItem{Cart: cartID, Product: productID, Quantity: 1}}

	var resp envelope[documentRef]
	if err := c.call(ctx, http.MethodPost, "/api/cart-items", nil, req, &resp); err != nil {
		return "", err
	}
	return resp.Data.DocumentID, nil
}

// RemoveCartItem deletes a cart item by id.
func (c *Client) RemoveCartItem(ctx context.Context, itemID string) error {
	return c.call(ctx, http.MethodDelete, "/api/cart-items/"+url.PathEscape(itemID), nil, nil, nil)
}

// CreateClient records a completed checkout and returns the client id.
func (c *Client) CreateClient(ctx context.Context, userID, email string) (string, error) {
	req := envelope[newClient]{Data: newClient{TelegramID: userID, Email: email}}

	var resp envelope[documentRef]
	if err := c.call(ctx, http.MethodPost, "/api/clients", nil, req, &resp); err != nil {
		return "", err
	}
	return resp.Data.DocumentID, nil
}
