package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/orderbot/pkg/domain"
	"github.com/aretw0/orderbot/pkg/ports"
)

var _ ports.Catalog = (*Catalog)(nil)

// Catalog implements ports.Catalog using in-memory maps.
// It backs tests and the --demo mode, and can inject failures per operation.
type Catalog struct {
	mu sync.Mutex

	products map[string]domain.Product
	order    []string
	pictures map[string][]byte

	carts     map[string]*domain.Cart
	cartOrder []string
	items     map[string]domain.CartItem
	clients   map[string]domain.Client

	seq      int
	calls    map[string]int
	failures map[string]error
}

// NewCatalog creates a catalog seeded with the given products, in display order.
func NewCatalog(products ...domain.Product) *Catalog {
	c := &Catalog{
		products: make(map[string]domain.Product),
		pictures: make(map[string][]byte),
		carts:    make(map[string]*domain.Cart),
		items:    make(map[string]domain.CartItem),
		clients:  make(map[string]domain.Client),
		calls:    make(map[string]int),
		failures: make(map[string]error),
	}
	for _, p := range products {
		c.products[p.ID] = p
		c.order = append(c.order, p.ID)
	}
	return c
}

// NewDemoCatalog returns a small fish-shop catalog for running without a CMS.
func NewDemoCatalog() *Catalog {
	return NewCatalog(
		domain.Product{ID: "salmon", Title: "Salmon", Description: "Chilled Atlantic salmon, 1 kg.", Price: 24.5},
		domain.Product{ID: "trout", Title: "Rainbow trout", Description: "Whole rainbow trout, 1 kg.", Price: 14},
		domain.Product{ID: "shrimp", Title: "Tiger shrimp", Description: "Frozen tiger shrimp, 1 kg.", Price: 31},
	)
}

// SetPicture registers image bytes served for url.
func (c *Catalog) SetPicture(url string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pictures[url] = data
}

// FailOn makes every subsequent call to op return err. A nil err clears the failure.
// op is the method name, e.g. "GetProduct".
func (c *Catalog) FailOn(op string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err == nil {
		delete(c.failures, op)
		return
	}
	c.failures[op] = err
}

// Calls returns how many times op was invoked.
func (c *Catalog) Calls(op string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[op]
}

// Clients returns the recorded client records.
func (c *Catalog) Clients() []domain.Client {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]domain.Client, 0, len(c.clients))
	for _, cl := range c.clients {
		out = append(out, cl)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// enter must be called with mu held.
func (c *Catalog) enter(op string) error {
	c.calls[op]++
	return c.failures[op]
}

func (c *Catalog) nextID(kind string) string {
	c.seq++
	return fmt.Sprintf("%s-%d", kind, c.seq)
}

func (c *Catalog) ListProducts(ctx context.Context) ([]domain.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("ListProducts"); err != nil {
		return nil, err
	}

	out := make([]domain.Product, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.products[id])
	}
	return out, nil
}

func (c *Catalog) GetProduct(ctx context.Context, productID string) (domain.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("GetProduct"); err != nil {
		return domain.Product{}, err
	}

	p, ok := c.products[productID]
	if !ok {
		return domain.Product{}, fmt.Errorf("%w: %s", domain.ErrProductNotFound, productID)
	}
	return p, nil
}

func (c *Catalog) GetPicture(ctx context.Context, pictureURL string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("GetPicture"); err != nil {
		return nil, err
	}

	data, ok := c.pictures[pictureURL]
	if !ok {
		return nil, fmt.Errorf("picture not found: %s", pictureURL)
	}
	return data, nil
}

func (c *Catalog) CreateCart(ctx context.Context, userID string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("CreateCart"); err != nil {
		return "", err
	}

	id := c.nextID("cart")
	c.carts[id] = &domain.Cart{ID: id, UserID: userID}
	c.cartOrder = append(c.cartOrder, id)
	return id, nil
}

func (c *Catalog) FindCartID(ctx context.Context, userID string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("FindCartID"); err != nil {
		return "", false, err
	}

	// Oldest cart wins, mirroring a backend list sorted by creation.
	for _, id := range c.cartOrder {
		if c.carts[id].UserID == userID {
			return id, true, nil
		}
	}
	return "", false, nil
}

func (c *Catalog) GetCart(ctx context.Context, cartID string) (domain.Cart, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("GetCart"); err != nil {
		return domain.Cart{}, err
	}

	cart, ok := c.carts[cartID]
	if !ok {
		return domain.Cart{}, fmt.Errorf("%w: %s", domain.ErrCartNotFound, cartID)
	}

	out := domain.Cart{ID: cart.ID, UserID: cart.UserID}
	for _, item := range cart.Items {
		// Deleted items disappear from every cart that referenced them.
		if current, ok := c.items[item.ID]; ok {
			out.Items = append(out.Items, current)
		}
	}
	return out, nil
}

func (c *Catalog) AttachCartItems(ctx context.Context, cartID string, itemIDs []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("AttachCartItems"); err != nil {
		return err
	}

	cart, ok := c.carts[cartID]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrCartNotFound, cartID)
	}

	for _, id := range itemIDs {
		item, ok := c.items[id]
		if !ok {
			return fmt.Errorf("cart item not found: %s", id)
		}
		if containsItem(cart.Items, id) {
			continue
		}
		cart.Items = append(cart.Items, item)
	}
	return nil
}

func containsItem(items []domain.CartItem, id string) bool {
	for _, it := range items {
		if it.ID == id {
			return true
		}
	}
	return false
}

func (c *Catalog) CreateCartItem(ctx context.Context, cartID, productID string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("CreateCartItem"); err != nil {
		return "", err
	}

	p, ok := c.products[productID]
	if !ok {
		return "", fmt.Errorf("%w: %s", domain.ErrProductNotFound, productID)
	}
	if _, ok := c.carts[cartID]; !ok {
		return "", fmt.Errorf("%w: %s", domain.ErrCartNotFound, cartID)
	}

	id := c.nextID("item")
	c.items[id] = domain.CartItem{ID: id, Quantity: 1, Product: p}
	return id, nil
}

func (c *Catalog) RemoveCartItem(ctx context.Context, itemID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("RemoveCartItem"); err != nil {
		return err
	}

	if _, ok := c.items[itemID]; !ok {
		return fmt.Errorf("cart item not found: %s", itemID)
	}
	delete(c.items, itemID)
	for _, cart := range c.carts {
		for i, it := range cart.Items {
			if it.ID == itemID {
				cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
				break
			}
		}
	}
	return nil
}

func (c *Catalog) CreateClient(ctx context.Context, userID, email string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("CreateClient"); err != nil {
		return "", err
	}

	id := c.nextID("client")
	c.clients[id] = domain.Client{ID: id, UserID: userID, Email: email}
	return id, nil
}
