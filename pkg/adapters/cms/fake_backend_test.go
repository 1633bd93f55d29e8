package cms_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
)

const testToken = "secret-token"

type fakeProduct struct {
	DocumentID  string         `json:"documentId"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Picture     map[string]any `json:"picture,omitempty"`
}

type fakeItem struct {
	DocumentID string      `json:"documentId"`
	Quantity   int         `json:"quantity"`
	Product    fakeProduct `json:"product"`
}

type fakeCart struct {
	DocumentID string   `json:"documentId"`
	TelegramID any      `json:"telegram_id"`
	Items      []string `json:"-"`
}

// fakeBackend mimics the subset of the CMS REST API the client uses.
type fakeBackend struct {
	mu sync.Mutex

	products map[string]fakeProduct
	carts    map[string]*fakeCart
	order    []string
	items    map[string]fakeItem
	clients  []map[string]any
	seq      int

	requests []*http.Request
	failWith int
}

func newFakeBackend(t *testing.T) (*fakeBackend, *httptest.Server) {
	t.Helper()
	fb := &fakeBackend{
		products: map[string]fakeProduct{
			"p1": {DocumentID: "p1", Title: "Salmon", Description: "Fresh salmon", Picture: map[string]any{
				"url": "/uploads/salmon.jpg",
				"formats": map[string]any{
					"thumbnail": map[string]any{"url": "/uploads/thumbnail_salmon.jpg"},
				},
			}},
			"p2": {DocumentID: "p2", Title: "Trout", Description: "Fresh trout"},
		},
		carts: make(map[string]*fakeCart),
		items: make(map[string]fakeItem),
	}

	r := chi.NewRouter()
	r.Use(fb.record, fb.auth)
	r.Get("/api/products", fb.listProducts)
	r.Get("/api/products/{id}", fb.getProduct)
	r.Get("/uploads/{file}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write([]byte("jpeg:" + chi.URLParam(r, "file")))
	})
	r.Post("/api/carts", fb.createCart)
	r.Get("/api/carts", fb.findCarts)
	r.Get("/api/carts/{id}", fb.getCart)
	r.Put("/api/carts/{id}", fb.updateCart)
	r.Post("/api/cart-items", fb.createItem)
	r.Delete("/api/cart-items/{id}", fb.deleteItem)
	r.Post("/api/clients", fb.createClient)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return fb, srv
}

func (fb *fakeBackend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fb.mu.Lock()
		fb.requests = append(fb.requests, r.Clone(r.Context()))
		status := fb.failWith
		fb.mu.Unlock()
		if status != 0 {
			http.Error(w, `{"error":{"status":`+fmt.Sprint(status)+`,"message":"forced"}}`, status)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (fb *fakeBackend) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+testToken {
			http.Error(w, `{"error":{"status":401,"message":"Missing or invalid credentials"}}`, http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeData(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"data": data})
}

func decodeData(r *http.Request) map[string]any {
	var body struct {
		Data map[string]any `json:"data"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)
	return body.Data
}

func (fb *fakeBackend) nextID(kind string) string {
	fb.seq++
	return fmt.Sprintf("%s-%d", kind, fb.seq)
}

func (fb *fakeBackend) listProducts(w http.ResponseWriter, r *http.Request) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	out := []fakeProduct{}
	for _, id := range []string{"p1", "p2"} {
		p := fb.products[id]
		p.Picture = nil // not populated on list
		out = append(out, p)
	}
	writeData(w, out)
}

func (fb *fakeBackend) getProduct(w http.ResponseWriter, r *http.Request) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	p, ok := fb.products[chi.URLParam(r, "id")]
	if !ok {
		http.Error(w, `{"data":null,"error":{"status":404,"message":"Not Found"}}`, http.StatusNotFound)
		return
	}
	if r.URL.Query().Get("populate") != "picture" {
		p.Picture = nil
	}
	writeData(w, p)
}

func (fb *fakeBackend) createCart(w http.ResponseWriter, r *http.Request) {
	data := decodeData(r)
	fb.mu.Lock()
	defer fb.mu.Unlock()
	id := fb.nextID("cart")
	fb.carts[id] = &fakeCart{DocumentID: id, TelegramID: data["telegram_id"]}
	fb.order = append(fb.order, id)
	writeData(w, map[string]any{"documentId": id})
}

func (fb *fakeBackend) findCarts(w http.ResponseWriter, r *http.Request) {
	want := r.URL.Query().Get("filters[telegram_id][$eq]")
	fb.mu.Lock()
	defer fb.mu.Unlock()
	out := []map[string]any{}
	for _, id := range fb.order {
		if fmt.Sprint(fb.carts[id].TelegramID) == want {
			out = append(out, map[string]any{"documentId": id})
		}
	}
	writeData(w, out)
}

func (fb *fakeBackend) getCart(w http.ResponseWriter, r *http.Request) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	c, ok := fb.carts[chi.URLParam(r, "id")]
	if !ok {
		http.Error(w, `{"data":null}`, http.StatusNotFound)
		return
	}
	populate := r.URL.Query().Get("populate[cart_items][populate][0]") == "product"
	items := []fakeItem{}
	for _, id := range c.Items {
		it, ok := fb.items[id]
		if !ok {
			continue
		}
		if !populate {
			it.Product = fakeProduct{}
		}
		items = append(items, it)
	}
	writeData(w, map[string]any{
		"documentId":  c.DocumentID,
		"telegram_id": c.TelegramID,
		"cart_items":  items,
	})
}

func (fb *fakeBackend) updateCart(w http.ResponseWriter, r *http.Request) {
	data := decodeData(r)
	fb.mu.Lock()
	defer fb.mu.Unlock()
	c, ok := fb.carts[chi.URLParam(r, "id")]
	if !ok {
		http.Error(w, `{"data":null}`, http.StatusNotFound)
		return
	}
	rel, _ := data["cart_items"].(map[string]any)
	connect, _ := rel["connect"].([]any)
	for _, raw := range connect {
		id := fmt.Sprint(raw)
		exists := false
		for _, have := range c.Items {
			exists = exists || have == id
		}
		if !exists {
			c.Items = append(c.Items, id)
		}
	}
	writeData(w, map[string]any{"documentId": c.DocumentID})
}

func (fb *fakeBackend) createItem(w http.ResponseWriter, r *http.Request) {
	data := decodeData(r)
	fb.mu.Lock()
	defer fb.mu.Unlock()
	p := fb.products[fmt.Sprint(data["product"])]
	p.Picture = nil
	qty, _ := data["quantity"].(float64)
	id := fb.nextID("item")
	fb.items[id] = fakeItem{DocumentID: id, Quantity: int(qty), Product: p}
	writeData(w, map[string]any{"documentId": id})
}

func (fb *fakeBackend) deleteItem(w http.ResponseWriter, r *http.Request) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	id := chi.URLParam(r, "id")
	if _, ok := fb.items[id]; !ok {
		http.Error(w, `{"data":null}`, http.StatusNotFound)
		return
	}
	delete(fb.items, id)
	w.WriteHeader(http.StatusNoContent)
}

func (fb *fakeBackend) createClient(w http.ResponseWriter, r *http.Request) {
	data := decodeData(r)
	fb.mu.Lock()
	defer fb.mu.Unlock()
	id := fb.nextID("client")
	data["documentId"] = id
	fb.clients = append(fb.clients, data)
	writeData(w, map[string]any{"documentId": id})
}

func (fb *fakeBackend) lastRequest() *http.Request {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return fb.requests[len(fb.requests)-1]
}
