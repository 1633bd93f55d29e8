package middleware

import (
	"context"
	"strconv"
	"time"

	"github.com/aretw0/orderbot/pkg/adapters/cms"
	"github.com/aretw0/orderbot/pkg/domain"
	"github.com/aretw0/orderbot/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
)

// CatalogMetrics holds the backend call collectors.
type CatalogMetrics struct {
	Requests *prometheus.CounterVec
	Duration *prometheus.HistogramVec
}

// NewCatalogMetrics creates the collectors and registers them with reg when not nil.
func NewCatalogMetrics(reg prometheus.Registerer) *CatalogMetrics {
	m := &CatalogMetrics{
		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orderbot_catalog_requests_total",
				Help: "Catalog backend calls by operation and outcome.",
			},
			[]string{"op", "outcome"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "orderbot_catalog_request_duration_seconds",
				Help:    "Catalog backend call latency.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"op"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.Requests, m.Duration)
	}
	return m
}

// NewInstrumentMiddleware records every call in m.
func NewInstrumentMiddleware(m *CatalogMetrics) Middleware {
	return func(next ports.Catalog) ports.Catalog {
		return &instrumented{next: next, m: m}
	}
}

type instrumented struct {
	next ports.Catalog
	m    *CatalogMetrics
}

func (c *instrumented) observe(op string, start time.Time, err error) {
	c.m.Duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	c.m.Requests.WithLabelValues(op, outcome(err)).Inc()
}

// outcome is "ok", the HTTP status class of a remote error, or "error".
func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	if re, ok := cms.IsRemoteError(err); ok {
		return strconv.Itoa(re.Status/100) + "xx"
	}
	return "error"
}

func (c *instrumented) ListProducts(ctx context.Context) (_ []domain.Product, err error) {
	defer func(start time.Time) { c.observe("ListProducts", start, err) }(time.Now())
	return c.next.ListProducts(ctx)
}

func (c *instrumented) GetProduct(ctx context.Context, productID string) (_ domain.Product, err error) {
	defer func(start time.Time) { c.observe("GetProduct", start, err) }(time.Now())
	return c.next.GetProduct(ctx, productID)
}

func (c *instrumented) GetPicture(ctx context.Context, pictureURL string) (_ []byte, err error) {
	defer func(start time.Time) { c.observe("GetPicture", start, err) }(time.Now())
	return c.next.GetPicture(ctx, pictureURL)
}

func (c *instrumented) CreateCart(ctx context.Context, userID string) (_ string, err error) {
	defer func(start time.Time) { c.observe("CreateCart", start, err) }(time.Now())
	return c.next.CreateCart(ctx, userID)
}

func (c *instrumented) FindCartID(ctx context.Context, userID string) (_ string, _ bool, err error) {
	defer func(start time.Time) { c.observe("FindCartID", start, err) }(time.Now())
	return c.next.FindCartID(ctx, userID)
}

func (c *instrumented) GetCart(ctx context.Context, cartID string) (_ domain.Cart, err error) {
	defer func(start time.Time) { c.observe("GetCart", start, err) }(time.Now())
	return c.next.GetCart(ctx, cartID)
}

func (c *instrumented) AttachCartItems(ctx context.Context, cartID string, itemIDs []string) (err error) {
	defer func(start time.Time) { c.observe("AttachCartItems", start, err) }(time.Now())
	return c.next.AttachCartItems(ctx, cartID, itemIDs)
}

func (c *instrumented) CreateCartItem(ctx context.Context, cartID, productID string) (_ string, err error) {
	defer func(start time.Time) { c.observe("CreateCartItem", start, err) }(time.Now())
	return c.next.CreateCartItem(ctx, cartID, productID)
}

func (c *instrumented) RemoveCartItem(ctx context.Context, itemID string) (err error) {
	defer func(start time.Time) { c.observe("RemoveCartItem", start, err) }(time.Now())
	return c.next.RemoveCartItem(ctx, itemID)
}

func (c *instrumented) CreateClient(ctx context.Context, userID, email string) (_ string, err error) {
	defer func(start time.Time) { c.observe("CreateClient", start, err) }(time.Now())
	return c.next.CreateClient(ctx, userID, email)
}
