package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/aretw0/orderbot/internal/logging"
	"github.com/aretw0/orderbot/pkg/domain"
	"github.com/aretw0/orderbot/pkg/ports"
	"github.com/aretw0/orderbot/pkg/runner"
	"github.com/aretw0/orderbot/pkg/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// EventHandler processes one event. *runner.Runner satisfies it.
type EventHandler interface {
	Handle(ctx context.Context, ev domain.Event, out ports.Messenger) error
}

// EventRequest is the body of POST /events.
type EventRequest struct {
	UserID  string           `json:"user_id"`
	Kind    domain.EventKind `json:"kind"`
	Payload string           `json:"payload"`
}

// EventResponse carries the replies rendered for an event. Error is set when the event
// failed; Replies then hold the failure notice.
type EventResponse struct {
	RequestID string         `json:"request_id"`
	Replies   []domain.Reply `json:"replies"`
	Error     string         `json:"error,omitempty"`
}

// SessionResponse describes one stored session.
type SessionResponse struct {
	UserID string           `json:"user_id"`
	State  domain.StateName `json:"state"`
	CartID string           `json:"cart_id,omitempty"`
}

// Server exposes the coordinator over HTTP for web chat widgets and integration tests.
type Server struct {
	Handler  EventHandler
	Sessions *session.Manager
	Streams  *StreamManager

	metrics http.Handler
	version string
	logger  *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithMetrics mounts h (typically promhttp) on GET /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithVersion sets the version reported by GET /info.
func WithVersion(v string) Option {
	return func(s *Server) {
		s.version = v
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewHandler creates the HTTP handler. sessions may be nil, which disables /sessions.
func NewHandler(handler EventHandler, sessions *session.Manager, opts ...Option) http.Handler {
	s := &Server{
		Handler:  handler,
		Sessions: sessions,
		Streams:  NewStreamManager(),
		version:  "dev",
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestID)
	r.Use(enableCORS)

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	r.Post("/events", s.PostEvent)
	r.Get("/events/{userID}/stream", s.SubscribeEvents)

	if s.Sessions != nil {
		r.Get("/sessions", s.ListSessions)
		r.Get("/sessions/{userID}", s.GetSession)
		r.Delete("/sessions/{userID}", s.DeleteSession)
	}
	return r
}

type ctxKey struct{}

// requestID tags every request with a UUID, honoring an incoming X-Request-ID.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
	})
}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"app":     "orderbot",
		"version": s.version,
	})
}

// PostEvent handles the POST /events request.
func (s *Server) PostEvent(w http.ResponseWriter, r *http.Request) {
	var body EventRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("PostEvent: invalid request body", "error", err)
		return
	}
	if body.UserID == "" {
		http.Error(w, "user_id is required", http.StatusBadRequest)
		return
	}

	var ev domain.Event
	switch body.Kind {
	case domain.EventReset:
		ev = domain.NewResetEvent(body.UserID)
	case domain.EventMessage, "":
		ev = domain.NewMessageEvent(body.UserID, body.Payload)
	case domain.EventCallback:
		ev = domain.NewCallbackEvent(body.UserID, body.Payload)
	default:
		http.Error(w, "kind must be message, callback or reset", http.StatusBadRequest)
		return
	}

	out := &collector{userID: ev.UserID, streams: s.Streams}
	resp := EventResponse{RequestID: requestIDFrom(r.Context())}

	status := http.StatusOK
	if err := s.Handler.Handle(r.Context(), ev, out); err != nil {
		status = statusFor(err)
		resp.Error = err.Error()
		s.logger.Warn("PostEvent: event failed", "request_id", resp.RequestID, "user_id", ev.UserID, "error", err)
	}
	resp.Replies = out.replies
	if resp.Replies == nil {
		resp.Replies = []domain.Reply{}
	}
	writeJSON(w, status, resp)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, runner.ErrInputTooLarge), errors.Is(err, runner.ErrInvalidUTF8):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, domain.ErrUnknownState):
		return http.StatusInternalServerError
	default:
		return http.StatusBadGateway
	}
}

// ListSessions handles the GET /sessions request.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Sessions.List(r.Context())
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"sessions": ids})
}

// GetSession handles the GET /sessions/{userID} request.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	store := s.Sessions.Store()
	state, err := store.GetState(r.Context(), userID)
	if errors.Is(err, domain.ErrSessionNotFound) {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	cartID, _, err := store.GetCartID(r.Context(), userID)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, SessionResponse{UserID: userID, State: state, CartID: cartID})
}

// DeleteSession handles the DELETE /sessions/{userID} request. It waits for an
// event of that user in progress to finish.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.Sessions.Delete(r.Context(), chi.URLParam(r, "userID")); err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}

// collector accumulates the replies of one request and mirrors them to SSE subscribers.
type collector struct {
	userID  string
	streams *StreamManager
	replies []domain.Reply
}

func (c *collector) Deliver(ctx context.Context, replies []domain.Reply) error {
	c.replies = append(c.replies, replies...)
	if data, err := json.Marshal(replies); err == nil {
		c.streams.Broadcast(c.userID, string(data))
	}
	return nil
}
