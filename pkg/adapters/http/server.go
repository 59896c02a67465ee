// Package http exposes a bot as a webhook endpoint.
package http

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/aretw0/arbor/internal/logging"
	"github.com/aretw0/arbor/pkg/platform/facebook"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultMaxBodyBytes caps webhook bodies.
const DefaultMaxBodyBytes = 1 << 20

// RequestIDHeader carries the correlation id of each webhook call.
const RequestIDHeader = "X-Request-ID"

// Bot processes raw platform payloads.
type Bot interface {
	ProcessRawRequest(ctx context.Context, raw []byte) error
}

// ErrorHandler receives processing failures. The platform still gets a 200.
type ErrorHandler func(ctx context.Context, requestID string, err error)

// Server routes webhook traffic to a Bot.
type Server struct {
	bot          Bot
	logger       *slog.Logger
	onError      ErrorHandler
	verifyToken  string
	gatherer     prometheus.Gatherer
	maxBodyBytes int64
}

// Option configures the Server.
type Option func(*Server)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithErrorHandler registers a callback for processing failures.
func WithErrorHandler(h ErrorHandler) Option {
	return func(s *Server) {
		s.onError = h
	}
}

// WithVerifyToken enables the Facebook subscription handshake on GET /webhook.
func WithVerifyToken(token string) Option {
	return func(s *Server) {
		s.verifyToken = token
	}
}

// WithGatherer selects the registry served on /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithMaxBodyBytes overrides DefaultMaxBodyBytes.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		s.maxBodyBytes = n
	}
}

// NewHandler creates the webhook router for bot.
func NewHandler(bot Bot, opts ...Option) http.Handler {
	s := &Server{
		bot:          bot,
		logger:       logging.NewNop(),
		gatherer:     prometheus.DefaultGatherer,
		maxBodyBytes: DefaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestID)

	r.Post("/webhook", s.Webhook)
	r.Get("/webhook", s.Verify)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	return r
}

type requestIDKey struct{}

// requestID tags each request with a time-ordered uuid, reusing an incoming one.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			if v7, err := uuid.NewV7(); err == nil {
				id = v7.String()
			} else {
				id = uuid.NewString()
			}
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

// RequestID returns the correlation id attached by the router.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// Webhook handles POST /webhook. Platforms retry on anything but 200, so
// failures are reported through the error handler and the logger instead.
func (s *Server) Webhook(w http.ResponseWriter, r *http.Request) {
	id := RequestID(r.Context())
	logger := s.logger.With("request_id", id)

	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBodyBytes))
	if err != nil {
		s.report(r.Context(), logger, id, fmt.Errorf("failed to read webhook body: %w", err))
	} else if err := s.bot.ProcessRawRequest(r.Context(), raw); err != nil {
		s.report(r.Context(), logger, id, err)
	} else {
		logger.Debug("Webhook processed", "bytes", len(raw))
	}

	w.WriteHeader(http.StatusOK)
}

func (s *Server) report(ctx context.Context, logger *slog.Logger, id string, err error) {
	logger.Error("Webhook processing failed", "err", err)
	if s.onError != nil {
		s.onError(ctx, id, err)
	}
}

// Verify handles GET /webhook (Facebook subscription handshake).
func (s *Server) Verify(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	challenge, err := facebook.VerifyChallenge(s.verifyToken, q.Get("hub.mode"), q.Get("hub.verify_token"), q.Get("hub.challenge"))
	if err != nil {
		s.logger.Warn("Webhook verification rejected", "request_id", RequestID(r.Context()), "mode", q.Get("hub.mode"))
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}
	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte(challenge))
}
