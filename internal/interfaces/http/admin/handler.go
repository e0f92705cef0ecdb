package admin

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/wayfarer-hub/travel-api/internal/interfaces/http/common"
	"github.com/wayfarer-hub/travel-api/internal/review/application"
)

// Handler wires admin HTTP endpoints to application services.
type Handler struct {
	logger     zerolog.Logger
	moderation application.ModerationService
	timeout    time.Duration
}

// Config provides dependencies for Handler.
type Config struct {
	Logger         zerolog.Logger
	Moderation     application.ModerationService
	RequestTimeout time.Duration
}

// NewHandler constructs an admin HTTP handler set.
func NewHandler(cfg Config) *Handler {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = common.DefaultRequestTimeout
	}
	return &Handler{
		logger:     cfg.Logger.With().Str("component", "admin-http").Logger(),
		moderation: cfg.Moderation,
		timeout:    timeout,
	}
}

// Register mounts admin routes onto router. Callers are expected to wrap r with auth.
func (h *Handler) Register(r chi.Router) {
	r.Get("/reviews/pending", h.pendingListHandler())
	r.Put("/reviews/{id}/moderate", h.moderateHandler())
	r.Delete("/reviews/{id}", h.deleteHandler())
}
