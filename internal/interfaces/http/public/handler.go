package public

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/wayfarer-hub/travel-api/internal/interfaces/http/common"
	"github.com/wayfarer-hub/travel-api/internal/review/application"
	"github.com/wayfarer-hub/travel-api/internal/review/domain"
)

// Handler wires public HTTP endpoints to application services.
type Handler struct {
	logger  zerolog.Logger
	reviews application.ReviewService
	timeout time.Duration
}

// Config defines dependencies required by Handler.
type Config struct {
	Logger         zerolog.Logger
	Reviews        application.ReviewService
	RequestTimeout time.Duration
}

// NewHandler constructs a public HTTP handler set.
func NewHandler(cfg Config) *Handler {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = common.DefaultRequestTimeout
	}
	return &Handler{
		logger:  cfg.Logger.With().Str("component", "public-http").Logger(),
		reviews: cfg.Reviews,
		timeout: timeout,
	}
}

// Register mounts all public routes onto the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/reviews", h.reviewCreateHandler())
	r.Get("/reviews/id/{id}", h.reviewDetailHandler())
	r.Post("/reviews/{id}/helpful", h.reviewHelpfulHandler())
	r.Post("/reviews/{id}/replies", h.reviewReplyHandler())
	r.Get("/reviews/{resourceType}/{resourceId}", h.reviewListHandler())
	r.Get("/reviews/{resourceType}/{resourceId}/stats", h.reviewStatsHandler())
}

func resourceKeyFromRequest(r *http.Request) domain.ResourceKey {
	return domain.ResourceKey{
		Type: domain.ResourceType(strings.TrimSpace(chi.URLParam(r, "resourceType"))),
		ID:   strings.TrimSpace(chi.URLParam(r, "resourceId")),
	}
}
