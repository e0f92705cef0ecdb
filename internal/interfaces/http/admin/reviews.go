package admin

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/wayfarer-hub/travel-api/internal/interfaces/http/common"
	"github.com/wayfarer-hub/travel-api/internal/review/application"
)

func (h *Handler) pendingListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
		defer cancel()

		page, err := h.moderation.ListPending(ctx, common.ParsePaging(r.URL.Query()))
		if err != nil {
			common.WriteServiceError(h.logger, w, err, "Failed to fetch pending reviews")
			return
		}

		items := make([]adminReviewResponse, 0, len(page.Reviews))
		for _, review := range page.Reviews {
			items = append(items, adminReviewDomainToResponse(review))
		}
		common.WriteJSON(h.logger, w, http.StatusOK, common.Envelope{
			Success:    true,
			Data:       items,
			Pagination: &page.Pagination,
		})
	}
}

func (h *Handler) moderateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "id"))

		var req moderateRequest
		if err := common.DecodeJSON(w, r, &req); err != nil {
			common.WriteDecodeError(h.logger, w, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
		defer cancel()

		updated, err := h.moderation.Moderate(ctx, id, application.ModerateCommand{
			Status:          req.Status,
			ModerationNotes: req.ModerationNotes,
			Featured:        req.Featured,
		})
		if err != nil {
			common.WriteServiceError(h.logger, w, err, "Failed to moderate review")
			return
		}

		actor, _ := common.UserFromContext(r.Context())
		h.logger.Info().
			Str("reviewId", updated.ID).
			Str("status", string(updated.Status)).
			Str("moderator", actor.ID).
			Msg("review moderated")
		common.WriteJSON(h.logger, w, http.StatusOK, common.Envelope{
			Success: true,
			Data: moderateResponse{
				ID:       updated.ID,
				Status:   string(updated.Status),
				Featured: updated.Featured,
			},
			Message: "Review moderated successfully",
		})
	}
}

func (h *Handler) deleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "id"))

		ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
		defer cancel()

		if err := h.moderation.Delete(ctx, id); err != nil {
			common.WriteServiceError(h.logger, w, err, "Failed to delete review")
			return
		}

		actor, _ := common.UserFromContext(r.Context())
		h.logger.Info().Str("reviewId", id).Str("moderator", actor.ID).Msg("review deleted")
		common.WriteJSON(h.logger, w, http.StatusOK, common.Envelope{
			Success: true,
			Message: "Review deleted successfully",
		})
	}
}
