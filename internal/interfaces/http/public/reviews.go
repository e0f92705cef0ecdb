package public

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/wayfarer-hub/travel-api/internal/interfaces/http/common"
	"github.com/wayfarer-hub/travel-api/internal/review/application"
	"github.com/wayfarer-hub/travel-api/internal/review/domain"
)

func (h *Handler) reviewListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
		defer cancel()

		query := r.URL.Query()
		filter := application.ReviewFilter{
			MinRating:  common.ParseOptionalInt(query.Get("minRating")),
			MaxRating:  common.ParseOptionalInt(query.Get("maxRating")),
			TravelType: strings.TrimSpace(query.Get("travelType")),
			Verified:   common.ParseOptionalBool(query.Get("verified")),
		}

		page, stats, err := h.reviews.List(ctx, resourceKeyFromRequest(r), filter, common.ParsePaging(query))
		if err != nil {
			common.WriteServiceError(h.logger, w, err, "Failed to fetch reviews")
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, common.Envelope{
			Success:    true,
			Data:       toReviewResponses(page.Reviews),
			Pagination: &page.Pagination,
			Stats:      &stats,
		})
	}
}

func (h *Handler) reviewCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req domain.Submission
		if err := common.DecodeJSON(w, r, &req); err != nil {
			common.WriteDecodeError(h.logger, w, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
		defer cancel()

		review, err := h.reviews.Submit(ctx, req)
		if err != nil {
			common.WriteServiceError(h.logger, w, err, "Failed to submit review")
			return
		}

		h.logger.Info().
			Str("reviewId", review.ID).
			Str("resourceType", string(review.ResourceType)).
			Str("resourceId", review.ResourceID).
			Msg("review submitted")
		common.WriteJSON(h.logger, w, http.StatusCreated, common.Envelope{
			Success: true,
			Data:    createReviewResponse{ID: review.ID},
			Message: "Review submitted successfully and is pending approval",
		})
	}
}

// reviewDetailHandler answers 404 for unapproved reviews as well as missing ones.
func (h *Handler) reviewDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
		defer cancel()

		review, err := h.reviews.Detail(ctx, strings.TrimSpace(chi.URLParam(r, "id")))
		if err != nil {
			common.WriteServiceError(h.logger, w, err, "Failed to fetch review")
			return
		}
		common.WriteData(h.logger, w, http.StatusOK, toReviewResponse(*review))
	}
}

func (h *Handler) reviewHelpfulHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
		defer cancel()

		count, err := h.reviews.MarkHelpful(ctx, strings.TrimSpace(chi.URLParam(r, "id")))
		if err != nil {
			common.WriteServiceError(h.logger, w, err, "Failed to mark review as helpful")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, common.Envelope{
			Success: true,
			Data:    helpfulResponse{HelpfulVotes: count},
			Message: "Review marked as helpful",
		})
	}
}

func (h *Handler) reviewReplyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createReplyRequest
		if err := common.DecodeJSON(w, r, &req); err != nil {
			common.WriteDecodeError(h.logger, w, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
		defer cancel()

		reply, err := h.reviews.AddReply(ctx, strings.TrimSpace(chi.URLParam(r, "id")), application.AddReplyCommand{
			AuthorName:   req.Author.Name,
			AuthorEmail:  req.Author.Email,
			AuthorAvatar: req.Author.Avatar,
			Content:      req.Content,
		})
		if err != nil {
			common.WriteServiceError(h.logger, w, err, "Failed to add reply")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusCreated, common.Envelope{
			Success: true,
			Data:    toReplyResponse(*reply),
			Message: "Reply added successfully",
		})
	}
}

func (h *Handler) reviewStatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
		defer cancel()

		stats, err := h.reviews.Stats(ctx, resourceKeyFromRequest(r))
		if err != nil {
			common.WriteServiceError(h.logger, w, err, "Failed to fetch review stats")
			return
		}
		common.WriteData(h.logger, w, http.StatusOK, stats)
	}
}
