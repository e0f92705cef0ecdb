package common

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/wayfarer-hub/travel-api/internal/review/application"
	"github.com/wayfarer-hub/travel-api/internal/review/domain"
)

// Envelope is the JSON shape shared by every endpoint.
type Envelope struct {
	Success    bool                    `json:"success"`
	Data       any                     `json:"data,omitempty"`
	Pagination *application.Pagination `json:"pagination,omitempty"`
	Stats      *domain.Stats           `json:"stats,omitempty"`
	Error      string                  `json:"error,omitempty"`
	Message    string                  `json:"message,omitempty"`
	Details    []domain.FieldError     `json:"details,omitempty"`
}

// WriteJSON serializes payload to JSON with status and logs on failure.
func WriteJSON(logger zerolog.Logger, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error().Err(err).Msg("json encode failed")
	}
}

// WriteData writes a successful envelope around data.
func WriteData(logger zerolog.Logger, w http.ResponseWriter, status int, data any) {
	WriteJSON(logger, w, status, Envelope{Success: true, Data: data})
}

// WriteError writes a failed envelope with a client-facing message.
func WriteError(logger zerolog.Logger, w http.ResponseWriter, status int, message string) {
	WriteJSON(logger, w, status, Envelope{Success: false, Error: message})
}

// WriteServiceError maps application errors onto status codes. Anything
// unrecognised is logged and answered with 500 and fallback.
func WriteServiceError(logger zerolog.Logger, w http.ResponseWriter, err error, fallback string) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		WriteJSON(logger, w, http.StatusBadRequest, Envelope{
			Success: false,
			Error:   "Validation failed",
			Details: verr.Fields,
		})
	case errors.Is(err, application.ErrNotFound):
		WriteError(logger, w, http.StatusNotFound, "Review not found")
	case errors.Is(err, application.ErrDuplicateReview),
		errors.Is(err, application.ErrNotApproved),
		errors.Is(err, application.ErrInvalidStatus),
		errors.Is(err, application.ErrReplyIncomplete),
		errors.Is(err, application.ErrReplyLength):
		WriteError(logger, w, http.StatusBadRequest, err.Error())
	default:
		logger.Error().Err(err).Msg(fallback)
		WriteError(logger, w, http.StatusInternalServerError, fallback)
	}
}
