package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/wayfarer-hub/travel-api/internal/review/domain"
)

// DecodeJSON reads at most MaxRequestBody bytes of JSON into dst. Unknown
// fields are ignored so clients cannot smuggle server-owned values in.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxRequestBody)).Decode(dst)
}

// WriteDecodeError answers a DecodeJSON failure with 400. A value of the wrong
// JSON type is reported per field like any other validation failure.
func WriteDecodeError(logger zerolog.Logger, w http.ResponseWriter, err error) {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		WriteJSON(logger, w, http.StatusBadRequest, Envelope{
			Success: false,
			Error:   "Validation failed",
			Details: []domain.FieldError{{
				Field:   typeErr.Field,
				Message: fmt.Sprintf("%s must be a JSON %s, got %s", typeErr.Field, jsonKind(typeErr.Type.Kind().String()), typeErr.Value),
			}},
		})
		return
	}
	WriteError(logger, w, http.StatusBadRequest, "Invalid request body")
}

func jsonKind(goKind string) string {
	switch goKind {
	case "int", "int8", "int16", "int32", "int64", "uint", "uint8", "uint16", "uint32", "uint64", "float32", "float64":
		return "number"
	case "bool":
		return "boolean"
	case "slice", "array":
		return "array"
	case "struct", "map":
		return "object"
	}
	return goKind
}
