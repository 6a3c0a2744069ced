package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Black-And-White-Club/competition-marking/app/shared/apperrors"
	"github.com/Black-And-White-Club/competition-marking/app/shared/observability"
	"github.com/go-playground/validator/v10"
)

const maxBodyBytes = 1 << 20

var validate = validator.New()

// ErrorBody is the JSON error envelope.
type ErrorBody struct {
	Error string `json:"error"`
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError maps typed errors to their status code. Anything outside the typed
// taxonomy is logged and answered with a generic 500.
func WriteError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status := apperrors.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "Request failed",
			observability.RequestID(r.Context()),
			slog.String("path", r.URL.Path),
			observability.Error(err),
		)
		WriteJSON(w, status, ErrorBody{Error: "internal server error"})
		return
	}
	WriteJSON(w, status, ErrorBody{Error: rootMessage(err)})
}

// rootMessage strips the "Operation: " prefixes services add while wrapping.
func rootMessage(err error) string {
	var (
		notFound   *apperrors.NotFoundError
		invalid    *apperrors.InvalidInputError
		conflict   *apperrors.ConflictError
		constraint *apperrors.ConstraintViolationError
	)
	switch {
	case errors.As(err, &notFound):
		return notFound.Error()
	case errors.As(err, &invalid):
		return invalid.Error()
	case errors.As(err, &conflict):
		return conflict.Error()
	case errors.As(err, &constraint):
		return constraint.Error()
	default:
		return err.Error()
	}
}

// DecodeJSON reads a JSON body into v and validates its struct tags.
func DecodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return apperrors.InvalidInput("body", "malformed JSON: %v", err)
	}
	return Validate(v)
}

// Validate checks struct tags and converts failures into an InvalidInputError.
func Validate(v any) error {
	if err := validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
			}
			return apperrors.InvalidInput("body", "%s", strings.Join(msgs, "; "))
		}
		return apperrors.InvalidInput("body", "%v", err)
	}
	return nil
}
