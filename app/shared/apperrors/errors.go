package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind sentinels. Every typed error below unwraps to exactly one of them so callers
// can branch with errors.Is without knowing the concrete type.
var (
	ErrNotFound            = errors.New("not found")
	ErrInvalidInput        = errors.New("invalid input")
	ErrConflict            = errors.New("conflict")
	ErrConstraintViolation = errors.New("constraint violation")
)

// NotFoundError reports a missing round, team, judge, criterion or score.
type NotFoundError struct {
	Entity string
	ID     string
	Reason string
}

func (e *NotFoundError) Error() string {
	switch {
	case e.Reason != "":
		return e.Reason
	case e.ID != "":
		return fmt.Sprintf("%s %q not found", e.Entity, e.ID)
	default:
		return fmt.Sprintf("%s not found", e.Entity)
	}
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// Is matches another NotFoundError for the same entity. A target without an ID
// matches any ID, which lets package-level values act as class sentinels.
func (e *NotFoundError) Is(target error) bool {
	t, ok := target.(*NotFoundError)
	if !ok {
		return false
	}
	return t.Entity == e.Entity && (t.ID == "" || t.ID == e.ID) && (t.Reason == "" || t.Reason == e.Reason)
}

// InvalidInputError reports an empty input set or a malformed value.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *InvalidInputError) Unwrap() error { return ErrInvalidInput }

// ConflictError reports an optimistic-concurrency mismatch or a duplicate.
type ConflictError struct {
	Entity string
	Reason string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s conflict: %s", e.Entity, e.Reason)
}

func (e *ConflictError) Unwrap() error { return ErrConflict }

// ConstraintViolationError reports an operation that would break a domain invariant,
// such as a fourth judge on a team.
type ConstraintViolationError struct {
	Constraint string
	Reason     string
}

func (e *ConstraintViolationError) Error() string {
	return fmt.Sprintf("constraint %s violated: %s", e.Constraint, e.Reason)
}

func (e *ConstraintViolationError) Unwrap() error { return ErrConstraintViolation }

// Named errors surfaced by the assignment and aggregation engines.
var (
	ErrNoTeams       = &InvalidInputError{Field: "teams", Reason: "no participating teams"}
	ErrNoJudges      = &InvalidInputError{Field: "judges", Reason: "no active judges"}
	ErrNoClosedRound = &NotFoundError{Entity: "round", Reason: "no closed round exists"}
	ErrRoundNotFound = &NotFoundError{Entity: "round"}
)

// NotFound builds a NotFoundError for entity/id.
func NotFound(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// RoundNotFound builds the error returned when roundID does not exist.
func RoundNotFound(roundID string) error {
	return &NotFoundError{Entity: "round", ID: roundID}
}

// InvalidInput builds an InvalidInputError.
func InvalidInput(field, format string, args ...any) error {
	return &InvalidInputError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// Conflict builds a ConflictError.
func Conflict(entity, format string, args ...any) error {
	return &ConflictError{Entity: entity, Reason: fmt.Sprintf(format, args...)}
}

// ConstraintViolation builds a ConstraintViolationError.
func ConstraintViolation(constraint, format string, args ...any) error {
	return &ConstraintViolationError{Constraint: constraint, Reason: fmt.Sprintf(format, args...)}
}

// IsDomain reports whether err belongs to the typed taxonomy above.
func IsDomain(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrConstraintViolation)
}

// HTTPStatus maps an error to the status code the HTTP layer answers with.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrConstraintViolation):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
