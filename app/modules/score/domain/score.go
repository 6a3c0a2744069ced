package scoredomain

import (
	"time"

	"github.com/Black-And-White-Club/competition-marking/app/shared/apperrors"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Submission is one judge's value for one criterion of one team. Submit
// false stores a draft that only the judge sees.
type Submission struct {
	TeamID      string   `json:"team_id" validate:"required"`
	CriterionID string   `json:"criterion_id" validate:"required"`
	Value       *float64 `json:"value" validate:"required,gte=0"`
	Comment     string   `json:"comment" validate:"max=2000"`
	Submit      bool     `json:"submit"`
}

// Validate checks the submission shape. The upper bound depends on the
// criterion and is checked with CheckRange.
func (s Submission) Validate() error {
	if err := validate.Struct(s); err != nil {
		return apperrors.InvalidInput("score", "%v", err)
	}
	return nil
}

// Modification edits a stored score. ExpectedVersion must match the stored
// version or the edit is rejected.
type Modification struct {
	ExpectedVersion int      `json:"expected_version" validate:"min=1"`
	Value           *float64 `json:"value" validate:"required,gte=0"`
	Comment         *string  `json:"comment" validate:"omitempty,max=2000"`
}

func (m Modification) Validate() error {
	if err := validate.Struct(m); err != nil {
		return apperrors.InvalidInput("score", "%v", err)
	}
	return nil
}

// CheckRange rejects values outside [0, maxScore].
func CheckRange(value float64, maxScore int) error {
	if value < 0 || value > float64(maxScore) {
		return apperrors.InvalidInput("value", "%g is outside [0, %d]", value, maxScore)
	}
	return nil
}

// State is the mutable part of a stored score.
type State struct {
	Value         float64
	Comment       string
	IsSubmitted   bool
	SubmittedAt   *time.Time
	Version       int
	PreviousScore *float64
}

// Modify applies an edit. A value change bumps the version, records the old
// value and returns the score to draft. A comment-only edit keeps the
// version and the submission.
func (s State) Modify(value float64, comment *string) State {
	next := s
	if comment != nil {
		next.Comment = *comment
	}
	if value == s.Value {
		return next
	}
	prev := s.Value
	next.PreviousScore = &prev
	next.Value = value
	next.Version = s.Version + 1
	next.IsSubmitted = false
	next.SubmittedAt = nil
	return next
}

// ListScope narrows which scores a caller may read.
type ListScope struct {
	// JudgeID limits results to one judge. Empty means every judge.
	JudgeID string
	// IncludeDrafts is only honored together with JudgeID.
	IncludeDrafts bool
	TeamID        string
}
