package rounddomain

import (
	"time"

	"github.com/Black-And-White-Club/competition-marking/app/shared/apperrors"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Draft is what an administrator submits to create a round. Times are RFC3339
// or natural language interpreted in Timezone.
type Draft struct {
	Name         string   `json:"name" validate:"required,max=100"`
	Description  string   `json:"description" validate:"max=2000"`
	StartTime    string   `json:"start_time" validate:"required"`
	EndTime      string   `json:"end_time" validate:"required"`
	Timezone     string   `json:"timezone,omitempty"`
	CriterionIDs []string `json:"criterion_ids" validate:"unique,dive,required"`
}

// Window is a resolved start/end pair.
type Window struct {
	Start time.Time
	End   time.Time
}

// Resolve validates the draft and parses its time window.
func (d Draft) Resolve(p *TimeParser) (Window, error) {
	if err := validate.Struct(d); err != nil {
		return Window{}, apperrors.InvalidInput("round", "%v", err)
	}
	loc, err := LoadLocation(d.Timezone)
	if err != nil {
		return Window{}, err
	}
	start, err := p.Parse("start_time", d.StartTime, loc)
	if err != nil {
		return Window{}, err
	}
	end, err := p.Parse("end_time", d.EndTime, loc)
	if err != nil {
		return Window{}, err
	}
	w := Window{Start: start, End: end}
	return w, w.Validate()
}

// Validate enforces end > start.
func (w Window) Validate() error {
	if !w.End.After(w.Start) {
		return apperrors.InvalidInput("end_time", "must be after start time")
	}
	return nil
}

// StateChange flips the active and open flags. Nil leaves a flag unchanged.
type StateChange struct {
	IsActive *bool `json:"is_active,omitempty"`
	IsOpen   *bool `json:"is_open,omitempty"`
}

// Validate requires at least one flag.
func (c StateChange) Validate() error {
	if c.IsActive == nil && c.IsOpen == nil {
		return apperrors.InvalidInput("state", "nothing to change")
	}
	return nil
}

// AcceptsScores reports whether judges may write scores.
func AcceptsScores(isActive, isOpen bool) bool {
	return isActive && isOpen
}
