package criteriondomain

import (
	"github.com/Black-And-White-Club/competition-marking/app/shared/apperrors"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// DefaultWeight applies when a definition leaves the weight unset.
const DefaultWeight = 1.0

// Definition is the admin-supplied part of a criterion.
type Definition struct {
	Name         string   `json:"name" validate:"required,max=100"`
	Description  string   `json:"description" validate:"max=2000"`
	MaxScore     int      `json:"max_score" validate:"min=1,max=100"`
	Weight       *float64 `json:"weight,omitempty" validate:"omitempty,gte=0,lte=1"`
	MarkingGuide string   `json:"marking_guide" validate:"max=5000"`
}

// Validate checks the definition.
func (d Definition) Validate() error {
	if err := validate.Struct(d); err != nil {
		return apperrors.InvalidInput("criterion", "%v", err)
	}
	return nil
}

// EffectiveWeight returns the weight or DefaultWeight when unset.
func (d Definition) EffectiveWeight() float64 {
	if d.Weight == nil {
		return DefaultWeight
	}
	return *d.Weight
}
