package userdomain

import (
	authdomain "github.com/Black-And-White-Club/competition-marking/app/modules/auth/domain"
	"github.com/Black-And-White-Club/competition-marking/app/shared/apperrors"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Profile is what an administrator supplies when registering a user.
type Profile struct {
	Name  string          `json:"name" validate:"required,max=100"`
	Email string          `json:"email" validate:"required,email"`
	Role  authdomain.Role `json:"role" validate:"required"`
}

// Validate checks the profile. Only admin and judge roles exist.
func (p Profile) Validate() error {
	if err := validate.Struct(p); err != nil {
		return apperrors.InvalidInput("user", "%v", err)
	}
	if !p.Role.IsValid() {
		return apperrors.InvalidInput("role", "unknown role %q", p.Role)
	}
	return nil
}

// Judge is the slice of a user the assignment and aggregation engines need.
type Judge struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}
