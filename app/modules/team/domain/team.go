package teamdomain

import (
	"fmt"

	"github.com/Black-And-White-Club/competition-marking/app/shared/apperrors"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

const (
	MinTeamNumber = 1
	MaxTeamNumber = 15
	MinMembers    = 3
	MaxMembers    = 4
)

// MemberRole tags a member as leader or member. Informational only.
type MemberRole string

const (
	MemberRoleLeader MemberRole = "leader"
	MemberRoleMember MemberRole = "member"
)

// Member is one student on a team roster.
type Member struct {
	Name          string     `json:"name" validate:"required,max=100"`
	StudentNumber string     `json:"student_number" validate:"required,len=8,numeric"`
	Email         string     `json:"email" validate:"required,email"`
	Role          MemberRole `json:"role" validate:"required,oneof=leader member"`
}

// Profile is the admin-supplied part of a team.
type Profile struct {
	Number             int      `json:"number" validate:"min=1,max=15"`
	Name               string   `json:"name" validate:"required,max=100"`
	ProjectName        string   `json:"project_name" validate:"max=200"`
	ProjectDescription string   `json:"project_description" validate:"max=2000"`
	Members            []Member `json:"members" validate:"min=3,max=4,unique=StudentNumber,dive"`
}

// Validate checks the profile and its roster. A roster has exactly one leader.
func (p Profile) Validate() error {
	if err := validate.Struct(p); err != nil {
		return apperrors.InvalidInput("team", "%v", err)
	}

	leaders := 0
	for _, m := range p.Members {
		if m.Role == MemberRoleLeader {
			leaders++
		}
	}
	if leaders != 1 {
		return apperrors.InvalidInput("members", "expected exactly one leader, got %d", leaders)
	}
	return nil
}

// String is used in log lines.
func (p Profile) String() string {
	return fmt.Sprintf("team #%d %q", p.Number, p.Name)
}
