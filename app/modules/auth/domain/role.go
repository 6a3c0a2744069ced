package authdomain

// Role represents a user's role for authorization purposes.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleJudge Role = "judge"
)

// Capability is a single permission checked at the HTTP boundary. Handlers ask
// for capabilities, never for roles.
type Capability string

const (
	CapManageCompetition Capability = "manage_competition"
	CapSubmitScores      Capability = "submit_scores"
	CapViewResults       Capability = "view_results"
	CapViewAllScores     Capability = "view_all_scores"
)

var roleCapabilities = map[Role]map[Capability]struct{}{
	RoleAdmin: {
		CapManageCompetition: {},
		CapViewResults:       {},
		CapViewAllScores:     {},
	},
	RoleJudge: {
		CapSubmitScores: {},
		CapViewResults:  {},
	},
}

// IsValid checks if the role is a valid value.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleJudge:
		return true
	default:
		return false
	}
}

// Can reports whether the role grants c.
func (r Role) Can(c Capability) bool {
	_, ok := roleCapabilities[r][c]
	return ok
}

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}
