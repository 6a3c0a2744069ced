package assignmentdomain

// MaxJudgesPerTeam is the hard ceiling on judges assigned to one team.
const MaxJudgesPerTeam = 3

// Team is a participating team as the engine sees it. Input order matters:
// the round-robin walks teams in the order given.
type Team struct {
	ID     string
	Number int
	Name   string
}

// Judge is a candidate judge. Inactive judges are never assigned.
type Judge struct {
	ID     string
	Name   string
	Active bool
}

// TeamAssignment is the judge set of one team, in slot order.
type TeamAssignment struct {
	TeamID   string   `json:"team_id"`
	JudgeIDs []string `json:"judge_ids"`
}

// OptimizeResult reports what Optimize changed.
type OptimizeResult struct {
	Assignments []TeamAssignment `json:"assignments"`
	Moves       int              `json:"moves"`
	Repaired    int              `json:"repaired"`
	Dropped     int              `json:"dropped"`
	Message     string           `json:"message"`
}

// Changed reports whether any edge differs from the input.
func (r OptimizeResult) Changed() bool {
	return r.Moves+r.Repaired+r.Dropped > 0
}

// JudgeWorkload is one judge's share of the assignment.
type JudgeWorkload struct {
	JudgeID   string   `json:"judge_id"`
	JudgeName string   `json:"judge_name"`
	TeamCount int      `json:"team_count"`
	TeamIDs   []string `json:"team_ids"`
}

// Stats summarizes an assignment.
type Stats struct {
	TotalTeams           int             `json:"total_teams"`
	TotalJudges          int             `json:"total_judges"`
	TeamsWithJudges      int             `json:"teams_with_judges"`
	AverageJudgesPerTeam float64         `json:"average_judges_per_team"`
	Workload             []JudgeWorkload `json:"workload"`
	Spread               int             `json:"spread"`
}
