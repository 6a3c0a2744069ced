package assignmentservice

import (
	"context"

	assignmentdomain "github.com/Black-And-White-Club/competition-marking/app/modules/assignment/domain"
)

// Report is the assignment of a round after an operation, with its stats.
type Report struct {
	RoundID     string                            `json:"round_id"`
	Assignments []assignmentdomain.TeamAssignment `json:"assignments"`
	Stats       assignmentdomain.Stats            `json:"stats"`
	Message     string                            `json:"message,omitempty"`
}

// Service distributes judges over the participating teams of a round.
type Service interface {
	AssignJudges(ctx context.Context, roundID string) (*Report, error)
	OptimizeAssignments(ctx context.Context, roundID string) (*Report, error)
	GetAssignmentStats(ctx context.Context, roundID string) (*assignmentdomain.Stats, error)
	AssignJudge(ctx context.Context, roundID, teamID, judgeID string) (*Report, error)
	UnassignJudge(ctx context.Context, roundID, teamID, judgeID string) (*Report, error)
}
