package assignmentdomain

import "time"

// AssignmentsUpdatedPayload is published after a committed assignment change.
type AssignmentsUpdatedPayload struct {
	RoundID     string           `json:"round_id"`
	Operation   string           `json:"operation"`
	Assignments []TeamAssignment `json:"assignments"`
	Spread      int              `json:"spread"`
	OccurredAt  time.Time        `json:"occurred_at"`
}
