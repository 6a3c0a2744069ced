package assignmentdb

import (
	"time"

	"github.com/uptrace/bun"
)

// Edge assigns one judge to one team for one round. Slot keeps the order the
// judge was placed in.
type Edge struct {
	bun.BaseModel `bun:"table:team_judge_assignments,alias:a"`

	RoundID    string    `bun:"round_id,pk" json:"round_id"`
	TeamID     string    `bun:"team_id,pk" json:"team_id"`
	JudgeID    string    `bun:"judge_id,pk" json:"judge_id"`
	Slot       int       `bun:"slot,notnull" json:"slot"`
	AssignedAt time.Time `bun:"assigned_at,notnull,default:current_timestamp" json:"assigned_at"`
}
