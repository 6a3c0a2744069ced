package rounddb

import (
	"time"

	"github.com/uptrace/bun"
)

// Round is a time-boxed evaluation phase. TotalTeams and CompletedEvaluations
// are derived on read; CriterionIDs is loaded from round_criteria in position order.
type Round struct {
	bun.BaseModel `bun:"table:rounds,alias:r"`

	ID          string    `bun:"id,pk" json:"id"`
	Name        string    `bun:"name,notnull" json:"name"`
	Description string    `bun:"description" json:"description"`
	IsActive    bool      `bun:"is_active,notnull,default:false" json:"is_active"`
	IsOpen      bool      `bun:"is_open,notnull,default:false" json:"is_open"`
	StartTime   time.Time `bun:"start_time,notnull" json:"start_time"`
	EndTime     time.Time `bun:"end_time,notnull" json:"end_time"`
	OwnerID     string    `bun:"owner_id,notnull" json:"owner_id"`
	CreatedAt   time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt   time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`

	TotalTeams           int `bun:"total_teams,scanonly" json:"total_teams"`
	CompletedEvaluations int `bun:"completed_evaluations,scanonly" json:"completed_evaluations"`

	CriterionIDs []string `bun:"-" json:"criterion_ids"`
}

// RoundCriterion links a criterion to a round at a position.
type RoundCriterion struct {
	bun.BaseModel `bun:"table:round_criteria,alias:rc"`

	RoundID     string `bun:"round_id,pk"`
	CriterionID string `bun:"criterion_id,pk"`
	Position    int    `bun:"position,notnull"`
}

// State is the pair of flags a state change writes.
type State struct {
	IsActive bool
	IsOpen   bool
}
