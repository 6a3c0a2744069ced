package scoredb

import (
	"time"

	scoredomain "github.com/Black-And-White-Club/competition-marking/app/modules/score/domain"
	"github.com/uptrace/bun"
)

// Score is one judge's rating of one team on one criterion in one round.
// The four-column key is unique, so resubmission updates the row in place.
type Score struct {
	bun.BaseModel `bun:"table:scores,alias:s"`

	ID            string     `bun:"id,pk" json:"id"`
	JudgeID       string     `bun:"judge_id,notnull,unique:scores_key" json:"judge_id"`
	TeamID        string     `bun:"team_id,notnull,unique:scores_key" json:"team_id"`
	RoundID       string     `bun:"round_id,notnull,unique:scores_key" json:"round_id"`
	CriterionID   string     `bun:"criterion_id,notnull,unique:scores_key" json:"criterion_id"`
	Value         float64    `bun:"value,type:double precision,notnull" json:"value"`
	Comment       string     `bun:"comment" json:"comment,omitempty"`
	IsSubmitted   bool       `bun:"is_submitted,notnull,default:false" json:"is_submitted"`
	SubmittedAt   *time.Time `bun:"submitted_at,nullzero" json:"submitted_at"`
	Version       int        `bun:"version,notnull,default:1" json:"version"`
	PreviousScore *float64   `bun:"previous_score,type:double precision" json:"previous_score"`
	CreatedAt     time.Time  `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt     time.Time  `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

// State returns the mutable fields.
func (s *Score) State() scoredomain.State {
	return scoredomain.State{
		Value:         s.Value,
		Comment:       s.Comment,
		IsSubmitted:   s.IsSubmitted,
		SubmittedAt:   s.SubmittedAt,
		Version:       s.Version,
		PreviousScore: s.PreviousScore,
	}
}

// Apply copies st onto the row.
func (s *Score) Apply(st scoredomain.State) {
	s.Value = st.Value
	s.Comment = st.Comment
	s.IsSubmitted = st.IsSubmitted
	s.SubmittedAt = st.SubmittedAt
	s.Version = st.Version
	s.PreviousScore = st.PreviousScore
}

// ListFilter narrows List. RoundID is required; empty strings skip a filter.
type ListFilter struct {
	RoundID       string
	TeamID        string
	JudgeID       string
	SubmittedOnly bool
}
