package scoredomain

import "time"

// ScoreSubmittedPayload is published when scores become official.
type ScoreSubmittedPayload struct {
	RoundID      string    `json:"round_id"`
	TeamID       string    `json:"team_id"`
	JudgeID      string    `json:"judge_id"`
	ScoreIDs     []string  `json:"score_ids"`
	CriterionIDs []string  `json:"criterion_ids"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// ScoreModifiedPayload is published after a versioned edit.
type ScoreModifiedPayload struct {
	ScoreID       string    `json:"score_id"`
	RoundID       string    `json:"round_id"`
	TeamID        string    `json:"team_id"`
	JudgeID       string    `json:"judge_id"`
	Version       int       `json:"version"`
	Value         float64   `json:"value"`
	PreviousScore *float64  `json:"previous_score,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}
