package aggregationdomain

import "time"

// Criterion is the part of a criterion the engine needs.
type Criterion struct {
	ID       string
	Name     string
	MaxScore int
	Weight   float64
}

// Team is a participating team. Ranking keeps the input order for ties.
type Team struct {
	ID     string
	Number int
	Name   string
}

// Judge names a judge in analytics.
type Judge struct {
	ID   string
	Name string
}

// Score is one submitted score. Drafts never reach the engine.
type Score struct {
	JudgeID     string
	TeamID      string
	CriterionID string
	Value       float64
	SubmittedAt *time.Time
}

// CriterionScore is the mean of the judges' values for one criterion.
type CriterionScore struct {
	CriterionID   string  `json:"criterion_id"`
	CriterionName string  `json:"criterion_name"`
	AverageScore  float64 `json:"average_score"`
	MaxScore      int     `json:"max_score"`
	Weight        float64 `json:"weight"`
	JudgeCount    int     `json:"judge_count"`
}

// Summary folds a team's submitted scores for one round. AverageScore is a
// percentage of MaxPossibleScore.
type Summary struct {
	TeamID             string           `json:"team_id"`
	RoundID            string           `json:"round_id"`
	TotalScore         float64          `json:"total_score"`
	MaxPossibleScore   float64          `json:"max_possible_score"`
	AverageScore       float64          `json:"average_score"`
	JudgeCount         int              `json:"judge_count"`
	CriteriaScores     []CriterionScore `json:"criteria_scores"`
	WeightedTotal      float64          `json:"weighted_total"`
	WeightedMax        float64          `json:"weighted_max"`
	WeightedPercentage float64          `json:"weighted_percentage"`
}

// Ranking is one ranked team. Position starts at 1.
type Ranking struct {
	Position         int     `json:"position"`
	TeamID           string  `json:"team_id"`
	TeamNumber       int     `json:"team_number"`
	TeamName         string  `json:"team_name"`
	AverageScore     float64 `json:"average_score"`
	TotalScore       float64 `json:"total_score"`
	MaxPossibleScore float64 `json:"max_possible_score"`
	JudgeCount       int     `json:"judge_count"`
}

// Band is one bucket of the score distribution.
type Band struct {
	Label string   `json:"label"`
	Min   float64  `json:"min"`
	Max   float64  `json:"max"`
	Count int      `json:"count"`
	Teams []string `json:"teams,omitempty"`
}

// Statistics describe the ranked teams' percentages.
type Statistics struct {
	RankedTeams       int     `json:"ranked_teams"`
	Highest           float64 `json:"highest"`
	Lowest            float64 `json:"lowest"`
	Mean              float64 `json:"mean"`
	ScoreDistribution []Band  `json:"score_distribution"`
}

// Results is the ranking of one round. Winner is nil when nobody was evaluated.
type Results struct {
	RoundID    string     `json:"round_id"`
	RoundName  string     `json:"round_name"`
	Winner     *Ranking   `json:"winner"`
	Rankings   []Ranking  `json:"rankings"`
	Statistics Statistics `json:"statistics"`
}

// CriterionAnalytics describes the raw values given for one criterion.
type CriterionAnalytics struct {
	CriterionID     string  `json:"criterion_id"`
	CriterionName   string  `json:"criterion_name"`
	MaxScore        int     `json:"max_score"`
	EvaluationCount int     `json:"evaluation_count"`
	AverageScore    float64 `json:"average_score"`
	HighestScore    float64 `json:"highest_score"`
	LowestScore     float64 `json:"lowest_score"`
	Distribution    []Band  `json:"distribution"`
}

// JudgeAnalytics describes the values one judge gave.
type JudgeAnalytics struct {
	JudgeID         string  `json:"judge_id"`
	JudgeName       string  `json:"judge_name"`
	EvaluationCount int     `json:"evaluation_count"`
	AverageScore    float64 `json:"average_score"`
	HighestScore    float64 `json:"highest_score"`
	LowestScore     float64 `json:"lowest_score"`
	TeamsEvaluated  int     `json:"teams_evaluated"`
}

// Overall counts a round's submissions.
type Overall struct {
	TotalScores     int `json:"total_scores"`
	TeamsEvaluated  int `json:"teams_evaluated"`
	JudgesEvaluated int `json:"judges_evaluated"`
}

// Analytics is the detailed breakdown of one round.
type Analytics struct {
	RoundID  string               `json:"round_id"`
	Criteria []CriterionAnalytics `json:"criteria"`
	Judges   []JudgeAnalytics     `json:"judges"`
	Overall  Overall              `json:"overall"`
}
