package analyticsdomain

import (
	"slices"
	"time"

	aggregationdomain "github.com/Black-And-White-Club/competition-marking/app/modules/aggregation/domain"
	assignmentdomain "github.com/Black-And-White-Club/competition-marking/app/modules/assignment/domain"
)

// Submission is one submitted score as the reporter sees it.
type Submission struct {
	JudgeID     string
	TeamID      string
	SubmittedAt *time.Time
}

// Progress tracks how far judging of a round has come.
type Progress struct {
	TotalTeams           int     `json:"total_teams"`
	TeamsWithJudges      int     `json:"teams_with_judges"`
	ExpectedEvaluations  int     `json:"expected_evaluations"`
	CompletedEvaluations int     `json:"completed_evaluations"`
	CompletionRate       float64 `json:"completion_rate"`
}

// Workload joins a judge's assignment with what they have submitted.
type Workload struct {
	JudgeID         string  `json:"judge_id"`
	JudgeName       string  `json:"judge_name"`
	AssignedTeams   int     `json:"assigned_teams"`
	TeamsEvaluated  int     `json:"teams_evaluated"`
	PendingTeams    int     `json:"pending_teams"`
	EvaluationCount int     `json:"evaluation_count"`
	AverageScore    float64 `json:"average_score"`
}

// TimelineBucket counts the scores submitted within one hour.
type TimelineBucket struct {
	Hour  time.Time `json:"hour"`
	Count int       `json:"count"`
}

// Dashboard is everything the results screen shows for one round.
type Dashboard struct {
	RoundID     string                       `json:"round_id"`
	RoundName   string                       `json:"round_name"`
	Results     *aggregationdomain.Results   `json:"results"`
	Analytics   *aggregationdomain.Analytics `json:"analytics"`
	Progress    Progress                     `json:"progress"`
	Workload    []Workload                   `json:"workload"`
	Timeline    []TimelineBucket             `json:"timeline"`
	GeneratedAt time.Time                    `json:"generated_at"`
}

// Compose assembles a dashboard from already computed outputs. Nothing in
// results or analytics is recalculated.
func Compose(
	results *aggregationdomain.Results,
	analytics *aggregationdomain.Analytics,
	stats *assignmentdomain.Stats,
	submissions []Submission,
	now time.Time,
) Dashboard {
	return Dashboard{
		RoundID:     results.RoundID,
		RoundName:   results.RoundName,
		Results:     results,
		Analytics:   analytics,
		Progress:    BuildProgress(stats, submissions),
		Workload:    JoinWorkload(stats.Workload, analytics.Judges),
		Timeline:    BuildTimeline(submissions),
		GeneratedAt: now,
	}
}

// BuildProgress counts distinct (judge, team) pairs with a submitted score
// against the assignment edges.
func BuildProgress(stats *assignmentdomain.Stats, submissions []Submission) Progress {
	p := Progress{
		TotalTeams:      stats.TotalTeams,
		TeamsWithJudges: stats.TeamsWithJudges,
	}
	for _, w := range stats.Workload {
		p.ExpectedEvaluations += w.TeamCount
	}

	pairs := map[[2]string]struct{}{}
	for _, s := range submissions {
		pairs[[2]string{s.JudgeID, s.TeamID}] = struct{}{}
	}
	p.CompletedEvaluations = len(pairs)

	if p.ExpectedEvaluations > 0 {
		p.CompletionRate = float64(p.CompletedEvaluations) / float64(p.ExpectedEvaluations) * 100
	}
	return p
}

// JoinWorkload lines the assignment workload up with judge analytics. Judges
// that submitted without being in the workload are appended after it.
func JoinWorkload(workload []assignmentdomain.JudgeWorkload, judges []aggregationdomain.JudgeAnalytics) []Workload {
	byID := make(map[string]aggregationdomain.JudgeAnalytics, len(judges))
	for _, j := range judges {
		byID[j.JudgeID] = j
	}

	out := make([]Workload, 0, len(workload))
	seen := make(map[string]struct{}, len(workload))
	for _, w := range workload {
		seen[w.JudgeID] = struct{}{}
		row := Workload{
			JudgeID:       w.JudgeID,
			JudgeName:     w.JudgeName,
			AssignedTeams: w.TeamCount,
		}
		if j, ok := byID[w.JudgeID]; ok {
			row.TeamsEvaluated = j.TeamsEvaluated
			row.EvaluationCount = j.EvaluationCount
			row.AverageScore = j.AverageScore
		}
		row.PendingTeams = max(row.AssignedTeams-row.TeamsEvaluated, 0)
		out = append(out, row)
	}

	for _, j := range judges {
		if _, ok := seen[j.JudgeID]; ok || j.EvaluationCount == 0 {
			continue
		}
		out = append(out, Workload{
			JudgeID:         j.JudgeID,
			JudgeName:       j.JudgeName,
			TeamsEvaluated:  j.TeamsEvaluated,
			EvaluationCount: j.EvaluationCount,
			AverageScore:    j.AverageScore,
		})
	}
	return out
}

// BuildTimeline buckets submissions by UTC hour, oldest first.
func BuildTimeline(submissions []Submission) []TimelineBucket {
	counts := map[time.Time]int{}
	for _, s := range submissions {
		if s.SubmittedAt == nil {
			continue
		}
		counts[s.SubmittedAt.UTC().Truncate(time.Hour)]++
	}

	out := make([]TimelineBucket, 0, len(counts))
	for hour, n := range counts {
		out = append(out, TimelineBucket{Hour: hour, Count: n})
	}
	slices.SortFunc(out, func(a, b TimelineBucket) int { return a.Hour.Compare(b.Hour) })
	return out
}
