package aggregationdomain

import (
	"cmp"
	"slices"
)

// bands are the fixed distribution buckets, highest first. Lower bounds are
// inclusive, upper bounds exclusive except for the top band.
var bands = []struct {
	label string
	min   float64
	max   float64
}{
	{"90-100", 90, 100},
	{"80-89", 80, 90},
	{"70-79", 70, 80},
	{"60-69", 60, 70},
	{"50-59", 50, 60},
	{"0-49", 0, 50},
}

func newDistribution() []Band {
	out := make([]Band, len(bands))
	for i, b := range bands {
		out[i] = Band{Label: b.label, Min: b.min, Max: b.max}
	}
	return out
}

// bandIndex returns the band holding a percentage. Values below 0 fall into
// the bottom band and values above 100 into the top one.
func bandIndex(pct float64) int {
	for i, b := range bands {
		if pct >= b.min {
			return i
		}
	}
	return len(bands) - 1
}

func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

// Summarize folds a team's submitted scores. Scores are grouped per criterion
// in the order criteria are given; criteria without a score are omitted, and
// scores for criteria not in criteria are ignored.
func Summarize(teamID, roundID string, criteria []Criterion, scores []Score) Summary {
	s := Summary{TeamID: teamID, RoundID: roundID, CriteriaScores: []CriterionScore{}}

	type group struct {
		sum    float64
		judges map[string]struct{}
		n      int
	}
	groups := make(map[string]*group, len(criteria))
	judges := map[string]struct{}{}
	for _, c := range criteria {
		groups[c.ID] = &group{judges: map[string]struct{}{}}
	}
	for _, sc := range scores {
		if sc.TeamID != teamID {
			continue
		}
		g, ok := groups[sc.CriterionID]
		if !ok {
			continue
		}
		g.sum += sc.Value
		g.n++
		g.judges[sc.JudgeID] = struct{}{}
		judges[sc.JudgeID] = struct{}{}
	}

	seen := map[string]struct{}{}
	for _, c := range criteria {
		if _, dup := seen[c.ID]; dup {
			continue
		}
		seen[c.ID] = struct{}{}
		g := groups[c.ID]
		if g.n == 0 {
			continue
		}
		avg := g.sum / float64(g.n)
		s.CriteriaScores = append(s.CriteriaScores, CriterionScore{
			CriterionID:   c.ID,
			CriterionName: c.Name,
			AverageScore:  avg,
			MaxScore:      c.MaxScore,
			Weight:        c.Weight,
			JudgeCount:    len(g.judges),
		})
		s.TotalScore += avg
		s.MaxPossibleScore += float64(c.MaxScore)
		s.WeightedTotal += avg * c.Weight
		s.WeightedMax += float64(c.MaxScore) * c.Weight
	}

	s.AverageScore = ratio(s.TotalScore, s.MaxPossibleScore) * 100
	s.WeightedPercentage = ratio(s.WeightedTotal, s.WeightedMax) * 100
	s.JudgeCount = len(judges)
	return s
}

// Rank orders teams by their summary percentage, highest first. Teams no
// judge has scored are left out. Ties keep the order of teams.
func Rank(roundID, roundName string, teams []Team, summaries map[string]Summary) Results {
	res := Results{
		RoundID:   roundID,
		RoundName: roundName,
		Rankings:  []Ranking{},
		Statistics: Statistics{
			ScoreDistribution: newDistribution(),
		},
	}

	for _, t := range teams {
		sum, ok := summaries[t.ID]
		if !ok || sum.JudgeCount == 0 {
			continue
		}
		res.Rankings = append(res.Rankings, Ranking{
			TeamID:           t.ID,
			TeamNumber:       t.Number,
			TeamName:         t.Name,
			AverageScore:     sum.AverageScore,
			TotalScore:       sum.TotalScore,
			MaxPossibleScore: sum.MaxPossibleScore,
			JudgeCount:       sum.JudgeCount,
		})
	}
	slices.SortStableFunc(res.Rankings, func(a, b Ranking) int {
		return cmp.Compare(b.AverageScore, a.AverageScore)
	})

	stats := &res.Statistics
	stats.RankedTeams = len(res.Rankings)
	total := 0.0
	for i := range res.Rankings {
		r := &res.Rankings[i]
		r.Position = i + 1
		total += r.AverageScore
		if i == 0 {
			stats.Highest, stats.Lowest = r.AverageScore, r.AverageScore
		}
		stats.Highest = max(stats.Highest, r.AverageScore)
		stats.Lowest = min(stats.Lowest, r.AverageScore)

		band := &stats.ScoreDistribution[bandIndex(r.AverageScore)]
		band.Count++
		band.Teams = append(band.Teams, r.TeamName)
	}
	stats.Mean = ratio(total, float64(stats.RankedTeams))

	if len(res.Rankings) > 0 {
		winner := res.Rankings[0]
		res.Winner = &winner
	}
	return res
}

// Analyze breaks a round's submitted scores down per criterion, per judge and
// overall. Every criterion and judge given is listed, even without scores;
// judges found only in scores are appended under their id. Criterion bands
// bucket each score as a percentage of the criterion maximum.
func Analyze(roundID string, criteria []Criterion, judges []Judge, scores []Score) Analytics {
	a := Analytics{
		RoundID:  roundID,
		Criteria: make([]CriterionAnalytics, 0, len(criteria)),
		Judges:   make([]JudgeAnalytics, 0, len(judges)),
	}

	critIndex := make(map[string]int, len(criteria))
	for _, c := range criteria {
		if _, dup := critIndex[c.ID]; dup {
			continue
		}
		critIndex[c.ID] = len(a.Criteria)
		a.Criteria = append(a.Criteria, CriterionAnalytics{
			CriterionID:   c.ID,
			CriterionName: c.Name,
			MaxScore:      c.MaxScore,
			Distribution:  newDistribution(),
		})
	}
	judgeIndex := make(map[string]int, len(judges))
	for _, j := range judges {
		if _, dup := judgeIndex[j.ID]; dup {
			continue
		}
		judgeIndex[j.ID] = len(a.Judges)
		a.Judges = append(a.Judges, JudgeAnalytics{JudgeID: j.ID, JudgeName: j.Name})
	}

	critSums := make([]float64, len(a.Criteria))
	judgeSums := map[int]float64{}
	judgeTeams := map[int]map[string]struct{}{}
	teams := map[string]struct{}{}
	judgesSeen := map[string]struct{}{}

	for _, sc := range scores {
		a.Overall.TotalScores++
		teams[sc.TeamID] = struct{}{}
		judgesSeen[sc.JudgeID] = struct{}{}

		if ci, ok := critIndex[sc.CriterionID]; ok {
			c := &a.Criteria[ci]
			observe(&c.EvaluationCount, &c.HighestScore, &c.LowestScore, sc.Value)
			critSums[ci] += sc.Value
			pct := ratio(sc.Value, float64(c.MaxScore)) * 100
			c.Distribution[bandIndex(pct)].Count++
		}

		ji, ok := judgeIndex[sc.JudgeID]
		if !ok {
			ji = len(a.Judges)
			judgeIndex[sc.JudgeID] = ji
			a.Judges = append(a.Judges, JudgeAnalytics{JudgeID: sc.JudgeID, JudgeName: sc.JudgeID})
		}
		j := &a.Judges[ji]
		observe(&j.EvaluationCount, &j.HighestScore, &j.LowestScore, sc.Value)
		judgeSums[ji] += sc.Value
		if judgeTeams[ji] == nil {
			judgeTeams[ji] = map[string]struct{}{}
		}
		judgeTeams[ji][sc.TeamID] = struct{}{}
	}

	for i := range a.Criteria {
		c := &a.Criteria[i]
		c.AverageScore = ratio(critSums[i], float64(c.EvaluationCount))
	}
	for i := range a.Judges {
		j := &a.Judges[i]
		j.AverageScore = ratio(judgeSums[i], float64(j.EvaluationCount))
		j.TeamsEvaluated = len(judgeTeams[i])
	}
	a.Overall.TeamsEvaluated = len(teams)
	a.Overall.JudgesEvaluated = len(judgesSeen)
	return a
}

// observe folds v into a running count/high/low triple.
func observe(count *int, high, low *float64, v float64) {
	if *count == 0 {
		*high, *low = v, v
	} else {
		*high = max(*high, v)
		*low = min(*low, v)
	}
	*count++
}
