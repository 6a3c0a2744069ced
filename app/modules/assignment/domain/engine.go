package assignmentdomain

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/Black-And-White-Club/competition-marking/app/shared/apperrors"
)

// Engine distributes judges over teams. It holds no state between calls.
type Engine struct {
	maxPerTeam int
}

// NewEngine creates an Engine capped at maxPerTeam judges per team, clamped to
// [1, MaxJudgesPerTeam].
func NewEngine(maxPerTeam int) Engine {
	if maxPerTeam < 1 || maxPerTeam > MaxJudgesPerTeam {
		maxPerTeam = MaxJudgesPerTeam
	}
	return Engine{maxPerTeam: maxPerTeam}
}

// MaxPerTeam returns the per-team ceiling.
func (e Engine) MaxPerTeam() int { return e.maxPerTeam }

// activeJudges drops inactive judges and duplicate ids, keeping first occurrence order.
func activeJudges(judges []Judge) []Judge {
	out := make([]Judge, 0, len(judges))
	seen := make(map[string]struct{}, len(judges))
	for _, j := range judges {
		if !j.Active {
			continue
		}
		if _, dup := seen[j.ID]; dup {
			continue
		}
		seen[j.ID] = struct{}{}
		out = append(out, j)
	}
	return out
}

func validate(teams []Team, judges []Judge) ([]Judge, error) {
	if len(teams) == 0 {
		return nil, apperrors.ErrNoTeams
	}
	active := activeJudges(judges)
	if len(active) == 0 {
		return nil, apperrors.ErrNoJudges
	}
	return active, nil
}

// Assign builds a fresh assignment by round-robin. Each team receives
// min(maxPerTeam, ceil(judges/teams)) consecutive judges from a cursor that
// wraps over the judge list, so judges are reused when scarce. This is a
// deterministic heuristic, not a variance-minimizing solver.
func (e Engine) Assign(teams []Team, judges []Judge) ([]TeamAssignment, error) {
	active, err := validate(teams, judges)
	if err != nil {
		return nil, err
	}

	perTeam := min(e.maxPerTeam, ceilDiv(len(active), len(teams)))
	out := make([]TeamAssignment, len(teams))
	cursor := 0
	for i, team := range teams {
		ids := make([]string, 0, perTeam)
		for range perTeam {
			ids = append(ids, active[cursor].ID)
			cursor = (cursor + 1) % len(active)
		}
		out[i] = TeamAssignment{TeamID: team.ID, JudgeIDs: ids}
	}
	return out, nil
}

// Optimize rebalances current without clearing it. Edges to unknown or
// inactive judges, edges of teams outside teams, duplicates and edges beyond
// the per-team ceiling are dropped. Teams left without a judge receive the
// least-loaded judge. Then, while some judge carries at least two teams more
// than another, one team moves from the heavier to the lighter judge. Every
// move strictly lowers the sum of squared loads, and the loop is capped at
// teams*judges plus the edge count. A balanced input comes back unchanged.
func (e Engine) Optimize(teams []Team, judges []Judge, current []TeamAssignment) (OptimizeResult, error) {
	active, err := validate(teams, judges)
	if err != nil {
		return OptimizeResult{}, err
	}

	judgeIndex := make(map[string]int, len(active))
	for i, j := range active {
		judgeIndex[j.ID] = i
	}
	teamIndex := make(map[string]int, len(teams))
	for i, t := range teams {
		teamIndex[t.ID] = i
	}

	sets := make([][]string, len(teams))
	for i := range sets {
		sets[i] = []string{}
	}
	res := OptimizeResult{}
	for _, ta := range current {
		ti, ok := teamIndex[ta.TeamID]
		if !ok {
			res.Dropped += len(ta.JudgeIDs)
			continue
		}
		for _, jid := range ta.JudgeIDs {
			if _, ok := judgeIndex[jid]; !ok || slices.Contains(sets[ti], jid) || len(sets[ti]) >= e.maxPerTeam {
				res.Dropped++
				continue
			}
			sets[ti] = append(sets[ti], jid)
		}
	}

	loads := make([]int, len(active))
	edges := 0
	for _, set := range sets {
		for _, jid := range set {
			loads[judgeIndex[jid]]++
			edges++
		}
	}

	for ti := range sets {
		if len(sets[ti]) > 0 {
			continue
		}
		lightest := 0
		for ji := range loads {
			if loads[ji] < loads[lightest] {
				lightest = ji
			}
		}
		sets[ti] = append(sets[ti], active[lightest].ID)
		loads[lightest]++
		edges++
		res.Repaired++
	}

	limit := len(teams)*len(active) + edges
	for iter := 0; iter < limit; iter++ {
		if !e.moveOne(sets, active, judgeIndex, loads) {
			break
		}
		res.Moves++
	}

	res.Assignments = make([]TeamAssignment, len(teams))
	for i, t := range teams {
		res.Assignments[i] = TeamAssignment{TeamID: t.ID, JudgeIDs: sets[i]}
	}
	res.Message = optimizeMessage(res)
	return res, nil
}

// moveOne performs the first improving move it finds, scanning heavy judges
// from most loaded and light judges from least loaded. Ties keep judge order.
func (e Engine) moveOne(sets [][]string, active []Judge, judgeIndex map[string]int, loads []int) bool {
	heavy := orderByLoad(loads, true)
	light := orderByLoad(loads, false)

	for _, h := range heavy {
		for _, l := range light {
			if loads[h]-loads[l] < 2 {
				break
			}
			for ti, set := range sets {
				if !slices.Contains(set, active[h].ID) || slices.Contains(set, active[l].ID) {
					continue
				}
				for slot, jid := range set {
					if judgeIndex[jid] == h {
						sets[ti][slot] = active[l].ID
						break
					}
				}
				loads[h]--
				loads[l]++
				return true
			}
		}
	}
	return false
}

// orderByLoad returns judge indexes sorted by load, stable on judge order.
func orderByLoad(loads []int, descending bool) []int {
	idx := make([]int, len(loads))
	for i := range idx {
		idx[i] = i
	}
	slices.SortStableFunc(idx, func(a, b int) int {
		if descending {
			return cmp.Compare(loads[b], loads[a])
		}
		return cmp.Compare(loads[a], loads[b])
	})
	return idx
}

func optimizeMessage(r OptimizeResult) string {
	if !r.Changed() {
		return "assignments already balanced"
	}
	return fmt.Sprintf("rebalanced: %d moved, %d teams given a judge, %d edges dropped", r.Moves, r.Repaired, r.Dropped)
}

// Stats computes totals and per-judge workload. Every judge in judges is
// listed, including those with no teams. Denominators are guarded.
func (e Engine) Stats(teams []Team, judges []Judge, assignments []TeamAssignment) Stats {
	byTeam := make(map[string][]string, len(assignments))
	for _, ta := range assignments {
		byTeam[ta.TeamID] = ta.JudgeIDs
	}

	judgeList := uniqueJudges(judges)
	workload := make([]JudgeWorkload, len(judgeList))
	judgeIndex := make(map[string]int, len(judgeList))
	for i, j := range judgeList {
		workload[i] = JudgeWorkload{JudgeID: j.ID, JudgeName: j.Name, TeamIDs: []string{}}
		judgeIndex[j.ID] = i
	}

	stats := Stats{TotalTeams: len(teams), TotalJudges: len(judgeList)}
	edges := 0
	for _, t := range teams {
		ids := byTeam[t.ID]
		if len(ids) > 0 {
			stats.TeamsWithJudges++
		}
		edges += len(ids)
		for _, jid := range ids {
			if i, ok := judgeIndex[jid]; ok {
				workload[i].TeamCount++
				workload[i].TeamIDs = append(workload[i].TeamIDs, t.ID)
			}
		}
	}

	if stats.TotalTeams > 0 {
		stats.AverageJudgesPerTeam = float64(edges) / float64(stats.TotalTeams)
	}
	stats.Workload = workload
	stats.Spread = spread(workload)
	return stats
}

func uniqueJudges(judges []Judge) []Judge {
	out := make([]Judge, 0, len(judges))
	seen := make(map[string]struct{}, len(judges))
	for _, j := range judges {
		if _, dup := seen[j.ID]; dup {
			continue
		}
		seen[j.ID] = struct{}{}
		out = append(out, j)
	}
	return out
}

func spread(workload []JudgeWorkload) int {
	if len(workload) == 0 {
		return 0
	}
	lo, hi := workload[0].TeamCount, workload[0].TeamCount
	for _, w := range workload[1:] {
		lo = min(lo, w.TeamCount)
		hi = max(hi, w.TeamCount)
	}
	return hi - lo
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
