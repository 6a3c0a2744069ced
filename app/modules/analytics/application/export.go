package analyticsservice

import (
	"fmt"

	aggregationdomain "github.com/Black-And-White-Club/competition-marking/app/modules/aggregation/domain"
	"github.com/xuri/excelize/v2"
)

const (
	sheetRankings     = "Rankings"
	sheetCriteria     = "Criteria"
	sheetJudges       = "Judges"
	sheetDistribution = "Distribution"
)

// BuildWorkbook writes the results and analytics of a round into an XLSX
// workbook with one sheet per view.
func BuildWorkbook(res *aggregationdomain.Results, analytics *aggregationdomain.Analytics) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetRankings); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	for _, name := range []string{sheetCriteria, sheetJudges, sheetDistribution} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("failed to add sheet %q: %w", name, err)
		}
	}

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	rankings := [][]any{{"Position", "Team #", "Team", "Average %", "Total", "Max", "Judges"}}
	for _, r := range res.Rankings {
		rankings = append(rankings, []any{r.Position, r.TeamNumber, r.TeamName, r.AverageScore, r.TotalScore, r.MaxPossibleScore, r.JudgeCount})
	}

	criteria := [][]any{{"Criterion", "Max", "Evaluations", "Average", "Highest", "Lowest"}}
	for _, c := range analytics.Criteria {
		criteria = append(criteria, []any{c.CriterionName, c.MaxScore, c.EvaluationCount, c.AverageScore, c.HighestScore, c.LowestScore})
	}

	judges := [][]any{{"Judge", "Evaluations", "Teams", "Average", "Highest", "Lowest"}}
	for _, j := range analytics.Judges {
		judges = append(judges, []any{j.JudgeName, j.EvaluationCount, j.TeamsEvaluated, j.AverageScore, j.HighestScore, j.LowestScore})
	}

	distribution := [][]any{{"Band", "Teams"}}
	for _, b := range res.Statistics.ScoreDistribution {
		distribution = append(distribution, []any{b.Label, b.Count})
	}

	for _, sheet := range []struct {
		name string
		rows [][]any
	}{
		{sheetRankings, rankings},
		{sheetCriteria, criteria},
		{sheetJudges, judges},
		{sheetDistribution, distribution},
	} {
		if err := writeRows(f, sheet.name, sheet.rows, header); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any, headerStyle int) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	if err := f.SetRowStyle(sheet, 1, 1, headerStyle); err != nil {
		return fmt.Errorf("failed to style %s header: %w", sheet, err)
	}
	return nil
}
