package analyticsservice

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"io"
	"log/slog"
	"testing"
	"time"

	aggregationdomain "github.com/Black-And-White-Club/competition-marking/app/modules/aggregation/domain"
	assignmentdomain "github.com/Black-And-White-Club/competition-marking/app/modules/assignment/domain"
	scoredomain "github.com/Black-And-White-Club/competition-marking/app/modules/score/domain"
	scoredb "github.com/Black-And-White-Club/competition-marking/app/modules/score/infrastructure/repositories"
	"github.com/Black-And-White-Club/competition-marking/app/shared/apperrors"
	"github.com/Black-And-White-Club/competition-marking/app/shared/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.opentelemetry.io/otel/trace/noop"
)

type fixture struct {
	aggregator  *FakeAggregator
	assignments *FakeAssignmentStats
	scores      *FakeScoreLister
	svc         *ReportService
}

func sampleResults() *aggregationdomain.Results {
	return &aggregationdomain.Results{
		RoundID:   "r1",
		RoundName: "Finals",
		Rankings: []aggregationdomain.Ranking{
			{Position: 1, TeamID: "t2", TeamNumber: 2, TeamName: "Bravo", AverageScore: 90, TotalScore: 45, MaxPossibleScore: 50, JudgeCount: 2},
			{Position: 2, TeamID: "t1", TeamNumber: 1, TeamName: "Alpha", AverageScore: 70, TotalScore: 35, MaxPossibleScore: 50, JudgeCount: 2},
		},
		Statistics: aggregationdomain.Statistics{
			RankedTeams: 2,
			Highest:     90,
			Lowest:      70,
			Mean:        80,
			ScoreDistribution: []aggregationdomain.Band{
				{Label: "90-100", Min: 90, Max: 100, Count: 1},
				{Label: "80-89", Min: 80, Max: 89, Count: 0},
				{Label: "70-79", Min: 70, Max: 79, Count: 1},
				{Label: "60-69", Min: 60, Max: 69, Count: 0},
				{Label: "50-59", Min: 50, Max: 59, Count: 0},
				{Label: "0-49", Min: 0, Max: 49, Count: 0},
			},
		},
	}
}

func sampleAnalytics() *aggregationdomain.Analytics {
	return &aggregationdomain.Analytics{
		RoundID: "r1",
		Criteria: []aggregationdomain.CriterionAnalytics{
			{CriterionID: "c1", CriterionName: "Design", MaxScore: 50, EvaluationCount: 4, AverageScore: 40, HighestScore: 45, LowestScore: 30},
		},
		Judges: []aggregationdomain.JudgeAnalytics{
			{JudgeID: "j1", JudgeName: "Ada", EvaluationCount: 2, TeamsEvaluated: 2, AverageScore: 42.5},
			{JudgeID: "j2", JudgeName: "Bob", EvaluationCount: 2, TeamsEvaluated: 2, AverageScore: 37.5},
		},
		Overall: aggregationdomain.Overall{TotalScores: 4, TeamsEvaluated: 2, JudgesEvaluated: 2},
	}
}

func newFixture() *fixture {
	f := &fixture{
		aggregator: &FakeAggregator{Results: sampleResults(), Analytics: sampleAnalytics()},
		assignments: &FakeAssignmentStats{Stats: &assignmentdomain.Stats{
			TotalTeams:      2,
			TotalJudges:     2,
			TeamsWithJudges: 2,
			Workload: []assignmentdomain.JudgeWorkload{
				{JudgeID: "j1", JudgeName: "Ada", TeamCount: 2, TeamIDs: []string{"t1", "t2"}},
				{JudgeID: "j2", JudgeName: "Bob", TeamCount: 2, TeamIDs: []string{"t1", "t2"}},
			},
		}},
		scores: &FakeScoreLister{},
	}
	f.svc = NewReportService(
		f.aggregator,
		f.assignments,
		f.scores,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		observability.NewNoop(),
		noop.NewTracerProvider().Tracer("test"),
	)
	f.svc.now = func() time.Time { return time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC) }
	return f
}

func TestGetDashboard(t *testing.T) {
	f := newFixture()
	at := time.Date(2026, 3, 14, 15, 20, 0, 0, time.UTC)
	f.scores.Rows = []scoredb.Score{
		{JudgeID: "j1", TeamID: "t1", IsSubmitted: true, SubmittedAt: &at},
		{JudgeID: "j1", TeamID: "t2", IsSubmitted: true, SubmittedAt: &at},
		{JudgeID: "j2", TeamID: "t1", IsSubmitted: true, SubmittedAt: &at},
	}

	d, err := f.svc.GetDashboard(context.Background(), "r1")
	require.NoError(t, err)

	assert.Equal(t, "Finals", d.RoundName)
	assert.Same(t, f.aggregator.Results, d.Results)
	assert.Equal(t, 4, d.Progress.ExpectedEvaluations)
	assert.Equal(t, 3, d.Progress.CompletedEvaluations)
	assert.InDelta(t, 75.0, d.Progress.CompletionRate, 1e-9)
	require.Len(t, d.Workload, 2)
	assert.Equal(t, 0, d.Workload[0].PendingTeams)
	require.Len(t, d.Timeline, 1)
	assert.Equal(t, 3, d.Timeline[0].Count)
	assert.Equal(t, []scoredomain.ListScope{{}}, f.scores.Scopes, "the dashboard only reads submitted scores")
}

func TestGetDashboard_Errors(t *testing.T) {
	t.Run("round not found passes through", func(t *testing.T) {
		f := newFixture()
		f.aggregator.Err = apperrors.RoundNotFound("r9")

		_, err := f.svc.GetDashboard(context.Background(), "r9")
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		assert.Equal(t, []string{"CalculateWinner"}, f.aggregator.Calls)
	})

	t.Run("assignment stats failure", func(t *testing.T) {
		f := newFixture()
		f.assignments.Err = errors.New("connection reset")

		_, err := f.svc.GetDashboard(context.Background(), "r1")
		assert.Error(t, err)
		assert.False(t, apperrors.IsDomain(err))
	})
}

func TestExportResults(t *testing.T) {
	f := newFixture()

	data, err := f.svc.ExportResults(context.Background(), "r1")
	require.NoError(t, err)

	wb, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer wb.Close()

	assert.Equal(t, []string{"Rankings", "Criteria", "Judges", "Distribution"}, wb.GetSheetList())

	rows, err := wb.GetRows("Rankings")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Position", "Team #", "Team", "Average %", "Total", "Max", "Judges"}, rows[0])
	assert.Equal(t, "Bravo", rows[1][2])
	assert.Equal(t, "90", rows[1][3])

	judges, err := wb.GetRows("Judges")
	require.NoError(t, err)
	assert.Len(t, judges, 3)

	bands, err := wb.GetRows("Distribution")
	require.NoError(t, err)
	assert.Len(t, bands, 7)
}

func TestRenderDistribution(t *testing.T) {
	t.Run("bar chart", func(t *testing.T) {
		f := newFixture()

		data, err := f.svc.RenderDistribution(context.Background(), "r1")
		require.NoError(t, err)

		img, err := png.Decode(bytes.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, 800, img.Bounds().Dx())
	})

	t.Run("placeholder when nobody is ranked", func(t *testing.T) {
		f := newFixture()
		f.aggregator.Results = &aggregationdomain.Results{RoundID: "r1", Rankings: []aggregationdomain.Ranking{}}

		data, err := f.svc.RenderDistribution(context.Background(), "r1")
		require.NoError(t, err)

		img, err := png.Decode(bytes.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, 400, img.Bounds().Dx())
		assert.Equal(t, 200, img.Bounds().Dy())

		r, g, b, _ := img.At(0, 0).RGBA()
		assert.Equal(t, [3]uint32{0xffff, 0xffff, 0xffff}, [3]uint32{r, g, b}, "background fill")
	})
}
