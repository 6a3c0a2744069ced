package analyticsservice

import (
	"context"
	"log/slog"
	"time"

	aggregationdomain "github.com/Black-And-White-Club/competition-marking/app/modules/aggregation/domain"
	analyticsdomain "github.com/Black-And-White-Club/competition-marking/app/modules/analytics/domain"
	scoredomain "github.com/Black-And-White-Club/competition-marking/app/modules/score/domain"
	"github.com/Black-And-White-Club/competition-marking/app/shared/observability"
	"github.com/Black-And-White-Club/competition-marking/app/shared/operations"
	"go.opentelemetry.io/otel/trace"
)

// ReportService implements the Service interface on top of the other modules'
// services. It never touches the database itself.
type ReportService struct {
	aggregator  Aggregator
	assignments AssignmentStats
	scores      ScoreLister
	palette     ChartPalette
	runner      *operations.Runner
	now         func() time.Time
}

// NewReportService creates a new ReportService.
func NewReportService(
	aggregator Aggregator,
	assignments AssignmentStats,
	scores ScoreLister,
	logger *slog.Logger,
	metrics observability.Metrics,
	tracer trace.Tracer,
) *ReportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportService{
		aggregator:  aggregator,
		assignments: assignments,
		scores:      scores,
		palette:     DefaultPalette,
		runner: &operations.Runner{
			Service: "ReportService",
			Logger:  logger,
			Metrics: metrics,
			Tracer:  tracer,
		},
		now: time.Now,
	}
}

// GetDashboard composes results, analytics, workload and the submission
// timeline of a round.
func (s *ReportService) GetDashboard(ctx context.Context, roundID string) (*analyticsdomain.Dashboard, error) {
	return operations.Call(s.runner, ctx, "GetDashboard", roundID, func(ctx context.Context) (*analyticsdomain.Dashboard, error) {
		res, analytics, err := s.resultsAndAnalytics(ctx, roundID)
		if err != nil {
			return nil, err
		}
		stats, err := s.assignments.GetAssignmentStats(ctx, roundID)
		if err != nil {
			return nil, err
		}
		rows, err := s.scores.ListScores(ctx, roundID, scoredomain.ListScope{})
		if err != nil {
			return nil, err
		}

		subs := make([]analyticsdomain.Submission, len(rows))
		for i, r := range rows {
			subs[i] = analyticsdomain.Submission{JudgeID: r.JudgeID, TeamID: r.TeamID, SubmittedAt: r.SubmittedAt}
		}

		d := analyticsdomain.Compose(res, analytics, stats, subs, s.now().UTC())
		return &d, nil
	})
}

// ExportResults renders the rankings and analytics of a round as an XLSX workbook.
func (s *ReportService) ExportResults(ctx context.Context, roundID string) ([]byte, error) {
	return operations.Call(s.runner, ctx, "ExportResults", roundID, func(ctx context.Context) ([]byte, error) {
		res, analytics, err := s.resultsAndAnalytics(ctx, roundID)
		if err != nil {
			return nil, err
		}
		return BuildWorkbook(res, analytics)
	})
}

// RenderDistribution draws the score distribution of a round as a PNG bar chart.
func (s *ReportService) RenderDistribution(ctx context.Context, roundID string) ([]byte, error) {
	return operations.Call(s.runner, ctx, "RenderDistribution", roundID, func(ctx context.Context) ([]byte, error) {
		res, err := s.aggregator.CalculateWinner(ctx, roundID)
		if err != nil {
			return nil, err
		}
		return GenerateDistributionChart(res, s.palette)
	})
}

func (s *ReportService) resultsAndAnalytics(ctx context.Context, roundID string) (*aggregationdomain.Results, *aggregationdomain.Analytics, error) {
	res, err := s.aggregator.CalculateWinner(ctx, roundID)
	if err != nil {
		return nil, nil, err
	}
	analytics, err := s.aggregator.GetDetailedAnalytics(ctx, roundID)
	if err != nil {
		return nil, nil, err
	}
	return res, analytics, nil
}
