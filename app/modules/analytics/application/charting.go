package analyticsservice

import (
	"bytes"
	"fmt"

	aggregationdomain "github.com/Black-And-White-Club/competition-marking/app/modules/aggregation/domain"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ChartPalette colors the rendered charts.
type ChartPalette struct {
	Background drawing.Color
	Bar        drawing.Color
	TextColor  drawing.Color
}

// DefaultPalette is a light theme.
var DefaultPalette = ChartPalette{
	Background: drawing.ColorWhite,
	Bar:        drawing.Color{R: 0x2b, G: 0x59, B: 0x8c, A: 0xff},
	TextColor:  drawing.Color{R: 0x33, G: 0x33, B: 0x33, A: 0xff},
}

// GenerateDistributionChart produces a PNG bar chart of how many ranked teams
// fall in each score band.
func GenerateDistributionChart(res *aggregationdomain.Results, palette ChartPalette) ([]byte, error) {
	if res.Statistics.RankedTeams == 0 {
		return renderNoDataPlaceholder(palette)
	}

	bars := make([]chart.Value, len(res.Statistics.ScoreDistribution))
	top := 1
	for i, b := range res.Statistics.ScoreDistribution {
		bars[i] = chart.Value{
			Label: b.Label,
			Value: float64(b.Count),
			Style: chart.Style{
				FillColor:   palette.Bar,
				StrokeColor: palette.Bar,
			},
		}
		top = max(top, b.Count)
	}

	graph := chart.BarChart{
		Title:  fmt.Sprintf("%s score distribution", res.RoundName),
		Width:  800,
		Height: 400,
		TitleStyle: chart.Style{
			FontColor: palette.TextColor,
		},
		Background: chart.Style{
			FillColor: palette.Background,
			Padding:   chart.Box{Top: 50},
		},
		Canvas: chart.Style{
			FillColor: palette.Background,
		},
		BarWidth: 60,
		XAxis: chart.Style{
			FontColor: palette.TextColor,
		},
		YAxis: chart.YAxis{
			Name: "Teams",
			Style: chart.Style{
				FontColor: palette.TextColor,
			},
			// A fixed range keeps all-empty bands from collapsing the axis.
			Range: &chart.ContinuousRange{Min: 0, Max: float64(top)},
		},
		Bars: bars,
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("failed to render distribution chart: %w", err)
	}
	return buffer.Bytes(), nil
}

// renderNoDataPlaceholder draws the message straight onto a PNG canvas.
// chart.Chart refuses to render without a series.
func renderNoDataPlaceholder(palette ChartPalette) ([]byte, error) {
	const (
		width  = 400
		height = 200
		msg    = "No submitted scores yet"
	)

	r, err := chart.PNG(width, height)
	if err != nil {
		return nil, fmt.Errorf("failed to create placeholder canvas: %w", err)
	}
	font, err := chart.GetDefaultFont()
	if err != nil {
		return nil, fmt.Errorf("failed to load chart font: %w", err)
	}

	r.SetFillColor(palette.Background)
	r.MoveTo(0, 0)
	r.LineTo(width, 0)
	r.LineTo(width, height)
	r.LineTo(0, height)
	r.Close()
	r.Fill()

	r.SetFont(font)
	r.SetFontColor(palette.TextColor)
	r.SetFontSize(12.0)
	tb := r.MeasureText(msg)
	r.Text(msg, (width-tb.Width())/2, (height+tb.Height())/2)

	buffer := bytes.NewBuffer([]byte{})
	if err := r.Save(buffer); err != nil {
		return nil, fmt.Errorf("failed to render placeholder chart: %w", err)
	}
	return buffer.Bytes(), nil
}
