// Package charts renders the dashboard series as PNG images.
package charts

import (
	"fmt"
	"io"
	"time"

	"github.com/wcharczuk/go-chart/v2"

	"ledger/internal/core"
)

const (
	dayLayout = "2006-01-02"
	noData    = "No expenses"
)

var background = chart.Style{
	Padding: chart.Box{
		Top:    40,
		Left:   40,
		Right:  40,
		Bottom: 40,
	},
	FillColor: chart.ColorWhite,
}

var axisStyle = chart.Style{
	FontSize:  11,
	FontColor: chart.ColorBlack,
}

// Daily draws income and expenses per day as two lines.
func Daily(w io.Writer, series []core.DailyActivity) error {
	xs := make([]time.Time, 0, len(series))
	income := make([]float64, 0, len(series))
	expenses := make([]float64, 0, len(series))
	top := 0.0
	for _, d := range series {
		day, err := time.Parse(dayLayout, d.Date)
		if err != nil {
			return fmt.Errorf("parse day %q: %w", d.Date, err)
		}
		xs = append(xs, day)
		income = append(income, d.Income.Float())
		expenses = append(expenses, d.Expenses.Float())
		top = max(top, d.Income.Float(), d.Expenses.Float())
	}
	if len(xs) < 2 {
		return fmt.Errorf("daily chart needs at least two days, got %d", len(xs))
	}
	// go-chart refuses a zero-height range
	if top == 0 {
		top = 1
	}

	graph := chart.Chart{
		Width:      900,
		Height:     400,
		Background: background,
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatterWithFormat("02/01"),
			Style:          axisStyle,
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: top * 1.1},
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%.0f", v.(float64))
			},
			Style: axisStyle,
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "Income",
				XValues: xs,
				YValues: income,
				Style: chart.Style{
					StrokeColor: chart.ColorGreen,
					StrokeWidth: 2,
				},
			},
			chart.TimeSeries{
				Name:    "Expenses",
				XValues: xs,
				YValues: expenses,
				Style: chart.Style{
					StrokeColor: chart.ColorRed,
					StrokeWidth: 2,
				},
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph, axisStyle)}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render daily chart: %w", err)
	}
	return nil
}

// Categories draws the expense breakdown as a pie. An empty breakdown renders a placeholder slice.
func Categories(w io.Writer, breakdown []core.CategoryAmount) error {
	values := make([]chart.Value, 0, len(breakdown))
	var total int64
	for _, c := range breakdown {
		total += c.Value.Cents
	}
	for _, c := range breakdown {
		if c.Value.Cents <= 0 {
			continue
		}
		share := float64(c.Value.Cents) / float64(total) * 100
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s: %s (%.1f%%)", c.Name, c.Value, share),
			Value: c.Value.Float(),
		})
	}
	if len(values) == 0 {
		values = append(values, chart.Value{Label: noData, Value: 1})
	}

	pie := chart.PieChart{
		Width:      600,
		Height:     600,
		Values:     values,
		Background: background,
	}
	if err := pie.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render category chart: %w", err)
	}
	return nil
}
