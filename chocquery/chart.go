package chocquery

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// ChartColumn returns the index of the row column plotted for a verb/metric
// pair. Bars listings plot rating or cocoa percentage; aggregate commands plot
// their last column, the aggregate. width is the row length.
func ChartColumn(verb Verb, metric Metric, width int) int {
	if verb == VerbBars {
		switch metric {
		case MetricRatings:
			return barsRatingColumn
		case MetricCocoa:
			return barsCocoaColumn
		}
	}
	return width - 1
}

// ChartOptions controls bar chart rendering.
type ChartOptions struct {
	Width     int  // total line width; 0 means 80
	LabelSize int  // widest x label before truncation; 0 means DefaultTextWidth+4
	Color     bool // style bars with lipgloss
}

var (
	chartBarStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#D2691E"))
	chartLabelStyle = lipgloss.NewStyle().Bold(true)
)

// RenderChart draws a horizontal bar chart: one line per row, labelled by the
// row's first column and sized by its ChartColumn value.
func RenderChart(rows []Row, d *Descriptor, opts ChartOptions) string {
	if len(rows) == 0 {
		return ""
	}
	width := opts.Width
	if width <= 0 {
		width = 80
	}
	labelSize := opts.LabelSize
	if labelSize <= 0 {
		labelSize = DefaultTextWidth + 4
	}

	col := ChartColumn(d.Verb, d.Metric, len(d.Columns))
	values := make([]float64, len(rows))
	var max float64
	for i, row := range rows {
		if col < 0 || col >= len(row) {
			continue
		}
		values[i], _ = toFloat(row[col])
		if values[i] > max {
			max = values[i]
		}
	}

	valueWidth := numericWidth + 1
	barSpace := width - labelSize - valueWidth - 2
	if barSpace < 1 {
		barSpace = 1
	}

	var b strings.Builder
	for i, row := range rows {
		label := ""
		if len(row) > 0 {
			label = fmt.Sprintf("%v", chartLabel(row[0]))
		}
		label = runewidth.FillRight(truncateText(label, labelSize-4), labelSize)

		n := 0
		if max > 0 {
			n = int(values[i] / max * float64(barSpace))
		}
		bar := strings.Repeat("█", n)
		value := formatNumber(rowValue(row, col), col, d.Verb)

		if opts.Color {
			label = chartLabelStyle.Render(label)
			bar = chartBarStyle.Render(bar)
		}
		b.WriteString(label)
		b.WriteString(bar)
		b.WriteByte(' ')
		b.WriteString(value)
		b.WriteByte('\n')
	}
	return b.String()
}

func chartLabel(v any) any {
	switch x := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(x)
	default:
		return x
	}
}

func rowValue(row Row, col int) any {
	if col < 0 || col >= len(row) {
		return 0.0
	}
	return row[col]
}
