package chocquery

import (
	"strings"
	"testing"
)

func TestChartColumn(t *testing.T) {
	tests := []struct {
		verb   Verb
		metric Metric
		width  int
		want   int
	}{
		{verb: VerbBars, metric: MetricRatings, width: 6, want: 3},
		{verb: VerbBars, metric: MetricCocoa, width: 6, want: 4},
		{verb: VerbCompanies, metric: MetricRatings, width: 3, want: 2},
		{verb: VerbCountries, metric: MetricNumberOfBars, width: 3, want: 2},
		{verb: VerbRegions, metric: MetricCocoa, width: 2, want: 1},
	}
	for _, tt := range tests {
		if got := ChartColumn(tt.verb, tt.metric, tt.width); got != tt.want {
			t.Errorf("ChartColumn(%s, %s, %d) = %d, want %d", tt.verb, tt.metric, tt.width, got, tt.want)
		}
	}
}

func TestRenderChart(t *testing.T) {
	d := mustCompile(t, "regions number_of_bars barplot")
	rows := []Row{
		{"Europe", int64(40)},
		{"Asia", int64(20)},
		{"Oceania", int64(0)},
	}
	out := RenderChart(rows, d, ChartOptions{Width: 40, LabelSize: 12})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d:\n%s", len(lines), out)
	}

	// 40 - 12 label - 8 value - 2 = 18 cells for the longest bar.
	if got := strings.Count(lines[0], "█"); got != 18 {
		t.Errorf("longest bar = %d cells, want 18", got)
	}
	if got := strings.Count(lines[1], "█"); got != 9 {
		t.Errorf("half bar = %d cells, want 9", got)
	}
	if strings.Contains(lines[2], "█") {
		t.Errorf("zero value should draw no bar: %q", lines[2])
	}
	if !strings.HasPrefix(lines[0], "Europe      ") || !strings.HasSuffix(lines[0], " 40") {
		t.Errorf("line 0 = %q", lines[0])
	}
	if !strings.HasPrefix(lines[2], "Oceania     ") {
		t.Errorf("line 2 = %q", lines[2])
	}
}

func TestRenderChart_BarsUsesRating(t *testing.T) {
	d := mustCompile(t, "bars barplot")
	rows := []Row{
		{"Chuao", "Amedei", "Italy", 5.0, 0.7, "Venezuela"},
		{"Toscano", "Amedei", "Italy", 2.5, 0.9, "Ghana"},
	}
	out := RenderChart(rows, d, ChartOptions{Width: 40})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if !strings.HasSuffix(lines[0], " 5.0") || !strings.HasSuffix(lines[1], " 2.5") {
		t.Errorf("chart should plot the rating column:\n%s", out)
	}
	if a, b := strings.Count(lines[0], "█"), strings.Count(lines[1], "█"); a != 2*b {
		t.Errorf("bar lengths %d and %d should be proportional to 5.0 and 2.5", a, b)
	}
}

func TestRenderChart_Empty(t *testing.T) {
	d := mustCompile(t, "regions")
	if out := RenderChart(nil, d, ChartOptions{}); out != "" {
		t.Errorf("expected empty chart, got %q", out)
	}
}
