package chocquery

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

// OutputMode selects how result rows are serialized.
type OutputMode int

const (
	// Table is the fixed-width layout used by the interactive prompt.
	Table OutputMode = iota
	// Compact is a CSV-style table with a header row of column labels.
	Compact
	// JSON is an array of objects keyed by column label.
	JSON
)

// ParseOutputMode converts a flag or config value to an OutputMode.
func ParseOutputMode(s string) (OutputMode, error) {
	switch strings.ToLower(s) {
	case "", "table":
		return Table, nil
	case "compact", "csv":
		return Compact, nil
	case "json":
		return JSON, nil
	default:
		return 0, fmt.Errorf("unknown format %q: use \"table\", \"compact\" or \"json\"", s)
	}
}

// FormatOptions tunes table output.
type FormatOptions struct {
	// TextWidth is the longest text value shown before truncating with "...".
	// Zero means DefaultTextWidth.
	TextWidth int
}

const (
	DefaultTextWidth = 12
	numericWidth     = 7
)

// Bars rows carry rating and cocoa percentage at fixed positions.
const (
	barsRatingColumn = 3
	barsCocoaColumn  = 4
)

// FormatRows renders rows produced for d in the given mode.
func FormatRows(rows []Row, d *Descriptor, mode OutputMode, opts FormatOptions) ([]byte, error) {
	switch mode {
	case Compact:
		return formatCompact(rows, d.Labels()), nil
	case JSON:
		return formatJSON(rows, d.Labels())
	default:
		return formatTable(rows, d.Verb, opts), nil
	}
}

// formatTable pads text to TextWidth+4 and numbers to a fixed width. In bars
// listings the rating has one decimal and the cocoa fraction prints as a
// whole percentage.
func formatTable(rows []Row, verb Verb, opts FormatOptions) []byte {
	textLen := opts.TextWidth
	if textLen <= 0 {
		textLen = DefaultTextWidth
	}
	textWidth := textLen + 4

	var b strings.Builder
	for _, row := range rows {
		for i, v := range row {
			switch val := v.(type) {
			case nil:
				b.WriteString(runewidth.FillRight("", textWidth))
			case string:
				b.WriteString(runewidth.FillRight(truncateText(val, textLen), textWidth))
			case []byte:
				b.WriteString(runewidth.FillRight(truncateText(string(val), textLen), textWidth))
			default:
				b.WriteString(runewidth.FillRight(formatNumber(val, i, verb), numericWidth))
			}
		}
		b.WriteByte('\n')
	}
	return []byte(b.String())
}

func truncateText(s string, max int) string {
	if runewidth.StringWidth(s) <= max {
		return s
	}
	return runewidth.Truncate(s, max, "") + "..."
}

func formatNumber(v any, col int, verb Verb) string {
	f, isFloat := toFloat(v)
	if verb == VerbBars {
		switch col {
		case barsRatingColumn:
			return fmt.Sprintf("%.1f", f)
		case barsCocoaColumn:
			return fmt.Sprintf("%.0f%%", f*100)
		}
	}
	if isFloat {
		return fmt.Sprintf("%.1f", f)
	}
	return fmt.Sprintf("%v", v)
}

// toFloat widens a numeric driver value. The bool reports whether the
// value was a floating-point type.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int64:
		return float64(n), false
	case int:
		return float64(n), false
	case int32:
		return float64(n), false
	default:
		return 0, false
	}
}

// formatCompact formats rows as a CSV-style table.
func formatCompact(rows []Row, labels []string) []byte {
	var b strings.Builder
	b.WriteString(strings.Join(labels, ","))
	b.WriteByte('\n')
	for _, row := range rows {
		for i, v := range row {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(escapeCSV(v))
		}
		b.WriteByte('\n')
	}
	return []byte(b.String())
}

func formatJSON(rows []Row, labels []string) ([]byte, error) {
	out := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		m := make(map[string]any, len(row))
		for i, v := range row {
			key := fmt.Sprintf("col%d", i)
			if i < len(labels) {
				key = labels[i]
			}
			if bs, ok := v.([]byte); ok {
				v = string(bs)
			}
			m[key] = v
		}
		out = append(out, m)
	}
	return json.Marshal(out)
}

// escapeCSV converts a value to a string suitable for a CSV cell.
// Nil values become empty string. Values containing commas, quotes,
// or newlines are wrapped in double quotes with internal quotes doubled.
func escapeCSV(val any) string {
	if val == nil {
		return ""
	}
	var s string
	switch v := val.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		s = fmt.Sprintf("%v", v)
	}
	if strings.ContainsAny(s, ",\"\n\r") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}
