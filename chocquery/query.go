package chocquery

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Column is one selected expression. As is the SQL alias (aggregates only);
// Label names the column for headers and JSON output.
type Column struct {
	Expr  string `json:"expr"`
	As    string `json:"as,omitempty"`
	Label string `json:"label"`
}

// Join attaches the Countries table under Alias, keyed by a Bars column.
type Join struct {
	Alias string `json:"alias"`
	On    string `json:"on"` // Bars column holding the country id
}

// Filter is an equality constraint. Value is always sent as a bound parameter.
type Filter struct {
	Column string `json:"column"`
	Value  string `json:"value"`
}

// Descriptor is the structured query built from an Intent.
// It is immutable once built and rendered with SQL.
type Descriptor struct {
	Verb         Verb      `json:"verb"`
	Metric       Metric    `json:"metric"`
	Columns      []Column  `json:"columns"`
	Joins        []Join    `json:"joins"`
	Filter       *Filter   `json:"filter,omitempty"`
	GroupBy      string    `json:"groupBy,omitempty"`
	MinGroupRows int       `json:"minGroupRows,omitempty"` // groups with fewer rows are dropped
	OrderBy      string    `json:"orderBy"`
	Direction    Direction `json:"direction"`
	Limit        int       `json:"limit"`
}

// Labels returns the column labels in select order.
func (d *Descriptor) Labels() []string {
	out := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		out[i] = c.Label
	}
	return out
}

// SQL renders the descriptor as a SQLite statement and its bound arguments.
// Only fixed identifiers from the builders are interpolated; the filter value
// always travels as a '?' parameter.
func (d *Descriptor) SQL() (string, []any) {
	var b strings.Builder
	var args []any

	b.WriteString("SELECT ")
	for i, c := range d.Columns {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(c.Expr)
		if c.As != "" {
			b.WriteString(" AS ")
			b.WriteString(c.As)
		}
	}

	b.WriteString("\nFROM Bars B")
	for _, j := range d.Joins {
		fmt.Fprintf(&b, "\n    JOIN Countries %s ON B.%s = %s.Id", j.Alias, j.On, j.Alias)
	}

	if d.Filter != nil {
		b.WriteString("\nWHERE ")
		b.WriteString(d.Filter.Column)
		b.WriteString(" = ?")
		args = append(args, d.Filter.Value)
	}

	if d.GroupBy != "" {
		b.WriteString("\nGROUP BY ")
		b.WriteString(d.GroupBy)
		if d.MinGroupRows > 0 {
			fmt.Fprintf(&b, "\nHAVING COUNT(%s) > %d", colBarName, d.MinGroupRows-1)
		}
	}

	b.WriteString("\nORDER BY ")
	b.WriteString(d.OrderBy)
	b.WriteByte(' ')
	b.WriteString(d.Direction.SQL())

	b.WriteString("\nLIMIT ")
	b.WriteString(strconv.Itoa(d.Limit))

	return b.String(), args
}

// Compile parses input and builds its descriptor.
func Compile(input string) (*Intent, *Descriptor, error) {
	intent, err := Parse(input)
	if err != nil {
		return nil, nil, err
	}
	d, err := Build(intent)
	if err != nil {
		return intent, nil, err
	}
	return intent, d, nil
}

// Result bundles everything produced by one command.
type Result struct {
	Intent     *Intent     `json:"intent"`
	Descriptor *Descriptor `json:"descriptor"`
	Rows       []Row       `json:"rows"`
}

// Run compiles input and executes it with exec. Rows are capped at the
// intent's limit even if the executor returns more.
func Run(ctx context.Context, exec Executor, input string) (*Result, error) {
	intent, d, err := Compile(input)
	if err != nil {
		return nil, err
	}
	rows, err := exec.Query(ctx, d)
	if err != nil {
		return nil, fmt.Errorf("execute %q: %w", input, err)
	}
	if rows == nil {
		rows = []Row{}
	}
	return &Result{
		Intent:     intent,
		Descriptor: d,
		Rows:       LimitRows(rows, d.Limit),
	}, nil
}
