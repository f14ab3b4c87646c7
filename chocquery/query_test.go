package chocquery

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
)

func mustCompile(t *testing.T, input string) *Descriptor {
	t.Helper()
	_, d, err := Compile(input)
	if err != nil {
		t.Fatalf("Compile(%q) unexpected error: %v", input, err)
	}
	return d
}

func TestBuild_InvalidCombinations(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "bars with count metric", input: "bars number_of_bars"},
		{name: "companies with explicit sell", input: "companies sell ratings top 5"},
		{name: "companies with explicit source", input: "companies source"},
		{name: "regions with country filter", input: "regions country=US"},
		{name: "regions with region filter", input: "regions region=Europe"},
		{name: "countries with country filter", input: "countries country=BR sell ratings top"},
		{name: "countries source with country filter", input: "countries source country=BR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			intent, d, err := Compile(tt.input)
			if err == nil {
				t.Fatalf("Compile(%q) expected error, got descriptor %+v", tt.input, d)
			}
			if intent == nil {
				t.Error("intent should be returned when only building fails")
			}
			if !errors.Is(err, InvalidCombination) {
				t.Errorf("expected INVALID_PARAMETER_COMBINATION, got %v (code %q)", err, CodeOf(err))
			}
			want := "Command not recognized (invalid selection of parameters): " + tt.input
			if err.Error() != want {
				t.Errorf("message = %q, want %q", err.Error(), want)
			}
		})
	}
}

func TestBuild_BarsOriginSource(t *testing.T) {
	d := mustCompile(t, "bars country=BR source ratings bottom 8")

	if d.Filter == nil || d.Filter.Column != "C_beans.Alpha2" || d.Filter.Value != "BR" {
		t.Errorf("Filter = %+v, want C_beans.Alpha2 = BR", d.Filter)
	}
	if d.OrderBy != "Rating" || d.Direction != Bottom || d.Limit != 8 {
		t.Errorf("order = %s %s limit %d", d.OrderBy, d.Direction, d.Limit)
	}
	if d.GroupBy != "" || d.MinGroupRows != 0 {
		t.Errorf("bars should not group: %q/%d", d.GroupBy, d.MinGroupRows)
	}

	sql, args := d.SQL()
	want := strings.Join([]string{
		"SELECT SpecificBeanBarName, Company, C_companies.EnglishName, Rating, CocoaPercent, C_beans.EnglishName",
		"FROM Bars B",
		"    JOIN Countries C_companies ON B.CompanyLocationId = C_companies.Id",
		"    JOIN Countries C_beans ON B.BroadBeanOriginId = C_beans.Id",
		"WHERE C_beans.Alpha2 = ?",
		"ORDER BY Rating ASC",
		"LIMIT 8",
	}, "\n")
	if sql != want {
		t.Errorf("SQL mismatch:\ngot:\n%s\nwant:\n%s", sql, want)
	}
	if !reflect.DeepEqual(args, []any{"BR"}) {
		t.Errorf("args = %v, want [BR]", args)
	}
}

func TestBuild_BarsFilterColumns(t *testing.T) {
	tests := []struct {
		input   string
		wantCol string
		wantKey string
	}{
		{input: "bars country=US", wantCol: "C_companies.Alpha2", wantKey: "Rating"},
		{input: "bars region=Europe", wantCol: "C_companies.Region", wantKey: "Rating"},
		{input: "bars source region=Africa cocoa", wantCol: "C_beans.Region", wantKey: "CocoaPercent"},
		{input: "bars sell country=FR cocoa", wantCol: "C_companies.Alpha2", wantKey: "CocoaPercent"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			d := mustCompile(t, tt.input)
			if d.Filter == nil || d.Filter.Column != tt.wantCol {
				t.Errorf("Filter = %+v, want column %s", d.Filter, tt.wantCol)
			}
			if d.OrderBy != tt.wantKey {
				t.Errorf("OrderBy = %s, want %s", d.OrderBy, tt.wantKey)
			}
			if d.Direction.SQL() != "DESC" {
				t.Errorf("default direction should be DESC, got %s", d.Direction.SQL())
			}
		})
	}
}

func TestBuild_CompaniesRegionCount(t *testing.T) {
	d := mustCompile(t, "companies region=Europe number_of_bars 12")

	sql, args := d.SQL()
	want := strings.Join([]string{
		"SELECT Company, C_companies.EnglishName, COUNT(SpecificBeanBarName) AS B_CNT",
		"FROM Bars B",
		"    JOIN Countries C_companies ON B.CompanyLocationId = C_companies.Id",
		"WHERE C_companies.Region = ?",
		"GROUP BY Company",
		"HAVING COUNT(SpecificBeanBarName) > 4",
		"ORDER BY B_CNT DESC",
		"LIMIT 12",
	}, "\n")
	if sql != want {
		t.Errorf("SQL mismatch:\ngot:\n%s\nwant:\n%s", sql, want)
	}
	if !reflect.DeepEqual(args, []any{"Europe"}) {
		t.Errorf("args = %v", args)
	}
}

func TestBuild_CompaniesCountryFilterIsMakerSide(t *testing.T) {
	d := mustCompile(t, "companies country=BE cocoa bottom")
	if d.Filter.Column != "C_companies.Alpha2" {
		t.Errorf("Filter column = %s", d.Filter.Column)
	}
	if d.OrderBy != "CP_AVG" || d.Direction != Bottom {
		t.Errorf("order = %s %s", d.OrderBy, d.Direction)
	}
}

func TestBuild_Countries(t *testing.T) {
	tests := []struct {
		input     string
		wantGroup string
		wantCols  []string
		wantWhere string
		wantOrder string
	}{
		{
			input:     "countries",
			wantGroup: "C_companies.EnglishName",
			wantCols:  []string{"C_companies.EnglishName", "C_companies.Region", "AVG(Rating)"},
			wantOrder: "R_AVG",
		},
		{
			input:     "countries source region=Asia cocoa",
			wantGroup: "C_beans.EnglishName",
			wantCols:  []string{"C_beans.EnglishName", "C_beans.Region", "AVG(CocoaPercent)"},
			wantWhere: "C_beans.Region",
			wantOrder: "CP_AVG",
		},
		{
			input:     "countries sell region=Europe number_of_bars",
			wantGroup: "C_companies.EnglishName",
			wantCols:  []string{"C_companies.EnglishName", "C_companies.Region", "COUNT(SpecificBeanBarName)"},
			wantWhere: "C_companies.Region",
			wantOrder: "B_CNT",
		},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			d := mustCompile(t, tt.input)
			if d.GroupBy != tt.wantGroup {
				t.Errorf("GroupBy = %s, want %s", d.GroupBy, tt.wantGroup)
			}
			var cols []string
			for _, c := range d.Columns {
				cols = append(cols, c.Expr)
			}
			if !reflect.DeepEqual(cols, tt.wantCols) {
				t.Errorf("columns = %v, want %v", cols, tt.wantCols)
			}
			gotWhere := ""
			if d.Filter != nil {
				gotWhere = d.Filter.Column
			}
			if gotWhere != tt.wantWhere {
				t.Errorf("filter = %q, want %q", gotWhere, tt.wantWhere)
			}
			if d.OrderBy != tt.wantOrder {
				t.Errorf("OrderBy = %s, want %s", d.OrderBy, tt.wantOrder)
			}
			if d.MinGroupRows != MinGroupRows {
				t.Errorf("MinGroupRows = %d", d.MinGroupRows)
			}
			if len(d.Joins) != 2 {
				t.Errorf("countries should join both country tables, got %v", d.Joins)
			}
		})
	}
}

func TestBuild_Regions(t *testing.T) {
	d := mustCompile(t, "regions source number_of_bars bottom 3 barplot")
	sql, args := d.SQL()
	want := strings.Join([]string{
		"SELECT C_beans.Region, COUNT(SpecificBeanBarName) AS B_CNT",
		"FROM Bars B",
		"    JOIN Countries C_companies ON B.CompanyLocationId = C_companies.Id",
		"    JOIN Countries C_beans ON B.BroadBeanOriginId = C_beans.Id",
		"GROUP BY C_beans.Region",
		"HAVING COUNT(SpecificBeanBarName) > 4",
		"ORDER BY B_CNT ASC",
		"LIMIT 3",
	}, "\n")
	if sql != want {
		t.Errorf("SQL mismatch:\ngot:\n%s\nwant:\n%s", sql, want)
	}
	if len(args) != 0 {
		t.Errorf("regions should bind no args, got %v", args)
	}
	if got := d.Labels(); !reflect.DeepEqual(got, []string{"region", "number_of_bars"}) {
		t.Errorf("Labels = %v", got)
	}
}

func TestBuild_Idempotent(t *testing.T) {
	inputs := []string{
		"bars country=BR source ratings bottom 8",
		"companies region=Europe number_of_bars 12",
		"countries source cocoa",
		"regions",
	}
	for _, input := range inputs {
		in, err := Parse(input)
		if err != nil {
			t.Fatalf("Parse(%q): %v", input, err)
		}
		a, errA := Build(in)
		b, errB := Build(in)
		if errA != nil || errB != nil {
			t.Fatalf("Build(%q): %v / %v", input, errA, errB)
		}
		if !reflect.DeepEqual(a, b) {
			t.Errorf("Build(%q) not idempotent:\n%+v\n%+v", input, a, b)
		}
		sqlA, argsA := a.SQL()
		sqlB, argsB := b.SQL()
		if sqlA != sqlB || !reflect.DeepEqual(argsA, argsB) {
			t.Errorf("SQL(%q) not idempotent", input)
		}
	}
}

func TestDescriptor_FilterValueIsBound(t *testing.T) {
	d := mustCompile(t, "bars country=x';DROP")
	sql, args := d.SQL()
	if strings.Contains(sql, "DROP") {
		t.Errorf("filter value leaked into SQL text:\n%s", sql)
	}
	if !reflect.DeepEqual(args, []any{"x';DROP"}) {
		t.Errorf("args = %v", args)
	}
}

func TestBuild_UnknownVerb(t *testing.T) {
	_, err := Build(&Intent{Verb: "candy", Input: "candy"})
	if CodeOf(err) != ErrUnrecognizedCommand {
		t.Errorf("expected UNRECOGNIZED_COMMAND, got %v", err)
	}
}

// --- Run ---

type stubExecutor struct {
	rows []Row
	err  error
	got  *Descriptor
}

func (s *stubExecutor) Query(_ context.Context, d *Descriptor) ([]Row, error) {
	s.got = d
	return s.rows, s.err
}

func TestRun(t *testing.T) {
	exec := &stubExecutor{rows: []Row{
		{"Europe", 3.3},
		{"Asia", 3.1},
		{"Africa", 3.0},
	}}
	res, err := Run(context.Background(), exec, "regions 2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if exec.got == nil || exec.got.Verb != VerbRegions {
		t.Fatalf("executor received %+v", exec.got)
	}
	if len(res.Rows) != 2 {
		t.Errorf("rows should be capped at limit 2, got %d", len(res.Rows))
	}
	if res.Intent.Limit != 2 {
		t.Errorf("intent limit = %d", res.Intent.Limit)
	}
}

func TestRun_Errors(t *testing.T) {
	exec := &stubExecutor{}
	if _, err := Run(context.Background(), exec, "bars bars"); !errors.Is(err, AmbiguousSlot) {
		t.Errorf("expected AMBIGUOUS_SLOT, got %v", err)
	}
	if exec.got != nil {
		t.Error("executor must not run for an invalid command")
	}

	boom := errors.New("disk on fire")
	exec = &stubExecutor{err: boom}
	_, err := Run(context.Background(), exec, "bars")
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped executor error, got %v", err)
	}
}

func TestRun_NilRows(t *testing.T) {
	res, err := Run(context.Background(), &stubExecutor{}, "companies")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Rows == nil || len(res.Rows) != 0 {
		t.Errorf("expected empty non-nil rows, got %#v", res.Rows)
	}
}

func TestLimitRows(t *testing.T) {
	rows := []Row{{1}, {2}, {3}}
	tests := []struct {
		limit int
		want  int
	}{
		{limit: 0, want: 0},
		{limit: 2, want: 2},
		{limit: 3, want: 3},
		{limit: 10, want: 3},
		{limit: -1, want: 3},
	}
	for _, tt := range tests {
		if got := LimitRows(rows, tt.limit); len(got) != tt.want {
			t.Errorf("LimitRows(limit=%d) len = %d, want %d", tt.limit, len(got), tt.want)
		}
	}
}

func TestParseLimit(t *testing.T) {
	if v, err := ParseLimit("42"); err != nil || v != 42 {
		t.Errorf("ParseLimit(42) = %d, %v", v, err)
	}
	if _, err := ParseLimit(""); err == nil {
		t.Error("ParseLimit(\"\") should fail")
	}
	if _, err := ParseLimit("-3"); err == nil {
		t.Error("ParseLimit(-3) should fail")
	}
}
