package chocquery

// MinGroupRows is the smallest group an aggregate command reports.
const MinGroupRows = 5

type builder func(in *Intent) (*Descriptor, error)

var builders = map[Verb]builder{
	VerbBars:      buildBars,
	VerbCompanies: buildCompanies,
	VerbCountries: buildCountries,
	VerbRegions:   buildRegions,
}

// Build turns an intent into a query descriptor, applying the rules of its verb.
// It has no side effects; building the same intent twice yields equal descriptors.
func Build(in *Intent) (*Descriptor, error) {
	b, ok := builders[in.Verb]
	if !ok {
		return nil, parseError(ErrUnrecognizedCommand, in.Input, map[string]any{"verb": string(in.Verb)})
	}
	return b(in)
}

// buildBars lists individual bars. A per-row listing has no count to sort on.
func buildBars(in *Intent) (*Descriptor, error) {
	if in.Metric == MetricNumberOfBars {
		return nil, combinationError(in.Input, map[string]any{
			"verb":   string(in.Verb),
			"metric": string(in.Metric),
		})
	}
	return &Descriptor{
		Verb:   in.Verb,
		Metric: in.Metric,
		Columns: []Column{
			{Expr: colBarName, Label: "bar"},
			{Expr: colCompany, Label: "company"},
			{Expr: qualify(makerAlias, colEnglish), Label: "company_location"},
			{Expr: colRating, Label: "rating"},
			{Expr: colCocoa, Label: "cocoa_percent"},
			{Expr: qualify(beanAlias, colEnglish), Label: "bean_origin"},
		},
		Joins:     []Join{makerJoin, beanJoin},
		Filter:    originFilter(sideAlias(in.Axis), in.Origin),
		OrderBy:   barSortKey(in.Metric),
		Direction: in.Direction,
		Limit:     in.Limit,
	}, nil
}

// buildCompanies aggregates by maker. It is always maker-centric, so an
// explicit sell/source token contradicts it.
func buildCompanies(in *Intent) (*Descriptor, error) {
	if in.Explicit(SlotAxis) {
		return nil, combinationError(in.Input, map[string]any{
			"verb": string(in.Verb),
			"axis": string(in.Axis),
		})
	}
	agg := aggregateColumn(in.Metric)
	return &Descriptor{
		Verb:   in.Verb,
		Metric: in.Metric,
		Columns: []Column{
			{Expr: colCompany, Label: "company"},
			{Expr: qualify(makerAlias, colEnglish), Label: "company_location"},
			agg,
		},
		Joins:        []Join{makerJoin},
		Filter:       originFilter(makerAlias, in.Origin),
		GroupBy:      colCompany,
		MinGroupRows: MinGroupRows,
		OrderBy:      agg.As,
		Direction:    in.Direction,
		Limit:        in.Limit,
	}, nil
}

// buildCountries aggregates by country on the chosen axis. Only region
// filters make sense when grouping by country.
func buildCountries(in *Intent) (*Descriptor, error) {
	if in.Origin != nil && in.Origin.Scope == ScopeCountry {
		return nil, combinationError(in.Input, map[string]any{
			"verb":  string(in.Verb),
			"scope": string(in.Origin.Scope),
		})
	}
	side := sideAlias(in.Axis)
	agg := aggregateColumn(in.Metric)
	return &Descriptor{
		Verb:   in.Verb,
		Metric: in.Metric,
		Columns: []Column{
			{Expr: qualify(side, colEnglish), Label: "country"},
			{Expr: qualify(side, colRegion), Label: "region"},
			agg,
		},
		Joins:        []Join{makerJoin, beanJoin},
		Filter:       originFilter(side, in.Origin),
		GroupBy:      qualify(side, colEnglish),
		MinGroupRows: MinGroupRows,
		OrderBy:      agg.As,
		Direction:    in.Direction,
		Limit:        in.Limit,
	}, nil
}

// buildRegions aggregates by region on the chosen axis. It already groups at
// region granularity, so no origin filter is accepted.
func buildRegions(in *Intent) (*Descriptor, error) {
	if in.Origin != nil {
		return nil, combinationError(in.Input, map[string]any{
			"verb":  string(in.Verb),
			"scope": string(in.Origin.Scope),
		})
	}
	side := sideAlias(in.Axis)
	agg := aggregateColumn(in.Metric)
	return &Descriptor{
		Verb:   in.Verb,
		Metric: in.Metric,
		Columns: []Column{
			{Expr: qualify(side, colRegion), Label: "region"},
			agg,
		},
		Joins:        []Join{makerJoin, beanJoin},
		GroupBy:      qualify(side, colRegion),
		MinGroupRows: MinGroupRows,
		OrderBy:      agg.As,
		Direction:    in.Direction,
		Limit:        in.Limit,
	}, nil
}
