package chocquery

// SQL returns the ORDER BY keyword for the direction.
func (d Direction) SQL() string {
	if d == Bottom {
		return "ASC"
	}
	return "DESC"
}

// aggregateColumn returns the aggregate expression for a metric.
// Its alias doubles as the sort key.
func aggregateColumn(m Metric) Column {
	switch m {
	case MetricCocoa:
		return Column{Expr: "AVG(" + colCocoa + ")", As: "CP_AVG", Label: "avg_cocoa"}
	case MetricNumberOfBars:
		return Column{Expr: "COUNT(" + colBarName + ")", As: "B_CNT", Label: "number_of_bars"}
	default:
		return Column{Expr: "AVG(" + colRating + ")", As: "R_AVG", Label: "avg_rating"}
	}
}

// barSortKey returns the per-row column a bars listing sorts on.
func barSortKey(m Metric) string {
	if m == MetricCocoa {
		return colCocoa
	}
	return colRating
}
