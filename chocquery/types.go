package chocquery

import "context"

// Verb selects which aggregation shape a command queries.
type Verb string

const (
	VerbBars      Verb = "bars"
	VerbCompanies Verb = "companies"
	VerbCountries Verb = "countries"
	VerbRegions   Verb = "regions"
)

// Scope is the granularity of an origin filter.
type Scope string

const (
	ScopeCountry Scope = "country"
	ScopeRegion  Scope = "region"
)

// Axis chooses which side of the company/origin relationship
// filtering and grouping apply to.
type Axis string

const (
	AxisSell   Axis = "sell"   // the selling company's country
	AxisSource Axis = "source" // the bean's origin country
)

// Metric is the quantity aggregated or sorted on.
type Metric string

const (
	MetricRatings      Metric = "ratings"
	MetricCocoa        Metric = "cocoa"
	MetricNumberOfBars Metric = "number_of_bars"
)

// Direction is the sort order of the result.
type Direction string

const (
	Top    Direction = "top"    // descending
	Bottom Direction = "bottom" // ascending
)

// OriginFilter is an equality constraint on a country code or region name.
type OriginFilter struct {
	Scope Scope  `json:"scope"`
	Value string `json:"value"`
}

// Slot identifies one independently extracted part of a command.
type Slot int

const (
	SlotVerb Slot = iota
	SlotOrigin
	SlotAxis
	SlotMetric
	SlotDirection
	SlotLimit
	SlotPlot
	slotCount
)

// String returns the slot name used in error details and vocabulary listings.
func (s Slot) String() string {
	switch s {
	case SlotVerb:
		return "verb"
	case SlotOrigin:
		return "origin"
	case SlotAxis:
		return "axis"
	case SlotMetric:
		return "metric"
	case SlotDirection:
		return "direction"
	case SlotLimit:
		return "limit"
	case SlotPlot:
		return "plot"
	default:
		return "unknown"
	}
}

// DefaultLimit is the row cap used when a command names none.
const DefaultLimit = 10

// Row is a single result tuple as returned by an Executor.
// Fields are heterogeneous (text and numeric) and are not validated by the core.
type Row []any

// Executor runs a Descriptor against a data source and returns ordered rows.
// Implementations must bind filter values as parameters.
type Executor interface {
	Query(ctx context.Context, d *Descriptor) ([]Row, error)
}
