package chocquery

import "sort"

// SlotInfo describes what a slot accepts, for help and introspection output.
type SlotInfo struct {
	Slot       string   `json:"slot"`
	Words      []string `json:"words,omitempty"`
	Pattern    string   `json:"pattern,omitempty"`
	Default    string   `json:"default,omitempty"`
	Constraint string   `json:"constraint,omitempty"`
}

// Vocabulary returns the full command contract in slot extraction order.
// Word lists are sorted for deterministic output.
func Vocabulary() []SlotInfo {
	return []SlotInfo{
		{Slot: SlotVerb.String(), Words: sortedWords(verbWords), Default: string(VerbBars), Constraint: "must be the first token"},
		{Slot: SlotOrigin.String(), Pattern: originPattern.String(), Constraint: "country=<alpha2> or region=<name>"},
		{Slot: SlotAxis.String(), Words: sortedWords(axisWords), Default: string(AxisSell), Constraint: "not allowed with companies"},
		{Slot: SlotMetric.String(), Words: sortedWords(metricWords), Default: string(MetricRatings), Constraint: "number_of_bars not allowed with bars"},
		{Slot: SlotDirection.String(), Words: sortedWords(directionWords), Default: string(Top)},
		{Slot: SlotLimit.String(), Pattern: limitPattern.String(), Default: "10"},
		{Slot: SlotPlot.String(), Words: sortedWords(plotWords), Constraint: "must be the last token"},
	}
}

// VerbRules lists the origin filters each verb accepts.
func VerbRules() map[string][]string {
	return map[string][]string{
		string(VerbBars):      {string(ScopeCountry), string(ScopeRegion)},
		string(VerbCompanies): {string(ScopeCountry), string(ScopeRegion)},
		string(VerbCountries): {string(ScopeRegion)},
		string(VerbRegions):   {},
	}
}

func sortedWords(set map[string]bool) []string {
	words := make([]string, 0, len(set))
	for w := range set {
		words = append(words, w)
	}
	sort.Strings(words)
	return words
}
