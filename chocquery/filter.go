package chocquery

// Table and column identifiers of the reviews dataset.
const (
	makerAlias = "C_companies" // Countries joined on the company's location
	beanAlias  = "C_beans"     // Countries joined on the bean's origin

	colBarName = "SpecificBeanBarName"
	colCompany = "Company"
	colRating  = "Rating"
	colCocoa   = "CocoaPercent"

	colAlpha2  = "Alpha2"
	colRegion  = "Region"
	colEnglish = "EnglishName"
)

var (
	makerJoin = Join{Alias: makerAlias, On: "CompanyLocationId"}
	beanJoin  = Join{Alias: beanAlias, On: "BroadBeanOriginId"}
)

// sideAlias returns the Countries alias an axis refers to.
func sideAlias(a Axis) string {
	if a == AxisSource {
		return beanAlias
	}
	return makerAlias
}

func qualify(alias, col string) string {
	return alias + "." + col
}

// originFilter maps an origin filter onto a column of the given Countries alias:
// country filters compare the two-letter code, region filters the region name.
// Returns nil when no filter was supplied.
func originFilter(alias string, o *OriginFilter) *Filter {
	if o == nil {
		return nil
	}
	col := colAlpha2
	if o.Scope == ScopeRegion {
		col = colRegion
	}
	return &Filter{Column: qualify(alias, col), Value: o.Value}
}
