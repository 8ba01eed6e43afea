// Package attrs defines the catchment attribute data model shared by every
// extraction domain: named scalar values, per-domain status records,
// extraction results, and the flat output table.
package attrs

// Domain identifies one attribute extraction domain.
type Domain string

// Extraction domains, in canonical output order.
const (
	DomainTopography Domain = "topography"
	DomainClimate    Domain = "climate"
	DomainSoil       Domain = "soil"
	DomainVegetation Domain = "vegetation"
	DomainGeology    Domain = "geology"
	DomainHydrology  Domain = "hydrology"
)

// Domains returns all extraction domains in canonical order. The order is
// fixed because it determines attribute column ordering in the output table.
func Domains() []Domain {
	return []Domain{
		DomainTopography,
		DomainClimate,
		DomainSoil,
		DomainVegetation,
		DomainGeology,
		DomainHydrology,
	}
}

func (d Domain) String() string {
	return string(d)
}
