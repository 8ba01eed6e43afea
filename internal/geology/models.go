// Package geology extracts geological attributes for a watershed from the
// GLiM lithology map and GLHYMPS subsurface properties. The backing data
// source is optional: when it is unavailable the domain reports documented
// defaults with a skipped status instead of failing.
package geology

import "github.com/galib9690/camels-attrs/internal/attrs"

// Attribute keys produced by this domain, in output order.
const (
	KeyFirstClass      = "geol_1st_class"
	KeyFirstClassFrac  = "glim_1st_class_frac"
	KeySecondClass     = "geol_2nd_class"
	KeySecondClassFrac = "glim_2nd_class_frac"
	KeyCarbonateFrac   = "carbonate_rocks_frac"
	KeyPorosity        = "geol_porosity"
	KeyPermeability    = "geol_permeability"
)

// Keys returns the domain's fixed key set in output order.
func Keys() []string {
	return []string{
		KeyFirstClass, KeyFirstClassFrac,
		KeySecondClass, KeySecondClassFrac,
		KeyCarbonateFrac, KeyPorosity, KeyPermeability,
	}
}

// Documented fallback values. Classes are GLiM lithology codes, porosity a
// fraction, permeability log10(m²).
const (
	DefaultFirstClass      = "ss"
	DefaultFirstClassFrac  = 0.5
	DefaultSecondClass     = "mt"
	DefaultSecondClassFrac = 0.3
	DefaultCarbonateFrac   = 0.1
	DefaultPorosity        = 0.1
	DefaultPermeability    = -14.0
)

// Defaults returns the documented fallback set used when the lithology
// source is unavailable or unreachable.
func Defaults() *attrs.Set {
	s := attrs.NewSet()
	s.PutText(KeyFirstClass, DefaultFirstClass)
	s.PutNumber(KeyFirstClassFrac, DefaultFirstClassFrac)
	s.PutText(KeySecondClass, DefaultSecondClass)
	s.PutNumber(KeySecondClassFrac, DefaultSecondClassFrac)
	s.PutNumber(KeyCarbonateFrac, DefaultCarbonateFrac)
	s.PutNumber(KeyPorosity, DefaultPorosity)
	s.PutNumber(KeyPermeability, DefaultPermeability)
	return s
}

// carbonateClass is the GLiM code for carbonate sedimentary rocks.
const carbonateClass = "sc"

// ClassShare is one lithology class and its areal fraction of the basin.
type ClassShare struct {
	Code string
	Frac float64
}

// Composition holds basin lithology shares (descending by fraction) and
// mean subsurface properties.
type Composition struct {
	Classes      []ClassShare
	Porosity     float64
	Permeability float64
}
