package interfaces

import "github.com/blueboyrocks/valcheck/internal/models"

// MultiplesLookup is a read-only industry multiples table, injected into the
// validators rather than reached as a global so tests can substitute their
// own tables.
type MultiplesLookup interface {
	// RangesFor returns the multiple ranges for a NAICS code. Lookup falls
	// back to shorter NAICS prefixes; ok is false when no row matches.
	RangesFor(naics string) (models.IndustryRanges, bool)

	// CeilingFactor returns the multiplier applied to a typical high to
	// derive the hard ceiling.
	CeilingFactor() float64

	// Codes returns the NAICS codes present in the table.
	Codes() []string
}
