package models

// MultipleRange is the low/median/high band for one benefit stream,
// drawn from industry transaction data.
type MultipleRange struct {
	Low    float64 `json:"low" toml:"low"`
	Median float64 `json:"median" toml:"median"`
	High   float64 `json:"high" toml:"high"`
}

// Ceiling returns the hard upper bound derived from the typical high.
// Multiples above the ceiling are rejected outright, not just flagged.
func (r MultipleRange) Ceiling(factor float64) float64 {
	return r.High * factor
}

// Contains reports whether a multiple sits inside the typical band.
func (r MultipleRange) Contains(multiple float64) bool {
	return multiple >= r.Low && multiple <= r.High
}

// IndustryRanges is one row of the industry multiples table.
type IndustryRanges struct {
	NAICS    string        `json:"naics" toml:"naics"`
	Name     string        `json:"name" toml:"name"`
	SDE      MultipleRange `json:"sde" toml:"sde"`
	EBITDA   MultipleRange `json:"ebitda" toml:"ebitda"`
	Revenue  MultipleRange `json:"revenue" toml:"revenue"`
	Keywords []string      `json:"keywords,omitempty" toml:"keywords"`
}
