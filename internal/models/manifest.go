package models

import "time"

// ManifestCheck is the consistency-check outcome recorded in a manifest.
type ManifestCheck struct {
	Passed bool    `json:"passed"`
	Issues []Issue `json:"issues,omitempty"`
}

// ReportManifest is a flat, serializable record of the critical values in a
// rendered report and where each value appears. It is stored alongside the
// report so a later automated pass can re-verify the rendered text against
// the numeric ground truth without recomputing the valuation.
type ReportManifest struct {
	ReportID string `json:"report_id" badgerhold:"key"`

	// CriticalValues maps a logical field name to its canonical numeric value.
	CriticalValues map[string]float64 `json:"critical_values"`

	// ValueAppearances maps a logical field name to the report sections its
	// value is expected to appear in.
	ValueAppearances map[string][]string `json:"value_appearances"`

	Consistency ManifestCheck `json:"consistency"`
	GeneratedAt time.Time     `json:"generated_at"`
}
