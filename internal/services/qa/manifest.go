package qa

import (
	"sort"
	"strings"
	"time"

	"github.com/blueboyrocks/valcheck/internal/models"
	"github.com/blueboyrocks/valcheck/internal/services/correction"
	"github.com/blueboyrocks/valcheck/internal/store"
)

// MissingAppearance is one value that a rendered report no longer states
// where the manifest expects it.
type MissingAppearance struct {
	Field   string `json:"field"`
	Section string `json:"section"`
}

// VerificationResult is the outcome of re-verifying rendered sections
// against a stored manifest.
type VerificationResult struct {
	ReportID string              `json:"report_id"`
	Passed   bool                `json:"passed"`
	Missing  []MissingAppearance `json:"missing,omitempty"`
}

// BuildManifest records the snapshot's critical values, scans the rendered
// sections for where each value appears, and captures the consistency-check
// outcome. The manifest supports later automated re-verification of the
// rendered report without recomputing the valuation.
func BuildManifest(reportID string, snapshot *store.Store, sections map[string]string, summary models.ManifestCheck) *models.ReportManifest {
	financial := snapshot.Financial()

	manifest := &models.ReportManifest{
		ReportID: reportID,
		CriticalValues: map[string]float64{
			"revenue":      financial.Revenue,
			"sde":          financial.SDE,
			"weighted_sde": financial.WeightedSDE,
			"ebitda":       financial.EBITDA,
			"net_income":   financial.NetIncome,
			"final_value":  snapshot.FinalValue(),
		},
		ValueAppearances: map[string][]string{},
		Consistency:      summary,
		GeneratedAt:      time.Now(),
	}

	names := make([]string, 0, len(sections))
	for name := range sections {
		names = append(names, name)
	}
	sort.Strings(names)

	for field, value := range manifest.CriticalValues {
		formatted := correction.FormatCurrency(value)
		for _, name := range names {
			if strings.Contains(sections[name], formatted) {
				manifest.ValueAppearances[field] = append(manifest.ValueAppearances[field], name)
			}
		}
	}

	return manifest
}

// VerifyManifest re-checks rendered sections against a manifest: every
// recorded appearance of a critical value must still state the canonical
// amount. No recomputation happens here.
func VerifyManifest(manifest *models.ReportManifest, sections map[string]string) VerificationResult {
	result := VerificationResult{ReportID: manifest.ReportID, Passed: true}

	fields := make([]string, 0, len(manifest.ValueAppearances))
	for field := range manifest.ValueAppearances {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	for _, field := range fields {
		formatted := correction.FormatCurrency(manifest.CriticalValues[field])
		for _, section := range manifest.ValueAppearances[field] {
			if !strings.Contains(sections[section], formatted) {
				result.Passed = false
				result.Missing = append(result.Missing, MissingAppearance{Field: field, Section: section})
			}
		}
	}

	return result
}
