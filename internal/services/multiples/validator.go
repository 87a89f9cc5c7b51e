// Package multiples validates selected valuation multiples against industry
// transaction ranges. A multiple above the industry hard ceiling is rejected
// outright, not merely flagged: a 4.4x multiple against a 3.5x typical high
// (4.2x ceiling) once inflated a $2.0M business to $4.1M because the check
// only warned.
package multiples

import (
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/blueboyrocks/valcheck/internal/common"
	"github.com/blueboyrocks/valcheck/internal/interfaces"
	"github.com/blueboyrocks/valcheck/internal/models"
)

// Result is the outcome of validating one multiple.
type Result struct {
	Valid     bool                  `json:"valid"`
	Severity  models.Severity       `json:"severity"`
	Message   string                `json:"message,omitempty"`
	Warnings  []string              `json:"warnings,omitempty"`
	Suggested *models.MultipleRange `json:"suggested,omitempty"`
}

// GrowthFactors feed the recommended-multiple adjustment.
type GrowthFactors struct {
	RevenueGrowthPct         float64
	CustomerConcentrationPct float64
	RiskScore                float64
}

// Validator checks multiples against the injected industry table.
type Validator struct {
	lookup interfaces.MultiplesLookup
	policy common.PolicyConfig
	logger arbor.ILogger
}

// NewValidator creates a multiple validator.
func NewValidator(logger arbor.ILogger, lookup interfaces.MultiplesLookup, policy common.PolicyConfig) *Validator {
	return &Validator{
		lookup: lookup,
		policy: policy,
		logger: logger,
	}
}

// ValidateSDEMultiple validates a selected SDE multiple for an industry.
//
// Rules, in order:
//   - a non-positive multiple is rejected;
//   - a multiple above the hard ceiling (typical high x ceiling factor) is
//     REJECTED with the suggested range returned;
//   - a multiple between the typical high and the ceiling is allowed with a
//     warning;
//   - any multiple above the median requires a justification of meaningful
//     length, else a warning.
func (v *Validator) ValidateSDEMultiple(naics string, multiple float64, justification string) Result {
	if multiple <= 0 {
		return Result{
			Valid:    false,
			Severity: models.SeverityCritical,
			Message:  fmt.Sprintf("multiple %.2fx is not positive", multiple),
		}
	}

	ranges, ok := v.lookup.RangesFor(naics)
	if !ok {
		return Result{
			Valid:    true,
			Severity: models.SeverityWarning,
			Warnings: []string{fmt.Sprintf("no industry data for NAICS %s; multiple %.2fx not range-checked", naics, multiple)},
		}
	}

	ceiling := ranges.SDE.Ceiling(v.lookup.CeilingFactor())
	if multiple > ceiling {
		v.logger.Warn().
			Str("naics", naics).
			Float64("multiple", multiple).
			Float64("ceiling", ceiling).
			Msg("Multiple rejected: above industry hard ceiling")
		suggested := ranges.SDE
		return Result{
			Valid:    false,
			Severity: models.SeverityCritical,
			Message: fmt.Sprintf("multiple %.2fx exceeds the %s hard ceiling of %.2fx (typical range %.2fx-%.2fx, median %.2fx)",
				multiple, ranges.Name, ceiling, ranges.SDE.Low, ranges.SDE.High, ranges.SDE.Median),
			Suggested: &suggested,
		}
	}

	result := Result{Valid: true, Severity: models.SeverityInfo}

	if multiple > ranges.SDE.High {
		result.Severity = models.SeverityWarning
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("multiple %.2fx is above the %s typical high of %.2fx (ceiling %.2fx)",
				multiple, ranges.Name, ranges.SDE.High, ceiling))
	}

	if multiple > ranges.SDE.Median && len(strings.TrimSpace(justification)) < v.policy.MinJustificationLen {
		result.Severity = models.MaxSeverity(result.Severity, models.SeverityWarning)
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("multiple %.2fx is above the median %.2fx without a meaningful justification (need at least %d characters)",
				multiple, ranges.SDE.Median, v.policy.MinJustificationLen))
	}

	return result
}

// RecommendedMultiple nudges the industry median up for revenue growth and
// low customer concentration and down for a high risk score, clamped to
// [low, ceiling]. Unknown industries get no recommendation.
func (v *Validator) RecommendedMultiple(naics string, factors GrowthFactors) (float64, bool) {
	ranges, ok := v.lookup.RangesFor(naics)
	if !ok {
		return 0, false
	}

	recommended := ranges.SDE.Median
	if factors.RevenueGrowthPct >= 10 {
		recommended += 0.25
	}
	if factors.RevenueGrowthPct >= 25 {
		recommended += 0.25
	}
	if factors.CustomerConcentrationPct > 0 && factors.CustomerConcentrationPct <= 15 {
		recommended += 0.25
	}
	if factors.RiskScore > 75 {
		recommended -= 0.5
	} else if factors.RiskScore > 50 {
		recommended -= 0.25
	}

	ceiling := ranges.SDE.Ceiling(v.lookup.CeilingFactor())
	if recommended < ranges.SDE.Low {
		recommended = ranges.SDE.Low
	}
	if recommended > ceiling {
		recommended = ceiling
	}

	return recommended, true
}
