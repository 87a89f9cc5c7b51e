// Package variance compares a concluded valuation against one or more prior
// or external estimates to catch systemic calculation errors. The bands were
// calibrated after a concluded value of $4.1M landed 105% above a $2.0M
// third-party benchmark.
package variance

import (
	"fmt"
	"math"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/blueboyrocks/valcheck/internal/common"
	"github.com/blueboyrocks/valcheck/internal/models"
	"github.com/blueboyrocks/valcheck/internal/services/correction"
)

// Prior is one prior or external valuation to reconcile against.
type Prior struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Result is one prior comparison. Severity bands on the absolute relative
// variance: within the warning band is acceptable and needs no
// reconciliation; up to the critical band requires reconciliation but does
// not block; above it the variance is a blocking signal. A zero, negative,
// or missing prior is always CRITICAL.
type Result struct {
	Label                  string          `json:"label"`
	PriorValue             float64         `json:"prior_value"`
	ConcludedValue         float64         `json:"concluded_value"`
	VariancePct            float64         `json:"variance_pct"`
	Severity               models.Severity `json:"severity"`
	ReconciliationRequired bool            `json:"reconciliation_required"`
	Blocking               bool            `json:"blocking"`
	Message                string          `json:"message,omitempty"`
}

// Analyzer bands valuation variance against configured policy thresholds.
type Analyzer struct {
	policy common.PolicyConfig
	logger arbor.ILogger
}

// NewAnalyzer creates a variance analyzer.
func NewAnalyzer(logger arbor.ILogger, policy common.PolicyConfig) *Analyzer {
	return &Analyzer{
		policy: policy,
		logger: logger,
	}
}

// Compare bands the variance of the concluded value against one prior.
func (a *Analyzer) Compare(concluded float64, prior Prior) Result {
	result := Result{
		Label:          prior.Label,
		PriorValue:     prior.Value,
		ConcludedValue: concluded,
	}

	if prior.Value <= 0 {
		result.Severity = models.SeverityCritical
		result.ReconciliationRequired = true
		result.Blocking = true
		result.Message = fmt.Sprintf("prior valuation %q is zero, negative, or missing (%.2f); variance cannot be assessed", prior.Label, prior.Value)
		return result
	}

	result.VariancePct = (concluded - prior.Value) / prior.Value * 100
	magnitude := math.Abs(result.VariancePct)

	switch {
	case magnitude <= a.policy.VarianceWarningPct:
		result.Severity = models.SeverityInfo
		result.Message = fmt.Sprintf("variance %.1f%% against %q is within the acceptable band", result.VariancePct, prior.Label)
	case magnitude <= a.policy.VarianceCriticalPct:
		result.Severity = models.SeverityWarning
		result.ReconciliationRequired = true
		result.Message = fmt.Sprintf("variance %.1f%% against %q requires reconciliation", result.VariancePct, prior.Label)
	default:
		result.Severity = models.SeverityCritical
		result.ReconciliationRequired = true
		result.Blocking = true
		result.Message = fmt.Sprintf("variance %.1f%% against %q is a blocking signal", result.VariancePct, prior.Label)
		a.logger.Warn().
			Str("prior", prior.Label).
			Float64("variance_pct", result.VariancePct).
			Msg("Critical valuation variance")
	}

	return result
}

// CompareAll compares the concluded value against every prior.
func (a *Analyzer) CompareAll(concluded float64, priors []Prior) []Result {
	results := make([]Result, 0, len(priors))
	for _, prior := range priors {
		results = append(results, a.Compare(concluded, prior))
	}
	return results
}

// MaxSeverity returns the single most severe band across comparisons.
func MaxSeverity(results []Result) models.Severity {
	severity := models.SeverityInfo
	for _, result := range results {
		severity = models.MaxSeverity(severity, result.Severity)
	}
	return severity
}

// ReconciliationNarrative builds the human-readable reconciliation text for
// one comparison, embedding both values, the percentage variance, and any
// supplied qualitative factors.
func (a *Analyzer) ReconciliationNarrative(result Result, factors []string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "The concluded value of %s was compared against the %s estimate of %s, a variance of %.1f%%. ",
		correction.FormatCurrency(result.ConcludedValue), result.Label, correction.FormatCurrency(result.PriorValue), result.VariancePct)

	switch result.Severity {
	case models.SeverityInfo:
		b.WriteString("The variance falls within the acceptable band and no reconciliation is required.")
	case models.SeverityWarning:
		b.WriteString("The variance exceeds the acceptable band and has been reconciled below.")
	default:
		b.WriteString("The variance exceeds the critical band and must be reconciled before this report can be published.")
	}

	if len(factors) > 0 {
		b.WriteString(" Factors considered in the reconciliation: ")
		b.WriteString(strings.Join(factors, "; "))
		b.WriteString(".")
	}

	return b.String()
}
