// Package validation implements the Layer 1 deterministic checks: pure,
// side-effect-free rules over the frozen valuation snapshot. No AI, no
// randomness, no I/O; identical inputs always produce identical findings.
package validation

import (
	"fmt"
	"math"
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"

	"github.com/blueboyrocks/valcheck/internal/common"
	"github.com/blueboyrocks/valcheck/internal/interfaces"
	"github.com/blueboyrocks/valcheck/internal/models"
	"github.com/blueboyrocks/valcheck/internal/services/industry"
	"github.com/blueboyrocks/valcheck/internal/store"
)

// Summary aggregates a full Layer 1 run. Score starts at 100 and loses 25
// per critical, 10 per error, and 2 per warning, floored at zero. The run
// passes only with zero criticals and zero errors; warnings never fail it.
type Summary struct {
	Results       []models.ValidationResult `json:"results"`
	Issues        []models.Issue            `json:"issues"`
	Score         float64                   `json:"score"`
	CriticalCount int                       `json:"critical_count"`
	ErrorCount    int                       `json:"error_count"`
	WarningCount  int                       `json:"warning_count"`
	OverallPassed bool                      `json:"overall_passed"`
}

// Engine runs the deterministic rule checks. The lookup and lock are
// optional; industry-aware bounds are skipped without them.
type Engine struct {
	store    *store.Store
	lookup   interfaces.MultiplesLookup
	lock     *industry.Lock
	policy   common.PolicyConfig
	logger   arbor.ILogger
	validate *validator.Validate
}

// NewEngine creates a Layer 1 validation engine over a snapshot.
func NewEngine(logger arbor.ILogger, snapshot *store.Store, lookup interfaces.MultiplesLookup, lock *industry.Lock, policy common.PolicyConfig) *Engine {
	return &Engine{
		store:    snapshot,
		lookup:   lookup,
		lock:     lock,
		policy:   policy,
		logger:   logger,
		validate: validator.New(),
	}
}

// ValidateDataConsistency checks the base sanity of the financial section:
// missing revenue is CRITICAL, missing SDE against positive revenue is ERROR.
func (e *Engine) ValidateDataConsistency() models.ValidationResult {
	result := models.ValidationResult{Check: "data_consistency", Passed: true}
	financial := e.store.Financial()

	if financial.Revenue <= 0 {
		result.Passed = false
		result.Issues = append(result.Issues, models.Issue{
			Category: "data_consistency",
			Severity: models.SeverityCritical,
			Field:    "financial.revenue",
			Message:  "revenue must be positive",
			Actual:   financial.Revenue,
		})
	}

	if financial.Revenue > 0 && financial.SDE <= 0 {
		result.Passed = false
		result.Issues = append(result.Issues, models.Issue{
			Category: "data_consistency",
			Severity: models.SeverityError,
			Field:    "financial.sde",
			Message:  "SDE must be positive when revenue is positive",
			Actual:   financial.SDE,
		})
	}

	return result
}

// ValidateCrossSection compares each named section's reported value of a
// logical field against the snapshot's expected value, catching narrative
// sections that restate a different revenue or SDE than the ground truth.
func (e *Engine) ValidateCrossSection(sectionValues map[string]float64, field string, expected float64) models.ValidationResult {
	result := models.ValidationResult{Check: "cross_section:" + field, Passed: true}

	sections := make([]string, 0, len(sectionValues))
	for section := range sectionValues {
		sections = append(sections, section)
	}
	sort.Strings(sections)

	for _, section := range sections {
		actual := sectionValues[section]
		if WithinTolerance(actual, expected, e.policy.RelativeTolerance) {
			continue
		}
		result.Passed = false
		result.Issues = append(result.Issues, models.Issue{
			Category: "cross_section",
			Severity: models.SeverityError,
			Field:    field,
			Message:  fmt.Sprintf("section %q reports %s = %.2f, snapshot value is %.2f", section, field, actual, expected),
			Expected: expected,
			Actual:   actual,
		})
	}

	return result
}

// VerifySDECalculation checks the SDE buildup: SDE below net income is an
// ERROR (SDE only adds back expense items), SDE above revenue is a WARNING.
func (e *Engine) VerifySDECalculation() models.ValidationResult {
	result := models.ValidationResult{Check: "sde_calculation", Passed: true}
	financial := e.store.Financial()

	if financial.SDE < financial.NetIncome {
		result.Passed = false
		result.Issues = append(result.Issues, models.Issue{
			Category: "calculation",
			Severity: models.SeverityError,
			Field:    "financial.sde",
			Message:  fmt.Sprintf("SDE %.2f is below net income %.2f; add-backs cannot be negative", financial.SDE, financial.NetIncome),
			Expected: financial.NetIncome,
			Actual:   financial.SDE,
		})
	}

	if financial.SDE > financial.Revenue {
		result.Issues = append(result.Issues, models.Issue{
			Category: "calculation",
			Severity: models.SeverityWarning,
			Field:    "financial.sde",
			Message:  fmt.Sprintf("SDE %.2f exceeds revenue %.2f", financial.SDE, financial.Revenue),
			Actual:   financial.SDE,
		})
	}

	return result
}

// VerifyWeightedAverage recomputes the 3/2/1 weighted SDE and EBITDA from
// the per-year series and flags stored values off by more than the relative
// tolerance.
func (e *Engine) VerifyWeightedAverage() models.ValidationResult {
	result := models.ValidationResult{Check: "weighted_average", Passed: true}
	financial := e.store.Financial()

	e.verifyWeighted(&result, "financial.weighted_sde", financial.WeightedSDE, financial.SDEByYear)
	e.verifyWeighted(&result, "financial.weighted_ebitda", financial.WeightedEBITDA, financial.EBITDAByYear)

	return result
}

func (e *Engine) verifyWeighted(result *models.ValidationResult, field string, stored float64, years []models.YearValue) {
	if len(years) == 0 {
		return
	}

	values := make([]float64, len(years))
	for i, year := range years {
		values[i] = year.Value
	}
	expected := WeightedAverage(values)

	if WithinTolerance(stored, expected, e.policy.RelativeTolerance) {
		return
	}

	result.Passed = false
	result.Issues = append(result.Issues, models.Issue{
		Category: "calculation",
		Severity: models.SeverityError,
		Field:    field,
		Message:  fmt.Sprintf("stored weighted value %.2f differs from recomputed %.2f", stored, expected),
		Expected: expected,
		Actual:   stored,
	})
}

// ValidateRanges runs the observational bound checks. Findings here are
// WARNING only and never fail validation outright.
func (e *Engine) ValidateRanges() models.ValidationResult {
	result := models.ValidationResult{Check: "ranges", Passed: true}
	financial := e.store.Financial()

	if financial.Revenue > 0 {
		marginPct := financial.NetIncome / financial.Revenue * 100
		if marginPct > e.policy.MaxNetMarginPct {
			result.Issues = append(result.Issues, models.Issue{
				Category: "range",
				Severity: models.SeverityWarning,
				Field:    "financial.net_income",
				Message:  fmt.Sprintf("net margin %.1f%% exceeds %.0f%%", marginPct, e.policy.MaxNetMarginPct),
				Actual:   marginPct,
			})
		}
	}

	if len(financial.RevenueByYear) >= 2 {
		current := financial.RevenueByYear[0].Value
		prior := financial.RevenueByYear[1].Value
		if prior > 0 {
			growthPct := (current - prior) / prior * 100
			if growthPct > e.policy.MaxRevenueGrowthPct {
				result.Issues = append(result.Issues, models.Issue{
					Category: "range",
					Severity: models.SeverityWarning,
					Field:    "financial.revenue",
					Message:  fmt.Sprintf("year-over-year revenue growth %.1f%% exceeds %.0f%%", growthPct, e.policy.MaxRevenueGrowthPct),
					Actual:   growthPct,
				})
			}
		}
	}

	return result
}

// ValidateValuation checks the concluded value: an implied SDE multiple
// above the sanity bound (or the locked industry's typical high) draws a
// WARNING, and a final value outside the stated range is an ERROR.
func (e *Engine) ValidateValuation() models.ValidationResult {
	result := models.ValidationResult{Check: "valuation", Passed: true}
	valuation := e.store.Valuation()

	implied := e.store.ImpliedSDEMultiple()
	if implied > 0 {
		bound := e.policy.MaxImpliedMultiple
		boundName := fmt.Sprintf("%.0fx sanity bound", bound)
		if e.lock != nil && e.lookup != nil {
			if ranges, ok := e.lookup.RangesFor(e.lock.NAICS()); ok {
				bound = math.Min(bound, ranges.SDE.High)
				boundName = fmt.Sprintf("%s typical high %.2fx", ranges.Name, ranges.SDE.High)
			}
		}
		if implied > bound {
			result.Issues = append(result.Issues, models.Issue{
				Category: "valuation",
				Severity: models.SeverityWarning,
				Field:    "valuation.final_value",
				Message:  fmt.Sprintf("implied SDE multiple %.2fx exceeds %s", implied, boundName),
				Expected: bound,
				Actual:   implied,
			})
		}
	}

	if valuation.ValueLow > 0 && valuation.ValueHigh > 0 {
		if valuation.FinalValue < valuation.ValueLow || valuation.FinalValue > valuation.ValueHigh {
			result.Passed = false
			result.Issues = append(result.Issues, models.Issue{
				Category: "valuation",
				Severity: models.SeverityError,
				Field:    "valuation.final_value",
				Message: fmt.Sprintf("final value %.2f falls outside stated range [%.2f, %.2f]",
					valuation.FinalValue, valuation.ValueLow, valuation.ValueHigh),
				Actual: valuation.FinalValue,
			})
		}
	}

	return result
}

// reportSchema mirrors the identity fields the report cannot be generated
// without; tags drive go-playground/validator.
type reportSchema struct {
	CompanyName   string `validate:"required"`
	ValuationDate string `validate:"required"`
	NAICSCode     string `validate:"required,numeric,min=2,max=6"`
}

// ValidateSchema checks the identity fields: missing company name or
// valuation date is CRITICAL, a missing or malformed NAICS code is ERROR.
func (e *Engine) ValidateSchema() models.ValidationResult {
	result := models.ValidationResult{Check: "schema", Passed: true}

	schema := reportSchema{
		CompanyName:   e.store.Company().Name,
		ValuationDate: e.store.Metadata().ValuationDate,
		NAICSCode:     e.store.Company().NAICSCode,
	}

	err := e.validate.Struct(schema)
	if err == nil {
		return result
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		result.Passed = false
		result.Issues = append(result.Issues, models.Issue{
			Category: "schema",
			Severity: models.SeverityError,
			Message:  fmt.Sprintf("schema validation failed: %v", err),
		})
		return result
	}

	for _, fieldError := range validationErrors {
		issue := models.Issue{Category: "schema"}
		switch fieldError.Field() {
		case "CompanyName":
			issue.Severity = models.SeverityCritical
			issue.Field = "company.name"
			issue.Message = "company name is missing"
		case "ValuationDate":
			issue.Severity = models.SeverityCritical
			issue.Field = "metadata.valuation_date"
			issue.Message = "valuation date is missing"
		case "NAICSCode":
			issue.Severity = models.SeverityError
			issue.Field = "company.naics_code"
			issue.Message = fmt.Sprintf("NAICS code is missing or malformed (%s)", fieldError.Tag())
		default:
			issue.Severity = models.SeverityError
			issue.Message = fmt.Sprintf("schema field %s failed %s", fieldError.Field(), fieldError.Tag())
		}
		result.Passed = false
		result.Issues = append(result.Issues, issue)
	}

	return result
}

// RunAllValidations executes every Layer 1 check, aggregates the issues,
// and computes the run score. sectionValues optionally maps a logical field
// name to per-section reported values for the cross-section checks.
func (e *Engine) RunAllValidations(sectionValues map[string]map[string]float64) *Summary {
	results := []models.ValidationResult{
		e.ValidateDataConsistency(),
		e.VerifySDECalculation(),
		e.VerifyWeightedAverage(),
		e.ValidateRanges(),
		e.ValidateValuation(),
		e.ValidateSchema(),
	}

	if len(sectionValues) > 0 {
		fields := make([]string, 0, len(sectionValues))
		for field := range sectionValues {
			fields = append(fields, field)
		}
		sort.Strings(fields)

		for _, field := range fields {
			expected, ok := e.expectedValueFor(field)
			if !ok {
				continue
			}
			results = append(results, e.ValidateCrossSection(sectionValues[field], field, expected))
		}
	}

	summary := &Summary{Results: results}
	for _, result := range results {
		summary.Issues = append(summary.Issues, result.Issues...)
	}

	summary.CriticalCount = models.CountBySeverity(summary.Issues, models.SeverityCritical)
	summary.ErrorCount = models.CountBySeverity(summary.Issues, models.SeverityError)
	summary.WarningCount = models.CountBySeverity(summary.Issues, models.SeverityWarning)

	summary.Score = math.Max(0, 100-25*float64(summary.CriticalCount)-10*float64(summary.ErrorCount)-2*float64(summary.WarningCount))
	summary.OverallPassed = summary.CriticalCount == 0 && summary.ErrorCount == 0

	e.logger.Debug().
		Float64("score", summary.Score).
		Int("criticals", summary.CriticalCount).
		Int("errors", summary.ErrorCount).
		Int("warnings", summary.WarningCount).
		Bool("passed", summary.OverallPassed).
		Msg("Layer 1 validation complete")

	return summary
}

// expectedValueFor resolves a cross-section logical field name to the
// snapshot's value for it.
func (e *Engine) expectedValueFor(field string) (float64, bool) {
	financial := e.store.Financial()
	valuation := e.store.Valuation()

	switch field {
	case "revenue":
		return financial.Revenue, true
	case "sde":
		return financial.SDE, true
	case "weighted_sde":
		return financial.WeightedSDE, true
	case "ebitda":
		return financial.EBITDA, true
	case "net_income":
		return financial.NetIncome, true
	case "final_value":
		return valuation.FinalValue, true
	default:
		return 0, false
	}
}
