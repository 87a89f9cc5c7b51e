// Package qa composes the three QA layers and the quality gate into one
// pipeline and produces the final QA report consumed by the publish/block
// decision point. The layers stay independent, side-effect-free functions;
// this coordinator only sequences them and derives the terminal status.
package qa

import (
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/blueboyrocks/valcheck/internal/common"
	"github.com/blueboyrocks/valcheck/internal/interfaces"
	"github.com/blueboyrocks/valcheck/internal/models"
	"github.com/blueboyrocks/valcheck/internal/services/correction"
	"github.com/blueboyrocks/valcheck/internal/services/industry"
	"github.com/blueboyrocks/valcheck/internal/services/multiples"
	"github.com/blueboyrocks/valcheck/internal/services/quality"
	"github.com/blueboyrocks/valcheck/internal/services/validation"
	"github.com/blueboyrocks/valcheck/internal/services/variance"
	"github.com/blueboyrocks/valcheck/internal/store"
)

// Layer names and score weights. Unknown layers default to the correction
// layer's weight.
const (
	LayerValidation = "layer1_validation"
	LayerIndustry   = "layer2_industry"
	LayerCorrection = "layer3_correction"

	defaultLayerWeight = 0.1
)

var layerWeights = map[string]float64{
	LayerValidation: 0.6,
	LayerIndustry:   0.3,
	LayerCorrection: 0.1,
}

// Input is everything one QA run consumes.
type Input struct {
	Store *store.Store

	// Lock is the frozen industry classification; Layer 2 is skipped
	// without it.
	Lock *industry.Lock

	// Sections maps section name to narrative text.
	Sections map[string]string

	// SectionValues maps a logical field name to per-section reported
	// values, for the cross-section consistency checks.
	SectionValues map[string]map[string]float64

	// Priors are prior or external valuations to reconcile against.
	Priors []variance.Prior

	// MultipleJustification is the stated basis for the selected multiple.
	MultipleJustification string

	CitationCount int
}

// Orchestrator runs the QA pipeline.
type Orchestrator struct {
	lookup interfaces.MultiplesLookup
	policy common.PolicyConfig
	logger arbor.ILogger
}

// NewOrchestrator creates a QA orchestrator.
func NewOrchestrator(logger arbor.ILogger, lookup interfaces.MultiplesLookup, policy common.PolicyConfig) *Orchestrator {
	return &Orchestrator{
		lookup: lookup,
		policy: policy,
		logger: logger,
	}
}

// Run executes Layers 1-3 and the quality gate, derives the terminal
// status, and assembles the QA report.
func (o *Orchestrator) Run(input Input) *models.QAReport {
	started := time.Now()

	report := &models.QAReport{
		ReportID:    common.NewReportID(),
		GeneratedAt: started,
	}

	// Layer 1: deterministic rule checks.
	engine := validation.NewEngine(o.logger, input.Store, o.lookup, input.Lock, o.policy)
	summary := engine.RunAllValidations(input.SectionValues)
	report.Layers = append(report.Layers, models.LayerResult{
		Layer:         LayerValidation,
		Score:         summary.Score,
		Passed:        summary.OverallPassed,
		IssuesFound:   len(summary.Issues),
		CriticalCount: summary.CriticalCount,
		Issues:        summary.Issues,
	})

	// Layer 2: industry reference screening, when narrative sections and a
	// lock are available.
	var referenceResult *industry.FullReportResult
	if input.Lock != nil && len(input.Sections) > 0 {
		validator := industry.NewReferenceValidator(input.Lock, o.logger)
		result := validator.ValidateFullReport(input.Sections)
		referenceResult = &result
		report.Layers = append(report.Layers, layerFromReference(result))
	}

	// Layer 3: auto-correction.
	corrector := correction.NewEngine(o.logger, o.lookup, o.policy)
	layer3, corrections := o.runCorrections(corrector, input)
	report.Layers = append(report.Layers, layer3)
	report.CorrectionsApplied = corrections

	// Independent guardrails feeding the gate.
	multipleResult := o.validateMultiple(input)
	varianceResults := variance.NewAnalyzer(o.logger, o.policy).CompareAll(input.Store.FinalValue(), input.Priors)

	gate := quality.NewGate(o.policy)
	gateResult := gate.CalculateScore(o.assembleChecks(input, summary, multipleResult, varianceResults))

	report.OverallScore = o.weightedScore(report.Layers)
	report.BlockingIssues = o.collectBlockingIssues(summary, multipleResult, varianceResults, gateResult)
	report.Warnings = o.collectWarnings(summary, referenceResult, multipleResult, varianceResults, gateResult)
	report.Status = o.deriveStatus(report)
	report.CanGenerateReport = report.Status.CanGenerateReport()
	report.Duration = time.Since(started)

	o.logger.Info().
		Str("report_id", report.ReportID).
		Str("status", string(report.Status)).
		Float64("score", report.OverallScore).
		Int("blocking", len(report.BlockingIssues)).
		Msg("QA pipeline complete")

	return report
}

func layerFromReference(result industry.FullReportResult) models.LayerResult {
	layer := models.LayerResult{
		Layer:       LayerIndustry,
		Passed:      result.Passed,
		IssuesFound: result.TotalViolations,
	}

	if len(result.Sections) == 0 {
		layer.Score = 100
		return layer
	}

	passed := 0
	for _, section := range result.Sections {
		if section.Passed {
			passed++
		}
		for _, violation := range section.Violations {
			layer.Issues = append(layer.Issues, models.Issue{
				Category: "industry_reference",
				Severity: models.SeverityError,
				Field:    violation.Section,
				Message:  fmt.Sprintf("section %q references %s (%q)", violation.Section, violation.Industry, violation.Keyword),
			})
		}
	}
	layer.Score = 100 * float64(passed) / float64(len(result.Sections))
	return layer
}

// runCorrections runs the Layer 3 pass: weighted-average recomputation plus
// consistency suggestions, and the implied-multiple review flag.
func (o *Orchestrator) runCorrections(corrector *correction.Engine, input Input) (models.LayerResult, []string) {
	layer := models.LayerResult{Layer: LayerCorrection, Passed: true, Score: 100}
	var applied []string

	financial := input.Store.Financial()

	for _, target := range []struct {
		field  string
		years  []models.YearValue
		stored float64
	}{
		{"financial.weighted_sde", financial.SDEByYear, financial.WeightedSDE},
		{"financial.weighted_ebitda", financial.EBITDAByYear, financial.WeightedEBITDA},
	} {
		if len(target.years) == 0 {
			continue
		}
		values := make([]float64, len(target.years))
		for i, year := range target.years {
			values[i] = year.Value
		}
		result := corrector.CorrectWeightedAverage(target.field, values, target.stored)
		if result.Corrected {
			layer.IssuesFound++
			layer.IssuesFixed++
			layer.Score -= 10
			applied = append(applied, result.Description)
		}
	}

	for field, sectionValues := range input.SectionValues {
		suggestion := corrector.SuggestConsistencyCorrection(field, sectionValues)
		if suggestion != nil && !suggestion.Unanimous {
			layer.IssuesFound++
			layer.Score -= 5
			layer.Issues = append(layer.Issues, models.Issue{
				Category: "consistency_suggestion",
				Severity: models.SeverityWarning,
				Field:    field,
				Message: fmt.Sprintf("sections disagree on %s; propose %.2f (confidence %.0f%%), update %s",
					field, suggestion.Proposed, suggestion.Confidence*100, strings.Join(suggestion.MinoritySections, ", ")),
				Expected: suggestion.Proposed,
			})
		}
	}

	flag := corrector.ValidateValuationMultiple(input.Store.FinalValue(), input.Store.WeightedSDE(), input.Store.Company().NAICSCode)
	if flag.NeedsReview {
		layer.IssuesFound++
		layer.Score -= 15
		layer.Passed = false
		for _, reason := range flag.Reasons {
			layer.Issues = append(layer.Issues, models.Issue{
				Category: "human_review",
				Severity: models.SeverityWarning,
				Field:    "valuation.final_value",
				Message:  reason,
			})
		}
	}

	if layer.Score < 0 {
		layer.Score = 0
	}
	return layer, applied
}

func (o *Orchestrator) validateMultiple(input Input) multiples.Result {
	validator := multiples.NewValidator(o.logger, o.lookup, o.policy)
	valuation := input.Store.Valuation()

	selected := valuation.SelectedMultiple
	if selected == 0 {
		selected = input.Store.ImpliedSDEMultiple()
	}
	return validator.ValidateSDEMultiple(input.Store.Company().NAICSCode, selected, input.MultipleJustification)
}

// assembleChecks converts the categorical layer outcomes into the quality
// gate's sub-checks.
func (o *Orchestrator) assembleChecks(input Input, summary *validation.Summary, multipleResult multiples.Result, varianceResults []variance.Result) quality.Checks {
	checks := quality.Checks{
		RevenueConsistent:       !hasFieldError(summary, "financial.revenue") && !hasCrossSectionError(summary, "revenue"),
		SDEConsistent:           !hasFieldError(summary, "financial.sde") && !hasCrossSectionError(summary, "sde"),
		CrossSectionsConsistent: !hasCategoryError(summary, "cross_section"),
		MultipleWithinRange:     multipleResult.Valid,
		ValueWithinExpected:     checkPassed(summary, "valuation"),
		NoCriticalVariance:      variance.MaxSeverity(varianceResults) != models.SeverityCritical,
		CalculationsVerified:    checkPassed(summary, "sde_calculation") && checkPassed(summary, "weighted_average"),
		WeightedAverageVerified: checkPassed(summary, "weighted_average"),
		CitationCount:           input.CitationCount,
	}

	if len(input.Sections) == 0 {
		// Narrative not supplied for this run; the narrative sub-checks are
		// vacuously satisfied rather than penalized.
		checks.NarrativeWordCount = o.policy.MinNarrativeWords
		checks.SectionsComplete = true
		if input.CitationCount == 0 {
			checks.CitationCount = o.policy.MinCitations
		}
		return checks
	}

	words := 0
	complete := true
	for _, text := range input.Sections {
		count := len(strings.Fields(text))
		words += count
		if count == 0 {
			complete = false
		}
	}
	checks.NarrativeWordCount = words
	checks.SectionsComplete = complete
	return checks
}

func (o *Orchestrator) weightedScore(layers []models.LayerResult) float64 {
	var weighted, totalWeight float64
	for _, layer := range layers {
		weight, ok := layerWeights[layer.Layer]
		if !ok {
			weight = defaultLayerWeight
		}
		weighted += layer.Score * weight
		totalWeight += weight
	}
	if totalWeight == 0 {
		return 0
	}
	return weighted / totalWeight
}

// collectBlockingIssues gathers every categorical reason the report must
// not be generated, as explicit user-visible strings.
func (o *Orchestrator) collectBlockingIssues(summary *validation.Summary, multipleResult multiples.Result, varianceResults []variance.Result, gateResult quality.Result) []string {
	var blocking []string

	for _, issue := range summary.Issues {
		if issue.Severity == models.SeverityCritical {
			blocking = append(blocking, "CRITICAL: "+issue.Message)
		}
	}

	if !multipleResult.Valid {
		blocking = append(blocking, "CRITICAL: "+multipleResult.Message)
	}

	for _, result := range varianceResults {
		if result.Blocking {
			blocking = append(blocking, "CRITICAL: "+result.Message)
		}
	}

	for _, failure := range gateResult.BlockingFailures {
		message := "CRITICAL: " + failure
		if !containsString(blocking, message) {
			blocking = append(blocking, message)
		}
	}

	return blocking
}

func (o *Orchestrator) collectWarnings(summary *validation.Summary, referenceResult *industry.FullReportResult, multipleResult multiples.Result, varianceResults []variance.Result, gateResult quality.Result) []string {
	var warnings []string

	for _, issue := range summary.Issues {
		if issue.Severity == models.SeverityWarning {
			warnings = append(warnings, issue.Message)
		}
	}

	if referenceResult != nil && !referenceResult.Passed {
		warnings = append(warnings, fmt.Sprintf("%d cross-industry references found in narrative sections", referenceResult.TotalViolations))
	}

	warnings = append(warnings, multipleResult.Warnings...)

	for _, result := range varianceResults {
		if result.Severity == models.SeverityWarning {
			warnings = append(warnings, result.Message)
		}
	}

	warnings = append(warnings, gateResult.Warnings...)

	return warnings
}

// deriveStatus applies the status rules in order: blocking issues, failed
// layers with critical findings, the minimum-score bar, then warnings.
func (o *Orchestrator) deriveStatus(report *models.QAReport) models.QAStatus {
	if len(report.BlockingIssues) > 0 {
		return models.StatusBlocked
	}

	for _, layer := range report.Layers {
		if !layer.Passed && layer.CriticalCount > 0 {
			return models.StatusFailed
		}
	}

	if report.OverallScore < o.policy.MinimumScore {
		return models.StatusNeedsReview
	}

	if len(report.Warnings) > 0 {
		if o.policy.StrictMode {
			return models.StatusNeedsReview
		}
		return models.StatusPassedWithWarnings
	}

	return models.StatusPassed
}

func hasFieldError(summary *validation.Summary, field string) bool {
	for _, issue := range summary.Issues {
		if issue.Field == field && issue.Severity.Rank() >= models.SeverityError.Rank() {
			return true
		}
	}
	return false
}

func hasCrossSectionError(summary *validation.Summary, field string) bool {
	for _, issue := range summary.Issues {
		if issue.Category == "cross_section" && issue.Field == field && issue.Severity.Rank() >= models.SeverityError.Rank() {
			return true
		}
	}
	return false
}

func hasCategoryError(summary *validation.Summary, category string) bool {
	for _, issue := range summary.Issues {
		if issue.Category == category && issue.Severity.Rank() >= models.SeverityError.Rank() {
			return true
		}
	}
	return false
}

func checkPassed(summary *validation.Summary, check string) bool {
	for _, result := range summary.Results {
		if result.Check == check {
			return result.Passed
		}
	}
	return true
}

func containsString(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
