// Package quality scores a QA run across five weighted categories and
// decides the publish tier. Blocking checks are categorical: one failed
// blocking check forces the INSUFFICIENT tier and caps the score regardless
// of how well every other category scored.
package quality

import (
	"fmt"

	"github.com/blueboyrocks/valcheck/internal/common"
)

// Category weights; they sum to 1.0.
const (
	WeightDataConsistency         = 0.25
	WeightValuationAccuracy       = 0.30
	WeightCalculationTransparency = 0.20
	WeightCitationCoverage        = 0.10
	WeightNarrativeQuality        = 0.15
)

// Tier thresholds.
const (
	ThresholdPremium  = 80.0
	ThresholdGood     = 65.0
	ThresholdAdequate = 50.0
)

// BlockedScoreCap is the highest score a run with a failed blocking check
// can report; it keeps the run below the ADEQUATE threshold.
const BlockedScoreCap = 49.0

// Tier is the publish quality tier.
type Tier string

const (
	TierPremium      Tier = "PREMIUM"
	TierGood         Tier = "GOOD"
	TierAdequate     Tier = "ADEQUATE"
	TierInsufficient Tier = "INSUFFICIENT"
)

// Checks are the boolean and numeric sub-checks feeding the five categories.
type Checks struct {
	// Data consistency
	RevenueConsistent       bool
	SDEConsistent           bool
	CrossSectionsConsistent bool

	// Valuation accuracy
	MultipleWithinRange bool
	ValueWithinExpected bool
	NoCriticalVariance  bool

	// Calculation transparency
	CalculationsVerified    bool
	WeightedAverageVerified bool

	// Citation coverage
	CitationCount int

	// Narrative quality
	NarrativeWordCount int
	SectionsComplete   bool
}

// CategoryScore is one category's 0-100 score.
type CategoryScore struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
	Score  float64 `json:"score"`
	Passed bool    `json:"passed"`
}

// Result is the gate decision.
type Result struct {
	OverallScore     float64         `json:"overall_score"`
	Tier             Tier            `json:"tier"`
	Blocked          bool            `json:"blocked"`
	BlockingFailures []string        `json:"blocking_failures,omitempty"`
	Categories       []CategoryScore `json:"categories"`
	Warnings         []string        `json:"warnings,omitempty"`
	Recommendations  []string        `json:"recommendations,omitempty"`
}

// Gate is the stateless quality scorer.
type Gate struct {
	policy common.PolicyConfig
}

// NewGate creates a quality gate with the given policy.
func NewGate(policy common.PolicyConfig) *Gate {
	return &Gate{policy: policy}
}

// CalculateScore scores the five categories, weighted-sums them, and applies
// the blocking rule: any failed check in {revenue consistency, SDE
// consistency, calculations verified, multiple within range, value within
// expected, no critical variance} forces tier INSUFFICIENT and caps the
// reported score, overriding the weighted arithmetic.
func (g *Gate) CalculateScore(checks Checks) Result {
	dataConsistency := scoreParts(
		part{checks.RevenueConsistent, 40},
		part{checks.SDEConsistent, 40},
		part{checks.CrossSectionsConsistent, 20},
	)
	valuationAccuracy := scoreParts(
		part{checks.MultipleWithinRange, 40},
		part{checks.ValueWithinExpected, 30},
		part{checks.NoCriticalVariance, 30},
	)
	calculationTransparency := scoreParts(
		part{checks.CalculationsVerified, 60},
		part{checks.WeightedAverageVerified, 40},
	)

	citationCoverage := 100.0
	if g.policy.MinCitations > 0 {
		citationCoverage = float64(checks.CitationCount) / float64(g.policy.MinCitations) * 100
		if citationCoverage > 100 {
			citationCoverage = 100
		}
	}

	narrativeQuality := 0.0
	if g.policy.MinNarrativeWords <= 0 || checks.NarrativeWordCount >= g.policy.MinNarrativeWords {
		narrativeQuality += 60
	} else {
		narrativeQuality += float64(checks.NarrativeWordCount) / float64(g.policy.MinNarrativeWords) * 60
	}
	if checks.SectionsComplete {
		narrativeQuality += 40
	}

	result := Result{
		Categories: []CategoryScore{
			{Name: "data_consistency", Weight: WeightDataConsistency, Score: dataConsistency, Passed: dataConsistency == 100},
			{Name: "valuation_accuracy", Weight: WeightValuationAccuracy, Score: valuationAccuracy, Passed: valuationAccuracy == 100},
			{Name: "calculation_transparency", Weight: WeightCalculationTransparency, Score: calculationTransparency, Passed: calculationTransparency == 100},
			{Name: "citation_coverage", Weight: WeightCitationCoverage, Score: citationCoverage, Passed: citationCoverage == 100},
			{Name: "narrative_quality", Weight: WeightNarrativeQuality, Score: narrativeQuality, Passed: narrativeQuality == 100},
		},
	}

	for _, category := range result.Categories {
		result.OverallScore += category.Score * category.Weight
	}

	result.BlockingFailures = blockingFailures(checks)
	result.Blocked = len(result.BlockingFailures) > 0

	if result.Blocked {
		result.Tier = TierInsufficient
		if result.OverallScore > BlockedScoreCap {
			result.OverallScore = BlockedScoreCap
		}
	} else {
		result.Tier = tierFor(result.OverallScore)
	}

	// Non-blocking shortfalls only produce warnings and recommendations.
	if g.policy.MinCitations > 0 && checks.CitationCount < g.policy.MinCitations {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("citation count %d is below the target of %d", checks.CitationCount, g.policy.MinCitations))
		result.Recommendations = append(result.Recommendations, "add citations for the key financial figures")
	}
	if g.policy.MinNarrativeWords > 0 && checks.NarrativeWordCount < g.policy.MinNarrativeWords {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("narrative length %d words is below the target of %d", checks.NarrativeWordCount, g.policy.MinNarrativeWords))
		result.Recommendations = append(result.Recommendations, "expand the valuation narrative sections")
	}

	return result
}

type part struct {
	passed bool
	points float64
}

func scoreParts(parts ...part) float64 {
	score := 0.0
	for _, p := range parts {
		if p.passed {
			score += p.points
		}
	}
	return score
}

func blockingFailures(checks Checks) []string {
	var failures []string
	if !checks.RevenueConsistent {
		failures = append(failures, "revenue consistency check failed")
	}
	if !checks.SDEConsistent {
		failures = append(failures, "SDE consistency check failed")
	}
	if !checks.CalculationsVerified {
		failures = append(failures, "calculations could not be verified")
	}
	if !checks.MultipleWithinRange {
		failures = append(failures, "multiple outside valid industry range")
	}
	if !checks.ValueWithinExpected {
		failures = append(failures, "value outside expected range")
	}
	if !checks.NoCriticalVariance {
		failures = append(failures, "critical variance against prior valuation")
	}
	return failures
}

func tierFor(score float64) Tier {
	switch {
	case score >= ThresholdPremium:
		return TierPremium
	case score >= ThresholdGood:
		return TierGood
	case score >= ThresholdAdequate:
		return TierAdequate
	default:
		return TierInsufficient
	}
}
