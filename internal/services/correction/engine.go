// Package correction implements the Layer 3 auto-correction engine. It
// deterministically fixes a bounded class of errors (weighted averages,
// display formatting) and otherwise only suggests. It never writes to the
// frozen snapshot: proposed values are returned for the caller to apply when
// constructing the next snapshot, and every correction lands on an
// append-only audit trail.
package correction

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/blueboyrocks/valcheck/internal/common"
	"github.com/blueboyrocks/valcheck/internal/interfaces"
	"github.com/blueboyrocks/valcheck/internal/models"
	"github.com/blueboyrocks/valcheck/internal/services/validation"
)

// AuditEntry is one append-only audit record of a correction.
type AuditEntry struct {
	Timestamp   time.Time `json:"timestamp"`
	Field       string    `json:"field"`
	Original    string    `json:"original"`
	Corrected   string    `json:"corrected"`
	Description string    `json:"description"`
}

// Correction is a proposed numeric replacement value.
type Correction struct {
	Field       string  `json:"field"`
	Corrected   bool    `json:"corrected"`
	Original    float64 `json:"original"`
	Proposed    float64 `json:"proposed"`
	Description string  `json:"description,omitempty"`
}

// Suggestion proposes the canonical value for a field that different report
// sections state inconsistently.
type Suggestion struct {
	Field            string   `json:"field"`
	Proposed         float64  `json:"proposed"`
	Confidence       float64  `json:"confidence"`
	Unanimous        bool     `json:"unanimous"`
	MinoritySections []string `json:"minority_sections,omitempty"`
}

// ReviewFlag marks a valuation multiple for human review. The engine never
// auto-corrects a multiple.
type ReviewFlag struct {
	NeedsReview     bool     `json:"needs_review"`
	ImpliedMultiple float64  `json:"implied_multiple"`
	Reasons         []string `json:"reasons,omitempty"`
}

// ReviewPartition splits issues into those that force human review and
// those that are informational.
type ReviewPartition struct {
	ReviewRequired bool           `json:"review_required"`
	Critical       []models.Issue `json:"critical,omitempty"`
	Reviewable     []models.Issue `json:"reviewable,omitempty"`
}

// Engine proposes deterministic corrections. The audit log is the only
// mutable state in the QA core and is local to one engine instance; each
// report run should construct its own engine.
type Engine struct {
	lookup interfaces.MultiplesLookup
	policy common.PolicyConfig
	logger arbor.ILogger
	audit  []AuditEntry
}

// NewEngine creates an auto-correction engine with an empty audit trail.
func NewEngine(logger arbor.ILogger, lookup interfaces.MultiplesLookup, policy common.PolicyConfig) *Engine {
	return &Engine{
		lookup: lookup,
		policy: policy,
		logger: logger,
	}
}

// CorrectWeightedAverage recomputes the 3/2/1 weighted value from up to
// three non-zero yearly inputs (newest first). If the stored value differs
// by more than the relative tolerance, it returns the recomputed value as a
// correction and records it to the audit trail.
func (e *Engine) CorrectWeightedAverage(field string, years []float64, stored float64) Correction {
	expected := validation.WeightedAverage(years)

	if validation.WithinTolerance(stored, expected, e.policy.RelativeTolerance) {
		return Correction{Field: field, Corrected: false, Original: stored, Proposed: stored}
	}

	description := fmt.Sprintf("recomputed 3/2/1 weighted average for %s: %.2f -> %.2f", field, stored, expected)
	e.appendAudit(field, fmt.Sprintf("%.2f", stored), fmt.Sprintf("%.2f", expected), description)

	e.logger.Info().
		Str("field", field).
		Float64("stored", stored).
		Float64("recomputed", expected).
		Msg("Weighted average corrected")

	return Correction{
		Field:       field,
		Corrected:   true,
		Original:    stored,
		Proposed:    expected,
		Description: description,
	}
}

// SuggestConsistencyCorrection computes the statistical mode across sections
// reporting the same logical field. If the sections are not unanimous it
// proposes the mode as the canonical value and lists the minority sections
// to update, with confidence = mode count / total count.
func (e *Engine) SuggestConsistencyCorrection(field string, sectionValues map[string]float64) *Suggestion {
	if len(sectionValues) == 0 {
		return nil
	}

	// Group by value rounded to the cent so float noise does not split the mode.
	counts := make(map[int64]int)
	representative := make(map[int64]float64)
	for _, value := range sectionValues {
		key := int64(math.Round(value * 100))
		counts[key]++
		representative[key] = value
	}

	var modeKey int64
	modeCount := -1
	for key, count := range counts {
		if count > modeCount || (count == modeCount && key < modeKey) {
			modeKey = key
			modeCount = count
		}
	}

	suggestion := &Suggestion{
		Field:      field,
		Proposed:   representative[modeKey],
		Confidence: float64(modeCount) / float64(len(sectionValues)),
		Unanimous:  modeCount == len(sectionValues),
	}

	if suggestion.Unanimous {
		return suggestion
	}

	for section, value := range sectionValues {
		if int64(math.Round(value*100)) != modeKey {
			suggestion.MinoritySections = append(suggestion.MinoritySections, section)
		}
	}
	sort.Strings(suggestion.MinoritySections)

	return suggestion
}

// ValidateValuationMultiple computes the implied multiple (value / benefit
// stream) and flags it for human review when it exceeds the industry hard
// ceiling or typical high, or falls below the typical low. Multiples are
// never auto-corrected.
func (e *Engine) ValidateValuationMultiple(value, benefitStream float64, industryCode string) ReviewFlag {
	flag := ReviewFlag{}

	if benefitStream <= 0 {
		flag.NeedsReview = true
		flag.Reasons = append(flag.Reasons, fmt.Sprintf("benefit stream %.2f is not positive; implied multiple undefined", benefitStream))
		return flag
	}

	flag.ImpliedMultiple = value / benefitStream

	ranges, ok := e.lookup.RangesFor(industryCode)
	if !ok {
		return flag
	}

	ceiling := ranges.SDE.Ceiling(e.lookup.CeilingFactor())
	switch {
	case flag.ImpliedMultiple > ceiling:
		flag.NeedsReview = true
		flag.Reasons = append(flag.Reasons,
			fmt.Sprintf("implied multiple %.2fx exceeds the %s hard ceiling %.2fx", flag.ImpliedMultiple, ranges.Name, ceiling))
	case flag.ImpliedMultiple > ranges.SDE.High:
		flag.NeedsReview = true
		flag.Reasons = append(flag.Reasons,
			fmt.Sprintf("implied multiple %.2fx exceeds the %s typical high %.2fx", flag.ImpliedMultiple, ranges.Name, ranges.SDE.High))
	case flag.ImpliedMultiple < ranges.SDE.Low:
		flag.NeedsReview = true
		flag.Reasons = append(flag.Reasons,
			fmt.Sprintf("implied multiple %.2fx falls below the %s typical low %.2fx", flag.ImpliedMultiple, ranges.Name, ranges.SDE.Low))
	}

	return flag
}

// FlagForHumanReview partitions issues: criticals force human review,
// errors and warnings are informational.
func (e *Engine) FlagForHumanReview(issues []models.Issue) ReviewPartition {
	partition := ReviewPartition{}
	for _, issue := range issues {
		if issue.Severity == models.SeverityCritical {
			partition.Critical = append(partition.Critical, issue)
		} else {
			partition.Reviewable = append(partition.Reviewable, issue)
		}
	}
	partition.ReviewRequired = len(partition.Critical) > 0
	return partition
}

// AuditTrail returns a copy of the append-only audit log.
func (e *Engine) AuditTrail() []AuditEntry {
	trail := make([]AuditEntry, len(e.audit))
	copy(trail, e.audit)
	return trail
}

func (e *Engine) appendAudit(field, original, corrected, description string) {
	e.audit = append(e.audit, AuditEntry{
		Timestamp:   time.Now(),
		Field:       field,
		Original:    original,
		Corrected:   corrected,
		Description: description,
	})
}
