package industry

import (
	"sort"

	"github.com/ternarybob/arbor"
)

// SectionResult is the screening outcome for one named report section.
type SectionResult struct {
	Section    string      `json:"section"`
	Passed     bool        `json:"passed"`
	Violations []Violation `json:"violations,omitempty"`
}

// FullReportResult aggregates per-section screening. One failing section
// fails the whole report for downstream gating.
type FullReportResult struct {
	Passed          bool            `json:"passed"`
	TotalViolations int             `json:"total_violations"`
	Sections        []SectionResult `json:"sections"`
}

// ReferenceValidator screens every report section against the industry lock.
type ReferenceValidator struct {
	lock   *Lock
	logger arbor.ILogger
}

// NewReferenceValidator creates a reference validator for a locked industry.
func NewReferenceValidator(lock *Lock, logger arbor.ILogger) *ReferenceValidator {
	return &ReferenceValidator{
		lock:   lock,
		logger: logger,
	}
}

// ValidateFullReport runs the keyword screen over every named section
// independently. Sections are processed in name order so results are
// deterministic for identical inputs.
func (v *ReferenceValidator) ValidateFullReport(sections map[string]string) FullReportResult {
	names := make([]string, 0, len(sections))
	for name := range sections {
		names = append(names, name)
	}
	sort.Strings(names)

	result := FullReportResult{Passed: true}
	for _, name := range names {
		violations := v.lock.ValidateReference(sections[name])
		for i := range violations {
			violations[i].Section = name
		}

		sectionResult := SectionResult{
			Section:    name,
			Passed:     len(violations) == 0,
			Violations: violations,
		}
		if !sectionResult.Passed {
			result.Passed = false
			result.TotalViolations += len(violations)
			v.logger.Warn().
				Str("section", name).
				Int("violations", len(violations)).
				Str("industry", v.lock.Description()).
				Msg("Section references a different industry")
		}
		result.Sections = append(result.Sections, sectionResult)
	}

	return result
}
