package models

// Issue is a single validation finding. Validators collect issues and run to
// completion rather than short-circuiting, so one run surfaces every defect.
type Issue struct {
	Category string   `json:"category"`
	Severity Severity `json:"severity"`
	Field    string   `json:"field,omitempty"`
	Message  string   `json:"message"`
	Expected float64  `json:"expected,omitempty"`
	Actual   float64  `json:"actual,omitempty"`
}

// ValidationResult is the outcome of one named check.
type ValidationResult struct {
	Check  string  `json:"check"`
	Passed bool    `json:"passed"`
	Issues []Issue `json:"issues,omitempty"`
}

// CountBySeverity tallies issues at the given severity.
func CountBySeverity(issues []Issue, severity Severity) int {
	count := 0
	for _, issue := range issues {
		if issue.Severity == severity {
			count++
		}
	}
	return count
}

// FilterBySeverity returns the issues at or above the given severity.
func FilterBySeverity(issues []Issue, minimum Severity) []Issue {
	var filtered []Issue
	for _, issue := range issues {
		if issue.Severity.Rank() >= minimum.Rank() {
			filtered = append(filtered, issue)
		}
	}
	return filtered
}
