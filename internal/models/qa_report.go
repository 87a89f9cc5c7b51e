package models

import "time"

// QAStatus is the terminal state of a QA pipeline run.
type QAStatus string

const (
	StatusPassed             QAStatus = "PASSED"
	StatusPassedWithWarnings QAStatus = "PASSED_WITH_WARNINGS"
	StatusNeedsReview        QAStatus = "NEEDS_REVIEW"
	StatusFailed             QAStatus = "FAILED"
	StatusBlocked            QAStatus = "BLOCKED"
)

// CanGenerateReport reports whether a status permits report generation.
// Every status except BLOCKED and FAILED allows the report to be built.
func (s QAStatus) CanGenerateReport() bool {
	return s != StatusBlocked && s != StatusFailed
}

// LayerResult summarizes one QA layer's run.
type LayerResult struct {
	Layer         string  `json:"layer"`
	Score         float64 `json:"score"`
	Passed        bool    `json:"passed"`
	IssuesFound   int     `json:"issues_found"`
	IssuesFixed   int     `json:"issues_fixed"`
	CriticalCount int     `json:"critical_count"`
	Issues        []Issue `json:"issues,omitempty"`
}

// QAReport is the final artifact of a QA pipeline run, consumed by the
// publish/block decision point.
type QAReport struct {
	ReportID           string        `json:"report_id"`
	Status             QAStatus      `json:"status"`
	OverallScore       float64       `json:"overall_score"`
	CanGenerateReport  bool          `json:"can_generate_report"`
	Layers             []LayerResult `json:"layers"`
	BlockingIssues     []string      `json:"blocking_issues,omitempty"`
	Warnings           []string      `json:"warnings,omitempty"`
	CorrectionsApplied []string      `json:"corrections_applied,omitempty"`
	GeneratedAt        time.Time     `json:"generated_at"`
	Duration           time.Duration `json:"duration"`
}
