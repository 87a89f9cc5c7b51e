package models

import "testing"

func TestSeverityOrdering(t *testing.T) {
	ordered := []Severity{SeverityInfo, SeverityWarning, SeverityError, SeverityCritical}

	for i := 1; i < len(ordered); i++ {
		if ordered[i-1].Rank() >= ordered[i].Rank() {
			t.Errorf("%v should rank below %v", ordered[i-1], ordered[i])
		}
	}

	if got := MaxSeverity(SeverityWarning, SeverityError); got != SeverityError {
		t.Errorf("MaxSeverity(WARNING, ERROR) = %v", got)
	}
	if got := MaxSeverity(SeverityCritical, SeverityInfo); got != SeverityCritical {
		t.Errorf("MaxSeverity(CRITICAL, INFO) = %v", got)
	}
}

func TestRiskRatingFor(t *testing.T) {
	tests := []struct {
		score float64
		want  RiskRating
	}{
		{0, RiskLow},
		{25, RiskLow},
		{25.1, RiskModerate},
		{42, RiskModerate},
		{50, RiskModerate},
		{75, RiskElevated},
		{75.1, RiskHigh},
		{100, RiskHigh},
	}

	for _, tt := range tests {
		if got := RiskRatingFor(tt.score); got != tt.want {
			t.Errorf("RiskRatingFor(%v) = %v, want %v", tt.score, got, tt.want)
		}
	}
}

func TestFilterBySeverity(t *testing.T) {
	issues := []Issue{
		{Severity: SeverityInfo, Message: "a"},
		{Severity: SeverityWarning, Message: "b"},
		{Severity: SeverityError, Message: "c"},
		{Severity: SeverityCritical, Message: "d"},
	}

	filtered := FilterBySeverity(issues, SeverityError)
	if len(filtered) != 2 {
		t.Fatalf("FilterBySeverity(ERROR) = %d issues, want 2", len(filtered))
	}
	if filtered[0].Message != "c" || filtered[1].Message != "d" {
		t.Errorf("filtered = %+v", filtered)
	}

	if got := CountBySeverity(issues, SeverityWarning); got != 1 {
		t.Errorf("CountBySeverity(WARNING) = %d, want 1", got)
	}
}
