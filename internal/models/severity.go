package models

// Severity classifies validation findings, ascending.
// INFO requires no action, WARNING should be reviewed but never blocks,
// ERROR fails the owning check, CRITICAL blocks report generation outright.
type Severity string

const (
	SeverityInfo     Severity = "INFO"
	SeverityWarning  Severity = "WARNING"
	SeverityError    Severity = "ERROR"
	SeverityCritical Severity = "CRITICAL"
)

// Rank returns the numeric ordering of a severity for comparisons.
func (s Severity) Rank() int {
	switch s {
	case SeverityInfo:
		return 0
	case SeverityWarning:
		return 1
	case SeverityError:
		return 2
	case SeverityCritical:
		return 3
	default:
		return 0
	}
}

// MaxSeverity returns the more severe of two severities.
func MaxSeverity(a, b Severity) Severity {
	if b.Rank() > a.Rank() {
		return b
	}
	return a
}

// RiskRating is the qualitative band derived from the overall risk score.
type RiskRating string

const (
	RiskLow      RiskRating = "Low"
	RiskModerate RiskRating = "Moderate"
	RiskElevated RiskRating = "Elevated"
	RiskHigh     RiskRating = "High"
)

// RiskRatingFor maps a 0-100 risk score onto its rating band.
// Bands: <=25 Low, <=50 Moderate, <=75 Elevated, >75 High.
func RiskRatingFor(score float64) RiskRating {
	switch {
	case score <= 25:
		return RiskLow
	case score <= 50:
		return RiskModerate
	case score <= 75:
		return RiskElevated
	default:
		return RiskHigh
	}
}
