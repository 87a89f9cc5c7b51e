package multiples

import (
	"math"
	"strings"
	"testing"

	"github.com/ternarybob/arbor"

	"github.com/blueboyrocks/valcheck/internal/common"
	"github.com/blueboyrocks/valcheck/internal/models"
	"github.com/blueboyrocks/valcheck/internal/services/industry"
)

func newTestValidator() *Validator {
	logger := arbor.NewLogger()
	lookup := industry.NewLookup(logger, 1.2)
	return NewValidator(logger, lookup, common.DefaultPolicy())
}

// Engineering services (541330): SDE range 2.0-3.5x, median 2.65x,
// hard ceiling 3.5 * 1.2 = 4.2x.
func TestValidateSDEMultiple(t *testing.T) {
	longJustification := strings.Repeat("strong recurring contract base ", 3)

	tests := []struct {
		name          string
		naics         string
		multiple      float64
		justification string
		wantValid     bool
		wantSeverity  models.Severity
		wantWarnings  int
	}{
		{
			name:          "median multiple clean",
			naics:         "541330",
			multiple:      2.65,
			justification: "",
			wantValid:     true,
			wantSeverity:  models.SeverityInfo,
		},
		{
			name:          "above ceiling rejected",
			naics:         "541330",
			multiple:      4.4,
			justification: longJustification,
			wantValid:     false,
			wantSeverity:  models.SeverityCritical,
		},
		{
			name:          "between high and ceiling warns",
			naics:         "541330",
			multiple:      3.8,
			justification: longJustification,
			wantValid:     true,
			wantSeverity:  models.SeverityWarning,
			wantWarnings:  1,
		},
		{
			name:          "above median without justification warns",
			naics:         "541330",
			multiple:      3.0,
			justification: "good",
			wantValid:     true,
			wantSeverity:  models.SeverityWarning,
			wantWarnings:  1,
		},
		{
			name:          "above median with justification clean",
			naics:         "541330",
			multiple:      3.0,
			justification: longJustification,
			wantValid:     true,
			wantSeverity:  models.SeverityInfo,
		},
		{
			name:         "zero multiple rejected",
			naics:        "541330",
			multiple:     0,
			wantValid:    false,
			wantSeverity: models.SeverityCritical,
		},
		{
			name:         "negative multiple rejected",
			naics:        "541330",
			multiple:     -1.5,
			wantValid:    false,
			wantSeverity: models.SeverityCritical,
		},
		{
			name:         "unknown industry passes with warning",
			naics:        "999999",
			multiple:     8.0,
			wantValid:    true,
			wantSeverity: models.SeverityWarning,
			wantWarnings: 1,
		},
	}

	validator := newTestValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := validator.ValidateSDEMultiple(tt.naics, tt.multiple, tt.justification)

			if result.Valid != tt.wantValid {
				t.Errorf("Valid = %v, want %v (%s)", result.Valid, tt.wantValid, result.Message)
			}
			if result.Severity != tt.wantSeverity {
				t.Errorf("Severity = %v, want %v", result.Severity, tt.wantSeverity)
			}
			if len(result.Warnings) != tt.wantWarnings {
				t.Errorf("Warnings = %v, want %d entries", result.Warnings, tt.wantWarnings)
			}
		})
	}
}

func TestValidateSDEMultiple_RejectionSuggestsRange(t *testing.T) {
	validator := newTestValidator()

	result := validator.ValidateSDEMultiple("541330", 4.4, "")
	if result.Valid {
		t.Fatal("Valid = true, want rejection")
	}
	if result.Suggested == nil {
		t.Fatal("Suggested = nil, want the industry SDE range")
	}
	if result.Suggested.Low != 2.0 || result.Suggested.Median != 2.65 || result.Suggested.High != 3.5 {
		t.Errorf("Suggested = %+v, want {2.0, 2.65, 3.5}", *result.Suggested)
	}
}

func TestRecommendedMultiple(t *testing.T) {
	tests := []struct {
		name    string
		naics   string
		factors GrowthFactors
		want    float64
		wantOK  bool
	}{
		{
			name:    "no adjustments returns median",
			naics:   "541330",
			factors: GrowthFactors{},
			want:    2.65,
			wantOK:  true,
		},
		{
			name:    "moderate growth adds a quarter turn",
			naics:   "541330",
			factors: GrowthFactors{RevenueGrowthPct: 12},
			want:    2.90,
			wantOK:  true,
		},
		{
			name:    "strong growth and diversified customers",
			naics:   "541330",
			factors: GrowthFactors{RevenueGrowthPct: 30, CustomerConcentrationPct: 10},
			want:    3.40,
			wantOK:  true,
		},
		{
			name:    "high risk pulls below median",
			naics:   "541330",
			factors: GrowthFactors{RiskScore: 80},
			want:    2.15,
			wantOK:  true,
		},
		{
			name:    "moderate risk pulls a quarter turn",
			naics:   "541330",
			factors: GrowthFactors{RiskScore: 60},
			want:    2.40,
			wantOK:  true,
		},
		{
			name:    "unknown industry has no recommendation",
			naics:   "999999",
			factors: GrowthFactors{RevenueGrowthPct: 30},
			want:    0,
			wantOK:  false,
		},
	}

	validator := newTestValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := validator.RecommendedMultiple(tt.naics, tt.factors)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("RecommendedMultiple() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRecommendedMultiple_FloorBound(t *testing.T) {
	validator := newTestValidator()

	// Auto repair (811111) median 2.3 less the high-risk half turn lands
	// exactly on the industry low of 1.8.
	got, ok := validator.RecommendedMultiple("811111", GrowthFactors{RiskScore: 90})
	if !ok {
		t.Fatal("ok = false, want recommendation")
	}
	ranges, _ := industry.NewLookup(arbor.NewLogger(), 1.2).RangesFor("811111")
	if got < ranges.SDE.Low {
		t.Errorf("RecommendedMultiple() = %v, below industry low %v", got, ranges.SDE.Low)
	}
	if math.Abs(got-1.8) > 1e-9 {
		t.Errorf("RecommendedMultiple() = %v, want 1.8", got)
	}
}
