package qa

import (
	"strings"
	"testing"

	"github.com/ternarybob/arbor"

	"github.com/blueboyrocks/valcheck/internal/common"
	"github.com/blueboyrocks/valcheck/internal/models"
	"github.com/blueboyrocks/valcheck/internal/services/industry"
	"github.com/blueboyrocks/valcheck/internal/services/variance"
	"github.com/blueboyrocks/valcheck/internal/store"
)

func consistentPayload() *models.ValuationPayload {
	return &models.ValuationPayload{
		Financial: models.FinancialData{
			Revenue:     6265024,
			SDE:         1130912,
			NetIncome:   728412,
			WeightedSDE: 1116666.67,
			SDEByYear: []models.YearValue{
				{Period: "2025", Value: 1200000},
				{Period: "2024", Value: 1050000},
				{Period: "2023", Value: 1000000},
			},
			RevenueByYear: []models.YearValue{
				{Period: "2025", Value: 6265024},
				{Period: "2024", Value: 5810000},
			},
		},
		Valuation: models.ValuationResults{
			FinalValue:       2959167,
			ValueLow:         2600000,
			ValueHigh:        3300000,
			SelectedMultiple: 2.65,
			IncomeWeight:     0.5,
			MarketWeight:     0.3,
			AssetWeight:      0.2,
		},
		Company: models.CompanyProfile{
			Name:                "K-Factor Engineering",
			IndustryDescription: "Engineering Services",
			NAICSCode:           "541330",
		},
		Metadata: models.ReportMetadata{
			ValuationDate: "2025-12-31",
		},
	}
}

func newSnapshot(t *testing.T, payload *models.ValuationPayload) *store.Store {
	t.Helper()
	snapshot, err := store.New(payload)
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	return snapshot
}

func newOrchestrator(policy common.PolicyConfig) (*Orchestrator, *industry.Lookup) {
	logger := arbor.NewLogger()
	lookup := industry.NewLookup(logger, policy.CeilingFactor)
	return NewOrchestrator(logger, lookup, policy), lookup
}

func newLock(t *testing.T, lookup *industry.Lookup) *industry.Lock {
	t.Helper()
	lock, err := industry.NewLock("541330", "Engineering Services", lookup)
	if err != nil {
		t.Fatalf("industry.NewLock() error = %v", err)
	}
	return lock
}

func TestRun_CleanReportPasses(t *testing.T) {
	orchestrator, _ := newOrchestrator(common.DefaultPolicy())

	report := orchestrator.Run(Input{Store: newSnapshot(t, consistentPayload())})

	if report.Status != models.StatusPassed {
		t.Errorf("Status = %v, want PASSED; blocking: %v, warnings: %v",
			report.Status, report.BlockingIssues, report.Warnings)
	}
	if report.OverallScore != 100 {
		t.Errorf("OverallScore = %v, want 100", report.OverallScore)
	}
	if !report.CanGenerateReport {
		t.Error("CanGenerateReport = false, want true")
	}
	if report.ReportID == "" {
		t.Error("ReportID is empty")
	}
	// Layer 2 is skipped without narrative sections.
	if len(report.Layers) != 2 {
		t.Fatalf("Layers = %d, want 2 (validation, correction)", len(report.Layers))
	}
	if report.Layers[0].Layer != LayerValidation || report.Layers[1].Layer != LayerCorrection {
		t.Errorf("layer order = %s, %s", report.Layers[0].Layer, report.Layers[1].Layer)
	}
}

func TestRun_ExcessiveMultipleBlocks(t *testing.T) {
	orchestrator, _ := newOrchestrator(common.DefaultPolicy())

	payload := consistentPayload()
	payload.Valuation.SelectedMultiple = 4.4 // engineering ceiling is 4.2

	report := orchestrator.Run(Input{Store: newSnapshot(t, payload)})

	if report.Status != models.StatusBlocked {
		t.Fatalf("Status = %v, want BLOCKED", report.Status)
	}
	if report.CanGenerateReport {
		t.Error("CanGenerateReport = true, want false")
	}
	if len(report.BlockingIssues) == 0 {
		t.Fatal("BlockingIssues is empty")
	}
	for _, issue := range report.BlockingIssues {
		if !strings.HasPrefix(issue, "CRITICAL: ") {
			t.Errorf("blocking issue %q missing CRITICAL prefix", issue)
		}
	}
	found := false
	for _, issue := range report.BlockingIssues {
		if strings.Contains(issue, "4.40x") && strings.Contains(issue, "hard ceiling") {
			found = true
		}
	}
	if !found {
		t.Errorf("no ceiling rejection among blocking issues: %v", report.BlockingIssues)
	}
}

func TestRun_CriticalVarianceBlocks(t *testing.T) {
	orchestrator, _ := newOrchestrator(common.DefaultPolicy())

	report := orchestrator.Run(Input{
		Store: newSnapshot(t, consistentPayload()),
		Priors: []variance.Prior{
			{Label: "third-party benchmark", Value: 1400000}, // ~111% variance
		},
	})

	if report.Status != models.StatusBlocked {
		t.Errorf("Status = %v, want BLOCKED; blocking: %v", report.Status, report.BlockingIssues)
	}
}

func TestRun_IndustryScreeningFindsCrossReferences(t *testing.T) {
	orchestrator, lookup := newOrchestrator(common.DefaultPolicy())

	report := orchestrator.Run(Input{
		Store: newSnapshot(t, consistentPayload()),
		Lock:  newLock(t, lookup),
		Sections: map[string]string{
			"executive_summary": strings.Repeat("The engineering firm serves regional clients. ", 80),
			"market_approach":   strings.Repeat("Comparable restaurant sales were considered. ", 80),
		},
		CitationCount: 6,
	})

	if len(report.Layers) != 3 {
		t.Fatalf("Layers = %d, want 3", len(report.Layers))
	}
	layer2 := report.Layers[1]
	if layer2.Layer != LayerIndustry {
		t.Fatalf("Layers[1] = %s, want %s", layer2.Layer, LayerIndustry)
	}
	if layer2.Passed {
		t.Error("industry layer passed despite restaurant reference")
	}
	if layer2.Score != 50 {
		t.Errorf("industry layer score = %v, want 50 (one of two sections failed)", layer2.Score)
	}
	found := false
	for _, warning := range report.Warnings {
		if strings.Contains(warning, "cross-industry references") {
			found = true
		}
	}
	if !found {
		t.Errorf("no cross-industry warning in %v", report.Warnings)
	}
}

func TestRun_SectionDisagreementNeedsReview(t *testing.T) {
	orchestrator, _ := newOrchestrator(common.DefaultPolicy())

	// Four of five sections restate a stale final value.
	report := orchestrator.Run(Input{
		Store: newSnapshot(t, consistentPayload()),
		SectionValues: map[string]map[string]float64{
			"final_value": {
				"executive_summary":   2500000,
				"income_approach":     2500000,
				"market_approach":     2500000,
				"reconciliation":      2500000,
				"valuation_synthesis": 2959167,
			},
		},
	})

	if report.Status != models.StatusNeedsReview {
		t.Errorf("Status = %v, want NEEDS_REVIEW (score %v); blocking: %v",
			report.Status, report.OverallScore, report.BlockingIssues)
	}
	if len(report.BlockingIssues) != 0 {
		t.Errorf("BlockingIssues = %v, want none; stale restatements are errors, not criticals", report.BlockingIssues)
	}
	if report.OverallScore >= common.DefaultPolicy().MinimumScore {
		t.Errorf("OverallScore = %v, want below %v", report.OverallScore, common.DefaultPolicy().MinimumScore)
	}
}

func TestRun_WarningsPassOrNeedReviewByStrictness(t *testing.T) {
	payload := consistentPayload()

	// A citation shortfall produces a warning but nothing blocking.
	input := func(t *testing.T) Input {
		return Input{Store: newSnapshot(t, payload), CitationCount: 2}
	}

	lenient, _ := newOrchestrator(common.DefaultPolicy())
	report := lenient.Run(input(t))
	if report.Status != models.StatusPassedWithWarnings {
		t.Errorf("lenient Status = %v, want PASSED_WITH_WARNINGS; warnings: %v", report.Status, report.Warnings)
	}
	if !report.CanGenerateReport {
		t.Error("CanGenerateReport = false, want true")
	}

	strictPolicy := common.DefaultPolicy()
	strictPolicy.StrictMode = true
	strict, _ := newOrchestrator(strictPolicy)
	report = strict.Run(input(t))
	if report.Status != models.StatusNeedsReview {
		t.Errorf("strict Status = %v, want NEEDS_REVIEW", report.Status)
	}
}

func TestRun_WeightedAverageCorrected(t *testing.T) {
	orchestrator, _ := newOrchestrator(common.DefaultPolicy())

	payload := consistentPayload()
	payload.Financial.WeightedSDE = 1250000 // stale; series says 1,116,666.67
	// Keep the multiple checks on the explicitly selected multiple.
	payload.Valuation.SelectedMultiple = 2.65

	report := orchestrator.Run(Input{Store: newSnapshot(t, payload)})

	if len(report.CorrectionsApplied) != 1 {
		t.Fatalf("CorrectionsApplied = %v, want 1", report.CorrectionsApplied)
	}
	if !strings.Contains(report.CorrectionsApplied[0], "financial.weighted_sde") {
		t.Errorf("correction = %q", report.CorrectionsApplied[0])
	}
}

func TestDeriveStatus_Order(t *testing.T) {
	orchestrator, _ := newOrchestrator(common.DefaultPolicy())

	tests := []struct {
		name   string
		report *models.QAReport
		want   models.QAStatus
	}{
		{
			name: "blocking wins over everything",
			report: &models.QAReport{
				BlockingIssues: []string{"CRITICAL: revenue missing"},
				OverallScore:   95,
			},
			want: models.StatusBlocked,
		},
		{
			name: "failed layer with criticals",
			report: &models.QAReport{
				Layers:       []models.LayerResult{{Layer: LayerValidation, Passed: false, CriticalCount: 1}},
				OverallScore: 90,
			},
			want: models.StatusFailed,
		},
		{
			name: "low score needs review",
			report: &models.QAReport{
				Layers:       []models.LayerResult{{Layer: LayerValidation, Passed: true}},
				OverallScore: 60,
			},
			want: models.StatusNeedsReview,
		},
		{
			name: "warnings pass with warnings",
			report: &models.QAReport{
				Layers:       []models.LayerResult{{Layer: LayerValidation, Passed: true}},
				OverallScore: 90,
				Warnings:     []string{"citation count low"},
			},
			want: models.StatusPassedWithWarnings,
		},
		{
			name: "clean pass",
			report: &models.QAReport{
				Layers:       []models.LayerResult{{Layer: LayerValidation, Passed: true}},
				OverallScore: 100,
			},
			want: models.StatusPassed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := orchestrator.deriveStatus(tt.report); got != tt.want {
				t.Errorf("deriveStatus() = %v, want %v", got, tt.want)
			}
		})
	}
}
