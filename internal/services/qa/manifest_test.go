package qa

import (
	"testing"

	"github.com/blueboyrocks/valcheck/internal/models"
)

func TestBuildManifest(t *testing.T) {
	snapshot := newSnapshot(t, consistentPayload())

	sections := map[string]string{
		"executive_summary":  "Revenue of $6,265,024 supports a concluded value of $2,959,167.",
		"financial_analysis": "Revenue reached $6,265,024 with SDE of $1,130,912.",
		"conclusion":         "The concluded value is $2,959,167.",
	}

	manifest := BuildManifest("rpt_test", snapshot, sections, models.ManifestCheck{Passed: true})

	if manifest.ReportID != "rpt_test" {
		t.Errorf("ReportID = %q", manifest.ReportID)
	}
	if manifest.CriticalValues["revenue"] != 6265024 {
		t.Errorf("revenue = %v", manifest.CriticalValues["revenue"])
	}
	if manifest.CriticalValues["final_value"] != 2959167 {
		t.Errorf("final_value = %v", manifest.CriticalValues["final_value"])
	}

	wantAppearances := map[string][]string{
		"revenue":     {"executive_summary", "financial_analysis"},
		"sde":         {"financial_analysis"},
		"final_value": {"conclusion", "executive_summary"},
	}
	for field, want := range wantAppearances {
		got := manifest.ValueAppearances[field]
		if len(got) != len(want) {
			t.Errorf("ValueAppearances[%s] = %v, want %v", field, got, want)
			continue
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("ValueAppearances[%s] = %v, want %v", field, got, want)
			}
		}
	}
}

func TestVerifyManifest_RoundTrip(t *testing.T) {
	snapshot := newSnapshot(t, consistentPayload())

	sections := map[string]string{
		"executive_summary": "Revenue of $6,265,024 supports a concluded value of $2,959,167.",
		"conclusion":        "The concluded value is $2,959,167.",
	}

	manifest := BuildManifest("rpt_roundtrip", snapshot, sections, models.ManifestCheck{Passed: true})

	result := VerifyManifest(manifest, sections)
	if !result.Passed {
		t.Errorf("VerifyManifest() passed = false: %+v", result.Missing)
	}
	if result.ReportID != "rpt_roundtrip" {
		t.Errorf("ReportID = %q", result.ReportID)
	}
}

func TestVerifyManifest_DetectsDrift(t *testing.T) {
	snapshot := newSnapshot(t, consistentPayload())

	sections := map[string]string{
		"executive_summary": "Revenue of $6,265,024 supports a concluded value of $2,959,167.",
		"conclusion":        "The concluded value is $2,959,167.",
	}
	manifest := BuildManifest("rpt_drift", snapshot, sections, models.ManifestCheck{Passed: true})

	// A later edit restates a different concluded value in the conclusion.
	sections["conclusion"] = "The concluded value is $3,100,000."

	result := VerifyManifest(manifest, sections)
	if result.Passed {
		t.Fatal("VerifyManifest() passed = true after drift")
	}
	if len(result.Missing) != 1 {
		t.Fatalf("Missing = %+v, want 1 entry", result.Missing)
	}
	if result.Missing[0].Field != "final_value" || result.Missing[0].Section != "conclusion" {
		t.Errorf("Missing[0] = %+v", result.Missing[0])
	}
}
