// Package store holds the authoritative valuation snapshot. A Store is
// assembled exactly once per report run from the calculation engine's output
// and is the single numeric ground truth for every validator and for report
// generation. All fields are unexported and every accessor returns a copy,
// so mutation after construction is a compile-time impossibility.
package store

import (
	"fmt"
	"math"
	"strings"

	"github.com/blueboyrocks/valcheck/internal/models"
)

// WeightTolerance is the floating-point tolerance for the approach-weight
// sum invariant (income + market + asset == 1.0).
const WeightTolerance = 1e-9

// IntegrityError reports a construction-time data defect. It carries the
// exact list of missing or invalid fields so the failure is immediately
// actionable, never a generic message.
type IntegrityError struct {
	MissingFields []string
	Violations    []string
}

func (e *IntegrityError) Error() string {
	var parts []string
	if len(e.MissingFields) > 0 {
		parts = append(parts, fmt.Sprintf("missing or invalid required fields: %s", strings.Join(e.MissingFields, ", ")))
	}
	if len(e.Violations) > 0 {
		parts = append(parts, fmt.Sprintf("invariant violations: %s", strings.Join(e.Violations, "; ")))
	}
	if len(parts) == 0 {
		return "valuation snapshot integrity error"
	}
	return "valuation snapshot integrity: " + strings.Join(parts, "; ")
}

// Store is the frozen valuation snapshot. Construct with New; a corrected
// valuation requires constructing a new Store from a new payload.
type Store struct {
	financial    models.FinancialData
	valuation    models.ValuationResults
	company      models.CompanyProfile
	balanceSheet models.BalanceSheet
	metadata     models.ReportMetadata
	risk         models.RiskAssessment
	dataQuality  models.DataQuality
}

// New validates the payload and constructs the snapshot. It fails with an
// *IntegrityError naming every defect unless the final concluded value,
// the current-period revenue, and the weighted SDE are all positive and the
// approach weights sum to 1.0 within tolerance.
func New(payload *models.ValuationPayload) (*Store, error) {
	if payload == nil {
		return nil, &IntegrityError{MissingFields: []string{"payload"}}
	}

	integrity := &IntegrityError{}

	if payload.Valuation.FinalValue <= 0 {
		integrity.MissingFields = append(integrity.MissingFields, "valuation.final_value")
	}
	if payload.Financial.Revenue <= 0 {
		integrity.MissingFields = append(integrity.MissingFields, "financial.revenue")
	}
	if payload.Financial.WeightedSDE <= 0 {
		integrity.MissingFields = append(integrity.MissingFields, "financial.weighted_sde")
	}

	weightSum := payload.Valuation.IncomeWeight + payload.Valuation.MarketWeight + payload.Valuation.AssetWeight
	if math.Abs(weightSum-1.0) > WeightTolerance {
		integrity.Violations = append(integrity.Violations,
			fmt.Sprintf("approach weights sum to %.12f, want 1.0", weightSum))
	}

	if len(integrity.MissingFields) > 0 || len(integrity.Violations) > 0 {
		return nil, integrity
	}

	return &Store{
		financial:    copyFinancial(payload.Financial),
		valuation:    payload.Valuation,
		company:      payload.Company,
		balanceSheet: copyBalanceSheet(payload.BalanceSheet),
		metadata:     payload.Metadata,
		risk:         copyRisk(payload.Risk),
		dataQuality:  copyDataQuality(payload.DataQuality),
	}, nil
}

// Financial returns a copy of the financial section.
func (s *Store) Financial() models.FinancialData {
	return copyFinancial(s.financial)
}

// Valuation returns a copy of the valuation section.
func (s *Store) Valuation() models.ValuationResults {
	return s.valuation
}

// Company returns a copy of the company section.
func (s *Store) Company() models.CompanyProfile {
	return s.company
}

// BalanceSheet returns a copy of the balance-sheet section.
func (s *Store) BalanceSheet() models.BalanceSheet {
	return copyBalanceSheet(s.balanceSheet)
}

// Metadata returns a copy of the metadata section.
func (s *Store) Metadata() models.ReportMetadata {
	return s.metadata
}

// Risk returns a copy of the risk section.
func (s *Store) Risk() models.RiskAssessment {
	return copyRisk(s.risk)
}

// RiskRating returns the qualitative rating derived from the risk score.
func (s *Store) RiskRating() models.RiskRating {
	return models.RiskRatingFor(s.risk.OverallScore)
}

// DataQuality returns a copy of the data-quality section.
func (s *Store) DataQuality() models.DataQuality {
	return copyDataQuality(s.dataQuality)
}

// FinalValue returns the concluded valuation.
func (s *Store) FinalValue() float64 {
	return s.valuation.FinalValue
}

// CurrentRevenue returns the current-period revenue.
func (s *Store) CurrentRevenue() float64 {
	return s.financial.Revenue
}

// WeightedSDE returns the weighted/normalized SDE benefit stream.
func (s *Store) WeightedSDE() float64 {
	return s.financial.WeightedSDE
}

// ImpliedSDEMultiple returns final value / weighted SDE, the sanity ratio
// the range validators check against industry bounds.
func (s *Store) ImpliedSDEMultiple() float64 {
	if s.financial.WeightedSDE <= 0 {
		return 0
	}
	return s.valuation.FinalValue / s.financial.WeightedSDE
}

func copyYears(years []models.YearValue) []models.YearValue {
	if years == nil {
		return nil
	}
	out := make([]models.YearValue, len(years))
	copy(out, years)
	return out
}

func copyFinancial(f models.FinancialData) models.FinancialData {
	f.RevenueByYear = copyYears(f.RevenueByYear)
	f.SDEByYear = copyYears(f.SDEByYear)
	f.EBITDAByYear = copyYears(f.EBITDAByYear)
	f.NetIncomeByYear = copyYears(f.NetIncomeByYear)
	return f
}

func copyBalanceSheet(b models.BalanceSheet) models.BalanceSheet {
	if b.LineItems != nil {
		items := make([]models.BalanceLineItem, len(b.LineItems))
		copy(items, b.LineItems)
		b.LineItems = items
	}
	return b
}

func copyRisk(r models.RiskAssessment) models.RiskAssessment {
	if r.Factors != nil {
		factors := make([]models.RiskFactor, len(r.Factors))
		copy(factors, r.Factors)
		r.Factors = factors
	}
	return r
}

func copyDataQuality(d models.DataQuality) models.DataQuality {
	if d.MissingFields != nil {
		fields := make([]string, len(d.MissingFields))
		copy(fields, d.MissingFields)
		d.MissingFields = fields
	}
	return d
}
