package models

import "time"

// ValuationPayload is the inbound document assembled from the calculation
// engine's output plus the facts harvested by the earlier extraction passes.
// It is the raw material for the immutable valuation snapshot. Identity
// fields are deliberately not rejected at construction; the validation
// engine's schema check reports them as findings instead.
type ValuationPayload struct {
	Financial    FinancialData    `json:"financial"`
	Valuation    ValuationResults `json:"valuation"`
	Company      CompanyProfile   `json:"company"`
	BalanceSheet BalanceSheet     `json:"balance_sheet"`
	Metadata     ReportMetadata   `json:"metadata"`
	Risk         RiskAssessment   `json:"risk"`
	DataQuality  DataQuality      `json:"data_quality"`
}

// YearValue is one period of a per-year series, newest first.
type YearValue struct {
	Period string  `json:"period"`
	Value  float64 `json:"value"`
}

// FinancialData holds the normalized income-statement figures and the
// per-year buildup series produced by the calculation engine.
type FinancialData struct {
	Revenue        float64 `json:"revenue"`
	COGS           float64 `json:"cogs"`
	GrossProfit    float64 `json:"gross_profit"`
	SDE            float64 `json:"sde"`
	EBITDA         float64 `json:"ebitda"`
	NetIncome      float64 `json:"net_income"`
	OwnerAddBacks  float64 `json:"owner_add_backs"`
	WeightedSDE    float64 `json:"weighted_sde"`
	WeightedEBITDA float64 `json:"weighted_ebitda"`

	// Per-year series ordered newest first (current, prior-1, prior-2, ...).
	RevenueByYear   []YearValue `json:"revenue_by_year,omitempty"`
	SDEByYear       []YearValue `json:"sde_by_year,omitempty"`
	EBITDAByYear    []YearValue `json:"ebitda_by_year,omitempty"`
	NetIncomeByYear []YearValue `json:"net_income_by_year,omitempty"`
}

// ValuationResults holds the three approach values and the synthesis.
type ValuationResults struct {
	AssetApproachValue  float64 `json:"asset_approach_value"`
	IncomeApproachValue float64 `json:"income_approach_value"`
	MarketApproachValue float64 `json:"market_approach_value"`
	PreliminaryValue    float64 `json:"preliminary_value"`
	FinalValue          float64 `json:"final_value"`
	ValueLow            float64 `json:"value_low"`
	ValueHigh           float64 `json:"value_high"`
	SelectedMultiple    float64 `json:"selected_multiple"`
	CapitalizationRate  float64 `json:"capitalization_rate"`

	// Approach weights, must sum to 1.0 within floating-point tolerance.
	IncomeWeight float64 `json:"income_weight"`
	MarketWeight float64 `json:"market_weight"`
	AssetWeight  float64 `json:"asset_weight"`

	DLOMPercent float64 `json:"dlom_percent"`
	DLOMAmount  float64 `json:"dlom_amount"`
	DLOCPercent float64 `json:"dloc_percent"`
	DLOCAmount  float64 `json:"dloc_amount"`
}

// CompanyProfile holds the company identity facts from the extraction passes.
type CompanyProfile struct {
	Name                string `json:"name"`
	IndustryDescription string `json:"industry_description"`
	NAICSCode           string `json:"naics_code"`
	SICCode             string `json:"sic_code,omitempty"`
	EntityType          string `json:"entity_type,omitempty"`
	FiscalYearEnd       string `json:"fiscal_year_end,omitempty"`
	Location            string `json:"location,omitempty"`
	YearsInBusiness     int    `json:"years_in_business,omitempty"`
}

// BalanceLineItem is one component line of the balance sheet.
type BalanceLineItem struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// BalanceSheet holds the balance-sheet totals and component lines.
type BalanceSheet struct {
	TotalAssets      float64           `json:"total_assets"`
	TotalLiabilities float64           `json:"total_liabilities"`
	TotalEquity      float64           `json:"total_equity"`
	LineItems        []BalanceLineItem `json:"line_items,omitempty"`
}

// ReportMetadata holds the run provenance.
type ReportMetadata struct {
	ValuationDate string    `json:"valuation_date"`
	ReportDate    string    `json:"report_date"`
	GeneratedAt   time.Time `json:"generated_at"`
	EngineVersion string    `json:"engine_version"`
	StepCount     int       `json:"step_count"`
}

// RiskFactor is one weighted contributor to the overall risk score.
type RiskFactor struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
	Score  float64 `json:"score"`
}

// RiskAssessment holds the overall risk score (0-100) and its factors.
// The qualitative rating is derived, never stored.
type RiskAssessment struct {
	OverallScore float64      `json:"overall_score"`
	Factors      []RiskFactor `json:"factors,omitempty"`
}

// DataQuality describes how complete the source data was.
type DataQuality struct {
	CompletenessScore float64  `json:"completeness_score"`
	YearsOfData       int      `json:"years_of_data"`
	MissingFields     []string `json:"missing_fields,omitempty"`
}
