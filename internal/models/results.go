package models

import "time"

// ConfidenceLevel is the qualitative label attached to a numeric confidence
// or risk score.
type ConfidenceLevel string

const (
	ConfidenceHigh   ConfidenceLevel = "high"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceLow    ConfidenceLevel = "low"
)

// RefinanceSummary is the outcome of the BRRR capital-recycling model.
// AllMoneyOut marks the regime where the refinance returns the full cash
// invested; ROI is not meaningful there and callers must not divide by the
// zero cash left in.
type RefinanceSummary struct {
	GDV               float64 `json:"gdv"`
	TotalInvested     float64 `json:"total_invested"`
	NewMortgageAmount float64 `json:"new_mortgage_amount"`
	CashLeftIn        float64 `json:"cash_left_in"`
	RecycledCapital   float64 `json:"recycled_capital"`
	EquityCreated     float64 `json:"equity_created"`
	AllMoneyOut       bool    `json:"all_money_out"`
}

// AnalysisResults are the comparable financial metrics produced for one
// strategy. NetYield is computed identically to ROI and is kept as an alias
// for older consumers; it is not an independent metric. A nil PaybackMonths
// means the deal never pays back out of cashflow.
type AnalysisResults struct {
	Strategy               StrategyType      `json:"strategy"`
	TotalInvestment        float64           `json:"total_investment"`
	TotalCashRequired      float64           `json:"total_cash_required"`
	MonthlyMortgagePayment float64           `json:"monthly_mortgage_payment"`
	MonthlyCashflow        float64           `json:"monthly_cashflow"`
	AnnualProfit           float64           `json:"annual_profit"`
	ROI                    float64           `json:"roi"`
	GrossYield             float64           `json:"gross_yield"`
	NetYield               float64           `json:"net_yield"`
	PaybackMonths          *float64          `json:"payback_months"`
	Refinance              *RefinanceSummary `json:"refinance,omitempty"`
}

// RiskSeverity orders flags for display grouping.
type RiskSeverity string

const (
	SeverityDanger  RiskSeverity = "danger"
	SeverityWarning RiskSeverity = "warning"
	SeverityInfo    RiskSeverity = "info"
)

type RiskFlag struct {
	ID             string       `json:"id"`
	Severity       RiskSeverity `json:"severity"`
	Title          string       `json:"title"`
	Description    string       `json:"description"`
	Recommendation string       `json:"recommendation,omitempty"`
}

type RiskAssessment struct {
	Flags          []RiskFlag      `json:"flags"`
	OverallScore   float64         `json:"overall_score"`
	DataConfidence ConfidenceLevel `json:"data_confidence"`
}

// ComparableData is the regional benchmark for a property, adjusted for its
// type and bedroom count.
type ComparableData struct {
	AreaAveragePrice     float64         `json:"area_average_price"`
	PricePerSqft         float64         `json:"price_per_sqft"`
	YearOnYearChange     float64         `json:"year_on_year_change"`
	RentalYieldBenchmark float64         `json:"rental_yield_benchmark"`
	AverageRent          float64         `json:"average_rent"`
	DataDate             time.Time       `json:"data_date"`
	Confidence           ConfidenceLevel `json:"confidence"`
	Source               string          `json:"source"`
}

// InsightType classifies a market insight.
type InsightType string

const (
	InsightOpportunity InsightType = "opportunity"
	InsightRisk        InsightType = "risk"
	InsightNeutral     InsightType = "neutral"
)

type MarketInsight struct {
	Type        InsightType `json:"type"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
}

// IntelligenceReport aggregates comparables and insights into a summary for
// the presentation layer and the investor-pack exporter.
type IntelligenceReport struct {
	Comparables     ComparableData  `json:"comparables"`
	Insights        []MarketInsight `json:"insights"`
	TopDrivers      []string        `json:"top_drivers"`
	TopRisks        []string        `json:"top_risks"`
	ConfidenceScore float64         `json:"confidence_score"`
}
