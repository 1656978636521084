// Package risk generates rule-based risk flags and heuristic confidence
// scores for a deal.
package risk

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"dealwise/server/internal/models"
	"dealwise/server/internal/scoring"
)

// Lease terms below this many years start to impair mortgageability and
// resale value.
const shortLeaseYears = 85

// Engine evaluates a fixed, order-independent rule set against a property
// and its assumptions. Rules are grouped by severity only for display.
type Engine struct {
	logger *logrus.Logger
}

func NewEngine(logger *logrus.Logger) *Engine {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}
	return &Engine{logger: logger}
}

// AssessRisk runs every rule and both scoring policies. It never fails:
// missing data degrades the scores instead.
func (e *Engine) AssessRisk(property models.Property, assumptions models.StrategyAssumptions,
	activeStrategy models.StrategyType) models.RiskAssessment {

	var income models.IncomeExpenses
	if assumptions != nil {
		income = assumptions.IncomeExpenses()
	}

	flags := e.evaluateFlags(property, income, activeStrategy)

	assessment := models.RiskAssessment{
		Flags:          flags,
		OverallScore:   e.overallScore(property, assumptions, income),
		DataConfidence: e.dataConfidence(property),
	}

	e.logger.WithFields(logrus.Fields{
		"flags":           len(assessment.Flags),
		"overall_score":   assessment.OverallScore,
		"data_confidence": assessment.DataConfidence,
	}).Debug("Assessed deal risk")

	return assessment
}

func (e *Engine) evaluateFlags(property models.Property, income models.IncomeExpenses,
	activeStrategy models.StrategyType) []models.RiskFlag {

	var flags []models.RiskFlag

	if property.Tenure == models.TenureLeasehold && property.LeaseYears != nil && *property.LeaseYears < shortLeaseYears {
		flags = append(flags, models.RiskFlag{
			ID:       "short-lease",
			Severity: models.SeverityDanger,
			Title:    "Short Lease",
			Description: fmt.Sprintf("The lease has %d years remaining. Leases under %d years "+
				"restrict mortgage options and depress resale value.", *property.LeaseYears, shortLeaseYears),
			Recommendation: "Obtain a lease extension quote before exchange and factor the cost into the offer.",
		})
	}

	if property.Tenure == models.TenureLeasehold && property.GroundRent != nil &&
		*property.GroundRent > property.AskingPrice*0.001 {
		flags = append(flags, models.RiskFlag{
			ID:       "escalating-ground-rent",
			Severity: models.SeverityWarning,
			Title:    "Escalating Ground Rent",
			Description: fmt.Sprintf("Ground rent of £%.0f exceeds 0.1%% of the asking price, "+
				"a level many lenders treat as onerous.", *property.GroundRent),
			Recommendation: "Review the lease for doubling clauses and check lender criteria.",
		})
	}

	// A missing rent estimate leaves the 20% comparison without a
	// denominator; the gap is scored through overallScore instead.
	if property.ServiceCharge != nil && income.GrossMonthlyRent > 0 &&
		*property.ServiceCharge > income.GrossMonthlyRent*0.20 {
		flags = append(flags, models.RiskFlag{
			ID:       "high-service-charge",
			Severity: models.SeverityWarning,
			Title:    "High Service Charge",
			Description: fmt.Sprintf("The service charge of £%.0f/month is more than 20%% of the "+
				"expected rent and will erode net cashflow.", *property.ServiceCharge),
			Recommendation: "Request three years of service charge accounts and any planned major works.",
		})
	}

	if property.IsArticle4 {
		flags = append(flags, models.RiskFlag{
			ID:       "article-4-area",
			Severity: models.SeverityWarning,
			Title:    "Article 4 Area",
			Description: "The property sits in an Article 4 direction area: converting to an HMO " +
				"requires full planning permission rather than permitted development rights.",
			Recommendation: "Check the local authority's HMO licensing and planning policy before relying on HMO income.",
		})
	}

	if activeStrategy == models.StrategySA && income.OccupancyRate < 55 {
		flags = append(flags, models.RiskFlag{
			ID:       "low-sa-occupancy",
			Severity: models.SeverityDanger,
			Title:    "Low SA Occupancy",
			Description: fmt.Sprintf("An assumed occupancy of %.0f%% is below the level at which "+
				"serviced accommodation typically covers its costs.", income.OccupancyRate),
			Recommendation: "Validate nightly rates and seasonal occupancy against local booking data.",
		})
	}

	return flags
}

// overallScore starts every deal at 70 and deducts for data gaps.
func (e *Engine) overallScore(property models.Property, assumptions models.StrategyAssumptions,
	income models.IncomeExpenses) float64 {

	refurbMissing := true
	if assumptions != nil {
		switch a := assumptions.(type) {
		case *models.PurchaseAssumptions:
			refurbMissing = a.Costs.RefurbishmentCost == 0
		case *models.HMOAssumptions:
			refurbMissing = a.Costs.RefurbishmentCost == 0
		case *models.BRRRAssumptions:
			refurbMissing = a.Costs.RefurbishmentCost == 0
		case *models.R2RAssumptions:
			refurbMissing = a.Costs.RefurbishmentCost == 0
		}
	}

	policy := scoring.Policy{
		Base: 70,
		Adjustments: []scoring.Adjustment{
			{Name: "manual data entry", Points: -10, Met: property.Source == models.SourceManual},
			{Name: "no refurbishment estimate", Points: -10, Met: refurbMissing},
			{Name: "no rent estimate", Points: -10, Met: income.GrossMonthlyRent == 0},
			{Name: "no insurance estimate", Points: -10, Met: income.InsuranceMonthly == 0},
		},
	}
	return policy.Score()
}

// dataConfidence scores how well-evidenced the property record is.
func (e *Engine) dataConfidence(property models.Property) models.ConfidenceLevel {
	policy := scoring.Policy{
		Base: 30,
		Adjustments: []scoring.Adjustment{
			{Name: "verified source URL", Points: 20, Met: property.SourceURL != ""},
			{Name: "lease details", Points: 15, Met: property.Tenure == models.TenureFreehold || property.LeaseYears != nil},
			{Name: "service charge data", Points: 10, Met: property.ServiceCharge != nil},
			{Name: "description", Points: 10, Met: property.Description != ""},
			{Name: "five or more images", Points: 15, Met: len(property.Images) >= 5},
			{Name: "two or more images", Points: 8, Met: len(property.Images) >= 2 && len(property.Images) < 5},
		},
	}
	return scoring.Label(policy.Score(), 80, 50)
}

// ScoreLabel maps an overall score to its display band. The label is
// cosmetic; the score itself is authoritative.
func ScoreLabel(score float64) models.ConfidenceLevel {
	return scoring.Label(score, 70, 40)
}
