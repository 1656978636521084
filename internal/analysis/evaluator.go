// Package analysis computes comparable financial metrics for a deal under
// each of its configured strategies.
package analysis

import (
	"fmt"
	"math"
	"os"

	"github.com/sirupsen/logrus"

	"dealwise/server/internal/models"
	"dealwise/server/internal/mortgage"
	"dealwise/server/internal/tax"
)

// Evaluator produces AnalysisResults for a property under one strategy's
// assumptions. It is stateless beyond its logger and safe for concurrent use.
type Evaluator struct {
	logger *logrus.Logger
}

func NewEvaluator(logger *logrus.Logger) *Evaluator {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}
	return &Evaluator{logger: logger}
}

// Evaluate dispatches to the variant-specific evaluation. Unknown variants
// are a caller error, not a degraded result.
func (e *Evaluator) Evaluate(property models.Property, assumptions models.StrategyAssumptions) (models.AnalysisResults, error) {
	switch a := assumptions.(type) {
	case *models.PurchaseAssumptions:
		return e.evaluatePurchase(a.Strategy, property, a.Costs, a.Income, a.Mortgage), nil
	case *models.HMOAssumptions:
		return e.evaluatePurchase(models.StrategyHMO, property, a.Costs, a.IncomeExpenses(), a.Mortgage), nil
	case *models.BRRRAssumptions:
		return e.evaluateBRRR(property, a), nil
	case *models.R2RAssumptions:
		return e.evaluateR2R(property, a), nil
	default:
		return models.AnalysisResults{}, fmt.Errorf("unsupported assumptions type %T", assumptions)
	}
}

// EvaluateAll runs every strategy configured on a deal.
func (e *Evaluator) EvaluateAll(deal *models.Deal) (map[models.StrategyType]models.AnalysisResults, error) {
	results := make(map[models.StrategyType]models.AnalysisResults, len(deal.Strategies))
	for strategyType, assumptions := range deal.Strategies {
		result, err := e.Evaluate(deal.Property, assumptions)
		if err != nil {
			return nil, fmt.Errorf("failed to evaluate %s: %w", strategyType, err)
		}
		results[strategyType] = result
	}
	return results, nil
}

func (e *Evaluator) evaluatePurchase(strategy models.StrategyType, property models.Property,
	costs models.AcquisitionCosts, income models.IncomeExpenses, details *models.MortgageDetails) models.AnalysisResults {

	var loan, deposit, payment, productFee float64
	if details != nil {
		loan = costs.PurchasePrice * details.LTV / 100
		deposit = costs.PurchasePrice - loan
		payment = mortgage.MonthlyPayment(loan, details.InterestRate, details.IsInterestOnly, details.TermYears)
		productFee = details.ProductFee
	} else {
		deposit = costs.PurchasePrice
	}

	duty := stampDuty(costs)
	totalCashRequired := deposit + duty + costs.LegalFees +
		costs.RefurbishmentCost + costs.FurnitureCost
	totalInvestment := costs.PurchasePrice + duty + costs.LegalFees +
		costs.RefurbishmentCost + costs.FurnitureCost + productFee

	results := e.buildResults(strategy, property, income, totalInvestment, totalCashRequired, payment)

	e.logger.WithFields(logrus.Fields{
		"strategy":         strategy,
		"total_cash":       results.TotalCashRequired,
		"monthly_cashflow": results.MonthlyCashflow,
	}).Debug("Evaluated purchase strategy")

	return results
}

func (e *Evaluator) evaluateBRRR(property models.Property, a *models.BRRRAssumptions) models.AnalysisResults {
	summary := NewRefinanceModel(a.Costs, a.Refinance).Compute()

	// Post-refinance the deal carries the new mortgage; interest-only is the
	// norm for refinanced rental stock unless the assumptions say otherwise.
	interestOnly := true
	termYears := 0
	if a.Mortgage != nil {
		interestOnly = a.Mortgage.IsInterestOnly
		termYears = a.Mortgage.TermYears
	}
	payment := mortgage.MonthlyPayment(summary.NewMortgageAmount, a.Refinance.RefinanceRate, interestOnly, termYears)

	totalInvestment := a.Costs.PurchasePrice + stampDuty(a.Costs) + a.Costs.LegalFees +
		a.Costs.RefurbishmentCost + a.Costs.FurnitureCost

	// Capital recycling: the cash judged against returns is only what the
	// refinance failed to pull back out.
	results := e.buildResults(models.StrategyBRRR, property, a.Income,
		totalInvestment, summary.CashLeftIn, payment)
	results.Refinance = &summary

	if summary.AllMoneyOut {
		e.logger.WithFields(logrus.Fields{
			"gdv":              summary.GDV,
			"recycled_capital": summary.RecycledCapital,
		}).Debug("BRRR refinance recycles all capital; ROI reported as zero with all_money_out set")
	}

	return results
}

func (e *Evaluator) evaluateR2R(property models.Property, a *models.R2RAssumptions) models.AnalysisResults {
	totalCashRequired := a.Costs.SourcingFee + a.Costs.LegalFees +
		a.Costs.RefurbishmentCost + a.Costs.FurnitureCost

	// The rent paid to the owner takes the mortgage payment's place in the
	// monthly outgoings.
	income := a.Income
	income.OtherMonthlyCosts += a.Costs.RentToOwner

	return e.buildResults(models.StrategyR2R, property, income,
		totalCashRequired, totalCashRequired, 0)
}

// buildResults applies the common cash-flow and return math shared by every
// strategy.
func (e *Evaluator) buildResults(strategy models.StrategyType, property models.Property,
	income models.IncomeExpenses, totalInvestment, totalCashRequired, mortgagePayment float64) models.AnalysisResults {

	grossMonthlyIncome := income.GrossMonthlyRent * income.OccupancyRate / 100
	monthlyOpex := managementFee(income) + income.InsuranceMonthly +
		income.MaintenanceMonthly + income.CouncilTaxMonthly +
		income.UtilitiesMonthly + income.OtherMonthlyCosts

	monthlyCashflow := grossMonthlyIncome - monthlyOpex - mortgagePayment
	annualProfit := monthlyCashflow * 12

	var roi float64
	if totalCashRequired > 0 {
		roi = annualProfit / totalCashRequired * 100
	}

	var grossYield float64
	if property.AskingPrice > 0 {
		grossYield = income.GrossMonthlyRent * 12 / property.AskingPrice * 100
	}

	var payback *float64
	if monthlyCashflow > 0 {
		months := round2(totalCashRequired / monthlyCashflow)
		payback = &months
	}

	return models.AnalysisResults{
		Strategy:               strategy,
		TotalInvestment:        round2(totalInvestment),
		TotalCashRequired:      round2(totalCashRequired),
		MonthlyMortgagePayment: round2(mortgagePayment),
		MonthlyCashflow:        round2(monthlyCashflow),
		AnnualProfit:           round2(annualProfit),
		ROI:                    round2(roi),
		GrossYield:             round2(grossYield),
		NetYield:               round2(roi),
		PaybackMonths:          payback,
	}
}

// stampDuty resolves the SDLT charge: an explicit figure wins, otherwise it
// is computed from the purchase price at the configured rates.
func stampDuty(costs models.AcquisitionCosts) float64 {
	if costs.StampDuty > 0 {
		return costs.StampDuty
	}
	return tax.ComputeSDLT(costs.PurchasePrice, costs.IsAdditionalProperty)
}

// managementFee resolves the monthly management fee: an explicit monthly
// figure wins, otherwise it is derived from the rate against the full gross
// rent (pre-occupancy, as letting agents charge).
func managementFee(income models.IncomeExpenses) float64 {
	if income.ManagementFeeMonthly > 0 {
		return income.ManagementFeeMonthly
	}
	if income.ManagementFeeRate > 0 {
		return math.Round(income.GrossMonthlyRent * income.ManagementFeeRate / 100)
	}
	return 0
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}
