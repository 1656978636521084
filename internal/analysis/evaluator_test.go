package analysis

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"dealwise/server/internal/models"
)

func testProperty(askingPrice float64) models.Property {
	return models.Property{
		Address:      models.Address{Line1: "12 Mill Lane", City: "Manchester", Postcode: "M4 5AB"},
		Bedrooms:     3,
		PropertyType: models.PropertyTypeTerraced,
		AskingPrice:  askingPrice,
		Tenure:       models.TenureFreehold,
		Source:       models.SourceScraped,
	}
}

func TestEvaluate_BTLEndToEnd(t *testing.T) {
	evaluator := NewEvaluator(logrus.New())

	assumptions := &models.PurchaseAssumptions{
		Strategy: models.StrategyBTL,
		Costs: models.AcquisitionCosts{
			PurchasePrice: 200000,
		},
		Income: models.IncomeExpenses{
			GrossMonthlyRent:   1200,
			OccupancyRate:      95,
			ManagementFeeRate:  10,
			InsuranceMonthly:   30,
			MaintenanceMonthly: 50,
		},
		Mortgage: &models.MortgageDetails{
			LTV:            75,
			InterestRate:   5.5,
			TermYears:      25,
			IsInterestOnly: true,
		},
	}

	results, err := evaluator.Evaluate(testProperty(200000), assumptions)
	assert.NoError(t, err)

	assert.Equal(t, models.StrategyBTL, results.Strategy)
	assert.InDelta(t, 50000, results.TotalCashRequired, 0.01) // deposit only, no fees set
	assert.InDelta(t, 687.50, results.MonthlyMortgagePayment, 0.01)
	// 1200×0.95 − 120 − 30 − 50 − 687.50
	assert.InDelta(t, 252.50, results.MonthlyCashflow, 0.01)
	assert.InDelta(t, 3030, results.AnnualProfit, 0.01)
	assert.InDelta(t, 7.2, results.GrossYield, 0.01)
	assert.InDelta(t, 6.06, results.ROI, 0.01)
	assert.Equal(t, results.ROI, results.NetYield)
	if assert.NotNil(t, results.PaybackMonths) {
		assert.InDelta(t, 198.02, *results.PaybackMonths, 0.01)
	}
}

func TestEvaluate_ExplicitManagementFeeOverridesRate(t *testing.T) {
	evaluator := NewEvaluator(nil)

	assumptions := &models.PurchaseAssumptions{
		Strategy: models.StrategyBTL,
		Costs:    models.AcquisitionCosts{PurchasePrice: 100000},
		Income: models.IncomeExpenses{
			GrossMonthlyRent:     1000,
			OccupancyRate:        100,
			ManagementFeeRate:    10,
			ManagementFeeMonthly: 75,
		},
	}

	results, err := evaluator.Evaluate(testProperty(100000), assumptions)
	assert.NoError(t, err)
	assert.InDelta(t, 925, results.MonthlyCashflow, 0.01)
}

func TestEvaluate_NoPaybackSentinel(t *testing.T) {
	evaluator := NewEvaluator(nil)

	assumptions := &models.PurchaseAssumptions{
		Strategy: models.StrategyBTL,
		Costs:    models.AcquisitionCosts{PurchasePrice: 100000},
		Income: models.IncomeExpenses{
			GrossMonthlyRent: 500,
			OccupancyRate:    100,
			InsuranceMonthly: 600, // costs exceed income
		},
	}

	results, err := evaluator.Evaluate(testProperty(100000), assumptions)
	assert.NoError(t, err)
	assert.Less(t, results.MonthlyCashflow, 0.0)
	assert.Nil(t, results.PaybackMonths)
}

func TestEvaluate_ZeroCashRequiredROIIsZero(t *testing.T) {
	evaluator := NewEvaluator(nil)

	// No purchase price and no fees: nothing invested, ROI pinned to zero.
	assumptions := &models.PurchaseAssumptions{
		Strategy: models.StrategyBTL,
		Income: models.IncomeExpenses{
			GrossMonthlyRent: 800,
			OccupancyRate:    100,
		},
	}

	results, err := evaluator.Evaluate(testProperty(0), assumptions)
	assert.NoError(t, err)
	assert.Equal(t, 0.0, results.TotalCashRequired)
	assert.Equal(t, 0.0, results.ROI)
	assert.Equal(t, 0.0, results.GrossYield)
}

func TestEvaluate_HMORentDerivedFromRooms(t *testing.T) {
	evaluator := NewEvaluator(nil)

	assumptions := &models.HMOAssumptions{
		Costs: models.AcquisitionCosts{PurchasePrice: 180000},
		Rooms: []models.Room{
			{Name: "Room 1", MonthlyRent: 550},
			{Name: "Room 2", MonthlyRent: 500},
			{Name: "Room 3", MonthlyRent: 475},
			{Name: "Room 4", MonthlyRent: 475},
		},
		Income: models.IncomeExpenses{
			GrossMonthlyRent: 999999, // must be ignored in favour of the room sum
			OccupancyRate:    100,
		},
	}

	assert.InDelta(t, 2000, assumptions.GrossMonthlyRent(), 0.01)

	results, err := evaluator.Evaluate(testProperty(180000), assumptions)
	assert.NoError(t, err)
	assert.InDelta(t, 2000, results.MonthlyCashflow, 0.01)
	// gross yield on the derived rent: 2000×12/180000×100
	assert.InDelta(t, 13.33, results.GrossYield, 0.01)
}

func TestHMOAssumptions_RemoveLastRoomRejected(t *testing.T) {
	assumptions := &models.HMOAssumptions{
		Rooms: []models.Room{{Name: "Room 1", MonthlyRent: 500}},
	}

	err := assumptions.RemoveRoom(0)
	assert.ErrorIs(t, err, models.ErrLastRoom)
	assert.Len(t, assumptions.Rooms, 1)

	assumptions.AddRoom(models.Room{Name: "Room 2", MonthlyRent: 450})
	err = assumptions.RemoveRoom(0)
	assert.NoError(t, err)
	assert.Len(t, assumptions.Rooms, 1)
	assert.Equal(t, "Room 2", assumptions.Rooms[0].Name)
}

func TestEvaluate_R2R(t *testing.T) {
	evaluator := NewEvaluator(nil)

	assumptions := &models.R2RAssumptions{
		Costs: models.R2RCosts{
			RentToOwner:   800,
			SourcingFee:   3000,
			LegalFees:     500,
			FurnitureCost: 2500,
		},
		Income: models.IncomeExpenses{
			GrossMonthlyRent: 1500,
			OccupancyRate:    90,
			UtilitiesMonthly: 150,
		},
	}

	results, err := evaluator.Evaluate(testProperty(0), assumptions)
	assert.NoError(t, err)

	assert.InDelta(t, 6000, results.TotalCashRequired, 0.01)
	assert.Equal(t, 0.0, results.MonthlyMortgagePayment)
	// 1500×0.9 − 150 − 800
	assert.InDelta(t, 400, results.MonthlyCashflow, 0.01)
	assert.InDelta(t, 80, results.ROI, 0.01) // 4800/6000×100
}

func TestEvaluate_UnknownAssumptionsType(t *testing.T) {
	evaluator := NewEvaluator(nil)

	_, err := evaluator.Evaluate(testProperty(100000), nil)
	assert.Error(t, err)
}

func TestEvaluateAll(t *testing.T) {
	evaluator := NewEvaluator(nil)

	deal := &models.Deal{
		Property: testProperty(150000),
		Strategies: models.StrategyMap{
			models.StrategyBTL: &models.PurchaseAssumptions{
				Strategy: models.StrategyBTL,
				Costs:    models.AcquisitionCosts{PurchasePrice: 150000},
				Income:   models.IncomeExpenses{GrossMonthlyRent: 900, OccupancyRate: 95},
			},
			models.StrategyR2R: &models.R2RAssumptions{
				Costs:  models.R2RCosts{RentToOwner: 700, SourcingFee: 2000},
				Income: models.IncomeExpenses{GrossMonthlyRent: 1200, OccupancyRate: 90},
			},
		},
	}

	results, err := evaluator.EvaluateAll(deal)
	assert.NoError(t, err)
	assert.Len(t, results, 2)
	assert.Equal(t, models.StrategyBTL, results[models.StrategyBTL].Strategy)
	assert.Equal(t, models.StrategyR2R, results[models.StrategyR2R].Strategy)
}

func TestEvaluate_DerivesStampDutyWhenUnset(t *testing.T) {
	evaluator := NewEvaluator(nil)

	assumptions := &models.PurchaseAssumptions{
		Strategy: models.StrategyBTL,
		Costs: models.AcquisitionCosts{
			PurchasePrice:        300000,
			IsAdditionalProperty: true,
		},
		Income: models.IncomeExpenses{GrossMonthlyRent: 1400, OccupancyRate: 100},
		Mortgage: &models.MortgageDetails{
			LTV:            75,
			InterestRate:   5,
			IsInterestOnly: true,
		},
	}

	results, err := evaluator.Evaluate(testProperty(300000), assumptions)
	assert.NoError(t, err)

	// deposit 75,000 + derived surcharged duty 11,500
	assert.InDelta(t, 86500, results.TotalCashRequired, 0.01)
	assert.InDelta(t, 311500, results.TotalInvestment, 0.01)

	// an explicit figure wins over derivation
	assumptions.Costs.StampDuty = 5000
	results, err = evaluator.Evaluate(testProperty(300000), assumptions)
	assert.NoError(t, err)
	assert.InDelta(t, 80000, results.TotalCashRequired, 0.01)
}

func TestEvaluate_BRRRDerivesStampDuty(t *testing.T) {
	evaluator := NewEvaluator(nil)

	gdv := 330000.0
	assumptions := &models.BRRRAssumptions{
		Costs: models.AcquisitionCosts{
			PurchasePrice:        260000,
			RefurbishmentCost:    20000,
			IsAdditionalProperty: true,
		},
		Income:    models.IncomeExpenses{GrossMonthlyRent: 1500, OccupancyRate: 95},
		Refinance: models.RefinanceAssumptions{GDV: &gdv, RefinanceLTV: 75, RefinanceRate: 6},
	}

	results, err := evaluator.Evaluate(testProperty(260000), assumptions)
	assert.NoError(t, err)

	// 3% to 250k (7,500) + 8% on the remaining 10k (800)
	assert.InDelta(t, 288300, results.TotalInvestment, 0.01)
}
