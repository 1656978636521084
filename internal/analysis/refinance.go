package analysis

import "dealwise/server/internal/models"

// Default refinance parameters applied when the caller leaves them unset.
const (
	DefaultGDVUplift    = 1.25
	DefaultRefinanceLTV = 75.0
)

// RefinanceModel captures the post-refurbishment refinance of a BRRR deal.
type RefinanceModel struct {
	PurchasePrice float64
	RefurbCost    float64
	GDV           float64
	RefinanceLTV  float64
	RefinanceRate float64
}

// NewRefinanceModel builds a model from the deal's assumptions, applying the
// default GDV uplift and refinance LTV where the assumptions leave them out.
func NewRefinanceModel(costs models.AcquisitionCosts, refinance models.RefinanceAssumptions) RefinanceModel {
	m := RefinanceModel{
		PurchasePrice: costs.PurchasePrice,
		RefurbCost:    costs.RefurbishmentCost,
		RefinanceLTV:  refinance.RefinanceLTV,
		RefinanceRate: refinance.RefinanceRate,
	}

	if refinance.GDV != nil {
		m.GDV = *refinance.GDV
	} else {
		m.GDV = costs.PurchasePrice * DefaultGDVUplift
	}
	if m.RefinanceLTV == 0 {
		m.RefinanceLTV = DefaultRefinanceLTV
	}

	return m
}

// Compute runs the capital-recycling math. CashLeftIn and RecycledCapital
// are both floored at zero; at most one of them is positive. AllMoneyOut
// marks the regime where the refinance returns the full cash invested.
func (m RefinanceModel) Compute() models.RefinanceSummary {
	totalInvested := m.PurchasePrice + m.RefurbCost
	newMortgage := m.GDV * m.RefinanceLTV / 100

	cashLeftIn := totalInvested - newMortgage
	if cashLeftIn < 0 {
		cashLeftIn = 0
	}

	recycled := newMortgage - totalInvested
	if recycled < 0 {
		recycled = 0
	}

	return models.RefinanceSummary{
		GDV:               m.GDV,
		TotalInvested:     totalInvested,
		NewMortgageAmount: newMortgage,
		CashLeftIn:        cashLeftIn,
		RecycledCapital:   recycled,
		EquityCreated:     m.GDV - totalInvested,
		AllMoneyOut:       cashLeftIn == 0,
	}
}
