package models

import (
	"encoding/json"
	"errors"
	"fmt"
)

// StrategyType identifies one of the supported investment strategies.
type StrategyType string

const (
	StrategyBTL  StrategyType = "btl"
	StrategyHMO  StrategyType = "hmo"
	StrategyBRRR StrategyType = "brrr"
	StrategyR2R  StrategyType = "r2r"
	StrategySA   StrategyType = "sa"
	StrategyFlip StrategyType = "flip"
)

var ErrLastRoom = errors.New("an HMO must keep at least one room")

// AcquisitionCosts are the one-off costs of buying a property. A zero
// StampDuty is treated as "not supplied" and derived from the purchase
// price; IsAdditionalProperty selects the surcharged rates.
type AcquisitionCosts struct {
	PurchasePrice        float64 `json:"purchase_price"`
	StampDuty            float64 `json:"stamp_duty"`
	IsAdditionalProperty bool    `json:"is_additional_property"`
	LegalFees            float64 `json:"legal_fees"`
	RefurbishmentCost    float64 `json:"refurbishment_cost"`
	FurnitureCost        float64 `json:"furniture_cost"`
}

// R2RCosts are the setup costs of a rent-to-rent agreement. There is no
// purchase, so no purchase price or stamp duty applies.
type R2RCosts struct {
	RentToOwner       float64 `json:"rent_to_owner"`
	SourcingFee       float64 `json:"sourcing_fee"`
	LegalFees         float64 `json:"legal_fees"`
	RefurbishmentCost float64 `json:"refurbishment_cost"`
	FurnitureCost     float64 `json:"furniture_cost"`
}

// IncomeExpenses holds the recurring monthly income and cost assumptions.
// ManagementFeeMonthly, when set, overrides derivation from ManagementFeeRate.
type IncomeExpenses struct {
	GrossMonthlyRent     float64 `json:"gross_monthly_rent"`
	OccupancyRate        float64 `json:"occupancy_rate"`
	ManagementFeeRate    float64 `json:"management_fee_rate"`
	ManagementFeeMonthly float64 `json:"management_fee_monthly"`
	InsuranceMonthly     float64 `json:"insurance_monthly"`
	CouncilTaxMonthly    float64 `json:"council_tax_monthly"`
	MaintenanceMonthly   float64 `json:"maintenance_monthly"`
	UtilitiesMonthly     float64 `json:"utilities_monthly"`
	OtherMonthlyCosts    float64 `json:"other_monthly_costs"`
}

// MortgageDetails describes the financing of a purchase strategy.
type MortgageDetails struct {
	LTV            float64 `json:"ltv"`
	InterestRate   float64 `json:"interest_rate"`
	TermYears      int     `json:"term_years"`
	ProductFee     float64 `json:"product_fee"`
	IsInterestOnly bool    `json:"is_interest_only"`
}

// Room is a single lettable room in an HMO.
type Room struct {
	Name        string  `json:"name"`
	MonthlyRent float64 `json:"monthly_rent"`
}

// RefinanceAssumptions parameterize the post-refurbishment refinance of a
// BRRR deal. A nil GDV means "apply the default uplift to the purchase price".
type RefinanceAssumptions struct {
	GDV           *float64 `json:"gdv,omitempty"`
	RefinanceLTV  float64  `json:"refinance_ltv"`
	RefinanceRate float64  `json:"refinance_rate"`
}

// StrategyAssumptions is the tagged union of per-strategy inputs. Each
// variant only carries the fields that strategy's evaluator reads.
type StrategyAssumptions interface {
	StrategyType() StrategyType
	IncomeExpenses() IncomeExpenses
}

// PurchaseAssumptions covers the strategies that buy the property outright
// and let it as a single unit: BTL, SA and FLIP.
type PurchaseAssumptions struct {
	Strategy StrategyType     `json:"strategy_type"`
	Costs    AcquisitionCosts `json:"costs"`
	Income   IncomeExpenses   `json:"income"`
	Mortgage *MortgageDetails `json:"mortgage,omitempty"`
}

func (a *PurchaseAssumptions) StrategyType() StrategyType     { return a.Strategy }
func (a *PurchaseAssumptions) IncomeExpenses() IncomeExpenses { return a.Income }

// HMOAssumptions is a purchase let room by room. GrossMonthlyRent is derived
// from the room list and is not independently settable.
type HMOAssumptions struct {
	Costs    AcquisitionCosts `json:"costs"`
	Rooms    []Room           `json:"rooms"`
	Income   IncomeExpenses   `json:"income"`
	Mortgage *MortgageDetails `json:"mortgage,omitempty"`
}

func (a *HMOAssumptions) StrategyType() StrategyType { return StrategyHMO }

// IncomeExpenses returns the income assumptions with GrossMonthlyRent
// replaced by the sum of the room rents.
func (a *HMOAssumptions) IncomeExpenses() IncomeExpenses {
	income := a.Income
	income.GrossMonthlyRent = a.GrossMonthlyRent()
	return income
}

// GrossMonthlyRent sums the rent of every room.
func (a *HMOAssumptions) GrossMonthlyRent() float64 {
	var total float64
	for _, room := range a.Rooms {
		total += room.MonthlyRent
	}
	return total
}

// AddRoom appends a room to the configuration.
func (a *HMOAssumptions) AddRoom(room Room) {
	a.Rooms = append(a.Rooms, room)
}

// RemoveRoom deletes the room at the given index. Removing the last
// remaining room is rejected.
func (a *HMOAssumptions) RemoveRoom(index int) error {
	if index < 0 || index >= len(a.Rooms) {
		return fmt.Errorf("room index %d out of range", index)
	}
	if len(a.Rooms) == 1 {
		return ErrLastRoom
	}
	a.Rooms = append(a.Rooms[:index], a.Rooms[index+1:]...)
	return nil
}

// BRRRAssumptions is a purchase with refurbishment followed by a refinance
// that recycles capital out of the deal.
type BRRRAssumptions struct {
	Costs     AcquisitionCosts     `json:"costs"`
	Income    IncomeExpenses       `json:"income"`
	Mortgage  *MortgageDetails     `json:"mortgage,omitempty"`
	Refinance RefinanceAssumptions `json:"refinance"`
}

func (a *BRRRAssumptions) StrategyType() StrategyType     { return StrategyBRRR }
func (a *BRRRAssumptions) IncomeExpenses() IncomeExpenses { return a.Income }

// R2RAssumptions is a rent-to-rent arrangement. No purchase, no mortgage;
// the monthly rent to the owner takes the mortgage payment's place.
type R2RAssumptions struct {
	Costs  R2RCosts       `json:"costs"`
	Income IncomeExpenses `json:"income"`
}

func (a *R2RAssumptions) StrategyType() StrategyType     { return StrategyR2R }
func (a *R2RAssumptions) IncomeExpenses() IncomeExpenses { return a.Income }

// StrategyMap associates at most one set of assumptions with each strategy.
type StrategyMap map[StrategyType]StrategyAssumptions

// UnmarshalAssumptions decodes the variant appropriate for the strategy type.
func UnmarshalAssumptions(strategy StrategyType, data []byte) (StrategyAssumptions, error) {
	switch strategy {
	case StrategyHMO:
		var a HMOAssumptions
		if err := json.Unmarshal(data, &a); err != nil {
			return nil, err
		}
		return &a, nil
	case StrategyBRRR:
		var a BRRRAssumptions
		if err := json.Unmarshal(data, &a); err != nil {
			return nil, err
		}
		return &a, nil
	case StrategyR2R:
		var a R2RAssumptions
		if err := json.Unmarshal(data, &a); err != nil {
			return nil, err
		}
		return &a, nil
	case StrategyBTL, StrategySA, StrategyFlip:
		a := PurchaseAssumptions{Strategy: strategy}
		if err := json.Unmarshal(data, &a); err != nil {
			return nil, err
		}
		a.Strategy = strategy
		return &a, nil
	default:
		return nil, fmt.Errorf("unknown strategy type: %q", strategy)
	}
}

func (m *StrategyMap) UnmarshalJSON(data []byte) error {
	var raw map[StrategyType]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	result := make(StrategyMap, len(raw))
	for strategy, payload := range raw {
		assumptions, err := UnmarshalAssumptions(strategy, payload)
		if err != nil {
			return fmt.Errorf("failed to decode %s assumptions: %w", strategy, err)
		}
		result[strategy] = assumptions
	}

	*m = result
	return nil
}
