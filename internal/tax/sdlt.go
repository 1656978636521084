// Package tax computes UK Stamp Duty Land Tax for residential purchases.
package tax

import "math"

// band is one slice of the progressive SDLT schedule. A zero UpperBound
// marks the unbounded top band.
type band struct {
	UpperBound float64
	Rate       float64
	Surcharge  float64
}

// Residential SDLT bands. The surcharge column is the additional-property
// rate applied on top of the base rate across every band.
var residentialBands = []band{
	{UpperBound: 250_000, Rate: 0.00, Surcharge: 0.03},
	{UpperBound: 925_000, Rate: 0.05, Surcharge: 0.03},
	{UpperBound: 1_500_000, Rate: 0.10, Surcharge: 0.03},
	{UpperBound: 0, Rate: 0.12, Surcharge: 0.03},
}

// ComputeSDLT returns the stamp duty due on a residential purchase at the
// given price. When isAdditionalProperty is true the 3% surcharge applies to
// every band. Non-positive prices owe no tax.
func ComputeSDLT(price float64, isAdditionalProperty bool) float64 {
	if price <= 0 {
		return 0
	}

	var tax float64
	var lower float64

	for _, b := range residentialBands {
		rate := b.Rate
		if isAdditionalProperty {
			rate += b.Surcharge
		}

		upper := b.UpperBound
		if upper == 0 {
			upper = math.Inf(1)
		}

		if price <= lower {
			break
		}

		taxable := math.Min(price, upper) - lower
		tax += taxable * rate
		lower = upper
	}

	return tax
}
