package tax

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeSDLT(t *testing.T) {
	tests := []struct {
		name       string
		price      float64
		additional bool
		expected   float64
	}{
		{
			name:       "Zero price",
			price:      0,
			additional: true,
			expected:   0,
		},
		{
			name:       "Negative price",
			price:      -50000,
			additional: false,
			expected:   0,
		},
		{
			name:       "Below first threshold, standard",
			price:      200000,
			additional: false,
			expected:   0,
		},
		{
			name:       "Below first threshold, additional",
			price:      200000,
			additional: true,
			expected:   6000, // 200,000 × 3%
		},
		{
			name:       "Exactly first threshold, additional",
			price:      250000,
			additional: true,
			expected:   7500,
		},
		{
			name:       "Into second band, additional",
			price:      300000,
			additional: true,
			expected:   11500, // 7,500 + 50,000 × 8%
		},
		{
			name:       "Into second band, standard",
			price:      300000,
			additional: false,
			expected:   2500, // 50,000 × 5%
		},
		{
			name:       "Top of second band, standard",
			price:      925000,
			additional: false,
			expected:   33750, // 675,000 × 5%
		},
		{
			name:       "Third band, standard",
			price:      1000000,
			additional: false,
			expected:   41250, // 33,750 + 75,000 × 10%
		},
		{
			name:       "Above top band, standard",
			price:      2000000,
			additional: false,
			expected:   151250, // 33,750 + 57,500 + 500,000 × 12%
		},
		{
			name:       "Above top band, additional",
			price:      2000000,
			additional: true,
			expected:   211250, // 151,250 + 2,000,000 × 3%
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeSDLT(tt.price, tt.additional)
			assert.InDelta(t, tt.expected, got, 0.01)
		})
	}
}

func TestComputeSDLT_ContinuousAtBoundaries(t *testing.T) {
	boundaries := []float64{250000, 925000, 1500000}
	const epsilon = 0.01

	for _, boundary := range boundaries {
		for _, additional := range []bool{false, true} {
			below := ComputeSDLT(boundary-epsilon, additional)
			at := ComputeSDLT(boundary, additional)
			above := ComputeSDLT(boundary+epsilon, additional)

			assert.InDelta(t, at, below, 1.0, "discontinuity below %v", boundary)
			assert.InDelta(t, at, above, 1.0, "discontinuity above %v", boundary)
		}
	}
}

func TestComputeSDLT_Monotonic(t *testing.T) {
	prices := []float64{0, 100000, 249999, 250000, 250001, 500000, 924999,
		925000, 925001, 1499999, 1500000, 1500001, 3000000}

	for _, additional := range []bool{false, true} {
		prev := -1.0
		for _, price := range prices {
			got := ComputeSDLT(price, additional)
			assert.GreaterOrEqual(t, got, prev,
				"tax decreased at price %v (additional=%v)", price, additional)
			prev = got
		}
	}
}
