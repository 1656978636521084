// Package scoring provides the shared confidence-scoring primitive used by
// the risk and market engines. Each consumer supplies its own policy of
// weighted signals; the arithmetic (base + adjustments, clamped to [0,100])
// and the score-to-label mapping live here once.
package scoring

import "dealwise/server/internal/models"

// Adjustment is one weighted signal in a scoring policy. Points are added
// to the base score when Met is true.
type Adjustment struct {
	Name   string
	Points float64
	Met    bool
}

// Policy is a base score plus the adjustments a consumer evaluates against
// its inputs.
type Policy struct {
	Base        float64
	Adjustments []Adjustment
}

// Score sums the base and all met adjustments, clamped to [0,100].
func (p Policy) Score() float64 {
	score := p.Base
	for _, adj := range p.Adjustments {
		if adj.Met {
			score += adj.Points
		}
	}
	return Clamp(score)
}

// Clamp bounds a score to [0,100].
func Clamp(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// Label maps a score to a confidence level. Scores at or above highCutoff
// are high, at or above mediumCutoff medium, otherwise low.
func Label(score, highCutoff, mediumCutoff float64) models.ConfidenceLevel {
	switch {
	case score >= highCutoff:
		return models.ConfidenceHigh
	case score >= mediumCutoff:
		return models.ConfidenceMedium
	default:
		return models.ConfidenceLow
	}
}
