package config

import "dealwise/server/internal/models"

// PropertyTypeMultipliers adjust the regional baseline for the physical form
// of a property. The baseline is a terraced-adjacent 1.0.
var PropertyTypeMultipliers = map[models.PropertyType]float64{
	models.PropertyTypeFlat:         0.85,
	models.PropertyTypeTerraced:     0.95,
	models.PropertyTypeSemiDetached: 1.05,
	models.PropertyTypeBungalow:     1.10,
	models.PropertyTypeDetached:     1.35,
	models.PropertyTypeOther:        1.00,
}

// bedroomMultipliers index by bedroom count with a three-bed baseline of 1.0.
var bedroomMultipliers = []float64{0.70, 0.80, 0.90, 1.00, 1.20, 1.40, 1.60}

// PropertyTypeMultiplier returns the adjustment for a property type,
// defaulting to 1.0 for unrecognized values.
func PropertyTypeMultiplier(propertyType models.PropertyType) float64 {
	if m, ok := PropertyTypeMultipliers[propertyType]; ok {
		return m
	}
	return 1.0
}

// BedroomMultiplier returns the adjustment for a bedroom count, clamped to
// the 0–6 range the table covers.
func BedroomMultiplier(bedrooms int) float64 {
	if bedrooms < 0 {
		bedrooms = 0
	}
	if bedrooms > 6 {
		bedrooms = 6
	}
	return bedroomMultipliers[bedrooms]
}
