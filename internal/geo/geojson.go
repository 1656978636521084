package geo

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"dealwise/server/internal/models"
)

// DealMarker pairs a stored deal with the analysis results selected for
// display on the map. Results may be nil for deals that have not been
// analyzed yet.
type DealMarker struct {
	Deal    *models.Deal
	Results *models.AnalysisResults
}

// BuildDealLayer converts geocoded deals into a GeoJSON FeatureCollection
// of point markers. Deals without coordinates are skipped.
func BuildDealLayer(markers []DealMarker) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	for _, m := range markers {
		if m.Deal == nil {
			continue
		}
		prop := m.Deal.Property
		if prop.Latitude == nil || prop.Longitude == nil {
			continue
		}

		feature := geojson.NewFeature(orb.Point{*prop.Longitude, *prop.Latitude})
		feature.ID = m.Deal.ID
		feature.Properties = geojson.Properties{
			"dealId":       m.Deal.ID,
			"addressLine1": prop.Address.Line1,
			"postcode":     prop.Address.Postcode,
			"city":         prop.Address.City,
			"propertyType": string(prop.PropertyType),
			"bedrooms":     prop.Bedrooms,
			"askingPrice":  prop.AskingPrice,
		}

		if m.Results != nil {
			feature.Properties["strategy"] = string(m.Results.Strategy)
			feature.Properties["monthlyCashflow"] = m.Results.MonthlyCashflow
			feature.Properties["roi"] = m.Results.ROI
			feature.Properties["grossYield"] = m.Results.GrossYield
		}

		fc.Append(feature)
	}

	return fc
}
