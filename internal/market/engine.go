// Package market derives regional comparables, market insights and the
// aggregated intelligence report for a property.
package market

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"dealwise/server/config"
	"dealwise/server/internal/cache"
	"dealwise/server/internal/models"
	"dealwise/server/internal/scoring"
)

// Engine resolves a property against a region table. The table is injected
// so a live data source can replace the static benchmark without touching
// the engine.
type Engine struct {
	regions  config.RegionTable
	logger   *logrus.Logger
	cache    cache.Repository
	cacheTTL time.Duration
}

func NewEngine(regions config.RegionTable, logger *logrus.Logger) *Engine {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}
	return &Engine{
		regions: regions,
		logger:  logger,
	}
}

// SetCache enables caching of comparables lookups.
func (e *Engine) SetCache(repo cache.Repository, ttl time.Duration) {
	e.cache = repo
	e.cacheTTL = ttl
}

// GetComparables returns the regional benchmark adjusted for the property's
// type and bedroom count. An unknown postcode degrades to the DEFAULT entry
// with low confidence; the lookup never fails.
func (e *Engine) GetComparables(postcode string, propertyType models.PropertyType,
	bedrooms int, askingPrice float64) models.ComparableData {

	cacheKey := fmt.Sprintf("comparables:%s:%s:%d", config.PostcodeArea(postcode), propertyType, bedrooms)
	if e.cache != nil {
		if cached, ok := e.cache.Get(cacheKey); ok {
			var data models.ComparableData
			if err := json.Unmarshal([]byte(cached), &data); err == nil {
				return data
			}
			e.logger.WithField("key", cacheKey).Warn("Discarding unreadable cached comparables entry")
		}
	}

	region, matched := e.regions.Lookup(postcode)

	typeMultiplier := config.PropertyTypeMultiplier(propertyType)
	bedroomMultiplier := config.BedroomMultiplier(bedrooms)

	adjustedPrice := region.AveragePrice * typeMultiplier * bedroomMultiplier
	adjustedRent := region.AverageRent * typeMultiplier * bedroomMultiplier

	var yieldBenchmark float64
	if adjustedPrice > 0 {
		yieldBenchmark = round2(adjustedRent * 12 / adjustedPrice * 100)
	}

	// The static table can never justify "high"; only a verified live
	// source could.
	confidence := models.ConfidenceMedium
	if !matched {
		confidence = models.ConfidenceLow
		e.logger.WithField("postcode", postcode).Debug("No region match; using DEFAULT benchmark")
	}

	data := models.ComparableData{
		AreaAveragePrice:     round2(adjustedPrice),
		PricePerSqft:         round2(region.PricePerSqft * typeMultiplier),
		YearOnYearChange:     region.YearOnYearChange,
		RentalYieldBenchmark: yieldBenchmark,
		AverageRent:          round2(adjustedRent),
		DataDate:             time.Now().UTC(),
		Confidence:           confidence,
		Source:               fmt.Sprintf("regional benchmark: %s", region.Name),
	}

	if e.cache != nil {
		if encoded, err := json.Marshal(data); err == nil {
			if err := e.cache.Set(cacheKey, string(encoded), e.cacheTTL); err != nil {
				e.logger.WithError(err).Warn("Failed to cache comparables")
			}
		}
	}

	return data
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}

// GenerateInsights compares the asking price, estimated rent and area trend
// against the benchmark and emits the matching insights.
func (e *Engine) GenerateInsights(askingPrice, estimatedRent float64,
	comparables models.ComparableData, propertyType models.PropertyType) []models.MarketInsight {

	var insights []models.MarketInsight

	if askingPrice > 0 && comparables.AreaAveragePrice > 0 {
		deviation := (askingPrice - comparables.AreaAveragePrice) / comparables.AreaAveragePrice * 100
		switch {
		case deviation < -15:
			insights = append(insights, models.MarketInsight{
				Type:  models.InsightOpportunity,
				Title: "Significantly Below Market Value",
				Description: fmt.Sprintf("The asking price is %.1f%% below the adjusted area average of £%.0f.",
					-deviation, comparables.AreaAveragePrice),
			})
		case deviation < -5:
			insights = append(insights, models.MarketInsight{
				Type:  models.InsightOpportunity,
				Title: "Below Market Value",
				Description: fmt.Sprintf("The asking price is %.1f%% below the adjusted area average of £%.0f.",
					-deviation, comparables.AreaAveragePrice),
			})
		case deviation > 15:
			insights = append(insights, models.MarketInsight{
				Type:  models.InsightRisk,
				Title: "Above Market Value",
				Description: fmt.Sprintf("The asking price is %.1f%% above the adjusted area average of £%.0f.",
					deviation, comparables.AreaAveragePrice),
			})
		}
	}

	if askingPrice > 0 && estimatedRent > 0 && comparables.RentalYieldBenchmark > 0 {
		actualYield := estimatedRent * 12 / askingPrice * 100
		gap := actualYield - comparables.RentalYieldBenchmark
		if gap > 1 {
			insights = append(insights, models.MarketInsight{
				Type:  models.InsightOpportunity,
				Title: "Above-Benchmark Yield",
				Description: fmt.Sprintf("The %.1f%% gross yield beats the area benchmark of %.1f%%.",
					actualYield, comparables.RentalYieldBenchmark),
			})
		} else if gap < -1 {
			insights = append(insights, models.MarketInsight{
				Type:  models.InsightRisk,
				Title: "Below-Benchmark Yield",
				Description: fmt.Sprintf("The %.1f%% gross yield trails the area benchmark of %.1f%%.",
					actualYield, comparables.RentalYieldBenchmark),
			})
		}
	}

	if comparables.YearOnYearChange > 5 {
		insights = append(insights, models.MarketInsight{
			Type:  models.InsightOpportunity,
			Title: "Strong Capital Growth Area",
			Description: fmt.Sprintf("Area prices rose %.1f%% year on year.",
				comparables.YearOnYearChange),
		})
	} else if comparables.YearOnYearChange < 0 {
		insights = append(insights, models.MarketInsight{
			Type:  models.InsightRisk,
			Title: "Declining Market",
			Description: fmt.Sprintf("Area prices fell %.1f%% year on year.",
				-comparables.YearOnYearChange),
		})
	}

	if propertyType == models.PropertyTypeFlat {
		insights = append(insights, models.MarketInsight{
			Type:  models.InsightNeutral,
			Title: "Leasehold Considerations",
			Description: "Flats are almost always leasehold: review the lease length, ground rent " +
				"and service charge before committing.",
		})
	}

	return insights
}

const maxTopEntries = 3

// GenerateIntelligenceReport aggregates comparables and insights for one
// property into the summary consumed by the presentation layer.
func (e *Engine) GenerateIntelligenceReport(property models.Property, estimatedRent float64) models.IntelligenceReport {
	comparables := e.GetComparables(property.Address.Postcode, property.PropertyType,
		property.Bedrooms, property.AskingPrice)
	insights := e.GenerateInsights(property.AskingPrice, estimatedRent, comparables, property.PropertyType)

	var drivers, risks []string
	for _, insight := range insights {
		switch insight.Type {
		case models.InsightOpportunity:
			drivers = append(drivers, insight.Title)
		case models.InsightRisk:
			risks = append(risks, insight.Title)
		}
	}

	if property.AskingPrice > 0 && estimatedRent > 0 {
		if actualYield := estimatedRent * 12 / property.AskingPrice * 100; actualYield > 6 {
			drivers = append(drivers, fmt.Sprintf("Strong %.1f%% gross yield", actualYield))
		}
	}

	if len(drivers) > maxTopEntries {
		drivers = drivers[:maxTopEntries]
	}
	if len(risks) > maxTopEntries {
		risks = risks[:maxTopEntries]
	}

	confidencePolicy := scoring.Policy{
		Base: 50,
		Adjustments: []scoring.Adjustment{
			{Name: "high confidence comparables", Points: 30, Met: comparables.Confidence == models.ConfidenceHigh},
			{Name: "medium confidence comparables", Points: 15, Met: comparables.Confidence == models.ConfidenceMedium},
			{Name: "insights generated", Points: 10, Met: len(insights) > 0},
			{Name: "rent estimate available", Points: 10, Met: estimatedRent > 0},
		},
	}

	return models.IntelligenceReport{
		Comparables:     comparables,
		Insights:        insights,
		TopDrivers:      drivers,
		TopRisks:        risks,
		ConfidenceScore: confidencePolicy.Score(),
	}
}
