package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dealwise/server/config"
	"dealwise/server/internal/database"
	"dealwise/server/internal/market"
	"dealwise/server/internal/models"
)

func setupRouter(t *testing.T) (*gin.Engine, *database.Database) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.NewDatabase(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	marketEngine := market.NewEngine(config.UKRegions, nil)
	handler := NewHandler(db, marketEngine, nil, nil, nil)

	router := gin.New()
	SetupRoutes(router, handler)
	return router, db
}

func btlPayload() map[string]any {
	return map[string]any{
		"property": map[string]any{
			"address": map[string]any{
				"line1":    "12 Smithdown Road",
				"city":     "Liverpool",
				"postcode": "L15 3JL",
			},
			"bedrooms":         3,
			"property_type":    "terraced",
			"asking_price":     200000,
			"transaction_type": "sale",
			"tenure":           "freehold",
			"source":           "manual",
		},
		"strategies": map[string]any{
			"btl": map[string]any{
				"costs": map[string]any{
					"purchase_price": 200000,
					"stamp_duty":     7500,
					"legal_fees":     1500,
				},
				"income": map[string]any{
					"gross_monthly_rent": 1200,
					"occupancy_rate":     100,
				},
				"mortgage": map[string]any{
					"ltv":              75,
					"interest_rate":    5.5,
					"is_interest_only": true,
				},
			},
		},
	}
}

func doJSON(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAnalyzeDeal(t *testing.T) {
	router, _ := setupRouter(t)

	w := doJSON(router, http.MethodPost, "/api/analyze", btlPayload())
	require.Equal(t, http.StatusOK, w.Code)

	var resp AnalyzeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	results, ok := resp.Results[models.StrategyBTL]
	require.True(t, ok)
	assert.Equal(t, 59000.0, results.TotalCashRequired)
	assert.InDelta(t, 687.50, results.MonthlyMortgagePayment, 0.01)
	assert.Greater(t, results.MonthlyCashflow, 0.0)

	_, ok = resp.Risk[models.StrategyBTL]
	require.True(t, ok)
	assert.NotZero(t, resp.Intelligence.ConfidenceScore)
}

func TestAnalyzeDeal_InvalidPayload(t *testing.T) {
	router, _ := setupRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", bytes.NewBufferString("{not json"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnalyzeDeal_NoStrategies(t *testing.T) {
	router, _ := setupRouter(t)

	payload := btlPayload()
	payload["strategies"] = map[string]any{}
	w := doJSON(router, http.MethodPost, "/api/analyze", payload)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDealLifecycle(t *testing.T) {
	router, _ := setupRouter(t)

	w := doJSON(router, http.MethodPost, "/api/deals", btlPayload())
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotZero(t, created.ID)

	w = doJSON(router, http.MethodGet, fmt.Sprintf("/api/deals/%d", created.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var deal models.Deal
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &deal))
	assert.Equal(t, "L15 3JL", deal.Property.Address.Postcode)
	assert.Contains(t, deal.Strategies, models.StrategyBTL)

	w = doJSON(router, http.MethodGet, "/api/deals", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var deals []models.Deal
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &deals))
	assert.Len(t, deals, 1)

	w = doJSON(router, http.MethodDelete, fmt.Sprintf("/api/deals/%d", created.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodGet, fmt.Sprintf("/api/deals/%d", created.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetDeal_NotFound(t *testing.T) {
	router, _ := setupRouter(t)

	w := doJSON(router, http.MethodGet, "/api/deals/999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(router, http.MethodGet, "/api/deals/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateDeal_MergesStrategies(t *testing.T) {
	router, _ := setupRouter(t)

	w := doJSON(router, http.MethodPost, "/api/deals", btlPayload())
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	update := map[string]any{
		"strategies": map[string]any{
			"r2r": map[string]any{
				"costs": map[string]any{
					"rent_to_owner": 900,
					"sourcing_fee":  3000,
				},
				"income": map[string]any{
					"gross_monthly_rent": 1600,
					"occupancy_rate":     100,
				},
			},
		},
	}
	w = doJSON(router, http.MethodPatch, fmt.Sprintf("/api/deals/%d", created.ID), update)
	require.Equal(t, http.StatusOK, w.Code)

	var deal models.Deal
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &deal))
	assert.Contains(t, deal.Strategies, models.StrategyBTL)
	assert.Contains(t, deal.Strategies, models.StrategyR2R)
}

func TestGetDealAnalysis_ComputesWhenNoSnapshots(t *testing.T) {
	router, _ := setupRouter(t)

	w := doJSON(router, http.MethodPost, "/api/deals", btlPayload())
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doJSON(router, http.MethodGet, fmt.Sprintf("/api/deals/%d/analysis", created.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var results map[models.StrategyType]models.AnalysisResults
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &results))
	require.Contains(t, results, models.StrategyBTL)
	assert.InDelta(t, 687.50, results[models.StrategyBTL].MonthlyMortgagePayment, 0.01)
}

func TestGetDealRiskAndIntelligence(t *testing.T) {
	router, _ := setupRouter(t)

	w := doJSON(router, http.MethodPost, "/api/deals", btlPayload())
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doJSON(router, http.MethodGet, fmt.Sprintf("/api/deals/%d/risk", created.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var riskByStrategy map[models.StrategyType]models.RiskAssessment
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &riskByStrategy))
	require.Contains(t, riskByStrategy, models.StrategyBTL)
	assert.NotZero(t, riskByStrategy[models.StrategyBTL].OverallScore)

	w = doJSON(router, http.MethodGet, fmt.Sprintf("/api/deals/%d/intelligence", created.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var report models.IntelligenceReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, models.ConfidenceMedium, report.Comparables.Confidence)
}

func TestGetComparables(t *testing.T) {
	router, _ := setupRouter(t)

	w := doJSON(router, http.MethodGet, "/api/comparables?postcode=M1+4BT&type=flat&bedrooms=2&price=180000", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var data models.ComparableData
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &data))
	assert.Greater(t, data.AreaAveragePrice, 0.0)
	assert.Equal(t, models.ConfidenceMedium, data.Confidence)

	w = doJSON(router, http.MethodGet, "/api/comparables", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetDealMap(t *testing.T) {
	router, db := setupRouter(t)

	lat, lon := 53.39, -2.93
	deal := &models.Deal{
		Property: models.Property{
			Address:      models.Address{Line1: "12 Smithdown Road", City: "Liverpool", Postcode: "L15 3JL"},
			PropertyType: models.PropertyTypeTerraced,
			AskingPrice:  150000,
			Latitude:     &lat,
			Longitude:    &lon,
		},
	}
	_, err := db.SaveDeal(deal)
	require.NoError(t, err)

	w := doJSON(router, http.MethodGet, "/api/map/deals", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var fc struct {
		Type     string `json:"type"`
		Features []struct {
			Geometry struct {
				Coordinates []float64 `json:"coordinates"`
			} `json:"geometry"`
			Properties map[string]any `json:"properties"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fc))
	assert.Equal(t, "FeatureCollection", fc.Type)
	require.Len(t, fc.Features, 1)
	assert.InDelta(t, -2.93, fc.Features[0].Geometry.Coordinates[0], 1e-9)
	assert.Equal(t, "L15 3JL", fc.Features[0].Properties["postcode"])
}

func TestReanalyzeDeal_NoQueue(t *testing.T) {
	router, db := setupRouter(t)

	deal := &models.Deal{Property: models.Property{AskingPrice: 100000,
		Address: models.Address{Line1: "1 Test St", City: "Leeds", Postcode: "LS1 1AA"}}}
	_, err := db.SaveDeal(deal)
	require.NoError(t, err)

	w := doJSON(router, http.MethodPost, fmt.Sprintf("/api/deals/%d/reanalyze", deal.ID), nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
