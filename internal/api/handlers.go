package api

import (
	"errors"
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"dealwise/server/internal/analysis"
	"dealwise/server/internal/database"
	"dealwise/server/internal/geo"
	"dealwise/server/internal/market"
	"dealwise/server/internal/models"
	"dealwise/server/internal/queue"
	"dealwise/server/internal/risk"
)

type Handler struct {
	db         *database.Database
	logger     *logrus.Logger
	evaluator  *analysis.Evaluator
	riskEngine *risk.Engine
	market     *market.Engine
	geocoder   *geo.Geocoder
	queue      *queue.DealQueue
}

// AnalyzeRequest is an inline deal: a property plus the assumptions for
// each strategy to evaluate. Nothing is persisted.
type AnalyzeRequest struct {
	Property   models.Property    `json:"property" binding:"required"`
	Strategies models.StrategyMap `json:"strategies" binding:"required"`
}

type AnalyzeResponse struct {
	Results      map[models.StrategyType]models.AnalysisResults `json:"results"`
	Risk         map[models.StrategyType]models.RiskAssessment  `json:"risk"`
	Intelligence models.IntelligenceReport                      `json:"intelligence"`
}

func NewHandler(db *database.Database, marketEngine *market.Engine, q *queue.DealQueue,
	geocoder *geo.Geocoder, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}

	return &Handler{
		db:         db,
		logger:     logger,
		evaluator:  analysis.NewEvaluator(logger),
		riskEngine: risk.NewEngine(logger),
		market:     marketEngine,
		geocoder:   geocoder,
		queue:      q,
	}
}

// AnalyzeDeal evaluates an inline deal without persisting it.
func (h *Handler) AnalyzeDeal(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Error("Failed to parse analyze request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid deal payload"})
		return
	}
	if len(req.Strategies) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "At least one strategy is required"})
		return
	}

	deal := &models.Deal{Property: req.Property, Strategies: req.Strategies}
	response, err := h.analyze(deal)
	if err != nil {
		h.logger.WithError(err).Error("Failed to analyze deal")
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *Handler) analyze(deal *models.Deal) (*AnalyzeResponse, error) {
	results, err := h.evaluator.EvaluateAll(deal)
	if err != nil {
		return nil, err
	}

	riskByStrategy := make(map[models.StrategyType]models.RiskAssessment, len(deal.Strategies))
	for strategy, assumptions := range deal.Strategies {
		riskByStrategy[strategy] = h.riskEngine.AssessRisk(deal.Property, assumptions, strategy)
	}

	return &AnalyzeResponse{
		Results:      results,
		Risk:         riskByStrategy,
		Intelligence: h.market.GenerateIntelligenceReport(deal.Property, estimatedRent(deal)),
	}, nil
}

// estimatedRent picks the highest gross monthly rent across the deal's
// strategies for the market engine's yield comparisons.
func estimatedRent(deal *models.Deal) float64 {
	var rent float64
	for _, assumptions := range deal.Strategies {
		if assumptions == nil {
			continue
		}
		if r := assumptions.IncomeExpenses().GrossMonthlyRent; r > rent {
			rent = r
		}
	}
	return rent
}

func (h *Handler) CreateDeal(c *gin.Context) {
	var deal models.Deal
	if err := c.ShouldBindJSON(&deal); err != nil {
		h.logger.WithError(err).Error("Failed to parse deal")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid deal payload"})
		return
	}

	id, err := h.db.SaveDeal(&deal)
	if err != nil {
		h.logger.WithError(err).Error("Failed to save deal")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save deal"})
		return
	}

	if h.queue != nil {
		if err := h.queue.Push([]*models.Deal{&deal}); err != nil {
			h.logger.WithError(err).Warn("Failed to queue deal for analysis")
		}
	}
	h.geocodeAsync(&deal)

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// geocodeAsync fills in missing coordinates in the background so deal
// creation never waits on Nominatim.
func (h *Handler) geocodeAsync(deal *models.Deal) {
	if h.geocoder == nil || deal.Property.Latitude != nil {
		return
	}

	dealID := deal.ID
	property := deal.Property
	go func() {
		lat, lon, err := h.geocoder.GeocodeAddress(property.Address.Line1,
			property.Address.Postcode, property.Address.City)
		if err != nil {
			h.logger.WithError(err).WithField("deal_id", dealID).Warn("Geocoding failed")
			return
		}
		property.Latitude = &lat
		property.Longitude = &lon
		if _, err := h.db.UpdateDeal(dealID, &models.Deal{Property: property}); err != nil {
			h.logger.WithError(err).WithField("deal_id", dealID).Error("Failed to store coordinates")
		}
	}()
}

func (h *Handler) ListDeals(c *gin.Context) {
	deals, err := h.db.ListDeals()
	if err != nil {
		h.logger.WithError(err).Error("Failed to list deals")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list deals"})
		return
	}

	c.JSON(http.StatusOK, deals)
}

func (h *Handler) GetDeal(c *gin.Context) {
	deal, ok := h.loadDeal(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, deal)
}

func (h *Handler) UpdateDeal(c *gin.Context) {
	id, ok := h.dealID(c)
	if !ok {
		return
	}

	var partial models.Deal
	if err := c.ShouldBindJSON(&partial); err != nil {
		h.logger.WithError(err).Error("Failed to parse deal update")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid deal payload"})
		return
	}

	deal, err := h.db.UpdateDeal(id, &partial)
	if errors.Is(err, database.ErrDealNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Deal not found"})
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to update deal")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update deal"})
		return
	}

	if h.queue != nil {
		if err := h.queue.Push([]*models.Deal{deal}); err != nil {
			h.logger.WithError(err).Warn("Failed to queue deal for re-analysis")
		}
	}

	c.JSON(http.StatusOK, deal)
}

func (h *Handler) DeleteDeal(c *gin.Context) {
	id, ok := h.dealID(c)
	if !ok {
		return
	}

	err := h.db.DeleteDeal(id)
	if errors.Is(err, database.ErrDealNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Deal not found"})
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to delete deal")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete deal"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

// GetDealAnalysis returns the stored snapshots for a deal, or computes the
// results on the fly when the batch processor has not run yet.
func (h *Handler) GetDealAnalysis(c *gin.Context) {
	deal, ok := h.loadDeal(c)
	if !ok {
		return
	}

	snapshots, err := h.db.GetSnapshots(deal.ID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load snapshots")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load analysis"})
		return
	}

	results := make(map[models.StrategyType]models.AnalysisResults, len(snapshots))
	for _, snapshot := range snapshots {
		results[snapshot.Strategy] = snapshot.Results
	}

	if len(results) == 0 {
		results, err = h.evaluator.EvaluateAll(deal)
		if err != nil {
			h.logger.WithError(err).Error("Failed to evaluate deal")
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
	}

	c.JSON(http.StatusOK, results)
}

func (h *Handler) GetDealRisk(c *gin.Context) {
	deal, ok := h.loadDeal(c)
	if !ok {
		return
	}

	riskByStrategy := make(map[models.StrategyType]models.RiskAssessment, len(deal.Strategies))
	for strategy, assumptions := range deal.Strategies {
		riskByStrategy[strategy] = h.riskEngine.AssessRisk(deal.Property, assumptions, strategy)
	}

	c.JSON(http.StatusOK, riskByStrategy)
}

func (h *Handler) GetDealIntelligence(c *gin.Context) {
	deal, ok := h.loadDeal(c)
	if !ok {
		return
	}

	report := h.market.GenerateIntelligenceReport(deal.Property, estimatedRent(deal))
	c.JSON(http.StatusOK, report)
}

// ReanalyzeDeal pushes a deal onto the batch queue for a fresh snapshot.
func (h *Handler) ReanalyzeDeal(c *gin.Context) {
	deal, ok := h.loadDeal(c)
	if !ok {
		return
	}

	if h.queue == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Re-analysis queue unavailable"})
		return
	}
	if err := h.queue.Push([]*models.Deal{deal}); err != nil {
		h.logger.WithError(err).Error("Failed to queue deal")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Re-analysis queue full"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"queued": deal.ID})
}

func (h *Handler) GetComparables(c *gin.Context) {
	postcode := c.Query("postcode")
	if postcode == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "postcode is required"})
		return
	}

	bedrooms, err := strconv.Atoi(c.DefaultQuery("bedrooms", "0"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid bedrooms"})
		return
	}
	price, err := strconv.ParseFloat(c.DefaultQuery("price", "0"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid price"})
		return
	}
	propertyType := models.PropertyType(c.DefaultQuery("type", string(models.PropertyTypeOther)))

	data := h.market.GetComparables(postcode, propertyType, bedrooms, price)
	c.JSON(http.StatusOK, data)
}

// GetDealMap returns every geocoded deal as a GeoJSON FeatureCollection,
// tagged with its best stored strategy result.
func (h *Handler) GetDealMap(c *gin.Context) {
	deals, err := h.db.ListDeals()
	if err != nil {
		h.logger.WithError(err).Error("Failed to list deals")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build map"})
		return
	}

	markers := make([]geo.DealMarker, 0, len(deals))
	for i := range deals {
		deal := &deals[i]
		marker := geo.DealMarker{Deal: deal}

		snapshots, err := h.db.GetSnapshots(deal.ID)
		if err != nil {
			h.logger.WithError(err).WithField("deal_id", deal.ID).Warn("Failed to load snapshots")
		}
		for j := range snapshots {
			results := snapshots[j].Results
			if marker.Results == nil || results.MonthlyCashflow > marker.Results.MonthlyCashflow {
				marker.Results = &results
			}
		}

		markers = append(markers, marker)
	}

	c.JSON(http.StatusOK, geo.BuildDealLayer(markers))
}

func (h *Handler) dealID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid deal ID"})
		return 0, false
	}
	return uint(id), true
}

func (h *Handler) loadDeal(c *gin.Context) (*models.Deal, bool) {
	id, ok := h.dealID(c)
	if !ok {
		return nil, false
	}

	deal, err := h.db.GetDeal(id)
	if errors.Is(err, database.ErrDealNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Deal not found"})
		return nil, false
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to load deal")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load deal"})
		return nil, false
	}
	return deal, true
}
