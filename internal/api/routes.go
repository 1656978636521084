package api

import (
	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine, handler *Handler) {
	api := router.Group("/api")
	{
		api.POST("/analyze", handler.AnalyzeDeal)

		api.POST("/deals", handler.CreateDeal)
		api.GET("/deals", handler.ListDeals)
		api.GET("/deals/:id", handler.GetDeal)
		api.PATCH("/deals/:id", handler.UpdateDeal)
		api.DELETE("/deals/:id", handler.DeleteDeal)

		api.GET("/deals/:id/analysis", handler.GetDealAnalysis)
		api.GET("/deals/:id/risk", handler.GetDealRisk)
		api.GET("/deals/:id/intelligence", handler.GetDealIntelligence)
		api.POST("/deals/:id/reanalyze", handler.ReanalyzeDeal)

		api.GET("/comparables", handler.GetComparables)
		api.GET("/map/deals", handler.GetDealMap)
	}
}
