package api

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/hirememorey/resilience-basketball-sub004/internal/api/handlers"
	"github.com/hirememorey/resilience-basketball-sub004/internal/models"
	"github.com/hirememorey/resilience-basketball-sub004/pkg/config"
)

// SetupRoutes configures the read-only reporting routes on the given group
func SetupRoutes(group *gin.RouterGroup, store *models.Store, cfg *config.Config, logger *logrus.Logger) {
	healthHandler := handlers.NewHealthHandler()
	datasetHandler := handlers.NewDatasetHandler(store, logger)
	reportHandler := handlers.NewReportHandler(store, logger)

	group.GET("/health", healthHandler.GetHealth)

	// Predictive dataset
	group.GET("/dataset", datasetHandler.ListRows)
	group.GET("/dataset/:player_id/:season_id", datasetHandler.GetRow)

	// Model and validation artifacts
	group.GET("/model", reportHandler.GetPrimaryModel)
	group.GET("/candidates", reportHandler.ListCandidates)
	group.GET("/risk-matrix", reportHandler.GetLatestReport)
}
