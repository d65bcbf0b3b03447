package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/hirememorey/resilience-basketball-sub004/internal/models"
)

type DatasetHandler struct {
	store  *models.Store
	logger *logrus.Logger
}

func NewDatasetHandler(store *models.Store, logger *logrus.Logger) *DatasetHandler {
	return &DatasetHandler{store: store, logger: logger}
}

// ListRows returns predictive dataset rows, optionally filtered by season
func (h *DatasetHandler) ListRows(c *gin.Context) {
	seasonID := c.Query("season")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	rows, total, err := h.store.ListRows(seasonID, limit, offset)
	if err != nil {
		h.logger.Errorf("Failed to list dataset rows: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load dataset"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"rows":   rows,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

// GetRow returns one player-season's full payload
func (h *DatasetHandler) GetRow(c *gin.Context) {
	playerID := c.Param("player_id")
	seasonID := c.Param("season_id")

	ps, err := h.store.LoadPlayerSeason(playerID, seasonID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "player-season not found"})
		return
	}
	c.JSON(http.StatusOK, ps)
}
