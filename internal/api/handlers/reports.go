package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/hirememorey/resilience-basketball-sub004/internal/models"
	"github.com/hirememorey/resilience-basketball-sub004/internal/nba"
)

type ReportHandler struct {
	store  *models.Store
	logger *logrus.Logger
}

func NewReportHandler(store *models.Store, logger *logrus.Logger) *ReportHandler {
	return &ReportHandler{store: store, logger: logger}
}

// GetPrimaryModel returns the promoted model's metadata: feature set
// version, importances and calibration, without retraining context
func (h *ReportHandler) GetPrimaryModel(c *gin.Context) {
	model, err := h.store.PrimaryModel()
	if err != nil {
		if err == nba.ErrNoPrimaryModel {
			c.JSON(http.StatusNotFound, gin.H{"error": "no primary model"})
			return
		}
		h.logger.Errorf("Failed to load primary model: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load model"})
		return
	}
	c.JSON(http.StatusOK, model)
}

// ListCandidates returns the latest latent star candidate table
func (h *ReportHandler) ListCandidates(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	candidates, err := h.store.LatestCandidates(limit)
	if err != nil {
		h.logger.Errorf("Failed to list candidates: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load candidates"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"candidates": candidates})
}

// GetLatestReport returns the most recent risk matrix validation report
func (h *ReportHandler) GetLatestReport(c *gin.Context) {
	report, err := h.store.LatestReport()
	if err != nil {
		h.logger.Errorf("Failed to load validation report: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load report"})
		return
	}
	if report == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no validation report yet"})
		return
	}
	c.JSON(http.StatusOK, report)
}
