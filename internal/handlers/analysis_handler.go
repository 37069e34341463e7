package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"gridwatch/internal/models"
)

// AnalysisHandler records vision analysis results the pipeline produces and
// lets operators query them back.
type AnalysisHandler struct {
	db *gorm.DB
}

// NewAnalysisHandler builds an AnalysisHandler.
func NewAnalysisHandler(db *gorm.DB) *AnalysisHandler {
	return &AnalysisHandler{db: db}
}

type createAnalysisRequest struct {
	RTSPID uint            `json:"rtspId" binding:"required"`
	SOPID  uint            `json:"sopId" binding:"required"`
	Output json.RawMessage `json:"output"`
}

// CreateAnalysis handles POST /api/analysis, the only write endpoint the
// pipeline calls.
func (h *AnalysisHandler) CreateAnalysis(c *gin.Context) {
	var req createAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var stream models.Stream
	if err := h.db.First(&stream, req.RTSPID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "stream not found"})
		return
	}

	analysis := models.Analysis{
		StreamID:     req.RTSPID,
		SOPID:        req.SOPID,
		TimestampUTC: time.Now().UTC(),
		Output:       string(req.Output),
	}
	if err := h.db.Create(&analysis).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create analysis"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"analysis": analysis})
}

// ListAnalyses handles GET /api/analyses, optionally filtered by rtsp_id,
// sop_id, and a date range.
func (h *AnalysisHandler) ListAnalyses(c *gin.Context) {
	query := h.db.Model(&models.Analysis{})

	if rtspID := c.Query("rtsp_id"); rtspID != "" {
		if id, err := strconv.ParseUint(rtspID, 10, 64); err == nil {
			query = query.Where("stream_id = ?", uint(id))
		}
	}
	if sopID := c.Query("sop_id"); sopID != "" {
		if id, err := strconv.ParseUint(sopID, 10, 64); err == nil {
			query = query.Where("sop_id = ?", uint(id))
		}
	}
	if from := c.Query("from"); from != "" {
		if t, err := time.Parse(time.RFC3339, from); err == nil {
			query = query.Where("timestamp_utc >= ?", t)
		}
	}
	if to := c.Query("to"); to != "" {
		if t, err := time.Parse(time.RFC3339, to); err == nil {
			query = query.Where("timestamp_utc <= ?", t)
		}
	}

	var analyses []models.Analysis
	if err := query.Order("timestamp_utc desc").Find(&analyses).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"analyses": analyses})
}

// GetAnalysis handles GET /api/analysis/{id}.
func (h *AnalysisHandler) GetAnalysis(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid analysis id"})
		return
	}
	var analysis models.Analysis
	if err := h.db.First(&analysis, uint(id)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "analysis not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"analysis": analysis})
}
