package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"gridwatch/internal/models"
)

// StreamHandler exposes CRUD plus the two read endpoints the pipeline
// consumes: GET /api/streams and GET /api/stream/{id}.
type StreamHandler struct {
	db *gorm.DB
}

// NewStreamHandler builds a StreamHandler.
func NewStreamHandler(db *gorm.DB) *StreamHandler {
	return &StreamHandler{db: db}
}

// ListStreams handles GET /api/streams, returning every stream with its
// attached SOPs so the pipeline's StreamCatalog can fan out per-stream
// work without a second round trip.
func (h *StreamHandler) ListStreams(c *gin.Context) {
	var streams []models.Stream
	if err := h.db.Preload("SOPs").Find(&streams).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"streams": streams})
}

// GetStream handles GET /api/stream/{id}.
func (h *StreamHandler) GetStream(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid stream id"})
		return
	}
	var stream models.Stream
	if err := h.db.Preload("SOPs").First(&stream, uint(id)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "stream not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"stream": stream})
}

type createStreamRequest struct {
	Name        string `json:"name" binding:"required"`
	RTSPUrl     string `json:"rtsp_url" binding:"required"`
	Location    string `json:"location"`
	Description string `json:"description"`
}

// CreateStream handles POST /api/streams (admin CRUD, not consumed by the
// pipeline).
func (h *StreamHandler) CreateStream(c *gin.Context) {
	var req createStreamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	stream := models.Stream{
		Name:        req.Name,
		RTSPUrl:     req.RTSPUrl,
		Location:    req.Location,
		Description: req.Description,
		Status:      "active",
	}
	if err := h.db.Create(&stream).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create stream"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"stream": stream})
}

// UpdateStream handles PUT /api/streams/{id}.
func (h *StreamHandler) UpdateStream(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid stream id"})
		return
	}
	var stream models.Stream
	if err := h.db.First(&stream, uint(id)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "stream not found"})
		return
	}
	var req createStreamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	stream.Name = req.Name
	stream.RTSPUrl = req.RTSPUrl
	stream.Location = req.Location
	stream.Description = req.Description
	if err := h.db.Save(&stream).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update stream"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"stream": stream})
}

// DeleteStream handles DELETE /api/streams/{id}.
func (h *StreamHandler) DeleteStream(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid stream id"})
		return
	}
	if err := h.db.Delete(&models.Stream{}, uint(id)).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete stream"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "stream deleted"})
}
