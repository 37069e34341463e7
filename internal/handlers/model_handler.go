package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"gridwatch/internal/models"
)

// ModelHandler exposes CRUD for the vision model registry an SOP's
// model_id points into.
type ModelHandler struct {
	db *gorm.DB
}

// NewModelHandler builds a ModelHandler.
func NewModelHandler(db *gorm.DB) *ModelHandler {
	return &ModelHandler{db: db}
}

// ListModels handles GET /api/models.
func (h *ModelHandler) ListModels(c *gin.Context) {
	var out []models.AIModel
	if err := h.db.Find(&out).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"models": out})
}

type modelRequest struct {
	Name      string `json:"name" binding:"required"`
	Provider  string `json:"provider" binding:"required"`
	ModelName string `json:"model_name" binding:"required"`
}

// CreateModel handles POST /api/models.
func (h *ModelHandler) CreateModel(c *gin.Context) {
	var req modelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	m := models.AIModel{Name: req.Name, Provider: req.Provider, ModelName: req.ModelName}
	if err := h.db.Create(&m).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create model"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"model": m})
}

// UpdateModel handles PUT /api/models/{id}.
func (h *ModelHandler) UpdateModel(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid model id"})
		return
	}
	var m models.AIModel
	if err := h.db.First(&m, uint(id)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "model not found"})
		return
	}
	var req modelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	m.Name, m.Provider, m.ModelName = req.Name, req.Provider, req.ModelName
	if err := h.db.Save(&m).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update model"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"model": m})
}

// DeleteModel handles DELETE /api/models/{id}.
func (h *ModelHandler) DeleteModel(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid model id"})
		return
	}
	if err := h.db.Delete(&models.AIModel{}, uint(id)).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete model"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "model deleted"})
}
