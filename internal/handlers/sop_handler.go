package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"gridwatch/internal/models"
	"gridwatch/internal/schema"
)

// SOPHandler exposes CRUD for Standard Operating Procedures, validating the
// structured_output schema at write time by reusing the core's own
// recursive validator instead of duplicating the rules.
type SOPHandler struct {
	db      *gorm.DB
	logsDir string
}

// NewSOPHandler builds an SOPHandler. logsDir receives one indented JSON
// entry, followed by a "---" separator line, per successful create/update
// that carries a structured_output, for offline debugging of schema drift.
func NewSOPHandler(db *gorm.DB, logsDir string) *SOPHandler {
	return &SOPHandler{db: db, logsDir: logsDir}
}

// ListSOPs handles GET /api/sops.
func (h *SOPHandler) ListSOPs(c *gin.Context) {
	var sops []models.SOP
	if err := h.db.Preload("Model").Find(&sops).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sops": sops})
}

// GetSOP handles GET /api/sops/{id}.
func (h *SOPHandler) GetSOP(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid sop id"})
		return
	}
	var sop models.SOP
	if err := h.db.First(&sop, uint(id)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "sop not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sop": sop})
}

type sopRequest struct {
	Name             string          `json:"name" binding:"required"`
	Description      string          `json:"description"`
	ModelID          *uint           `json:"model_id"`
	Prompt           string          `json:"prompt"`
	Frequency        int             `json:"frequency"`
	StructuredOutput json.RawMessage `json:"structured_output"`
}

// CreateSOP handles POST /api/sops.
func (h *SOPHandler) CreateSOP(c *gin.Context) {
	var req sopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if len(req.StructuredOutput) > 0 {
		if _, err := schema.Parse(req.StructuredOutput); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid structured_output format: %v", err)})
			return
		}
	}

	frequency := req.Frequency
	if frequency == 0 {
		frequency = 10
	}

	sop := models.SOP{
		Name:             req.Name,
		Description:      req.Description,
		ModelID:          req.ModelID,
		Prompt:           req.Prompt,
		FrequencySeconds: frequency,
		StructuredSchema: string(req.StructuredOutput),
	}
	if err := h.db.Create(&sop).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create sop"})
		return
	}

	if len(req.StructuredOutput) > 0 {
		h.logStructuredOutput(sop.ID, req.StructuredOutput)
	}

	c.JSON(http.StatusCreated, gin.H{"sop": sop})
}

// UpdateSOP handles PUT /api/sops/{id}.
func (h *SOPHandler) UpdateSOP(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid sop id"})
		return
	}
	var sop models.SOP
	if err := h.db.First(&sop, uint(id)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "sop not found"})
		return
	}

	var req sopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.StructuredOutput) > 0 {
		if _, err := schema.Parse(req.StructuredOutput); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid structured_output format: %v", err)})
			return
		}
		sop.StructuredSchema = string(req.StructuredOutput)
	}

	sop.Name = req.Name
	sop.Description = req.Description
	sop.ModelID = req.ModelID
	sop.Prompt = req.Prompt
	if req.Frequency > 0 {
		sop.FrequencySeconds = req.Frequency
	}

	if err := h.db.Save(&sop).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update sop"})
		return
	}

	if len(req.StructuredOutput) > 0 {
		h.logStructuredOutput(sop.ID, req.StructuredOutput)
	}

	c.JSON(http.StatusOK, gin.H{"sop": sop})
}

// DeleteSOP handles DELETE /api/sops/{id}.
func (h *SOPHandler) DeleteSOP(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid sop id"})
		return
	}
	if err := h.db.Delete(&models.SOP{}, uint(id)).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete sop"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "sop deleted"})
}

func (h *SOPHandler) logStructuredOutput(sopID uint, structuredOutput json.RawMessage) {
	if h.logsDir == "" {
		return
	}
	if err := os.MkdirAll(h.logsDir, 0o755); err != nil {
		return
	}
	entry := map[string]any{
		"timestamp":         time.Now().Format("2006-01-02 15:04:05"),
		"sop_id":            sopID,
		"structured_output": json.RawMessage(structuredOutput),
	}
	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return
	}
	f, err := os.OpenFile(filepath.Join(h.logsDir, "structured_output.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	defer f.Close()
	_, _ = f.Write(append(data, []byte("\n---\n")...))
}
