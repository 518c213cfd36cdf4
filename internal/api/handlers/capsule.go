package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/chatty-ai/chatty-api/internal/middleware"
	"github.com/chatty-ai/chatty-api/internal/models"
	"github.com/chatty-ai/chatty-api/internal/services"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CapsuleHandler struct {
	db       *gorm.DB
	capsules *services.CapsuleService
}

func NewCapsuleHandler(db *gorm.DB) *CapsuleHandler {
	return &CapsuleHandler{
		db:       db,
		capsules: services.NewCapsuleService(),
	}
}

type CapsuleRequest struct {
	InstanceName    string          `json:"instance_name" binding:"required"`
	PersonalityType string          `json:"personality_type"`
	Traits          json.RawMessage `json:"traits"`
	PromptText      string          `json:"prompt_text"`
}

// Save creates or replaces the capsule for one instance name. The checksum
// is sealed on every write.
func (h *CapsuleHandler) Save(c *gin.Context) {
	userID, exists := middleware.GetCurrentUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req CapsuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	traits := "{}"
	if len(req.Traits) > 0 {
		if !json.Valid(req.Traits) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Traits must be valid JSON"})
			return
		}
		traits = string(req.Traits)
	}

	capsule := models.AssistantCapsule{
		UserID:          userID,
		InstanceName:    req.InstanceName,
		PersonalityType: req.PersonalityType,
		Traits:          traits,
		PromptText:      req.PromptText,
	}
	if capsule.PersonalityType == "" {
		capsule.PersonalityType = "UNKNOWN"
	}

	if err := h.capsules.Seal(&capsule); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var existing models.AssistantCapsule
	err := h.db.Where("user_id = ? AND instance_name = ?", userID, req.InstanceName).
		First(&existing).Error
	switch {
	case err == nil:
		capsule.ID = existing.ID
		capsule.CreatedAt = existing.CreatedAt
		if saveErr := h.db.Save(&capsule).Error; saveErr != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update capsule"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"capsule": capsule})
	case errors.Is(err, gorm.ErrRecordNotFound):
		if createErr := h.db.Create(&capsule).Error; createErr != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create capsule"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"capsule": capsule})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save capsule"})
	}
}

// List returns the current user's capsules without integrity verification
func (h *CapsuleHandler) List(c *gin.Context) {
	userID, exists := middleware.GetCurrentUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var capsules []models.AssistantCapsule
	if err := h.db.Where("user_id = ?", userID).
		Order("instance_name ASC").
		Find(&capsules).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list capsules"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"capsules": capsules,
		"count":    len(capsules),
	})
}

// Get returns one capsule by instance name, verifying its checksum
func (h *CapsuleHandler) Get(c *gin.Context) {
	userID, exists := middleware.GetCurrentUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	instanceName := c.Param("instance")

	var capsule models.AssistantCapsule
	if err := h.db.Where("user_id = ? AND instance_name = ?", userID, instanceName).
		First(&capsule).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Capsule not found"})
		return
	}

	if err := h.capsules.Verify(&capsule); err != nil {
		if errors.Is(err, services.ErrCapsuleIntegrity) {
			c.JSON(http.StatusConflict, gin.H{"error": "Capsule integrity check failed"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"capsule": capsule})
}

// Delete removes one capsule by instance name
func (h *CapsuleHandler) Delete(c *gin.Context) {
	userID, exists := middleware.GetCurrentUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	instanceName := c.Param("instance")

	var capsule models.AssistantCapsule
	if err := h.db.Where("user_id = ? AND instance_name = ?", userID, instanceName).
		First(&capsule).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Capsule not found"})
		return
	}

	if err := h.db.Delete(&capsule).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete capsule"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Capsule deleted"})
}
