package handlers

import (
	"errors"
	"net/http"

	"github.com/chatty-ai/chatty-api/internal/middleware"
	"github.com/chatty-ai/chatty-api/internal/models"
	"github.com/chatty-ai/chatty-api/internal/services"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type PhoneHandler struct {
	db     *gorm.DB
	phones *services.PhoneService
}

func NewPhoneHandler(db *gorm.DB, phones *services.PhoneService) *PhoneHandler {
	return &PhoneHandler{db: db, phones: phones}
}

type RequestCodeRequest struct {
	Phone string `json:"phone" binding:"required"`
}

type VerifyCodeRequest struct {
	Phone string `json:"phone" binding:"required"`
	Code  string `json:"code" binding:"required"`
}

// RequestCode sends a verification code to the given number
func (h *PhoneHandler) RequestCode(c *gin.Context) {
	if _, exists := middleware.GetCurrentUserID(c); !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req RequestCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.phones.RequestCode(c.Request.Context(), req.Phone); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send verification code"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Verification code sent"})
}

// VerifyCode checks a code and marks the user's phone verified
func (h *PhoneHandler) VerifyCode(c *gin.Context) {
	userID, exists := middleware.GetCurrentUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req VerifyCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.phones.VerifyCode(c.Request.Context(), req.Phone, req.Code); err != nil {
		switch {
		case errors.Is(err, services.ErrCodeExpired):
			c.JSON(http.StatusGone, gin.H{"error": "Verification code expired"})
		case errors.Is(err, services.ErrCodeMismatch):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Incorrect verification code"})
		case errors.Is(err, services.ErrTooManyChecks):
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many attempts, request a new code"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify code"})
		}
		return
	}

	updates := map[string]interface{}{
		"phone":          req.Phone,
		"phone_verified": true,
	}
	if err := h.db.Model(&models.User{}).Where("id = ?", userID).
		Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update phone"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Phone verified"})
}
