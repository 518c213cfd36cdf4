package handlers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/chatty-ai/chatty-api/internal/logger"
	"github.com/chatty-ai/chatty-api/internal/middleware"
	"github.com/chatty-ai/chatty-api/internal/models"
	"github.com/chatty-ai/chatty-api/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// maxUploadSize caps a single upload at 25 MiB.
const maxUploadSize = 25 << 20

type FileHandler struct {
	db    *gorm.DB
	store *storage.ObjectStore
}

func NewFileHandler(db *gorm.DB, store *storage.ObjectStore) *FileHandler {
	return &FileHandler{db: db, store: store}
}

// Upload stores a multipart file in the bucket and records it
func (h *FileHandler) Upload(c *gin.Context) {
	userID, exists := middleware.GetCurrentUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing file"})
		return
	}

	if fileHeader.Size > maxUploadSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "File too large"})
		return
	}

	var conversationID *uint
	if raw := c.PostForm("conversation_id"); raw != "" {
		parsed, parseErr := strconv.ParseUint(raw, 10, 32)
		if parseErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid conversation id"})
			return
		}
		id := uint(parsed)
		var conversation models.Conversation
		if err := h.db.Where("id = ? AND user_id = ?", id, userID).
			First(&conversation).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Conversation not found"})
			return
		}
		conversationID = &id
	}

	src, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read file"})
		return
	}
	defer src.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	objectKey := fmt.Sprintf("%d/%s%s", userID, uuid.New().String(), filepath.Ext(fileHeader.Filename))

	if err := h.store.Put(c.Request.Context(), objectKey, src, fileHeader.Size, contentType); err != nil {
		logger.Error("Failed to store upload", err, logger.Fields{"object_key": objectKey})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store file"})
		return
	}

	upload := models.FileUpload{
		UserID:         userID,
		ConversationID: conversationID,
		ObjectKey:      objectKey,
		FileName:       fileHeader.Filename,
		ContentType:    contentType,
		SizeBytes:      fileHeader.Size,
	}

	if err := h.db.Create(&upload).Error; err != nil {
		// Keep the bucket consistent with the table.
		if removeErr := h.store.Remove(c.Request.Context(), objectKey); removeErr != nil {
			logger.Error("Failed to remove orphaned object", removeErr, logger.Fields{"object_key": objectKey})
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record upload"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"file": upload})
}

// List returns the current user's uploads
func (h *FileHandler) List(c *gin.Context) {
	userID, exists := middleware.GetCurrentUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var uploads []models.FileUpload
	if err := h.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&uploads).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list files"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"files": uploads,
		"count": len(uploads),
	})
}

// Download returns a short-lived presigned URL for one upload
func (h *FileHandler) Download(c *gin.Context) {
	userID, exists := middleware.GetCurrentUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	fileID, err := parseIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file id"})
		return
	}

	var upload models.FileUpload
	if err := h.db.Where("id = ? AND user_id = ?", fileID, userID).
		First(&upload).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}

	url, err := h.store.PresignedDownloadURL(c.Request.Context(), upload.ObjectKey, upload.FileName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate download URL"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"url":       url,
		"file_name": upload.FileName,
	})
}

// Delete removes the object and the upload record
func (h *FileHandler) Delete(c *gin.Context) {
	userID, exists := middleware.GetCurrentUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	fileID, err := parseIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file id"})
		return
	}

	var upload models.FileUpload
	if err := h.db.Where("id = ? AND user_id = ?", fileID, userID).
		First(&upload).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}

	if err := h.store.Remove(c.Request.Context(), upload.ObjectKey); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete file"})
		return
	}

	if err := h.db.Delete(&upload).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete file record"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "File deleted"})
}
