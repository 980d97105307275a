package api

import (
	"errors"
	"net/http"
	"strconv"

	"chordsmith/internal/apperr"
	"chordsmith/internal/service"
	"chordsmith/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type SongHandler struct {
	songService *service.SongService
}

func NewSongHandler(songService *service.SongService) *SongHandler {
	return &SongHandler{songService: songService}
}

func (h *SongHandler) CreateSong(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return
	}

	var req service.SongRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	song, err := h.songService.Create(userID, req)
	if err != nil {
		writeServiceError(c, err, "Failed to create song")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": song.ID})
}

func (h *SongHandler) GetSongs(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return
	}

	songs, err := h.songService.List(userID)
	if err != nil {
		writeServiceError(c, err, "Failed to retrieve songs")
		return
	}

	c.JSON(http.StatusOK, gin.H{"songs": songs})
}

func (h *SongHandler) GetSong(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return
	}
	songID, ok := getIDParam(c, "song_id")
	if !ok {
		return
	}

	detail, err := h.songService.Get(songID, userID)
	if err != nil {
		writeServiceError(c, err, "Failed to retrieve song")
		return
	}

	c.JSON(http.StatusOK, detail)
}

// UpdateSong 处理歌曲更新。非创建者的更新会派生出一首新歌曲，
// 响应中返回的ID即为实际落库的那首歌曲的ID。
func (h *SongHandler) UpdateSong(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return
	}
	songID, ok := getIDParam(c, "song_id")
	if !ok {
		return
	}

	var req service.SongRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	song, err := h.songService.Update(songID, userID, req)
	if err != nil {
		writeServiceError(c, err, "Failed to update song")
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": song.ID})
}

func (h *SongHandler) DeleteSong(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return
	}
	songID, ok := getIDParam(c, "song_id")
	if !ok {
		return
	}

	if err := h.songService.Delete(songID, userID); err != nil {
		writeServiceError(c, err, "Failed to delete song")
		return
	}

	c.Status(http.StatusNoContent)
}

func getUserIDFromContext(c *gin.Context) (uint, bool) {
	userIDValue, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return 0, false
	}
	userID, ok := userIDValue.(uint)
	if !ok {
		logger.L.Error("Invalid userID type in context", zap.Any("userIDValue", userIDValue))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user ID in context"})
		return 0, false
	}
	return userID, true
}

func getIDParam(c *gin.Context, name string) (uint, bool) {
	idStr := c.Param(name)
	id64, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name + " parameter"})
		return 0, false
	}
	return uint(id64), true
}

// writeServiceError 把错误分类映射为HTTP状态码。
// 分类之外的错误（含存储层故障）统一按500返回通用消息。
func writeServiceError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperr.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperr.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, apperr.ErrInvalidState):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logger.L.Error("Unexpected service error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
