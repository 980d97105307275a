package api

import (
	"net/http"

	"chordsmith/internal/model"
	"chordsmith/internal/service"

	"github.com/gin-gonic/gin"
)

type ShareHandler struct {
	shareService *service.ShareService
}

func NewShareHandler(shareService *service.ShareService) *ShareHandler {
	return &ShareHandler{shareService: shareService}
}

// ShareSong 处理歌曲分享请求
func (h *ShareHandler) ShareSong(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return
	}

	var req struct {
		SongID            uint   `json:"song_id" binding:"required"`
		RecipientUsername string `json:"recipient_username" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	share, err := h.shareService.CreateShare(model.ShareKindSong, req.SongID, userID, req.RecipientUsername)
	if err != nil {
		writeServiceError(c, err, "Failed to share song")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Song shared successfully", "share_id": share.ID})
}

// ShareChord 处理和弦分享请求
func (h *ShareHandler) ShareChord(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return
	}

	var req struct {
		ChordID           uint   `json:"chord_id" binding:"required"`
		RecipientUsername string `json:"recipient_username" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	share, err := h.shareService.CreateShare(model.ShareKindChord, req.ChordID, userID, req.RecipientUsername)
	if err != nil {
		writeServiceError(c, err, "Failed to share chord")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Chord shared successfully", "share_id": share.ID})
}

// GetIncomingShares 返回发给当前用户的待处理分享，按内容种类分组。
func (h *ShareHandler) GetIncomingShares(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return
	}

	shares, err := h.shareService.ListIncoming(userID)
	if err != nil {
		writeServiceError(c, err, "Failed to retrieve incoming shares")
		return
	}

	songShares := make([]model.Share, 0)
	chordShares := make([]model.Share, 0)
	for _, share := range shares {
		switch share.Kind {
		case model.ShareKindSong:
			songShares = append(songShares, share)
		case model.ShareKindChord:
			chordShares = append(chordShares, share)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"song_shares":  songShares,
		"chord_shares": chordShares,
	})
}

func (h *ShareHandler) AcceptShare(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return
	}
	shareID, ok := getIDParam(c, "share_id")
	if !ok {
		return
	}

	if err := h.shareService.Accept(shareID, userID); err != nil {
		writeServiceError(c, err, "Failed to accept share")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Share accepted"})
}

func (h *ShareHandler) RejectShare(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return
	}
	shareID, ok := getIDParam(c, "share_id")
	if !ok {
		return
	}

	if err := h.shareService.Reject(shareID, userID); err != nil {
		writeServiceError(c, err, "Failed to reject share")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Share rejected"})
}
