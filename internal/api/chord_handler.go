package api

import (
	"net/http"

	"chordsmith/internal/service"

	"github.com/gin-gonic/gin"
)

type ChordHandler struct {
	chordService *service.ChordService
}

func NewChordHandler(chordService *service.ChordService) *ChordHandler {
	return &ChordHandler{chordService: chordService}
}

func (h *ChordHandler) CreateChord(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return
	}

	var req service.ChordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	chord, err := h.chordService.Create(userID, req)
	if err != nil {
		writeServiceError(c, err, "Failed to create chord")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": chord.ID})
}

func (h *ChordHandler) GetChords(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return
	}

	chords, err := h.chordService.List(userID)
	if err != nil {
		writeServiceError(c, err, "Failed to retrieve chords")
		return
	}

	c.JSON(http.StatusOK, gin.H{"chords": chords})
}

func (h *ChordHandler) GetChord(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return
	}
	chordID, ok := getIDParam(c, "chord_id")
	if !ok {
		return
	}

	detail, err := h.chordService.Get(chordID, userID)
	if err != nil {
		writeServiceError(c, err, "Failed to retrieve chord")
		return
	}

	c.JSON(http.StatusOK, detail)
}

// UpdateChord 处理和弦更新，非创建者的更新派生出新和弦。
func (h *ChordHandler) UpdateChord(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return
	}
	chordID, ok := getIDParam(c, "chord_id")
	if !ok {
		return
	}

	var req service.ChordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	chord, err := h.chordService.Update(chordID, userID, req)
	if err != nil {
		writeServiceError(c, err, "Failed to update chord")
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": chord.ID})
}

func (h *ChordHandler) DeleteChord(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return
	}
	chordID, ok := getIDParam(c, "chord_id")
	if !ok {
		return
	}

	if err := h.chordService.Delete(chordID, userID); err != nil {
		writeServiceError(c, err, "Failed to delete chord")
		return
	}

	c.Status(http.StatusNoContent)
}
