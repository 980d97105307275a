package api

import (
	"net/http"

	"chordsmith/internal/service"

	"github.com/gin-gonic/gin"
)

type FolderHandler struct {
	folderService *service.FolderService
	songService   *service.SongService
}

func NewFolderHandler(folderService *service.FolderService, songService *service.SongService) *FolderHandler {
	return &FolderHandler{
		folderService: folderService,
		songService:   songService,
	}
}

func (h *FolderHandler) CreateFolder(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return
	}

	var req service.FolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	folder, err := h.folderService.Create(userID, req)
	if err != nil {
		writeServiceError(c, err, "Failed to create folder")
		return
	}

	c.JSON(http.StatusCreated, folder)
}

func (h *FolderHandler) GetFolders(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return
	}

	folders, err := h.folderService.List(userID)
	if err != nil {
		writeServiceError(c, err, "Failed to retrieve folders")
		return
	}

	c.JSON(http.StatusOK, gin.H{"folders": folders})
}

// GetFolderSongs 返回文件夹中对当前用户可见的歌曲。
// "全部歌曲"视图走 GET /api/songs，不经过文件夹。
func (h *FolderHandler) GetFolderSongs(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return
	}
	folderID, ok := getIDParam(c, "folder_id")
	if !ok {
		return
	}

	songs, err := h.songService.ListByFolder(folderID, userID)
	if err != nil {
		writeServiceError(c, err, "Failed to retrieve folder songs")
		return
	}

	c.JSON(http.StatusOK, gin.H{"songs": songs})
}

func (h *FolderHandler) DeleteFolder(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return
	}
	folderID, ok := getIDParam(c, "folder_id")
	if !ok {
		return
	}

	if err := h.folderService.Delete(folderID, userID); err != nil {
		writeServiceError(c, err, "Failed to delete folder")
		return
	}

	c.Status(http.StatusNoContent)
}
