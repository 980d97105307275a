package service

import (
	"fmt"
	"strings"

	"chordsmith/internal/apperr"
	"chordsmith/internal/model"
	"chordsmith/internal/repository"
)

// FolderService 维护文件夹这层薄关联，歌曲归属关系随歌曲更新整表重写。
type FolderService struct {
	folderRepo *repository.FolderRepository
}

func NewFolderService(folderRepo *repository.FolderRepository) *FolderService {
	return &FolderService{folderRepo: folderRepo}
}

type FolderRequest struct {
	Name string `json:"name" binding:"required"`
}

func (s *FolderService) Create(userID uint, req FolderRequest) (*model.Folder, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", apperr.ErrValidation)
	}
	folder := &model.Folder{
		Name:   req.Name,
		UserID: userID,
	}
	if err := s.folderRepo.Create(folder); err != nil {
		return nil, fmt.Errorf("failed to create folder: %w", err)
	}
	return folder, nil
}

func (s *FolderService) List(userID uint) ([]model.Folder, error) {
	return s.folderRepo.FindByUserID(userID)
}

// Delete 删除自己的文件夹，歌曲本身不受影响。
func (s *FolderService) Delete(folderID, userID uint) error {
	folder, err := s.folderRepo.FindByID(folderID)
	if err != nil {
		return fmt.Errorf("failed to find folder: %w", err)
	}
	if folder == nil {
		return fmt.Errorf("%w: folder %d", apperr.ErrNotFound, folderID)
	}
	if folder.UserID != userID {
		return fmt.Errorf("%w: folder belongs to another user", apperr.ErrUnauthorized)
	}
	return s.folderRepo.Delete(folderID)
}
