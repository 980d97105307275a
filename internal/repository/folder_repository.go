package repository

import (
	"errors"

	"chordsmith/internal/model"

	"gorm.io/gorm"
)

type FolderRepository struct {
	db *gorm.DB
}

func NewFolderRepository(db *gorm.DB) *FolderRepository {
	return &FolderRepository{db: db}
}

func (r *FolderRepository) Create(folder *model.Folder) error {
	return r.db.Create(folder).Error
}

func (r *FolderRepository) FindByID(folderID uint) (*model.Folder, error) {
	var folder model.Folder
	if err := r.db.First(&folder, folderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &folder, nil
}

// 查找用户的全部文件夹
func (r *FolderRepository) FindByUserID(userID uint) ([]model.Folder, error) {
	var folders []model.Folder
	err := r.db.Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&folders).Error
	return folders, err
}

// Delete 删除文件夹及其歌曲映射，歌曲本身不受影响。
func (r *FolderRepository) Delete(folderID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("folder_id = ?", folderID).Delete(&model.SongFolder{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Folder{}, folderID).Error
	})
}
