package repository

import (
	"errors"
	"time"

	"chordsmith/internal/model"

	"gorm.io/gorm"
)

// SongRepository 处理歌曲及其授权、关联的持久化。
type SongRepository struct {
	db *gorm.DB
}

func NewSongRepository(db *gorm.DB) *SongRepository {
	return &SongRepository{db: db}
}

// Create 在一个事务中插入歌曲、创建者授权与全部关联。
// 任一语句失败则整体回滚，不留下孤儿行。
func (r *SongRepository) Create(song *model.Song, chordIDs, folderIDs []uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(song).Error; err != nil {
			return err
		}
		// 创建者授权与歌曲原子写入
		grant := &model.UserSong{
			UserID:    song.CreatorID,
			SongID:    song.ID,
			IsCreator: true,
		}
		if err := tx.Create(grant).Error; err != nil {
			return err
		}
		return writeSongAssociations(tx, song.ID, chordIDs, folderIDs)
	})
}

// 根据ID查找歌曲，不存在返回 nil
func (r *SongRepository) FindByID(songID uint) (*model.Song, error) {
	var song model.Song
	if err := r.db.First(&song, songID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &song, nil
}

// FindGrant 查找用户对歌曲的授权记录，不存在返回 nil。
func (r *SongRepository) FindGrant(userID, songID uint) (*model.UserSong, error) {
	var grant model.UserSong
	err := r.db.Where("user_id = ? AND song_id = ?", userID, songID).First(&grant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &grant, nil
}

// FindByUserID 查找用户持有任意授权（创建或受赠）的全部歌曲。
func (r *SongRepository) FindByUserID(userID uint) ([]model.Song, error) {
	var songs []model.Song
	err := r.db.Joins("JOIN user_songs ON user_songs.song_id = songs.id").
		Where("user_songs.user_id = ?", userID).
		Order("songs.created_at DESC").
		Find(&songs).Error
	return songs, err
}

// FindByFolder 查找文件夹中对用户可见的歌曲。
func (r *SongRepository) FindByFolder(folderID, userID uint) ([]model.Song, error) {
	var songs []model.Song
	err := r.db.Joins("JOIN song_folders ON song_folders.song_id = songs.id").
		Joins("JOIN user_songs ON user_songs.song_id = songs.id").
		Where("song_folders.folder_id = ? AND user_songs.user_id = ?", folderID, userID).
		Order("songs.created_at DESC").
		Find(&songs).Error
	return songs, err
}

// FindChordIDs 返回歌曲的依赖和弦ID，按显示顺序排列。
func (r *SongRepository) FindChordIDs(songID uint) ([]uint, error) {
	var chordIDs []uint
	err := r.db.Model(&model.SongChord{}).
		Where("song_id = ?", songID).
		Order("display_order").
		Pluck("chord_id", &chordIDs).Error
	return chordIDs, err
}

// FindFolderIDs 返回歌曲所属的文件夹ID。
func (r *SongRepository) FindFolderIDs(songID uint) ([]uint, error) {
	var folderIDs []uint
	err := r.db.Model(&model.SongFolder{}).
		Where("song_id = ?", songID).
		Pluck("folder_id", &folderIDs).Error
	return folderIDs, err
}

// Update 原地更新歌曲属性并整表重写其关联。
// 用 map 更新以覆盖零值字段（清空 Notes 等）。
func (r *SongRepository) Update(song *model.Song, chordIDs, folderIDs []uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"title":                song.Title,
			"song_date":            song.SongDate,
			"notes":                song.Notes,
			"song_key":             song.SongKey,
			"capo":                 song.Capo,
			"bpm":                  song.BPM,
			"effects":              song.Effects,
			"content_font_size_pt": song.ContentFontSizePt,
			"content_text":         song.ContentText,
			"updated_at":           time.Now(),
		}
		if err := tx.Model(&model.Song{}).Where("id = ?", song.ID).Updates(updates).Error; err != nil {
			return err
		}
		// 先删后插，不做增量比对
		if err := tx.Where("song_id = ?", song.ID).Delete(&model.SongChord{}).Error; err != nil {
			return err
		}
		if err := tx.Where("song_id = ?", song.ID).Delete(&model.SongFolder{}).Error; err != nil {
			return err
		}
		return writeSongAssociations(tx, song.ID, chordIDs, folderIDs)
	})
}

// Delete 删除歌曲并级联删除其授权与关联。
func (r *SongRepository) Delete(songID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("song_id = ?", songID).Delete(&model.UserSong{}).Error; err != nil {
			return err
		}
		if err := tx.Where("song_id = ?", songID).Delete(&model.SongChord{}).Error; err != nil {
			return err
		}
		if err := tx.Where("song_id = ?", songID).Delete(&model.SongFolder{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Song{}, songID).Error
	})
}

func writeSongAssociations(tx *gorm.DB, songID uint, chordIDs, folderIDs []uint) error {
	for i, chordID := range chordIDs {
		assoc := &model.SongChord{
			SongID:       songID,
			ChordID:      chordID,
			DisplayOrder: i,
		}
		if err := tx.Create(assoc).Error; err != nil {
			return err
		}
	}
	for _, folderID := range folderIDs {
		assoc := &model.SongFolder{
			SongID:   songID,
			FolderID: folderID,
		}
		if err := tx.Create(assoc).Error; err != nil {
			return err
		}
	}
	return nil
}
