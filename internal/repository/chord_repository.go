package repository

import (
	"errors"
	"time"

	"chordsmith/internal/model"

	"gorm.io/gorm"
)

// ChordRepository 处理和弦及其授权的持久化，与 SongRepository 对称。
type ChordRepository struct {
	db *gorm.DB
}

func NewChordRepository(db *gorm.DB) *ChordRepository {
	return &ChordRepository{db: db}
}

// Create 在一个事务中插入和弦与创建者授权。
func (r *ChordRepository) Create(chord *model.Chord) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(chord).Error; err != nil {
			return err
		}
		grant := &model.UserChord{
			UserID:    chord.CreatorID,
			ChordID:   chord.ID,
			IsCreator: true,
		}
		return tx.Create(grant).Error
	})
}

// 根据ID查找和弦，不存在返回 nil
func (r *ChordRepository) FindByID(chordID uint) (*model.Chord, error) {
	var chord model.Chord
	if err := r.db.First(&chord, chordID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &chord, nil
}

// FindGrant 查找用户对和弦的授权记录，不存在返回 nil。
func (r *ChordRepository) FindGrant(userID, chordID uint) (*model.UserChord, error) {
	var grant model.UserChord
	err := r.db.Where("user_id = ? AND chord_id = ?", userID, chordID).First(&grant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &grant, nil
}

// FindByUserID 查找用户持有任意授权的全部和弦。
func (r *ChordRepository) FindByUserID(userID uint) ([]model.Chord, error) {
	var chords []model.Chord
	err := r.db.Joins("JOIN user_chords ON user_chords.chord_id = chords.id").
		Where("user_chords.user_id = ?", userID).
		Order("chords.created_at DESC").
		Find(&chords).Error
	return chords, err
}

// Update 原地更新和弦属性。
func (r *ChordRepository) Update(chord *model.Chord) error {
	updates := map[string]interface{}{
		"name":       chord.Name,
		"diagram":    chord.Diagram,
		"updated_at": time.Now(),
	}
	return r.db.Model(&model.Chord{}).Where("id = ?", chord.ID).Updates(updates).Error
}

// Delete 删除和弦并级联删除其授权与歌曲关联。
func (r *ChordRepository) Delete(chordID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("chord_id = ?", chordID).Delete(&model.UserChord{}).Error; err != nil {
			return err
		}
		if err := tx.Where("chord_id = ?", chordID).Delete(&model.SongChord{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Chord{}, chordID).Error
	})
}
