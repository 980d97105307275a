package repository

import (
	"errors"
	"fmt"

	"chordsmith/internal/apperr"
	"chordsmith/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ShareRepository 处理分享账本的持久化。
type ShareRepository struct {
	db *gorm.DB
}

func NewShareRepository(db *gorm.DB) *ShareRepository {
	return &ShareRepository{db: db}
}

// 插入一条待处理的分享记录
func (r *ShareRepository) Create(share *model.Share) error {
	return r.db.Create(share).Error
}

// FindIncoming 查找发给用户的全部待处理分享，两种内容合并，最新在前。
func (r *ShareRepository) FindIncoming(recipientID uint) ([]model.Share, error) {
	var shares []model.Share
	err := r.db.Where("recipient_id = ? AND status = ?", recipientID, model.SharePending).
		Order("created_at DESC").
		Find(&shares).Error
	return shares, err
}

// Resolve 执行分享的一次性状态转换。
// 以行级锁读取分享行，使并发的两次处理在存储层串行化：
// 后到者观察到 status != pending，得到 ErrInvalidState。
// materialize 仅在接受时传入，在同一事务内执行；任何失败整体回滚，
// 分享保持 pending，不会出现部分接受的状态。
func (r *ShareRepository) Resolve(shareID, recipientID uint, status model.ShareStatus, materialize func(tx *gorm.DB, share *model.Share) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var share model.Share
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND recipient_id = ?", shareID, recipientID).
			First(&share).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: share %d", apperr.ErrNotFound, shareID)
			}
			return err
		}
		if share.Status != model.SharePending {
			return fmt.Errorf("%w: share %d already %s", apperr.ErrInvalidState, share.ID, share.Status)
		}
		if materialize != nil {
			if err := materialize(tx, &share); err != nil {
				return err
			}
		}
		return tx.Model(&model.Share{}).Where("id = ?", share.ID).Update("status", status).Error
	})
}
