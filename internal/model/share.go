package model

import "time"

// ShareKind 是可分享内容的封闭种类集合。
type ShareKind string

const (
	ShareKindSong  ShareKind = "song"
	ShareKindChord ShareKind = "chord"
)

type ShareStatus string

// 分享的生命周期：pending 恰好转换一次到 accepted 或 rejected，之后不再变化。
const (
	SharePending  ShareStatus = "pending"
	ShareAccepted ShareStatus = "accepted"
	ShareRejected ShareStatus = "rejected"
)

// Share 表示一次用户之间的内容分享。
// Payload 保存分享创建时刻内容的冻结快照，写入后不可变，
// 发送方之后对原内容的编辑不影响任何已存在的分享。
type Share struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	Kind        ShareKind   `gorm:"type:varchar(10);not null;index" json:"kind"`
	ContentID   uint        `gorm:"not null;index" json:"content_id"`
	SenderID    uint        `gorm:"not null;index" json:"sender_id"`
	RecipientID uint        `gorm:"not null;index" json:"recipient_id"`
	Payload     string      `gorm:"type:text;not null" json:"-"`
	Status      ShareStatus `gorm:"type:varchar(10);not null;default:'pending';index" json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}
