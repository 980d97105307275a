package model

import "time"

// Chord 表示一个和弦指法图。Diagram 为序列化的指法几何数据。
type Chord struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(50);not null" json:"name"`
	Diagram   string    `gorm:"type:text;not null" json:"diagram"`
	CreatorID uint      `gorm:"not null;index" json:"creator_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Creator User `gorm:"foreignKey:CreatorID" json:"-"`
}
