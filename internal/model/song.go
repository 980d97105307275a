package model

import "time"

// Song 表示一首歌曲。CreatorID 在创建后不再改变：
// 非创建者的编辑只会以新建一首歌曲的方式落库，原曲不受影响。
type Song struct {
	ID                uint     `gorm:"primaryKey" json:"id"`
	Title             string   `gorm:"type:varchar(255);not null" json:"title"`
	SongDate          string   `gorm:"type:varchar(50)" json:"song_date"`
	Notes             string   `gorm:"type:text" json:"notes"`
	SongKey           string   `gorm:"type:varchar(10)" json:"song_key"`
	Capo              string   `gorm:"type:varchar(10)" json:"capo"`
	BPM               string   `gorm:"type:varchar(10)" json:"bpm"`
	Effects           string   `gorm:"type:varchar(255)" json:"effects"`
	ContentFontSizePt *float64 `json:"content_font_size_pt"`
	ContentText       string   `gorm:"type:text" json:"content_text"`
	CreatorID         uint     `gorm:"not null;index" json:"creator_id"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`

	Creator User `gorm:"foreignKey:CreatorID" json:"-"`
}
