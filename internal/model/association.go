package model

// SongChord 是歌曲到和弦的有序关联。
// 歌曲每次更新时整表重写（先删后插），不做增量比对。
type SongChord struct {
	SongID       uint `gorm:"primaryKey;autoIncrement:false" json:"song_id"`
	ChordID      uint `gorm:"primaryKey;autoIncrement:false" json:"chord_id"`
	DisplayOrder int  `gorm:"not null;default:0" json:"display_order"`
}

// SongFolder 是歌曲到文件夹的无序关联，更新规则同 SongChord。
type SongFolder struct {
	SongID   uint `gorm:"primaryKey;autoIncrement:false" json:"song_id"`
	FolderID uint `gorm:"primaryKey;autoIncrement:false" json:"folder_id"`
}
