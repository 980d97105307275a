package model

import "time"

// UserSong 是用户与歌曲之间的访问授权记录。
// 每首歌曲恰好有一条 IsCreator=true 的记录，其 UserID 等于歌曲的 CreatorID，
// 与歌曲本身在同一事务中写入。
type UserSong struct {
	UserID    uint      `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	SongID    uint      `gorm:"primaryKey;autoIncrement:false" json:"song_id"`
	IsCreator bool      `gorm:"not null;default:false" json:"is_creator"`
	CreatedAt time.Time `json:"created_at"`
}

// UserChord 是用户与和弦之间的访问授权记录，语义与 UserSong 对称。
type UserChord struct {
	UserID    uint      `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	ChordID   uint      `gorm:"primaryKey;autoIncrement:false" json:"chord_id"`
	IsCreator bool      `gorm:"not null;default:false" json:"is_creator"`
	CreatedAt time.Time `json:"created_at"`
}
