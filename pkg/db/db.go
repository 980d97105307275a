package db

import (
	"fmt"

	"chordsmith/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// InitDB 打开数据库连接并迁移表结构。
// 返回的句柄由调用方持有并注入各个仓库，不保存为包级全局变量。
func InitDB(dsn string) (*gorm.DB, error) {
	database, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// 自动迁移模式
	err = database.AutoMigrate(
		&model.User{},
		&model.Song{},
		&model.Chord{},
		&model.UserSong{},
		&model.UserChord{},
		&model.SongChord{},
		&model.SongFolder{},
		&model.Folder{},
		&model.Share{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return database, nil
}
