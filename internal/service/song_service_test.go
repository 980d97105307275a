package service

import (
	"errors"
	"fmt"
	"testing"

	"chordsmith/internal/apperr"
	"chordsmith/internal/model"
	"chordsmith/internal/repository"
	"chordsmith/pkg/config"
	"chordsmith/pkg/db"
	"chordsmith/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// --- Test Setup ---

func setupServiceTest(t *testing.T) *gorm.DB {
	if err := config.InitTest(); err != nil {
		t.Fatalf("Failed to initialize config: %v", err)
	}
	if logger.L == nil {
		if err := logger.InitLogger(config.GlobalConfig.Log.Level, config.GlobalConfig.Log.ProductionMode); err != nil {
			t.Fatalf("Failed to initialize logger: %v", err)
		}
	}
	database, err := db.InitDB(config.GlobalConfig.Database.DSN)
	require.NoError(t, err, "Failed to connect to test database")

	cleanupAllTables(t, database)
	return database
}

func cleanupAllTables(t *testing.T, database *gorm.DB) {
	session := database.Session(&gorm.Session{AllowGlobalUpdate: true})
	for _, m := range []interface{}{
		&model.Share{},
		&model.UserSong{},
		&model.UserChord{},
		&model.SongChord{},
		&model.SongFolder{},
		&model.Song{},
		&model.Chord{},
		&model.Folder{},
		&model.User{},
	} {
		if err := session.Delete(m).Error; err != nil {
			t.Logf("Warning: Failed to cleanup table for %T: %v", m, err)
		}
	}
}

func createUser(t *testing.T, database *gorm.DB, username string) *model.User {
	user := &model.User{
		Username: username,
		Password: "testpassword",
		Email:    fmt.Sprintf("%s@example.com", username),
	}
	require.NoError(t, repository.NewUserRepository(database).Create(user))
	return user
}

func createChord(t *testing.T, database *gorm.DB, creatorID uint, name string) *model.Chord {
	chordService := NewChordService(repository.NewChordRepository(database))
	chord, err := chordService.Create(creatorID, ChordRequest{
		Name:    name,
		Diagram: `{"frets":[0,2,2,1,0,0]}`,
	})
	require.NoError(t, err)
	return chord
}

// --- Tests ---

func TestSongService_Create_Validation(t *testing.T) {
	database := setupServiceTest(t)
	songService := NewSongService(repository.NewSongRepository(database))
	alice := createUser(t, database, "validAlice")

	_, err := songService.Create(alice.ID, SongRequest{Title: "   "})
	assert.True(t, errors.Is(err, apperr.ErrValidation), "expected ErrValidation, got %v", err)

	// 校验失败不留任何行
	var count int64
	require.NoError(t, database.Model(&model.Song{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

// 场景：alice 创建歌曲，bob 更新它，得到的是一首新歌，原曲不变。
func TestSongService_Update_ForkByNonCreator(t *testing.T) {
	database := setupServiceTest(t)
	songService := NewSongService(repository.NewSongRepository(database))
	alice := createUser(t, database, "forkAlice")
	bob := createUser(t, database, "forkBob")
	chord1 := createChord(t, database, alice.ID, "G")
	chord2 := createChord(t, database, alice.ID, "C")

	created, err := songService.Create(alice.ID, SongRequest{
		Title:    "Test",
		SongKey:  "G",
		ChordIDs: []uint{chord1.ID, chord2.ID},
	})
	require.NoError(t, err)

	detail, err := songService.Get(created.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, detail.CreatorID)
	assert.True(t, detail.IsCreator)
	assert.Equal(t, []uint{chord1.ID, chord2.ID}, detail.ChordIDs)

	// bob 的更新派生出一首新歌
	forked, err := songService.Update(created.ID, bob.ID, SongRequest{Title: "Test v2"})
	require.NoError(t, err)
	assert.NotEqual(t, created.ID, forked.ID, "Fork must produce a new song id")
	assert.Equal(t, bob.ID, forked.CreatorID)

	// 原曲及其关联不受影响
	original, err := songService.Get(created.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "Test", original.Title)
	assert.Equal(t, []uint{chord1.ID, chord2.ID}, original.ChordIDs)

	// 派生歌曲完全属于 bob
	forkedDetail, err := songService.Get(forked.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, forkedDetail.IsCreator)
	assert.Equal(t, "Test v2", forkedDetail.Title)
}

// 派生不检查请求者是否持有原曲授权，只要属性合法即成功。
func TestSongService_Update_ForkWithoutGrant(t *testing.T) {
	database := setupServiceTest(t)
	songService := NewSongService(repository.NewSongRepository(database))
	alice := createUser(t, database, "grantlessAlice")
	mallory := createUser(t, database, "grantlessMallory")

	created, err := songService.Create(alice.ID, SongRequest{Title: "Private"})
	require.NoError(t, err)

	grant, err := repository.NewSongRepository(database).FindGrant(mallory.ID, created.ID)
	require.NoError(t, err)
	require.Nil(t, grant, "mallory must hold no grant for this test")

	forked, err := songService.Update(created.ID, mallory.ID, SongRequest{Title: "Copied"})
	require.NoError(t, err)
	assert.NotEqual(t, created.ID, forked.ID)
	assert.Equal(t, mallory.ID, forked.CreatorID)
}

func TestSongService_Update_InPlaceByCreator(t *testing.T) {
	database := setupServiceTest(t)
	songService := NewSongService(repository.NewSongRepository(database))
	alice := createUser(t, database, "inPlaceAlice")
	chord1 := createChord(t, database, alice.ID, "Dm")
	chord2 := createChord(t, database, alice.ID, "F")

	created, err := songService.Create(alice.ID, SongRequest{
		Title:    "Original",
		ChordIDs: []uint{chord1.ID},
	})
	require.NoError(t, err)

	updated, err := songService.Update(created.ID, alice.ID, SongRequest{
		Title:    "Edited",
		ChordIDs: []uint{chord2.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID, "Creator update must keep the same id")

	detail, err := songService.Get(created.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "Edited", detail.Title)
	assert.Equal(t, []uint{chord2.ID}, detail.ChordIDs)
}

func TestSongService_Update_NotFound(t *testing.T) {
	database := setupServiceTest(t)
	songService := NewSongService(repository.NewSongRepository(database))
	alice := createUser(t, database, "missingAlice")

	_, err := songService.Update(99999, alice.ID, SongRequest{Title: "Whatever"})
	assert.True(t, errors.Is(err, apperr.ErrNotFound), "expected ErrNotFound, got %v", err)
}

func TestSongService_Delete(t *testing.T) {
	database := setupServiceTest(t)
	songService := NewSongService(repository.NewSongRepository(database))
	alice := createUser(t, database, "deleteAlice")
	bob := createUser(t, database, "deleteBob")

	created, err := songService.Create(alice.ID, SongRequest{Title: "Mine"})
	require.NoError(t, err)

	// 非创建者不能删除
	err = songService.Delete(created.ID, bob.ID)
	assert.True(t, errors.Is(err, apperr.ErrUnauthorized), "expected ErrUnauthorized, got %v", err)

	// 越权尝试无部分效果
	detail, err := songService.Get(created.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mine", detail.Title)

	require.NoError(t, songService.Delete(created.ID, alice.ID))

	_, err = songService.Get(created.ID, alice.ID)
	assert.True(t, errors.Is(err, apperr.ErrNotFound), "expected ErrNotFound, got %v", err)
}
