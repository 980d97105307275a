package repository

import (
	"fmt"
	"testing"

	"chordsmith/internal/model"
	"chordsmith/pkg/config"
	"chordsmith/pkg/db"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// --- Test Setup ---

// setupTestRepos initializes the test DB and returns the repositories used by
// the content-store tests.
func setupTestRepos(t *testing.T) (*SongRepository, *ChordRepository, *UserRepository, *gorm.DB) {
	if err := config.InitTest(); err != nil {
		t.Fatalf("Failed to initialize config: %v", err)
	}
	database, err := db.InitDB(config.GlobalConfig.Database.DSN)
	require.NoError(t, err, "Failed to connect to test database")

	cleanupContentTables(t, database)

	return NewSongRepository(database), NewChordRepository(database), NewUserRepository(database), database
}

// 帮助函数：清空内容相关的所有表
func cleanupContentTables(t *testing.T, database *gorm.DB) {
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

func createTestUser(t *testing.T, userRepo *UserRepository, username string) *model.User {
	user := &model.User{
		Username: username,
		Password: "testpassword",
		Email:    fmt.Sprintf("%s@example.com", username),
	}
	err := userRepo.Create(user)
	require.NoError(t, err, "Failed to create test user %s", username)
	require.True(t, user.ID > 0)
	return user
}

func createTestChord(t *testing.T, chordRepo *ChordRepository, creatorID uint, name string) *model.Chord {
	chord := &model.Chord{
		Name:      name,
		Diagram:   `{"frets":[0,2,2,1,0,0]}`,
		CreatorID: creatorID,
	}
	require.NoError(t, chordRepo.Create(chord))
	require.True(t, chord.ID > 0)
	return chord
}

// --- Tests ---

func TestSongRepository_Create(t *testing.T) {
	songRepo, chordRepo, userRepo, database := setupTestRepos(t)
	creator := createTestUser(t, userRepo, "songCreator")
	chord1 := createTestChord(t, chordRepo, creator.ID, "G")
	chord2 := createTestChord(t, chordRepo, creator.ID, "C")

	song := &model.Song{
		Title:     "Create Test",
		SongKey:   "G",
		CreatorID: creator.ID,
	}
	err := songRepo.Create(song, []uint{chord1.ID, chord2.ID}, nil)
	require.NoError(t, err)
	assert.True(t, song.ID > 0, "Song ID should be set after creation")

	// 验证创建者授权与歌曲一起写入
	grant, err := songRepo.FindGrant(creator.ID, song.ID)
	require.NoError(t, err)
	require.NotNil(t, grant, "Creator grant should exist")
	assert.True(t, grant.IsCreator)

	// 每首歌曲恰好一条 IsCreator=true 的授权
	var creatorGrants int64
	err = database.Model(&model.UserSong{}).
		Where("song_id = ? AND is_creator = ?", song.ID, true).
		Count(&creatorGrants).Error
	require.NoError(t, err)
	assert.Equal(t, int64(1), creatorGrants)

	// 依赖和弦按显示顺序保存
	chordIDs, err := songRepo.FindChordIDs(song.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{chord1.ID, chord2.ID}, chordIDs)
}

func TestSongRepository_Create_Atomicity(t *testing.T) {
	songRepo, chordRepo, userRepo, database := setupTestRepos(t)
	creator := createTestUser(t, userRepo, "atomicCreator")
	chord := createTestChord(t, chordRepo, creator.ID, "Am")

	// 重复的和弦ID触发关联表的主键冲突，
	// 此时歌曲与授权的插入必须一并回滚
	song := &model.Song{
		Title:     "Atomic Test",
		CreatorID: creator.ID,
	}
	err := songRepo.Create(song, []uint{chord.ID, chord.ID}, nil)
	require.Error(t, err, "Duplicate association insert should fail")

	var songCount int64
	require.NoError(t, database.Model(&model.Song{}).Where("title = ?", "Atomic Test").Count(&songCount).Error)
	assert.Equal(t, int64(0), songCount, "No song row should survive the failed create")

	var grantCount int64
	require.NoError(t, database.Model(&model.UserSong{}).Where("user_id = ?", creator.ID).Count(&grantCount).Error)
	assert.Equal(t, int64(0), grantCount, "No grant row should survive the failed create")
}

func TestSongRepository_Update_ReplacesAssociations(t *testing.T) {
	songRepo, chordRepo, userRepo, _ := setupTestRepos(t)
	creator := createTestUser(t, userRepo, "updateCreator")
	chord1 := createTestChord(t, chordRepo, creator.ID, "D")
	chord2 := createTestChord(t, chordRepo, creator.ID, "Em")
	chord3 := createTestChord(t, chordRepo, creator.ID, "A7")

	song := &model.Song{Title: "Before", Notes: "keep me", CreatorID: creator.ID}
	require.NoError(t, songRepo.Create(song, []uint{chord1.ID, chord2.ID}, nil))

	// 整表重写：新的关联列表完全取代旧的
	updated := &model.Song{ID: song.ID, Title: "After", CreatorID: creator.ID}
	require.NoError(t, songRepo.Update(updated, []uint{chord3.ID, chord1.ID}, nil))

	found, err := songRepo.FindByID(song.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "After", found.Title)
	// map 更新覆盖零值：Notes 被清空
	assert.Equal(t, "", found.Notes)

	chordIDs, err := songRepo.FindChordIDs(song.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{chord3.ID, chord1.ID}, chordIDs)
}

func TestSongRepository_Delete_Cascades(t *testing.T) {
	songRepo, chordRepo, userRepo, database := setupTestRepos(t)
	creator := createTestUser(t, userRepo, "deleteCreator")
	chord := createTestChord(t, chordRepo, creator.ID, "F")

	song := &model.Song{Title: "Delete Me", CreatorID: creator.ID}
	require.NoError(t, songRepo.Create(song, []uint{chord.ID}, nil))

	require.NoError(t, songRepo.Delete(song.ID))

	found, err := songRepo.FindByID(song.ID)
	require.NoError(t, err)
	assert.Nil(t, found)

	var grantCount int64
	require.NoError(t, database.Model(&model.UserSong{}).Where("song_id = ?", song.ID).Count(&grantCount).Error)
	assert.Equal(t, int64(0), grantCount)

	var assocCount int64
	require.NoError(t, database.Model(&model.SongChord{}).Where("song_id = ?", song.ID).Count(&assocCount).Error)
	assert.Equal(t, int64(0), assocCount)
}

func TestSongRepository_FindByUserID(t *testing.T) {
	songRepo, _, userRepo, database := setupTestRepos(t)
	alice := createTestUser(t, userRepo, "findAlice")
	bob := createTestUser(t, userRepo, "findBob")

	song1 := &model.Song{Title: "Alice Song", CreatorID: alice.ID}
	require.NoError(t, songRepo.Create(song1, nil, nil))
	song2 := &model.Song{Title: "Bob Song", CreatorID: bob.ID}
	require.NoError(t, songRepo.Create(song2, nil, nil))

	// 受赠授权也计入用户曲库
	grant := &model.UserSong{UserID: alice.ID, SongID: song2.ID, IsCreator: false}
	require.NoError(t, database.Create(grant).Error)

	aliceSongs, err := songRepo.FindByUserID(alice.ID)
	require.NoError(t, err)
	assert.Len(t, aliceSongs, 2)

	bobSongs, err := songRepo.FindByUserID(bob.ID)
	require.NoError(t, err)
	assert.Len(t, bobSongs, 1)

	// 没有任何授权的用户得到空曲库
	carol := createTestUser(t, userRepo, "findCarol")
	carolSongs, err := songRepo.FindByUserID(carol.ID)
	require.NoError(t, err)
	assert.Empty(t, carolSongs)
}
