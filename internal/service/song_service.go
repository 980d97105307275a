package service

import (
	"fmt"
	"strings"

	"chordsmith/internal/apperr"
	"chordsmith/internal/model"
	"chordsmith/internal/repository"
	"chordsmith/pkg/logger"

	"go.uber.org/zap"
)

// SongService 处理歌曲的创建、查询与写时派生。
type SongService struct {
	songRepo *repository.SongRepository
}

func NewSongService(songRepo *repository.SongRepository) *SongService {
	return &SongService{songRepo: songRepo}
}

// 歌曲创建/更新请求
type SongRequest struct {
	Title             string   `json:"title" binding:"required"`
	SongDate          string   `json:"song_date"`
	Notes             string   `json:"notes"`
	SongKey           string   `json:"song_key"`
	Capo              string   `json:"capo"`
	BPM               string   `json:"bpm"`
	Effects           string   `json:"effects"`
	ContentFontSizePt *float64 `json:"content_font_size_pt"`
	ContentText       string   `json:"content_text"`
	ChordIDs          []uint   `json:"chord_ids"`
	FolderIDs         []uint   `json:"folder_ids"`
}

func (req *SongRequest) validate() error {
	if strings.TrimSpace(req.Title) == "" {
		return fmt.Errorf("%w: title is required", apperr.ErrValidation)
	}
	return nil
}

func (req *SongRequest) toModel() *model.Song {
	return &model.Song{
		Title:             req.Title,
		SongDate:          req.SongDate,
		Notes:             req.Notes,
		SongKey:           req.SongKey,
		Capo:              req.Capo,
		BPM:               req.BPM,
		Effects:           req.Effects,
		ContentFontSizePt: req.ContentFontSizePt,
		ContentText:       req.ContentText,
	}
}

// SongDetail 是歌曲连同请求者视角的信息。
type SongDetail struct {
	model.Song
	IsCreator bool   `json:"is_creator"`
	ChordIDs  []uint `json:"chord_ids"`
	FolderIDs []uint `json:"folder_ids"`
}

// Create 新建歌曲，userID 成为创建者。
func (s *SongService) Create(userID uint, req SongRequest) (*model.Song, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	song := req.toModel()
	song.CreatorID = userID
	if err := s.songRepo.Create(song, req.ChordIDs, req.FolderIDs); err != nil {
		logger.L.Error("Failed to create song", zap.Uint("userID", userID), zap.Error(err))
		return nil, fmt.Errorf("failed to create song: %w", err)
	}
	logger.L.Info("Song created", zap.Uint("songID", song.ID), zap.Uint("creatorID", userID))
	return song, nil
}

// Get 返回歌曲连同请求者是否为创建者。
// 这里不做访问控制，镜像"读取自己曲库"的访问模式，授权检查由调用方负责。
func (s *SongService) Get(songID, userID uint) (*SongDetail, error) {
	song, err := s.songRepo.FindByID(songID)
	if err != nil {
		return nil, fmt.Errorf("failed to find song: %w", err)
	}
	if song == nil {
		return nil, fmt.Errorf("%w: song %d", apperr.ErrNotFound, songID)
	}
	grant, err := s.songRepo.FindGrant(userID, songID)
	if err != nil {
		return nil, fmt.Errorf("failed to find grant: %w", err)
	}
	chordIDs, err := s.songRepo.FindChordIDs(songID)
	if err != nil {
		return nil, fmt.Errorf("failed to find chord associations: %w", err)
	}
	folderIDs, err := s.songRepo.FindFolderIDs(songID)
	if err != nil {
		return nil, fmt.Errorf("failed to find folder associations: %w", err)
	}
	detail := &SongDetail{
		Song:      *song,
		IsCreator: grant != nil && grant.IsCreator,
		ChordIDs:  chordIDs,
		FolderIDs: folderIDs,
	}
	return detail, nil
}

// List 返回用户持有任意授权的全部歌曲。
func (s *SongService) List(userID uint) ([]model.Song, error) {
	return s.songRepo.FindByUserID(userID)
}

// ListByFolder 返回文件夹中对用户可见的歌曲。
func (s *SongService) ListByFolder(folderID, userID uint) ([]model.Song, error) {
	return s.songRepo.FindByFolder(folderID, userID)
}

// Update 实现写时派生：创建者的编辑原地生效并整表重写关联；
// 非创建者的编辑静默转为新建一首独立歌曲，原曲及其关联不受影响，
// 调用方拿到的是新歌曲的ID。派生只要求属性合法，不检查请求者
// 是否持有原曲的授权。
func (s *SongService) Update(songID, userID uint, req SongRequest) (*model.Song, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	existing, err := s.songRepo.FindByID(songID)
	if err != nil {
		return nil, fmt.Errorf("failed to find song: %w", err)
	}
	if existing == nil {
		return nil, fmt.Errorf("%w: song %d", apperr.ErrNotFound, songID)
	}

	if existing.CreatorID != userID {
		// 派生为新歌曲
		forked, err := s.Create(userID, req)
		if err != nil {
			return nil, err
		}
		logger.L.Info("Song forked on update by non-creator",
			zap.Uint("originalSongID", songID),
			zap.Uint("forkedSongID", forked.ID),
			zap.Uint("userID", userID))
		return forked, nil
	}

	song := req.toModel()
	song.ID = songID
	song.CreatorID = userID
	if err := s.songRepo.Update(song, req.ChordIDs, req.FolderIDs); err != nil {
		logger.L.Error("Failed to update song", zap.Uint("songID", songID), zap.Error(err))
		return nil, fmt.Errorf("failed to update song: %w", err)
	}
	return song, nil
}

// Delete 删除歌曲，仅创建者可以执行。
func (s *SongService) Delete(songID, userID uint) error {
	existing, err := s.songRepo.FindByID(songID)
	if err != nil {
		return fmt.Errorf("failed to find song: %w", err)
	}
	if existing == nil {
		return fmt.Errorf("%w: song %d", apperr.ErrNotFound, songID)
	}
	if existing.CreatorID != userID {
		return fmt.Errorf("%w: only the creator can delete a song", apperr.ErrUnauthorized)
	}
	if err := s.songRepo.Delete(songID); err != nil {
		logger.L.Error("Failed to delete song", zap.Uint("songID", songID), zap.Error(err))
		return fmt.Errorf("failed to delete song: %w", err)
	}
	return nil
}
