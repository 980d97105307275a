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

// ChordService 与 SongService 对称，处理和弦的创建、查询与写时派生。
type ChordService struct {
	chordRepo *repository.ChordRepository
}

func NewChordService(chordRepo *repository.ChordRepository) *ChordService {
	return &ChordService{chordRepo: chordRepo}
}

// 和弦创建/更新请求
type ChordRequest struct {
	Name    string `json:"name" binding:"required"`
	Diagram string `json:"diagram" binding:"required"`
}

func (req *ChordRequest) validate() error {
	if strings.TrimSpace(req.Name) == "" {
		return fmt.Errorf("%w: name is required", apperr.ErrValidation)
	}
	if strings.TrimSpace(req.Diagram) == "" {
		return fmt.Errorf("%w: diagram is required", apperr.ErrValidation)
	}
	return nil
}

type ChordDetail struct {
	model.Chord
	IsCreator bool `json:"is_creator"`
}

func (s *ChordService) Create(userID uint, req ChordRequest) (*model.Chord, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	chord := &model.Chord{
		Name:      req.Name,
		Diagram:   req.Diagram,
		CreatorID: userID,
	}
	if err := s.chordRepo.Create(chord); err != nil {
		logger.L.Error("Failed to create chord", zap.Uint("userID", userID), zap.Error(err))
		return nil, fmt.Errorf("failed to create chord: %w", err)
	}
	return chord, nil
}

func (s *ChordService) Get(chordID, userID uint) (*ChordDetail, error) {
	chord, err := s.chordRepo.FindByID(chordID)
	if err != nil {
		return nil, fmt.Errorf("failed to find chord: %w", err)
	}
	if chord == nil {
		return nil, fmt.Errorf("%w: chord %d", apperr.ErrNotFound, chordID)
	}
	grant, err := s.chordRepo.FindGrant(userID, chordID)
	if err != nil {
		return nil, fmt.Errorf("failed to find grant: %w", err)
	}
	return &ChordDetail{
		Chord:     *chord,
		IsCreator: grant != nil && grant.IsCreator,
	}, nil
}

func (s *ChordService) List(userID uint) ([]model.Chord, error) {
	return s.chordRepo.FindByUserID(userID)
}

// Update 写时派生：创建者原地更新，非创建者静默转为新建和弦。
func (s *ChordService) Update(chordID, userID uint, req ChordRequest) (*model.Chord, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	existing, err := s.chordRepo.FindByID(chordID)
	if err != nil {
		return nil, fmt.Errorf("failed to find chord: %w", err)
	}
	if existing == nil {
		return nil, fmt.Errorf("%w: chord %d", apperr.ErrNotFound, chordID)
	}

	if existing.CreatorID != userID {
		forked, err := s.Create(userID, req)
		if err != nil {
			return nil, err
		}
		logger.L.Info("Chord forked on update by non-creator",
			zap.Uint("originalChordID", chordID),
			zap.Uint("forkedChordID", forked.ID),
			zap.Uint("userID", userID))
		return forked, nil
	}

	chord := &model.Chord{
		ID:        chordID,
		Name:      req.Name,
		Diagram:   req.Diagram,
		CreatorID: userID,
	}
	if err := s.chordRepo.Update(chord); err != nil {
		logger.L.Error("Failed to update chord", zap.Uint("chordID", chordID), zap.Error(err))
		return nil, fmt.Errorf("failed to update chord: %w", err)
	}
	return chord, nil
}

func (s *ChordService) Delete(chordID, userID uint) error {
	existing, err := s.chordRepo.FindByID(chordID)
	if err != nil {
		return fmt.Errorf("failed to find chord: %w", err)
	}
	if existing == nil {
		return fmt.Errorf("%w: chord %d", apperr.ErrNotFound, chordID)
	}
	if existing.CreatorID != userID {
		return fmt.Errorf("%w: only the creator can delete a chord", apperr.ErrUnauthorized)
	}
	if err := s.chordRepo.Delete(chordID); err != nil {
		logger.L.Error("Failed to delete chord", zap.Uint("chordID", chordID), zap.Error(err))
		return fmt.Errorf("failed to delete chord: %w", err)
	}
	return nil
}
