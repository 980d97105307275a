package service

import (
	"errors"
	"fmt"

	"chordsmith/internal/apperr"
	"chordsmith/internal/model"
	"chordsmith/internal/repository"
	"chordsmith/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// shareVariant 把可分享的内容种类收敛为编译期已知的封闭集合。
// 新增一种内容实现该接口并在 NewShareService 中注册即可。
type shareVariant interface {
	kind() model.ShareKind
	// snapshot 加载发送者可见的当前内容并生成时间冻结的快照。
	// 内容不存在或发送者不持有授权都视为无法解析。
	snapshot(contentID, senderID uint) (model.Snapshot, error)
	// materialize 在事务内把已接受的分享转换为访问授权
	materialize(tx *gorm.DB, share *model.Share, snap model.Snapshot) error
}

// ShareService 处理分享账本操作与接受时的授权物化。
type ShareService struct {
	shareRepo *repository.ShareRepository
	userRepo  *repository.UserRepository
	variants  map[model.ShareKind]shareVariant
}

func NewShareService(
	shareRepo *repository.ShareRepository,
	userRepo *repository.UserRepository,
	songRepo *repository.SongRepository,
	chordRepo *repository.ChordRepository,
) *ShareService {
	variants := map[model.ShareKind]shareVariant{
		model.ShareKindSong:  songVariant{songRepo: songRepo},
		model.ShareKindChord: chordVariant{chordRepo: chordRepo},
	}
	return &ShareService{
		shareRepo: shareRepo,
		userRepo:  userRepo,
		variants:  variants,
	}
}

// CreateShare 生成一条待处理分享：解析接收者、冻结内容快照、写入账本。
// 快照写入后不可变，发送方之后的编辑不影响这条分享。
func (s *ShareService) CreateShare(kind model.ShareKind, contentID, senderID uint, recipientUsername string) (*model.Share, error) {
	variant, ok := s.variants[kind]
	if !ok {
		return nil, fmt.Errorf("%w: invalid share kind %q", apperr.ErrValidation, kind)
	}

	recipient, err := s.userRepo.FindByUsername(recipientUsername)
	if err != nil {
		return nil, fmt.Errorf("failed to find recipient: %w", err)
	}
	if recipient == nil {
		return nil, fmt.Errorf("%w: recipient %q", apperr.ErrNotFound, recipientUsername)
	}
	if recipient.ID == senderID {
		return nil, fmt.Errorf("%w: cannot share content with yourself", apperr.ErrValidation)
	}

	snap, err := variant.snapshot(contentID, senderID)
	if err != nil {
		return nil, err
	}
	payload, err := model.EncodeSnapshot(snap)
	if err != nil {
		return nil, err
	}

	share := &model.Share{
		Kind:        kind,
		ContentID:   contentID,
		SenderID:    senderID,
		RecipientID: recipient.ID,
		Payload:     payload,
		Status:      model.SharePending,
	}
	if err := s.shareRepo.Create(share); err != nil {
		logger.L.Error("Failed to create share",
			zap.String("kind", string(kind)),
			zap.Uint("contentID", contentID),
			zap.Uint("senderID", senderID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to create share: %w", err)
	}
	logger.L.Info("Share created",
		zap.Uint("shareID", share.ID),
		zap.String("kind", string(kind)),
		zap.Uint("senderID", senderID),
		zap.Uint("recipientID", recipient.ID))
	return share, nil
}

// ListIncoming 返回发给用户的全部待处理分享，两种内容合并。
func (s *ShareService) ListIncoming(userID uint) ([]model.Share, error) {
	return s.shareRepo.FindIncoming(userID)
}

// Accept 接受分享：在一个事务内物化访问授权并把状态置为 accepted。
// 物化失败整体回滚，分享保持 pending。
func (s *ShareService) Accept(shareID, userID uint) error {
	return s.shareRepo.Resolve(shareID, userID, model.ShareAccepted, func(tx *gorm.DB, share *model.Share) error {
		variant, ok := s.variants[share.Kind]
		if !ok {
			return fmt.Errorf("%w: unknown share kind %q", apperr.ErrValidation, share.Kind)
		}
		// 授权写入之前先校验快照结构
		snap, err := model.DecodeSnapshot(share.Payload)
		if err != nil {
			return err
		}
		return variant.materialize(tx, share, snap)
	})
}

// Reject 拒绝分享，仅翻转状态。
func (s *ShareService) Reject(shareID, userID uint) error {
	return s.shareRepo.Resolve(shareID, userID, model.ShareRejected, nil)
}

// --- 歌曲分享 ---

type songVariant struct {
	songRepo *repository.SongRepository
}

func (v songVariant) kind() model.ShareKind { return model.ShareKindSong }

func (v songVariant) snapshot(contentID, senderID uint) (model.Snapshot, error) {
	song, err := v.songRepo.FindByID(contentID)
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("failed to find song: %w", err)
	}
	if song == nil {
		return model.Snapshot{}, fmt.Errorf("%w: song %d", apperr.ErrNotFound, contentID)
	}
	grant, err := v.songRepo.FindGrant(senderID, contentID)
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("failed to find grant: %w", err)
	}
	if grant == nil {
		return model.Snapshot{}, fmt.Errorf("%w: song %d", apperr.ErrNotFound, contentID)
	}
	chordIDs, err := v.songRepo.FindChordIDs(contentID)
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("failed to find chord associations: %w", err)
	}
	return model.NewSongSnapshot(song, chordIDs), nil
}

func (v songVariant) materialize(tx *gorm.DB, share *model.Share, _ model.Snapshot) error {
	// 授权指向原始歌曲本身而非副本，派生只在之后的编辑时发生
	if err := grantSongIfMissing(tx, share.RecipientID, share.ContentID); err != nil {
		return err
	}
	// 对歌曲当前的每个依赖和弦补授权，已持有的跳过，
	// 避免接收者已拥有同一和弦时的重复键失败
	var chordIDs []uint
	err := tx.Model(&model.SongChord{}).
		Where("song_id = ?", share.ContentID).
		Order("display_order").
		Pluck("chord_id", &chordIDs).Error
	if err != nil {
		return err
	}
	for _, chordID := range chordIDs {
		if err := grantChordIfMissing(tx, share.RecipientID, chordID); err != nil {
			return err
		}
	}
	return nil
}

// --- 和弦分享 ---

type chordVariant struct {
	chordRepo *repository.ChordRepository
}

func (v chordVariant) kind() model.ShareKind { return model.ShareKindChord }

func (v chordVariant) snapshot(contentID, senderID uint) (model.Snapshot, error) {
	chord, err := v.chordRepo.FindByID(contentID)
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("failed to find chord: %w", err)
	}
	if chord == nil {
		return model.Snapshot{}, fmt.Errorf("%w: chord %d", apperr.ErrNotFound, contentID)
	}
	grant, err := v.chordRepo.FindGrant(senderID, contentID)
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("failed to find grant: %w", err)
	}
	if grant == nil {
		return model.Snapshot{}, fmt.Errorf("%w: chord %d", apperr.ErrNotFound, contentID)
	}
	return model.NewChordSnapshot(chord), nil
}

func (v chordVariant) materialize(tx *gorm.DB, share *model.Share, _ model.Snapshot) error {
	return grantChordIfMissing(tx, share.RecipientID, share.ContentID)
}

func grantSongIfMissing(tx *gorm.DB, userID, songID uint) error {
	var existing model.UserSong
	err := tx.Where("user_id = ? AND song_id = ?", userID, songID).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	grant := &model.UserSong{UserID: userID, SongID: songID, IsCreator: false}
	return tx.Create(grant).Error
}

func grantChordIfMissing(tx *gorm.DB, userID, chordID uint) error {
	var existing model.UserChord
	err := tx.Where("user_id = ? AND chord_id = ?", userID, chordID).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	grant := &model.UserChord{UserID: userID, ChordID: chordID, IsCreator: false}
	return tx.Create(grant).Error
}
