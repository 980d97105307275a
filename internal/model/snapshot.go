package model

import (
	"encoding/json"
	"fmt"

	"chordsmith/internal/apperr"
)

// 当前快照格式版本。快照独立于实体表结构演进，旧版本必须保持可解析。
const SnapshotVersion = 1

// Snapshot 是分享创建时刻内容及其关联的类型化副本。
// 接受分享前先校验其结构，而不是盲信任意序列化内容。
type Snapshot struct {
	Version int            `json:"version"`
	Kind    ShareKind      `json:"kind"`
	Song    *SongSnapshot  `json:"song,omitempty"`
	Chord   *ChordSnapshot `json:"chord,omitempty"`
}

type SongSnapshot struct {
	Title             string   `json:"title"`
	SongDate          string   `json:"song_date"`
	Notes             string   `json:"notes"`
	SongKey           string   `json:"song_key"`
	Capo              string   `json:"capo"`
	BPM               string   `json:"bpm"`
	Effects           string   `json:"effects"`
	ContentFontSizePt *float64 `json:"content_font_size_pt"`
	ContentText       string   `json:"content_text"`
	// 按 DisplayOrder 排序的依赖和弦ID
	ChordIDs []uint `json:"chord_ids"`
}

type ChordSnapshot struct {
	Name    string `json:"name"`
	Diagram string `json:"diagram"`
}

func NewSongSnapshot(song *Song, chordIDs []uint) Snapshot {
	return Snapshot{
		Version: SnapshotVersion,
		Kind:    ShareKindSong,
		Song: &SongSnapshot{
			Title:             song.Title,
			SongDate:          song.SongDate,
			Notes:             song.Notes,
			SongKey:           song.SongKey,
			Capo:              song.Capo,
			BPM:               song.BPM,
			Effects:           song.Effects,
			ContentFontSizePt: song.ContentFontSizePt,
			ContentText:       song.ContentText,
			ChordIDs:          chordIDs,
		},
	}
}

func NewChordSnapshot(chord *Chord) Snapshot {
	return Snapshot{
		Version: SnapshotVersion,
		Kind:    ShareKindChord,
		Chord: &ChordSnapshot{
			Name:    chord.Name,
			Diagram: chord.Diagram,
		},
	}
}

func EncodeSnapshot(snap Snapshot) (string, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return "", fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return string(data), nil
}

// DecodeSnapshot 解析并校验快照结构。
func DecodeSnapshot(payload string) (Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal([]byte(payload), &snap); err != nil {
		return Snapshot{}, fmt.Errorf("%w: malformed snapshot payload: %v", apperr.ErrValidation, err)
	}
	if snap.Version != SnapshotVersion {
		return Snapshot{}, fmt.Errorf("%w: unsupported snapshot version %d", apperr.ErrValidation, snap.Version)
	}
	switch snap.Kind {
	case ShareKindSong:
		if snap.Song == nil {
			return Snapshot{}, fmt.Errorf("%w: song snapshot missing song payload", apperr.ErrValidation)
		}
	case ShareKindChord:
		if snap.Chord == nil {
			return Snapshot{}, fmt.Errorf("%w: chord snapshot missing chord payload", apperr.ErrValidation)
		}
	default:
		return Snapshot{}, fmt.Errorf("%w: unknown snapshot kind %q", apperr.ErrValidation, snap.Kind)
	}
	return snap, nil
}
