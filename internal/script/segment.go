package script

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// SegmentType 表示片段类型：旁白或对话
type SegmentType string

const (
	Narration SegmentType = "narration"
	Dialogue  SegmentType = "dialogue"
)

// Gender 仅作为音色回退的参考信息
type Gender string

const (
	Male   Gender = "male"
	Female Gender = "female"
)

// NarratorName 旁白片段固定使用的角色名
const NarratorName = "Narrator"

// VoicePending 上游占位值，表示"尚未指定音色"
const VoicePending = "pending"

// Segment 表示剧本中的一个发声单元。
// 各阶段不就地修改 Segment：语音分配返回带 VoiceID 的副本，
// 合成阶段通过 Result 携带产物路径。
type Segment struct {
	Type      SegmentType `json:"type"`
	Text      string      `json:"text"`
	Character string      `json:"character"`
	Gender    Gender      `json:"gender"`
	Emotion   string      `json:"emotion,omitempty"`
	Pacing    float64     `json:"pacing,omitempty"`
	// VoiceID 为空、占位值或 "<backend>:<voice>" 形式的命名空间 ID
	VoiceID string `json:"voice_id,omitempty"`
}

var (
	ErrEmptyText     = errors.New("segment text is empty")
	ErrInvalidPacing = errors.New("segment pacing must be > 0")
)

// Validate 校验片段不变量：text 非空，pacing > 0
func (s *Segment) Validate() error {
	if strings.TrimSpace(s.Text) == "" {
		return ErrEmptyText
	}
	if s.Pacing <= 0 {
		return ErrInvalidPacing
	}
	if s.Type != Narration && s.Type != Dialogue {
		return fmt.Errorf("unknown segment type %q", s.Type)
	}
	return nil
}

// Normalize 填充默认值（emotion=neutral，pacing=1.0，旁白角色名）
func (s *Segment) Normalize() {
	if s.Emotion == "" {
		s.Emotion = "neutral"
	}
	if s.Pacing == 0 {
		s.Pacing = 1.0
	}
	if s.Type == Narration && s.Character == "" {
		s.Character = NarratorName
	}
	if s.Gender != Male && s.Gender != Female {
		s.Gender = Male
	}
	if s.VoiceID == VoicePending {
		s.VoiceID = ""
	}
}

// IsNarrator 判断是否为旁白（字幕不加角色前缀）
func (s *Segment) IsNarrator() bool {
	return s.Type == Narration || s.Character == "" || s.Character == NarratorName
}

// DisplayText 返回字幕展示文本，非旁白对话加 "[角色] " 前缀
func (s *Segment) DisplayText() string {
	if s.IsNarrator() {
		return s.Text
	}
	return fmt.Sprintf("[%s] %s", s.Character, s.Text)
}

var hanRe = regexp.MustCompile(`\p{Han}`)

// DetectLanguage 根据文本内容检测语种，目前区分中文和英文
func DetectLanguage(text string) string {
	if hanRe.MatchString(text) {
		return "zh"
	}
	return "en"
}

// ValidateScript 校验整个剧本并填充默认值
func ValidateScript(segments []Segment) ([]Segment, error) {
	if len(segments) == 0 {
		return nil, errors.New("script contains no segments")
	}
	out := make([]Segment, len(segments))
	for i, seg := range segments {
		seg.Normalize()
		if err := seg.Validate(); err != nil {
			return nil, fmt.Errorf("segment %d: %w", i, err)
		}
		out[i] = seg
	}
	return out, nil
}
