package synth

import (
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"dramaflow/internal/routing"
	"dramaflow/internal/script"
	"dramaflow/internal/voice"
)

// AssignVoices 预先为整个剧本计算后端+音色，返回带 VoiceID 注解的新切片，
// 不修改入参。前端可以基于注解结果展示和改写音色，再原样传回合成。
//
// 解析优先级与合成阶段一致：已带命名空间的 ID 原样保留；
// 裸 ID 先过形状启发并补上命名空间前缀——调用方手填的音色不会被
// 路由计算悄悄顶掉；只有推断失败或本来就没填的片段才走自动分配。
// 无法解析的片段 VoiceID 留空，由合成阶段按跳过处理。
func (s *Synthesizer) AssignVoices(segments []script.Segment, tier routing.Tier) []script.Segment {
	out := make([]script.Segment, len(segments))
	for i, seg := range segments {
		seg.Normalize()

		if seg.VoiceID != "" && !strings.Contains(seg.VoiceID, ":") {
			if backend, ok := voice.InferBackend(seg.VoiceID); ok {
				seg.VoiceID = voice.Namespaced(backend, seg.VoiceID)
			} else {
				logrus.Warnf("synth: cannot infer backend for voice %q on segment %d, falling back to auto assignment", seg.VoiceID, i)
				seg.VoiceID = ""
			}
		}

		if seg.VoiceID == "" {
			backend := s.policy.Select(seg.Type, utf8.RuneCountInString(seg.Text), tier, seg.Emotion)
			assigned, err := s.pools.Assign(seg.Character, seg.Gender, backend, script.DetectLanguage(seg.Text))
			if err != nil {
				logrus.Warnf("synth: segment %d left unassigned: %v", i, err)
			} else {
				seg.VoiceID = assigned
			}
		}
		out[i] = seg
	}
	return out
}

// CastEntry 角色表条目：角色及其解析出的音色
type CastEntry struct {
	Character string `json:"character"`
	Gender    string `json:"gender"`
	VoiceID   string `json:"voice_id"`
	VoiceName string `json:"voice_name"`
}

// CastMetadata 从注解后的剧本提取角色表（含旁白，按首次出现顺序）
func CastMetadata(segments []script.Segment) []CastEntry {
	seen := make(map[string]bool)
	var cast []CastEntry
	for _, seg := range segments {
		name := seg.Character
		if seg.Type == script.Narration {
			name = script.NarratorName
		}
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true

		_, raw, _ := strings.Cut(seg.VoiceID, ":")
		cast = append(cast, CastEntry{
			Character: name,
			Gender:    string(seg.Gender),
			VoiceID:   seg.VoiceID,
			VoiceName: voice.Label(raw),
		})
	}
	return cast
}
