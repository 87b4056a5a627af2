package synth

import (
	"context"
	"crypto/md5"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"dramaflow/internal/quota"
	"dramaflow/internal/routing"
	"dramaflow/internal/script"
	"dramaflow/internal/tts"
	"dramaflow/internal/voice"
)

// Result 单片段的合成结果。
// 片段记录本身不被修改，产物路径通过 Result 带回。
type Result struct {
	Index        int
	Backend      tts.Backend
	Voice        string // 命名空间音色 ID
	ArtifactPath string
	Skipped      bool
	SkipReason   string
}

// Synthesizer 负责单片段编排：解析后端+音色，调用适配器，落盘产物
type Synthesizer struct {
	adapters tts.Registry
	pools    *voice.Pools
	policy   *routing.Policy
	quota    *quota.Tracker
}

func NewSynthesizer(adapters tts.Registry, pools *voice.Pools, policy *routing.Policy, tracker *quota.Tracker) *Synthesizer {
	return &Synthesizer{adapters: adapters, pools: pools, policy: policy, quota: tracker}
}

// Synthesize 合成一个片段。
//
// 后端+音色的解析顺序（每片段独立）：
//  1. 命名空间 ID（"backend:voice"）：解析后原样信任（所见即所得的人工覆盖路径），
//     未知后端标签直接报错而不是带病继续。
//  2. 裸音色 ID：用形状启发推断后端，失败则落到下一步。
//  3. 路由策略选后端 + 确定性分配选音色（自动分配路径）。
//  4. 仍无法解析时跳过合成并返回结构化告警——禁止悄悄猜一个默认音色，
//     那只会产出听感错误又毫无征兆的结果。
func (s *Synthesizer) Synthesize(ctx context.Context, seg script.Segment, index int, outputDir string, tier routing.Tier) (Result, error) {
	res := Result{Index: index}

	backend, rawVoice, err := s.resolve(seg, tier)
	if err != nil {
		var unresolved *voice.UnresolvedVoiceError
		if errors.As(err, &unresolved) {
			res.Skipped = true
			res.SkipReason = unresolved.Error()
			logrus.Warnf("synth: skipping segment %d: %v", index, unresolved)
			return res, nil
		}
		return res, fmt.Errorf("segment %d: %w", index, err)
	}

	adapter, ok := s.adapters[backend]
	if !ok || !adapter.Enabled() {
		res.Skipped = true
		res.SkipReason = fmt.Sprintf("backend %s is not enabled", backend)
		logrus.Warnf("synth: skipping segment %d: %s", index, res.SkipReason)
		return res, nil
	}

	res.Backend = backend
	res.Voice = voice.Namespaced(backend, rawVoice)

	req := tts.Request{Text: seg.Text, Voice: rawVoice, Pacing: seg.Pacing}
	if backend == tts.BackendElevenLabs {
		profile := voice.EmotionProfile(strings.ToLower(seg.Emotion))
		req.Emotion = &profile
	}

	logrus.Infof("synth: segment %d -> %s (voice=%s, tier=%s, emotion=%s)",
		index, backend, rawVoice, tier, seg.Emotion)

	audio, err := adapter.Generate(ctx, req)
	if err != nil {
		return res, fmt.Errorf("segment %d: %w", index, err)
	}

	if backend == tts.BackendAzure {
		s.quota.Increment(utf8.RuneCountInString(seg.Text))
	}

	path, err := writeArtifact(outputDir, seg, audio)
	if err != nil {
		return res, fmt.Errorf("segment %d: %w", index, err)
	}
	res.ArtifactPath = path
	return res, nil
}

// resolve 按上述优先级解析 (后端, 裸音色 ID)
func (s *Synthesizer) resolve(seg script.Segment, tier routing.Tier) (tts.Backend, string, error) {
	voiceID := strings.TrimSpace(seg.VoiceID)
	if voiceID == script.VoicePending {
		voiceID = ""
	}

	// 1. 命名空间覆盖
	if prefix, raw, ok := strings.Cut(voiceID, ":"); ok {
		backend, err := tts.ParseBackend(prefix)
		if err != nil {
			return "", "", fmt.Errorf("voice override %q: %w", voiceID, err)
		}
		return backend, raw, nil
	}

	// 2. 裸 ID 形状启发
	if voiceID != "" {
		if backend, ok := voice.InferBackend(voiceID); ok {
			return backend, voiceID, nil
		}
		logrus.Warnf("synth: cannot infer backend for voice %q, falling back to auto assignment", voiceID)
	}

	// 3. 自动分配
	backend := s.policy.Select(seg.Type, utf8.RuneCountInString(seg.Text), tier, seg.Emotion)
	assigned, err := s.pools.Assign(seg.Character, seg.Gender, backend, script.DetectLanguage(seg.Text))
	if err != nil {
		return "", "", err
	}
	_, raw, _ := strings.Cut(assigned, ":")
	return backend, raw, nil
}

// writeArtifact 写产物文件。文件名必须全局唯一且与顺序无关
// （同角色/同类型的片段可能并发合成），用内容哈希+时间戳组合。
func writeArtifact(outputDir string, seg script.Segment, audio []byte) (string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", err
	}
	hash := fmt.Sprintf("%x", md5.Sum([]byte(seg.Text)))[:8]
	name := fmt.Sprintf("%s_%s_%d_%s.mp3",
		seg.Type, sanitize(seg.Character), time.Now().UnixMilli(), hash)
	path := filepath.Join(outputDir, name)
	if err := os.WriteFile(path, audio, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// sanitize 角色名里可能有空格或路径分隔符，统一替换为下划线
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r >= 0x80: // 保留非 ASCII（中文角色名）
			return r
		default:
			return '_'
		}
	}, s)
}
