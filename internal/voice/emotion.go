package voice

import "dramaflow/internal/tts"

// 情感 -> 表现力参数映射。
// Stability 低 = 波动大/更有情绪；SimilarityBoost 高 = 音色身份更清晰；
// Style 高 = 夸张。耳语关闭 speaker boost 以保留气声。
var emotionProfiles = map[string]tts.EmotionSettings{
	"neutral":    {Stability: 0.60, SimilarityBoost: 0.75, Style: 0.0, SpeakerBoost: true},
	"happy":      {Stability: 0.45, SimilarityBoost: 0.80, Style: 0.3, SpeakerBoost: true},
	"sad":        {Stability: 0.40, SimilarityBoost: 0.70, Style: 0.2, SpeakerBoost: true},
	"angry":      {Stability: 0.30, SimilarityBoost: 0.80, Style: 0.6, SpeakerBoost: true},
	"fearful":    {Stability: 0.30, SimilarityBoost: 0.65, Style: 0.5, SpeakerBoost: true},
	"surprised":  {Stability: 0.35, SimilarityBoost: 0.75, Style: 0.4, SpeakerBoost: true},
	"whispering": {Stability: 0.50, SimilarityBoost: 0.50, Style: 0.0, SpeakerBoost: false},
	"shouting":   {Stability: 0.25, SimilarityBoost: 0.80, Style: 0.7, SpeakerBoost: true},
}

// EmotionProfile 返回情感标签对应的表现力参数，未知标签按 neutral 处理
func EmotionProfile(emotion string) tts.EmotionSettings {
	if p, ok := emotionProfiles[emotion]; ok {
		return p
	}
	return emotionProfiles["neutral"]
}

// KnownEmotions 返回所有已知情感标签
func KnownEmotions() []string {
	out := make([]string, 0, len(emotionProfiles))
	for e := range emotionProfiles {
		out = append(out, e)
	}
	return out
}
