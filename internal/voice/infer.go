package voice

import (
	"strings"

	"dramaflow/internal/tts"
)

var openAIVoices = map[string]bool{
	"alloy": true, "echo": true, "fable": true,
	"onyx": true, "nova": true, "shimmer": true,
}

// InferBackend 从裸音色 ID 的命名形状推断后端。
//
// 这是一个显式隔离的 best-effort 回退，优先级固定：
// 命名空间 ID > 本函数的形状启发 > 路由计算出的默认值。
// 推断失败返回 false，由调用方继续走自动分配路径。
//
//   - 含 "Neural2" 或 "Wavenet" -> google
//   - 其余含 "Neural"（Azure 音色名以 Neural 结尾）-> azure
//   - openai 固定音色名集合 -> openai
//   - 长度 > 15 的不透明 ID -> elevenlabs
func InferBackend(voiceID string) (tts.Backend, bool) {
	switch {
	case strings.Contains(voiceID, "Neural2") || strings.Contains(voiceID, "Wavenet"):
		return tts.BackendGoogle, true
	case strings.Contains(voiceID, "Neural"):
		return tts.BackendAzure, true
	case openAIVoices[voiceID]:
		return tts.BackendOpenAI, true
	case len(voiceID) > 15:
		return tts.BackendElevenLabs, true
	}
	return "", false
}
