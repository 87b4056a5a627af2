package tts

import "fmt"

// Backend 是封闭的合成后端枚举。
// 路由策略和命名空间音色 ID（"<backend>:<voice>"）都以它为锚点，
// 未知标签一律拒绝，不做 "unknown but proceed"。
type Backend string

const (
	// BackendAzure 按月字符配额限制的标准后端
	BackendAzure Backend = "azure"
	// BackendGoogle 多音色池后端
	BackendGoogle Backend = "google"
	// BackendOpenAI 高质量单音色（按性别）后端
	BackendOpenAI Backend = "openai"
	// BackendElevenLabs 支持情感参数的表现力后端
	BackendElevenLabs Backend = "elevenlabs"
)

var allBackends = []Backend{BackendAzure, BackendGoogle, BackendOpenAI, BackendElevenLabs}

// ParseBackend 校验字符串标签是否为已知后端
func ParseBackend(s string) (Backend, error) {
	for _, b := range allBackends {
		if string(b) == s {
			return b, nil
		}
	}
	return "", fmt.Errorf("unknown tts backend %q", s)
}

// Backends 返回全部已知后端（固定顺序）
func Backends() []Backend {
	out := make([]Backend, len(allBackends))
	copy(out, allBackends)
	return out
}
