package tts

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// 每次后端调用的硬超时。传输层自身的超时不可靠，
// 无响应的网络调用不能无限期卡住整个批次。
const callTimeout = 60 * time.Second

// EmotionSettings 表现力参数，仅表现力后端使用，其余后端忽略
type EmotionSettings struct {
	Stability       float64 `json:"stability"`        // 低 = 波动大/更有情绪
	SimilarityBoost float64 `json:"similarity_boost"` // 高 = 音色身份更清晰
	Style           float64 `json:"style"`            // 高 = 夸张
	SpeakerBoost    bool    `json:"use_speaker_boost"`
}

// Request 一次合成请求
type Request struct {
	Text    string
	Voice   string  // 后端原生音色 ID（不带命名空间前缀）
	Pacing  float64 // 语速倍率，1.0 为原速
	Emotion *EmotionSettings
}

// Adapter 包装一个外部合成能力：给定文本+音色+参数，产出音频字节或失败
type Adapter interface {
	Backend() Backend
	// Enabled 仅当所需凭据齐全时为 true
	Enabled() bool
	Generate(ctx context.Context, req Request) ([]byte, error)
}

// Registry 按后端枚举索引的适配器集合
type Registry map[Backend]Adapter

// NewRegistry 构建注册表，重复注册视为编程错误
func NewRegistry(adapters ...Adapter) Registry {
	reg := make(Registry, len(adapters))
	for _, a := range adapters {
		if _, dup := reg[a.Backend()]; dup {
			panic(fmt.Sprintf("tts: duplicate adapter for backend %s", a.Backend()))
		}
		reg[a.Backend()] = a
	}
	return reg
}

// Enabled 判断某后端是否注册且可用
func (r Registry) Enabled(b Backend) bool {
	a, ok := r[b]
	return ok && a.Enabled()
}

// ConfigurationError 后端缺少必要凭据。启用检查阶段暴露，不重试。
type ConfigurationError struct {
	Backend Backend
	Reason  string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s backend not configured: %s", e.Backend, e.Reason)
}

// BackendError 合成调用失败（鉴权、网络、音色非法、超时等）
type BackendError struct {
	Backend   Backend
	Transient bool // 超时/连接类错误可重试，鉴权/非法请求不重试
	Cause     error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s backend: %v", e.Backend, e.Cause)
}

func (e *BackendError) Unwrap() error { return e.Cause }

// IsTransient 判断错误是否为可重试的瞬时失败
func IsTransient(err error) bool {
	var be *BackendError
	if errors.As(err, &be) {
		return be.Transient
	}
	return false
}
