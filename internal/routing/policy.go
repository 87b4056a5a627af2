package routing

import (
	"dramaflow/internal/quota"
	"dramaflow/internal/script"
	"dramaflow/internal/tts"
)

// Tier 用户等级
type Tier string

const (
	TierFree Tier = "free"
	TierVIP  Tier = "vip"
)

// ParseTier 未知值一律按 free 处理
func ParseTier(s string) Tier {
	if s == string(TierVIP) {
		return TierVIP
	}
	return TierFree
}

// Policy 混合路由决策：按片段类型、文本长度、用户等级和情感选后端。
//
// 旁白耗时长且成本敏感，优先用还有配额的最便宜后端；
// 对话短，表现力收益更高，按等级走付费/表现力后端。
type Policy struct {
	adapters tts.Registry
	quota    *quota.Tracker
}

func NewPolicy(adapters tts.Registry, tracker *quota.Tracker) *Policy {
	return &Policy{adapters: adapters, quota: tracker}
}

// Select 返回片段应使用的后端，优先级自上而下，首条命中生效。
// 配额用量每次调用都重新读取：合成过程中用量在持续增长，
// 跨批次缓存会导致超配。
func (p *Policy) Select(segType script.SegmentType, textLength int, tier Tier, emotion string) tts.Backend {
	// 对话：VIP 走表现力后端，免费用户走标准池后端
	if segType == script.Dialogue {
		if tier == TierVIP {
			return tts.BackendElevenLabs
		}
		return tts.BackendGoogle
	}

	// 旁白
	if tier == TierVIP && p.adapters.Enabled(tts.BackendOpenAI) {
		return tts.BackendOpenAI
	}
	if p.adapters.Enabled(tts.BackendAzure) &&
		p.quota.CurrentUsage()+textLength < p.quota.Cap() {
		return tts.BackendAzure
	}
	if p.adapters.Enabled(tts.BackendGoogle) {
		return tts.BackendGoogle
	}

	// 兜底
	if p.adapters.Enabled(tts.BackendOpenAI) {
		return tts.BackendOpenAI
	}
	return tts.BackendGoogle
}
