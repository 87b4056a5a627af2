package routing

import (
	"context"
	"testing"

	"dramaflow/internal/quota"
	"dramaflow/internal/script"
	"dramaflow/internal/tts"
)

type fakeAdapter struct {
	backend tts.Backend
	enabled bool
}

func (f *fakeAdapter) Backend() tts.Backend { return f.backend }
func (f *fakeAdapter) Enabled() bool        { return f.enabled }
func (f *fakeAdapter) Generate(ctx context.Context, req tts.Request) ([]byte, error) {
	return []byte("audio"), nil
}

func registry(enabled ...tts.Backend) tts.Registry {
	on := make(map[tts.Backend]bool, len(enabled))
	for _, b := range enabled {
		on[b] = true
	}
	adapters := make([]tts.Adapter, 0, len(tts.Backends()))
	for _, b := range tts.Backends() {
		adapters = append(adapters, &fakeAdapter{backend: b, enabled: on[b]})
	}
	return tts.NewRegistry(adapters...)
}

func tracker(usage, cap int) *quota.Tracker {
	tr := quota.NewTracker(&quota.MemoryStore{}, cap)
	if usage > 0 {
		tr.Increment(usage)
	}
	return tr
}

func TestParseTier(t *testing.T) {
	if ParseTier("vip") != TierVIP {
		t.Fatalf("vip should parse as vip")
	}
	for _, s := range []string{"free", "", "VIP", "premium"} {
		if ParseTier(s) != TierFree {
			t.Fatalf("%q should parse as free", s)
		}
	}
}

func TestSelect(t *testing.T) {
	all := []tts.Backend{tts.BackendAzure, tts.BackendGoogle, tts.BackendOpenAI, tts.BackendElevenLabs}

	tests := []struct {
		name    string
		segType script.SegmentType
		tier    Tier
		enabled []tts.Backend
		usage   int
		length  int
		want    tts.Backend
	}{
		{
			name:    "vip dialogue goes expressive",
			segType: script.Dialogue, tier: TierVIP,
			enabled: all, want: tts.BackendElevenLabs,
		},
		{
			// 对话路由不看适配器启用状态，解析失败在合成阶段处理
			name:    "vip dialogue even when expressive disabled",
			segType: script.Dialogue, tier: TierVIP,
			enabled: []tts.Backend{tts.BackendGoogle}, want: tts.BackendElevenLabs,
		},
		{
			name:    "free dialogue goes standard pool",
			segType: script.Dialogue, tier: TierFree,
			enabled: all, want: tts.BackendGoogle,
		},
		{
			name:    "vip narration goes premium",
			segType: script.Narration, tier: TierVIP,
			enabled: all, want: tts.BackendOpenAI,
		},
		{
			name:    "vip narration falls through when premium disabled",
			segType: script.Narration, tier: TierVIP,
			enabled: []tts.Backend{tts.BackendAzure, tts.BackendGoogle},
			want:    tts.BackendAzure,
		},
		{
			name:    "free narration under quota",
			segType: script.Narration, tier: TierFree,
			enabled: all, usage: 100, length: 50, want: tts.BackendAzure,
		},
		{
			name:    "free narration over quota",
			segType: script.Narration, tier: TierFree,
			enabled: all, usage: 499990, length: 50, want: tts.BackendGoogle,
		},
		{
			// usage+length == cap 视为超限
			name:    "free narration exactly at cap",
			segType: script.Narration, tier: TierFree,
			enabled: all, usage: 499950, length: 50, want: tts.BackendGoogle,
		},
		{
			name:    "narration with quota backend disabled",
			segType: script.Narration, tier: TierFree,
			enabled: []tts.Backend{tts.BackendGoogle, tts.BackendOpenAI},
			want:    tts.BackendGoogle,
		},
		{
			name:    "narration fallback to premium",
			segType: script.Narration, tier: TierFree,
			enabled: []tts.Backend{tts.BackendOpenAI},
			want:    tts.BackendOpenAI,
		},
		{
			name:    "narration with nothing enabled",
			segType: script.Narration, tier: TierFree,
			enabled: nil, want: tts.BackendGoogle,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPolicy(registry(tt.enabled...), tracker(tt.usage, 500000))
			got := p.Select(tt.segType, tt.length, tt.tier, "neutral")
			if got != tt.want {
				t.Fatalf("Select = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestSelectReadsQuotaFresh(t *testing.T) {
	tr := tracker(0, 1000)
	p := NewPolicy(registry(tts.BackendAzure, tts.BackendGoogle), tr)

	if got := p.Select(script.Narration, 100, TierFree, ""); got != tts.BackendAzure {
		t.Fatalf("under cap should pick azure, got %s", got)
	}
	// 用量增长后的下一次决策必须反映最新账本
	tr.Increment(950)
	if got := p.Select(script.Narration, 100, TierFree, ""); got != tts.BackendGoogle {
		t.Fatalf("over cap should pick google, got %s", got)
	}
}
