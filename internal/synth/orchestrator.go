package synth

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"dramaflow/internal/routing"
	"dramaflow/internal/script"
)

// DefaultDialogueConcurrency 对话阶段的并发上限。
// 表现力后端有外部速率限制，旁白用的便宜后端则不设上限。
const DefaultDialogueConcurrency = 3

// Orchestrator 两阶段扇出：
// 阶段 1（旁白）不限并发，阶段 2（对话）走有界并发门。
// 两个阶段都按片段的原始索引写回结果，与完成顺序无关。
type Orchestrator struct {
	synth               *Synthesizer
	dialogueConcurrency int
}

func NewOrchestrator(s *Synthesizer, dialogueConcurrency int) *Orchestrator {
	if dialogueConcurrency <= 0 {
		dialogueConcurrency = DefaultDialogueConcurrency
	}
	return &Orchestrator{synth: s, dialogueConcurrency: dialogueConcurrency}
}

// Run 合成整个剧本，返回与 segments 等长、按原始索引对齐的结果。
// 任一片段失败则该阶段整体失败，错误包含阶段名和片段索引；
// 失败阶段中已完成片段的产物不应被调用方复用。
func (o *Orchestrator) Run(ctx context.Context, segments []script.Segment, outputDir string, tier routing.Tier) ([]Result, error) {
	results := make([]Result, len(segments))

	var narration, dialogue []int
	for i, seg := range segments {
		if seg.Type == script.Dialogue {
			dialogue = append(dialogue, i)
		} else {
			narration = append(narration, i)
		}
	}

	logrus.Infof("synth: phase 1, %d narration segments", len(narration))
	if err := o.runPhase(ctx, segments, results, narration, outputDir, tier, 0); err != nil {
		return nil, fmt.Errorf("narration phase: %w", err)
	}

	logrus.Infof("synth: phase 2, %d dialogue segments (concurrency=%d)", len(dialogue), o.dialogueConcurrency)
	if err := o.runPhase(ctx, segments, results, dialogue, outputDir, tier, o.dialogueConcurrency); err != nil {
		return nil, fmt.Errorf("dialogue phase: %w", err)
	}

	return results, nil
}

// runPhase 并发合成 indices 指定的片段。limit <= 0 表示不限并发。
// 所有在途调用结束后才返回；多个失败时报告索引最小的那个。
func (o *Orchestrator) runPhase(ctx context.Context, segments []script.Segment, results []Result, indices []int, outputDir string, tier routing.Tier, limit int) error {
	if len(indices) == 0 {
		return nil
	}

	var gate chan struct{}
	if limit > 0 {
		gate = make(chan struct{}, limit)
	}

	errs := make([]error, len(segments))
	var wg sync.WaitGroup
	for _, idx := range indices {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			if gate != nil {
				gate <- struct{}{}
				defer func() { <-gate }()
			}
			res, err := o.synth.Synthesize(ctx, segments[idx], idx, outputDir, tier)
			if err != nil {
				errs[idx] = err
				return
			}
			results[idx] = res
		}(idx)
	}
	wg.Wait()

	for _, idx := range indices {
		if errs[idx] != nil {
			return errs[idx]
		}
	}
	return nil
}
