package app

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"dramaflow/internal/audio"
	"dramaflow/internal/config"
	"dramaflow/internal/quota"
	"dramaflow/internal/routing"
	"dramaflow/internal/script"
	"dramaflow/internal/storage"
	"dramaflow/internal/synth"
	"dramaflow/internal/tts"
	"dramaflow/internal/voice"
)

// Application 组装整条流水线：
// 剧本 -> 路由/音色注解 -> 两阶段合成 -> 拼接导出 -> 打包
type Application struct {
	cfg          *config.Config
	adapters     tts.Registry
	tracker      *quota.Tracker
	synthesizer  *synth.Synthesizer
	orchestrator *synth.Orchestrator
	assembler    *audio.Assembler
	analyzer     *script.Analyzer
	store        storage.Store
}

// New 按配置构建应用。分析器没有 API key 时禁用（/analyze 与 /generate 不可用），
// 合成链路不受影响。
func New(ctx context.Context, cfg *config.Config) (*Application, error) {
	adapters := tts.NewRegistry(
		tts.NewAzureAdapter(cfg.Azure.Key, cfg.Azure.Region),
		tts.NewGoogleAdapter(cfg.Google.APIKey),
		tts.NewOpenAIAdapter(cfg.OpenAI.APIKey),
		tts.NewElevenLabsAdapter(cfg.ElevenLabs.APIKey),
	)

	tracker := quota.NewTracker(&quota.FileStore{Path: cfg.Quota.UsageFile}, cfg.Quota.MonthlyCap)
	policy := routing.NewPolicy(adapters, tracker)
	synthesizer := synth.NewSynthesizer(adapters, voice.DefaultPools, policy, tracker)

	assembler := audio.NewAssembler(audio.NewExporter(cfg.Audio.FFmpegBinary))
	assembler.MusicPath = cfg.Audio.MusicPath
	if cfg.Audio.MusicGainDB != 0 {
		assembler.MusicGainDB = cfg.Audio.MusicGainDB
	}

	store, err := storage.NewFileStore(cfg.Storage.Dir)
	if err != nil {
		return nil, err
	}

	a := &Application{
		cfg:          cfg,
		adapters:     adapters,
		tracker:      tracker,
		synthesizer:  synthesizer,
		orchestrator: synth.NewOrchestrator(synthesizer, cfg.Synthesis.DialogueConcurrency),
		assembler:    assembler,
		store:        store,
	}

	if cfg.Analyzer.APIKey != "" {
		analyzer, err := script.NewAnalyzer(ctx, cfg.Analyzer.BaseURL, cfg.Analyzer.Model, cfg.Analyzer.APIKey)
		if err != nil {
			return nil, err
		}
		a.analyzer = analyzer
	} else {
		logrus.Warn("app: analyzer disabled, no api key configured")
	}

	for _, b := range tts.Backends() {
		logrus.Infof("app: backend %s enabled=%v", b, adapters.Enabled(b))
	}
	return a, nil
}

// DramaPackage 一次合成的完整产出
type DramaPackage struct {
	ZipPath      string            `json:"-"`
	AudioPath    string            `json:"audio_path"`
	SubtitlePath string            `json:"subtitle_path"`
	Timeline     audio.Timeline    `json:"timeline"`
	Cast         []synth.CastEntry `json:"cast"`
	Warnings     []string          `json:"warnings,omitempty"`
}

// Analyze 只做文本分析，返回校验过的剧本（用于合成前预览）
func (a *Application) Analyze(ctx context.Context, text string) ([]script.Segment, error) {
	if a.analyzer == nil {
		return nil, errors.New("analyzer is not configured")
	}
	return a.analyzer.Analyze(ctx, text)
}

// AnalyzeWithKey 用请求方自带的 API key 做一次性分析。
// key 为空时退回服务端配置的分析器。
func (a *Application) AnalyzeWithKey(ctx context.Context, text, apiKey string) ([]script.Segment, error) {
	if apiKey == "" {
		return a.Analyze(ctx, text)
	}
	analyzer, err := script.NewAnalyzer(ctx, a.cfg.Analyzer.BaseURL, a.cfg.Analyzer.Model, apiKey)
	if err != nil {
		return nil, err
	}
	return analyzer.Analyze(ctx, text)
}

// GenerateDrama 完整流水线：分析 -> 合成
func (a *Application) GenerateDrama(ctx context.Context, text string, tier routing.Tier, workDir string) (*DramaPackage, error) {
	segments, err := a.Analyze(ctx, text)
	if err != nil {
		return nil, err
	}
	return a.SynthesizeScript(ctx, segments, tier, workDir)
}

// SynthesizeScript 从既有剧本合成音频剧。
// 调用方要么拿到完整的 (音轨, 时间线) 产出，要么拿到一个明确的失败原因；
// 这一层没有"部分成功"的返回形态。
func (a *Application) SynthesizeScript(ctx context.Context, segments []script.Segment, tier routing.Tier, workDir string) (*DramaPackage, error) {
	validated, err := script.ValidateScript(segments)
	if err != nil {
		return nil, err
	}

	annotated := a.synthesizer.AssignVoices(validated, tier)
	cast := synth.CastMetadata(annotated)

	audioDir := filepath.Join(workDir, "audio")
	results, err := a.orchestrator.Run(ctx, annotated, audioDir, tier)
	if err != nil {
		return nil, err
	}

	var items []audio.Item
	var warnings []string
	for i, res := range results {
		if res.Skipped {
			warnings = append(warnings, fmt.Sprintf("segment %d skipped: %s", i, res.SkipReason))
			continue
		}
		items = append(items, audio.Item{Segment: annotated[i], ArtifactPath: res.ArtifactPath})
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("all %d segments were skipped, nothing to assemble", len(results))
	}

	trackPath, timeline, err := a.assembler.Assemble(items, workDir)
	if err != nil {
		return nil, err
	}

	srtPath := filepath.Join(workDir, "final.srt")
	if err := timeline.WriteSRT(srtPath); err != nil {
		return nil, err
	}

	zipPath := filepath.Join(workDir, "drama_package.zip")
	if err := writePackage(zipPath, trackPath, srtPath); err != nil {
		return nil, err
	}

	logrus.Infof("app: package ready at %s (%d segments, %d skipped)", zipPath, len(items), len(warnings))
	return &DramaPackage{
		ZipPath:      zipPath,
		AudioPath:    trackPath,
		SubtitlePath: srtPath,
		Timeline:     timeline,
		Cast:         cast,
		Warnings:     warnings,
	}, nil
}

// Health 各后端的启用状态
func (a *Application) Health() map[string]bool {
	status := make(map[string]bool, len(a.adapters)+1)
	for _, b := range tts.Backends() {
		status[string(b)] = a.adapters.Enabled(b)
	}
	status["analyzer"] = a.analyzer != nil
	return status
}

// Store 暴露存储协作方，供 HTTP 层在打包后持久化
func (a *Application) Store() storage.Store { return a.store }

// writePackage 把音轨和字幕打进一个 zip 包
func writePackage(zipPath, audioPath, srtPath string) error {
	f, err := os.Create(zipPath)
	if err != nil {
		return err
	}
	defer f.Close()

	w := zip.NewWriter(f)
	audioName := "drama" + filepath.Ext(audioPath)
	if err := addToZip(w, audioPath, audioName); err != nil {
		return err
	}
	if err := addToZip(w, srtPath, "drama.srt"); err != nil {
		return err
	}
	return w.Close()
}

func addToZip(w *zip.Writer, path, name string) error {
	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := w.Create(name)
	if err != nil {
		return err
	}
	_, err = io.Copy(dst, src)
	return err
}
