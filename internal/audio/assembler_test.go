package audio

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"

	"dramaflow/internal/script"
)

// writeSilenceArtifact 生成指定时长的静音 WAV 产物。
// 扩展名沿用合成产物的 .mp3，解码按内容嗅探容器。
func writeSilenceArtifact(t *testing.T, dir, name string, durMs int) string {
	t.Helper()
	format := canonicalFormat
	buffer := beep.NewBuffer(format)
	buffer.Append(beep.Silence(format.SampleRate.N(time.Duration(durMs) * time.Millisecond)))

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create artifact: %v", err)
	}
	if err := wav.Encode(f, buffer.Streamer(0, buffer.Len()), format); err != nil {
		t.Fatalf("encode artifact: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close artifact: %v", err)
	}
	return path
}

// noFFmpeg 清空查找路径，强制导出 WAV 回退分支
func noFFmpeg(t *testing.T) {
	t.Helper()
	t.Setenv("FFMPEG_BINARY", "")
	t.Setenv("PATH", t.TempDir())
}

func TestAssembleTimelineContiguity(t *testing.T) {
	noFFmpeg(t)
	dir := t.TempDir()

	items := []Item{
		{Segment: script.Segment{Type: script.Narration, Text: "It was raining.", Character: script.NarratorName, Pacing: 1.0},
			ArtifactPath: writeSilenceArtifact(t, dir, "seg0.mp3", 500)},
		{Segment: script.Segment{Type: script.Dialogue, Text: "Hello!", Character: "Mara", Pacing: 1.0},
			ArtifactPath: writeSilenceArtifact(t, dir, "seg1.mp3", 700)},
		{Segment: script.Segment{Type: script.Dialogue, Text: "Come in.", Character: "Finn", Pacing: 1.0},
			ArtifactPath: writeSilenceArtifact(t, dir, "seg2.mp3", 300)},
	}

	a := NewAssembler(NewExporter(""))
	trackPath, timeline, err := a.Assemble(items, dir)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if filepath.Base(trackPath) != "final.wav" {
		t.Fatalf("track path = %q, want wav fallback", trackPath)
	}
	if len(timeline) != 3 {
		t.Fatalf("timeline entries = %d, want 3", len(timeline))
	}

	// 时长 500/700/300ms，间隔固定 300ms
	wants := []struct{ start, end int }{
		{0, 500},
		{800, 1500},
		{1800, 2100},
	}
	for i, w := range wants {
		e := timeline[i]
		if e.Index != i+1 {
			t.Fatalf("entry %d index = %d", i, e.Index)
		}
		if e.StartMs != w.start || e.EndMs != w.end {
			t.Fatalf("entry %d = [%d, %d], want [%d, %d]", i, e.StartMs, e.EndMs, w.start, w.end)
		}
	}
	for i := 1; i < len(timeline); i++ {
		if timeline[i].StartMs != timeline[i-1].EndMs+GapMs {
			t.Fatalf("entries %d/%d not contiguous: %d vs %d", i-1, i, timeline[i-1].EndMs, timeline[i].StartMs)
		}
	}

	if timeline[1].Text != "[Mara] Hello!" {
		t.Fatalf("dialogue text = %q, want character prefix", timeline[1].Text)
	}
	if timeline[0].Text != "It was raining." {
		t.Fatalf("narration text = %q, must not carry prefix", timeline[0].Text)
	}
}

func TestAssemblePacingShortensSegment(t *testing.T) {
	noFFmpeg(t)
	dir := t.TempDir()

	items := []Item{
		{Segment: script.Segment{Type: script.Narration, Text: "fast", Character: script.NarratorName, Pacing: 2.0},
			ArtifactPath: writeSilenceArtifact(t, dir, "fast.mp3", 1000)},
	}
	a := NewAssembler(NewExporter(""))
	_, timeline, err := a.Assemble(items, dir)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	// 2 倍速 -> 时长减半，重采样边界允许几毫秒误差
	got := timeline[0].EndMs - timeline[0].StartMs
	if got < 480 || got > 520 {
		t.Fatalf("paced duration = %dms, want ~500ms", got)
	}
}

func TestAssemblePacingIdentity(t *testing.T) {
	noFFmpeg(t)
	dir := t.TempDir()

	items := []Item{
		{Segment: script.Segment{Type: script.Narration, Text: "plain", Character: script.NarratorName, Pacing: 1.0},
			ArtifactPath: writeSilenceArtifact(t, dir, "plain.mp3", 1000)},
	}
	a := NewAssembler(NewExporter(""))
	_, timeline, err := a.Assemble(items, dir)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	// 原速且采样率一致时不经过重采样，时长逐样本精确
	if got := timeline[0].EndMs - timeline[0].StartMs; got != 1000 {
		t.Fatalf("identity duration = %dms, want exactly 1000ms", got)
	}
}

func TestAssembleMissingArtifact(t *testing.T) {
	noFFmpeg(t)
	dir := t.TempDir()

	items := []Item{
		{Segment: script.Segment{Type: script.Narration, Text: "ok", Character: script.NarratorName, Pacing: 1.0},
			ArtifactPath: writeSilenceArtifact(t, dir, "ok.mp3", 200)},
		{Segment: script.Segment{Type: script.Dialogue, Text: "gone", Character: "Mara", Pacing: 1.0},
			ArtifactPath: filepath.Join(dir, "missing.mp3")},
	}
	a := NewAssembler(NewExporter(""))
	_, _, err := a.Assemble(items, dir)
	if err == nil {
		t.Fatalf("missing artifact must abort assembly")
	}
	var asmErr *AssemblyError
	if !errors.As(err, &asmErr) {
		t.Fatalf("expected AssemblyError, got %T: %v", err, err)
	}
	if asmErr.Index != 1 {
		t.Fatalf("error index = %d, want 1", asmErr.Index)
	}
}

func TestAssembleEmpty(t *testing.T) {
	a := NewAssembler(NewExporter(""))
	if _, _, err := a.Assemble(nil, t.TempDir()); err == nil {
		t.Fatalf("empty input must fail")
	}
}

func TestOverlayMusic(t *testing.T) {
	dir := t.TempDir()
	musicPath := writeSilenceArtifact(t, dir, "music.mp3", 200)

	track := beep.NewBuffer(canonicalFormat)
	track.Append(beep.Silence(CanonicalSampleRate.N(time.Second)))

	mixed, err := OverlayMusic(track, musicPath, -20)
	if err != nil {
		t.Fatalf("OverlayMusic failed: %v", err)
	}
	// 音乐循环铺满整条音轨，混音后长度不变
	if mixed.Len() != track.Len() {
		t.Fatalf("mixed length = %d, want %d", mixed.Len(), track.Len())
	}

	if _, err := OverlayMusic(track, filepath.Join(dir, "absent.mp3"), -20); err == nil {
		t.Fatalf("missing music file must fail")
	}
}
