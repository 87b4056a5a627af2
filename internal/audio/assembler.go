package audio

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/wav"
	"github.com/sirupsen/logrus"

	"dramaflow/internal/script"
)

// 最终音轨的统一格式
const (
	CanonicalSampleRate = beep.SampleRate(44100)
	resampleQuality     = 4
	// GapMs 相邻片段之间的固定静音间隔
	GapMs = 300
)

var canonicalFormat = beep.Format{
	SampleRate:  CanonicalSampleRate,
	NumChannels: 2,
	Precision:   2,
}

// AssemblyError 产物缺失或无法解码。任何一个片段出错都中止整次拼接，
// 不输出半成品音轨。
type AssemblyError struct {
	Index int
	Path  string
	Cause error
}

func (e *AssemblyError) Error() string {
	return fmt.Sprintf("assembly failed at segment %d (%s): %v", e.Index, e.Path, e.Cause)
}

func (e *AssemblyError) Unwrap() error { return e.Cause }

// Item 一个待拼接的片段及其音频产物
type Item struct {
	Segment      script.Segment
	ArtifactPath string
}

// Assembler 把有序音频产物拼成单条音轨，并产出平行的字幕时间线
type Assembler struct {
	exporter *Exporter

	// MusicPath 非空时在导出前垫入背景音乐
	MusicPath   string
	MusicGainDB float64
}

func NewAssembler(exporter *Exporter) *Assembler {
	return &Assembler{exporter: exporter, MusicGainDB: DefaultMusicGainDB}
}

// Assemble 按原始顺序拼接：
//  1. 解码产物并统一到规范格式
//  2. pacing != 1.0 时按 原采样率*pacing 重采样回规范采样率——
//     变速的同时会轻微变调，这是接受的简化（不是保音高的时间拉伸）
//  3. 非首片段前插入固定 300ms 静音
//  4. 记录 startMs / endMs，游标前移
//
// 返回导出后的音轨路径和时间线。
func (a *Assembler) Assemble(items []Item, outputDir string) (string, Timeline, error) {
	if len(items) == 0 {
		return "", nil, fmt.Errorf("no segments to assemble")
	}

	buffer := beep.NewBuffer(canonicalFormat)
	timeline := make(Timeline, 0, len(items))
	gapSamples := CanonicalSampleRate.N(GapMs * time.Millisecond)

	cursorMs := 0
	for i, item := range items {
		streamer, format, err := decodeArtifact(item.ArtifactPath)
		if err != nil {
			return "", nil, &AssemblyError{Index: i, Path: item.ArtifactPath, Cause: err}
		}

		if i > 0 {
			buffer.Append(beep.Silence(gapSamples))
			cursorMs += GapMs
		}

		before := buffer.Len()
		buffer.Append(paced(streamer, format, item.Segment.Pacing))
		streamer.Close()
		appended := buffer.Len() - before

		durMs := samplesToMs(appended)
		entry := Entry{
			Index:   i + 1,
			StartMs: cursorMs,
			EndMs:   cursorMs + durMs,
			Text:    item.Segment.DisplayText(),
		}
		timeline = append(timeline, entry)
		cursorMs = entry.EndMs
	}

	logrus.Infof("audio: assembled %d segments, total %s", len(items), FormatTimestamp(cursorMs))

	if a.MusicPath != "" {
		mixed, err := OverlayMusic(buffer, a.MusicPath, a.MusicGainDB)
		if err != nil {
			return "", nil, fmt.Errorf("overlay music: %w", err)
		}
		buffer = mixed
	}

	trackPath, err := a.exporter.Export(buffer, outputDir)
	if err != nil {
		return "", nil, err
	}
	return trackPath, timeline, nil
}

// paced 应用语速并统一到规范采样率。
// pacing==1.0 且采样率已是规范值时原样返回，不做任何重采样。
func paced(s beep.Streamer, format beep.Format, pacing float64) beep.Streamer {
	if pacing <= 0 {
		pacing = 1.0
	}
	effective := beep.SampleRate(math.Round(float64(format.SampleRate) * pacing))
	if effective == CanonicalSampleRate {
		return s
	}
	// 把样本当作 effective 采样率播放再采回规范采样率，
	// 时长缩放 1/pacing，音高随之偏移
	return beep.Resample(resampleQuality, effective, CanonicalSampleRate, s)
}

// decodeArtifact 按内容识别容器：RIFF 头走 wav，其余按 mp3 解码
func decodeArtifact(path string) (beep.StreamSeekCloser, beep.Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, beep.Format{}, err
	}

	header := make([]byte, 4)
	if _, err := f.Read(header); err != nil {
		f.Close()
		return nil, beep.Format{}, err
	}
	if _, err := f.Seek(0, 0); err != nil {
		f.Close()
		return nil, beep.Format{}, err
	}

	if string(header) == "RIFF" {
		return wav.Decode(f)
	}
	return mp3.Decode(f)
}

func samplesToMs(n int) int {
	return int(math.Round(float64(n) * 1000 / float64(CanonicalSampleRate)))
}
