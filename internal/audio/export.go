package audio

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
	"github.com/sirupsen/logrus"
)

// Exporter 导出最终音轨。
// 进程内只产出 WAV；压缩到 MP3（~192kbps）委托给 ffmpeg，
// 与无服务器部署里通过 FFMPEG_BINARY 注入二进制的方式兼容。
type Exporter struct {
	// FFmpegPath 为空时依次尝试 FFMPEG_BINARY 环境变量和 PATH 查找
	FFmpegPath string
	Bitrate    string // 如 "192k"
}

func NewExporter(ffmpegPath string) *Exporter {
	return &Exporter{FFmpegPath: ffmpegPath, Bitrate: "192k"}
}

// Export 把拼接好的缓冲写成音轨文件并返回路径。
// 找得到 ffmpeg 时输出 final.mp3，否则退回 final.wav 并记 warn。
func (e *Exporter) Export(buffer *beep.Buffer, outputDir string) (string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", err
	}

	wavPath := filepath.Join(outputDir, "final.wav")
	f, err := os.Create(wavPath)
	if err != nil {
		return "", err
	}
	streamer := buffer.Streamer(0, buffer.Len())
	if err := wav.Encode(f, streamer, buffer.Format()); err != nil {
		f.Close()
		return "", fmt.Errorf("encode wav: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}

	ffmpeg := e.ffmpegBinary()
	if ffmpeg == "" {
		logrus.Warn("audio: ffmpeg not found, keeping wav output")
		return wavPath, nil
	}

	mp3Path := filepath.Join(outputDir, "final.mp3")
	cmd := exec.Command(ffmpeg,
		"-y", "-i", wavPath,
		"-codec:a", "libmp3lame", "-b:a", e.Bitrate,
		"-metadata", "title=Audio Drama",
		"-metadata", "artist=DramaFlow",
		"-metadata", "genre=Audio Drama",
		mp3Path,
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("ffmpeg export: %w: %s", err, tail(out, 200))
	}
	_ = os.Remove(wavPath)

	logrus.Infof("audio: exported %s at %s", mp3Path, e.Bitrate)
	return mp3Path, nil
}

func (e *Exporter) ffmpegBinary() string {
	if e.FFmpegPath != "" {
		return e.FFmpegPath
	}
	if env := os.Getenv("FFMPEG_BINARY"); env != "" {
		return env
	}
	if path, err := exec.LookPath("ffmpeg"); err == nil {
		return path
	}
	return ""
}

func tail(b []byte, n int) string {
	if len(b) > n {
		b = b[len(b)-n:]
	}
	return string(b)
}
