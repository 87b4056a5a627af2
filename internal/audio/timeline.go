package audio

import (
	"fmt"
	"os"
	"strings"
)

// Entry 时间线条目。条目连续、不重叠，StartMs 和 Index 严格递增。
type Entry struct {
	Index   int    `json:"index"` // 1 起始的字幕序号
	StartMs int    `json:"start_ms"`
	EndMs   int    `json:"end_ms"`
	Text    string `json:"text"`
}

// Timeline 与最终音轨平行的字幕时间线
type Timeline []Entry

// FormatTimestamp 毫秒 -> SRT 时间戳 "HH:MM:SS,mmm"
func FormatTimestamp(ms int) string {
	sec, msec := ms/1000, ms%1000
	min, sec := sec/60, sec%60
	hour, min := min/60, min%60
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hour, min, sec, msec)
}

// SRT 序列化为标准字幕格式：序号 / 起止时间 / 文本，块间空行。
// 该输出会被第三方播放器直接消费，格式必须逐字节兼容。
func (t Timeline) SRT() string {
	var b strings.Builder
	for _, e := range t {
		fmt.Fprintf(&b, "%d\n%s --> %s\n%s\n\n",
			e.Index, FormatTimestamp(e.StartMs), FormatTimestamp(e.EndMs), e.Text)
	}
	return b.String()
}

// WriteSRT 把时间线写成 .srt 文件
func (t Timeline) WriteSRT(path string) error {
	return os.WriteFile(path, []byte(t.SRT()), 0o644)
}
