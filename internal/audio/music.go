package audio

import (
	"math"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/sirupsen/logrus"
)

// DefaultMusicGainDB 背景音乐的默认衰减
const DefaultMusicGainDB = -20.0

// OverlayMusic 把背景音乐垫在成品音轨下面：
// 音乐循环或截断到主轨长度，按 gainDB 衰减后混入，返回混音后的新缓冲。
// 主轨缓冲不被修改。
func OverlayMusic(track *beep.Buffer, musicPath string, gainDB float64) (*beep.Buffer, error) {
	music, musicFormat, err := decodeArtifact(musicPath)
	if err != nil {
		return nil, err
	}
	defer music.Close()

	format := track.Format()

	// 统一采样率后装入缓冲，便于循环
	musicBuf := beep.NewBuffer(format)
	if musicFormat.SampleRate != format.SampleRate {
		musicBuf.Append(beep.Resample(resampleQuality, musicFormat.SampleRate, format.SampleRate, music))
	} else {
		musicBuf.Append(music)
	}
	if musicBuf.Len() == 0 {
		return nil, &AssemblyError{Path: musicPath, Cause: errEmptyMusic}
	}

	// dB -> 线性增益；effects.Gain 的系数是 1+Gain
	ratio := math.Pow(10, gainDB/20)
	bed := &effects.Gain{
		Streamer: beep.Take(track.Len(), loop(musicBuf)),
		Gain:     ratio - 1,
	}

	mixed := beep.NewBuffer(format)
	mixed.Append(beep.Mix(track.Streamer(0, track.Len()), bed))

	logrus.Infof("audio: overlaid background music %s at %.0fdB", musicPath, gainDB)
	return mixed, nil
}

var errEmptyMusic = &decodeError{"background music decoded to zero samples"}

type decodeError struct{ msg string }

func (e *decodeError) Error() string { return e.msg }

// loop 无限循环播放缓冲内容
func loop(buf *beep.Buffer) beep.Streamer {
	return beep.Loop(-1, buf.Streamer(0, buf.Len()))
}
