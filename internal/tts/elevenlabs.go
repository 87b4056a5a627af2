package tts

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// ElevenLabsAdapter 表现力后端。
// 走 websocket 流式输入接口，每次调用建立一条连接，
// 把 EmotionSettings 的四个表现力字段映射为该后端的 voice_settings。
type ElevenLabsAdapter struct {
	apiKey  string
	modelID string
}

func NewElevenLabsAdapter(apiKey string) *ElevenLabsAdapter {
	return &ElevenLabsAdapter{apiKey: apiKey, modelID: "eleven_multilingual_v2"}
}

func (e *ElevenLabsAdapter) Backend() Backend { return BackendElevenLabs }

func (e *ElevenLabsAdapter) Enabled() bool { return e.apiKey != "" }

// elevenVoiceSettings 后端原生的表现力参数名
type elevenVoiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style"`
	UseSpeakerBoost bool    `json:"use_speaker_boost"`
}

type elevenInputMessage struct {
	Text                 string               `json:"text"`
	VoiceSettings        *elevenVoiceSettings `json:"voice_settings,omitempty"`
	TryTriggerGeneration bool                 `json:"try_trigger_generation,omitempty"`
}

type elevenOutputMessage struct {
	Audio   string `json:"audio"`
	IsFinal bool   `json:"isFinal"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (e *ElevenLabsAdapter) Generate(ctx context.Context, req Request) ([]byte, error) {
	if !e.Enabled() {
		return nil, &ConfigurationError{Backend: BackendElevenLabs, Reason: "missing api key"}
	}
	return withRetry(ctx, BackendElevenLabs, func(ctx context.Context) ([]byte, error) {
		return e.synthesize(ctx, req)
	})
}

func (e *ElevenLabsAdapter) synthesize(ctx context.Context, req Request) ([]byte, error) {
	conn, err := e.dialWebsocket(ctx, req.Voice)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	// ctx 到期时强制断开，避免 ReadMessage 卡死
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()

	settings := req.Emotion
	if settings == nil {
		settings = &EmotionSettings{Stability: 0.60, SimilarityBoost: 0.75}
	}

	// BOS：携带 voice_settings 的起始消息
	bos := elevenInputMessage{
		Text: " ",
		VoiceSettings: &elevenVoiceSettings{
			Stability:       settings.Stability,
			SimilarityBoost: settings.SimilarityBoost,
			Style:           settings.Style,
			UseSpeakerBoost: settings.SpeakerBoost,
		},
	}
	if err := conn.WriteJSON(&bos); err != nil {
		return nil, transportError(BackendElevenLabs, err)
	}
	if err := conn.WriteJSON(&elevenInputMessage{Text: req.Text + " ", TryTriggerGeneration: true}); err != nil {
		return nil, transportError(BackendElevenLabs, err)
	}
	// EOS：空文本结束会话
	if err := conn.WriteJSON(&elevenInputMessage{Text: ""}); err != nil {
		return nil, transportError(BackendElevenLabs, err)
	}

	var audio bytes.Buffer
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) && audio.Len() > 0 {
				// 部分服务端以正常关闭代替 isFinal
				return audio.Bytes(), nil
			}
			return nil, transportError(BackendElevenLabs, err)
		}

		var msg elevenOutputMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, &BackendError{Backend: BackendElevenLabs, Cause: err}
		}
		if msg.Error != "" {
			return nil, &BackendError{
				Backend: BackendElevenLabs,
				Cause:   fmt.Errorf("%s: %s", msg.Error, msg.Message),
			}
		}
		if msg.Audio != "" {
			chunk, err := base64.StdEncoding.DecodeString(msg.Audio)
			if err != nil {
				return nil, &BackendError{Backend: BackendElevenLabs, Cause: err}
			}
			audio.Write(chunk)
		}
		if msg.IsFinal {
			break
		}
	}

	logrus.Debugf("elevenlabs: received %d bytes for voice %s", audio.Len(), req.Voice)
	return audio.Bytes(), nil
}

func (e *ElevenLabsAdapter) dialWebsocket(ctx context.Context, voice string) (*websocket.Conn, error) {
	header := http.Header{}
	header.Set("xi-api-key", e.apiKey)
	header.Set("X-Connect-Id", uuid.New().String())

	dialCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	endpoint := fmt.Sprintf(
		"wss://api.elevenlabs.io/v1/text-to-speech/%s/stream-input?model_id=%s&output_format=mp3_44100_192",
		voice, e.modelID,
	)
	conn, resp, err := websocket.DefaultDialer.DialContext(dialCtx, endpoint, header)
	if err != nil {
		if resp != nil {
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			return nil, statusError(BackendElevenLabs, resp.StatusCode, body)
		}
		return nil, transportError(BackendElevenLabs, err)
	}
	return conn, nil
}
