package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
)

// OpenAIAdapter 高质量后端，每性别一个固定音色，不走音色池
type OpenAIAdapter struct {
	apiKey  string
	baseURL string
}

func NewOpenAIAdapter(apiKey string) *OpenAIAdapter {
	return &OpenAIAdapter{apiKey: apiKey, baseURL: "https://api.openai.com/v1"}
}

func (o *OpenAIAdapter) Backend() Backend { return BackendOpenAI }

func (o *OpenAIAdapter) Enabled() bool { return o.apiKey != "" }

func (o *OpenAIAdapter) Generate(ctx context.Context, req Request) ([]byte, error) {
	if !o.Enabled() {
		return nil, &ConfigurationError{Backend: BackendOpenAI, Reason: "missing api key"}
	}
	return withRetry(ctx, BackendOpenAI, func(ctx context.Context) ([]byte, error) {
		return o.synthesize(ctx, req)
	})
}

func (o *OpenAIAdapter) synthesize(ctx context.Context, req Request) ([]byte, error) {
	// 音色可带模型前缀，如 "tts-1-hd|onyx"
	model, voice := "tts-1", req.Voice
	if i := strings.IndexByte(voice, '|'); i >= 0 {
		model, voice = voice[:i], voice[i+1:]
	}

	payload := map[string]any{
		"model":           model,
		"input":           req.Text,
		"voice":           voice,
		"response_format": "mp3",
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &BackendError{Backend: BackendOpenAI, Cause: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/audio/speech", bytes.NewReader(body))
	if err != nil {
		return nil, &BackendError{Backend: BackendOpenAI, Cause: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+o.apiKey)

	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return nil, transportError(BackendOpenAI, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, statusError(BackendOpenAI, resp.StatusCode, respBody)
	}
	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError(BackendOpenAI, err)
	}
	return audio, nil
}
