package tts

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
)

// GoogleAdapter 标准多音色池后端
type GoogleAdapter struct {
	apiKey string
}

func NewGoogleAdapter(apiKey string) *GoogleAdapter {
	return &GoogleAdapter{apiKey: apiKey}
}

func (g *GoogleAdapter) Backend() Backend { return BackendGoogle }

func (g *GoogleAdapter) Enabled() bool { return g.apiKey != "" }

type googleSynthRequest struct {
	Input struct {
		Text string `json:"text"`
	} `json:"input"`
	Voice struct {
		LanguageCode string `json:"languageCode"`
		Name         string `json:"name"`
	} `json:"voice"`
	AudioConfig struct {
		AudioEncoding string `json:"audioEncoding"`
	} `json:"audioConfig"`
}

type googleSynthResponse struct {
	AudioContent string `json:"audioContent"`
}

func (g *GoogleAdapter) Generate(ctx context.Context, req Request) ([]byte, error) {
	if !g.Enabled() {
		return nil, &ConfigurationError{Backend: BackendGoogle, Reason: "missing api key"}
	}
	return withRetry(ctx, BackendGoogle, func(ctx context.Context) ([]byte, error) {
		return g.synthesize(ctx, req)
	})
}

func (g *GoogleAdapter) synthesize(ctx context.Context, req Request) ([]byte, error) {
	var payload googleSynthRequest
	payload.Input.Text = req.Text
	// 音色名形如 cmn-CN-Wavenet-C，前两段即语言代码
	payload.Voice.LanguageCode = voiceLangCode(req.Voice)
	payload.Voice.Name = req.Voice
	payload.AudioConfig.AudioEncoding = "MP3"

	body, err := json.Marshal(&payload)
	if err != nil {
		return nil, &BackendError{Backend: BackendGoogle, Cause: err}
	}

	endpoint := "https://texttospeech.googleapis.com/v1/text:synthesize"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &BackendError{Backend: BackendGoogle, Cause: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Goog-Api-Key", g.apiKey)

	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return nil, transportError(BackendGoogle, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError(BackendGoogle, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, statusError(BackendGoogle, resp.StatusCode, respBody)
	}

	var synth googleSynthResponse
	if err := json.Unmarshal(respBody, &synth); err != nil {
		return nil, &BackendError{Backend: BackendGoogle, Cause: err}
	}
	audio, err := base64.StdEncoding.DecodeString(synth.AudioContent)
	if err != nil {
		return nil, &BackendError{Backend: BackendGoogle, Cause: err}
	}
	return audio, nil
}
