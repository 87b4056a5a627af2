package tts

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// AzureAdapter 配额受限的标准后端。
// 走 REST 合成接口，音色为固定的每语种默认值，不走音色池。
type AzureAdapter struct {
	key    string
	region string
}

func NewAzureAdapter(key, region string) *AzureAdapter {
	return &AzureAdapter{key: key, region: region}
}

func (a *AzureAdapter) Backend() Backend { return BackendAzure }

func (a *AzureAdapter) Enabled() bool { return a.key != "" && a.region != "" }

func (a *AzureAdapter) Generate(ctx context.Context, req Request) ([]byte, error) {
	if !a.Enabled() {
		return nil, &ConfigurationError{Backend: BackendAzure, Reason: "missing speech key or region"}
	}
	return withRetry(ctx, BackendAzure, func(ctx context.Context) ([]byte, error) {
		return a.synthesize(ctx, req)
	})
}

func (a *AzureAdapter) synthesize(ctx context.Context, req Request) ([]byte, error) {
	endpoint := fmt.Sprintf("https://%s.tts.speech.microsoft.com/cognitiveservices/v1", a.region)

	// 音色名形如 en-US-BrianNeural，前两段即语言代码
	lang := voiceLangCode(req.Voice)
	ssml := fmt.Sprintf(
		`<speak version='1.0' xml:lang='%s'><voice name='%s'>%s</voice></speak>`,
		lang, req.Voice, xmlEscape(req.Text),
	)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(ssml))
	if err != nil {
		return nil, &BackendError{Backend: BackendAzure, Cause: err}
	}
	httpReq.Header.Set("Ocp-Apim-Subscription-Key", a.key)
	httpReq.Header.Set("Content-Type", "application/ssml+xml")
	httpReq.Header.Set("X-Microsoft-OutputFormat", "audio-24khz-96kbitrate-mono-mp3")
	httpReq.Header.Set("User-Agent", "dramaflow")

	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return nil, transportError(BackendAzure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, statusError(BackendAzure, resp.StatusCode, body)
	}
	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError(BackendAzure, err)
	}
	return audio, nil
}

// voiceLangCode 从音色名推导语言代码，如 "zh-CN-YunxiNeural" -> "zh-CN"
func voiceLangCode(voice string) string {
	parts := strings.SplitN(voice, "-", 3)
	if len(parts) >= 2 {
		return parts[0] + "-" + parts[1]
	}
	return "en-US"
}

func xmlEscape(s string) string {
	var buf bytes.Buffer
	// 只处理 SSML 文本节点需要的实体
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;", "'", "&apos;")
	r.WriteString(&buf, s)
	return buf.String()
}
