package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"dramaflow/internal/app"
	"dramaflow/internal/config"
)

// newTestServer 不配任何后端凭据：适配器全部禁用，分析器关闭
func newTestServer(t *testing.T) *fiber.App {
	t.Helper()
	for _, key := range []string{
		"OPENROUTER_API_KEY", "AZURE_SPEECH_KEY", "AZURE_SPEECH_REGION",
		"GOOGLE_TTS_API_KEY", "OPENAI_API_KEY", "ELEVENLABS_API_KEY",
	} {
		t.Setenv(key, "")
	}

	cfg := config.DefaultConfig()
	cfg.Storage.Dir = filepath.Join(t.TempDir(), "store")
	cfg.Quota.UsageFile = filepath.Join(t.TempDir(), "usage.json")

	application, err := app.New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("app.New failed: %v", err)
	}

	f := fiber.New()
	Register(f, application)
	return f
}

func TestHealthEndpoint(t *testing.T) {
	f := newTestServer(t)

	resp, err := f.Test(httptest.NewRequest("GET", "/health", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var body struct {
		Status   string          `json:"status"`
		Backends map[string]bool `json:"backends"`
	}
	data, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(data, &body); err != nil {
		t.Fatalf("bad response %q: %v", data, err)
	}
	if body.Status != "healthy" {
		t.Fatalf("status field = %q", body.Status)
	}
	for _, name := range []string{"azure", "google", "openai", "elevenlabs"} {
		if enabled, ok := body.Backends[name]; !ok || enabled {
			t.Fatalf("backend %s should be reported disabled: %v", name, body.Backends)
		}
	}
}

func TestVoicesEndpoint(t *testing.T) {
	f := newTestServer(t)

	resp, err := f.Test(httptest.NewRequest("GET", "/voices", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var body struct {
		Emotions   []string                       `json:"emotions"`
		GooglePool map[string]map[string][]string `json:"google_pool"`
	}
	data, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(data, &body); err != nil {
		t.Fatalf("bad response %q: %v", data, err)
	}
	if len(body.Emotions) == 0 {
		t.Fatalf("emotions missing")
	}
	if len(body.GooglePool["en"]["female"]) == 0 {
		t.Fatalf("google pool missing: %v", body.GooglePool)
	}
}

func TestAnalyzeEndpointValidation(t *testing.T) {
	f := newTestServer(t)

	// 文本太短
	req := httptest.NewRequest("POST", "/analyze", strings.NewReader(`{"text": "hi"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := f.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 400 {
		t.Fatalf("short text status = %d, want 400", resp.StatusCode)
	}

	// 分析器未配置
	req = httptest.NewRequest("POST", "/analyze", strings.NewReader(`{"text": "a long enough drama text"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err = f.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 500 {
		t.Fatalf("unconfigured analyzer status = %d, want 500", resp.StatusCode)
	}
}

func TestSynthesizeEndpointValidation(t *testing.T) {
	f := newTestServer(t)

	req := httptest.NewRequest("POST", "/synthesize", strings.NewReader(`{"script": []}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := f.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 400 {
		t.Fatalf("empty script status = %d, want 400", resp.StatusCode)
	}

	// 全部后端禁用：每个片段都被跳过，整体失败
	body := `{"script": [{"type": "narration", "text": "It was raining."}]}`
	req = httptest.NewRequest("POST", "/synthesize", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err = f.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 500 {
		t.Fatalf("all-disabled status = %d, want 500", resp.StatusCode)
	}
}
