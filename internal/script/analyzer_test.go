package script

import "testing"

func TestParseScript(t *testing.T) {
	raw := "```json\n" + `{
  "script": [
    {"type": "narration", "text": "It was raining.", "character": "Narrator", "gender": "male"},
    {"type": "dialogue", "text": "Hello!", "character": "Mara", "gender": "female", "emotion": "happy"}
  ]
}` + "\n```\nHope this helps!"

	segments, err := parseScript(raw)
	if err != nil {
		t.Fatalf("parseScript failed: %v", err)
	}
	if len(segments) != 2 {
		t.Fatalf("got %d segments, want 2", len(segments))
	}
	if segments[0].Type != Narration || segments[1].Character != "Mara" {
		t.Fatalf("unexpected segments: %+v", segments)
	}
	// 解析后已做默认值填充
	if segments[0].Pacing != 1.0 || segments[0].Emotion != "neutral" {
		t.Fatalf("defaults not applied: %+v", segments[0])
	}
}

func TestParseScriptErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"no json", "sorry, I cannot do that"},
		{"empty script", `{"script": []}`},
		{"broken json", `{"script": [{"type":`},
		{"invalid segment", `{"script": [{"type": "dialogue", "text": ""}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseScript(tt.raw); err == nil {
				t.Fatalf("expected error for %q", tt.raw)
			}
		})
	}
}
