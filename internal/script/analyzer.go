package script

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/sirupsen/logrus"
)

const analyzerSystemPrompt = `You are an expert Audio Drama Director. Convert novel text into a structured JSON script. Output strictly a JSON object with a key "script" containing a list of segments.

Segment format:
{
    "type": "narration" | "dialogue",
    "text": "content without quotes (keep original language)",
    "character": "name or Narrator",
    "gender": "male" | "female",
    "emotion": "neutral" | "happy" | "sad" | "angry" | "fearful" | "surprised" | "whispering" | "shouting",
    "pacing": 1.0
}

Rules:
- Split long narration (>30 words) for better pacing.
- Infer speakers from context.
- IMPORTANT: Maintain the original language of the input text. Do NOT translate.
- In the "text" field, replace any internal double quotes with single quotes.
- CRITICAL: You must convert the ENTIRE text given. Do not summarize.
- Output strictly valid JSON.`

const analyzerMaxRetries = 2

// Analyzer 把原始小说文本交给大模型切分成结构化剧本
type Analyzer struct {
	runnable compose.Runnable[[]*schema.Message, *schema.Message]
}

// NewAnalyzer 创建分析器。模型通过 eino 的 ChatModel chain 调用。
func NewAnalyzer(ctx context.Context, baseURL, model, apiKey string) (*Analyzer, error) {
	if apiKey == "" {
		return nil, errors.New("analyzer: api key is required")
	}

	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL: baseURL,
		Model:   model,
		APIKey:  apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("analyzer: %w", err)
	}

	chain := compose.NewChain[[]*schema.Message, *schema.Message]()
	chain.AppendChatModel(chatModel, compose.WithNodeName("analyzer_model"))
	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("analyzer: %w", err)
	}

	return &Analyzer{runnable: runnable}, nil
}

type analyzerResult struct {
	Script []Segment `json:"script"`
}

// Analyze 分析文本并返回校验过的剧本。
// 模型输出不是合法 JSON 时重试，HTTP 层错误不重试直接上抛。
func (a *Analyzer) Analyze(ctx context.Context, text string) ([]Segment, error) {
	messages := []*schema.Message{
		{Role: schema.System, Content: analyzerSystemPrompt},
		{Role: schema.User, Content: text},
	}

	var lastErr error
	for attempt := 0; attempt <= analyzerMaxRetries; attempt++ {
		out, err := a.runnable.Invoke(ctx, messages)
		if err != nil {
			return nil, fmt.Errorf("analyzer: %w", err)
		}

		segments, err := parseScript(out.Content)
		if err != nil {
			lastErr = err
			logrus.Warnf("analyzer: attempt %d produced unparsable script: %v", attempt+1, err)
			continue
		}
		return segments, nil
	}
	return nil, fmt.Errorf("analyzer: failed to parse response after %d attempts: %w", analyzerMaxRetries+1, lastErr)
}

// parseScript 容忍模型输出里的 markdown 代码栅栏和前后杂音，
// 只取第一个 '{' 到最后一个 '}' 之间的内容。
func parseScript(content string) ([]Segment, error) {
	start := strings.IndexByte(content, '{')
	end := strings.LastIndexByte(content, '}')
	if start < 0 || end <= start {
		return nil, errors.New("no JSON object in response")
	}

	var result analyzerResult
	if err := json.Unmarshal([]byte(content[start:end+1]), &result); err != nil {
		return nil, err
	}
	if len(result.Script) == 0 {
		return nil, errors.New("response does not contain a script")
	}
	return ValidateScript(result.Script)
}
