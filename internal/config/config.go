package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config 应用配置。凭据一律走环境变量覆盖，yaml 里只放非敏感项。
type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"server"`

	Analyzer struct {
		BaseURL string `yaml:"base_url"`
		Model   string `yaml:"model"`
		APIKey  string `yaml:"-"`
	} `yaml:"analyzer"`

	Azure struct {
		Key    string `yaml:"-"`
		Region string `yaml:"region"`
	} `yaml:"azure"`

	Google struct {
		APIKey string `yaml:"-"`
	} `yaml:"google"`

	OpenAI struct {
		APIKey string `yaml:"-"`
	} `yaml:"openai"`

	ElevenLabs struct {
		APIKey string `yaml:"-"`
	} `yaml:"elevenlabs"`

	Quota struct {
		MonthlyCap int    `yaml:"monthly_cap"`
		UsageFile  string `yaml:"usage_file"`
	} `yaml:"quota"`

	Synthesis struct {
		DialogueConcurrency int `yaml:"dialogue_concurrency"`
	} `yaml:"synthesis"`

	Audio struct {
		FFmpegBinary string  `yaml:"ffmpeg_binary"`
		MusicPath    string  `yaml:"music_path"`
		MusicGainDB  float64 `yaml:"music_gain_db"`
	} `yaml:"audio"`

	Storage struct {
		Dir string `yaml:"dir"`
	} `yaml:"storage"`
}

// DefaultConfig 返回带默认值的配置
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Server.Host = "0.0.0.0"
	cfg.Server.Port = 8000

	cfg.Analyzer.BaseURL = "https://openrouter.ai/api/v1"
	cfg.Analyzer.Model = "anthropic/claude-3.5-sonnet"

	cfg.Quota.MonthlyCap = 500000 // 50 万字符
	cfg.Quota.UsageFile = "tts_usage.json"

	cfg.Synthesis.DialogueConcurrency = 3

	cfg.Audio.MusicGainDB = -20

	cfg.Storage.Dir = "artifacts"

	return cfg
}

// Load 读取 yaml 配置（path 为空或文件不存在时用默认值），再套环境变量覆盖
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("config: %w", err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	setIfEnv(&c.Analyzer.APIKey, "OPENROUTER_API_KEY")
	setIfEnv(&c.Analyzer.BaseURL, "OPENROUTER_BASE_URL")
	setIfEnv(&c.Analyzer.Model, "ANALYZER_MODEL")
	setIfEnv(&c.Azure.Key, "AZURE_SPEECH_KEY")
	setIfEnv(&c.Azure.Region, "AZURE_SPEECH_REGION")
	setIfEnv(&c.Google.APIKey, "GOOGLE_TTS_API_KEY")
	setIfEnv(&c.OpenAI.APIKey, "OPENAI_API_KEY")
	setIfEnv(&c.ElevenLabs.APIKey, "ELEVENLABS_API_KEY")
	setIfEnv(&c.Audio.FFmpegBinary, "FFMPEG_BINARY")
	setIfEnv(&c.Storage.Dir, "STORAGE_DIR")
}

func setIfEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
