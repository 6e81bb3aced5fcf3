package appconfig

import (
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type AppConfig struct {
	Addr string `env:"ADDR" env-default:":8000"`

	SmallBlind         int `env:"SMALL_BLIND" env-default:"10"`
	BigBlind           int `env:"BIG_BLIND" env-default:"20"`
	StartingStack      int `env:"STARTING_STACK" env-default:"5000"`
	MaxRaisesPerStreet int `env:"MAX_RAISES_PER_STREET" env-default:"4"`

	DefaultEngine  string        `env:"DEFAULT_AI_ENGINE" env-default:"rule-based"`
	OllamaHost     string        `env:"OLLAMA_HOST" env-default:"http://localhost:11434"`
	OllamaModel    string        `env:"OLLAMA_MODEL" env-default:"qwen2.5:7b"`
	DashScopeURL   string        `env:"DASHSCOPE_BASE_URL" env-default:"https://dashscope.aliyuncs.com/compatible-mode/v1"`
	DashScopeKey   string        `env:"DASHSCOPE_API_KEY" env-default:""`
	DashScopeModel string        `env:"DASHSCOPE_MODEL" env-default:"qwen-plus"`
	LLMTimeout     time.Duration `env:"LLM_TIMEOUT" env-default:"15s"`

	ThinkDelayMin time.Duration `env:"THINK_DELAY_MIN" env-default:"500ms"`
	ThinkDelayMax time.Duration `env:"THINK_DELAY_MAX" env-default:"1200ms"`

	RandomSeed int64 `env:"RANDOM_SEED" env-default:"0"`
}

// Load environment variables to AppConfig instance
func LoadAppConfig() (*AppConfig, error) {
	cfg := &AppConfig{}
	err := cleanenv.ReadEnv(cfg)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}
