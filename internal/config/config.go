package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/fx"

	"github.com/j0lvera/kickoff/internal/prompt"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"

	DenialSilent = "silent"
	DenialReply  = "reply"
)

// ErrInvalid marks configuration the process must not start with.
var ErrInvalid = errors.New("invalid configuration")

// Config holds all configuration from environment variables. It is read once
// at startup and never modified afterwards.
type Config struct {
	Token         string `envconfig:"TELEGRAM_TOKEN" required:"true"`
	AllowedUserID int64  `envconfig:"ALLOWED_USER_ID" required:"true"`

	Provider     string `envconfig:"AI_PROVIDER" default:"gemini"`
	GeminiAPIKey string `envconfig:"GEMINI_API_KEY"`
	GeminiModel  string `envconfig:"GEMINI_MODEL" default:"gemini-1.5-pro-latest"`
	APIKey       string `envconfig:"OPENROUTER_API_KEY"`
	BaseURL      string `envconfig:"OPENROUTER_BASE_URL" default:"https://openrouter.ai/api/v1"`
	Model        string `envconfig:"OPENROUTER_MODEL" default:"google/gemini-flash-1.5"`

	Temperature       float32       `envconfig:"TEMPERATURE" default:"0.7"`
	SystemInstruction string        `envconfig:"SYSTEM_INSTRUCTION" default:"You are an expert football analyst. Answer in Markdown."`
	GenerationTimeout time.Duration `envconfig:"GENERATION_TIMEOUT" default:"60s"`

	DenialPolicy string `envconfig:"DENIAL_POLICY" default:"silent"`

	HealthAddr    string `envconfig:"HEALTH_ADDR" default:"0.0.0.0:8080"`
	HealthMessage string `envconfig:"HEALTH_MESSAGE" default:"Bot is alive and running."`

	Debug bool `envconfig:"DEBUG" default:"false"`

	// Path to the TOML file with prompt overrides
	PromptsFile string `envconfig:"PROMPTS_FILE" default:"prompts.toml"`

	// Prompts loaded from PromptsFile, empty entries filled with defaults
	Prompts prompt.Templates `ignored:"true"`
}

// FileConfig represents the structure of the prompts file.
type FileConfig struct {
	Prompts prompt.Templates `toml:"prompts"`
}

// LoadEnv loads the configuration from environment variables.
func (c Config) LoadEnv() (Config, error) {
	cfg := c

	if err := envconfig.Process("", &cfg); err != nil {
		return c, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	return cfg, nil
}

// LoadFile loads prompt overrides. A missing file means defaults.
func (c *Config) LoadFile() error {
	configPath := c.PromptsFile
	if configPath != "" && !filepath.IsAbs(configPath) {
		// Try current directory first, then the executable directory
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			if execPath, err := os.Executable(); err == nil {
				configPath = filepath.Join(filepath.Dir(execPath), c.PromptsFile)
			}
		}
	}

	c.Prompts = prompt.DefaultTemplates
	if configPath == "" {
		return nil
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil
	}

	var fileConfig FileConfig
	if _, err := toml.DecodeFile(configPath, &fileConfig); err != nil {
		return fmt.Errorf("%w: prompts file %s: %v", ErrInvalid, configPath, err)
	}

	c.Prompts = fileConfig.Prompts.WithDefaults()
	return nil
}

// Validate checks cross-field rules envconfig tags cannot express.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Token) == "" {
		return fmt.Errorf("%w: TELEGRAM_TOKEN must not be empty", ErrInvalid)
	}
	if c.AllowedUserID == 0 {
		return fmt.Errorf("%w: ALLOWED_USER_ID must be a non-zero user id", ErrInvalid)
	}

	switch c.Provider {
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("%w: GEMINI_API_KEY is required for provider %q", ErrInvalid, c.Provider)
		}
	case ProviderOpenAI:
		if c.APIKey == "" {
			return fmt.Errorf("%w: OPENROUTER_API_KEY is required for provider %q", ErrInvalid, c.Provider)
		}
	default:
		return fmt.Errorf("%w: unknown AI_PROVIDER %q", ErrInvalid, c.Provider)
	}

	switch c.DenialPolicy {
	case DenialSilent, DenialReply:
	default:
		return fmt.Errorf("%w: unknown DENIAL_POLICY %q", ErrInvalid, c.DenialPolicy)
	}

	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("%w: TEMPERATURE must be between 0 and 2, got %v", ErrInvalid, c.Temperature)
	}

	if c.GenerationTimeout < 0 {
		return fmt.Errorf("%w: GENERATION_TIMEOUT must not be negative", ErrInvalid)
	}

	if err := c.Prompts.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	return nil
}

// ModelName returns the model of the selected provider.
func (c *Config) ModelName() string {
	if c.Provider == ProviderOpenAI {
		return c.Model
	}
	return c.GeminiModel
}

func NewConfig() (*Config, error) {
	var cfg Config
	loadedCfg, err := cfg.LoadEnv()
	if err != nil {
		return nil, err
	}

	if err := loadedCfg.LoadFile(); err != nil {
		return nil, err
	}

	if err := loadedCfg.Validate(); err != nil {
		return nil, err
	}

	return &loadedCfg, nil
}

func Module() fx.Option {
	return fx.Module(
		"config",
		fx.Provide(
			NewConfig,
		),
	)
}
