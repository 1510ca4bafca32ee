package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var ErrMissingSecret = errors.New("JWT_SECRET must be set in online mode")

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type Config struct {
	Env      string        `mapstructure:"app_env"` // local|production
	Mode     Mode          `mapstructure:"mode"`
	HTTPAddr string        `mapstructure:"http_addr"`
	Timeout  time.Duration `mapstructure:"http_request_timeout"`

	DBDriver string `mapstructure:"db_driver"`
	DBDSN    string `mapstructure:"db_dsn"`

	JWTSecret    string        `mapstructure:"jwt_secret"`
	JWTExpiresIn time.Duration `mapstructure:"jwt_expires_in"`

	AIProvider   string   `mapstructure:"ai_provider"` // gemini|openai
	GeminiAPIKey string   `mapstructure:"gemini_api_key"`
	OpenAIAPIKey string   `mapstructure:"openai_api_key"`
	AIModels     []string `mapstructure:"-"`

	CORSOrigins []string `mapstructure:"-"`
	StaticDir   string   `mapstructure:"static_dir"`

	DefaultAdminEmail    string `mapstructure:"default_admin_email"`
	DefaultAdminPassword string `mapstructure:"default_admin_password"`
}

// Load reads .env (if present), an optional config.yaml and the environment, in increasing
// order of precedence.
func Load() (Config, error) {
	_ = godotenv.Load() // missing .env is fine

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetDefault("app_env", "local")
	v.SetDefault("mode", string(ModeOffline))
	v.SetDefault("http_addr", ":5000")
	v.SetDefault("http_request_timeout", "120s")
	v.SetDefault("db_driver", "sqlite")
	v.SetDefault("db_dsn", "")
	v.SetDefault("jwt_secret", "")
	v.SetDefault("jwt_expires_in", "8h")
	v.SetDefault("ai_provider", "gemini")
	v.SetDefault("gemini_api_key", "")
	v.SetDefault("openai_api_key", "")
	v.SetDefault("ai_models", "")
	v.SetDefault("cors_origins", "http://localhost:3000,http://localhost:5000")
	v.SetDefault("static_dir", "")
	v.SetDefault("default_admin_email", "")
	v.SetDefault("default_admin_password", "")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv() // app_env <- APP_ENV, etc.

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("error loading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("error unmarshalling config: %w", err)
	}
	cfg.AIModels = csv(v.GetString("ai_models"))
	cfg.CORSOrigins = csv(v.GetString("cors_origins"))
	cfg.GeminiAPIKey = strings.TrimSpace(cfg.GeminiAPIKey)
	cfg.OpenAIAPIKey = strings.TrimSpace(cfg.OpenAIAPIKey)
	cfg.AIProvider = strings.ToLower(strings.TrimSpace(cfg.AIProvider))

	if cfg.JWTSecret == "" {
		if cfg.Mode == ModeOnline {
			return Config{}, ErrMissingSecret
		}
		cfg.JWTSecret = "supersecret-dev-key"
	}
	return cfg, nil
}

// APIKey returns the key for the selected provider.
func (c Config) APIKey() string {
	if c.AIProvider == "openai" {
		return c.OpenAIAPIKey
	}
	return c.GeminiAPIKey
}

func csv(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
