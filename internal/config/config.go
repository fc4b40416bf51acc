package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Port string     `mapstructure:"port"`
	DB   DBConfig   `mapstructure:"db"`
	Log  LogConfig  `mapstructure:"log"`
	Auth AuthConfig `mapstructure:"auth"`
	Blog BlogConfig `mapstructure:"blog"`
	CORS CORSConfig `mapstructure:"cors"`
}

type DBConfig struct {
	Path string `mapstructure:"path"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type AuthConfig struct {
	SigningKey string        `mapstructure:"signing_key"`
	TokenTTL   time.Duration `mapstructure:"token_ttl"`
	LoginURL   string        `mapstructure:"login_url"`
}

type BlogConfig struct {
	PageSize int `mapstructure:"page_size"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

const envPrefix = "BLOG"

var (
	errEmptySigningKey = errors.New("auth.signing_key must not be empty")
	errBadPageSize     = errors.New("blog.page_size must be positive")
	errBadLoginURL     = errors.New("auth.login_url must be an absolute path")
	errBadOrigin       = errors.New("cors.allowed_origins entries must be \"*\" or start with http:// or https://")
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("db.path", "blog.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("auth.signing_key", "")
	v.SetDefault("auth.token_ttl", time.Hour)
	v.SetDefault("auth.login_url", "/login/")
	v.SetDefault("blog.page_size", 5)
	v.SetDefault("cors.allowed_origins", []string{})
}

// Load reads dir/config.yml (optional), then .env (optional), then BLOG_*
// environment variables, later sources winning.
func Load(dir string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.AddConfigPath(dir)
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Auth.SigningKey) == "" {
		return errEmptySigningKey
	}
	if c.Blog.PageSize <= 0 {
		return errBadPageSize
	}
	if !strings.HasPrefix(c.Auth.LoginURL, "/") {
		return errBadLoginURL
	}
	for _, o := range c.CORS.AllowedOrigins {
		if o != "*" && !strings.HasPrefix(o, "http://") && !strings.HasPrefix(o, "https://") {
			return fmt.Errorf("%w: %q", errBadOrigin, o)
		}
	}
	return nil
}
