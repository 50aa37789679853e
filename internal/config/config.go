// Package config loads the application configuration from a yaml file
// with GREENGUIDE_* environment overrides.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig      `mapstructure:"app"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	Model    ModelConfig    `mapstructure:"model"`
	Guidance GuidanceConfig `mapstructure:"guidance"`
	Mongo    MongoConfig    `mapstructure:"mongo"`
	Auth     AuthConfig     `mapstructure:"auth"`
}

type AppConfig struct {
	Name     string `mapstructure:"name"`
	Env      string `mapstructure:"env"`
	LogLevel string `mapstructure:"log_level"`
}

type HTTPConfig struct {
	Addr           string `mapstructure:"addr"`
	MaxUploadBytes int64  `mapstructure:"max_upload_bytes"`
}

type ModelConfig struct {
	Path         string `mapstructure:"path"`
	MetadataPath string `mapstructure:"metadata_path"`
}

type GuidanceConfig struct {
	StaticDir string `mapstructure:"static_dir"`
	FontPath  string `mapstructure:"font_path"`
}

type MongoConfig struct {
	URI      string `mapstructure:"uri"`
	Database string `mapstructure:"database"`
}

type AuthConfig struct {
	JWTSecret  string        `mapstructure:"jwt_secret"`
	SessionTTL time.Duration `mapstructure:"session_ttl"`
}

// Load reads the config file at path. An empty path falls back to
// defaults plus environment overrides, which is enough for development.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("GREENGUIDE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config failed: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config failed: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "greenguide")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.max_upload_bytes", 16<<20)
	v.SetDefault("model.path", "models/waste_model.onnx")
	v.SetDefault("model.metadata_path", "models/waste_model_metadata.json")
	v.SetDefault("guidance.static_dir", "static/guidance")
	v.SetDefault("guidance.font_path", "")
	v.SetDefault("mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("mongo.database", "greenguide")
	// Declared even though empty so the env override binds on Unmarshal.
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.session_ttl", 24*time.Hour)
}

func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app.name is required")
	}
	if c.HTTP.Addr == "" {
		return fmt.Errorf("http.addr is required")
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}
	if c.Mongo.URI == "" {
		return fmt.Errorf("mongo.uri is required")
	}
	return nil
}
