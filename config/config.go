package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

type Config struct {
	Mode     string `mapstructure:"mode"`
	Handlers struct {
		Prometheus struct {
			Port string `mapstructure:"port"`
		} `mapstructure:"prometheus"`
	} `mapstructure:"handlers"`
	Repositories struct {
		Postgres struct {
			Host     string `mapstructure:"host"`
			Password string `mapstructure:"password"`
			Port     string `mapstructure:"port"`
			Username string `mapstructure:"username"`
			DB       string `mapstructure:"db"`
			SSLMode  string `mapstructure:"sslmode"`
		} `mapstructure:"postgres"`
	} `mapstructure:"repositories"`
	Server struct {
		HTTPPort string        `mapstructure:"HTTPPort"`
		Timeout  time.Duration `mapstructure:"HTTPTimeout"`
	} `mapstructure:"server"`
	Recommendation struct {
		Model             string        `mapstructure:"model"`
		GenerationTimeout time.Duration `mapstructure:"generationTimeout"`
		RerankTimeout     time.Duration `mapstructure:"rerankTimeout"`
		RerankTopN        int           `mapstructure:"rerankTopN"`
		ActivityCacheTTL  time.Duration `mapstructure:"activityCacheTTL"`
		RecCacheTTL       time.Duration `mapstructure:"recommendationCacheTTL"`
	} `mapstructure:"recommendation"`
	Geocoder struct {
		BaseURL string `mapstructure:"baseURL"`
	} `mapstructure:"geocoder"`
}

// InitConfig loads configuration from a config.yml on disk, falling back to
// the embedded defaults.
func InitConfig() (Config, error) {
	var config Config
	v := viper.New()

	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	if err := v.ReadInConfig(); err != nil {
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %w", err)
		}
	}

	if err := v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return config, nil
}
