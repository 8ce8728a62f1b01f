package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	CORS     CORSConfig    `mapstructure:"cors"`
	Catalog  CatalogConfig `mapstructure:"catalog"`
	Pass     PassConfig    `mapstructure:"pass"`
	Upload   UploadConfig  `mapstructure:"upload"`
}

type ServerConfig struct {
	Port string
	Mode string
}

type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
}

type RedisConfig struct {
	Addr string
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type CatalogConfig struct {
	PageSize int `mapstructure:"page_size"`
}

// PassConfig is the pass/fail policy handed to the session scorer. Mode is
// either "percent" (threshold is a percentage, e.g. 80) or "count"
// (threshold is an absolute number of correct answers, e.g. 21).
type PassConfig struct {
	Mode      string  `mapstructure:"mode"`
	Threshold float64 `mapstructure:"threshold"`
}

type UploadConfig struct {
	MaxImageBytes int64 `mapstructure:"max_image_bytes"`
}

func LoadConfig(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("QUIZBANK")
	viper.AutomaticEnv()

	viper.SetDefault("server.port", ":8080")
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("database.driver", "postgres")
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "quizbank")
	viper.SetDefault("database.dbname", "quizbank")
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("cors.allowed_origins", []string{"http://localhost:3000"})
	viper.SetDefault("catalog.page_size", 10)
	viper.SetDefault("pass.mode", "percent")
	viper.SetDefault("pass.threshold", 80)
	viper.SetDefault("upload.max_image_bytes", 5<<20)

	viper.BindEnv("database.driver", "DB_DRIVER")
	viper.BindEnv("database.host", "DB_HOST")
	viper.BindEnv("database.port", "DB_PORT")
	viper.BindEnv("database.user", "DB_USER")
	viper.BindEnv("database.password", "DB_PASSWORD")
	viper.BindEnv("database.dbname", "DB_NAME")
	viper.BindEnv("redis.addr", "REDIS_ADDR")
	viper.BindEnv("server.port", "SERVER_PORT")
	viper.BindEnv("server.mode", "SERVER_MODE")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		// No config.yaml is fine, env and defaults cover everything.
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	switch cfg.Pass.Mode {
	case "percent", "count":
	default:
		return nil, fmt.Errorf("invalid pass.mode %q (want percent or count)", cfg.Pass.Mode)
	}

	return &cfg, nil
}
