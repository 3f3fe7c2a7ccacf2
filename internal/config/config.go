package config

import (
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	AppPort                  int    `mapstructure:"APP_PORT"`
	DatabasePath             string `mapstructure:"DATABASE_PATH"`
	RedisAddr                string `mapstructure:"REDIS_ADDR"`
	CacheBackend             string `mapstructure:"CACHE_BACKEND"`
	JWTSecret                string `mapstructure:"JWT_SECRET"`
	OllamaURL                string `mapstructure:"OLLAMA_URL"`
	GenerationModel          string `mapstructure:"GENERATION_MODEL"`
	MigrationCollisionPolicy string `mapstructure:"MIGRATION_COLLISION_POLICY"`
	LogLevel                 string `mapstructure:"LOG_LEVEL"`
}

func LoadConfig() (*Config, error) {
	viper.SetDefault("APP_PORT", 8000)
	viper.SetDefault("DATABASE_PATH", "/data/inkflow.db")
	viper.SetDefault("REDIS_ADDR", "redis:6379")
	// The prompt cache is stored in SQLite by default; set to "redis" to keep
	// it in Redis instead.
	viper.SetDefault("CACHE_BACKEND", "sqlite")
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("OLLAMA_URL", "http://ollama:11434")
	viper.SetDefault("GENERATION_MODEL", "llama3.1:8b")
	// "rename" gives a migrated conversation a fresh id when the target user
	// already owns one with the same id; "merge" appends into the existing one.
	viper.SetDefault("MIGRATION_COLLISION_POLICY", "rename")
	viper.SetDefault("LOG_LEVEL", "INFO")

	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./backend")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
