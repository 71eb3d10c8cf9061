package config

import (
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	RestPort    string `yaml:"REST_PORT"    env:"REST_PORT"    env-default:"8080"`
	LogLevel    string `yaml:"LOG_LEVEL"    env:"LOG_LEVEL"    env-default:"debug"`
	StoragePath string `yaml:"STORAGE_PATH" env:"STORAGE_PATH" env-default:"pollroom.json"`
}

func New() (*Config, error) {
	// a missing .env is fine, the environment alone is enough
	_ = godotenv.Load()

	var config Config
	if err := cleanenv.ReadEnv(&config); err != nil {
		return nil, err
	}
	return &config, nil
}
