package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Addr string `env:"ADDR" envDefault:":8080"`
	// ContentURL points at the generative content service; empty means
	// static built-in content only.
	ContentURL     string        `env:"CONTENT_URL"`
	ContentTimeout time.Duration `env:"CONTENT_TIMEOUT" envDefault:"3s"`
	Debug          bool          `env:"DEBUG" envDefault:"false"`
}

func Load() (Config, error) {
	// A missing .env file is not an error; the environment wins anyway.
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
