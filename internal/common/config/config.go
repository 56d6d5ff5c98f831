package config

import (
	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Debug bool `env:"DEBUG" envDefault:"false"`

	Server struct {
		Port   int    `env:"PORT" envDefault:"8080"`
		Origin string `env:"ORIGIN" envDefault:"http://localhost:3000"`
	}

	Redis struct {
		Host     string `env:"REDIS_HOST" envDefault:"localhost"`
		Port     int    `env:"REDIS_PORT" envDefault:"6379"`
		Password string `env:"REDIS_PASSWORD" envDefault:""`
		DB       int    `env:"REDIS_DB" envDefault:"0"`
	}

	Twilio struct {
		AccountSID string `env:"TWILIO_ACCOUNT_SID,required"`
		AuthToken  string `env:"TWILIO_AUTH_TOKEN,required"`

		// Outbound messages per second allowed against the Twilio API.
		SendRate float64 `env:"TWILIO_SEND_RATE" envDefault:"1"`
	}

	Snowman struct {
		// The number participants text and that outbound SMS come from.
		ServicePhone string `env:"SNOWMAN_PHONE_NUMBER,required"`

		// The only number allowed to run bulk commands.
		AdminPhone string `env:"ADMIN_PHONE_NUMBER,required"`

		// Cap on shuffle attempts before an assignment run is declared
		// infeasible.
		MaxShuffleAttempts int `env:"MAX_SHUFFLE_ATTEMPTS" envDefault:"10000"`
	}
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		// Missing .env is fine, variables may be set directly in the
		// environment.
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		panic(err)
	}

	return cfg
}
