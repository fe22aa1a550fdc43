package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel   string        `yaml:"log-level"   env:"LOG_LEVEL"   env-default:"info"`
	HTTPPort   string        `yaml:"http-port"   env:"HTTP_PORT"   env-default:"9090"`
	SocketPort string        `yaml:"socket-port" env:"SOCKET_PORT" env-default:"7777"`
	SessionTTL time.Duration `yaml:"session-ttl" env:"SESSION_TTL" env-default:"24h"`
	Redis      Redis         `yaml:"redis"`
	AI         AI            `yaml:"ai"`
}

type Redis struct {
	Host     string `yaml:"host"     env:"REDIS_HOST"     env-default:"localhost"`
	Port     string `yaml:"port"     env:"REDIS_PORT"     env-default:"6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD" env-default:""`
	DB       int    `yaml:"db"       env:"REDIS_DB"       env-default:"0"`
}

// AI configures the bot and the self-play runner.
type AI struct {
	Strategy  string        `yaml:"strategy"   env:"AI_STRATEGY"   env-default:"minimax"`
	XStrategy string        `yaml:"x-strategy" env:"AI_X_STRATEGY" env-default:"minimax"`
	OStrategy string        `yaml:"o-strategy" env:"AI_O_STRATEGY" env-default:"minimax"`
	MoveDelay time.Duration `yaml:"move-delay" env:"AI_MOVE_DELAY" env-default:"300ms"`
	// Seed of the random strategy; 0 means a fresh seed every run.
	Seed uint64 `yaml:"seed" env:"AI_SEED" env-default:"0"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

// Load reads path and applies environment overrides on top of it.
func Load(path string) (*Config, error) {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	return config, nil
}

func (that *Redis) GetRedisAddr() string {
	if that.Host == "" || that.Port == "" {
		return ""
	}

	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
