package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"

	"github.com/rocketscienceinc/connectfour-backend/internal/apperror"
)

const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
)

type Config struct {
	LogLevel string  `yaml:"log-level" env:"LOG_LEVEL" env-default:"info" validate:"oneof=debug info warn error"`
	Storage  string  `yaml:"storage" env:"STORAGE" env-default:"memory" validate:"oneof=memory redis"`
	Redis    Redis   `yaml:"redis"`
	Board    Board   `yaml:"board"`
	Players  Players `yaml:"players"`
}

type Redis struct {
	Host string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

type Board struct {
	Height int `yaml:"height" env:"BOARD_HEIGHT" env-default:"6" validate:"gte=1"`
	Width  int `yaml:"width" env:"BOARD_WIDTH" env-default:"7" validate:"gte=1"`
}

type Players struct {
	OneColor string `yaml:"one-color" env:"PLAYER_ONE_COLOR" env-default:"red" validate:"required"`
	TwoColor string `yaml:"two-color" env:"PLAYER_TWO_COLOR" env-default:"yellow" validate:"required,nefield=OneColor"`
}

var validate = validator.New()

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

// Load - reads the yaml file at path, or only the environment when the file does not exist.
func Load(path string) (*Config, error) {
	config := &Config{}

	_, err := os.Stat(path)
	switch {
	case err == nil:
		if err = cleanenv.ReadConfig(path, config); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
		if err = cleanenv.ReadEnv(config); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	default:
		return nil, fmt.Errorf("failed to stat config %s: %w", path, err)
	}

	if err = config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (that *Config) Validate() error {
	if err := validate.Struct(that); err != nil {
		return fmt.Errorf("%w: %w", apperror.ErrConfiguration, err)
	}

	return nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
