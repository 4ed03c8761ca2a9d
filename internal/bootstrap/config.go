package bootstrap

import (
	"errors"
	"io/fs"

	"github.com/spf13/viper"
)

type Config struct {
	ServerPort      string `mapstructure:"SERVER_PORT"`
	EngineLevel     int    `mapstructure:"ENGINE_LEVEL"`
	HashMegabytes   int    `mapstructure:"HASH_MEGABYTES"`
	SolverURL       string `mapstructure:"SOLVER_URL"`
	SolverTimeoutMs int    `mapstructure:"SOLVER_TIMEOUT_MS"`
	IsLocalCors     bool   `mapstructure:"LOCAL_CORS"`
}

func Setup(cfgPath string) (*Config, error) {
	viper.SetConfigFile(cfgPath)
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("ENGINE_LEVEL", 3)
	viper.SetDefault("HASH_MEGABYTES", 16)
	viper.SetDefault("SOLVER_TIMEOUT_MS", 3000)

	err := viper.ReadInConfig()
	if err != nil {
		// the config file is optional, defaults remain in force
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	var cfg Config

	err = viper.Unmarshal(&cfg)
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}
