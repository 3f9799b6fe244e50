package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/danielledeleo/addinterwiki/internal/logger"
	"github.com/danielledeleo/addinterwiki/interwiki"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DefaultFilename is the config file read when no path is given.
const DefaultFilename = "config.yaml"

const envPrefix = "ADDINTERWIKI"

// Load reads the configuration at path, writing a file with the defaults
// when it does not exist yet, and initializes the logger from it.
func Load(path string) (*interwiki.Config, error) {
	if path == "" {
		path = DefaultFilename
	}

	v := viper.New()
	v.SetDefault("db_driver", "sqlite")
	v.SetDefault("dsn", "wiki.db")
	v.SetDefault("interwiki_cache", "false")
	v.SetDefault("conflict_policy", string(interwiki.DefaultConflictPolicy))
	v.SetDefault("log_format", "pretty") // pretty, json, or text
	v.SetDefault("log_level", "info")    // debug, info, warn, error

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigFile(path)
	createDefaultConfigFile := false
	if err := v.ReadInConfig(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		createDefaultConfigFile = true
	}

	logger.Init(v.GetString("log_format"), v.GetString("log_level"))

	config := &interwiki.Config{
		Driver:         v.GetString("db_driver"),
		DSN:            v.GetString("dsn"),
		InterwikiCache: v.GetString("interwiki_cache"),
		ConflictPolicy: v.GetString("conflict_policy"),
		LogFormat:      v.GetString("log_format"),
		LogLevel:       v.GetString("log_level"),
	}

	if createDefaultConfigFile {
		slog.Info("config not found, writing defaults", "file", path)
		if err := writeConfig(path, config); err != nil {
			return nil, err
		}
	}

	return config, nil
}

func writeConfig(path string, config *interwiki.Config) error {
	conf, err := os.Create(path)
	if err != nil {
		return err
	}
	defer conf.Close()

	return yaml.NewEncoder(conf).Encode(config)
}
