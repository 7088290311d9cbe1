package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DefaultPath returns the default config file path.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "trovectl", "config.yml")
}

// Load reads the config from disk (or env). Returns a defaults-only config
// if no file exists yet.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("api.base_url", "https://api.trove.dev")
	v.SetDefault("api.token_env", "TROVE_TOKEN")
	v.SetDefault("defaults.kind", "")
	v.SetDefault("defaults.hidden", false)

	v.SetEnvPrefix("TROVECTL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	configPath := os.Getenv("TROVECTL_CONFIG")
	if configPath == "" {
		configPath = DefaultPath()
	}
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine — defaults plus env carry a
		// fresh install.
		if !os.IsNotExist(err) {
			if _, isCfgNotFound := err.(viper.ConfigFileNotFoundError); !isCfgNotFound {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	// Resolve token from env (never stored in file).
	tokenEnv := cfg.API.TokenEnv
	if tokenEnv == "" {
		tokenEnv = "TROVE_TOKEN"
	}
	cfg.API.Token = os.Getenv(tokenEnv)
	if cfg.API.Token == "" {
		cfg.API.Token = os.Getenv("TROVECTL_TOKEN")
	}

	return &cfg, nil
}

// Save writes the config to the default path.
func Save(cfg *Config) error {
	path := DefaultPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	return enc.Encode(cfg)
}
