package config

// Config is the top-level trovectl configuration.
type Config struct {
	API      APIConfig      `mapstructure:"api"`
	Defaults DefaultsConfig `mapstructure:"defaults"`
}

// APIConfig holds Trove platform connection settings.
type APIConfig struct {
	BaseURL  string `mapstructure:"base_url"`
	TokenEnv string `mapstructure:"token_env"`
	Token    string `mapstructure:"-"` // resolved at runtime, never written
}

// DefaultsConfig holds default values for ingestion.
type DefaultsConfig struct {
	Kind   string `mapstructure:"kind"`   // default media kind for URL adds
	Hidden bool   `mapstructure:"hidden"` // default visibility for new profiles
}
