package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. BIDENGINE_FINANCIAL_TARGET_MARGIN
const EnvPrefix = "BIDENGINE"

// ConfigName is the file looked up in the working directory when no path is given
const ConfigName = "bidengine"

// Store backends
const (
	StoreMemory = "memory"
	StoreJSON   = "json"
	StoreSQLite = "sqlite"
)

// Runtime holds process settings that are not engine tunables
type Runtime struct {
	DataDir   string       `mapstructure:"data_dir"`
	Store     string       `mapstructure:"store" validate:"oneof=memory json sqlite"`
	StorePath string       `mapstructure:"store_path"`
	RedisURL  string       `mapstructure:"redis_url"`
	Workers   int          `mapstructure:"workers" validate:"gte=1,lte=64"`
	Server    ServerConfig `mapstructure:"server"`
}

// ServerConfig holds the HTTP service settings
type ServerConfig struct {
	Addr              string `mapstructure:"addr" validate:"required"`
	RerankSchedule    string `mapstructure:"rerank_schedule"`
	RequestsPerMinute int    `mapstructure:"requests_per_minute" validate:"gte=0"`
	Burst             int    `mapstructure:"burst" validate:"gte=0"`
}

// DefaultRuntime returns the settings used when nothing is configured
func DefaultRuntime() Runtime {
	return Runtime{
		Store:   StoreJSON,
		Workers: 4,
		Server: ServerConfig{
			Addr:              ":8080",
			RerankSchedule:    "0 2 * * *",
			RequestsPerMinute: 120,
			Burst:             20,
		},
	}
}

// Validate checks the runtime settings
func (r Runtime) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("invalid runtime config: %w", err)
	}
	return nil
}

// ResolvedStorePath returns the store path, defaulting per backend
func (r Runtime) ResolvedStorePath() string {
	if r.StorePath != "" {
		return r.StorePath
	}
	switch r.Store {
	case StoreJSON:
		return "bidengine-rfps.json"
	case StoreSQLite:
		return "bidengine.db"
	default:
		return ""
	}
}

// NewViper returns a viper instance with every default registered and
// environment overrides enabled
func NewViper() (*viper.Viper, error) {
	v := viper.New()

	engine, err := Default().Flatten()
	if err != nil {
		return nil, err
	}
	var nested map[string]any
	if err := mapstructure.Decode(DefaultRuntime(), &nested); err != nil {
		return nil, fmt.Errorf("failed to decode runtime config: %w", err)
	}
	runtime := make(map[string]any)
	flattenInto(runtime, "", nested)

	for _, flat := range []map[string]any{engine, runtime} {
		for key, value := range flat {
			// maps get one default per entry so a file can override single entries
			if m, ok := value.(map[string]float64); ok {
				for k, f := range m {
					v.SetDefault(key+"."+k, f)
				}
				continue
			}
			v.SetDefault(key, value)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v, nil
}

// ReadFile reads the config file at path, or bidengine.yaml from the working
// directory when path is empty. A missing default file is not an error.
func ReadFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config %s: %w", path, err)
		}
		return nil
	}

	v.AddConfigPath(".")
	v.SetConfigName(ConfigName)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

// Load decodes and validates the engine and runtime settings
func Load(v *viper.Viper) (Config, Runtime, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, Runtime{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, Runtime{}, err
	}

	var rt Runtime
	if err := v.Unmarshal(&rt); err != nil {
		return Config{}, Runtime{}, fmt.Errorf("failed to decode runtime config: %w", err)
	}
	if err := rt.Validate(); err != nil {
		return Config{}, Runtime{}, err
	}
	return cfg, rt, nil
}
