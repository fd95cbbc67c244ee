// Package config provides Viper-based configuration loading for the damage calculator server.
package config

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// HTTPConfig holds HTTP listener settings.
type HTTPConfig struct {
	// Host is the bind address for the HTTP listener.
	Host string `mapstructure:"host"`
	// Port is the TCP port for the HTTP listener.
	Port int `mapstructure:"port"`
	// ReadTimeout bounds reading an entire request.
	ReadTimeout time.Duration `mapstructure:"read_timeout"`
	// WriteTimeout bounds writing a response.
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Addr returns the "host:port" listen address.
//
// Postcondition: Returns a non-empty string in "host:port" format.
func (h HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", h.Host, h.Port)
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// Lookup source kinds.
const (
	SourcePokeAPI = "pokeapi"
	SourceFile    = "file"
)

// LookupConfig selects where creature and move records come from.
type LookupConfig struct {
	// Source is "pokeapi" or "file".
	Source string `mapstructure:"source"`
	// BaseURL is the PokeAPI root used when Source is "pokeapi".
	BaseURL string `mapstructure:"base_url"`
	// Timeout bounds a single PokeAPI request.
	Timeout time.Duration `mapstructure:"timeout"`
	// DexDir holds creatures.json and moves.json when Source is "file".
	DexDir string `mapstructure:"dex_dir"`
	// Cache wraps the source in a memoizing cache.
	Cache bool `mapstructure:"cache"`
}

// ContentConfig locates the data files that extend the built-in tables.
type ContentConfig struct {
	// ModifiersFile is an optional YAML item/ability catalog.
	ModifiersFile string `mapstructure:"modifiers_file"`
	// PowerRulesFile is an optional YAML list of move power rules.
	PowerRulesFile string `mapstructure:"power_rules_file"`
	// ScriptsDir is an optional directory of Lua power hooks.
	ScriptsDir string `mapstructure:"scripts_dir"`
	// ScriptInstructionLimit bounds each Lua hook call.
	ScriptInstructionLimit int `mapstructure:"script_instruction_limit"`
}

// CalcConfig holds damage calculation settings.
type CalcConfig struct {
	// SupportedLevels lists the battle levels the engine accepts.
	SupportedLevels []int `mapstructure:"supported_levels"`
	// DefaultLevel is the level new sessions start at.
	DefaultLevel int `mapstructure:"default_level"`
	// Boss names the default defender for new sessions.
	Boss string `mapstructure:"boss"`
	// FullHPHalving enables the defender's full-HP damage halving.
	FullHPHalving bool `mapstructure:"full_hp_halving"`
	// DefaultFriendship is the friendship new sessions start with.
	DefaultFriendship int `mapstructure:"default_friendship"`
}

// Config is the top-level application configuration.
type Config struct {
	HTTP    HTTPConfig    `mapstructure:"http"`
	Logging LoggingConfig `mapstructure:"logging"`
	Lookup  LookupConfig  `mapstructure:"lookup"`
	Content ContentConfig `mapstructure:"content"`
	Calc    CalcConfig    `mapstructure:"calc"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateHTTP(c.HTTP); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateLookup(c.Lookup); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateContent(c.Content); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateCalc(c.Calc); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateHTTP(h HTTPConfig) error {
	var errs []string
	if h.Port < 1 || h.Port > 65535 {
		errs = append(errs, fmt.Sprintf("http.port must be 1-65535, got %d", h.Port))
	}
	if h.ReadTimeout < 0 {
		errs = append(errs, "http.read_timeout must not be negative")
	}
	if h.WriteTimeout < 0 {
		errs = append(errs, "http.write_timeout must not be negative")
	}
	if h.ShutdownTimeout < 0 {
		errs = append(errs, "http.shutdown_timeout must not be negative")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateLookup(l LookupConfig) error {
	var errs []string
	switch l.Source {
	case SourcePokeAPI:
		if l.BaseURL == "" {
			errs = append(errs, "lookup.base_url must not be empty when lookup.source is pokeapi")
		}
		if l.Timeout <= 0 {
			errs = append(errs, fmt.Sprintf("lookup.timeout must be positive, got %s", l.Timeout))
		}
	case SourceFile:
		if l.DexDir == "" {
			errs = append(errs, "lookup.dex_dir must not be empty when lookup.source is file")
		}
	default:
		errs = append(errs, fmt.Sprintf("lookup.source must be one of [pokeapi, file], got %q", l.Source))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateContent(c ContentConfig) error {
	if c.ScriptsDir != "" && c.ScriptInstructionLimit < 0 {
		return fmt.Errorf("content.script_instruction_limit must be >= 0, got %d", c.ScriptInstructionLimit)
	}
	return nil
}

func validateCalc(c CalcConfig) error {
	var errs []string
	if len(c.SupportedLevels) == 0 {
		errs = append(errs, "calc.supported_levels must not be empty")
	}
	for _, lvl := range c.SupportedLevels {
		if lvl < 1 || lvl > 100 {
			errs = append(errs, fmt.Sprintf("calc.supported_levels entries must be 1-100, got %d", lvl))
		}
	}
	if !slices.Contains(c.SupportedLevels, c.DefaultLevel) {
		errs = append(errs, fmt.Sprintf("calc.default_level %d must be one of calc.supported_levels %v", c.DefaultLevel, c.SupportedLevels))
	}
	if c.Boss == "" {
		errs = append(errs, "calc.boss must not be empty")
	}
	if c.DefaultFriendship < 0 || c.DefaultFriendship > 255 {
		errs = append(errs, fmt.Sprintf("calc.default_friendship must be 0-255, got %d", c.DefaultFriendship))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with CALC_ prefix
	v.SetEnvPrefix("CALC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Defaults returns a Viper instance holding only the built-in defaults.
//
// Postcondition: LoadFromViper(Defaults()) succeeds.
func Defaults() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.host", "0.0.0.0")
	v.SetDefault("http.port", 8080)
	v.SetDefault("http.read_timeout", "10s")
	v.SetDefault("http.write_timeout", "30s")
	v.SetDefault("http.shutdown_timeout", "10s")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("lookup.source", SourcePokeAPI)
	v.SetDefault("lookup.base_url", "https://pokeapi.co/api/v2")
	v.SetDefault("lookup.timeout", "10s")
	v.SetDefault("lookup.cache", true)

	v.SetDefault("content.script_instruction_limit", 100000)

	v.SetDefault("calc.supported_levels", []int{50, 100})
	v.SetDefault("calc.default_level", 100)
	v.SetDefault("calc.boss", "mewtwo")
	v.SetDefault("calc.full_hp_halving", true)
	v.SetDefault("calc.default_friendship", 255)
}
