// Package config loads the dice service configuration with Viper: defaults,
// then an optional YAML file, then DICE_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/lost-woods/dice/src/dice"
	"github.com/lost-woods/dice/src/logging"
	"github.com/lost-woods/dice/src/rng"
)

const (
	ModeServe = "serve"
	ModeDemo  = "demo"
)

type ServerConfig struct {
	Port   int    `mapstructure:"port"`
	APIKey string `mapstructure:"api_key"`
	// Mode is "serve" (HTTP API) or "demo" (load, roll 3 times, save, show 10).
	Mode string `mapstructure:"mode"`
}

type RNGConfig struct {
	// Source is "pseudo", "crypto" or "serial".
	Source string `mapstructure:"source"`
	// Seed fixes the pseudo source; 0 seeds from crypto/rand.
	Seed           int64         `mapstructure:"seed"`
	HealthInterval time.Duration `mapstructure:"health_interval"`
}

type SerialConfig struct {
	Device      string        `mapstructure:"device"`
	Baud        int           `mapstructure:"baud"`
	ReadTimeout time.Duration `mapstructure:"read_timeout"`
}

type HistoryConfig struct {
	Capacity int `mapstructure:"capacity"`
	// Dir holds the {name}.bin files.
	Dir string `mapstructure:"dir"`
}

type DiceConfig struct {
	// Initial lists die specs accepted by dice.Parse, e.g. "d6" or "6:0.1,0.8,0.1,0,0,0".
	Initial []string `mapstructure:"initial"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type MetricsConfig struct {
	// StatsdAddr is the DogStatsD agent; empty disables metrics.
	StatsdAddr string `mapstructure:"statsd_addr"`
	Namespace  string `mapstructure:"namespace"`
}

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	RNG     RNGConfig     `mapstructure:"rng"`
	Serial  SerialConfig  `mapstructure:"serial"`
	History HistoryConfig `mapstructure:"history"`
	Dice    DiceConfig    `mapstructure:"dice"`
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// MaxInitialDice bounds dice.initial the same way the roller bounds its collection.
const MaxInitialDice = 5

// Validate reports every violation at once.
func (c Config) Validate() error {
	var errs []string

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Server.Mode != ModeServe && c.Server.Mode != ModeDemo {
		errs = append(errs, fmt.Sprintf("server.mode must be one of [serve, demo], got %q", c.Server.Mode))
	}

	switch rng.Kind(c.RNG.Source) {
	case rng.KindPseudo, rng.KindCrypto:
	case rng.KindSerial:
		if c.Serial.Device == "" {
			errs = append(errs, "serial.device must not be empty when rng.source is serial")
		}
		if c.Serial.Baud <= 0 {
			errs = append(errs, fmt.Sprintf("serial.baud must be positive, got %d", c.Serial.Baud))
		}
		if c.Serial.ReadTimeout < 0 {
			errs = append(errs, "serial.read_timeout must not be negative")
		}
	default:
		errs = append(errs, fmt.Sprintf("rng.source must be one of [pseudo, crypto, serial], got %q", c.RNG.Source))
	}
	if c.RNG.HealthInterval <= 0 {
		errs = append(errs, "rng.health_interval must be positive")
	}

	if c.History.Capacity < 1 {
		errs = append(errs, fmt.Sprintf("history.capacity must be >= 1, got %d", c.History.Capacity))
	}
	if c.History.Dir == "" {
		errs = append(errs, "history.dir must not be empty")
	}

	if len(c.Dice.Initial) > MaxInitialDice {
		errs = append(errs, fmt.Sprintf("dice.initial holds at most %d dice, got %d", MaxInitialDice, len(c.Dice.Initial)))
	}
	for _, spec := range c.Dice.Initial {
		if _, err := dice.Parse(spec); err != nil {
			errs = append(errs, fmt.Sprintf("dice.initial: %v", err))
		}
	}

	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
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

// Load applies defaults, the YAML file at path (skipped when empty) and
// DICE_ environment overrides, then validates.
func Load(path string) (Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	}

	v.SetEnvPrefix("DICE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
func LoadFromViper(v *viper.Viper) (Config, error) {
	if v == nil {
		return Config{}, errors.New("nil viper instance")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	// Weighted specs contain commas, so split env strings on whitespace only.
	cfg.Dice.Initial = v.GetStringSlice("dice.initial")

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Defaults returns a Viper instance holding only the defaults.
func Defaults() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.api_key", "")
	v.SetDefault("server.mode", ModeServe)

	v.SetDefault("rng.source", string(rng.KindPseudo))
	v.SetDefault("rng.seed", 0)
	v.SetDefault("rng.health_interval", "10s")

	v.SetDefault("serial.device", "")
	v.SetDefault("serial.baud", 115200)
	v.SetDefault("serial.read_timeout", "1s")

	v.SetDefault("history.capacity", 100)
	v.SetDefault("history.dir", ".")

	v.SetDefault("dice.initial", []string{})

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("metrics.statsd_addr", "")
	v.SetDefault("metrics.namespace", "dice.")
}

// DemoDice is the collection demo mode rolls when dice.initial is empty.
var DemoDice = []string{"d6", "d20", "6:0.1,0.8,0.1,0,0,0", "d13", "d99"}

// RNGOptions translates the rng and serial sections.
func (c Config) RNGOptions() rng.Options {
	return rng.Options{
		Kind: rng.Kind(c.RNG.Source),
		Seed: c.RNG.Seed,
		Serial: rng.SerialConfig{
			Device:      c.Serial.Device,
			Baud:        c.Serial.Baud,
			ReadTimeout: c.Serial.ReadTimeout,
		},
	}
}

func (c Config) LoggingOptions() logging.Config {
	return logging.Config{Level: c.Logging.Level, Format: c.Logging.Format}
}

// Addr returns the ":port" listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}
