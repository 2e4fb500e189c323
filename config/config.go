// Package config defines the configuration of the investoruid command.
package config

import (
	"encoding/hex"
	"os"
	"strings"

	"github.com/go-errors/errors"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/sirupsen/logrus"

	"github.com/privacybydesign/investoruid/registry"
	"github.com/privacybydesign/investoruid/rng"
)

// EnvPrefix prefixes environment variables overriding the configuration.
// `__` separates levels: INVESTORUID_LOG__LEVEL sets log.level.
const EnvPrefix = "INVESTORUID_"

// Config is the top-level configuration.
type Config struct {
	Log      *LogConfig      `koanf:"log"`
	Rng      *RngConfig      `koanf:"rng"`
	Registry *RegistryConfig `koanf:"registry"`
}

// Validate performs config validation.
func (cfg *Config) Validate() error {
	if cfg.Log != nil {
		if err := cfg.Log.Validate(); err != nil {
			return errors.WrapPrefix(err, "log", 0)
		}
	}
	if cfg.Rng != nil {
		if err := cfg.Rng.Validate(); err != nil {
			return errors.WrapPrefix(err, "rng", 0)
		}
	}
	if cfg.Registry != nil {
		if err := cfg.Registry.Validate(); err != nil {
			return errors.WrapPrefix(err, "registry", 0)
		}
	}
	return nil
}

// LogConfig contains the logging configuration.
type LogConfig struct {
	// Level is a logrus level name; defaults to info.
	Level string `koanf:"level"`
	// Format is "text" (default) or "json".
	Format string `koanf:"format"`
}

func (cfg *LogConfig) Validate() error {
	if cfg.Level != "" {
		if _, err := logrus.ParseLevel(cfg.Level); err != nil {
			return errors.WrapPrefix(err, "level", 0)
		}
	}
	switch cfg.Format {
	case "", "text", "json":
		return nil
	default:
		return errors.Errorf("unknown format %q", cfg.Format)
	}
}

// Apply configures logger accordingly. A nil config leaves logger as is.
func (cfg *LogConfig) Apply(logger *logrus.Logger) error {
	if cfg == nil {
		return nil
	}
	if cfg.Level != "" {
		level, err := logrus.ParseLevel(cfg.Level)
		if err != nil {
			return err
		}
		logger.SetLevel(level)
	}
	if cfg.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return nil
}

const (
	RngSourceOS     = "os"
	RngSourceSeeded = "seeded"
)

// RngConfig selects the randomness used for proof generation.
type RngConfig struct {
	// Source is "os" (default) or "seeded". Seeded randomness makes proofs
	// reproducible and must only be used for test vectors.
	Source string `koanf:"source"`
	// Seed is the hex encoded 32-byte seed of the seeded source.
	Seed string `koanf:"seed"`
}

func (cfg *RngConfig) Validate() error {
	switch cfg.Source {
	case "", RngSourceOS:
		if cfg.Seed != "" {
			return errors.New("seed given for os source")
		}
		return nil
	case RngSourceSeeded:
		_, err := cfg.seed()
		return err
	default:
		return errors.Errorf("unknown source %q", cfg.Source)
	}
}

func (cfg *RngConfig) seed() ([32]byte, error) {
	var seed [32]byte
	bts, err := hex.DecodeString(strings.TrimPrefix(cfg.Seed, "0x"))
	if err != nil {
		return seed, errors.WrapPrefix(err, "seed", 0)
	}
	if len(bts) != len(seed) {
		return seed, errors.Errorf("seed must have 32 bytes, got %d", len(bts))
	}
	copy(seed[:], bts)
	return seed, nil
}

// New returns the configured Rng. A nil config yields the OS source.
func (cfg *RngConfig) New() (rng.Rng, error) {
	if cfg == nil || cfg.Source == "" || cfg.Source == RngSourceOS {
		return rng.OS(), nil
	}
	if cfg.Source != RngSourceSeeded {
		return nil, errors.Errorf("unknown source %q", cfg.Source)
	}
	seed, err := cfg.seed()
	if err != nil {
		return nil, err
	}
	return rng.NewSeeded(seed)
}

// RegistryConfig contains the claim registry configuration.
type RegistryConfig struct {
	Path string `koanf:"path"`
	// Providers maps CDD provider names to PEM public key files.
	Providers map[string]string `koanf:"providers"`
	// Concurrency bounds parallel batch verification.
	Concurrency int `koanf:"concurrency"`
}

func (cfg *RegistryConfig) Validate() error {
	if cfg.Path == "" {
		return errors.New("path is required")
	}
	if cfg.Concurrency < 0 {
		return errors.New("concurrency must not be negative")
	}
	for name, path := range cfg.Providers {
		if name == "" || path == "" {
			return errors.New("provider entries need a name and a key file")
		}
	}
	return nil
}

// Open opens the registry database with the configured providers.
func (cfg *RegistryConfig) Open(opts ...registry.Option) (*registry.DB, error) {
	ks, err := registry.LoadKeystore(cfg.Providers)
	if err != nil {
		return nil, err
	}
	if cfg.Concurrency > 0 {
		opts = append(opts, registry.WithConcurrency(cfg.Concurrency))
	}
	return registry.Open(cfg.Path, ks, opts...)
}

// InitConfig loads the yaml file f, if given, merges environment overrides
// and validates the result.
func InitConfig(f string) (*Config, error) {
	var config Config
	k := koanf.New(".")

	if f != "" {
		if _, err := os.Stat(f); err != nil {
			return nil, errors.WrapPrefix(err, "config file", 0)
		}
		if err := k.Load(file.Provider(f), yaml.Parser()); err != nil {
			return nil, errors.WrapPrefix(err, "config file", 0)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		// `__` is used as a hierarchy delimiter.
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
	}), nil); err != nil {
		return nil, err
	}

	if err := k.Unmarshal("", &config); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}
