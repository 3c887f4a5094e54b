package app

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/corey/tally/internal/domain/automaton"
)

// Config holds the project settings read from .tally/config.yaml.
// Command-line flags override individual fields.
type Config struct {
	// Alphabet lists the bytes patterns and texts are made of, in symbol order.
	Alphabet string `yaml:"alphabet"`
	// CaseFold maps both ASCII cases of every letter to one symbol.
	CaseFold bool `yaml:"case_fold"`
	// Strict rejects texts with bytes outside the alphabet. When false such
	// bytes separate words and are skipped.
	Strict bool `yaml:"strict"`
	// Workers bounds how many files are scanned at once.
	Workers int `yaml:"workers"`
	// DBTimeout bounds the wait for the database file lock.
	DBTimeout time.Duration `yaml:"db_timeout"`
}

// DefaultConfig returns the settings used when no config file exists.
func DefaultConfig() Config {
	return Config{
		Alphabet:  automaton.LowercaseLatin,
		CaseFold:  true,
		Strict:    false,
		Workers:   4,
		DBTimeout: time.Second,
	}
}

// LoadConfig reads path on top of DefaultConfig. A missing file yields the
// defaults; unknown keys are an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// SaveConfig writes cfg to path as YAML.
func SaveConfig(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks that the settings can build an alphabet and a counter.
func (c Config) Validate() error {
	if _, err := c.NewAlphabet(); err != nil {
		return err
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.DBTimeout <= 0 {
		return fmt.Errorf("db_timeout must be positive, got %s", c.DBTimeout)
	}
	return nil
}

// NewAlphabet builds the alphabet described by the config.
func (c Config) NewAlphabet() (*automaton.Alphabet, error) {
	var opts []automaton.AlphabetOption
	if c.CaseFold {
		opts = append(opts, automaton.WithCaseFolding())
	}
	alpha, err := automaton.NewAlphabet(c.Alphabet, opts...)
	if err != nil {
		return nil, fmt.Errorf("alphabet: %w", err)
	}
	return alpha, nil
}
