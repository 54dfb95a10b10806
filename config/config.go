// Package config loads .mcnpdeck.yaml project settings.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dhamidi/mcnpdeck/deck"
	"github.com/dhamidi/mcnpdeck/source"
)

// FileName is the name Find looks for.
const FileName = ".mcnpdeck.yaml"

type Config struct {
	// MCNP version whose line length limit applies, e.g. "6.2.0".
	// Empty disables the limit.
	Version string `yaml:"version"`

	// FrontMatter reads the MESSAGE block and title line before the cards.
	FrontMatter bool `yaml:"front_matter"`

	// ReplaceInvalid keeps lines with invalid UTF-8, replacing the bad bytes.
	ReplaceInvalid bool `yaml:"replace_invalid"`

	// Encoding of deck files on disk: utf-8, latin1 or utf-16.
	Encoding string `yaml:"encoding"`

	// Extensions of files treated as decks when scanning a directory.
	// An entry of "" matches files without an extension; it is not in the
	// defaults since README, LICENSE and Makefile would match too.
	Extensions []string `yaml:"extensions"`

	// Path of the file the config was loaded from, if any.
	Path string `yaml:"-"`
}

func Default() *Config {
	return &Config{
		Encoding:   string(source.EncodingUTF8),
		Extensions: []string{".inp", ".i", ".mcnp"},
	}
}

// Load reads the config at path on top of the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.Path = path

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Find looks for FileName in dir and its parents and loads the first one
// found. Without a config file it returns Default().
func Find(dir string) (*Config, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", dir, err)
	}
	for {
		path := filepath.Join(abs, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("stat config: %w", err)
		}
		parent := filepath.Dir(abs)
		if parent == abs {
			return Default(), nil
		}
		abs = parent
	}
}

func (c *Config) Validate() error {
	if c.Version != "" {
		if _, err := deck.ParseVersion(c.Version); err != nil {
			return err
		}
	}
	if _, err := source.ParseEncoding(c.Encoding); err != nil {
		return err
	}
	return nil
}

// Save writes the config as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// SourceEncoding returns the configured file encoding.
func (c *Config) SourceEncoding() source.Encoding {
	enc, err := source.ParseEncoding(c.Encoding)
	if err != nil {
		return source.EncodingUTF8
	}
	return enc
}

// Options returns the deck reader options for file.
func (c *Config) Options(file string) []deck.Option {
	opts := []deck.Option{deck.WithFile(file)}
	if c.Version != "" {
		if v, err := deck.ParseVersion(c.Version); err == nil {
			opts = append(opts, deck.WithVersion(v))
		}
	}
	if c.FrontMatter {
		opts = append(opts, deck.WithFrontMatter())
	}
	if c.ReplaceInvalid {
		opts = append(opts, deck.WithReplaceInvalid())
	}
	return opts
}

// IsDeck reports whether path has one of the configured extensions.
func (c *Config) IsDeck(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	base := filepath.Base(path)
	for _, e := range c.Extensions {
		if e == "" {
			if ext == "" && !strings.HasPrefix(base, ".") {
				return true
			}
			continue
		}
		if ext == strings.ToLower(e) {
			return true
		}
	}
	return false
}
