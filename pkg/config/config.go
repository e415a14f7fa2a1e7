// Package config loads the toolbelt configuration. A Parser is selected by
// file extension; YAML and HCL are supported. Environment variables
// override file values.
package config

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// CDDBConfig holds CDDB client settings.
type CDDBConfig struct {
	Host     string `yaml:"host,omitempty" hcl:"host,optional"`
	Username string `yaml:"username,omitempty" hcl:"username,optional"`
}

// Config is the complete configuration. The zero value is usable.
type Config struct {
	CDDB           *CDDBConfig `yaml:"cddb,omitempty" hcl:"cddb,block"`
	GitHubToken    string      `yaml:"github_token,omitempty" hcl:"github_token,optional"`
	ImgBBKey       string      `yaml:"imgbb_api_key,omitempty" hcl:"imgbb_api_key,optional"`
	WinePrefixRoot string      `yaml:"wine_prefix_root,omitempty" hcl:"wine_prefix_root,optional"`
}

// Parser parses configuration bytes.
type Parser interface {
	Parse(ctx context.Context, data []byte) (*Config, error)
	// CanParse checks if this parser can handle the given file.
	CanParse(filename string) bool
}

var parsers []Parser

// Register registers a parser.
func Register(p Parser) {
	parsers = append(parsers, p)
}

// GetParser returns a parser that can handle the given file.
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

func applyEnv(cfg *Config) {
	if token := os.Getenv("TMU_GITHUB_TOKEN"); token != "" {
		cfg.GitHubToken = token
	}
	if key := os.Getenv("TMU_IMGBB_API_KEY"); key != "" {
		cfg.ImgBBKey = key
	}
}

func defaultPaths() []string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil
		}
		base = filepath.Join(home, ".config")
	}
	dir := filepath.Join(base, "tmu")
	return []string{
		filepath.Join(dir, "config.yaml"),
		filepath.Join(dir, "config.yml"),
		filepath.Join(dir, "config.hcl"),
	}
}

// Load loads the configuration. When path is empty the XDG config directory
// is searched and a missing file is not an error.
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	if path == "" {
		for _, candidate := range defaultPaths() {
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
				break
			}
		}
		if path == "" {
			logger.Debug().Msg("no configuration file found")
			cfg := &Config{}
			applyEnv(cfg)
			return cfg, nil
		}
	}
	logger.Debug().Str("path", path).Msg("loading configuration")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}
	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}
	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}
	applyEnv(cfg)
	return cfg, nil
}
