package apidsl

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrConfigNotFound is returned when no config file is found walking up
// from the search directory.
var ErrConfigNotFound = errors.New("apidsl: no config file found")

// Config represents the .apidsl.yaml configuration file read by
// cmd/apidsl. It is ambient CLI plumbing, not part of the compiler
// pipeline itself: nothing in package apidsl's Compile-facing API reads
// it.
type Config struct {
	// Emitter names the target format the driver should emit to, e.g.
	// "openapi".
	Emitter string `yaml:"emitter"`

	// Out is the default output path for emitted documents.
	Out string `yaml:"out,omitempty"`

	// Strict is read from the file but not consulted by cmd/apidsl, which
	// treats every compiler error as fatal regardless.
	Strict bool `yaml:"strict,omitempty"`

	// Files maps a glob pattern over input paths to an emitter name
	// override, e.g. "internal/*.apidsl": "openapi3".
	Files map[string]string `yaml:"files,omitempty"`
}

// DefaultConfigNames are the filenames we search for.
var DefaultConfigNames = []string{".apidsl.yaml", ".apidsl.yml", "apidsl.yaml", "apidsl.yml"}

// LoadConfig finds and loads the nearest .apidsl.yaml walking up from dir.
func LoadConfig(dir string) (*Config, error) {
	path, err := FindConfig(dir)
	if err != nil {
		return nil, err
	}

	return LoadConfigFile(path)
}

// FindConfig searches for a config file starting from dir and walking up.
func FindConfig(dir string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	for dir := absDir; ; {
		for _, name := range DefaultConfigNames {
			path := filepath.Join(dir, name)

			_, err := os.Stat(path)
			if err == nil {
				return path, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrConfigNotFound
		}

		dir = parent
	}
}

// LoadConfigFile loads a config from a specific path.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}

	var cfg Config

	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}

// EmitterFor returns the emitter name to use for a given input file path.
// It checks file-specific patterns first, then falls back to the default.
func (c *Config) EmitterFor(filePath string) string {
	for pattern, emitter := range c.Files {
		if matched, _ := filepath.Match(pattern, filePath); matched {
			return emitter
		}
	}

	return c.Emitter
}
