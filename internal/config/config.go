package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the complete configuration for the toonsafe CLI
type Config struct {
	Encoding EncodingConfig `yaml:"encoding"`
	Decoding DecodingConfig `yaml:"decoding"`
	Keys     KeysConfig     `yaml:"keys"`
	Dev      DevConfig      `yaml:"dev"`
}

// EncodingConfig controls TOON output shape
type EncodingConfig struct {
	Indent    int    `yaml:"indent"`
	Delimiter string `yaml:"delimiter"`
}

// DecodingConfig controls how tolerant the decode chain is
type DecodingConfig struct {
	Strict bool `yaml:"strict"`
}

// KeysConfig controls opt-in object key restyling
type KeysConfig struct {
	// Case is one of "", "snake", "camel", "pascal", "kebab". Empty leaves
	// keys exactly as the payload carries them.
	Case string `yaml:"case"`
}

// DevConfig contains development/debug options
type DevConfig struct {
	Verbose bool `yaml:"verbose"`
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Encoding: EncodingConfig{
			Indent:    2,
			Delimiter: ",",
		},
		Decoding: DecodingConfig{
			Strict: false,
		},
		Keys: KeysConfig{
			Case: "",
		},
		Dev: DevConfig{
			Verbose: false,
		},
	}
}

var validKeyCases = map[string]bool{
	"":       true,
	"snake":  true,
	"camel":  true,
	"pascal": true,
	"kebab":  true,
}

// Validate checks field values that yaml decoding cannot
func (c *Config) Validate() error {
	if c.Encoding.Indent < 0 {
		return fmt.Errorf("encoding.indent must not be negative, got %d", c.Encoding.Indent)
	}
	if !validKeyCases[c.Keys.Case] {
		return fmt.Errorf("keys.case must be one of snake, camel, pascal, kebab; got %q", c.Keys.Case)
	}
	return nil
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults
	cfg := NewConfig()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file: %w", err)
	}

	return cfg, nil
}

// FindConfigFile searches for a config file in current directory and parents
func FindConfigFile() string {
	configNames := []string{".toonsafe.yml", ".toonsafe.yaml", "toonsafe.yml", "toonsafe.yaml"}

	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	// Search up the directory tree
	for {
		for _, name := range configNames {
			configPath := filepath.Join(currentDir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root directory
			break
		}
		currentDir = parentDir
	}

	return ""
}

// MergeConfigs merges an override config over a base config. Zero values in
// the override leave the base value in place.
func MergeConfigs(base, override *Config) *Config {
	if base == nil {
		base = NewConfig()
	}
	if override == nil {
		return base
	}

	merged := *base
	if override.Encoding.Indent > 0 {
		merged.Encoding.Indent = override.Encoding.Indent
	}
	if override.Encoding.Delimiter != "" {
		merged.Encoding.Delimiter = override.Encoding.Delimiter
	}
	if override.Decoding.Strict {
		merged.Decoding.Strict = true
	}
	if override.Keys.Case != "" {
		merged.Keys.Case = override.Keys.Case
	}
	if override.Dev.Verbose {
		merged.Dev.Verbose = true
	}
	return &merged
}

// LoadConfigWithCLI resolves the effective config: defaults, then the config
// file (explicit path or discovered), then CLI flags on top.
func LoadConfigWithCLI(configPath string, indent int, delimiter, keyCase string, strict, verbose bool) (*Config, error) {
	cfg := NewConfig()

	if configPath == "" {
		configPath = FindConfigFile()
	}
	if configPath != "" {
		fileCfg, err := LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = fileCfg
	}

	flags := &Config{
		Encoding: EncodingConfig{Indent: indent, Delimiter: delimiter},
		Decoding: DecodingConfig{Strict: strict},
		Keys:     KeysConfig{Case: keyCase},
		Dev:      DevConfig{Verbose: verbose},
	}
	cfg = MergeConfigs(cfg, flags)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
