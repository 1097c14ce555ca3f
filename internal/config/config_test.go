package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, 2, cfg.Encoding.Indent)
	assert.Equal(t, ",", cfg.Encoding.Delimiter)
	assert.False(t, cfg.Decoding.Strict)
	assert.Empty(t, cfg.Keys.Case)
	assert.False(t, cfg.Dev.Verbose)
}

func TestLoadConfig_OverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".toonsafe.yml")
	content := `
encoding:
  indent: 4
  delimiter: ";"
decoding:
  strict: true
keys:
  case: snake
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Encoding.Indent)
	assert.Equal(t, ";", cfg.Encoding.Delimiter)
	assert.True(t, cfg.Decoding.Strict)
	assert.Equal(t, "snake", cfg.Keys.Case)
}

func TestLoadConfig_PartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".toonsafe.yml")
	require.NoError(t, os.WriteFile(path, []byte("keys:\n  case: camel\n"), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "camel", cfg.Keys.Case)
	assert.Equal(t, 2, cfg.Encoding.Indent)
	assert.Equal(t, ",", cfg.Encoding.Delimiter)
}

func TestLoadConfig_RejectsInvalidKeyCase(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".toonsafe.yml")
	require.NoError(t, os.WriteFile(path, []byte("keys:\n  case: shouty\n"), 0644))

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "keys.case")
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yml"))
	require.Error(t, err)
}

func TestLoadConfig_MalformedYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".toonsafe.yml")
	require.NoError(t, os.WriteFile(path, []byte("encoding: [not a mapping"), 0644))

	_, err := LoadConfig(path)
	require.Error(t, err)
}

func TestMergeConfigs(t *testing.T) {
	base := NewConfig()
	base.Encoding.Indent = 4

	override := &Config{
		Encoding: EncodingConfig{Delimiter: "|"},
		Keys:     KeysConfig{Case: "kebab"},
	}

	merged := MergeConfigs(base, override)

	// Zero values in the override leave base settings alone.
	assert.Equal(t, 4, merged.Encoding.Indent)
	assert.Equal(t, "|", merged.Encoding.Delimiter)
	assert.Equal(t, "kebab", merged.Keys.Case)
	assert.False(t, merged.Decoding.Strict)
}

func TestMergeConfigs_NilArgs(t *testing.T) {
	assert.Equal(t, NewConfig(), MergeConfigs(nil, nil))

	override := &Config{Dev: DevConfig{Verbose: true}}
	merged := MergeConfigs(nil, override)
	assert.True(t, merged.Dev.Verbose)
}

func TestLoadConfigWithCLI_FlagsWin(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".toonsafe.yml")
	require.NoError(t, os.WriteFile(path, []byte("encoding:\n  indent: 8\n"), 0644))

	cfg, err := LoadConfigWithCLI(path, 3, "", "pascal", true, false)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Encoding.Indent)
	assert.Equal(t, "pascal", cfg.Keys.Case)
	assert.True(t, cfg.Decoding.Strict)
}

func TestLoadConfigWithCLI_RejectsBadFlagValues(t *testing.T) {
	_, err := LoadConfigWithCLI("", 0, "", "loud", false, false)
	require.Error(t, err)
}
