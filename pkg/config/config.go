package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	yaml "gopkg.in/yaml.v3"

	"github.com/davesave/davesave/pkg/cipher"
)

const (
	DefaultIndentWidth    = 4
	DefaultFailedSuffix   = ".failed_decode.txt"
	DefaultBackupTemplate = `{{ .Base }}.{{ now | date "20060102-150405" }}.bak{{ .Ext }}`
)

type Config struct {
	// Key overrides the cipher key. Empty means cipher.DefaultKey.
	Key string `yaml:"key,omitempty"`
	// Indent is the number of spaces per level, or -1 for a tab.
	Indent         int    `yaml:"indent,omitempty"`
	FailedSuffix   string `yaml:"failed-suffix,omitempty"`
	Backup         bool   `yaml:"backup,omitempty"`
	BackupTemplate string `yaml:"backup-template,omitempty"`
	Color          *bool  `yaml:"color,omitempty"`
	AssumeYes      bool   `yaml:"assume-yes,omitempty"`
	// configPath is the file path used for reading and writing this config.
	configPath string `yaml:"-"`
}

// CipherKey returns the configured key, falling back to the game's.
func (c *Config) CipherKey() (cipher.Key, error) {
	if c.Key == "" {
		return cipher.Default(), nil
	}
	return cipher.NewKey(c.Key)
}

// IndentUnit returns the string used for one level of indentation.
func (c *Config) IndentUnit() string {
	switch {
	case c.Indent < 0:
		return "\t"
	case c.Indent == 0:
		return strings.Repeat(" ", DefaultIndentWidth)
	default:
		return strings.Repeat(" ", c.Indent)
	}
}

func (c *Config) FailedDecodeSuffix() string {
	if c.FailedSuffix == "" {
		return DefaultFailedSuffix
	}
	return c.FailedSuffix
}

func (c *Config) BackupNameTemplate() string {
	if c.BackupTemplate == "" {
		return DefaultBackupTemplate
	}
	return c.BackupTemplate
}

// Path returns the file this config is read from and written to.
func (c *Config) Path() string {
	return c.configPath
}

func (c *Config) Write() error {
	configPath := c.configPath
	if configPath == "" {
		var err error
		configPath, err = getDefaultConfigPath()
		if err != nil {
			return err
		}
	}
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	tmpFile, err := os.CreateTemp(configDir, "config.*.tmp")
	if err != nil {
		return fmt.Errorf("create temp config file: %w", err)
	}
	tmpPath := tmpFile.Name()

	encoder := yaml.NewEncoder(tmpFile)
	if err := encoder.Encode(c); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("encode config: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp config file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0600); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("chmod temp config file: %w", err)
	}
	if err := os.Rename(tmpPath, configPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp config file: %w", err)
	}
	c.configPath = configPath
	return nil
}

func ReadConfig(cfgPath string) (c Config, err error) {
	resolvedPath, err := resolveConfigPath(cfgPath)
	if err != nil {
		return Config{}, err
	}

	file, err := os.OpenFile(resolvedPath, os.O_RDONLY, 0644)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{configPath: resolvedPath}, nil
		}
		return Config{}, fmt.Errorf("open config file: %w", err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	c.configPath = resolvedPath
	return c, nil
}

func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

func resolveConfigPath(cfgPath string) (string, error) {
	if cfgPath == "" {
		return getDefaultConfigPath()
	}
	expanded, err := homedir.Expand(cfgPath)
	if err != nil {
		return "", fmt.Errorf("expand config path: %w", err)
	}
	if !fileExists(expanded) {
		return "", fmt.Errorf("config file %q does not exist", cfgPath)
	}
	return expanded, nil
}

func getDefaultConfigPath() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}

	return filepath.Join(home, ".davesave", "config"), nil
}
