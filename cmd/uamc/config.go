package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/metalagman/uamc/internal/config"
	"github.com/spf13/viper"
)

const (
	defaultConfigPath     = ".uamc/config.yaml"
	defaultJSONConfigPath = ".uamc/config.json"
)

// resolveConfigPath makes path absolute under repoRoot. The default YAML path
// falls back to config.json when only the JSON file exists.
func resolveConfigPath(repoRoot, path string) string {
	if path == "" {
		path = defaultConfigPath
	}
	isDefault := filepath.Clean(path) == filepath.Clean(defaultConfigPath)
	if !filepath.IsAbs(path) {
		path = filepath.Join(repoRoot, path)
	}
	if !isDefault || fileExists(path) {
		return path
	}
	if alt := filepath.Join(repoRoot, defaultJSONConfigPath); fileExists(alt) {
		return alt
	}
	return path
}

func loadConfig(repoRoot string) (config.Config, error) {
	if err := godotenv.Load(filepath.Join(repoRoot, ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return config.Config{}, fmt.Errorf("load .env: %w", err)
	}

	for key, value := range config.Defaults() {
		viper.SetDefault(key, value)
	}
	viper.SetEnvPrefix("UAMC")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	path := resolveConfigPath(repoRoot, viper.GetString("config"))
	if fileExists(path) {
		viper.SetConfigFile(path)
		viper.SetConfigType(configType(path))
		if err := viper.ReadInConfig(); err != nil {
			return config.Config{}, fmt.Errorf("read config: %w", err)
		}
	} else if viper.IsSet("config") && filepath.Clean(viper.GetString("config")) != filepath.Clean(defaultConfigPath) {
		return config.Config{}, fmt.Errorf("read config: %s does not exist", path)
	}

	settings := viper.AllSettings()
	delete(settings, "config")
	if err := config.ValidateSettings(settings); err != nil {
		return config.Config{}, err
	}

	var cfg config.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return config.Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

func configType(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return "json"
	}
	return "yaml"
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
