// Package config reads and writes the per-server settings in
// .rollcall/config.json.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/coursekit/rollcall/internal/models"
)

const configFile = ".rollcall/config.json"

// DefaultTeamPrefix is stripped from Discord role names when deriving
// team channel names.
const DefaultTeamPrefix = "Team "

// Load reads the config from disk
func Load(baseDir string) (*models.Config, error) {
	configPath := filepath.Join(baseDir, configFile)

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config not found: run 'rollcall init' first")
		}
		return nil, err
	}

	var cfg models.Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", configFile, err)
	}
	if cfg.TeamPrefix == "" {
		cfg.TeamPrefix = DefaultTeamPrefix
	}

	return &cfg, nil
}

// Save writes the config to disk using atomic write (temp file + rename)
func Save(baseDir string, cfg *models.Config) error {
	configPath := filepath.Join(baseDir, configFile)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "config-*.json.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}

	return os.Rename(tmpName, configPath)
}

// Token returns the bot token from the environment. It is never stored
// in config.json.
func Token() (string, error) {
	token := os.Getenv("BOT_TOKEN")
	if token == "" {
		return "", fmt.Errorf("BOT_TOKEN environment variable not defined")
	}
	return token, nil
}
