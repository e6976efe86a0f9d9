package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"perch/internal/core/model"

	"gopkg.in/yaml.v3"
)

const configFileName = "config.yaml"

type yamlConfig struct {
	BreakThresholdSeconds         int  `yaml:"break_threshold_seconds"`
	BreakReminderThresholdMinutes int  `yaml:"break_reminder_threshold_minutes"`
	BreakReminderEnabled          bool `yaml:"break_reminder_enabled"`
}

// LoadConfig reads the runtime configuration from YAML.
// If the config file does not exist, defaults are returned.
func LoadConfig(appName string) (model.Config, error) {
	config := model.DefaultConfig()
	configPath, err := resolveConfigPath(appName)
	if err != nil {
		return config, err
	}

	rawData, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return config, nil
		}
		return config, fmt.Errorf("read config file: %w", err)
	}

	var fileData yamlConfig
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return config, fmt.Errorf("parse config yaml: %w", err)
	}

	applyYamlConfig(&config, fileData)
	return config, nil
}

// SaveConfig writes the runtime configuration to YAML.
func SaveConfig(appName string, config model.Config) error {
	configPath, err := resolveConfigPath(appName)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	fileData := yamlConfig{
		BreakThresholdSeconds:         int(config.BreakThreshold / time.Second),
		BreakReminderThresholdMinutes: int(config.ReminderThreshold / time.Minute),
		BreakReminderEnabled:          config.ReminderEnabled,
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal config yaml: %w", err)
	}

	if err := os.WriteFile(configPath, serialized, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

func resolveConfigPath(appName string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appName, configFileName), nil
}

func applyYamlConfig(config *model.Config, fileData yamlConfig) {
	if fileData.BreakThresholdSeconds > 0 {
		config.BreakThreshold = time.Duration(fileData.BreakThresholdSeconds) * time.Second
	}
	if fileData.BreakReminderThresholdMinutes > 0 {
		config.ReminderThreshold = time.Duration(fileData.BreakReminderThresholdMinutes) * time.Minute
	}
	config.ReminderEnabled = fileData.BreakReminderEnabled
}
