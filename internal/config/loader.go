package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadRoadRush loads Road Rush configuration.
// Search order: customPath -> ~/.roadrush/configs/roadrush.yaml -> ./configs/roadrush.yaml -> embedded default
func LoadRoadRush(customPath string) (RoadRushConfig, error) {
	// Fields missing from a user file keep their default value
	cfg := DefaultRoadRushConfig()

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("config: failed to read %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: failed to parse %s: %w", customPath, err)
		}
		if err := cfg.Validate(); err != nil {
			return cfg, fmt.Errorf("config: %s: %w", customPath, err)
		}
		return cfg, nil
	}

	candidates := []string{
		userConfigPath("roadrush.yaml"),
		filepath.Join("configs", "roadrush.yaml"),
	}
	for _, path := range candidates {
		if path == "" {
			continue
		}
		if loaded, ok := tryLoad(path, cfg); ok {
			return loaded, nil
		}
	}

	// Use embedded default YAML
	var embedded RoadRushConfig
	if err := yaml.Unmarshal(GetDefaultYAML("roadrush"), &embedded); err != nil || embedded.Validate() != nil {
		return DefaultRoadRushConfig(), nil // Fallback to hardcoded if embed fails
	}
	return embedded, nil
}

// tryLoad reads an optional config file over base. Unreadable or invalid
// files are skipped so a broken user file never blocks play.
func tryLoad(path string, base RoadRushConfig) (RoadRushConfig, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, false
	}
	cfg := base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return base, false
	}
	if err := cfg.Validate(); err != nil {
		return base, false
	}
	return cfg, true
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".roadrush", "configs", filename)
}

// ApplyPreset modifies the config based on a difficulty preset.
// The normal preset keeps the tuned constants untouched.
func ApplyPreset(cfg *RoadRushConfig, preset DifficultyPreset) {
	switch preset {
	case DifficultyFixed:
		cfg.Difficulty.Enabled = false
	case DifficultyEasy:
		cfg.Difficulty.Enabled = true
		cfg.Difficulty.Cap = 2.5
		cfg.Difficulty.HeadStartSec = 0
	case DifficultyHard:
		cfg.Difficulty.Enabled = true
		cfg.Difficulty.HeadStartSec = 20
	case DifficultyNormal:
		cfg.Difficulty.Enabled = true
	}
}
