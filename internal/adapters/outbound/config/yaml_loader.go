package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/miivari/jaraudit/internal/domain"
	"gopkg.in/yaml.v3"
)

const fileName = ".jaraudit.yaml"

// YAMLLoader implements domain.ConfigLoader by reading .jaraudit.yaml.
type YAMLLoader struct{}

// New creates a YAMLLoader.
func New() *YAMLLoader { return &YAMLLoader{} }

// Load reads .jaraudit.yaml from projectPath.
// Returns DefaultConfig if the file does not exist.
func (l *YAMLLoader) Load(projectPath string) (domain.AuditConfig, error) {
	data, err := os.ReadFile(filepath.Join(projectPath, fileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.DefaultConfig(), nil
		}
		return domain.AuditConfig{}, err
	}

	var cfg domain.AuditConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.AuditConfig{}, fmt.Errorf("parsing %s: %w", fileName, err)
	}

	// Validate before merging so typos in the raw input are caught.
	if err := cfg.Validate(); err != nil {
		return domain.AuditConfig{}, fmt.Errorf("invalid %s: %w", fileName, err)
	}

	return mergeConfig(domain.DefaultConfig(), cfg), nil
}

// mergeConfig overlays explicit overrides on top of the defaults.
// Explicit (non-zero) values always win.
func mergeConfig(base, override domain.AuditConfig) domain.AuditConfig {
	result := base

	if len(override.ExcludeGroups) > 0 {
		result.ExcludeGroups = override.ExcludeGroups
	}
	if override.MissingClasses != "" {
		result.MissingClasses = override.MissingClasses
	}
	if override.RulesFile != "" {
		result.RulesFile = override.RulesFile
	}
	if override.PlatformClassList != "" {
		result.PlatformClassList = override.PlatformClassList
	}
	result.DisableHistory = override.DisableHistory

	return result
}
