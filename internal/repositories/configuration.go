package repositories

import (
	"strings"

	"github.com/temirov/repotree/internal/manifest"
	"github.com/temirov/repotree/internal/pathrecord"
)

const (
	// DefaultBasePathConstant is the directory the manifest tree is rooted at.
	DefaultBasePathConstant                = "."
	configurationManifestKeyConstant       = "manifest"
	configurationBasePathKeyConstant       = "base_path"
	configurationRecordFileKeyConstant     = "record_file"
	configurationSelfUpdatePathKeyConstant = "self_update_path"
	configurationKeySeparatorConstant      = "."
)

// CommandConfiguration captures configuration values for the repositories command.
type CommandConfiguration struct {
	ManifestPath   string `mapstructure:"manifest"`
	BasePath       string `mapstructure:"base_path"`
	RecordFile     string `mapstructure:"record_file"`
	SelfUpdatePath string `mapstructure:"self_update_path"`
}

// DefaultCommandConfiguration provides baseline configuration values for the repositories command.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		ManifestPath:   manifest.DefaultManifestPathConstant,
		BasePath:       DefaultBasePathConstant,
		RecordFile:     pathrecord.DefaultRecordFileConstant,
		SelfUpdatePath: DefaultSelfUpdatePathConstant,
	}
}

// DefaultConfigurationValues exposes defaults keyed under rootKey for the configuration loader.
func DefaultConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultCommandConfiguration()
	prefix := strings.TrimSpace(rootKey) + configurationKeySeparatorConstant
	return map[string]any{
		prefix + configurationManifestKeyConstant:       defaults.ManifestPath,
		prefix + configurationBasePathKeyConstant:       defaults.BasePath,
		prefix + configurationRecordFileKeyConstant:     defaults.RecordFile,
		prefix + configurationSelfUpdatePathKeyConstant: defaults.SelfUpdatePath,
	}
}

// Sanitize trims values, expands leading tildes, and restores defaults for empty values.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration
	sanitized.ManifestPath = manifest.SanitizePath(configuration.ManifestPath, manifest.DefaultManifestPathConstant)
	sanitized.BasePath = manifest.SanitizePath(configuration.BasePath, DefaultBasePathConstant)
	sanitized.RecordFile = manifest.SanitizePath(configuration.RecordFile, pathrecord.DefaultRecordFileConstant)
	sanitized.SelfUpdatePath = manifest.SanitizePath(configuration.SelfUpdatePath, DefaultSelfUpdatePathConstant)
	return sanitized
}
