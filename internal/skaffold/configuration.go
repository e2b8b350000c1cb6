package skaffold

import (
	"strings"

	"github.com/temirov/repotree/internal/manifest"
)

const (
	configurationManifestKeyConstant  = "manifest"
	configurationOutputKeyConstant    = "output"
	configurationKeySeparatorConstant = "."
)

// CommandConfiguration captures configuration values for the skaffold command.
type CommandConfiguration struct {
	ManifestPath string `mapstructure:"manifest"`
	OutputPath   string `mapstructure:"output"`
}

// DefaultCommandConfiguration provides baseline configuration values for the skaffold command.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		ManifestPath: manifest.DefaultManifestPathConstant,
		OutputPath:   DefaultOutputPathConstant,
	}
}

// DefaultConfigurationValues exposes defaults keyed under rootKey for the configuration loader.
func DefaultConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultCommandConfiguration()
	prefix := strings.TrimSpace(rootKey) + configurationKeySeparatorConstant
	return map[string]any{
		prefix + configurationManifestKeyConstant: defaults.ManifestPath,
		prefix + configurationOutputKeyConstant:   defaults.OutputPath,
	}
}

// Sanitize trims values, expands leading tildes, and restores defaults for empty values.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration
	sanitized.ManifestPath = manifest.SanitizePath(configuration.ManifestPath, manifest.DefaultManifestPathConstant)
	sanitized.OutputPath = manifest.SanitizePath(configuration.OutputPath, DefaultOutputPathConstant)
	return sanitized
}
