package manifest

import (
	"strings"

	pathutils "github.com/temirov/repotree/internal/utils/path"
)

const (
	// DefaultManifestPathConstant is the manifest location used when nothing else is configured.
	DefaultManifestPathConstant      = "repositories.yaml"
	configurationManifestKeyConstant = "manifest"
)

// CommandConfiguration captures configuration values for the manifest command.
type CommandConfiguration struct {
	ManifestPath string `mapstructure:"manifest"`
}

// DefaultCommandConfiguration provides baseline configuration values for the manifest command.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{ManifestPath: DefaultManifestPathConstant}
}

// DefaultConfigurationValues exposes defaults keyed under rootKey for the configuration loader.
func DefaultConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		rootKey + "." + configurationManifestKeyConstant: defaults.ManifestPath,
	}
}

// Sanitize trims values, expands a leading tilde, and restores the default path when empty.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration
	sanitized.ManifestPath = SanitizePath(configuration.ManifestPath, DefaultManifestPathConstant)
	return sanitized
}

// SanitizePath trims candidatePath, expands a leading tilde, and falls back to defaultPath when empty.
func SanitizePath(candidatePath string, defaultPath string) string {
	trimmedPath := strings.TrimSpace(candidatePath)
	if len(trimmedPath) == 0 {
		trimmedPath = defaultPath
	}
	return pathutils.NewHomeExpander().Expand(trimmedPath)
}
