package manifest

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/repotree/internal/shared"
)

const (
	commandUseConstant              = "manifest"
	commandShortDescriptionConstant = "Print the repository manifest as a tree"
	commandLongDescriptionConstant  = "manifest parses the repository manifest and prints its groups and repository entries with their resolved directory names."
	// ManifestFlagNameConstant names the flag overriding the manifest location.
	ManifestFlagNameConstant         = "manifest"
	manifestFlagUsageConstant        = "Path to the repository manifest"
	entrySummaryTemplateConstant     = "%d repositories\n"
	manifestLoadedLogMessageConstant = "manifest loaded"
	logFieldManifestPathConstant     = "manifest_path"
	logFieldEntryCountConstant       = "entry_count"
)

// LoggerProvider yields a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the manifest command.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider func() CommandConfiguration
	FileSystem            shared.FileSystem
}

// Build constructs the manifest command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}

	command.Flags().String(ManifestFlagNameConstant, "", manifestFlagUsageConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	configuration := builder.resolveConfiguration()
	if command.Flags().Changed(ManifestFlagNameConstant) {
		manifestPath, flagError := command.Flags().GetString(ManifestFlagNameConstant)
		if flagError != nil {
			return flagError
		}
		configuration.ManifestPath = SanitizePath(manifestPath, DefaultManifestPathConstant)
	}

	group, loadError := Load(builder.FileSystem, configuration.ManifestPath)
	if loadError != nil {
		return loadError
	}

	entryCount := group.EntryCount()
	builder.resolveLogger().Info(
		manifestLoadedLogMessageConstant,
		zap.String(logFieldManifestPathConstant, configuration.ManifestPath),
		zap.Int(logFieldEntryCountConstant, entryCount),
	)

	fmt.Fprint(command.OutOrStdout(), RenderTree(group, configuration.ManifestPath))
	fmt.Fprintf(command.OutOrStdout(), entrySummaryTemplateConstant, entryCount)
	return nil
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider().Sanitize()
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
