package skaffold

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/repotree/internal/dependencies"
	"github.com/temirov/repotree/internal/manifest"
	"github.com/temirov/repotree/internal/shared"
)

const (
	commandUseConstant              = "skaffold"
	commandShortDescriptionConstant = "Generate skaffold.yaml from the repository manifest"
	commandLongDescriptionConstant  = "skaffold derives build artifacts and raw manifests from the repository manifest and overwrites the Skaffold configuration file."
	manifestFlagNameConstant        = "manifest"
	manifestFlagUsageConstant       = "Path to the repository manifest"
	outputFlagNameConstant          = "output"
	outputFlagUsageConstant         = "Path of the generated Skaffold configuration"
	configurationWrittenLogConstant = "skaffold configuration written"
	writtenSummaryTemplateConstant  = "wrote %s: %d artifacts, %d manifests\n"
	logFieldOutputPathConstant      = "output_path"
	logFieldArtifactCountConstant   = "artifact_count"
	logFieldManifestCountConstant   = "manifest_count"
)

// LoggerProvider yields a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the skaffold command.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider func() CommandConfiguration
	FileSystem            shared.FileSystem
}

// Build constructs the skaffold command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}

	command.Flags().String(manifestFlagNameConstant, "", manifestFlagUsageConstant)
	command.Flags().String(outputFlagNameConstant, "", outputFlagUsageConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	configuration, configurationError := builder.resolveConfiguration(command)
	if configurationError != nil {
		return configurationError
	}

	fileSystem := dependencies.ResolveFileSystem(builder.FileSystem)
	group, loadError := manifest.Load(fileSystem, configuration.ManifestPath)
	if loadError != nil {
		return loadError
	}

	config, assembleError := AssembleConfig(group)
	if assembleError != nil {
		return assembleError
	}

	if writeError := Write(fileSystem, configuration.OutputPath, config); writeError != nil {
		return writeError
	}

	builder.resolveLogger().Info(configurationWrittenLogConstant,
		zap.String(logFieldOutputPathConstant, configuration.OutputPath),
		zap.Int(logFieldArtifactCountConstant, len(config.Build.Artifacts)),
		zap.Int(logFieldManifestCountConstant, len(config.Manifests.RawYaml)),
	)
	fmt.Fprintf(command.OutOrStdout(), writtenSummaryTemplateConstant, configuration.OutputPath, len(config.Build.Artifacts), len(config.Manifests.RawYaml))
	return nil
}

func (builder *CommandBuilder) resolveConfiguration(command *cobra.Command) (CommandConfiguration, error) {
	configuration := DefaultCommandConfiguration()
	if builder.ConfigurationProvider != nil {
		configuration = builder.ConfigurationProvider()
	}

	if command.Flags().Changed(manifestFlagNameConstant) {
		manifestPath, flagError := command.Flags().GetString(manifestFlagNameConstant)
		if flagError != nil {
			return CommandConfiguration{}, flagError
		}
		configuration.ManifestPath = strings.TrimSpace(manifestPath)
	}
	if command.Flags().Changed(outputFlagNameConstant) {
		outputPath, flagError := command.Flags().GetString(outputFlagNameConstant)
		if flagError != nil {
			return CommandConfiguration{}, flagError
		}
		configuration.OutputPath = strings.TrimSpace(outputPath)
	}

	return configuration.Sanitize(), nil
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
