package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/repotree/internal/dependencies"
	"github.com/temirov/repotree/internal/execshell"
	"github.com/temirov/repotree/internal/gitrepo"
	"github.com/temirov/repotree/internal/manifest"
	"github.com/temirov/repotree/internal/pathrecord"
	"github.com/temirov/repotree/internal/shared"
	"github.com/temirov/repotree/internal/ui"
	"github.com/temirov/repotree/internal/utils/flags"
)

const (
	commandUseTemplateConstant           = "repositories %s"
	commandShortDescriptionConstant      = "Clone or update the repositories listed in the manifest"
	commandLongDescriptionConstant       = "repositories walks the manifest and clones missing repositories (clone) or fetches and merges the tracking branch of existing ones (update). Update first refreshes the working directory itself. Clone records the resulting directories in the path record file."
	argumentsHeadingConstant             = "\n\nArguments: "
	actionChoiceDescriptionConstant      = "action applied to every repository"
	manifestFlagNameConstant             = "manifest"
	manifestFlagUsageConstant            = "Path to the repository manifest"
	basePathFlagNameConstant             = "base-path"
	basePathFlagUsageConstant            = "Directory the manifest tree is rooted at"
	recordFileFlagNameConstant           = "record-file"
	recordFileFlagUsageConstant          = "JSON file accumulating cloned repository directories"
	gitVersionFlagConstant               = "--version"
	gitClientUnavailableMessageConstant  = "git client unavailable"
	gitClientUnavailableTemplateConstant = "%w: %v"
	pathRecordFailureTemplateConstant    = "record cloned paths: %w"
)

// ErrGitClientUnavailable indicates that git could not be run before any repository was touched.
var ErrGitClientUnavailable = errors.New(gitClientUnavailableMessageConstant)

// LoggerProvider yields a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the repositories command.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider func() CommandConfiguration
	GitExecutor           shared.GitExecutor
	// GitClient replaces the client built from GitExecutor; the preflight check still runs on GitExecutor.
	GitClient             *gitrepo.Client
	FileSystem            shared.FileSystem
	CommandEventsObserver execshell.CommandEventObserver
	// HumanReadableLoggingProvider reports whether git command events should be rendered for people.
	HumanReadableLoggingProvider func() bool
}

// Build constructs the repositories command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	actionNames := SupportedActionNames()
	command := &cobra.Command{
		Use:       fmt.Sprintf(commandUseTemplateConstant, flags.FormatChoicePlaceholder(actionNames)),
		Short:     commandShortDescriptionConstant,
		Long:      commandLongDescriptionConstant + argumentsHeadingConstant + flags.FormatChoiceUsage("", actionNames, actionChoiceDescriptionConstant),
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: actionNames,
		RunE:      builder.run,
	}

	command.Flags().String(manifestFlagNameConstant, "", manifestFlagUsageConstant)
	command.Flags().String(basePathFlagNameConstant, "", basePathFlagUsageConstant)
	command.Flags().String(recordFileFlagNameConstant, "", recordFileFlagUsageConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	action, actionError := ParseAction(arguments[0])
	if actionError != nil {
		return actionError
	}

	configuration, configurationError := builder.resolveConfiguration(command)
	if configurationError != nil {
		return configurationError
	}

	fileSystem := dependencies.ResolveFileSystem(builder.FileSystem)
	group, loadError := manifest.Load(fileSystem, configuration.ManifestPath)
	if loadError != nil {
		return loadError
	}

	executionContext := command.Context()
	if executionContext == nil {
		executionContext = context.Background()
	}

	logger := builder.resolveLogger()
	gitExecutor, executorError := dependencies.ResolveGitExecutor(builder.GitExecutor, logger, builder.resolveCommandEventsObserver(logger))
	if executorError != nil {
		return executorError
	}
	if _, versionError := gitExecutor.ExecuteGit(executionContext, execshell.CommandDetails{Arguments: []string{gitVersionFlagConstant}}); versionError != nil {
		return fmt.Errorf(gitClientUnavailableTemplateConstant, ErrGitClientUnavailable, versionError)
	}

	gitClient, clientError := dependencies.ResolveGitClient(builder.GitClient, gitExecutor)
	if clientError != nil {
		return clientError
	}

	service, serviceError := NewService(Dependencies{GitClient: gitClient, FileSystem: fileSystem, Logger: logger})
	if serviceError != nil {
		return serviceError
	}

	result, syncError := service.Sync(executionContext, group, Options{
		BasePath:       configuration.BasePath,
		Action:         action,
		SelfUpdatePath: configuration.SelfUpdatePath,
	})
	if syncError != nil {
		return syncError
	}

	if action == ActionClone {
		recorder, recorderError := pathrecord.NewRecorder(fileSystem, logger)
		if recorderError != nil {
			return recorderError
		}
		if _, recordError := recorder.Record(result.Paths, configuration.RecordFile); recordError != nil {
			return fmt.Errorf(pathRecordFailureTemplateConstant, recordError)
		}
	}

	RenderSummary(command.OutOrStdout(), result)
	return nil
}

func (builder *CommandBuilder) resolveConfiguration(command *cobra.Command) (CommandConfiguration, error) {
	configuration := DefaultCommandConfiguration()
	if builder.ConfigurationProvider != nil {
		configuration = builder.ConfigurationProvider()
	}

	flagTargets := []struct {
		flagName string
		target   *string
	}{
		{flagName: manifestFlagNameConstant, target: &configuration.ManifestPath},
		{flagName: basePathFlagNameConstant, target: &configuration.BasePath},
		{flagName: recordFileFlagNameConstant, target: &configuration.RecordFile},
	}
	for _, flagTarget := range flagTargets {
		if !command.Flags().Changed(flagTarget.flagName) {
			continue
		}
		flagValue, flagError := command.Flags().GetString(flagTarget.flagName)
		if flagError != nil {
			return CommandConfiguration{}, flagError
		}
		*flagTarget.target = strings.TrimSpace(flagValue)
	}

	return configuration.Sanitize(), nil
}

func (builder *CommandBuilder) resolveCommandEventsObserver(logger *zap.Logger) execshell.CommandEventObserver {
	if builder.CommandEventsObserver != nil {
		return builder.CommandEventsObserver
	}
	if builder.HumanReadableLoggingProvider != nil && builder.HumanReadableLoggingProvider() {
		return ui.NewConsoleCommandEventLogger(logger)
	}
	return nil
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
