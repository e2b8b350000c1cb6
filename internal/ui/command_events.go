package ui

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/repotree/internal/execshell"
)

const (
	genericStartTemplateConstant            = "Running %s"
	genericSuccessTemplateConstant          = "Completed %s"
	genericFailureTemplateConstant          = "%s failed with exit code %d%s"
	genericExecutionFailureTemplateConstant = "%s failed: %s"
	cloneStartTemplateConstant              = "Cloning %s into %s"
	cloneSuccessTemplateConstant            = "Cloned %s into %s"
	cloneFailureTemplateConstant            = "Failed to clone %s into %s (exit code %d%s)"
	fetchStartTemplateConstant              = "Fetching %s in %s"
	fetchSuccessTemplateConstant            = "Fetched %s in %s"
	fetchFailureTemplateConstant            = "Failed to fetch %s in %s (exit code %d%s)"
	mergeStartTemplateConstant              = "Merging %s into %s"
	mergeSuccessTemplateConstant            = "Merged %s into %s"
	mergeFailureTemplateConstant            = "Failed to merge %s into %s (exit code %d%s)"
	showRefStartTemplateConstant            = "Looking for %s in %s"
	showRefSuccessTemplateConstant          = "Found %s in %s"
	showRefMissingTemplateConstant          = "%s not present in %s"
	versionStartMessageConstant             = "Checking git client"
	versionSuccessMessageConstant           = "git client available"
	versionFailureTemplateConstant          = "git client unusable (exit code %d%s)"
	workingDirectorySuffixTemplateConstant  = " (in %s)"
	commandArgumentsJoinSeparatorConstant   = " "
	standardErrorSuffixTemplateConstant     = ": %s"
	unknownFailureMessageConstant           = "unknown error"
	currentDirectoryLabelConstant           = "current directory"
	unknownValueLabelConstant               = "unknown"
	gitDirectoryFlagConstant                = "-C"
	gitCloneSubcommandConstant              = "clone"
	gitFetchSubcommandConstant              = "fetch"
	gitMergeSubcommandConstant              = "merge"
	gitShowRefSubcommandConstant            = "show-ref"
	gitVersionFlagConstant                  = "--version"
	gitFlagPrefixConstant                   = "-"
)

type eventStage int

const (
	eventStageStart eventStage = iota
	eventStageSuccess
	eventStageFailure
)

// gitInvocation is a git argument vector split into target directory, subcommand, and operands.
type gitInvocation struct {
	directory  string
	subcommand string
	operands   []string
}

// CommandEventFormatter builds human-readable messages for command lifecycle events.
type CommandEventFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandEventFormatter) BuildStartedMessage(command execshell.ShellCommand) string {
	return formatter.describe(command, execshell.ExecutionResult{}, eventStageStart)
}

// BuildSuccessMessage formats the message describing a command that exited with code zero.
func (formatter CommandEventFormatter) BuildSuccessMessage(command execshell.ShellCommand) string {
	return formatter.describe(command, execshell.ExecutionResult{}, eventStageSuccess)
}

// BuildFailureMessage formats the message describing a command that exited with a non-zero code.
func (formatter CommandEventFormatter) BuildFailureMessage(command execshell.ShellCommand, result execshell.ExecutionResult) string {
	return formatter.describe(command, result, eventStageFailure)
}

// BuildExecutionFailureMessage formats the message describing a command that could not run.
func (formatter CommandEventFormatter) BuildExecutionFailureMessage(command execshell.ShellCommand, failure error) string {
	failureMessage := unknownFailureMessageConstant
	if failure != nil {
		failureMessage = failure.Error()
	}
	return fmt.Sprintf(genericExecutionFailureTemplateConstant, formatter.formatCommandLabel(command), failureMessage)
}

// IsExpectedFailure reports failures that signal absence rather than a problem, such as a missing reference.
func (formatter CommandEventFormatter) IsExpectedFailure(command execshell.ShellCommand) bool {
	if command.Name != execshell.CommandGit {
		return false
	}
	return parseGitInvocation(command.Details).subcommand == gitShowRefSubcommandConstant
}

func (formatter CommandEventFormatter) describe(command execshell.ShellCommand, result execshell.ExecutionResult, stage eventStage) string {
	if command.Name == execshell.CommandGit {
		invocation := parseGitInvocation(command.Details)
		directoryLabel := formatter.describeDirectory(invocation.directory)
		standardErrorSuffix := formatter.formatStandardErrorSuffix(result.StandardError)

		switch invocation.subcommand {
		case gitCloneSubcommandConstant:
			source := formatter.operandAt(invocation.operands, 0)
			destination := formatter.operandAt(invocation.operands, 1)
			return formatter.selectMessage(stage,
				fmt.Sprintf(cloneStartTemplateConstant, source, destination),
				fmt.Sprintf(cloneSuccessTemplateConstant, source, destination),
				fmt.Sprintf(cloneFailureTemplateConstant, source, destination, result.ExitCode, standardErrorSuffix))
		case gitFetchSubcommandConstant:
			remote := formatter.operandAt(invocation.operands, 0)
			return formatter.selectMessage(stage,
				fmt.Sprintf(fetchStartTemplateConstant, remote, directoryLabel),
				fmt.Sprintf(fetchSuccessTemplateConstant, remote, directoryLabel),
				fmt.Sprintf(fetchFailureTemplateConstant, remote, directoryLabel, result.ExitCode, standardErrorSuffix))
		case gitMergeSubcommandConstant:
			source := formatter.operandAt(invocation.operands, 0)
			return formatter.selectMessage(stage,
				fmt.Sprintf(mergeStartTemplateConstant, source, directoryLabel),
				fmt.Sprintf(mergeSuccessTemplateConstant, source, directoryLabel),
				fmt.Sprintf(mergeFailureTemplateConstant, source, directoryLabel, result.ExitCode, standardErrorSuffix))
		case gitShowRefSubcommandConstant:
			reference := formatter.operandAt(invocation.operands, 0)
			return formatter.selectMessage(stage,
				fmt.Sprintf(showRefStartTemplateConstant, reference, directoryLabel),
				fmt.Sprintf(showRefSuccessTemplateConstant, reference, directoryLabel),
				fmt.Sprintf(showRefMissingTemplateConstant, reference, directoryLabel))
		case gitVersionFlagConstant:
			return formatter.selectMessage(stage,
				versionStartMessageConstant,
				versionSuccessMessageConstant,
				fmt.Sprintf(versionFailureTemplateConstant, result.ExitCode, standardErrorSuffix))
		}
	}

	commandLabel := formatter.formatCommandLabel(command)
	return formatter.selectMessage(stage,
		fmt.Sprintf(genericStartTemplateConstant, commandLabel),
		fmt.Sprintf(genericSuccessTemplateConstant, commandLabel),
		fmt.Sprintf(genericFailureTemplateConstant, commandLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError)))
}

func (formatter CommandEventFormatter) selectMessage(stage eventStage, startMessage string, successMessage string, failureMessage string) string {
	switch stage {
	case eventStageStart:
		return startMessage
	case eventStageSuccess:
		return successMessage
	default:
		return failureMessage
	}
}

func (formatter CommandEventFormatter) formatCommandLabel(command execshell.ShellCommand) string {
	commandParts := []string{string(command.Name)}
	if len(command.Details.Arguments) > 0 {
		commandParts = append(commandParts, strings.Join(command.Details.Arguments, commandArgumentsJoinSeparatorConstant))
	}
	commandLabel := strings.Join(commandParts, commandArgumentsJoinSeparatorConstant)
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return commandLabel
	}
	return commandLabel + fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory)
}

func (formatter CommandEventFormatter) formatStandardErrorSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return ""
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
}

func (formatter CommandEventFormatter) describeDirectory(directory string) string {
	if len(strings.TrimSpace(directory)) == 0 {
		return currentDirectoryLabelConstant
	}
	return directory
}

func (formatter CommandEventFormatter) operandAt(operands []string, index int) string {
	if index < 0 || index >= len(operands) {
		return unknownValueLabelConstant
	}
	return operands[index]
}

func parseGitInvocation(details execshell.CommandDetails) gitInvocation {
	arguments := details.Arguments
	invocation := gitInvocation{directory: details.WorkingDirectory}
	if len(arguments) >= 2 && arguments[0] == gitDirectoryFlagConstant {
		invocation.directory = arguments[1]
		arguments = arguments[2:]
	}
	if len(arguments) == 0 {
		return invocation
	}

	invocation.subcommand = arguments[0]
	for _, argument := range arguments[1:] {
		if strings.HasPrefix(argument, gitFlagPrefixConstant) {
			continue
		}
		invocation.operands = append(invocation.operands, argument)
	}
	return invocation
}

// ConsoleCommandEventLogger renders command lifecycle events through a zap logger configured for console output.
type ConsoleCommandEventLogger struct {
	logger    *zap.Logger
	formatter CommandEventFormatter
}

// NewConsoleCommandEventLogger constructs a console event logger backed by the provided zap logger.
func NewConsoleCommandEventLogger(logger *zap.Logger) *ConsoleCommandEventLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConsoleCommandEventLogger{logger: logger, formatter: CommandEventFormatter{}}
}

// CommandStarted implements execshell.CommandEventObserver.
func (eventLogger *ConsoleCommandEventLogger) CommandStarted(command execshell.ShellCommand) {
	if eventLogger == nil {
		return
	}
	eventLogger.logger.Info(eventLogger.formatter.BuildStartedMessage(command))
}

// CommandCompleted implements execshell.CommandEventObserver.
func (eventLogger *ConsoleCommandEventLogger) CommandCompleted(command execshell.ShellCommand, result execshell.ExecutionResult) {
	if eventLogger == nil {
		return
	}
	if result.ExitCode == 0 {
		eventLogger.logger.Info(eventLogger.formatter.BuildSuccessMessage(command))
		return
	}
	if eventLogger.formatter.IsExpectedFailure(command) {
		eventLogger.logger.Info(eventLogger.formatter.BuildFailureMessage(command, result))
		return
	}
	eventLogger.logger.Warn(eventLogger.formatter.BuildFailureMessage(command, result))
}

// CommandExecutionFailed implements execshell.CommandEventObserver.
func (eventLogger *ConsoleCommandEventLogger) CommandExecutionFailed(command execshell.ShellCommand, failure error) {
	if eventLogger == nil {
		return
	}
	eventLogger.logger.Error(eventLogger.formatter.BuildExecutionFailureMessage(command, failure))
}
