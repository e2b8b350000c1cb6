package execshell

// CommandEventObserver receives lifecycle notifications for every executed command.
type CommandEventObserver interface {
	// CommandStarted is invoked before the process is launched.
	CommandStarted(command ShellCommand)
	// CommandCompleted is invoked once the process exited, whatever its exit code.
	CommandCompleted(command ShellCommand, result ExecutionResult)
	// CommandExecutionFailed is invoked when the process could not be run at all.
	CommandExecutionFailed(command ShellCommand, failure error)
}

type noopCommandEventObserver struct{}

func (noopCommandEventObserver) CommandStarted(ShellCommand) {}

func (noopCommandEventObserver) CommandCompleted(ShellCommand, ExecutionResult) {}

func (noopCommandEventObserver) CommandExecutionFailed(ShellCommand, error) {}
