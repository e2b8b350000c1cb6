package dependencies

import (
	"go.uber.org/zap"

	"github.com/temirov/repotree/internal/execshell"
	"github.com/temirov/repotree/internal/filesystem"
	"github.com/temirov/repotree/internal/gitrepo"
	"github.com/temirov/repotree/internal/shared"
)

// ResolveFileSystem returns the provided filesystem or an OS-backed default.
func ResolveFileSystem(existing shared.FileSystem) shared.FileSystem {
	if existing != nil {
		return existing
	}
	return filesystem.NewOSFileSystem()
}

// ResolveGitExecutor returns the provided executor or constructs a shell-backed default.
// A non-nil observer receives the lifecycle events of every command the default executor runs.
func ResolveGitExecutor(existing shared.GitExecutor, logger *zap.Logger, observer execshell.CommandEventObserver) (shared.GitExecutor, error) {
	if existing != nil {
		return existing, nil
	}

	commandRunner := execshell.NewOSCommandRunner()
	shellExecutor, creationError := execshell.NewShellExecutor(logger, commandRunner, observer)
	if creationError != nil {
		return nil, creationError
	}
	return shellExecutor, nil
}

// ResolveGitClient returns the provided client or constructs one from the executor.
func ResolveGitClient(existing *gitrepo.Client, executor shared.GitExecutor) (*gitrepo.Client, error) {
	if existing != nil {
		return existing, nil
	}
	return gitrepo.NewClient(executor)
}
