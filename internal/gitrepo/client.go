package gitrepo

import (
	"context"
	"errors"

	"github.com/temirov/repotree/internal/execshell"
)

const (
	gitExecutorMissingMessageConstant           = "git executor not configured"
	gitCloneSubcommandConstant                  = "clone"
	gitFetchSubcommandConstant                  = "fetch"
	gitMergeSubcommandConstant                  = "merge"
	gitMergeNoEditFlagConstant                  = "--no-edit"
	gitShowRefSubcommandConstant                = "show-ref"
	gitShowRefVerifyFlagConstant                = "--verify"
	gitShowRefQuietFlagConstant                 = "--quiet"
	gitDirectoryFlagConstant                    = "-C"
	remoteTrackingReferencePrefixConstant       = "refs/remotes/"
	remoteBranchSeparatorConstant               = "/"
	gitTerminalPromptEnvironmentNameConstant    = "GIT_TERMINAL_PROMPT"
	gitTerminalPromptEnvironmentDisableConstant = "0"
	// DefaultRemoteNameConstant is the remote fetched and merged from.
	DefaultRemoteNameConstant = "origin"
)

// DefaultTrackingBranchCandidates lists the tracking branches probed during an update, in priority order.
var DefaultTrackingBranchCandidates = []string{"master", "main"}

// ErrGitExecutorNotConfigured indicates the client was constructed without an executor.
var ErrGitExecutorNotConfigured = errors.New(gitExecutorMissingMessageConstant)

// GitExecutor runs git with the supplied details.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// Client issues the git commands needed to clone and update repositories.
type Client struct {
	executor         GitExecutor
	remoteName       string
	branchCandidates []string
}

// NewClient constructs a Client targeting the origin remote and the default branch candidates.
func NewClient(executor GitExecutor) (*Client, error) {
	if executor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	return &Client{
		executor:         executor,
		remoteName:       DefaultRemoteNameConstant,
		branchCandidates: append([]string{}, DefaultTrackingBranchCandidates...),
	}, nil
}

// Clone clones repositoryURL into destinationPath.
func (client *Client) Clone(executionContext context.Context, repositoryURL string, destinationPath string) error {
	cloneError := client.executeGit(executionContext, []string{gitCloneSubcommandConstant, repositoryURL, destinationPath})
	if cloneError != nil {
		return &OperationError{Operation: OperationClone, RepositoryPath: destinationPath, Cause: cloneError}
	}
	return nil
}

// RemoteBranchExists reports whether refs/remotes/<remote>/<branch> exists in the repository.
func (client *Client) RemoteBranchExists(executionContext context.Context, repositoryPath string, branchName string) (bool, error) {
	reference := remoteTrackingReferencePrefixConstant + client.remoteName + remoteBranchSeparatorConstant + branchName
	showRefError := client.executeGit(executionContext, []string{
		gitDirectoryFlagConstant, repositoryPath,
		gitShowRefSubcommandConstant, gitShowRefVerifyFlagConstant, gitShowRefQuietFlagConstant, reference,
	})
	if showRefError == nil {
		return true, nil
	}

	var commandFailure execshell.CommandFailedError
	if errors.As(showRefError, &commandFailure) {
		return false, nil
	}
	return false, &OperationError{Operation: OperationShowRef, RepositoryPath: repositoryPath, Cause: showRefError}
}

// ResolveTrackingBranch returns the first candidate branch tracked from the remote.
func (client *Client) ResolveTrackingBranch(executionContext context.Context, repositoryPath string) (string, error) {
	for _, candidate := range client.branchCandidates {
		exists, lookupError := client.RemoteBranchExists(executionContext, repositoryPath, candidate)
		if lookupError != nil {
			return "", lookupError
		}
		if exists {
			return candidate, nil
		}
	}
	return "", &BranchNotFoundError{
		RepositoryPath: repositoryPath,
		RemoteName:     client.remoteName,
		Candidates:     append([]string{}, client.branchCandidates...),
	}
}

// FetchAndMerge fetches the remote and merges its tracking branch into the current checkout.
// It returns the merged branch name. When no candidate branch exists the repository is left untouched.
func (client *Client) FetchAndMerge(executionContext context.Context, repositoryPath string) (string, error) {
	branchName, resolveError := client.ResolveTrackingBranch(executionContext, repositoryPath)
	if resolveError != nil {
		return "", resolveError
	}

	fetchError := client.executeGit(executionContext, []string{gitDirectoryFlagConstant, repositoryPath, gitFetchSubcommandConstant, client.remoteName})
	if fetchError != nil {
		return "", &OperationError{Operation: OperationFetch, RepositoryPath: repositoryPath, Cause: fetchError}
	}

	mergeSource := client.remoteName + remoteBranchSeparatorConstant + branchName
	mergeError := client.executeGit(executionContext, []string{gitDirectoryFlagConstant, repositoryPath, gitMergeSubcommandConstant, gitMergeNoEditFlagConstant, mergeSource})
	if mergeError != nil {
		return "", &OperationError{Operation: OperationMerge, RepositoryPath: repositoryPath, Cause: mergeError}
	}

	return branchName, nil
}

func (client *Client) executeGit(executionContext context.Context, arguments []string) error {
	_, executionError := client.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:            arguments,
		EnvironmentVariables: map[string]string{gitTerminalPromptEnvironmentNameConstant: gitTerminalPromptEnvironmentDisableConstant},
	})
	return executionError
}
