package repositories

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/repotree/internal/manifest"
	"github.com/temirov/repotree/internal/shared"
)

const (
	gitClientMissingMessageConstant     = "repository synchronizer requires a git client"
	fileSystemMissingMessageConstant    = "repository synchronizer requires a filesystem"
	repositoryURLMissingMessageConstant = "repository entry has no repository URL"
	// DefaultSelfUpdatePathConstant is the directory updated before traversal when the action is update.
	DefaultSelfUpdatePathConstant         = "."
	repositoryClonedLogMessageConstant    = "repository cloned"
	repositorySkippedLogMessageConstant   = "repository already present, skipping clone"
	repositoryUpdatedLogMessageConstant   = "repository updated"
	repositoryAbsentLogMessageConstant    = "repository absent, skipping update"
	repositoryFailedLogMessageConstant    = "repository synchronization failed"
	selfUpdatedLogMessageConstant         = "working directory updated"
	selfUpdateFailedLogMessageConstant    = "working directory update failed"
	synchronizationDoneLogMessageConstant = "repository synchronization finished"
	logFieldRepositoryConstant            = "repository"
	logFieldDirectoryConstant             = "directory"
	logFieldBranchConstant                = "branch"
	logFieldActionConstant                = "action"
	logFieldEntryCountConstant            = "entry_count"
	logFieldFailureCountConstant          = "failure_count"
)

// ErrGitClientNotConfigured indicates the service was constructed without a git client.
var ErrGitClientNotConfigured = errors.New(gitClientMissingMessageConstant)

// ErrFileSystemNotConfigured indicates the service was constructed without a filesystem.
var ErrFileSystemNotConfigured = errors.New(fileSystemMissingMessageConstant)

// ErrRepositoryURLMissing reports an entry that cannot be synchronized because it names no repository.
var ErrRepositoryURLMissing = errors.New(repositoryURLMissingMessageConstant)

// GitClient performs the git operations needed by the synchronizer.
type GitClient interface {
	Clone(executionContext context.Context, repositoryURL string, destinationPath string) error
	FetchAndMerge(executionContext context.Context, repositoryPath string) (string, error)
}

// Dependencies enumerates the collaborators required by Service.
type Dependencies struct {
	GitClient  GitClient
	FileSystem shared.FileSystem
	Logger     *zap.Logger
}

// Options configures one Sync run.
type Options struct {
	BasePath       string
	Action         Action
	SelfUpdatePath string
}

// OutcomeStatus classifies what happened to one repository.
type OutcomeStatus string

// Outcome statuses.
const (
	OutcomeCloned  OutcomeStatus = "cloned"
	OutcomeSkipped OutcomeStatus = "skipped"
	OutcomeUpdated OutcomeStatus = "updated"
	OutcomeAbsent  OutcomeStatus = "absent"
	OutcomeFailed  OutcomeStatus = "failed"
)

// Outcome records the result for one repository, or for the working directory when SelfUpdate is set.
type Outcome struct {
	Repository string
	Directory  string
	Status     OutcomeStatus
	Branch     string
	SelfUpdate bool
	Error      error
}

// Result summarizes a Sync run.
type Result struct {
	// Paths lists the repository directories returned by the traversal, in manifest order.
	// Clone runs include cloned and skipped entries. Update runs include every entry directory.
	Paths    []string
	Outcomes []Outcome
}

// Failures returns the outcomes whose status is OutcomeFailed.
func (result Result) Failures() []Outcome {
	var failures []Outcome
	for _, outcome := range result.Outcomes {
		if outcome.Status == OutcomeFailed {
			failures = append(failures, outcome)
		}
	}
	return failures
}

// Service walks a manifest and clones or updates each repository.
type Service struct {
	gitClient  GitClient
	fileSystem shared.FileSystem
	logger     *zap.Logger
}

// NewService validates dependencies and constructs a Service.
func NewService(dependencies Dependencies) (*Service, error) {
	if dependencies.GitClient == nil {
		return nil, ErrGitClientNotConfigured
	}
	if dependencies.FileSystem == nil {
		return nil, ErrFileSystemNotConfigured
	}
	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{gitClient: dependencies.GitClient, fileSystem: dependencies.FileSystem, logger: logger}, nil
}

// Sync applies options.Action to every entry of group.
// Only an unsupported action fails the run; repository failures are reported in the Result.
func (service *Service) Sync(executionContext context.Context, group manifest.Group, options Options) (Result, error) {
	action, actionError := ParseAction(string(options.Action))
	if actionError != nil {
		return Result{}, actionError
	}

	result := Result{}
	if action == ActionUpdate {
		result.Outcomes = append(result.Outcomes, service.selfUpdate(executionContext, options.SelfUpdatePath))
	}

	group.Walk(options.BasePath, func(parentPath string, entry manifest.Entry) {
		outcome := service.synchronizeEntry(executionContext, action, parentPath, entry)
		result.Outcomes = append(result.Outcomes, outcome)
		if returnsPath(action, outcome.Status) {
			result.Paths = append(result.Paths, outcome.Directory)
		}
	})

	service.logger.Info(synchronizationDoneLogMessageConstant,
		zap.String(logFieldActionConstant, string(action)),
		zap.Int(logFieldEntryCountConstant, group.EntryCount()),
		zap.Int(logFieldFailureCountConstant, len(result.Failures())),
	)
	return result, nil
}

func returnsPath(action Action, status OutcomeStatus) bool {
	switch action {
	case ActionClone:
		return status == OutcomeCloned || status == OutcomeSkipped
	default:
		return len(status) > 0
	}
}

func (service *Service) selfUpdate(executionContext context.Context, selfUpdatePath string) Outcome {
	directory := strings.TrimSpace(selfUpdatePath)
	if len(directory) == 0 {
		directory = DefaultSelfUpdatePathConstant
	}

	outcome := Outcome{Directory: directory, SelfUpdate: true}
	branch, updateError := service.gitClient.FetchAndMerge(executionContext, directory)
	if updateError != nil {
		service.logger.Error(selfUpdateFailedLogMessageConstant, zap.String(logFieldDirectoryConstant, directory), zap.Error(updateError))
		outcome.Status = OutcomeFailed
		outcome.Error = updateError
		return outcome
	}

	service.logger.Info(selfUpdatedLogMessageConstant, zap.String(logFieldDirectoryConstant, directory), zap.String(logFieldBranchConstant, branch))
	outcome.Status = OutcomeUpdated
	outcome.Branch = branch
	return outcome
}

func (service *Service) synchronizeEntry(executionContext context.Context, action Action, parentPath string, entry manifest.Entry) Outcome {
	directory := entry.Directory(parentPath)
	outcome := Outcome{Repository: entry.Repository, Directory: directory}

	if len(strings.TrimSpace(entry.Repository)) == 0 {
		return service.fail(outcome, ErrRepositoryURLMissing)
	}

	exists := service.directoryExists(directory)
	switch action {
	case ActionClone:
		if exists {
			service.logger.Info(repositorySkippedLogMessageConstant, service.entryFields(outcome)...)
			outcome.Status = OutcomeSkipped
			return outcome
		}
		if cloneError := service.gitClient.Clone(executionContext, entry.Repository, directory); cloneError != nil {
			return service.fail(outcome, cloneError)
		}
		service.logger.Info(repositoryClonedLogMessageConstant, service.entryFields(outcome)...)
		outcome.Status = OutcomeCloned
		return outcome
	default:
		if !exists {
			service.logger.Info(repositoryAbsentLogMessageConstant, service.entryFields(outcome)...)
			outcome.Status = OutcomeAbsent
			return outcome
		}
		branch, updateError := service.gitClient.FetchAndMerge(executionContext, directory)
		if updateError != nil {
			return service.fail(outcome, updateError)
		}
		outcome.Status = OutcomeUpdated
		outcome.Branch = branch
		service.logger.Info(repositoryUpdatedLogMessageConstant, append(service.entryFields(outcome), zap.String(logFieldBranchConstant, branch))...)
		return outcome
	}
}

func (service *Service) fail(outcome Outcome, failure error) Outcome {
	service.logger.Error(repositoryFailedLogMessageConstant, append(service.entryFields(outcome), zap.Error(failure))...)
	outcome.Status = OutcomeFailed
	outcome.Error = failure
	return outcome
}

func (service *Service) entryFields(outcome Outcome) []zap.Field {
	return []zap.Field{
		zap.String(logFieldRepositoryConstant, outcome.Repository),
		zap.String(logFieldDirectoryConstant, outcome.Directory),
	}
}

// directoryExists treats any Stat failure as absence.
func (service *Service) directoryExists(directory string) bool {
	_, statError := service.fileSystem.Stat(directory)
	return statError == nil
}
