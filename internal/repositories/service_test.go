package repositories_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/repotree/internal/filesystem"
	"github.com/temirov/repotree/internal/gitrepo"
	"github.com/temirov/repotree/internal/manifest"
	"github.com/temirov/repotree/internal/repositories"
)

const (
	testBasePathConstant = "workspace"
	testManifestConstant = `team:
  project:
    - repository: https://example.com/svc.git
    - repository: https://example.com/lib.git
      name: library
docs:
  - repository: https://example.com/handbook
`
)

type cloneCall struct {
	RepositoryURL   string
	DestinationPath string
}

type stubGitClient struct {
	fileSystem     filesystem.AferoFileSystem
	cloneCalls     []cloneCall
	updateCalls    []string
	cloneFailures  map[string]error
	updateFailures map[string]error
	trackingBranch string
}

func (client *stubGitClient) Clone(_ context.Context, repositoryURL string, destinationPath string) error {
	client.cloneCalls = append(client.cloneCalls, cloneCall{RepositoryURL: repositoryURL, DestinationPath: destinationPath})
	if failure, failing := client.cloneFailures[destinationPath]; failing {
		return failure
	}
	return client.fileSystem.MkdirAll(destinationPath, 0o755)
}

func (client *stubGitClient) FetchAndMerge(_ context.Context, repositoryPath string) (string, error) {
	client.updateCalls = append(client.updateCalls, repositoryPath)
	if failure, failing := client.updateFailures[repositoryPath]; failing {
		return "", failure
	}
	if len(client.trackingBranch) == 0 {
		return "master", nil
	}
	return client.trackingBranch, nil
}

func parseTestManifest(testInstance *testing.T) manifest.Group {
	testInstance.Helper()
	group, parseError := manifest.Parse([]byte(testManifestConstant))
	require.NoError(testInstance, parseError)
	return group
}

func newTestService(testInstance *testing.T, client *stubGitClient, logger *zap.Logger) *repositories.Service {
	testInstance.Helper()
	service, serviceError := repositories.NewService(repositories.Dependencies{
		GitClient:  client,
		FileSystem: client.fileSystem,
		Logger:     logger,
	})
	require.NoError(testInstance, serviceError)
	return service
}

func statuses(result repositories.Result) []repositories.OutcomeStatus {
	collected := make([]repositories.OutcomeStatus, 0, len(result.Outcomes))
	for _, outcome := range result.Outcomes {
		collected = append(collected, outcome.Status)
	}
	return collected
}

func TestNewServiceValidatesDependencies(testInstance *testing.T) {
	_, missingClientError := repositories.NewService(repositories.Dependencies{FileSystem: filesystem.NewMemoryFileSystem()})
	require.ErrorIs(testInstance, missingClientError, repositories.ErrGitClientNotConfigured)

	_, missingFileSystemError := repositories.NewService(repositories.Dependencies{GitClient: &stubGitClient{}})
	require.ErrorIs(testInstance, missingFileSystemError, repositories.ErrFileSystemNotConfigured)
}

func TestSyncCloneClonesMissingAndSkipsPresent(testInstance *testing.T) {
	client := &stubGitClient{fileSystem: filesystem.NewMemoryFileSystem()}
	libraryDirectory := filepath.Join(testBasePathConstant, "team", "project", "library")
	require.NoError(testInstance, client.fileSystem.MkdirAll(libraryDirectory, 0o755))

	service := newTestService(testInstance, client, zap.NewNop())
	result, syncError := service.Sync(context.Background(), parseTestManifest(testInstance), repositories.Options{
		BasePath: testBasePathConstant,
		Action:   repositories.ActionClone,
	})
	require.NoError(testInstance, syncError)

	expectedCalls := []cloneCall{
		{RepositoryURL: "https://example.com/svc.git", DestinationPath: filepath.Join(testBasePathConstant, "team", "project", "svc.git")},
		{RepositoryURL: "https://example.com/handbook", DestinationPath: filepath.Join(testBasePathConstant, "docs", "handbook")},
	}
	if diff := cmp.Diff(expectedCalls, client.cloneCalls); diff != "" {
		testInstance.Fatalf("unexpected clone calls (-want +got):\n%s", diff)
	}

	require.Equal(testInstance, []repositories.OutcomeStatus{
		repositories.OutcomeCloned,
		repositories.OutcomeSkipped,
		repositories.OutcomeCloned,
	}, statuses(result))
	require.Equal(testInstance, []string{
		filepath.Join(testBasePathConstant, "team", "project", "svc.git"),
		libraryDirectory,
		filepath.Join(testBasePathConstant, "docs", "handbook"),
	}, result.Paths)
	require.Empty(testInstance, client.updateCalls)
}

func TestSyncCloneIsIdempotent(testInstance *testing.T) {
	client := &stubGitClient{fileSystem: filesystem.NewMemoryFileSystem()}
	service := newTestService(testInstance, client, zap.NewNop())
	group := parseTestManifest(testInstance)
	options := repositories.Options{BasePath: testBasePathConstant, Action: repositories.ActionClone}

	firstResult, firstError := service.Sync(context.Background(), group, options)
	require.NoError(testInstance, firstError)
	require.Len(testInstance, client.cloneCalls, 3)

	secondResult, secondError := service.Sync(context.Background(), group, options)
	require.NoError(testInstance, secondError)
	require.Len(testInstance, client.cloneCalls, 3)
	require.Equal(testInstance, firstResult.Paths, secondResult.Paths)
	for _, outcome := range secondResult.Outcomes {
		require.Equal(testInstance, repositories.OutcomeSkipped, outcome.Status)
	}
}

func TestSyncCloneContinuesAfterFailure(testInstance *testing.T) {
	svcDirectory := filepath.Join(testBasePathConstant, "team", "project", "svc.git")
	cloneFailure := &gitrepo.OperationError{Operation: gitrepo.OperationClone, RepositoryPath: svcDirectory, Cause: errors.New("exit status 128")}
	client := &stubGitClient{
		fileSystem:    filesystem.NewMemoryFileSystem(),
		cloneFailures: map[string]error{svcDirectory: cloneFailure},
	}

	observerCore, observedLogs := observer.New(zapcore.ErrorLevel)
	service := newTestService(testInstance, client, zap.New(observerCore))
	result, syncError := service.Sync(context.Background(), parseTestManifest(testInstance), repositories.Options{
		BasePath: testBasePathConstant,
		Action:   repositories.ActionClone,
	})
	require.NoError(testInstance, syncError)

	require.Len(testInstance, client.cloneCalls, 3)
	require.NotContains(testInstance, result.Paths, svcDirectory)
	require.Len(testInstance, result.Paths, 2)

	failures := result.Failures()
	require.Len(testInstance, failures, 1)
	var operationError *gitrepo.OperationError
	require.ErrorAs(testInstance, failures[0].Error, &operationError)
	require.Equal(testInstance, svcDirectory, failures[0].Directory)

	loggedFailures := observedLogs.FilterMessage("repository synchronization failed").All()
	require.Len(testInstance, loggedFailures, 1)
	require.Equal(testInstance, "https://example.com/svc.git", loggedFailures[0].ContextMap()["repository"])
	require.Equal(testInstance, svcDirectory, loggedFailures[0].ContextMap()["directory"])
}

func TestSyncUpdateSelfUpdatesThenUpdatesPresentRepositories(testInstance *testing.T) {
	handbookDirectory := filepath.Join(testBasePathConstant, "docs", "handbook")
	libraryDirectory := filepath.Join(testBasePathConstant, "team", "project", "library")
	client := &stubGitClient{
		fileSystem: filesystem.NewMemoryFileSystem(),
		updateFailures: map[string]error{
			handbookDirectory: &gitrepo.BranchNotFoundError{RepositoryPath: handbookDirectory, RemoteName: "origin", Candidates: []string{"master", "main"}},
		},
		trackingBranch: "main",
	}
	require.NoError(testInstance, client.fileSystem.MkdirAll(libraryDirectory, 0o755))
	require.NoError(testInstance, client.fileSystem.MkdirAll(handbookDirectory, 0o755))

	service := newTestService(testInstance, client, zap.NewNop())
	result, syncError := service.Sync(context.Background(), parseTestManifest(testInstance), repositories.Options{
		BasePath: testBasePathConstant,
		Action:   repositories.ActionUpdate,
	})
	require.NoError(testInstance, syncError)

	require.Equal(testInstance, []string{".", libraryDirectory, handbookDirectory}, client.updateCalls)
	require.Empty(testInstance, client.cloneCalls)
	require.Equal(testInstance, []repositories.OutcomeStatus{
		repositories.OutcomeUpdated,
		repositories.OutcomeAbsent,
		repositories.OutcomeUpdated,
		repositories.OutcomeFailed,
	}, statuses(result))
	require.True(testInstance, result.Outcomes[0].SelfUpdate)
	require.Equal(testInstance, "main", result.Outcomes[2].Branch)

	var branchError *gitrepo.BranchNotFoundError
	require.ErrorAs(testInstance, result.Outcomes[3].Error, &branchError)
	require.Len(testInstance, result.Paths, 3)
}

func TestSyncUpdateContinuesWhenSelfUpdateFails(testInstance *testing.T) {
	selfUpdateDirectory := filepath.Join("opt", "repotree")
	client := &stubGitClient{
		fileSystem:     filesystem.NewMemoryFileSystem(),
		updateFailures: map[string]error{selfUpdateDirectory: errors.New("not a git repository")},
	}
	svcDirectory := filepath.Join(testBasePathConstant, "team", "project", "svc.git")
	require.NoError(testInstance, client.fileSystem.MkdirAll(svcDirectory, 0o755))

	service := newTestService(testInstance, client, zap.NewNop())
	result, syncError := service.Sync(context.Background(), parseTestManifest(testInstance), repositories.Options{
		BasePath:       testBasePathConstant,
		Action:         repositories.ActionUpdate,
		SelfUpdatePath: selfUpdateDirectory,
	})
	require.NoError(testInstance, syncError)

	require.Equal(testInstance, []string{selfUpdateDirectory, svcDirectory}, client.updateCalls)
	require.Equal(testInstance, repositories.OutcomeFailed, result.Outcomes[0].Status)
	require.Equal(testInstance, repositories.OutcomeUpdated, result.Outcomes[1].Status)
}

func TestSyncReportsEntriesWithoutRepository(testInstance *testing.T) {
	group, parseError := manifest.Parse([]byte("team:\n  - name: orphan\n  - repository: https://example.com/svc.git\n"))
	require.NoError(testInstance, parseError)

	client := &stubGitClient{fileSystem: filesystem.NewMemoryFileSystem()}
	service := newTestService(testInstance, client, zap.NewNop())
	result, syncError := service.Sync(context.Background(), group, repositories.Options{Action: repositories.ActionClone})
	require.NoError(testInstance, syncError)

	require.Equal(testInstance, []repositories.OutcomeStatus{repositories.OutcomeFailed, repositories.OutcomeCloned}, statuses(result))
	require.ErrorIs(testInstance, result.Outcomes[0].Error, repositories.ErrRepositoryURLMissing)
	require.Equal(testInstance, []string{filepath.Join("team", "svc.git")}, result.Paths)
}

func TestSyncRejectsUnsupportedAction(testInstance *testing.T) {
	client := &stubGitClient{fileSystem: filesystem.NewMemoryFileSystem()}
	service := newTestService(testInstance, client, zap.NewNop())
	_, syncError := service.Sync(context.Background(), parseTestManifest(testInstance), repositories.Options{Action: "pull"})
	require.ErrorIs(testInstance, syncError, repositories.ErrUnsupportedAction)
	require.Empty(testInstance, client.cloneCalls)
	require.Empty(testInstance, client.updateCalls)
}

func TestResultFailuresIgnoresOtherStatuses(testInstance *testing.T) {
	result := repositories.Result{Outcomes: []repositories.Outcome{
		{Directory: "a", Status: repositories.OutcomeCloned},
		{Directory: "b", Status: repositories.OutcomeFailed},
		{Directory: "c", Status: repositories.OutcomeSkipped},
	}}
	expected := []repositories.Outcome{{Directory: "b", Status: repositories.OutcomeFailed}}
	if diff := cmp.Diff(expected, result.Failures(), cmpopts.EquateErrors()); diff != "" {
		testInstance.Fatalf("unexpected failures (-want +got):\n%s", diff)
	}
}
