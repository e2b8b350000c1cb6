package gitrepo

import (
	"fmt"
	"strings"
)

const (
	operationErrorTemplateConstant      = "git %s failed for %s: %v"
	branchNotFoundErrorTemplateConstant = "none of the tracking branches %s exist on remote %s for %s"
	branchListSeparatorConstant         = ", "
	quotedBranchTemplateConstant        = "%q"
)

// Operation names a git action performed by Client.
type Operation string

// Supported operations.
const (
	OperationClone   Operation = "clone"
	OperationFetch   Operation = "fetch"
	OperationMerge   Operation = "merge"
	OperationShowRef Operation = "show-ref"
)

// OperationError reports a git invocation that failed for a repository.
type OperationError struct {
	Operation      Operation
	RepositoryPath string
	Cause          error
}

// Error describes the failed operation.
func (operationError *OperationError) Error() string {
	return fmt.Sprintf(operationErrorTemplateConstant, operationError.Operation, operationError.RepositoryPath, operationError.Cause)
}

// Unwrap exposes the execution failure.
func (operationError *OperationError) Unwrap() error {
	return operationError.Cause
}

// BranchNotFoundError reports that no candidate tracking branch exists for a repository.
type BranchNotFoundError struct {
	RepositoryPath string
	RemoteName     string
	Candidates     []string
}

// Error describes the missing branches.
func (branchError *BranchNotFoundError) Error() string {
	quotedCandidates := make([]string, 0, len(branchError.Candidates))
	for _, candidate := range branchError.Candidates {
		quotedCandidates = append(quotedCandidates, fmt.Sprintf(quotedBranchTemplateConstant, candidate))
	}
	return fmt.Sprintf(branchNotFoundErrorTemplateConstant, strings.Join(quotedCandidates, branchListSeparatorConstant), branchError.RemoteName, branchError.RepositoryPath)
}
