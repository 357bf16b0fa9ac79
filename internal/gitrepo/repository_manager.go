// Package gitrepo exposes repository-level git operations built on the shell executor.
package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/temirov/repostat/internal/execshell"
	"github.com/temirov/repostat/internal/repos/shared"
)

const (
	symbolicRefSubcommandConstant        = "symbolic-ref"
	symbolicRefShortFlagConstant         = "--short"
	symbolicRefQuietFlagConstant         = "-q"
	headReferenceConstant                = "HEAD"
	revParseSubcommandConstant           = "rev-parse"
	revParseAbbreviatedRefFlagConstant   = "--abbrev-ref"
	revParseSymbolicFullNameFlagConstant = "--symbolic-full-name"
	upstreamReferenceConstant            = "@{u}"
	revListSubcommandConstant            = "rev-list"
	revListLeftRightFlagConstant         = "--left-right"
	revListCountFlagConstant             = "--count"
	revisionRangeSeparatorConstant       = "..."
	fetchSubcommandConstant              = "fetch"
	fetchQuietFlagConstant               = "-q"
	fetchNoTagsFlagConstant              = "--no-tags"
	fetchNoRecurseSubmodulesFlagConstant = "--no-recurse-submodules"
	statusSubcommandConstant             = "status"
	statusPorcelainFlagConstant          = "--porcelain"

	untrackedStatusPrefixConstant = "??"
	addedStatusCodeConstant       = 'A'
	modifiedStatusCodeConstant    = 'M'
	unmodifiedStatusCodeConstant  = ' '

	executorNotConfiguredMessageConstant    = "git executor not configured"
	currentBranchErrorTemplateConstant      = "failed to determine current branch for %s: %w"
	upstreamBranchErrorTemplateConstant     = "failed to determine upstream branch for %s: %w"
	divergenceErrorTemplateConstant         = "failed to count branch divergence for %s: %w"
	divergenceParseErrorTemplateConstant    = "unexpected rev-list count output %q for %s"
	fetchErrorTemplateConstant              = "failed to fetch remote %s for %s: %w"
	worktreeStatusErrorTemplateConstant     = "failed to read worktree status for %s: %w"
	divergenceCountFieldExpectationConstant = 2
)

// ErrExecutorNotConfigured indicates the repository manager was constructed without a git executor.
var ErrExecutorNotConfigured = errors.New(executorNotConfiguredMessageConstant)

// RepositoryManager implements repository-level git operations using a shared.GitExecutor.
type RepositoryManager struct {
	executor shared.GitExecutor
}

// NewRepositoryManager validates the executor and constructs a RepositoryManager.
func NewRepositoryManager(executor shared.GitExecutor) (*RepositoryManager, error) {
	if executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	return &RepositoryManager{executor: executor}, nil
}

// GetCurrentBranch resolves the branch HEAD points at. Detached HEAD states
// surface shared.ErrNoSymbolicBranch.
func (manager *RepositoryManager) GetCurrentBranch(executionContext context.Context, repositoryPath string) (string, error) {
	commandDetails := execshell.CommandDetails{
		Arguments:        []string{symbolicRefSubcommandConstant, symbolicRefShortFlagConstant, symbolicRefQuietFlagConstant, headReferenceConstant},
		WorkingDirectory: repositoryPath,
	}

	executionResult, executionError := manager.executor.ExecuteGit(executionContext, commandDetails)
	if executionError != nil {
		var commandFailure execshell.CommandFailedError
		if errors.As(executionError, &commandFailure) {
			return "", shared.ErrNoSymbolicBranch
		}
		return "", fmt.Errorf(currentBranchErrorTemplateConstant, repositoryPath, executionError)
	}

	return strings.TrimSpace(executionResult.StandardOutput), nil
}

// GetUpstreamBranch resolves the upstream tracking branch of the current
// branch. Branches without an upstream surface shared.ErrNoUpstreamConfigured.
func (manager *RepositoryManager) GetUpstreamBranch(executionContext context.Context, repositoryPath string) (string, error) {
	commandDetails := execshell.CommandDetails{
		Arguments:        []string{revParseSubcommandConstant, revParseAbbreviatedRefFlagConstant, revParseSymbolicFullNameFlagConstant, upstreamReferenceConstant},
		WorkingDirectory: repositoryPath,
	}

	executionResult, executionError := manager.executor.ExecuteGit(executionContext, commandDetails)
	if executionError != nil {
		var commandFailure execshell.CommandFailedError
		if errors.As(executionError, &commandFailure) {
			return "", shared.ErrNoUpstreamConfigured
		}
		return "", fmt.Errorf(upstreamBranchErrorTemplateConstant, repositoryPath, executionError)
	}

	return strings.TrimSpace(executionResult.StandardOutput), nil
}

// CountBranchDivergence counts commits reachable from only one side of the
// local and upstream branch pair.
func (manager *RepositoryManager) CountBranchDivergence(executionContext context.Context, repositoryPath string, localBranch string, upstreamBranch string) (shared.BranchDivergence, error) {
	revisionRange := localBranch + revisionRangeSeparatorConstant + upstreamBranch
	commandDetails := execshell.CommandDetails{
		Arguments:        []string{revListSubcommandConstant, revListLeftRightFlagConstant, revListCountFlagConstant, revisionRange},
		WorkingDirectory: repositoryPath,
	}

	executionResult, executionError := manager.executor.ExecuteGit(executionContext, commandDetails)
	if executionError != nil {
		return shared.BranchDivergence{}, fmt.Errorf(divergenceErrorTemplateConstant, repositoryPath, executionError)
	}

	countFields := strings.Fields(strings.TrimSpace(executionResult.StandardOutput))
	if len(countFields) != divergenceCountFieldExpectationConstant {
		return shared.BranchDivergence{}, fmt.Errorf(divergenceParseErrorTemplateConstant, executionResult.StandardOutput, repositoryPath)
	}

	unpushedCommitCount, unpushedParseError := strconv.Atoi(countFields[0])
	if unpushedParseError != nil {
		return shared.BranchDivergence{}, fmt.Errorf(divergenceParseErrorTemplateConstant, executionResult.StandardOutput, repositoryPath)
	}

	unpulledCommitCount, unpulledParseError := strconv.Atoi(countFields[1])
	if unpulledParseError != nil {
		return shared.BranchDivergence{}, fmt.Errorf(divergenceParseErrorTemplateConstant, executionResult.StandardOutput, repositoryPath)
	}

	return shared.BranchDivergence{
		UnpushedCommitCount: unpushedCommitCount,
		UnpulledCommitCount: unpulledCommitCount,
	}, nil
}

// FetchRemote refreshes remote tracking references without tags or submodules.
func (manager *RepositoryManager) FetchRemote(executionContext context.Context, repositoryPath string, remoteName string) error {
	commandDetails := execshell.CommandDetails{
		Arguments:        []string{fetchSubcommandConstant, fetchQuietFlagConstant, fetchNoTagsFlagConstant, fetchNoRecurseSubmodulesFlagConstant, remoteName},
		WorkingDirectory: repositoryPath,
	}

	_, executionError := manager.executor.ExecuteGit(executionContext, commandDetails)
	if executionError != nil {
		return fmt.Errorf(fetchErrorTemplateConstant, remoteName, repositoryPath, executionError)
	}
	return nil
}

// GetWorktreeStatus parses the porcelain status listing into flag categories.
func (manager *RepositoryManager) GetWorktreeStatus(executionContext context.Context, repositoryPath string) (shared.WorktreeStatus, error) {
	commandDetails := execshell.CommandDetails{
		Arguments:        []string{statusSubcommandConstant, statusPorcelainFlagConstant},
		WorkingDirectory: repositoryPath,
	}

	executionResult, executionError := manager.executor.ExecuteGit(executionContext, commandDetails)
	if executionError != nil {
		return shared.WorktreeStatus{}, fmt.Errorf(worktreeStatusErrorTemplateConstant, repositoryPath, executionError)
	}

	return parseWorktreeStatus(executionResult.StandardOutput), nil
}

func parseWorktreeStatus(porcelainOutput string) shared.WorktreeStatus {
	worktreeStatus := shared.WorktreeStatus{}
	for _, statusLine := range strings.Split(porcelainOutput, "\n") {
		if len(statusLine) < 2 {
			continue
		}
		if strings.HasPrefix(statusLine, untrackedStatusPrefixConstant) {
			worktreeStatus.HasUntrackedFiles = true
			continue
		}

		indexStatusCode := statusLine[0]
		worktreeStatusCode := statusLine[1]
		switch {
		case indexStatusCode == addedStatusCodeConstant:
			worktreeStatus.HasStagedChanges = true
		case indexStatusCode == modifiedStatusCodeConstant || worktreeStatusCode == modifiedStatusCodeConstant:
			worktreeStatus.HasModifiedFiles = true
		case indexStatusCode != unmodifiedStatusCodeConstant || worktreeStatusCode != unmodifiedStatusCodeConstant:
			worktreeStatus.HasOtherChanges = true
		}
	}
	return worktreeStatus
}
