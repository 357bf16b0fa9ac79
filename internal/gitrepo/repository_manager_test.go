package gitrepo_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/repostat/internal/execshell"
	"github.com/temirov/repostat/internal/gitrepo"
	"github.com/temirov/repostat/internal/repos/shared"
)

const (
	testRepositoryPathConstant               = "/workspace/sample"
	testBranchNameConstant                   = "main"
	testUpstreamBranchNameConstant           = "origin/main"
	testRemoteNameConstant                   = "origin"
	testArgumentsJoinSeparatorConstant       = " "
	currentBranchCommandConstant             = "symbolic-ref --short -q HEAD"
	upstreamBranchCommandConstant            = "rev-parse --abbrev-ref --symbolic-full-name @{u}"
	divergenceCommandConstant                = "rev-list --left-right --count main...origin/main"
	fetchCommandConstant                     = "fetch -q --no-tags --no-recurse-submodules origin"
	worktreeStatusCommandConstant            = "status --porcelain"
	repositoryManagerSubtestTemplateConstant = "%d_%s"
)

type stubGitExecutor struct {
	resultsByCommand map[string]execshell.ExecutionResult
	errorsByCommand  map[string]error
	executedCommands []string
}

func (executor *stubGitExecutor) ExecuteGit(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	commandKey := strings.Join(details.Arguments, testArgumentsJoinSeparatorConstant)
	executor.executedCommands = append(executor.executedCommands, commandKey)
	if commandError, errorExists := executor.errorsByCommand[commandKey]; errorExists {
		return execshell.ExecutionResult{}, commandError
	}
	return executor.resultsByCommand[commandKey], nil
}

func commandFailure(arguments []string, exitCode int) error {
	return execshell.CommandFailedError{
		Command: execshell.ShellCommand{Name: execshell.CommandGit, Details: execshell.CommandDetails{Arguments: arguments}},
		Result:  execshell.ExecutionResult{ExitCode: exitCode},
	}
}

func TestRepositoryManagerGetCurrentBranch(testInstance *testing.T) {
	testCases := []struct {
		name            string
		commandOutput   string
		commandError    error
		expectedBranch  string
		expectedFailure error
	}{
		{
			name:           "resolves_branch_name",
			commandOutput:  testBranchNameConstant + "\n",
			expectedBranch: testBranchNameConstant,
		},
		{
			name:            "detached_head_surfaces_sentinel",
			commandError:    commandFailure([]string{"symbolic-ref"}, 1),
			expectedFailure: shared.ErrNoSymbolicBranch,
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(repositoryManagerSubtestTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			executor := &stubGitExecutor{
				resultsByCommand: map[string]execshell.ExecutionResult{
					currentBranchCommandConstant: {StandardOutput: testCase.commandOutput},
				},
				errorsByCommand: map[string]error{},
			}
			if testCase.commandError != nil {
				executor.errorsByCommand[currentBranchCommandConstant] = testCase.commandError
			}

			repositoryManager, constructionError := gitrepo.NewRepositoryManager(executor)
			require.NoError(testInstance, constructionError)

			branchName, branchError := repositoryManager.GetCurrentBranch(context.Background(), testRepositoryPathConstant)
			if testCase.expectedFailure != nil {
				require.ErrorIs(testInstance, branchError, testCase.expectedFailure)
				return
			}
			require.NoError(testInstance, branchError)
			require.Equal(testInstance, testCase.expectedBranch, branchName)
			require.Equal(testInstance, []string{currentBranchCommandConstant}, executor.executedCommands)
		})
	}
}

func TestRepositoryManagerGetUpstreamBranch(testInstance *testing.T) {
	testCases := []struct {
		name             string
		commandOutput    string
		commandError     error
		expectedUpstream string
		expectedFailure  error
	}{
		{
			name:             "resolves_upstream_name",
			commandOutput:    testUpstreamBranchNameConstant + "\n",
			expectedUpstream: testUpstreamBranchNameConstant,
		},
		{
			name:            "missing_upstream_surfaces_sentinel",
			commandError:    commandFailure([]string{"rev-parse"}, 128),
			expectedFailure: shared.ErrNoUpstreamConfigured,
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(repositoryManagerSubtestTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			executor := &stubGitExecutor{
				resultsByCommand: map[string]execshell.ExecutionResult{
					upstreamBranchCommandConstant: {StandardOutput: testCase.commandOutput},
				},
				errorsByCommand: map[string]error{},
			}
			if testCase.commandError != nil {
				executor.errorsByCommand[upstreamBranchCommandConstant] = testCase.commandError
			}

			repositoryManager, constructionError := gitrepo.NewRepositoryManager(executor)
			require.NoError(testInstance, constructionError)

			upstreamName, upstreamError := repositoryManager.GetUpstreamBranch(context.Background(), testRepositoryPathConstant)
			if testCase.expectedFailure != nil {
				require.ErrorIs(testInstance, upstreamError, testCase.expectedFailure)
				return
			}
			require.NoError(testInstance, upstreamError)
			require.Equal(testInstance, testCase.expectedUpstream, upstreamName)
		})
	}
}

func TestRepositoryManagerCountBranchDivergence(testInstance *testing.T) {
	testCases := []struct {
		name               string
		commandOutput      string
		expectedDivergence shared.BranchDivergence
		expectParseFailure bool
	}{
		{
			name:               "counts_unpushed_and_unpulled_commits",
			commandOutput:      "3\t1\n",
			expectedDivergence: shared.BranchDivergence{UnpushedCommitCount: 3, UnpulledCommitCount: 1},
		},
		{
			name:               "counts_in_sync_branches",
			commandOutput:      "0\t0\n",
			expectedDivergence: shared.BranchDivergence{},
		},
		{
			name:               "rejects_malformed_counts",
			commandOutput:      "many\n",
			expectParseFailure: true,
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(repositoryManagerSubtestTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			executor := &stubGitExecutor{
				resultsByCommand: map[string]execshell.ExecutionResult{
					divergenceCommandConstant: {StandardOutput: testCase.commandOutput},
				},
			}

			repositoryManager, constructionError := gitrepo.NewRepositoryManager(executor)
			require.NoError(testInstance, constructionError)

			branchDivergence, divergenceError := repositoryManager.CountBranchDivergence(context.Background(), testRepositoryPathConstant, testBranchNameConstant, testUpstreamBranchNameConstant)
			if testCase.expectParseFailure {
				require.Error(testInstance, divergenceError)
				return
			}
			require.NoError(testInstance, divergenceError)
			require.Equal(testInstance, testCase.expectedDivergence, branchDivergence)
			require.Equal(testInstance, []string{divergenceCommandConstant}, executor.executedCommands)
		})
	}
}

func TestRepositoryManagerFetchRemote(testInstance *testing.T) {
	executor := &stubGitExecutor{
		resultsByCommand: map[string]execshell.ExecutionResult{},
	}

	repositoryManager, constructionError := gitrepo.NewRepositoryManager(executor)
	require.NoError(testInstance, constructionError)

	fetchError := repositoryManager.FetchRemote(context.Background(), testRepositoryPathConstant, testRemoteNameConstant)
	require.NoError(testInstance, fetchError)
	require.Equal(testInstance, []string{fetchCommandConstant}, executor.executedCommands)
}

func TestRepositoryManagerGetWorktreeStatus(testInstance *testing.T) {
	testCases := []struct {
		name           string
		porcelainLines string
		expectedStatus shared.WorktreeStatus
	}{
		{
			name:           "clean_worktree",
			porcelainLines: "",
			expectedStatus: shared.WorktreeStatus{},
		},
		{
			name:           "untracked_files",
			porcelainLines: "?? notes.txt\n",
			expectedStatus: shared.WorktreeStatus{HasUntrackedFiles: true},
		},
		{
			name:           "staged_addition",
			porcelainLines: "A  feature.go\n",
			expectedStatus: shared.WorktreeStatus{HasStagedChanges: true},
		},
		{
			name:           "modified_worktree_file",
			porcelainLines: " M main.go\n",
			expectedStatus: shared.WorktreeStatus{HasModifiedFiles: true},
		},
		{
			name:           "staged_modification",
			porcelainLines: "M  main.go\n",
			expectedStatus: shared.WorktreeStatus{HasModifiedFiles: true},
		},
		{
			name:           "deleted_file_counts_as_other_change",
			porcelainLines: "D  removed.go\n",
			expectedStatus: shared.WorktreeStatus{HasOtherChanges: true},
		},
		{
			name:           "mixed_states_combine",
			porcelainLines: "?? notes.txt\nA  feature.go\n M main.go\n",
			expectedStatus: shared.WorktreeStatus{HasUntrackedFiles: true, HasStagedChanges: true, HasModifiedFiles: true},
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(repositoryManagerSubtestTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			executor := &stubGitExecutor{
				resultsByCommand: map[string]execshell.ExecutionResult{
					worktreeStatusCommandConstant: {StandardOutput: testCase.porcelainLines},
				},
			}

			repositoryManager, constructionError := gitrepo.NewRepositoryManager(executor)
			require.NoError(testInstance, constructionError)

			worktreeStatus, statusError := repositoryManager.GetWorktreeStatus(context.Background(), testRepositoryPathConstant)
			require.NoError(testInstance, statusError)
			require.Equal(testInstance, testCase.expectedStatus, worktreeStatus)
			require.Equal(testInstance, worktreeStatus.IsClean(), worktreeStatus == shared.WorktreeStatus{})
		})
	}
}

func TestNewRepositoryManagerRequiresExecutor(testInstance *testing.T) {
	repositoryManager, constructionError := gitrepo.NewRepositoryManager(nil)
	require.Nil(testInstance, repositoryManager)
	require.True(testInstance, errors.Is(constructionError, gitrepo.ErrExecutorNotConfigured))
}
