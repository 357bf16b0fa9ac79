// Package shared declares the cross-cutting types and capability interfaces
// used by repository scanning services.
package shared

import (
	"context"
	"io/fs"
	"time"

	"github.com/temirov/repostat/internal/execshell"
)

const (
	// OriginRemoteNameConstant identifies the default remote contacted when refreshing remote tracking state.
	OriginRemoteNameConstant = "origin"
)

// ErrNoSymbolicBranch indicates the repository HEAD does not point at a branch.
var ErrNoSymbolicBranch = errNoSymbolicBranch{}

// ErrNoUpstreamConfigured indicates the current branch has no upstream tracking reference.
var ErrNoUpstreamConfigured = errNoUpstreamConfigured{}

type errNoSymbolicBranch struct{}

func (errNoSymbolicBranch) Error() string {
	return "repository HEAD is not on a branch"
}

type errNoUpstreamConfigured struct{}

func (errNoUpstreamConfigured) Error() string {
	return "current branch has no upstream tracking reference"
}

// BranchDivergence counts commits that separate a local branch from its upstream.
type BranchDivergence struct {
	UnpushedCommitCount int
	UnpulledCommitCount int
}

// WorktreeStatus summarizes uncommitted state reported by the porcelain status listing.
type WorktreeStatus struct {
	HasUntrackedFiles bool
	HasStagedChanges  bool
	HasModifiedFiles  bool
	HasOtherChanges   bool
}

// IsClean reports whether the worktree carries no uncommitted state of any kind.
func (status WorktreeStatus) IsClean() bool {
	return !status.HasUntrackedFiles && !status.HasStagedChanges && !status.HasModifiedFiles && !status.HasOtherChanges
}

// Clock abstracts time acquisition for deterministic testing.
type Clock interface {
	Now() time.Time
}

// SystemClock implements Clock using the system time source.
type SystemClock struct{}

// Now returns the current system time.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// FileSystem exposes filesystem operations required by repository scanning.
type FileSystem interface {
	Stat(path string) (fs.FileInfo, error)
	Abs(path string) (string, error)
}

// GitExecutor exposes the subset of shell execution used by repository services.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// GitRepositoryManager exposes the repository-level git operations needed to report status.
type GitRepositoryManager interface {
	GetCurrentBranch(executionContext context.Context, repositoryPath string) (string, error)
	GetUpstreamBranch(executionContext context.Context, repositoryPath string) (string, error)
	CountBranchDivergence(executionContext context.Context, repositoryPath string, localBranch string, upstreamBranch string) (BranchDivergence, error)
	FetchRemote(executionContext context.Context, repositoryPath string, remoteName string) error
	GetWorktreeStatus(executionContext context.Context, repositoryPath string) (WorktreeStatus, error)
}

// RepositoryDiscoverer locates Git repositories beneath scan roots.
type RepositoryDiscoverer interface {
	DiscoverRepositories(roots []string) ([]string, error)
}
