package status

import (
	"context"
	"io/fs"
	"time"

	"github.com/temirov/repostat/internal/repos/shared"
)

// RepositoryDiscoverer finds git repositories rooted under the provided paths.
type RepositoryDiscoverer interface {
	DiscoverRepositories(roots []string) ([]string, error)
}

// GitRepositoryManager exposes repository-level git operations used by the scan.
type GitRepositoryManager interface {
	GetCurrentBranch(executionContext context.Context, repositoryPath string) (string, error)
	GetUpstreamBranch(executionContext context.Context, repositoryPath string) (string, error)
	CountBranchDivergence(executionContext context.Context, repositoryPath string, localBranch string, upstreamBranch string) (shared.BranchDivergence, error)
	FetchRemote(executionContext context.Context, repositoryPath string, remoteName string) error
	GetWorktreeStatus(executionContext context.Context, repositoryPath string) (shared.WorktreeStatus, error)
}

// FileSystem provides filesystem operations required by root resolution.
type FileSystem interface {
	Stat(path string) (fs.FileInfo, error)
	Abs(path string) (string, error)
}

// Clock abstracts time acquisition for scan duration reporting.
type Clock interface {
	Now() time.Time
}
