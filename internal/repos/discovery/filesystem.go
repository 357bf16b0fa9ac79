// Package discovery locates git repositories beneath scan roots.
package discovery

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

const (
	gitMetadataDirectoryNameConstant = ".git"
	currentDirectoryRelativeConstant = "."
)

// UnboundedTraversalDepth disables the traversal depth limit.
const UnboundedTraversalDepth = 0

// FilesystemRepositoryDiscoverer locates git repositories on disk, descending
// at most maximumTraversalDepth directory levels below each root.
type FilesystemRepositoryDiscoverer struct {
	maximumTraversalDepth int
}

// NewFilesystemRepositoryDiscoverer constructs a repository discoverer backed by
// filepath.WalkDir. A maximumTraversalDepth of UnboundedTraversalDepth removes
// the depth limit.
func NewFilesystemRepositoryDiscoverer(maximumTraversalDepth int) *FilesystemRepositoryDiscoverer {
	return &FilesystemRepositoryDiscoverer{maximumTraversalDepth: maximumTraversalDepth}
}

// DiscoverRepositories walks the provided roots and returns directories containing a .git entry.
// Unreadable directories are skipped rather than failing the walk.
func (discoverer *FilesystemRepositoryDiscoverer) DiscoverRepositories(roots []string) ([]string, error) {
	seen := make(map[string]struct{})
	var repositories []string

	for _, root := range roots {
		walkError := filepath.WalkDir(root, func(path string, directoryEntry fs.DirEntry, walkError error) error {
			if walkError != nil {
				return nil
			}

			if directoryEntry.Name() == gitMetadataDirectoryNameConstant {
				repositoryPath := filepath.Dir(path)
				if _, alreadySeen := seen[repositoryPath]; !alreadySeen {
					seen[repositoryPath] = struct{}{}
					repositories = append(repositories, repositoryPath)
				}
				if directoryEntry.IsDir() {
					return fs.SkipDir
				}
				return nil
			}

			if discoverer.maximumTraversalDepth > UnboundedTraversalDepth && directoryEntry.IsDir() {
				if traversalDepth(root, path) >= discoverer.maximumTraversalDepth {
					return fs.SkipDir
				}
			}
			return nil
		})
		if walkError != nil {
			return nil, walkError
		}
	}

	sort.Strings(repositories)
	return repositories, nil
}

func traversalDepth(root string, path string) int {
	relativePath, relativeError := filepath.Rel(root, path)
	if relativeError != nil || relativePath == currentDirectoryRelativeConstant {
		return 0
	}
	return strings.Count(relativePath, string(filepath.Separator)) + 1
}
