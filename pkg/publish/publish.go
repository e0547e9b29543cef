// Package publish pushes a collected file set to a remote repository,
// either as a single atomic commit or file by file.
package publish

import (
	"context"
	"sort"

	"github.com/ghpush/ghpush/pkg/gh"
)

// FallbackBranch is tried when the configured branch doesn't exist.
const FallbackBranch = "master"

const blobMode = "100644"

// Target identifies the publish destination.
type Target struct {
	Owner  string
	Repo   string
	Branch string
}

type logger interface {
	Infof(format string, args ...interface{})
}

// api is the subset of the GitHub client the publishers consume.
type api interface {
	GetBranch(ctx context.Context, owner string, repo string, branch string) (*gh.BranchTip, error)
	CreateTree(ctx context.Context, owner string, repo string, entries []gh.TreeEntry, baseTree string) (string, error)
	CreateCommit(ctx context.Context, owner string, repo string, message string, treeSHA string, parents []string) (string, error)
	UpdateRef(ctx context.Context, owner string, repo string, branch string, sha string) error
	CreateRef(ctx context.Context, owner string, repo string, branch string, sha string) error
	CreateFile(ctx context.Context, owner string, repo string, path string, message string, content []byte, branch string) error
}

func sortedPaths(files map[string][]byte) []string {
	paths := make([]string, 0, len(files))
	for path := range files {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

func short(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}
