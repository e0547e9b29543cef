package publish

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ghpush/ghpush/pkg/gh"
)

// Atomic publishes files as a single commit: one tree layered over the
// resolved base, one commit with the branch tip as sole parent, one
// ref update. Any remote failure aborts the run. It returns the new
// commit sha.
//
// Tree entries go inline as text, so non-UTF8 bytes are replaced;
// binary fidelity is the incremental strategy's job.
func Atomic(ctx context.Context, log logger, client api, target Target, files map[string][]byte, message string) (string, error) {
	base, baseBranch, err := resolveBase(ctx, client, target)
	if err != nil {
		return "", fmt.Errorf("failed to resolve branch %s: %v", target.Branch, err)
	}

	if base == nil {
		log.Infof("branch %s not found, starting from an empty repository", target.Branch)
	} else {
		log.Infof("using branch %s at %s", baseBranch, short(base.CommitSHA))
	}

	entries := make([]gh.TreeEntry, 0, len(files))
	for _, path := range sortedPaths(files) {
		entries = append(entries, gh.TreeEntry{
			Path:    path,
			Mode:    blobMode,
			Type:    "blob",
			Content: strings.ToValidUTF8(string(files[path]), "�"),
		})
	}

	var baseTree string
	var parents []string
	if base != nil {
		baseTree = base.TreeSHA
		parents = []string{base.CommitSHA}
	}

	treeSHA, err := client.CreateTree(ctx, target.Owner, target.Repo, entries, baseTree)
	if err != nil {
		return "", fmt.Errorf("failed to create tree: %v", err)
	}
	log.Infof("created tree %s", short(treeSHA))

	commitSHA, err := client.CreateCommit(ctx, target.Owner, target.Repo, message, treeSHA, parents)
	if err != nil {
		return "", fmt.Errorf("failed to create commit: %v", err)
	}
	log.Infof("created commit %s", short(commitSHA))

	if base == nil {
		if err := client.CreateRef(ctx, target.Owner, target.Repo, target.Branch, commitSHA); err != nil {
			return "", fmt.Errorf("failed to create branch %s: %v", target.Branch, err)
		}
		log.Infof("created branch %s", target.Branch)
		return commitSHA, nil
	}

	if err := client.UpdateRef(ctx, target.Owner, target.Repo, baseBranch, commitSHA); err != nil {
		return "", fmt.Errorf("failed to update branch %s: %v", baseBranch, err)
	}
	log.Infof("updated branch %s", baseBranch)

	return commitSHA, nil
}

// resolveBase finds the current tip of the configured branch, falling
// back to master. A nil tip with no error means the repository has no
// matching branch yet (empty repository).
func resolveBase(ctx context.Context, client api, target Target) (*gh.BranchTip, string, error) {
	candidates := []string{target.Branch}
	if target.Branch != FallbackBranch {
		candidates = append(candidates, FallbackBranch)
	}

	for _, branch := range candidates {
		tip, err := client.GetBranch(ctx, target.Owner, target.Repo, branch)
		if err == nil {
			return tip, branch, nil
		}
		if !errors.Is(err, gh.ErrNotFound) {
			return nil, "", err
		}
	}

	return nil, "", nil
}
