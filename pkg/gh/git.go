package gh

import (
	"context"
	"fmt"
	"net/http"
)

// TreeEntry is one path in a tree creation request. Content goes
// inline; GitHub creates the blob server side.
type TreeEntry struct {
	Path    string `json:"path"`
	Mode    string `json:"mode"`
	Type    string `json:"type"`
	Content string `json:"content"`
}

// BranchTip identifies a branch head commit and its root tree.
type BranchTip struct {
	CommitSHA string
	TreeSHA   string
}

// GetBranch resolves the tip of a branch. ErrNotFound means the branch
// doesn't exist (possibly an empty repository).
func (c *Client) GetBranch(ctx context.Context, owner string, repo string, branch string) (*BranchTip, error) {
	var result struct {
		Commit struct {
			SHA    string `json:"sha"`
			Commit struct {
				Tree struct {
					SHA string `json:"sha"`
				} `json:"tree"`
			} `json:"commit"`
		} `json:"commit"`
	}

	endpoint := fmt.Sprintf("/repos/%s/%s/branches/%s", owner, repo, branch)
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &result); err != nil {
		return nil, err
	}

	return &BranchTip{
		CommitSHA: result.Commit.SHA,
		TreeSHA:   result.Commit.Commit.Tree.SHA,
	}, nil
}

// CreateTree creates a tree from entries, layered over baseTree when
// one is given, and returns the new tree sha.
func (c *Client) CreateTree(ctx context.Context, owner string, repo string, entries []TreeEntry, baseTree string) (string, error) {
	payload := struct {
		BaseTree string      `json:"base_tree,omitempty"`
		Tree     []TreeEntry `json:"tree"`
	}{
		BaseTree: baseTree,
		Tree:     entries,
	}

	var result struct {
		SHA string `json:"sha"`
	}

	endpoint := fmt.Sprintf("/repos/%s/%s/git/trees", owner, repo)
	if err := c.do(ctx, http.MethodPost, endpoint, payload, &result); err != nil {
		return "", err
	}

	return result.SHA, nil
}

// CreateCommit creates a commit pointing at treeSHA and returns the
// commit sha. parents may be empty for an initial commit.
func (c *Client) CreateCommit(ctx context.Context, owner string, repo string, message string, treeSHA string, parents []string) (string, error) {
	if parents == nil {
		parents = []string{}
	}

	payload := struct {
		Message string   `json:"message"`
		Tree    string   `json:"tree"`
		Parents []string `json:"parents"`
	}{
		Message: message,
		Tree:    treeSHA,
		Parents: parents,
	}

	var result struct {
		SHA string `json:"sha"`
	}

	endpoint := fmt.Sprintf("/repos/%s/%s/git/commits", owner, repo)
	if err := c.do(ctx, http.MethodPost, endpoint, payload, &result); err != nil {
		return "", err
	}

	return result.SHA, nil
}

// UpdateRef moves an existing branch head to sha.
func (c *Client) UpdateRef(ctx context.Context, owner string, repo string, branch string, sha string) error {
	payload := struct {
		SHA string `json:"sha"`
	}{SHA: sha}

	endpoint := fmt.Sprintf("/repos/%s/%s/git/refs/heads/%s", owner, repo, branch)
	return c.do(ctx, http.MethodPatch, endpoint, payload, nil)
}

// CreateRef creates a new branch pointing at sha.
func (c *Client) CreateRef(ctx context.Context, owner string, repo string, branch string, sha string) error {
	payload := struct {
		Ref string `json:"ref"`
		SHA string `json:"sha"`
	}{
		Ref: "refs/heads/" + branch,
		SHA: sha,
	}

	endpoint := fmt.Sprintf("/repos/%s/%s/git/refs", owner, repo)
	return c.do(ctx, http.MethodPost, endpoint, payload, nil)
}
