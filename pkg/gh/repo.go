package gh

import (
	"context"
	"fmt"
	"net/http"
)

// Repo describes the publish destination repository.
type Repo struct {
	FullName      string `json:"full_name"`
	Private       bool   `json:"private"`
	DefaultBranch string `json:"default_branch"`
}

// User is the authenticated token owner.
type User struct {
	Login string `json:"login"`
}

// GetRepo fetches the repository metadata. It doubles as the access
// probe: a bad token surfaces as ErrInvalidToken, a missing or
// inaccessible repository as ErrNotFound.
func (c *Client) GetRepo(ctx context.Context, owner string, repo string) (*Repo, error) {
	var result Repo

	endpoint := fmt.Sprintf("/repos/%s/%s", owner, repo)
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// GetUser fetches the login of the token owner.
func (c *Client) GetUser(ctx context.Context) (*User, error) {
	var result User

	if err := c.do(ctx, http.MethodGet, "/user", nil, &result); err != nil {
		return nil, err
	}

	return &result, nil
}
