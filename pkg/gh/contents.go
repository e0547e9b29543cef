package gh

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
)

// CreateFile creates a single file on a branch through the contents
// API. The API rejects the call when the path already exists and no
// sha was supplied, which callers detect with IsConflict.
func (c *Client) CreateFile(ctx context.Context, owner string, repo string, path string, message string, content []byte, branch string) error {
	payload := struct {
		Message string `json:"message"`
		Content string `json:"content"`
		Branch  string `json:"branch,omitempty"`
	}{
		Message: message,
		Content: base64.StdEncoding.EncodeToString(content),
		Branch:  branch,
	}

	endpoint := fmt.Sprintf("/repos/%s/%s/contents/%s", owner, repo, escapePath(path))
	return c.do(ctx, http.MethodPut, endpoint, payload, nil)
}
