package gh

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetRepo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/alice/project", r.URL.Path)
		assert.Equal(t, "Bearer sometoken", r.Header.Get("Authorization"))
		fmt.Fprint(w, `{"full_name":"alice/project","private":true,"default_branch":"main"}`)
	}))
	defer srv.Close()

	client := New("sometoken", srv.URL)

	repo, err := client.GetRepo(context.Background(), "alice", "project")
	assert.NoError(t, err)
	assert.Equal(t, "alice/project", repo.FullName)
	assert.True(t, repo.Private)
	assert.Equal(t, "main", repo.DefaultBranch)
}

func TestGetRepoErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		header   map[string]string
		expected error
	}{
		{"bad token", http.StatusUnauthorized, nil, ErrInvalidToken},
		{"missing repo", http.StatusNotFound, nil, ErrNotFound},
		{"rate limited", http.StatusForbidden, map[string]string{"X-RateLimit-Remaining": "0"}, ErrRateLimitExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				for k, v := range tt.header {
					w.Header().Set(k, v)
				}
				w.WriteHeader(tt.status)
				fmt.Fprint(w, `{"message":"nope"}`)
			}))
			defer srv.Close()

			_, err := New("sometoken", srv.URL).GetRepo(context.Background(), "alice", "project")
			assert.ErrorIs(t, err, tt.expected)
		})
	}
}

func TestGetBranch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/alice/project/branches/main", r.URL.Path)
		fmt.Fprint(w, `{"name":"main","commit":{"sha":"c0ffee","commit":{"tree":{"sha":"7ee5"}}}}`)
	}))
	defer srv.Close()

	tip, err := New("sometoken", srv.URL).GetBranch(context.Background(), "alice", "project", "main")
	assert.NoError(t, err)
	assert.Equal(t, "c0ffee", tip.CommitSHA)
	assert.Equal(t, "7ee5", tip.TreeSHA)
}

func TestCreateTreeAndCommit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)

		switch r.URL.Path {
		case "/repos/alice/project/git/trees":
			var payload struct {
				BaseTree string      `json:"base_tree"`
				Tree     []TreeEntry `json:"tree"`
			}
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			assert.Equal(t, "7ee5", payload.BaseTree)
			assert.Len(t, payload.Tree, 1)
			assert.Equal(t, "100644", payload.Tree[0].Mode)
			fmt.Fprint(w, `{"sha":"aaaa"}`)
		case "/repos/alice/project/git/commits":
			var payload struct {
				Message string   `json:"message"`
				Tree    string   `json:"tree"`
				Parents []string `json:"parents"`
			}
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			assert.Equal(t, "aaaa", payload.Tree)
			assert.Equal(t, []string{"c0ffee"}, payload.Parents)
			fmt.Fprint(w, `{"sha":"bbbb"}`)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	client := New("sometoken", srv.URL)
	ctx := context.Background()

	entries := []TreeEntry{{Path: "main.py", Mode: "100644", Type: "blob", Content: "print"}}

	treeSHA, err := client.CreateTree(ctx, "alice", "project", entries, "7ee5")
	assert.NoError(t, err)
	assert.Equal(t, "aaaa", treeSHA)

	commitSHA, err := client.CreateCommit(ctx, "alice", "project", "push", treeSHA, []string{"c0ffee"})
	assert.NoError(t, err)
	assert.Equal(t, "bbbb", commitSHA)
}

func TestCreateCommitNoParents(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		// an initial commit must send an empty list, not null
		assert.Equal(t, []interface{}{}, payload["parents"])
		fmt.Fprint(w, `{"sha":"bbbb"}`)
	}))
	defer srv.Close()

	_, err := New("sometoken", srv.URL).CreateCommit(context.Background(), "alice", "project", "push", "aaaa", nil)
	assert.NoError(t, err)
}

func TestRefs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPatch && r.URL.Path == "/repos/alice/project/git/refs/heads/main":
			fmt.Fprint(w, `{}`)
		case r.Method == http.MethodPost && r.URL.Path == "/repos/alice/project/git/refs":
			var payload struct {
				Ref string `json:"ref"`
				SHA string `json:"sha"`
			}
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			assert.Equal(t, "refs/heads/main", payload.Ref)
			w.WriteHeader(http.StatusCreated)
			fmt.Fprint(w, `{}`)
		default:
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
	}))
	defer srv.Close()

	client := New("sometoken", srv.URL)
	ctx := context.Background()

	assert.NoError(t, client.UpdateRef(ctx, "alice", "project", "main", "bbbb"))
	assert.NoError(t, client.CreateRef(ctx, "alice", "project", "main", "bbbb"))
}

func TestCreateFile(t *testing.T) {
	content := []byte{0x89, 0x50, 0x4e, 0x47}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/repos/alice/project/contents/img/logo.png", r.URL.Path)

		var payload struct {
			Message string `json:"message"`
			Content string `json:"content"`
			Branch  string `json:"branch"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, base64.StdEncoding.EncodeToString(content), payload.Content)
		assert.Equal(t, "main", payload.Branch)
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{}`)
	}))
	defer srv.Close()

	err := New("sometoken", srv.URL).CreateFile(context.Background(), "alice", "project", "img/logo.png", "push", content, "main")
	assert.NoError(t, err)
}

func TestCreateFileConflict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		fmt.Fprint(w, `{"message":"Invalid request.\n\n\"sha\" wasn't supplied. path already exists"}`)
	}))
	defer srv.Close()

	err := New("sometoken", srv.URL).CreateFile(context.Background(), "alice", "project", "main.py", "push", []byte("x"), "main")
	assert.Error(t, err)
	assert.True(t, IsConflict(err))
}

func TestIsConflict(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		conflict bool
	}{
		{"nil", nil, false},
		{"409", &APIError{StatusCode: 409, Message: "merge conflict"}, true},
		{"422 exists", &APIError{StatusCode: 422, Message: "path already exists"}, true},
		{"422 validation", &APIError{StatusCode: 422, Message: "invalid branch name"}, false},
		{"500 mentioning exists", &APIError{StatusCode: 500, Message: "table exists check failed"}, false},
		{"uncoded already exists", errors.New("file already exists"), true},
		{"uncoded other", errors.New("connection reset"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.conflict, IsConflict(tt.err))
		})
	}
}

func TestRetryOnServerError(t *testing.T) {
	var calls int

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, `{"full_name":"alice/project"}`)
	}))
	defer srv.Close()

	repo, err := New("sometoken", srv.URL).GetRepo(context.Background(), "alice", "project")
	assert.NoError(t, err)
	assert.Equal(t, "alice/project", repo.FullName)
	assert.Equal(t, 2, calls)
}
