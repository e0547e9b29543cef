// Package config holds the run configuration, built once at startup
// and passed explicitly to the collector and publishers.
package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"
)

// Publish strategies
const (
	ModeAtomic      = "atomic"
	ModeIncremental = "incremental"
)

// Config is the configuration struct, passed to the collector and the
// publishers.
type Config struct {
	// When DryRun is true, we collect and display but don't push anything
	DryRun bool

	// Logger should be used to send all logs
	Logger *logrus.Logger

	// LocalDir is the root of the local tree we collect files from
	LocalDir string

	// IgnoreFile holds literal exclusion patterns, one per line
	IgnoreFile string

	// Owner and Repo identify the destination repository
	Owner string
	Repo  string

	// Branch is the destination branch; master is tried as a fallback
	// when it doesn't exist
	Branch string

	// Mode selects the publish strategy, atomic or incremental
	Mode string

	// Message is the commit message for created commits and files
	Message string

	// Token authenticates against the GitHub API
	Token string

	// Concurrency bounds the incremental strategy's parallel uploads
	Concurrency int

	// APIBaseURL overrides the GitHub API endpoint (tests only)
	APIBaseURL string
}

// Init validates the configuration and resolves the publish target,
// either from an HTTPS remote URL or from the owner/repo literals.
func (c *Config) Init(repoURL string) error {
	if c.Token == "" {
		return fmt.Errorf("no GitHub token configured\n" +
			"Set the GITHUB_TOKEN environment variable.\n" +
			"Get a token at: https://github.com/settings/tokens/new")
	}

	if repoURL != "" {
		owner, repo, err := ParseRepoURL(repoURL)
		if err != nil {
			return err
		}
		c.Owner = owner
		c.Repo = repo
	}

	if c.Owner == "" || c.Repo == "" {
		return fmt.Errorf("no target repository configured (use --repo-url, or --owner and --repo)")
	}

	if c.Mode != ModeAtomic && c.Mode != ModeIncremental {
		return fmt.Errorf("unknown mode %q (expected %q or %q)", c.Mode, ModeAtomic, ModeIncremental)
	}

	if c.Branch == "" {
		c.Branch = "main"
	}

	if c.Concurrency < 1 {
		c.Concurrency = 1
	}

	return nil
}

// ParseRepoURL extracts owner and repository name from an HTTPS remote
// URL like https://github.com/owner/repo.git .
func ParseRepoURL(raw string) (owner string, repo string, err error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("invalid repository URL %q: %v", raw, err)
	}

	host := strings.ToLower(parsed.Host)
	if host != "github.com" && host != "www.github.com" {
		return "", "", fmt.Errorf("unsupported host %q (expected github.com)", parsed.Host)
	}

	trimmed := strings.Trim(strings.TrimSuffix(parsed.Path, ".git"), "/")
	parts := strings.Split(trimmed, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repository URL format: %s (expected https://github.com/owner/repo)", raw)
	}

	return parts[0], parts[1], nil
}
