// Package repo fetches remote LaTeX projects so a document can be built
// straight from a git URL.
package repo

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport/http"

	"git.home.luguber.info/inful/texbuilder/internal/errors"
	"git.home.luguber.info/inful/texbuilder/internal/logfields"
)

// CloneOptions configures a repository fetch.
type CloneOptions struct {
	URL    string
	Branch string
	Depth  int    // shallow clone depth, 0 for full history
	Token  string // optional bearer token for HTTP auth
}

// Client clones repositories into a workspace directory.
type Client struct {
	workspaceDir string
}

// NewClient creates a client cloning into workspaceDir.
func NewClient(workspaceDir string) *Client { return &Client{workspaceDir: workspaceDir} }

// Clone fetches the repository and returns its local path.
// Any existing checkout of the same repository is replaced.
func (c *Client) Clone(opts CloneOptions) (string, error) {
	name := RepoName(opts.URL)
	repoPath := filepath.Join(c.workspaceDir, name)
	slog.Debug("Cloning repository", slog.String("url", opts.URL), logfields.Path(repoPath))

	if err := os.RemoveAll(repoPath); err != nil {
		return "", fmt.Errorf("failed to remove existing checkout: %w", err)
	}

	cloneOptions := &git.CloneOptions{URL: opts.URL, Progress: os.Stdout}
	if opts.Branch != "" {
		cloneOptions.ReferenceName = plumbing.ReferenceName("refs/heads/" + opts.Branch)
		cloneOptions.SingleBranch = true
	}
	if opts.Depth > 0 {
		cloneOptions.Depth = opts.Depth
	}
	if opts.Token != "" {
		cloneOptions.Auth = &http.BasicAuth{Username: "token", Password: opts.Token}
	}

	if _, err := git.PlainClone(repoPath, false, cloneOptions); err != nil {
		return "", errors.GitCloneError(opts.URL, err)
	}
	slog.Info("Cloned repository", slog.String("url", opts.URL), logfields.Path(repoPath))
	return repoPath, nil
}

// RepoName derives a directory name from a repository URL.
func RepoName(url string) string {
	name := strings.TrimSuffix(url, ".git")
	if i := strings.LastIndexAny(name, "/:"); i >= 0 {
		name = name[i+1:]
	}
	if name == "" {
		name = "repository"
	}
	return name
}
