// Package forge fetches the data behind recognized links: commit
// metadata and file contents from GitHub (go-github) and from anonymous
// Gitea instances (their JSON REST API).
package forge

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/go-github/v66/github"
	"golang.org/x/oauth2"
)

// Commit is the forge-neutral subset both clients produce for a commit
// link preview.
type Commit struct {
	SHA          string
	Message      string
	AuthorName   string
	AuthorLogin  string
	Additions    int
	Deletions    int
	FilesTouched int
	HTMLURL      string
}

// File carries the content needed for a code-snippet preview.
type File struct {
	Path    string
	Content string
	HTMLURL string
}

type GitHubClient struct {
	client *github.Client
}

// NewGitHubClient builds a client, authenticated when token is non-empty.
// Unauthenticated access works but is rate-limited to 60 requests/hour.
func NewGitHubClient(ctx context.Context, token string) *GitHubClient {
	if token == "" {
		return &GitHubClient{client: github.NewClient(nil)}
	}
	source := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	return &GitHubClient{client: github.NewClient(oauth2.NewClient(ctx, source))}
}

func (c *GitHubClient) Commit(ctx context.Context, owner, repo, sha string) (Commit, error) {
	commit, _, err := c.client.Repositories.GetCommit(ctx, owner, repo, sha, nil)
	if err != nil {
		return Commit{}, fmt.Errorf("github commit %s/%s@%s: %w", owner, repo, sha, err)
	}

	result := Commit{
		SHA:     commit.GetSHA(),
		Message: commit.GetCommit().GetMessage(),
		HTMLURL: commit.GetHTMLURL(),
	}
	if author := commit.GetCommit().GetAuthor(); author != nil {
		result.AuthorName = author.GetName()
	}
	if author := commit.GetAuthor(); author != nil {
		result.AuthorLogin = author.GetLogin()
	}
	if stats := commit.GetStats(); stats != nil {
		result.Additions = stats.GetAdditions()
		result.Deletions = stats.GetDeletions()
	}
	result.FilesTouched = len(commit.Files)
	return result, nil
}

func (c *GitHubClient) FileContent(ctx context.Context, owner, repo, ref, path string) (File, error) {
	opts := &github.RepositoryContentGetOptions{Ref: ref}
	content, _, _, err := c.client.Repositories.GetContents(ctx, owner, repo, path, opts)
	if err != nil {
		return File{}, fmt.Errorf("github contents %s/%s/%s@%s: %w", owner, repo, path, ref, err)
	}
	if content == nil {
		return File{}, fmt.Errorf("github contents %s/%s/%s@%s: not a file", owner, repo, path, ref)
	}

	decoded, err := content.GetContent()
	if err != nil {
		return File{}, fmt.Errorf("github contents decode %s: %w", path, err)
	}
	return File{
		Path:    content.GetPath(),
		Content: decoded,
		HTMLURL: content.GetHTMLURL(),
	}, nil
}

// FirstLine trims a commit message to its subject line.
func FirstLine(message string) string {
	if idx := strings.IndexByte(message, '\n'); idx >= 0 {
		return strings.TrimSpace(message[:idx])
	}
	return strings.TrimSpace(message)
}
