package forge

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// GiteaClient talks to the Gitea v1 API anonymously. One client serves
// any number of hosts; the host comes from the parsed link.
type GiteaClient struct {
	client *http.Client
	base   string
}

func NewGiteaClient() *GiteaClient {
	return &GiteaClient{client: &http.Client{Timeout: 10 * time.Second}}
}

func (c *GiteaClient) WithHTTPClient(client *http.Client) {
	c.client = client
}

// WithBaseURL overrides the https://<host> base for every request, so
// tests can point the client at an httptest server.
func (c *GiteaClient) WithBaseURL(base string) {
	c.base = strings.TrimSuffix(base, "/")
}

func (c *GiteaClient) baseURL(host string) string {
	if c.base != "" {
		return c.base
	}
	return "https://" + host
}

type giteaCommit struct {
	SHA     string `json:"sha"`
	HTMLURL string `json:"html_url"`
	Commit  struct {
		Message string `json:"message"`
		Author  struct {
			Name string `json:"name"`
		} `json:"author"`
	} `json:"commit"`
	Author *struct {
		Login string `json:"login"`
	} `json:"author"`
	Stats *struct {
		Additions int `json:"additions"`
		Deletions int `json:"deletions"`
	} `json:"stats"`
	Files []struct {
		Filename string `json:"filename"`
	} `json:"files"`
}

func (c *GiteaClient) Commit(ctx context.Context, host, owner, repo, sha string) (Commit, error) {
	endpoint := fmt.Sprintf("%s/api/v1/repos/%s/%s/git/commits/%s",
		c.baseURL(host), url.PathEscape(owner), url.PathEscape(repo), url.PathEscape(sha))

	var payload giteaCommit
	if err := c.getJSON(ctx, endpoint, &payload); err != nil {
		return Commit{}, err
	}

	result := Commit{
		SHA:          payload.SHA,
		Message:      payload.Commit.Message,
		AuthorName:   payload.Commit.Author.Name,
		HTMLURL:      payload.HTMLURL,
		FilesTouched: len(payload.Files),
	}
	if payload.Author != nil {
		result.AuthorLogin = payload.Author.Login
	}
	if payload.Stats != nil {
		result.Additions = payload.Stats.Additions
		result.Deletions = payload.Stats.Deletions
	}
	return result, nil
}

func (c *GiteaClient) FileContent(ctx context.Context, host, owner, repo, ref, path string) (File, error) {
	endpoint := fmt.Sprintf("%s/api/v1/repos/%s/%s/raw/%s?ref=%s",
		c.baseURL(host), url.PathEscape(owner), url.PathEscape(repo), escapePath(path), url.QueryEscape(ref))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return File{}, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return File{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return File{}, fmt.Errorf("gitea raw %s: status %d", endpoint, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return File{}, err
	}
	return File{
		Path:    path,
		Content: string(body),
		HTMLURL: fmt.Sprintf("https://%s/%s/%s/src/commit/%s/%s", host, owner, repo, ref, path),
	}, nil
}

func (c *GiteaClient) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("gitea api %s: status %d", endpoint, resp.StatusCode)
	}
	return json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(out)
}

// escapePath escapes each path segment but keeps the separators.
func escapePath(path string) string {
	segments := strings.Split(path, "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return strings.Join(segments, "/")
}
