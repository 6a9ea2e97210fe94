package forge

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestGiteaClient(t *testing.T, handler http.HandlerFunc) *GiteaClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewGiteaClient()
	client.WithHTTPClient(server.Client())
	client.WithBaseURL(server.URL)
	return client
}

func TestGiteaCommit(t *testing.T) {
	client := newTestGiteaClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/repos/team/proj/git/commits/abc1234" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{
			"sha": "abc1234",
			"html_url": "https://git.example.org/team/proj/commit/abc1234",
			"commit": {"message": "fix parser\n\ndetails", "author": {"name": "Ada"}},
			"author": {"login": "ada"},
			"stats": {"additions": 5, "deletions": 2},
			"files": [{"filename": "a.go"}, {"filename": "b.go"}]
		}`))
	})

	commit, err := client.Commit(context.Background(), "git.example.org", "team", "proj", "abc1234")
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	if commit.SHA != "abc1234" || commit.AuthorName != "Ada" || commit.AuthorLogin != "ada" {
		t.Fatalf("unexpected commit: %+v", commit)
	}
	if commit.Additions != 5 || commit.Deletions != 2 || commit.FilesTouched != 2 {
		t.Fatalf("unexpected stats: %+v", commit)
	}
	if FirstLine(commit.Message) != "fix parser" {
		t.Fatalf("unexpected message: %q", commit.Message)
	}
}

func TestGiteaCommitErrorStatus(t *testing.T) {
	client := newTestGiteaClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	if _, err := client.Commit(context.Background(), "git.example.org", "team", "proj", "missing"); err == nil {
		t.Fatalf("expected error for 404")
	}
}

func TestGiteaFileContent(t *testing.T) {
	client := newTestGiteaClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/repos/team/proj/raw/cmd/run.go" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("ref") != "main" {
			t.Fatalf("unexpected ref: %s", r.URL.Query().Get("ref"))
		}
		_, _ = w.Write([]byte("package main\n"))
	})

	file, err := client.FileContent(context.Background(), "git.example.org", "team", "proj", "main", "cmd/run.go")
	if err != nil {
		t.Fatalf("file content: %v", err)
	}
	if file.Content != "package main\n" {
		t.Fatalf("unexpected content: %q", file.Content)
	}
	if file.Path != "cmd/run.go" {
		t.Fatalf("unexpected path: %q", file.Path)
	}
}
