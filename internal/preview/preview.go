// Package preview extracts forge links (GitHub commit and blob links,
// Gitea commit and src links) from message content. Parsing is pure; the
// bot layer decides whether and how to fetch the referenced data.
package preview

import (
	"regexp"
	"strconv"
	"strings"

	"steward/internal/utils"
)

type LinkKind int

const (
	KindCommit LinkKind = iota
	KindFile
)

type Forge int

const (
	ForgeGitHub Forge = iota
	ForgeGitea
)

// Link is one recognized forge URL inside a message.
type Link struct {
	Kind  LinkKind
	Forge Forge
	Host  string
	Owner string
	Repo  string
	// SHA for commit links, ref (branch, tag, or sha) for file links.
	Ref  string
	Path string
	// 1-based line range for file links; both zero when no fragment was
	// given, LineEnd == LineStart for single-line fragments.
	LineStart int
	LineEnd   int
}

var (
	urlRe = regexp.MustCompile(`https?://[^\s<>]+`)

	githubCommitRe = regexp.MustCompile(`^/([\w.-]+)/([\w.-]+)/commit/([0-9a-fA-F]{7,40})$`)
	githubBlobRe   = regexp.MustCompile(`^/([\w.-]+)/([\w.-]+)/blob/([^/]+)/(.+)$`)
	giteaCommitRe  = regexp.MustCompile(`^/([\w.-]+)/([\w.-]+)/commit/([0-9a-fA-F]{7,40})$`)
	giteaSrcRe     = regexp.MustCompile(`^/([\w.-]+)/([\w.-]+)/src/(?:branch|commit|tag)/([^/]+)/(.+)$`)

	lineFragmentRe = regexp.MustCompile(`^L(\d+)(?:-L?(\d+))?$`)
)

// Parse scans content for commit and file links on github.com and the
// given Gitea hosts. Unparseable URLs are skipped; the result preserves
// the order links appear in the message.
func Parse(content string, giteaHosts []string) []Link {
	var links []Link
	for _, raw := range urlRe.FindAllString(content, -1) {
		if link, ok := parseOne(raw, giteaHosts); ok {
			links = append(links, link)
		}
	}
	return links
}

func parseOne(raw string, giteaHosts []string) (Link, bool) {
	_, host, path, fragment, err := utils.SplitURL(raw)
	if err != nil {
		return Link{}, false
	}

	switch {
	case host == "github.com" || host == "www.github.com":
		return parseForgePath(ForgeGitHub, "github.com", path, fragment, githubCommitRe, githubBlobRe)
	case hostIn(host, giteaHosts):
		return parseForgePath(ForgeGitea, host, path, fragment, giteaCommitRe, giteaSrcRe)
	default:
		return Link{}, false
	}
}

func parseForgePath(forge Forge, host, path, fragment string, commitRe, fileRe *regexp.Regexp) (Link, bool) {
	if m := commitRe.FindStringSubmatch(path); m != nil {
		return Link{
			Kind:  KindCommit,
			Forge: forge,
			Host:  host,
			Owner: m[1],
			Repo:  m[2],
			Ref:   m[3],
		}, true
	}
	if m := fileRe.FindStringSubmatch(path); m != nil {
		link := Link{
			Kind:  KindFile,
			Forge: forge,
			Host:  host,
			Owner: m[1],
			Repo:  m[2],
			Ref:   m[3],
			Path:  m[4],
		}
		link.LineStart, link.LineEnd = parseLineFragment(fragment)
		return link, true
	}
	return Link{}, false
}

func parseLineFragment(fragment string) (int, int) {
	m := lineFragmentRe.FindStringSubmatch(fragment)
	if m == nil {
		return 0, 0
	}
	start, err := strconv.Atoi(m[1])
	if err != nil || start < 1 {
		return 0, 0
	}
	end := start
	if m[2] != "" {
		if parsed, err := strconv.Atoi(m[2]); err == nil && parsed >= start {
			end = parsed
		}
	}
	return start, end
}

func hostIn(host string, hosts []string) bool {
	for _, h := range hosts {
		if strings.EqualFold(strings.TrimSpace(h), host) {
			return true
		}
	}
	return false
}
