package bot

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"steward/internal/forge"
	"steward/internal/preview"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// previewsPerMessage caps how many links a single message expands, so a
// pasted wall of URLs does not flood the channel.
const previewsPerMessage = 3

const snippetCharLimit = 1800

func (b *Bot) handleLinkPreviews(ctx context.Context, session *discordgo.Session, msg *discordgo.MessageCreate) {
	links := preview.Parse(msg.Content, b.cfg.Preview.GiteaHosts)
	if len(links) == 0 {
		return
	}
	if len(links) > previewsPerMessage {
		links = links[:previewsPerMessage]
	}

	for _, link := range links {
		fetchCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
		embed, err := b.buildPreviewEmbed(fetchCtx, link)
		cancel()
		if err != nil {
			// Previews are best effort; a dead link or private repo is not
			// worth a visible error.
			b.logger.Debug("link preview failed",
				zap.String("host", link.Host),
				zap.String("owner", link.Owner),
				zap.String("repo", link.Repo),
				zap.Error(err),
			)
			continue
		}
		if _, err := session.ChannelMessageSendEmbed(msg.ChannelID, embed); err != nil {
			b.logger.Debug("link preview send failed", zap.Error(err))
		}
	}
}

func (b *Bot) buildPreviewEmbed(ctx context.Context, link preview.Link) (*discordgo.MessageEmbed, error) {
	switch link.Kind {
	case preview.KindCommit:
		commit, err := b.fetchCommit(ctx, link)
		if err != nil {
			return nil, err
		}
		return b.commitEmbed(link, commit), nil
	case preview.KindFile:
		file, err := b.fetchFile(ctx, link)
		if err != nil {
			return nil, err
		}
		return b.snippetEmbed(link, file), nil
	default:
		return nil, fmt.Errorf("unknown link kind %d", link.Kind)
	}
}

func (b *Bot) fetchCommit(ctx context.Context, link preview.Link) (forge.Commit, error) {
	if link.Forge == preview.ForgeGitea {
		return b.gitea.Commit(ctx, link.Host, link.Owner, link.Repo, link.Ref)
	}
	return b.github.Commit(ctx, link.Owner, link.Repo, link.Ref)
}

func (b *Bot) fetchFile(ctx context.Context, link preview.Link) (forge.File, error) {
	if link.Forge == preview.ForgeGitea {
		return b.gitea.FileContent(ctx, link.Host, link.Owner, link.Repo, link.Ref, link.Path)
	}
	return b.github.FileContent(ctx, link.Owner, link.Repo, link.Ref, link.Path)
}

func (b *Bot) commitEmbed(link preview.Link, commit forge.Commit) *discordgo.MessageEmbed {
	author := commit.AuthorName
	if commit.AuthorLogin != "" {
		author = commit.AuthorLogin
	}

	fields := []*discordgo.MessageEmbedField{
		{Name: "Author", Value: orDash(author), Inline: true},
		{Name: "Changes", Value: fmt.Sprintf("+%d / -%d in %d file(s)", commit.Additions, commit.Deletions, commit.FilesTouched), Inline: true},
	}

	title := fmt.Sprintf("%s/%s @ %s", link.Owner, link.Repo, shortSHA(commit.SHA))
	embed := b.actionEmbed(title, truncate(forge.FirstLine(commit.Message), 250), fields)
	embed.URL = commit.HTMLURL
	return embed
}

func (b *Bot) snippetEmbed(link preview.Link, file forge.File) *discordgo.MessageEmbed {
	content, clipped := selectLines(file.Content, link.LineStart, link.LineEnd, b.cfg.Preview.MaxSnippetLines)

	description := "```" + languageHint(file.Path) + "\n" + truncate(content, snippetCharLimit) + "\n```"
	if clipped {
		description += "\n*…truncated*"
	}

	title := fmt.Sprintf("%s/%s: %s", link.Owner, link.Repo, file.Path)
	if link.LineStart > 0 {
		if link.LineEnd > link.LineStart {
			title += fmt.Sprintf(" (L%d-L%d)", link.LineStart, link.LineEnd)
		} else {
			title += fmt.Sprintf(" (L%d)", link.LineStart)
		}
	}

	embed := b.actionEmbed(truncate(title, 250), description, nil)
	embed.URL = file.HTMLURL
	return embed
}

// selectLines carves the requested 1-based line range out of content and
// caps it at maxLines. With no range it takes the file head. The second
// return reports whether anything was cut.
func selectLines(content string, start, end, maxLines int) (string, bool) {
	if maxLines <= 0 {
		maxLines = 20
	}
	lines := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")

	clipped := false
	if start > 0 {
		if start > len(lines) {
			return "", true
		}
		if end < start {
			end = start
		}
		if end > len(lines) {
			end = len(lines)
		}
		lines = lines[start-1 : end]
	}
	if len(lines) > maxLines {
		lines = lines[:maxLines]
		clipped = true
	}
	return strings.Join(lines, "\n"), clipped
}

// languageHint picks a syntax-highlight tag from the file extension.
func languageHint(filePath string) string {
	switch strings.ToLower(strings.TrimPrefix(path.Ext(filePath), ".")) {
	case "go":
		return "go"
	case "py":
		return "python"
	case "js", "jsx":
		return "js"
	case "ts", "tsx":
		return "ts"
	case "rs":
		return "rust"
	case "c", "h":
		return "c"
	case "cpp", "cc", "hpp":
		return "cpp"
	case "java":
		return "java"
	case "rb":
		return "ruby"
	case "sh", "bash":
		return "bash"
	case "json":
		return "json"
	case "yaml", "yml":
		return "yaml"
	case "toml":
		return "toml"
	case "md":
		return "md"
	case "sql":
		return "sql"
	default:
		return ""
	}
}

func shortSHA(sha string) string {
	if len(sha) > 10 {
		return sha[:10]
	}
	return sha
}

func orDash(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
