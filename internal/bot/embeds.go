package bot

import (
	"fmt"
	"time"

	"steward/internal/storage"

	"github.com/bwmarrin/discordgo"
)

func (b *Bot) actionEmbed(title, description string, fields []*discordgo.MessageEmbedField) *discordgo.MessageEmbed {
	return b.embed(title, description, b.cfg.EmbedColors.Action, fields)
}

func (b *Bot) warningEmbed(title, description string, fields []*discordgo.MessageEmbedField) *discordgo.MessageEmbed {
	return b.embed(title, description, b.cfg.EmbedColors.Warning, fields)
}

func (b *Bot) errorEmbed(description string) *discordgo.MessageEmbed {
	return b.embed("Error", description, b.cfg.EmbedColors.Error, nil)
}

func (b *Bot) embed(title, description string, color int, fields []*discordgo.MessageEmbedField) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       color,
		Timestamp:   time.Now().Format(time.RFC3339),
		Fields:      fields,
	}
}

func (b *Bot) buildModActionEmbed(entry storage.ModAction) *discordgo.MessageEmbed {
	fields := []*discordgo.MessageEmbedField{
		{Name: "User", Value: "<@" + entry.UserID + ">", Inline: true},
		{Name: "Moderator", Value: "<@" + entry.ModeratorID + ">", Inline: true},
		{Name: "Action", Value: entry.Action, Inline: true},
	}
	if entry.DurationSeconds > 0 {
		duration := time.Duration(entry.DurationSeconds) * time.Second
		fields = append(fields, &discordgo.MessageEmbedField{
			Name: "Duration", Value: formatDuration(duration), Inline: true,
		})
	}
	if entry.Reason != "" {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name: "Reason", Value: entry.Reason, Inline: false,
		})
	}
	return b.warningEmbed("Moderation action", "A moderation action was executed.", fields)
}

// formatDuration renders durations the way moderators type them: 90s,
// 10m, 2h, 28d.
func formatDuration(d time.Duration) string {
	switch {
	case d >= 24*time.Hour && d%(24*time.Hour) == 0:
		return fmt.Sprintf("%dd", d/(24*time.Hour))
	case d >= time.Hour && d%time.Hour == 0:
		return fmt.Sprintf("%dh", d/time.Hour)
	case d >= time.Minute && d%time.Minute == 0:
		return fmt.Sprintf("%dm", d/time.Minute)
	default:
		return fmt.Sprintf("%ds", int64(d/time.Second))
	}
}

func (b *Bot) respond(session *discordgo.Session, interaction *discordgo.InteractionCreate, content string, ephemeral bool) {
	flags := discordgo.MessageFlags(0)
	if ephemeral {
		flags = discordgo.MessageFlagsEphemeral
	}
	_ = session.InteractionRespond(interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   flags,
		},
	})
}

func (b *Bot) respondEmbed(session *discordgo.Session, interaction *discordgo.InteractionCreate, embed *discordgo.MessageEmbed, ephemeral bool) {
	if embed == nil {
		b.respond(session, interaction, "No response available.", ephemeral)
		return
	}
	flags := discordgo.MessageFlags(0)
	if ephemeral {
		flags = discordgo.MessageFlagsEphemeral
	}
	_ = session.InteractionRespond(interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
			Flags:  flags,
		},
	})
}

func (b *Bot) respondComponents(session *discordgo.Session, interaction *discordgo.InteractionCreate, embed *discordgo.MessageEmbed, components []discordgo.MessageComponent) {
	_ = session.InteractionRespond(interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{embed},
			Components: components,
		},
	})
}

// truncate caps a string at limit runes for embed fields.
func truncate(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	if limit <= 3 {
		return string(runes[:limit])
	}
	return string(runes[:limit-3]) + "..."
}
