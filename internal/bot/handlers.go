package bot

import (
	"context"
	"strings"
	"time"

	"steward/internal/command"

	"github.com/bwmarrin/discordgo"
)

func (b *Bot) onInteractionCreate(session *discordgo.Session, interaction *discordgo.InteractionCreate) {
	ctx := context.Background()

	switch interaction.Type {
	case discordgo.InteractionApplicationCommand:
		data := interaction.ApplicationCommandData()
		switch data.Name {
		case "ban", "kick", "timeout", "untimeout", "purge", "role":
			b.handleModerationSlash(ctx, session, interaction, data)
		case "plugin":
			b.handlePluginSlash(ctx, session, interaction, data)
		case "settings":
			b.handleSettingsSlash(ctx, session, interaction, data)
		}
	case discordgo.InteractionMessageComponent:
		data := interaction.MessageComponentData()
		if hash, ok := strings.CutPrefix(data.CustomID, "plugin_install:"); ok {
			b.handlePluginInstall(ctx, session, interaction, hash)
		}
	}
}

func (b *Bot) onMessageCreate(session *discordgo.Session, msg *discordgo.MessageCreate) {
	if msg.Author == nil || msg.Author.Bot || msg.GuildID == "" {
		return
	}

	ctx := context.Background()
	settings := b.guildSettings(ctx, msg.GuildID)

	prefix := settings.CommandPrefix
	if strings.HasPrefix(msg.Content, prefix) {
		b.dispatchPrefixCommand(ctx, session, msg, strings.TrimPrefix(msg.Content, prefix))
		return
	}

	if settings.PreviewEnabled {
		b.handleLinkPreviews(ctx, session, msg)
	}
}

func (b *Bot) dispatchPrefixCommand(ctx context.Context, session *discordgo.Session, msg *discordgo.MessageCreate, content string) {
	fields := strings.Fields(content)
	if len(fields) == 0 {
		return
	}
	name := strings.ToLower(fields[0])
	args := fields[1:]

	if !b.cooldown.Allow(msg.GuildID+":"+msg.Author.ID, time.Now()) {
		return
	}

	switch name {
	case "help":
		b.handleHelp(ctx, session, msg)
	case "plugin":
		b.handlePluginPrefix(ctx, session, msg, args)
	case "ban", "kick", "timeout", "untimeout", "purge", "role":
		b.handleModerationPrefix(ctx, session, msg, name, args)
	}
}

// commandHints pulls the resolver's context out of the message: the
// replied-to author (unless the reply targets the bot) and the leading
// mention when the first argument is one.
func (b *Bot) commandHints(msg *discordgo.MessageCreate, args []string) command.Hints {
	hints := command.Hints{}

	if ref := msg.ReferencedMessage; ref != nil && ref.Author != nil {
		if b.session.State.User == nil || ref.Author.ID != b.session.State.User.ID {
			hints.RepliedAuthorID = ref.Author.ID
		}
	}
	if len(args) > 0 {
		if id, ok := command.MentionID(args[0]); ok {
			hints.LeadingMentionID = id
		}
	}
	return hints
}

func (b *Bot) handleHelp(ctx context.Context, session *discordgo.Session, msg *discordgo.MessageCreate) {
	prefix := b.guildSettings(ctx, msg.GuildID).CommandPrefix
	fields := []*discordgo.MessageEmbedField{
		{Name: prefix + "plugin <query>", Value: "Search the plugin catalog.", Inline: false},
		{Name: prefix + "ban <user> [window] [reason]", Value: "Ban a user, optionally deleting recent messages (max 7d).", Inline: false},
		{Name: prefix + "kick <user> [reason]", Value: "Kick a user.", Inline: false},
		{Name: prefix + "timeout <user> <duration> [reason]", Value: "Time a user out (max 28d).", Inline: false},
		{Name: prefix + "untimeout <user> [reason]", Value: "Lift a timeout.", Inline: false},
		{Name: prefix + "purge <count> [user]", Value: "Bulk-delete up to 100 recent messages.", Inline: false},
		{Name: prefix + "role <add|remove> <user> <role>", Value: "Grant or revoke a role.", Inline: false},
	}
	embed := b.actionEmbed("Commands", "Moderation commands accept a reply, a mention, or a bare user ID as the target.", fields)
	_, _ = session.ChannelMessageSendEmbed(msg.ChannelID, embed)
}

func (b *Bot) replyEmbed(session *discordgo.Session, channelID string, embed *discordgo.MessageEmbed) {
	_, _ = session.ChannelMessageSendEmbed(channelID, embed)
}

func (b *Bot) replyError(session *discordgo.Session, channelID, message string) {
	b.replyEmbed(session, channelID, b.errorEmbed(message))
}
