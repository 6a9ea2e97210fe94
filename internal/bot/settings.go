package bot

import (
	"context"
	"strings"

	"steward/internal/storage"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

const maxPrefixLength = 5

func (b *Bot) handleSettingsSlash(ctx context.Context, session *discordgo.Session, interaction *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) {
	if interaction.GuildID == "" {
		b.respondEmbed(session, interaction, b.errorEmbed("Settings only exist per server."), true)
		return
	}
	if len(data.Options) == 0 {
		return
	}

	sub := data.Options[0]
	settings := b.guildSettings(ctx, interaction.GuildID)

	switch sub.Name {
	case "view":
		fields := []*discordgo.MessageEmbedField{
			{Name: "Prefix", Value: settings.CommandPrefix, Inline: true},
			{Name: "Previews", Value: onOff(settings.PreviewEnabled), Inline: true},
			{Name: "Autorole", Value: roleMentionOrNone(settings.AutoroleID), Inline: true},
			{Name: "Log channel", Value: channelMentionOrNone(settings.LogChannel), Inline: true},
		}
		b.respondEmbed(session, interaction, b.actionEmbed("Server settings", "", fields), true)
		return
	case "prefix":
		value := strings.TrimSpace(subOptionString(sub, "value"))
		if value == "" || len(value) > maxPrefixLength || strings.ContainsAny(value, " \t\n") {
			b.respondEmbed(session, interaction, b.errorEmbed("Prefix must be 1-5 characters with no whitespace."), true)
			return
		}
		settings.CommandPrefix = value
	case "autorole":
		settings.AutoroleID = ""
		for _, opt := range sub.Options {
			if opt.Name == "role" {
				settings.AutoroleID = opt.RoleValue(nil, "").ID
			}
		}
	case "logchannel":
		settings.LogChannel = ""
		for _, opt := range sub.Options {
			if opt.Name == "channel" {
				settings.LogChannel = opt.ChannelValue(nil).ID
			}
		}
	case "preview":
		settings.PreviewEnabled = subOptionString(sub, "value") == "on"
	default:
		return
	}

	if err := b.store.UpsertGuildSettings(ctx, settings); err != nil {
		b.logger.Error("settings update failed",
			zap.String("guild_id", interaction.GuildID),
			zap.String("setting", sub.Name),
			zap.Error(err),
		)
		b.respondEmbed(session, interaction, b.errorEmbed("Could not save the setting."), true)
		return
	}

	b.respondEmbed(session, interaction, b.actionEmbed("Settings updated", settingSummary(sub.Name, settings), nil), true)
}

func subOptionString(sub *discordgo.ApplicationCommandInteractionDataOption, name string) string {
	for _, opt := range sub.Options {
		if opt.Name == name {
			return opt.StringValue()
		}
	}
	return ""
}

func settingSummary(name string, settings storage.GuildSettings) string {
	switch name {
	case "prefix":
		return "Prefix is now `" + settings.CommandPrefix + "`."
	case "autorole":
		if settings.AutoroleID == "" {
			return "Autorole cleared."
		}
		return "New members now receive " + roleMentionOrNone(settings.AutoroleID) + "."
	case "logchannel":
		if settings.LogChannel == "" {
			return "Log channel cleared."
		}
		return "Moderation actions now log to " + channelMentionOrNone(settings.LogChannel) + "."
	case "preview":
		return "Link previews are now " + onOff(settings.PreviewEnabled) + "."
	default:
		return "Updated."
	}
}

func onOff(enabled bool) string {
	if enabled {
		return "on"
	}
	return "off"
}

func roleMentionOrNone(roleID string) string {
	if roleID == "" {
		return "none"
	}
	return "<@&" + roleID + ">"
}

func channelMentionOrNone(channelID string) string {
	if channelID == "" {
		return "none"
	}
	return "<#" + channelID + ">"
}
