package bot

import (
	"context"
	"strings"

	"steward/internal/catalog"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// pluginMatchThreshold keeps fuzzy-band noise out of the results; the
// scorer hands substring matches at least 50, so 25 admits close typos
// while dropping barely-related names.
const pluginMatchThreshold = 25

// pluginResultLimit caps how many matches one lookup renders.
const pluginResultLimit = 5

func (b *Bot) handlePluginPrefix(ctx context.Context, session *discordgo.Session, msg *discordgo.MessageCreate, args []string) {
	query := strings.TrimSpace(strings.Join(args, " "))
	if query == "" {
		b.replyError(session, msg.ChannelID, "Usage: plugin <name>")
		return
	}

	embed, components, ok := b.pluginSearchResponse(ctx, query)
	if !ok {
		b.replyError(session, msg.ChannelID, "The plugin catalog is unavailable right now.")
		return
	}
	_, _ = session.ChannelMessageSendComplex(msg.ChannelID, &discordgo.MessageSend{
		Embed:      embed,
		Components: components,
	})
}

func (b *Bot) handlePluginSlash(ctx context.Context, session *discordgo.Session, interaction *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) {
	var query string
	for _, opt := range data.Options {
		if opt.Name == "query" {
			query = strings.TrimSpace(opt.StringValue())
		}
	}
	if query == "" {
		b.respondEmbed(session, interaction, b.errorEmbed("Give me a plugin name to search for."), true)
		return
	}

	embed, components, ok := b.pluginSearchResponse(ctx, query)
	if !ok {
		b.respondEmbed(session, interaction, b.errorEmbed("The plugin catalog is unavailable right now."), true)
		return
	}
	b.respondComponents(session, interaction, embed, components)
}

func (b *Bot) pluginSearchResponse(ctx context.Context, query string) (*discordgo.MessageEmbed, []discordgo.MessageComponent, bool) {
	matches, err := b.catalog.Search(ctx, query, pluginMatchThreshold)
	if err != nil {
		b.logger.Warn("plugin search failed", zap.String("query", query), zap.Error(err))
		return nil, nil, false
	}

	if len(matches) == 0 {
		return b.warningEmbed("No plugins found", "Nothing in the catalog matches **"+truncate(query, 100)+"**.", nil), nil, true
	}
	if len(matches) > pluginResultLimit {
		matches = matches[:pluginResultLimit]
	}

	fields := make([]*discordgo.MessageEmbedField, 0, len(matches))
	buttons := make([]discordgo.MessageComponent, 0, len(matches))
	for _, match := range matches {
		record := match.Record
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:   statusEmoji(record.Status) + " " + record.Name,
			Value:  pluginFieldValue(record),
			Inline: false,
		})
		if record.InstallURL != "" {
			buttons = append(buttons, discordgo.Button{
				Label:    truncate("Install "+record.Name, 80),
				Style:    discordgo.PrimaryButton,
				CustomID: "plugin_install:" + catalog.ShortHash(record.Name),
			})
		}
	}

	var components []discordgo.MessageComponent
	if len(buttons) > 0 {
		components = []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: buttons},
		}
	}

	embed := b.actionEmbed("Plugin search", "Results for **"+truncate(query, 100)+"**", fields)
	return embed, components, true
}

func (b *Bot) handlePluginInstall(ctx context.Context, session *discordgo.Session, interaction *discordgo.InteractionCreate, hash string) {
	record, ok := b.catalog.FindByHash(ctx, hash)
	if !ok {
		b.respondEmbed(session, interaction, b.errorEmbed("That plugin is no longer in the catalog. Search again."), true)
		return
	}

	description := "Install **" + record.Name + "**: " + record.InstallURL
	if record.Status == catalog.StatusBroken {
		description += "\n\nThis plugin is currently marked broken."
	} else if record.WarningMessage != "" {
		description += "\n\n" + truncate(record.WarningMessage, 500)
	}
	b.respondEmbed(session, interaction, b.actionEmbed("Plugin install", description, nil), true)
}

func pluginFieldValue(record catalog.PluginRecord) string {
	var parts []string
	if record.Description != "" {
		parts = append(parts, truncate(record.Description, 200))
	}
	if len(record.Authors) > 0 {
		parts = append(parts, "by "+truncate(strings.Join(record.Authors, ", "), 100))
	}
	if record.Status == catalog.StatusWarning && record.WarningMessage != "" {
		parts = append(parts, "⚠ "+truncate(record.WarningMessage, 200))
	}
	if record.SourceURL != "" {
		parts = append(parts, "[source]("+record.SourceURL+")")
	}
	if len(parts) == 0 {
		return "No details available."
	}
	return strings.Join(parts, "\n")
}

func statusEmoji(status string) string {
	switch status {
	case catalog.StatusWorking:
		return "✅"
	case catalog.StatusWarning:
		return "⚠️"
	case catalog.StatusBroken:
		return "❌"
	default:
		return "❔"
	}
}
