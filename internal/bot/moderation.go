package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"steward/internal/command"
	"steward/internal/search"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

const defaultReason = "No reason provided"

// roleMatchThreshold is the minimum similarity score for resolving a
// role by name in prefix commands; prefix-or-better matches only, so a
// stray word never grants the wrong role.
const roleMatchThreshold = 75

type modRequest struct {
	guildID     string
	channelID   string
	moderatorID string
	action      string
	targetID    string
	duration    time.Duration
	count       int
	roleID      string
	reason      string
	// invokingMessageID is deleted along with the purged messages on the
	// prefix path.
	invokingMessageID string
}

func (b *Bot) handleModerationPrefix(ctx context.Context, session *discordgo.Session, msg *discordgo.MessageCreate, name string, args []string) {
	req := modRequest{
		guildID:           msg.GuildID,
		channelID:         msg.ChannelID,
		moderatorID:       msg.Author.ID,
		action:            name,
		invokingMessageID: msg.ID,
	}

	if name == "role" {
		if len(args) == 0 || (args[0] != "add" && args[0] != "remove") {
			b.replyError(session, msg.ChannelID, "Usage: role <add|remove> <user> <role>")
			return
		}
		req.action = "role_" + args[0]
		args = args[1:]
	}

	spec, ok := b.resolveSpec(req.action)
	if !ok {
		return
	}

	resolved, err := command.Resolve(args, b.commandHints(msg, args), spec)
	if err != nil {
		b.replyError(session, msg.ChannelID, usageForError(err, req.action))
		return
	}

	req.targetID = resolved.TargetID
	req.duration = resolved.Duration
	req.count = resolved.Count
	req.reason = resolved.Reason

	if strings.HasPrefix(req.action, "role_") {
		if resolved.Reason == "" {
			b.replyError(session, msg.ChannelID, "Usage: role <add|remove> <user> <role>")
			return
		}
		roleID, ok := b.resolveRole(req.guildID, resolved.Reason)
		if !ok {
			b.replyError(session, msg.ChannelID, "Could not find a role matching "+resolved.Reason)
			return
		}
		req.roleID = roleID
		req.reason = defaultReason
	}

	b.execute(ctx, session, req, func(embed *discordgo.MessageEmbed) {
		b.replyEmbed(session, msg.ChannelID, embed)
	})
}

func (b *Bot) handleModerationSlash(ctx context.Context, session *discordgo.Session, interaction *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) {
	if interaction.GuildID == "" {
		b.respondEmbed(session, interaction, b.errorEmbed("Moderation commands only work in a server."), true)
		return
	}

	req := modRequest{
		guildID:     interaction.GuildID,
		channelID:   interaction.ChannelID,
		moderatorID: interactionUserID(interaction),
		action:      data.Name,
		reason:      defaultReason,
	}

	for _, opt := range data.Options {
		switch opt.Name {
		case "user":
			req.targetID = opt.UserValue(nil).ID
		case "reason":
			if value := strings.TrimSpace(opt.StringValue()); value != "" {
				req.reason = value
			}
		case "duration":
			duration, ok := command.ParseDurationToken(opt.StringValue(), b.maxTimeout())
			if !ok {
				b.respondEmbed(session, interaction, b.errorEmbed("Duration must look like 30s, 10m, 2h, or 1d."), true)
				return
			}
			req.duration = duration
		case "delete_window":
			duration, ok := command.ParseDurationToken(opt.StringValue(), b.maxBanDelete())
			if !ok {
				b.respondEmbed(session, interaction, b.errorEmbed("Delete window must look like 1h or 7d."), true)
				return
			}
			req.duration = duration
		case "count":
			req.count = clampCount(int(opt.IntValue()), b.cfg.Moderation.MaxPurge)
		case "action":
			req.action = "role_" + opt.StringValue()
		case "role":
			req.roleID = opt.RoleValue(nil, "").ID
		}
	}

	b.execute(ctx, session, req, func(embed *discordgo.MessageEmbed) {
		b.respondEmbed(session, interaction, embed, false)
	})
}

// resolveSpec maps a command name to its argument contract.
func (b *Bot) resolveSpec(action string) (command.Spec, bool) {
	switch action {
	case "ban":
		return command.Spec{
			Token:         command.TokenDuration,
			MaxDuration:   b.maxBanDelete(),
			DefaultReason: defaultReason,
		}, true
	case "kick", "untimeout":
		return command.Spec{DefaultReason: defaultReason}, true
	case "role_add", "role_remove":
		// The trailing text is the role name here, not a reason, so no
		// default gets substituted.
		return command.Spec{}, true
	case "timeout":
		return command.Spec{
			Token:         command.TokenDuration,
			TokenRequired: true,
			MaxDuration:   b.maxTimeout(),
			DefaultReason: defaultReason,
		}, true
	case "purge":
		return command.Spec{
			Token:          command.TokenCount,
			TokenRequired:  true,
			TargetOptional: true,
			MaxCount:       b.cfg.Moderation.MaxPurge,
			DefaultReason:  defaultReason,
		}, true
	default:
		return command.Spec{}, false
	}
}

func (b *Bot) execute(ctx context.Context, session *discordgo.Session, req modRequest, reply func(*discordgo.MessageEmbed)) {
	if req.action != "purge" || req.targetID != "" {
		if message, ok := b.checkTargetPolicy(req.guildID, req.moderatorID, req.targetID); !ok {
			reply(b.errorEmbed(message))
			return
		}
	}

	var (
		description string
		err         error
	)
	switch req.action {
	case "ban":
		description, err = b.executeBan(session, req)
	case "kick":
		description, err = b.executeKick(session, req)
	case "timeout":
		description, err = b.executeTimeout(session, req)
	case "untimeout":
		description, err = b.executeUntimeout(session, req)
	case "purge":
		description, err = b.executePurge(session, req)
	case "role_add", "role_remove":
		description, err = b.executeRole(session, req)
	default:
		return
	}
	if err != nil {
		b.logger.Warn("moderation action failed",
			zap.String("guild_id", req.guildID),
			zap.String("action", req.action),
			zap.String("target_id", req.targetID),
			zap.Error(err),
		)
		reply(b.errorEmbed("Action failed: " + err.Error()))
		return
	}

	b.modlog.Record(ctx, req.guildID, req.targetID, req.moderatorID, req.action, req.reason, req.duration)
	reply(b.actionEmbed(actionTitle(req.action), description, nil))
}

func actionTitle(action string) string {
	action = strings.ReplaceAll(action, "_", " ")
	if action == "" {
		return action
	}
	return strings.ToUpper(action[:1]) + action[1:]
}

func (b *Bot) executeBan(session *discordgo.Session, req modRequest) (string, error) {
	days := deleteWindowDays(req.duration, b.cfg.Moderation.MaxBanDeleteDays)
	if err := session.GuildBanCreateWithReason(req.guildID, req.targetID, req.reason, days); err != nil {
		return "", err
	}
	description := fmt.Sprintf("Banned <@%s>.", req.targetID)
	if days > 0 {
		description = fmt.Sprintf("Banned <@%s>, deleting %d day(s) of messages.", req.targetID, days)
	}
	return description, nil
}

func (b *Bot) executeKick(session *discordgo.Session, req modRequest) (string, error) {
	if err := session.GuildMemberDeleteWithReason(req.guildID, req.targetID, req.reason); err != nil {
		return "", err
	}
	return fmt.Sprintf("Kicked <@%s>.", req.targetID), nil
}

func (b *Bot) executeTimeout(session *discordgo.Session, req modRequest) (string, error) {
	until := time.Now().Add(req.duration)
	if err := session.GuildMemberTimeout(req.guildID, req.targetID, &until); err != nil {
		return "", err
	}
	return fmt.Sprintf("Timed <@%s> out for %s.", req.targetID, formatDuration(req.duration)), nil
}

func (b *Bot) executeUntimeout(session *discordgo.Session, req modRequest) (string, error) {
	if err := session.GuildMemberTimeout(req.guildID, req.targetID, nil); err != nil {
		return "", err
	}
	return fmt.Sprintf("Removed the timeout on <@%s>.", req.targetID), nil
}

func (b *Bot) executePurge(session *discordgo.Session, req modRequest) (string, error) {
	fetch := 100
	messages, err := session.ChannelMessages(req.channelID, fetch, req.invokingMessageID, "", "")
	if err != nil {
		return "", err
	}

	// Bulk delete rejects messages older than two weeks.
	cutoff := time.Now().Add(-14 * 24 * time.Hour)

	ids := make([]string, 0, req.count)
	for _, message := range messages {
		if len(ids) >= req.count {
			break
		}
		if req.targetID != "" && (message.Author == nil || message.Author.ID != req.targetID) {
			continue
		}
		ts, err := discordgo.SnowflakeTimestamp(message.ID)
		if err != nil || ts.Before(cutoff) {
			continue
		}
		ids = append(ids, message.ID)
	}
	if req.invokingMessageID != "" {
		ids = append(ids, req.invokingMessageID)
	}
	if len(ids) == 0 {
		return "No matching messages to delete.", nil
	}

	if err := session.ChannelMessagesBulkDelete(req.channelID, ids); err != nil {
		return "", err
	}

	deleted := len(ids)
	if req.invokingMessageID != "" {
		deleted--
	}
	if req.targetID != "" {
		return fmt.Sprintf("Deleted %d message(s) from <@%s>.", deleted, req.targetID), nil
	}
	return fmt.Sprintf("Deleted %d message(s).", deleted), nil
}

func (b *Bot) executeRole(session *discordgo.Session, req modRequest) (string, error) {
	if req.roleID == "" {
		return "", errors.New("no role resolved")
	}
	if req.action == "role_add" {
		if err := session.GuildMemberRoleAdd(req.guildID, req.targetID, req.roleID); err != nil {
			return "", err
		}
		return fmt.Sprintf("Added <@&%s> to <@%s>.", req.roleID, req.targetID), nil
	}
	if err := session.GuildMemberRoleRemove(req.guildID, req.targetID, req.roleID); err != nil {
		return "", err
	}
	return fmt.Sprintf("Removed <@&%s> from <@%s>.", req.roleID, req.targetID), nil
}

// checkTargetPolicy refuses self-, bot-, and owner-targeted actions.
// These are caller policy, deliberately outside the token resolver.
func (b *Bot) checkTargetPolicy(guildID, moderatorID, targetID string) (string, bool) {
	if targetID == moderatorID {
		return "You cannot target yourself.", false
	}
	if b.session.State.User != nil && targetID == b.session.State.User.ID {
		return "I am not going to do that to myself.", false
	}
	guild, err := b.session.State.Guild(guildID)
	if err != nil || guild == nil {
		guild, _ = b.session.Guild(guildID)
	}
	if guild != nil && guild.OwnerID == targetID {
		return "The server owner cannot be targeted.", false
	}
	return "", true
}

// resolveRole matches a role token against the guild's roles: by ID, by
// exact name, then by the similarity scorer with a prefix-or-better
// threshold.
func (b *Bot) resolveRole(guildID, token string) (string, bool) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}

	guild, err := b.session.State.Guild(guildID)
	if err != nil || guild == nil {
		guild, err = b.session.Guild(guildID)
		if err != nil || guild == nil {
			return "", false
		}
	}

	if id, ok := strings.CutPrefix(token, "<@&"); ok {
		return strings.TrimSuffix(id, ">"), true
	}

	names := make([]string, len(guild.Roles))
	for i, role := range guild.Roles {
		if role.ID == token {
			return role.ID, true
		}
		names[i] = role.Name
	}

	ranked := search.Rank(names, token, roleMatchThreshold)
	if len(ranked) == 0 {
		return "", false
	}
	return guild.Roles[ranked[0].Index].ID, true
}

func (b *Bot) maxTimeout() time.Duration {
	return time.Duration(b.cfg.Moderation.MaxTimeoutDays) * 24 * time.Hour
}

func (b *Bot) maxBanDelete() time.Duration {
	return time.Duration(b.cfg.Moderation.MaxBanDeleteDays) * 24 * time.Hour
}

// deleteWindowDays converts the ban message-delete window to whole days,
// rounding partial days up so "12h" still removes something.
func deleteWindowDays(d time.Duration, maxDays int) int {
	if d <= 0 {
		return 0
	}
	days := int((d + 24*time.Hour - 1) / (24 * time.Hour))
	if days > maxDays {
		days = maxDays
	}
	return days
}

func clampCount(count, max int) int {
	if count > max {
		count = max
	}
	if count < 1 {
		count = 1
	}
	return count
}

func usageForError(err error, action string) string {
	switch {
	case errors.Is(err, command.ErrNoTarget):
		return "No target user found. Reply to a message, mention a user, or pass a user ID."
	case errors.Is(err, command.ErrNoDurationToken):
		return "A duration is required, e.g. 10m, 2h, or 1d."
	case errors.Is(err, command.ErrNoCountToken):
		return "A message count is required, e.g. " + action + " 25."
	default:
		return "Could not parse the arguments."
	}
}

func interactionUserID(interaction *discordgo.InteractionCreate) string {
	if interaction.Member != nil && interaction.Member.User != nil {
		return interaction.Member.User.ID
	}
	if interaction.User != nil {
		return interaction.User.ID
	}
	return ""
}
