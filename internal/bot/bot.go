package bot

import (
	"context"
	"time"

	"steward/internal/catalog"
	"steward/internal/config"
	"steward/internal/forge"
	"steward/internal/modlog"
	"steward/internal/presence"
	"steward/internal/storage"
	"steward/internal/utils"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

type Bot struct {
	cfg      config.Config
	logger   *zap.Logger
	store    *storage.Store
	modlog   *modlog.Logger
	catalog  *catalog.Catalog
	github   *forge.GitHubClient
	gitea    *forge.GiteaClient
	presence *presence.Rotator
	cooldown *utils.Cooldown
	session  *discordgo.Session
}

func New(cfg config.Config, logger *zap.Logger, store *storage.Store, modLogger *modlog.Logger, cat *catalog.Catalog, githubClient *forge.GitHubClient, giteaClient *forge.GiteaClient) (*Bot, error) {
	session, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, err
	}

	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuildBans |
		discordgo.IntentsMessageContent

	b := &Bot{
		cfg:      cfg,
		logger:   logger,
		store:    store,
		modlog:   modLogger,
		catalog:  cat,
		github:   githubClient,
		gitea:    giteaClient,
		cooldown: utils.NewCooldown(time.Duration(cfg.Moderation.CooldownSeconds) * time.Second),
		session:  session,
	}

	if cfg.Presence.Enabled {
		b.presence = presence.New(
			cfg.Presence.Statuses,
			time.Duration(cfg.Presence.IntervalSeconds)*time.Second,
			session,
			logger,
		)
	}

	if b.modlog != nil {
		b.modlog.SetNotifier(func(ctx context.Context, entry storage.ModAction) {
			b.notifyModAction(ctx, entry)
		})
	}

	return b, nil
}

func (b *Bot) Start() error {
	b.session.AddHandler(b.onReady)
	b.session.AddHandler(b.onMessageCreate)
	b.session.AddHandler(b.onGuildMemberAdd)
	b.session.AddHandler(b.onInteractionCreate)

	if err := b.session.Open(); err != nil {
		return err
	}

	if err := b.registerCommands(); err != nil {
		return err
	}

	if b.presence != nil {
		b.presence.Start()
	}

	return nil
}

func (b *Bot) Close(ctx context.Context) {
	_ = ctx
	if b.presence != nil {
		b.presence.Stop()
	}
	if b.session != nil {
		_ = b.session.Close()
	}
}

// GuildCount satisfies the dashboard's stats interface.
func (b *Bot) GuildCount() int {
	if b.session == nil || b.session.State == nil {
		return 0
	}
	return len(b.session.State.Guilds)
}

func (b *Bot) onReady(session *discordgo.Session, event *discordgo.Ready) {
	b.logger.Info("discord ready", zap.String("user", session.State.User.Username))
}

func (b *Bot) onGuildMemberAdd(session *discordgo.Session, event *discordgo.GuildMemberAdd) {
	if event.GuildID == "" || event.User == nil || event.User.Bot {
		return
	}

	ctx := context.Background()
	settings := b.guildSettings(ctx, event.GuildID)
	if settings.AutoroleID == "" {
		return
	}

	if err := session.GuildMemberRoleAdd(event.GuildID, event.User.ID, settings.AutoroleID); err != nil {
		b.logger.Warn("autorole add failed",
			zap.String("guild_id", event.GuildID),
			zap.String("user_id", event.User.ID),
			zap.String("role_id", settings.AutoroleID),
			zap.Error(err),
		)
		return
	}
	b.logger.Debug("autorole applied",
		zap.String("guild_id", event.GuildID),
		zap.String("user_id", event.User.ID),
	)
}

func (b *Bot) guildSettings(ctx context.Context, guildID string) storage.GuildSettings {
	defaults := storage.GuildSettings{
		GuildID:        guildID,
		CommandPrefix:  b.cfg.CommandPrefix,
		LogChannel:     b.cfg.DefaultLogChannel,
		PreviewEnabled: b.cfg.Preview.Enabled,
	}

	settings, err := b.store.GetGuildSettings(ctx, guildID, defaults)
	if err != nil {
		b.logger.Warn("guild settings fallback", zap.Error(err))
		return defaults
	}
	return settings
}

// notifyModAction posts an executed action to the guild's log channel,
// when one is configured.
func (b *Bot) notifyModAction(ctx context.Context, entry storage.ModAction) {
	settings := b.guildSettings(ctx, entry.GuildID)
	channelID := settings.LogChannel
	if channelID == "" {
		return
	}
	_, _ = b.session.ChannelMessageSendEmbed(channelID, b.buildModActionEmbed(entry))
}
