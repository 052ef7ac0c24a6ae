package discord

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"
)

// Bot serves slash commands on a Discord session
type Bot struct {
	session    *discordgo.Session
	commands   map[string]CommandHandler
	commandIDs map[string]string // Maps command name to command ID
	appID      string
	guildID    string
	logger     *slog.Logger
}

// Config holds the configuration for the bot
type Config struct {
	// Session is an authenticated discordgo session, shared with the transport
	Session *discordgo.Session

	// Application ID for the bot
	ApplicationID string

	// Optional guild ID for development (server-specific commands)
	GuildID string

	// Commands to register on Start
	Commands []CommandHandler

	Logger *slog.Logger
}

// New creates a new Discord bot
func New(cfg *Config) (*Bot, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.Session == nil {
		return nil, errors.New("session cannot be nil")
	}
	if len(cfg.Commands) == 0 {
		return nil, errors.New("at least one command is required")
	}

	bot := &Bot{
		session:    cfg.Session,
		commands:   make(map[string]CommandHandler),
		commandIDs: make(map[string]string),
		appID:      cfg.ApplicationID,
		guildID:    cfg.GuildID,
		logger:     cfg.Logger,
	}
	if bot.logger == nil {
		bot.logger = slog.Default()
	}
	for _, cmd := range cfg.Commands {
		bot.commands[cmd.GetName()] = cmd
	}

	// Register the interaction handler
	cfg.Session.AddHandler(bot.handleInteraction)

	return bot, nil
}

// Start opens the connection and registers every command
func (b *Bot) Start() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}

	for _, cmd := range b.commands {
		if err := b.registerCommand(cmd); err != nil {
			return err
		}
	}

	b.logger.Info("bot is running", "commands", len(b.commands))
	return nil
}

// Stop removes the registered commands and closes the connection
func (b *Bot) Stop() error {
	appID := b.applicationID()
	for cmdName, cmdID := range b.commandIDs {
		if err := b.session.ApplicationCommandDelete(appID, b.guildID, cmdID); err != nil {
			b.logger.Warn("failed to delete command", "command", cmdName, "id", cmdID, "error", err)
		}
	}
	return b.session.Close()
}

func (b *Bot) applicationID() string {
	if b.appID != "" {
		return b.appID
	}
	// Fall back to session user ID if application ID is not provided
	return b.session.State.User.ID
}

// registerCommand registers a command with Discord, for one guild when a guild ID is set
func (b *Bot) registerCommand(cmd CommandHandler) error {
	createdCmd, err := b.session.ApplicationCommandCreate(b.applicationID(), b.guildID, cmd.GetCommand())
	if err != nil {
		return fmt.Errorf("failed to create command %s: %w", cmd.GetName(), err)
	}

	b.commandIDs[cmd.GetName()] = createdCmd.ID
	b.logger.Info("registered command", "command", cmd.GetName(), "id", createdCmd.ID, "guild_id", b.guildID)
	return nil
}

// handleInteraction handles Discord interactions
func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	b.dispatch(s, i)
}

func (b *Bot) dispatch(s Responder, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	name := i.ApplicationCommandData().Name
	h, ok := b.commands[name]
	if !ok {
		return
	}
	if err := h.Handle(s, i); err != nil {
		b.logger.Error("failed to handle command", "command", name, "error", err)
	}
}
