package discord

import (
	"github.com/bwmarrin/discordgo"
)

// Responder is the part of *discordgo.Session that answers interactions
type Responder interface {
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
}

// CommandHandler defines the interface for Discord command handlers
type CommandHandler interface {
	// GetName returns the command name
	GetName() string

	// GetCommand returns the application command definition
	GetCommand() *discordgo.ApplicationCommand

	// Handle processes a Discord interaction
	Handle(s Responder, i *discordgo.InteractionCreate) error
}

// BaseCommand provides common functionality for all commands
type BaseCommand struct {
	Name        string
	Description string
	Options     []*discordgo.ApplicationCommandOption
}

// GetName returns the command name
func (c *BaseCommand) GetName() string {
	return c.Name
}

// GetCommand returns the application command definition
func (c *BaseCommand) GetCommand() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name,
		Description: c.Description,
		Options:     c.Options,
	}
}

const (
	colorOK    = 0x00ff00
	colorError = 0xff0000
)

// RespondWithEmbed sends an embed visible to the whole channel
func RespondWithEmbed(s Responder, i *discordgo.InteractionCreate, title, description string, fields []*discordgo.MessageEmbedField) error {
	return respondEmbed(s, i, title, description, colorOK, fields, 0)
}

// RespondWithEphemeralEmbed sends an embed only the invoking user can see
func RespondWithEphemeralEmbed(s Responder, i *discordgo.InteractionCreate, title, description string, fields []*discordgo.MessageEmbedField) error {
	return respondEmbed(s, i, title, description, colorOK, fields, discordgo.MessageFlagsEphemeral)
}

// RespondWithError sends an ephemeral error embed
func RespondWithError(s Responder, i *discordgo.InteractionCreate, title, message string) error {
	return respondEmbed(s, i, title, message, colorError, nil, discordgo.MessageFlagsEphemeral)
}

func respondEmbed(s Responder, i *discordgo.InteractionCreate, title, description string, color int, fields []*discordgo.MessageEmbedField, flags discordgo.MessageFlags) error {
	embed := &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       color,
		Fields:      fields,
	}

	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
			Flags:  flags,
		},
	})
}

// subcommand returns the invoked subcommand and its string options by name
func subcommand(i *discordgo.InteractionCreate) (string, map[string]string) {
	data := i.ApplicationCommandData()
	if len(data.Options) == 0 {
		return "", nil
	}

	sub := data.Options[0]
	values := make(map[string]string, len(sub.Options))
	for _, opt := range sub.Options {
		if opt.Type == discordgo.ApplicationCommandOptionString {
			values[opt.Name] = opt.StringValue()
		}
	}
	return sub.Name, values
}
