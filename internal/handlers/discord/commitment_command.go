package discord

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/KirkDiggler/foresight/internal/commitment"
	"github.com/KirkDiggler/foresight/internal/scoring"
	"github.com/KirkDiggler/foresight/internal/services/messaging"
	"github.com/KirkDiggler/foresight/internal/transport"
	"github.com/bwmarrin/discordgo"
)

// CommitmentCommand handles /commitment. Every answer is ephemeral so a
// salt is never shown to the channel.
type CommitmentCommand struct {
	BaseCommand
	generator *commitment.Generator
	messaging messaging.Service
}

// NewCommitmentCommand creates the /commitment handler
func NewCommitmentCommand(generator *commitment.Generator, msgs messaging.Service) *CommitmentCommand {
	if generator == nil {
		generator = commitment.New(nil)
	}
	return &CommitmentCommand{
		BaseCommand: BaseCommand{
			Name:        "commitment",
			Description: "Create or check a prediction commitment privately",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "generate",
					Description: "Hash a guess with a fresh salt",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionString, Name: "guess", Description: "What the frame will show", Required: true},
						{Type: discordgo.ApplicationCommandOptionString, Name: "wallet", Description: "Payout address to include in the reply"},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "verify",
					Description: "Check a guess and salt against a commitment",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionString, Name: "guess", Description: "The guess", Required: true},
						{Type: discordgo.ApplicationCommandOptionString, Name: "salt", Description: "The salt", Required: true},
						{Type: discordgo.ApplicationCommandOptionString, Name: "hash", Description: "The published commitment", Required: true},
					},
				},
			},
		},
		generator: generator,
		messaging: msgs,
	}
}

// Handle processes a Discord interaction for the commitment command
func (c *CommitmentCommand) Handle(s Responder, i *discordgo.InteractionCreate) error {
	if i.Type != discordgo.InteractionApplicationCommand || i.ApplicationCommandData().Name != c.Name {
		return nil
	}

	name, opts := subcommand(i)
	switch name {
	case "generate":
		return c.handleGenerate(s, i, opts["guess"], opts["wallet"])
	case "verify":
		return c.handleVerify(s, i, opts["guess"], opts["salt"], opts["hash"])
	}
	return errors.New("unknown subcommand")
}

func (c *CommitmentCommand) handleGenerate(s Responder, i *discordgo.InteractionCreate, guess, wallet string) error {
	guess = strings.TrimSpace(guess)
	if !scoring.ValidateGuess(guess, 0) || !transport.Revealable(guess, "0") {
		errType := messaging.ErrorTypeEmptyGuess
		if len(guess) > scoring.DefaultMaxGuessLength {
			errType = messaging.ErrorTypeGuessTooLong
		}
		return c.respondError(s, i, errType)
	}

	salt, err := c.generator.GenerateSalt()
	if err != nil {
		return c.respondError(s, i, messaging.ErrorTypeInternal)
	}
	hash, err := c.generator.Commit(guess, salt)
	if err != nil {
		return c.respondError(s, i, messaging.ErrorTypeInternal)
	}

	return RespondWithEphemeralEmbed(s, i, "Your Commitment",
		"Keep the salt private until reveals open. Post the reply below under the round announcement.",
		[]*discordgo.MessageEmbedField{
			{Name: "Hash", Value: code(hash)},
			{Name: "Salt", Value: code(salt)},
			{Name: "Reply", Value: code(transport.FormatCommitment(hash, wallet))},
			{Name: "Reveal later with", Value: code(transport.FormatReveal(guess, salt))},
		})
}

func (c *CommitmentCommand) handleVerify(s Responder, i *discordgo.InteractionCreate, guess, salt, hash string) error {
	if !commitment.ValidHash(hash) {
		return c.respondError(s, i, messaging.ErrorTypeMalformedHash)
	}
	if !c.generator.Verify(guess, salt, hash) {
		return c.respondError(s, i, messaging.ErrorTypeHashMismatch)
	}
	return RespondWithEphemeralEmbed(s, i, "Match", "This guess and salt reproduce the commitment.", nil)
}

func (c *CommitmentCommand) respondError(s Responder, i *discordgo.InteractionCreate, errType messaging.ErrorType) error {
	title, msg := "Error", string(errType)
	if c.messaging != nil {
		out, err := c.messaging.GetErrorMessage(context.Background(), &messaging.GetErrorMessageInput{ErrorType: errType})
		if err == nil {
			title, msg = out.Title, out.Message
		}
	}
	return RespondWithError(s, i, title, msg)
}

func code(s string) string {
	return fmt.Sprintf("```\n%s\n```", s)
}
