package discord

import (
	"context"
	"errors"
	"fmt"
	"strings"

	roundRepo "github.com/KirkDiggler/foresight/internal/repositories/round"
	"github.com/KirkDiggler/foresight/internal/services/messaging"
	"github.com/KirkDiggler/foresight/internal/services/round"
	"github.com/bwmarrin/discordgo"
)

// RoundCommand handles /round, the public status view of the validator's rounds
type RoundCommand struct {
	BaseCommand
	rounds    round.Service
	messaging messaging.Service
}

// NewRoundCommand creates the /round handler
func NewRoundCommand(rounds round.Service, msgs messaging.Service) *RoundCommand {
	return &RoundCommand{
		BaseCommand: BaseCommand{
			Name:        "round",
			Description: "Prediction round status",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "status",
					Description: "Show where a round stands",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionString, Name: "id", Description: "Round ID", Required: true},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "leaderboard",
					Description: "Show total winnings across rounds",
				},
			},
		},
		rounds:    rounds,
		messaging: msgs,
	}
}

// Handle processes a Discord interaction for the round command
func (c *RoundCommand) Handle(s Responder, i *discordgo.InteractionCreate) error {
	if i.Type != discordgo.InteractionApplicationCommand || i.ApplicationCommandData().Name != c.Name {
		return nil
	}

	ctx := context.Background()
	name, opts := subcommand(i)
	switch name {
	case "status":
		return c.handleStatus(ctx, s, i, opts["id"])
	case "leaderboard":
		return c.handleLeaderboard(ctx, s, i)
	}
	return errors.New("unknown subcommand")
}

func (c *RoundCommand) handleStatus(ctx context.Context, s Responder, i *discordgo.InteractionCreate, roundID string) error {
	stats, err := c.rounds.GetRoundStats(ctx, &round.GetRoundStatsInput{RoundID: roundID})
	if errors.Is(err, roundRepo.ErrRoundNotFound) {
		out, msgErr := c.messaging.GetErrorMessage(ctx, &messaging.GetErrorMessageInput{ErrorType: messaging.ErrorTypeRoundNotFound})
		if msgErr != nil {
			return msgErr
		}
		return RespondWithError(s, i, out.Title, out.Message)
	}
	if err != nil {
		return fmt.Errorf("failed to get round stats: %w", err)
	}

	fields := []*discordgo.MessageEmbedField{
		{Name: "Phase", Value: stats.Phase.DisplayName(), Inline: true},
		{Name: "Committed", Value: fmt.Sprint(stats.Committed), Inline: true},
		{Name: "Revealed", Value: fmt.Sprint(stats.Revealed), Inline: true},
		{Name: "Verified", Value: fmt.Sprint(stats.Verified), Inline: true},
	}
	if stats.Phase.HasResults() {
		fields = append(fields, &discordgo.MessageEmbedField{Name: "Paid Out", Value: stats.TotalPayout.String(), Inline: true})
	}
	return RespondWithEmbed(s, i, "Round "+stats.RoundID, stats.Summary, fields)
}

func (c *RoundCommand) handleLeaderboard(ctx context.Context, s Responder, i *discordgo.InteractionCreate) error {
	out, err := c.rounds.GetLeaderboard(ctx, &round.GetLeaderboardInput{Limit: 10})
	if err != nil {
		return fmt.Errorf("failed to get leaderboard: %w", err)
	}
	if len(out.Players) == 0 {
		return RespondWithEmbed(s, i, "Leaderboard", "No finished rounds yet.", nil)
	}

	var b strings.Builder
	for n, p := range out.Players {
		name := p.Name
		if name == "" {
			name = p.ID
		}
		fmt.Fprintf(&b, "%d. %s: %s over %d rounds\n", n+1, name, p.TotalWinnings.String(), p.RoundsEntered)
	}
	return RespondWithEmbed(s, i, "Leaderboard", b.String(), nil)
}
