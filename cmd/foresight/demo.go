package main

import (
	"fmt"
	"os"

	"github.com/KirkDiggler/foresight/internal/config"
	"github.com/KirkDiggler/foresight/internal/confirm"
	"github.com/KirkDiggler/foresight/internal/models"
	"github.com/KirkDiggler/foresight/internal/services/miner"
	"github.com/KirkDiggler/foresight/internal/services/round"
	"github.com/KirkDiggler/foresight/internal/transport"
	"github.com/alicebob/miniredis/v2"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"
)

const demoValidator = "validator"

func newDemoCommand() *cli.Command {
	return &cli.Command{
		Name:  "demo",
		Usage: "play one round end to end in memory with simulated miners",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "miners", Value: 4},
			&cli.Uint64Flag{Name: "seed", Value: 1},
			&cli.StringFlag{Name: "strategy", Usage: "scoring strategy; defaults to the configured one"},
		},
		Action: runDemo,
	}
}

// runDemo drives a round through every phase against an embedded Redis and an in-memory channel
func runDemo(c *cli.Context) error {
	if c.Int("miners") < 2 {
		return fmt.Errorf("a round needs at least 2 miners")
	}

	cfg := config.Default()
	if s := c.String("strategy"); s != "" {
		cfg.Contest.Strategy = s
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger := cfg.Log.NewLogger(c.App.ErrWriter)

	mr, err := miniredis.Run()
	if err != nil {
		return fmt.Errorf("failed to start embedded redis: %w", err)
	}
	defer mr.Close()

	st, err := buildStack(cfg, logger, redis.NewClient(&redis.Options{Addr: mr.Addr()}), c.App.Reader, c.App.Writer)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := c.Context
	w := c.App.Writer
	faker := gofakeit.New(c.Uint64("seed"))
	channel := transport.NewMemoryChannel(nil, st.clock)

	rounds, err := st.roundService(ctx, channel.As(transport.Author{ID: demoValidator, Name: "Validator"}), demoValidator, confirm.AutoApprove())
	if err != nil {
		return err
	}

	frame, err := os.CreateTemp("", "foresight-frame-*.jpg")
	if err != nil {
		return err
	}
	defer os.Remove(frame.Name())
	if _, err := frame.WriteString(faker.Sentence(12)); err != nil {
		frame.Close()
		return err
	}
	if err := frame.Close(); err != nil {
		return err
	}

	created, err := rounds.CreateRound(ctx, &round.CreateRoundInput{
		Description: faker.Sentence(6),
		PrizePool:   decimal.NewFromInt(100),
		PlatformFee: 0.05,
	})
	if err != nil {
		return err
	}
	roundID := created.Round.ID
	printRound(w, created.Round)

	miners := make([]miner.Service, c.Int("miners"))
	for i := range miners {
		id := fmt.Sprintf("miner-%d", i+1)
		author := transport.Author{ID: id, Name: faker.Name()}
		svc, err := st.minerService(channel.As(author), id, demoValidator, faker.LetterN(32))
		if err != nil {
			return err
		}
		miners[i] = svc

		guess := faker.Sentence(6)
		if _, err := svc.SubmitCommitment(ctx, &miner.SubmitCommitmentInput{RoundID: roundID, Guess: guess}); err != nil {
			return err
		}
		fmt.Fprintf(w, "%s (%s) committed %q\n", author.Name, id, guess)
	}

	for {
		current, err := rounds.GetRound(ctx, &round.GetRoundInput{RoundID: roundID})
		if err != nil {
			return err
		}
		if current.Round.Phase == models.PhaseFinished {
			break
		}
		if current.Round.Phase == models.PhaseRevealsOpen {
			for _, m := range miners {
				if _, err := m.Poll(ctx); err != nil {
					return err
				}
			}
		}

		out, err := rounds.Advance(ctx, &round.AdvanceInput{RoundID: roundID, FramePath: frame.Name()})
		if err != nil {
			return err
		}
		printRound(w, out.Round)
	}

	stats, err := rounds.GetRoundStats(ctx, &round.GetRoundStatsInput{RoundID: roundID})
	if err != nil {
		return err
	}
	printStats(w, stats)

	fmt.Fprintf(w, "\nchannel transcript (%d messages):\n", len(channel.Messages()))
	for _, m := range channel.Messages() {
		if m.Author.ID == demoValidator {
			fmt.Fprintf(w, "---\n%s\n", m.Text)
		}
	}
	return nil
}
