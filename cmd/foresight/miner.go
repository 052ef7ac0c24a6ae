package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/KirkDiggler/foresight/internal/models"
	"github.com/KirkDiggler/foresight/internal/services/miner"
	"github.com/KirkDiggler/foresight/internal/workers"
	"github.com/urfave/cli/v2"
)

// withMiner runs fn with the miner service on the configured channel
func withMiner(fn func(c *cli.Context, st *stack, svc miner.Service) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		st, err := newStack(c)
		if err != nil {
			return err
		}
		defer st.Close()

		svc, err := st.miner()
		if err != nil {
			return err
		}
		return fn(c, st, svc)
	}
}

func newMinerCommand() *cli.Command {
	return &cli.Command{
		Name:  "miner",
		Usage: "take part in prediction rounds",
		Subcommands: []*cli.Command{
			{
				Name:  "generate",
				Usage: "hash a guess without posting anything",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "guess", Aliases: []string{"g"}, Required: true},
					&cli.StringFlag{Name: "salt", Usage: "generated when empty"},
				},
				Action: withMiner(func(c *cli.Context, _ *stack, svc miner.Service) error {
					out, err := svc.GenerateCommitment(c.Context, &miner.GenerateCommitmentInput{
						Guess: c.String("guess"),
						Salt:  c.String("salt"),
					})
					if err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "hash: %s\nsalt: %s\n\nreply with:\n%s\n", out.Hash, out.Salt, out.Reply)
					return nil
				}),
			},
			{
				Name:  "commit",
				Usage: "commit a guess to the open round",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "guess", Aliases: []string{"g"}, Required: true},
					&cli.StringFlag{Name: "round", Aliases: []string{"r"}, Usage: "expected round ID"},
					&cli.StringFlag{Name: "wallet", Usage: "payout address; defaults to the configured wallet"},
				},
				Action: withMiner(func(c *cli.Context, _ *stack, svc miner.Service) error {
					out, err := svc.SubmitCommitment(c.Context, &miner.SubmitCommitmentInput{
						RoundID: c.String("round"),
						Guess:   c.String("guess"),
						Wallet:  c.String("wallet"),
					})
					if err != nil {
						return err
					}
					if out.AlreadyPosted {
						fmt.Fprintln(c.App.Writer, "already committed")
					}
					printEntry(c.App.Writer, out.Entry)
					return nil
				}),
			},
			{
				Name:  "reveal",
				Usage: "reveal the stored guess for the round in reveals",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "round", Aliases: []string{"r"}, Usage: "expected round ID"},
				},
				Action: withMiner(func(c *cli.Context, _ *stack, svc miner.Service) error {
					out, err := svc.SubmitReveal(c.Context, &miner.SubmitRevealInput{RoundID: c.String("round")})
					if err != nil {
						return err
					}
					if out.AlreadyPosted {
						fmt.Fprintln(c.App.Writer, "already revealed")
					}
					printEntry(c.App.Writer, out.Entry)
					return nil
				}),
			},
			{
				Name:  "entries",
				Usage: "list stored entries, newest first",
				Flags: []cli.Flag{&cli.IntFlag{Name: "limit", Value: 20}},
				Action: withMiner(func(c *cli.Context, _ *stack, svc miner.Service) error {
					out, err := svc.ListEntries(c.Context, &miner.ListEntriesInput{Limit: c.Int("limit")})
					if err != nil {
						return err
					}
					tw := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
					fmt.Fprintln(tw, "ROUND\tHASH\tCOMMITTED\tREVEALED\tGUESS")
					for _, e := range out.Entries {
						revealed := "-"
						if e.RevealedAt != nil {
							revealed = e.RevealedAt.Format(time.RFC3339)
						}
						fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", e.RoundID, e.Hash[:12], e.CreatedAt.Format(time.RFC3339), revealed, e.Guess)
					}
					return tw.Flush()
				}),
			},
			{
				Name:  "watch",
				Usage: "follow announcements and reveal when reveals open",
				Action: withMiner(func(c *cli.Context, st *stack, svc miner.Service) error {
					watcher, err := workers.NewWatcher(svc, st.logger)
					if err != nil {
						return err
					}
					scheduler, err := workers.NewScheduler(st.logger)
					if err != nil {
						return err
					}
					if err := scheduler.Every("watch", st.cfg.Workers.WatchInterval, watcher.Task()); err != nil {
						return err
					}
					return scheduler.Run(c.Context)
				}),
			},
		},
	}
}

func printEntry(w io.Writer, e *models.Entry) {
	fmt.Fprintf(w, "round %s\n  guess %q\n  hash  %s\n", e.RoundID, e.Guess, e.Hash)
	if e.RevealedAt != nil {
		fmt.Fprintf(w, "  revealed %s\n", e.RevealedAt.Format(time.RFC3339))
	}
}
