package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"text/tabwriter"
	"time"

	"github.com/KirkDiggler/foresight/internal/commitment"
	"github.com/KirkDiggler/foresight/internal/handlers/api"
	"github.com/KirkDiggler/foresight/internal/handlers/discord"
	"github.com/KirkDiggler/foresight/internal/models"
	"github.com/KirkDiggler/foresight/internal/services/round"
	"github.com/KirkDiggler/foresight/internal/workers"
	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

var roundFlag = &cli.StringFlag{Name: "round", Aliases: []string{"r"}, Usage: "round ID", Required: true}

// withValidator runs fn with the round service on the configured channel
func withValidator(fn func(c *cli.Context, st *stack, svc round.Service) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		st, err := newStack(c)
		if err != nil {
			return err
		}
		defer st.Close()

		svc, _, err := st.validator(c.Context)
		if err != nil {
			return err
		}
		return fn(c, st, svc)
	}
}

// transition adapts a single-round transition into a command
func transition(name, usage string, step func(svc round.Service) func(context.Context, *round.TransitionInput) (*round.TransitionOutput, error)) *cli.Command {
	return &cli.Command{
		Name:  name,
		Usage: usage,
		Flags: []cli.Flag{roundFlag},
		Action: withValidator(func(c *cli.Context, _ *stack, svc round.Service) error {
			out, err := step(svc)(c.Context, &round.TransitionInput{RoundID: c.String("round")})
			if err != nil {
				return err
			}
			printRound(c.App.Writer, out.Round)
			return nil
		}),
	}
}

func newValidatorCommand() *cli.Command {
	return &cli.Command{
		Name:  "validator",
		Usage: "run prediction rounds",
		Subcommands: []*cli.Command{
			{
				Name:  "create",
				Usage: "announce a new round and open commitments",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "id", Usage: "round ID; generated when empty"},
					&cli.StringFlag{Name: "description", Aliases: []string{"d"}, Required: true},
					&cli.StringFlag{Name: "stream", Usage: "livestream URL"},
					&cli.StringFlag{Name: "prize", Usage: "prize pool", Required: true},
					&cli.Float64Flag{Name: "fee", Usage: "platform fee in [0, 1); defaults to the configured fee", Value: -1},
					&cli.StringFlag{Name: "currency"},
					&cli.DurationFlag{Name: "commit-for", Usage: "commitment window from now"},
					&cli.DurationFlag{Name: "reveal-for", Usage: "reveal window from the commitment deadline"},
				},
				Action: withValidator(func(c *cli.Context, st *stack, svc round.Service) error {
					prize, err := decimal.NewFromString(c.String("prize"))
					if err != nil {
						return fmt.Errorf("invalid prize pool: %w", err)
					}
					fee := c.Float64("fee")
					if fee < 0 {
						fee = st.cfg.Contest.PlatformFee
					}

					input := &round.CreateRoundInput{
						RoundID:       c.String("id"),
						Description:   c.String("description"),
						LivestreamURL: c.String("stream"),
						PrizePool:     prize,
						PlatformFee:   fee,
						Currency:      c.String("currency"),
					}
					if d := c.Duration("commit-for"); d > 0 {
						deadline := st.clock.Now().Add(d)
						input.CommitmentDeadline = &deadline
						if r := c.Duration("reveal-for"); r > 0 {
							reveal := deadline.Add(r)
							input.RevealDeadline = &reveal
						}
					}

					out, err := svc.CreateRound(c.Context, input)
					if err != nil {
						return err
					}
					printRound(c.App.Writer, out.Round)
					return nil
				}),
			},
			{
				Name:  "status",
				Usage: "show participation and payouts for a round",
				Flags: []cli.Flag{roundFlag},
				Action: withValidator(func(c *cli.Context, _ *stack, svc round.Service) error {
					stats, err := svc.GetRoundStats(c.Context, &round.GetRoundStatsInput{RoundID: c.String("round")})
					if err != nil {
						return err
					}
					printStats(c.App.Writer, stats)
					return nil
				}),
			},
			{
				Name:  "list",
				Usage: "list rounds, newest first",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "active", Usage: "only unfinished rounds"},
					&cli.Int64Flag{Name: "limit", Value: 20},
				},
				Action: withValidator(func(c *cli.Context, _ *stack, svc round.Service) error {
					out, err := svc.ListRounds(c.Context, &round.ListRoundsInput{
						ActiveOnly: c.Bool("active"),
						Limit:      c.Int64("limit"),
					})
					if err != nil {
						return err
					}
					tw := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
					fmt.Fprintln(tw, "ID\tPHASE\tPARTICIPANTS\tPRIZE\tCREATED")
					for _, r := range out.Rounds {
						fmt.Fprintf(tw, "%s\t%s\t%d\t%s %s\t%s\n", r.ID, r.Phase.DisplayName(), len(r.Participants),
							r.PrizePool.String(), r.Currency, r.CreatedAt.Format(time.RFC3339))
					}
					return tw.Flush()
				}),
			},
			{
				Name:  "collect",
				Usage: "read replies for whichever phase is open",
				Flags: []cli.Flag{roundFlag},
				Action: withValidator(func(c *cli.Context, _ *stack, svc round.Service) error {
					out, err := svc.Collect(c.Context, &round.CollectInput{RoundID: c.String("round")})
					if err != nil {
						return err
					}
					printCollect(c.App.Writer, out)
					return nil
				}),
			},
			{
				Name:  "advance",
				Usage: "perform the next step of a round",
				Flags: []cli.Flag{
					roundFlag,
					&cli.StringFlag{Name: "frame", Usage: "target frame, needed after commitments close"},
				},
				Action: withValidator(func(c *cli.Context, _ *stack, svc round.Service) error {
					out, err := svc.Advance(c.Context, &round.AdvanceInput{
						RoundID:   c.String("round"),
						FramePath: c.String("frame"),
					})
					if err != nil {
						return err
					}
					printRound(c.App.Writer, out.Round)
					return nil
				}),
			},
			transition("close-commitments", "collect once more and close commitments",
				func(svc round.Service) func(context.Context, *round.TransitionInput) (*round.TransitionOutput, error) {
					return svc.CloseCommitments
				}),
			{
				Name:  "capture-frame",
				Usage: "record the target frame",
				Flags: []cli.Flag{
					roundFlag,
					&cli.StringFlag{Name: "frame", Required: true},
				},
				Action: withValidator(func(c *cli.Context, _ *stack, svc round.Service) error {
					out, err := svc.CaptureFrame(c.Context, &round.CaptureFrameInput{
						RoundID:   c.String("round"),
						FramePath: c.String("frame"),
					})
					if err != nil {
						return err
					}
					printRound(c.App.Writer, out.Round)
					return nil
				}),
			},
			transition("open-reveals", "post the frame and open reveals",
				func(svc round.Service) func(context.Context, *round.TransitionInput) (*round.TransitionOutput, error) {
					return svc.OpenReveals
				}),
			transition("close-reveals", "collect once more and close reveals",
				func(svc round.Service) func(context.Context, *round.TransitionInput) (*round.TransitionOutput, error) {
					return svc.CloseReveals
				}),
			transition("score", "verify reveals and compute payouts",
				func(svc round.Service) func(context.Context, *round.TransitionInput) (*round.TransitionOutput, error) {
					return svc.ProcessPayouts
				}),
			{
				Name:  "record-payouts",
				Usage: "write the payouts of a round to the ledger",
				Flags: []cli.Flag{roundFlag},
				Action: withValidator(func(c *cli.Context, _ *stack, svc round.Service) error {
					out, err := svc.RecordPayouts(c.Context, &round.TransitionInput{RoundID: c.String("round")})
					if err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "recorded %d payouts, %d already in the ledger\n", out.Recorded, out.Existing)
					return nil
				}),
			},
			transition("finish", "announce results and finish the round",
				func(svc round.Service) func(context.Context, *round.TransitionInput) (*round.TransitionOutput, error) {
					return svc.FinishRound
				}),
			{
				Name:  "mark-paid",
				Usage: "record that a payout was transferred",
				Flags: []cli.Flag{
					roundFlag,
					&cli.StringFlag{Name: "participant", Aliases: []string{"p"}, Required: true},
					&cli.StringFlag{Name: "tx", Usage: "transfer reference", Required: true},
				},
				Action: withValidator(func(c *cli.Context, _ *stack, svc round.Service) error {
					return svc.MarkPayoutPaid(c.Context, &round.MarkPayoutPaidInput{
						RoundID:       c.String("round"),
						ParticipantID: c.String("participant"),
						TxRef:         c.String("tx"),
					})
				}),
			},
			{
				Name:  "leaderboard",
				Usage: "show players by total winnings",
				Flags: []cli.Flag{&cli.IntFlag{Name: "limit", Value: 10}},
				Action: withValidator(func(c *cli.Context, _ *stack, svc round.Service) error {
					out, err := svc.GetLeaderboard(c.Context, &round.GetLeaderboardInput{Limit: c.Int("limit")})
					if err != nil {
						return err
					}
					printLeaderboard(c.App.Writer, out)
					return nil
				}),
			},
			{
				Name:  "watch",
				Usage: "collect replies for every active round on an interval",
				Action: withValidator(func(c *cli.Context, st *stack, svc round.Service) error {
					scheduler, err := collectorScheduler(st, svc)
					if err != nil {
						return err
					}
					return scheduler.Run(c.Context)
				}),
			},
			{
				Name:  "serve",
				Usage: "serve the read API and slash commands while collecting replies",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "addr", Usage: "listen address; defaults to the configured address"},
					&cli.BoolFlag{Name: "no-bot", Usage: "do not register slash commands"},
				},
				Action: withValidator(func(c *cli.Context, st *stack, svc round.Service) error {
					return serve(c, st, svc)
				}),
			},
		},
	}
}

func collectorScheduler(st *stack, svc round.Service) (*workers.Scheduler, error) {
	collector, err := workers.NewCollector(&workers.CollectorConfig{
		Rounds:    svc,
		AutoClose: st.cfg.Workers.AutoClose,
		Clock:     st.clock,
		Logger:    st.logger,
	})
	if err != nil {
		return nil, err
	}

	scheduler, err := workers.NewScheduler(st.logger)
	if err != nil {
		return nil, err
	}
	if err := scheduler.Every("collect", st.cfg.Workers.CollectInterval, collector.Task()); err != nil {
		return nil, err
	}
	return scheduler, nil
}

func serve(c *cli.Context, st *stack, svc round.Service) error {
	handler, err := api.NewHandler(&api.Config{
		Rounds:   svc,
		Gatherer: st.registry,
		Logger:   st.logger,
	})
	if err != nil {
		return err
	}

	addr := c.String("addr")
	if addr == "" {
		addr = st.cfg.HTTP.Address
	}
	server := &http.Server{
		Addr:              addr,
		Handler:           handler.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	scheduler, err := collectorScheduler(st, svc)
	if err != nil {
		return err
	}

	if !c.Bool("no-bot") {
		bot, err := newBot(st, svc)
		if err != nil {
			return err
		}
		if err := bot.Start(); err != nil {
			return err
		}
		defer func() {
			if err := bot.Stop(); err != nil {
				st.logger.Error("failed to stop bot", "error", err)
			}
		}()
	}

	g, ctx := errgroup.WithContext(c.Context)
	g.Go(func() error {
		st.logger.Info("serving API", "addr", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		return scheduler.Run(ctx)
	})
	return g.Wait()
}

func newBot(st *stack, svc round.Service) (*discord.Bot, error) {
	session, err := st.discord()
	if err != nil {
		return nil, err
	}
	msgs, err := st.messaging()
	if err != nil {
		return nil, err
	}
	return discord.New(&discord.Config{
		Session:       session,
		ApplicationID: st.cfg.Discord.ApplicationID,
		GuildID:       st.cfg.Discord.GuildID,
		Commands: []discord.CommandHandler{
			discord.NewCommitmentCommand(commitment.New(nil), msgs),
			discord.NewRoundCommand(svc, msgs),
		},
		Logger: st.logger,
	})
}

func printRound(w io.Writer, r *models.Round) {
	fmt.Fprintf(w, "round %s: %s\n", r.ID, r.Phase.DisplayName())
	if r.Description != "" {
		fmt.Fprintf(w, "  %s\n", r.Description)
	}
	fmt.Fprintf(w, "  prize pool %s %s, fee %.2f%%, %d participants, revision %d\n",
		r.PrizePool.String(), r.Currency, r.PlatformFee*100, len(r.Participants), r.Revision)
	if r.TargetFrame.Path != "" {
		fmt.Fprintf(w, "  frame %s (%s)\n", r.TargetFrame.Path, r.TargetFrame.SHA256)
	}
	if len(r.Results) == 0 {
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "  RANK\tPARTICIPANT\tSCORE\tPAYOUT\tWALLET")
	for _, res := range r.Results {
		name := res.Name
		if name == "" {
			name = res.ParticipantID
		}
		fmt.Fprintf(tw, "  %d\t%s\t%.4f\t%s\t%s\n", res.Rank, name, res.Score, res.Payout.String(), res.Wallet)
	}
	tw.Flush()
}

func printStats(w io.Writer, s *round.GetRoundStatsOutput) {
	fmt.Fprintf(w, "round %s: %s\n", s.RoundID, s.Phase.DisplayName())
	fmt.Fprintf(w, "  participants %d, committed %d, revealed %d, verified %d\n", s.Participants, s.Committed, s.Revealed, s.Verified)
	for reason, n := range s.Excluded {
		fmt.Fprintf(w, "  excluded %s: %d\n", reason, n)
	}
	fmt.Fprintf(w, "  prize pool %s, paid out %s, %d payouts transferred\n", s.PrizePool.String(), s.TotalPayout.String(), s.PaidEntries)
	if s.Summary != "" {
		fmt.Fprintf(w, "  %s\n", s.Summary)
	}
}

func printCollect(w io.Writer, out *round.CollectOutput) {
	fmt.Fprintf(w, "%s: %d replies, %d ignored\n", out.Phase.DisplayName(), out.Replies, out.Ignored)
	if out.Result != nil {
		fmt.Fprintf(w, "  added %d, updated %d, unchanged %d, rejected %d\n",
			out.Result.Added, out.Result.Updated, out.Result.Unchanged, out.Result.Rejected)
	}
}

func printLeaderboard(w io.Writer, out *round.GetLeaderboardOutput) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tPLAYER\tWINNINGS\tROUNDS\tPAID")
	for i, p := range out.Players {
		name := p.Name
		if name == "" {
			name = p.ID
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%d\n", i+1, name, p.TotalWinnings.String(), p.RoundsEntered, p.RoundsPaid)
	}
	tw.Flush()
}
